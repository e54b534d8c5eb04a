package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppErrorClassification(t *testing.T) {
	cases := []struct {
		name       string
		err        *AppError
		conflict   bool
		notFound   bool
		validation bool
	}{
		{"duplicate commitment", NewDuplicateCommitmentError("r1"), true, false, false},
		{"draw already conducted", NewDrawAlreadyConductedError("r1"), true, false, false},
		{"seed not found", NewSeedNotFoundError("r1"), false, true, false},
		{"invalid parameters", NewInvalidDrawParametersError("total tickets must be at least 1"), false, false, true},
		{"generic not found", NewNotFoundError("draw audit", "d1"), false, true, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.conflict, tc.err.IsConflict())
			require.Equal(t, tc.notFound, tc.err.IsNotFound())
			require.Equal(t, tc.validation, tc.err.IsValidation())
		})
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	appErr := NewStorageError("audit append", cause)

	require.ErrorIs(t, appErr, cause)
	require.Contains(t, appErr.Error(), "STORAGE_ERROR")
	require.Contains(t, appErr.Error(), "connection refused")
}

func TestAsAppError(t *testing.T) {
	appErr, ok := AsAppError(NewSeedNotFoundError("r1"))
	require.True(t, ok)
	require.Equal(t, ErrCodeSeedNotFound, appErr.Code)

	_, ok = AsAppError(stderrors.New("plain"))
	require.False(t, ok)

	_, ok = AsAppError(nil)
	require.False(t, ok)
}
