package entropy

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	value string
	err   error
	delay time.Duration
}

func (f *stubFetcher) Fetch(ctx context.Context) (string, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.value, f.err
}

func TestFractionRange(t *testing.T) {
	src := New(nil, time.Second)
	for i := 0; i < 1000; i++ {
		f, err := src.Fraction()
		require.NoError(t, err)
		require.GreaterOrEqual(t, f, 0.0)
		require.Less(t, f, 1.0)
	}
}

func TestBytesLengthAndFreshness(t *testing.T) {
	src := New(nil, time.Second)

	a, err := src.Bytes(32)
	require.NoError(t, err)
	require.Len(t, a, 32)

	b, err := src.Bytes(32)
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestFetchExternalWithoutFetcher(t *testing.T) {
	src := New(nil, time.Second)
	_, err := src.FetchExternal(context.Background())
	require.ErrorIs(t, err, ErrExternalUnavailable)
}

func TestFetchExternalSuccess(t *testing.T) {
	src := New(&stubFetcher{value: "48123456:deadbeef"}, time.Second)
	value, err := src.FetchExternal(context.Background())
	require.NoError(t, err)
	require.Equal(t, "48123456:deadbeef", value)
}

func TestFetchExternalFailureFallsBack(t *testing.T) {
	src := New(&stubFetcher{err: errors.New("lite server unreachable")}, time.Second)
	_, err := src.FetchExternal(context.Background())
	require.ErrorIs(t, err, ErrExternalUnavailable)
}

func TestFetchExternalEmptyValueFallsBack(t *testing.T) {
	src := New(&stubFetcher{value: ""}, time.Second)
	_, err := src.FetchExternal(context.Background())
	require.ErrorIs(t, err, ErrExternalUnavailable)
}

func TestFetchExternalTimeoutIsBounded(t *testing.T) {
	src := New(&stubFetcher{value: "late", delay: 500 * time.Millisecond}, 50*time.Millisecond)

	start := time.Now()
	_, err := src.FetchExternal(context.Background())
	require.ErrorIs(t, err, ErrExternalUnavailable)
	require.Less(t, time.Since(start), 400*time.Millisecond)
}
