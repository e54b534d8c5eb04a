package service

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "raffle-draw-backend/internal/common/errors"
	"raffle-draw-backend/internal/features/draw/entropy"
	"raffle-draw-backend/internal/features/draw/models"
	"raffle-draw-backend/internal/features/draw/repository/memory"

	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	value string
	err   error
}

func (f *stubFetcher) Fetch(ctx context.Context) (string, error) {
	return f.value, f.err
}

type fixture struct {
	commitments *memory.CommitmentRepository
	audits      *memory.AuditLogRepository
	publisher   CommitmentPublisher
	engine      DrawEngine
	verifier    VerificationService
	reports     ReportGenerator
}

func newFixture(fetcher entropy.ExternalFetcher) *fixture {
	commitments := memory.NewCommitmentRepository()
	audits := memory.NewAuditLogRepository()
	src := entropy.New(fetcher, time.Second)

	verifier := NewVerificationService(audits)
	return &fixture{
		commitments: commitments,
		audits:      audits,
		publisher:   NewCommitmentPublisher(commitments, audits, src, time.Hour),
		engine:      NewDrawEngine(commitments, audits),
		verifier:    verifier,
		reports:     NewReportGenerator(audits, verifier),
	}
}

func requireCode(t *testing.T, err error, code apperrors.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	require.Equal(t, code, appErr.Code)
}

func TestPublishCommitment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(nil)

	scheduled := time.Now().Add(time.Minute)
	commitment, err := f.publisher.Publish(ctx, "raffle-1", scheduled)
	require.NoError(t, err)
	require.Equal(t, "raffle-1", commitment.RaffleID)
	require.Len(t, commitment.CommitmentHash, 64)
	require.False(t, commitment.PublishedAt.IsZero())

	t.Run("commitment hash matches retained seed", func(t *testing.T) {
		rec, err := f.commitments.Get(ctx, "raffle-1")
		require.NoError(t, err)
		require.Equal(t, commitment.CommitmentHash, rec.Seed.Hash())
		require.NotEmpty(t, rec.Seed.PublicSeed)
		require.NotEmpty(t, rec.Seed.PrivateSeed)
		require.NotEqual(t, rec.Seed.PublicSeed, rec.Seed.PrivateSeed)
	})

	t.Run("second publish fails while commitment is live", func(t *testing.T) {
		_, err := f.publisher.Publish(ctx, "raffle-1", scheduled)
		requireCode(t, err, apperrors.ErrCodeDuplicateCommitment)
	})

	t.Run("fresh seeds per raffle", func(t *testing.T) {
		other, err := f.publisher.Publish(ctx, "raffle-2", scheduled)
		require.NoError(t, err)
		require.NotEqual(t, commitment.CommitmentHash, other.CommitmentHash)
	})

	t.Run("missing inputs rejected", func(t *testing.T) {
		_, err := f.publisher.Publish(ctx, "", scheduled)
		requireCode(t, err, apperrors.ErrCodeValidation)

		_, err = f.publisher.Publish(ctx, "raffle-3", time.Time{})
		requireCode(t, err, apperrors.ErrCodeValidation)
	})
}

func TestPublishSealsExternalEntropy(t *testing.T) {
	ctx := context.Background()

	t.Run("external entropy attached when reachable", func(t *testing.T) {
		f := newFixture(&stubFetcher{value: "48123456:deadbeef"})
		_, err := f.publisher.Publish(ctx, "raffle-1", time.Now().Add(time.Minute))
		require.NoError(t, err)

		rec, err := f.commitments.Get(ctx, "raffle-1")
		require.NoError(t, err)
		require.Equal(t, "48123456:deadbeef", rec.Seed.ExternalEntropy)
	})

	t.Run("fetch failure falls back to crypto-only", func(t *testing.T) {
		f := newFixture(&stubFetcher{err: errors.New("unreachable")})
		_, err := f.publisher.Publish(ctx, "raffle-1", time.Now().Add(time.Minute))
		require.NoError(t, err)

		rec, err := f.commitments.Get(ctx, "raffle-1")
		require.NoError(t, err)
		require.Empty(t, rec.Seed.ExternalEntropy)
	})
}

func TestConductDraw(t *testing.T) {
	ctx := context.Background()
	f := newFixture(nil)

	_, err := f.publisher.Publish(ctx, "raffle-1", time.Now().Add(time.Minute))
	require.NoError(t, err)

	result, err := f.engine.Conduct(ctx, "raffle-1", 500, 47)
	require.NoError(t, err)

	t.Run("winner is in range", func(t *testing.T) {
		require.GreaterOrEqual(t, result.WinningTicketNumber, int64(1))
		require.LessOrEqual(t, result.WinningTicketNumber, int64(500))
	})

	t.Run("proof reproduces the computation", func(t *testing.T) {
		proof, err := models.ParseProof(result.Proof)
		require.NoError(t, err)
		require.Equal(t, result.Seed.PublicSeed, proof.PublicSeed)
		require.Equal(t, result.Seed.PrivateSeed, proof.PrivateSeed)
		require.Equal(t, int64(500), proof.TotalTickets)
		require.Equal(t, int64(47), proof.ParticipantCount)
		require.Equal(t, result.WinningTicketNumber, proof.WinningTicketNumber)
	})

	t.Run("exactly one audit entry appended", func(t *testing.T) {
		entries, err := f.audits.GetByRaffle(ctx, "raffle-1")
		require.NoError(t, err)
		require.Len(t, entries, 1)
		require.Equal(t, result.DrawID, entries[0].DrawID)
		require.Equal(t, models.DrawMethodCrypto, entries[0].Method)
		require.Equal(t, result.Seed.Hash(), entries[0].Verification.SeedHash)
	})

	t.Run("second draw for the same raffle is rejected", func(t *testing.T) {
		_, err := f.engine.Conduct(ctx, "raffle-1", 500, 47)
		requireCode(t, err, apperrors.ErrCodeDrawAlreadyConducted)

		entries, err := f.audits.GetByRaffle(ctx, "raffle-1")
		require.NoError(t, err)
		require.Len(t, entries, 1)
	})

	t.Run("republication after a conducted draw is rejected", func(t *testing.T) {
		_, err := f.publisher.Publish(ctx, "raffle-1", time.Now().Add(time.Minute))
		requireCode(t, err, apperrors.ErrCodeDrawAlreadyConducted)
	})
}

func TestConductDrawValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(nil)

	_, err := f.publisher.Publish(ctx, "raffle-1", time.Now().Add(time.Minute))
	require.NoError(t, err)

	t.Run("zero tickets", func(t *testing.T) {
		_, err := f.engine.Conduct(ctx, "raffle-1", 0, 47)
		requireCode(t, err, apperrors.ErrCodeInvalidDrawParameters)
	})

	t.Run("negative participants", func(t *testing.T) {
		_, err := f.engine.Conduct(ctx, "raffle-1", 500, -1)
		requireCode(t, err, apperrors.ErrCodeInvalidDrawParameters)
	})

	t.Run("failed validation does not consume the commitment", func(t *testing.T) {
		_, err := f.engine.Conduct(ctx, "raffle-1", 500, 47)
		require.NoError(t, err)
	})

	t.Run("no commitment", func(t *testing.T) {
		_, err := f.engine.Conduct(ctx, "raffle-nope", 500, 47)
		requireCode(t, err, apperrors.ErrCodeSeedNotFound)
	})
}

func TestConductDrawUsesExternalMethod(t *testing.T) {
	ctx := context.Background()
	f := newFixture(&stubFetcher{value: "48123456:deadbeef"})

	_, err := f.publisher.Publish(ctx, "raffle-1", time.Now().Add(time.Minute))
	require.NoError(t, err)

	result, err := f.engine.Conduct(ctx, "raffle-1", 100, 10)
	require.NoError(t, err)
	require.Equal(t, "48123456:deadbeef", result.Seed.ExternalEntropy)

	entries, err := f.audits.GetByRaffle(ctx, "raffle-1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, models.DrawMethodExternal, entries[0].Method)
}

func TestDrawDeterminism(t *testing.T) {
	// Same seed and parameters must always produce the same winner;
	// independent verification is meaningless otherwise.
	seed := models.DrawSeed{
		PublicSeed:      "1724800000000-a1b2c3d4e5f60718293a4b5c6d7e8f90",
		PrivateSeed:     "5f4dcc3b5aa765d61d8327deb882cf99aabbccddeeff00112233445566778899",
		Timestamp:       1724800000000,
		ExternalEntropy: "48123456:deadbeef",
	}

	first := models.DeriveWinningTicket(seed.CombinedHash(500, 47), 500)
	for i := 0; i < 20; i++ {
		require.Equal(t, first, models.DeriveWinningTicket(seed.CombinedHash(500, 47), 500))
	}
}
