package service

import (
	"context"
	"testing"
	"time"

	apperrors "raffle-draw-backend/internal/common/errors"
	"raffle-draw-backend/internal/features/draw/models"

	"github.com/stretchr/testify/require"
)

func conductedDraw(t *testing.T, f *fixture, raffleID string, totalTickets, participantCount int64) *models.DrawResult {
	t.Helper()
	ctx := context.Background()
	_, err := f.publisher.Publish(ctx, raffleID, time.Now().Add(time.Minute))
	require.NoError(t, err)
	result, err := f.engine.Conduct(ctx, raffleID, totalTickets, participantCount)
	require.NoError(t, err)
	return result
}

func TestVerifyCompletedDraw(t *testing.T) {
	ctx := context.Background()
	f := newFixture(nil)
	result := conductedDraw(t, f, "raffle-1", 500, 47)

	outcome, err := f.verifier.Verify(ctx, "raffle-1", result.DrawID, 500, 47)
	require.NoError(t, err)
	require.True(t, outcome.Verified)
	require.NotNil(t, outcome.VerifiedAt)

	t.Run("verification mark is first-write-wins", func(t *testing.T) {
		first := *outcome.VerifiedAt
		again, err := f.verifier.Verify(ctx, "raffle-1", result.DrawID, 500, 47)
		require.NoError(t, err)
		require.True(t, again.Verified)
		require.Equal(t, first, *again.VerifiedAt)
	})

	t.Run("stored-parameter replay matches", func(t *testing.T) {
		outcome, err := f.verifier.VerifyStored(ctx, "raffle-1", result.DrawID)
		require.NoError(t, err)
		require.True(t, outcome.Verified)
	})
}

func TestVerifyDetectsParameterChange(t *testing.T) {
	ctx := context.Background()
	f := newFixture(nil)
	result := conductedDraw(t, f, "raffle-1", 500, 47)

	t.Run("changed total tickets", func(t *testing.T) {
		outcome, err := f.verifier.Verify(ctx, "raffle-1", result.DrawID, 501, 47)
		require.NoError(t, err)
		require.False(t, outcome.Verified)
	})

	t.Run("changed participant count", func(t *testing.T) {
		outcome, err := f.verifier.Verify(ctx, "raffle-1", result.DrawID, 500, 48)
		require.NoError(t, err)
		require.False(t, outcome.Verified)
	})
}

func TestVerifyDetectsTamperedSeed(t *testing.T) {
	ctx := context.Background()
	f := newFixture(nil)
	result := conductedDraw(t, f, "raffle-1", 500, 47)

	// Simulate storage-level tampering: re-create the audit entry with one
	// flipped character in the private seed but the original hashes.
	entry, err := f.audits.GetByID(ctx, result.DrawID)
	require.NoError(t, err)

	tampered := *entry
	tampered.DrawID = "tampered-copy"
	seed := tampered.Seed
	flipped := byte('0')
	if seed.PrivateSeed[0] == '0' {
		flipped = '1'
	}
	seed.PrivateSeed = string(flipped) + seed.PrivateSeed[1:]
	tampered.Seed = seed
	tampered.Result.Seed = seed
	require.NoError(t, f.audits.Append(ctx, &tampered))

	outcome, err := f.verifier.Verify(ctx, "raffle-1", "tampered-copy", 500, 47)
	require.NoError(t, err)
	require.False(t, outcome.Verified)
}

func TestVerifyInputErrors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(nil)
	result := conductedDraw(t, f, "raffle-1", 500, 47)

	t.Run("missing audit record", func(t *testing.T) {
		_, err := f.verifier.Verify(ctx, "raffle-1", "missing", 500, 47)
		requireCode(t, err, apperrors.ErrCodeVerificationInput)
	})

	t.Run("raffle mismatch", func(t *testing.T) {
		_, err := f.verifier.Verify(ctx, "other-raffle", result.DrawID, 500, 47)
		requireCode(t, err, apperrors.ErrCodeVerificationInput)
	})

	t.Run("malformed stored seed", func(t *testing.T) {
		entry := models.DrawAuditLog{
			DrawID:       "broken",
			RaffleID:     "raffle-2",
			Method:       models.DrawMethodCrypto,
			TotalTickets: 10,
			Timestamp:    time.Now(),
		}
		require.NoError(t, f.audits.Append(ctx, &entry))

		_, err := f.verifier.Verify(ctx, "raffle-2", "broken", 10, 0)
		requireCode(t, err, apperrors.ErrCodeVerificationInput)
	})
}

func TestGenerateComplianceReport(t *testing.T) {
	ctx := context.Background()
	f := newFixture(&stubFetcher{value: "48123456:deadbeef"})
	result := conductedDraw(t, f, "raffle-1", 500, 47)

	report, err := f.reports.Generate(ctx, "raffle-1")
	require.NoError(t, err)
	require.Equal(t, "raffle-1", report.RaffleID)
	require.Len(t, report.Draws, 1)

	item := report.Draws[0]
	require.Equal(t, result.DrawID, item.DrawID)
	require.Equal(t, models.DrawMethodExternal, item.Method)
	require.Equal(t, result.WinningTicketNumber, item.WinningTicketNumber)
	require.Equal(t, int64(500), item.TotalTickets)
	require.Equal(t, int64(47), item.ParticipantCount)
	require.True(t, item.Verified)
	require.True(t, item.ProofAvailable)
	require.NotEmpty(t, item.SeedHash)

	require.Equal(t, 1, report.Summary.TotalDraws)
	require.Equal(t, 1, report.Summary.VerifiedCount)
	require.Zero(t, report.Summary.FailedCount)
	require.True(t, report.Summary.AllVerified)

	t.Run("raw seed never appears in the report", func(t *testing.T) {
		rec, err := f.audits.GetByID(ctx, result.DrawID)
		require.NoError(t, err)
		require.NotContains(t, item.SeedHash, rec.Seed.PrivateSeed)
		require.NotEqual(t, rec.Seed.PrivateSeed, item.SeedHash)
	})

	t.Run("empty raffle yields empty report", func(t *testing.T) {
		report, err := f.reports.Generate(ctx, "raffle-none")
		require.NoError(t, err)
		require.Empty(t, report.Draws)
		require.Zero(t, report.Summary.TotalDraws)
		require.False(t, report.Summary.AllVerified)
	})

	t.Run("missing raffle id rejected", func(t *testing.T) {
		_, err := f.reports.Generate(ctx, "")
		requireCode(t, err, apperrors.ErrCodeValidation)
	})
}

func TestProofDisclosure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(nil)
	result := conductedDraw(t, f, "raffle-1", 500, 47)

	t.Run("disclosed after the scheduled time has passed", func(t *testing.T) {
		// The fixture schedules draws one minute out, but the commitment
		// has been consumed by an executed draw; disclosure is gated on
		// the scheduled time, so this stays sealed.
		_, err := f.engine.Proof(ctx, "raffle-1", result.DrawID)
		requireCode(t, err, apperrors.ErrCodeForbidden)
	})

	t.Run("unknown draw", func(t *testing.T) {
		_, err := f.engine.Proof(ctx, "raffle-1", "missing")
		requireCode(t, err, apperrors.ErrCodeNotFound)
	})

	t.Run("raffle mismatch", func(t *testing.T) {
		_, err := f.engine.Proof(ctx, "other", result.DrawID)
		requireCode(t, err, apperrors.ErrCodeNotFound)
	})
}

func TestProofDisclosedAfterScheduledTime(t *testing.T) {
	ctx := context.Background()
	f := newFixture(nil)

	// Publish with a scheduled time already in the past; the commitment
	// grace keeps it live long enough to draw.
	_, err := f.publisher.Publish(ctx, "raffle-1", time.Now().Add(-time.Second))
	require.NoError(t, err)
	result, err := f.engine.Conduct(ctx, "raffle-1", 500, 47)
	require.NoError(t, err)

	proof, err := f.engine.Proof(ctx, "raffle-1", result.DrawID)
	require.NoError(t, err)
	require.Equal(t, result.WinningTicketNumber, proof.WinningTicketNumber)
	require.Equal(t, result.Seed.PrivateSeed, proof.PrivateSeed)
}
