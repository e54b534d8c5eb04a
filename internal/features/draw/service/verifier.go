package service

import (
	"context"
	"errors"
	"time"

	apperrors "raffle-draw-backend/internal/common/errors"
	"raffle-draw-backend/internal/common/logger"
	"raffle-draw-backend/internal/common/metrics"
	"raffle-draw-backend/internal/features/draw/models"
	"raffle-draw-backend/internal/features/draw/repository"
)

type verificationService struct {
	audits repository.AuditLogRepository
	now    func() time.Time
}

// NewVerificationService creates the independent draw verifier. It reads only
// the audit store and takes no locks.
func NewVerificationService(audits repository.AuditLogRepository) VerificationService {
	return &verificationService{audits: audits, now: time.Now}
}

// Verify recomputes the winner from the stored seed exactly as the draw engine
// did and compares every stored hash along the way. A mismatch returns a
// negative outcome, never an error: this is the check any third party can run,
// and "the operator cheated" is a result, not a failure of the verifier.
func (s *verificationService) Verify(ctx context.Context, raffleID, drawID string, totalTickets, participantCount int64) (*VerificationOutcome, error) {
	entry, err := s.audits.GetByID(ctx, drawID)
	if err != nil {
		if errors.Is(err, repository.ErrAuditNotFound) {
			return nil, apperrors.NewVerificationInputError("audit record not found").
				WithDetail("draw_id", drawID)
		}
		return nil, apperrors.NewStorageError("audit lookup", err)
	}
	if entry.RaffleID != raffleID {
		return nil, apperrors.NewVerificationInputError("audit record does not belong to raffle").
			WithDetail("draw_id", drawID).
			WithDetail("raffle_id", raffleID)
	}
	if entry.Seed.PublicSeed == "" || entry.Seed.PrivateSeed == "" {
		return nil, apperrors.NewVerificationInputError("stored seed is malformed")
	}
	if entry.TotalTickets < 1 {
		return nil, apperrors.NewVerificationInputError("stored total tickets is malformed")
	}

	finalHash := entry.Seed.CombinedHash(totalTickets, participantCount)
	expected := models.DeriveWinningTicket(finalHash, totalTickets)

	verified := expected == entry.Result.WinningTicketNumber &&
		entry.Seed.Hash() == entry.Verification.SeedHash &&
		models.ResultHash(finalHash, entry.Result.WinningTicketNumber, totalTickets, participantCount) == entry.Verification.ResultHash

	outcome := &VerificationOutcome{Verified: verified, Entry: *entry}

	if verified {
		metrics.Verifications.WithLabelValues("match").Inc()
		at := s.now()
		if err := s.audits.MarkVerified(ctx, drawID, at); err != nil {
			// The verification itself succeeded; a lost mark only delays
			// the listing flag.
			logger.Warn().Err(err).Str("draw_id", drawID).Msg("Failed to record verification mark")
		}
	} else {
		metrics.Verifications.WithLabelValues("mismatch").Inc()
		logger.Warn().
			Str("draw_id", drawID).
			Str("raffle_id", raffleID).
			Int64("expected_winning_ticket", expected).
			Int64("stored_winning_ticket", entry.Result.WinningTicketNumber).
			Msg("Draw verification mismatch")
	}

	if mark, err := s.audits.GetVerification(ctx, drawID); err == nil && mark != nil {
		outcome.VerifiedAt = &mark.VerifiedAt
	}
	return outcome, nil
}

// VerifyStored replays the draw with the total tickets and participant count
// recorded in the audit entry itself.
func (s *verificationService) VerifyStored(ctx context.Context, raffleID, drawID string) (*VerificationOutcome, error) {
	entry, err := s.audits.GetByID(ctx, drawID)
	if err != nil {
		if errors.Is(err, repository.ErrAuditNotFound) {
			return nil, apperrors.NewVerificationInputError("audit record not found").
				WithDetail("draw_id", drawID)
		}
		return nil, apperrors.NewStorageError("audit lookup", err)
	}
	return s.Verify(ctx, raffleID, drawID, entry.TotalTickets, entry.ParticipantCount)
}
