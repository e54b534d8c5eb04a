package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "raffle-draw-backend/internal/common/errors"
	"raffle-draw-backend/internal/common/logger"
	"raffle-draw-backend/internal/common/metrics"
	"raffle-draw-backend/internal/features/draw/models"
	"raffle-draw-backend/internal/features/draw/repository"

	"github.com/google/uuid"
)

type drawService struct {
	commitments repository.CommitmentRepository
	audits      repository.AuditLogRepository
	now         func() time.Time
}

// NewDrawEngine creates the draw engine over the given stores.
func NewDrawEngine(commitments repository.CommitmentRepository, audits repository.AuditLogRepository) DrawEngine {
	return &drawService{
		commitments: commitments,
		audits:      audits,
		now:         time.Now,
	}
}

// Conduct reveals the committed seed for a raffle and derives the winning
// ticket. The commitment is consumed atomically before the computation so a
// raffle can never be drawn twice; the audit entry must be durably appended
// before the draw is reported successful. Conduct is never retried internally:
// a failed draw requires an explicit re-schedule with a fresh commitment.
func (s *drawService) Conduct(ctx context.Context, raffleID string, totalTickets, participantCount int64) (*models.DrawResult, error) {
	if err := validateDrawParams(totalTickets, participantCount); err != nil {
		metrics.DrawFailures.WithLabelValues(string(apperrors.ErrCodeInvalidDrawParameters)).Inc()
		return nil, err
	}

	rec, err := s.commitments.Get(ctx, raffleID)
	if err != nil {
		if errors.Is(err, repository.ErrCommitmentNotFound) {
			metrics.DrawFailures.WithLabelValues(string(apperrors.ErrCodeSeedNotFound)).Inc()
			return nil, apperrors.NewSeedNotFoundError(raffleID)
		}
		return nil, apperrors.NewStorageError("commitment lookup", err)
	}
	if rec.Commitment.Consumed {
		metrics.DrawFailures.WithLabelValues(string(apperrors.ErrCodeDrawAlreadyConducted)).Inc()
		return nil, apperrors.NewDrawAlreadyConductedError(raffleID)
	}

	// The consumed flag is the replay guard: of any number of concurrent
	// draw attempts, exactly one passes this compare-and-swap.
	if err := s.commitments.MarkConsumed(ctx, raffleID); err != nil {
		switch {
		case errors.Is(err, repository.ErrCommitmentConsumed):
			metrics.DrawFailures.WithLabelValues(string(apperrors.ErrCodeDrawAlreadyConducted)).Inc()
			return nil, apperrors.NewDrawAlreadyConductedError(raffleID)
		case errors.Is(err, repository.ErrCommitmentNotFound):
			metrics.DrawFailures.WithLabelValues(string(apperrors.ErrCodeSeedNotFound)).Inc()
			return nil, apperrors.NewSeedNotFoundError(raffleID)
		default:
			return nil, apperrors.NewStorageError("commitment consume", err)
		}
	}

	seed := rec.Seed
	finalHash := seed.CombinedHash(totalTickets, participantCount)
	winning := models.DeriveWinningTicket(finalHash, totalTickets)

	proof, err := models.BuildProof(seed, totalTickets, participantCount, finalHash, winning)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to encode proof")
	}

	result := models.DrawResult{
		DrawID:              uuid.New().String(),
		WinningTicketNumber: winning,
		Seed:                seed,
		Proof:               proof,
		ComputedAt:          s.now(),
	}

	method := models.DrawMethodCrypto
	if seed.ExternalEntropy != "" {
		method = models.DrawMethodExternal
	}

	entry := models.NewAuditEntry(raffleID, result, method, totalTickets, participantCount)
	if err := s.audits.Append(ctx, &entry); err != nil {
		// An unlogged draw is a non-event. Burn the consumed commitment so
		// the raffle can be re-scheduled with a fresh one.
		if delErr := s.commitments.Delete(ctx, raffleID); delErr != nil {
			logger.Error().Err(delErr).Str("raffle_id", raffleID).
				Msg("Failed to burn commitment after audit append failure")
		}
		metrics.DrawFailures.WithLabelValues(string(apperrors.ErrCodeStorage)).Inc()
		return nil, apperrors.NewStorageError("audit append", err)
	}

	metrics.DrawsConducted.WithLabelValues(string(method)).Inc()
	logger.Info().
		Str("raffle_id", raffleID).
		Str("draw_id", result.DrawID).
		Str("method", string(method)).
		Int64("winning_ticket_number", winning).
		Int64("total_tickets", totalTickets).
		Msg("Draw conducted")

	return &result, nil
}

// Proof discloses the reproduction proof for a completed draw. Early
// disclosure would defeat the commit-reveal guarantee, so proofs stay sealed
// until the commitment's scheduled draw time has passed.
func (s *drawService) Proof(ctx context.Context, raffleID, drawID string) (*models.Proof, error) {
	entry, err := s.audits.GetByID(ctx, drawID)
	if err != nil {
		if errors.Is(err, repository.ErrAuditNotFound) {
			return nil, apperrors.NewNotFoundError("draw audit", drawID)
		}
		return nil, apperrors.NewStorageError("audit lookup", err)
	}
	if entry.RaffleID != raffleID {
		return nil, apperrors.NewNotFoundError("draw audit", drawID)
	}

	if rec, err := s.commitments.Get(ctx, raffleID); err == nil {
		if s.now().Before(rec.Commitment.ScheduledDrawTime) {
			return nil, apperrors.New(apperrors.ErrCodeForbidden,
				"proof is sealed until the scheduled draw time has passed")
		}
	}

	proof, err := models.ParseProof(entry.Result.Proof)
	if err != nil {
		return nil, apperrors.NewVerificationInputError(fmt.Sprintf("stored proof is malformed: %v", err))
	}
	return proof, nil
}

func validateDrawParams(totalTickets, participantCount int64) error {
	if totalTickets < 1 {
		return apperrors.NewInvalidDrawParametersError("total tickets must be at least 1")
	}
	if participantCount < 0 {
		return apperrors.NewInvalidDrawParametersError("participant count cannot be negative")
	}
	return nil
}
