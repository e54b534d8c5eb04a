package service

import (
	"context"
	"time"

	apperrors "raffle-draw-backend/internal/common/errors"
	"raffle-draw-backend/internal/features/draw/models"
	"raffle-draw-backend/internal/features/draw/repository"
)

type reportService struct {
	audits   repository.AuditLogRepository
	verifier VerificationService
	now      func() time.Time
}

// NewReportGenerator creates the compliance report generator. It is a pure
// read path over the audit store plus the verifier.
func NewReportGenerator(audits repository.AuditLogRepository, verifier VerificationService) ReportGenerator {
	return &reportService{audits: audits, verifier: verifier, now: time.Now}
}

// Generate aggregates every audit entry of a raffle into a transparency
// report. Each entry is re-verified with its originally recorded parameters;
// raw private seeds never appear in the output.
func (s *reportService) Generate(ctx context.Context, raffleID string) (*models.ComplianceReport, error) {
	if raffleID == "" {
		return nil, apperrors.New(apperrors.ErrCodeValidation, "raffle id is required")
	}

	entries, err := s.audits.GetByRaffle(ctx, raffleID)
	if err != nil {
		return nil, apperrors.NewStorageError("audit listing", err)
	}

	report := &models.ComplianceReport{
		RaffleID:    raffleID,
		GeneratedAt: s.now(),
		Draws:       make([]models.DrawReportEntry, 0, len(entries)),
	}

	for _, entry := range entries {
		item := models.DrawReportEntry{
			DrawID:              entry.DrawID,
			Method:              entry.Method,
			SeedHash:            entry.Verification.SeedHash,
			ResultHash:          entry.Verification.ResultHash,
			WinningTicketNumber: entry.Result.WinningTicketNumber,
			TotalTickets:        entry.TotalTickets,
			ParticipantCount:    entry.ParticipantCount,
			Timestamp:           entry.Timestamp,
			ProofAvailable:      entry.Result.Proof != "",
		}

		outcome, err := s.verifier.Verify(ctx, raffleID, entry.DrawID, entry.TotalTickets, entry.ParticipantCount)
		if err == nil {
			item.Verified = outcome.Verified
			item.VerifiedAt = outcome.VerifiedAt
		}

		if item.Verified {
			report.Summary.VerifiedCount++
		} else {
			report.Summary.FailedCount++
		}
		report.Draws = append(report.Draws, item)
	}

	report.Summary.TotalDraws = len(report.Draws)
	report.Summary.AllVerified = report.Summary.TotalDraws > 0 &&
		report.Summary.VerifiedCount == report.Summary.TotalDraws
	return report, nil
}
