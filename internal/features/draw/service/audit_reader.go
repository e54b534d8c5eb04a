package service

import (
	"context"

	apperrors "raffle-draw-backend/internal/common/errors"
	"raffle-draw-backend/internal/features/draw/models"
	"raffle-draw-backend/internal/features/draw/repository"
)

type auditReader struct {
	audits repository.AuditLogRepository
}

// NewAuditReader creates the read-only audit listing service.
func NewAuditReader(audits repository.AuditLogRepository) AuditReader {
	return &auditReader{audits: audits}
}

// List returns the audit entries for a raffle, or every entry when raffleID
// is empty.
func (s *auditReader) List(ctx context.Context, raffleID string) ([]models.DrawAuditLog, error) {
	var entries []models.DrawAuditLog
	var err error
	if raffleID == "" {
		entries, err = s.audits.List(ctx)
	} else {
		entries, err = s.audits.GetByRaffle(ctx, raffleID)
	}
	if err != nil {
		return nil, apperrors.NewStorageError("audit listing", err)
	}
	return entries, nil
}

func (s *auditReader) VerificationMark(ctx context.Context, drawID string) (*models.VerificationMark, error) {
	mark, err := s.audits.GetVerification(ctx, drawID)
	if err != nil {
		return nil, apperrors.NewStorageError("verification lookup", err)
	}
	return mark, nil
}
