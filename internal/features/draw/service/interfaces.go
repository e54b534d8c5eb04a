package service

import (
	"context"
	"time"

	"raffle-draw-backend/internal/features/draw/models"
)

// CommitmentPublisher publishes the one-way seed commitment for a scheduled
// draw and retains the seed privately until reveal.
type CommitmentPublisher interface {
	Publish(ctx context.Context, raffleID string, scheduledAt time.Time) (*models.Commitment, error)
}

// DrawEngine reveals the committed seed and deterministically derives the
// winning ticket.
type DrawEngine interface {
	Conduct(ctx context.Context, raffleID string, totalTickets, participantCount int64) (*models.DrawResult, error)
	// Proof discloses the full reproduction proof for a completed draw. The
	// proof contains the revealed private seed, so disclosure is gated on
	// the scheduled draw time having passed.
	Proof(ctx context.Context, raffleID, drawID string) (*models.Proof, error)
}

// VerificationOutcome is the result of an independent draw verification. A
// mismatch is a normal negative outcome, not an error.
type VerificationOutcome struct {
	Verified   bool
	Entry      models.DrawAuditLog
	VerifiedAt *time.Time
}

// VerificationService reproduces a draw's computation from the stored audit
// record and compares it with the stored outcome.
type VerificationService interface {
	Verify(ctx context.Context, raffleID, drawID string, totalTickets, participantCount int64) (*VerificationOutcome, error)
	// VerifyStored replays the draw with the parameters recorded at draw
	// time.
	VerifyStored(ctx context.Context, raffleID, drawID string) (*VerificationOutcome, error)
}

// ReportGenerator aggregates a raffle's audit records into a transparency
// report.
type ReportGenerator interface {
	Generate(ctx context.Context, raffleID string) (*models.ComplianceReport, error)
}

// AuditReader serves the sanitized public audit listing.
type AuditReader interface {
	List(ctx context.Context, raffleID string) ([]models.DrawAuditLog, error)
	VerificationMark(ctx context.Context, drawID string) (*models.VerificationMark, error)
}
