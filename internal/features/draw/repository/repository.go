package repository

import (
	"context"
	"errors"
	"time"

	"raffle-draw-backend/internal/features/draw/models"
)

var (
	ErrCommitmentNotFound = errors.New("commitment not found")
	ErrCommitmentExists   = errors.New("a live commitment already exists")
	ErrCommitmentConsumed = errors.New("commitment already consumed")
	ErrAuditNotFound      = errors.New("audit record not found")
	ErrDuplicateAudit     = errors.New("audit record already exists")
)

// StoredCommitment is the privately retained pairing of a published commitment
// with its seed. The seed must never leave the store before reveal.
type StoredCommitment struct {
	Commitment models.Commitment `json:"commitment"`
	Seed       models.DrawSeed   `json:"seed"`
	// ExpiresAt bounds how long an unconsumed commitment stays live.
	ExpiresAt time.Time `json:"expires_at"`
}

// CommitmentRepository keeps commitments keyed by raffle id. Commitments are
// ephemeral until consumed; a consumed commitment is retained as the record of
// the reveal.
type CommitmentRepository interface {
	// Save stores a new commitment. It fails with ErrCommitmentExists when a
	// live (unconsumed, unexpired) or consumed commitment is already present.
	Save(ctx context.Context, rec *StoredCommitment) error

	// Get returns the commitment for a raffle. Expired unconsumed
	// commitments are reported as ErrCommitmentNotFound.
	Get(ctx context.Context, raffleID string) (*StoredCommitment, error)

	// MarkConsumed atomically flips the consumed flag. It fails with
	// ErrCommitmentConsumed when the flag was already set, which is the
	// replay guard for concurrent or repeated draw attempts.
	MarkConsumed(ctx context.Context, raffleID string) error

	// Delete removes a commitment. Used to burn a consumed commitment whose
	// draw failed before being logged, so the raffle can be re-scheduled.
	Delete(ctx context.Context, raffleID string) error
}

// AuditLogRepository is append-only: entries can be added and read, never
// updated or deleted. Verification marks are stored beside the entries so the
// entries themselves stay immutable.
type AuditLogRepository interface {
	// Append stores a new audit entry, failing with ErrDuplicateAudit when
	// an entry with the same draw id exists.
	Append(ctx context.Context, entry *models.DrawAuditLog) error

	GetByID(ctx context.Context, drawID string) (*models.DrawAuditLog, error)
	GetByRaffle(ctx context.Context, raffleID string) ([]models.DrawAuditLog, error)
	List(ctx context.Context) ([]models.DrawAuditLog, error)

	// MarkVerified records a successful verification, first write wins.
	MarkVerified(ctx context.Context, drawID string, at time.Time) error

	// GetVerification returns the verification mark for a draw, or nil when
	// the draw has not been verified yet.
	GetVerification(ctx context.Context, drawID string) (*models.VerificationMark, error)
}
