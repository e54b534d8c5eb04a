package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"raffle-draw-backend/internal/features/draw/models"
	"raffle-draw-backend/internal/features/draw/repository"
)

// CommitmentRepository is the in-process commitment store. It backs tests and
// single-node deployments; the Redis implementation replaces it when the
// service runs against shared infrastructure.
type CommitmentRepository struct {
	mu          sync.RWMutex
	commitments map[string]*repository.StoredCommitment
	now         func() time.Time
}

func NewCommitmentRepository() *CommitmentRepository {
	return &CommitmentRepository{
		commitments: make(map[string]*repository.StoredCommitment),
		now:         time.Now,
	}
}

func (r *CommitmentRepository) Save(ctx context.Context, rec *repository.StoredCommitment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.commitments[rec.Commitment.RaffleID]; ok {
		// Consumed commitments persist as the reveal record; unconsumed
		// ones block until expiry.
		if existing.Commitment.Consumed || r.now().Before(existing.ExpiresAt) {
			return repository.ErrCommitmentExists
		}
	}

	stored := *rec
	r.commitments[rec.Commitment.RaffleID] = &stored
	return nil
}

func (r *CommitmentRepository) Get(ctx context.Context, raffleID string) (*repository.StoredCommitment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.commitments[raffleID]
	if !ok {
		return nil, repository.ErrCommitmentNotFound
	}
	if !rec.Commitment.Consumed && !r.now().Before(rec.ExpiresAt) {
		return nil, repository.ErrCommitmentNotFound
	}

	out := *rec
	return &out, nil
}

func (r *CommitmentRepository) MarkConsumed(ctx context.Context, raffleID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.commitments[raffleID]
	if !ok {
		return repository.ErrCommitmentNotFound
	}
	if rec.Commitment.Consumed {
		return repository.ErrCommitmentConsumed
	}
	if !r.now().Before(rec.ExpiresAt) {
		return repository.ErrCommitmentNotFound
	}

	rec.Commitment.Consumed = true
	return nil
}

func (r *CommitmentRepository) Delete(ctx context.Context, raffleID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.commitments, raffleID)
	return nil
}

// AuditLogRepository is the in-process append-only audit store.
type AuditLogRepository struct {
	mu       sync.RWMutex
	byDrawID map[string]*models.DrawAuditLog
	byRaffle map[string][]string
	verified map[string]models.VerificationMark
}

func NewAuditLogRepository() *AuditLogRepository {
	return &AuditLogRepository{
		byDrawID: make(map[string]*models.DrawAuditLog),
		byRaffle: make(map[string][]string),
		verified: make(map[string]models.VerificationMark),
	}
}

func (r *AuditLogRepository) Append(ctx context.Context, entry *models.DrawAuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byDrawID[entry.DrawID]; ok {
		return repository.ErrDuplicateAudit
	}

	stored := *entry
	r.byDrawID[entry.DrawID] = &stored
	r.byRaffle[entry.RaffleID] = append(r.byRaffle[entry.RaffleID], entry.DrawID)
	return nil
}

func (r *AuditLogRepository) GetByID(ctx context.Context, drawID string) (*models.DrawAuditLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.byDrawID[drawID]
	if !ok {
		return nil, repository.ErrAuditNotFound
	}

	out := *entry
	return &out, nil
}

func (r *AuditLogRepository) GetByRaffle(ctx context.Context, raffleID string) ([]models.DrawAuditLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byRaffle[raffleID]
	entries := make([]models.DrawAuditLog, 0, len(ids))
	for _, id := range ids {
		if entry, ok := r.byDrawID[id]; ok {
			entries = append(entries, *entry)
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})
	return entries, nil
}

func (r *AuditLogRepository) List(ctx context.Context) ([]models.DrawAuditLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]models.DrawAuditLog, 0, len(r.byDrawID))
	for _, entry := range r.byDrawID {
		entries = append(entries, *entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})
	return entries, nil
}

func (r *AuditLogRepository) MarkVerified(ctx context.Context, drawID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.verified[drawID]; ok {
		return nil
	}
	r.verified[drawID] = models.VerificationMark{DrawID: drawID, VerifiedAt: at}
	return nil
}

func (r *AuditLogRepository) GetVerification(ctx context.Context, drawID string) (*models.VerificationMark, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	mark, ok := r.verified[drawID]
	if !ok {
		return nil, nil
	}

	out := mark
	return &out, nil
}
