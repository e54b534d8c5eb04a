package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"raffle-draw-backend/internal/features/draw/models"
	"raffle-draw-backend/internal/features/draw/repository"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefixCommitment = "draw:commitment:"
	keyPrefixConsumed   = "draw:consumed:"
	keyPrefixAudit      = "draw:audit:"
	keyPrefixRaffleIdx  = "draw:audits:raffle:"
	keyAuditIndex       = "draw:audits:all"
	keyPrefixVerified   = "draw:verified:"
)

func makeCommitmentKey(raffleID string) string {
	return keyPrefixCommitment + raffleID
}

func makeConsumedKey(raffleID string) string {
	return keyPrefixConsumed + raffleID
}

func makeAuditKey(drawID string) string {
	return keyPrefixAudit + drawID
}

func makeRaffleIndexKey(raffleID string) string {
	return keyPrefixRaffleIdx + raffleID
}

func makeVerifiedKey(drawID string) string {
	return keyPrefixVerified + drawID
}

// CommitmentRepository stores commitments in Redis. Liveness of unconsumed
// commitments is delegated to key TTLs; consumption is an atomic SETNX flag so
// two racing draw attempts can never both win.
type CommitmentRepository struct {
	client redis.UniversalClient
}

func NewCommitmentRepository(client redis.UniversalClient) *CommitmentRepository {
	return &CommitmentRepository{client: client}
}

func (r *CommitmentRepository) Save(ctx context.Context, rec *repository.StoredCommitment) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal commitment: %w", err)
	}

	ttl := time.Until(rec.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("commitment already expired at save time")
	}

	ok, err := r.client.SetNX(ctx, makeCommitmentKey(rec.Commitment.RaffleID), data, ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return repository.ErrCommitmentExists
	}
	return nil
}

func (r *CommitmentRepository) Get(ctx context.Context, raffleID string) (*repository.StoredCommitment, error) {
	data, err := r.client.Get(ctx, makeCommitmentKey(raffleID)).Bytes()
	if err == redis.Nil {
		return nil, repository.ErrCommitmentNotFound
	}
	if err != nil {
		return nil, err
	}

	var rec repository.StoredCommitment
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal commitment: %w", err)
	}

	consumed, err := r.client.Exists(ctx, makeConsumedKey(raffleID)).Result()
	if err != nil {
		return nil, err
	}
	rec.Commitment.Consumed = consumed > 0
	return &rec, nil
}

func (r *CommitmentRepository) MarkConsumed(ctx context.Context, raffleID string) error {
	exists, err := r.client.Exists(ctx, makeCommitmentKey(raffleID)).Result()
	if err != nil {
		return err
	}
	if exists == 0 {
		return repository.ErrCommitmentNotFound
	}

	ok, err := r.client.SetNX(ctx, makeConsumedKey(raffleID), "1", 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return repository.ErrCommitmentConsumed
	}

	// The consumed commitment is the reveal record; keep it past its TTL.
	if err := r.client.Persist(ctx, makeCommitmentKey(raffleID)).Err(); err != nil {
		return err
	}
	return nil
}

func (r *CommitmentRepository) Delete(ctx context.Context, raffleID string) error {
	pipe := r.client.Pipeline()
	pipe.Del(ctx, makeCommitmentKey(raffleID))
	pipe.Del(ctx, makeConsumedKey(raffleID))
	_, err := pipe.Exec(ctx)
	return err
}

// AuditLogRepository stores audit entries as write-once keys with a per-raffle
// index set. SETNX makes entries effectively immutable: a second write to the
// same draw id is rejected and no update or delete command is ever issued.
type AuditLogRepository struct {
	client redis.UniversalClient
}

func NewAuditLogRepository(client redis.UniversalClient) *AuditLogRepository {
	return &AuditLogRepository{client: client}
}

func (r *AuditLogRepository) Append(ctx context.Context, entry *models.DrawAuditLog) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal audit entry: %w", err)
	}

	ok, err := r.client.SetNX(ctx, makeAuditKey(entry.DrawID), data, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return repository.ErrDuplicateAudit
	}

	pipe := r.client.Pipeline()
	pipe.SAdd(ctx, makeRaffleIndexKey(entry.RaffleID), entry.DrawID)
	pipe.SAdd(ctx, keyAuditIndex, entry.DrawID)
	if _, err := pipe.Exec(ctx); err != nil {
		// The entry exists but is unreachable through the indexes; surface
		// the failure so the draw is not reported successful.
		return err
	}
	return nil
}

func (r *AuditLogRepository) GetByID(ctx context.Context, drawID string) (*models.DrawAuditLog, error) {
	data, err := r.client.Get(ctx, makeAuditKey(drawID)).Bytes()
	if err == redis.Nil {
		return nil, repository.ErrAuditNotFound
	}
	if err != nil {
		return nil, err
	}

	var entry models.DrawAuditLog
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal audit entry: %w", err)
	}
	return &entry, nil
}

func (r *AuditLogRepository) GetByRaffle(ctx context.Context, raffleID string) ([]models.DrawAuditLog, error) {
	return r.collect(ctx, makeRaffleIndexKey(raffleID))
}

func (r *AuditLogRepository) List(ctx context.Context) ([]models.DrawAuditLog, error) {
	return r.collect(ctx, keyAuditIndex)
}

func (r *AuditLogRepository) collect(ctx context.Context, indexKey string) ([]models.DrawAuditLog, error) {
	ids, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]models.DrawAuditLog, 0, len(ids))
	for _, id := range ids {
		entry, err := r.GetByID(ctx, id)
		if err == repository.ErrAuditNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})
	return entries, nil
}

func (r *AuditLogRepository) MarkVerified(ctx context.Context, drawID string, at time.Time) error {
	mark := models.VerificationMark{DrawID: drawID, VerifiedAt: at}
	data, err := json.Marshal(mark)
	if err != nil {
		return fmt.Errorf("failed to marshal verification mark: %w", err)
	}

	// First verification wins; later runs are no-ops.
	return r.client.SetNX(ctx, makeVerifiedKey(drawID), data, 0).Err()
}

func (r *AuditLogRepository) GetVerification(ctx context.Context, drawID string) (*models.VerificationMark, error) {
	data, err := r.client.Get(ctx, makeVerifiedKey(drawID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var mark models.VerificationMark
	if err := json.Unmarshal(data, &mark); err != nil {
		return nil, fmt.Errorf("failed to unmarshal verification mark: %w", err)
	}
	return &mark, nil
}
