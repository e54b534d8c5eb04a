package service

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	apperrors "raffle-draw-backend/internal/common/errors"
	"raffle-draw-backend/internal/common/logger"
	"raffle-draw-backend/internal/common/metrics"
	"raffle-draw-backend/internal/features/draw/entropy"
	"raffle-draw-backend/internal/features/draw/models"
	"raffle-draw-backend/internal/features/draw/repository"
)

const (
	publicSeedRandomLen  = 16
	privateSeedRandomLen = 32
)

type commitmentService struct {
	commitments repository.CommitmentRepository
	audits      repository.AuditLogRepository
	entropy     *entropy.Source
	grace       time.Duration
	now         func() time.Time
}

// NewCommitmentPublisher creates the seed commitment publisher. grace bounds
// how long an unconsumed commitment stays live past its scheduled draw time.
func NewCommitmentPublisher(
	commitments repository.CommitmentRepository,
	audits repository.AuditLogRepository,
	src *entropy.Source,
	grace time.Duration,
) CommitmentPublisher {
	return &commitmentService{
		commitments: commitments,
		audits:      audits,
		entropy:     src,
		grace:       grace,
		now:         time.Now,
	}
}

func (s *commitmentService) Publish(ctx context.Context, raffleID string, scheduledAt time.Time) (*models.Commitment, error) {
	if raffleID == "" {
		return nil, apperrors.New(apperrors.ErrCodeValidation, "raffle id is required")
	}
	if scheduledAt.IsZero() {
		return nil, apperrors.New(apperrors.ErrCodeValidation, "scheduled draw time is required")
	}

	// A raffle that already has an audit entry was drawn; committing again
	// would reopen the draw.
	existing, err := s.audits.GetByRaffle(ctx, raffleID)
	if err != nil {
		return nil, apperrors.NewStorageError("audit lookup", err)
	}
	if len(existing) > 0 {
		return nil, apperrors.NewDrawAlreadyConductedError(raffleID)
	}

	seed, err := s.generateSeed(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	commitment := models.Commitment{
		RaffleID:          raffleID,
		CommitmentHash:    seed.Hash(),
		ScheduledDrawTime: scheduledAt,
		PublishedAt:       now,
	}

	rec := &repository.StoredCommitment{
		Commitment: commitment,
		Seed:       *seed,
		ExpiresAt:  commitment.ExpiresAt(s.grace),
	}
	if err := s.commitments.Save(ctx, rec); err != nil {
		if errors.Is(err, repository.ErrCommitmentExists) {
			return nil, apperrors.NewDuplicateCommitmentError(raffleID)
		}
		return nil, apperrors.NewStorageError("commitment save", err)
	}

	metrics.CommitmentsPublished.Inc()
	logger.Info().
		Str("raffle_id", raffleID).
		Str("commitment_hash", commitment.CommitmentHash).
		Time("scheduled_draw_time", scheduledAt).
		Msg("Seed commitment published")

	return &commitment, nil
}

// generateSeed builds a fresh DrawSeed. The public seed combines the
// generation timestamp with crypto randomness; the private seed is derived
// from the public seed, further fresh randomness, and the timestamp. External
// entropy, when reachable, is sealed into the seed here so the published
// commitment covers it.
func (s *commitmentService) generateSeed(ctx context.Context) (*models.DrawSeed, error) {
	ts := s.now().UnixMilli()

	pubRandom, err := s.entropy.Bytes(publicSeedRandomLen)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to generate public seed")
	}
	publicSeed := fmt.Sprintf("%d-%s", ts, hex.EncodeToString(pubRandom))

	privRandom, err := s.entropy.Bytes(privateSeedRandomLen)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to generate private seed")
	}

	h := sha256.New()
	h.Write([]byte(publicSeed))
	h.Write(privRandom)
	var tsBuf [8]byte
	binary.BigEndian.PutUint64(tsBuf[:], uint64(ts))
	h.Write(tsBuf[:])

	seed := &models.DrawSeed{
		PublicSeed:  publicSeed,
		PrivateSeed: hex.EncodeToString(h.Sum(nil)),
		Timestamp:   ts,
	}

	external, err := s.entropy.FetchExternal(ctx)
	if err == nil {
		seed.ExternalEntropy = external
	}
	return seed, nil
}
