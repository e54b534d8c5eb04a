package entropy

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"raffle-draw-backend/internal/common/logger"
	"raffle-draw-backend/internal/common/metrics"
)

// ErrExternalUnavailable is returned when no external entropy could be
// fetched. Callers fall back to crypto-only entropy; the draw is then recorded
// with method "crypto" instead of "external".
var ErrExternalUnavailable = errors.New("external entropy unavailable")

// ExternalFetcher retrieves best-effort third-party randomness, e.g. a recent
// public block hash.
type ExternalFetcher interface {
	Fetch(ctx context.Context) (string, error)
}

// Source produces cryptographically secure random values and, when a fetcher
// is configured, third-party entropy.
type Source struct {
	fetcher ExternalFetcher
	timeout time.Duration
}

// New creates an entropy source. fetcher may be nil, in which case the source
// is crypto-only and FetchExternal always fails over.
func New(fetcher ExternalFetcher, timeout time.Duration) *Source {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Source{fetcher: fetcher, timeout: timeout}
}

// fractionDenominator keeps the fraction within float64's exact integer range.
var fractionDenominator = big.NewInt(1 << 53)

// Fraction returns a uniformly distributed value in [0, 1) backed by the
// system CSPRNG.
func (s *Source) Fraction() (float64, error) {
	n, err := rand.Int(rand.Reader, fractionDenominator)
	if err != nil {
		return 0, fmt.Errorf("failed to generate random number: %w", err)
	}
	return float64(n.Int64()) / float64(1<<53), nil
}

// Bytes returns n cryptographically secure random bytes.
func (s *Source) Bytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to read system entropy: %w", err)
	}
	return buf, nil
}

// FetchExternal retrieves third-party entropy with a bounded timeout. Failure
// is non-fatal: the caller must fall back to crypto-only entropy.
func (s *Source) FetchExternal(ctx context.Context) (string, error) {
	if s.fetcher == nil {
		return "", ErrExternalUnavailable
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	value, err := s.fetcher.Fetch(fetchCtx)
	if err != nil {
		metrics.EntropyFallbacks.Inc()
		logger.Warn().Err(err).Msg("External entropy fetch failed, falling back to crypto-only")
		return "", ErrExternalUnavailable
	}
	if value == "" {
		metrics.EntropyFallbacks.Inc()
		return "", ErrExternalUnavailable
	}
	return value, nil
}
