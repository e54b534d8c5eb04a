package models

import "time"

// Commitment is the public, one-way binding of a DrawSeed published before the
// draw runs. The seed itself is retained privately alongside it until reveal.
type Commitment struct {
	RaffleID          string    `json:"raffle_id"`
	CommitmentHash    string    `json:"commitment_hash"`
	ScheduledDrawTime time.Time `json:"scheduled_draw_time"`
	PublishedAt       time.Time `json:"published_at"`
	// Set once the commitment has been consumed by a draw. A consumed
	// commitment can never produce a second draw.
	Consumed bool `json:"consumed"`
}

// ExpiresAt returns the moment after which an unconsumed commitment is no
// longer considered live and a fresh one may be published.
func (c Commitment) ExpiresAt(grace time.Duration) time.Time {
	return c.ScheduledDrawTime.Add(grace)
}

// Live reports whether the commitment still blocks publication of a new one.
func (c Commitment) Live(now time.Time, grace time.Duration) bool {
	return !c.Consumed && now.Before(c.ExpiresAt(grace))
}
