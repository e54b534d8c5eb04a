package models

import (
	"encoding/hex"
	"encoding/json"
	"time"
)

// DrawMethod records which entropy sources fed a draw.
type DrawMethod string

const (
	// DrawMethodCrypto means the draw used operator-side crypto randomness only.
	DrawMethodCrypto DrawMethod = "crypto"
	// DrawMethodExternal means third-party entropy was sealed into the seed.
	DrawMethodExternal DrawMethod = "external"
)

// Proof is the self-contained record of every input needed to reproduce a
// winner computation. It contains nothing that is not derivable from public
// inputs except the now-revealed private seed.
type Proof struct {
	PublicSeed          string `json:"public_seed"`
	PrivateSeed         string `json:"private_seed"`
	ExternalEntropy     string `json:"external_entropy,omitempty"`
	SeedTimestamp       int64  `json:"seed_timestamp"`
	TotalTickets        int64  `json:"total_tickets"`
	ParticipantCount    int64  `json:"participant_count"`
	FinalHash           string `json:"final_hash"`
	WinningTicketNumber int64  `json:"winning_ticket_number"`
}

// DrawResult is the outcome of a conducted draw.
type DrawResult struct {
	DrawID              string    `json:"draw_id"`
	WinningTicketNumber int64     `json:"winning_ticket_number"`
	Seed                DrawSeed  `json:"seed"`
	Proof               string    `json:"proof"`
	ComputedAt          time.Time `json:"computed_at"`
}

// BuildProof assembles and encodes the reproduction proof for a draw.
func BuildProof(seed DrawSeed, totalTickets, participantCount int64, finalHash []byte, winning int64) (string, error) {
	p := Proof{
		PublicSeed:          seed.PublicSeed,
		PrivateSeed:         seed.PrivateSeed,
		ExternalEntropy:     seed.ExternalEntropy,
		SeedTimestamp:       seed.Timestamp,
		TotalTickets:        totalTickets,
		ParticipantCount:    participantCount,
		FinalHash:           hex.EncodeToString(finalHash),
		WinningTicketNumber: winning,
	}
	data, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ParseProof decodes a stored proof document.
func ParseProof(encoded string) (*Proof, error) {
	var p Proof
	if err := json.Unmarshal([]byte(encoded), &p); err != nil {
		return nil, err
	}
	return &p, nil
}
