package models

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// VerificationData is the hash material stored with every audit entry so a
// verifier can replay the draw without trusting the stored plaintext alone.
type VerificationData struct {
	SeedHash         string `json:"seed_hash"`
	ResultHash       string `json:"result_hash"`
	VideoURL         string `json:"video_url,omitempty"`
	WitnessSignature string `json:"witness_signature,omitempty"`
}

// DrawAuditLog is the immutable record of one executed draw. Entries are only
// ever appended and read; there is no update or delete path.
type DrawAuditLog struct {
	DrawID           string           `json:"draw_id"`
	RaffleID         string           `json:"raffle_id"`
	Method           DrawMethod       `json:"method"`
	Seed             DrawSeed         `json:"seed"`
	Result           DrawResult       `json:"result"`
	TotalTickets     int64            `json:"total_tickets"`
	ParticipantCount int64            `json:"participant_count"`
	Timestamp        time.Time        `json:"timestamp"`
	Verification     VerificationData `json:"verification"`
}

// ResultHash binds the winning number to the draw parameters and final hash.
func ResultHash(finalHash []byte, winning, totalTickets, participantCount int64) string {
	buf := make([]byte, 0, len(finalHash)+40)
	buf = appendField(buf, finalHash)
	buf = appendUint64(buf, uint64(winning))
	buf = appendUint64(buf, uint64(totalTickets))
	buf = appendUint64(buf, uint64(participantCount))
	sum := sha256.Sum256(buf)
	return hex.EncodeToString(sum[:])
}

// NewAuditEntry assembles the audit record for a completed draw, computing the
// seed and result hashes from the draw inputs.
func NewAuditEntry(raffleID string, result DrawResult, method DrawMethod, totalTickets, participantCount int64) DrawAuditLog {
	finalHash := result.Seed.CombinedHash(totalTickets, participantCount)
	return DrawAuditLog{
		DrawID:           result.DrawID,
		RaffleID:         raffleID,
		Method:           method,
		Seed:             result.Seed,
		Result:           result,
		TotalTickets:     totalTickets,
		ParticipantCount: participantCount,
		Timestamp:        result.ComputedAt,
		Verification: VerificationData{
			SeedHash:   result.Seed.Hash(),
			ResultHash: ResultHash(finalHash, result.WinningTicketNumber, totalTickets, participantCount),
		},
	}
}

// VerificationMark records that a draw has been successfully verified. Marks
// live outside the audit entry so the entry itself stays immutable;
// first-write-wins.
type VerificationMark struct {
	DrawID     string    `json:"draw_id"`
	VerifiedAt time.Time `json:"verified_at"`
}
