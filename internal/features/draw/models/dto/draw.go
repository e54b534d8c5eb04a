package dto

import (
	"time"

	"raffle-draw-backend/internal/features/draw/models"
)

// CommitmentCreateRequest is the body of the seed-commitment endpoint.
type CommitmentCreateRequest struct {
	RaffleID        string `json:"raffle_id" binding:"required"`
	DrawScheduledAt int64  `json:"draw_scheduled_at" binding:"required"` // unix ms
}

// CommitmentResponse is the published commitment, without the underlying seed.
type CommitmentResponse struct {
	CommitmentHash  string    `json:"commitment_hash"`
	RaffleID        string    `json:"raffle_id"`
	DrawScheduledAt time.Time `json:"draw_scheduled_at"`
	PublishedAt     time.Time `json:"published_at"`
}

// ConductDrawRequest is the operator/scheduler trigger body.
type ConductDrawRequest struct {
	TotalTickets     int64 `json:"total_tickets"`
	ParticipantCount int64 `json:"participant_count"`
}

// DrawResultResponse is the sanitized outcome returned to the trigger caller.
type DrawResultResponse struct {
	DrawID              string    `json:"draw_id"`
	RaffleID            string    `json:"raffle_id"`
	WinningTicketNumber int64     `json:"winning_ticket_number"`
	DrawMethod          string    `json:"draw_method"`
	SeedHash            string    `json:"seed_hash"`
	ComputedAt          time.Time `json:"computed_at"`
}

// AuditRecordResponse is the public listing shape. The raw seed and the full
// proof are withheld; only the seed hash and proof availability are exposed.
type AuditRecordResponse struct {
	ID                  string     `json:"id"`
	RaffleID            string     `json:"raffle_id"`
	DrawMethod          string     `json:"draw_method"`
	WinningTicketNumber int64      `json:"winning_ticket_number"`
	TotalTickets        int64      `json:"total_tickets"`
	ParticipantCount    int64      `json:"participant_count"`
	SeedHash            string     `json:"seed_hash"`
	Timestamp           time.Time  `json:"timestamp"`
	IsVerified          bool       `json:"is_verified"`
	VerifiedAt          *time.Time `json:"verified_at,omitempty"`
	ProofAvailable      bool       `json:"proof_available"`
}

// VerifyResponse is the outcome of an independent verification call.
type VerifyResponse struct {
	Verified            bool       `json:"verified"`
	DrawMethod          string     `json:"draw_method"`
	Timestamp           time.Time  `json:"timestamp"`
	WinningTicketNumber int64      `json:"winning_ticket_number"`
	TotalTickets        int64      `json:"total_tickets"`
	ParticipantCount    int64      `json:"participant_count"`
	SeedHash            string     `json:"seed_hash"`
	IsVerified          bool       `json:"is_verified"`
	VerifiedAt          *time.Time `json:"verified_at,omitempty"`
}

// ReportRequest is the compliance-report endpoint body.
type ReportRequest struct {
	RaffleID string `json:"raffle_id" binding:"required"`
}

// NewAuditRecordResponse sanitizes an audit entry for public listing.
func NewAuditRecordResponse(entry models.DrawAuditLog, mark *models.VerificationMark) AuditRecordResponse {
	resp := AuditRecordResponse{
		ID:                  entry.DrawID,
		RaffleID:            entry.RaffleID,
		DrawMethod:          string(entry.Method),
		WinningTicketNumber: entry.Result.WinningTicketNumber,
		TotalTickets:        entry.TotalTickets,
		ParticipantCount:    entry.ParticipantCount,
		SeedHash:            entry.Verification.SeedHash,
		Timestamp:           entry.Timestamp,
		ProofAvailable:      entry.Result.Proof != "",
	}
	if mark != nil {
		resp.IsVerified = true
		t := mark.VerifiedAt
		resp.VerifiedAt = &t
	}
	return resp
}
