package models

import "time"

// DrawReportEntry is one draw as presented in a transparency report. The raw
// private seed never appears; the seed hash is sufficient for an auditor to
// check the pre-draw commitment.
type DrawReportEntry struct {
	DrawID              string     `json:"draw_id"`
	Method              DrawMethod `json:"method"`
	SeedHash            string     `json:"seed_hash"`
	ResultHash          string     `json:"result_hash"`
	WinningTicketNumber int64      `json:"winning_ticket_number"`
	TotalTickets        int64      `json:"total_tickets"`
	ParticipantCount    int64      `json:"participant_count"`
	Timestamp           time.Time  `json:"timestamp"`
	Verified            bool       `json:"verified"`
	VerifiedAt          *time.Time `json:"verified_at,omitempty"`
	ProofAvailable      bool       `json:"proof_available"`
}

// ReportSummary aggregates the verification outcomes across a report.
type ReportSummary struct {
	TotalDraws    int  `json:"total_draws"`
	VerifiedCount int  `json:"verified_count"`
	FailedCount   int  `json:"failed_count"`
	AllVerified   bool `json:"all_verified"`
}

// ComplianceReport is the public transparency document for a raffle.
type ComplianceReport struct {
	RaffleID    string            `json:"raffle_id"`
	GeneratedAt time.Time         `json:"generated_at"`
	Draws       []DrawReportEntry `json:"draws"`
	Summary     ReportSummary     `json:"summary"`
}
