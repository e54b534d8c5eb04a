package http

import (
	"net/http"
	"time"

	apperrors "raffle-draw-backend/internal/common/errors"
	"raffle-draw-backend/internal/common/middleware"
	"raffle-draw-backend/internal/features/draw/models"
	"raffle-draw-backend/internal/features/draw/models/dto"
	"raffle-draw-backend/internal/features/draw/service"

	"github.com/gin-gonic/gin"
)

// DrawHandler exposes the provably-fair draw subsystem over HTTP.
type DrawHandler struct {
	publisher service.CommitmentPublisher
	engine    service.DrawEngine
	verifier  service.VerificationService
	reports   service.ReportGenerator
	audits    service.AuditReader
}

func NewDrawHandler(
	publisher service.CommitmentPublisher,
	engine service.DrawEngine,
	verifier service.VerificationService,
	reports service.ReportGenerator,
	audits service.AuditReader,
) *DrawHandler {
	return &DrawHandler{
		publisher: publisher,
		engine:    engine,
		verifier:  verifier,
		reports:   reports,
		audits:    audits,
	}
}

func (h *DrawHandler) RegisterRoutes(router *gin.RouterGroup) {
	draws := router.Group("/draws")
	{
		draws.POST("/commitments", h.createCommitment)
		draws.POST("/:raffle_id/conduct", h.conductDraw)
		draws.GET("/audits", h.listAudits)
		draws.GET("/:raffle_id/audits/:audit_id/verify", h.verifyDraw)
		draws.GET("/:raffle_id/audits/:audit_id/proof", h.getProof)
		draws.POST("/reports", h.generateReport)
	}
}

// createCommitment publishes a seed commitment ahead of a scheduled draw.
func (h *DrawHandler) createCommitment(c *gin.Context) {
	var input dto.CommitmentCreateRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.AbortWithError(c, apperrors.Wrap(err, apperrors.ErrCodeBadRequest,
			"raffle_id and draw_scheduled_at are required"))
		return
	}

	scheduledAt := time.UnixMilli(input.DrawScheduledAt)
	commitment, err := h.publisher.Publish(c.Request.Context(), input.RaffleID, scheduledAt)
	if err != nil {
		abort(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CommitmentResponse{
		CommitmentHash:  commitment.CommitmentHash,
		RaffleID:        commitment.RaffleID,
		DrawScheduledAt: commitment.ScheduledDrawTime,
		PublishedAt:     commitment.PublishedAt,
	})
}

// conductDraw is the operator/scheduler trigger that reveals the seed and
// computes the winner.
func (h *DrawHandler) conductDraw(c *gin.Context) {
	raffleID := c.Param("raffle_id")

	var input dto.ConductDrawRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.AbortWithError(c, apperrors.Wrap(err, apperrors.ErrCodeBadRequest, "invalid request body"))
		return
	}

	result, err := h.engine.Conduct(c.Request.Context(), raffleID, input.TotalTickets, input.ParticipantCount)
	if err != nil {
		abort(c, err)
		return
	}

	method := models.DrawMethodCrypto
	if result.Seed.ExternalEntropy != "" {
		method = models.DrawMethodExternal
	}

	c.JSON(http.StatusOK, dto.DrawResultResponse{
		DrawID:              result.DrawID,
		RaffleID:            raffleID,
		WinningTicketNumber: result.WinningTicketNumber,
		DrawMethod:          string(method),
		SeedHash:            result.Seed.Hash(),
		ComputedAt:          result.ComputedAt,
	})
}

// listAudits returns sanitized audit records, optionally filtered by raffle.
// The raw seed and full proof are withheld from this public listing.
func (h *DrawHandler) listAudits(c *gin.Context) {
	raffleID := c.Query("raffle_id")

	entries, err := h.audits.List(c.Request.Context(), raffleID)
	if err != nil {
		abort(c, err)
		return
	}

	records := make([]dto.AuditRecordResponse, 0, len(entries))
	for _, entry := range entries {
		mark, err := h.audits.VerificationMark(c.Request.Context(), entry.DrawID)
		if err != nil {
			abort(c, err)
			return
		}
		records = append(records, dto.NewAuditRecordResponse(entry, mark))
	}

	c.JSON(http.StatusOK, gin.H{"audits": records})
}

// verifyDraw independently recomputes a draw and reports match or mismatch.
func (h *DrawHandler) verifyDraw(c *gin.Context) {
	raffleID := c.Param("raffle_id")
	auditID := c.Param("audit_id")

	outcome, err := h.verifier.VerifyStored(c.Request.Context(), raffleID, auditID)
	if err != nil {
		abort(c, err)
		return
	}

	resp := dto.VerifyResponse{
		Verified:            outcome.Verified,
		DrawMethod:          string(outcome.Entry.Method),
		Timestamp:           outcome.Entry.Timestamp,
		WinningTicketNumber: outcome.Entry.Result.WinningTicketNumber,
		TotalTickets:        outcome.Entry.TotalTickets,
		ParticipantCount:    outcome.Entry.ParticipantCount,
		SeedHash:            outcome.Entry.Verification.SeedHash,
		IsVerified:          outcome.VerifiedAt != nil,
		VerifiedAt:          outcome.VerifiedAt,
	}

	c.JSON(http.StatusOK, resp)
}

// getProof discloses the full reproduction proof once the scheduled draw time
// has passed.
func (h *DrawHandler) getProof(c *gin.Context) {
	raffleID := c.Param("raffle_id")
	auditID := c.Param("audit_id")

	proof, err := h.engine.Proof(c.Request.Context(), raffleID, auditID)
	if err != nil {
		abort(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"proof": proof})
}

// generateReport produces the full compliance report for a raffle.
func (h *DrawHandler) generateReport(c *gin.Context) {
	var input dto.ReportRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.AbortWithError(c, apperrors.Wrap(err, apperrors.ErrCodeBadRequest, "raffle_id is required"))
		return
	}

	report, err := h.reports.Generate(c.Request.Context(), input.RaffleID)
	if err != nil {
		abort(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func abort(c *gin.Context, err error) {
	if appErr, ok := apperrors.AsAppError(err); ok {
		middleware.AbortWithError(c, appErr)
		return
	}
	middleware.AbortWithError(c, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Internal server error"))
}
