package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/beathaus/jobs-be/internal/api/dto"
	"github.com/beathaus/jobs-be/internal/api/model"
	"github.com/beathaus/jobs-be/internal/api/service"
	"github.com/gin-gonic/gin"
)

// EscrowHandler handles escrow-related HTTP requests
type EscrowHandler struct {
	logger *slog.Logger
	escrow *service.EscrowService
}

func NewEscrowHandler(deps *Dependencies) *EscrowHandler {
	return &EscrowHandler{
		logger: deps.Logger,
		escrow: deps.Escrow,
	}
}

// GetEscrow handles GET /api/v1/jobs/:job_id/escrow
// A job with no escrow record reads as unfunded; absence is not an error.
func (h *EscrowHandler) GetEscrow(c *gin.Context) {
	jobID := c.Param("job_id")

	esc, err := h.escrow.Get(c.Request.Context(), jobID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, toEscrowDTO(esc))
}

// FundEscrow handles POST /api/v1/jobs/:job_id/escrow/fund
func (h *EscrowHandler) FundEscrow(c *gin.Context) {
	jobID := c.Param("job_id")

	var req dto.FundEscrowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	esc, err := h.escrow.Fund(c.Request.Context(), jobID, ActorID(c), req.Amount, req.Currency)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, toEscrowDTO(esc))
}

// ReleaseEscrow handles POST /api/v1/jobs/:job_id/escrow/release
func (h *EscrowHandler) ReleaseEscrow(c *gin.Context) {
	jobID := c.Param("job_id")

	esc, err := h.escrow.Release(c.Request.Context(), jobID, ActorID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, toEscrowDTO(esc))
}

// CapturePayment handles POST /api/v1/jobs/:job_id/pay
// Called by the client when the payment widget reports success.
func (h *EscrowHandler) CapturePayment(c *gin.Context) {
	jobID := c.Param("job_id")

	var req dto.PaymentCaptureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	order := &model.PaymentOrder{
		OrderID:   req.OrderID,
		Amount:    req.Amount,
		Currency:  req.Currency,
		Reference: req.Reference,
	}

	esc, err := h.escrow.CapturePayment(c.Request.Context(), jobID, ActorID(c), order)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, toEscrowDTO(esc))
}

func toEscrowDTO(esc *model.Escrow) dto.EscrowDTO {
	out := dto.EscrowDTO{
		JobID:    esc.JobID,
		Paid:     esc.Funded,
		Released: esc.Released,
		Amount:   esc.Amount,
		Currency: esc.Currency,
	}

	if !esc.UpdatedAt.IsZero() {
		out.UpdatedAt = esc.UpdatedAt.Format(time.RFC3339)
	}

	return out
}
