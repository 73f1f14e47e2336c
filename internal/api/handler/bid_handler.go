package handler

import (
	"net/http"
	"time"

	"github.com/beathaus/jobs-be/internal/api/dto"
	"github.com/beathaus/jobs-be/internal/api/model"
	"github.com/gin-gonic/gin"
)

// SubmitBid handles POST /api/v1/jobs/:job_id/bids
func (h *JobHandler) SubmitBid(c *gin.Context) {
	jobID := c.Param("job_id")

	var req dto.SubmitBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	bid, err := h.jobs.SubmitBid(c.Request.Context(), jobID, ActorID(c), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, toBidDTO(bid))
}

// AcceptBid handles POST /api/v1/jobs/:job_id/bids/:bid_id/accept
func (h *JobHandler) AcceptBid(c *gin.Context) {
	jobID := c.Param("job_id")
	bidID := c.Param("bid_id")

	// Body is optional; an empty body means the budget is kept as posted.
	var req dto.AcceptBidRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
			return
		}
	}

	job, err := h.jobs.AcceptBid(c.Request.Context(), jobID, bidID, ActorID(c), req.AdoptAmount)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, toJobDTO(job, nil))
}

// DeclineBid handles DELETE /api/v1/jobs/:job_id/bids/:bid_id
func (h *JobHandler) DeclineBid(c *gin.Context) {
	jobID := c.Param("job_id")
	bidID := c.Param("bid_id")

	if err := h.jobs.DeclineBid(c.Request.Context(), jobID, bidID, ActorID(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func toBidDTO(bid *model.Bid) dto.BidDTO {
	return dto.BidDTO{
		BidID:      bid.BidID,
		JobID:      bid.JobID,
		ProviderID: bid.ProviderID,
		Amount:     bid.Amount,
		Message:    bid.Message,
		CreatedAt:  bid.CreatedAt.Format(time.RFC3339),
	}
}
