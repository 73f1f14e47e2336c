package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/beathaus/jobs-be/internal/api/dto"
	"github.com/beathaus/jobs-be/internal/api/model"
	"github.com/beathaus/jobs-be/internal/api/service"
	"github.com/beathaus/jobs-be/internal/api/storage"
	"github.com/gin-gonic/gin"
)

// JobHandler handles job-related HTTP requests
type JobHandler struct {
	logger *slog.Logger
	jobs   *service.JobService
}

// NewJobHandler creates a new JobHandler instance
func NewJobHandler(deps *Dependencies) *JobHandler {
	return &JobHandler{
		logger: deps.Logger,
		jobs:   deps.Jobs,
	}
}

// CreateJob handles POST /api/v1/jobs
func (h *JobHandler) CreateJob(c *gin.Context) {
	var req dto.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	job, err := h.jobs.Create(c.Request.Context(), ActorID(c), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, toJobDTO(job, nil))
}

// ListJobs handles GET /api/v1/jobs
// Lists jobs with optional filtering and offset pagination. Without a status
// filter only OPEN jobs appear.
func (h *JobHandler) ListJobs(c *gin.Context) {
	var req dto.ListJobsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	filter := storage.JobFilter{
		Status:    req.Status,
		Category:  req.Category,
		Genre:     req.Genre,
		Query:     req.Query,
		MinBudget: req.MinBudget,
		MaxBudget: req.MaxBudget,
		Page:      req.Page,
		PageSize:  req.PageSize,
	}

	jobs, total, err := h.jobs.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = service.DefaultPageSize
	}

	resp := dto.ListJobsResponse{
		Jobs:     make([]dto.JobDTO, len(jobs)),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
	for i := range jobs {
		resp.Jobs[i] = toJobDTO(&jobs[i], nil)
	}

	c.JSON(http.StatusOK, resp)
}

// GetJob handles GET /api/v1/jobs/:job_id
func (h *JobHandler) GetJob(c *gin.Context) {
	jobID := c.Param("job_id")

	job, bids, err := h.jobs.Get(c.Request.Context(), jobID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, toJobDTO(job, bids))
}

// ListMyJobs handles GET /api/v1/jobs/mine
func (h *JobHandler) ListMyJobs(c *gin.Context) {
	jobs, err := h.jobs.ListMine(c.Request.Context(), ActorID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	resp := make([]dto.JobDTO, len(jobs))
	for i := range jobs {
		resp[i] = toJobDTO(&jobs[i], nil)
	}

	c.JSON(http.StatusOK, gin.H{"jobs": resp})
}

// OpenJob handles POST /api/v1/jobs/:job_id/open
// Admin moderation: promotes a PENDING job onto the public board.
func (h *JobHandler) OpenJob(c *gin.Context) {
	jobID := c.Param("job_id")

	if err := h.jobs.Open(c.Request.Context(), jobID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"job_id": jobID, "status": "OPEN"})
}

// CompleteJob handles POST /api/v1/jobs/:job_id/complete
func (h *JobHandler) CompleteJob(c *gin.Context) {
	jobID := c.Param("job_id")

	if err := h.jobs.Complete(c.Request.Context(), jobID, ActorID(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"job_id": jobID, "status": "COMPLETED"})
}

// CancelJob handles POST /api/v1/jobs/:job_id/cancel
func (h *JobHandler) CancelJob(c *gin.Context) {
	jobID := c.Param("job_id")

	if err := h.jobs.Cancel(c.Request.Context(), jobID, ActorID(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"job_id": jobID, "status": "CANCELLED"})
}

func toJobDTO(job *model.Job, bids []model.Bid) dto.JobDTO {
	out := dto.JobDTO{
		JobID:             job.JobID,
		UserID:            job.UserID,
		Title:             job.Title,
		Description:       job.Description,
		Category:          job.Category,
		Genres:            job.Genres,
		Budget:            job.Budget,
		Currency:          job.Currency,
		RevisionsExpected: job.RevisionsExpected,
		ReferenceURLs:     job.ReferenceURLs,
		Status:            job.Status,
		CreatedAt:         job.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         job.UpdatedAt.Format(time.RFC3339),
	}

	if job.DeadlineDate != nil {
		out.DeadlineDate = job.DeadlineDate.Format("2006-01-02")
	}
	if job.AssignedProviderID.Valid {
		out.AssignedProviderID = job.AssignedProviderID.String
	}
	if len(bids) > 0 {
		out.Bids = make([]dto.BidDTO, len(bids))
		for i := range bids {
			out.Bids[i] = toBidDTO(&bids[i])
		}
	}

	return out
}
