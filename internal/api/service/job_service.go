package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/beathaus/jobs-be/internal/api/domain"
	"github.com/beathaus/jobs-be/internal/api/dto"
	"github.com/beathaus/jobs-be/internal/api/model"
	"github.com/beathaus/jobs-be/internal/api/storage"
	"github.com/google/uuid"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	defaultCurrency = "USD"
)

// JobService implements the job request lifecycle: creation, board queries,
// moderation, bidding, assignment, completion and cancellation.
type JobService struct {
	logger *slog.Logger
	store  storage.JobStore
	events *Events
}

func NewJobService(logger *slog.Logger, store storage.JobStore, events *Events) *JobService {
	return &JobService{
		logger: logger,
		store:  store,
		events: events,
	}
}

// Create inserts a new job in PENDING status. Jobs only appear on the public
// board after moderation promotes them to OPEN.
func (s *JobService) Create(ctx context.Context, userID string, req *dto.CreateJobRequest) (*model.Job, error) {
	now := time.Now()

	job := &model.Job{
		JobID:             uuid.New().String(),
		UserID:            userID,
		Title:             req.Title,
		Description:       req.Description,
		Category:          req.Category,
		Genres:            req.Genres,
		Budget:            req.Budget,
		Currency:          req.Currency,
		RevisionsExpected: req.RevisionsExpected,
		ReferenceURLs:     req.ReferenceURLs,
		Status:            domain.JobStatusPending,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if job.Currency == "" {
		job.Currency = defaultCurrency
	}

	if req.DeadlineDate != "" {
		deadline, err := time.Parse("2006-01-02", req.DeadlineDate)
		if err != nil {
			return nil, fmt.Errorf("invalid deadline date: %w", err)
		}
		job.DeadlineDate = &deadline
	}

	if err := s.store.CreateJob(ctx, job); err != nil {
		return nil, err
	}

	s.logger.Info("Job created",
		slog.String("job_id", job.JobID),
		slog.String("user_id", userID),
		slog.String("category", job.Category),
	)

	s.events.Emit(ctx, EventKindJob, EventJobCreated, map[string]any{
		"job_id":   job.JobID,
		"user_id":  job.UserID,
		"title":    job.Title,
		"category": job.Category,
	})

	return job, nil
}

// Get returns a job together with its bids.
func (s *JobService) Get(ctx context.Context, jobID string) (*model.Job, []model.Bid, error) {
	job, err := s.store.GetJobByID(ctx, jobID)
	if err != nil {
		return nil, nil, err
	}

	bids, err := s.store.ListBids(ctx, jobID)
	if err != nil {
		return nil, nil, err
	}

	return job, bids, nil
}

// List queries the job board. An empty status filter defaults to OPEN so
// pending, assigned and terminal jobs never leak onto the public board.
func (s *JobService) List(ctx context.Context, filter storage.JobFilter) ([]model.Job, int, error) {
	if filter.Status == "" {
		filter.Status = domain.JobStatusOpen
	} else if !domain.ValidStatus(filter.Status) {
		return nil, 0, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, filter.Status)
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = DefaultPageSize
	}
	if filter.PageSize > MaxPageSize {
		filter.PageSize = MaxPageSize
	}

	return s.store.ListJobs(ctx, filter)
}

// ListMine returns every job owned by the user, newest first, regardless of
// status.
func (s *JobService) ListMine(ctx context.Context, userID string) ([]model.Job, error) {
	return s.store.ListJobsByUser(ctx, userID)
}

// Open promotes a PENDING job onto the public board. Admin-only; the role
// check happens in the router.
func (s *JobService) Open(ctx context.Context, jobID string) error {
	return s.store.TransitionStatus(ctx, jobID, domain.JobStatusPending, domain.JobStatusOpen)
}

// SubmitBid appends a bid to an OPEN job. The insert itself is atomic in the
// store, so concurrent bidders never overwrite each other.
func (s *JobService) SubmitBid(ctx context.Context, jobID, providerID string, req *dto.SubmitBidRequest) (*model.Bid, error) {
	job, err := s.store.GetJobByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if job.UserID == providerID {
		return nil, fmt.Errorf("%w: cannot bid on your own job", domain.ErrForbidden)
	}

	bid := &model.Bid{
		BidID:      uuid.New().String(),
		JobID:      jobID,
		ProviderID: providerID,
		Amount:     req.Amount,
		Message:    req.Message,
		CreatedAt:  time.Now(),
	}

	if err := s.store.InsertBid(ctx, bid); err != nil {
		return nil, err
	}

	s.events.Emit(ctx, EventKindJob, EventBidSubmitted, map[string]any{
		"job_id":      jobID,
		"bid_id":      bid.BidID,
		"provider_id": providerID,
		"amount":      bid.Amount,
	})

	return bid, nil
}

// AcceptBid transitions an OPEN job to ASSIGNED, records the winning
// provider and optionally adopts the bid amount as the job budget. Only the
// job owner may accept; the accepted bid stays on the job.
func (s *JobService) AcceptBid(ctx context.Context, jobID, bidID, actorID string, adoptAmount bool) (*model.Job, error) {
	job, err := s.store.GetJobByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if job.UserID != actorID {
		return nil, fmt.Errorf("%w: only the job owner can accept bids", domain.ErrForbidden)
	}

	bid, err := s.store.GetBid(ctx, jobID, bidID)
	if err != nil {
		return nil, err
	}

	var budget *float64
	if adoptAmount {
		budget = &bid.Amount
	}

	if err := s.store.AssignJob(ctx, jobID, bid.ProviderID, budget); err != nil {
		return nil, err
	}

	s.events.Emit(ctx, EventKindJob, EventBidAccepted, map[string]any{
		"job_id":      jobID,
		"bid_id":      bidID,
		"provider_id": bid.ProviderID,
		"amount":      bid.Amount,
	})

	return s.store.GetJobByID(ctx, jobID)
}

// DeclineBid removes a bid from a job. Declines are silent: no notification
// event is emitted.
func (s *JobService) DeclineBid(ctx context.Context, jobID, bidID, actorID string) error {
	job, err := s.store.GetJobByID(ctx, jobID)
	if err != nil {
		return err
	}

	if job.UserID != actorID {
		return fmt.Errorf("%w: only the job owner can decline bids", domain.ErrForbidden)
	}

	return s.store.DeleteBid(ctx, jobID, bidID)
}

// Complete marks an ASSIGNED job as COMPLETED.
func (s *JobService) Complete(ctx context.Context, jobID, actorID string) error {
	job, err := s.store.GetJobByID(ctx, jobID)
	if err != nil {
		return err
	}

	if job.UserID != actorID {
		return fmt.Errorf("%w: only the job owner can complete the job", domain.ErrForbidden)
	}

	return s.store.TransitionStatus(ctx, jobID, domain.JobStatusAssigned, domain.JobStatusCompleted)
}

// Cancel moves a job to CANCELLED from any non-terminal status.
func (s *JobService) Cancel(ctx context.Context, jobID, actorID string) error {
	job, err := s.store.GetJobByID(ctx, jobID)
	if err != nil {
		return err
	}

	if job.UserID != actorID {
		return fmt.Errorf("%w: only the job owner can cancel the job", domain.ErrForbidden)
	}

	if domain.IsTerminal(job.Status) {
		return fmt.Errorf("%w: job is already %s", domain.ErrInvalidTransition, job.Status)
	}

	return s.store.TransitionStatus(ctx, jobID, job.Status, domain.JobStatusCancelled)
}
