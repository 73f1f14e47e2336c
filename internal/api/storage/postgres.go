package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/beathaus/jobs-be/internal/api/domain"
	"github.com/beathaus/jobs-be/internal/api/model"
	"github.com/beathaus/jobs-be/shared/postgresql"
	"github.com/jmoiron/sqlx"
)

// Storage is the PostgreSQL implementation of JobStore and EscrowStore.
type Storage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewStorage(pg *postgresql.Client, logger *slog.Logger) *Storage {
	return &Storage{
		db:     pg.GetDB(),
		logger: logger,
	}
}

const jobColumns = `
	job_id, user_id, title, description, category, genres,
	budget, currency, deadline_date, revisions_expected, reference_urls,
	status, assigned_provider_id, created_at, updated_at
`

func (s *Storage) CreateJob(ctx context.Context, job *model.Job) error {
	query := `
		INSERT INTO job_requests (
			job_id, user_id, title, description, category, genres,
			budget, currency, deadline_date, revisions_expected, reference_urls,
			status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11,
			$12, $13, $14
		)
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		job.JobID,
		job.UserID,
		job.Title,
		job.Description,
		job.Category,
		job.Genres,
		job.Budget,
		job.Currency,
		job.DeadlineDate,
		job.RevisionsExpected,
		job.ReferenceURLs,
		job.Status,
		job.CreatedAt,
		job.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	return nil
}

func (s *Storage) GetJobByID(ctx context.Context, jobID string) (*model.Job, error) {
	var job model.Job
	query := `SELECT ` + jobColumns + ` FROM job_requests WHERE job_id = $1`

	err := s.db.GetContext(ctx, &job, query, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return &job, nil
}

func (s *Storage) ListJobs(ctx context.Context, filter JobFilter) ([]model.Job, int, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, filter.Status)
		argIdx++
	}

	if filter.Category != "" {
		where += fmt.Sprintf(" AND category = $%d", argIdx)
		args = append(args, filter.Category)
		argIdx++
	}

	if filter.Genre != "" {
		where += fmt.Sprintf(" AND $%d = ANY(genres)", argIdx)
		args = append(args, filter.Genre)
		argIdx++
	}

	if filter.Query != "" {
		where += fmt.Sprintf(" AND title ILIKE '%%' || $%d || '%%'", argIdx)
		args = append(args, filter.Query)
		argIdx++
	}

	if filter.MinBudget != nil {
		where += fmt.Sprintf(" AND budget >= $%d", argIdx)
		args = append(args, *filter.MinBudget)
		argIdx++
	}

	if filter.MaxBudget != nil {
		where += fmt.Sprintf(" AND budget <= $%d", argIdx)
		args = append(args, *filter.MaxBudget)
		argIdx++
	}

	if filter.UserID != "" {
		where += fmt.Sprintf(" AND user_id = $%d", argIdx)
		args = append(args, filter.UserID)
		argIdx++
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM job_requests` + where
	if err := s.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count jobs: %w", err)
	}

	query := `SELECT ` + jobColumns + ` FROM job_requests` + where
	query += " ORDER BY created_at DESC, job_id DESC"

	// Zero values mean no constraint: paginate only when a page size is set,
	// and treat a missing page as the first.
	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
		args = append(args, filter.PageSize, (page-1)*filter.PageSize)
	}

	var jobs []model.Job
	if err := s.db.SelectContext(ctx, &jobs, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list jobs: %w", err)
	}

	return jobs, total, nil
}

func (s *Storage) ListJobsByUser(ctx context.Context, userID string) ([]model.Job, error) {
	query := `
		SELECT ` + jobColumns + `
		FROM job_requests
		WHERE user_id = $1
		ORDER BY created_at DESC, job_id DESC
	`

	var jobs []model.Job
	if err := s.db.SelectContext(ctx, &jobs, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list jobs by user: %w", err)
	}

	return jobs, nil
}

// TransitionStatus applies a guarded status change using the same optimistic
// claim pattern as AssignJob: the UPDATE only matches while the job is still
// in the expected status, so concurrent transitions cannot double-fire.
func (s *Storage) TransitionStatus(ctx context.Context, jobID, from, to string) error {
	if !domain.CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, from, to)
	}

	query := `
		UPDATE job_requests
		SET status = $1,
		    updated_at = NOW()
		WHERE job_id = $2
		  AND status = $3
	`

	result, err := s.db.ExecContext(ctx, query, to, jobID, from)
	if err != nil {
		return fmt.Errorf("failed to transition job status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return s.transitionFailure(ctx, jobID, from, to)
	}

	s.logger.Info("Job status updated",
		slog.String("job_id", jobID),
		slog.String("from", from),
		slog.String("to", to),
	)

	return nil
}

func (s *Storage) AssignJob(ctx context.Context, jobID, providerID string, budget *float64) error {
	query := `
		UPDATE job_requests
		SET status = $1,
		    assigned_provider_id = $2,
		    budget = COALESCE($3, budget),
		    updated_at = NOW()
		WHERE job_id = $4
		  AND status = $5
	`

	result, err := s.db.ExecContext(ctx, query, domain.JobStatusAssigned, providerID, budget, jobID, domain.JobStatusOpen)
	if err != nil {
		return fmt.Errorf("failed to assign job: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return s.transitionFailure(ctx, jobID, domain.JobStatusOpen, domain.JobStatusAssigned)
	}

	s.logger.Info("Job assigned",
		slog.String("job_id", jobID),
		slog.String("provider_id", providerID),
	)

	return nil
}

// transitionFailure distinguishes "job missing" from "job in the wrong
// status" after a zero-row guarded UPDATE.
func (s *Storage) transitionFailure(ctx context.Context, jobID, from, to string) error {
	var status string
	err := s.db.GetContext(ctx, &status, `SELECT status FROM job_requests WHERE job_id = $1`, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrJobNotFound
		}
		return fmt.Errorf("failed to inspect job status: %w", err)
	}

	s.logger.Warn("Rejected job status transition",
		slog.String("job_id", jobID),
		slog.String("status", status),
		slog.String("from", from),
		slog.String("to", to),
	)

	return fmt.Errorf("%w: %s -> %s (current %s)", domain.ErrInvalidTransition, from, to, status)
}
