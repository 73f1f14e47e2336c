package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/beathaus/jobs-be/internal/api/domain"
	"github.com/beathaus/jobs-be/internal/api/model"
)

// InsertBid appends a bid in a single guarded INSERT. The SELECT source only
// yields a row while the parent job is OPEN, so two concurrent bidders both
// land their rows and a closed job accepts none. This replaces the
// read-modify-write of a bids array on the job row, which loses updates.
func (s *Storage) InsertBid(ctx context.Context, bid *model.Bid) error {
	query := `
		INSERT INTO job_bids (bid_id, job_id, provider_id, amount, message, created_at)
		SELECT $1, $2, $3, $4, $5, $6
		WHERE EXISTS (
			SELECT 1 FROM job_requests WHERE job_id = $2 AND status = $7
		)
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		bid.BidID,
		bid.JobID,
		bid.ProviderID,
		bid.Amount,
		bid.Message,
		bid.CreatedAt,
		domain.JobStatusOpen,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bid: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		var status string
		err := s.db.GetContext(ctx, &status, `SELECT status FROM job_requests WHERE job_id = $1`, bid.JobID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrJobNotFound
			}
			return fmt.Errorf("failed to inspect job status: %w", err)
		}
		return fmt.Errorf("%w: job is %s, bids require %s", domain.ErrInvalidTransition, status, domain.JobStatusOpen)
	}

	s.logger.Info("Bid inserted",
		slog.String("job_id", bid.JobID),
		slog.String("bid_id", bid.BidID),
		slog.String("provider_id", bid.ProviderID),
	)

	return nil
}

func (s *Storage) GetBid(ctx context.Context, jobID, bidID string) (*model.Bid, error) {
	var bid model.Bid
	query := `
		SELECT bid_id, job_id, provider_id, amount, message, created_at
		FROM job_bids
		WHERE job_id = $1 AND bid_id = $2
	`

	err := s.db.GetContext(ctx, &bid, query, jobID, bidID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBidNotFound
		}
		return nil, fmt.Errorf("failed to get bid: %w", err)
	}

	return &bid, nil
}

func (s *Storage) ListBids(ctx context.Context, jobID string) ([]model.Bid, error) {
	query := `
		SELECT bid_id, job_id, provider_id, amount, message, created_at
		FROM job_bids
		WHERE job_id = $1
		ORDER BY created_at ASC, bid_id ASC
	`

	var bids []model.Bid
	if err := s.db.SelectContext(ctx, &bids, query, jobID); err != nil {
		return nil, fmt.Errorf("failed to list bids: %w", err)
	}

	return bids, nil
}

func (s *Storage) DeleteBid(ctx context.Context, jobID, bidID string) error {
	query := `DELETE FROM job_bids WHERE job_id = $1 AND bid_id = $2`

	result, err := s.db.ExecContext(ctx, query, jobID, bidID)
	if err != nil {
		return fmt.Errorf("failed to delete bid: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return domain.ErrBidNotFound
	}

	s.logger.Info("Bid deleted",
		slog.String("job_id", jobID),
		slog.String("bid_id", bidID),
	)

	return nil
}
