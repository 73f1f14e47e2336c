package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/beathaus/jobs-be/internal/api/domain"
	"github.com/beathaus/jobs-be/internal/api/model"
	"github.com/jmoiron/sqlx"
)

func (s *Storage) GetEscrow(ctx context.Context, jobID string) (*model.Escrow, error) {
	var esc model.Escrow
	query := `
		SELECT job_id, funded, released, amount, currency, updated_at
		FROM job_escrow
		WHERE job_id = $1
	`

	err := s.db.GetContext(ctx, &esc, query, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get escrow: %w", err)
	}

	return &esc, nil
}

// FundEscrow upserts the escrow row and appends the audit entry in one
// transaction. The upsert's WHERE clause keeps an already-funded record
// untouched, so double funding surfaces as ErrAlreadyFunded instead of a
// silent overwrite.
func (s *Storage) FundEscrow(ctx context.Context, esc *model.Escrow, audit *model.EscrowAudit) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO job_escrow (job_id, funded, released, amount, currency, updated_at)
		VALUES ($1, TRUE, FALSE, $2, $3, NOW())
		ON CONFLICT (job_id) DO UPDATE
		SET funded = TRUE,
		    amount = EXCLUDED.amount,
		    currency = EXCLUDED.currency,
		    updated_at = NOW()
		WHERE job_escrow.funded = FALSE
	`

	result, err := tx.ExecContext(ctx, query, esc.JobID, esc.Amount, esc.Currency)
	if err != nil {
		return fmt.Errorf("failed to fund escrow: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return domain.ErrAlreadyFunded
	}

	if err := appendAudit(ctx, tx, audit); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit escrow funding: %w", err)
	}

	s.logger.Info("Escrow funded",
		slog.String("job_id", esc.JobID),
		slog.Float64("amount", esc.Amount),
		slog.String("currency", esc.Currency),
	)

	return nil
}

func (s *Storage) ReleaseEscrow(ctx context.Context, jobID string, audit *model.EscrowAudit) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE job_escrow
		SET released = TRUE,
		    updated_at = NOW()
		WHERE job_id = $1
		  AND funded = TRUE
		  AND released = FALSE
	`

	result, err := tx.ExecContext(ctx, query, jobID)
	if err != nil {
		return fmt.Errorf("failed to release escrow: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return s.releaseFailure(ctx, jobID)
	}

	if err := appendAudit(ctx, tx, audit); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit escrow release: %w", err)
	}

	s.logger.Info("Escrow released",
		slog.String("job_id", jobID),
	)

	return nil
}

// releaseFailure explains a zero-row release: no record / never funded both
// surface as ErrNotFunded, a second release as ErrAlreadyReleased.
func (s *Storage) releaseFailure(ctx context.Context, jobID string) error {
	var esc model.Escrow
	err := s.db.GetContext(ctx, &esc,
		`SELECT job_id, funded, released, amount, currency, updated_at FROM job_escrow WHERE job_id = $1`,
		jobID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFunded
		}
		return fmt.Errorf("failed to inspect escrow: %w", err)
	}

	if esc.Released {
		return domain.ErrAlreadyReleased
	}

	return domain.ErrNotFunded
}

func appendAudit(ctx context.Context, tx *sqlx.Tx, audit *model.EscrowAudit) error {
	query := `
		INSERT INTO job_escrow_audit (audit_id, job_id, action, actor_id, amount, currency, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := tx.ExecContext(
		ctx,
		query,
		audit.AuditID,
		audit.JobID,
		audit.Action,
		audit.ActorID,
		audit.Amount,
		audit.Currency,
		audit.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append escrow audit: %w", err)
	}

	return nil
}

func (s *Storage) RecordPaymentOrder(ctx context.Context, order *model.PaymentOrder) error {
	query := `
		INSERT INTO job_payment_orders (order_id, job_id, payer_id, amount, currency, reference, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (order_id) DO NOTHING
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		order.OrderID,
		order.JobID,
		order.PayerID,
		order.Amount,
		order.Currency,
		order.Reference,
		order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record payment order: %w", err)
	}

	return nil
}
