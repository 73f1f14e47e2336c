package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/beathaus/jobs-be/internal/api/domain"
	"github.com/beathaus/jobs-be/internal/api/model"
	"github.com/beathaus/jobs-be/internal/api/storage"
	"github.com/google/uuid"
)

// EscrowService tracks held funds per job. Funding and releasing both write
// to the append-only audit table; the application never reads that table.
type EscrowService struct {
	logger  *slog.Logger
	escrows storage.EscrowStore
	jobs    storage.JobStore
}

func NewEscrowService(logger *slog.Logger, escrows storage.EscrowStore, jobs storage.JobStore) *EscrowService {
	return &EscrowService{
		logger:  logger,
		escrows: escrows,
		jobs:    jobs,
	}
}

// Get returns the escrow state for a job. A job with no escrow record reads
// as unfunded and unreleased; absence is not an error.
func (s *EscrowService) Get(ctx context.Context, jobID string) (*model.Escrow, error) {
	esc, err := s.escrows.GetEscrow(ctx, jobID)
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			return &model.Escrow{JobID: jobID}, nil
		}
		return nil, err
	}

	return esc, nil
}

// Fund marks the job's escrow as funded. Only the job owner may fund, a
// cancelled job cannot be funded, and funding twice fails with
// ErrAlreadyFunded rather than overwriting the held amount.
func (s *EscrowService) Fund(ctx context.Context, jobID, actorID string, amount float64, currency string) (*model.Escrow, error) {
	return s.fund(ctx, jobID, actorID, amount, currency, domain.EscrowActionFund)
}

func (s *EscrowService) fund(ctx context.Context, jobID, actorID string, amount float64, currency, action string) (*model.Escrow, error) {
	job, err := s.jobs.GetJobByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if job.UserID != actorID {
		return nil, fmt.Errorf("%w: only the job owner can fund escrow", domain.ErrForbidden)
	}

	if job.Status == domain.JobStatusCancelled {
		return nil, fmt.Errorf("%w: cannot fund a cancelled job", domain.ErrInvalidTransition)
	}

	esc := &model.Escrow{
		JobID:    jobID,
		Funded:   true,
		Amount:   amount,
		Currency: currency,
	}

	if err := s.escrows.FundEscrow(ctx, esc, s.auditEntry(jobID, action, actorID, amount, currency)); err != nil {
		return nil, err
	}

	return s.escrows.GetEscrow(ctx, jobID)
}

// Release hands the held funds to the provider. The escrow must be funded
// and the job must be ASSIGNED or COMPLETED; an unfunded or missing record
// fails with ErrNotFunded instead of silently no-oping.
func (s *EscrowService) Release(ctx context.Context, jobID, actorID string) (*model.Escrow, error) {
	job, err := s.jobs.GetJobByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if job.UserID != actorID {
		return nil, fmt.Errorf("%w: only the job owner can release escrow", domain.ErrForbidden)
	}

	if job.Status != domain.JobStatusAssigned && job.Status != domain.JobStatusCompleted {
		return nil, fmt.Errorf("%w: release requires an assigned or completed job (current %s)",
			domain.ErrInvalidTransition, job.Status)
	}

	esc, err := s.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if err := s.escrows.ReleaseEscrow(ctx, jobID, s.auditEntry(jobID, domain.EscrowActionRelease, actorID, esc.Amount, esc.Currency)); err != nil {
		return nil, err
	}

	return s.escrows.GetEscrow(ctx, jobID)
}

// CapturePayment handles the payment-widget success callback: it records the
// order best-effort and then funds the escrow. A failure to record the order
// is logged and does not block funding, matching the widget's fire-and-forget
// contract.
func (s *EscrowService) CapturePayment(ctx context.Context, jobID, actorID string, order *model.PaymentOrder) (*model.Escrow, error) {
	order.JobID = jobID
	order.PayerID = actorID
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}

	if err := s.escrows.RecordPaymentOrder(ctx, order); err != nil {
		s.logger.Warn("Failed to record payment order",
			slog.String("job_id", jobID),
			slog.String("order_id", order.OrderID),
			slog.Any("error", err),
		)
	}

	return s.fund(ctx, jobID, actorID, order.Amount, order.Currency, domain.EscrowActionPayment)
}

func (s *EscrowService) auditEntry(jobID, action, actorID string, amount float64, currency string) *model.EscrowAudit {
	return &model.EscrowAudit{
		AuditID:   uuid.New().String(),
		JobID:     jobID,
		Action:    action,
		ActorID:   actorID,
		Amount:    amount,
		Currency:  currency,
		CreatedAt: time.Now(),
	}
}
