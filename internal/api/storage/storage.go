// Package storage defines the persistence interfaces for the job board and
// their PostgreSQL implementation. Handlers and services depend on the
// interfaces only, so tests run against the in-memory implementation in
// storage/memory.
package storage

import (
	"context"

	"github.com/beathaus/jobs-be/internal/api/model"
)

// JobFilter selects jobs for ListJobs. Zero values mean "no constraint".
type JobFilter struct {
	Status    string
	Category  string
	Genre     string
	Query     string // case-insensitive title substring
	MinBudget *float64
	MaxBudget *float64
	UserID    string
	Page      int
	PageSize  int
}

// JobStore persists job requests and their bids.
type JobStore interface {
	CreateJob(ctx context.Context, job *model.Job) error
	GetJobByID(ctx context.Context, jobID string) (*model.Job, error)
	// ListJobs returns one page of matching jobs plus the total match count.
	ListJobs(ctx context.Context, filter JobFilter) ([]model.Job, int, error)
	// ListJobsByUser returns all jobs owned by a user, newest first.
	ListJobsByUser(ctx context.Context, userID string) ([]model.Job, error)

	// TransitionStatus moves a job from one status to another atomically.
	// Returns domain.ErrJobNotFound if the job does not exist and
	// domain.ErrInvalidTransition if its current status is not `from`.
	TransitionStatus(ctx context.Context, jobID, from, to string) error
	// AssignJob performs OPEN -> ASSIGNED and sets the provider; budget,
	// when non-nil, replaces the job's budget. Same errors as
	// TransitionStatus.
	AssignJob(ctx context.Context, jobID, providerID string, budget *float64) error

	// InsertBid appends a bid to a job. The insert only succeeds while the
	// job is OPEN; otherwise domain.ErrInvalidTransition (or
	// domain.ErrJobNotFound) is returned.
	InsertBid(ctx context.Context, bid *model.Bid) error
	GetBid(ctx context.Context, jobID, bidID string) (*model.Bid, error)
	ListBids(ctx context.Context, jobID string) ([]model.Bid, error)
	DeleteBid(ctx context.Context, jobID, bidID string) error
}

// EscrowStore persists per-job escrow state and its append-only audit trail.
type EscrowStore interface {
	// GetEscrow returns domain.ErrJobNotFound when no record exists.
	GetEscrow(ctx context.Context, jobID string) (*model.Escrow, error)
	// FundEscrow upserts the escrow row with funded=true and writes the
	// audit entry in the same transaction. Returns domain.ErrAlreadyFunded
	// when the record is already funded.
	FundEscrow(ctx context.Context, esc *model.Escrow, audit *model.EscrowAudit) error
	// ReleaseEscrow flips released=true and writes the audit entry.
	// Returns domain.ErrNotFunded when the record is missing or unfunded
	// and domain.ErrAlreadyReleased when released twice.
	ReleaseEscrow(ctx context.Context, jobID string, audit *model.EscrowAudit) error
	RecordPaymentOrder(ctx context.Context, order *model.PaymentOrder) error
}
