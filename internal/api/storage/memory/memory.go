// Package memory provides an in-memory implementation of the storage
// interfaces. It backs the test suite and local development without a
// database, and mirrors the PostgreSQL implementation's semantics: guarded
// transitions, atomic bid appends, and the escrow funding rules.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/beathaus/jobs-be/internal/api/domain"
	"github.com/beathaus/jobs-be/internal/api/model"
	"github.com/beathaus/jobs-be/internal/api/storage"
)

// Store holds all state behind a single mutex. Every public method takes the
// lock for its whole duration, which is what makes bid appends and status
// transitions atomic with respect to each other.
type Store struct {
	mu       sync.Mutex
	jobs     map[string]model.Job
	bids     map[string]model.Bid // keyed by bid_id
	escrows  map[string]model.Escrow
	audits   []model.EscrowAudit
	payments map[string]model.PaymentOrder
}

var (
	_ storage.JobStore    = (*Store)(nil)
	_ storage.EscrowStore = (*Store)(nil)
)

func NewStore() *Store {
	return &Store{
		jobs:     make(map[string]model.Job),
		bids:     make(map[string]model.Bid),
		escrows:  make(map[string]model.Escrow),
		payments: make(map[string]model.PaymentOrder),
	}
}

func (s *Store) CreateJob(ctx context.Context, job *model.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[job.JobID]; exists {
		return fmt.Errorf("job %s already exists", job.JobID)
	}

	s.jobs[job.JobID] = *job
	return nil
}

func (s *Store) GetJobByID(ctx context.Context, jobID string) (*model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return nil, domain.ErrJobNotFound
	}

	return &job, nil
}

func (s *Store) ListJobs(ctx context.Context, filter storage.JobFilter) ([]model.Job, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []model.Job
	for _, job := range s.jobs {
		if matchesFilter(job, filter) {
			matched = append(matched, job)
		}
	}

	sortJobsNewestFirst(matched)

	total := len(matched)

	// Zero values mean no constraint: no page size returns everything,
	// and a missing page reads as the first.
	if filter.PageSize <= 0 {
		return matched, total, nil
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}

	offset := (page - 1) * filter.PageSize
	if offset >= total {
		return []model.Job{}, total, nil
	}

	end := offset + filter.PageSize
	if end > total {
		end = total
	}

	return matched[offset:end], total, nil
}

func matchesFilter(job model.Job, filter storage.JobFilter) bool {
	if filter.Status != "" && job.Status != filter.Status {
		return false
	}
	if filter.Category != "" && job.Category != filter.Category {
		return false
	}
	if filter.Genre != "" {
		found := false
		for _, g := range job.Genres {
			if g == filter.Genre {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filter.Query != "" && !strings.Contains(strings.ToLower(job.Title), strings.ToLower(filter.Query)) {
		return false
	}
	if filter.MinBudget != nil && job.Budget < *filter.MinBudget {
		return false
	}
	if filter.MaxBudget != nil && job.Budget > *filter.MaxBudget {
		return false
	}
	if filter.UserID != "" && job.UserID != filter.UserID {
		return false
	}
	return true
}

func sortJobsNewestFirst(jobs []model.Job) {
	sort.Slice(jobs, func(i, j int) bool {
		if !jobs[i].CreatedAt.Equal(jobs[j].CreatedAt) {
			return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
		}
		return jobs[i].JobID > jobs[j].JobID
	})
}

func (s *Store) ListJobsByUser(ctx context.Context, userID string) ([]model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var jobs []model.Job
	for _, job := range s.jobs {
		if job.UserID == userID {
			jobs = append(jobs, job)
		}
	}

	sortJobsNewestFirst(jobs)
	return jobs, nil
}

func (s *Store) TransitionStatus(ctx context.Context, jobID, from, to string) error {
	if !domain.CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, from, to)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return domain.ErrJobNotFound
	}

	if job.Status != from {
		return fmt.Errorf("%w: %s -> %s (current %s)", domain.ErrInvalidTransition, from, to, job.Status)
	}

	job.Status = to
	job.UpdatedAt = time.Now()
	s.jobs[jobID] = job
	return nil
}

func (s *Store) AssignJob(ctx context.Context, jobID, providerID string, budget *float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return domain.ErrJobNotFound
	}

	if job.Status != domain.JobStatusOpen {
		return fmt.Errorf("%w: %s -> %s (current %s)",
			domain.ErrInvalidTransition, domain.JobStatusOpen, domain.JobStatusAssigned, job.Status)
	}

	job.Status = domain.JobStatusAssigned
	job.AssignedProviderID.String = providerID
	job.AssignedProviderID.Valid = true
	if budget != nil {
		job.Budget = *budget
	}
	job.UpdatedAt = time.Now()
	s.jobs[jobID] = job
	return nil
}

func (s *Store) InsertBid(ctx context.Context, bid *model.Bid) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[bid.JobID]
	if !ok {
		return domain.ErrJobNotFound
	}

	if job.Status != domain.JobStatusOpen {
		return fmt.Errorf("%w: job is %s, bids require %s",
			domain.ErrInvalidTransition, job.Status, domain.JobStatusOpen)
	}

	s.bids[bid.BidID] = *bid
	return nil
}

func (s *Store) GetBid(ctx context.Context, jobID, bidID string) (*model.Bid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bid, ok := s.bids[bidID]
	if !ok || bid.JobID != jobID {
		return nil, domain.ErrBidNotFound
	}

	return &bid, nil
}

func (s *Store) ListBids(ctx context.Context, jobID string) ([]model.Bid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var bids []model.Bid
	for _, bid := range s.bids {
		if bid.JobID == jobID {
			bids = append(bids, bid)
		}
	}

	sort.Slice(bids, func(i, j int) bool {
		if !bids[i].CreatedAt.Equal(bids[j].CreatedAt) {
			return bids[i].CreatedAt.Before(bids[j].CreatedAt)
		}
		return bids[i].BidID < bids[j].BidID
	})

	return bids, nil
}

func (s *Store) DeleteBid(ctx context.Context, jobID, bidID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bid, ok := s.bids[bidID]
	if !ok || bid.JobID != jobID {
		return domain.ErrBidNotFound
	}

	delete(s.bids, bidID)
	return nil
}

func (s *Store) GetEscrow(ctx context.Context, jobID string) (*model.Escrow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	esc, ok := s.escrows[jobID]
	if !ok {
		return nil, domain.ErrJobNotFound
	}

	return &esc, nil
}

func (s *Store) FundEscrow(ctx context.Context, esc *model.Escrow, audit *model.EscrowAudit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.escrows[esc.JobID]; ok && existing.Funded {
		return domain.ErrAlreadyFunded
	}

	s.escrows[esc.JobID] = model.Escrow{
		JobID:     esc.JobID,
		Funded:    true,
		Released:  false,
		Amount:    esc.Amount,
		Currency:  esc.Currency,
		UpdatedAt: time.Now(),
	}
	s.audits = append(s.audits, *audit)
	return nil
}

func (s *Store) ReleaseEscrow(ctx context.Context, jobID string, audit *model.EscrowAudit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	esc, ok := s.escrows[jobID]
	if !ok || !esc.Funded {
		return domain.ErrNotFunded
	}

	if esc.Released {
		return domain.ErrAlreadyReleased
	}

	esc.Released = true
	esc.UpdatedAt = time.Now()
	s.escrows[jobID] = esc
	s.audits = append(s.audits, *audit)
	return nil
}

func (s *Store) RecordPaymentOrder(ctx context.Context, order *model.PaymentOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.payments[order.OrderID]; exists {
		return nil
	}

	s.payments[order.OrderID] = *order
	return nil
}

// AuditEntries returns a copy of the audit log. The application never reads
// it back; tests do.
func (s *Store) AuditEntries() []model.EscrowAudit {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.EscrowAudit, len(s.audits))
	copy(out, s.audits)
	return out
}

// PaymentOrders returns a copy of the recorded payment orders, for tests.
func (s *Store) PaymentOrders() []model.PaymentOrder {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.PaymentOrder, 0, len(s.payments))
	for _, p := range s.payments {
		out = append(out, p)
	}
	return out
}
