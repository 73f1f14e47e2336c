package model

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

// Job is a row in the job_requests table.
type Job struct {
	JobID              string         `db:"job_id"`
	UserID             string         `db:"user_id"`
	Title              string         `db:"title"`
	Description        string         `db:"description"`
	Category           string         `db:"category"`
	Genres             pq.StringArray `db:"genres"`
	Budget             float64        `db:"budget"`
	Currency           string         `db:"currency"`
	DeadlineDate       *time.Time     `db:"deadline_date"`
	RevisionsExpected  int            `db:"revisions_expected"`
	ReferenceURLs      pq.StringArray `db:"reference_urls"`
	Status             string         `db:"status"`
	AssignedProviderID sql.NullString `db:"assigned_provider_id"`
	CreatedAt          time.Time      `db:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at"`
}

// Bid is a row in the job_bids table. Bids have their own primary key so a
// submission is a single INSERT rather than a rewrite of the parent job row.
type Bid struct {
	BidID      string    `db:"bid_id"`
	JobID      string    `db:"job_id"`
	ProviderID string    `db:"provider_id"`
	Amount     float64   `db:"amount"`
	Message    string    `db:"message"`
	CreatedAt  time.Time `db:"created_at"`
}

// Escrow is a row in the job_escrow table, one per job.
type Escrow struct {
	JobID     string    `db:"job_id"`
	Funded    bool      `db:"funded"`
	Released  bool      `db:"released"`
	Amount    float64   `db:"amount"`
	Currency  string    `db:"currency"`
	UpdatedAt time.Time `db:"updated_at"`
}

// EscrowAudit is a row in the append-only job_escrow_audit table. The
// application writes these and never reads them back.
type EscrowAudit struct {
	AuditID   string    `db:"audit_id"`
	JobID     string    `db:"job_id"`
	Action    string    `db:"action"`
	ActorID   string    `db:"actor_id"`
	Amount    float64   `db:"amount"`
	Currency  string    `db:"currency"`
	CreatedAt time.Time `db:"created_at"`
}

// PaymentOrder records a payment-widget capture reported by the client.
type PaymentOrder struct {
	OrderID   string    `db:"order_id"`
	JobID     string    `db:"job_id"`
	PayerID   string    `db:"payer_id"`
	Amount    float64   `db:"amount"`
	Currency  string    `db:"currency"`
	Reference string    `db:"reference"`
	CreatedAt time.Time `db:"created_at"`
}
