package dto

type SubmitBidRequest struct {
	Amount  float64 `json:"amount" binding:"required,gt=0"`
	Message string  `json:"message" binding:"max=2000"`
}

type AcceptBidRequest struct {
	// AdoptAmount overwrites the job budget with the accepted bid amount.
	AdoptAmount bool `json:"adopt_amount"`
}

type BidDTO struct {
	BidID      string  `json:"bid_id"`
	JobID      string  `json:"job_id"`
	ProviderID string  `json:"provider_id"`
	Amount     float64 `json:"amount"`
	Message    string  `json:"message"`
	CreatedAt  string  `json:"created_at"`
}
