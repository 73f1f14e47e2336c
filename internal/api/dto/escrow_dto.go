package dto

type FundEscrowRequest struct {
	Amount   float64 `json:"amount" binding:"required,gt=0"`
	Currency string  `json:"currency" binding:"required,iso4217"`
}

type PaymentCaptureRequest struct {
	OrderID  string  `json:"order_id" binding:"required"`
	Amount   float64 `json:"amount" binding:"required,gt=0"`
	Currency string  `json:"currency" binding:"required,iso4217"`
	// Reference is the opaque transaction id reported by the payment widget.
	Reference string `json:"reference"`
}

type EscrowDTO struct {
	JobID     string  `json:"job_id"`
	Paid      bool    `json:"paid"`
	Released  bool    `json:"released"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency,omitempty"`
	UpdatedAt string  `json:"updated_at,omitempty"`
}

type UploadURLRequest struct {
	Filename    string `json:"filename" binding:"required,max=255"`
	ContentType string `json:"content_type" binding:"required"`
}

type UploadURLResponse struct {
	URL       string `json:"url"`
	Key       string `json:"key"`
	ExpiresAt string `json:"expires_at"`
}
