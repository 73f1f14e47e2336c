package dto

type CreateJobRequest struct {
	Title             string   `json:"title" binding:"required,max=200"`
	Description       string   `json:"description"`
	Category          string   `json:"category" binding:"required,max=100"`
	Genres            []string `json:"genres" binding:"omitempty,dive,max=50"`
	Budget            float64  `json:"budget" binding:"omitempty,gte=0"`
	Currency          string   `json:"currency" binding:"omitempty,iso4217"`
	DeadlineDate      string   `json:"deadline_date" binding:"omitempty,datetime=2006-01-02"`
	RevisionsExpected int      `json:"revisions_expected" binding:"omitempty,gte=0,lte=20"`
	ReferenceURLs     []string `json:"reference_urls" binding:"omitempty,dive,url"`
}

type ListJobsRequest struct {
	Status    string   `form:"status"`
	Category  string   `form:"category"`
	Genre     string   `form:"genre"`
	Query     string   `form:"q"`
	MinBudget *float64 `form:"min_budget"`
	MaxBudget *float64 `form:"max_budget"`
	Page      int      `form:"page"`
	PageSize  int      `form:"page_size"`
}

type ListJobsResponse struct {
	Jobs     []JobDTO `json:"jobs"`
	Total    int      `json:"total"`
	Page     int      `json:"page"`
	PageSize int      `json:"page_size"`
}

type JobDTO struct {
	JobID              string   `json:"job_id"`
	UserID             string   `json:"user_id"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Category           string   `json:"category"`
	Genres             []string `json:"genres"`
	Budget             float64  `json:"budget"`
	Currency           string   `json:"currency"`
	DeadlineDate       string   `json:"deadline_date,omitempty"`
	RevisionsExpected  int      `json:"revisions_expected"`
	ReferenceURLs      []string `json:"reference_urls"`
	Status             string   `json:"status"`
	AssignedProviderID string   `json:"assigned_provider_id,omitempty"`
	Bids               []BidDTO `json:"bids,omitempty"`
	CreatedAt          string   `json:"created_at"`
	UpdatedAt          string   `json:"updated_at"`
}
