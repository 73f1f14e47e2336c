package domain

// Job status constants
const (
	JobStatusPending   = "PENDING"
	JobStatusOpen      = "OPEN"
	JobStatusAssigned  = "ASSIGNED"
	JobStatusCompleted = "COMPLETED"
	JobStatusCancelled = "CANCELLED"
)

// transitions maps each status to the statuses reachable from it.
// PENDING jobs are promoted to OPEN by moderation; CANCELLED is reachable
// from every non-terminal state.
var transitions = map[string][]string{
	JobStatusPending:  {JobStatusOpen, JobStatusCancelled},
	JobStatusOpen:     {JobStatusAssigned, JobStatusCancelled},
	JobStatusAssigned: {JobStatusCompleted, JobStatusCancelled},
}

// CanTransition reports whether a job may move from one status to another.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether a status admits no further transitions.
func IsTerminal(status string) bool {
	return len(transitions[status]) == 0
}

// ValidStatus reports whether the given string is a known job status.
func ValidStatus(status string) bool {
	switch status {
	case JobStatusPending, JobStatusOpen, JobStatusAssigned, JobStatusCompleted, JobStatusCancelled:
		return true
	}
	return false
}

// Escrow audit actions
const (
	EscrowActionFund    = "FUND"
	EscrowActionRelease = "RELEASE"
	EscrowActionPayment = "PAYMENT"
)
