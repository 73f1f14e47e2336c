package domain

import "errors"

var (
	// ErrJobNotFound is returned when a job cannot be found in the database
	ErrJobNotFound = errors.New("job not found")

	// ErrBidNotFound is returned when a bid cannot be found on a job
	ErrBidNotFound = errors.New("bid not found")

	// ErrInvalidStatus is returned when a status filter value is not a
	// known job status
	ErrInvalidStatus = errors.New("unknown job status")

	// ErrInvalidTransition is returned when a status change is not allowed
	// from the job's current status
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrForbidden is returned when the acting user does not own the resource
	ErrForbidden = errors.New("operation not permitted for this user")

	// ErrNotFunded is returned when releasing escrow that was never funded
	ErrNotFunded = errors.New("escrow is not funded")

	// ErrAlreadyFunded is returned when funding escrow that is already funded
	ErrAlreadyFunded = errors.New("escrow is already funded")

	// ErrAlreadyReleased is returned when releasing escrow twice
	ErrAlreadyReleased = errors.New("escrow is already released")
)
