package domain

import "errors"

var (
	ErrConfigNotFound    = errors.New("election configuration not found")
	ErrElectionNotFound  = errors.New("election not found")
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrMemberNotFound    = errors.New("member not found")

	ErrValidation   = errors.New("validation failed")
	ErrInvalidState = errors.New("invalid election state")
	ErrPhaseClosed  = errors.New("phase does not accept this action")

	ErrNominationLimit = errors.New("nomination limit reached")
	ErrAlreadyVoted    = errors.New("voter has already voted for this position")

	ErrUnauthenticated = errors.New("missing or invalid identity")
	ErrForbidden       = errors.New("operation not allowed for this role")

	ErrInternal = errors.New("internal server error")
)
