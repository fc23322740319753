package kyc

import "errors"

var (
	// ErrCantUpdateStep covers every submit precondition failure that must
	// look like "not found" to the caller: missing step/request pairing,
	// step already in review or validated, request rejected.
	ErrCantUpdateStep  = errors.New("cant update this step")
	ErrForbidden       = errors.New("forbidden")
	ErrStepNotFound    = errors.New("step does not exist")
	ErrRequestNotFound = errors.New("kyc request does not exist")
)
