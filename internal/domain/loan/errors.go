package loan

import "errors"

var (
	ErrNotFound          = errors.New("loan not found")
	ErrInvalidLoanTerm   = errors.New("invalid loan term")
	ErrMissingCollateral = errors.New("required collateral is missing")
	ErrInvalidStatus     = errors.New("invalid loan status")
	ErrInvalidKind       = errors.New("loan type must be individual or group")
)
