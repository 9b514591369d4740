package payment

import (
	"errors"
	"fmt"
)

var (
	ErrNonPositiveAmount    = errors.New("payment amount must be positive")
	ErrAmountExceedsBalance = errors.New("payment amount exceeds outstanding balance")
	ErrInvalidParameters    = errors.New("invalid payment parameters")

	ErrMemberRequired   = fmt.Errorf("%w: group loan payments require a member", ErrInvalidParameters)
	ErrMemberNotInGroup = fmt.Errorf("%w: member does not belong to this group loan", ErrInvalidParameters)
	ErrMemberBlocked    = fmt.Errorf("%w: member is blocked", ErrInvalidParameters)
	ErrInvalidType      = fmt.Errorf("%w: unknown payment type", ErrInvalidParameters)
)
