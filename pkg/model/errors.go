package model

import "errors"

// Domain errors raised by the engine. They abort the current calculation.
var (
	ErrInvalidInput            = errors.New("invalid input")
	ErrNoEligibleIncome        = errors.New("mandatory savings enabled but no CPF-eligible income source")
	ErrInvalidCPFBalance       = errors.New("CPF account balance cannot be negative")
	ErrInvalidLoanParameters   = errors.New("invalid loan parameters")
	ErrNumericOverflow         = errors.New("numeric overflow")
	ErrUnknownRetirementTarget = errors.New("unknown retirement sum target")
)
