package services

import "errors"

// Common service errors
var (
	ErrNotFound        = errors.New("loan not found")
	ErrInvalidAmount   = errors.New("amount must be a positive number")
	ErrInvalidDate     = errors.New("date could not be parsed")
	ErrInvalidState    = errors.New("invalid workflow status transition")
	ErrBadInstallment  = errors.New("installment number out of range")
	ErrAlreadyPaid     = errors.New("installment is already paid")
	ErrMissingBorrower = errors.New("borrower name is required")
)
