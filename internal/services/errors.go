package services

import "errors"

// Common service errors
var (
	ErrNotFound      = errors.New("record not found")
	ErrInvalidState  = errors.New("invalid state transition")
	ErrEscrowState   = errors.New("escrow is not in a releasable state")
	ErrInvalidRole   = errors.New("unknown role")
	ErrInvalidTier   = errors.New("unknown tier")
	ErrInvalidAmount = errors.New("amount must be positive")
)
