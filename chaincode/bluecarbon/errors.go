package main

import "errors"

// Sentinel errors for every failure class the contracts report. All of them
// abort the whole transaction; the peer discards the write set on error, so
// no partial state is ever visible.
var (
	ErrNotFound            = errors.New("not found")
	ErrDuplicateID         = errors.New("duplicate id")
	ErrInvalidState        = errors.New("invalid state")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidArea         = errors.New("invalid area")
	ErrNotEligible         = errors.New("not eligible")
	ErrDuplicateVote       = errors.New("duplicate vote")
	ErrAlreadyFinalized    = errors.New("already finalized")
	ErrAlreadyVerified     = errors.New("already verified")
	ErrInsufficientBalance = errors.New("insufficient balance")
)
