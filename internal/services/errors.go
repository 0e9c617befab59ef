// Package services holds the business logic of the rewards platform. The
// sentinel errors below are the whole failure taxonomy the handlers need to
// translate into HTTP responses; services never let storage-driver errors
// cross the boundary unmapped.
package services

import "errors"

// ErrNotFound is returned when a referenced submission, user, wallet or
// redemption request does not exist.
var ErrNotFound = errors.New("not found")

// ErrInsufficientFunds is returned when a debit would take a wallet below
// zero. No state is changed.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrInvalidAmount is returned for non-positive credit or debit amounts.
// Validated input never produces it; hitting it indicates a programming error.
var ErrInvalidAmount = errors.New("amount must be positive")

// ErrAuthentication is returned when a webhook signature is missing, wrong,
// or the shared secret is unconfigured, and for bad admin credentials.
var ErrAuthentication = errors.New("authentication failed")

// ErrVerdictConflict is returned when a redelivered verdict carries a
// terminal status that conflicts with the terminal status already recorded.
var ErrVerdictConflict = errors.New("conflicting terminal verdict")

// ErrDependency is returned when the external reviewer cannot be reached.
// The affected submission falls back to REJECTED instead of hanging.
var ErrDependency = errors.New("external reviewer unavailable")
