package services

import "errors"

var (
	// ErrNotReady rejects finalization before a match winner is determined.
	ErrNotReady = errors.New("match is not ready to finalize")

	// ErrReferenceNotFound indicates a player, team, or match referenced
	// by the operation no longer exists. Nothing is committed.
	ErrReferenceNotFound = errors.New("referenced record not found")

	// ErrTransactionFailed wraps a finalization transaction that kept
	// failing after bounded retries. The match stays in progress; the
	// caller can retry.
	ErrTransactionFailed = errors.New("finalization transaction failed")
)
