package interview

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionFinished = errors.New("session is finished")

	// ErrTurnPending is returned by Submit while a failed turn awaits Retry
	// or Discard.
	ErrTurnPending = errors.New("a failed turn is pending")

	ErrNoPendingTurn = errors.New("no failed turn to retry")
)
