package repository

import "errors"

// Sentinel errors surfaced by multi-row ordering operations. The service
// layer maps these onto API error codes.
var (
	// ErrColumnNotEmpty is returned when deleting a column that still has tasks.
	ErrColumnNotEmpty = errors.New("column still contains tasks")

	// ErrColumnSetMismatch is returned when a reorder request does not
	// cover exactly the board's current column set.
	ErrColumnSetMismatch = errors.New("submitted column ids do not match the board's columns")

	// ErrColumnNotInBoard is returned when a task move targets a column
	// that belongs to a different board.
	ErrColumnNotInBoard = errors.New("target column does not belong to the task's board")

	// ErrInvitationNotPending is returned when responding to an
	// invitation that was already accepted or declined.
	ErrInvitationNotPending = errors.New("invitation is no longer pending")
)
