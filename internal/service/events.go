package service

import "github.com/google/uuid"

// EventPublisher delivers realtime events after a mutation commits.
// Delivery is best effort and must never block or fail the operation
// that triggered it.
type EventPublisher interface {
	BroadcastToBoard(boardID uuid.UUID, event string, payload interface{})
	SendToUser(userID uuid.UUID, event string, payload interface{})
}

// noopPublisher is used when no realtime hub is wired in
type noopPublisher struct{}

func (noopPublisher) BroadcastToBoard(uuid.UUID, string, interface{}) {}
func (noopPublisher) SendToUser(uuid.UUID, string, interface{})       {}

// NewNoopPublisher returns a publisher that discards all events
func NewNoopPublisher() EventPublisher {
	return noopPublisher{}
}
