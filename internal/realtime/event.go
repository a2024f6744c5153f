package realtime

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Event names broadcast to board rooms after a mutation commits.
const (
	EventTaskCreated      = "taskCreated"
	EventTaskUpdated      = "taskUpdated"
	EventTaskDeleted      = "taskDeleted"
	EventColumnCreated    = "columnCreated"
	EventColumnUpdated    = "columnUpdated"
	EventColumnDeleted    = "columnDeleted"
	EventColumnsReordered = "columnsReordered"
	EventMemberChanged    = "memberChanged"
)

// Event names delivered on a user's personal channel.
const (
	EventInviteCreated   = "inviteCreated"
	EventInviteResponded = "inviteResponded"
)

// Client-to-server message types accepted over the websocket.
const (
	MessageBoardJoin  = "board:join"
	MessageBoardLeave = "board:leave"
)

// Event is the envelope every realtime message travels in. BoardID is
// zero for user-channel events.
type Event struct {
	Type    string      `json:"type"`
	BoardID uuid.UUID   `json:"boardId,omitempty"`
	Payload interface{} `json:"payload,omitempty"`
}

// inboundMessage is what a connected client may send us
type inboundMessage struct {
	Type    string    `json:"type"`
	BoardID uuid.UUID `json:"boardId,omitempty"`
}

// Marshal encodes the event for the wire. Errors are swallowed into a
// nil result; delivery is best effort.
func (e *Event) Marshal() []byte {
	data, err := json.Marshal(e)
	if err != nil {
		return nil
	}
	return data
}
