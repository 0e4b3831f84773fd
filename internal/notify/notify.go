package notify

import (
	"context"
	"time"
)

// Event types published on every engine state change.
const (
	EventDocumentCreated    = "document.created"
	EventDocumentUpdated    = "document.updated"
	EventDocumentDeleted    = "document.deleted"
	EventCollaboratorJoined = "collaborator.joined"
	EventCollaboratorLeft   = "collaborator.left"
	EventPermissionGranted  = "permission.granted"
	EventPermissionRevoked  = "permission.revoked"
	EventOperationApplied   = "operation.applied"
	EventCursorUpdated      = "cursor.updated"
	EventSelectionUpdated   = "selection.updated"
	EventCommentAdded       = "comment.added"
	EventCommentResolved    = "comment.resolved"
	EventCommentDeleted     = "comment.deleted"
	EventDocumentLocked     = "document.locked"
	EventDocumentUnlocked   = "document.unlocked"
	EventVersionCreated     = "version.created"
	EventVersionRestored    = "version.restored"
	EventPresenceUpdated    = "presence.updated"
	EventSessionStarted     = "session.started"
	EventSessionEnded       = "session.ended"
)

// Event carries the document id and the minimal fields a listener needs
// to react; the payload shape is not a wire contract.
type Event struct {
	Type       string         `json:"type"`
	DocumentID string         `json:"documentId,omitempty"`
	UserID     string         `json:"userId,omitempty"`
	Payload    map[string]any `json:"payload,omitempty"`
	At         time.Time      `json:"at"`
}

// Notifier receives every engine state change. Implementations must not
// block the calling operation for long; publishing failures are logged,
// never surfaced to the mutating caller.
type Notifier interface {
	Publish(ctx context.Context, event Event) error
}

// Fanout publishes to several notifiers in order.
type Fanout []Notifier

func (f Fanout) Publish(ctx context.Context, event Event) error {
	var firstErr error
	for _, n := range f {
		if err := n.Publish(ctx, event); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Nop discards events.
type Nop struct{}

func NewNop() Nop {
	return Nop{}
}

func (Nop) Publish(ctx context.Context, event Event) error {
	return nil
}
