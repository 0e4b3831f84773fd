package service

import (
	"context"
	"time"

	"github.com/CMihai83/documentiulia.ro-sub034/internal/live"
	"github.com/CMihai83/documentiulia.ro-sub034/internal/model"
	"github.com/CMihai83/documentiulia.ro-sub034/internal/notify"
)

// JoinDocumentRequest identifies the joining user.
type JoinDocumentRequest struct {
	DocumentID  string
	UserID      string
	DisplayName string
	Avatar      string
}

// JoinDocument binds a user to a document. The user must own the document
// or hold a permission on it. Rejoining is idempotent and returns the
// existing binding.
func (c *CollabService) JoinDocument(ctx context.Context, request JoinDocumentRequest) (*live.Collaborator, error) {
	doc, err := c.store.GetDocument(ctx, request.DocumentID)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}

	level := model.LevelAdmin
	if doc.OwnerID != request.UserID {
		perm, err := c.store.GetPermission(ctx, doc.ID, request.UserID)
		if err != nil {
			if isRecordNotFound(err) {
				return nil, ErrAccessDenied
			}
			return nil, err
		}
		level = perm.Level
	}

	collaborator := c.collaborators.Join(&live.Collaborator{
		DocumentID:  doc.ID,
		UserID:      request.UserID,
		DisplayName: request.DisplayName,
		Avatar:      request.Avatar,
		Level:       level,
	})

	c.presence.Upsert(request.UserID, live.StatusOnline, collaborator.Color, doc.ID)

	c.publish(ctx, notify.EventCollaboratorJoined, doc.ID, request.UserID, map[string]any{
		"displayName": collaborator.DisplayName,
		"color":       collaborator.Color,
	})
	c.publish(ctx, notify.EventPresenceUpdated, doc.ID, request.UserID, map[string]any{
		"status": live.StatusOnline,
	})

	return collaborator, nil
}

// LeaveDocument removes the live binding and detaches the user's presence
// from the document. Status stays online, now document-less.
func (c *CollabService) LeaveDocument(ctx context.Context, docID, userID string) error {
	if _, err := c.store.GetDocument(ctx, docID); err != nil {
		if isRecordNotFound(err) {
			return ErrDocumentNotFound
		}
		return err
	}

	if !c.collaborators.Leave(docID, userID) {
		return nil
	}
	c.presence.ClearDocument(userID, docID)

	c.publish(ctx, notify.EventCollaboratorLeft, docID, userID, nil)

	return nil
}

// ListCollaborators returns the live bindings on a document.
func (c *CollabService) ListCollaborators(ctx context.Context, docID string) ([]*live.Collaborator, error) {
	if _, err := c.store.GetDocument(ctx, docID); err != nil {
		if isRecordNotFound(err) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	return c.collaborators.List(docID), nil
}

// UpdateCursor moves a collaborator's live cursor. No operation log
// entry, no version bump; broadcast is the only side effect.
func (c *CollabService) UpdateCursor(ctx context.Context, docID, userID string, cursor *live.Cursor) error {
	if !c.collaborators.SetCursor(docID, userID, cursor) {
		return ErrNotCollaborator
	}

	c.publish(ctx, notify.EventCursorUpdated, docID, userID, map[string]any{
		"cursor": cursor,
	})

	return nil
}

// UpdateSelection replaces a collaborator's live selection; nil clears it.
func (c *CollabService) UpdateSelection(ctx context.Context, docID, userID string, selection *live.Selection) error {
	if !c.collaborators.SetSelection(docID, userID, selection) {
		return ErrNotCollaborator
	}

	c.publish(ctx, notify.EventSelectionUpdated, docID, userID, map[string]any{
		"selection": selection,
	})

	return nil
}

// SetPresence updates a user's process-wide status independent of any
// document membership.
func (c *CollabService) SetPresence(ctx context.Context, userID, status string) (*live.Presence, error) {
	switch status {
	case live.StatusOnline, live.StatusAway, live.StatusBusy:
	default:
		return nil, ErrInvalidStatus
	}

	presence := c.presence.Upsert(userID, status, "", "")

	c.publish(ctx, notify.EventPresenceUpdated, presence.DocumentID, userID, map[string]any{
		"status": status,
	})

	return presence, nil
}

// GetPresence returns a user's presence entry, or nil if unknown.
func (c *CollabService) GetPresence(userID string) *live.Presence {
	return c.presence.Get(userID)
}

// SweepIdleCollaborators evicts live bindings inactive for longer than
// maxIdle. Called by the background sweeper, never by engine operations.
func (c *CollabService) SweepIdleCollaborators(ctx context.Context, maxIdle time.Duration) int {
	evicted := c.collaborators.SweepIdle(maxIdle)
	for _, collaborator := range evicted {
		c.presence.ClearDocument(collaborator.UserID, collaborator.DocumentID)
		c.publish(ctx, notify.EventCollaboratorLeft, collaborator.DocumentID, collaborator.UserID, map[string]any{
			"reason": "idle",
		})
	}
	return len(evicted)
}
