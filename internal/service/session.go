package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/CMihai83/documentiulia.ro-sub034/internal/model"
	"github.com/CMihai83/documentiulia.ro-sub034/internal/notify"
	"github.com/google/uuid"
)

// StartSession opens an observation window over the document's current
// collaborator set.
func (c *CollabService) StartSession(ctx context.Context, docID string) (*model.CollabSession, error) {
	if _, err := c.store.GetDocument(ctx, docID); err != nil {
		if isRecordNotFound(err) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}

	participants, err := json.Marshal(c.collaborators.UserIDs(docID))
	if err != nil {
		return nil, err
	}

	session := &model.CollabSession{
		ID:           uuid.New().String(),
		DocumentID:   docID,
		Participants: string(participants),
		StartedAt:    time.Now(),
	}
	if err := c.store.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	c.publish(ctx, notify.EventSessionStarted, docID, "", map[string]any{
		"sessionId": session.ID,
	})

	return session, nil
}

// EndSession closes the most recent open session. Operation and conflict
// counts are filled from the document's full log totals at close time,
// not as a since-start delta.
func (c *CollabService) EndSession(ctx context.Context, docID string) (*model.CollabSession, error) {
	if _, err := c.store.GetDocument(ctx, docID); err != nil {
		if isRecordNotFound(err) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}

	session, err := c.store.GetOpenSession(ctx, docID)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	operations, err := c.store.CountOperations(ctx, docID)
	if err != nil {
		return nil, err
	}
	conflicts, err := c.store.CountConflicts(ctx, docID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session.EndedAt = &now
	session.OperationsCount = operations
	session.ConflictsResolved = conflicts
	if err := c.store.UpdateSession(ctx, session); err != nil {
		return nil, err
	}

	c.publish(ctx, notify.EventSessionEnded, docID, "", map[string]any{
		"sessionId": session.ID,
		"duration":  session.Duration().Seconds(),
	})

	return session, nil
}

// CollaborationStats summarizes a document's collaboration activity.
type CollaborationStats struct {
	Operations          int64   `json:"operations"`
	Comments            int64   `json:"comments"`
	Versions            int64   `json:"versions"`
	Conflicts           int64   `json:"conflicts"`
	ActiveCollaborators int     `json:"activeCollaborators"`
	AvgSessionSeconds   float64 `json:"avgSessionSeconds"`
}

// GetCollaborationStats aggregates counters for one document. Comment
// counting covers every node of the tree, root and nested alike.
func (c *CollabService) GetCollaborationStats(ctx context.Context, docID string) (*CollaborationStats, error) {
	if _, err := c.store.GetDocument(ctx, docID); err != nil {
		if isRecordNotFound(err) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}

	operations, err := c.store.CountOperations(ctx, docID)
	if err != nil {
		return nil, err
	}
	comments, err := c.store.CountComments(ctx, docID)
	if err != nil {
		return nil, err
	}
	versions, err := c.store.CountVersions(ctx, docID)
	if err != nil {
		return nil, err
	}
	conflicts, err := c.store.CountConflicts(ctx, docID)
	if err != nil {
		return nil, err
	}

	stats := &CollaborationStats{
		Operations:          operations,
		Comments:            comments,
		Versions:            versions,
		Conflicts:           conflicts,
		ActiveCollaborators: len(c.collaborators.List(docID)),
	}

	sessions, err := c.store.ListSessions(ctx, docID)
	if err != nil {
		return nil, err
	}
	var total time.Duration
	var closed int
	for _, session := range sessions {
		if session.Closed() {
			total += session.Duration()
			closed++
		}
	}
	if closed > 0 {
		stats.AvgSessionSeconds = total.Seconds() / float64(closed)
	}

	return stats, nil
}
