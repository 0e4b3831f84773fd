package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/CMihai83/documentiulia.ro-sub034/internal/model"
	"github.com/CMihai83/documentiulia.ro-sub034/internal/notify"
	"github.com/CMihai83/documentiulia.ro-sub034/internal/ot"
	"github.com/CMihai83/documentiulia.ro-sub034/internal/store"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ApplyOperationRequest carries one edit and the document version its
// author believed was current. Position and Length are byte offsets into
// the UTF-8 content and must land on rune boundaries.
type ApplyOperationRequest struct {
	DocumentID      string
	UserID          string
	Kind            string
	Position        int
	Content         string
	Length          int
	BaselineVersion int64
}

// ApplyOperation runs the edit pipeline: precondition checks, rebase
// against the history applied after the author's baseline, content
// mutation, version bump and log append — all inside one transaction
// under the document's keyed mutex. Conflicting concurrent edits are not
// errors; they are transformed and recorded as conflict events.
func (c *CollabService) ApplyOperation(ctx context.Context, request ApplyOperationRequest) (*model.Operation, error) {
	if !model.ValidOpKind(request.Kind) {
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidOperation, request.Kind)
	}
	if request.Position < 0 {
		return nil, fmt.Errorf("%w: negative position", ErrInvalidOperation)
	}
	if request.Length < 0 {
		return nil, fmt.Errorf("%w: negative length", ErrInvalidOperation)
	}

	unlock := c.lockDocument(request.DocumentID)
	defer unlock()

	var applied *model.Operation
	var doc *model.Document

	err := c.store.Transaction(ctx, func(tx store.Store) error {
		var err error
		doc, err = tx.GetDocument(ctx, request.DocumentID)
		if err != nil {
			if isRecordNotFound(err) {
				return ErrDocumentNotFound
			}
			return err
		}

		collaborator := c.collaborators.Get(doc.ID, request.UserID)
		if collaborator == nil {
			return ErrNotCollaborator
		}
		if !model.LevelAtLeast(collaborator.Level, model.LevelEdit) {
			return ErrAccessDenied
		}
		if doc.LockedByOther(request.UserID) {
			return ErrDocumentLocked
		}

		// Rebase against every peer operation applied after the author's
		// baseline. A stale-baseline client therefore converges against
		// the server's intervening history, not only same-tick arrivals.
		peers, err := tx.ListOperationsAfter(ctx, doc.ID, request.BaselineVersion)
		if err != nil {
			return err
		}
		var peerOps []ot.Op
		var peerIDs []string
		for _, peer := range peers {
			if peer.UserID == request.UserID {
				continue
			}
			peerOps = append(peerOps, toOTOp(peer))
			peerIDs = append(peerIDs, peer.ID)
		}

		position := request.Position
		transformed := len(peerOps) > 0
		if transformed {
			position, _ = ot.Transform(position, peerOps)
		}
		position = ot.Clamp(position, len(doc.Content))

		op := &model.Operation{
			ID:              uuid.New().String(),
			DocumentID:      doc.ID,
			Kind:            request.Kind,
			Position:        position,
			Content:         request.Content,
			Length:          request.Length,
			UserID:          request.UserID,
			BaselineVersion: request.BaselineVersion,
			Transformed:     transformed,
		}

		content, err := toOTOp(op).Apply(doc.Content)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidOperation, err)
		}

		doc.Content = content
		doc.Version++
		op.Version = doc.Version

		if err := tx.CreateOperation(ctx, op); err != nil {
			return err
		}

		if transformed {
			collided, err := json.Marshal(peerIDs)
			if err != nil {
				return err
			}
			if err := tx.CreateConflict(ctx, &model.ConflictRecord{
				ID:           uuid.New().String(),
				DocumentID:   doc.ID,
				OperationIDs: string(collided),
				Strategy:     model.StrategyMerge,
				ResultID:     op.ID,
			}); err != nil {
				return err
			}
			logrus.Infof("resolved conflict on document %s: %d peer ops, op %s moved to position %d",
				doc.ID, len(peerOps), op.ID, position)
		}

		if err := tx.UpdateDocument(ctx, doc); err != nil {
			return err
		}

		if doc.Version%snapshotEvery == 0 {
			summary := fmt.Sprintf("automatic snapshot at version %d", doc.Version)
			if _, err := c.createSnapshot(ctx, tx, doc, request.UserID, summary); err != nil {
				return err
			}
		}

		applied = op
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.collaborators.Touch(doc.ID, request.UserID)

	if err := c.cache.SetDocument(ctx, doc); err != nil {
		logrus.Errorf("error caching document %s: %v", doc.ID, err)
	}

	c.publish(ctx, notify.EventOperationApplied, doc.ID, request.UserID, map[string]any{
		"operationId": applied.ID,
		"kind":        applied.Kind,
		"position":    applied.Position,
		"version":     applied.Version,
		"transformed": applied.Transformed,
	})

	return applied, nil
}

// GetOperationLog returns a document's full operation log in applied
// order.
func (c *CollabService) GetOperationLog(ctx context.Context, docID string) ([]*model.Operation, error) {
	if _, err := c.store.GetDocument(ctx, docID); err != nil {
		if isRecordNotFound(err) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	return c.store.ListOperations(ctx, docID)
}

// toOTOp converts a logged operation into its transform-engine form.
func toOTOp(op *model.Operation) ot.Op {
	switch op.Kind {
	case model.OpInsert:
		return &ot.Insert{Pos: op.Position, Value: op.Content}
	case model.OpDelete:
		return &ot.Delete{Pos: op.Position, Len: op.Length}
	default:
		return &ot.Update{Pos: op.Position, Len: op.Length, Value: op.Content}
	}
}
