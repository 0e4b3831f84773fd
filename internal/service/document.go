package service

import (
	"context"
	"encoding/json"

	"github.com/CMihai83/documentiulia.ro-sub034/internal/model"
	"github.com/CMihai83/documentiulia.ro-sub034/internal/notify"
	"github.com/CMihai83/documentiulia.ro-sub034/internal/store"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// CreateDocumentRequest carries the fields of a new document.
type CreateDocumentRequest struct {
	OwnerID  string
	Kind     string
	TenantID string
	Content  string
	Tags     []string
	Meta     map[string]string
}

// CreateDocument creates a document at version 1 with an implicit ADMIN
// permission for the owner and a seed version snapshot.
func (c *CollabService) CreateDocument(ctx context.Context, request CreateDocumentRequest) (*model.Document, error) {
	if !model.ValidKind(request.Kind) {
		return nil, ErrInvalidKind
	}

	tags := request.Tags
	if tags == nil {
		tags = make([]string, 0)
	}
	tagData, err := json.Marshal(tags)
	if err != nil {
		return nil, err
	}

	meta := request.Meta
	if meta == nil {
		meta = make(map[string]string)
	}
	metaData, err := json.Marshal(meta)
	if err != nil {
		return nil, err
	}

	doc := &model.Document{
		ID:       uuid.New().String(),
		Kind:     request.Kind,
		OwnerID:  request.OwnerID,
		TenantID: request.TenantID,
		Content:  request.Content,
		Version:  1,
		Tags:     string(tagData),
		Meta:     string(metaData),
	}

	err = c.store.Transaction(ctx, func(tx store.Store) error {
		if err := tx.CreateDocument(ctx, doc); err != nil {
			return err
		}

		if err := tx.UpsertPermission(ctx, &model.Permission{
			DocumentID: doc.ID,
			UserID:     doc.OwnerID,
			Level:      model.LevelAdmin,
			GrantedBy:  doc.OwnerID,
		}); err != nil {
			return err
		}

		_, err := c.createSnapshot(ctx, tx, doc, doc.OwnerID, "document created")
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := c.cache.SetDocument(ctx, doc); err != nil {
		logrus.Errorf("error caching document %s: %v", doc.ID, err)
	}

	c.publish(ctx, notify.EventDocumentCreated, doc.ID, doc.OwnerID, map[string]any{
		"kind": doc.Kind,
	})

	return doc, nil
}

// GetDocument retrieves a document, cache first.
func (c *CollabService) GetDocument(ctx context.Context, id string) (*model.Document, error) {
	cached, err := c.cache.GetDocument(ctx, id)
	if err != nil {
		logrus.Errorf("error reading document cache: %v", err)
	}
	if cached != nil {
		return cached, nil
	}

	doc, err := c.store.GetDocument(ctx, id)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}

	if err := c.cache.SetDocument(ctx, doc); err != nil {
		logrus.Errorf("error caching document %s: %v", doc.ID, err)
	}

	return doc, nil
}

// ListDocuments retrieves documents matching the filter.
func (c *CollabService) ListDocuments(ctx context.Context, filter store.DocumentFilter) ([]*model.Document, error) {
	return c.store.ListDocuments(ctx, filter)
}

// UpdateDocumentRequest is a partial metadata update. Nil fields are left
// unchanged. Content is deliberately absent: content changes go through
// ApplyOperation.
type UpdateDocumentRequest struct {
	Kind     *string
	TenantID *string
	Tags     *[]string
	Meta     *map[string]string
}

// UpdateDocument replaces metadata fields and bumps UpdatedAt. It does
// not touch content or version.
func (c *CollabService) UpdateDocument(ctx context.Context, id string, request UpdateDocumentRequest) (*model.Document, error) {
	unlock := c.lockDocument(id)
	defer unlock()

	doc, err := c.store.GetDocument(ctx, id)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}

	if request.Kind != nil {
		if !model.ValidKind(*request.Kind) {
			return nil, ErrInvalidKind
		}
		doc.Kind = *request.Kind
	}
	if request.TenantID != nil {
		doc.TenantID = *request.TenantID
	}
	if request.Tags != nil {
		tagData, err := json.Marshal(*request.Tags)
		if err != nil {
			return nil, err
		}
		doc.Tags = string(tagData)
	}
	if request.Meta != nil {
		metaData, err := json.Marshal(*request.Meta)
		if err != nil {
			return nil, err
		}
		doc.Meta = string(metaData)
	}

	if err := c.store.UpdateDocument(ctx, doc); err != nil {
		return nil, err
	}

	if err := c.cache.SetDocument(ctx, doc); err != nil {
		logrus.Errorf("error caching document %s: %v", doc.ID, err)
	}

	c.publish(ctx, notify.EventDocumentUpdated, doc.ID, "", nil)

	return doc, nil
}

// DeleteDocument removes the document and all dependent state atomically.
func (c *CollabService) DeleteDocument(ctx context.Context, id string) error {
	unlock := c.lockDocument(id)
	defer unlock()

	if _, err := c.store.GetDocument(ctx, id); err != nil {
		if isRecordNotFound(err) {
			return ErrDocumentNotFound
		}
		return err
	}

	err := c.store.Transaction(ctx, func(tx store.Store) error {
		if err := tx.DeletePermissionsByDocument(ctx, id); err != nil {
			return err
		}
		if err := tx.DeleteOperationsByDocument(ctx, id); err != nil {
			return err
		}
		if err := tx.DeleteCommentsByDocument(ctx, id); err != nil {
			return err
		}
		if err := tx.DeleteVersionsByDocument(ctx, id); err != nil {
			return err
		}
		if err := tx.DeleteConflictsByDocument(ctx, id); err != nil {
			return err
		}
		if err := tx.DeleteSessionsByDocument(ctx, id); err != nil {
			return err
		}
		return tx.DeleteDocument(ctx, id)
	})
	if err != nil {
		return err
	}

	c.collaborators.RemoveDocument(id)
	if err := c.cache.DeleteDocument(ctx, id); err != nil {
		logrus.Errorf("error evicting document %s from cache: %v", id, err)
	}

	c.publish(ctx, notify.EventDocumentDeleted, id, "", nil)

	return nil
}

// GrantPermission creates or overwrites the (document, user) grant. The
// grantor must hold ADMIN; the owner implicitly qualifies.
func (c *CollabService) GrantPermission(ctx context.Context, docID, userID, level, grantedBy string, expiresAt *int64) (*model.Permission, error) {
	if !model.ValidLevel(level) {
		return nil, ErrInvalidLevel
	}

	doc, err := c.store.GetDocument(ctx, docID)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}

	if err := c.requireAdmin(ctx, doc, grantedBy); err != nil {
		return nil, err
	}

	perm := &model.Permission{
		DocumentID: docID,
		UserID:     userID,
		Level:      level,
		GrantedBy:  grantedBy,
		ExpiresAt:  expiresAt,
	}
	if err := c.store.UpsertPermission(ctx, perm); err != nil {
		return nil, err
	}

	// A live binding never outranks the durable grant.
	c.collaborators.SetLevel(docID, userID, level)

	c.publish(ctx, notify.EventPermissionGranted, docID, userID, map[string]any{
		"level":     level,
		"grantedBy": grantedBy,
	})

	return perm, nil
}

// RevokePermission removes the grant and evicts the user from the live
// registry. Revoking the owner always fails, regardless of the caller.
func (c *CollabService) RevokePermission(ctx context.Context, docID, userID, revokedBy string) error {
	doc, err := c.store.GetDocument(ctx, docID)
	if err != nil {
		if isRecordNotFound(err) {
			return ErrDocumentNotFound
		}
		return err
	}

	if doc.OwnerID == userID {
		return ErrOwnerPermission
	}

	if err := c.requireAdmin(ctx, doc, revokedBy); err != nil {
		return err
	}

	if err := c.store.DeletePermission(ctx, docID, userID); err != nil {
		return err
	}

	if c.collaborators.Leave(docID, userID) {
		c.presence.ClearDocument(userID, docID)
	}

	c.publish(ctx, notify.EventPermissionRevoked, docID, userID, map[string]any{
		"revokedBy": revokedBy,
	})

	return nil
}

// ListPermissions retrieves all grants on a document.
func (c *CollabService) ListPermissions(ctx context.Context, docID string) ([]*model.Permission, error) {
	if _, err := c.store.GetDocument(ctx, docID); err != nil {
		if isRecordNotFound(err) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	return c.store.ListPermissions(ctx, docID)
}

// LockDocument takes the advisory write lock. Re-locking by the holder is
// idempotent; any other holder makes it fail.
func (c *CollabService) LockDocument(ctx context.Context, docID, userID string) (*model.Document, error) {
	unlock := c.lockDocument(docID)
	defer unlock()

	doc, err := c.store.GetDocument(ctx, docID)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}

	if doc.LockedByOther(userID) {
		return nil, ErrDocumentLocked
	}
	if doc.LockedBy == userID {
		return doc, nil
	}

	doc.LockedBy = userID
	if err := c.store.UpdateDocument(ctx, doc); err != nil {
		return nil, err
	}

	if err := c.cache.SetDocument(ctx, doc); err != nil {
		logrus.Errorf("error caching document %s: %v", doc.ID, err)
	}

	c.publish(ctx, notify.EventDocumentLocked, docID, userID, nil)

	return doc, nil
}

// UnlockDocument releases the lock. Only the holder or the document owner
// may release it; unlocking an unlocked document is a no-op.
func (c *CollabService) UnlockDocument(ctx context.Context, docID, userID string) (*model.Document, error) {
	unlock := c.lockDocument(docID)
	defer unlock()

	doc, err := c.store.GetDocument(ctx, docID)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}

	if !doc.Locked() {
		return doc, nil
	}
	if doc.LockedBy != userID && doc.OwnerID != userID {
		return nil, ErrDocumentLocked
	}

	doc.LockedBy = ""
	if err := c.store.UpdateDocument(ctx, doc); err != nil {
		return nil, err
	}

	if err := c.cache.SetDocument(ctx, doc); err != nil {
		logrus.Errorf("error caching document %s: %v", doc.ID, err)
	}

	c.publish(ctx, notify.EventDocumentUnlocked, docID, userID, nil)

	return doc, nil
}

// requireAdmin checks that the user owns the document or holds ADMIN.
func (c *CollabService) requireAdmin(ctx context.Context, doc *model.Document, userID string) error {
	if doc.OwnerID == userID {
		return nil
	}

	perm, err := c.store.GetPermission(ctx, doc.ID, userID)
	if err != nil {
		if isRecordNotFound(err) {
			return ErrAccessDenied
		}
		return err
	}
	if !model.LevelAtLeast(perm.Level, model.LevelAdmin) {
		return ErrAccessDenied
	}
	return nil
}
