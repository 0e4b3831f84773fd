package store

import (
	"context"

	"github.com/CMihai83/documentiulia.ro-sub034/internal/model"
)

// DocumentFilter narrows ListDocuments. Zero fields are ignored.
// MemberID matches documents the user owns or holds a permission on.
type DocumentFilter struct {
	OwnerID  string
	TenantID string
	Kind     string
	MemberID string
}

type Store interface {
	DocumentStore
	PermissionStore
	OperationStore
	CommentStore
	VersionStore
	ConflictStore
	SessionStore
	Transaction(ctx context.Context, f func(tx Store) error) error
	Migrate() error
}

type DocumentStore interface {
	// CreateDocument creates a new document.
	CreateDocument(ctx context.Context, doc *model.Document) error
	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*model.Document, error)
	// ListDocuments retrieves documents matching the filter.
	ListDocuments(ctx context.Context, filter DocumentFilter) ([]*model.Document, error)
	// UpdateDocument saves a document.
	UpdateDocument(ctx context.Context, doc *model.Document) error
	// DeleteDocument removes a document row. Dependent state is removed
	// by the caller inside the same transaction.
	DeleteDocument(ctx context.Context, id string) error
}

type PermissionStore interface {
	// UpsertPermission creates or overwrites the (document, user) grant.
	UpsertPermission(ctx context.Context, perm *model.Permission) error
	// GetPermission retrieves the grant for a user on a document.
	GetPermission(ctx context.Context, docID, userID string) (*model.Permission, error)
	// ListPermissions retrieves all grants on a document.
	ListPermissions(ctx context.Context, docID string) ([]*model.Permission, error)
	// DeletePermission removes the grant for a user on a document.
	DeletePermission(ctx context.Context, docID, userID string) error
	// DeletePermissionsByDocument removes every grant on a document.
	DeletePermissionsByDocument(ctx context.Context, docID string) error
}

type OperationStore interface {
	// CreateOperation appends an operation to the log.
	CreateOperation(ctx context.Context, op *model.Operation) error
	// ListOperations retrieves the full log in applied order.
	ListOperations(ctx context.Context, docID string) ([]*model.Operation, error)
	// ListOperationsAfter retrieves operations applied after the given
	// version, in applied order.
	ListOperationsAfter(ctx context.Context, docID string, version int64) ([]*model.Operation, error)
	// CountOperations counts the log entries of a document.
	CountOperations(ctx context.Context, docID string) (int64, error)
	// DeleteOperationsByDocument removes a document's log.
	DeleteOperationsByDocument(ctx context.Context, docID string) error
}

type CommentStore interface {
	// CreateComment creates a comment row.
	CreateComment(ctx context.Context, comment *model.Comment) error
	// GetComment retrieves a comment by ID scoped to a document.
	GetComment(ctx context.Context, docID, id string) (*model.Comment, error)
	// ListComments retrieves all comment rows of a document.
	ListComments(ctx context.Context, docID string) ([]*model.Comment, error)
	// UpdateComment saves a comment.
	UpdateComment(ctx context.Context, comment *model.Comment) error
	// DeleteComments removes the given comment rows.
	DeleteComments(ctx context.Context, docID string, ids []string) error
	// DeleteCommentsByDocument removes every comment of a document.
	DeleteCommentsByDocument(ctx context.Context, docID string) error
	// CountComments counts every comment row of a document, root and
	// nested alike.
	CountComments(ctx context.Context, docID string) (int64, error)
}

type VersionStore interface {
	// CreateVersion appends a snapshot to a document's version history.
	CreateVersion(ctx context.Context, version *model.DocumentVersion) error
	// GetVersion retrieves a snapshot by version number.
	GetVersion(ctx context.Context, docID string, version int64) (*model.DocumentVersion, error)
	// ListVersions retrieves the version history in ascending order.
	ListVersions(ctx context.Context, docID string) ([]*model.DocumentVersion, error)
	// CountVersions counts the snapshots of a document.
	CountVersions(ctx context.Context, docID string) (int64, error)
	// DeleteVersionsByDocument removes a document's version history.
	DeleteVersionsByDocument(ctx context.Context, docID string) error
}

type ConflictStore interface {
	// CreateConflict records a transform resolution.
	CreateConflict(ctx context.Context, conflict *model.ConflictRecord) error
	// CountConflicts counts the recorded conflicts of a document.
	CountConflicts(ctx context.Context, docID string) (int64, error)
	// DeleteConflictsByDocument removes a document's conflict log.
	DeleteConflictsByDocument(ctx context.Context, docID string) error
}

type SessionStore interface {
	// CreateSession creates a session row.
	CreateSession(ctx context.Context, session *model.CollabSession) error
	// GetOpenSession retrieves the most recent session without an end time.
	GetOpenSession(ctx context.Context, docID string) (*model.CollabSession, error)
	// UpdateSession saves a session.
	UpdateSession(ctx context.Context, session *model.CollabSession) error
	// ListSessions retrieves all sessions of a document.
	ListSessions(ctx context.Context, docID string) ([]*model.CollabSession, error)
	// DeleteSessionsByDocument removes a document's sessions.
	DeleteSessionsByDocument(ctx context.Context, docID string) error
}
