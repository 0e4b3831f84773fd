package service

import (
	"errors"
	"fmt"
)

// Error taxonomy roots. Every engine error wraps exactly one of these so
// transport layers can map them without string matching.
var (
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrBadRequest = errors.New("bad request")
)

var (
	// ErrDocumentNotFound is returned when the document does not exist.
	ErrDocumentNotFound = fmt.Errorf("document %w", ErrNotFound)
	// ErrCommentNotFound is returned when the comment does not exist on the document.
	ErrCommentNotFound = fmt.Errorf("comment %w", ErrNotFound)
	// ErrVersionNotFound is returned when no snapshot carries the requested version number.
	ErrVersionNotFound = fmt.Errorf("version %w", ErrNotFound)
	// ErrSessionNotFound is returned when the document has no open session.
	ErrSessionNotFound = fmt.Errorf("open session %w", ErrNotFound)
	// ErrAccessDenied is returned on a missing or insufficient permission.
	ErrAccessDenied = fmt.Errorf("access denied: %w", ErrForbidden)
	// ErrNotCollaborator is returned when the user has no live binding on the document.
	ErrNotCollaborator = fmt.Errorf("user is not an active collaborator: %w", ErrForbidden)
	// ErrDocumentLocked is returned when the document is locked by another user.
	ErrDocumentLocked = fmt.Errorf("document is locked by another user: %w", ErrForbidden)
	// ErrOwnerPermission is returned on an attempt to revoke the owner's access.
	ErrOwnerPermission = fmt.Errorf("the owner's permission cannot be revoked: %w", ErrBadRequest)
	// ErrInvalidKind is returned for an unknown document kind.
	ErrInvalidKind = fmt.Errorf("unknown document kind: %w", ErrBadRequest)
	// ErrInvalidLevel is returned for an unknown permission level.
	ErrInvalidLevel = fmt.Errorf("unknown permission level: %w", ErrBadRequest)
	// ErrInvalidOperation is returned for a malformed operation request.
	ErrInvalidOperation = fmt.Errorf("invalid operation: %w", ErrBadRequest)
	// ErrInvalidStatus is returned for an unknown presence status.
	ErrInvalidStatus = fmt.Errorf("unknown presence status: %w", ErrBadRequest)
)
