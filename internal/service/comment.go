package service

import (
	"context"

	"github.com/CMihai83/documentiulia.ro-sub034/internal/model"
	"github.com/CMihai83/documentiulia.ro-sub034/internal/notify"
	"github.com/google/uuid"
)

// AddCommentRequest creates a root comment, or a reply when ParentID is
// set.
type AddCommentRequest struct {
	DocumentID  string
	UserID      string
	Content     string
	AnchorStart *int
	AnchorEnd   *int
	ParentID    string
}

// CommentNode is a comment with its assembled reply subtree.
type CommentNode struct {
	*model.Comment
	Replies []*CommentNode `json:"replies"`
}

// AddComment attaches a comment to the document, or to the parent comment
// when ParentID is given. Requires COMMENT level or better.
func (c *CollabService) AddComment(ctx context.Context, request AddCommentRequest) (*model.Comment, error) {
	doc, err := c.store.GetDocument(ctx, request.DocumentID)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}

	if err := c.requireLevel(ctx, doc, request.UserID, model.LevelComment); err != nil {
		return nil, err
	}

	// Replies only ever attach to an existing node, so the tree cannot
	// form cycles.
	if request.ParentID != "" {
		if _, err := c.store.GetComment(ctx, doc.ID, request.ParentID); err != nil {
			if isRecordNotFound(err) {
				return nil, ErrCommentNotFound
			}
			return nil, err
		}
	}

	comment := &model.Comment{
		ID:          uuid.New().String(),
		DocumentID:  doc.ID,
		ParentID:    request.ParentID,
		UserID:      request.UserID,
		Content:     request.Content,
		AnchorStart: request.AnchorStart,
		AnchorEnd:   request.AnchorEnd,
	}
	if err := c.store.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	c.publish(ctx, notify.EventCommentAdded, doc.ID, request.UserID, map[string]any{
		"commentId": comment.ID,
		"parentId":  comment.ParentID,
	})

	return comment, nil
}

// ResolveComment marks a comment resolved and records who resolved it.
func (c *CollabService) ResolveComment(ctx context.Context, docID, commentID, resolvedBy string) (*model.Comment, error) {
	comment, err := c.store.GetComment(ctx, docID, commentID)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}

	comment.Resolved = true
	comment.ResolvedBy = resolvedBy
	if err := c.store.UpdateComment(ctx, comment); err != nil {
		return nil, err
	}

	c.publish(ctx, notify.EventCommentResolved, docID, resolvedBy, map[string]any{
		"commentId": comment.ID,
	})

	return comment, nil
}

// DeleteComment removes a comment and its entire reply subtree.
func (c *CollabService) DeleteComment(ctx context.Context, docID, commentID string) error {
	if _, err := c.store.GetComment(ctx, docID, commentID); err != nil {
		if isRecordNotFound(err) {
			return ErrCommentNotFound
		}
		return err
	}

	comments, err := c.store.ListComments(ctx, docID)
	if err != nil {
		return err
	}

	// Flat parent-id index instead of recursive traversal.
	children := make(map[string][]string)
	for _, comment := range comments {
		if comment.ParentID != "" {
			children[comment.ParentID] = append(children[comment.ParentID], comment.ID)
		}
	}

	subtree := []string{commentID}
	for i := 0; i < len(subtree); i++ {
		subtree = append(subtree, children[subtree[i]]...)
	}

	if err := c.store.DeleteComments(ctx, docID, subtree); err != nil {
		return err
	}

	c.publish(ctx, notify.EventCommentDeleted, docID, "", map[string]any{
		"commentId": commentID,
		"removed":   len(subtree),
	})

	return nil
}

// ListComments returns the document's comment tree. Every row appears
// exactly once: as a root or under its parent.
func (c *CollabService) ListComments(ctx context.Context, docID string) ([]*CommentNode, error) {
	if _, err := c.store.GetDocument(ctx, docID); err != nil {
		if isRecordNotFound(err) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}

	comments, err := c.store.ListComments(ctx, docID)
	if err != nil {
		return nil, err
	}

	nodes := make(map[string]*CommentNode, len(comments))
	for _, comment := range comments {
		nodes[comment.ID] = &CommentNode{Comment: comment, Replies: make([]*CommentNode, 0)}
	}

	roots := make([]*CommentNode, 0)
	for _, comment := range comments {
		node := nodes[comment.ID]
		if parent, ok := nodes[comment.ParentID]; ok {
			parent.Replies = append(parent.Replies, node)
		} else {
			roots = append(roots, node)
		}
	}

	return roots, nil
}

// requireLevel checks ownership or a permission of at least min.
func (c *CollabService) requireLevel(ctx context.Context, doc *model.Document, userID, min string) error {
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
	if !model.LevelAtLeast(perm.Level, min) {
		return ErrAccessDenied
	}
	return nil
}
