package service

import (
	"context"
	"testing"

	"github.com/CMihai83/documentiulia.ro-sub034/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAddComment(t *testing.T) {
	svc := newTestService()
	owner := uuid.New().String()
	doc := createTestDocument(t, svc, owner, "content")

	start, end := 2, 6
	comment, err := svc.AddComment(context.TODO(), AddCommentRequest{
		DocumentID:  doc.ID,
		UserID:      owner,
		Content:     "check this range",
		AnchorStart: &start,
		AnchorEnd:   &end,
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, comment.ID)
	assert.False(t, comment.Resolved)
	assert.Equal(t, 2, *comment.AnchorStart)
}

func TestAddComment_RequiresCommentLevel(t *testing.T) {
	svc := newTestService()
	owner := uuid.New().String()
	viewer := uuid.New().String()
	doc := createTestDocument(t, svc, owner, "content")
	grantTestPermission(t, svc, doc.ID, viewer, model.LevelView, owner)

	_, err := svc.AddComment(context.TODO(), AddCommentRequest{
		DocumentID: doc.ID,
		UserID:     viewer,
		Content:    "not allowed",
	})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestAddComment_UnknownParent(t *testing.T) {
	svc := newTestService()
	owner := uuid.New().String()
	doc := createTestDocument(t, svc, owner, "content")

	_, err := svc.AddComment(context.TODO(), AddCommentRequest{
		DocumentID: doc.ID,
		UserID:     owner,
		Content:    "orphan reply",
		ParentID:   uuid.New().String(),
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListComments_Tree(t *testing.T) {
	svc := newTestService()
	owner := uuid.New().String()
	doc := createTestDocument(t, svc, owner, "content")

	root, err := svc.AddComment(context.TODO(), AddCommentRequest{
		DocumentID: doc.ID,
		UserID:     owner,
		Content:    "root",
	})
	assert.NoError(t, err)

	reply, err := svc.AddComment(context.TODO(), AddCommentRequest{
		DocumentID: doc.ID,
		UserID:     owner,
		Content:    "reply",
		ParentID:   root.ID,
	})
	assert.NoError(t, err)

	_, err = svc.AddComment(context.TODO(), AddCommentRequest{
		DocumentID: doc.ID,
		UserID:     owner,
		Content:    "nested reply",
		ParentID:   reply.ID,
	})
	assert.NoError(t, err)

	tree, err := svc.ListComments(context.TODO(), doc.ID)
	assert.NoError(t, err)
	assert.Len(t, tree, 1)
	assert.Equal(t, "root", tree[0].Content)
	assert.Len(t, tree[0].Replies, 1)
	assert.Equal(t, "reply", tree[0].Replies[0].Content)
	assert.Len(t, tree[0].Replies[0].Replies, 1)

	// counting covers every node, nested included
	stats, err := svc.GetCollaborationStats(context.TODO(), doc.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), stats.Comments)
}

func TestResolveComment(t *testing.T) {
	svc := newTestService()
	owner := uuid.New().String()
	resolver := uuid.New().String()
	doc := createTestDocument(t, svc, owner, "content")

	comment, err := svc.AddComment(context.TODO(), AddCommentRequest{
		DocumentID: doc.ID,
		UserID:     owner,
		Content:    "open question",
	})
	assert.NoError(t, err)

	resolved, err := svc.ResolveComment(context.TODO(), doc.ID, comment.ID, resolver)
	assert.NoError(t, err)
	assert.True(t, resolved.Resolved)
	assert.Equal(t, resolver, resolved.ResolvedBy)
}

func TestResolveComment_NotFound(t *testing.T) {
	svc := newTestService()
	owner := uuid.New().String()
	doc := createTestDocument(t, svc, owner, "content")

	_, err := svc.ResolveComment(context.TODO(), doc.ID, uuid.New().String(), owner)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteComment_Subtree(t *testing.T) {
	svc := newTestService()
	owner := uuid.New().String()
	doc := createTestDocument(t, svc, owner, "content")

	root, err := svc.AddComment(context.TODO(), AddCommentRequest{
		DocumentID: doc.ID,
		UserID:     owner,
		Content:    "root",
	})
	assert.NoError(t, err)

	reply, err := svc.AddComment(context.TODO(), AddCommentRequest{
		DocumentID: doc.ID,
		UserID:     owner,
		Content:    "reply",
		ParentID:   root.ID,
	})
	assert.NoError(t, err)

	_, err = svc.AddComment(context.TODO(), AddCommentRequest{
		DocumentID: doc.ID,
		UserID:     owner,
		Content:    "nested",
		ParentID:   reply.ID,
	})
	assert.NoError(t, err)

	other, err := svc.AddComment(context.TODO(), AddCommentRequest{
		DocumentID: doc.ID,
		UserID:     owner,
		Content:    "unrelated",
	})
	assert.NoError(t, err)

	// deleting the root takes the whole thread with it
	err = svc.DeleteComment(context.TODO(), doc.ID, root.ID)
	assert.NoError(t, err)

	tree, err := svc.ListComments(context.TODO(), doc.ID)
	assert.NoError(t, err)
	assert.Len(t, tree, 1)
	assert.Equal(t, other.ID, tree[0].ID)
}
