package service

import (
	"context"
	"testing"

	"github.com/CMihai83/documentiulia.ro-sub034/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestApplyOperation_Insert(t *testing.T) {
	svc := newTestService()
	owner := uuid.New().String()
	doc := createTestDocument(t, svc, owner, "Hello World")
	joinTestDocument(t, svc, doc.ID, owner)

	op, err := svc.ApplyOperation(context.TODO(), ApplyOperationRequest{
		DocumentID:      doc.ID,
		UserID:          owner,
		Kind:            model.OpInsert,
		Position:        5,
		Content:         " Beautiful",
		BaselineVersion: 1,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(2), op.Version)
	assert.False(t, op.Transformed)

	got, err := svc.GetDocument(context.TODO(), doc.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Hello Beautiful World", got.Content)
	assert.Equal(t, int64(2), got.Version)
}

func TestApplyOperation_Delete(t *testing.T) {
	svc := newTestService()
	owner := uuid.New().String()
	doc := createTestDocument(t, svc, owner, "Hello World")
	joinTestDocument(t, svc, doc.ID, owner)

	_, err := svc.ApplyOperation(context.TODO(), ApplyOperationRequest{
		DocumentID:      doc.ID,
		UserID:          owner,
		Kind:            model.OpDelete,
		Position:        5,
		Length:          6,
		BaselineVersion: 1,
	})
	assert.NoError(t, err)

	got, err := svc.GetDocument(context.TODO(), doc.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Hello", got.Content)
	assert.Equal(t, int64(2), got.Version)
}

func TestApplyOperation_Update(t *testing.T) {
	svc := newTestService()
	owner := uuid.New().String()
	doc := createTestDocument(t, svc, owner, "Hello World")
	joinTestDocument(t, svc, doc.ID, owner)

	_, err := svc.ApplyOperation(context.TODO(), ApplyOperationRequest{
		DocumentID:      doc.ID,
		UserID:          owner,
		Kind:            model.OpUpdate,
		Position:        6,
		Length:          5,
		Content:         "Go",
		BaselineVersion: 1,
	})
	assert.NoError(t, err)

	got, err := svc.GetDocument(context.TODO(), doc.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Hello Go", got.Content)
}

func TestApplyOperation_NotCollaborator(t *testing.T) {
	svc := newTestService()
	owner := uuid.New().String()
	doc := createTestDocument(t, svc, owner, "Hello")

	// the owner has full permission but never joined
	_, err := svc.ApplyOperation(context.TODO(), ApplyOperationRequest{
		DocumentID:      doc.ID,
		UserID:          owner,
		Kind:            model.OpInsert,
		Position:        0,
		Content:         "x",
		BaselineVersion: 1,
	})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestApplyOperation_ViewLevelForbidden(t *testing.T) {
	svc := newTestService()
	owner := uuid.New().String()
	viewer := uuid.New().String()
	doc := createTestDocument(t, svc, owner, "Hello")
	grantTestPermission(t, svc, doc.ID, viewer, model.LevelView, owner)
	joinTestDocument(t, svc, doc.ID, viewer)

	_, err := svc.ApplyOperation(context.TODO(), ApplyOperationRequest{
		DocumentID:      doc.ID,
		UserID:          viewer,
		Kind:            model.OpInsert,
		Position:        0,
		Content:         "x",
		BaselineVersion: 1,
	})
	assert.ErrorIs(t, err, ErrForbidden)

	// the document is untouched
	got, err := svc.GetDocument(context.TODO(), doc.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Hello", got.Content)
	assert.Equal(t, int64(1), got.Version)
}

func TestApplyOperation_LockedByOther(t *testing.T) {
	svc := newTestService()
	owner := uuid.New().String()
	editor := uuid.New().String()
	doc := createTestDocument(t, svc, owner, "Hello")
	grantTestPermission(t, svc, doc.ID, editor, model.LevelEdit, owner)
	joinTestDocument(t, svc, doc.ID, owner)
	joinTestDocument(t, svc, doc.ID, editor)

	_, err := svc.LockDocument(context.TODO(), doc.ID, owner)
	assert.NoError(t, err)

	_, err = svc.ApplyOperation(context.TODO(), ApplyOperationRequest{
		DocumentID:      doc.ID,
		UserID:          editor,
		Kind:            model.OpInsert,
		Position:        0,
		Content:         "x",
		BaselineVersion: 1,
	})
	assert.ErrorIs(t, err, ErrForbidden)

	// the lock holder still edits freely
	_, err = svc.ApplyOperation(context.TODO(), ApplyOperationRequest{
		DocumentID:      doc.ID,
		UserID:          owner,
		Kind:            model.OpInsert,
		Position:        5,
		Content:         "!",
		BaselineVersion: 1,
	})
	assert.NoError(t, err)
}

func TestApplyOperation_InvalidRequest(t *testing.T) {
	svc := newTestService()
	owner := uuid.New().String()
	doc := createTestDocument(t, svc, owner, "Hello")
	joinTestDocument(t, svc, doc.ID, owner)

	_, err := svc.ApplyOperation(context.TODO(), ApplyOperationRequest{
		DocumentID: doc.ID,
		UserID:     owner,
		Kind:       "SPLICE",
		Position:   0,
	})
	assert.ErrorIs(t, err, ErrBadRequest)

	_, err = svc.ApplyOperation(context.TODO(), ApplyOperationRequest{
		DocumentID: doc.ID,
		UserID:     owner,
		Kind:       model.OpInsert,
		Position:   -1,
		Content:    "x",
	})
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestApplyOperation_MidRunePosition(t *testing.T) {
	svc := newTestService()
	owner := uuid.New().String()
	doc := createTestDocument(t, svc, owner, "héllo")
	joinTestDocument(t, svc, doc.ID, owner)

	// position 2 lands inside the two-byte é
	_, err := svc.ApplyOperation(context.TODO(), ApplyOperationRequest{
		DocumentID:      doc.ID,
		UserID:          owner,
		Kind:            model.OpInsert,
		Position:        2,
		Content:         "x",
		BaselineVersion: 1,
	})
	assert.ErrorIs(t, err, ErrBadRequest)

	got, err := svc.GetDocument(context.TODO(), doc.ID)
	assert.NoError(t, err)
	assert.Equal(t, "héllo", got.Content)
	assert.Equal(t, int64(1), got.Version)
}

func TestApplyOperation_StaleBaselineRebase(t *testing.T) {
	svc := newTestService()
	owner := uuid.New().String()
	alice := uuid.New().String()
	doc := createTestDocument(t, svc, owner, "Hello World")
	grantTestPermission(t, svc, doc.ID, alice, model.LevelEdit, owner)
	joinTestDocument(t, svc, doc.ID, owner)
	joinTestDocument(t, svc, doc.ID, alice)

	// the owner prepends while alice still believes in version 1
	_, err := svc.ApplyOperation(context.TODO(), ApplyOperationRequest{
		DocumentID:      doc.ID,
		UserID:          owner,
		Kind:            model.OpInsert,
		Position:        0,
		Content:         ">>> ",
		BaselineVersion: 1,
	})
	assert.NoError(t, err)

	// alice's stale insert is rebased over the owner's edit
	op, err := svc.ApplyOperation(context.TODO(), ApplyOperationRequest{
		DocumentID:      doc.ID,
		UserID:          alice,
		Kind:            model.OpInsert,
		Position:        5,
		Content:         " Beautiful",
		BaselineVersion: 1,
	})
	assert.NoError(t, err)
	assert.True(t, op.Transformed)
	assert.Equal(t, 9, op.Position)
	assert.Equal(t, int64(3), op.Version)

	got, err := svc.GetDocument(context.TODO(), doc.ID)
	assert.NoError(t, err)
	assert.Equal(t, ">>> Hello Beautiful World", got.Content)
	assert.Equal(t, int64(3), got.Version)

	// the rebase left a conflict record behind
	stats, err := svc.GetCollaborationStats(context.TODO(), doc.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), stats.Conflicts)
}

func TestApplyOperation_SameAuthorNotRebased(t *testing.T) {
	svc := newTestService()
	owner := uuid.New().String()
	doc := createTestDocument(t, svc, owner, "Hello")
	joinTestDocument(t, svc, doc.ID, owner)

	_, err := svc.ApplyOperation(context.TODO(), ApplyOperationRequest{
		DocumentID:      doc.ID,
		UserID:          owner,
		Kind:            model.OpInsert,
		Position:        0,
		Content:         "ab",
		BaselineVersion: 1,
	})
	assert.NoError(t, err)

	// same author, stale baseline: own history never shifts the edit
	op, err := svc.ApplyOperation(context.TODO(), ApplyOperationRequest{
		DocumentID:      doc.ID,
		UserID:          owner,
		Kind:            model.OpInsert,
		Position:        0,
		Content:         "x",
		BaselineVersion: 1,
	})
	assert.NoError(t, err)
	assert.False(t, op.Transformed)
	assert.Equal(t, 0, op.Position)
}

func TestApplyOperation_DocumentIsolation(t *testing.T) {
	svc := newTestService()
	owner := uuid.New().String()
	docA := createTestDocument(t, svc, owner, "AAA")
	docB := createTestDocument(t, svc, owner, "BBB")
	joinTestDocument(t, svc, docA.ID, owner)
	joinTestDocument(t, svc, docB.ID, owner)

	_, err := svc.ApplyOperation(context.TODO(), ApplyOperationRequest{
		DocumentID:      docA.ID,
		UserID:          owner,
		Kind:            model.OpInsert,
		Position:        3,
		Content:         "!",
		BaselineVersion: 1,
	})
	assert.NoError(t, err)

	gotB, err := svc.GetDocument(context.TODO(), docB.ID)
	assert.NoError(t, err)
	assert.Equal(t, "BBB", gotB.Content)
	assert.Equal(t, int64(1), gotB.Version)

	log, err := svc.GetOperationLog(context.TODO(), docB.ID)
	assert.NoError(t, err)
	assert.Empty(t, log)
}

func TestGetOperationLog(t *testing.T) {
	svc := newTestService()
	owner := uuid.New().String()
	doc := createTestDocument(t, svc, owner, "")
	joinTestDocument(t, svc, doc.ID, owner)

	for i := 0; i < 3; i++ {
		_, err := svc.ApplyOperation(context.TODO(), ApplyOperationRequest{
			DocumentID:      doc.ID,
			UserID:          owner,
			Kind:            model.OpInsert,
			Position:        i,
			Content:         "x",
			BaselineVersion: int64(i + 1),
		})
		assert.NoError(t, err)
	}

	log, err := svc.GetOperationLog(context.TODO(), doc.ID)
	assert.NoError(t, err)
	assert.Len(t, log, 3)
	// versions are strictly increasing by one
	for i, op := range log {
		assert.Equal(t, int64(i+2), op.Version)
	}
}
