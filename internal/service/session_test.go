package service

import (
	"context"
	"testing"

	"github.com/CMihai83/documentiulia.ro-sub034/internal/live"
	"github.com/CMihai83/documentiulia.ro-sub034/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestStartAndEndSession(t *testing.T) {
	svc := newTestService()
	owner := uuid.New().String()
	doc := createTestDocument(t, svc, owner, "Hello")
	joinTestDocument(t, svc, doc.ID, owner)

	session, err := svc.StartSession(context.TODO(), doc.ID)
	assert.NoError(t, err)
	assert.False(t, session.Closed())
	assert.Contains(t, session.Participants, owner)

	_, err = svc.ApplyOperation(context.TODO(), ApplyOperationRequest{
		DocumentID:      doc.ID,
		UserID:          owner,
		Kind:            model.OpInsert,
		Position:        5,
		Content:         "!",
		BaselineVersion: 1,
	})
	assert.NoError(t, err)

	ended, err := svc.EndSession(context.TODO(), doc.ID)
	assert.NoError(t, err)
	assert.True(t, ended.Closed())
	assert.Equal(t, session.ID, ended.ID)
	assert.Equal(t, int64(1), ended.OperationsCount)
	assert.Equal(t, int64(0), ended.ConflictsResolved)
}

func TestEndSession_NoneOpen(t *testing.T) {
	svc := newTestService()
	owner := uuid.New().String()
	doc := createTestDocument(t, svc, owner, "Hello")

	_, err := svc.EndSession(context.TODO(), doc.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetCollaborationStats(t *testing.T) {
	svc := newTestService()
	owner := uuid.New().String()
	doc := createTestDocument(t, svc, owner, "Hello")
	joinTestDocument(t, svc, doc.ID, owner)

	_, err := svc.StartSession(context.TODO(), doc.ID)
	assert.NoError(t, err)

	_, err = svc.ApplyOperation(context.TODO(), ApplyOperationRequest{
		DocumentID:      doc.ID,
		UserID:          owner,
		Kind:            model.OpInsert,
		Position:        0,
		Content:         "x",
		BaselineVersion: 1,
	})
	assert.NoError(t, err)

	_, err = svc.AddComment(context.TODO(), AddCommentRequest{
		DocumentID: doc.ID,
		UserID:     owner,
		Content:    "note",
	})
	assert.NoError(t, err)

	_, err = svc.EndSession(context.TODO(), doc.ID)
	assert.NoError(t, err)

	stats, err := svc.GetCollaborationStats(context.TODO(), doc.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), stats.Operations)
	assert.Equal(t, int64(1), stats.Comments)
	assert.Equal(t, int64(1), stats.Versions)
	assert.Equal(t, int64(0), stats.Conflicts)
	assert.Equal(t, 1, stats.ActiveCollaborators)
	assert.GreaterOrEqual(t, stats.AvgSessionSeconds, 0.0)
}

func TestSetPresence(t *testing.T) {
	svc := newTestService()
	user := uuid.New().String()

	presence, err := svc.SetPresence(context.TODO(), user, live.StatusBusy)
	assert.NoError(t, err)
	assert.Equal(t, live.StatusBusy, presence.Status)

	got := svc.GetPresence(user)
	assert.NotNil(t, got)
	assert.Equal(t, live.StatusBusy, got.Status)

	_, err = svc.SetPresence(context.TODO(), user, "SLEEPING")
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestJoinAndLeaveDocument(t *testing.T) {
	svc := newTestService()
	owner := uuid.New().String()
	member := uuid.New().String()
	stranger := uuid.New().String()
	doc := createTestDocument(t, svc, owner, "Hello")
	grantTestPermission(t, svc, doc.ID, member, model.LevelComment, owner)

	// no permission, no entry
	_, err := svc.JoinDocument(context.TODO(), JoinDocumentRequest{
		DocumentID: doc.ID,
		UserID:     stranger,
	})
	assert.ErrorIs(t, err, ErrForbidden)

	collaborator := joinTestDocument(t, svc, doc.ID, member)
	assert.Equal(t, model.LevelComment, collaborator.Level)
	assert.NotEmpty(t, collaborator.Color)

	// joining marks the user online on the document
	presence := svc.GetPresence(member)
	assert.Equal(t, live.StatusOnline, presence.Status)
	assert.Equal(t, doc.ID, presence.DocumentID)

	// the owner joins with an implicit ADMIN binding
	ownerBinding := joinTestDocument(t, svc, doc.ID, owner)
	assert.Equal(t, model.LevelAdmin, ownerBinding.Level)

	collaborators, err := svc.ListCollaborators(context.TODO(), doc.ID)
	assert.NoError(t, err)
	assert.Len(t, collaborators, 2)

	err = svc.LeaveDocument(context.TODO(), doc.ID, member)
	assert.NoError(t, err)

	collaborators, err = svc.ListCollaborators(context.TODO(), doc.ID)
	assert.NoError(t, err)
	assert.Len(t, collaborators, 1)

	// leaving detaches presence but keeps the user online
	presence = svc.GetPresence(member)
	assert.Equal(t, live.StatusOnline, presence.Status)
	assert.Empty(t, presence.DocumentID)
}

func TestUpdateCursor_NotCollaborator(t *testing.T) {
	svc := newTestService()
	owner := uuid.New().String()
	doc := createTestDocument(t, svc, owner, "Hello")

	err := svc.UpdateCursor(context.TODO(), doc.ID, owner, &live.Cursor{Position: 3})
	assert.ErrorIs(t, err, ErrForbidden)

	joinTestDocument(t, svc, doc.ID, owner)
	err = svc.UpdateCursor(context.TODO(), doc.ID, owner, &live.Cursor{Position: 3})
	assert.NoError(t, err)

	binding := svc.Collaborators().Get(doc.ID, owner)
	assert.Equal(t, 3, binding.Cursor.Position)
}
