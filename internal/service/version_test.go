package service

import (
	"context"
	"testing"

	"github.com/CMihai83/documentiulia.ro-sub034/internal/compress"
	"github.com/CMihai83/documentiulia.ro-sub034/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCreateVersionSnapshot(t *testing.T) {
	svc := newTestService()
	owner := uuid.New().String()
	doc := createTestDocument(t, svc, owner, "snapshot me")
	joinTestDocument(t, svc, doc.ID, owner)

	_, err := svc.ApplyOperation(context.TODO(), ApplyOperationRequest{
		DocumentID:      doc.ID,
		UserID:          owner,
		Kind:            model.OpInsert,
		Position:        0,
		Content:         "please ",
		BaselineVersion: 1,
	})
	assert.NoError(t, err)

	snapshot, err := svc.CreateVersionSnapshot(context.TODO(), doc.ID, owner)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), snapshot.Version)
	assert.Equal(t, "please snapshot me", snapshot.Content)

	// snapshotting the same version again returns the existing entry
	again, err := svc.CreateVersionSnapshot(context.TODO(), doc.ID, owner)
	assert.NoError(t, err)
	assert.Equal(t, snapshot.Version, again.Version)

	history, err := svc.GetVersionHistory(context.TODO(), doc.ID)
	assert.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestRestoreVersion(t *testing.T) {
	svc := newTestService()
	owner := uuid.New().String()
	doc := createTestDocument(t, svc, owner, "original")
	joinTestDocument(t, svc, doc.ID, owner)

	_, err := svc.ApplyOperation(context.TODO(), ApplyOperationRequest{
		DocumentID:      doc.ID,
		UserID:          owner,
		Kind:            model.OpUpdate,
		Position:        0,
		Length:          8,
		Content:         "rewritten",
		BaselineVersion: 1,
	})
	assert.NoError(t, err)

	restored, err := svc.RestoreVersion(context.TODO(), doc.ID, 1, owner)
	assert.NoError(t, err)
	assert.Equal(t, "original", restored.Content)
	// a restore bumps the version like any other operation
	assert.Equal(t, int64(3), restored.Version)

	// the pre-restore state was snapshotted, so nothing is lost
	history, err := svc.GetVersionHistory(context.TODO(), doc.ID)
	assert.NoError(t, err)
	assert.Len(t, history, 2)
	assert.Equal(t, int64(1), history[0].Version)
	assert.Equal(t, "original", history[0].Content)
	assert.Equal(t, int64(2), history[1].Version)
	assert.Equal(t, "rewritten", history[1].Content)
}

func TestRestoreVersion_AfterCodecChange(t *testing.T) {
	// snapshots written under one codec must decode correctly through a
	// service configured with another
	gzipSvc := newTestServiceWithCodec(compress.CodecGzip)
	owner := uuid.New().String()
	doc := createTestDocument(t, gzipSvc, owner, "original")
	joinTestDocument(t, gzipSvc, doc.ID, owner)

	_, err := gzipSvc.ApplyOperation(context.TODO(), ApplyOperationRequest{
		DocumentID:      doc.ID,
		UserID:          owner,
		Kind:            model.OpUpdate,
		Position:        0,
		Length:          8,
		Content:         "rewritten",
		BaselineVersion: 1,
	})
	assert.NoError(t, err)

	nopSvc := newTestServiceWithCodec(compress.CodecNop)

	history, err := nopSvc.GetVersionHistory(context.TODO(), doc.ID)
	assert.NoError(t, err)
	assert.Len(t, history, 1)
	assert.Equal(t, "original", history[0].Content)

	restored, err := nopSvc.RestoreVersion(context.TODO(), doc.ID, 1, owner)
	assert.NoError(t, err)
	assert.Equal(t, "original", restored.Content)
	assert.Equal(t, int64(3), restored.Version)

	// the pre-restore snapshot was written by the nop service and reads
	// back through the gzip one just as well
	history, err = gzipSvc.GetVersionHistory(context.TODO(), doc.ID)
	assert.NoError(t, err)
	assert.Len(t, history, 2)
	assert.Equal(t, "rewritten", history[1].Content)
}

func TestRestoreVersion_NotFound(t *testing.T) {
	svc := newTestService()
	owner := uuid.New().String()
	doc := createTestDocument(t, svc, owner, "content")

	_, err := svc.RestoreVersion(context.TODO(), doc.ID, 42, owner)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestApplyOperation_AutomaticSnapshot(t *testing.T) {
	svc := newTestService()
	owner := uuid.New().String()
	doc := createTestDocument(t, svc, owner, "")
	joinTestDocument(t, svc, doc.ID, owner)

	// nine operations take the document from version 1 to version 10
	for i := 0; i < 9; i++ {
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

	history, err := svc.GetVersionHistory(context.TODO(), doc.ID)
	assert.NoError(t, err)
	assert.Len(t, history, 2)
	assert.Equal(t, int64(1), history[0].Version)
	assert.Equal(t, int64(10), history[1].Version)
	assert.Equal(t, "xxxxxxxxx", history[1].Content)
}
