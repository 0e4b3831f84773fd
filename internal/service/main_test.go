package service

import (
	"context"
	"os"
	"testing"

	"github.com/CMihai83/documentiulia.ro-sub034/internal/cache"
	"github.com/CMihai83/documentiulia.ro-sub034/internal/compress"
	"github.com/CMihai83/documentiulia.ro-sub034/internal/live"
	"github.com/CMihai83/documentiulia.ro-sub034/internal/model"
	"github.com/CMihai83/documentiulia.ro-sub034/internal/notify"
	"github.com/CMihai83/documentiulia.ro-sub034/internal/store"
	"github.com/CMihai83/documentiulia.ro-sub034/internal/tester"
)

func TestMain(m *testing.M) {
	tester.Setup()
	code := m.Run()

	os.Exit(code)
}

func newTestService() *CollabService {
	return newTestServiceWithCodec(compress.CodecNop)
}

func newTestServiceWithCodec(codecName string) *CollabService {
	codec, err := compress.New(codecName)
	if err != nil {
		panic(err)
	}
	return NewCollabService(
		store.NewGormStore(tester.TestDB()),
		cache.NewNopCache(),
		codec,
		codecName,
		notify.NewNop(),
	)
}

func createTestDocument(t *testing.T, svc *CollabService, ownerID, content string) *model.Document {
	t.Helper()

	doc, err := svc.CreateDocument(context.TODO(), CreateDocumentRequest{
		OwnerID: ownerID,
		Kind:    model.KindContract,
		Content: content,
	})
	if err != nil {
		t.Fatalf("error creating document: %v", err)
	}
	return doc
}

func joinTestDocument(t *testing.T, svc *CollabService, docID, userID string) *live.Collaborator {
	t.Helper()

	collaborator, err := svc.JoinDocument(context.TODO(), JoinDocumentRequest{
		DocumentID: docID,
		UserID:     userID,
	})
	if err != nil {
		t.Fatalf("error joining document: %v", err)
	}
	return collaborator
}

func grantTestPermission(t *testing.T, svc *CollabService, docID, userID, level, grantedBy string) {
	t.Helper()

	if _, err := svc.GrantPermission(context.TODO(), docID, userID, level, grantedBy, nil); err != nil {
		t.Fatalf("error granting permission: %v", err)
	}
}
