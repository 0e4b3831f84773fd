package cache

import (
	"context"

	"github.com/CMihai83/documentiulia.ro-sub034/internal/model"
)

// DocumentCache is a read-through cache in front of the store. A miss
// returns (nil, nil).
type DocumentCache interface {
	GetDocument(ctx context.Context, id string) (*model.Document, error)
	SetDocument(ctx context.Context, doc *model.Document) error
	DeleteDocument(ctx context.Context, id string) error
	GetDocumentVersion(ctx context.Context, id string) (int64, error)
}

// NopCache satisfies DocumentCache without caching anything; used in
// tests and when Redis is not configured.
type NopCache struct{}

func NewNopCache() NopCache {
	return NopCache{}
}

func (NopCache) GetDocument(ctx context.Context, id string) (*model.Document, error) {
	return nil, nil
}

func (NopCache) SetDocument(ctx context.Context, doc *model.Document) error {
	return nil
}

func (NopCache) DeleteDocument(ctx context.Context, id string) error {
	return nil
}

func (NopCache) GetDocumentVersion(ctx context.Context, id string) (int64, error) {
	return 0, nil
}
