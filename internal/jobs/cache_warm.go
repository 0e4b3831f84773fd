package jobs

import (
	"context"

	"github.com/CMihai83/documentiulia.ro-sub034/internal/cache"
	"github.com/CMihai83/documentiulia.ro-sub034/internal/store"
	"github.com/sirupsen/logrus"
)

// CacheWarmTask refreshes the document cache from the store so reads hit
// Redis after a restart.
type CacheWarmTask struct {
	store    store.Store
	cache    cache.DocumentCache
	schedule string
}

func NewCacheWarmTask(schedule string, store store.Store, cache cache.DocumentCache) *CacheWarmTask {
	return &CacheWarmTask{
		store:    store,
		cache:    cache,
		schedule: schedule,
	}
}

func (c *CacheWarmTask) Schedule() string {
	return c.schedule
}

func (c *CacheWarmTask) Run() {
	ctx := context.Background()

	docs, err := c.store.ListDocuments(ctx, store.DocumentFilter{})
	if err != nil {
		logrus.Errorf("cache warm: error listing documents: %v", err)
		return
	}

	for _, doc := range docs {
		if err := c.cache.SetDocument(ctx, doc); err != nil {
			logrus.Errorf("cache warm: error caching document %s: %v", doc.ID, err)
			return
		}
	}
}
