package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/CMihai83/documentiulia.ro-sub034/internal/cache"
	"github.com/CMihai83/documentiulia.ro-sub034/internal/compress"
	"github.com/CMihai83/documentiulia.ro-sub034/internal/live"
	"github.com/CMihai83/documentiulia.ro-sub034/internal/notify"
	"github.com/CMihai83/documentiulia.ro-sub034/internal/store"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// snapshotEvery is the automatic snapshot cadence: every Nth version.
const snapshotEvery = 10

// NewCollabService creates the collaboration engine facade.
func NewCollabService(store store.Store, docCache cache.DocumentCache, codec compress.Compress, codecName string, notifier notify.Notifier) *CollabService {
	return &CollabService{
		store:         store,
		cache:         docCache,
		codec:         codec,
		codecName:     codecName,
		notifier:      notifier,
		collaborators: live.NewRegistry(),
		presence:      live.NewPresenceRegistry(),
		docLocks:      make(map[string]*sync.Mutex),
	}
}

// CollabService owns the collaboration state machine: documents and
// permissions through the store, live collaborator/presence state in
// process memory. Every content mutation runs under the document's keyed
// mutex and inside one store transaction, so the content change, the
// version bump and the log append are never partially observable.
type CollabService struct {
	store         store.Store
	cache         cache.DocumentCache
	codec         compress.Compress
	codecName     string
	notifier      notify.Notifier
	collaborators *live.Registry
	presence      *live.PresenceRegistry

	mu       sync.Mutex
	docLocks map[string]*sync.Mutex
}

// Collaborators exposes the live registry to background jobs.
func (c *CollabService) Collaborators() *live.Registry {
	return c.collaborators
}

// Presence exposes the presence registry.
func (c *CollabService) Presence() *live.PresenceRegistry {
	return c.presence
}

// lockDocument serializes mutation per document id. The returned func
// releases the lock.
func (c *CollabService) lockDocument(id string) func() {
	c.mu.Lock()
	m, ok := c.docLocks[id]
	if !ok {
		m = &sync.Mutex{}
		c.docLocks[id] = m
	}
	c.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// publish fires an event at the notifier. Publishing failures never fail
// the operation that caused them.
func (c *CollabService) publish(ctx context.Context, eventType, docID, userID string, payload map[string]any) {
	err := c.notifier.Publish(ctx, notify.Event{
		Type:       eventType,
		DocumentID: docID,
		UserID:     userID,
		Payload:    payload,
		At:         time.Now(),
	})
	if err != nil {
		logrus.Errorf("error publishing %s event: %v", eventType, err)
	}
}

func isRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
