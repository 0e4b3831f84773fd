package live

import (
	"sync"
	"time"
)

// Presence statuses.
const (
	StatusOnline = "ONLINE"
	StatusAway   = "AWAY"
	StatusBusy   = "BUSY"
)

// Presence is the process-wide status of a user, independent of any
// single document. Entries are never expired by the registry itself.
type Presence struct {
	UserID     string    `json:"userId"`
	Status     string    `json:"status"`
	Color      string    `json:"color,omitempty"`
	DocumentID string    `json:"documentId,omitempty"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// PresenceRegistry is keyed solely by user id. Safe for concurrent use.
type PresenceRegistry struct {
	mu    sync.RWMutex
	users map[string]*Presence
}

func NewPresenceRegistry() *PresenceRegistry {
	return &PresenceRegistry{
		users: make(map[string]*Presence),
	}
}

// Upsert creates or updates a user's presence. An empty color or docID
// keeps the existing value sticky.
func (p *PresenceRegistry) Upsert(userID, status, color, docID string) *Presence {
	p.mu.Lock()
	defer p.mu.Unlock()

	entry, ok := p.users[userID]
	if !ok {
		entry = &Presence{UserID: userID}
		p.users[userID] = entry
	}
	entry.Status = status
	if color != "" {
		entry.Color = color
	}
	if docID != "" {
		entry.DocumentID = docID
	}
	entry.UpdatedAt = time.Now()

	copied := *entry
	return &copied
}

// ClearDocument detaches the user from a document without changing
// status; no-op unless the user is tracked on that document.
func (p *PresenceRegistry) ClearDocument(userID, docID string) *Presence {
	p.mu.Lock()
	defer p.mu.Unlock()

	entry, ok := p.users[userID]
	if !ok || entry.DocumentID != docID {
		return nil
	}
	entry.DocumentID = ""
	entry.UpdatedAt = time.Now()

	copied := *entry
	return &copied
}

// Get returns a copy of the user's presence, or nil if unknown.
func (p *PresenceRegistry) Get(userID string) *Presence {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if entry, ok := p.users[userID]; ok {
		copied := *entry
		return &copied
	}
	return nil
}

// List returns copies of every tracked presence entry.
func (p *PresenceRegistry) List() []*Presence {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]*Presence, 0, len(p.users))
	for _, entry := range p.users {
		copied := *entry
		out = append(out, &copied)
	}
	return out
}
