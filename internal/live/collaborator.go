package live

import (
	"sync"
	"time"
)

// Cursor is a caret position inside the document content.
type Cursor struct {
	Position int `json:"position"`
}

// Selection is a highlighted range.
type Selection struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Collaborator is a live binding of a user to a document while they are
// connected. It is not durable state; the Permission row is.
type Collaborator struct {
	DocumentID   string     `json:"documentId"`
	UserID       string     `json:"userId"`
	DisplayName  string     `json:"displayName"`
	Avatar       string     `json:"avatar,omitempty"`
	Level        string     `json:"level"`
	Color        string     `json:"color"`
	Cursor       *Cursor    `json:"cursor,omitempty"`
	Selection    *Selection `json:"selection,omitempty"`
	JoinedAt     time.Time  `json:"joinedAt"`
	LastActiveAt time.Time  `json:"lastActiveAt"`
}

// palette assigned round-robin; with more entries than concurrent
// collaborators two members virtually never share a color.
var palette = []string{
	"#E63946", "#2A9D8F", "#E9C46A", "#9B5DE5",
	"#00B4D8", "#F4A261", "#EF476F", "#264653",
}

// Registry tracks who is actively present on each document. Safe for
// concurrent use.
type Registry struct {
	mu        sync.RWMutex
	docs      map[string]map[string]*Collaborator
	nextColor int
}

func NewRegistry() *Registry {
	return &Registry{
		docs: make(map[string]map[string]*Collaborator),
	}
}

// Join registers a collaborator, allocating the next palette color.
// Rejoining refreshes the existing binding and returns it unchanged.
func (r *Registry) Join(c *Collaborator) *Collaborator {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.docs[c.DocumentID]
	if !ok {
		members = make(map[string]*Collaborator)
		r.docs[c.DocumentID] = members
	}

	if existing, ok := members[c.UserID]; ok {
		existing.LastActiveAt = time.Now()
		copied := *existing
		return &copied
	}

	now := time.Now()
	c.Color = palette[r.nextColor%len(palette)]
	r.nextColor++
	c.JoinedAt = now
	c.LastActiveAt = now
	members[c.UserID] = c

	copied := *c
	return &copied
}

// Leave removes the binding. It reports whether the user was present.
func (r *Registry) Leave(docID, userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.docs[docID]
	if !ok {
		return false
	}
	if _, ok := members[userID]; !ok {
		return false
	}
	delete(members, userID)
	if len(members) == 0 {
		delete(r.docs, docID)
	}
	return true
}

// Get returns a copy of the binding, or nil if the user is not present.
func (r *Registry) Get(docID, userID string) *Collaborator {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if c, ok := r.docs[docID][userID]; ok {
		copied := *c
		return &copied
	}
	return nil
}

// List returns copies of all bindings on a document.
func (r *Registry) List(docID string) []*Collaborator {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := r.docs[docID]
	out := make([]*Collaborator, 0, len(members))
	for _, c := range members {
		copied := *c
		out = append(out, &copied)
	}
	return out
}

// UserIDs returns the user ids present on a document.
func (r *Registry) UserIDs(docID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := r.docs[docID]
	out := make([]string, 0, len(members))
	for id := range members {
		out = append(out, id)
	}
	return out
}

// SetCursor updates the live cursor. It reports whether the user was
// present; no version bump, broadcast-only side effect.
func (r *Registry) SetCursor(docID, userID string, cursor *Cursor) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.docs[docID][userID]
	if !ok {
		return false
	}
	c.Cursor = cursor
	c.LastActiveAt = time.Now()
	return true
}

// SetSelection updates the live selection; nil clears it.
func (r *Registry) SetSelection(docID, userID string, selection *Selection) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.docs[docID][userID]
	if !ok {
		return false
	}
	c.Selection = selection
	c.LastActiveAt = time.Now()
	return true
}

// SetLevel syncs a live binding after its Permission row changed. A
// binding never outranks the durable grant.
func (r *Registry) SetLevel(docID, userID, level string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.docs[docID][userID]; ok {
		c.Level = level
	}
}

// Touch refreshes LastActiveAt after an accepted operation.
func (r *Registry) Touch(docID, userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.docs[docID][userID]; ok {
		c.LastActiveAt = time.Now()
	}
}

// RemoveDocument drops every binding of a deleted document.
func (r *Registry) RemoveDocument(docID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.docs, docID)
}

// SweepIdle evicts bindings inactive for longer than maxIdle and returns
// the evicted bindings. Liveness timeout is an external concern of the
// jobs runner, not of the engine operations.
func (r *Registry) SweepIdle(maxIdle time.Duration) []*Collaborator {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := time.Now().Add(-maxIdle)
	var evicted []*Collaborator
	for docID, members := range r.docs {
		for userID, c := range members {
			if c.LastActiveAt.Before(cutoff) {
				copied := *c
				evicted = append(evicted, &copied)
				delete(members, userID)
			}
		}
		if len(members) == 0 {
			delete(r.docs, docID)
		}
	}
	return evicted
}
