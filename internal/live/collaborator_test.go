package live

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_Join(t *testing.T) {
	r := NewRegistry()

	a := r.Join(&Collaborator{DocumentID: "doc-1", UserID: "alice", Level: "EDIT"})
	b := r.Join(&Collaborator{DocumentID: "doc-1", UserID: "bob", Level: "VIEW"})

	assert.NotEmpty(t, a.Color)
	assert.NotEmpty(t, b.Color)
	assert.NotEqual(t, a.Color, b.Color)
	assert.False(t, a.JoinedAt.IsZero())
	assert.Len(t, r.List("doc-1"), 2)
}

func TestRegistry_JoinIdempotent(t *testing.T) {
	r := NewRegistry()

	first := r.Join(&Collaborator{DocumentID: "doc-1", UserID: "alice", Level: "EDIT"})
	again := r.Join(&Collaborator{DocumentID: "doc-1", UserID: "alice", Level: "EDIT"})

	assert.Equal(t, first.Color, again.Color)
	assert.Equal(t, first.JoinedAt, again.JoinedAt)
	assert.Len(t, r.List("doc-1"), 1)
}

func TestRegistry_DistinctColors(t *testing.T) {
	r := NewRegistry()

	users := []string{"u1", "u2", "u3", "u4", "u5"}
	colors := make(map[string]bool)
	for _, u := range users {
		c := r.Join(&Collaborator{DocumentID: "doc-1", UserID: u})
		colors[c.Color] = true
	}

	assert.Len(t, colors, len(users))
}

func TestRegistry_Leave(t *testing.T) {
	r := NewRegistry()
	r.Join(&Collaborator{DocumentID: "doc-1", UserID: "alice"})

	assert.True(t, r.Leave("doc-1", "alice"))
	assert.False(t, r.Leave("doc-1", "alice"))
	assert.Nil(t, r.Get("doc-1", "alice"))
	assert.Empty(t, r.List("doc-1"))
}

func TestRegistry_SetCursorAndSelection(t *testing.T) {
	r := NewRegistry()
	r.Join(&Collaborator{DocumentID: "doc-1", UserID: "alice"})

	assert.True(t, r.SetCursor("doc-1", "alice", &Cursor{Position: 7}))
	assert.True(t, r.SetSelection("doc-1", "alice", &Selection{Start: 2, End: 9}))

	c := r.Get("doc-1", "alice")
	assert.Equal(t, 7, c.Cursor.Position)
	assert.Equal(t, 2, c.Selection.Start)
	assert.Equal(t, 9, c.Selection.End)

	// clearing the selection
	assert.True(t, r.SetSelection("doc-1", "alice", nil))
	assert.Nil(t, r.Get("doc-1", "alice").Selection)

	// unknown user
	assert.False(t, r.SetCursor("doc-1", "ghost", &Cursor{Position: 1}))
}

func TestRegistry_SetLevel(t *testing.T) {
	r := NewRegistry()
	r.Join(&Collaborator{DocumentID: "doc-1", UserID: "alice", Level: "EDIT"})

	r.SetLevel("doc-1", "alice", "VIEW")
	assert.Equal(t, "VIEW", r.Get("doc-1", "alice").Level)
}

func TestRegistry_SweepIdle(t *testing.T) {
	r := NewRegistry()
	r.Join(&Collaborator{DocumentID: "doc-1", UserID: "alice"})
	r.Join(&Collaborator{DocumentID: "doc-1", UserID: "bob"})

	// nobody is idle yet
	assert.Empty(t, r.SweepIdle(time.Minute))

	r.Touch("doc-1", "alice")
	evicted := r.SweepIdle(0)
	assert.Len(t, evicted, 2)
	assert.Empty(t, r.List("doc-1"))
}

func TestPresenceRegistry_Upsert(t *testing.T) {
	p := NewPresenceRegistry()

	entry := p.Upsert("alice", StatusOnline, "#E63946", "doc-1")
	assert.Equal(t, StatusOnline, entry.Status)
	assert.Equal(t, "doc-1", entry.DocumentID)

	// a status-only update keeps color and document sticky
	entry = p.Upsert("alice", StatusAway, "", "")
	assert.Equal(t, StatusAway, entry.Status)
	assert.Equal(t, "#E63946", entry.Color)
	assert.Equal(t, "doc-1", entry.DocumentID)
}

func TestPresenceRegistry_ClearDocument(t *testing.T) {
	p := NewPresenceRegistry()
	p.Upsert("alice", StatusOnline, "#E63946", "doc-1")

	// clearing a different document is a no-op
	assert.Nil(t, p.ClearDocument("alice", "doc-2"))
	assert.Equal(t, "doc-1", p.Get("alice").DocumentID)

	entry := p.ClearDocument("alice", "doc-1")
	assert.NotNil(t, entry)
	assert.Empty(t, entry.DocumentID)
	assert.Equal(t, StatusOnline, entry.Status)
}

func TestPresenceRegistry_Get(t *testing.T) {
	p := NewPresenceRegistry()
	assert.Nil(t, p.Get("ghost"))

	p.Upsert("alice", StatusBusy, "", "")
	assert.Equal(t, StatusBusy, p.Get("alice").Status)
	assert.Len(t, p.List(), 1)
}
