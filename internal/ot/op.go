package ot

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Positions and lengths are byte offsets into the UTF-8 content and must
// land on rune boundaries; a splice point inside a multi-byte character
// is rejected rather than corrupting the text.

// runeBoundary reports whether pos falls on a rune boundary of s.
func runeBoundary(s string, pos int) bool {
	return pos == 0 || pos == len(s) || utf8.RuneStart(s[pos])
}

// Op is a text operation that can be applied to document content.
type Op interface {
	Apply(s string) (string, error)
	// Shift returns the transformed position for a concurrent edit
	// issued at pos before this operation was applied.
	Shift(pos int) int
	String() string
}

// Insert splices Value in at Pos.
type Insert struct {
	Pos   int
	Value string
}

func (op *Insert) Apply(s string) (string, error) {
	if op.Pos < 0 || op.Pos > len(s) {
		return "", errors.New("insert out of bounds")
	}
	if !runeBoundary(s, op.Pos) {
		return "", errors.New("insert splits a multi-byte character")
	}
	return s[:op.Pos] + op.Value + s[op.Pos:], nil
}

// Shift moves pos right by the inserted length when the insert landed at
// or before it.
func (op *Insert) Shift(pos int) int {
	if op.Pos <= pos {
		return pos + len(op.Value)
	}
	return pos
}

func (op *Insert) String() string {
	return fmt.Sprintf("insert(%d,%q)", op.Pos, op.Value)
}

// Delete removes Len characters starting at Pos. The removed range is
// clamped to the end of the content.
type Delete struct {
	Pos int
	Len int
}

func (op *Delete) Apply(s string) (string, error) {
	if op.Pos < 0 || op.Pos > len(s) || op.Len < 0 {
		return "", errors.New("delete out of bounds")
	}
	end := op.Pos + op.Len
	if end > len(s) {
		end = len(s)
	}
	if !runeBoundary(s, op.Pos) || !runeBoundary(s, end) {
		return "", errors.New("delete splits a multi-byte character")
	}
	return s[:op.Pos] + s[end:], nil
}

// Shift moves pos left by the deleted length when the delete happened
// strictly before it, floored at the delete's own position.
func (op *Delete) Shift(pos int) int {
	if op.Pos < pos {
		shifted := pos - op.Len
		if shifted < op.Pos {
			return op.Pos
		}
		return shifted
	}
	return pos
}

func (op *Delete) String() string {
	return fmt.Sprintf("delete(%d,%d)", op.Pos, op.Len)
}

// Update replaces Len characters starting at Pos with Value, a combined
// delete and insert.
type Update struct {
	Pos   int
	Len   int
	Value string
}

func (op *Update) Apply(s string) (string, error) {
	if op.Pos < 0 || op.Pos > len(s) || op.Len < 0 {
		return "", errors.New("update out of bounds")
	}
	end := op.Pos + op.Len
	if end > len(s) {
		end = len(s)
	}
	if !runeBoundary(s, op.Pos) || !runeBoundary(s, end) {
		return "", errors.New("update splits a multi-byte character")
	}
	return s[:op.Pos] + op.Value + s[end:], nil
}

// Shift applies the update's net length change to positions strictly
// after it, floored at the update's own position.
func (op *Update) Shift(pos int) int {
	if op.Pos < pos {
		shifted := pos + len(op.Value) - op.Len
		if shifted < op.Pos {
			return op.Pos
		}
		return shifted
	}
	return pos
}

func (op *Update) String() string {
	return fmt.Sprintf("update(%d,%d,%q)", op.Pos, op.Len, op.Value)
}

// Transform rebases pos against peers in order and reports whether any
// peer moved it. Peers are the operations applied after the incoming
// operation's baseline.
func Transform(pos int, peers []Op) (int, bool) {
	transformed := false
	for _, peer := range peers {
		shifted := peer.Shift(pos)
		if shifted != pos {
			transformed = true
		}
		pos = shifted
	}
	return pos, transformed
}

// Clamp bounds pos into [0, n].
func Clamp(pos, n int) int {
	if pos < 0 {
		return 0
	}
	if pos > n {
		return n
	}
	return pos
}
