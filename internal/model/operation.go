package model

import "gorm.io/gorm"

// Operation kinds.
const (
	OpInsert = "INSERT"
	OpDelete = "DELETE"
	OpUpdate = "UPDATE"
)

// ValidOpKind reports whether kind is a known operation kind.
func ValidOpKind(kind string) bool {
	return kind == OpInsert || kind == OpDelete || kind == OpUpdate
}

// Operation is one accepted edit. Rows are append-only and never mutated
// after creation.
type Operation struct {
	gorm.Model
	ID         string `gorm:"primaryKey;uuid;not null;"`
	DocumentID string `gorm:"uuid;not null;index"`
	Kind       string `gorm:"not null"`
	Position   int    `gorm:"not null"`
	Content    string
	Length     int
	UserID     string `gorm:"uuid;not null"`
	// BaselineVersion is the document version the author believed was
	// current when the operation was issued.
	BaselineVersion int64 `gorm:"not null"`
	// Version is the document version after this operation was applied.
	Version     int64 `gorm:"not null;index"`
	Transformed bool
}
