package model

import "gorm.io/gorm"

// Comment is a threaded annotation. Rows are flat; ParentID links replies
// to their parent so the tree is assembled at read time and lookups never
// recurse over nested structures.
type Comment struct {
	gorm.Model
	ID         string `gorm:"primaryKey;uuid;not null;"`
	DocumentID string `gorm:"uuid;not null;index"`
	// ParentID is empty for root comments.
	ParentID string `gorm:"uuid;index"`
	UserID   string `gorm:"uuid;not null"`
	Content  string `gorm:"not null"`
	// Optional anchor range into the document content.
	AnchorStart *int
	AnchorEnd   *int
	Resolved    bool
	ResolvedBy  string
}
