package model

import "gorm.io/gorm"

// Permission levels ordered VIEW < COMMENT < EDIT < ADMIN.
const (
	LevelView    = "VIEW"
	LevelComment = "COMMENT"
	LevelEdit    = "EDIT"
	LevelAdmin   = "ADMIN"
)

var levelRank = map[string]int{
	LevelView:    1,
	LevelComment: 2,
	LevelEdit:    3,
	LevelAdmin:   4,
}

// ValidLevel reports whether level is a known permission level.
func ValidLevel(level string) bool {
	_, ok := levelRank[level]
	return ok
}

// LevelAtLeast reports whether level grants at least the capability of min.
func LevelAtLeast(level, min string) bool {
	return levelRank[level] >= levelRank[min]
}

// Permission is one (document, user) access grant. The owner always holds
// an implicit ADMIN row created together with the document.
type Permission struct {
	gorm.Model
	DocumentID string `gorm:"uuid;not null;index:idx_permission_doc_user,unique"`
	UserID     string `gorm:"uuid;not null;index:idx_permission_doc_user,unique"`
	Level      string `gorm:"not null"`
	GrantedBy  string `gorm:"uuid"`
	// ExpiresAt is advisory; the engine does not auto-expire grants.
	ExpiresAt *int64
}
