package model

import "gorm.io/gorm"

// DocumentVersion is a content snapshot at a given version number.
// Snapshots are created at document creation, every Nth applied operation,
// on demand, and immediately before a restore. They are never removed, so
// version numbers are never reused.
type DocumentVersion struct {
	gorm.Model
	DocumentID string `gorm:"uuid;not null;index:idx_version_doc_version,unique"`
	Version    int64  `gorm:"not null;index:idx_version_doc_version,unique"`
	// Content is stored encoded with the codec named in Compression.
	Content     string
	Compression string
	CreatedBy   string `gorm:"uuid"`
	Summary     string
}

func (DocumentVersion) TableName() string {
	return "document_versions"
}
