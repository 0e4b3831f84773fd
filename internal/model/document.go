package model

import (
	"encoding/json"

	"gorm.io/gorm"
)

// Document kinds supported by the platform.
const (
	KindInvoice  = "invoice"
	KindContract = "contract"
	KindReport   = "report"
	KindTemplate = "template"
	KindLetter   = "letter"
)

var documentKinds = map[string]bool{
	KindInvoice:  true,
	KindContract: true,
	KindReport:   true,
	KindTemplate: true,
	KindLetter:   true,
}

// ValidKind reports whether kind is one of the supported document kinds.
func ValidKind(kind string) bool {
	return documentKinds[kind]
}

// Document is the durable document record. Content and Version are mutated
// only through the operation pipeline, the lock controller and restore.
type Document struct {
	gorm.Model
	ID       string `gorm:"primaryKey;uuid;not null;"`
	Kind     string `gorm:"not null"`
	OwnerID  string `gorm:"uuid;not null;index"`
	TenantID string `gorm:"uuid;index"`
	Content  string
	// Version starts at 1 and increases by exactly 1 per applied
	// operation or restore.
	Version int64 `gorm:"not null;default:1"`
	// LockedBy is empty when the document is unlocked.
	LockedBy string
	Tags     string // JSON array
	Meta     string // JSON object
}

func (d *Document) Locked() bool {
	return d.LockedBy != ""
}

// LockedByOther reports whether the document is locked by someone else.
func (d *Document) LockedByOther(userID string) bool {
	return d.LockedBy != "" && d.LockedBy != userID
}

func (d *Document) MarshalBinary() ([]byte, error) {
	return json.Marshal(d)
}
