package model

import "gorm.io/gorm"

// Conflict resolution strategies.
const (
	StrategyMerge = "MERGE"
)

// ConflictRecord is the audit trail of one transform resolution: which
// operations collided and what the incoming operation became.
type ConflictRecord struct {
	gorm.Model
	ID         string `gorm:"primaryKey;uuid;not null;"`
	DocumentID string `gorm:"uuid;not null;index"`
	// OperationIDs is a JSON array of the colliding operation ids.
	OperationIDs string
	Strategy     string `gorm:"not null"`
	// ResultID is the id of the transformed operation that was applied.
	ResultID string `gorm:"uuid;not null"`
}
