package model

import (
	"time"

	"gorm.io/gorm"
)

// CollabSession is a bounded observation window over a document's
// collaborator set. OperationsCount and ConflictsResolved are filled at
// close time from the document's full log totals, not as a since-start
// delta.
type CollabSession struct {
	gorm.Model
	ID         string `gorm:"primaryKey;uuid;not null;"`
	DocumentID string `gorm:"uuid;not null;index"`
	// Participants is a JSON array of the user ids present at start.
	Participants      string
	StartedAt         time.Time
	EndedAt           *time.Time
	OperationsCount   int64
	ConflictsResolved int64
}

func (s *CollabSession) Closed() bool {
	return s.EndedAt != nil
}

// Duration returns the session length, zero while the session is open.
func (s *CollabSession) Duration() time.Duration {
	if s.EndedAt == nil {
		return 0
	}
	return s.EndedAt.Sub(s.StartedAt)
}
