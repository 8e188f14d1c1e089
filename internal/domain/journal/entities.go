package journal

import (
	"time"

	"gorm.io/gorm"
)

// Transition outcomes.
const (
	OutcomeSuccess  = "SUCCESS"
	OutcomeFailed   = "FAILED"
	OutcomeRejected = "REJECTED" // blocked client-side before any network call
)

// Entry records one orchestrated transition attempt. The journal is
// append-only; rows are never updated.
type Entry struct {
	ID         uint64         `gorm:"primaryKey;column:id" json:"-"`
	EntryID    string         `gorm:"size:32;uniqueIndex:ux_journal_entry_id" json:"entryId"`
	EntityKind string         `gorm:"size:32;index:idx_journal_entity" json:"entityKind"`
	EntityID   string         `gorm:"size:64;index:idx_journal_entity" json:"entityId"`
	Action     string         `gorm:"size:32" json:"action"`
	FromStatus string         `gorm:"size:32" json:"fromStatus"`
	ToStatus   string         `gorm:"size:32" json:"toStatus"`
	Outcome    string         `gorm:"size:16;index" json:"outcome"`
	Message    string         `gorm:"type:text" json:"message,omitempty"`
	Actor      string         `gorm:"size:64" json:"actor,omitempty"`
	CreatedAt  time.Time      `gorm:"autoCreateTime;index" json:"createdAt"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Entry) TableName() string { return "transition_journal" }
