package entities

import "time"

// Priority bands. Appeals sort strictly ahead of first-pass reviews.
const (
	PriorityFirstPass = 7
	PriorityAppeal    = 9
)

// ReviewQueueEntry is a moderator worklist row. At most one open
// (uncompleted) entry may exist per content item; the lifecycle engine
// enforces that, not the storage layer.
type ReviewQueueEntry struct {
	EntryID     string
	ContentID   string
	Priority    int
	AddedAt     time.Time
	CompletedAt *time.Time
}

func (e ReviewQueueEntry) Open() bool {
	return e.CompletedAt == nil
}
