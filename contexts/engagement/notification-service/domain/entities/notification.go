package entities

import "time"

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// DefaultRetention is how long delivered notifications are kept before the
// cleanup job removes them.
const DefaultRetention = 7 * 24 * time.Hour

type Notification struct {
	NotificationID   string
	UserID           string
	Type             string
	Title            string
	Message          string
	Priority         Priority
	Read             bool
	RelatedContentID string
	RelatedAppealID  string
	CreatedAt        time.Time
}
