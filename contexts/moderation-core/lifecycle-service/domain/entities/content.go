package entities

import (
	"strings"
	"time"
)

type ContentKind string

const (
	ContentKindText  ContentKind = "text"
	ContentKindImage ContentKind = "image"
	ContentKindVideo ContentKind = "video"
)

func (k ContentKind) Valid() bool {
	switch k {
	case ContentKindText, ContentKindImage, ContentKindVideo:
		return true
	default:
		return false
	}
}

type ContentStatus string

const (
	ContentStatusPending     ContentStatus = "pending"
	ContentStatusUnderReview ContentStatus = "under_review"
	ContentStatusApproved    ContentStatus = "approved"
	ContentStatusRejected    ContentStatus = "rejected"
)

// Terminal reports whether the status carries a processed timestamp.
// processed_at is set iff the item is approved or rejected.
func (s ContentStatus) Terminal() bool {
	return s == ContentStatusApproved || s == ContentStatusRejected
}

type ContentItem struct {
	ContentID   string
	Kind        ContentKind
	Body        string
	URL         string
	SubmitterID string
	Status      ContentStatus
	SubmittedAt time.Time
	ProcessedAt *time.Time
	Deleted     bool
	UpdatedAt   time.Time
}

// ValidateCreate checks the kind-specific payload rules: text submissions
// carry a body, image and video submissions carry a URL.
func (c ContentItem) ValidateCreate() bool {
	if strings.TrimSpace(c.SubmitterID) == "" || !c.Kind.Valid() {
		return false
	}
	switch c.Kind {
	case ContentKindText:
		return strings.TrimSpace(c.Body) != ""
	default:
		return strings.TrimSpace(c.URL) != ""
	}
}
