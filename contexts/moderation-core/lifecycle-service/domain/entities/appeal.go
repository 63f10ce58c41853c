package entities

import (
	"strings"
	"time"
)

// MinAppealReasonLength mirrors the submission-side validation rule.
const MinAppealReasonLength = 10

type AppealStatus string

const (
	AppealStatusPending  AppealStatus = "pending"
	AppealStatusApproved AppealStatus = "approved"
	AppealStatusRejected AppealStatus = "rejected"
)

type Appeal struct {
	AppealID        string
	ContentID       string
	SubmitterID     string
	Reason          string
	Status          AppealStatus
	ResolverID      string
	ResolutionNotes string
	CreatedAt       time.Time
	ResolvedAt      *time.Time
}

func (a Appeal) ValidateCreate() bool {
	return strings.TrimSpace(a.ContentID) != "" &&
		strings.TrimSpace(a.SubmitterID) != "" &&
		len(strings.TrimSpace(a.Reason)) >= MinAppealReasonLength
}
