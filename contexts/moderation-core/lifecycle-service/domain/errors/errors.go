package errors

import "errors"

var (
	ErrContentNotFound        = errors.New("content not found")
	ErrAppealNotFound         = errors.New("appeal not found")
	ErrInvalidContentInput    = errors.New("invalid content input")
	ErrUnsupportedKind        = errors.New("unsupported content kind")
	ErrInvalidStateTransition = errors.New("operation not allowed in current state")
	ErrDecisionConflict       = errors.New("concurrent decision conflict")
	ErrPendingAppealExists    = errors.New("a pending appeal already exists for this content")
	ErrAppealReasonTooShort   = errors.New("appeal reason is too short")
	ErrAppealAlreadyResolved  = errors.New("appeal already resolved")
	ErrNotOwner               = errors.New("actor does not own this content")
	ErrUnauthorizedActor      = errors.New("actor is not authorized")
	ErrInvalidDecision        = errors.New("decision must be approved or rejected")
)
