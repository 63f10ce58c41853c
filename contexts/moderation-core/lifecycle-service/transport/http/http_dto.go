package http

type ErrorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Status    string    `json:"status"`
	Error     ErrorBody `json:"error"`
	Timestamp string    `json:"timestamp"`
}

type SubmitContentRequest struct {
	Kind string `json:"kind"`
	Body string `json:"body,omitempty"`
	URL  string `json:"url,omitempty"`
}

type BatchSubmitRequest struct {
	Items []SubmitContentRequest `json:"items"`
}

type EditContentRequest struct {
	Body string `json:"body,omitempty"`
	URL  string `json:"url,omitempty"`
}

type DecisionRequest struct {
	Notes string `json:"notes,omitempty"`
}

type SubmitAppealRequest struct {
	ContentID string `json:"content_id"`
	Reason    string `json:"reason"`
}

type ResolveAppealRequest struct {
	Decision string `json:"decision"`
	Notes    string `json:"notes,omitempty"`
}

type ContentData struct {
	ContentID   string `json:"content_id"`
	Kind        string `json:"kind"`
	Body        string `json:"body,omitempty"`
	URL         string `json:"url,omitempty"`
	SubmitterID string `json:"submitter_id"`
	Status      string `json:"status"`
	SubmittedAt string `json:"submitted_at"`
	ProcessedAt string `json:"processed_at,omitempty"`
}

type ScoreData struct {
	Provider   string  `json:"provider"`
	Toxicity   float64 `json:"toxicity"`
	NSFW       float64 `json:"nsfw"`
	Spam       float64 `json:"spam"`
	HateSpeech float64 `json:"hate_speech"`
	Aggregate  float64 `json:"aggregate"`
	Decision   string  `json:"decision"`
	CreatedAt  string  `json:"created_at"`
}

type AppealData struct {
	AppealID        string `json:"appeal_id"`
	ContentID       string `json:"content_id"`
	SubmitterID     string `json:"submitter_id"`
	Reason          string `json:"reason"`
	Status          string `json:"status"`
	ResolverID      string `json:"resolver_id,omitempty"`
	ResolutionNotes string `json:"resolution_notes,omitempty"`
	CreatedAt       string `json:"created_at"`
	ResolvedAt      string `json:"resolved_at,omitempty"`
}

type ContentStatusData struct {
	Content      ContentData `json:"content"`
	LatestScore  *ScoreData  `json:"latest_score,omitempty"`
	LatestAppeal *AppealData `json:"latest_appeal,omitempty"`
}

type ContentResponse struct {
	Status    string      `json:"status"`
	Data      ContentData `json:"data"`
	Timestamp string      `json:"timestamp"`
}

type BatchSubmitResponse struct {
	Status string `json:"status"`
	Data   struct {
		Accepted []ContentData `json:"accepted"`
		Failed   []struct {
			Index int    `json:"index"`
			Error string `json:"error"`
		} `json:"failed"`
	} `json:"data"`
	Timestamp string `json:"timestamp"`
}

type ContentStatusResponse struct {
	Status    string            `json:"status"`
	Data      ContentStatusData `json:"data"`
	Timestamp string            `json:"timestamp"`
}

type SubmissionListResponse struct {
	Status string `json:"status"`
	Data   struct {
		Items []ContentStatusData `json:"items"`
	} `json:"data"`
	Timestamp string `json:"timestamp"`
}

type ReviewQueueItemData struct {
	EntryID     string   `json:"entry_id"`
	ContentID   string   `json:"content_id"`
	Kind        string   `json:"kind"`
	Status      string   `json:"status"`
	SubmitterID string   `json:"submitter_id"`
	Priority    int      `json:"priority"`
	AddedAt     string   `json:"added_at"`
	Aggregate   *float64 `json:"aggregate,omitempty"`
	Decision    string   `json:"decision,omitempty"`
}

type ReviewQueueResponse struct {
	Status string `json:"status"`
	Data   struct {
		Items []ReviewQueueItemData `json:"items"`
	} `json:"data"`
	Timestamp string `json:"timestamp"`
}

type AppealResponse struct {
	Status    string     `json:"status"`
	Data      AppealData `json:"data"`
	Timestamp string     `json:"timestamp"`
}

type KindStatsData struct {
	Kind     string `json:"kind"`
	Count    int    `json:"count"`
	Approved int    `json:"approved"`
	Rejected int    `json:"rejected"`
}

type DashboardResponse struct {
	Status string `json:"status"`
	Data   struct {
		TotalSubmissions int             `json:"total_submissions"`
		PendingCount     int             `json:"pending_count"`
		UnderReviewCount int             `json:"under_review_count"`
		ApprovedCount    int             `json:"approved_count"`
		RejectedCount    int             `json:"rejected_count"`
		TotalAppeals     int             `json:"total_appeals"`
		PendingAppeals   int             `json:"pending_appeals"`
		ApprovedAppeals  int             `json:"approved_appeals"`
		RejectedAppeals  int             `json:"rejected_appeals"`
		ByKind           []KindStatsData `json:"by_kind"`
	} `json:"data"`
	Timestamp string `json:"timestamp"`
}

type QueueStatsResponse struct {
	Status string `json:"status"`
	Data   struct {
		PendingCount int `json:"pending_count"`
		ReviewCount  int `json:"review_count"`
	} `json:"data"`
	Timestamp string `json:"timestamp"`
}
