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

type NotificationData struct {
	NotificationID   string `json:"notification_id"`
	Type             string `json:"type"`
	Title            string `json:"title"`
	Message          string `json:"message"`
	Priority         string `json:"priority"`
	Read             bool   `json:"read"`
	RelatedContentID string `json:"related_content_id,omitempty"`
	RelatedAppealID  string `json:"related_appeal_id,omitempty"`
	CreatedAt        string `json:"created_at"`
}

type NotificationListResponse struct {
	Status string `json:"status"`
	Data   struct {
		Items []NotificationData `json:"items"`
	} `json:"data"`
	Timestamp string `json:"timestamp"`
}

type UnreadCountResponse struct {
	Status string `json:"status"`
	Data   struct {
		UnreadCount int `json:"unread_count"`
	} `json:"data"`
	Timestamp string `json:"timestamp"`
}

type MarkAllReadResponse struct {
	Status string `json:"status"`
	Data   struct {
		UpdatedCount int `json:"updated_count"`
	} `json:"data"`
	Timestamp string `json:"timestamp"`
}

type AckResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}
