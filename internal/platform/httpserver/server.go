package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	notificationservice "sentinel/contexts/engagement/notification-service"
	notificationerrors "sentinel/contexts/engagement/notification-service/domain/errors"
	notificationhttp "sentinel/contexts/engagement/notification-service/transport/http"
	lifecycleservice "sentinel/contexts/moderation-core/lifecycle-service"
	lifecycleerrors "sentinel/contexts/moderation-core/lifecycle-service/domain/errors"
	lifecyclehttp "sentinel/contexts/moderation-core/lifecycle-service/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "sentinel/internal/platform/httpserver/docs"
)

type Server struct {
	mux           *http.ServeMux
	logger        *slog.Logger
	addr          string
	lifecycle     lifecycleservice.Module
	notifications notificationservice.Module
}

func New(
	lifecycle lifecycleservice.Module,
	notifications notificationservice.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:           http.NewServeMux(),
		logger:        logger,
		addr:          addr,
		lifecycle:     lifecycle,
		notifications: notifications,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the routed mux for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	s.mux.HandleFunc("POST /v1/content", s.handleSubmitContent)
	s.mux.HandleFunc("POST /v1/content/batch", s.handleBatchSubmit)
	s.mux.HandleFunc("GET /v1/content/mine", s.handleMySubmissions)
	s.mux.HandleFunc("GET /v1/content/{content_id}", s.handleContentStatus)
	s.mux.HandleFunc("PUT /v1/content/{content_id}", s.handleEditContent)

	s.mux.HandleFunc("GET /v1/admin/review-queue", s.handleReviewQueue)
	s.mux.HandleFunc("POST /v1/admin/content/{content_id}/approve", s.handleApproveContent)
	s.mux.HandleFunc("POST /v1/admin/content/{content_id}/reject", s.handleRejectContent)
	s.mux.HandleFunc("GET /v1/admin/analytics/dashboard", s.handleDashboard)
	s.mux.HandleFunc("GET /v1/admin/analytics/queue", s.handleQueueStats)

	s.mux.HandleFunc("POST /v1/appeals", s.handleSubmitAppeal)
	s.mux.HandleFunc("GET /v1/appeals/{appeal_id}", s.handleGetAppeal)
	s.mux.HandleFunc("POST /v1/appeals/{appeal_id}/resolve", s.handleResolveAppeal)

	s.mux.HandleFunc("GET /v1/notifications", s.handleListNotifications)
	s.mux.HandleFunc("GET /v1/notifications/stream", s.handleNotificationStream)
	s.mux.HandleFunc("GET /v1/notifications/unread-count", s.handleUnreadCount)
	s.mux.HandleFunc("POST /v1/notifications/read-all", s.handleMarkAllRead)
	s.mux.HandleFunc("POST /v1/notifications/{notification_id}/read", s.handleMarkRead)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSubmitContent(w http.ResponseWriter, r *http.Request) {
	userID := requireUser(w, r)
	if userID == "" {
		return
	}
	var req lifecyclehttp.SubmitContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLifecycleError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.lifecycle.Handler.SubmitHandler(r.Context(), userID, req)
	if err != nil {
		writeLifecycleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleBatchSubmit(w http.ResponseWriter, r *http.Request) {
	userID := requireUser(w, r)
	if userID == "" {
		return
	}
	var req lifecyclehttp.BatchSubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLifecycleError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if len(req.Items) == 0 {
		writeLifecycleError(w, http.StatusBadRequest, "empty_batch", "items must not be empty")
		return
	}
	resp := s.lifecycle.Handler.BatchSubmitHandler(r.Context(), userID, req)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleContentStatus(w http.ResponseWriter, r *http.Request) {
	resp, err := s.lifecycle.Handler.StatusHandler(r.Context(), r.PathValue("content_id"))
	if err != nil {
		writeLifecycleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMySubmissions(w http.ResponseWriter, r *http.Request) {
	userID := requireUser(w, r)
	if userID == "" {
		return
	}
	resp, err := s.lifecycle.Handler.MySubmissionsHandler(r.Context(), userID, r.URL.Query().Get("limit"))
	if err != nil {
		writeLifecycleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleEditContent(w http.ResponseWriter, r *http.Request) {
	userID := requireUser(w, r)
	if userID == "" {
		return
	}
	var req lifecyclehttp.EditContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLifecycleError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.lifecycle.Handler.EditHandler(r.Context(), r.PathValue("content_id"), userID, req)
	if err != nil {
		writeLifecycleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReviewQueue(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	resp, err := s.lifecycle.Handler.ReviewQueueHandler(r.Context(), query.Get("limit"), query.Get("offset"))
	if err != nil {
		writeLifecycleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleApproveContent(w http.ResponseWriter, r *http.Request) {
	moderatorID := requireUser(w, r)
	if moderatorID == "" {
		return
	}
	req := decodeOptionalDecision(r)
	resp, err := s.lifecycle.Handler.ApproveHandler(r.Context(), r.PathValue("content_id"), moderatorID, req)
	if err != nil {
		writeLifecycleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRejectContent(w http.ResponseWriter, r *http.Request) {
	moderatorID := requireUser(w, r)
	if moderatorID == "" {
		return
	}
	req := decodeOptionalDecision(r)
	resp, err := s.lifecycle.Handler.RejectHandler(r.Context(), r.PathValue("content_id"), moderatorID, req)
	if err != nil {
		writeLifecycleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSubmitAppeal(w http.ResponseWriter, r *http.Request) {
	userID := requireUser(w, r)
	if userID == "" {
		return
	}
	var req lifecyclehttp.SubmitAppealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLifecycleError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.lifecycle.Handler.SubmitAppealHandler(r.Context(), userID, req)
	if err != nil {
		writeLifecycleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetAppeal(w http.ResponseWriter, r *http.Request) {
	resp, err := s.lifecycle.Handler.GetAppealHandler(r.Context(), r.PathValue("appeal_id"))
	if err != nil {
		writeLifecycleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleResolveAppeal(w http.ResponseWriter, r *http.Request) {
	moderatorID := requireUser(w, r)
	if moderatorID == "" {
		return
	}
	var req lifecyclehttp.ResolveAppealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLifecycleError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.lifecycle.Handler.ResolveAppealHandler(r.Context(), r.PathValue("appeal_id"), moderatorID, req)
	if err != nil {
		writeLifecycleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	resp, err := s.lifecycle.Handler.DashboardHandler(r.Context())
	if err != nil {
		writeLifecycleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleQueueStats(w http.ResponseWriter, r *http.Request) {
	resp, err := s.lifecycle.Handler.QueueStatsHandler(r.Context())
	if err != nil {
		writeLifecycleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	userID := requireUser(w, r)
	if userID == "" {
		return
	}
	query := r.URL.Query()
	resp, err := s.notifications.Handler.ListHandler(r.Context(), userID, query.Get("limit"), query.Get("unread_only"))
	if err != nil {
		writeNotificationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleNotificationStream(w http.ResponseWriter, r *http.Request) {
	userID := requireUser(w, r)
	if userID == "" {
		return
	}
	s.notifications.Handler.StreamHandler(w, r, userID)
}

func (s *Server) handleUnreadCount(w http.ResponseWriter, r *http.Request) {
	userID := requireUser(w, r)
	if userID == "" {
		return
	}
	resp, err := s.notifications.Handler.UnreadCountHandler(r.Context(), userID)
	if err != nil {
		writeNotificationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	userID := requireUser(w, r)
	if userID == "" {
		return
	}
	resp, err := s.notifications.Handler.MarkReadHandler(r.Context(), userID, r.PathValue("notification_id"))
	if err != nil {
		writeNotificationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID := requireUser(w, r)
	if userID == "" {
		return
	}
	resp, err := s.notifications.Handler.MarkAllReadHandler(r.Context(), userID)
	if err != nil {
		writeNotificationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func requireUser(w http.ResponseWriter, r *http.Request) string {
	userID := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if userID == "" {
		writeLifecycleError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
	}
	return userID
}

func decodeOptionalDecision(r *http.Request) lifecyclehttp.DecisionRequest {
	var req lifecyclehttp.DecisionRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	return req
}

func writeLifecycleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, lifecycleerrors.ErrContentNotFound):
		writeLifecycleError(w, http.StatusNotFound, "content_not_found", err.Error())
	case errors.Is(err, lifecycleerrors.ErrAppealNotFound):
		writeLifecycleError(w, http.StatusNotFound, "appeal_not_found", err.Error())
	case errors.Is(err, lifecycleerrors.ErrInvalidContentInput),
		errors.Is(err, lifecycleerrors.ErrUnsupportedKind),
		errors.Is(err, lifecycleerrors.ErrAppealReasonTooShort),
		errors.Is(err, lifecycleerrors.ErrInvalidDecision):
		writeLifecycleError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, lifecycleerrors.ErrInvalidStateTransition):
		writeLifecycleError(w, http.StatusConflict, "invalid_state_transition", err.Error())
	case errors.Is(err, lifecycleerrors.ErrDecisionConflict):
		writeLifecycleError(w, http.StatusConflict, "decision_conflict", err.Error())
	case errors.Is(err, lifecycleerrors.ErrPendingAppealExists):
		writeLifecycleError(w, http.StatusConflict, "pending_appeal_exists", err.Error())
	case errors.Is(err, lifecycleerrors.ErrAppealAlreadyResolved):
		writeLifecycleError(w, http.StatusConflict, "appeal_already_resolved", err.Error())
	case errors.Is(err, lifecycleerrors.ErrNotOwner):
		writeLifecycleError(w, http.StatusForbidden, "not_owner", err.Error())
	case errors.Is(err, lifecycleerrors.ErrUnauthorizedActor):
		writeLifecycleError(w, http.StatusUnauthorized, "unauthorized", err.Error())
	default:
		writeLifecycleError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeNotificationDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, notificationerrors.ErrNotificationNotFound):
		writeNotificationError(w, http.StatusNotFound, "notification_not_found", err.Error())
	case errors.Is(err, notificationerrors.ErrInvalidNotification):
		writeNotificationError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeNotificationError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeLifecycleError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, lifecyclehttp.ErrorEnvelope{
		Status:    "error",
		Error:     lifecyclehttp.ErrorBody{Code: code, Message: message},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func writeNotificationError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, notificationhttp.ErrorEnvelope{
		Status:    "error",
		Error:     notificationhttp.ErrorBody{Code: code, Message: message},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
