package application

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"sentinel/contexts/engagement/notification-service/domain/entities"
	domainerrors "sentinel/contexts/engagement/notification-service/domain/errors"
	"sentinel/contexts/engagement/notification-service/ports"
)

func ResolveLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}

type NotificationInput struct {
	UserID           string
	Type             string
	Title            string
	Message          string
	Priority         entities.Priority
	RelatedContentID string
	RelatedAppealID  string
}

type Service struct {
	Repo      ports.Repository
	Registry  ports.Registry
	Stats     ports.StatsSource
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Retention time.Duration
	Logger    *slog.Logger
}

type pushMessage struct {
	Kind         string               `json:"kind"`
	Notification *notificationPayload `json:"notification,omitempty"`
	QueueStats   *queueStatsPayload   `json:"queue_stats,omitempty"`
}

type notificationPayload struct {
	NotificationID   string `json:"notification_id"`
	Type             string `json:"type"`
	Title            string `json:"title"`
	Message          string `json:"message"`
	Priority         string `json:"priority"`
	RelatedContentID string `json:"related_content_id,omitempty"`
	RelatedAppealID  string `json:"related_appeal_id,omitempty"`
	CreatedAt        string `json:"created_at"`
}

type queueStatsPayload struct {
	PendingCount int `json:"pending_count"`
	ReviewCount  int `json:"review_count"`
}

// NotifyUser persists the notification and pushes it to every live connection
// the recipient holds. Both legs are best effort: a failed or absent
// connection never fails the call, and a persistence failure is logged while
// the live push still goes out.
func (s Service) NotifyUser(ctx context.Context, input NotificationInput) (entities.Notification, error) {
	logger := ResolveLogger(s.Logger)

	userID := strings.TrimSpace(input.UserID)
	if userID == "" || strings.TrimSpace(input.Type) == "" {
		return entities.Notification{}, domainerrors.ErrInvalidNotification
	}
	priority := input.Priority
	if !priority.Valid() {
		priority = entities.PriorityMedium
	}

	notificationID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return entities.Notification{}, err
	}
	notification := entities.Notification{
		NotificationID:   notificationID,
		UserID:           userID,
		Type:             strings.TrimSpace(input.Type),
		Title:            strings.TrimSpace(input.Title),
		Message:          strings.TrimSpace(input.Message),
		Priority:         priority,
		RelatedContentID: strings.TrimSpace(input.RelatedContentID),
		RelatedAppealID:  strings.TrimSpace(input.RelatedAppealID),
		CreatedAt:        s.Clock.Now().UTC(),
	}
	if err := s.Repo.CreateNotification(ctx, notification); err != nil {
		logger.Error("notification persistence failed",
			"event", "notification_persist_failed",
			"module", "engagement/notification-service",
			"layer", "application",
			"notification_id", notification.NotificationID,
			"user_id", userID,
			"error", err.Error(),
		)
	}

	s.push(ctx, userID, pushMessage{
		Kind: "notification",
		Notification: &notificationPayload{
			NotificationID:   notification.NotificationID,
			Type:             notification.Type,
			Title:            notification.Title,
			Message:          notification.Message,
			Priority:         string(notification.Priority),
			RelatedContentID: notification.RelatedContentID,
			RelatedAppealID:  notification.RelatedAppealID,
			CreatedAt:        notification.CreatedAt.Format(time.RFC3339),
		},
	})

	logger.Info("notification created",
		"event", "notification_created",
		"module", "engagement/notification-service",
		"layer", "application",
		"notification_id", notification.NotificationID,
		"user_id", userID,
		"type", notification.Type,
	)
	return notification, nil
}

// NotifyModerators stores one row per moderator so each can read and clear it
// independently, then pushes to all of them along with a queue-depth update.
// One failing recipient never blocks the rest of the fanout.
func (s Service) NotifyModerators(ctx context.Context, input NotificationInput) error {
	moderatorIDs, err := s.Repo.ListModeratorIDs(ctx)
	if err != nil {
		return err
	}
	for _, moderatorID := range moderatorIDs {
		input.UserID = moderatorID
		if _, err := s.NotifyUser(ctx, input); err != nil {
			ResolveLogger(s.Logger).Error("moderator notification failed",
				"event", "notification_moderator_failed",
				"module", "engagement/notification-service",
				"layer", "application",
				"user_id", moderatorID,
				"error", err.Error(),
			)
		}
	}
	s.BroadcastQueueStats(ctx, moderatorIDs)
	return nil
}

// BroadcastQueueStats pushes the current queue depth to the given users.
func (s Service) BroadcastQueueStats(ctx context.Context, userIDs []string) {
	if s.Stats == nil {
		return
	}
	pending, review, err := s.Stats.QueueDepth(ctx)
	if err != nil {
		ResolveLogger(s.Logger).Warn("queue depth lookup failed",
			"event", "notification_queue_stats_failed",
			"module", "engagement/notification-service",
			"layer", "application",
			"error", err.Error(),
		)
		return
	}
	message := pushMessage{
		Kind:       "queue_stats",
		QueueStats: &queueStatsPayload{PendingCount: pending, ReviewCount: review},
	}
	for _, userID := range userIDs {
		s.push(ctx, userID, message)
	}
}

func (s Service) List(ctx context.Context, filter ports.ListFilter) ([]entities.Notification, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	filter.UserID = strings.TrimSpace(filter.UserID)
	return s.Repo.ListNotifications(ctx, filter)
}

// MarkRead flips the read flag only when the notification belongs to the
// caller. A foreign or unknown id is a silent no-op so the endpoint leaks
// nothing about other users' notifications.
func (s Service) MarkRead(ctx context.Context, userID string, notificationID string) error {
	_, err := s.Repo.MarkRead(ctx, strings.TrimSpace(userID), strings.TrimSpace(notificationID))
	return err
}

func (s Service) MarkAllRead(ctx context.Context, userID string) (int, error) {
	return s.Repo.MarkAllRead(ctx, strings.TrimSpace(userID))
}

func (s Service) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.Repo.UnreadCount(ctx, strings.TrimSpace(userID))
}

// CleanupOld deletes notifications past the retention window.
func (s Service) CleanupOld(ctx context.Context) (int, error) {
	retention := s.Retention
	if retention <= 0 {
		retention = entities.DefaultRetention
	}
	cutoff := s.Clock.Now().UTC().Add(-retention)
	deleted, err := s.Repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		ResolveLogger(s.Logger).Info("expired notifications removed",
			"event", "notification_cleanup_completed",
			"module", "engagement/notification-service",
			"layer", "application",
			"deleted_count", deleted,
		)
	}
	return deleted, nil
}

func (s Service) push(ctx context.Context, userID string, message pushMessage) {
	if s.Registry == nil {
		return
	}
	payload, err := json.Marshal(message)
	if err != nil {
		return
	}
	for _, conn := range s.Registry.ConnectionsFor(userID) {
		if err := conn.Send(ctx, payload); err != nil {
			ResolveLogger(s.Logger).Warn("live delivery failed",
				"event", "notification_push_failed",
				"module", "engagement/notification-service",
				"layer", "application",
				"user_id", userID,
				"error", err.Error(),
			)
		}
	}
}
