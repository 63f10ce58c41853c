package postgresadapter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"sentinel/contexts/engagement/notification-service/domain/entities"
	"sentinel/contexts/engagement/notification-service/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreateNotification(ctx context.Context, notification entities.Notification) error {
	row := notificationModelFromEntity(notification)
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *Repository) ListNotifications(ctx context.Context, filter ports.ListFilter) ([]entities.Notification, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	tx := r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("user_id = ?", strings.TrimSpace(filter.UserID))
	if filter.UnreadOnly {
		tx = tx.Where("read = ?", false)
	}

	var rows []notificationModel
	if err := tx.Order("created_at DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]entities.Notification, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

// MarkRead updates the row only when it belongs to the given user. The bool
// result distinguishes ownership misses from storage errors.
func (r *Repository) MarkRead(ctx context.Context, userID string, notificationID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("notification_id = ?", strings.TrimSpace(notificationID)).
		Where("user_id = ?", strings.TrimSpace(userID)).
		Update("read", true)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *Repository) MarkAllRead(ctx context.Context, userID string) (int, error) {
	result := r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("user_id = ?", strings.TrimSpace(userID)).
		Where("read = ?", false).
		Update("read", true)
	if result.Error != nil {
		return 0, result.Error
	}
	return int(result.RowsAffected), nil
}

func (r *Repository) UnreadCount(ctx context.Context, userID string) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("user_id = ?", strings.TrimSpace(userID)).
		Where("read = ?", false).
		Count(&count).
		Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *Repository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff.UTC()).
		Delete(&notificationModel{})
	if result.Error != nil {
		return 0, result.Error
	}
	return int(result.RowsAffected), nil
}

func (r *Repository) ListModeratorIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("role = ?", "moderator").
		Pluck("user_id", &ids).
		Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *Repository) Now() time.Time {
	return time.Now().UTC()
}

func (r *Repository) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

type notificationModel struct {
	NotificationID   string    `gorm:"column:notification_id;primaryKey"`
	UserID           string    `gorm:"column:user_id"`
	Type             string    `gorm:"column:type"`
	Title            string    `gorm:"column:title"`
	Message          string    `gorm:"column:message"`
	Priority         string    `gorm:"column:priority"`
	Read             bool      `gorm:"column:read"`
	RelatedContentID string    `gorm:"column:related_content_id"`
	RelatedAppealID  string    `gorm:"column:related_appeal_id"`
	CreatedAt        time.Time `gorm:"column:created_at"`
}

func (notificationModel) TableName() string {
	return "notifications"
}

func notificationModelFromEntity(notification entities.Notification) notificationModel {
	return notificationModel{
		NotificationID:   strings.TrimSpace(notification.NotificationID),
		UserID:           strings.TrimSpace(notification.UserID),
		Type:             strings.TrimSpace(notification.Type),
		Title:            strings.TrimSpace(notification.Title),
		Message:          strings.TrimSpace(notification.Message),
		Priority:         string(notification.Priority),
		Read:             notification.Read,
		RelatedContentID: strings.TrimSpace(notification.RelatedContentID),
		RelatedAppealID:  strings.TrimSpace(notification.RelatedAppealID),
		CreatedAt:        notification.CreatedAt.UTC(),
	}
}

func (m notificationModel) toEntity() entities.Notification {
	return entities.Notification{
		NotificationID:   m.NotificationID,
		UserID:           m.UserID,
		Type:             m.Type,
		Title:            m.Title,
		Message:          m.Message,
		Priority:         entities.Priority(m.Priority),
		Read:             m.Read,
		RelatedContentID: m.RelatedContentID,
		RelatedAppealID:  m.RelatedAppealID,
		CreatedAt:        m.CreatedAt.UTC(),
	}
}

type userModel struct {
	UserID string `gorm:"column:user_id;primaryKey"`
	Role   string `gorm:"column:role"`
}

func (userModel) TableName() string {
	return "users"
}
