package ports

import (
	"context"
	"time"

	"sentinel/contexts/engagement/notification-service/domain/entities"
)

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type ListFilter struct {
	UserID     string
	UnreadOnly bool
	Limit      int
}

type Repository interface {
	CreateNotification(ctx context.Context, notification entities.Notification) error
	ListNotifications(ctx context.Context, filter ListFilter) ([]entities.Notification, error)
	MarkRead(ctx context.Context, userID string, notificationID string) (bool, error)
	MarkAllRead(ctx context.Context, userID string) (int, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error)
	ListModeratorIDs(ctx context.Context) ([]string, error)
}

// Connection is one live delivery channel for a user, typically a websocket.
// Send failures are the connection's problem; the service never propagates
// them to callers.
type Connection interface {
	Send(ctx context.Context, payload []byte) error
}

// Registry tracks live connections per user. A user may hold several at once
// (multiple tabs or devices) and each registered connection receives every
// notification addressed to that user.
type Registry interface {
	Register(userID string, conn Connection)
	Unregister(userID string, conn Connection)
	ConnectionsFor(userID string) []Connection
}

// StatsSource feeds the moderator queue-depth broadcast that rides along with
// moderator notifications.
type StatsSource interface {
	QueueDepth(ctx context.Context) (pending int, underReview int, err error)
}
