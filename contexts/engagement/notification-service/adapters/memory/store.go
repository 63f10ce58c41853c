package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"sentinel/contexts/engagement/notification-service/domain/entities"
	"sentinel/contexts/engagement/notification-service/ports"

	"github.com/google/uuid"
)

// Store keeps notifications in memory for tests and local runs.
type Store struct {
	mu            sync.RWMutex
	notifications map[string]entities.Notification
	moderatorIDs  []string
}

func NewStore(moderatorIDs []string) *Store {
	return &Store{
		notifications: make(map[string]entities.Notification),
		moderatorIDs:  append([]string(nil), moderatorIDs...),
	}
}

func (s *Store) CreateNotification(_ context.Context, notification entities.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications[notification.NotificationID] = notification
	return nil
}

func (s *Store) ListNotifications(_ context.Context, filter ports.ListFilter) ([]entities.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Notification, 0)
	for _, notification := range s.notifications {
		if notification.UserID != filter.UserID {
			continue
		}
		if filter.UnreadOnly && notification.Read {
			continue
		}
		items = append(items, notification)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	if filter.Limit > 0 && len(items) > filter.Limit {
		items = items[:filter.Limit]
	}
	return items, nil
}

func (s *Store) MarkRead(_ context.Context, userID string, notificationID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notification, exists := s.notifications[notificationID]
	if !exists || notification.UserID != userID {
		return false, nil
	}
	notification.Read = true
	s.notifications[notificationID] = notification
	return true, nil
}

func (s *Store) MarkAllRead(_ context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := 0
	for id, notification := range s.notifications {
		if notification.UserID == userID && !notification.Read {
			notification.Read = true
			s.notifications[id] = notification
			updated++
		}
	}
	return updated, nil
}

func (s *Store) UnreadCount(_ context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, notification := range s.notifications {
		if notification.UserID == userID && !notification.Read {
			count++
		}
	}
	return count, nil
}

func (s *Store) DeleteOlderThan(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	for id, notification := range s.notifications {
		if notification.CreatedAt.Before(cutoff) {
			delete(s.notifications, id)
			deleted++
		}
	}
	return deleted, nil
}

func (s *Store) ListModeratorIDs(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.moderatorIDs...), nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
