package application

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"sentinel/contexts/engagement/notification-service/adapters/memory"
	"sentinel/contexts/engagement/notification-service/domain/entities"
	domainerrors "sentinel/contexts/engagement/notification-service/domain/errors"
	"sentinel/contexts/engagement/notification-service/ports"
)

type fakeConnection struct {
	payloads [][]byte
	err      error
}

func (c *fakeConnection) Send(_ context.Context, payload []byte) error {
	if c.err != nil {
		return c.err
	}
	c.payloads = append(c.payloads, payload)
	return nil
}

type fakeStats struct {
	pending int
	review  int
}

func (s fakeStats) QueueDepth(_ context.Context) (int, int, error) {
	return s.pending, s.review, nil
}

func newService(store *memory.Store, registry ports.Registry) Service {
	return Service{
		Repo:     store,
		Registry: registry,
		Stats:    fakeStats{pending: 3, review: 2},
		Clock:    store,
		IDGen:    store,
	}
}

func TestNotifyUserPersistsAndPushes(t *testing.T) {
	store := memory.NewStore(nil)
	registry := memory.NewRegistry()
	tab1 := &fakeConnection{}
	tab2 := &fakeConnection{}
	registry.Register("user-1", tab1)
	registry.Register("user-1", tab2)
	svc := newService(store, registry)

	notification, err := svc.NotifyUser(context.Background(), NotificationInput{
		UserID:   "user-1",
		Type:     "content_approved",
		Title:    "Content approved",
		Message:  "Your submission passed moderation and is now live.",
		Priority: entities.PriorityMedium,
	})
	if err != nil {
		t.Fatalf("notify failed: %v", err)
	}

	items, err := svc.List(context.Background(), ports.ListFilter{UserID: "user-1"})
	if err != nil || len(items) != 1 {
		t.Fatalf("expected one stored notification, got %d err=%v", len(items), err)
	}
	if len(tab1.payloads) != 1 || len(tab2.payloads) != 1 {
		t.Fatalf("expected push to every live connection, got %d and %d", len(tab1.payloads), len(tab2.payloads))
	}

	var message struct {
		Kind         string `json:"kind"`
		Notification struct {
			NotificationID string `json:"notification_id"`
			Priority       string `json:"priority"`
		} `json:"notification"`
	}
	if err := json.Unmarshal(tab1.payloads[0], &message); err != nil {
		t.Fatalf("decode push failed: %v", err)
	}
	if message.Kind != "notification" || message.Notification.NotificationID != notification.NotificationID {
		t.Fatalf("unexpected push message: %s", tab1.payloads[0])
	}
	if message.Notification.Priority != string(entities.PriorityMedium) {
		t.Fatalf("unexpected priority: %s", message.Notification.Priority)
	}
}

func TestNotifyUserSurvivesSendFailure(t *testing.T) {
	store := memory.NewStore(nil)
	registry := memory.NewRegistry()
	registry.Register("user-1", &fakeConnection{err: errors.New("connection closed")})
	svc := newService(store, registry)

	if _, err := svc.NotifyUser(context.Background(), NotificationInput{
		UserID: "user-1",
		Type:   "content_approved",
	}); err != nil {
		t.Fatalf("send failure must not fail the call: %v", err)
	}
	count, err := svc.UnreadCount(context.Background(), "user-1")
	if err != nil || count != 1 {
		t.Fatalf("expected stored row despite push failure, got %d err=%v", count, err)
	}
}

func TestNotifyUserDefaultsInvalidPriority(t *testing.T) {
	store := memory.NewStore(nil)
	svc := newService(store, memory.NewRegistry())

	notification, err := svc.NotifyUser(context.Background(), NotificationInput{
		UserID:   "user-1",
		Type:     "content_approved",
		Priority: entities.Priority("urgent"),
	})
	if err != nil {
		t.Fatalf("notify failed: %v", err)
	}
	if notification.Priority != entities.PriorityMedium {
		t.Fatalf("expected medium default, got %s", notification.Priority)
	}
}

func TestNotifyUserRejectsEmptyRecipient(t *testing.T) {
	svc := newService(memory.NewStore(nil), memory.NewRegistry())
	if _, err := svc.NotifyUser(context.Background(), NotificationInput{Type: "x"}); !errors.Is(err, domainerrors.ErrInvalidNotification) {
		t.Fatalf("expected invalid notification, got %v", err)
	}
}

func TestNotifyModeratorsStoresRowPerModerator(t *testing.T) {
	store := memory.NewStore([]string{"mod-1", "mod-2"})
	registry := memory.NewRegistry()
	conn := &fakeConnection{}
	registry.Register("mod-1", conn)
	svc := newService(store, registry)

	if err := svc.NotifyModerators(context.Background(), NotificationInput{
		Type:     "appeal_submitted",
		Title:    "New appeal filed",
		Priority: entities.PriorityHigh,
	}); err != nil {
		t.Fatalf("notify moderators failed: %v", err)
	}

	for _, moderator := range []string{"mod-1", "mod-2"} {
		count, err := svc.UnreadCount(context.Background(), moderator)
		if err != nil || count != 1 {
			t.Fatalf("expected one row for %s, got %d err=%v", moderator, count, err)
		}
	}

	// The connected moderator also receives the queue-depth broadcast.
	if len(conn.payloads) != 2 {
		t.Fatalf("expected notification plus queue stats push, got %d", len(conn.payloads))
	}
	var stats struct {
		Kind       string `json:"kind"`
		QueueStats struct {
			PendingCount int `json:"pending_count"`
			ReviewCount  int `json:"review_count"`
		} `json:"queue_stats"`
	}
	if err := json.Unmarshal(conn.payloads[1], &stats); err != nil {
		t.Fatalf("decode stats push failed: %v", err)
	}
	if stats.Kind != "queue_stats" || stats.QueueStats.PendingCount != 3 || stats.QueueStats.ReviewCount != 2 {
		t.Fatalf("unexpected stats push: %s", conn.payloads[1])
	}
}

func TestMarkReadIgnoresForeignNotification(t *testing.T) {
	store := memory.NewStore(nil)
	svc := newService(store, memory.NewRegistry())

	notification, err := svc.NotifyUser(context.Background(), NotificationInput{
		UserID: "user-1",
		Type:   "content_approved",
	})
	if err != nil {
		t.Fatalf("notify failed: %v", err)
	}

	// A foreign or unknown id is a silent no-op, and the row stays unread.
	if err := svc.MarkRead(context.Background(), "user-2", notification.NotificationID); err != nil {
		t.Fatalf("foreign mark-read must be a no-op, got %v", err)
	}
	count, _ := svc.UnreadCount(context.Background(), "user-1")
	if count != 1 {
		t.Fatalf("foreign mark-read must not flip the flag, got %d unread", count)
	}

	if err := svc.MarkRead(context.Background(), "user-1", notification.NotificationID); err != nil {
		t.Fatalf("owner mark-read failed: %v", err)
	}
	count, _ = svc.UnreadCount(context.Background(), "user-1")
	if count != 0 {
		t.Fatalf("expected zero unread after mark-read, got %d", count)
	}
}

func TestMarkAllRead(t *testing.T) {
	store := memory.NewStore(nil)
	svc := newService(store, memory.NewRegistry())

	for i := 0; i < 3; i++ {
		if _, err := svc.NotifyUser(context.Background(), NotificationInput{
			UserID: "user-1",
			Type:   "content_approved",
		}); err != nil {
			t.Fatalf("notify failed: %v", err)
		}
	}

	updated, err := svc.MarkAllRead(context.Background(), "user-1")
	if err != nil || updated != 3 {
		t.Fatalf("expected 3 updated, got %d err=%v", updated, err)
	}
	count, _ := svc.UnreadCount(context.Background(), "user-1")
	if count != 0 {
		t.Fatalf("expected zero unread, got %d", count)
	}
}

func TestCleanupOldRespectsRetention(t *testing.T) {
	store := memory.NewStore(nil)
	svc := newService(store, memory.NewRegistry())
	svc.Retention = 7 * 24 * time.Hour

	old := entities.Notification{
		NotificationID: "stale-1",
		UserID:         "user-1",
		Type:           "content_approved",
		CreatedAt:      time.Now().UTC().Add(-8 * 24 * time.Hour),
	}
	if err := store.CreateNotification(context.Background(), old); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if _, err := svc.NotifyUser(context.Background(), NotificationInput{
		UserID: "user-1",
		Type:   "content_approved",
	}); err != nil {
		t.Fatalf("notify failed: %v", err)
	}

	deleted, err := svc.CleanupOld(context.Background())
	if err != nil || deleted != 1 {
		t.Fatalf("expected one stale row deleted, got %d err=%v", deleted, err)
	}
	items, _ := svc.List(context.Background(), ports.ListFilter{UserID: "user-1"})
	if len(items) != 1 {
		t.Fatalf("recent notification must survive cleanup, got %d rows", len(items))
	}
}

type flakyRepo struct {
	*memory.Store
	failures int
	calls    int
}

func (r *flakyRepo) CreateNotification(ctx context.Context, notification entities.Notification) error {
	r.calls++
	if r.calls <= r.failures {
		return errors.New("insert failed")
	}
	return r.Store.CreateNotification(ctx, notification)
}

func TestNotifyUserPushesDespitePersistenceFailure(t *testing.T) {
	repo := &flakyRepo{Store: memory.NewStore(nil), failures: 1}
	registry := memory.NewRegistry()
	conn := &fakeConnection{}
	registry.Register("user-1", conn)
	svc := newService(repo.Store, registry)
	svc.Repo = repo

	if _, err := svc.NotifyUser(context.Background(), NotificationInput{
		UserID: "user-1",
		Type:   "content_approved",
	}); err != nil {
		t.Fatalf("persistence failure must not surface, got %v", err)
	}
	if len(conn.payloads) != 1 {
		t.Fatalf("live push must still go out, got %d payloads", len(conn.payloads))
	}
	count, _ := svc.UnreadCount(context.Background(), "user-1")
	if count != 0 {
		t.Fatalf("expected no stored row after failed insert, got %d", count)
	}
}

func TestNotifyModeratorsContinuesAfterFailure(t *testing.T) {
	repo := &flakyRepo{Store: memory.NewStore([]string{"mod-1", "mod-2"}), failures: 1}
	registry := memory.NewRegistry()
	conn := &fakeConnection{}
	registry.Register("mod-1", conn)
	svc := newService(repo.Store, registry)
	svc.Repo = repo

	if err := svc.NotifyModerators(context.Background(), NotificationInput{
		Type:     "appeal_submitted",
		Title:    "New appeal filed",
		Priority: entities.PriorityHigh,
	}); err != nil {
		t.Fatalf("notify moderators failed: %v", err)
	}

	// The first insert failed but the push still went out, the second
	// moderator's row landed, and the queue-stats broadcast followed.
	count, _ := svc.UnreadCount(context.Background(), "mod-2")
	if count != 1 {
		t.Fatalf("expected row for mod-2 despite earlier failure, got %d", count)
	}
	if len(conn.payloads) != 2 {
		t.Fatalf("expected notification plus queue stats push for mod-1, got %d", len(conn.payloads))
	}
}
