package workers

import (
	"context"
	"encoding/json"
	"testing"

	"sentinel/contexts/engagement/notification-service/adapters/memory"
	"sentinel/contexts/engagement/notification-service/application"
	"sentinel/contexts/engagement/notification-service/domain/entities"
	"sentinel/contexts/engagement/notification-service/ports"
	"sentinel/internal/shared/events"
)

func newConsumer(moderatorIDs []string) (LifecycleConsumer, *memory.Store) {
	store := memory.NewStore(moderatorIDs)
	consumer := LifecycleConsumer{
		Service: application.Service{
			Repo:     store,
			Registry: memory.NewRegistry(),
			Clock:    store,
			IDGen:    store,
		},
	}
	return consumer, store
}

func lifecycleEvent(t *testing.T, eventType string, payload map[string]any) events.Envelope {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload failed: %v", err)
	}
	return events.Envelope{
		EventID:   "evt-1",
		EventType: eventType,
		Payload:   raw,
	}
}

func firstNotification(t *testing.T, store *memory.Store, userID string) entities.Notification {
	t.Helper()
	items, err := store.ListNotifications(context.Background(), ports.ListFilter{UserID: userID})
	if err != nil {
		t.Fatalf("list notifications failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected one notification for %s, got %d", userID, len(items))
	}
	return items[0]
}

func TestHandleSubmissionReceipt(t *testing.T) {
	consumer, store := newConsumer(nil)

	err := consumer.Handle(context.Background(), lifecycleEvent(t, "content.submitted", map[string]any{
		"content_id":   "content-1",
		"content_kind": "text",
		"submitter_id": "user-1",
	}))
	if err != nil {
		t.Fatalf("handle failed: %v", err)
	}

	notification := firstNotification(t, store, "user-1")
	if notification.Type != "submission_received" || notification.Priority != entities.PriorityLow {
		t.Fatalf("unexpected notification: %+v", notification)
	}
	if notification.RelatedContentID != "content-1" {
		t.Fatalf("expected related content id, got %q", notification.RelatedContentID)
	}
}

func TestHandleModerationCompletedRejectionIncludesNotes(t *testing.T) {
	consumer, store := newConsumer(nil)

	err := consumer.Handle(context.Background(), lifecycleEvent(t, "moderation.completed", map[string]any{
		"content_id":   "content-1",
		"submitter_id": "user-1",
		"status":       "rejected",
		"notes":        "policy violation",
	}))
	if err != nil {
		t.Fatalf("handle failed: %v", err)
	}

	notification := firstNotification(t, store, "user-1")
	if notification.Type != "content_rejected" || notification.Priority != entities.PriorityHigh {
		t.Fatalf("unexpected notification: %+v", notification)
	}
	if notification.Message != "Your submission was rejected by moderation. Notes: policy violation" {
		t.Fatalf("unexpected message: %q", notification.Message)
	}
}

func TestHandleEscalationFansOutToModerators(t *testing.T) {
	consumer, store := newConsumer([]string{"mod-1", "mod-2"})

	err := consumer.Handle(context.Background(), lifecycleEvent(t, "content.escalated", map[string]any{
		"content_id": "content-1",
		"reason":     "scoring retries exhausted",
	}))
	if err != nil {
		t.Fatalf("handle failed: %v", err)
	}

	for _, moderator := range []string{"mod-1", "mod-2"} {
		notification := firstNotification(t, store, moderator)
		if notification.Type != "content_escalated" || notification.Priority != entities.PriorityHigh {
			t.Fatalf("unexpected notification for %s: %+v", moderator, notification)
		}
	}
}

func TestHandleAppealResolvedApproved(t *testing.T) {
	consumer, store := newConsumer(nil)

	err := consumer.Handle(context.Background(), lifecycleEvent(t, "appeal.resolved", map[string]any{
		"appeal_id":        "appeal-1",
		"content_id":       "content-1",
		"submitter_id":     "user-1",
		"status":           "approved",
		"resolution_notes": "rejection overturned",
	}))
	if err != nil {
		t.Fatalf("handle failed: %v", err)
	}

	notification := firstNotification(t, store, "user-1")
	if notification.Title != "Appeal approved" {
		t.Fatalf("unexpected title: %q", notification.Title)
	}
	if notification.RelatedAppealID != "appeal-1" {
		t.Fatalf("expected related appeal id, got %q", notification.RelatedAppealID)
	}
	if notification.Message != "Your appeal was approved and the content is now live. Notes: rejection overturned" {
		t.Fatalf("unexpected message: %q", notification.Message)
	}
}

func TestHandleIgnoresUnknownEventTypes(t *testing.T) {
	consumer, store := newConsumer(nil)

	err := consumer.Handle(context.Background(), lifecycleEvent(t, "content.archived", map[string]any{
		"submitter_id": "user-1",
	}))
	if err != nil {
		t.Fatalf("unknown event must be ignored, got %v", err)
	}
	items, _ := store.ListNotifications(context.Background(), ports.ListFilter{UserID: "user-1"})
	if len(items) != 0 {
		t.Fatalf("expected no notifications, got %d", len(items))
	}
}

func TestHandleDropsUndecodablePayload(t *testing.T) {
	consumer, _ := newConsumer(nil)

	err := consumer.Handle(context.Background(), events.Envelope{
		EventID:   "evt-1",
		EventType: "moderation.completed",
		Payload:   []byte("{not json"),
	})
	if err != nil {
		t.Fatalf("undecodable payload must be dropped, got %v", err)
	}
}

func TestHandleFansOutToModeratorsAndSubmitter(t *testing.T) {
	cases := []struct {
		name          string
		eventType     string
		payload       map[string]any
		moderatorType string
		submitterType string
	}{
		{
			name:      "submission",
			eventType: "content.submitted",
			payload: map[string]any{
				"content_id":   "content-1",
				"content_kind": "text",
				"submitter_id": "user-1",
			},
			moderatorType: "new_submission",
			submitterType: "submission_received",
		},
		{
			name:      "moderation completed",
			eventType: "moderation.completed",
			payload: map[string]any{
				"content_id":   "content-1",
				"submitter_id": "user-1",
				"status":       "approved",
			},
			moderatorType: "moderation_completed",
			submitterType: "content_approved",
		},
		{
			name:      "appeal resolved",
			eventType: "appeal.resolved",
			payload: map[string]any{
				"appeal_id":    "appeal-1",
				"content_id":   "content-1",
				"submitter_id": "user-1",
				"status":       "rejected",
			},
			moderatorType: "appeal_resolved",
			submitterType: "appeal_resolved",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			consumer, store := newConsumer([]string{"mod-1", "mod-2"})

			if err := consumer.Handle(context.Background(), lifecycleEvent(t, tc.eventType, tc.payload)); err != nil {
				t.Fatalf("handle failed: %v", err)
			}

			for _, moderator := range []string{"mod-1", "mod-2"} {
				notification := firstNotification(t, store, moderator)
				if notification.Type != tc.moderatorType {
					t.Fatalf("expected %s row for %s, got %+v", tc.moderatorType, moderator, notification)
				}
			}
			notification := firstNotification(t, store, "user-1")
			if notification.Type != tc.submitterType {
				t.Fatalf("expected %s row for submitter, got %+v", tc.submitterType, notification)
			}
		})
	}
}
