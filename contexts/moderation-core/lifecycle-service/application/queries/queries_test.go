package queries

import (
	"context"
	"testing"
	"time"

	"sentinel/contexts/moderation-core/lifecycle-service/adapters/memory"
	"sentinel/contexts/moderation-core/lifecycle-service/domain/entities"
	"sentinel/contexts/moderation-core/lifecycle-service/ports"
)

func seedItem(id string, status entities.ContentStatus, at time.Time) entities.ContentItem {
	return entities.ContentItem{
		ContentID:   id,
		Kind:        entities.ContentKindText,
		Body:        "seed body",
		SubmitterID: "user-1",
		Status:      status,
		SubmittedAt: at,
		UpdatedAt:   at,
	}
}

func TestListReviewQueueOrdersAppealsFirst(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := memory.NewStore([]entities.ContentItem{
		seedItem("content-a", entities.ContentStatusPending, base),
		seedItem("content-b", entities.ContentStatusPending, base.Add(time.Minute)),
		seedItem("content-c", entities.ContentStatusRejected, base.Add(2*time.Minute)),
	})
	ctx := context.Background()

	openEntry := func(contentID string, entryID string, addedAt time.Time) {
		t.Helper()
		if err := store.ApplyStatusChange(ctx, ports.StatusChange{
			ContentID: contentID,
			From:      entities.ContentStatusPending,
			To:        entities.ContentStatusUnderReview,
			OpenReviewEntry: &entities.ReviewQueueEntry{
				EntryID:   entryID,
				ContentID: contentID,
				Priority:  entities.PriorityFirstPass,
				AddedAt:   addedAt,
			},
			Now: addedAt,
		}); err != nil {
			t.Fatalf("open entry for %s failed: %v", contentID, err)
		}
	}
	openEntry("content-a", "entry-a", base)
	openEntry("content-b", "entry-b", base.Add(time.Minute))

	// The appeal entry arrives last but carries the higher priority band.
	if err := store.CreateAppeal(ctx, entities.Appeal{
		AppealID:    "appeal-c",
		ContentID:   "content-c",
		SubmitterID: "user-1",
		Reason:      "please look at this again",
		Status:      entities.AppealStatusPending,
		CreatedAt:   base.Add(5 * time.Minute),
	}, entities.ReviewQueueEntry{
		EntryID:   "entry-c",
		ContentID: "content-c",
		Priority:  entities.PriorityAppeal,
		AddedAt:   base.Add(5 * time.Minute),
	}); err != nil {
		t.Fatalf("create appeal failed: %v", err)
	}

	uc := QueryUseCase{Repository: store}
	items, err := uc.ListReviewQueue(ctx, 0, 0)
	if err != nil {
		t.Fatalf("list review queue failed: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(items))
	}
	if items[0].EntryID != "entry-c" {
		t.Fatalf("expected appeal entry first, got %s", items[0].EntryID)
	}
	if items[1].EntryID != "entry-a" || items[2].EntryID != "entry-b" {
		t.Fatalf("expected first-pass entries in arrival order, got %s then %s", items[1].EntryID, items[2].EntryID)
	}
}

func TestListReviewQueuePagination(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seed := make([]entities.ContentItem, 0, 3)
	for _, id := range []string{"c1", "c2", "c3"} {
		seed = append(seed, seedItem(id, entities.ContentStatusPending, base))
	}
	store := memory.NewStore(seed)
	ctx := context.Background()

	for i, id := range []string{"c1", "c2", "c3"} {
		addedAt := base.Add(time.Duration(i) * time.Minute)
		if err := store.ApplyStatusChange(ctx, ports.StatusChange{
			ContentID: id,
			From:      entities.ContentStatusPending,
			To:        entities.ContentStatusUnderReview,
			OpenReviewEntry: &entities.ReviewQueueEntry{
				EntryID:   "entry-" + id,
				ContentID: id,
				Priority:  entities.PriorityFirstPass,
				AddedAt:   addedAt,
			},
			Now: addedAt,
		}); err != nil {
			t.Fatalf("open entry for %s failed: %v", id, err)
		}
	}

	uc := QueryUseCase{Repository: store}
	page, err := uc.ListReviewQueue(ctx, 2, 1)
	if err != nil {
		t.Fatalf("list review queue failed: %v", err)
	}
	if len(page) != 2 || page[0].EntryID != "entry-c2" || page[1].EntryID != "entry-c3" {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestGetContentStatusJoinsLatestAppeal(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := memory.NewStore([]entities.ContentItem{
		seedItem("content-a", entities.ContentStatusRejected, base),
	})
	ctx := context.Background()

	if err := store.CreateAppeal(ctx, entities.Appeal{
		AppealID:    "appeal-1",
		ContentID:   "content-a",
		SubmitterID: "user-1",
		Reason:      "please look at this again",
		Status:      entities.AppealStatusPending,
		CreatedAt:   base.Add(time.Minute),
	}, entities.ReviewQueueEntry{
		EntryID:   "entry-1",
		ContentID: "content-a",
		Priority:  entities.PriorityAppeal,
		AddedAt:   base.Add(time.Minute),
	}); err != nil {
		t.Fatalf("create appeal failed: %v", err)
	}

	uc := QueryUseCase{Repository: store}
	view, err := uc.GetContentStatus(ctx, "content-a")
	if err != nil {
		t.Fatalf("get content status failed: %v", err)
	}
	if view.Item.ContentID != "content-a" {
		t.Fatalf("unexpected item: %+v", view.Item)
	}
	if view.LatestAppeal == nil || view.LatestAppeal.AppealID != "appeal-1" {
		t.Fatalf("expected joined appeal, got %+v", view.LatestAppeal)
	}
	if view.LatestScore != nil {
		t.Fatalf("expected no score for unscored content")
	}
}

func TestListReviewQueueShowsLatestScore(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := memory.NewStore([]entities.ContentItem{
		seedItem("content-a", entities.ContentStatusPending, base),
	})
	ctx := context.Background()

	newer := entities.ScoreResult{
		ScoreID:   "score-newer",
		ContentID: "content-a",
		Aggregate: 65,
		Decision:  entities.DecisionReviewNeeded,
		CreatedAt: base.Add(time.Minute),
	}
	if err := store.ApplyStatusChange(ctx, ports.StatusChange{
		ContentID: "content-a",
		From:      entities.ContentStatusPending,
		To:        entities.ContentStatusUnderReview,
		Score:     &newer,
		OpenReviewEntry: &entities.ReviewQueueEntry{
			EntryID:   "entry-a",
			ContentID: "content-a",
			Priority:  entities.PriorityFirstPass,
			AddedAt:   base.Add(time.Minute),
		},
		Now: base.Add(time.Minute),
	}); err != nil {
		t.Fatalf("apply change failed: %v", err)
	}

	// An older score arriving late (queue redelivery) must not displace the
	// newer one in the worklist.
	older := entities.ScoreResult{
		ScoreID:   "score-older",
		ContentID: "content-a",
		Aggregate: 12,
		Decision:  entities.DecisionSafe,
		CreatedAt: base,
	}
	if err := store.ApplyStatusChange(ctx, ports.StatusChange{
		ContentID: "content-a",
		From:      entities.ContentStatusUnderReview,
		To:        entities.ContentStatusUnderReview,
		Score:     &older,
		Now:       base.Add(2 * time.Minute),
	}); err != nil {
		t.Fatalf("apply change failed: %v", err)
	}

	uc := QueryUseCase{Repository: store}
	items, err := uc.ListReviewQueue(ctx, 0, 0)
	if err != nil {
		t.Fatalf("list review queue failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected one entry, got %d", len(items))
	}
	if items[0].Aggregate == nil || *items[0].Aggregate != 65 || items[0].Decision != entities.DecisionReviewNeeded {
		t.Fatalf("expected latest score on the row, got %+v", items[0])
	}
}
