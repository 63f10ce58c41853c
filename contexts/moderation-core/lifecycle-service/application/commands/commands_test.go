package commands

import (
	"context"
	"errors"
	"testing"

	"sentinel/contexts/moderation-core/lifecycle-service/adapters/memory"
	"sentinel/contexts/moderation-core/lifecycle-service/domain/entities"
	domainerrors "sentinel/contexts/moderation-core/lifecycle-service/domain/errors"
	"sentinel/contexts/moderation-core/lifecycle-service/ports"
)

type fakeQueue struct {
	up   bool
	err  error
	jobs []ports.ScoringJob
}

func (q *fakeQueue) Enqueue(_ context.Context, job ports.ScoringJob) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *fakeQueue) Available(_ context.Context) bool {
	return q.up
}

type harness struct {
	store *memory.Store
	queue *fakeQueue
}

func newHarness(queueUp bool) harness {
	return harness{
		store: memory.NewStore(nil),
		queue: &fakeQueue{up: queueUp},
	}
}

func (h harness) submit() SubmitContentUseCase {
	return SubmitContentUseCase{Repository: h.store, Queue: h.queue, Outbox: h.store, Clock: h.store, IDGen: h.store}
}

func (h harness) score() RecordScoreUseCase {
	return RecordScoreUseCase{Repository: h.store, Outbox: h.store, Clock: h.store, IDGen: h.store}
}

func (h harness) decide() DecideContentUseCase {
	return DecideContentUseCase{Repository: h.store, Outbox: h.store, Clock: h.store, IDGen: h.store}
}

func (h harness) appeal() SubmitAppealUseCase {
	return SubmitAppealUseCase{Repository: h.store, Outbox: h.store, Clock: h.store, IDGen: h.store}
}

func (h harness) resolve() ResolveAppealUseCase {
	return ResolveAppealUseCase{Repository: h.store, Outbox: h.store, Clock: h.store, IDGen: h.store}
}

func (h harness) edit() EditContentUseCase {
	return EditContentUseCase{Repository: h.store, Queue: h.queue, Outbox: h.store, Clock: h.store, IDGen: h.store}
}

func submitText(t *testing.T, h harness, submitter string) entities.ContentItem {
	t.Helper()
	item, err := h.submit().Execute(context.Background(), SubmitContentCommand{
		SubmitterID: submitter,
		Kind:        entities.ContentKindText,
		Body:        "hello moderation",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	return item
}

func TestSubmitQueuesScoringJob(t *testing.T) {
	h := newHarness(true)
	item := submitText(t, h, "user-1")

	if item.Status != entities.ContentStatusPending {
		t.Fatalf("expected pending, got %s", item.Status)
	}
	if len(h.queue.jobs) != 1 || h.queue.jobs[0].ContentID != item.ContentID {
		t.Fatalf("expected one scoring job for %s", item.ContentID)
	}
}

func TestSubmitFallsBackToReviewWhenQueueDown(t *testing.T) {
	h := newHarness(false)
	item := submitText(t, h, "user-1")

	if item.Status != entities.ContentStatusUnderReview {
		t.Fatalf("expected under_review fallback, got %s", item.Status)
	}
	open, err := h.store.HasOpenReviewEntry(context.Background(), item.ContentID)
	if err != nil || !open {
		t.Fatalf("expected open review entry, got open=%v err=%v", open, err)
	}
	entries, err := h.store.ListOpenReviewEntries(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("list entries failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Priority != entities.PriorityFirstPass {
		t.Fatalf("expected one first-pass entry, got %+v", entries)
	}
}

func TestSubmitFallsBackWhenEnqueueFails(t *testing.T) {
	h := newHarness(true)
	h.queue.err = errors.New("broker down")
	item := submitText(t, h, "user-1")

	if item.Status != entities.ContentStatusUnderReview {
		t.Fatalf("expected under_review fallback, got %s", item.Status)
	}
}

func TestSubmitValidatesInput(t *testing.T) {
	h := newHarness(true)
	if _, err := h.submit().Execute(context.Background(), SubmitContentCommand{
		SubmitterID: "user-1",
		Kind:        "audio",
		Body:        "x",
	}); !errors.Is(err, domainerrors.ErrUnsupportedKind) {
		t.Fatalf("expected unsupported kind, got %v", err)
	}
	if _, err := h.submit().Execute(context.Background(), SubmitContentCommand{
		SubmitterID: "user-1",
		Kind:        entities.ContentKindImage,
	}); !errors.Is(err, domainerrors.ErrInvalidContentInput) {
		t.Fatalf("expected invalid input for image without url, got %v", err)
	}
}

func TestRecordScoreTransitions(t *testing.T) {
	cases := []struct {
		name      string
		aggregate float64
		status    entities.ContentStatus
	}{
		{name: "low risk auto approves", aggregate: 12, status: entities.ContentStatusApproved},
		{name: "mid band routes to review", aggregate: 65, status: entities.ContentStatusUnderReview},
		{name: "high risk auto rejects", aggregate: 91, status: entities.ContentStatusRejected},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(true)
			item := submitText(t, h, "user-1")

			if err := h.score().Execute(context.Background(), RecordScoreCommand{
				ContentID: item.ContentID,
				Provider:  "fake",
				Aggregate: tc.aggregate,
			}); err != nil {
				t.Fatalf("record score failed: %v", err)
			}

			got, err := h.store.GetContent(context.Background(), item.ContentID)
			if err != nil {
				t.Fatalf("get content failed: %v", err)
			}
			if got.Status != tc.status {
				t.Fatalf("expected %s, got %s", tc.status, got.Status)
			}
			if tc.status.Terminal() && got.ProcessedAt == nil {
				t.Fatalf("expected processed_at on terminal status")
			}
			if tc.status == entities.ContentStatusUnderReview {
				open, _ := h.store.HasOpenReviewEntry(context.Background(), item.ContentID)
				if !open {
					t.Fatalf("expected review entry for under_review")
				}
			}
		})
	}
}

func TestRecordScoreIsNoopAfterDecision(t *testing.T) {
	h := newHarness(true)
	item := submitText(t, h, "user-1")

	if err := h.decide().Approve(context.Background(), DecideContentCommand{
		ContentID:   item.ContentID,
		ModeratorID: "mod-1",
	}); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if err := h.score().Execute(context.Background(), RecordScoreCommand{
		ContentID: item.ContentID,
		Aggregate: 95,
	}); err != nil {
		t.Fatalf("expected late score to be a no-op, got %v", err)
	}

	got, _ := h.store.GetContent(context.Background(), item.ContentID)
	if got.Status != entities.ContentStatusApproved {
		t.Fatalf("late score must not override decision, got %s", got.Status)
	}
}

func TestDecideRequiresModerator(t *testing.T) {
	h := newHarness(true)
	item := submitText(t, h, "user-1")

	err := h.decide().Reject(context.Background(), DecideContentCommand{ContentID: item.ContentID})
	if !errors.Is(err, domainerrors.ErrUnauthorizedActor) {
		t.Fatalf("expected unauthorized actor, got %v", err)
	}
}

func TestDecideRejectsTerminalContent(t *testing.T) {
	h := newHarness(true)
	item := submitText(t, h, "user-1")

	if err := h.decide().Approve(context.Background(), DecideContentCommand{
		ContentID:   item.ContentID,
		ModeratorID: "mod-1",
	}); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	err := h.decide().Reject(context.Background(), DecideContentCommand{
		ContentID:   item.ContentID,
		ModeratorID: "mod-2",
	})
	if !errors.Is(err, domainerrors.ErrInvalidStateTransition) {
		t.Fatalf("expected invalid state transition, got %v", err)
	}
}

func TestDecideClosesReviewEntry(t *testing.T) {
	h := newHarness(false)
	item := submitText(t, h, "user-1")

	if err := h.decide().Approve(context.Background(), DecideContentCommand{
		ContentID:   item.ContentID,
		ModeratorID: "mod-1",
	}); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	open, _ := h.store.HasOpenReviewEntry(context.Background(), item.ContentID)
	if open {
		t.Fatalf("expected review entry closed after decision")
	}
}

func rejectContent(t *testing.T, h harness, contentID string) {
	t.Helper()
	if err := h.decide().Reject(context.Background(), DecideContentCommand{
		ContentID:   contentID,
		ModeratorID: "mod-1",
		Notes:       "policy violation",
	}); err != nil {
		t.Fatalf("reject failed: %v", err)
	}
}

func TestAppealValidation(t *testing.T) {
	h := newHarness(true)
	item := submitText(t, h, "user-1")

	_, err := h.appeal().Execute(context.Background(), SubmitAppealCommand{
		ContentID:   item.ContentID,
		SubmitterID: "user-1",
		Reason:      "short",
	})
	if !errors.Is(err, domainerrors.ErrAppealReasonTooShort) {
		t.Fatalf("expected reason too short, got %v", err)
	}

	_, err = h.appeal().Execute(context.Background(), SubmitAppealCommand{
		ContentID:   item.ContentID,
		SubmitterID: "user-1",
		Reason:      "this content is clearly fine",
	})
	if !errors.Is(err, domainerrors.ErrInvalidStateTransition) {
		t.Fatalf("expected invalid state transition for non-rejected content, got %v", err)
	}
}

func TestAppealOpensAppealBandEntry(t *testing.T) {
	h := newHarness(true)
	item := submitText(t, h, "user-1")
	rejectContent(t, h, item.ContentID)

	appeal, err := h.appeal().Execute(context.Background(), SubmitAppealCommand{
		ContentID:   item.ContentID,
		SubmitterID: "user-1",
		Reason:      "this content is clearly fine",
	})
	if err != nil {
		t.Fatalf("appeal failed: %v", err)
	}
	if appeal.Status != entities.AppealStatusPending {
		t.Fatalf("expected pending appeal, got %s", appeal.Status)
	}

	entries, err := h.store.ListOpenReviewEntries(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("list entries failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Priority != entities.PriorityAppeal {
		t.Fatalf("expected one appeal-band entry, got %+v", entries)
	}

	_, err = h.appeal().Execute(context.Background(), SubmitAppealCommand{
		ContentID:   item.ContentID,
		SubmitterID: "user-1",
		Reason:      "trying a second appeal now",
	})
	if !errors.Is(err, domainerrors.ErrPendingAppealExists) {
		t.Fatalf("expected pending appeal conflict, got %v", err)
	}
}

func TestResolveAppealApprovedFlipsContent(t *testing.T) {
	h := newHarness(true)
	item := submitText(t, h, "user-1")
	rejectContent(t, h, item.ContentID)

	appeal, err := h.appeal().Execute(context.Background(), SubmitAppealCommand{
		ContentID:   item.ContentID,
		SubmitterID: "user-1",
		Reason:      "this content is clearly fine",
	})
	if err != nil {
		t.Fatalf("appeal failed: %v", err)
	}

	resolved, err := h.resolve().Execute(context.Background(), ResolveAppealCommand{
		AppealID:    appeal.AppealID,
		ModeratorID: "mod-2",
		Decision:    "approved",
		Notes:       "rejection overturned",
	})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if resolved.Status != entities.AppealStatusApproved || resolved.ResolvedAt == nil {
		t.Fatalf("expected approved resolved appeal, got %+v", resolved)
	}

	got, _ := h.store.GetContent(context.Background(), item.ContentID)
	if got.Status != entities.ContentStatusApproved {
		t.Fatalf("expected content approved after upheld appeal, got %s", got.Status)
	}
	open, _ := h.store.HasOpenReviewEntry(context.Background(), item.ContentID)
	if open {
		t.Fatalf("expected appeal review entry closed")
	}

	_, err = h.resolve().Execute(context.Background(), ResolveAppealCommand{
		AppealID:    appeal.AppealID,
		ModeratorID: "mod-2",
		Decision:    "rejected",
	})
	if !errors.Is(err, domainerrors.ErrAppealAlreadyResolved) {
		t.Fatalf("expected already resolved, got %v", err)
	}
}

func TestResolveAppealRejectedKeepsContentRejected(t *testing.T) {
	h := newHarness(true)
	item := submitText(t, h, "user-1")
	rejectContent(t, h, item.ContentID)

	appeal, err := h.appeal().Execute(context.Background(), SubmitAppealCommand{
		ContentID:   item.ContentID,
		SubmitterID: "user-1",
		Reason:      "this content is clearly fine",
	})
	if err != nil {
		t.Fatalf("appeal failed: %v", err)
	}
	if _, err := h.resolve().Execute(context.Background(), ResolveAppealCommand{
		AppealID:    appeal.AppealID,
		ModeratorID: "mod-2",
		Decision:    "rejected",
	}); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	got, _ := h.store.GetContent(context.Background(), item.ContentID)
	if got.Status != entities.ContentStatusRejected {
		t.Fatalf("expected content still rejected, got %s", got.Status)
	}
}

func TestResolveAppealRejectsBadDecision(t *testing.T) {
	h := newHarness(true)
	_, err := h.resolve().Execute(context.Background(), ResolveAppealCommand{
		AppealID:    "whatever",
		ModeratorID: "mod-1",
		Decision:    "maybe",
	})
	if !errors.Is(err, domainerrors.ErrInvalidDecision) {
		t.Fatalf("expected invalid decision, got %v", err)
	}
}

func TestEditRequiresOwnerAndRejectedStatus(t *testing.T) {
	h := newHarness(true)
	item := submitText(t, h, "user-1")

	_, err := h.edit().Execute(context.Background(), EditContentCommand{
		ContentID:   item.ContentID,
		SubmitterID: "user-2",
		Body:        "reworked",
	})
	if !errors.Is(err, domainerrors.ErrNotOwner) {
		t.Fatalf("expected not owner, got %v", err)
	}

	_, err = h.edit().Execute(context.Background(), EditContentCommand{
		ContentID:   item.ContentID,
		SubmitterID: "user-1",
		Body:        "reworked",
	})
	if !errors.Is(err, domainerrors.ErrInvalidStateTransition) {
		t.Fatalf("expected invalid state transition for pending item, got %v", err)
	}
}

func TestEditResetsRejectedContent(t *testing.T) {
	h := newHarness(true)
	item := submitText(t, h, "user-1")
	rejectContent(t, h, item.ContentID)

	if _, err := h.appeal().Execute(context.Background(), SubmitAppealCommand{
		ContentID:   item.ContentID,
		SubmitterID: "user-1",
		Reason:      "this content is clearly fine",
	}); err != nil {
		t.Fatalf("appeal failed: %v", err)
	}

	edited, err := h.edit().Execute(context.Background(), EditContentCommand{
		ContentID:   item.ContentID,
		SubmitterID: "user-1",
		Body:        "a cleaned up version",
	})
	if err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	if edited.Status != entities.ContentStatusPending {
		t.Fatalf("expected pending after edit, got %s", edited.Status)
	}
	if edited.ProcessedAt != nil {
		t.Fatalf("expected processed_at cleared after edit")
	}
	if edited.Body != "a cleaned up version" {
		t.Fatalf("expected replaced body, got %q", edited.Body)
	}

	appeal, found, err := h.store.LatestAppeal(context.Background(), item.ContentID)
	if err != nil || !found {
		t.Fatalf("expected appeal row, found=%v err=%v", found, err)
	}
	if appeal.Status == entities.AppealStatusPending {
		t.Fatalf("expected pending appeal discarded by edit")
	}
	if len(h.queue.jobs) != 2 {
		t.Fatalf("expected re-enqueue after edit, got %d jobs", len(h.queue.jobs))
	}
}
