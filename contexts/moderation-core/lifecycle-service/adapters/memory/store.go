package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"sentinel/contexts/moderation-core/lifecycle-service/domain/entities"
	domainerrors "sentinel/contexts/moderation-core/lifecycle-service/domain/errors"
	"sentinel/contexts/moderation-core/lifecycle-service/ports"

	"github.com/google/uuid"
)

// Store is the in-memory repository used by tests and local runs. The single
// mutex makes every coarse repository operation atomic, matching the
// transactional semantics of the postgres adapter.
type Store struct {
	mu sync.RWMutex

	content map[string]entities.ContentItem
	scores  []entities.ScoreResult
	entries []entities.ReviewQueueEntry
	appeals map[string]entities.Appeal

	outbox      []outboxRow
	outboxIndex map[string]int
}

type outboxRow struct {
	message   ports.OutboxMessage
	published bool
}

func NewStore(seed []entities.ContentItem) *Store {
	content := make(map[string]entities.ContentItem, len(seed))
	for _, item := range seed {
		content[item.ContentID] = item
	}
	return &Store{
		content:     content,
		appeals:     make(map[string]entities.Appeal),
		outboxIndex: make(map[string]int),
	}
}

func (s *Store) CreateContent(_ context.Context, item entities.ContentItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.content[item.ContentID] = item
	return nil
}

func (s *Store) GetContent(_ context.Context, contentID string) (entities.ContentItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.content[strings.TrimSpace(contentID)]
	if !exists || item.Deleted {
		return entities.ContentItem{}, domainerrors.ErrContentNotFound
	}
	return item, nil
}

func (s *Store) ListContentBySubmitter(_ context.Context, submitterID string, limit int) ([]entities.ContentItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.ContentItem, 0)
	for _, item := range s.content {
		if item.Deleted || item.SubmitterID != submitterID {
			continue
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].SubmittedAt.After(items[j].SubmittedAt)
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) ApplyStatusChange(_ context.Context, change ports.StatusChange) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, exists := s.content[change.ContentID]
	if !exists || item.Deleted {
		return domainerrors.ErrContentNotFound
	}
	if item.Status != change.From {
		return domainerrors.ErrDecisionConflict
	}

	item.Status = change.To
	if change.ProcessedAt != nil {
		processed := change.ProcessedAt.UTC()
		item.ProcessedAt = &processed
	}
	if change.ClearProcessedAt {
		item.ProcessedAt = nil
	}
	if change.ReplacePayload {
		item.Body = change.Body
		item.URL = change.URL
	}
	item.UpdatedAt = change.Now.UTC()
	s.content[change.ContentID] = item

	if change.Score != nil {
		s.scores = append(s.scores, *change.Score)
	}
	if change.CloseReviewEntries {
		s.closeEntriesLocked(change.ContentID, change.Now.UTC())
	}
	if change.DiscardPendingAppeals {
		s.discardPendingAppealsLocked(change.ContentID, change.Now.UTC())
	}
	if change.OpenReviewEntry != nil && !s.hasOpenEntryLocked(change.ContentID) {
		s.entries = append(s.entries, *change.OpenReviewEntry)
	}
	return nil
}

func (s *Store) LatestScore(_ context.Context, contentID string) (entities.ScoreResult, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest entities.ScoreResult
	found := false
	for _, score := range s.scores {
		if score.ContentID != contentID {
			continue
		}
		if !found || score.CreatedAt.After(latest.CreatedAt) {
			latest = score
			found = true
		}
	}
	return latest, found, nil
}

func (s *Store) HasOpenReviewEntry(_ context.Context, contentID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.hasOpenEntryLocked(contentID), nil
}

func (s *Store) ListOpenReviewEntries(_ context.Context, limit int, offset int) ([]ports.ReviewQueueItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	open := make([]entities.ReviewQueueEntry, 0)
	for _, entry := range s.entries {
		if entry.Open() {
			open = append(open, entry)
		}
	}
	sort.SliceStable(open, func(i, j int) bool {
		if open[i].Priority != open[j].Priority {
			return open[i].Priority > open[j].Priority
		}
		return open[i].AddedAt.Before(open[j].AddedAt)
	})

	if offset >= len(open) {
		return []ports.ReviewQueueItem{}, nil
	}
	open = open[offset:]
	if limit > 0 && len(open) > limit {
		open = open[:limit]
	}

	items := make([]ports.ReviewQueueItem, 0, len(open))
	for _, entry := range open {
		row := ports.ReviewQueueItem{
			EntryID:   entry.EntryID,
			ContentID: entry.ContentID,
			Priority:  entry.Priority,
			AddedAt:   entry.AddedAt,
		}
		if item, exists := s.content[entry.ContentID]; exists {
			row.Kind = item.Kind
			row.Status = item.Status
			row.SubmitterID = item.SubmitterID
		}
		var latest entities.ScoreResult
		scoreFound := false
		for _, score := range s.scores {
			if score.ContentID != entry.ContentID {
				continue
			}
			if !scoreFound || score.CreatedAt.After(latest.CreatedAt) {
				latest = score
				scoreFound = true
			}
		}
		if scoreFound {
			aggregate := latest.Aggregate
			row.Aggregate = &aggregate
			row.Decision = latest.Decision
		}
		items = append(items, row)
	}
	return items, nil
}

func (s *Store) CreateAppeal(_ context.Context, appeal entities.Appeal, entry entities.ReviewQueueEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.appeals {
		if existing.ContentID == appeal.ContentID && existing.Status == entities.AppealStatusPending {
			return domainerrors.ErrPendingAppealExists
		}
	}
	s.appeals[appeal.AppealID] = appeal
	if !s.hasOpenEntryLocked(appeal.ContentID) {
		s.entries = append(s.entries, entry)
	}
	return nil
}

func (s *Store) GetAppeal(_ context.Context, appealID string) (entities.Appeal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	appeal, exists := s.appeals[strings.TrimSpace(appealID)]
	if !exists {
		return entities.Appeal{}, domainerrors.ErrAppealNotFound
	}
	return appeal, nil
}

func (s *Store) LatestAppeal(_ context.Context, contentID string) (entities.Appeal, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest entities.Appeal
	found := false
	for _, appeal := range s.appeals {
		if appeal.ContentID != contentID {
			continue
		}
		if !found || appeal.CreatedAt.After(latest.CreatedAt) {
			latest = appeal
			found = true
		}
	}
	return latest, found, nil
}

func (s *Store) ResolveAppeal(_ context.Context, resolution ports.AppealResolution) (entities.Appeal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	appeal, exists := s.appeals[resolution.AppealID]
	if !exists {
		return entities.Appeal{}, domainerrors.ErrAppealNotFound
	}
	if appeal.Status != entities.AppealStatusPending {
		return entities.Appeal{}, domainerrors.ErrAppealAlreadyResolved
	}

	now := resolution.Now.UTC()
	appeal.Status = resolution.Status
	appeal.ResolverID = resolution.ResolverID
	appeal.ResolutionNotes = resolution.Notes
	appeal.ResolvedAt = &now
	s.appeals[appeal.AppealID] = appeal

	if resolution.ApproveContent {
		item, exists := s.content[appeal.ContentID]
		if !exists {
			return entities.Appeal{}, domainerrors.ErrContentNotFound
		}
		item.Status = entities.ContentStatusApproved
		item.ProcessedAt = &now
		item.UpdatedAt = now
		s.content[appeal.ContentID] = item
	}
	s.closeEntriesLocked(appeal.ContentID, now)
	return appeal, nil
}

func (s *Store) DashboardStats(_ context.Context) (ports.DashboardStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := ports.DashboardStats{}
	byKind := make(map[entities.ContentKind]*ports.KindStats)
	for _, item := range s.content {
		if item.Deleted {
			continue
		}
		stats.TotalSubmissions++
		switch item.Status {
		case entities.ContentStatusPending:
			stats.PendingCount++
		case entities.ContentStatusUnderReview:
			stats.UnderReviewCount++
		case entities.ContentStatusApproved:
			stats.ApprovedCount++
		case entities.ContentStatusRejected:
			stats.RejectedCount++
		}
		kind, exists := byKind[item.Kind]
		if !exists {
			kind = &ports.KindStats{Kind: item.Kind}
			byKind[item.Kind] = kind
		}
		kind.Count++
		if item.Status == entities.ContentStatusApproved {
			kind.Approved++
		}
		if item.Status == entities.ContentStatusRejected {
			kind.Rejected++
		}
	}
	for _, appeal := range s.appeals {
		stats.TotalAppeals++
		switch appeal.Status {
		case entities.AppealStatusPending:
			stats.PendingAppeals++
		case entities.AppealStatusApproved:
			stats.ApprovedAppeals++
		case entities.AppealStatusRejected:
			stats.RejectedAppeals++
		}
	}

	kinds := make([]ports.KindStats, 0, len(byKind))
	for _, kind := range byKind {
		kinds = append(kinds, *kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i].Kind < kinds[j].Kind })
	stats.ByKind = kinds
	return stats, nil
}

func (s *Store) QueueStats(_ context.Context) (ports.QueueStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := ports.QueueStats{}
	for _, item := range s.content {
		if item.Deleted {
			continue
		}
		switch item.Status {
		case entities.ContentStatusPending:
			stats.PendingCount++
		case entities.ContentStatusUnderReview:
			stats.ReviewCount++
		}
	}
	return stats, nil
}

func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	if _, exists := s.outboxIndex[envelope.EventID]; exists {
		return nil
	}
	s.outboxIndex[envelope.EventID] = len(s.outbox)
	s.outbox = append(s.outbox, outboxRow{
		message: ports.OutboxMessage{
			OutboxID:  envelope.EventID,
			EventType: envelope.EventType,
			Payload:   payload,
			CreatedAt: envelope.OccurredAt,
		},
	})
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	messages := make([]ports.OutboxMessage, 0)
	for _, row := range s.outbox {
		if row.published {
			continue
		}
		messages = append(messages, row.message)
		if len(messages) >= limit {
			break
		}
	}
	return messages, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	index, exists := s.outboxIndex[outboxID]
	if !exists {
		return domainerrors.ErrContentNotFound
	}
	s.outbox[index].published = true
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (s *Store) hasOpenEntryLocked(contentID string) bool {
	for _, entry := range s.entries {
		if entry.ContentID == contentID && entry.Open() {
			return true
		}
	}
	return false
}

func (s *Store) closeEntriesLocked(contentID string, now time.Time) {
	for i, entry := range s.entries {
		if entry.ContentID == contentID && entry.Open() {
			completed := now
			s.entries[i].CompletedAt = &completed
		}
	}
}

func (s *Store) discardPendingAppealsLocked(contentID string, now time.Time) {
	for id, appeal := range s.appeals {
		if appeal.ContentID == contentID && appeal.Status == entities.AppealStatusPending {
			appeal.Status = entities.AppealStatusRejected
			appeal.ResolverID = "system"
			appeal.ResolutionNotes = "superseded by edited resubmission"
			resolved := now
			appeal.ResolvedAt = &resolved
			s.appeals[id] = appeal
		}
	}
}
