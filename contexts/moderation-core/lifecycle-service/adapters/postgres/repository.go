package postgresadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"sentinel/contexts/moderation-core/lifecycle-service/domain/entities"
	domainerrors "sentinel/contexts/moderation-core/lifecycle-service/domain/errors"
	"sentinel/contexts/moderation-core/lifecycle-service/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
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

func (r *Repository) CreateContent(ctx context.Context, item entities.ContentItem) error {
	row := contentModelFromEntity(item)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return err
	}
	return nil
}

func (r *Repository) GetContent(ctx context.Context, contentID string) (entities.ContentItem, error) {
	var row contentModel
	err := r.db.WithContext(ctx).
		Where("content_id = ?", strings.TrimSpace(contentID)).
		Where("deleted = ?", false).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.ContentItem{}, domainerrors.ErrContentNotFound
		}
		return entities.ContentItem{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListContentBySubmitter(ctx context.Context, submitterID string, limit int) ([]entities.ContentItem, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []contentModel
	if err := r.db.WithContext(ctx).
		Where("submitter_id = ?", strings.TrimSpace(submitterID)).
		Where("deleted = ?", false).
		Order("submitted_at DESC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]entities.ContentItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

// ApplyStatusChange runs every side effect of a lifecycle transition in one
// transaction, guarded by a compare-and-set on the expected prior status.
func (r *Repository) ApplyStatusChange(ctx context.Context, change ports.StatusChange) error {
	contentID := strings.TrimSpace(change.ContentID)
	now := change.Now.UTC()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"status":     string(change.To),
			"updated_at": now,
		}
		if change.ProcessedAt != nil {
			updates["processed_at"] = change.ProcessedAt.UTC()
		}
		if change.ClearProcessedAt {
			updates["processed_at"] = nil
		}
		if change.ReplacePayload {
			updates["body"] = strings.TrimSpace(change.Body)
			updates["url"] = strings.TrimSpace(change.URL)
		}

		result := tx.Model(&contentModel{}).
			Where("content_id = ?", contentID).
			Where("deleted = ?", false).
			Where("status = ?", string(change.From)).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&contentModel{}).
				Where("content_id = ?", contentID).
				Where("deleted = ?", false).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return domainerrors.ErrContentNotFound
			}
			return domainerrors.ErrDecisionConflict
		}

		if change.Score != nil {
			row := scoreModelFromEntity(*change.Score)
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "score_id"}},
				DoNothing: true,
			}).Create(&row).Error; err != nil {
				return err
			}
		}
		if change.CloseReviewEntries {
			if err := closeReviewEntries(tx, contentID, now); err != nil {
				return err
			}
		}
		if change.DiscardPendingAppeals {
			if err := tx.Model(&appealModel{}).
				Where("content_id = ?", contentID).
				Where("status = ?", string(entities.AppealStatusPending)).
				Updates(map[string]any{
					"status":           string(entities.AppealStatusRejected),
					"resolver_id":      "system",
					"resolution_notes": "superseded by edited resubmission",
					"resolved_at":      now,
				}).Error; err != nil {
				return err
			}
		}
		if change.OpenReviewEntry != nil {
			if err := openReviewEntry(tx, *change.OpenReviewEntry); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *Repository) LatestScore(ctx context.Context, contentID string) (entities.ScoreResult, bool, error) {
	var row scoreModel
	err := r.db.WithContext(ctx).
		Where("content_id = ?", strings.TrimSpace(contentID)).
		Order("created_at DESC").
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.ScoreResult{}, false, nil
		}
		return entities.ScoreResult{}, false, err
	}
	return row.toEntity(), true, nil
}

func (r *Repository) HasOpenReviewEntry(ctx context.Context, contentID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&reviewEntryModel{}).
		Where("content_id = ?", strings.TrimSpace(contentID)).
		Where("completed_at IS NULL").
		Count(&count).
		Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) ListOpenReviewEntries(ctx context.Context, limit int, offset int) ([]ports.ReviewQueueItem, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var entryRows []reviewEntryModel
	if err := r.db.WithContext(ctx).
		Where("completed_at IS NULL").
		Order("priority DESC, added_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&entryRows).
		Error; err != nil {
		return nil, err
	}

	items := make([]ports.ReviewQueueItem, 0, len(entryRows))
	for _, entry := range entryRows {
		item := ports.ReviewQueueItem{
			EntryID:   entry.EntryID,
			ContentID: entry.ContentID,
			Priority:  entry.Priority,
			AddedAt:   entry.AddedAt.UTC(),
		}

		var content contentModel
		if err := r.db.WithContext(ctx).
			Where("content_id = ?", entry.ContentID).
			First(&content).
			Error; err == nil {
			item.Kind = entities.ContentKind(content.Kind)
			item.Status = entities.ContentStatus(content.Status)
			item.SubmitterID = content.SubmitterID
		}

		var score scoreModel
		if err := r.db.WithContext(ctx).
			Where("content_id = ?", entry.ContentID).
			Order("created_at DESC").
			First(&score).
			Error; err == nil {
			aggregate := score.Aggregate
			item.Aggregate = &aggregate
			item.Decision = entities.Decision(score.Decision)
		}
		items = append(items, item)
	}
	return items, nil
}

// CreateAppeal inserts the appeal and opens its review entry atomically. A
// second pending appeal on the same item fails with ErrPendingAppealExists.
func (r *Repository) CreateAppeal(ctx context.Context, appeal entities.Appeal, entry entities.ReviewQueueEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pendingCount int64
		if err := tx.Model(&appealModel{}).
			Where("content_id = ?", strings.TrimSpace(appeal.ContentID)).
			Where("status = ?", string(entities.AppealStatusPending)).
			Count(&pendingCount).
			Error; err != nil {
			return err
		}
		if pendingCount > 0 {
			return domainerrors.ErrPendingAppealExists
		}

		row := appealModelFromEntity(appeal)
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrPendingAppealExists
			}
			return err
		}
		return openReviewEntry(tx, entry)
	})
}

func (r *Repository) GetAppeal(ctx context.Context, appealID string) (entities.Appeal, error) {
	var row appealModel
	err := r.db.WithContext(ctx).
		Where("appeal_id = ?", strings.TrimSpace(appealID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Appeal{}, domainerrors.ErrAppealNotFound
		}
		return entities.Appeal{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) LatestAppeal(ctx context.Context, contentID string) (entities.Appeal, bool, error) {
	var row appealModel
	err := r.db.WithContext(ctx).
		Where("content_id = ?", strings.TrimSpace(contentID)).
		Order("created_at DESC").
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Appeal{}, false, nil
		}
		return entities.Appeal{}, false, err
	}
	return row.toEntity(), true, nil
}

// ResolveAppeal closes a pending appeal and, when upheld, flips the owning
// content to approved inside the same transaction.
func (r *Repository) ResolveAppeal(ctx context.Context, resolution ports.AppealResolution) (entities.Appeal, error) {
	now := resolution.Now.UTC()
	var resolved entities.Appeal

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row appealModel
		if err := tx.
			Where("appeal_id = ?", strings.TrimSpace(resolution.AppealID)).
			First(&row).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrAppealNotFound
			}
			return err
		}

		result := tx.Model(&appealModel{}).
			Where("appeal_id = ?", row.AppealID).
			Where("status = ?", string(entities.AppealStatusPending)).
			Updates(map[string]any{
				"status":           string(resolution.Status),
				"resolver_id":      strings.TrimSpace(resolution.ResolverID),
				"resolution_notes": strings.TrimSpace(resolution.Notes),
				"resolved_at":      now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrAppealAlreadyResolved
		}

		if resolution.ApproveContent {
			contentResult := tx.Model(&contentModel{}).
				Where("content_id = ?", row.ContentID).
				Where("deleted = ?", false).
				Updates(map[string]any{
					"status":       string(entities.ContentStatusApproved),
					"processed_at": now,
					"updated_at":   now,
				})
			if contentResult.Error != nil {
				return contentResult.Error
			}
			if contentResult.RowsAffected == 0 {
				return domainerrors.ErrContentNotFound
			}
		}
		if err := closeReviewEntries(tx, row.ContentID, now); err != nil {
			return err
		}

		row.Status = string(resolution.Status)
		row.ResolverID = strings.TrimSpace(resolution.ResolverID)
		row.ResolutionNotes = strings.TrimSpace(resolution.Notes)
		row.ResolvedAt = &now
		resolved = row.toEntity()
		return nil
	})
	if err != nil {
		return entities.Appeal{}, err
	}
	return resolved, nil
}

func (r *Repository) DashboardStats(ctx context.Context) (ports.DashboardStats, error) {
	stats := ports.DashboardStats{}

	type statusCount struct {
		Status string
		Count  int
	}
	var statusCounts []statusCount
	if err := r.db.WithContext(ctx).
		Model(&contentModel{}).
		Select("status, COUNT(*) AS count").
		Where("deleted = ?", false).
		Group("status").
		Scan(&statusCounts).
		Error; err != nil {
		return ports.DashboardStats{}, err
	}
	for _, row := range statusCounts {
		stats.TotalSubmissions += row.Count
		switch entities.ContentStatus(row.Status) {
		case entities.ContentStatusPending:
			stats.PendingCount = row.Count
		case entities.ContentStatusUnderReview:
			stats.UnderReviewCount = row.Count
		case entities.ContentStatusApproved:
			stats.ApprovedCount = row.Count
		case entities.ContentStatusRejected:
			stats.RejectedCount = row.Count
		}
	}

	type kindCount struct {
		Kind     string
		Count    int
		Approved int
		Rejected int
	}
	var kindCounts []kindCount
	if err := r.db.WithContext(ctx).
		Model(&contentModel{}).
		Select(
			"kind, COUNT(*) AS count, "+
				"COUNT(*) FILTER (WHERE status = ?) AS approved, "+
				"COUNT(*) FILTER (WHERE status = ?) AS rejected",
			string(entities.ContentStatusApproved),
			string(entities.ContentStatusRejected),
		).
		Where("deleted = ?", false).
		Group("kind").
		Order("kind ASC").
		Scan(&kindCounts).
		Error; err != nil {
		return ports.DashboardStats{}, err
	}
	for _, row := range kindCounts {
		stats.ByKind = append(stats.ByKind, ports.KindStats{
			Kind:     entities.ContentKind(row.Kind),
			Count:    row.Count,
			Approved: row.Approved,
			Rejected: row.Rejected,
		})
	}

	var appealCounts []statusCount
	if err := r.db.WithContext(ctx).
		Model(&appealModel{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&appealCounts).
		Error; err != nil {
		return ports.DashboardStats{}, err
	}
	for _, row := range appealCounts {
		stats.TotalAppeals += row.Count
		switch entities.AppealStatus(row.Status) {
		case entities.AppealStatusPending:
			stats.PendingAppeals = row.Count
		case entities.AppealStatusApproved:
			stats.ApprovedAppeals = row.Count
		case entities.AppealStatusRejected:
			stats.RejectedAppeals = row.Count
		}
	}
	return stats, nil
}

func (r *Repository) QueueStats(ctx context.Context) (ports.QueueStats, error) {
	stats := ports.QueueStats{}

	var pending int64
	if err := r.db.WithContext(ctx).
		Model(&contentModel{}).
		Where("deleted = ?", false).
		Where("status = ?", string(entities.ContentStatusPending)).
		Count(&pending).
		Error; err != nil {
		return ports.QueueStats{}, err
	}
	var review int64
	if err := r.db.WithContext(ctx).
		Model(&contentModel{}).
		Where("deleted = ?", false).
		Where("status = ?", string(entities.ContentStatusUnderReview)).
		Count(&review).
		Error; err != nil {
		return ports.QueueStats{}, err
	}
	stats.PendingCount = int(pending)
	stats.ReviewCount = int(review)
	return stats, nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	row := outboxModel{
		OutboxID:     strings.TrimSpace(envelope.EventID),
		EventType:    strings.TrimSpace(envelope.EventType),
		PartitionKey: strings.TrimSpace(envelope.PartitionKey),
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	if row.OutboxID == "" {
		row.OutboxID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}

	createResult := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "outbox_id"}},
			DoNothing: true,
		}).
		Create(&row)
	if createResult.Error != nil {
		return createResult.Error
	}
	if createResult.RowsAffected > 0 {
		return nil
	}

	var existing outboxModel
	if err := r.db.WithContext(ctx).
		Select("payload").
		Where("outbox_id = ?", row.OutboxID).
		First(&existing).
		Error; err != nil {
		return err
	}
	if !bytes.Equal(existing.Payload, row.Payload) {
		return domainerrors.ErrDecisionConflict
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}

	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:  row.OutboxID,
			EventType: row.EventType,
			Payload:   append([]byte(nil), row.Payload...),
			CreatedAt: row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrContentNotFound
	}
	return nil
}

func openReviewEntry(tx *gorm.DB, entry entities.ReviewQueueEntry) error {
	var openCount int64
	if err := tx.Model(&reviewEntryModel{}).
		Where("content_id = ?", strings.TrimSpace(entry.ContentID)).
		Where("completed_at IS NULL").
		Count(&openCount).
		Error; err != nil {
		return err
	}
	if openCount > 0 {
		return nil
	}
	row := reviewEntryModel{
		EntryID:   strings.TrimSpace(entry.EntryID),
		ContentID: strings.TrimSpace(entry.ContentID),
		Priority:  entry.Priority,
		AddedAt:   entry.AddedAt.UTC(),
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_id"}},
		DoNothing: true,
	}).Create(&row).Error
}

func closeReviewEntries(tx *gorm.DB, contentID string, now time.Time) error {
	return tx.Model(&reviewEntryModel{}).
		Where("content_id = ?", strings.TrimSpace(contentID)).
		Where("completed_at IS NULL").
		Update("completed_at", now).
		Error
}

type contentModel struct {
	ContentID   string     `gorm:"column:content_id;primaryKey"`
	Kind        string     `gorm:"column:kind"`
	Body        string     `gorm:"column:body"`
	URL         string     `gorm:"column:url"`
	SubmitterID string     `gorm:"column:submitter_id"`
	Status      string     `gorm:"column:status"`
	SubmittedAt time.Time  `gorm:"column:submitted_at"`
	ProcessedAt *time.Time `gorm:"column:processed_at"`
	Deleted     bool       `gorm:"column:deleted"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}

func (contentModel) TableName() string {
	return "content_submissions"
}

func contentModelFromEntity(item entities.ContentItem) contentModel {
	return contentModel{
		ContentID:   strings.TrimSpace(item.ContentID),
		Kind:        string(item.Kind),
		Body:        strings.TrimSpace(item.Body),
		URL:         strings.TrimSpace(item.URL),
		SubmitterID: strings.TrimSpace(item.SubmitterID),
		Status:      string(item.Status),
		SubmittedAt: item.SubmittedAt.UTC(),
		ProcessedAt: normalizeOptionalTime(item.ProcessedAt),
		Deleted:     item.Deleted,
		UpdatedAt:   item.UpdatedAt.UTC(),
	}
}

func (m contentModel) toEntity() entities.ContentItem {
	return entities.ContentItem{
		ContentID:   m.ContentID,
		Kind:        entities.ContentKind(m.Kind),
		Body:        m.Body,
		URL:         m.URL,
		SubmitterID: m.SubmitterID,
		Status:      entities.ContentStatus(m.Status),
		SubmittedAt: m.SubmittedAt.UTC(),
		ProcessedAt: normalizeOptionalTime(m.ProcessedAt),
		Deleted:     m.Deleted,
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

type scoreModel struct {
	ScoreID     string    `gorm:"column:score_id;primaryKey"`
	ContentID   string    `gorm:"column:content_id"`
	Provider    string    `gorm:"column:provider"`
	Toxicity    float64   `gorm:"column:toxicity"`
	NSFW        float64   `gorm:"column:nsfw"`
	Spam        float64   `gorm:"column:spam"`
	HateSpeech  float64   `gorm:"column:hate_speech"`
	Aggregate   float64   `gorm:"column:aggregate"`
	Decision    string    `gorm:"column:decision"`
	RawResponse []byte    `gorm:"column:raw_response"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (scoreModel) TableName() string {
	return "moderation_results"
}

func scoreModelFromEntity(score entities.ScoreResult) scoreModel {
	return scoreModel{
		ScoreID:     strings.TrimSpace(score.ScoreID),
		ContentID:   strings.TrimSpace(score.ContentID),
		Provider:    strings.TrimSpace(score.Provider),
		Toxicity:    score.Toxicity,
		NSFW:        score.NSFW,
		Spam:        score.Spam,
		HateSpeech:  score.HateSpeech,
		Aggregate:   score.Aggregate,
		Decision:    string(score.Decision),
		RawResponse: append([]byte(nil), score.RawResponse...),
		CreatedAt:   score.CreatedAt.UTC(),
	}
}

func (m scoreModel) toEntity() entities.ScoreResult {
	return entities.ScoreResult{
		ScoreID:     m.ScoreID,
		ContentID:   m.ContentID,
		Provider:    m.Provider,
		Toxicity:    m.Toxicity,
		NSFW:        m.NSFW,
		Spam:        m.Spam,
		HateSpeech:  m.HateSpeech,
		Aggregate:   m.Aggregate,
		Decision:    entities.Decision(m.Decision),
		RawResponse: append([]byte(nil), m.RawResponse...),
		CreatedAt:   m.CreatedAt.UTC(),
	}
}

type reviewEntryModel struct {
	EntryID     string     `gorm:"column:entry_id;primaryKey"`
	ContentID   string     `gorm:"column:content_id"`
	Priority    int        `gorm:"column:priority"`
	AddedAt     time.Time  `gorm:"column:added_at"`
	CompletedAt *time.Time `gorm:"column:completed_at"`
}

func (reviewEntryModel) TableName() string {
	return "review_queue"
}

type appealModel struct {
	AppealID        string     `gorm:"column:appeal_id;primaryKey"`
	ContentID       string     `gorm:"column:content_id"`
	SubmitterID     string     `gorm:"column:submitter_id"`
	Reason          string     `gorm:"column:reason"`
	Status          string     `gorm:"column:status"`
	ResolverID      string     `gorm:"column:resolver_id"`
	ResolutionNotes string     `gorm:"column:resolution_notes"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	ResolvedAt      *time.Time `gorm:"column:resolved_at"`
}

func (appealModel) TableName() string {
	return "appeals"
}

func appealModelFromEntity(appeal entities.Appeal) appealModel {
	return appealModel{
		AppealID:        strings.TrimSpace(appeal.AppealID),
		ContentID:       strings.TrimSpace(appeal.ContentID),
		SubmitterID:     strings.TrimSpace(appeal.SubmitterID),
		Reason:          strings.TrimSpace(appeal.Reason),
		Status:          string(appeal.Status),
		ResolverID:      strings.TrimSpace(appeal.ResolverID),
		ResolutionNotes: strings.TrimSpace(appeal.ResolutionNotes),
		CreatedAt:       appeal.CreatedAt.UTC(),
		ResolvedAt:      normalizeOptionalTime(appeal.ResolvedAt),
	}
}

func (m appealModel) toEntity() entities.Appeal {
	return entities.Appeal{
		AppealID:        m.AppealID,
		ContentID:       m.ContentID,
		SubmitterID:     m.SubmitterID,
		Reason:          m.Reason,
		Status:          entities.AppealStatus(m.Status),
		ResolverID:      m.ResolverID,
		ResolutionNotes: m.ResolutionNotes,
		CreatedAt:       m.CreatedAt.UTC(),
		ResolvedAt:      normalizeOptionalTime(m.ResolvedAt),
	}
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "moderation_outbox"
}

func normalizeOptionalTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	timestamp := value.UTC()
	return &timestamp
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
