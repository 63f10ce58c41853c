package queries

import (
	"context"
	"log/slog"
	"strings"

	"sentinel/contexts/moderation-core/lifecycle-service/domain/entities"
	"sentinel/contexts/moderation-core/lifecycle-service/ports"
)

type QueryUseCase struct {
	Repository ports.Repository
	Logger     *slog.Logger
}

// ContentStatusView is a content item joined with its latest score and latest
// appeal, the shape the submitter-facing status endpoint returns.
type ContentStatusView struct {
	Item         entities.ContentItem
	LatestScore  *entities.ScoreResult
	LatestAppeal *entities.Appeal
}

func (uc QueryUseCase) GetContentStatus(ctx context.Context, contentID string) (ContentStatusView, error) {
	item, err := uc.Repository.GetContent(ctx, strings.TrimSpace(contentID))
	if err != nil {
		return ContentStatusView{}, err
	}
	view := ContentStatusView{Item: item}

	if score, ok, err := uc.Repository.LatestScore(ctx, item.ContentID); err != nil {
		return ContentStatusView{}, err
	} else if ok {
		view.LatestScore = &score
	}
	if appeal, ok, err := uc.Repository.LatestAppeal(ctx, item.ContentID); err != nil {
		return ContentStatusView{}, err
	} else if ok {
		view.LatestAppeal = &appeal
	}
	return view, nil
}

func (uc QueryUseCase) ListMySubmissions(ctx context.Context, submitterID string, limit int) ([]ContentStatusView, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	items, err := uc.Repository.ListContentBySubmitter(ctx, strings.TrimSpace(submitterID), limit)
	if err != nil {
		return nil, err
	}

	views := make([]ContentStatusView, 0, len(items))
	for _, item := range items {
		view := ContentStatusView{Item: item}
		if appeal, ok, err := uc.Repository.LatestAppeal(ctx, item.ContentID); err != nil {
			return nil, err
		} else if ok {
			view.LatestAppeal = &appeal
		}
		views = append(views, view)
	}
	return views, nil
}

// ListReviewQueue serves the moderator worklist ordered by priority
// descending, arrival ascending, so appeal-band entries always surface first.
func (uc QueryUseCase) ListReviewQueue(ctx context.Context, limit int, offset int) ([]ports.ReviewQueueItem, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return uc.Repository.ListOpenReviewEntries(ctx, limit, offset)
}

func (uc QueryUseCase) GetAppeal(ctx context.Context, appealID string) (entities.Appeal, error) {
	return uc.Repository.GetAppeal(ctx, strings.TrimSpace(appealID))
}

func (uc QueryUseCase) DashboardStats(ctx context.Context) (ports.DashboardStats, error) {
	return uc.Repository.DashboardStats(ctx)
}

func (uc QueryUseCase) QueueStats(ctx context.Context) (ports.QueueStats, error) {
	return uc.Repository.QueueStats(ctx)
}
