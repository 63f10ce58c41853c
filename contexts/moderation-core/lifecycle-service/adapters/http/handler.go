package httpadapter

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"sentinel/contexts/moderation-core/lifecycle-service/application/commands"
	"sentinel/contexts/moderation-core/lifecycle-service/application/queries"
	"sentinel/contexts/moderation-core/lifecycle-service/domain/entities"
	"sentinel/contexts/moderation-core/lifecycle-service/ports"
	httptransport "sentinel/contexts/moderation-core/lifecycle-service/transport/http"
)

type Handler struct {
	Submit  commands.SubmitContentUseCase
	Edit    commands.EditContentUseCase
	Decide  commands.DecideContentUseCase
	Appeal  commands.SubmitAppealUseCase
	Resolve commands.ResolveAppealUseCase
	Queries queries.QueryUseCase
	Logger  *slog.Logger
}

func (h Handler) SubmitHandler(ctx context.Context, submitterID string, req httptransport.SubmitContentRequest) (httptransport.ContentResponse, error) {
	item, err := h.Submit.Execute(ctx, commands.SubmitContentCommand{
		SubmitterID: submitterID,
		Kind:        entities.ContentKind(strings.TrimSpace(strings.ToLower(req.Kind))),
		Body:        req.Body,
		URL:         req.URL,
	})
	if err != nil {
		return httptransport.ContentResponse{}, err
	}
	return httptransport.ContentResponse{
		Status:    "success",
		Data:      mapContentData(item),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// BatchSubmitHandler accepts each item independently so one invalid entry
// does not sink the whole batch.
func (h Handler) BatchSubmitHandler(ctx context.Context, submitterID string, req httptransport.BatchSubmitRequest) httptransport.BatchSubmitResponse {
	resp := httptransport.BatchSubmitResponse{Status: "success", Timestamp: time.Now().UTC().Format(time.RFC3339)}
	resp.Data.Accepted = make([]httptransport.ContentData, 0, len(req.Items))
	resp.Data.Failed = make([]struct {
		Index int    `json:"index"`
		Error string `json:"error"`
	}, 0)

	for index, entry := range req.Items {
		item, err := h.Submit.Execute(ctx, commands.SubmitContentCommand{
			SubmitterID: submitterID,
			Kind:        entities.ContentKind(strings.TrimSpace(strings.ToLower(entry.Kind))),
			Body:        entry.Body,
			URL:         entry.URL,
		})
		if err != nil {
			resp.Data.Failed = append(resp.Data.Failed, struct {
				Index int    `json:"index"`
				Error string `json:"error"`
			}{Index: index, Error: err.Error()})
			continue
		}
		resp.Data.Accepted = append(resp.Data.Accepted, mapContentData(item))
	}
	return resp
}

func (h Handler) EditHandler(ctx context.Context, contentID string, submitterID string, req httptransport.EditContentRequest) (httptransport.ContentResponse, error) {
	item, err := h.Edit.Execute(ctx, commands.EditContentCommand{
		ContentID:   contentID,
		SubmitterID: submitterID,
		Body:        req.Body,
		URL:         req.URL,
	})
	if err != nil {
		return httptransport.ContentResponse{}, err
	}
	return httptransport.ContentResponse{
		Status:    "success",
		Data:      mapContentData(item),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func (h Handler) StatusHandler(ctx context.Context, contentID string) (httptransport.ContentStatusResponse, error) {
	view, err := h.Queries.GetContentStatus(ctx, contentID)
	if err != nil {
		return httptransport.ContentStatusResponse{}, err
	}
	return httptransport.ContentStatusResponse{
		Status:    "success",
		Data:      mapContentStatusData(view),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func (h Handler) MySubmissionsHandler(ctx context.Context, submitterID string, limitRaw string) (httptransport.SubmissionListResponse, error) {
	limit := 0
	if parsed, err := strconv.Atoi(strings.TrimSpace(limitRaw)); err == nil {
		limit = parsed
	}
	views, err := h.Queries.ListMySubmissions(ctx, submitterID, limit)
	if err != nil {
		return httptransport.SubmissionListResponse{}, err
	}
	resp := httptransport.SubmissionListResponse{Status: "success", Timestamp: time.Now().UTC().Format(time.RFC3339)}
	resp.Data.Items = make([]httptransport.ContentStatusData, 0, len(views))
	for _, view := range views {
		resp.Data.Items = append(resp.Data.Items, mapContentStatusData(view))
	}
	return resp, nil
}

func (h Handler) ReviewQueueHandler(ctx context.Context, limitRaw string, offsetRaw string) (httptransport.ReviewQueueResponse, error) {
	limit := 0
	offset := 0
	if parsed, err := strconv.Atoi(strings.TrimSpace(limitRaw)); err == nil {
		limit = parsed
	}
	if parsed, err := strconv.Atoi(strings.TrimSpace(offsetRaw)); err == nil {
		offset = parsed
	}
	items, err := h.Queries.ListReviewQueue(ctx, limit, offset)
	if err != nil {
		return httptransport.ReviewQueueResponse{}, err
	}
	resp := httptransport.ReviewQueueResponse{Status: "success", Timestamp: time.Now().UTC().Format(time.RFC3339)}
	resp.Data.Items = make([]httptransport.ReviewQueueItemData, 0, len(items))
	for _, item := range items {
		resp.Data.Items = append(resp.Data.Items, mapReviewQueueItem(item))
	}
	return resp, nil
}

func (h Handler) ApproveHandler(ctx context.Context, contentID string, moderatorID string, req httptransport.DecisionRequest) (httptransport.ContentStatusResponse, error) {
	if err := h.Decide.Approve(ctx, commands.DecideContentCommand{
		ContentID:   contentID,
		ModeratorID: moderatorID,
		Notes:       req.Notes,
	}); err != nil {
		return httptransport.ContentStatusResponse{}, err
	}
	return h.StatusHandler(ctx, contentID)
}

func (h Handler) RejectHandler(ctx context.Context, contentID string, moderatorID string, req httptransport.DecisionRequest) (httptransport.ContentStatusResponse, error) {
	if err := h.Decide.Reject(ctx, commands.DecideContentCommand{
		ContentID:   contentID,
		ModeratorID: moderatorID,
		Notes:       req.Notes,
	}); err != nil {
		return httptransport.ContentStatusResponse{}, err
	}
	return h.StatusHandler(ctx, contentID)
}

func (h Handler) SubmitAppealHandler(ctx context.Context, submitterID string, req httptransport.SubmitAppealRequest) (httptransport.AppealResponse, error) {
	appeal, err := h.Appeal.Execute(ctx, commands.SubmitAppealCommand{
		ContentID:   req.ContentID,
		SubmitterID: submitterID,
		Reason:      req.Reason,
	})
	if err != nil {
		return httptransport.AppealResponse{}, err
	}
	return httptransport.AppealResponse{
		Status:    "success",
		Data:      mapAppealData(appeal),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func (h Handler) GetAppealHandler(ctx context.Context, appealID string) (httptransport.AppealResponse, error) {
	appeal, err := h.Queries.GetAppeal(ctx, appealID)
	if err != nil {
		return httptransport.AppealResponse{}, err
	}
	return httptransport.AppealResponse{
		Status:    "success",
		Data:      mapAppealData(appeal),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func (h Handler) ResolveAppealHandler(ctx context.Context, appealID string, moderatorID string, req httptransport.ResolveAppealRequest) (httptransport.AppealResponse, error) {
	appeal, err := h.Resolve.Execute(ctx, commands.ResolveAppealCommand{
		AppealID:    appealID,
		ModeratorID: moderatorID,
		Decision:    req.Decision,
		Notes:       req.Notes,
	})
	if err != nil {
		return httptransport.AppealResponse{}, err
	}
	return httptransport.AppealResponse{
		Status:    "success",
		Data:      mapAppealData(appeal),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func (h Handler) DashboardHandler(ctx context.Context) (httptransport.DashboardResponse, error) {
	stats, err := h.Queries.DashboardStats(ctx)
	if err != nil {
		return httptransport.DashboardResponse{}, err
	}
	resp := httptransport.DashboardResponse{Status: "success", Timestamp: time.Now().UTC().Format(time.RFC3339)}
	resp.Data.TotalSubmissions = stats.TotalSubmissions
	resp.Data.PendingCount = stats.PendingCount
	resp.Data.UnderReviewCount = stats.UnderReviewCount
	resp.Data.ApprovedCount = stats.ApprovedCount
	resp.Data.RejectedCount = stats.RejectedCount
	resp.Data.TotalAppeals = stats.TotalAppeals
	resp.Data.PendingAppeals = stats.PendingAppeals
	resp.Data.ApprovedAppeals = stats.ApprovedAppeals
	resp.Data.RejectedAppeals = stats.RejectedAppeals
	resp.Data.ByKind = make([]httptransport.KindStatsData, 0, len(stats.ByKind))
	for _, kind := range stats.ByKind {
		resp.Data.ByKind = append(resp.Data.ByKind, httptransport.KindStatsData{
			Kind:     string(kind.Kind),
			Count:    kind.Count,
			Approved: kind.Approved,
			Rejected: kind.Rejected,
		})
	}
	return resp, nil
}

func (h Handler) QueueStatsHandler(ctx context.Context) (httptransport.QueueStatsResponse, error) {
	stats, err := h.Queries.QueueStats(ctx)
	if err != nil {
		return httptransport.QueueStatsResponse{}, err
	}
	resp := httptransport.QueueStatsResponse{Status: "success", Timestamp: time.Now().UTC().Format(time.RFC3339)}
	resp.Data.PendingCount = stats.PendingCount
	resp.Data.ReviewCount = stats.ReviewCount
	return resp, nil
}

func mapContentData(item entities.ContentItem) httptransport.ContentData {
	data := httptransport.ContentData{
		ContentID:   item.ContentID,
		Kind:        string(item.Kind),
		Body:        item.Body,
		URL:         item.URL,
		SubmitterID: item.SubmitterID,
		Status:      string(item.Status),
		SubmittedAt: item.SubmittedAt.UTC().Format(time.RFC3339),
	}
	if item.ProcessedAt != nil {
		data.ProcessedAt = item.ProcessedAt.UTC().Format(time.RFC3339)
	}
	return data
}

func mapContentStatusData(view queries.ContentStatusView) httptransport.ContentStatusData {
	data := httptransport.ContentStatusData{Content: mapContentData(view.Item)}
	if view.LatestScore != nil {
		data.LatestScore = &httptransport.ScoreData{
			Provider:   view.LatestScore.Provider,
			Toxicity:   view.LatestScore.Toxicity,
			NSFW:       view.LatestScore.NSFW,
			Spam:       view.LatestScore.Spam,
			HateSpeech: view.LatestScore.HateSpeech,
			Aggregate:  view.LatestScore.Aggregate,
			Decision:   string(view.LatestScore.Decision),
			CreatedAt:  view.LatestScore.CreatedAt.UTC().Format(time.RFC3339),
		}
	}
	if view.LatestAppeal != nil {
		appeal := mapAppealData(*view.LatestAppeal)
		data.LatestAppeal = &appeal
	}
	return data
}

func mapAppealData(appeal entities.Appeal) httptransport.AppealData {
	data := httptransport.AppealData{
		AppealID:        appeal.AppealID,
		ContentID:       appeal.ContentID,
		SubmitterID:     appeal.SubmitterID,
		Reason:          appeal.Reason,
		Status:          string(appeal.Status),
		ResolverID:      appeal.ResolverID,
		ResolutionNotes: appeal.ResolutionNotes,
		CreatedAt:       appeal.CreatedAt.UTC().Format(time.RFC3339),
	}
	if appeal.ResolvedAt != nil {
		data.ResolvedAt = appeal.ResolvedAt.UTC().Format(time.RFC3339)
	}
	return data
}

func mapReviewQueueItem(item ports.ReviewQueueItem) httptransport.ReviewQueueItemData {
	return httptransport.ReviewQueueItemData{
		EntryID:     item.EntryID,
		ContentID:   item.ContentID,
		Kind:        string(item.Kind),
		Status:      string(item.Status),
		SubmitterID: item.SubmitterID,
		Priority:    item.Priority,
		AddedAt:     item.AddedAt.UTC().Format(time.RFC3339),
		Aggregate:   item.Aggregate,
		Decision:    string(item.Decision),
	}
}
