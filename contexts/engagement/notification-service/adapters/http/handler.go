package httpadapter

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"sentinel/contexts/engagement/notification-service/application"
	"sentinel/contexts/engagement/notification-service/ports"
	httptransport "sentinel/contexts/engagement/notification-service/transport/http"
)

type Handler struct {
	Service  application.Service
	Registry ports.Registry
	Logger   *slog.Logger
}

func (h Handler) ListHandler(ctx context.Context, userID string, limitRaw string, unreadRaw string) (httptransport.NotificationListResponse, error) {
	filter := ports.ListFilter{UserID: userID}
	if parsed, err := strconv.Atoi(strings.TrimSpace(limitRaw)); err == nil {
		filter.Limit = parsed
	}
	filter.UnreadOnly = strings.EqualFold(strings.TrimSpace(unreadRaw), "true")

	items, err := h.Service.List(ctx, filter)
	if err != nil {
		return httptransport.NotificationListResponse{}, err
	}
	resp := httptransport.NotificationListResponse{Status: "success", Timestamp: time.Now().UTC().Format(time.RFC3339)}
	resp.Data.Items = make([]httptransport.NotificationData, 0, len(items))
	for _, item := range items {
		resp.Data.Items = append(resp.Data.Items, httptransport.NotificationData{
			NotificationID:   item.NotificationID,
			Type:             item.Type,
			Title:            item.Title,
			Message:          item.Message,
			Priority:         string(item.Priority),
			Read:             item.Read,
			RelatedContentID: item.RelatedContentID,
			RelatedAppealID:  item.RelatedAppealID,
			CreatedAt:        item.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return resp, nil
}

func (h Handler) UnreadCountHandler(ctx context.Context, userID string) (httptransport.UnreadCountResponse, error) {
	count, err := h.Service.UnreadCount(ctx, userID)
	if err != nil {
		return httptransport.UnreadCountResponse{}, err
	}
	resp := httptransport.UnreadCountResponse{Status: "success", Timestamp: time.Now().UTC().Format(time.RFC3339)}
	resp.Data.UnreadCount = count
	return resp, nil
}

func (h Handler) MarkReadHandler(ctx context.Context, userID string, notificationID string) (httptransport.AckResponse, error) {
	if err := h.Service.MarkRead(ctx, userID, notificationID); err != nil {
		return httptransport.AckResponse{}, err
	}
	return httptransport.AckResponse{Status: "success", Timestamp: time.Now().UTC().Format(time.RFC3339)}, nil
}

func (h Handler) MarkAllReadHandler(ctx context.Context, userID string) (httptransport.MarkAllReadResponse, error) {
	updated, err := h.Service.MarkAllRead(ctx, userID)
	if err != nil {
		return httptransport.MarkAllReadResponse{}, err
	}
	resp := httptransport.MarkAllReadResponse{Status: "success", Timestamp: time.Now().UTC().Format(time.RFC3339)}
	resp.Data.UpdatedCount = updated
	return resp, nil
}
