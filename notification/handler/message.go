package handler

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"educenter.io/educenter-server/api/httpbase"
	"educenter.io/educenter-server/common/config"
	"educenter.io/educenter-server/common/types"
	"educenter.io/educenter-server/notification/component"
)

type NotificationHandler struct {
	c component.NotificationComponent
}

func NewNotificationHandler(conf *config.Config) (*NotificationHandler, error) {
	nmc, err := component.NewNotificationComponent(conf)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification component: %w", err)
	}
	return &NotificationHandler{c: nmc}, nil
}

func NewNotificationHandlerWithComponent(c component.NotificationComponent) *NotificationHandler {
	return &NotificationHandler{c: c}
}

func (h *NotificationHandler) GetUnreadCount(ctx *gin.Context) {
	userUUID := httpbase.GetCurrentUserUUID(ctx)
	if userUUID == "" {
		httpbase.UnauthorizedError(ctx, errors.New("user_uuid is required"))
		return
	}
	count, err := h.c.GetUnreadCount(ctx.Request.Context(), userUUID)
	if err != nil {
		httpbase.ServerError(ctx, fmt.Errorf("failed to get unread count: %w", err))
		return
	}
	httpbase.OK(ctx, count)
}

func (h *NotificationHandler) ListNotifications(ctx *gin.Context) {
	userUUID := httpbase.GetCurrentUserUUID(ctx)
	if userUUID == "" {
		httpbase.UnauthorizedError(ctx, errors.New("user_uuid is required"))
		return
	}
	var req types.NotificationsRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		httpbase.BadRequest(ctx, err.Error())
		return
	}
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 20
	}

	messages, total, err := h.c.ListNotifications(ctx.Request.Context(), userUUID, req)
	if err != nil {
		httpbase.ServerError(ctx, fmt.Errorf("failed to list notifications: %w", err))
		return
	}
	unreadCount, err := h.c.GetUnreadCount(ctx.Request.Context(), userUUID)
	if err != nil {
		httpbase.ServerError(ctx, fmt.Errorf("failed to get unread count: %w", err))
		return
	}
	httpbase.OK(ctx, gin.H{
		"messages":     messages,
		"total":        total,
		"unread_count": unreadCount,
	})
}

func (h *NotificationHandler) MarkAsRead(ctx *gin.Context) {
	userUUID := httpbase.GetCurrentUserUUID(ctx)
	if userUUID == "" {
		httpbase.UnauthorizedError(ctx, errors.New("user_uuid is required"))
		return
	}
	var req types.BatchNotificationOperationReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		httpbase.BadRequest(ctx, err.Error())
		return
	}
	if err := h.c.MarkAsRead(ctx.Request.Context(), userUUID, req); err != nil {
		httpbase.ServerError(ctx, fmt.Errorf("failed to mark notifications as read: %w", err))
		return
	}
	httpbase.OK(ctx, nil)
}

func (h *NotificationHandler) MarkAsUnread(ctx *gin.Context) {
	userUUID := httpbase.GetCurrentUserUUID(ctx)
	if userUUID == "" {
		httpbase.UnauthorizedError(ctx, errors.New("user_uuid is required"))
		return
	}
	var req types.BatchNotificationOperationReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		httpbase.BadRequest(ctx, err.Error())
		return
	}
	if err := h.c.MarkAsUnread(ctx.Request.Context(), userUUID, req); err != nil {
		httpbase.ServerError(ctx, fmt.Errorf("failed to mark notifications as unread: %w", err))
		return
	}
	httpbase.OK(ctx, nil)
}

func (h *NotificationHandler) DeleteNotifications(ctx *gin.Context) {
	userUUID := httpbase.GetCurrentUserUUID(ctx)
	if userUUID == "" {
		httpbase.UnauthorizedError(ctx, errors.New("user_uuid is required"))
		return
	}
	var req types.BatchNotificationOperationReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		httpbase.BadRequest(ctx, err.Error())
		return
	}
	if err := h.c.DeleteNotifications(ctx.Request.Context(), userUUID, req); err != nil {
		httpbase.ServerError(ctx, fmt.Errorf("failed to delete notifications: %w", err))
		return
	}
	httpbase.OK(ctx, nil)
}

func (h *NotificationHandler) PollNewNotifications(ctx *gin.Context) {
	userUUID := httpbase.GetCurrentUserUUID(ctx)
	if userUUID == "" {
		httpbase.UnauthorizedError(ctx, errors.New("user_uuid is required"))
		return
	}
	limit, err := strconv.Atoi(ctx.Param("limit"))
	if err != nil || limit <= 0 {
		httpbase.BadRequest(ctx, "limit must be a positive integer")
		return
	}
	resp, err := h.c.PollNewNotifications(ctx.Request.Context(), userUUID, limit)
	if err != nil {
		httpbase.ServerError(ctx, fmt.Errorf("failed to poll new notifications: %w", err))
		return
	}
	httpbase.OK(ctx, resp)
}

func (h *NotificationHandler) UpdateNotificationSetting(ctx *gin.Context) {
	userUUID := httpbase.GetCurrentUserUUID(ctx)
	if userUUID == "" {
		httpbase.UnauthorizedError(ctx, errors.New("user_uuid is required"))
		return
	}
	var req types.UpdateNotificationSettingReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		httpbase.BadRequest(ctx, err.Error())
		return
	}
	if err := h.c.UpdateNotificationSetting(ctx.Request.Context(), userUUID, req); err != nil {
		httpbase.BadRequest(ctx, err.Error())
		return
	}
	httpbase.OK(ctx, nil)
}

func (h *NotificationHandler) GetNotificationSetting(ctx *gin.Context) {
	userUUID := httpbase.GetCurrentUserUUID(ctx)
	if userUUID == "" {
		httpbase.UnauthorizedError(ctx, errors.New("user_uuid is required"))
		return
	}
	resp, err := h.c.GetNotificationSetting(ctx.Request.Context(), userUUID)
	if err != nil {
		httpbase.ServerError(ctx, fmt.Errorf("failed to get notification setting: %w", err))
		return
	}
	httpbase.OK(ctx, resp)
}

func (h *NotificationHandler) GetAllNotificationTypes(ctx *gin.Context) {
	httpbase.OK(ctx, types.AllNotificationTypes())
}

// PublishEvent accepts a domain event from an internal producer and puts it
// on the event stream. The caller must hold the server API key.
func (h *NotificationHandler) PublishEvent(ctx *gin.Context) {
	var event types.DomainEvent
	if err := ctx.ShouldBindJSON(&event); err != nil {
		httpbase.BadRequest(ctx, err.Error())
		return
	}
	if event.ID == "" {
		httpbase.BadRequest(ctx, "event id is required")
		return
	}
	if err := h.c.PublishEvent(ctx.Request.Context(), event); err != nil {
		httpbase.ServerError(ctx, fmt.Errorf("failed to publish event: %w", err))
		return
	}
	httpbase.OK(ctx, nil)
}
