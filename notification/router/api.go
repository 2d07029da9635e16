package router

import (
	"log/slog"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"educenter.io/educenter-server/api/middleware"
	"educenter.io/educenter-server/common/config"
	"educenter.io/educenter-server/notification/handler"
)

func NewNotifierRouter(conf *config.Config) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Log())
	needAPIKey := middleware.NeedAPIKey(conf)
	debugGroup := r.Group("/debug", needAPIKey)
	pprof.RouteRegister(debugGroup, "pprof")
	r.GET("/metrics", needAPIKey, gin.WrapH(promhttp.Handler()))
	r.Use(middleware.Authenticator(conf))
	messageHandler, err := handler.NewNotificationHandler(conf)
	if err != nil {
		slog.Error("failed to create notification handler", "error", err)
		return nil, err
	}

	notificationsGroup := r.Group("/api/v1/notifications")
	{
		notificationsGroup.GET("/count", messageHandler.GetUnreadCount)
		notificationsGroup.GET("", messageHandler.ListNotifications)
		notificationsGroup.DELETE("", messageHandler.DeleteNotifications)
		notificationsGroup.PUT("/read", messageHandler.MarkAsRead)
		notificationsGroup.PUT("/unread", messageHandler.MarkAsUnread)
		notificationsGroup.PUT("/setting", messageHandler.UpdateNotificationSetting)
		notificationsGroup.GET("/setting", messageHandler.GetNotificationSetting)
		notificationsGroup.GET("/poll/:limit", messageHandler.PollNewNotifications)
		notificationsGroup.GET("/types", messageHandler.GetAllNotificationTypes)
	}
	r.POST("/api/v1/events", needAPIKey, messageHandler.PublishEvent)

	return r, nil
}
