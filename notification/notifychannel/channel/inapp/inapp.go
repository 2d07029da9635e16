package inapp

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"educenter.io/educenter-server/builder/store/database"
	"educenter.io/educenter-server/common/config"
	"educenter.io/educenter-server/common/types"
	"educenter.io/educenter-server/notification/notifychannel"
)

type Channel struct {
	conf    *config.Config
	storage database.NotificationStore
}

func NewChannel(conf *config.Config, storage database.NotificationStore) notifychannel.Notifier {
	return &Channel{
		conf:    conf,
		storage: storage,
	}
}

var _ notifychannel.Notifier = (*Channel)(nil)

func (c *Channel) IsFormatRequired() bool {
	return true
}

func (c *Channel) Send(ctx context.Context, req *notifychannel.NotifyRequest) error {
	if req == nil || req.Payload == nil {
		return fmt.Errorf("invalid in-app notify request")
	}

	payload, ok := req.Payload.(types.InAppPayload)
	if !ok {
		return fmt.Errorf("invalid in-app payload type: %T", req.Payload)
	}

	if payload.Title == "" {
		return fmt.Errorf("in-app message must contain a title")
	}
	if payload.Message == "" {
		return fmt.Errorf("in-app message must contain a message body")
	}

	userUUIDs := payload.UserUUIDs
	if len(userUUIDs) == 0 && req.Receiver != nil {
		userUUIDs = req.Receiver.GetUserUUIDs()
	}
	if len(userUUIDs) == 0 {
		slog.Warn("no in-app recipients, skip sending")
		return nil
	}

	msgUUID := req.MsgUUID
	if msgUUID == "" {
		msgUUID = uuid.New().String()
	}

	message := &database.NotificationMessage{
		MsgUUID:          msgUUID,
		NotificationType: string(req.NotificationType),
		Title:            payload.Title,
		Content:          payload.Message,
		ActionURL:        actionURLFromData(payload.Data),
		Priority:         int(req.Priority),
	}

	existed, err := c.storage.IsNotificationMessageExists(ctx, message.MsgUUID)
	if err != nil {
		return fmt.Errorf("failed to check if notification message exists: %w", err)
	}
	if existed {
		slog.Info("in-app message already exists, skipped", slog.String("msg_uuid", message.MsgUUID))
		return nil
	}

	if err := c.storage.CreateNotificationMessageForUsers(ctx, message, userUUIDs); err != nil {
		return fmt.Errorf("failed to create in-app message for users: %w", err)
	}
	slog.Info("created in-app message for users",
		slog.String("msg_uuid", message.MsgUUID),
		slog.Int("user_count", len(userUUIDs)))
	return nil
}

func actionURLFromData(data map[string]any) string {
	if data == nil {
		return ""
	}
	if v, ok := data["actionUrl"]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
