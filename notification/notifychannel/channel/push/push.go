package push

import (
	"context"
	"fmt"
	"log/slog"

	"educenter.io/educenter-server/common/types"
	"educenter.io/educenter-server/notification/notifychannel"
	"educenter.io/educenter-server/notification/notifychannel/channel/push/client"
	"educenter.io/educenter-server/notification/utils"
)

type Channel struct {
	pushService client.PushService
}

var _ notifychannel.Notifier = (*Channel)(nil)

func NewChannel(pushService client.PushService) *Channel {
	return &Channel{
		pushService: pushService,
	}
}

func (c *Channel) IsFormatRequired() bool {
	return true
}

func (c *Channel) Send(ctx context.Context, req *notifychannel.NotifyRequest) error {
	if req == nil || req.Payload == nil {
		return fmt.Errorf("invalid push notify request")
	}

	payload, ok := req.Payload.(types.PushPayload)
	if !ok {
		return fmt.Errorf("invalid push payload type: %T", req.Payload)
	}

	if len(payload.UserUUIDs) == 0 && req.Receiver != nil {
		payload.UserUUIDs = req.Receiver.GetUserUUIDs()
	}
	if len(payload.UserUUIDs) == 0 {
		slog.Warn("no push recipients, skip sending")
		return nil
	}

	if err := c.pushService.Send(ctx, payload); err != nil {
		return utils.NewErrSendMsg(err, "failed to send push notification")
	}
	return nil
}
