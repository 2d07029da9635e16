package notifychannel

import (
	"context"

	"educenter.io/educenter-server/common/types"
)

type NotifyRequest struct {
	// channel-discriminated payload built by the payload builder
	Payload types.NotificationPayload
	// target recipients
	Receiver *Receiver
	// originating notification type
	NotificationType types.NotificationType
	// stable id for dedup across retries
	MsgUUID string
	// message priority
	Priority types.NotificationPriority
	// correlation id threading the dispatch through logs
	CorrelationID string
}

type Notifier interface {
	Send(ctx context.Context, req *NotifyRequest) error
	// IsFormatRequired reports whether the channel consumes rendered
	// template output. WhatsApp does not: it references a pre-approved
	// external template by name.
	IsFormatRequired() bool
}
