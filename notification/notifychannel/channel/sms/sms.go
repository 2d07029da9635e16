package sms

import (
	"context"
	"fmt"

	"educenter.io/educenter-server/common/types"
	"educenter.io/educenter-server/notification/notifychannel"
	"educenter.io/educenter-server/notification/notifychannel/channel/sms/client"
	"educenter.io/educenter-server/notification/utils"
)

type SMSChannel struct {
	smsService client.SMSService
}

func NewChannel(smsService client.SMSService) notifychannel.Notifier {
	return &SMSChannel{
		smsService: smsService,
	}
}

var _ notifychannel.Notifier = (*SMSChannel)(nil)

func (s *SMSChannel) IsFormatRequired() bool {
	return true
}

func (s *SMSChannel) Send(ctx context.Context, req *notifychannel.NotifyRequest) error {
	if err := req.Receiver.Validate(); err != nil {
		return fmt.Errorf("invalid receiver: %w", err)
	}

	smsPayload, ok := req.Payload.(types.SMSPayload)
	if !ok {
		return fmt.Errorf("invalid sms payload type %T", req.Payload)
	}

	if err := s.smsService.Send(smsPayload); err != nil {
		return utils.NewErrSendMsg(err, "failed to send sms") // should not print the message, it contains sensitive information
	}

	return nil
}
