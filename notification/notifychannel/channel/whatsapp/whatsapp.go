package whatsapp

import (
	"context"
	"fmt"

	"educenter.io/educenter-server/common/types"
	"educenter.io/educenter-server/notification/notifychannel"
	"educenter.io/educenter-server/notification/notifychannel/channel/whatsapp/client"
	"educenter.io/educenter-server/notification/utils"
)

type WhatsAppChannel struct {
	whatsAppService client.WhatsAppService
}

func NewChannel(whatsAppService client.WhatsAppService) notifychannel.Notifier {
	return &WhatsAppChannel{
		whatsAppService: whatsAppService,
	}
}

var _ notifychannel.Notifier = (*WhatsAppChannel)(nil)

// WhatsApp references a pre-approved template by name and sends positional
// parameters; there is no rendered free-text content for this channel.
func (s *WhatsAppChannel) IsFormatRequired() bool {
	return false
}

func (s *WhatsAppChannel) Send(ctx context.Context, req *notifychannel.NotifyRequest) error {
	if err := req.Receiver.Validate(); err != nil {
		return fmt.Errorf("invalid receiver: %w", err)
	}

	whatsAppPayload, ok := req.Payload.(types.WhatsAppPayload)
	if !ok {
		return fmt.Errorf("invalid whatsapp payload type %T", req.Payload)
	}
	if whatsAppPayload.TemplateName == "" {
		return fmt.Errorf("whatsapp payload has no template name")
	}

	if err := s.whatsAppService.Send(ctx, whatsAppPayload); err != nil {
		return utils.NewErrSendMsg(err, "failed to send whatsapp message")
	}

	return nil
}
