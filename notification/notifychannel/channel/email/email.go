package email

import (
	"context"
	"fmt"
	"log/slog"

	"educenter.io/educenter-server/common/config"
	"educenter.io/educenter-server/common/types"
	"educenter.io/educenter-server/notification/notifychannel"
	emailclient "educenter.io/educenter-server/notification/notifychannel/channel/email/client"
	"educenter.io/educenter-server/notification/utils"
)

type EmailChannel struct {
	config       *config.Config
	emailService emailclient.EmailService
}

func NewChannel(conf *config.Config, emailService emailclient.EmailService) notifychannel.Notifier {
	return &EmailChannel{
		config:       conf,
		emailService: emailService,
	}
}

var _ notifychannel.Notifier = (*EmailChannel)(nil)

func (s *EmailChannel) IsFormatRequired() bool {
	return true
}

func (s *EmailChannel) Send(ctx context.Context, req *notifychannel.NotifyRequest) error {
	if err := req.Receiver.Validate(); err != nil {
		return fmt.Errorf("invalid receiver: %w", err)
	}

	emailPayload, ok := req.Payload.(types.EmailPayload)
	if !ok {
		return fmt.Errorf("invalid email payload type %T", req.Payload)
	}

	to := emailPayload.To
	if len(to) == 0 {
		to = req.Receiver.GetUserEmails()
	}

	// one message per recipient; a bad address must not block the rest
	var failed int
	for _, recipient := range to {
		sendReq := emailclient.EmailSendReq{
			To:      []string{recipient},
			Subject: emailPayload.Subject,
			Body:    emailPayload.HTML,
		}
		if err := s.emailService.Send(sendReq); err != nil {
			slog.Error("failed to send email to user", slog.String("to", recipient), slog.Any("error", err))
			failed++
		}
	}
	if failed > 0 {
		return utils.NewErrSendMsg(fmt.Errorf("failed to send email to %d of %d recipients", failed, len(to)), "failed to send email")
	}
	return nil
}
