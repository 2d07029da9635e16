package client

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"educenter.io/educenter-server/common/config"
)

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

var _ EmailService = (*emailService)(nil)

func NewEmailService(config *config.Config) EmailService {
	dialer := gomail.NewDialer(
		config.Email.Host,
		config.Email.Port,
		config.Email.Username,
		config.Email.Password,
	)
	return &emailService{
		dialer: dialer,
		from:   config.Email.From,
	}
}

func (m *emailService) Send(req EmailSendReq) error {
	message := gomail.NewMessage()

	message.SetHeader("From", m.from)
	message.SetHeader("To", req.To...)
	if len(req.CC) > 0 {
		message.SetHeader("Cc", req.CC...)
	}
	if len(req.BCC) > 0 {
		message.SetHeader("Bcc", req.BCC...)
	}
	message.SetHeader("Subject", req.Subject)
	message.SetBody("text/html", req.Body)

	err := m.dialer.DialAndSend(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
