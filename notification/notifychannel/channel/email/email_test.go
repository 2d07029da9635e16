package email

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"educenter.io/educenter-server/common/config"
	"educenter.io/educenter-server/common/types"
	"educenter.io/educenter-server/notification/notifychannel"
	emailclient "educenter.io/educenter-server/notification/notifychannel/channel/email/client"
	"educenter.io/educenter-server/notification/utils"
)

type fakeEmailService struct {
	failFor map[string]bool
	sent    []string
}

func (f *fakeEmailService) Send(req emailclient.EmailSendReq) error {
	to := req.To[0]
	if f.failFor[to] {
		return fmt.Errorf("smtp refused recipient %s", to)
	}
	f.sent = append(f.sent, to)
	return nil
}

func emailNotifyRequest(to []string) *notifychannel.NotifyRequest {
	receiver := &notifychannel.Receiver{}
	receiver.AddRecipients(notifychannel.RecipientKeyUserEmails, to)
	return &notifychannel.NotifyRequest{
		Payload: types.EmailPayload{
			To:      to,
			Subject: "Branch created",
			HTML:    "<p>Riverside is open</p>",
		},
		Receiver:         receiver,
		NotificationType: types.NotificationBranchCreated,
		MsgUUID:          "msg-email-1",
	}
}

func TestEmailSend_AllRecipients(t *testing.T) {
	service := &fakeEmailService{}
	channel := NewChannel(&config.Config{}, service)

	err := channel.Send(context.Background(), emailNotifyRequest([]string{
		"owner1@example.org", "owner2@example.org",
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"owner1@example.org", "owner2@example.org"}, service.sent)
}

func TestEmailSend_FailureDoesNotBlockRemainingRecipients(t *testing.T) {
	service := &fakeEmailService{failFor: map[string]bool{"owner2@example.org": true}}
	channel := NewChannel(&config.Config{}, service)

	err := channel.Send(context.Background(), emailNotifyRequest([]string{
		"owner1@example.org", "owner2@example.org", "owner3@example.org",
	}))
	require.Error(t, err)
	assert.True(t, utils.IsErrSendMsg(err), "smtp failures must be retryable")
	assert.Contains(t, err.Error(), "1 of 3")
	assert.Equal(t, []string{"owner1@example.org", "owner3@example.org"}, service.sent,
		"recipients after the failed one must still be attempted")
}
