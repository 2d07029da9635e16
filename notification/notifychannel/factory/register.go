package factory

import (
	"educenter.io/educenter-server/builder/store/database"
	"educenter.io/educenter-server/common/config"
	"educenter.io/educenter-server/common/types"
	"educenter.io/educenter-server/notification/notifychannel/channel/email"
	emailclient "educenter.io/educenter-server/notification/notifychannel/channel/email/client"
	"educenter.io/educenter-server/notification/notifychannel/channel/inapp"
	"educenter.io/educenter-server/notification/notifychannel/channel/push"
	pushclient "educenter.io/educenter-server/notification/notifychannel/channel/push/client"
	"educenter.io/educenter-server/notification/notifychannel/channel/sms"
	smsclient "educenter.io/educenter-server/notification/notifychannel/channel/sms/client"
	"educenter.io/educenter-server/notification/notifychannel/channel/whatsapp"
	whatsappclient "educenter.io/educenter-server/notification/notifychannel/channel/whatsapp/client"
)

// Register channels
func registerChannels(config *config.Config, factory Factory) error {
	inAppChannel := inapp.NewChannel(config, database.NewNotificationStore())
	factory.RegisterChannel(string(types.ChannelInApp), inAppChannel)

	emailChannel := email.NewChannel(config, emailclient.NewEmailService(config))
	factory.RegisterChannel(string(types.ChannelEmail), emailChannel)

	smsService, err := smsclient.NewAliyunSMSClient(config)
	if err != nil {
		return err
	}
	factory.RegisterChannel(string(types.ChannelSMS), sms.NewChannel(smsService))

	whatsAppChannel := whatsapp.NewChannel(whatsappclient.NewWhatsAppService(config))
	factory.RegisterChannel(string(types.ChannelWhatsApp), whatsAppChannel)

	pushChannel := push.NewChannel(pushclient.NewPushService(config))
	factory.RegisterChannel(string(types.ChannelPush), pushChannel)

	return nil
}
