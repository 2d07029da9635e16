package client

import (
	"encoding/json"
	"strings"

	openapi "github.com/alibabacloud-go/darabonba-openapi/v2/client"
	dysmsapi20170525 "github.com/alibabacloud-go/dysmsapi-20170525/v5/client"
	util "github.com/alibabacloud-go/tea-utils/v2/service"
	"github.com/alibabacloud-go/tea/tea"

	"educenter.io/educenter-server/common/config"
	"educenter.io/educenter-server/common/types"
)

// genericTemplateCode is the provider-approved passthrough template that
// carries rendered notification text in a single "content" parameter.
const genericTemplateCode = "SMS_NOTIFY"

type SMSClient interface {
	SendSmsWithOptions(
		request *dysmsapi20170525.SendSmsRequest,
		runtime *util.RuntimeOptions,
	) (*dysmsapi20170525.SendSmsResponse, error)
}

type AliyunSMSClient struct {
	client   SMSClient
	signName string
}

var _ SMSService = (*AliyunSMSClient)(nil)

func NewAliyunSMSClient(config *config.Config) (SMSService, error) {
	SMSConfig := &openapi.Config{
		AccessKeyId:     tea.String(config.SMS.AccessKeyID),
		AccessKeySecret: tea.String(config.SMS.AccessKeySecret),
		Endpoint:        tea.String(config.SMS.Endpoint),
	}
	client, err := dysmsapi20170525.NewClient(SMSConfig)
	if err != nil {
		return nil, err
	}
	return &AliyunSMSClient{
		client:   client,
		signName: config.SMS.SignName,
	}, nil
}

func (c *AliyunSMSClient) Send(req types.SMSPayload) error {
	// refer to sms client doc, the phone area should not have '+' prefix when send sms code to overseas
	numbers := make([]string, len(req.PhoneNumbers))
	for i, phoneNumber := range req.PhoneNumbers {
		numbers[i] = strings.TrimPrefix(phoneNumber, "+")
	}

	templateParam, err := json.Marshal(map[string]string{"content": req.Content})
	if err != nil {
		return err
	}

	smsReq := &dysmsapi20170525.SendSmsRequest{
		PhoneNumbers:  tea.String(strings.Join(numbers, ",")),
		SignName:      tea.String(c.signName),
		TemplateCode:  tea.String(genericTemplateCode),
		TemplateParam: tea.String(string(templateParam)),
	}

	_, err = c.client.SendSmsWithOptions(smsReq, &util.RuntimeOptions{})
	if err != nil {
		return err
	}
	return nil
}
