package client

import "educenter.io/educenter-server/common/types"

type SMSService interface {
	Send(req types.SMSPayload) error
}
