package mq

import (
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

type MessageQueue interface {
	GetConn() *nats.Conn
	GetJetStream() error

	BuildDomainEventStream() error
	BuildNotificationMsgStream() error
	VerifyDomainEventStream() error
	VerifyNotificationMsgStream() error

	PublishData(subject string, data []byte) error
	PublishHighPriorityMsg(data []byte) error
	PublishNormalPriorityMsg(data []byte) error

	BuildDomainEventConsumer(consumerName string) (jetstream.Consumer, error)
	BuildHighPriorityMsgConsumer(consumerName string) (jetstream.Consumer, error)
	BuildNormalPriorityMsgConsumer(consumerName string) (jetstream.Consumer, error)
}
