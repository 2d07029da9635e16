package mq

import (
	"context"
	"errors"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"educenter.io/educenter-server/common/config"
)

var _ MessageQueue = (*NatsHandler)(nil)

var (
	nats_connect_timeout time.Duration = 2 * time.Second
	nats_reconnect_wait  time.Duration = 10 * time.Second

	domainEventStreamName string = "educenterDomainEventStream" // events emitted by the management modules

	notificationMsgStreamName string = "educenterNotificationMsgStream" // dispatch messages, split by priority subject
)

type NatsHandler struct {
	conn *nats.Conn

	domainEventSubject       string
	highPriorityMsgSubject   string
	normalPriorityMsgSubject string

	domainEventCfg     jetstream.StreamConfig
	notificationMsgCfg jetstream.StreamConfig

	js jetstream.JetStream
}

func NewNats(config *config.Config) (*NatsHandler, error) {
	nc, err := nats.Connect(
		config.Nats.URL,
		nats.Timeout(nats_connect_timeout),
		nats.ReconnectWait(nats_reconnect_wait),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, err
	}
	return &NatsHandler{
		conn: nc,
		domainEventCfg: jetstream.StreamConfig{
			Name:         domainEventStreamName,
			Subjects:     []string{config.Nats.DomainEventSubject},
			MaxConsumers: -1,
			MaxMsgs:      -1,
			MaxBytes:     -1,
		},
		notificationMsgCfg: jetstream.StreamConfig{
			Name:         notificationMsgStreamName,
			Subjects:     []string{config.Nats.HighPriorityMsgSubject, config.Nats.NormalPriorityMsgSubject},
			MaxConsumers: -1,
			MaxMsgs:      -1,
			MaxBytes:     -1,
		},
		domainEventSubject:       config.Nats.DomainEventSubject,
		highPriorityMsgSubject:   config.Nats.HighPriorityMsgSubject,
		normalPriorityMsgSubject: config.Nats.NormalPriorityMsgSubject,
	}, nil
}

func (nh *NatsHandler) GetConn() *nats.Conn {
	return nh.conn
}

func (nh *NatsHandler) GetJetStream() error {
	js, err := jetstream.New(nh.conn)
	if err != nil {
		return err
	}
	nh.js = js
	return nil
}

func (nh *NatsHandler) createOrUpdateStream(ctx context.Context, streamName string, streamCfg jetstream.StreamConfig) error {
	err := nh.verifyStreamByName(streamName)
	if err != nil && !errors.Is(err, jetstream.ErrStreamNotFound) {
		return err
	}
	_, err = nh.js.CreateOrUpdateStream(ctx, streamCfg)
	return err
}

func (nh *NatsHandler) BuildDomainEventStream() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := nh.GetJetStream(); err != nil {
		return err
	}
	return nh.createOrUpdateStream(ctx, domainEventStreamName, nh.domainEventCfg)
}

func (nh *NatsHandler) BuildNotificationMsgStream() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := nh.GetJetStream(); err != nil {
		return err
	}
	return nh.createOrUpdateStream(ctx, notificationMsgStreamName, nh.notificationMsgCfg)
}

func (nh *NatsHandler) verifyStreamByName(streamName string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_, err := nh.js.Stream(ctx, streamName)
	return err
}

func (nh *NatsHandler) VerifyDomainEventStream() error {
	return nh.verifyStreamByName(domainEventStreamName)
}

func (nh *NatsHandler) VerifyNotificationMsgStream() error {
	return nh.verifyStreamByName(notificationMsgStreamName)
}

func (nh *NatsHandler) PublishData(subject string, data []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_, err := nh.js.Publish(ctx, subject, data)
	return err
}

func (nh *NatsHandler) PublishHighPriorityMsg(data []byte) error {
	return nh.PublishData(nh.highPriorityMsgSubject, data)
}

func (nh *NatsHandler) PublishNormalPriorityMsg(data []byte) error {
	return nh.PublishData(nh.normalPriorityMsgSubject, data)
}

func (nh *NatsHandler) buildConsumer(consumerName, filterSubject string) (jetstream.Consumer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	streamName := notificationMsgStreamName
	if filterSubject == nh.domainEventSubject {
		streamName = domainEventStreamName
	}
	return nh.js.CreateOrUpdateConsumer(ctx, streamName, jetstream.ConsumerConfig{
		Name:          consumerName,
		Durable:       consumerName,
		AckPolicy:     jetstream.AckExplicitPolicy,
		DeliverPolicy: jetstream.DeliverAllPolicy,
		FilterSubject: filterSubject,
	})
}

func (nh *NatsHandler) BuildDomainEventConsumer(consumerName string) (jetstream.Consumer, error) {
	return nh.buildConsumer(consumerName, nh.domainEventSubject)
}

func (nh *NatsHandler) BuildHighPriorityMsgConsumer(consumerName string) (jetstream.Consumer, error) {
	return nh.buildConsumer(consumerName, nh.highPriorityMsgSubject)
}

func (nh *NatsHandler) BuildNormalPriorityMsgConsumer(consumerName string) (jetstream.Consumer, error) {
	return nh.buildConsumer(consumerName, nh.normalPriorityMsgSubject)
}
