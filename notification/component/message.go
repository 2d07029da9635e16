package component

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"
	"educenter.io/educenter-server/builder/store/database"
	"educenter.io/educenter-server/common/config"
	"educenter.io/educenter-server/common/types"
	"educenter.io/educenter-server/mq"
	"educenter.io/educenter-server/notification/dispatcher"
	"educenter.io/educenter-server/notification/eventmap"
	"educenter.io/educenter-server/notification/manifest"
	notifychannelfactory "educenter.io/educenter-server/notification/notifychannel/factory"
	"educenter.io/educenter-server/notification/tmplmgr"
	"educenter.io/educenter-server/notification/utils"
)

const (
	domainEventConsumerName       = "educenterDomainEventConsumer"
	highPriorityMsgConsumerName   = "educenterHighPriorityMsgConsumer"
	normalPriorityMsgConsumerName = "educenterNormalPriorityMsgConsumer"

	messageHandleTimeout = 30 * time.Second
)

type NotificationComponent interface {
	GetUnreadCount(ctx context.Context, userUUID string) (int64, error)
	ListNotifications(ctx context.Context, userUUID string, req types.NotificationsRequest) ([]types.Notifications, int, error)
	MarkAsRead(ctx context.Context, userUUID string, req types.BatchNotificationOperationReq) error
	MarkAsUnread(ctx context.Context, userUUID string, req types.BatchNotificationOperationReq) error
	DeleteNotifications(ctx context.Context, userUUID string, req types.BatchNotificationOperationReq) error
	PollNewNotifications(ctx context.Context, userUUID string, limit int) (*types.NewNotifications, error)
	UpdateNotificationSetting(ctx context.Context, userUUID string, req types.UpdateNotificationSettingReq) error
	GetNotificationSetting(ctx context.Context, userUUID string) (*types.NotificationSettingResp, error)
	PublishEvent(ctx context.Context, event types.DomainEvent) error
}

type notificationComponentImpl struct {
	conf    *config.Config
	storage database.NotificationStore
	queue   mq.MessageQueue

	domainEventConsumer           jetstream.Consumer
	highPriorityMessageConsumer   jetstream.Consumer
	normalPriorityMessageConsumer jetstream.Consumer
	highPriorityMsgCh             chan jetstream.Msg
	normalPriorityMsgCh           chan jetstream.Msg

	dispatcher *dispatcher.Dispatcher
}

var _ NotificationComponent = (*notificationComponentImpl)(nil)

// NewMockNotificationComponent wires only the storage, for handler tests.
func NewMockNotificationComponent(storage database.NotificationStore) NotificationComponent {
	return &notificationComponentImpl{
		storage: storage,
	}
}

func NewNotificationComponent(conf *config.Config) (NotificationComponent, error) {
	nmc := &notificationComponentImpl{
		conf:    conf,
		storage: database.NewNotificationStore(),
	}

	n, err := mq.GetOrInit(conf)
	if err != nil {
		return nil, fmt.Errorf("failed to init nats: %w", err)
	}
	nmc.queue = n

	if err = n.BuildDomainEventStream(); err != nil {
		return nil, fmt.Errorf("failed to build domain event stream: %w", err)
	}
	if err = n.BuildNotificationMsgStream(); err != nil {
		return nil, fmt.Errorf("failed to build notification message stream: %w", err)
	}

	channelFactory, err := notifychannelfactory.NewFactory(conf)
	if err != nil {
		return nil, fmt.Errorf("failed to create channel factory: %w", err)
	}
	templateManager := tmplmgr.NewTemplateManager()
	nmc.dispatcher, err = dispatcher.NewDispatcher(conf, templateManager, channelFactory, nmc.storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create dispatcher: %w", err)
	}

	domainEventConsumer, err := n.BuildDomainEventConsumer(domainEventConsumerName)
	if err != nil {
		return nil, fmt.Errorf("failed to build domain event consumer: %w", err)
	}
	nmc.domainEventConsumer = domainEventConsumer
	if _, err = domainEventConsumer.Consume(nmc.handleDomainEvent); err != nil {
		return nil, fmt.Errorf("failed to consume domain events: %w", err)
	}

	highPriorityMessageConsumer, err := n.BuildHighPriorityMsgConsumer(highPriorityMsgConsumerName)
	if err != nil {
		return nil, fmt.Errorf("failed to build high priority message consumer: %w", err)
	}
	nmc.highPriorityMessageConsumer = highPriorityMessageConsumer

	normalPriorityMessageConsumer, err := n.BuildNormalPriorityMsgConsumer(normalPriorityMsgConsumerName)
	if err != nil {
		return nil, fmt.Errorf("failed to build normal priority message consumer: %w", err)
	}
	nmc.normalPriorityMessageConsumer = normalPriorityMessageConsumer

	nmc.highPriorityMsgCh = make(chan jetstream.Msg, conf.Nats.HighPriorityMsgBufferSize)
	nmc.normalPriorityMsgCh = make(chan jetstream.Msg, conf.Nats.NormalPriorityMsgBufferSize)
	if err = nmc.bufferPriorityMsgs(); err != nil {
		return nil, err
	}
	nmc.startMsgDispatcher(conf.Notification.MsgDispatcherCount, nmc.handleDispatchMessage)
	return nmc, nil
}

func (c *notificationComponentImpl) bufferPriorityMsgs() error {
	_, err := c.highPriorityMessageConsumer.Consume(func(msg jetstream.Msg) {
		select {
		case c.highPriorityMsgCh <- msg:
		default:
			slog.Error("high priority message channel is full, rejecting message", slog.String("message", string(msg.Data())))
			if err := msg.Nak(); err != nil {
				slog.Error("failed to nak message", slog.Any("error", err))
			}
		}
	})
	if err != nil {
		return fmt.Errorf("failed to consume high priority messages: %w", err)
	}

	_, err = c.normalPriorityMessageConsumer.Consume(func(msg jetstream.Msg) {
		select {
		case c.normalPriorityMsgCh <- msg:
		default:
			slog.Error("normal priority message channel is full, rejecting message", slog.String("message", string(msg.Data())))
			if err := msg.Nak(); err != nil {
				slog.Error("failed to nak message", slog.Any("error", err))
			}
		}
	})
	if err != nil {
		return fmt.Errorf("failed to consume normal priority messages: %w", err)
	}
	return nil
}

func (c *notificationComponentImpl) startMsgDispatcher(count int, handler func(jetstream.Msg)) {
	slog.Info("starting message dispatcher workers", slog.Int("worker_count", count))
	for i := 0; i < count; i++ {
		go func(i int) {
			c.runMsgDispatcher(i, handler)
		}(i)
	}
}

func (c *notificationComponentImpl) runMsgDispatcher(id int, handler func(jetstream.Msg)) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("message dispatcher panic recovered, will restart", slog.Int("worker_id", id), slog.Any("error", r))
			go c.runMsgDispatcher(id, handler)
		}
	}()

	slog.Info("message dispatcher worker started", slog.Int("worker_id", id))
	for {
		// prefer high priority when both queues have messages
		select {
		case msg := <-c.highPriorityMsgCh:
			handler(msg)
		default:
			select {
			case msg := <-c.highPriorityMsgCh:
				handler(msg)
			case msg := <-c.normalPriorityMsgCh:
				handler(msg)
			}
		}
	}
}

// handleDomainEvent turns one inbound domain event into a queued dispatch
// message on the matching priority subject. Events with no notification
// mapping are acknowledged and dropped here, before any queueing.
func (c *notificationComponentImpl) handleDomainEvent(msg jetstream.Msg) {
	var event types.DomainEvent
	if err := json.Unmarshal(msg.Data(), &event); err != nil {
		slog.Error("failed to unmarshal domain event", slog.String("data", string(msg.Data())), slog.Any("error", err))
		if err := msg.Term(); err != nil {
			slog.Error("failed to term message", slog.Any("error", err))
		}
		return
	}

	dispatchMsg, ok := c.toDispatchMessage(event)
	if !ok {
		if err := msg.Ack(); err != nil {
			slog.Error("failed to ack message", slog.Any("error", err))
		}
		return
	}

	if err := c.publishDispatchMessage(dispatchMsg); err != nil {
		slog.Error("failed to queue dispatch message", slog.String("event_id", string(event.ID)), slog.Any("error", err))
		if err := msg.Nak(); err != nil {
			slog.Error("failed to nak message", slog.Any("error", err))
		}
		return
	}
	if err := msg.Ack(); err != nil {
		slog.Error("failed to ack message", slog.Any("error", err))
	}
}

func (c *notificationComponentImpl) toDispatchMessage(event types.DomainEvent) (types.DispatchMessage, bool) {
	notificationType, ok := eventmap.MapEvent(event.ID)
	if !ok {
		slog.Log(context.Background(), eventmap.UnmappedSeverity(event.ID), "no notification mapping for event",
			slog.String("event_id", string(event.ID)))
		return types.DispatchMessage{}, false
	}

	priority := types.PriorityNormal
	if m, ok := manifest.GetManifest(notificationType); ok {
		priority = m.Priority
	}

	parameters, err := json.Marshal(event.Payload)
	if err != nil {
		slog.Error("failed to marshal event payload", slog.String("event_id", string(event.ID)), slog.Any("error", err))
		return types.DispatchMessage{}, false
	}

	return types.DispatchMessage{
		MsgUUID:       uuid.New().String(),
		EventID:       event.ID,
		Parameters:    string(parameters),
		Priority:      priority,
		CorrelationID: event.CorrelationID,
		CreatedAt:     time.Now(),
	}, true
}

func (c *notificationComponentImpl) publishDispatchMessage(msg types.DispatchMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal dispatch message: %w", err)
	}
	if msg.Priority >= types.HighPriorityThreshold {
		slog.Info("publish message to high priority queue", slog.String("msg_uuid", msg.MsgUUID))
		return c.queue.PublishHighPriorityMsg(data)
	}
	slog.Info("publish message to normal priority queue", slog.String("msg_uuid", msg.MsgUUID))
	return c.queue.PublishNormalPriorityMsg(data)
}

func (c *notificationComponentImpl) handleDispatchMessage(msg jetstream.Msg) {
	var message types.DispatchMessage
	if err := json.Unmarshal(msg.Data(), &message); err != nil {
		slog.Error("failed to unmarshal dispatch message", slog.String("data", string(msg.Data())), slog.Any("error", err))
		if err := msg.Term(); err != nil {
			slog.Error("failed to term message", slog.Any("error", err))
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), messageHandleTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, err := c.dispatcher.ProcessMessage(ctx, message)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			if utils.IsErrSendMsg(err) {
				slog.Info("send failed, will retry later", slog.String("msg_uuid", message.MsgUUID), slog.Any("error", err))
				if err := msg.Nak(); err != nil {
					slog.Error("failed to nak message", slog.Any("error", err))
				}
				return
			}
			slog.Error("failed to handle dispatch message", slog.String("msg_uuid", message.MsgUUID), slog.Any("error", err))
			if err := msg.Term(); err != nil {
				slog.Error("failed to term message", slog.Any("error", err))
			}
			return
		}
		if err := msg.Ack(); err != nil {
			slog.Error("failed to ack message", slog.String("msg_uuid", message.MsgUUID), slog.Any("error", err))
		}
	case <-ctx.Done():
		slog.Error("dispatch message handling timeout", slog.String("msg_uuid", message.MsgUUID))
		if err := msg.Nak(); err != nil {
			slog.Error("failed to nak message", slog.Any("error", err))
		}
	}
}

// maxEventPayloadBytes keeps one event well below the NATS server's default
// 1MB message cap, leaving room for envelope fields.
const maxEventPayloadBytes = 256 * 1024

// PublishEvent publishes a domain event onto the bus, for producers running
// in the same process and for the send API.
func (c *notificationComponentImpl) PublishEvent(ctx context.Context, event types.DomainEvent) error {
	if event.ID == "" {
		return fmt.Errorf("event id is empty")
	}
	size, err := utils.JSONSize(event.Payload)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}
	if size > maxEventPayloadBytes {
		return fmt.Errorf("event payload is %d bytes, exceeds the %d byte limit", size, maxEventPayloadBytes)
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal domain event: %w", err)
	}
	subject := strings.TrimSuffix(c.conf.Nats.DomainEventSubject, ">") + string(event.ID)
	if err := c.queue.PublishData(subject, data); err != nil {
		return fmt.Errorf("publish domain event: %w", err)
	}
	return nil
}

func (c *notificationComponentImpl) GetUnreadCount(ctx context.Context, userUUID string) (int64, error) {
	return c.storage.GetUnreadCount(ctx, userUUID)
}

func (c *notificationComponentImpl) ListNotifications(ctx context.Context, userUUID string, req types.NotificationsRequest) ([]types.Notifications, int, error) {
	params := database.ListNotificationsParams{
		UserUUID:         userUUID,
		NotificationType: req.NotificationType,
		TitleKeyword:     req.TitleKeyword,
		Page:             req.Page,
		PageSize:         req.PageSize,
		UnreadOnly:       req.UnreadOnly,
	}

	list, total, err := c.storage.ListNotificationMessages(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	result := make([]types.Notifications, len(list))
	for i, item := range list {
		result[i] = toNotification(item)
	}
	return result, total, nil
}

func toNotification(item database.NotificationUserMessageView) types.Notifications {
	return types.Notifications{
		ID:               item.ID,
		MsgUUID:          item.MsgUUID,
		NotificationType: types.NotificationType(item.NotificationType),
		Title:            item.Title,
		Summary:          item.Summary,
		Content:          item.Content,
		ActionURL:        item.ActionURL,
		Priority:         item.Priority,
		IsRead:           !item.ReadAt.IsZero(),
		CreatedAt:        item.CreatedAt,
	}
}

func (c *notificationComponentImpl) MarkAsRead(ctx context.Context, userUUID string, req types.BatchNotificationOperationReq) error {
	if req.MarkAll {
		return c.storage.MarkAllAsRead(ctx, userUUID)
	}
	if len(req.MsgUUIDs) == 0 {
		return nil
	}
	return c.storage.MarkAsRead(ctx, userUUID, req.MsgUUIDs)
}

func (c *notificationComponentImpl) MarkAsUnread(ctx context.Context, userUUID string, req types.BatchNotificationOperationReq) error {
	if len(req.MsgUUIDs) == 0 {
		return nil
	}
	return c.storage.MarkAsUnread(ctx, userUUID, req.MsgUUIDs)
}

func (c *notificationComponentImpl) DeleteNotifications(ctx context.Context, userUUID string, req types.BatchNotificationOperationReq) error {
	if len(req.MsgUUIDs) == 0 {
		return nil
	}
	return c.storage.DeleteUserMessages(ctx, userUUID, req.MsgUUIDs)
}

func (c *notificationComponentImpl) PollNewNotifications(ctx context.Context, userUUID string, limit int) (*types.NewNotifications, error) {
	result := make([]types.Notifications, 0)

	setting, err := c.storage.GetSetting(ctx, userUUID)
	if err != nil {
		return nil, err
	}

	messages, total, err := c.storage.GetUnNotifiedMessages(ctx, userUUID, limit)
	if err != nil {
		return nil, err
	}

	var nextPollTime time.Time
	if total > limit {
		nextPollTime = time.Now().Add(10 * time.Second)
	} else {
		nextPollTime = time.Now().Add(1 * time.Minute)
	}

	if len(messages) == 0 {
		return &types.NewNotifications{NextPollTime: nextPollTime, Data: result}, nil
	}

	msgUUIDs := make([]string, len(messages))
	for i, msg := range messages {
		msgUUIDs[i] = msg.MsgUUID
	}
	if err := c.storage.MarkAsNotified(ctx, userUUID, msgUUIDs); err != nil {
		return nil, err
	}

	if setting != nil && setting.IsDoNotDisturbEnabled {
		return &types.NewNotifications{NextPollTime: nextPollTime, Data: result}, nil
	}

	for _, item := range messages {
		if setting != nil && len(setting.SubNotificationType) > 0 && !containsString(setting.SubNotificationType, item.NotificationType) {
			continue
		}
		result = append(result, toNotification(item))
	}
	return &types.NewNotifications{NextPollTime: nextPollTime, Data: result}, nil
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func (c *notificationComponentImpl) UpdateNotificationSetting(ctx context.Context, userUUID string, req types.UpdateNotificationSettingReq) error {
	if req.IsEmailNotificationEnabled && req.EmailAddress == "" {
		return fmt.Errorf("email address is empty")
	}
	if req.IsEmailNotificationEnabled && !utils.IsValidEmail(req.EmailAddress) {
		return fmt.Errorf("invalid email address")
	}
	if req.IsSMSNotificationEnabled && req.PhoneNumber == "" {
		return fmt.Errorf("phone number is empty")
	}
	if req.IsSMSNotificationEnabled && !utils.IsValidPhoneNumber(req.PhoneNumber) {
		return fmt.Errorf("invalid phone number")
	}

	setting, err := c.storage.GetSetting(ctx, userUUID)
	if err != nil {
		return err
	}
	isNew := setting == nil
	if isNew {
		setting = &database.NotificationSetting{
			UserUUID:   userUUID,
			MessageTTL: database.DefaultMessageTTL,
		}
	}

	setting.SubNotificationType = req.SubNotificationType
	setting.IsEmailNotificationEnabled = req.IsEmailNotificationEnabled
	if req.EmailAddress != "" {
		setting.EmailAddress = req.EmailAddress
	}
	setting.IsSMSNotificationEnabled = req.IsSMSNotificationEnabled
	if req.PhoneNumber != "" {
		setting.PhoneNumber = utils.NormalizePhoneNumber(req.PhoneNumber)
	}
	setting.IsWhatsAppNotificationEnabled = req.IsWhatsAppNotificationEnabled
	setting.IsDoNotDisturbEnabled = req.IsDoNotDisturbEnabled
	if req.MessageTTLSeconds > 0 {
		setting.MessageTTL = time.Duration(req.MessageTTLSeconds) * time.Second
	}

	if isNew {
		return c.storage.CreateSetting(ctx, setting)
	}
	return c.storage.UpdateSetting(ctx, setting)
}

func (c *notificationComponentImpl) GetNotificationSetting(ctx context.Context, userUUID string) (*types.NotificationSettingResp, error) {
	setting, err := c.storage.GetSetting(ctx, userUUID)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		subTypes := make([]string, 0, len(types.AllNotificationTypes()))
		for _, t := range types.AllNotificationTypes() {
			subTypes = append(subTypes, string(t))
		}
		return &types.NotificationSettingResp{
			UserUUID:            userUUID,
			SubNotificationType: subTypes,
			MessageTTLSeconds:   int64(database.DefaultMessageTTL / time.Second),
		}, nil
	}
	return &types.NotificationSettingResp{
		UserUUID:                      setting.UserUUID,
		SubNotificationType:           setting.SubNotificationType,
		IsEmailNotificationEnabled:    setting.IsEmailNotificationEnabled,
		EmailAddress:                  setting.EmailAddress,
		IsSMSNotificationEnabled:      setting.IsSMSNotificationEnabled,
		PhoneNumber:                   setting.PhoneNumber,
		IsWhatsAppNotificationEnabled: setting.IsWhatsAppNotificationEnabled,
		IsDoNotDisturbEnabled:         setting.IsDoNotDisturbEnabled,
		MessageTTLSeconds:             int64(setting.MessageTTL / time.Second),
	}, nil
}
