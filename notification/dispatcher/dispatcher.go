package dispatcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"educenter.io/educenter-server/builder/store/cache"
	"educenter.io/educenter-server/builder/store/database"
	"educenter.io/educenter-server/common/config"
	"educenter.io/educenter-server/common/types"
	"educenter.io/educenter-server/notification/eventmap"
	"educenter.io/educenter-server/notification/manifest"
	"educenter.io/educenter-server/notification/notifychannel"
	notifychannelfactory "educenter.io/educenter-server/notification/notifychannel/factory"
	"educenter.io/educenter-server/notification/payload"
	"educenter.io/educenter-server/notification/resolver"
	"educenter.io/educenter-server/notification/tmplmgr"
	"educenter.io/educenter-server/notification/utils"
	"educenter.io/educenter-server/notification/varcheck"
)

const (
	retryTaskKeyPrefix = "notification:retry_tasks:"
	retryTaskTTL       = 10 * time.Minute
)

// Dispatcher fans one dispatch message out to every audience/channel pair
// the manifest declares, with bounded concurrency. One failing recipient
// or channel never blocks its siblings.
type Dispatcher struct {
	config          *config.Config
	templateManager *tmplmgr.TemplateManager
	factory         notifychannelfactory.Factory
	redis           cache.RedisClient
	settings        database.NotificationStore
	gate            varcheck.VariableGate
}

func NewDispatcher(config *config.Config, templateManager *tmplmgr.TemplateManager, factory notifychannelfactory.Factory, settings database.NotificationStore) (*Dispatcher, error) {
	redisClient, err := cache.NewCache(context.Background(), cache.RedisConfig{
		Addr:     config.Redis.Endpoint,
		Username: config.Redis.User,
		Password: config.Redis.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("creating redis client: %w", err)
	}
	return &Dispatcher{
		config:          config,
		templateManager: templateManager,
		factory:         factory,
		redis:           redisClient,
		settings:        settings,
		gate:            varcheck.VariableGate{Strict: config.Notification.StrictValidation},
	}, nil
}

// dispatchTask is one audience/channel unit of work.
type dispatchTask struct {
	audienceID types.AudienceID
	channel    types.NotificationChannel
}

func (t dispatchTask) String() string {
	return string(t.audienceID) + "/" + string(t.channel)
}

type taskOutcome struct {
	task   dispatchTask
	result types.BulkResult
	// non-nil when the channel send itself failed
	err error
}

// ProcessMessage maps the event, resolves the manifest and delivers to all
// audiences and channels. The returned BulkResult covers every recipient;
// the returned error is non-nil only for retryable send failures, so the
// queue redelivers and the retry bookkeeping narrows the next attempt to
// the channels that failed.
func (d *Dispatcher) ProcessMessage(ctx context.Context, msg types.DispatchMessage) (*types.BulkResult, error) {
	notificationType, ok := eventmap.MapEvent(msg.EventID)
	if !ok {
		unmappedEventsTotal.WithLabelValues(string(msg.EventID)).Inc()
		slog.Log(ctx, eventmap.UnmappedSeverity(msg.EventID), "no notification mapping for event",
			"event_id", msg.EventID, "msg_uuid", msg.MsgUUID)
		return &types.BulkResult{}, nil
	}

	m, ok := manifest.GetManifest(notificationType)
	if !ok {
		return nil, fmt.Errorf("no manifest registered for notification type %s", notificationType)
	}

	params := map[string]any{}
	if msg.Parameters != "" {
		if err := json.Unmarshal([]byte(msg.Parameters), &params); err != nil {
			return nil, fmt.Errorf("unmarshal dispatch parameters for %s: %w", msg.MsgUUID, err)
		}
	}
	env := ExtractEnvelope(params)

	tasks := collectTasks(m, env.Profile)
	if len(tasks) == 0 {
		slog.Warn("no dispatch tasks for notification", "notification_type", notificationType, "msg_uuid", msg.MsgUUID)
		return &types.BulkResult{}, nil
	}

	retryTasks, err := d.getRetryTasks(ctx, msg)
	if err != nil {
		slog.Warn("failed to check retry tasks", "msg_uuid", msg.MsgUUID, "error", err)
	}
	if len(retryTasks) > 0 {
		slog.Info("retrying failed tasks only", "msg_uuid", msg.MsgUUID, "retry_tasks", retryTasks)
		tasks = filterTasks(tasks, retryTasks)
	}

	outcomes := make([]taskOutcome, len(tasks))
	var g errgroup.Group
	g.SetLimit(d.config.Notification.DispatchConcurrency)
	for i, task := range tasks {
		g.Go(func() error {
			outcomes[i] = d.processTask(ctx, msg, notificationType, m, task, params, env)
			return nil
		})
	}
	_ = g.Wait()

	result := &types.BulkResult{}
	var toRetry []string
	var firstRetryErr error
	for _, outcome := range outcomes {
		result.Total += outcome.result.Total
		result.Sent += outcome.result.Sent
		result.Failed += outcome.result.Failed
		result.Skipped += outcome.result.Skipped
		result.Errors = append(result.Errors, outcome.result.Errors...)

		dispatchTotal.WithLabelValues(string(outcome.task.channel), statusLabel(outcome)).Inc()
		if outcome.err != nil && utils.IsErrSendMsg(outcome.err) {
			toRetry = append(toRetry, outcome.task.String())
			if firstRetryErr == nil {
				firstRetryErr = outcome.err
			}
		}
	}

	d.logResult(ctx, msg, notificationType, result)

	if len(toRetry) > 0 {
		if err := d.setRetryTasks(ctx, msg, toRetry); err != nil {
			slog.Error("failed to record retry tasks", "msg_uuid", msg.MsgUUID, "retry_tasks", toRetry, "error", err)
		}
		return result, firstRetryErr
	}

	if err := d.cleanRetryTasks(ctx, msg); err != nil {
		slog.Error("failed to clean retry tasks", "msg_uuid", msg.MsgUUID, "error", err)
	}
	return result, nil
}

func collectTasks(m manifest.Manifest, profile types.ProfileType) []dispatchTask {
	var tasks []dispatchTask
	for _, audienceID := range m.AudienceIDs() {
		audience := m.Audiences[audienceID]
		for _, channel := range resolver.ResolveChannels(audience, profile) {
			tasks = append(tasks, dispatchTask{audienceID: audienceID, channel: channel})
		}
	}
	return tasks
}

func filterTasks(tasks []dispatchTask, keys []string) []dispatchTask {
	keep := make(map[string]bool, len(keys))
	for _, key := range keys {
		keep[key] = true
	}
	var filtered []dispatchTask
	for _, task := range tasks {
		if keep[task.String()] {
			filtered = append(filtered, task)
		}
	}
	return filtered
}

func (d *Dispatcher) processTask(ctx context.Context, msg types.DispatchMessage, notificationType types.NotificationType, m manifest.Manifest, task dispatchTask, params map[string]any, env RecipientEnvelope) taskOutcome {
	out := taskOutcome{task: task}

	channelConfig, ok := resolver.ResolveChannelConfig(m, task.audienceID, task.channel)
	if !ok {
		return out
	}

	recipients, invalid := d.recipientsFor(ctx, task.channel, env)
	out.result.Total = len(recipients) + len(invalid)
	for _, bad := range invalid {
		out.result.AddError(bad.recipient, task.channel, bad.reason)
	}
	if len(recipients) == 0 {
		if out.result.Total == 0 {
			slog.Debug("no recipients for channel", "msg_uuid", msg.MsgUUID, "channel", task.channel)
		}
		return out
	}

	skip, err := d.gate.Check(m, task.audienceID, task.channel, params)
	if err != nil {
		for _, recipient := range recipients {
			out.result.AddError(recipient, task.channel, err.Error())
		}
		return out
	}
	if skip {
		out.result.Skipped += len(recipients)
		return out
	}

	notifier, err := d.factory.GetChannel(string(task.channel))
	if err != nil {
		for _, recipient := range recipients {
			out.result.AddError(recipient, task.channel, err.Error())
		}
		return out
	}

	var rendered types.RenderedNotification
	if notifier.IsFormatRequired() {
		locale, usedFallback := resolver.ResolveLocale(d.templateManager, task.channel, channelConfig.Template, env.Locale, channelConfig.Locale)
		if usedFallback {
			slog.Debug("template locale fallback", "msg_uuid", msg.MsgUUID, "channel", task.channel,
				"requested", env.Locale, "used", locale)
		}
		rendered, err = d.templateManager.Render(notificationType, task.channel, channelConfig.Template, locale, params)
		if err != nil {
			for _, recipient := range recipients {
				out.result.AddError(recipient, task.channel, fmt.Sprintf("render template: %v", err))
			}
			return out
		}
		if task.channel == types.ChannelEmail && rendered.Subject == "" {
			rendered.Subject = channelConfig.Subject
		}
	}

	channelPayload := payload.Build(task.channel, buildEnvelope(task.channel, recipients), rendered, params, m, channelConfig)
	if channelPayload == nil {
		for _, recipient := range recipients {
			out.result.AddError(recipient, task.channel, "cannot build channel payload")
		}
		return out
	}

	req := &notifychannel.NotifyRequest{
		Payload:          channelPayload,
		Receiver:         buildReceiver(task.channel, recipients, env.Profile),
		NotificationType: notificationType,
		MsgUUID:          msg.MsgUUID,
		Priority:         messagePriority(msg, m),
		CorrelationID:    msg.CorrelationID,
	}
	if err := notifier.Send(ctx, req); err != nil {
		out.err = err
		for _, recipient := range recipients {
			out.result.AddError(recipient, task.channel, err.Error())
		}
		slog.Error("failed to send notification", "msg_uuid", msg.MsgUUID, "channel", task.channel,
			"audience", task.audienceID, "error", err)
		return out
	}

	out.result.Sent = len(recipients)
	return out
}

type invalidRecipient struct {
	recipient string
	reason    string
}

func (d *Dispatcher) recipientsFor(ctx context.Context, channel types.NotificationChannel, env RecipientEnvelope) (valid []string, invalid []invalidRecipient) {
	switch channel {
	case types.ChannelEmail:
		emails := env.Emails
		if len(emails) == 0 && len(env.UserUUIDs) > 0 {
			emails = d.emailsFromSettings(ctx, env.UserUUIDs)
		}
		for _, email := range emails {
			if utils.IsValidEmail(email) {
				valid = append(valid, email)
			} else {
				invalid = append(invalid, invalidRecipient{recipient: email, reason: "invalid email address"})
			}
		}
	case types.ChannelSMS, types.ChannelWhatsApp:
		phones := env.PhoneNumbers
		if len(phones) == 0 && len(env.UserUUIDs) > 0 {
			phones = d.phonesFromSettings(ctx, env.UserUUIDs)
		}
		for _, phone := range phones {
			if utils.IsValidPhoneNumber(phone) {
				valid = append(valid, utils.NormalizePhoneNumber(phone))
			} else {
				invalid = append(invalid, invalidRecipient{recipient: phone, reason: "invalid phone number"})
			}
		}
	case types.ChannelInApp, types.ChannelPush:
		for _, userUUID := range env.UserUUIDs {
			if userUUID != "" {
				valid = append(valid, userUUID)
			}
		}
	}
	return valid, invalid
}

// emailsFromSettings falls back to stored notification settings when the
// event carries user uuids but no addresses. Users who disabled email
// notifications are silently excluded.
func (d *Dispatcher) emailsFromSettings(ctx context.Context, userUUIDs []string) []string {
	if d.settings == nil {
		return nil
	}
	settings, err := d.settings.GetSettingsForUsers(ctx, userUUIDs)
	if err != nil {
		slog.Warn("failed to load notification settings", "error", err)
		return nil
	}
	var emails []string
	for _, setting := range settings {
		if setting.IsEmailNotificationEnabled && setting.EmailAddress != "" {
			emails = append(emails, setting.EmailAddress)
		}
	}
	return emails
}

func (d *Dispatcher) phonesFromSettings(ctx context.Context, userUUIDs []string) []string {
	if d.settings == nil {
		return nil
	}
	settings, err := d.settings.GetSettingsForUsers(ctx, userUUIDs)
	if err != nil {
		slog.Warn("failed to load notification settings", "error", err)
		return nil
	}
	var phones []string
	for _, setting := range settings {
		if setting.IsSMSNotificationEnabled && setting.PhoneNumber != "" {
			phones = append(phones, setting.PhoneNumber)
		}
	}
	return phones
}

func buildEnvelope(channel types.NotificationChannel, recipients []string) payload.Envelope {
	switch channel {
	case types.ChannelEmail:
		return payload.Envelope{Emails: recipients}
	case types.ChannelSMS, types.ChannelWhatsApp:
		return payload.Envelope{PhoneNumbers: recipients}
	default:
		return payload.Envelope{UserUUIDs: recipients}
	}
}

func buildReceiver(channel types.NotificationChannel, recipients []string, profile types.ProfileType) *notifychannel.Receiver {
	receiver := &notifychannel.Receiver{Profile: profile}
	switch channel {
	case types.ChannelEmail:
		receiver.AddRecipients(notifychannel.RecipientKeyUserEmails, recipients)
	case types.ChannelSMS, types.ChannelWhatsApp:
		receiver.AddRecipients(notifychannel.RecipientKeyUserPhones, recipients)
	default:
		receiver.AddRecipients(notifychannel.RecipientKeyUserUUIDs, recipients)
	}
	return receiver
}

func messagePriority(msg types.DispatchMessage, m manifest.Manifest) types.NotificationPriority {
	if msg.Priority > 0 {
		return msg.Priority
	}
	return m.Priority
}

// logResult keeps small clean dispatches out of the log: a completion line
// is written only for batches over the threshold or with at least one failure.
func (d *Dispatcher) logResult(ctx context.Context, msg types.DispatchMessage, notificationType types.NotificationType, result *types.BulkResult) {
	if result.Failed == 0 && result.Total <= d.config.Notification.BatchLogThreshold {
		return
	}
	attrs := []any{
		"msg_uuid", msg.MsgUUID,
		"notification_type", notificationType,
		"correlation_id", msg.CorrelationID,
		"total", result.Total,
		"sent", result.Sent,
		"failed", result.Failed,
		"skipped", result.Skipped,
	}
	if result.Failed > 0 {
		slog.ErrorContext(ctx, "dispatch finished with failures", append(attrs, "errors", result.Errors)...)
		return
	}
	slog.InfoContext(ctx, "dispatch finished (batch)", attrs...)
}

func statusLabel(outcome taskOutcome) string {
	switch {
	case outcome.err != nil || outcome.result.Failed > 0:
		return "failed"
	case outcome.result.Skipped > 0 && outcome.result.Sent == 0:
		return "skipped"
	default:
		return "sent"
	}
}

func (d *Dispatcher) setRetryTasks(ctx context.Context, msg types.DispatchMessage, taskKeys []string) error {
	key := retryTaskKeyPrefix + msg.MsgUUID
	return d.redis.SetEx(ctx, key, strings.Join(taskKeys, ","), retryTaskTTL)
}

func (d *Dispatcher) cleanRetryTasks(ctx context.Context, msg types.DispatchMessage) error {
	key := retryTaskKeyPrefix + msg.MsgUUID
	return d.redis.Del(ctx, key)
}

func (d *Dispatcher) getRetryTasks(ctx context.Context, msg types.DispatchMessage) ([]string, error) {
	key := retryTaskKeyPrefix + msg.MsgUUID
	value, err := d.redis.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	if value == "" {
		return nil, nil
	}
	return strings.Split(value, ","), nil
}
