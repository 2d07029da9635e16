package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// DefaultMessageTTL bounds how long an undelivered in-app message stays
// visible when the user has not chosen a retention period.
const DefaultMessageTTL = 72 * time.Hour

type NotificationMessage struct {
	ID               int64  `bun:",pk,autoincrement" json:"id"`
	MsgUUID          string `bun:",notnull,unique" json:"msg_uuid"`
	NotificationType string `bun:",notnull" json:"notification_type"`
	SenderUUID       string `bun:"" json:"sender_uuid"`
	Summary          string `bun:"" json:"summary"`
	Title            string `bun:",notnull" json:"title"`
	Content          string `bun:",notnull" json:"content"`
	ActionURL        string `bun:"" json:"action_url"`
	Priority         int    `bun:",notnull,default:0" json:"priority"`
	times
}

type NotificationUserMessage struct {
	ID         int64     `bun:",pk,autoincrement" json:"id"`
	MsgUUID    string    `bun:",notnull" json:"msg_uuid"`
	UserUUID   string    `bun:",notnull" json:"user_uuid"`
	ReadAt     time.Time `bun:",nullzero" json:"read_at"`
	IsNotified bool      `bun:",notnull,default:false" json:"is_notified"`
	ExpireAt   time.Time `bun:",nullzero" json:"expire_at"`
	times
}

// NotificationUserMessage joined with its NotificationMessage, backed by
// the notification_user_message_views database view.
type NotificationUserMessageView struct {
	ID               int64     `bun:"" json:"id"`
	MsgUUID          string    `bun:"" json:"msg_uuid"`
	NotificationType string    `bun:"" json:"notification_type"`
	SenderUUID       string    `bun:"" json:"sender_uuid"`
	Summary          string    `bun:"" json:"summary"`
	Title            string    `bun:"" json:"title"`
	Content          string    `bun:"" json:"content"`
	ActionURL        string    `bun:"" json:"action_url"`
	Priority         int       `bun:"" json:"priority"`
	UserUUID         string    `bun:"" json:"user_uuid"`
	ReadAt           time.Time `bun:",nullzero" json:"read_at"`
	IsNotified       bool      `bun:"" json:"is_notified"`
	ExpireAt         time.Time `bun:",nullzero" json:"expire_at"`
	times
}

type NotificationSetting struct {
	ID                            int64         `bun:",pk,autoincrement" json:"id"`
	UserUUID                      string        `bun:",notnull,unique" json:"user_uuid"`
	SubNotificationType           []string      `bun:",array" json:"sub_notification_type"`
	IsEmailNotificationEnabled    bool          `bun:",notnull,default:false" json:"is_email_notification_enabled"`
	EmailAddress                  string        `bun:"" json:"email_address"`
	IsSMSNotificationEnabled      bool          `bun:",notnull,default:false" json:"is_sms_notification_enabled"`
	PhoneNumber                   string        `bun:"" json:"phone_number"`
	IsWhatsAppNotificationEnabled bool          `bun:",notnull,default:false" json:"is_whatsapp_notification_enabled"`
	IsDoNotDisturbEnabled         bool          `bun:",notnull,default:false" json:"is_do_not_disturb_enabled"`
	MessageTTL                    time.Duration `bun:"" json:"message_ttl"`
	times
}

type ListNotificationsParams struct {
	UserUUID         string
	NotificationType string
	TitleKeyword     string
	Page             int
	PageSize         int
	UnreadOnly       bool
}

type NotificationStore interface {
	CreateNotificationMessage(ctx context.Context, message *NotificationMessage) error
	IsNotificationMessageExists(ctx context.Context, msgUUID string) (bool, error)
	CreateUserMessages(ctx context.Context, msgUUID string, userUUIDs []string) (int64, error)
	CreateNotificationMessageForUsers(ctx context.Context, message *NotificationMessage, userUUIDs []string) error
	ListNotificationMessages(ctx context.Context, params ListNotificationsParams) ([]NotificationUserMessageView, int, error)
	GetUnreadCount(ctx context.Context, userUUID string) (int64, error)
	MarkAsRead(ctx context.Context, userUUID string, msgUUIDs []string) error
	MarkAsUnread(ctx context.Context, userUUID string, msgUUIDs []string) error
	MarkAllAsRead(ctx context.Context, userUUID string) error
	DeleteUserMessages(ctx context.Context, userUUID string, msgUUIDs []string) error
	GetUnNotifiedMessages(ctx context.Context, userUUID string, limit int) ([]NotificationUserMessageView, int, error)
	MarkAsNotified(ctx context.Context, userUUID string, msgUUIDs []string) error
	GetSetting(ctx context.Context, userUUID string) (*NotificationSetting, error)
	GetSettingsForUsers(ctx context.Context, userUUIDs []string) ([]NotificationSetting, error)
	CreateSetting(ctx context.Context, setting *NotificationSetting) error
	UpdateSetting(ctx context.Context, setting *NotificationSetting) error
}

type notificationStoreImpl struct {
	db *DB
}

func NewNotificationStore() NotificationStore {
	return &notificationStoreImpl{
		db: defaultDB,
	}
}

func NewNotificationStoreWithDB(db *DB) NotificationStore {
	return &notificationStoreImpl{
		db: db,
	}
}

func (s *notificationStoreImpl) CreateNotificationMessage(ctx context.Context, message *NotificationMessage) error {
	_, err := s.db.Operator.Core.NewInsert().Model(message).Exec(ctx)
	return err
}

func (s *notificationStoreImpl) IsNotificationMessageExists(ctx context.Context, msgUUID string) (bool, error) {
	return s.db.Operator.Core.
		NewSelect().
		Model((*NotificationMessage)(nil)).
		Where("msg_uuid = ?", msgUUID).
		Exists(ctx)
}

func (s *notificationStoreImpl) CreateUserMessages(ctx context.Context, msgUUID string, userUUIDs []string) (int64, error) {
	if len(userUUIDs) == 0 {
		return 0, nil
	}
	userMessages := make([]NotificationUserMessage, 0, len(userUUIDs))
	for _, userUUID := range userUUIDs {
		userMessages = append(userMessages, NotificationUserMessage{
			MsgUUID:  msgUUID,
			UserUUID: userUUID,
		})
	}
	res, err := s.db.Operator.Core.
		NewInsert().
		Model(&userMessages).
		On("CONFLICT (msg_uuid, user_uuid) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *notificationStoreImpl) CreateNotificationMessageForUsers(ctx context.Context, message *NotificationMessage, userUUIDs []string) error {
	return s.db.Operator.Core.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().
			Model(message).
			On("CONFLICT (msg_uuid) DO NOTHING").
			Exec(ctx); err != nil {
			return fmt.Errorf("insert notification message: %w", err)
		}

		userMessages := make([]NotificationUserMessage, 0, len(userUUIDs))
		for _, userUUID := range userUUIDs {
			userMessages = append(userMessages, NotificationUserMessage{
				MsgUUID:  message.MsgUUID,
				UserUUID: userUUID,
			})
		}
		if len(userMessages) == 0 {
			return nil
		}
		if _, err := tx.NewInsert().
			Model(&userMessages).
			On("CONFLICT (msg_uuid, user_uuid) DO NOTHING").
			Exec(ctx); err != nil {
			return fmt.Errorf("insert notification user messages: %w", err)
		}
		return nil
	})
}

func (s *notificationStoreImpl) ListNotificationMessages(ctx context.Context, params ListNotificationsParams) ([]NotificationUserMessageView, int, error) {
	var views []NotificationUserMessageView
	q := s.db.Operator.Core.
		NewSelect().
		Model(&views).
		Where("user_uuid = ?", params.UserUUID)
	if params.NotificationType != "" {
		q = q.Where("notification_type = ?", params.NotificationType)
	}
	if params.TitleKeyword != "" {
		q = q.Where("title ILIKE ?", "%"+params.TitleKeyword+"%")
	}
	if params.UnreadOnly {
		q = q.Where("read_at IS NULL")
	}

	page := params.Page
	if page < 1 {
		page = 1
	}
	pageSize := params.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	total, err := q.
		Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

func (s *notificationStoreImpl) GetUnreadCount(ctx context.Context, userUUID string) (int64, error) {
	count, err := s.db.Operator.Core.
		NewSelect().
		Model((*NotificationUserMessage)(nil)).
		Where("user_uuid = ?", userUUID).
		Where("read_at IS NULL").
		Count(ctx)
	return int64(count), err
}

func (s *notificationStoreImpl) MarkAsRead(ctx context.Context, userUUID string, msgUUIDs []string) error {
	if len(msgUUIDs) == 0 {
		return nil
	}
	_, err := s.db.Operator.Core.
		NewUpdate().
		Model((*NotificationUserMessage)(nil)).
		Set("read_at = ?", time.Now()).
		Where("user_uuid = ?", userUUID).
		Where("msg_uuid IN (?)", bun.In(msgUUIDs)).
		Where("read_at IS NULL").
		Exec(ctx)
	return err
}

func (s *notificationStoreImpl) MarkAsUnread(ctx context.Context, userUUID string, msgUUIDs []string) error {
	if len(msgUUIDs) == 0 {
		return nil
	}
	_, err := s.db.Operator.Core.
		NewUpdate().
		Model((*NotificationUserMessage)(nil)).
		Set("read_at = NULL").
		Where("user_uuid = ?", userUUID).
		Where("msg_uuid IN (?)", bun.In(msgUUIDs)).
		Exec(ctx)
	return err
}

func (s *notificationStoreImpl) MarkAllAsRead(ctx context.Context, userUUID string) error {
	_, err := s.db.Operator.Core.
		NewUpdate().
		Model((*NotificationUserMessage)(nil)).
		Set("read_at = ?", time.Now()).
		Where("user_uuid = ?", userUUID).
		Where("read_at IS NULL").
		Exec(ctx)
	return err
}

func (s *notificationStoreImpl) DeleteUserMessages(ctx context.Context, userUUID string, msgUUIDs []string) error {
	if len(msgUUIDs) == 0 {
		return nil
	}
	_, err := s.db.Operator.Core.
		NewDelete().
		Model((*NotificationUserMessage)(nil)).
		Where("user_uuid = ?", userUUID).
		Where("msg_uuid IN (?)", bun.In(msgUUIDs)).
		Exec(ctx)
	return err
}

func (s *notificationStoreImpl) GetUnNotifiedMessages(ctx context.Context, userUUID string, limit int) ([]NotificationUserMessageView, int, error) {
	var views []NotificationUserMessageView
	total, err := s.db.Operator.Core.
		NewSelect().
		Model(&views).
		Where("user_uuid = ?", userUUID).
		Where("is_notified = false").
		Order("created_at ASC").
		Limit(limit).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

func (s *notificationStoreImpl) MarkAsNotified(ctx context.Context, userUUID string, msgUUIDs []string) error {
	if len(msgUUIDs) == 0 {
		return nil
	}
	_, err := s.db.Operator.Core.
		NewUpdate().
		Model((*NotificationUserMessage)(nil)).
		Set("is_notified = true").
		Where("user_uuid = ?", userUUID).
		Where("msg_uuid IN (?)", bun.In(msgUUIDs)).
		Exec(ctx)
	return err
}

func (s *notificationStoreImpl) GetSetting(ctx context.Context, userUUID string) (*NotificationSetting, error) {
	var setting NotificationSetting
	err := s.db.Operator.Core.
		NewSelect().
		Model(&setting).
		Where("user_uuid = ?", userUUID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

func (s *notificationStoreImpl) GetSettingsForUsers(ctx context.Context, userUUIDs []string) ([]NotificationSetting, error) {
	if len(userUUIDs) == 0 {
		return nil, nil
	}
	var settings []NotificationSetting
	err := s.db.Operator.Core.
		NewSelect().
		Model(&settings).
		Where("user_uuid IN (?)", bun.In(userUUIDs)).
		Scan(ctx)
	return settings, err
}

func (s *notificationStoreImpl) CreateSetting(ctx context.Context, setting *NotificationSetting) error {
	_, err := s.db.Operator.Core.NewInsert().Model(setting).Exec(ctx)
	return err
}

func (s *notificationStoreImpl) UpdateSetting(ctx context.Context, setting *NotificationSetting) error {
	_, err := s.db.Operator.Core.
		NewUpdate().
		Model(setting).
		Where("user_uuid = ?", setting.UserUUID).
		Exec(ctx)
	return err
}
