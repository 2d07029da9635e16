package component

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"educenter.io/educenter-server/builder/store/database"
	"educenter.io/educenter-server/common/types"
)

type fakeNotificationStore struct {
	messages []database.NotificationUserMessageView
	settings map[string]*database.NotificationSetting

	markedRead     []string
	markedAllRead  bool
	markedUnread   []string
	deleted        []string
	markedNotified []string
}

func newFakeNotificationStore() *fakeNotificationStore {
	return &fakeNotificationStore{
		settings: make(map[string]*database.NotificationSetting),
	}
}

func (f *fakeNotificationStore) CreateNotificationMessage(ctx context.Context, message *database.NotificationMessage) error {
	return nil
}

func (f *fakeNotificationStore) IsNotificationMessageExists(ctx context.Context, msgUUID string) (bool, error) {
	return false, nil
}

func (f *fakeNotificationStore) CreateUserMessages(ctx context.Context, msgUUID string, userUUIDs []string) (int64, error) {
	return int64(len(userUUIDs)), nil
}

func (f *fakeNotificationStore) CreateNotificationMessageForUsers(ctx context.Context, message *database.NotificationMessage, userUUIDs []string) error {
	return nil
}

func (f *fakeNotificationStore) ListNotificationMessages(ctx context.Context, params database.ListNotificationsParams) ([]database.NotificationUserMessageView, int, error) {
	return f.messages, len(f.messages), nil
}

func (f *fakeNotificationStore) GetUnreadCount(ctx context.Context, userUUID string) (int64, error) {
	var count int64
	for _, m := range f.messages {
		if m.UserUUID == userUUID && m.ReadAt.IsZero() {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationStore) MarkAsRead(ctx context.Context, userUUID string, msgUUIDs []string) error {
	f.markedRead = append(f.markedRead, msgUUIDs...)
	return nil
}

func (f *fakeNotificationStore) MarkAsUnread(ctx context.Context, userUUID string, msgUUIDs []string) error {
	f.markedUnread = append(f.markedUnread, msgUUIDs...)
	return nil
}

func (f *fakeNotificationStore) MarkAllAsRead(ctx context.Context, userUUID string) error {
	f.markedAllRead = true
	return nil
}

func (f *fakeNotificationStore) DeleteUserMessages(ctx context.Context, userUUID string, msgUUIDs []string) error {
	f.deleted = append(f.deleted, msgUUIDs...)
	return nil
}

func (f *fakeNotificationStore) GetUnNotifiedMessages(ctx context.Context, userUUID string, limit int) ([]database.NotificationUserMessageView, int, error) {
	var unnotified []database.NotificationUserMessageView
	for _, m := range f.messages {
		if m.UserUUID == userUUID && !m.IsNotified {
			unnotified = append(unnotified, m)
		}
	}
	total := len(unnotified)
	if len(unnotified) > limit {
		unnotified = unnotified[:limit]
	}
	return unnotified, total, nil
}

func (f *fakeNotificationStore) MarkAsNotified(ctx context.Context, userUUID string, msgUUIDs []string) error {
	f.markedNotified = append(f.markedNotified, msgUUIDs...)
	return nil
}

func (f *fakeNotificationStore) GetSetting(ctx context.Context, userUUID string) (*database.NotificationSetting, error) {
	return f.settings[userUUID], nil
}

func (f *fakeNotificationStore) GetSettingsForUsers(ctx context.Context, userUUIDs []string) ([]database.NotificationSetting, error) {
	var result []database.NotificationSetting
	for _, uuid := range userUUIDs {
		if s, ok := f.settings[uuid]; ok {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (f *fakeNotificationStore) CreateSetting(ctx context.Context, setting *database.NotificationSetting) error {
	f.settings[setting.UserUUID] = setting
	return nil
}

func (f *fakeNotificationStore) UpdateSetting(ctx context.Context, setting *database.NotificationSetting) error {
	f.settings[setting.UserUUID] = setting
	return nil
}

func unnotifiedMsg(userUUID, msgUUID, notificationType string) database.NotificationUserMessageView {
	return database.NotificationUserMessageView{
		MsgUUID:          msgUUID,
		UserUUID:         userUUID,
		NotificationType: notificationType,
		Title:            "title " + msgUUID,
		Content:          "content " + msgUUID,
	}
}

func TestNotificationComponent_ListNotifications(t *testing.T) {
	store := newFakeNotificationStore()
	readAt := time.Now()
	store.messages = []database.NotificationUserMessageView{
		{MsgUUID: "m1", UserUUID: "u1", NotificationType: string(types.NotificationCenterCreated), Title: "welcome", ReadAt: readAt},
		{MsgUUID: "m2", UserUUID: "u1", NotificationType: string(types.NotificationStaffInvited), Title: "enrolled"},
	}
	c := NewMockNotificationComponent(store)

	list, total, err := c.ListNotifications(context.Background(), "u1", types.NotificationsRequest{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.True(t, list[0].IsRead)
	require.False(t, list[1].IsRead)
	require.Equal(t, types.NotificationStaffInvited, list[1].NotificationType)
}

func TestNotificationComponent_MarkAsRead(t *testing.T) {
	store := newFakeNotificationStore()
	c := NewMockNotificationComponent(store)
	ctx := context.Background()

	err := c.MarkAsRead(ctx, "u1", types.BatchNotificationOperationReq{MsgUUIDs: []string{"m1", "m2"}})
	require.NoError(t, err)
	require.Equal(t, []string{"m1", "m2"}, store.markedRead)
	require.False(t, store.markedAllRead)

	err = c.MarkAsRead(ctx, "u1", types.BatchNotificationOperationReq{MarkAll: true})
	require.NoError(t, err)
	require.True(t, store.markedAllRead)
}

func TestNotificationComponent_PollNewNotifications(t *testing.T) {
	store := newFakeNotificationStore()
	store.messages = []database.NotificationUserMessageView{
		unnotifiedMsg("u1", "m1", string(types.NotificationCenterCreated)),
		unnotifiedMsg("u1", "m2", string(types.NotificationStaffInvited)),
	}
	c := NewMockNotificationComponent(store)

	resp, err := c.PollNewNotifications(context.Background(), "u1", 10)
	require.NoError(t, err)
	require.Len(t, resp.Data, 2)
	require.ElementsMatch(t, []string{"m1", "m2"}, store.markedNotified)
	// low backlog, poll again in about a minute
	require.True(t, resp.NextPollTime.After(time.Now().Add(30*time.Second)))
}

func TestNotificationComponent_PollShortensIntervalOnBacklog(t *testing.T) {
	store := newFakeNotificationStore()
	for _, id := range []string{"m1", "m2", "m3"} {
		store.messages = append(store.messages, unnotifiedMsg("u1", id, string(types.NotificationCenterCreated)))
	}
	c := NewMockNotificationComponent(store)

	resp, err := c.PollNewNotifications(context.Background(), "u1", 2)
	require.NoError(t, err)
	require.Len(t, resp.Data, 2)
	require.True(t, resp.NextPollTime.Before(time.Now().Add(30*time.Second)))
}

func TestNotificationComponent_PollRespectsDoNotDisturb(t *testing.T) {
	store := newFakeNotificationStore()
	store.messages = []database.NotificationUserMessageView{
		unnotifiedMsg("u1", "m1", string(types.NotificationCenterCreated)),
	}
	store.settings["u1"] = &database.NotificationSetting{
		UserUUID:              "u1",
		IsDoNotDisturbEnabled: true,
	}
	c := NewMockNotificationComponent(store)

	resp, err := c.PollNewNotifications(context.Background(), "u1", 10)
	require.NoError(t, err)
	require.Empty(t, resp.Data)
	// still marked so they do not pile up for the next poll
	require.Equal(t, []string{"m1"}, store.markedNotified)
}

func TestNotificationComponent_PollFiltersBySubscribedTypes(t *testing.T) {
	store := newFakeNotificationStore()
	store.messages = []database.NotificationUserMessageView{
		unnotifiedMsg("u1", "m1", string(types.NotificationCenterCreated)),
		unnotifiedMsg("u1", "m2", string(types.NotificationStaffInvited)),
	}
	store.settings["u1"] = &database.NotificationSetting{
		UserUUID:            "u1",
		SubNotificationType: []string{string(types.NotificationStaffInvited)},
	}
	c := NewMockNotificationComponent(store)

	resp, err := c.PollNewNotifications(context.Background(), "u1", 10)
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	require.Equal(t, "m2", resp.Data[0].MsgUUID)
}

func TestNotificationComponent_UpdateNotificationSetting(t *testing.T) {
	store := newFakeNotificationStore()
	c := NewMockNotificationComponent(store)
	ctx := context.Background()

	err := c.UpdateNotificationSetting(ctx, "u1", types.UpdateNotificationSettingReq{
		IsEmailNotificationEnabled: true,
	})
	require.Error(t, err)

	err = c.UpdateNotificationSetting(ctx, "u1", types.UpdateNotificationSettingReq{
		IsEmailNotificationEnabled: true,
		EmailAddress:               "not-an-email",
	})
	require.Error(t, err)

	err = c.UpdateNotificationSetting(ctx, "u1", types.UpdateNotificationSettingReq{
		IsEmailNotificationEnabled: true,
		EmailAddress:               "parent@example.com",
		MessageTTLSeconds:          3600,
	})
	require.NoError(t, err)
	saved := store.settings["u1"]
	require.NotNil(t, saved)
	require.Equal(t, "parent@example.com", saved.EmailAddress)
	require.Equal(t, time.Hour, saved.MessageTTL)

	err = c.UpdateNotificationSetting(ctx, "u1", types.UpdateNotificationSettingReq{
		IsDoNotDisturbEnabled: true,
	})
	require.NoError(t, err)
	require.True(t, store.settings["u1"].IsDoNotDisturbEnabled)
	// email stays from the earlier update
	require.Equal(t, "parent@example.com", store.settings["u1"].EmailAddress)
}

func TestNotificationComponent_GetNotificationSettingDefaults(t *testing.T) {
	store := newFakeNotificationStore()
	c := NewMockNotificationComponent(store)

	resp, err := c.GetNotificationSetting(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, "u1", resp.UserUUID)
	require.Len(t, resp.SubNotificationType, len(types.AllNotificationTypes()))
	require.Equal(t, int64(database.DefaultMessageTTL/time.Second), resp.MessageTTLSeconds)
}
