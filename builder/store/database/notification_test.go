package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"educenter.io/educenter-server/builder/store/database"
	"educenter.io/educenter-server/common/tests"
)

func TestNotificationStore_ListNotificationMessages(t *testing.T) {
	db := tests.InitTestDB()
	defer db.Close()
	ns := database.NewNotificationStoreWithDB(db)

	message := &database.NotificationMessage{
		MsgUUID:          "test_uuid",
		NotificationType: "CENTER_CREATED",
		Title:            "Center created",
		Content:          "Sunrise Learning Center is live",
		Priority:         4,
	}
	err := ns.CreateNotificationMessage(context.TODO(), message)
	require.Nil(t, err)
	created, err := ns.CreateUserMessages(context.TODO(), message.MsgUUID, []string{"user-1"})
	require.Nil(t, err)
	require.Equal(t, int64(1), created)

	views, total, err := ns.ListNotificationMessages(context.TODO(), database.ListNotificationsParams{
		UserUUID:         "user-1",
		NotificationType: "CENTER_CREATED",
		TitleKeyword:     "Center",
		Page:             1,
		PageSize:         10,
	})
	require.Nil(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, 1, len(views))
	require.Equal(t, "test_uuid", views[0].MsgUUID)
}

func TestNotificationStore_CreateNotificationMessageForUsers(t *testing.T) {
	db := tests.InitTestDB()
	defer db.Close()
	ns := database.NewNotificationStoreWithDB(db)

	message := &database.NotificationMessage{
		MsgUUID:          "test_uuid_1",
		NotificationType: "STAFF_INVITED",
		Title:            "You are invited",
		Content:          "Join the Riverside branch team",
		Priority:         4,
	}

	err := ns.CreateNotificationMessageForUsers(context.TODO(), message, []string{"user-1", "user-2"})
	require.Nil(t, err)

	for _, userUUID := range []string{"user-1", "user-2"} {
		views, total, err := ns.ListNotificationMessages(context.TODO(), database.ListNotificationsParams{
			UserUUID: userUUID,
			Page:     1,
			PageSize: 10,
		})
		require.Nil(t, err)
		require.Equal(t, 1, total)
		require.Equal(t, 1, len(views))
	}

	// inserting the same message again must not duplicate
	err = ns.CreateNotificationMessageForUsers(context.TODO(), message, []string{"user-1"})
	require.Nil(t, err)
	_, total, err := ns.ListNotificationMessages(context.TODO(), database.ListNotificationsParams{
		UserUUID: "user-1",
		Page:     1,
		PageSize: 10,
	})
	require.Nil(t, err)
	require.Equal(t, 1, total)
}

func TestNotificationStore_IsNotificationMessageExists(t *testing.T) {
	db := tests.InitTestDB()
	defer db.Close()
	ns := database.NewNotificationStoreWithDB(db)

	exists, err := ns.IsNotificationMessageExists(context.TODO(), "missing")
	require.Nil(t, err)
	require.False(t, exists)

	err = ns.CreateNotificationMessage(context.TODO(), &database.NotificationMessage{
		MsgUUID:          "present",
		NotificationType: "OTP",
		Title:            "Verification code",
		Content:          "123456",
	})
	require.Nil(t, err)

	exists, err = ns.IsNotificationMessageExists(context.TODO(), "present")
	require.Nil(t, err)
	require.True(t, exists)
}

func TestNotificationStore_UnreadCountAndMarkAsRead(t *testing.T) {
	db := tests.InitTestDB()
	defer db.Close()
	ns := database.NewNotificationStoreWithDB(db)

	message := &database.NotificationMessage{
		MsgUUID:          "test_uuid",
		NotificationType: "ACCESS_GRANTED",
		Title:            "Access granted",
		Content:          "You now have portal access",
	}
	err := ns.CreateNotificationMessageForUsers(context.TODO(), message, []string{"user-3"})
	require.Nil(t, err)

	count, err := ns.GetUnreadCount(context.TODO(), "user-3")
	require.Nil(t, err)
	require.Equal(t, int64(1), count)

	err = ns.MarkAsRead(context.TODO(), "user-3", []string{"test_uuid"})
	require.Nil(t, err)

	count, err = ns.GetUnreadCount(context.TODO(), "user-3")
	require.Nil(t, err)
	require.Equal(t, int64(0), count)

	err = ns.MarkAsUnread(context.TODO(), "user-3", []string{"test_uuid"})
	require.Nil(t, err)

	count, err = ns.GetUnreadCount(context.TODO(), "user-3")
	require.Nil(t, err)
	require.Equal(t, int64(1), count)
}

func TestNotificationStore_MarkAllAsRead(t *testing.T) {
	db := tests.InitTestDB()
	defer db.Close()
	ns := database.NewNotificationStoreWithDB(db)

	for _, msgUUID := range []string{"uuid-1", "uuid-2"} {
		err := ns.CreateNotificationMessageForUsers(context.TODO(), &database.NotificationMessage{
			MsgUUID:          msgUUID,
			NotificationType: "SYSTEM_MAINTENANCE",
			Title:            "Maintenance window",
			Content:          "Portal unavailable Sunday 02:00-04:00",
		}, []string{"user-1"})
		require.Nil(t, err)
	}

	err := ns.MarkAllAsRead(context.TODO(), "user-1")
	require.Nil(t, err)

	count, err := ns.GetUnreadCount(context.TODO(), "user-1")
	require.Nil(t, err)
	require.Equal(t, int64(0), count)
}

func TestNotificationStore_DeleteUserMessages(t *testing.T) {
	db := tests.InitTestDB()
	defer db.Close()
	ns := database.NewNotificationStoreWithDB(db)

	err := ns.CreateNotificationMessageForUsers(context.TODO(), &database.NotificationMessage{
		MsgUUID:          "uuid-1",
		NotificationType: "BRANCH_DELETED",
		Title:            "Branch removed",
		Content:          "The Riverside branch was removed",
	}, []string{"user-1"})
	require.Nil(t, err)

	err = ns.DeleteUserMessages(context.TODO(), "user-1", []string{"uuid-1"})
	require.Nil(t, err)

	_, total, err := ns.ListNotificationMessages(context.TODO(), database.ListNotificationsParams{
		UserUUID: "user-1",
		Page:     1,
		PageSize: 10,
	})
	require.Nil(t, err)
	require.Equal(t, 0, total)
}

func TestNotificationStore_Settings(t *testing.T) {
	db := tests.InitTestDB()
	defer db.Close()
	ns := database.NewNotificationStoreWithDB(db)

	missing, err := ns.GetSetting(context.TODO(), "nobody")
	require.Nil(t, err)
	require.Nil(t, missing)

	setting := &database.NotificationSetting{
		UserUUID:                   "user-1",
		SubNotificationType:        []string{"CENTER_CREATED"},
		IsEmailNotificationEnabled: true,
		EmailAddress:               "parent@example.org",
		MessageTTL:                 24 * time.Hour,
	}
	err = ns.CreateSetting(context.TODO(), setting)
	require.Nil(t, err)

	result, err := ns.GetSetting(context.TODO(), "user-1")
	require.Nil(t, err)
	require.Equal(t, setting.UserUUID, result.UserUUID)
	require.True(t, result.IsEmailNotificationEnabled)

	setting.IsEmailNotificationEnabled = false
	err = ns.UpdateSetting(context.TODO(), setting)
	require.Nil(t, err)

	result, err = ns.GetSetting(context.TODO(), "user-1")
	require.Nil(t, err)
	require.False(t, result.IsEmailNotificationEnabled)

	settings, err := ns.GetSettingsForUsers(context.TODO(), []string{"user-1", "nobody"})
	require.Nil(t, err)
	require.Equal(t, 1, len(settings))
}
