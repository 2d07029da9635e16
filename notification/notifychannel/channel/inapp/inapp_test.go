package inapp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"educenter.io/educenter-server/builder/store/database"
	"educenter.io/educenter-server/common/config"
	"educenter.io/educenter-server/common/types"
	"educenter.io/educenter-server/notification/notifychannel"
)

type fakeMessageStore struct {
	database.NotificationStore

	existing map[string]bool
	created  *database.NotificationMessage
	users    []string
}

func (f *fakeMessageStore) IsNotificationMessageExists(ctx context.Context, msgUUID string) (bool, error) {
	return f.existing[msgUUID], nil
}

func (f *fakeMessageStore) CreateNotificationMessageForUsers(ctx context.Context, message *database.NotificationMessage, userUUIDs []string) error {
	f.created = message
	f.users = userUUIDs
	return nil
}

func TestInAppSend_PersistsMessageForUsers(t *testing.T) {
	store := &fakeMessageStore{}
	channel := NewChannel(&config.Config{}, store)

	err := channel.Send(context.Background(), &notifychannel.NotifyRequest{
		Payload: types.InAppPayload{
			UserUUIDs: []string{"user-1", "user-2"},
			Title:     "Branch created",
			Message:   "Riverside is open",
			Data:      map[string]any{"actionUrl": "/branches/riverside"},
		},
		NotificationType: types.NotificationBranchCreated,
		MsgUUID:          "msg-inapp-1",
		Priority:         types.PriorityNormal,
	})
	require.NoError(t, err)
	require.NotNil(t, store.created)
	assert.Equal(t, "msg-inapp-1", store.created.MsgUUID)
	assert.Equal(t, string(types.NotificationBranchCreated), store.created.NotificationType)
	assert.Equal(t, "/branches/riverside", store.created.ActionURL)
	assert.Equal(t, int(types.PriorityNormal), store.created.Priority)
	assert.Equal(t, []string{"user-1", "user-2"}, store.users)
}

func TestInAppSend_SkipsExistingMessage(t *testing.T) {
	store := &fakeMessageStore{existing: map[string]bool{"msg-inapp-2": true}}
	channel := NewChannel(&config.Config{}, store)

	err := channel.Send(context.Background(), &notifychannel.NotifyRequest{
		Payload: types.InAppPayload{
			UserUUIDs: []string{"user-1"},
			Title:     "Branch created",
			Message:   "Riverside is open",
		},
		NotificationType: types.NotificationBranchCreated,
		MsgUUID:          "msg-inapp-2",
	})
	require.NoError(t, err)
	assert.Nil(t, store.created, "duplicate message must not be persisted again")
}
