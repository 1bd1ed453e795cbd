package notifications

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/komiteplus/committee-backend/internal/autherrors"
	"github.com/komiteplus/committee-backend/internal/models"
	"github.com/komiteplus/committee-backend/internal/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func notification(userID uuid.UUID, content string, read bool, age time.Duration) models.Notification {
	return models.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      "task_assigned",
		Content:   content,
		IsRead:    read,
		CreatedAt: time.Now().Add(-age),
	}
}

func TestOpenLoadsNewestFirst(t *testing.T) {
	mc := platform.NewMemoryClient()
	subject := uuid.New()
	mc.InsertNotification(notification(subject, "oldest", true, 3*time.Hour))
	mc.InsertNotification(notification(subject, "middle", false, 2*time.Hour))
	mc.InsertNotification(notification(subject, "newest", false, time.Hour))
	mc.InsertNotification(notification(uuid.New(), "other user", false, time.Minute))

	c, err := Open(mc, subject)
	require.NoError(t, err)
	defer c.Close()

	items := c.Notifications()
	require.Len(t, items, 3)
	assert.Equal(t, "newest", items[0].Content)
	assert.Equal(t, "middle", items[1].Content)
	assert.Equal(t, "oldest", items[2].Content)
	assert.Equal(t, 2, c.UnreadCount())
}

func TestOpenFailurePropagates(t *testing.T) {
	mc := platform.NewMemoryClient()
	mc.ListNotificationsErr = errors.New("connection refused")

	c, err := Open(mc, uuid.New())
	require.Error(t, err)
	assert.Nil(t, c)
	var syncErr *autherrors.NotificationSyncError
	assert.ErrorAs(t, err, &syncErr)
}

func TestInsertForSubjectIsPrepended(t *testing.T) {
	mc := platform.NewMemoryClient()
	subject := uuid.New()
	mc.InsertNotification(notification(subject, "existing", true, time.Hour))

	c, err := Open(mc, subject)
	require.NoError(t, err)
	defer c.Close()

	mc.InsertNotification(notification(subject, "fresh", false, 0))

	items := c.Notifications()
	require.Len(t, items, 2)
	assert.Equal(t, "fresh", items[0].Content)
	assert.Equal(t, 1, c.UnreadCount())
}

func TestInsertForOtherUserIsIgnored(t *testing.T) {
	mc := platform.NewMemoryClient()
	subject := uuid.New()

	c, err := Open(mc, subject)
	require.NoError(t, err)
	defer c.Close()

	mc.InsertNotification(notification(uuid.New(), "not yours", false, 0))
	assert.Empty(t, c.Notifications())
	assert.Equal(t, 0, c.UnreadCount())
}

func TestMarkAsReadRemoteThenLocal(t *testing.T) {
	mc := platform.NewMemoryClient()
	subject := uuid.New()
	n := notification(subject, "unread", false, time.Hour)
	mc.InsertNotification(n)

	c, err := Open(mc, subject)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.MarkAsRead(n.ID))
	assert.True(t, c.Notifications()[0].IsRead)
	assert.Equal(t, 0, c.UnreadCount())
	assert.True(t, mc.Notifications()[0].IsRead)
}

// Remote failure leaves local state untouched: the local flip happens
// only after the remote call succeeds, so there is nothing to roll
// back.
func TestMarkAsReadRemoteFailureLeavesLocalState(t *testing.T) {
	mc := platform.NewMemoryClient()
	subject := uuid.New()
	n := notification(subject, "unread", false, time.Hour)
	mc.InsertNotification(n)

	c, err := Open(mc, subject)
	require.NoError(t, err)
	defer c.Close()

	mc.MarkReadErr = errors.New("network down")
	err = c.MarkAsRead(n.ID)
	require.Error(t, err)
	var syncErr *autherrors.NotificationSyncError
	assert.ErrorAs(t, err, &syncErr)
	assert.False(t, c.Notifications()[0].IsRead)
	assert.Equal(t, 1, c.UnreadCount())
}

func TestMarkAllAsRead(t *testing.T) {
	mc := platform.NewMemoryClient()
	subject := uuid.New()
	mc.InsertNotification(notification(subject, "already read", true, 3*time.Hour))
	mc.InsertNotification(notification(subject, "unread one", false, 2*time.Hour))
	mc.InsertNotification(notification(subject, "unread two", false, time.Hour))

	c, err := Open(mc, subject)
	require.NoError(t, err)
	defer c.Close()
	require.Equal(t, 2, c.UnreadCount())

	require.NoError(t, c.MarkAllAsRead())
	assert.Equal(t, 0, c.UnreadCount())
	for _, n := range c.Notifications() {
		assert.True(t, n.IsRead)
	}
	for _, n := range mc.Notifications() {
		assert.True(t, n.IsRead)
	}
}

func TestMarkAllAsReadRemoteFailureLeavesLocalState(t *testing.T) {
	mc := platform.NewMemoryClient()
	subject := uuid.New()
	mc.InsertNotification(notification(subject, "unread", false, time.Hour))

	c, err := Open(mc, subject)
	require.NoError(t, err)
	defer c.Close()

	mc.MarkAllReadErr = errors.New("network down")
	require.Error(t, c.MarkAllAsRead())
	assert.Equal(t, 1, c.UnreadCount())
}

func TestCloseStopsDelivery(t *testing.T) {
	mc := platform.NewMemoryClient()
	subject := uuid.New()

	c, err := Open(mc, subject)
	require.NoError(t, err)
	c.Close()

	mc.InsertNotification(notification(subject, "after close", false, 0))
	assert.Empty(t, c.Notifications())
}
