// Package notifications maintains a per-user, in-memory view of the
// notifications table, kept current by the platform insert stream.
package notifications

import (
	"sync"

	"github.com/google/uuid"
	"github.com/komiteplus/committee-backend/internal/autherrors"
	"github.com/komiteplus/committee-backend/internal/models"
	"github.com/komiteplus/committee-backend/internal/platform"
)

// Channel holds one subject's notifications, newest first. The insert
// stream carries every row in the table; the channel filters to rows
// owned by its subject before touching local state. It only listens
// for inserts, so read-state updates need no stream coordination.
type Channel struct {
	client  platform.Client
	subject uuid.UUID

	mu    sync.Mutex
	items []models.Notification
	unsub platform.Unsubscribe
}

// Open loads the subject's notifications and subscribes to the insert
// stream. A failed initial load returns a NotificationSyncError and
// no channel.
func Open(client platform.Client, subject uuid.UUID) (*Channel, error) {
	items, err := client.ListNotifications(subject)
	if err != nil {
		return nil, &autherrors.NotificationSyncError{Op: "initial load", Err: err}
	}

	c := &Channel{
		client:  client,
		subject: subject,
		items:   items,
	}
	c.unsub = client.SubscribeToInserts(c.handleInsert)
	return c, nil
}

// Close unsubscribes from the insert stream.
func (c *Channel) Close() {
	c.mu.Lock()
	unsub := c.unsub
	c.unsub = nil
	c.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

func (c *Channel) handleInsert(n models.Notification) {
	if n.UserID != c.subject {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	// Prepend: the initial load is newest-first and inserts arrive in
	// time order.
	c.items = append([]models.Notification{n}, c.items...)
}

// Notifications returns a copy of the current view, newest first.
func (c *Channel) Notifications() []models.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Notification, len(c.items))
	copy(out, c.items)
	return out
}

// UnreadCount counts locally cached unread rows.
func (c *Channel) UnreadCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := 0
	for _, n := range c.items {
		if !n.IsRead {
			count++
		}
	}
	return count
}

// MarkAsRead flips is_read remotely, then locally. Local state is
// untouched when the remote update fails.
func (c *Channel) MarkAsRead(id uuid.UUID) error {
	if err := c.client.MarkNotificationRead(id); err != nil {
		return &autherrors.NotificationSyncError{Op: "mark as read", Err: err}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i].IsRead = true
			break
		}
	}
	return nil
}

// MarkAllAsRead bulk-updates the subject's unread rows remotely, then
// flips the local view.
func (c *Channel) MarkAllAsRead() error {
	if err := c.client.MarkAllNotificationsRead(c.subject); err != nil {
		return &autherrors.NotificationSyncError{Op: "mark all as read", Err: err}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		c.items[i].IsRead = true
	}
	return nil
}
