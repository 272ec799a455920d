package cache

import "taskflow/internal/models"

// Notifications is the notification cache. It is refreshed on a fixed
// interval by the app's poll loop, the client's only autonomous background
// activity, and additionally on demand when the panel opens.
type Notifications struct {
	*Cache[models.Notification]
}

// NewNotifications creates the notification cache.
func NewNotifications() *Notifications {
	return &Notifications{
		Cache: New(func(n models.Notification) string { return n.ID }),
	}
}

// UnreadCount computes the unread count from the cached items.
func (n *Notifications) UnreadCount() int {
	count := 0
	for _, item := range n.Items() {
		if !item.Read {
			count++
		}
	}
	return count
}

// Recent returns up to limit notifications for display. The server lists
// most-recent-first, so this is a prefix.
func (n *Notifications) Recent(limit int) []models.Notification {
	items := n.Items()
	if len(items) > limit {
		return items[:limit]
	}
	return items
}

// MarkRead flips one notification to read. It reports whether the item was
// present and previously unread, so the unread count drops by exactly one
// per effective call and never below zero.
func (n *Notifications) MarkRead(id string) bool {
	changed := false
	n.Patch(id, func(item *models.Notification) {
		if !item.Read {
			item.Read = true
			changed = true
		}
	})
	return changed
}
