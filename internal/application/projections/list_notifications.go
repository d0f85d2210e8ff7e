package projections

import (
	"context"
	"html/template"
	"log/slog"
	"time"

	domainNotification "gymdesk/internal/domain/notification"
)

// NotificationView is a notification ready for display.
type NotificationView struct {
	ID          string
	Title       string
	Message     string
	MessageHTML template.HTML
	Date        time.Time
}

// ListNotificationsDeps holds dependencies for ListNotifications.
type ListNotificationsDeps struct {
	NotificationStore NotificationStore
}

// QueryListNotifications returns every notification in store order with its
// Markdown message rendered.
// POST: A message that fails to render falls back to escaped plain text
func QueryListNotifications(ctx context.Context, deps ListNotificationsDeps) ([]NotificationView, error) {
	notes, err := deps.NotificationStore.List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]NotificationView, 0, len(notes))
	for _, n := range notes {
		v := NotificationView{ID: n.ID, Title: n.Title, Message: n.Message, Date: n.Date}
		html, err := domainNotification.RenderHTML(n.Message)
		if err != nil {
			slog.Warn("notification_render_failed", "notification_id", n.ID, "error", err)
			v.MessageHTML = template.HTML(template.HTMLEscapeString(n.Message))
		} else {
			v.MessageHTML = template.HTML(html) // goldmark escapes raw HTML
		}
		views = append(views, v)
	}
	return views, nil
}
