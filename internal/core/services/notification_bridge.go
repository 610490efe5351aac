package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lorrc/hackathon-hub/internal/core/domain"
	"github.com/lorrc/hackathon-hub/internal/core/ports"
)

const (
	notificationIcon  = "/icons/icon-192.png"
	notificationBadge = "/icons/badge-72.png"
)

var urgentVibration = []int{200, 100, 200}

// NotificationBridge turns selected bus events into user-facing
// notifications. It only decides whether and what to show.
type NotificationBridge struct {
	notifier ports.Notifier
	logger   *slog.Logger
}

// NewNotificationBridge creates a bridge that forwards to notifier.
func NewNotificationBridge(notifier ports.Notifier, logger *slog.Logger) *NotificationBridge {
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationBridge{
		notifier: notifier,
		logger:   logger.With("component", "notification_bridge"),
	}
}

// Attach subscribes the bridge and returns a function that detaches it.
func (b *NotificationBridge) Attach(subscriber ports.EventSubscriber) func() {
	unsubscribers := []func(){
		subscriber.Subscribe(domain.EventAnnouncementPosted, b.onAnnouncement),
		subscriber.Subscribe(domain.EventHelpRequested, b.onHelpRequested),
		subscriber.Subscribe(domain.EventTeamSubmitted, b.onTeamSubmitted),
	}
	return func() {
		for _, unsubscribe := range unsubscribers {
			unsubscribe()
		}
	}
}

func (b *NotificationBridge) onAnnouncement(ctx context.Context, evt domain.Event) error {
	var a domain.Announcement
	if err := evt.Decode(&a); err != nil {
		return err
	}

	title := "New announcement"
	opts := ports.NotificationOptions{
		Body:  a.Message,
		Tag:   "announcement-" + a.ID,
		Icon:  notificationIcon,
		Badge: notificationBadge,
	}
	switch a.Priority {
	case domain.PriorityUrgent:
		title = "Urgent announcement"
		opts.Renotify = true
		opts.Vibrate = urgentVibration
	case domain.PriorityImportant:
		title = "Important announcement"
	}

	b.notifier.ShowNotification(ctx, title, opts)
	return nil
}

func (b *NotificationBridge) onHelpRequested(ctx context.Context, evt domain.Event) error {
	var h domain.HelpRequest
	if err := evt.Decode(&h); err != nil {
		return err
	}

	body := fmt.Sprintf("%s needs help", h.TeamName)
	if h.RoomNumber != "" || h.TableNumber != "" {
		body = fmt.Sprintf("%s needs help at room %s, table %s", h.TeamName, h.RoomNumber, h.TableNumber)
	}
	if h.Message != "" {
		body += ": " + h.Message
	}

	b.notifier.ShowNotification(ctx, "Help requested", ports.NotificationOptions{
		Body:     body,
		Tag:      "help-" + h.ID,
		Renotify: true,
		Icon:     notificationIcon,
		Badge:    notificationBadge,
		Vibrate:  urgentVibration,
	})
	return nil
}

func (b *NotificationBridge) onTeamSubmitted(ctx context.Context, evt domain.Event) error {
	var t domain.Team
	if err := evt.Decode(&t); err != nil {
		return err
	}

	b.notifier.ShowNotification(ctx, "Project submitted", ports.NotificationOptions{
		Body:  fmt.Sprintf("%s submitted their project", t.Name),
		Tag:   "submission-" + t.ID,
		Icon:  notificationIcon,
		Badge: notificationBadge,
	})
	return nil
}
