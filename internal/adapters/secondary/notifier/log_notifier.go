// Package notifier holds Notifier adapters for non-browser contexts.
package notifier

import (
	"context"
	"log/slog"

	"github.com/lorrc/hackathon-hub/internal/core/ports"
)

// LogNotifier writes every notification as a structured log line instead of
// rendering it.
type LogNotifier struct {
	logger *slog.Logger
}

var _ ports.Notifier = (*LogNotifier)(nil)

// NewLogNotifier creates a new log-backed notifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger.With("component", "log_notifier")}
}

func (n *LogNotifier) ShowNotification(ctx context.Context, title string, opts ports.NotificationOptions) {
	n.logger.InfoContext(ctx, "notification shown",
		"title", title,
		"body", opts.Body,
		"tag", opts.Tag,
		"renotify", opts.Renotify,
	)
}

// Fanout forwards each notification to every wrapped notifier in order.
type Fanout []ports.Notifier

var _ ports.Notifier = Fanout(nil)

func (f Fanout) ShowNotification(ctx context.Context, title string, opts ports.NotificationOptions) {
	for _, n := range f {
		n.ShowNotification(ctx, title, opts)
	}
}
