package sync

import (
	"context"
	"log/slog"
)

// Notifier delivers user-facing feedback about cart operations. The edge has
// no direct channel to the user, so the default implementation records
// notifications in the structured log where a delivery pipeline can pick
// them up.
type Notifier interface {
	Success(ctx context.Context, userID, message string)
	Error(ctx context.Context, userID, message string)
}

// LogNotifier writes notifications to the structured log.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Success(ctx context.Context, userID, message string) {
	n.logger.InfoContext(ctx, "user notification",
		slog.String("user_id", userID),
		slog.String("level", "success"),
		slog.String("message", message),
	)
}

func (n *LogNotifier) Error(ctx context.Context, userID, message string) {
	n.logger.InfoContext(ctx, "user notification",
		slog.String("user_id", userID),
		slog.String("level", "error"),
		slog.String("message", message),
	)
}
