package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/odyssey-erp/admin-console/internal/session"
)

// Enqueuer is the part of asynq.Client the notifier needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueuedLogoutNotifier hands logout notifications to the worker so sign-out
// never waits on the backend. When the queue is unreachable it falls back
// to notifying inline.
type QueuedLogoutNotifier struct {
	Queue    Enqueuer
	Fallback session.LogoutNotifier
	Logger   *slog.Logger
}

// NotifyLogout implements session.LogoutNotifier.
func (n QueuedLogoutNotifier) NotifyLogout(ctx context.Context, token string) error {
	task, err := NewLogoutNotifyTask(LogoutNotifyPayload{Token: token})
	if err == nil {
		_, err = n.Queue.EnqueueContext(ctx, task, asynq.Queue(QueueDefault))
	}
	if err == nil {
		return nil
	}
	if n.Logger != nil {
		n.Logger.Warn("enqueue logout notification failed, sending inline", slog.Any("error", err))
	}
	if n.Fallback == nil {
		return err
	}
	return n.Fallback.NotifyLogout(ctx, token)
}

// InlineLogoutNotifier calls the backend directly.
type InlineLogoutNotifier struct {
	Revoker TokenRevoker
	Observe func(path string, err error)
}

// NotifyLogout implements session.LogoutNotifier.
func (n InlineLogoutNotifier) NotifyLogout(ctx context.Context, token string) error {
	err := n.Revoker.Logout(ctx, token)
	if n.Observe != nil {
		n.Observe("inline", err)
	}
	return err
}

var (
	_ session.LogoutNotifier = QueuedLogoutNotifier{}
	_ session.LogoutNotifier = InlineLogoutNotifier{}
	_ asynq.Handler          = LogoutNotifyHandler{}
)
