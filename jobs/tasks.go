package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/odyssey-erp/admin-console/internal/jobs"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeLogoutNotify tells the backend that a signed-out token is no
	// longer in use.
	TaskTypeLogoutNotify = "session:logout_notify"
)

// LogoutNotifyPayload carries the token being retired.
type LogoutNotifyPayload struct {
	Token string `json:"token"`
}

// NewLogoutNotifyTask constructs an Asynq task. Retries are short-lived: a
// token the backend never hears about simply expires there.
func NewLogoutNotifyTask(payload LogoutNotifyPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeLogoutNotify, data,
		asynq.MaxRetry(3),
		asynq.Timeout(30*time.Second),
		asynq.Retention(0),
	), nil
}

// TokenRevoker is the backend call behind a logout notification.
type TokenRevoker interface {
	Logout(ctx context.Context, token string) error
}

// LogoutNotifyHandler processes TaskTypeLogoutNotify tasks.
type LogoutNotifyHandler struct {
	Revoker TokenRevoker
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	Observe func(path string, err error)
}

// ProcessTask implements asynq.Handler.
func (h LogoutNotifyHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload LogoutNotifyPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil || payload.Token == "" {
		return fmt.Errorf("logout notify: bad payload: %w", asynq.SkipRetry)
	}
	tracker := h.Metrics.Track(TaskTypeLogoutNotify)
	err := tracker.End(h.Revoker.Logout(ctx, payload.Token))
	if h.Observe != nil {
		h.Observe("queued", err)
	}
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("logout notification failed", slog.Any("error", err))
		}
		return err
	}
	return nil
}
