package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/maheshrc27/vizora/internal/service"
)

func (j *Queue) HandleConnectPlatformTask(ctx context.Context, task *asynq.Task) error {
	var payload ConnectPlatformPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	err := j.connect(ctx, payload.UserID, payload.Platform)
	if errors.Is(err, service.ErrNotLoggedIn) || errors.Is(err, service.ErrPlatformNotFound) {
		// the session ended before the delay ran out
		slog.Info(err.Error(), "user_id", payload.UserID)
		return nil
	}
	return err
}

// Register adds the task handlers to mux.
func (j *Queue) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TaskTypeConnectPlatform, j.HandleConnectPlatformTask)
}
