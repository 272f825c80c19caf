package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/maheshrc27/vizora/internal/models"
	"github.com/maheshrc27/vizora/internal/service"
)

// connectTaskID is unique per user and platform so a repeated request while
// one is pending does not enqueue twice.
func connectTaskID(userID string, platform models.Platform) string {
	return fmt.Sprintf("%s:%s:%s", TaskTypeConnectPlatform, userID, platform)
}

func NewConnectTask(payload ConnectPlatformPayload) (*asynq.Task, error) {
	taskPayload, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeConnectPlatform, taskPayload), nil
}

// Enqueuer is the part of *asynq.Client the scheduler needs.
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// TaskInspector is the part of *asynq.Inspector the scheduler needs.
type TaskInspector interface {
	GetTaskInfo(queue, id string) (*asynq.TaskInfo, error)
	DeleteTask(queue, id string) error
}

// EnqueueConnect schedules a connect task. It returns asynq.ErrTaskIDConflict
// when a task for the same user and platform is still held by asynq.
func EnqueueConnect(client Enqueuer, payload ConnectPlatformPayload, delay time.Duration) error {
	task, err := NewConnectTask(payload)
	if err != nil {
		return err
	}

	_, err = client.Enqueue(task,
		asynq.ProcessIn(delay),
		asynq.TaskID(connectTaskID(payload.UserID, payload.Platform)),
		asynq.MaxRetry(1),
	)
	if err != nil {
		return err
	}

	slog.Info("connect task scheduled", "user_id", payload.UserID, "platform", payload.Platform.String(), "delay", delay)
	return nil
}

var _ service.ConnectScheduler = (*Scheduler)(nil)

// Scheduler runs platform connections through asynq.
type Scheduler struct {
	client    Enqueuer
	inspector TaskInspector
	queue     string
}

func NewScheduler(client Enqueuer, inspector TaskInspector) *Scheduler {
	return &Scheduler{
		client:    client,
		inspector: inspector,
		queue:     "default",
	}
}

// ScheduleConnect enqueues the connect task once. A pending task for the
// same platform is kept. An archived one, left behind by a failed run, is
// deleted so the connect can be tried again.
func (s *Scheduler) ScheduleConnect(ctx context.Context, userID string, platform models.Platform, delay time.Duration) error {
	payload := ConnectPlatformPayload{UserID: userID, Platform: platform}

	err := EnqueueConnect(s.client, payload, delay)
	if !errors.Is(err, asynq.ErrTaskIDConflict) {
		return err
	}

	id := connectTaskID(userID, platform)
	info, err := s.inspector.GetTaskInfo(s.queue, id)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskNotFound) {
			return EnqueueConnect(s.client, payload, delay)
		}
		slog.Info(err.Error())
		return err
	}
	if info.State != asynq.TaskStateArchived {
		return nil
	}

	if err := s.inspector.DeleteTask(s.queue, id); err != nil && !errors.Is(err, asynq.ErrTaskNotFound) {
		slog.Info(err.Error())
		return err
	}
	return EnqueueConnect(s.client, payload, delay)
}

// CancelConnects deletes the user's scheduled connect tasks. Tasks that
// already ran or never existed are ignored.
func (s *Scheduler) CancelConnects(ctx context.Context, userID string) {
	for _, p := range models.Platforms() {
		err := s.inspector.DeleteTask(s.queue, connectTaskID(userID, p))
		if err == nil || errors.Is(err, asynq.ErrTaskNotFound) || errors.Is(err, asynq.ErrQueueNotFound) {
			continue
		}
		slog.Info(err.Error())
	}
}
