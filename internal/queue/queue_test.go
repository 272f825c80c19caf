package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/maheshrc27/vizora/internal/models"
	"github.com/maheshrc27/vizora/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectTaskPayload(t *testing.T) {
	task, err := NewConnectTask(ConnectPlatformPayload{UserID: "1", Platform: models.LinkedIn})
	require.NoError(t, err)
	assert.Equal(t, TaskTypeConnectPlatform, task.Type())
	assert.JSONEq(t, `{"user_id":"1","platform":"linkedin"}`, string(task.Payload()))
	assert.Equal(t, "platform:connect:1:linkedin", connectTaskID("1", models.LinkedIn))
}

func TestHandleConnectPlatformTask(t *testing.T) {
	var gotUser string
	var gotPlatform models.Platform
	q := NewQueue(func(ctx context.Context, userID string, platform models.Platform) error {
		gotUser, gotPlatform = userID, platform
		return nil
	})

	task, err := NewConnectTask(ConnectPlatformPayload{UserID: "1", Platform: models.TikTok})
	require.NoError(t, err)
	require.NoError(t, q.HandleConnectPlatformTask(context.Background(), task))
	assert.Equal(t, "1", gotUser)
	assert.Equal(t, models.TikTok, gotPlatform)
}

func TestHandleConnectAfterLogout(t *testing.T) {
	q := NewQueue(func(ctx context.Context, userID string, platform models.Platform) error {
		return service.ErrNotLoggedIn
	})
	task, err := NewConnectTask(ConnectPlatformPayload{UserID: "1", Platform: models.TikTok})
	require.NoError(t, err)
	assert.NoError(t, q.HandleConnectPlatformTask(context.Background(), task))
}

func TestHandleConnectErrors(t *testing.T) {
	boom := errors.New("storage down")
	q := NewQueue(func(ctx context.Context, userID string, platform models.Platform) error {
		return boom
	})

	task, err := NewConnectTask(ConnectPlatformPayload{UserID: "1", Platform: models.TikTok})
	require.NoError(t, err)
	assert.ErrorIs(t, q.HandleConnectPlatformTask(context.Background(), task), boom)

	bad := asynq.NewTask(TaskTypeConnectPlatform, []byte(`{"platform":"myspace"}`))
	assert.ErrorIs(t, q.HandleConnectPlatformTask(context.Background(), bad), asynq.SkipRetry)
}

type fakeEnqueuer struct {
	held     map[string]bool
	enqueued []string
}

func (f *fakeEnqueuer) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	var id string
	for _, o := range opts {
		if o.Type() == asynq.TaskIDOpt {
			id = o.Value().(string)
		}
	}
	if f.held[id] {
		return nil, asynq.ErrTaskIDConflict
	}
	f.held[id] = true
	f.enqueued = append(f.enqueued, id)
	return &asynq.TaskInfo{ID: id, State: asynq.TaskStateScheduled}, nil
}

type fakeInspector struct {
	enqueuer *fakeEnqueuer
	states   map[string]asynq.TaskState
	deleted  []string
}

func (f *fakeInspector) GetTaskInfo(queue, id string) (*asynq.TaskInfo, error) {
	state, ok := f.states[id]
	if !ok {
		return nil, asynq.ErrTaskNotFound
	}
	return &asynq.TaskInfo{ID: id, Queue: queue, State: state}, nil
}

func (f *fakeInspector) DeleteTask(queue, id string) error {
	f.deleted = append(f.deleted, id)
	delete(f.states, id)
	delete(f.enqueuer.held, id)
	return nil
}

func TestScheduleConnectKeepsPendingTask(t *testing.T) {
	enq := &fakeEnqueuer{held: map[string]bool{}}
	insp := &fakeInspector{enqueuer: enq, states: map[string]asynq.TaskState{}}
	s := NewScheduler(enq, insp)
	ctx := context.Background()

	require.NoError(t, s.ScheduleConnect(ctx, "1", models.LinkedIn, time.Second))
	insp.states[connectTaskID("1", models.LinkedIn)] = asynq.TaskStateScheduled

	require.NoError(t, s.ScheduleConnect(ctx, "1", models.LinkedIn, time.Second))
	assert.Len(t, enq.enqueued, 1)
	assert.Empty(t, insp.deleted)
}

func TestScheduleConnectReplacesArchivedTask(t *testing.T) {
	id := connectTaskID("1", models.Facebook)
	enq := &fakeEnqueuer{held: map[string]bool{id: true}}
	insp := &fakeInspector{enqueuer: enq, states: map[string]asynq.TaskState{id: asynq.TaskStateArchived}}
	s := NewScheduler(enq, insp)

	require.NoError(t, s.ScheduleConnect(context.Background(), "1", models.Facebook, time.Second))
	assert.Equal(t, []string{id}, insp.deleted)
	assert.Equal(t, []string{id}, enq.enqueued)
}
