package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/maheshrc27/vizora/internal/models"
	"github.com/maheshrc27/vizora/internal/repository"
	"github.com/maheshrc27/vizora/internal/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// slowStorage stretches every read-modify-write the way a network round
// trip would.
type slowStorage struct {
	repository.Storage
	delay time.Duration
}

func (s slowStorage) Update(ctx context.Context, key string, fn func([]byte) ([]byte, error)) error {
	return s.Storage.Update(ctx, key, func(current []byte) ([]byte, error) {
		time.Sleep(s.delay)
		return fn(current)
	})
}

type testEnv struct {
	users     repository.UserRepository
	userSvc   UserService
	postSvc   PostService
	auth      AuthService
	manager   *workflow.Manager
	scheduler *LocalConnectScheduler
}

func newTestEnv(t *testing.T, connectDelay time.Duration) *testEnv {
	t.Helper()
	return newTestEnvWithStorage(t, connectDelay, repository.NewMemoryStorage())
}

func newTestEnvWithStorage(t *testing.T, connectDelay time.Duration, storage repository.Storage) *testEnv {
	t.Helper()

	users := repository.NewUserRepository(storage)
	posts := NewPostService(repository.NewPostRepository(), users, nil)
	scheduler := NewLocalConnectScheduler()
	t.Cleanup(scheduler.Close)

	userSvc := NewUserService(users, scheduler, connectDelay, nil)
	scheduler.Start(userSvc.CompleteConnect)

	manager := workflow.NewManager(nil)
	return &testEnv{
		users:     users,
		userSvc:   userSvc,
		postSvc:   posts,
		auth:      NewAuthService(users, posts, scheduler, manager),
		manager:   manager,
		scheduler: scheduler,
	}
}

func (e *testEnv) login(t *testing.T) *models.User {
	t.Helper()
	user, err := e.auth.Login(context.Background(), DemoEmail, DemoPassword)
	require.NoError(t, err)
	return user
}

func TestLoginCreatesDemoSession(t *testing.T) {
	env := newTestEnv(t, time.Millisecond)
	ctx := context.Background()

	user := env.login(t)
	assert.Equal(t, "Sarah Johnson", user.Name)
	assert.True(t, user.IsAuthenticated)

	stored, err := env.userSvc.GetUserInfo(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, stored.ConnectedPlatforms, 7)
	assert.Len(t, stored.Connected(), 2)

	posts, err := env.postSvc.List(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, posts, 2)

	// a second login does not seed again
	env.login(t)
	posts, err = env.postSvc.List(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, posts, 2)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t, time.Millisecond)

	_, err := env.auth.Login(context.Background(), DemoEmail, "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = env.auth.Login(context.Background(), "someone@vizora.com", DemoPassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = env.userSvc.GetUserInfo(context.Background(), DemoUserID)
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestConnectPlatformAfterDelay(t *testing.T) {
	env := newTestEnv(t, 10*time.Millisecond)
	ctx := context.Background()
	user := env.login(t)

	status, err := env.userSvc.ConnectPlatform(ctx, user.ID, models.LinkedIn)
	require.NoError(t, err)
	assert.True(t, status.Pending)
	assert.Equal(t, int64(10), status.DelayMS)

	require.Eventually(t, func() bool {
		u, err := env.userSvc.GetUserInfo(ctx, user.ID)
		return err == nil && u.IsConnected(models.LinkedIn)
	}, time.Second, 5*time.Millisecond)

	accounts, err := env.userSvc.Accounts(ctx, user.ID)
	require.NoError(t, err)
	for _, a := range accounts {
		if a.Platform != models.LinkedIn {
			continue
		}
		assert.Equal(t, "@sarahjohnson", a.Username)
		assert.GreaterOrEqual(t, a.Followers, 1000)
		assert.LessOrEqual(t, a.Followers, 10999)
		assert.NotNil(t, a.ConnectionDate)
	}
}

func TestConnectAlreadyConnected(t *testing.T) {
	env := newTestEnv(t, time.Hour)
	user := env.login(t)

	status, err := env.userSvc.ConnectPlatform(context.Background(), user.ID, models.Instagram)
	require.NoError(t, err)
	assert.False(t, status.Pending)
	assert.Equal(t, 0, env.scheduler.Pending(user.ID))
}

func TestConnectRequiresSession(t *testing.T) {
	env := newTestEnv(t, time.Millisecond)

	_, err := env.userSvc.ConnectPlatform(context.Background(), DemoUserID, models.LinkedIn)
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestLogoutCancelsPendingConnects(t *testing.T) {
	env := newTestEnv(t, 30*time.Millisecond)
	ctx := context.Background()
	user := env.login(t)

	_, err := env.userSvc.ConnectPlatform(ctx, user.ID, models.Facebook)
	require.NoError(t, err)
	c, err := env.manager.Open(user)
	require.NoError(t, err)

	require.NoError(t, env.auth.Logout(ctx, user.ID))
	assert.Equal(t, 0, env.scheduler.Pending(user.ID))
	assert.True(t, c.Closed())

	time.Sleep(60 * time.Millisecond)
	_, isExist, err := env.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, isExist)
}

func TestCompleteConnectAfterLogoutWritesNothing(t *testing.T) {
	env := newTestEnv(t, time.Hour)
	ctx := context.Background()
	user := env.login(t)
	require.NoError(t, env.auth.Logout(ctx, user.ID))

	err := env.userSvc.CompleteConnect(ctx, user.ID, models.LinkedIn)
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	_, isExist, err := env.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, isExist)
}

func TestConcurrentConnectsAllLand(t *testing.T) {
	env := newTestEnvWithStorage(t, time.Hour, slowStorage{Storage: repository.NewMemoryStorage(), delay: 20 * time.Millisecond})
	ctx := context.Background()
	user := env.login(t)

	pending := []models.Platform{models.LinkedIn, models.Facebook, models.YouTube, models.TikTok, models.Pinterest}
	var wg sync.WaitGroup
	for _, p := range pending {
		wg.Add(1)
		go func(p models.Platform) {
			defer wg.Done()
			assert.NoError(t, env.userSvc.CompleteConnect(ctx, user.ID, p))
		}(p)
	}
	wg.Wait()

	stored, err := env.userSvc.GetUserInfo(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Connected(), 7)
}

func TestLogoutDuringConnectStaysLoggedOut(t *testing.T) {
	env := newTestEnvWithStorage(t, time.Hour, slowStorage{Storage: repository.NewMemoryStorage(), delay: 30 * time.Millisecond})
	ctx := context.Background()
	user := env.login(t)

	done := make(chan error, 1)
	go func() { done <- env.userSvc.CompleteConnect(ctx, user.ID, models.LinkedIn) }()
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, env.auth.Logout(ctx, user.ID))
	<-done

	_, isExist, err := env.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, isExist)
}
