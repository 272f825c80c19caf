package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/maheshrc27/vizora/internal/metrics"
	"github.com/maheshrc27/vizora/internal/models"
	"github.com/maheshrc27/vizora/internal/repository"
)

var (
	ErrNotLoggedIn      = errors.New("user is not logged in")
	ErrPlatformNotFound = errors.New("platform is not available for this user")
)

// ConnectStatus is returned when a connection is requested.
type ConnectStatus struct {
	Platform models.Platform `json:"platform"`
	Pending  bool            `json:"pending"`
	// DelayMS tells the client when to refresh the account list.
	DelayMS int64 `json:"delay_ms"`
}

type UserService interface {
	GetUserInfo(ctx context.Context, id string) (*models.User, error)
	Accounts(ctx context.Context, id string) ([]models.SocialPlatform, error)
	ConnectPlatform(ctx context.Context, userID string, platform models.Platform) (*ConnectStatus, error)
	CompleteConnect(ctx context.Context, userID string, platform models.Platform) error
}

type userService struct {
	u            repository.UserRepository
	scheduler    ConnectScheduler
	connectDelay time.Duration
	metrics      metrics.MetricsCollector
	followers    func() int
}

func NewUserService(u repository.UserRepository, scheduler ConnectScheduler, connectDelay time.Duration, mc metrics.MetricsCollector) UserService {
	if mc == nil {
		mc = metrics.Nop{}
	}
	return &userService{
		u:            u,
		scheduler:    scheduler,
		connectDelay: connectDelay,
		metrics:      mc,
		followers:    func() int { return 1000 + rand.Intn(10000) },
	}
}

func (s *userService) GetUserInfo(ctx context.Context, id string) (*models.User, error) {
	user, isExist, err := s.u.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting user info: %w", err)
	}

	if !isExist {
		slog.Info(ErrNotLoggedIn.Error(), "user_id", id)
		return nil, ErrNotLoggedIn
	}

	return user, nil
}

func (s *userService) Accounts(ctx context.Context, id string) ([]models.SocialPlatform, error) {
	user, err := s.GetUserInfo(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.ConnectedPlatforms, nil
}

// ConnectPlatform starts the simulated OAuth flow. The platform becomes
// connected once the connect delay has passed.
func (s *userService) ConnectPlatform(ctx context.Context, userID string, platform models.Platform) (*ConnectStatus, error) {
	user, err := s.GetUserInfo(ctx, userID)
	if err != nil {
		return nil, err
	}

	sp := findPlatform(user, platform)
	if sp == nil {
		return nil, fmt.Errorf("%w: %s", ErrPlatformNotFound, platform)
	}
	if sp.IsConnected {
		return &ConnectStatus{Platform: platform}, nil
	}

	if err := s.scheduler.ScheduleConnect(ctx, userID, platform, s.connectDelay); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return &ConnectStatus{
		Platform: platform,
		Pending:  true,
		DelayMS:  s.connectDelay.Milliseconds(),
	}, nil
}

// CompleteConnect marks platform connected with a follower count in
// [1000, 10999] and a username derived from the account name. A user that
// logged out in the meantime is left alone. Concurrent completions for the
// same user are applied one after another.
func (s *userService) CompleteConnect(ctx context.Context, userID string, platform models.Platform) error {
	changed := false
	isExist, err := s.u.Update(ctx, userID, func(user *models.User) error {
		sp := findPlatform(user, platform)
		if sp == nil {
			return fmt.Errorf("%w: %s", ErrPlatformNotFound, platform)
		}
		if sp.IsConnected {
			return nil
		}

		now := time.Now()
		sp.IsConnected = true
		sp.Username = "@" + strings.Replace(strings.ToLower(user.Name), " ", "", 1)
		sp.Followers = s.followers()
		sp.ConnectionDate = &now
		changed = true
		return nil
	})
	if err != nil {
		return err
	}
	if !isExist {
		return ErrNotLoggedIn
	}
	if !changed {
		return nil
	}

	s.metrics.RecordPlatformConnected(platform.String())
	slog.Info("platform connected", "user_id", userID, "platform", platform.String())
	return nil
}

func findPlatform(user *models.User, platform models.Platform) *models.SocialPlatform {
	for i := range user.ConnectedPlatforms {
		if user.ConnectedPlatforms[i].Platform == platform {
			return &user.ConnectedPlatforms[i]
		}
	}
	return nil
}
