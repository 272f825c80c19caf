package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/maheshrc27/vizora/internal/models"
	"github.com/maheshrc27/vizora/internal/repository"
	"github.com/maheshrc27/vizora/internal/workflow"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

const (
	DemoEmail    = "demo@vizora.com"
	DemoPassword = "password123"
	DemoUserID   = "1"

	demoAvatar         = "https://images.pexels.com/photos/774909/pexels-photo-774909.jpeg?auto=compress&cs=tinysrgb&w=150&h=150&dpr=2"
	demoPlatformAvatar = "https://images.pexels.com/photos/774909/pexels-photo-774909.jpeg?auto=compress&cs=tinysrgb&w=50&h=50&dpr=2"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.User, error)
	Logout(ctx context.Context, userID string) error
}

type authService struct {
	u         repository.UserRepository
	posts     PostService
	scheduler ConnectScheduler
	manager   *workflow.Manager
}

func NewAuthService(u repository.UserRepository, posts PostService, scheduler ConnectScheduler, manager *workflow.Manager) AuthService {
	return &authService{
		u:         u,
		posts:     posts,
		scheduler: scheduler,
		manager:   manager,
	}
}

// Login checks the demo credentials and starts a fresh session. Demo posts
// are seeded the first time.
func (s *authService) Login(ctx context.Context, email, password string) (*models.User, error) {
	if !strings.EqualFold(strings.TrimSpace(email), DemoEmail) || password != DemoPassword {
		slog.Info(ErrInvalidCredentials.Error(), "email", email)
		return nil, ErrInvalidCredentials
	}

	user := DemoUser()
	if err := s.u.Save(ctx, user); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	if err := s.posts.SeedDemoPosts(ctx, user.ID); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return user, nil
}

// Logout destroys the session, pending platform connects and open
// compositions of the user.
func (s *authService) Logout(ctx context.Context, userID string) error {
	s.scheduler.CancelConnects(ctx, userID)
	s.manager.CloseAllFor(userID)

	if err := s.u.Remove(ctx, userID); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

// DemoUser is the account every successful login produces.
func DemoUser() *models.User {
	return &models.User{
		ID:              DemoUserID,
		Name:            "Sarah Johnson",
		Email:           DemoEmail,
		Avatar:          demoAvatar,
		IsAuthenticated: true,
		ConnectedPlatforms: []models.SocialPlatform{
			{
				ID:          "1",
				Platform:    models.Instagram,
				DisplayName: models.Instagram.DisplayName(),
				IsConnected: true,
				Username:    "@sarah.creates",
				Followers:   12500,
				Avatar:      demoPlatformAvatar,
			},
			{
				ID:          "2",
				Platform:    models.Twitter,
				DisplayName: models.Twitter.DisplayName(),
				IsConnected: true,
				Username:    "@sarahcreates",
				Followers:   8200,
				Avatar:      demoPlatformAvatar,
			},
			{ID: "3", Platform: models.LinkedIn, DisplayName: models.LinkedIn.DisplayName()},
			{ID: "4", Platform: models.Facebook, DisplayName: models.Facebook.DisplayName()},
			{ID: "5", Platform: models.YouTube, DisplayName: models.YouTube.DisplayName()},
			{ID: "6", Platform: models.TikTok, DisplayName: models.TikTok.DisplayName()},
			{ID: "7", Platform: models.Pinterest, DisplayName: models.Pinterest.DisplayName()},
		},
	}
}
