package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/maheshrc27/vizora/internal/metrics"
	"github.com/maheshrc27/vizora/internal/models"
	"github.com/maheshrc27/vizora/internal/repository"
	"github.com/maheshrc27/vizora/internal/transfer"
	"github.com/maheshrc27/vizora/internal/workflow"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

var (
	ErrPostNotFound      = errors.New("post doesn't exist")
	ErrInvalidStatus     = errors.New("invalid post status")
	ErrInvalidTransition = errors.New("post status cannot change this way")
	ErrNotPublished      = errors.New("only published posts can be confirmed")
)

type PostService interface {
	CreatePost(ctx context.Context, userID string, pc *transfer.PostCreation) (*models.Post, error)
	List(ctx context.Context, userID string) ([]*models.Post, error)
	PostInfo(ctx context.Context, postID, userID string) (*models.Post, error)
	Update(ctx context.Context, postID, userID string, pu *transfer.PostUpdate) (*models.Post, error)
	Remove(ctx context.Context, userID, postID string) error
	ConfirmPublication(ctx context.Context, postID, userID string) (*models.Post, error)
	SeedDemoPosts(ctx context.Context, userID string) error
}

type postService struct {
	pr      repository.PostRepository
	u       repository.UserRepository
	metrics metrics.MetricsCollector
}

func NewPostService(pr repository.PostRepository, u repository.UserRepository, mc metrics.MetricsCollector) PostService {
	if mc == nil {
		mc = metrics.Nop{}
	}
	return &postService{
		pr:      pr,
		u:       u,
		metrics: mc,
	}
}

// checkPlatforms makes sure every platform is connected for the user.
func (s *postService) checkPlatforms(ctx context.Context, userID string, platforms []models.Platform) error {
	if len(platforms) == 0 {
		return workflow.ErrNoPlatforms
	}

	user, isExist, err := s.u.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !isExist {
		return ErrNotLoggedIn
	}

	for _, p := range platforms {
		if !user.IsConnected(p) {
			return fmt.Errorf("%w: %s", workflow.ErrPlatformNotConnected, p)
		}
	}
	return nil
}

func (s *postService) CreatePost(ctx context.Context, userID string, pc *transfer.PostCreation) (*models.Post, error) {
	if pc == nil {
		err := errors.New("post creation data is nil")
		slog.Info(err.Error())
		return nil, err
	}

	status := pc.Status
	if status == "" {
		status = models.PostStatusDraft
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	// drafts may be incomplete
	draft := status == models.PostStatusDraft
	if !draft && strings.TrimSpace(pc.Content) == "" {
		return nil, workflow.ErrEmptyContent
	}
	if !draft || len(pc.Platforms) > 0 {
		if err := s.checkPlatforms(ctx, userID, pc.Platforms); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
	}

	id, err := gonanoid.New()
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	post := &models.Post{
		ID:            id,
		UserID:        userID,
		Content:       pc.Content,
		Platforms:     append([]models.Platform{}, pc.Platforms...),
		Media:         append([]models.MediaItem{}, pc.Media...),
		ScheduledTime: pc.ScheduledTime,
		Status:        status,
	}
	if status == models.PostStatusPublished {
		now := time.Now()
		post.PublishedAt = &now
	}

	if _, err := s.pr.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("error creating post: %w", err)
	}

	s.metrics.RecordPostCreated(string(status))
	return post, nil
}

func (s *postService) List(ctx context.Context, userID string) ([]*models.Post, error) {
	posts, err := s.pr.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting posts: %w", err)
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	return posts, nil
}

func (s *postService) PostInfo(ctx context.Context, postID, userID string) (*models.Post, error) {
	if postID == "" {
		err := errors.New("post id is not valid")
		slog.Info(err.Error())
		return nil, err
	}

	isValid, err := s.pr.CheckByUserID(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	if !isValid {
		slog.Info(ErrPostNotFound.Error(), "post_id", postID)
		return nil, ErrPostNotFound
	}

	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("error getting post info: %w", err)
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (s *postService) Update(ctx context.Context, postID, userID string, pu *transfer.PostUpdate) (*models.Post, error) {
	post, err := s.PostInfo(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	if pu.Content != nil {
		post.Content = *pu.Content
	}
	if pu.Platforms != nil {
		if err := s.checkPlatforms(ctx, userID, pu.Platforms); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		post.Platforms = pu.Platforms
	}
	if pu.ScheduledTime != nil {
		t := *pu.ScheduledTime
		post.ScheduledTime = &t
	}
	if pu.Status != nil {
		next := *pu.Status
		if !next.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, next)
		}
		if !post.Status.CanTransition(next) {
			err := fmt.Errorf("%w: %s to %s", ErrInvalidTransition, post.Status, next)
			slog.Info(err.Error())
			return nil, err
		}
		if next == models.PostStatusPublished && post.Status != next {
			now := time.Now()
			post.PublishedAt = &now
		}
		post.Status = next
	}

	if err := s.pr.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("error updating post: %w", err)
	}
	return post, nil
}

func (s *postService) Remove(ctx context.Context, userID, postID string) error {
	if postID == "" {
		err := errors.New("post_id is not valid")
		slog.Info(err.Error())
		return err
	}

	isValid, err := s.pr.CheckByUserID(ctx, postID, userID)
	if err != nil {
		return err
	}
	if !isValid {
		slog.Info(ErrPostNotFound.Error(), "post_id", postID)
		return ErrPostNotFound
	}

	return s.pr.Remove(ctx, postID)
}

// ConfirmPublication records that the user really posted a dispatched post.
func (s *postService) ConfirmPublication(ctx context.Context, postID, userID string) (*models.Post, error) {
	post, err := s.PostInfo(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	if post.Status != models.PostStatusPublished {
		return nil, ErrNotPublished
	}
	if post.Confirmed {
		return post, nil
	}

	post.Confirmed = true
	if err := s.pr.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("error updating post: %w", err)
	}
	return post, nil
}

// SeedDemoPosts adds the two demo posts when the user has none yet.
func (s *postService) SeedDemoPosts(ctx context.Context, userID string) error {
	existing, err := s.pr.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	for _, post := range demoPosts(userID, time.Now()) {
		if _, err := s.pr.Create(ctx, post); err != nil {
			return fmt.Errorf("error seeding post: %w", err)
		}
	}
	return nil
}

func demoPosts(userID string, now time.Time) []*models.Post {
	scheduled := now.Add(24 * time.Hour)
	published := now.Add(-48 * time.Hour)

	return []*models.Post{
		{
			ID:        "1",
			UserID:    userID,
			Content:   "Excited to share my latest design project! 🎨 What do you think about this color palette? #design #creativity #ui",
			Platforms: []models.Platform{models.Instagram, models.Twitter},
			Media: []models.MediaItem{{
				ID:   "1",
				Kind: models.MediaImage,
				URL:  "https://images.pexels.com/photos/196644/pexels-photo-196644.jpeg?auto=compress&cs=tinysrgb&w=400&h=400&dpr=2",
				Alt:  "Design mockup",
			}},
			ScheduledTime: &scheduled,
			Status:        models.PostStatusScheduled,
			Analytics: &models.PostAnalytics{
				Engagement: 156,
				Reach:      2340,
				Clicks:     89,
				Shares:     23,
				Comments:   45,
				Likes:      134,
			},
			CreatedAt: now,
		},
		{
			ID:        "2",
			UserID:    userID,
			Content:   "Behind the scenes of our creative process. Sometimes the best ideas come from unexpected moments! ✨",
			Platforms: []models.Platform{models.Instagram, models.LinkedIn},
			Media: []models.MediaItem{{
				ID:   "2",
				Kind: models.MediaImage,
				URL:  "https://images.pexels.com/photos/3184465/pexels-photo-3184465.jpeg?auto=compress&cs=tinysrgb&w=400&h=400&dpr=2",
				Alt:  "Creative workspace",
			}},
			Status:      models.PostStatusPublished,
			PublishedAt: &published,
			Confirmed:   true,
			Analytics: &models.PostAnalytics{
				Engagement: 245,
				Reach:      3200,
				Clicks:     120,
				Shares:     34,
				Comments:   67,
				Likes:      198,
			},
			CreatedAt: published,
		},
	}
}
