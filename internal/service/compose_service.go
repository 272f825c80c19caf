package service

import (
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"time"

	"github.com/maheshrc27/vizora/internal/models"
	"github.com/maheshrc27/vizora/internal/transfer"
	"github.com/maheshrc27/vizora/internal/workflow"
)

// PublishOutcome is what finishing a composition produced. Steps is the
// device plan the client replays when the post went out immediately.
type PublishOutcome struct {
	Post    *models.Post              `json:"post"`
	Results []transfer.DispatchResult `json:"results,omitempty"`
	Steps   []transfer.PublishStep    `json:"steps,omitempty"`
}

type ComposeService interface {
	Open(ctx context.Context, userID string) (*workflow.Snapshot, error)
	Get(ctx context.Context, id, userID string) (*workflow.Snapshot, error)
	Close(ctx context.Context, id, userID string) error
	SelectPlatforms(ctx context.Context, id, userID string, platforms []models.Platform) (*workflow.Snapshot, error)
	SetContent(ctx context.Context, id, userID, content string) (*workflow.Snapshot, error)
	AddMedia(ctx context.Context, id, userID string, files []*multipart.FileHeader) (*workflow.Snapshot, error)
	RemoveMedia(ctx context.Context, id, userID, mediaID string) (*workflow.Snapshot, error)
	SetSchedule(ctx context.Context, id, userID string, at *time.Time) (*workflow.Snapshot, error)
	Next(ctx context.Context, id, userID string) (*workflow.Snapshot, error)
	Back(ctx context.Context, id, userID string) (*workflow.Snapshot, error)
	Review(ctx context.Context, id, userID string) (*workflow.Review, error)
	SuggestCaptions(ctx context.Context, id, userID string, opts models.CaptionOptions) ([]models.AICaption, error)
	ApplyCaption(ctx context.Context, id, userID string, caption models.AICaption) (*workflow.Snapshot, error)
	SaveDraft(ctx context.Context, id, userID string) (*models.Post, error)
	Publish(ctx context.Context, id, userID string, mobile bool) (*PublishOutcome, error)
}

type composeService struct {
	manager   *workflow.Manager
	users     UserService
	posts     PostService
	settings  SettingsService
	publisher PublishService
	assistant Assistant
	media     MediaService
	now       func() time.Time
}

func NewComposeService(
	manager *workflow.Manager,
	users UserService,
	posts PostService,
	settings SettingsService,
	publisher PublishService,
	assistant Assistant,
	media MediaService) ComposeService {
	return &composeService{
		manager:   manager,
		users:     users,
		posts:     posts,
		settings:  settings,
		publisher: publisher,
		assistant: assistant,
		media:     media,
		now:       time.Now,
	}
}

func snapshotOf(c *workflow.Composition) *workflow.Snapshot {
	snap := c.Snapshot()
	return &snap
}

// Open starts a composition limited to the user's connected platforms.
func (s *composeService) Open(ctx context.Context, userID string) (*workflow.Snapshot, error) {
	user, err := s.users.GetUserInfo(ctx, userID)
	if err != nil {
		return nil, err
	}

	c, err := s.manager.Open(user)
	if err != nil {
		return nil, err
	}
	return snapshotOf(c), nil
}

func (s *composeService) Get(ctx context.Context, id, userID string) (*workflow.Snapshot, error) {
	c, err := s.manager.Get(id, userID)
	if err != nil {
		return nil, err
	}
	return snapshotOf(c), nil
}

func (s *composeService) Close(ctx context.Context, id, userID string) error {
	return s.manager.Close(id, userID)
}

// apply runs fn on the composition and returns the resulting state.
func (s *composeService) apply(id, userID string, fn func(c *workflow.Composition) error) (*workflow.Snapshot, error) {
	c, err := s.manager.Get(id, userID)
	if err != nil {
		return nil, err
	}
	if err := fn(c); err != nil {
		slog.Info(err.Error(), "composition_id", id)
		return nil, err
	}
	return snapshotOf(c), nil
}

func (s *composeService) SelectPlatforms(ctx context.Context, id, userID string, platforms []models.Platform) (*workflow.Snapshot, error) {
	return s.apply(id, userID, func(c *workflow.Composition) error {
		return c.SelectPlatforms(platforms)
	})
}

func (s *composeService) SetContent(ctx context.Context, id, userID, content string) (*workflow.Snapshot, error) {
	return s.apply(id, userID, func(c *workflow.Composition) error {
		return c.SetContent(content)
	})
}

// AddMedia converts every file before attaching any, so a bad file leaves the
// composition untouched.
func (s *composeService) AddMedia(ctx context.Context, id, userID string, files []*multipart.FileHeader) (*workflow.Snapshot, error) {
	return s.apply(id, userID, func(c *workflow.Composition) error {
		if room := c.MediaRoom(); len(files) > room {
			return fmt.Errorf("%w: at most %d per post", workflow.ErrTooManyMedia, workflow.MaxMediaItems)
		}

		items := make([]models.MediaItem, 0, len(files))
		for _, file := range files {
			item, err := s.media.FromUpload(ctx, file)
			if err != nil {
				return err
			}
			items = append(items, *item)
		}
		return c.AddMedia(items...)
	})
}

func (s *composeService) RemoveMedia(ctx context.Context, id, userID, mediaID string) (*workflow.Snapshot, error) {
	return s.apply(id, userID, func(c *workflow.Composition) error {
		return c.RemoveMedia(mediaID)
	})
}

func (s *composeService) SetSchedule(ctx context.Context, id, userID string, at *time.Time) (*workflow.Snapshot, error) {
	return s.apply(id, userID, func(c *workflow.Composition) error {
		return c.SetSchedule(at)
	})
}

func (s *composeService) Next(ctx context.Context, id, userID string) (*workflow.Snapshot, error) {
	return s.apply(id, userID, func(c *workflow.Composition) error {
		_, err := c.Next()
		return err
	})
}

func (s *composeService) Back(ctx context.Context, id, userID string) (*workflow.Snapshot, error) {
	return s.apply(id, userID, func(c *workflow.Composition) error {
		_, err := c.Back()
		return err
	})
}

func (s *composeService) Review(ctx context.Context, id, userID string) (*workflow.Review, error) {
	c, err := s.manager.Get(id, userID)
	if err != nil {
		return nil, err
	}
	return c.Review()
}

// SuggestCaptions generates captions for the current content. Missing tone
// and audience come from the user's settings.
func (s *composeService) SuggestCaptions(ctx context.Context, id, userID string, opts models.CaptionOptions) ([]models.AICaption, error) {
	c, err := s.manager.Get(id, userID)
	if err != nil {
		return nil, err
	}

	settings, err := s.settings.GetSettingsInfo(ctx, userID)
	if err != nil {
		return nil, err
	}
	if opts.Tone == "" {
		opts.Tone = settings.Tone
	}
	if opts.Audience == "" {
		opts.Audience = settings.Audience
	}

	snap := c.Snapshot()
	if opts.MaxLength == 0 && len(snap.Platforms) > 0 {
		opts.MaxLength = snap.CharacterLimit
	}
	return s.assistant.GenerateCaptions(ctx, snap.Content, snap.Platforms, opts)
}

func (s *composeService) ApplyCaption(ctx context.Context, id, userID string, caption models.AICaption) (*workflow.Snapshot, error) {
	return s.apply(id, userID, func(c *workflow.Composition) error {
		return c.ApplyCaption(caption)
	})
}

func (s *composeService) SaveDraft(ctx context.Context, id, userID string) (*models.Post, error) {
	c, err := s.manager.Get(id, userID)
	if err != nil {
		return nil, err
	}

	var post *models.Post
	err = c.SaveDraft(func(pc *transfer.PostCreation) error {
		created, err := s.posts.CreatePost(ctx, userID, pc)
		if err != nil {
			return err
		}
		post = created
		return nil
	})
	if err != nil {
		slog.Info(err.Error(), "composition_id", id)
		return nil, err
	}
	return post, nil
}

// Publish schedules the post or, without a future time, dispatches it and
// stores it as published. Nothing is stored when the dispatch fails and the
// composition stays open.
func (s *composeService) Publish(ctx context.Context, id, userID string, mobile bool) (*PublishOutcome, error) {
	c, err := s.manager.Get(id, userID)
	if err != nil {
		return nil, err
	}

	out := &PublishOutcome{}
	err = c.Finalize(s.now(), func(f workflow.Finalized) error {
		if f.Dispatch {
			device := NewRecordingDevice()
			results, err := s.publisher.Dispatch(ctx, PostDataFrom(f.Post), mobile, device)
			if err != nil {
				return err
			}
			out.Results = results
			out.Steps = device.Steps()
		}

		post, err := s.posts.CreatePost(ctx, userID, f.Post)
		if err != nil {
			return err
		}
		out.Post = post
		return nil
	})
	if err != nil {
		slog.Info(err.Error(), "composition_id", id)
		return nil, err
	}
	return out, nil
}

// PostDataFrom converts a post into what the dispatcher consumes.
func PostDataFrom(pc *transfer.PostCreation) *transfer.PostData {
	data := &transfer.PostData{
		Content:   pc.Content,
		Media:     make([]transfer.PublishMedia, 0, len(pc.Media)),
		Platforms: make([]string, 0, len(pc.Platforms)),
	}
	for _, m := range pc.Media {
		data.Media = append(data.Media, transfer.PublishMedia{URL: m.URL, Type: m.Kind})
	}
	for _, p := range pc.Platforms {
		data.Platforms = append(data.Platforms, p.String())
	}
	return data
}
