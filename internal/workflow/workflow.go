// Package workflow implements the four-stage post composition wizard:
// platform selection, content and media, scheduling, and review.
package workflow

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/maheshrc27/vizora/internal/models"
	"github.com/maheshrc27/vizora/internal/transfer"
)

// MaxMediaItems caps the attachments of a single composition.
const MaxMediaItems = 10

var (
	ErrClosed               = errors.New("composition is closed")
	ErrNoPlatforms          = errors.New("select at least one platform")
	ErrEmptyContent         = errors.New("content cannot be empty")
	ErrContentTooLong       = errors.New("content exceeds the character limit")
	ErrPlatformNotConnected = errors.New("platform is not connected")
	ErrTooManyMedia         = errors.New("too many media items")
	ErrMediaNotFound        = errors.New("media item not found")
	ErrFinalStage           = errors.New("already at the last stage")
	ErrFirstStage           = errors.New("already at the first stage")
	ErrNotAtReview          = errors.New("composition is not at the review stage")
)

type Stage int

const (
	StagePlatformSelect Stage = iota + 1
	StageContent
	StageSchedule
	StageReview
)

func (s Stage) String() string {
	switch s {
	case StagePlatformSelect:
		return "platforms"
	case StageContent:
		return "content"
	case StageSchedule:
		return "schedule"
	case StageReview:
		return "review"
	}
	return "unknown"
}

// Snapshot is a consistent copy of a composition's state.
type Snapshot struct {
	ID             string             `json:"id"`
	Stage          Stage              `json:"stage"`
	StageName      string             `json:"stage_name"`
	Platforms      []models.Platform  `json:"platforms"`
	Content        string             `json:"content"`
	Media          []models.MediaItem `json:"media"`
	ScheduledTime  *time.Time         `json:"scheduled_time,omitempty"`
	CharacterCount int                `json:"character_count"`
	CharacterLimit int                `json:"character_limit"`
	CanProceed     bool               `json:"can_proceed"`
	Blocker        string             `json:"blocker,omitempty"`
}

// Finalized is what a composition turns into when it is published or scheduled.
type Finalized struct {
	Post *transfer.PostCreation
	// Dispatch is set when the post goes out now rather than at a future time.
	Dispatch bool
}

// Composition is one open run of the wizard. All methods are safe for
// concurrent use; once closed every mutating call returns ErrClosed.
type Composition struct {
	mu sync.Mutex

	id     string
	userID string
	// followers of each connected platform at the time the composition opened
	connected map[models.Platform]int

	stage     Stage
	platforms []models.Platform
	content   string
	media     []models.MediaItem
	scheduled *time.Time

	closed     bool
	lastActive time.Time

	now          func() time.Time
	onTransition func(from, to Stage)
}

// New opens a composition for user. Only platforms the user has connected
// can be selected.
func New(id string, user *models.User) *Composition {
	c := &Composition{
		id:        id,
		userID:    user.ID,
		connected: make(map[models.Platform]int),
		stage:     StagePlatformSelect,
		now:       time.Now,
	}
	for _, sp := range user.Connected() {
		c.connected[sp.Platform] = sp.Followers
	}
	c.lastActive = c.now()
	return c
}

func (c *Composition) ID() string { return c.id }

func (c *Composition) UserID() string { return c.userID }

// touch must be called with mu held.
func (c *Composition) touch() error {
	if c.closed {
		return ErrClosed
	}
	c.lastActive = c.now()
	return nil
}

// SelectPlatforms replaces the current selection. Duplicates are dropped and
// every platform must be connected.
func (c *Composition) SelectPlatforms(platforms []models.Platform) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.touch(); err != nil {
		return err
	}

	seen := make(map[models.Platform]bool, len(platforms))
	selected := make([]models.Platform, 0, len(platforms))
	for _, p := range platforms {
		if _, ok := c.connected[p]; !ok {
			return fmt.Errorf("%w: %s", ErrPlatformNotConnected, p)
		}
		if seen[p] {
			continue
		}
		seen[p] = true
		selected = append(selected, p)
	}

	c.platforms = selected
	return nil
}

// TogglePlatform adds p to the selection or removes it when already selected.
func (c *Composition) TogglePlatform(p models.Platform) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.touch(); err != nil {
		return err
	}
	if _, ok := c.connected[p]; !ok {
		return fmt.Errorf("%w: %s", ErrPlatformNotConnected, p)
	}

	for i, selected := range c.platforms {
		if selected == p {
			c.platforms = append(c.platforms[:i:i], c.platforms[i+1:]...)
			return nil
		}
	}
	c.platforms = append(c.platforms, p)
	return nil
}

func (c *Composition) SetContent(content string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.touch(); err != nil {
		return err
	}
	c.content = content
	return nil
}

// ApplyCaption replaces the content with a generated caption followed by its
// hashtags.
func (c *Composition) ApplyCaption(caption models.AICaption) error {
	content := caption.Content
	if len(caption.Hashtags) > 0 {
		content += "\n\n" + strings.Join(caption.Hashtags, " ")
	}
	return c.SetContent(content)
}

func (c *Composition) AddMedia(items ...models.MediaItem) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.touch(); err != nil {
		return err
	}
	if len(c.media)+len(items) > MaxMediaItems {
		return fmt.Errorf("%w: at most %d per post", ErrTooManyMedia, MaxMediaItems)
	}
	c.media = append(c.media, items...)
	return nil
}

// MediaRoom reports how many more items can be attached.
func (c *Composition) MediaRoom() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return MaxMediaItems - len(c.media)
}

func (c *Composition) RemoveMedia(mediaID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.touch(); err != nil {
		return err
	}
	for i, m := range c.media {
		if m.ID == mediaID {
			c.media = append(c.media[:i:i], c.media[i+1:]...)
			return nil
		}
	}
	return ErrMediaNotFound
}

// SetSchedule sets the publication time; nil means "now".
func (c *Composition) SetSchedule(at *time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.touch(); err != nil {
		return err
	}
	if at == nil {
		c.scheduled = nil
		return nil
	}
	t := *at
	c.scheduled = &t
	return nil
}

// CharacterLimit is the smallest limit across the selected platforms.
func (c *Composition) CharacterLimit() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return models.MinCharacterLimit(c.platforms)
}

// guard reports why stage s cannot be left forward, or nil.
// Must be called with mu held.
func (c *Composition) guard(s Stage) error {
	switch s {
	case StagePlatformSelect:
		if len(c.platforms) == 0 {
			return ErrNoPlatforms
		}
	case StageContent:
		if strings.TrimSpace(c.content) == "" {
			return ErrEmptyContent
		}
		limit := models.MinCharacterLimit(c.platforms)
		if n := utf8.RuneCountInString(c.content); n > limit {
			return fmt.Errorf("%w: %d of %d characters", ErrContentTooLong, n, limit)
		}
	case StageReview:
		return ErrFinalStage
	}
	return nil
}

// CanProceed reports whether Next would succeed.
func (c *Composition) CanProceed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed && c.guard(c.stage) == nil
}

func (c *Composition) Stage() Stage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stage
}

// Next advances one stage when the current stage's guard passes.
func (c *Composition) Next() (Stage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.touch(); err != nil {
		return c.stage, err
	}
	if err := c.guard(c.stage); err != nil {
		return c.stage, err
	}

	from := c.stage
	c.stage++
	c.transitioned(from)
	return c.stage, nil
}

// Back returns to the previous stage. State is kept as is.
func (c *Composition) Back() (Stage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.touch(); err != nil {
		return c.stage, err
	}
	if c.stage == StagePlatformSelect {
		return c.stage, ErrFirstStage
	}

	from := c.stage
	c.stage--
	c.transitioned(from)
	return c.stage, nil
}

func (c *Composition) transitioned(from Stage) {
	if c.onTransition != nil {
		c.onTransition(from, c.stage)
	}
}

func (c *Composition) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

func (c *Composition) snapshot() Snapshot {
	s := Snapshot{
		ID:             c.id,
		Stage:          c.stage,
		StageName:      c.stage.String(),
		Platforms:      append([]models.Platform(nil), c.platforms...),
		Content:        c.content,
		Media:          append([]models.MediaItem(nil), c.media...),
		CharacterCount: utf8.RuneCountInString(c.content),
		CharacterLimit: models.MinCharacterLimit(c.platforms),
	}
	if c.scheduled != nil {
		t := *c.scheduled
		s.ScheduledTime = &t
	}
	switch {
	case c.closed:
		s.Blocker = ErrClosed.Error()
	case c.stage == StageReview:
	default:
		if err := c.guard(c.stage); err != nil {
			s.Blocker = err.Error()
		} else {
			s.CanProceed = true
		}
	}
	return s
}

// Review computes the advisory quality score, reach estimates and
// per-platform previews of the current content.
func (c *Composition) Review() (*Review, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.touch(); err != nil {
		return nil, err
	}

	followers := 0
	for _, p := range c.platforms {
		followers += c.connected[p]
	}

	return &Review{
		Quality:   ScoreQuality(c.content, c.platforms, len(c.media)),
		Estimates: EstimateMetrics(followers),
		Previews:  Previews(c.content, c.platforms, len(c.media)),
	}, nil
}

func (c *Composition) creation(status models.PostStatus) *transfer.PostCreation {
	pc := &transfer.PostCreation{
		Content:   c.content,
		Platforms: append([]models.Platform(nil), c.platforms...),
		Media:     append([]models.MediaItem(nil), c.media...),
		Status:    status,
	}
	if c.scheduled != nil {
		t := *c.scheduled
		pc.ScheduledTime = &t
	}
	return pc
}

// SaveDraft hands the current state to commit as a draft, whatever stage the
// composition is in. The composition closes when commit succeeds. commit runs
// with the composition locked and must not call back into it.
func (c *Composition) SaveDraft(commit func(*transfer.PostCreation) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.touch(); err != nil {
		return err
	}
	if err := commit(c.creation(models.PostStatusDraft)); err != nil {
		return err
	}
	c.closed = true
	return nil
}

// Finalize publishes or schedules the composition. It must be at the review
// stage and the earlier guards must still hold. A schedule time after now
// yields a scheduled post; otherwise the post is published immediately and
// Dispatch is set. The composition closes when commit succeeds. commit runs
// with the composition locked and must not call back into it.
func (c *Composition) Finalize(now time.Time, commit func(Finalized) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.touch(); err != nil {
		return err
	}
	if c.stage != StageReview {
		return ErrNotAtReview
	}
	for s := StagePlatformSelect; s < StageReview; s++ {
		if err := c.guard(s); err != nil {
			return err
		}
	}

	var f Finalized
	if c.scheduled != nil && c.scheduled.After(now) {
		f.Post = c.creation(models.PostStatusScheduled)
	} else {
		f.Post = c.creation(models.PostStatusPublished)
		f.Post.ScheduledTime = nil
		f.Dispatch = true
	}

	if err := commit(f); err != nil {
		return err
	}
	c.closed = true
	return nil
}

// Close discards the composition. Closing twice is a no-op.
func (c *Composition) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *Composition) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Composition) idleSince() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastActive
}
