package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/maheshrc27/vizora/internal/metrics"
	"github.com/maheshrc27/vizora/internal/models"
	"github.com/maheshrc27/vizora/internal/transfer"
	"github.com/maheshrc27/vizora/internal/workflow"
)

var (
	ErrUnsupportedPlatform  = errors.New("platform not supported")
	ErrNoPlatformsToPublish = errors.New("no platforms to publish to")
	ErrOpenFailed           = errors.New("could not open platform")
)

var mobileUserAgent = regexp.MustCompile(`(?i)Android|webOS|iPhone|iPad|iPod|BlackBerry|IEMobile|Opera Mini`)

var manualPostInstructions = []string{
	"1. Your content has been copied to clipboard",
	"2. The social media app/website will open",
	"3. Paste your content and add your media",
	"4. Review and publish your post",
}

func IsMobileUserAgent(ua string) bool {
	return mobileUserAgent.MatchString(ua)
}

// Clipboard receives the post text before a platform is opened.
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

// Opener opens link once after has elapsed.
type Opener interface {
	Open(ctx context.Context, link string, after time.Duration) error
}

// Device is where a post is handed over: the user's clipboard and browser.
type Device interface {
	Clipboard
	Opener
}

type PublishService interface {
	Dispatch(ctx context.Context, post *transfer.PostData, mobile bool, device Device) ([]transfer.DispatchResult, error)
	PrepareManualPost(post *transfer.PostData) *transfer.ManualPost
}

type publishService struct {
	origin        string
	fallbackDelay time.Duration
	metrics       metrics.MetricsCollector
}

// NewPublishService creates the dispatcher. origin is the public address of
// the dashboard, used by share links that need a URL.
func NewPublishService(origin string, fallbackDelay time.Duration, mc metrics.MetricsCollector) PublishService {
	if mc == nil {
		mc = metrics.Nop{}
	}
	return &publishService{
		origin:        origin,
		fallbackDelay: fallbackDelay,
		metrics:       mc,
	}
}

// encodeComponent escapes s for use inside a query value, with spaces as %20.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

type platformTarget struct {
	platform     models.Platform
	mobile       string
	web          string
	instructions string
}

// ResolveLinks fills the platform's link templates for a post.
func ResolveLinks(p models.Platform, content, origin, firstImage string) (mobile, web string, err error) {
	links, ok := p.Links()
	if !ok {
		return "", "", fmt.Errorf("%w: %s", ErrUnsupportedPlatform, p)
	}

	mobile, web = links.Mobile, links.Web
	if firstImage == "" {
		if links.MobileWithoutMedia != "" {
			mobile = links.MobileWithoutMedia
		}
		if links.WebWithoutMedia != "" {
			web = links.WebWithoutMedia
		}
	}

	r := strings.NewReplacer(
		"{text}", encodeComponent(content),
		"{origin}", encodeComponent(origin),
		"{media}", encodeComponent(firstImage),
	)
	return r.Replace(mobile), r.Replace(web), nil
}

func firstImageURL(media []transfer.PublishMedia) string {
	for _, m := range media {
		if m.Type == models.MediaImage {
			return m.URL
		}
	}
	return ""
}

// targets validates every platform before anything is dispatched.
func (s *publishService) targets(post *transfer.PostData) ([]platformTarget, error) {
	if len(post.Platforms) == 0 {
		return nil, ErrNoPlatformsToPublish
	}

	image := firstImageURL(post.Media)
	targets := make([]platformTarget, 0, len(post.Platforms))
	for _, name := range post.Platforms {
		p, err := models.ParsePlatform(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, name)
		}
		mobile, web, err := ResolveLinks(p, post.Content, s.origin, image)
		if err != nil {
			return nil, err
		}
		links, _ := p.Links()
		targets = append(targets, platformTarget{
			platform:     p,
			mobile:       mobile,
			web:          web,
			instructions: links.Instructions,
		})
	}
	return targets, nil
}

// Dispatch copies the content and opens each platform in turn. On mobile the
// deep link is opened first and the web URL after the fallback delay; on
// desktop only the web URL is opened. Opening a link is all that is known, so
// results are never confirmed.
func (s *publishService) Dispatch(ctx context.Context, post *transfer.PostData, mobile bool, device Device) ([]transfer.DispatchResult, error) {
	targets, err := s.targets(post)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	results := make([]transfer.DispatchResult, 0, len(targets))
	for _, t := range targets {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		result := transfer.DispatchResult{
			Platform:     t.platform,
			Instructions: t.instructions,
		}

		if err := device.WriteText(ctx, post.Content); err != nil {
			slog.Info("could not copy to clipboard", "platform", t.platform.String(), "error", err.Error())
		} else {
			result.ContentCopied = true
		}

		opened, err := s.open(ctx, t, mobile, device)
		result.Opened = opened
		s.metrics.RecordDispatch(t.platform.String(), err == nil)
		if err != nil {
			slog.Info(err.Error())
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}

func (s *publishService) open(ctx context.Context, t platformTarget, mobile bool, device Device) ([]string, error) {
	var opened []string

	webDelay := time.Duration(0)
	if mobile {
		if err := device.Open(ctx, t.mobile, 0); err != nil {
			slog.Info("deep link failed, opening web", "platform", t.platform.String(), "error", err.Error())
		} else {
			opened = append(opened, t.mobile)
			webDelay = s.fallbackDelay
		}
	}

	if err := device.Open(ctx, t.web, webDelay); err != nil {
		if len(opened) > 0 {
			// the app opened; the web fallback is optional
			return opened, nil
		}
		return opened, fmt.Errorf("%w %s: %v", ErrOpenFailed, t.platform, err)
	}
	return append(opened, t.web), nil
}

func (s *publishService) PrepareManualPost(post *transfer.PostData) *transfer.ManualPost {
	kinds := make([]models.MediaKind, 0, len(post.Media))
	for _, m := range post.Media {
		kinds = append(kinds, m.Type)
	}

	hashtags := workflow.Hashtags(post.Content)
	if hashtags == nil {
		hashtags = []string{}
	}
	mentions := workflow.Mentions(post.Content)
	if mentions == nil {
		mentions = []string{}
	}

	return &transfer.ManualPost{
		Text:         post.Content,
		MediaCount:   len(post.Media),
		MediaTypes:   kinds,
		Hashtags:     hashtags,
		Mentions:     mentions,
		Instructions: append([]string(nil), manualPostInstructions...),
	}
}

// RecordingDevice collects what should happen on the user's device so the
// client can replay it. It only fails once ctx is done.
type RecordingDevice struct {
	mu    sync.Mutex
	steps []transfer.PublishStep
}

func NewRecordingDevice() *RecordingDevice {
	return &RecordingDevice{}
}

func (d *RecordingDevice) WriteText(ctx context.Context, text string) error {
	return d.record(ctx, transfer.PublishStep{Action: "copy", Value: text})
}

func (d *RecordingDevice) Open(ctx context.Context, link string, after time.Duration) error {
	return d.record(ctx, transfer.PublishStep{Action: "open", Value: link, AfterMS: after.Milliseconds()})
}

func (d *RecordingDevice) record(ctx context.Context, step transfer.PublishStep) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.steps = append(d.steps, step)
	return nil
}

func (d *RecordingDevice) Steps() []transfer.PublishStep {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]transfer.PublishStep(nil), d.steps...)
}

// SleepingOpener waits out the delay before opening, giving up when ctx is
// done.
type SleepingOpener struct {
	OpenFunc func(ctx context.Context, link string) error
}

func (o SleepingOpener) Open(ctx context.Context, link string, after time.Duration) error {
	if after > 0 {
		timer := time.NewTimer(after)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	return o.OpenFunc(ctx, link)
}
