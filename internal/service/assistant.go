package service

import (
	"context"
	"net/http"

	config "github.com/maheshrc27/vizora/configs"
	"github.com/maheshrc27/vizora/internal/metrics"
	"github.com/maheshrc27/vizora/internal/models"
)

// Assistant produces captions, chat replies and image descriptions.
// Provider failures are never returned: implementations fall back to canned
// answers. The only errors are invalid input and a cancelled context.
type Assistant interface {
	Configured() bool
	GenerateCaptions(ctx context.Context, content string, platforms []models.Platform, opts models.CaptionOptions) ([]models.AICaption, error)
	GenerateFromImage(ctx context.Context, description string, platforms []models.Platform, opts models.CaptionOptions) ([]models.AICaption, error)
	Chat(ctx context.Context, messages []models.ChatMessage) (string, error)
	AnalyzeImage(ctx context.Context, imageRef string) (string, error)
	GenerateHashtags(ctx context.Context, content string, platform models.Platform) ([]string, error)
	OptimalPostTimes(ctx context.Context, platform models.Platform) []string
	TestConnection(ctx context.Context) models.ConnectionStatus
}

// NewAssistant returns the provider-backed assistant when an API key is
// configured and the mock otherwise.
func NewAssistant(cfg config.OpenAI, mc metrics.MetricsCollector) Assistant {
	if mc == nil {
		mc = metrics.Nop{}
	}
	if !cfg.Configured() {
		return newMockAssistant(mc)
	}
	return newProviderAssistant(cfg, &http.Client{Timeout: cfg.Timeout}, mc)
}

var optimalPostTimes = map[models.Platform][]string{
	models.Instagram: {"9:00 AM", "1:00 PM", "5:00 PM", "7:00 PM"},
	models.Twitter:   {"8:00 AM", "12:00 PM", "3:00 PM", "6:00 PM"},
	models.LinkedIn:  {"9:00 AM", "12:00 PM", "2:00 PM", "5:00 PM"},
	models.Facebook:  {"9:00 AM", "1:00 PM", "3:00 PM", "7:00 PM"},
	models.Pinterest: {"8:00 PM", "9:00 PM", "10:00 PM", "11:00 PM"},
}

func postTimesFor(platform models.Platform) []string {
	times, ok := optimalPostTimes[platform]
	if !ok {
		times = optimalPostTimes[models.Instagram]
	}
	return append([]string(nil), times...)
}

func captionPlatform(platforms []models.Platform) models.Platform {
	if len(platforms) == 0 {
		return models.Instagram
	}
	return platforms[0]
}
