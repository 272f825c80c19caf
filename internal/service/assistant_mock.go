package service

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"strings"

	"github.com/maheshrc27/vizora/internal/metrics"
	"github.com/maheshrc27/vizora/internal/models"
)

var (
	ErrEmptyPrompt   = errors.New("content cannot be empty")
	ErrEmptyChat     = errors.New("at least one message is required")
	ErrEmptyImageRef = errors.New("image reference cannot be empty")
)

var mockCaptionTemplates = map[models.Tone][3]string{
	models.ToneProfessional: {
		"Excited to share insights from our latest project. The attention to detail in this design showcases the importance of thoughtful user experience.",
		"Showcasing innovative design solutions that prioritize user experience and accessibility. Every element serves a purpose.",
		"Demonstrating the impact of strategic design decisions on user engagement and business outcomes.",
	},
	models.TonePromotional: {
		"🔥 Don't miss out on this amazing design! Limited time offer - check out our latest collection now!",
		"💫 NEW RELEASE ALERT! Get 25% off our premium design templates. Link in bio!",
		"Ready to transform your brand? Our design team is here to help! Book a consultation today.",
	},
	models.ToneCasual: {
		"Just finished this beautiful design and I'm so excited to share it with you all! ✨ What do you think?",
		"When creativity meets functionality 🎨 This project taught me so much about the design process!",
		"Another day, another design challenge conquered! 💪 Love how this turned out.",
	},
}

var mockCaptionHashtags = [3][]string{
	{"#design", "#creativity", "#inspiration", "#art", "#ui", "#ux"},
	{"#designthinking", "#innovation", "#userexperience", "#creative"},
	{"#branding", "#designstrategy", "#business", "#growth"},
}

var mockChatReplies = []string{
	"I'd be happy to help you with that! Here are some suggestions based on current trends...",
	"Great question! Let me analyze your content performance and provide some insights.",
	"I can help you create engaging content for that topic. Here's what I recommend...",
	"Based on your audience data, here are the optimal times to post...",
	"Let me generate some caption ideas for your next post. What's the main theme?",
	"I notice your engagement is highest on visual content. Would you like me to suggest some image ideas?",
}

var mockImageAnalyses = []string{
	"This image shows great composition with vibrant colors that would work well for social media engagement.",
	"The visual elements in this image suggest themes of creativity and innovation - perfect for design-focused content.",
	"This image has strong visual appeal with good lighting and composition that should perform well across platforms.",
}

var mockHashtags = []string{"#design", "#creativity", "#inspiration", "#art", "#digital"}

// defaultCaptionSubject stands in for content the user has not typed yet.
const defaultCaptionSubject = "Create engaging social media content"

const mockConnectionMessage = "OpenAI API key not configured. Please add your API key in the settings."

// mockAssistant answers from fixed tables and never touches the network.
type mockAssistant struct {
	metrics metrics.MetricsCollector
}

func newMockAssistant(mc metrics.MetricsCollector) *mockAssistant {
	return &mockAssistant{metrics: mc}
}

func (m *mockAssistant) Configured() bool { return false }

// MockCaptions is the fixed caption set for tone. Friendly shares the casual
// templates.
func MockCaptions(tone models.Tone, platforms []models.Platform) []models.AICaption {
	templates, ok := mockCaptionTemplates[tone]
	if !ok {
		templates = mockCaptionTemplates[models.ToneCasual]
	}
	if tone == "" {
		tone = models.ToneCasual
	}

	platform := captionPlatform(platforms)
	captions := make([]models.AICaption, 0, len(templates))
	for i, text := range templates {
		captions = append(captions, models.AICaption{
			ID:       strconv.Itoa(i + 1),
			Content:  text,
			Tone:     tone,
			Hashtags: append([]string(nil), mockCaptionHashtags[i]...),
			Platform: platform,
		})
	}
	return captions
}

// pick chooses a stable entry for key.
func pick(options []string, key string) string {
	h := fnv.New32a()
	h.Write([]byte(key))
	return options[h.Sum32()%uint32(len(options))]
}

func (m *mockAssistant) GenerateCaptions(ctx context.Context, content string, platforms []models.Platform, opts models.CaptionOptions) ([]models.AICaption, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.metrics.RecordAIRequest("captions", metrics.SourceMock)
	return MockCaptions(opts.Tone, platforms), nil
}

func (m *mockAssistant) GenerateFromImage(ctx context.Context, description string, platforms []models.Platform, opts models.CaptionOptions) ([]models.AICaption, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.metrics.RecordAIRequest("image_captions", metrics.SourceMock)
	return MockCaptions(opts.Tone, platforms), nil
}

func (m *mockAssistant) Chat(ctx context.Context, messages []models.ChatMessage) (string, error) {
	if len(messages) == 0 {
		return "", ErrEmptyChat
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.metrics.RecordAIRequest("chat", metrics.SourceMock)
	return pick(mockChatReplies, messages[len(messages)-1].Content), nil
}

func (m *mockAssistant) AnalyzeImage(ctx context.Context, imageRef string) (string, error) {
	if imageRef == "" {
		return "", ErrEmptyImageRef
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.metrics.RecordAIRequest("analyze_image", metrics.SourceMock)
	return pick(mockImageAnalyses, imageRef), nil
}

func (m *mockAssistant) GenerateHashtags(ctx context.Context, content string, platform models.Platform) ([]string, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyPrompt
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.metrics.RecordAIRequest("hashtags", metrics.SourceMock)
	return append([]string(nil), mockHashtags...), nil
}

func (m *mockAssistant) OptimalPostTimes(ctx context.Context, platform models.Platform) []string {
	return postTimesFor(platform)
}

func (m *mockAssistant) TestConnection(ctx context.Context) models.ConnectionStatus {
	return models.ConnectionStatus{Success: false, Message: mockConnectionMessage}
}
