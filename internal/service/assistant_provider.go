package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	config "github.com/maheshrc27/vizora/configs"
	"github.com/maheshrc27/vizora/internal/metrics"
	"github.com/maheshrc27/vizora/internal/models"
	"github.com/maheshrc27/vizora/internal/transfer"
	"github.com/maheshrc27/vizora/internal/workflow"
	"github.com/sony/gobreaker"
	"golang.org/x/oauth2"
)

const (
	captionSystemPrompt = "You are a social media expert who creates engaging, authentic captions that drive engagement. Always include relevant hashtags and maintain the requested tone."
	chatSystemPrompt    = "You are Vizora AI, a helpful assistant specialized in social media management, content creation, and digital marketing. Provide practical, actionable advice to help users grow their social media presence."
	imageAnalysisPrompt = "Analyze this image for social media content creation. Describe what you see and suggest content themes, mood, and potential caption ideas."

	chatFailureReply      = "I apologize, but I'm having trouble connecting right now. Please check your API configuration or try again later."
	chatEmptyReply        = "I apologize, but I encountered an issue. Please try again."
	imageFailureReply     = "Image analysis not available. Please try again later."
	imageEmptyReply       = "Unable to analyze image."
	maxGeneratedCaptions  = 3
	hashtagMaxTokens      = 100
	postTimesMaxTokens    = 60
	imageAnalysisTokens   = 300
	connectionProbeTokens = 10
)

var (
	errEmptyCompletion = errors.New("provider returned no choices")

	fallbackHashtags = []string{"#content", "#social", "#media"}
)

// providerAssistant talks to an OpenAI compatible chat completion API and
// falls back to the mock answers on any failure.
type providerAssistant struct {
	cfg     config.OpenAI
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	metrics metrics.MetricsCollector
}

func newProviderAssistant(cfg config.OpenAI, base *http.Client, mc metrics.MetricsCollector) *providerAssistant {
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: cfg.APIKey,
		TokenType:   "Bearer",
	}))
	client.Timeout = base.Timeout

	return &providerAssistant{
		cfg:     cfg,
		client:  client,
		breaker: newProviderBreaker("openai"),
		metrics: mc,
	}
}

func newProviderBreaker(name string) *gobreaker.CircuitBreaker {
	st := gobreaker.Settings{Name: name}
	st.Interval = 60 * time.Second
	st.Timeout = 60 * time.Second
	st.ReadyToTrip = func(counts gobreaker.Counts) bool {
		if counts.ConsecutiveFailures >= 3 {
			return true
		}
		if counts.Requests < 20 {
			return false
		}
		return float64(counts.TotalFailures)/float64(counts.Requests) > 0.5
	}
	// a caller giving up says nothing about the provider
	st.IsSuccessful = func(err error) bool {
		return err == nil || errors.Is(err, context.Canceled)
	}
	st.OnStateChange = func(name string, from, to gobreaker.State) {
		slog.Info("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
	}
	return gobreaker.NewCircuitBreaker(st)
}

func (p *providerAssistant) Configured() bool { return true }

func (p *providerAssistant) completionRequest(model string, maxTokens int, messages ...transfer.ChatCompletionMessage) *transfer.ChatCompletionRequest {
	temperature := p.cfg.Temperature
	return &transfer.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: &temperature,
	}
}

// complete sends one chat completion request and returns the first choice.
func (p *providerAssistant) complete(ctx context.Context, req *transfer.ChatCompletionRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(p.cfg.BaseURL, "/")+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr transfer.OpenAIErrorResponse
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error.Message != "" {
			return "", fmt.Errorf("provider returned %d: %s", resp.StatusCode, apiErr.Error.Message)
		}
		return "", fmt.Errorf("provider returned %d", resp.StatusCode)
	}

	var completion transfer.ChatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("decode completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", errEmptyCompletion
	}
	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}

// call runs complete behind the circuit breaker. An open breaker fails fast.
func (p *providerAssistant) call(ctx context.Context, req *transfer.ChatCompletionRequest) (string, error) {
	out, err := p.breaker.Execute(func() (interface{}, error) {
		return p.complete(ctx, req)
	})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

func (p *providerAssistant) captionPrompt(subject string, platforms []models.Platform, opts models.CaptionOptions) string {
	tone := opts.Tone
	if tone == "" {
		tone = models.ToneCasual
	}

	platformText := "social media"
	if len(platforms) > 0 {
		names := make([]string, len(platforms))
		for i, pl := range platforms {
			names[i] = pl.DisplayName()
		}
		platformText = strings.Join(names, ", ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Create %d %s social media captions for %s", maxGeneratedCaptions, tone, platformText)
	if opts.Audience != "" {
		fmt.Fprintf(&b, " for %s", opts.Audience)
	}
	fmt.Fprintf(&b, ".\n\nContent context: %s\n\nRequirements:\n", subject)
	fmt.Fprintf(&b, "- Tone: %s\n- Platform(s): %s\n- Include relevant hashtags\n- Keep it engaging and authentic\n", tone, platformText)
	if opts.MaxLength > 0 {
		fmt.Fprintf(&b, "- Keep each caption under %d characters\n", opts.MaxLength)
	}
	if len(opts.Keywords) > 0 {
		fmt.Fprintf(&b, "- Include these keywords: %s\n", strings.Join(opts.Keywords, ", "))
	}
	b.WriteString(`
Return only a JSON array of objects with a "caption" string and a "hashtags" array of strings.`)
	return b.String()
}

func (p *providerAssistant) captions(ctx context.Context, op, subject string, platforms []models.Platform, opts models.CaptionOptions) ([]models.AICaption, error) {
	req := p.completionRequest(p.cfg.Model, p.cfg.MaxTokens,
		transfer.ChatCompletionMessage{Role: string(models.RoleSystem), Content: captionSystemPrompt},
		transfer.ChatCompletionMessage{Role: string(models.RoleUser), Content: p.captionPrompt(subject, platforms, opts)},
	)

	text, err := p.call(ctx, req)
	if err == nil {
		if captions := parseCaptions(text, platforms, opts); len(captions) > 0 {
			p.metrics.RecordAIRequest(op, metrics.SourceProvider)
			return captions, nil
		}
		err = errEmptyCompletion
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	slog.Info(err.Error())
	p.metrics.RecordAIRequest(op, metrics.SourceFallback)
	return MockCaptions(opts.Tone, platforms), nil
}

func (p *providerAssistant) GenerateCaptions(ctx context.Context, content string, platforms []models.Platform, opts models.CaptionOptions) ([]models.AICaption, error) {
	if strings.TrimSpace(content) == "" {
		content = defaultCaptionSubject
	}
	return p.captions(ctx, "captions", content, platforms, opts)
}

func (p *providerAssistant) GenerateFromImage(ctx context.Context, description string, platforms []models.Platform, opts models.CaptionOptions) ([]models.AICaption, error) {
	subject := defaultCaptionSubject
	if strings.TrimSpace(description) != "" {
		subject = "Image description: " + description
	}
	return p.captions(ctx, "image_captions", subject, platforms, opts)
}

func (p *providerAssistant) Chat(ctx context.Context, messages []models.ChatMessage) (string, error) {
	if len(messages) == 0 {
		return "", ErrEmptyChat
	}

	history := make([]transfer.ChatCompletionMessage, 0, len(messages)+1)
	history = append(history, transfer.ChatCompletionMessage{Role: string(models.RoleSystem), Content: chatSystemPrompt})
	for _, m := range messages {
		if m.Role == models.RoleSystem {
			continue
		}
		history = append(history, transfer.ChatCompletionMessage{Role: string(m.Role), Content: m.Content})
	}

	reply, err := p.call(ctx, p.completionRequest(p.cfg.Model, p.cfg.MaxTokens, history...))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		slog.Info(err.Error())
		p.metrics.RecordAIRequest("chat", metrics.SourceFallback)
		return chatFailureReply, nil
	}

	p.metrics.RecordAIRequest("chat", metrics.SourceProvider)
	if reply == "" {
		return chatEmptyReply, nil
	}
	return workflow.SanitizeText(reply), nil
}

func (p *providerAssistant) AnalyzeImage(ctx context.Context, imageRef string) (string, error) {
	if imageRef == "" {
		return "", ErrEmptyImageRef
	}

	req := &transfer.ChatCompletionRequest{
		Model:     p.cfg.VisionModel,
		MaxTokens: imageAnalysisTokens,
		Messages: []transfer.ChatCompletionMessage{{
			Role: string(models.RoleUser),
			Content: []transfer.ContentPart{
				{Type: "text", Text: imageAnalysisPrompt},
				{Type: "image_url", ImageURL: &transfer.ImageURL{URL: imageRef}},
			},
		}},
	}

	analysis, err := p.call(ctx, req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		slog.Info(err.Error())
		p.metrics.RecordAIRequest("analyze_image", metrics.SourceFallback)
		return imageFailureReply, nil
	}

	p.metrics.RecordAIRequest("analyze_image", metrics.SourceProvider)
	if analysis == "" {
		return imageEmptyReply, nil
	}
	return workflow.SanitizeText(analysis), nil
}

func (p *providerAssistant) GenerateHashtags(ctx context.Context, content string, platform models.Platform) ([]string, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyPrompt
	}

	req := &transfer.ChatCompletionRequest{
		Model:     p.cfg.Model,
		MaxTokens: hashtagMaxTokens,
		Messages: []transfer.ChatCompletionMessage{
			{Role: string(models.RoleSystem), Content: fmt.Sprintf("Generate relevant hashtags for %s. Return only hashtags separated by commas, no other text.", platform.DisplayName())},
			{Role: string(models.RoleUser), Content: "Generate 5-8 relevant hashtags for this content: " + content},
		},
	}
	temperature := 0.5
	req.Temperature = &temperature

	text, err := p.call(ctx, req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		slog.Info(err.Error())
		p.metrics.RecordAIRequest("hashtags", metrics.SourceFallback)
		return append([]string(nil), fallbackHashtags...), nil
	}

	p.metrics.RecordAIRequest("hashtags", metrics.SourceProvider)
	var tags []string
	for _, tag := range strings.Split(text, ",") {
		tag = strings.TrimSpace(tag)
		if strings.HasPrefix(tag, "#") {
			tags = append(tags, tag)
		}
	}
	return tags, nil
}

// OptimalPostTimes asks the provider for posting times and falls back to the
// fixed table when the answer holds no recognisable time.
func (p *providerAssistant) OptimalPostTimes(ctx context.Context, platform models.Platform) []string {
	req := &transfer.ChatCompletionRequest{
		Model:     p.cfg.Model,
		MaxTokens: postTimesMaxTokens,
		Messages: []transfer.ChatCompletionMessage{
			{Role: string(models.RoleSystem), Content: "You are a social media scheduling expert. Return only times of day like 9:00 AM separated by commas, no other text."},
			{Role: string(models.RoleUser), Content: fmt.Sprintf("List the 4 best times of day to post on %s for maximum engagement.", platform.DisplayName())},
		},
	}

	text, err := p.call(ctx, req)
	if err == nil {
		if times := parsePostTimes(text); len(times) > 0 {
			p.metrics.RecordAIRequest("post_times", metrics.SourceProvider)
			return times
		}
		err = errEmptyCompletion
	}

	slog.Info(err.Error())
	p.metrics.RecordAIRequest("post_times", metrics.SourceFallback)
	return postTimesFor(platform)
}

var postTimePattern = regexp.MustCompile(`(?i)\b(1[0-2]|0?[1-9]):([0-5][0-9])\s*([ap])\.?m\b`)

// parsePostTimes pulls clock times out of text as "H:MM AM", dropping
// repeats.
func parsePostTimes(text string) []string {
	var times []string
	seen := make(map[string]bool)
	for _, m := range postTimePattern.FindAllStringSubmatch(text, -1) {
		hour := strings.TrimPrefix(m[1], "0")
		t := fmt.Sprintf("%s:%s %sM", hour, m[2], strings.ToUpper(m[3]))
		if seen[t] {
			continue
		}
		seen[t] = true
		times = append(times, t)
	}
	return times
}

// TestConnection probes the provider directly, bypassing the breaker so an
// open circuit can still be checked.
func (p *providerAssistant) TestConnection(ctx context.Context) models.ConnectionStatus {
	req := &transfer.ChatCompletionRequest{
		Model:     p.cfg.Model,
		MaxTokens: connectionProbeTokens,
		Messages: []transfer.ChatCompletionMessage{
			{Role: string(models.RoleUser), Content: `Test connection - respond with "Connection successful"`},
		},
	}

	reply, err := p.complete(ctx, req)
	if err != nil {
		slog.Info(err.Error())
		return models.ConnectionStatus{Success: false, Message: "Connection failed: " + err.Error()}
	}
	if reply == "" {
		return models.ConnectionStatus{Success: false, Message: "Unexpected response from OpenAI API."}
	}
	return models.ConnectionStatus{Success: true, Message: "OpenAI API connection successful!"}
}

// parseCaptions reads the JSON array the caption prompt asks for. Models
// that answer in plain text get a single caption with hashtags pulled out.
func parseCaptions(text string, platforms []models.Platform, opts models.CaptionOptions) []models.AICaption {
	tone := opts.Tone
	if tone == "" {
		tone = models.ToneCasual
	}
	platform := captionPlatform(platforms)

	raw := strings.TrimSpace(text)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var generated []transfer.GeneratedCaption
	if err := json.Unmarshal([]byte(raw), &generated); err != nil {
		generated = []transfer.GeneratedCaption{plainCaption(text)}
	}

	captions := make([]models.AICaption, 0, maxGeneratedCaptions)
	for _, g := range generated {
		content := workflow.SanitizeText(strings.TrimSpace(g.Caption))
		if content == "" {
			continue
		}
		if opts.MaxLength > 0 && utf8.RuneCountInString(content) > opts.MaxLength {
			content = string([]rune(content)[:opts.MaxLength])
		}

		hashtags := make([]string, 0, len(g.Hashtags))
		for _, tag := range g.Hashtags {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			if !strings.HasPrefix(tag, "#") {
				tag = "#" + tag
			}
			hashtags = append(hashtags, tag)
		}

		captions = append(captions, models.AICaption{
			ID:       strconv.Itoa(len(captions) + 1),
			Content:  content,
			Tone:     tone,
			Hashtags: hashtags,
			Platform: platform,
		})
		if len(captions) == maxGeneratedCaptions {
			break
		}
	}
	return captions
}

func plainCaption(text string) transfer.GeneratedCaption {
	hashtags := workflow.Hashtags(text)
	caption := text
	for _, tag := range hashtags {
		caption = strings.Replace(caption, tag, "", 1)
	}
	return transfer.GeneratedCaption{
		Caption:  strings.Join(strings.Fields(caption), " "),
		Hashtags: hashtags,
	}
}
