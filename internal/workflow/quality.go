package workflow

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/maheshrc27/vizora/internal/models"
	"github.com/microcosm-cc/bluemonday"
)

// Quality rule weights. They add up to 100.
const (
	WeightLength     = 25
	WeightMedia      = 30
	WeightHashtags   = 20
	WeightPlatforms  = 15
	WeightEngagement = 10
)

const minDescriptiveLength = 50

var (
	hashtagPattern = regexp.MustCompile(`#\w+`)
	mentionPattern = regexp.MustCompile(`@\w+`)

	strictPolicy = bluemonday.StrictPolicy()
)

type RuleResult struct {
	Rule   string `json:"rule"`
	Weight int    `json:"weight"`
	Passed bool   `json:"passed"`
}

// Quality is the advisory score shown at review. It never blocks publishing.
type Quality struct {
	Score    int          `json:"score"`
	Rules    []RuleResult `json:"rules"`
	Feedback []string     `json:"feedback"`
}

type Estimates struct {
	Followers  int `json:"followers"`
	Reach      int `json:"reach"`
	Engagement int `json:"engagement"`
	Likes      int `json:"likes"`
	Comments   int `json:"comments"`
	Shares     int `json:"shares"`
}

type Preview struct {
	Platform       models.Platform `json:"platform"`
	DisplayName    string          `json:"display_name"`
	Color          string          `json:"color"`
	Text           string          `json:"text"`
	Truncated      string          `json:"truncated"`
	CharacterCount int             `json:"character_count"`
	CharacterLimit int             `json:"character_limit"`
	OverLimit      bool            `json:"over_limit"`
	Hashtags       []string        `json:"hashtags"`
	Mentions       []string        `json:"mentions"`
	MediaCount     int             `json:"media_count"`
}

type Review struct {
	Quality   Quality   `json:"quality"`
	Estimates Estimates `json:"estimates"`
	Previews  []Preview `json:"previews"`
}

func Hashtags(content string) []string {
	return hashtagPattern.FindAllString(content, -1)
}

func Mentions(content string) []string {
	return mentionPattern.FindAllString(content, -1)
}

func hasCallToAction(content string) bool {
	lower := strings.ToLower(content)
	return strings.Contains(content, "?") ||
		strings.Contains(lower, "what do you think") ||
		strings.Contains(lower, "comment below")
}

// ScoreQuality sums five independent fixed-weight rules, so the score is
// always within [0, 100].
func ScoreQuality(content string, platforms []models.Platform, mediaCount int) Quality {
	var q Quality

	add := func(rule string, weight int, passed bool, feedback string) {
		q.Rules = append(q.Rules, RuleResult{Rule: rule, Weight: weight, Passed: passed})
		if passed {
			q.Score += weight
		} else if feedback != "" {
			q.Feedback = append(q.Feedback, feedback)
		}
	}

	length := utf8.RuneCountInString(content)
	limit := models.MinCharacterLimit(platforms)
	lengthFeedback := ""
	switch {
	case length <= minDescriptiveLength:
		lengthFeedback = "Consider adding more descriptive content"
	case length > limit:
		lengthFeedback = "Shorten your content to fit every selected platform"
	}
	add("length", WeightLength, length > minDescriptiveLength && length <= limit, lengthFeedback)

	add("media", WeightMedia, mediaCount > 0, "Adding media can increase engagement by 50%")

	tags := len(Hashtags(content))
	hashtagFeedback := ""
	if tags < 3 {
		hashtagFeedback = "Add 3-5 relevant hashtags to increase discoverability"
	}
	add("hashtags", WeightHashtags, tags >= 3 && tags <= 10, hashtagFeedback)

	add("platforms", WeightPlatforms, len(platforms) > 1, "")

	add("engagement", WeightEngagement, hasCallToAction(content), "Ask a question to encourage engagement")

	return q
}

// EstimateMetrics projects reach and engagement from a follower count:
// 15% reach, 8% of reach engages, split 70/20/10 into likes, comments, shares.
func EstimateMetrics(followers int) Estimates {
	reach := followers * 15 / 100
	engagement := reach * 8 / 100
	return Estimates{
		Followers:  followers,
		Reach:      reach,
		Engagement: engagement,
		Likes:      engagement * 70 / 100,
		Comments:   engagement * 20 / 100,
		Shares:     engagement * 10 / 100,
	}
}

// SanitizeText strips any markup from user or model supplied text.
func SanitizeText(s string) string {
	return html.UnescapeString(strictPolicy.Sanitize(s))
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

// Previews renders the content as each selected platform would show it.
func Previews(content string, platforms []models.Platform, mediaCount int) []Preview {
	text := SanitizeText(content)
	count := utf8.RuneCountInString(text)
	hashtags := Hashtags(text)
	mentions := Mentions(text)

	previews := make([]Preview, 0, len(platforms))
	for _, p := range platforms {
		limit := p.CharacterLimit()
		previews = append(previews, Preview{
			Platform:       p,
			DisplayName:    p.DisplayName(),
			Color:          p.Color(),
			Text:           text,
			Truncated:      truncate(text, limit),
			CharacterCount: count,
			CharacterLimit: limit,
			OverLimit:      count > limit,
			Hashtags:       hashtags,
			Mentions:       mentions,
			MediaCount:     mediaCount,
		})
	}
	return previews
}
