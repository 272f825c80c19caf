package workflow

import (
	"strings"
	"testing"

	"github.com/maheshrc27/vizora/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQualityScoreIsSumOfRules(t *testing.T) {
	long := strings.Repeat("word ", 20)
	tags := " #one #two #three"

	for _, tc := range []struct {
		name      string
		content   string
		platforms []models.Platform
		media     int
		want      int
	}{
		{"nothing", "", nil, 0, 0},
		{"length only", long, []models.Platform{models.Instagram}, 0, WeightLength},
		{"media only", "short", []models.Platform{models.Instagram}, 2, WeightMedia},
		{"hashtags only", tags, []models.Platform{models.Instagram}, 0, WeightHashtags},
		{"platforms only", "short", []models.Platform{models.Instagram, models.Facebook}, 0, WeightPlatforms},
		{"question only", "why?", nil, 0, WeightEngagement},
		{"call to action", "Comment Below", nil, 0, WeightEngagement},
		{"everything", long + tags + " What do you think", []models.Platform{models.Instagram, models.Facebook}, 1, 100},
		{"over limit loses length", strings.Repeat("a", 281), []models.Platform{models.Twitter}, 0, 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			q := ScoreQuality(tc.content, tc.platforms, tc.media)
			assert.Equal(t, tc.want, q.Score)

			sum := 0
			for _, r := range q.Rules {
				if r.Passed {
					sum += r.Weight
				}
			}
			assert.Equal(t, q.Score, sum)
			assert.GreaterOrEqual(t, q.Score, 0)
			assert.LessOrEqual(t, q.Score, 100)
			require.Len(t, q.Rules, 5)
		})
	}
}

func TestHashtagRuleBounds(t *testing.T) {
	tags := func(n int) string {
		var b strings.Builder
		for i := 0; i < n; i++ {
			b.WriteString(" #t")
			b.WriteByte(byte('a' + i))
		}
		return b.String()
	}

	assert.Equal(t, 0, ScoreQuality(tags(2), nil, 0).Score)
	assert.Equal(t, WeightHashtags, ScoreQuality(tags(3), nil, 0).Score)
	assert.Equal(t, WeightHashtags, ScoreQuality(tags(10), nil, 0).Score)
	assert.Equal(t, 0, ScoreQuality(tags(11), nil, 0).Score)
}

func TestQualityFeedbackForMissedRules(t *testing.T) {
	q := ScoreQuality("hi", []models.Platform{models.Instagram}, 0)
	assert.Contains(t, q.Feedback, "Consider adding more descriptive content")
	assert.Contains(t, q.Feedback, "Adding media can increase engagement by 50%")
	assert.Contains(t, q.Feedback, "Add 3-5 relevant hashtags to increase discoverability")
	assert.Contains(t, q.Feedback, "Ask a question to encourage engagement")
}

func TestEstimateMetricsFloors(t *testing.T) {
	e := EstimateMetrics(20700)
	assert.Equal(t, Estimates{
		Followers:  20700,
		Reach:      3105,
		Engagement: 248,
		Likes:      173,
		Comments:   49,
		Shares:     24,
	}, e)

	assert.Equal(t, Estimates{}, EstimateMetrics(0))
}

func TestPreviewsSanitizeAndTruncate(t *testing.T) {
	content := "<b>Big</b> news @vizora #launch " + strings.Repeat("z", 300)
	previews := Previews(content, []models.Platform{models.Twitter, models.Instagram}, 1)
	require.Len(t, previews, 2)

	tw := previews[0]
	assert.NotContains(t, tw.Text, "<b>")
	assert.True(t, strings.HasPrefix(tw.Text, "Big news"))
	assert.True(t, tw.OverLimit)
	assert.Equal(t, 280, len([]rune(tw.Truncated)))
	assert.True(t, strings.HasSuffix(tw.Truncated, "..."))
	assert.Equal(t, []string{"#launch"}, tw.Hashtags)
	assert.Equal(t, []string{"@vizora"}, tw.Mentions)
	assert.Equal(t, 1, tw.MediaCount)

	ig := previews[1]
	assert.False(t, ig.OverLimit)
	assert.Equal(t, ig.Text, ig.Truncated)
}

func TestSanitizeKeepsPlainPunctuation(t *testing.T) {
	assert.Equal(t, `Tom & Jerry's "show"`, SanitizeText(`Tom & Jerry's "show"`))
}
