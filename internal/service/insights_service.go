package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/maheshrc27/vizora/internal/models"
)

const recentPostsLimit = 5

var ErrInvalidMonth = errors.New("invalid calendar month")

type Dashboard struct {
	TotalFollowers     int            `json:"total_followers"`
	TotalEngagement    int            `json:"total_engagement"`
	ScheduledPosts     int            `json:"scheduled_posts"`
	ConnectedPlatforms int            `json:"connected_platforms"`
	RecentPosts        []*models.Post `json:"recent_posts"`
}

type CalendarDay struct {
	Day   int            `json:"day"`
	Posts []*models.Post `json:"posts"`
}

type Calendar struct {
	Year  int           `json:"year"`
	Month int           `json:"month"`
	Days  []CalendarDay `json:"days"`
}

type AnalyticsMetric struct {
	Name   string  `json:"name"`
	Value  string  `json:"value"`
	Change float64 `json:"change"`
}

type PlatformPerformance struct {
	Platform   models.Platform `json:"platform"`
	Followers  int             `json:"followers"`
	Engagement float64         `json:"engagement_rate"`
	Posts      int             `json:"posts"`
}

type Analytics struct {
	Metrics   []AnalyticsMetric     `json:"metrics"`
	Platforms []PlatformPerformance `json:"platforms"`
	TopPosts  []*models.Post        `json:"top_posts"`
}

// InsightsService renders the read-only dashboard views.
type InsightsService interface {
	Dashboard(ctx context.Context, userID string) (*Dashboard, error)
	Calendar(ctx context.Context, userID string, year, month int) (*Calendar, error)
	Analytics(ctx context.Context, userID string) (*Analytics, error)
}

type insightsService struct {
	users UserService
	posts PostService
}

func NewInsightsService(users UserService, posts PostService) InsightsService {
	return &insightsService{
		users: users,
		posts: posts,
	}
}

func (s *insightsService) Dashboard(ctx context.Context, userID string) (*Dashboard, error) {
	user, err := s.users.GetUserInfo(ctx, userID)
	if err != nil {
		return nil, err
	}
	posts, err := s.posts.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{RecentPosts: []*models.Post{}}
	for _, p := range user.Connected() {
		d.TotalFollowers += p.Followers
		d.ConnectedPlatforms++
	}
	for _, post := range posts {
		if post.Analytics != nil {
			d.TotalEngagement += post.Analytics.Engagement
		}
		if post.Status == models.PostStatusScheduled {
			d.ScheduledPosts++
		}
	}

	// posts come newest first
	if len(posts) > recentPostsLimit {
		posts = posts[:recentPostsLimit]
	}
	d.RecentPosts = append(d.RecentPosts, posts...)
	return d, nil
}

// calendarTime is when a post shows up on the calendar.
func calendarTime(post *models.Post) time.Time {
	if post.ScheduledTime != nil {
		return *post.ScheduledTime
	}
	return post.CreatedAt
}

func (s *insightsService) Calendar(ctx context.Context, userID string, year, month int) (*Calendar, error) {
	if month < 1 || month > 12 || year < 1 {
		return nil, fmt.Errorf("%w: %d-%d", ErrInvalidMonth, year, month)
	}

	posts, err := s.posts.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	byDay := make(map[int][]*models.Post)
	for _, post := range posts {
		at := calendarTime(post).UTC()
		if at.Before(start) || !at.Before(end) {
			continue
		}
		byDay[at.Day()] = append(byDay[at.Day()], post)
	}

	cal := &Calendar{Year: year, Month: month, Days: []CalendarDay{}}
	for day, dayPosts := range byDay {
		sort.Slice(dayPosts, func(i, j int) bool {
			return calendarTime(dayPosts[i]).Before(calendarTime(dayPosts[j]))
		})
		cal.Days = append(cal.Days, CalendarDay{Day: day, Posts: dayPosts})
	}
	sort.Slice(cal.Days, func(i, j int) bool { return cal.Days[i].Day < cal.Days[j].Day })
	return cal, nil
}

var demoMetrics = []AnalyticsMetric{
	{Name: "Total Reach", Value: "45.2K", Change: 12.5},
	{Name: "Engagement Rate", Value: "4.8%", Change: 0.6},
	{Name: "Profile Visits", Value: "2.1K", Change: -3.2},
	{Name: "New Followers", Value: "892", Change: 18.4},
}

var demoEngagementRates = map[models.Platform]float64{
	models.Instagram: 5.2,
	models.Twitter:   3.1,
	models.LinkedIn:  4.4,
	models.Facebook:  2.7,
	models.Pinterest: 3.8,
	models.YouTube:   6.0,
	models.TikTok:    7.5,
}

// Analytics returns demo metrics. Only the top posts and the per-platform
// post counts come from the user's data.
func (s *insightsService) Analytics(ctx context.Context, userID string) (*Analytics, error) {
	user, err := s.users.GetUserInfo(ctx, userID)
	if err != nil {
		return nil, err
	}
	posts, err := s.posts.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	a := &Analytics{
		Metrics:   append([]AnalyticsMetric(nil), demoMetrics...),
		Platforms: []PlatformPerformance{},
		TopPosts:  []*models.Post{},
	}

	for _, p := range user.Connected() {
		perf := PlatformPerformance{
			Platform:   p.Platform,
			Followers:  p.Followers,
			Engagement: demoEngagementRates[p.Platform],
		}
		for _, post := range posts {
			for _, pp := range post.Platforms {
				if pp == p.Platform {
					perf.Posts++
					break
				}
			}
		}
		a.Platforms = append(a.Platforms, perf)
	}

	for _, post := range posts {
		if post.Analytics != nil {
			a.TopPosts = append(a.TopPosts, post)
		}
	}
	sort.SliceStable(a.TopPosts, func(i, j int) bool {
		return a.TopPosts[i].Analytics.Engagement > a.TopPosts[j].Analytics.Engagement
	})
	if len(a.TopPosts) > 3 {
		a.TopPosts = a.TopPosts[:3]
	}
	return a, nil
}
