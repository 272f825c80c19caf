package models

import "time"

type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusScheduled PostStatus = "scheduled"
	PostStatusPublished PostStatus = "published"
	PostStatusFailed    PostStatus = "failed"
)

func (s PostStatus) Valid() bool {
	switch s {
	case PostStatusDraft, PostStatusScheduled, PostStatusPublished, PostStatusFailed:
		return true
	}
	return false
}

// CanTransition reports whether a post may move from s to next.
// draft -> scheduled -> published is linear; failed is reachable from any
// non-terminal status.
func (s PostStatus) CanTransition(next PostStatus) bool {
	if s == next {
		return true
	}
	switch s {
	case PostStatusDraft:
		return next == PostStatusScheduled || next == PostStatusFailed
	case PostStatusScheduled:
		return next == PostStatusPublished || next == PostStatusFailed
	}
	return false
}

type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

type MediaItem struct {
	ID        string    `json:"id"`
	Kind      MediaKind `json:"type"`
	URL       string    `json:"url"`
	Thumbnail string    `json:"thumbnail,omitempty"`
	Alt       string    `json:"alt,omitempty"`
	Size      int64     `json:"size,omitempty"`
}

type PostAnalytics struct {
	Engagement int `json:"engagement"`
	Reach      int `json:"reach"`
	Clicks     int `json:"clicks"`
	Shares     int `json:"shares"`
	Comments   int `json:"comments"`
	Likes      int `json:"likes"`
}

type Post struct {
	ID            string         `json:"id"`
	UserID        string         `json:"user_id"`
	Content       string         `json:"content"`
	Platforms     []Platform     `json:"platforms"`
	Media         []MediaItem    `json:"media"`
	ScheduledTime *time.Time     `json:"scheduled_time,omitempty"`
	Status        PostStatus     `json:"status"` // draft, scheduled, published, failed
	Analytics     *PostAnalytics `json:"analytics,omitempty"`
	PublishedAt   *time.Time     `json:"published_at,omitempty"`
	Confirmed     bool           `json:"confirmed"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// Clone returns a deep copy so stored posts are never shared with callers.
func (p *Post) Clone() *Post {
	if p == nil {
		return nil
	}
	c := *p
	c.Platforms = append([]Platform(nil), p.Platforms...)
	c.Media = append([]MediaItem(nil), p.Media...)
	if p.ScheduledTime != nil {
		t := *p.ScheduledTime
		c.ScheduledTime = &t
	}
	if p.PublishedAt != nil {
		t := *p.PublishedAt
		c.PublishedAt = &t
	}
	if p.Analytics != nil {
		a := *p.Analytics
		c.Analytics = &a
	}
	return &c
}
