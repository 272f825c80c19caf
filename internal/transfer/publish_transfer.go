package transfer

import "github.com/maheshrc27/vizora/internal/models"

type PublishMedia struct {
	URL  string           `json:"url"`
	Type models.MediaKind `json:"type"`
}

// PostData is a finalized post as handed to the publish dispatcher.
type PostData struct {
	Content   string         `json:"content"`
	Media     []PublishMedia `json:"media"`
	Platforms []string       `json:"platforms"`
}

type DispatchResult struct {
	Platform      models.Platform `json:"platform"`
	Opened        []string        `json:"opened"`
	Instructions  string          `json:"instructions"`
	ContentCopied bool            `json:"content_copied"`
	// Confirmed is always false: opening a link says nothing about whether
	// the user actually posted.
	Confirmed bool `json:"confirmed"`
}

// PublishStep is one client-side action recorded for the browser to replay.
type PublishStep struct {
	Action  string `json:"action"` // copy, open
	Value   string `json:"value"`
	AfterMS int64  `json:"after_ms"`
}

type ManualPost struct {
	Text         string             `json:"text"`
	MediaCount   int                `json:"media_count"`
	MediaTypes   []models.MediaKind `json:"media_types"`
	Hashtags     []string           `json:"hashtags"`
	Mentions     []string           `json:"mentions"`
	Instructions []string           `json:"instructions"`
}
