package transfer

import "github.com/maheshrc27/vizora/internal/models"

type CaptionRequest struct {
	Content          string            `json:"content"`
	ImageDescription string            `json:"image_description"`
	Platforms        []models.Platform `json:"platforms"`
	Tone             string            `json:"tone"`
	Audience         string            `json:"audience"`
	Keywords         []string          `json:"keywords"`
	MaxLength        int               `json:"max_length"`
}

type ChatRequest struct {
	Messages []models.ChatMessage `json:"messages"`
}

type ImageAnalysisRequest struct {
	ImageURL string `json:"image_url"`
}

type HashtagRequest struct {
	Content  string          `json:"content"`
	Platform models.Platform `json:"platform"`
}
