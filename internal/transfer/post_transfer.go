package transfer

import (
	"time"

	"github.com/maheshrc27/vizora/internal/models"
)

type PostCreation struct {
	Content       string
	Platforms     []models.Platform
	Media         []models.MediaItem
	ScheduledTime *time.Time
	Status        models.PostStatus
}

// PostUpdate carries optional changes; nil fields are left untouched.
type PostUpdate struct {
	Content       *string            `json:"content"`
	Platforms     []models.Platform  `json:"platforms"`
	ScheduledTime *time.Time         `json:"scheduled_time"`
	Status        *models.PostStatus `json:"status"`
}

type SettingsUpdate struct {
	Tone     string `json:"tone"`
	Audience string `json:"audience"`
	Timezone string `json:"timezone"`
}
