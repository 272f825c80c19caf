package models

import "time"

type Settings struct {
	UserID    string    `json:"user_id"`
	Tone      Tone      `json:"tone"`
	Audience  string    `json:"audience"`
	Timezone  string    `json:"timezone"`
	UpdatedAt time.Time `json:"updated_at"`
}

func DefaultSettings(userID string) *Settings {
	return &Settings{
		UserID:   userID,
		Tone:     ToneCasual,
		Audience: "general audience",
		Timezone: "UTC",
	}
}
