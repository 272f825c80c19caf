package models

import (
	"errors"
	"fmt"
)

var ErrUnknownTone = errors.New("unknown tone")

type Tone string

const (
	ToneCasual       Tone = "casual"
	ToneProfessional Tone = "professional"
	TonePromotional  Tone = "promotional"
	ToneFriendly     Tone = "friendly"
)

func ParseTone(s string) (Tone, error) {
	switch t := Tone(s); t {
	case ToneCasual, ToneProfessional, TonePromotional, ToneFriendly:
		return t, nil
	case "":
		return ToneCasual, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTone, s)
}

type AICaption struct {
	ID       string   `json:"id"`
	Content  string   `json:"content"`
	Tone     Tone     `json:"tone"`
	Hashtags []string `json:"hashtags"`
	Platform Platform `json:"platform"`
}

type CaptionOptions struct {
	Tone      Tone     `json:"tone"`
	Audience  string   `json:"audience"`
	Keywords  []string `json:"keywords"`
	MaxLength int      `json:"max_length"`
}

type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
	RoleSystem    ChatRole = "system"
)

type ChatMessage struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

type ConnectionStatus struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
