package models

import (
	"time"
)

type User struct {
	ID                 string           `json:"id"`
	Name               string           `json:"name"`
	Email              string           `json:"email"`
	Avatar             string           `json:"avatar,omitempty"`
	IsAuthenticated    bool             `json:"is_authenticated"`
	ConnectedPlatforms []SocialPlatform `json:"connected_platforms"`
}

type SocialPlatform struct {
	ID             string     `json:"id"`
	Platform       Platform   `json:"name"`
	DisplayName    string     `json:"display_name"`
	IsConnected    bool       `json:"is_connected"`
	Username       string     `json:"username,omitempty"`
	Followers      int        `json:"followers"`
	Avatar         string     `json:"avatar,omitempty"`
	ConnectionDate *time.Time `json:"connection_date,omitempty"`
}

// Connected returns the platforms the user can currently post to.
func (u *User) Connected() []SocialPlatform {
	var out []SocialPlatform
	for _, p := range u.ConnectedPlatforms {
		if p.IsConnected {
			out = append(out, p)
		}
	}
	return out
}

func (u *User) IsConnected(platform Platform) bool {
	for _, p := range u.ConnectedPlatforms {
		if p.Platform == platform {
			return p.IsConnected
		}
	}
	return false
}
