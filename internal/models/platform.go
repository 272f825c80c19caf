package models

import (
	"errors"
	"fmt"
)

var ErrUnknownPlatform = errors.New("unknown platform")

// Platform identifies a social network. The zero value is not a valid platform.
type Platform int

const (
	platformUnknown Platform = iota
	Instagram
	Twitter
	LinkedIn
	Facebook
	Pinterest
	YouTube
	TikTok
	numPlatforms
)

// DefaultCharacterLimit applies when no platform has been selected yet.
const DefaultCharacterLimit = 2200

// PublishLinks holds the URL templates used to hand a post over to a platform.
// Templates may reference {text}, {origin} and {media}. When a template needs
// {media} and the post has no image, the WithoutMedia variant is used instead.
type PublishLinks struct {
	Mobile             string
	Web                string
	MobileWithoutMedia string
	WebWithoutMedia    string
	Instructions       string
}

type platformSpec struct {
	name        string
	displayName string
	charLimit   int
	color       string
	links       *PublishLinks
}

var platformTable = [...]platformSpec{
	platformUnknown: {},
	Instagram: {
		name:        "instagram",
		displayName: "Instagram",
		charLimit:   2200,
		color:       "#E1306C",
		links: &PublishLinks{
			Mobile:       "instagram://camera",
			Web:          "https://www.instagram.com/",
			Instructions: "Instagram will open. Please manually create your post with the prepared content.",
		},
	},
	Twitter: {
		name:        "twitter",
		displayName: "X (Twitter)",
		charLimit:   280,
		color:       "#1DA1F2",
		links: &PublishLinks{
			Mobile:       "twitter://post?message={text}",
			Web:          "https://twitter.com/intent/tweet?text={text}",
			Instructions: "Twitter will open with your content pre-filled.",
		},
	},
	LinkedIn: {
		name:        "linkedin",
		displayName: "LinkedIn",
		charLimit:   3000,
		color:       "#0A66C2",
		links: &PublishLinks{
			Mobile:       "linkedin://sharing?text={text}",
			Web:          "https://www.linkedin.com/sharing/share-offsite/?url={origin}&summary={text}",
			Instructions: "LinkedIn will open with your content ready to share.",
		},
	},
	Facebook: {
		name:        "facebook",
		displayName: "Facebook",
		charLimit:   63206,
		color:       "#1877F2",
		links: &PublishLinks{
			Mobile:       "fb://composer?text={text}",
			Web:          "https://www.facebook.com/sharer/sharer.php?u={origin}&quote={text}",
			Instructions: "Facebook will open with your content pre-filled.",
		},
	},
	Pinterest: {
		name:        "pinterest",
		displayName: "Pinterest",
		charLimit:   500,
		color:       "#E60023",
		links: &PublishLinks{
			Mobile:             "pinterest://pin?url={origin}&media={media}&description={text}",
			Web:                "https://pinterest.com/pin/create/button/?url={origin}&media={media}&description={text}",
			MobileWithoutMedia: "pinterest://",
			WebWithoutMedia:    "https://pinterest.com",
			Instructions:       "Pinterest will open with your image and description ready to pin.",
		},
	},
	YouTube: {
		name:        "youtube",
		displayName: "YouTube",
		charLimit:   280,
		color:       "#FF0000",
	},
	TikTok: {
		name:        "tiktok",
		displayName: "TikTok",
		charLimit:   280,
		color:       "#000000",
	},
}

// Fails to compile when a platform constant has no row in platformTable.
var _ = [1]struct{}{}[len(platformTable)-int(numPlatforms)]

// Platforms returns every known platform in declaration order.
func Platforms() []Platform {
	out := make([]Platform, 0, numPlatforms-1)
	for p := platformUnknown + 1; p < numPlatforms; p++ {
		out = append(out, p)
	}
	return out
}

func ParsePlatform(name string) (Platform, error) {
	for p := platformUnknown + 1; p < numPlatforms; p++ {
		if platformTable[p].name == name {
			return p, nil
		}
	}
	return platformUnknown, fmt.Errorf("%w: %q", ErrUnknownPlatform, name)
}

func (p Platform) Valid() bool {
	return p > platformUnknown && p < numPlatforms
}

func (p Platform) String() string {
	if !p.Valid() {
		return "unknown"
	}
	return platformTable[p].name
}

func (p Platform) DisplayName() string {
	if !p.Valid() {
		return ""
	}
	return platformTable[p].displayName
}

// CharacterLimit is the maximum post length the platform accepts.
func (p Platform) CharacterLimit() int {
	if !p.Valid() {
		return 280
	}
	return platformTable[p].charLimit
}

func (p Platform) Color() string {
	if !p.Valid() {
		return ""
	}
	return platformTable[p].color
}

// Links returns the publish templates, or false when the platform cannot be
// handed a post through a link.
func (p Platform) Links() (PublishLinks, bool) {
	if !p.Valid() || platformTable[p].links == nil {
		return PublishLinks{}, false
	}
	return *platformTable[p].links, true
}

func (p Platform) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPlatform, int(p))
	}
	return []byte(platformTable[p].name), nil
}

func (p *Platform) UnmarshalText(text []byte) error {
	parsed, err := ParsePlatform(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// MinCharacterLimit is the effective limit for a post targeting all of platforms.
func MinCharacterLimit(platforms []Platform) int {
	if len(platforms) == 0 {
		return DefaultCharacterLimit
	}
	limit := platforms[0].CharacterLimit()
	for _, p := range platforms[1:] {
		if l := p.CharacterLimit(); l < limit {
			limit = l
		}
	}
	return limit
}
