package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEveryPlatformHasATableRow(t *testing.T) {
	platforms := Platforms()
	require.Len(t, platforms, 7)

	for _, p := range platforms {
		assert.NotEmpty(t, p.String(), "platform %d", int(p))
		assert.NotEmpty(t, p.DisplayName(), p.String())
		assert.Positive(t, p.CharacterLimit(), p.String())

		parsed, err := ParsePlatform(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, parsed)
	}
}

func TestParsePlatformRejectsUnknownNames(t *testing.T) {
	_, err := ParsePlatform("myspace")
	require.ErrorIs(t, err, ErrUnknownPlatform)
	assert.Contains(t, err.Error(), "myspace")
}

func TestMinCharacterLimit(t *testing.T) {
	assert.Equal(t, DefaultCharacterLimit, MinCharacterLimit(nil))
	assert.Equal(t, 280, MinCharacterLimit([]Platform{Twitter}))
	assert.Equal(t, 280, MinCharacterLimit([]Platform{Facebook, Twitter, LinkedIn}))
	assert.Equal(t, 500, MinCharacterLimit([]Platform{Pinterest, Instagram}))
	assert.Equal(t, 63206, MinCharacterLimit([]Platform{Facebook}))
	assert.Equal(t, 280, MinCharacterLimit([]Platform{YouTube}))
	assert.Equal(t, 280, MinCharacterLimit([]Platform{TikTok, Instagram}))
}

func TestLinksOnlyForDispatchablePlatforms(t *testing.T) {
	for _, p := range []Platform{Instagram, Twitter, LinkedIn, Facebook, Pinterest} {
		links, ok := p.Links()
		assert.True(t, ok, p.String())
		assert.NotEmpty(t, links.Web, p.String())
		assert.NotEmpty(t, links.Instructions, p.String())
	}
	for _, p := range []Platform{YouTube, TikTok} {
		_, ok := p.Links()
		assert.False(t, ok, p.String())
	}
}

func TestPlatformJSONUsesNames(t *testing.T) {
	raw, err := json.Marshal([]Platform{Instagram, TikTok})
	require.NoError(t, err)
	assert.JSONEq(t, `["instagram","tiktok"]`, string(raw))

	var decoded []Platform
	require.NoError(t, json.Unmarshal([]byte(`["linkedin"]`), &decoded))
	assert.Equal(t, []Platform{LinkedIn}, decoded)

	assert.Error(t, json.Unmarshal([]byte(`["myspace"]`), &decoded))
}

func TestPostStatusTransitions(t *testing.T) {
	assert.True(t, PostStatusDraft.CanTransition(PostStatusScheduled))
	assert.True(t, PostStatusScheduled.CanTransition(PostStatusPublished))
	assert.True(t, PostStatusScheduled.CanTransition(PostStatusFailed))
	assert.False(t, PostStatusDraft.CanTransition(PostStatusPublished))
	assert.False(t, PostStatusPublished.CanTransition(PostStatusDraft))
	assert.False(t, PostStatusFailed.CanTransition(PostStatusScheduled))
}

func TestParseTone(t *testing.T) {
	tone, err := ParseTone("")
	require.NoError(t, err)
	assert.Equal(t, ToneCasual, tone)

	tone, err = ParseTone("promotional")
	require.NoError(t, err)
	assert.Equal(t, TonePromotional, tone)

	_, err = ParseTone("sarcastic")
	assert.ErrorIs(t, err, ErrUnknownTone)
}
