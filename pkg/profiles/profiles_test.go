package profiles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_KnownPatterns(t *testing.T) {
	for _, p := range Patterns() {
		prof, ok := Get(p)
		require.Truef(t, ok, "pattern %s missing from registry", p)
		assert.Equal(t, p, prof.Pattern)
		assert.NotEmpty(t, prof.Bands)
	}
}

func TestGet_UnknownPattern(t *testing.T) {
	_, ok := Get("crawl")
	assert.False(t, ok)
}

func TestGet_ReturnsCopy(t *testing.T) {
	prof, _ := Get(PatternSquat)
	original := prof.Bands[0].Max
	prof.Bands[0].Max = -999

	again, _ := Get(PatternSquat)
	assert.Equal(t, original, again.Bands[0].Max, "registry must not be mutable through lookups")
}

func TestRulesFor_BuildsDebouncedRules(t *testing.T) {
	rules := RulesFor(PatternSquat)
	require.NotEmpty(t, rules)

	seen := map[string]bool{}
	for _, r := range rules {
		assert.False(t, seen[r.ID], "rule IDs must be unique: %s", r.ID)
		seen[r.ID] = true
		assert.Equal(t, defaultPersist, r.Persist)
		assert.Equal(t, defaultCooldown, r.Cooldown)
		assert.NotEmpty(t, r.Message)
		assert.NotEmpty(t, r.Channels)
	}
}

func TestRulesFor_UnknownPattern(t *testing.T) {
	assert.Nil(t, RulesFor("crawl"))
}
