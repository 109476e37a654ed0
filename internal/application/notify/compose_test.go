package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/townhub-api/internal/domain"
)

func TestComposeDigestZeroEvents(t *testing.T) {
	heading, body := ComposeDigest("Fairview", nil)

	assert.Equal(t, "Today in Fairview", heading)
	assert.Equal(t, NoEventsBody, body)
}

func TestComposeDigestSingleEvent(t *testing.T) {
	_, body := ComposeDigest("Fairview", []domain.Event{{
		Category: "📅",
		Title:    "Council Meeting",
		Time:     "6:00 PM",
		Location: "City Hall",
	}})

	assert.Contains(t, body, "📅")
	assert.Contains(t, body, "Council Meeting")
	assert.Contains(t, body, "6:00 PM")
	assert.Contains(t, body, "City Hall")
}

func TestComposeDigestSingleEventNoLocation(t *testing.T) {
	_, body := ComposeDigest("Fairview", []domain.Event{{
		Category: "🎵",
		Title:    "Open Mic",
		Time:     "8:00 PM",
	}})

	assert.Equal(t, "🎵 Open Mic at 8:00 PM", body)
}

func TestComposeDigestFourEvents(t *testing.T) {
	events := []domain.Event{
		{Category: "📅", Title: "One"},
		{Category: "🎵", Title: "Two"},
		{Category: "🏈", Title: "Three"},
		{Category: "🍽", Title: "Four"},
	}

	_, body := ComposeDigest("Fairview", events)

	assert.Contains(t, body, "4 events today")
	assert.Contains(t, body, "One")
	assert.Contains(t, body, "Two")
	assert.Contains(t, body, "Three")
	assert.NotContains(t, body, "Four")
	assert.Contains(t, body, "+1 more")
}

func TestComposeDigestThreeEventsNoMoreSuffix(t *testing.T) {
	events := []domain.Event{
		{Category: "📅", Title: "One"},
		{Category: "🎵", Title: "Two"},
		{Category: "🏈", Title: "Three"},
	}

	_, body := ComposeDigest("Fairview", events)

	assert.NotContains(t, body, "more")
}

func TestComposeReminder(t *testing.T) {
	heading, body := ComposeReminder(domain.Event{
		Category: "📅",
		Title:    "Council Meeting",
		Time:     "6:00 PM",
		Location: "City Hall",
	})

	assert.Equal(t, "Starting Soon", heading)
	assert.Equal(t, "📅 Council Meeting at 6:00 PM (City Hall)", body)
}
