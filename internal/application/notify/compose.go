package notify

import (
	"fmt"
	"strings"

	"github.com/townhub-api/internal/domain"
)

// NoEventsBody is the digest body sent on days with nothing scheduled.
const NoEventsBody = "Nothing on the calendar today. Enjoy the quiet!"

// maxDigestLines caps how many events the digest body spells out.
const maxDigestLines = 3

// ComposeDigest formats the daily digest for a list of same-day events,
// already ordered by start time. Pure text formatting, no side effects.
func ComposeDigest(townName string, events []domain.Event) (heading, body string) {
	heading = fmt.Sprintf("Today in %s", townName)

	switch n := len(events); {
	case n == 0:
		return heading, NoEventsBody
	case n == 1:
		return heading, eventLine(events[0])
	default:
		lines := make([]string, 0, maxDigestLines)
		for _, e := range events[:min(n, maxDigestLines)] {
			lines = append(lines, e.Category+" "+e.Title)
		}
		body = fmt.Sprintf("%d events today: %s", n, strings.Join(lines, ", "))
		if n > maxDigestLines {
			body += fmt.Sprintf(" +%d more", n-maxDigestLines)
		}
		return heading, body
	}
}

// ComposeReminder formats the starting-soon message for one event.
func ComposeReminder(e domain.Event) (heading, body string) {
	return "Starting Soon", eventLine(e)
}

func eventLine(e domain.Event) string {
	line := fmt.Sprintf("%s %s at %s", e.Category, e.Title, e.Time)
	if e.Location != "" {
		line += fmt.Sprintf(" (%s)", e.Location)
	}
	return line
}
