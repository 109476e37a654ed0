// Package ical extracts event records from raw calendar-feed text.
//
// Municipal feeds are frequently malformed, so this parser is deliberately
// tolerant: it unfolds continuation lines, takes field values after the last
// colon on each logical line (which also discards property parameters), and
// skips broken blocks instead of failing the feed.
package ical

import (
	"iter"
	"strings"

	"github.com/townhub-api/internal/pkg/id"
)

// Event is one VEVENT block. DTStart and DTEnd are the raw timestamp
// strings; timezone normalization happens downstream.
type Event struct {
	UID         string
	Summary     string
	DTStart     string
	DTEnd       string
	Location    string
	Description string
}

const (
	beginEvent = "BEGIN:VEVENT"
	endEvent   = "END:VEVENT"
)

// Events returns a single-pass sequence over the VEVENT blocks in raw.
// The sequence is restartable: ranging over it again re-scans the text,
// which makes retries safe. Blocks with neither a UID nor a SUMMARY are
// dropped silently; a block missing only its UID gets a generated one
// (dedup downstream falls back to a composite key, so a non-stable id
// is acceptable).
func Events(raw string) iter.Seq[Event] {
	return func(yield func(Event) bool) {
		var ev Event
		inBlock := false
		for _, line := range unfold(raw) {
			switch {
			case line == beginEvent:
				inBlock = true
				ev = Event{}
			case line == endEvent:
				if !inBlock {
					continue
				}
				inBlock = false
				if ev.UID == "" && ev.Summary == "" {
					continue
				}
				if ev.UID == "" {
					ev.UID = id.New()
				}
				if !yield(ev) {
					return
				}
			case inBlock:
				setField(&ev, line)
			}
		}
	}
}

// Parse collects all VEVENT blocks in raw.
func Parse(raw string) []Event {
	var events []Event
	for ev := range Events(raw) {
		events = append(events, ev)
	}
	return events
}

// unfold splits raw into logical lines, joining physical continuation
// lines (prefixed with a space or tab) onto their predecessor. Only the
// single fold character is dropped; whitespace after it is content.
func unfold(raw string) []string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		if (line[0] == ' ' || line[0] == '\t') && len(lines) > 0 {
			lines[len(lines)-1] += line[1:]
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// setField assigns a logical line's value to the matching event field.
// The field name runs up to the first ':' or ';'; the value is whatever
// follows the last colon, so trailing parameters (TZID=, VALUE=) fall away.
func setField(ev *Event, line string) {
	name := line
	if i := strings.IndexAny(line, ";:"); i >= 0 {
		name = line[:i]
	}
	i := strings.LastIndex(line, ":")
	if i < 0 {
		return
	}
	value := unescape(line[i+1:])

	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "UID":
		ev.UID = value
	case "SUMMARY":
		ev.Summary = value
	case "DTSTART":
		ev.DTStart = value
	case "DTEND":
		ev.DTEnd = value
	case "LOCATION":
		ev.Location = value
	case "DESCRIPTION":
		ev.Description = value
	}
}

// unescape resolves the three standard text escapes: \n (and \N), \, and \\.
// Unknown escapes pass through unchanged.
func unescape(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n', 'N':
			b.WriteByte('\n')
		case ',':
			b.WriteByte(',')
		case '\\':
			b.WriteByte('\\')
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
