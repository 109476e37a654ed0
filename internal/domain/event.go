package domain

import "time"

// Sentinel display times for events without a clock time.
const (
	TimeTBD    = "TBD"
	TimeAllDay = "All Day"
)

// DefaultCategory is the glyph assigned to events submitted without one.
const DefaultCategory = "📅"

// Event is a single calendar entry. Date is always a canonical YYYY-MM-DD
// string in the town's civil timezone; Time is a display string, not an
// instant. Either ExternalID (stable key from the origin feed) or the
// (Title, Date, TownID) triple identifies an event for dedup purposes.
type Event struct {
	EventID     string    `json:"id" dynamodbav:"event_id"`
	ExternalID  string    `json:"external_id,omitempty" dynamodbav:"external_id,omitempty"`
	Title       string    `json:"title" dynamodbav:"title"`
	Category    string    `json:"category" dynamodbav:"category"`
	Date        string    `json:"date" dynamodbav:"date"`
	Time        string    `json:"time" dynamodbav:"time"`
	Location    string    `json:"location,omitempty" dynamodbav:"location"`
	Price       string    `json:"price,omitempty" dynamodbav:"price"`
	Source      string    `json:"source,omitempty" dynamodbav:"source"`
	SourceURL   string    `json:"source_url,omitempty" dynamodbav:"source_url"`
	Description string    `json:"description,omitempty" dynamodbav:"description"`
	Verified    bool      `json:"verified" dynamodbav:"verified"`
	TownID      string    `json:"town_id" dynamodbav:"town_id"`
	CreatedAt   time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt   time.Time `json:"updated" dynamodbav:"updated_at"`
}

// EventInput is the webhook/manual-submission payload for one event.
// Optional fields carry documented defaults applied by the ingest service.
type EventInput struct {
	ExternalID  string `json:"external_id"`
	Title       string `json:"title" validate:"required"`
	Category    string `json:"category"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Time        string `json:"time"`
	Location    string `json:"location"`
	Price       string `json:"price"`
	Source      string `json:"source"`
	SourceURL   string `json:"source_url" validate:"omitempty,url"`
	Description string `json:"description"`
	Verified    *bool  `json:"verified"`
	TownID      string `json:"town_id"`
}

// IngestRequest is the webhook body: either a bare EventInput or
// {"events": [...]}.
type IngestRequest struct {
	EventInput
	Events []EventInput `json:"events"`
}

// All returns the events carried by the request, whichever form was used.
func (r *IngestRequest) All() []EventInput {
	if len(r.Events) > 0 {
		return r.Events
	}
	return []EventInput{r.EventInput}
}
