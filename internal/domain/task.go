package domain

// Error classification strings reported by scheduled-task responses.
const (
	ErrKindUnauthorized = "unauthorized"
	ErrKindValidation   = "validation"
	ErrKindUpstream     = "upstream"
	ErrKindStorage      = "storage"
)

// Skip reasons counted by the event upsert gate.
const (
	SkipValidation = "validation"
	SkipPastDate   = "past_date"
	SkipDuplicate  = "duplicate"
	SkipStorage    = "storage"
)

// SyncStats accumulates the outcome of pushing one batch of candidate
// events through the upsert gate.
type SyncStats struct {
	Inserted int            `json:"inserted"`
	Updated  int            `json:"updated"`
	Skipped  int            `json:"skipped"`
	Reasons  map[string]int `json:"skip_reasons,omitempty"`
	Errors   []string       `json:"errors,omitempty"`
}

// Skip counts one skipped candidate under the given reason.
func (s *SyncStats) Skip(reason string) {
	s.Skipped++
	if s.Reasons == nil {
		s.Reasons = make(map[string]int)
	}
	s.Reasons[reason]++
}

// Add folds another batch's stats into this one.
func (s *SyncStats) Add(o SyncStats) {
	s.Inserted += o.Inserted
	s.Updated += o.Updated
	s.Skipped += o.Skipped
	for reason, n := range o.Reasons {
		if s.Reasons == nil {
			s.Reasons = make(map[string]int)
		}
		s.Reasons[reason] += n
	}
	s.Errors = append(s.Errors, o.Errors...)
}

// FeedReport is the per-feed section of a sync task response.
type FeedReport struct {
	FeedID  string `json:"feed_id"`
	Fetched int    `json:"fetched"`
	SyncStats
	Error string `json:"error,omitempty"`
}

// SyncReport is the sync task response body.
type SyncReport struct {
	Success bool         `json:"success"`
	Error   string       `json:"error,omitempty"`
	Kind    string       `json:"error_kind,omitempty"`
	Feeds   []FeedReport `json:"feeds"`
	Totals  SyncStats    `json:"totals"`
}

// DigestReport is the daily-digest task response body.
type DigestReport struct {
	Success    bool     `json:"success"`
	Error      string   `json:"error,omitempty"`
	Kind       string   `json:"error_kind,omitempty"`
	EventCount int      `json:"event_count"`
	Heading    string   `json:"heading,omitempty"`
	Segments   int      `json:"segments"`
	Errors     []string `json:"errors,omitempty"`
}

// ReminderReport is the event-reminders task response body.
type ReminderReport struct {
	Success bool     `json:"success"`
	Error   string   `json:"error,omitempty"`
	Kind    string   `json:"error_kind,omitempty"`
	Sent    int      `json:"sent"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

// PurgeReport is the purge task response body.
type PurgeReport struct {
	Success             bool     `json:"success"`
	Error               string   `json:"error,omitempty"`
	Kind                string   `json:"error_kind,omitempty"`
	EventsDeleted       int      `json:"events_deleted"`
	ObituariesDeleted   int      `json:"obituaries_deleted"`
	ListingsDeactivated int      `json:"listings_deactivated"`
	Errors              []string `json:"errors,omitempty"`
}
