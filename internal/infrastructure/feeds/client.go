package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/townhub-api/internal/config"
)

// Item is one event record from a structured JSON feed. Start carries the
// raw source timestamp; normalization happens downstream.
type Item struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Location    string `json:"location"`
	Price       string `json:"price"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// Result is the outcome of fetching one feed: either structured JSON items
// or raw iCal text for the parser.
type Result struct {
	FeedID string
	Items  []Item
	ICal   string
}

// jsonBody matches the two accepted JSON shapes: a bare array or
// {"events": [...]}.
type jsonBody struct {
	Events []Item `json:"events"`
}

// Client fetches external calendar feeds with a bounded per-call timeout.
// Calls run sequentially; a failed feed is the caller's problem to record,
// and the next scheduled trigger is the retry mechanism.
type Client struct {
	http *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{http: &http.Client{Timeout: timeout}}
}

// Fetch retrieves one feed. Responses that parse as JSON yield Items;
// anything else is returned as raw iCal text.
func (c *Client) Fetch(ctx context.Context, src config.FeedSource) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json, text/calendar;q=0.9, */*;q=0.8")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", src.ID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch feed %s: %s", src.ID, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read feed %s: %w", src.ID, err)
	}

	res := &Result{FeedID: src.ID}
	if items, ok := parseJSON(body); ok {
		res.Items = items
		return res, nil
	}
	res.ICal = string(body)
	return res, nil
}

func parseJSON(body []byte) ([]Item, bool) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return nil, false
	}
	switch trimmed[0] {
	case '[':
		var items []Item
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, false
		}
		return items, true
	case '{':
		var wrapped jsonBody
		if err := json.Unmarshal(body, &wrapped); err != nil {
			return nil, false
		}
		return wrapped.Events, true
	default:
		return nil, false
	}
}
