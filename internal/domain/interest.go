package domain

import "time"

// Interest subscribes a user to reminders for one event. Identity is the
// (user_id, event_id) pair; rows are removed when the event is purged.
type Interest struct {
	UserID    string    `json:"user_id" dynamodbav:"user_id"`
	EventID   string    `json:"event_id" dynamodbav:"event_id"`
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
}

// ReminderRecord marks that a starting-soon notification was already sent
// for the (user, event) pair. Created once, never updated, deleted with the
// parent event.
type ReminderRecord struct {
	UserID  string    `json:"user_id" dynamodbav:"user_id"`
	EventID string    `json:"event_id" dynamodbav:"event_id"`
	SentAt  time.Time `json:"sent_at" dynamodbav:"sent_at"`
}
