package domain

import "time"

// Obituary is a death notice. PassingDate and ServiceDate are nullable
// YYYY-MM-DD strings; records where both stay null are assumed to be scraper
// artifacts and age out on CreatedAt.
type Obituary struct {
	ObituaryID  string    `json:"id" dynamodbav:"obituary_id"`
	FullName    string    `json:"full_name" dynamodbav:"full_name"`
	PassingDate *string   `json:"passing_date" dynamodbav:"passing_date"`
	ServiceDate *string   `json:"service_date" dynamodbav:"service_date"`
	ServiceInfo string    `json:"service_info,omitempty" dynamodbav:"service_info"`
	Source      string    `json:"source,omitempty" dynamodbav:"source"`
	TownID      string    `json:"town_id" dynamodbav:"town_id"`
	CreatedAt   time.Time `json:"created" dynamodbav:"created_at"`
}

// ObituaryInput is the admin submission payload.
type ObituaryInput struct {
	FullName    string  `json:"full_name" validate:"required"`
	PassingDate *string `json:"passing_date" validate:"omitempty,datetime=2006-01-02"`
	ServiceDate *string `json:"service_date" validate:"omitempty,datetime=2006-01-02"`
	ServiceInfo string  `json:"service_info"`
	Source      string  `json:"source"`
}
