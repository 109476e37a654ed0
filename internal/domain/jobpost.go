package domain

import "time"

// JobPost is a local job opening.
type JobPost struct {
	JobID       string    `json:"id" dynamodbav:"job_id"`
	Title       string    `json:"title" dynamodbav:"title"`
	Company     string    `json:"company" dynamodbav:"company"`
	Description string    `json:"description,omitempty" dynamodbav:"description"`
	Pay         string    `json:"pay,omitempty" dynamodbav:"pay"`
	ContactInfo string    `json:"contact_info,omitempty" dynamodbav:"contact_info"`
	OwnerID     string    `json:"owner_id" dynamodbav:"owner_id"`
	TownID      string    `json:"town_id" dynamodbav:"town_id"`
	IsActive    bool      `json:"is_active" dynamodbav:"is_active"`
	CreatedAt   time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt   time.Time `json:"updated" dynamodbav:"updated_at"`
}

// JobPostInput is the job submission payload.
type JobPostInput struct {
	Title       string `json:"title" validate:"required"`
	Company     string `json:"company" validate:"required"`
	Description string `json:"description"`
	Pay         string `json:"pay"`
	ContactInfo string `json:"contact_info" validate:"required"`
}
