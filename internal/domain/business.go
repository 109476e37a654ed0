package domain

import "time"

// Business is a directory entry for a local business.
type Business struct {
	BusinessID  string    `json:"id" dynamodbav:"business_id"`
	Name        string    `json:"name" dynamodbav:"name"`
	Category    string    `json:"category" dynamodbav:"category"`
	Description string    `json:"description,omitempty" dynamodbav:"description"`
	Address     string    `json:"address,omitempty" dynamodbav:"address"`
	Phone       string    `json:"phone,omitempty" dynamodbav:"phone"`
	Website     string    `json:"website,omitempty" dynamodbav:"website"`
	Hours       string    `json:"hours,omitempty" dynamodbav:"hours"`
	ImageKey    string    `json:"image_key,omitempty" dynamodbav:"image_key"`
	Verified    bool      `json:"verified" dynamodbav:"verified"`
	TownID      string    `json:"town_id" dynamodbav:"town_id"`
	CreatedAt   time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt   time.Time `json:"updated" dynamodbav:"updated_at"`
}

// BusinessInput is the directory submission payload.
type BusinessInput struct {
	Name        string `json:"name" validate:"required"`
	Category    string `json:"category" validate:"required"`
	Description string `json:"description"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Website     string `json:"website" validate:"omitempty,url"`
	Hours       string `json:"hours"`
	ImageKey    string `json:"image_key"`
}
