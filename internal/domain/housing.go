package domain

import "time"

// Housing listing payment statuses.
const (
	PaymentStatusPaid    = "paid"
	PaymentStatusExpired = "expired"
)

// HousingListing is a paid rental/for-sale listing. Listings are never hard
// deleted; once ExpiresAt passes they are deactivated so the posting history
// survives for the owner.
type HousingListing struct {
	ListingID     string    `json:"id" dynamodbav:"listing_id"`
	Title         string    `json:"title" dynamodbav:"title"`
	Description   string    `json:"description,omitempty" dynamodbav:"description"`
	Price         string    `json:"price,omitempty" dynamodbav:"price"`
	Address       string    `json:"address,omitempty" dynamodbav:"address"`
	ContactInfo   string    `json:"contact_info,omitempty" dynamodbav:"contact_info"`
	ImageKey      string    `json:"image_key,omitempty" dynamodbav:"image_key"`
	OwnerID       string    `json:"owner_id" dynamodbav:"owner_id"`
	TownID        string    `json:"town_id" dynamodbav:"town_id"`
	IsActive      bool      `json:"is_active" dynamodbav:"is_active"`
	PaymentStatus string    `json:"payment_status" dynamodbav:"payment_status"`
	ExpiresAt     time.Time `json:"expires_at" dynamodbav:"expires_at"`
	CreatedAt     time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt     time.Time `json:"updated" dynamodbav:"updated_at"`
}

// HousingInput is the listing submission payload.
type HousingInput struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Address     string `json:"address"`
	ContactInfo string `json:"contact_info" validate:"required"`
	ImageKey    string `json:"image_key"`
	// DurationDays controls how long the listing stays active.
	DurationDays int `json:"duration_days" validate:"omitempty,min=1,max=90"`
}
