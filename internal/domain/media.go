package domain

import "time"

// Media is an uploaded image (listing or business photo) stored in S3.
type Media struct {
	MediaID     string     `json:"id" dynamodbav:"media_id"`
	Key         string     `json:"key" dynamodbav:"s3_key"`
	ContentType string     `json:"content_type" dynamodbav:"content_type"`
	UploadedBy  string     `json:"uploaded_by" dynamodbav:"uploaded_by_user_id"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty" dynamodbav:"deleted_at"`
	CreatedAt   time.Time  `json:"created" dynamodbav:"created_at"`
}
