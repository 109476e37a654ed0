package domain

import "time"

// Device is a registered push target. EndpointARN is the SNS platform
// endpoint created from the raw push token at registration time.
type Device struct {
	DeviceID    string    `json:"id" dynamodbav:"device_id"`
	UserID      string    `json:"user_id" dynamodbav:"user_id"`
	Token       string    `json:"-" dynamodbav:"token"`
	EndpointARN string    `json:"-" dynamodbav:"endpoint_arn"`
	Platform    string    `json:"platform" dynamodbav:"platform"` // "ios" | "android" | "web"
	Enable      bool      `json:"enable" dynamodbav:"enable"`
	CreatedAt   time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt   time.Time `json:"updated" dynamodbav:"updated_at"`
}

type RegisterDeviceRequest struct {
	Token    string `json:"token" validate:"required"`
	Platform string `json:"platform" validate:"required,oneof=ios android web"`
}
