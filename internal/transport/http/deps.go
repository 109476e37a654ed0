package http

import (
	"log/slog"

	"github.com/townhub-api/internal/infrastructure/dynamo"
	"github.com/townhub-api/internal/infrastructure/feeds"
	"github.com/townhub-api/internal/infrastructure/google"
	jwtinfra "github.com/townhub-api/internal/infrastructure/jwt"
	"github.com/townhub-api/internal/infrastructure/push"
	s3infra "github.com/townhub-api/internal/infrastructure/s3"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	EventRepo    *dynamo.EventRepo
	ObituaryRepo *dynamo.ObituaryRepo
	HousingRepo  *dynamo.HousingRepo
	JobPostRepo  *dynamo.JobPostRepo
	BusinessRepo *dynamo.BusinessRepo
	UserRepo     *dynamo.UserRepo
	DeviceRepo   *dynamo.DeviceRepo
	InterestRepo *dynamo.InterestRepo
	ReminderRepo *dynamo.ReminderRepo
	MediaRepo    *dynamo.MediaRepo

	FeedClient  *feeds.Client
	Notifier    push.Notifier
	S3Store     *s3infra.Store
	JWTProvider *jwtinfra.Provider
	GoogleAuth  *google.Verifier

	Logger *slog.Logger
}
