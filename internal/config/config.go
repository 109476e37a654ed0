package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	// Timezone is the IANA name of the canonical civil timezone all
	// event dates are expressed in.
	Timezone string

	// TownID identifies the locality this deployment serves. Records
	// created without an explicit locality default to it.
	TownID   string
	TownName string

	// CronSecret is the pre-shared bearer credential expected on the
	// scheduled-task and webhook endpoints.
	CronSecret string

	// Feeds lists the external calendar sources polled by the sync task.
	Feeds []FeedSource

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string

	DynamoTables DynamoTables
	S3BucketName string

	// SNSTopicARN is the broadcast topic every subscriber device follows.
	// SNSPlatformAppARN is the platform application used to register
	// per-device push endpoints.
	SNSTopicARN       string
	SNSPlatformAppARN string

	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	JWTExpiryDays     int
	GoogleClientID    string

	// CronEnabled turns on the in-process scheduler. Hosted deployments
	// leave this off and let an external cron service hit /v1/tasks/*.
	CronEnabled  bool
	SyncSchedule string
	TaskSchedule string // digest + reminders + purge

	AllowedOrigins []string // CORS allowed origins
}

// FeedSource is a single external calendar feed (JSON or raw iCal).
type FeedSource struct {
	ID  string
	URL string
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Events     string
	Obituaries string
	Housing    string
	JobPosts   string
	Businesses string
	Users      string
	Devices    string
	Interests  string
	Reminders  string
	Media      string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		Timezone: getEnv("TIMEZONE", "America/Chicago"),
		TownID:   getEnv("TOWN_ID", "fairview"),
		TownName: getEnv("TOWN_NAME", "Fairview"),

		CronSecret: getEnv("CRON_SECRET", ""),
		Feeds:      parseFeeds(getEnv("FEEDS", "")),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Events:     getEnv("DYNAMO_TABLE_EVENTS", "events"),
			Obituaries: getEnv("DYNAMO_TABLE_OBITUARIES", "obituaries"),
			Housing:    getEnv("DYNAMO_TABLE_HOUSING", "housing_listings"),
			JobPosts:   getEnv("DYNAMO_TABLE_JOB_POSTS", "job_posts"),
			Businesses: getEnv("DYNAMO_TABLE_BUSINESSES", "businesses"),
			Users:      getEnv("DYNAMO_TABLE_USERS", "users"),
			Devices:    getEnv("DYNAMO_TABLE_DEVICES", "devices"),
			Interests:  getEnv("DYNAMO_TABLE_INTERESTS", "event_interests"),
			Reminders:  getEnv("DYNAMO_TABLE_REMINDERS", "reminders_sent"),
			Media:      getEnv("DYNAMO_TABLE_MEDIA", "media"),
		},
		S3BucketName: getEnv("S3_BUCKET_NAME", "townhub-media"),

		SNSTopicARN:       getEnv("SNS_TOPIC_ARN", ""),
		SNSPlatformAppARN: getEnv("SNS_PLATFORM_APP_ARN", ""),

		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTExpiryDays:     getEnvInt("JWT_EXPIRY_DAYS", 7),
		GoogleClientID:    getEnv("GOOGLE_CLIENT_ID", ""),

		CronEnabled:  getEnvBool("CRON_ENABLED", false),
		SyncSchedule: getEnv("SYNC_SCHEDULE", "0 */6 * * *"),
		TaskSchedule: getEnv("TASK_SCHEDULE", "0 7 * * *"),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

// Location resolves the configured timezone, falling back to UTC when the
// IANA name cannot be loaded.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// parseFeeds parses the FEEDS variable, formatted "id|url,id|url".
// Entries without a '|' use the URL as their id; empty entries are skipped.
func parseFeeds(raw string) []FeedSource {
	if raw == "" {
		return nil
	}
	var feeds []FeedSource
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		id, url, found := strings.Cut(entry, "|")
		if !found {
			feeds = append(feeds, FeedSource{ID: entry, URL: entry})
			continue
		}
		feeds = append(feeds, FeedSource{ID: strings.TrimSpace(id), URL: strings.TrimSpace(url)})
	}
	return feeds
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
