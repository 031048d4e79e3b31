package config

import "time"

const (
	StorageMongo  = "mongo"
	StorageMemory = "memory"
)

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "studiodesk"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultStorageBackend = StorageMongo

	DefaultPort      = "8080"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultTimezone          = "UTC"
	DefaultBookingWindowDays = 6
	DefaultSweepSchedule     = "@every 1m"

	DefaultLockTTL           = 30 * time.Second
	DefaultLockRetryAttempts = 5
	DefaultLockRetryDelay    = 50 * time.Millisecond

	DefaultAdminNotificationRetention = 365 * 24 * time.Hour

	DefaultTrainingRoomID = "training-room"
	DefaultRentalRoomID   = "rental-room"

	DefaultReservationEventsTopic = "reservation-events"
	DefaultReservationEventsDLQ   = "reservation-events-dlq"
	DefaultNotifierGroupID        = "studiodesk-notifier"

	DefaultPaginationLimit = 100
)
