package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvStorageBackend = "STORAGE_BACKEND"
	EnvSeedFile       = "SEED_FILE"

	EnvPort      = "PORT"
	EnvLogLevel  = "LOG_LEVEL"
	EnvLogFormat = "LOG_FORMAT"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvTimezone          = "TIMEZONE"
	EnvBookingWindowDays = "BOOKING_WINDOW_DAYS"
	EnvSweepSchedule     = "SWEEP_SCHEDULE"

	EnvLockTTL           = "LOCK_TTL"
	EnvLockRetryAttempts = "LOCK_RETRY_ATTEMPTS"
	EnvLockRetryDelay    = "LOCK_RETRY_DELAY"

	EnvAdminNotificationRetention = "ADMIN_NOTIFICATION_RETENTION"

	EnvTrainingRoomID = "TRAINING_ROOM_ID"
	EnvRentalRoomID   = "RENTAL_ROOM_ID"

	EnvKafkaEnabled           = "KAFKA_ENABLED"
	EnvReservationEventsTopic = "RESERVATION_EVENTS_TOPIC"
	EnvReservationEventsDLQ   = "RESERVATION_EVENTS_DLQ_TOPIC"
	EnvNotifierGroupID        = "NOTIFIER_GROUP_ID"
)
