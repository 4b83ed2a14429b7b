package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "eventify"
	DefaultMongoConnTimeout  = 10 * time.Second
	DefaultMongoTransactions = true

	DefaultPort = "8080"

	// Development value only, deployments must set JWT_SECRET.
	DefaultJWTSecret = "secretKey_change_me"

	DefaultRedisDB        = 0
	DefaultEventsCacheTTL = 30 * time.Second

	DefaultKafkaEnabled           = false
	DefaultKafkaReservationsTopic = "eventify.reservations"

	DefaultAdminName     = "Admin User"
	DefaultAdminEmail    = "admin@eventify.com"
	DefaultAdminPassword = "Admin@123"
	DefaultBcryptCost    = 10

	DefaultRateLimitRequests = 10
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
)
