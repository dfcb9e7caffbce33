package config

import (
	"os"
	"strconv"
	"time"
)

// Config collects everything the controllers need from the environment so
// nothing reads ambient state after startup.
type Config struct {
	Port string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	JWTSecret string

	// Reset password OTP signing. The signed envelope stored on the user row
	// is only accepted while younger than ResetTokenMaxAge.
	ResetTokenSecret string
	ResetTokenMaxAge time.Duration

	AMQPURL string
}

const defaultResetTokenMaxAgeMinutes = 10

func Load() *Config {
	maxAge := defaultResetTokenMaxAgeMinutes
	if v := os.Getenv("RESET_TOKEN_MAX_AGE_MINUTES"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			maxAge = parsed
		}
	}

	secret := os.Getenv("RESET_TOKEN_SECRET")
	if secret == "" {
		secret = os.Getenv("JWT_SECRET")
	}

	return &Config{
		Port:             os.Getenv("PORT"),
		DBHost:           os.Getenv("DB_HOST"),
		DBUser:           os.Getenv("DB_USER"),
		DBPassword:       os.Getenv("DB_PASSWORD"),
		DBName:           os.Getenv("DB_NAME"),
		DBPort:           os.Getenv("DB_PORT"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		ResetTokenSecret: secret,
		ResetTokenMaxAge: time.Duration(maxAge) * time.Minute,
		AMQPURL:          os.Getenv("AMQP_URL"),
	}
}
