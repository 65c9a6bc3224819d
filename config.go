package main

import (
	"context"
	"fmt"
	"os"

	"storefront/secrets"

	awscfg "github.com/aws/aws-sdk-go-v2/config"
)

// Config holds all environment variables for the storefront service.
type Config struct {
	Env       string // "production" or "development"
	Port      string // HTTP port (default: 8080)
	JWTSecret string // HMAC secret shared with the identity provider

	RedisURL string

	AWSRegion   string
	AWSEndpoint string // LocalStack-style override, empty for real AWS

	S3Bucket    string
	S3Prefix    string
	S3Endpoint  string // public locator base for path-style URLs
	SNSTopicARN string // optional; empty disables order notifications
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// LoadConfig loads environment variables into Config and validates them.
// If AWS_USE_SECRETS=true it attempts to read the JWT secret from Secrets
// Manager, falling back to env vars on failure.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Env:         getenv("APP_ENV", "development"),
		Port:        getenv("PORT", "8080"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		RedisURL:    getenv("REDIS_URL", "redis://localhost:6379"),
		AWSRegion:   getenv("AWS_REGION", "us-east-1"),
		AWSEndpoint: os.Getenv("AWS_ENDPOINT"),
		S3Bucket:    getenv("AWS_S3_BUCKET", "storefront"),
		S3Prefix:    getenv("AWS_S3_PREFIX", "product_images/"),
		S3Endpoint:  os.Getenv("AWS_S3_ENDPOINT"),
		SNSTopicARN: os.Getenv("ORDER_SNS_TOPIC_ARN"),
	}
	if cfg.S3Endpoint == "" {
		cfg.S3Endpoint = cfg.AWSEndpoint
	}

	if os.Getenv("AWS_USE_SECRETS") == "true" {
		if awsCfg, err := awscfg.LoadDefaultConfig(context.Background()); err == nil {
			sm := secrets.NewClient(awsCfg)
			if jwt, err := sm.GetSecret(context.Background(), "storefront/JWT_SECRET"); err == nil && jwt != "" {
				cfg.JWTSecret = jwt
			}
		}
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	return cfg, nil
}
