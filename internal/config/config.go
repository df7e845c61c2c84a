package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port          string
	MongoURI      string
	MongoDatabase string
	JWTSecret     string

	// Telegram delivery target: one bot, one destination chat.
	TelegramToken  string
	TelegramChatID int64

	// Attachment storage.
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	// Base URL prefixed to object paths when building durable fetch URLs.
	// Defaults to the endpoint + bucket when empty.
	MinioPublicURL string
}

func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8082"),
		MongoURI:       getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:  getEnv("MONGO_DATABASE", "restolink"),
		JWTSecret:      getEnv("JWT_SECRET", "dev-secret-change-in-production"),
		TelegramToken:  getEnv("TELEGRAM_TOKEN", ""),
		TelegramChatID: getEnvInt64("TELEGRAM_CHAT_ID", 0),
		MinioEndpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinioBucket:    getEnv("MINIO_BUCKET", "restolink-uploads"),
		MinioUseSSL:    getEnv("MINIO_USE_SSL", "") == "true",
		MinioPublicURL: getEnv("MINIO_PUBLIC_URL", ""),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}
