package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                 string
	MongoURI             string
	MongoDB              string
	JWTSecret            string
	RedisURL             string
	GoogleClientID       string
	MinioEndpoint        string
	MinioAccessKey       string
	MinioSecretKey       string
	MinioBucket          string
	MinioPublicURL       string
	AllowMultipleReviews bool
}

func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:                 os.Getenv("PORT"),
		MongoURI:             os.Getenv("MONGO_URI"),
		MongoDB:              os.Getenv("MONGO_DB"),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		RedisURL:             os.Getenv("REDIS_URL"),
		GoogleClientID:       os.Getenv("GOOGLE_CLIENT_ID"),
		MinioEndpoint:        os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey:       os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey:       os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:          os.Getenv("MINIO_BUCKET"),
		MinioPublicURL:       os.Getenv("MINIO_PUBLIC_URL"),
		AllowMultipleReviews: os.Getenv("ALLOW_MULTIPLE_REVIEWS") == "true",
	}

	if cfg.Port == "" {
		cfg.Port = "8000"
	}
	if cfg.MongoDB == "" {
		cfg.MongoDB = "schoolzy"
	}

	return cfg, nil
}
