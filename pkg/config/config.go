// Package config reads the export settings from the environment, after
// loading a .env file when one is present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultOutput is the file an export is written to when nothing else is configured.
const DefaultOutput = "icons-export.json"

type Config struct {
	FigmaToken string
	FileURL    string
	Page       string
	Snapshot   string
	Schema     string
	Workers    int
	Output     string
	Report     string

	S3          S3Config
	DatabaseURL string
}

type S3Config struct {
	Enabled   bool
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Load reads the given .env files (or ./.env when none are given) and then the
// environment. A missing default .env file is not an error; a missing
// explicit one is. Variables already set in the environment win over the file.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		_ = godotenv.Load()
	} else if err := godotenv.Load(files...); err != nil {
		return nil, fmt.Errorf("load env files: %w", err)
	}

	workers := 0
	if raw := strings.TrimSpace(os.Getenv("ICON_EXPORT_WORKERS")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("ICON_EXPORT_WORKERS: invalid worker count %q", raw)
		}
		workers = n
	}

	return &Config{
		FigmaToken:  firstNonEmpty(env("FIGMA_TOKEN"), env("FIGMA_ACCESS_TOKEN")),
		FileURL:     env("FIGMA_FILE_URL"),
		Page:        env("ICON_EXPORT_PAGE"),
		Snapshot:    env("ICON_EXPORT_SNAPSHOT"),
		Schema:      firstNonEmpty(env("ICON_EXPORT_SCHEMA"), "weight"),
		Workers:     workers,
		Output:      firstNonEmpty(env("ICON_EXPORT_OUTPUT"), DefaultOutput),
		Report:      env("ICON_EXPORT_REPORT"),
		S3:          loadS3Config(),
		DatabaseURL: firstNonEmpty(env("ICON_EXPORT_DATABASE_URL"), env("DATABASE_URL")),
	}, nil
}

func loadS3Config() S3Config {
	endpoint := env("ICON_EXPORT_S3_ENDPOINT")
	return S3Config{
		Enabled:   endpoint != "",
		Endpoint:  endpoint,
		Region:    firstNonEmpty(env("ICON_EXPORT_S3_REGION"), "us-east-1"),
		AccessKey: firstNonEmpty(env("ICON_EXPORT_S3_ACCESS_KEY"), env("MINIO_ROOT_USER")),
		SecretKey: firstNonEmpty(env("ICON_EXPORT_S3_SECRET_KEY"), env("MINIO_ROOT_PASSWORD")),
		Bucket:    firstNonEmpty(env("ICON_EXPORT_S3_BUCKET"), "icon-exports"),
		UseSSL:    resolveUseSSL(),
	}
}

func resolveUseSSL() bool {
	raw := env("ICON_EXPORT_S3_USE_SSL")
	if raw == "" {
		return true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return true
	}
	return v
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
