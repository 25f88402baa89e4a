package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

var (
	TLS_DOMAINS       = "" // e.g. "example.com,example2.com"
	BIND_ADDRESS      = "0.0.0.0:8080"
	PUBLIC_URL        = "http://localhost:8080" // Used to build URLs of images kept on local disk
	DEBUG_MODE        = true
	CORS_ORIGINS      = "*"
	MYSQL_DSN         = "" // MySQL will be used if this is set
	POSTGRES_DSN      = "" // PostgreSQL will be used if MYSQL_DSN is not configured and this is set
	SQLITE_FILE       = "gallery.db"
	SESSION_KEY       = "change me, this is a long key"
	SESSION_TTL_HOURS = 24 * 30
	// Image host, one of "imgbb", "s3" or "disk"
	IMAGE_HOST       = "disk"
	IMGBB_API_KEY    = ""
	IMGBB_ENDPOINT   = "https://api.imgbb.com/1/upload"
	IMGBB_EXPIRATION = 0 // seconds, 0 keeps images forever
	S3_BUCKET        = ""
	S3_REGION        = "us-east-1"
	S3_ENDPOINT      = "" // Leave empty for AWS, set for S3 compatible services
	S3_ACCESS_KEY    = ""
	S3_SECRET_KEY    = ""
	S3_PREFIX        = "images"
	S3_PUBLIC_URL    = "" // e.g. "https://cdn.example.com"
	DISK_DIR         = "./media"
	// Uploads
	MAX_UPLOAD_MB       = 5
	MAX_IMAGE_DIMENSION = 0 // Bigger images get downscaled before upload; 0 disables it
	// Listings
	DEFAULT_PAGE_LIMIT = 20
	MAX_PAGE_LIMIT     = 100
	SEED_CATEGORIES    = "Landscape,Portrait,Anime,Abstract,Architecture"
)

func init() {
	// Values from the real environment win over the .env file
	_ = godotenv.Load()

	readEnvString("TLS_DOMAINS", &TLS_DOMAINS)
	readEnvString("BIND_ADDRESS", &BIND_ADDRESS)
	readEnvString("PUBLIC_URL", &PUBLIC_URL)
	readEnvBool("DEBUG_MODE", &DEBUG_MODE)
	readEnvString("CORS_ORIGINS", &CORS_ORIGINS)
	readEnvString("MYSQL_DSN", &MYSQL_DSN)
	readEnvString("POSTGRES_DSN", &POSTGRES_DSN)
	readEnvString("SQLITE_FILE", &SQLITE_FILE)
	readEnvString("SESSION_KEY", &SESSION_KEY)
	readEnvInt("SESSION_TTL_HOURS", &SESSION_TTL_HOURS)
	readEnvString("IMAGE_HOST", &IMAGE_HOST)
	readEnvString("IMGBB_API_KEY", &IMGBB_API_KEY)
	readEnvString("IMGBB_ENDPOINT", &IMGBB_ENDPOINT)
	readEnvInt("IMGBB_EXPIRATION", &IMGBB_EXPIRATION)
	readEnvString("S3_BUCKET", &S3_BUCKET)
	readEnvString("S3_REGION", &S3_REGION)
	readEnvString("S3_ENDPOINT", &S3_ENDPOINT)
	readEnvString("S3_ACCESS_KEY", &S3_ACCESS_KEY)
	readEnvString("S3_SECRET_KEY", &S3_SECRET_KEY)
	readEnvString("S3_PREFIX", &S3_PREFIX)
	readEnvString("S3_PUBLIC_URL", &S3_PUBLIC_URL)
	readEnvString("DISK_DIR", &DISK_DIR)
	readEnvInt("MAX_UPLOAD_MB", &MAX_UPLOAD_MB)
	readEnvInt("MAX_IMAGE_DIMENSION", &MAX_IMAGE_DIMENSION)
	readEnvInt("DEFAULT_PAGE_LIMIT", &DEFAULT_PAGE_LIMIT)
	readEnvInt("MAX_PAGE_LIMIT", &MAX_PAGE_LIMIT)
	readEnvString("SEED_CATEGORIES", &SEED_CATEGORIES)
}

// SplitList splits a comma separated setting, dropping empty entries
func SplitList(value string) []string {
	result := []string{}
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}

func readEnvString(name string, value *string) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	*value = v
}

func readEnvBool(name string, value *bool) {
	v := strings.ToLower(os.Getenv(name))
	if v == "true" || v == "1" || v == "yes" || v == "on" {
		*value = true
	} else if v == "false" || v == "0" || v == "no" || v == "off" {
		*value = false
	}
}

func readEnvInt(name string, value *int) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	f, err := strconv.Atoi(v)
	if err != nil {
		return
	}
	*value = f
}
