package config

import (
	"os"
	"strconv"
	"strings"
)

var (
	MYSQL_DSN    = "" // MySQL will be used if this is set
	SQLITE_FILE  = "" // SQLite will be used if MYSQL_DSN is not configured and this is set
	BIND_ADDRESS = "0.0.0.0:8080"
	TLS_DOMAINS  = "" // e.g. "example.com,example2.com"
	DEBUG_MODE   = true

	// JWT and refresh token settings
	JWT_SECRET         = ""
	JWT_ISSUER         = "api-artistas"
	JWT_ACCESS_MINUTES = 5
	JWT_REFRESH_DAYS   = 7
	JWT_LOGIN_FIELD    = "email" // "email" or "nome"

	// MinIO object store. The internal endpoint is used for uploads and deletes,
	// the public one for presigned URLs handed out to clients.
	MINIO_INTERNAL_ENDPOINT = "localhost:9000"
	MINIO_PUBLIC_ENDPOINT   = ""
	MINIO_ACCESS_KEY        = ""
	MINIO_SECRET_KEY        = ""
	MINIO_BUCKET            = "artistas"
	MINIO_REGION            = ""
	MINIO_USE_SSL           = false

	PRESIGN_EXPIRY_SECONDS = 30 * 60

	// Per-user rate limiting (fixed refill window)
	RATE_LIMIT_CAPACITY = 40
	RATE_LIMIT_MINUTES  = 1

	// External regionals endpoint
	REGIONAIS_URL          = "https://integrador-argus-api.geia.vip/v1/regionais"
	REGIONAIS_SYNC_MINUTES = 0 // 0 disables the periodic sync
)

func init() {
	Load()
}

// Load re-reads all settings from the environment.
func Load() {
	readEnvString("MYSQL_DSN", &MYSQL_DSN)
	readEnvString("SQLITE_FILE", &SQLITE_FILE)
	readEnvString("BIND_ADDRESS", &BIND_ADDRESS)
	readEnvString("TLS_DOMAINS", &TLS_DOMAINS)
	readEnvBool("DEBUG_MODE", &DEBUG_MODE)
	readEnvString("JWT_SECRET", &JWT_SECRET)
	readEnvString("JWT_ISSUER", &JWT_ISSUER)
	readEnvInt("JWT_ACCESS_MINUTES", &JWT_ACCESS_MINUTES)
	readEnvInt("JWT_REFRESH_DAYS", &JWT_REFRESH_DAYS)
	readEnvString("JWT_LOGIN_FIELD", &JWT_LOGIN_FIELD)
	readEnvString("MINIO_INTERNAL_ENDPOINT", &MINIO_INTERNAL_ENDPOINT)
	readEnvString("MINIO_PUBLIC_ENDPOINT", &MINIO_PUBLIC_ENDPOINT)
	readEnvString("MINIO_ACCESS_KEY", &MINIO_ACCESS_KEY)
	readEnvString("MINIO_SECRET_KEY", &MINIO_SECRET_KEY)
	readEnvString("MINIO_BUCKET", &MINIO_BUCKET)
	readEnvString("MINIO_REGION", &MINIO_REGION)
	readEnvBool("MINIO_USE_SSL", &MINIO_USE_SSL)
	readEnvInt("PRESIGN_EXPIRY_SECONDS", &PRESIGN_EXPIRY_SECONDS)
	readEnvInt("RATE_LIMIT_CAPACITY", &RATE_LIMIT_CAPACITY)
	readEnvInt("RATE_LIMIT_MINUTES", &RATE_LIMIT_MINUTES)
	readEnvString("REGIONAIS_URL", &REGIONAIS_URL)
	readEnvInt("REGIONAIS_SYNC_MINUTES", &REGIONAIS_SYNC_MINUTES)

	if RATE_LIMIT_CAPACITY <= 0 {
		RATE_LIMIT_CAPACITY = 40
	}
	if RATE_LIMIT_MINUTES <= 0 {
		RATE_LIMIT_MINUTES = 1
	}
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
