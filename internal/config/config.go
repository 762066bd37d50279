package config

import (
	"os"
	"strconv"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Identity provider (external; we verify its tokens and call its admin API)
	IdentityIssuer   string
	IdentityAudience string
	IdentityJWKSURL  string
	IdentityAdminURL string
	IdentityAdminKey string

	// Short code generation
	ShortCodeSalt      string
	ShortCodeMinLength int

	// Public validation rules (also served via /system/config)
	MaxQRCodesPerUser    int
	MaxLabelLength       int
	MaxTextContentLength int
	MaxUploadSizeMB      int

	// Server
	Port        string
	Environment string
	CORSOrigins string
}

func Load() *Config {
	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "qrtrail_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		IdentityIssuer:   getEnv("IDENTITY_ISSUER", ""),
		IdentityAudience: getEnv("IDENTITY_AUDIENCE", ""),
		IdentityJWKSURL:  getEnv("IDENTITY_JWKS_URL", ""),
		IdentityAdminURL: getEnv("IDENTITY_ADMIN_URL", ""),
		IdentityAdminKey: getEnv("IDENTITY_ADMIN_KEY", ""),

		ShortCodeSalt:      getEnv("SHORTCODE_SALT", ""),
		ShortCodeMinLength: getEnvInt("SHORTCODE_MIN_LENGTH", 6),

		MaxQRCodesPerUser:    getEnvInt("MAX_QRCODES_PER_USER", 5),
		MaxLabelLength:       getEnvInt("MAX_LABEL_LENGTH", 50),
		MaxTextContentLength: getEnvInt("MAX_TEXT_CONTENT_LENGTH", 1024),
		MaxUploadSizeMB:      getEnvInt("MAX_UPLOAD_SIZE_MB", 5),

		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("APP_ENV", "development"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}
