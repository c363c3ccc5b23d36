package config

import (
	"os"
	"strconv"
	"strings"

	"tubegrab/internal/model"

	"github.com/joho/godotenv"
)

// Load loads configuration from environment variables
func Load() *model.Config {
	godotenv.Load()

	return &model.Config{
		Server: model.ServerConfig{
			Port:    getEnvInt("SERVER_PORT", 8080),
			Host:    getEnvStr("SERVER_HOST", "0.0.0.0"),
			Timeout: getEnvInt("SERVER_TIMEOUT", 300),
		},
		Storage: model.StorageConfig{
			DownloadDir:      getEnvStr("DOWNLOAD_DIR", "./downloads"),
			MaxFileSizeBytes: getEnvInt64("MAX_FILE_SIZE_BYTES", 1048576),
			CleanupInterval:  getEnvInt("STORAGE_CLEANUP_INTERVAL", 3600),
			FileTTLSeconds:   getEnvInt("FILE_TTL_SECONDS", 86400),
		},
		Mock: model.MockConfig{
			InfoLatencyMs:     nonNegative(getEnvInt("MOCK_INFO_LATENCY_MS", 1500)),
			DownloadLatencyMs: nonNegative(getEnvInt("MOCK_DOWNLOAD_LATENCY_MS", 2000)),
		},
		Logging: model.LoggingConfig{
			Level:    getEnvStr("LOG_LEVEL", "info"),
			FilePath: getEnvStr("LOG_FILE", "./log/app.log"),
			FileOnly: getEnvBool("LOG_FILE_ONLY", false),
		},
		Security: model.SecurityConfig{
			RequestTimeout: getEnvInt("REQUEST_TIMEOUT", 60),
		},
		Quota: model.QuotaConfig{
			Enabled:        getEnvBool("QUOTA_ENABLED", false),
			DailyDownloads: getEnvInt("QUOTA_DAILY_DOWNLOADS", 100),
			ResetHour:      clamp(getEnvInt("QUOTA_RESET_HOUR", 0), 0, 23),
			ResetMinute:    clamp(getEnvInt("QUOTA_RESET_MINUTE", 0), 0, 59),
		},
		RateLimit: model.RateLimitConfig{
			Enabled:           getEnvBool("RATELIMIT_ENABLED", true),
			RequestsPerMinute: getEnvInt("RATELIMIT_REQUESTS_PER_MINUTE", 60),
			BurstSize:         getEnvInt("RATELIMIT_BURST_SIZE", 10),
			CleanupInterval:   getEnvInt("RATELIMIT_CLEANUP_INTERVAL", 1800),
		},
	}
}

func nonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func getEnvStr(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	valStr := getEnvStr(key, "")
	if val, err := strconv.Atoi(strings.TrimSpace(valStr)); err == nil {
		return val
	}
	return defaultVal
}

func getEnvInt64(key string, defaultVal int64) int64 {
	valStr := getEnvStr(key, "")
	if val, err := strconv.ParseInt(strings.TrimSpace(valStr), 10, 64); err == nil {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	valStr := strings.ToLower(strings.TrimSpace(getEnvStr(key, "")))
	if valStr == "true" || valStr == "1" || valStr == "yes" {
		return true
	}
	if valStr == "false" || valStr == "0" || valStr == "no" {
		return false
	}
	return defaultVal
}
