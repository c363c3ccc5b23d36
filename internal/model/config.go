package model

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Mock      MockConfig
	Logging   LoggingConfig
	Security  SecurityConfig
	Quota     QuotaConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port    int
	Host    string
	Timeout int // seconds
}

// StorageConfig holds placeholder file storage configuration
type StorageConfig struct {
	DownloadDir      string
	MaxFileSizeBytes int64
	CleanupInterval  int // seconds
	FileTTLSeconds   int // Time to live for generated files
}

// MockConfig holds the simulated backend latencies
type MockConfig struct {
	InfoLatencyMs     int
	DownloadLatencyMs int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level    string
	FilePath string
	FileOnly bool // Skip stdout/stderr, e.g. for the terminal front end
}

// SecurityConfig holds security configuration
type SecurityConfig struct {
	RequestTimeout int // seconds
}

// QuotaConfig holds the per-IP daily download quota
type QuotaConfig struct {
	Enabled        bool
	DailyDownloads int // Downloads allowed per IP per day
	ResetHour      int // Hour (0-23) to reset quota
	ResetMinute    int // Minute (0-59) to reset quota
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerMinute int
	BurstSize         int
	CleanupInterval   int // seconds
}
