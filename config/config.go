package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// RowPolicy decides what happens to a holding row that fails validation
type RowPolicy string

const (
	RowPolicyAbort RowPolicy = "abort"
	RowPolicySkip  RowPolicy = "skip"
)

// Config holds application configuration loaded from environment variables
type Config struct {
	Port               string
	LogLevel           log.Level
	InvalidRowPolicy   RowPolicy
	ParallelSimulation bool
	MaxUploadMB        int64
	ResultCacheTTL     time.Duration
}

// Load reads configuration from environment variables.
// A .env file in the working directory is loaded first; values already set
// in the shell take precedence over it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	level := log.InfoLevel
	if s := os.Getenv("LOG_LEVEL"); s != "" {
		parsed, err := log.ParseLevel(s)
		if err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", s, err)
		}
		level = parsed
	}

	policy := RowPolicyAbort
	if s := strings.ToLower(strings.TrimSpace(os.Getenv("INVALID_ROW_POLICY"))); s != "" {
		switch RowPolicy(s) {
		case RowPolicyAbort, RowPolicySkip:
			policy = RowPolicy(s)
		default:
			return nil, fmt.Errorf("INVALID_ROW_POLICY must be 'abort' or 'skip', got %q", s)
		}
	}

	parallel := false
	if s := os.Getenv("PARALLEL_SIMULATION"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("invalid PARALLEL_SIMULATION %q: %w", s, err)
		}
		parallel = b
	}

	maxUpload := int64(8)
	if s := os.Getenv("MAX_UPLOAD_MB"); s != "" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("MAX_UPLOAD_MB must be a positive integer, got %q", s)
		}
		maxUpload = n
	}

	cacheTTL := 5 * time.Minute
	if s := os.Getenv("RESULT_CACHE_TTL"); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil || d < 0 {
			return nil, fmt.Errorf("RESULT_CACHE_TTL must be a non-negative duration, got %q", s)
		}
		cacheTTL = d
	}

	return &Config{
		Port:               port,
		LogLevel:           level,
		InvalidRowPolicy:   policy,
		ParallelSimulation: parallel,
		MaxUploadMB:        maxUpload,
		ResultCacheTTL:     cacheTTL,
	}, nil
}
