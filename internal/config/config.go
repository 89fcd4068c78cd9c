// Package config provides configuration helpers for FocusFlow commands.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Default service configuration.
const (
	DefaultDetectionURL = "http://localhost:8000"
	DefaultWebPort      = "8090"
	DefaultDBPath       = "data/focusflow.db"
	DefaultPollInterval = 500 * time.Millisecond
)

// DetectionURL returns the detection service URL from DETECTION_URL.
// Falls back to the default local address if not set.
func DetectionURL() string {
	if url := os.Getenv("DETECTION_URL"); url != "" {
		return url
	}
	return DefaultDetectionURL
}

// OpenAIKey returns the OpenAI API key from OPENAI_API_KEY.
// An empty key is allowed; the coach falls back to static messages.
func OpenAIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

// OpenAIKeyRequired returns the OpenAI API key from OPENAI_API_KEY.
// Exits if not set.
func OpenAIKeyRequired() string {
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		fmt.Fprintln(os.Stderr, "Error: OPENAI_API_KEY environment variable is required")
		fmt.Fprintln(os.Stderr, "Usage: OPENAI_API_KEY=sk-... go run ./cmd/...")
		os.Exit(1)
	}
	return key
}

// WebPort returns the dashboard port from WEB_PORT or the default.
func WebPort() string {
	if port := os.Getenv("WEB_PORT"); port != "" {
		return port
	}
	return DefaultWebPort
}

// DBPath returns the SQLite database path from DB_PATH or the default.
func DBPath() string {
	if path := os.Getenv("DB_PATH"); path != "" {
		return path
	}
	return DefaultDBPath
}

// CameraIndex returns the webcam device index from CAMERA_INDEX (default 0).
func CameraIndex() int {
	if v := os.Getenv("CAMERA_INDEX"); v != "" {
		if idx, err := strconv.Atoi(v); err == nil && idx >= 0 {
			return idx
		}
	}
	return 0
}

// PollInterval returns the detection poll interval from POLL_INTERVAL_MS.
func PollInterval() time.Duration {
	if v := os.Getenv("POLL_INTERVAL_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return DefaultPollInterval
}
