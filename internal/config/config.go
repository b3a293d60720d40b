package config

import (
	"os"
	"strconv"
)

// Config holds application configuration
type Config struct {
	Port   string
	DBPath string

	Detection DetectionDefaults
}

// DetectionDefaults holds default thresholds for trip detection.
// Callers can override any of them per request; detectors themselves
// never read ambient state.
type DetectionDefaults struct {
	MinDistanceKm       float64 // home-based: minimum accumulated distance
	MinDurationHours    float64 // home-based: minimum trip duration
	DistanceThresholdKm float64 // distance-based: minimum distance from home
	TimeGapHours        float64 // distance-based: maximum gap inside a cluster
	MinNights           int     // overnight: minimum qualifying visits per trip
}

// Load loads configuration from environment variables
func Load() *Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./data/timeline.db"
	}

	return &Config{
		Port:   port,
		DBPath: dbPath,
		Detection: DetectionDefaults{
			MinDistanceKm:       envFloat("TRIP_MIN_DISTANCE_KM", 0.5),
			MinDurationHours:    envFloat("TRIP_MIN_DURATION_HOURS", 0.1),
			DistanceThresholdKm: envFloat("TRIP_DISTANCE_THRESHOLD_KM", 5.0),
			TimeGapHours:        envFloat("TRIP_TIME_GAP_HOURS", 6.0),
			MinNights:           envInt("TRIP_MIN_NIGHTS", 1),
		},
	}
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
