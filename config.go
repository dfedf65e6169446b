package main

import (
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/time/rate"
)

// appConfig holds everything the application wires together at startup.
type appConfig struct {
	logger     *slog.Logger
	httpClient *http.Client

	weatherAPI WeatherAPI
	index      *MediaIndex
	resolver   *MediaResolver
	prober     *MediaProber
	store      *Store

	port            string
	devMode         bool
	assetDir        string
	defaultLocation string
	refreshInterval time.Duration
}

// getEnv retrieves an environment variable by key, with a fallback value.
func getEnv(key, fallback string, logger *slog.Logger) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	logger.Info("environment variable not set, using fallback", "key", key, "fallback", fallback)
	return fallback
}

// getEnvAsInt retrieves an environment variable as an integer, with a fallback value.
func getEnvAsInt(key string, fallback int, logger *slog.Logger) int {
	valStr, ok := os.LookupEnv(key)
	if !ok {
		logger.Info("environment variable not set, using fallback", "key", key, "fallback", fallback)
		return fallback
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		logger.Warn("invalid integer value for environment variable, using fallback", "key", key, "value", valStr, "error", err)
		return fallback
	}
	return val
}

// splitAPIKeys splits a comma-separated credential list, dropping empties.
// An empty result is allowed: the client then degrades every fetch to an
// absent result with a configuration error logged once.
func splitAPIKeys(raw string) []string {
	var keys []string
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

func config() *appConfig {
	devModeStr := os.Getenv("DEV_MODE")
	devMode, err := strconv.ParseBool(devModeStr)
	if err != nil {
		devMode = false
	}

	var logger *slog.Logger
	if devMode {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	} else {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, relying on environment variables")
	}

	httpClient := &http.Client{
		Timeout: 10 * time.Second,
	}

	keys := splitAPIKeys(getEnv("OWM_API_KEYS", "", logger))
	if len(keys) == 0 {
		logger.Warn("OWM_API_KEYS is empty, weather fetches will be unavailable")
	}

	owmBaseURL := getEnv("OWM_BASE_URL", "https://api.openweathermap.org/data/2.5", logger)
	upstreamRPS := getEnvAsInt("UPSTREAM_RPS", 10, logger)
	weatherAPI := NewOWMClient(
		owmBaseURL,
		keys,
		httpClient,
		rate.NewLimiter(rate.Limit(upstreamRPS), upstreamRPS),
		logger,
	)

	port := getEnv("PORT", "8080", logger)
	assetBaseURL := getEnv("ASSET_BASE_URL", "http://localhost:"+port, logger)
	probeRPS := getEnvAsInt("PROBE_RPS", 20, logger)

	index := NewMediaIndex()
	resolver := NewMediaResolver(index)
	prober := NewMediaProber(
		index,
		assetBaseURL,
		httpClient,
		rate.NewLimiter(rate.Limit(probeRPS), probeRPS),
		logger,
	)

	store := NewStore(weatherAPI, resolver, logger)

	refreshIntervalMin := getEnvAsInt("REFRESH_INTERVAL_MIN", 10, logger)

	cfg := appConfig{
		logger:          logger,
		httpClient:      httpClient,
		weatherAPI:      weatherAPI,
		index:           index,
		resolver:        resolver,
		prober:          prober,
		store:           store,
		port:            port,
		devMode:         devMode,
		assetDir:        getEnv("ASSET_DIR", "./images", logger),
		defaultLocation: getEnv("DEFAULT_LOCATION", "New York", logger),
		refreshInterval: time.Duration(refreshIntervalMin) * time.Minute,
	}

	return &cfg
}
