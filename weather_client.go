package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// This file implements the client for the upstream weather provider. It wraps
// the three remote endpoints (current weather, 5-day/3-hour forecast, and
// weather-by-coordinates, which doubles as reverse geocoding) behind credential
// rotation with bounded retry. Transient upstream failures never escape as
// anything other than an error value; the state store treats every error
// uniformly as "no data, try again later".

// ErrNoAPIKeys is returned by every fetch when no credential tokens are configured.
var ErrNoAPIKeys = errors.New("no weather API keys configured")

// ErrUpstreamUnavailable is returned once every configured credential token
// has been tried and failed for a single logical fetch.
var ErrUpstreamUnavailable = errors.New("weather API unavailable")

// WeatherAPI is the surface the state store and handlers depend on.
// Using an interface keeps the store testable without a live upstream.
type WeatherAPI interface {
	FetchCurrentWeather(ctx context.Context, query, countryHint string) (WeatherSnapshot, error)
	FetchForecast(ctx context.Context, query, countryHint string) (ForecastSeries, error)
	FetchByCoordinates(ctx context.Context, lat, lon float64) (WeatherSnapshot, error)
	FetchForecastForDate(ctx context.Context, query string, date time.Time, countryHint string) ([]ForecastEntry, error)
}

// keyRing is an ordered set of credential tokens rotated round-robin across
// outbound calls. The pointer advances on every pick, so consecutive calls
// spread load across all tokens even when nothing fails.
type keyRing struct {
	mu   sync.Mutex
	keys []string
	next int
}

func newKeyRing(keys []string) *keyRing {
	clean := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			clean = append(clean, k)
		}
	}
	return &keyRing{keys: clean}
}

func (r *keyRing) Len() int {
	return len(r.keys)
}

// Pick returns the current token and advances the rotation pointer, wrapping.
func (r *keyRing) Pick() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.keys) == 0 {
		return "", false
	}
	key := r.keys[r.next]
	r.next = (r.next + 1) % len(r.keys)
	return key, true
}

// OWMClient talks to the OpenWeatherMap-style HTTP API.
type OWMClient struct {
	baseURL    string
	ring       *keyRing
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
	noKeysOnce sync.Once
}

func NewOWMClient(baseURL string, keys []string, httpClient *http.Client, limiter *rate.Limiter, logger *slog.Logger) *OWMClient {
	return &OWMClient{
		baseURL:    baseURL,
		ring:       newKeyRing(keys),
		httpClient: httpClient,
		limiter:    limiter,
		logger:     logger,
	}
}

// get performs one logical fetch against an upstream endpoint, retrying with
// the next credential token on each failure, at most once per configured
// token. Network errors, non-2xx statuses and unreadable bodies all count as
// a failed attempt. When every token has been tried the call fails with
// ErrUpstreamUnavailable wrapping the last attempt's error.
func (c *OWMClient) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	attempts := c.ring.Len()
	if attempts == 0 {
		c.noKeysOnce.Do(func() {
			c.logger.Error("no weather API keys configured, all fetches will fail")
		})
		return nil, ErrNoAPIKeys
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait: %w", err)
		}
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		key, _ := c.ring.Pick()
		params.Set("appid", key)

		body, err := c.getOnce(ctx, endpoint, params)
		if err == nil {
			upstreamRequestsTotal.WithLabelValues(endpoint, "success").Inc()
			return body, nil
		}
		upstreamRequestsTotal.WithLabelValues(endpoint, "failure").Inc()
		c.logger.Warn("upstream request failed, rotating key", "endpoint", endpoint, "attempt", i+1, "error", err)
		lastErr = err
	}

	return nil, fmt.Errorf("%w after %d attempts: %w", ErrUpstreamUnavailable, attempts, lastErr)
}

func (c *OWMClient) getOnce(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	reqURL := c.baseURL + endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return body, nil
}

// FetchCurrentWeather retrieves current conditions for a location given as
// free text, "lat,lon" or "zipcode,country". The unit system is derived from
// the country hint.
func (c *OWMClient) FetchCurrentWeather(ctx context.Context, query, countryHint string) (WeatherSnapshot, error) {
	units := unitsForCountry(countryHint)

	params := url.Values{}
	setLocationParams(params, query)
	params.Set("units", units)

	body, err := c.get(ctx, "/weather", params)
	if err != nil {
		return WeatherSnapshot{}, err
	}

	snapshot, err := parseCurrentWeather(body, units)
	if err != nil {
		return WeatherSnapshot{}, fmt.Errorf("parsing current weather: %w", err)
	}
	return snapshot, nil
}

// FetchForecast retrieves the 5-day/3-hour forecast for a location, in the
// same three query shapes as FetchCurrentWeather.
func (c *OWMClient) FetchForecast(ctx context.Context, query, countryHint string) (ForecastSeries, error) {
	units := unitsForCountry(countryHint)

	params := url.Values{}
	setLocationParams(params, query)
	params.Set("units", units)

	body, err := c.get(ctx, "/forecast", params)
	if err != nil {
		return ForecastSeries{}, err
	}

	series, err := parseForecast(body, units)
	if err != nil {
		return ForecastSeries{}, fmt.Errorf("parsing forecast: %w", err)
	}
	return series, nil
}

// FetchByCoordinates resolves a coordinate pair to current conditions at the
// nearest place. The returned snapshot's name and country serve as the
// reverse-geocode result for geolocation searches. No country is known at
// call time, so the default (imperial) unit system applies.
func (c *OWMClient) FetchByCoordinates(ctx context.Context, lat, lon float64) (WeatherSnapshot, error) {
	return c.FetchCurrentWeather(ctx, fmt.Sprintf("%.4f,%.4f", lat, lon), "")
}

// FetchForecastForDate retrieves the forecast for a location and keeps only
// the entries falling on the given calendar date. Date equality is judged in
// the supplied date's own location, not UTC, matching how the dashboard
// labels its forecast day cards.
func (c *OWMClient) FetchForecastForDate(ctx context.Context, query string, date time.Time, countryHint string) ([]ForecastEntry, error) {
	series, err := c.FetchForecast(ctx, query, countryHint)
	if err != nil {
		return nil, err
	}

	wantYear, wantMonth, wantDay := date.Date()
	var entries []ForecastEntry
	for _, entry := range series.Entries {
		y, m, d := entry.Timestamp.In(date.Location()).Date()
		if y == wantYear && m == wantMonth && d == wantDay {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}
