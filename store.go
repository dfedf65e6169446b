package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// This file implements the application state store: the single authoritative
// holder of the dashboard's fetched weather data, derived background and UI
// flags. All mutation goes through commit, which replaces the state value
// wholesale so readers never observe a half-applied search.

// AppState is the aggregate the presentation layer reads. Weather and
// Forecast are nil until the first successful search.
type AppState struct {
	Weather    *WeatherSnapshot
	Forecast   *ForecastSeries
	Background BackgroundMedia
	Location   string
	FirstLoad  bool
}

// Store owns the AppState. Searches fetch current conditions and the
// forecast concurrently and commit both together or not at all; a failed
// search leaves the previous state fully intact.
type Store struct {
	api      WeatherAPI
	resolver *MediaResolver
	logger   *slog.Logger

	seq atomic.Uint64

	mu        sync.RWMutex
	state     AppState
	committed uint64
}

func NewStore(api WeatherAPI, resolver *MediaResolver, logger *slog.Logger) *Store {
	return &Store{
		api:      api,
		resolver: resolver,
		logger:   logger,
		state: AppState{
			Background: defaultBackground,
			FirstLoad:  true,
		},
	}
}

// State returns a copy of the current application state. The snapshot and
// series pointers may be shared with past readers; both are immutable once
// fetched, so sharing is safe.
func (s *Store) State() AppState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Search runs a search for a free-text term. A bare 5-digit term is treated
// as a US postal code before dispatch.
func (s *Store) Search(ctx context.Context, query string) error {
	if isZipQuery(query) {
		return s.search(ctx, query+",us", "US")
	}
	return s.search(ctx, query, "")
}

// SearchCoordinates resolves a coordinate pair (typically a geolocation
// callback) to a place via the reverse-geocode fetch, then searches by the
// resolved name so the committed label and units match the actual country.
func (s *Store) SearchCoordinates(ctx context.Context, lat, lon float64) error {
	located, err := s.api.FetchByCoordinates(ctx, lat, lon)
	if err != nil {
		s.logger.Warn("reverse geocode failed, keeping previous state", "lat", lat, "lon", lon, "error", err)
		searchesTotal.WithLabelValues("failure").Inc()
		return fmt.Errorf("could not resolve coordinates: %w", err)
	}
	return s.search(ctx, located.CityName, located.CountryCode)
}

// SearchPlace runs a search for a resolved autocomplete suggestion. The
// fetch goes by coordinate pair; display metadata still comes from the
// upstream result, not the suggestion.
func (s *Store) SearchPlace(ctx context.Context, place PlaceSuggestion) error {
	return s.search(ctx, fmt.Sprintf("%.4f,%.4f", place.Lat, place.Lon), place.Country)
}

// Refresh re-runs the last committed search, if any.
func (s *Store) Refresh(ctx context.Context) error {
	st := s.State()
	if st.Weather == nil {
		return nil
	}
	return s.search(ctx, st.Weather.CityName, st.Weather.CountryCode)
}

func (s *Store) search(ctx context.Context, query, countryHint string) error {
	seq := s.seq.Add(1)
	requestID := uuid.NewString()
	s.logger.Debug("search started", "request_id", requestID, "query", query, "seq", seq)

	var (
		wg                      sync.WaitGroup
		snapshot                WeatherSnapshot
		series                  ForecastSeries
		weatherErr, forecastErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		snapshot, weatherErr = s.api.FetchCurrentWeather(ctx, query, countryHint)
	}()
	go func() {
		defer wg.Done()
		series, forecastErr = s.api.FetchForecast(ctx, query, countryHint)
	}()
	wg.Wait()

	if weatherErr != nil || forecastErr != nil {
		s.logger.Warn("search failed, keeping previous state",
			"request_id", requestID,
			"query", query,
			"weather_error", weatherErr,
			"forecast_error", forecastErr,
		)
		searchesTotal.WithLabelValues("failure").Inc()
		return fmt.Errorf("search %q failed", query)
	}

	// The upstream result is authoritative for the display label, not the
	// caller's input.
	label := fmt.Sprintf("%s, %s", snapshot.CityName, snapshot.CountryCode)
	background := s.resolver.Resolve(snapshot.Condition, isNight(snapshot))

	if !s.commit(seq, AppState{
		Weather:    &snapshot,
		Forecast:   &series,
		Background: background,
		Location:   label,
		FirstLoad:  false,
	}) {
		s.logger.Debug("discarded stale search result", "request_id", requestID, "seq", seq)
		searchesTotal.WithLabelValues("stale").Inc()
		return nil
	}

	s.logger.Info("search committed", "request_id", requestID, "location", label, "condition", snapshot.Condition)
	searchesTotal.WithLabelValues("success").Inc()
	return nil
}

// commit replaces the whole state in one step. A commit only applies when
// its sequence number is higher than the last applied one, so a slow search
// that resolves after a newer one cannot clobber fresher data.
func (s *Store) commit(seq uint64, next AppState) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq < s.committed {
		return false
	}
	s.committed = seq
	s.state = next
	return true
}

// isNight reports whether the snapshot's observation time falls outside the
// sunrise..sunset window. Boundary equality counts as day: the comparisons
// are strictly before-sunrise / after-sunset.
func isNight(w WeatherSnapshot) bool {
	return w.Timestamp.Before(w.Sunrise) || w.Timestamp.After(w.Sunset)
}
