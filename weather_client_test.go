package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.HandlerFunc, keys []string) (*OWMClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewOWMClient(server.URL, keys, server.Client(), nil, discardLogger())
	return client, server
}

func serveTestdata(t *testing.T, name string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := testData.ReadFile("testdata/" + name)
		if err != nil {
			t.Errorf("failed to read test data: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

func TestFetchCurrentWeather(t *testing.T) {
	var gotQuery string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		serveTestdata(t, "current_weather_owm.json")(w, r)
	}, []string{"key-1"})

	snapshot, err := client.FetchCurrentWeather(context.Background(), "New York", "US")
	require.NoError(t, err)

	assert.Equal(t, "New York", gotQuery)
	assert.Equal(t, "New York", snapshot.CityName)
	assert.Equal(t, "US", snapshot.CountryCode)
	assert.Equal(t, "Thunderstorm", snapshot.Condition)
	assert.Equal(t, UnitsImperial, snapshot.Units)
}

func TestFetchCurrentWeather_QueryShapes(t *testing.T) {
	testCases := []struct {
		name       string
		query      string
		wantParams map[string]string
	}{
		{
			name:       "free text name",
			query:      "London",
			wantParams: map[string]string{"q": "London"},
		},
		{
			name:       "coordinate pair",
			query:      "40.7143,-74.0060",
			wantParams: map[string]string{"lat": "40.7143", "lon": "-74.0060"},
		},
		{
			name:       "zip with country",
			query:      "10001,us",
			wantParams: map[string]string{"zip": "10001,us"},
		},
		{
			name:       "bare zip binds to us",
			query:      "10001",
			wantParams: map[string]string{"zip": "10001,us"},
		},
		{
			name:       "numeric-looking text stays free text",
			query:      "1234",
			wantParams: map[string]string{"q": "1234"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var gotParams map[string][]string
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				gotParams = r.URL.Query()
				serveTestdata(t, "current_weather_owm.json")(w, r)
			}, []string{"key-1"})

			_, err := client.FetchCurrentWeather(context.Background(), tc.query, "")
			require.NoError(t, err)

			for key, want := range tc.wantParams {
				require.Len(t, gotParams[key], 1, "param %q", key)
				assert.Equal(t, want, gotParams[key][0], "param %q", key)
			}
		})
	}
}

func TestFetchCurrentWeather_UnitsFromCountryHint(t *testing.T) {
	testCases := []struct {
		name      string
		hint      string
		wantUnits string
	}{
		{"european country gets metric", "GB", UnitsMetric},
		{"lowercase hint still matches", "de", UnitsMetric},
		{"non-european country gets imperial", "US", UnitsImperial},
		{"empty hint gets imperial", "", UnitsImperial},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var gotUnits string
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				gotUnits = r.URL.Query().Get("units")
				serveTestdata(t, "current_weather_owm.json")(w, r)
			}, []string{"key-1"})

			_, err := client.FetchCurrentWeather(context.Background(), "London", tc.hint)
			require.NoError(t, err)
			assert.Equal(t, tc.wantUnits, gotUnits)
		})
	}
}

func TestKeyRotation_SucceedsOnLastKey(t *testing.T) {
	var mu sync.Mutex
	var keysSeen []string

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Query().Get("appid")
		mu.Lock()
		keysSeen = append(keysSeen, key)
		mu.Unlock()
		if key != "key-3" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		serveTestdata(t, "current_weather_owm.json")(w, r)
	}, []string{"key-1", "key-2", "key-3"})

	snapshot, err := client.FetchCurrentWeather(context.Background(), "New York", "US")
	require.NoError(t, err)
	assert.Equal(t, "New York", snapshot.CityName)
	assert.Equal(t, []string{"key-1", "key-2", "key-3"}, keysSeen)
}

func TestKeyRotation_AllKeysFail(t *testing.T) {
	attempts := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
	}, []string{"key-1", "key-2", "key-3"})

	_, err := client.FetchCurrentWeather(context.Background(), "New York", "US")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
	assert.Equal(t, 3, attempts)
}

func TestKeyRotation_AdvancesAcrossCalls(t *testing.T) {
	var mu sync.Mutex
	var keysSeen []string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		keysSeen = append(keysSeen, r.URL.Query().Get("appid"))
		mu.Unlock()
		serveTestdata(t, "current_weather_owm.json")(w, r)
	}, []string{"key-1", "key-2"})

	for i := 0; i < 3; i++ {
		_, err := client.FetchCurrentWeather(context.Background(), "New York", "US")
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"key-1", "key-2", "key-1"}, keysSeen)
}

func TestFetch_NoKeysConfigured(t *testing.T) {
	attempts := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
	}, nil)

	_, err := client.FetchCurrentWeather(context.Background(), "New York", "US")
	assert.ErrorIs(t, err, ErrNoAPIKeys)
	_, err = client.FetchForecast(context.Background(), "New York", "US")
	assert.ErrorIs(t, err, ErrNoAPIKeys)
	assert.Zero(t, attempts, "no request should reach the upstream without keys")
}

func TestFetch_NetworkFailureRotatesKeys(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // every request now fails at the dial

	client := NewOWMClient(server.URL, []string{"key-1", "key-2"}, &http.Client{Timeout: time.Second}, nil, discardLogger())

	_, err := client.FetchCurrentWeather(context.Background(), "New York", "US")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestFetch_MalformedBodyIsAnError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}, []string{"key-1"})

	_, err := client.FetchCurrentWeather(context.Background(), "New York", "US")
	require.Error(t, err)

	_, err = client.FetchForecast(context.Background(), "New York", "US")
	require.Error(t, err)
}

func TestFetchForecast(t *testing.T) {
	client, _ := newTestClient(t, serveTestdata(t, "forecast_owm.json"), []string{"key-1"})

	series, err := client.FetchForecast(context.Background(), "New York", "US")
	require.NoError(t, err)
	assert.Equal(t, "New York", series.CityName)
	assert.Len(t, series.Entries, 4)
}

func TestFetchByCoordinates(t *testing.T) {
	var gotLat, gotLon, gotUnits string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotLat = r.URL.Query().Get("lat")
		gotLon = r.URL.Query().Get("lon")
		gotUnits = r.URL.Query().Get("units")
		serveTestdata(t, "current_weather_owm.json")(w, r)
	}, []string{"key-1"})

	snapshot, err := client.FetchByCoordinates(context.Background(), 40.7143, -74.006)
	require.NoError(t, err)

	assert.Equal(t, "40.7143", gotLat)
	assert.Equal(t, "-74.0060", gotLon)
	assert.Equal(t, UnitsImperial, gotUnits)
	assert.Equal(t, "New York", snapshot.CityName)
}

func TestFetchForecastForDate(t *testing.T) {
	client, _ := newTestClient(t, serveTestdata(t, "forecast_owm.json"), []string{"key-1"})

	// The fixture has two samples on 2025-08-14 UTC and two on 2025-08-15 UTC.
	date := time.Date(2025, 8, 14, 0, 0, 0, 0, time.UTC)
	entries, err := client.FetchForecastForDate(context.Background(), "New York", date, "US")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, entry := range entries {
		y, m, d := entry.Timestamp.UTC().Date()
		assert.Equal(t, 2025, y)
		assert.Equal(t, time.August, m)
		assert.Equal(t, 14, d)
	}
}

func TestFetchForecastForDate_LocalDateEquality(t *testing.T) {
	client, _ := newTestClient(t, serveTestdata(t, "forecast_owm.json"), []string{"key-1"})

	// 2025-08-15 00:00 UTC is still 2025-08-14 in New York; asking for the
	// 14th in that zone must include the samples that cross UTC midnight.
	nyc := time.FixedZone("EDT", -4*60*60)
	date := time.Date(2025, 8, 14, 0, 0, 0, 0, nyc)
	entries, err := client.FetchForecastForDate(context.Background(), "New York", date, "US")
	require.NoError(t, err)
	assert.Len(t, entries, 4)
}

func TestFetchForecastForDate_NoMatches(t *testing.T) {
	client, _ := newTestClient(t, serveTestdata(t, "forecast_owm.json"), []string{"key-1"})

	date := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	entries, err := client.FetchForecastForDate(context.Background(), "New York", date, "US")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestKeyRing_EmptyAndRotation(t *testing.T) {
	empty := newKeyRing(nil)
	_, ok := empty.Pick()
	assert.False(t, ok)
	assert.Zero(t, empty.Len())

	ring := newKeyRing([]string{"a", "", "b"})
	require.Equal(t, 2, ring.Len())
	got := make([]string, 0, 4)
	for i := 0; i < 4; i++ {
		key, ok := ring.Pick()
		require.True(t, ok)
		got = append(got, key)
	}
	assert.Equal(t, []string{"a", "b", "a", "b"}, got)
}

func TestFetchForecastForDate_UpstreamFailure(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}, []string{"key-1"})

	_, err := client.FetchForecastForDate(context.Background(), "New York", time.Now(), "US")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUpstreamUnavailable))
}
