package main

import (
	"context"
	"errors"
	"time"
)

// --- Mocks ---

// mockWeatherAPI is a mock for the WeatherAPI interface.
type mockWeatherAPI struct {
	FetchCurrentWeatherFunc  func(ctx context.Context, query, countryHint string) (WeatherSnapshot, error)
	FetchForecastFunc        func(ctx context.Context, query, countryHint string) (ForecastSeries, error)
	FetchByCoordinatesFunc   func(ctx context.Context, lat, lon float64) (WeatherSnapshot, error)
	FetchForecastForDateFunc func(ctx context.Context, query string, date time.Time, countryHint string) ([]ForecastEntry, error)
}

func (m *mockWeatherAPI) FetchCurrentWeather(ctx context.Context, query, countryHint string) (WeatherSnapshot, error) {
	if m.FetchCurrentWeatherFunc != nil {
		return m.FetchCurrentWeatherFunc(ctx, query, countryHint)
	}
	return WeatherSnapshot{}, errors.New("FetchCurrentWeatherFunc not implemented in mock")
}

func (m *mockWeatherAPI) FetchForecast(ctx context.Context, query, countryHint string) (ForecastSeries, error) {
	if m.FetchForecastFunc != nil {
		return m.FetchForecastFunc(ctx, query, countryHint)
	}
	return ForecastSeries{}, errors.New("FetchForecastFunc not implemented in mock")
}

func (m *mockWeatherAPI) FetchByCoordinates(ctx context.Context, lat, lon float64) (WeatherSnapshot, error) {
	if m.FetchByCoordinatesFunc != nil {
		return m.FetchByCoordinatesFunc(ctx, lat, lon)
	}
	return WeatherSnapshot{}, errors.New("FetchByCoordinatesFunc not implemented in mock")
}

func (m *mockWeatherAPI) FetchForecastForDate(ctx context.Context, query string, date time.Time, countryHint string) ([]ForecastEntry, error) {
	if m.FetchForecastForDateFunc != nil {
		return m.FetchForecastForDateFunc(ctx, query, date, countryHint)
	}
	return nil, errors.New("FetchForecastForDateFunc not implemented in mock")
}

// testSnapshot builds a daytime snapshot with sane defaults for store tests.
func testSnapshot(city, country, condition string) WeatherSnapshot {
	observed := time.Date(2025, 8, 14, 16, 0, 0, 0, time.UTC)
	return WeatherSnapshot{
		CityName:    city,
		CountryCode: country,
		Timestamp:   observed,
		Temperature: 78.6,
		Sunrise:     observed.Add(-6 * time.Hour),
		Sunset:      observed.Add(4 * time.Hour),
		Condition:   condition,
		Description: condition,
		Units:       UnitsImperial,
	}
}

// testSeries builds a forecast series of n 3-hour samples.
func testSeries(city, country string, n int) ForecastSeries {
	start := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)
	series := ForecastSeries{CityName: city, CountryCode: country, Units: UnitsImperial}
	for i := 0; i < n; i++ {
		series.Entries = append(series.Entries, ForecastEntry{
			Timestamp:   start.Add(time.Duration(i) * 3 * time.Hour),
			Temperature: 60 + float64(i%8),
			Condition:   "Clear",
		})
	}
	return series
}
