package main

import "time"

// Unit systems understood by the upstream weather provider. The system is
// derived from a country code, never chosen by callers (see unitsForCountry).
const (
	UnitsMetric   = "metric"
	UnitsImperial = "imperial"
)

// WeatherSnapshot is a single observation of current conditions at a location.
// It is immutable once parsed and replaced wholesale on each new search.
type WeatherSnapshot struct {
	CityName    string
	CountryCode string
	Timestamp   time.Time
	Temperature float64
	FeelsLike   float64
	TempMin     float64
	TempMax     float64
	Humidity    int32
	Pressure    int32
	Wind        Wind
	CloudCover  int32
	Visibility  int32
	Sunrise     time.Time
	Sunset      time.Time
	Condition   string
	Description string
	Icon        string
	Rain        Precipitation
	Snow        Precipitation
	Units       string
}

type Wind struct {
	Speed float64
	Deg   int32
	Gust  float64
}

// Precipitation holds accumulated volume over the trailing one and three
// hour windows. Zero values mean "none reported".
type Precipitation struct {
	OneHour    float64
	ThreeHours float64
}

// ForecastEntry is one 3-hour forecast sample.
type ForecastEntry struct {
	Timestamp    time.Time
	Temperature  float64
	FeelsLike    float64
	TempMin      float64
	TempMax      float64
	Humidity     int32
	WindSpeed    float64
	Condition    string
	Description  string
	Icon         string
	PrecipChance float64
}

// ForecastSeries is the ordered 5-day/3-hour forecast for a location.
// Entries are sorted chronologically by timestamp.
type ForecastSeries struct {
	CityName    string
	CountryCode string
	Units       string
	Entries     []ForecastEntry
}

// The ...JSON structs below are the wire shapes served to the dashboard.
// Timestamps are pre-formatted so the presentation layer never does date math.

type CurrentWeatherJSON struct {
	Location    string  `json:"location"`
	Timestamp   string  `json:"timestamp"`
	Temperature float64 `json:"temperature"`
	FeelsLike   float64 `json:"feels_like"`
	TempMin     float64 `json:"temp_min"`
	TempMax     float64 `json:"temp_max"`
	Humidity    int32   `json:"humidity"`
	Pressure    int32   `json:"pressure"`
	WindSpeed   float64 `json:"wind_speed"`
	WindDeg     int32   `json:"wind_deg"`
	WindGust    float64 `json:"wind_gust,omitempty"`
	CloudCover  int32   `json:"cloud_cover"`
	Visibility  int32   `json:"visibility"`
	Sunrise     string  `json:"sunrise"`
	Sunset      string  `json:"sunset"`
	Condition   string  `json:"condition"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
	Units       string  `json:"units"`
	Night       bool    `json:"night"`
}

type ForecastEntryJSON struct {
	Timestamp    string  `json:"timestamp"`
	Temperature  float64 `json:"temperature"`
	Humidity     int32   `json:"humidity"`
	WindSpeed    float64 `json:"wind_speed"`
	Condition    string  `json:"condition"`
	Description  string  `json:"description"`
	Icon         string  `json:"icon"`
	PrecipChance float64 `json:"precip_chance"`
}

type ForecastDayJSON struct {
	Date    string              `json:"date"`
	High    float64             `json:"high"`
	Low     float64             `json:"low"`
	Entries []ForecastEntryJSON `json:"entries"`
}

type StateResponse struct {
	Location   string              `json:"location"`
	FirstLoad  bool                `json:"first_load"`
	Background BackgroundMedia     `json:"background"`
	Weather    *CurrentWeatherJSON `json:"weather,omitempty"`
	Forecast   []ForecastDayJSON   `json:"forecast,omitempty"`
}

type ConfigResponse struct {
	DevMode         bool   `json:"dev_mode"`
	RefreshInterval string `json:"refresh_interval"`
	ProbedAssets    int    `json:"probed_assets"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
