package main

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"
)

// This file contains the HTTP handlers consumed by the dashboard. Each
// handler validates the request, delegates to the store, resolver or weather
// client, and writes a JSON response. A failed search deliberately returns
// the previous (stale but valid) state rather than an error screen; the
// status code tells the presentation layer whether anything changed.

// handlerSearch runs a search and responds with the resulting application
// state. The location comes from either a free-text "q" parameter, a
// "lat"/"lon" pair, or a JSON place suggestion in the "place" parameter.
func (cfg *appConfig) handlerSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		cfg.respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed", nil)
		return
	}
	ctx := r.Context()

	var err error
	switch {
	case r.URL.Query().Get("place") != "":
		var place PlaceSuggestion
		if jsonErr := json.Unmarshal([]byte(r.URL.Query().Get("place")), &place); jsonErr != nil {
			cfg.respondWithError(w, http.StatusBadRequest, "Invalid place parameter", jsonErr)
			return
		}
		err = cfg.store.SearchPlace(ctx, place)
	case r.URL.Query().Get("lat") != "" && r.URL.Query().Get("lon") != "":
		lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
		lon, lonErr := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
		if latErr != nil || lonErr != nil {
			cfg.respondWithError(w, http.StatusBadRequest, "Invalid coordinates", nil)
			return
		}
		err = cfg.store.SearchCoordinates(ctx, lat, lon)
	case r.URL.Query().Get("q") != "":
		err = cfg.store.Search(ctx, r.URL.Query().Get("q"))
	default:
		cfg.respondWithError(w, http.StatusBadRequest, "Either q, lat/lon or place is required", nil)
		return
	}

	if err != nil {
		// Previous state stays in place; tell the client nothing changed.
		cfg.respondWithJSON(w, http.StatusBadGateway, cfg.stateResponse())
		return
	}
	cfg.respondWithJSON(w, http.StatusOK, cfg.stateResponse())
}

// handlerState returns the current application state without side effects.
func (cfg *appConfig) handlerState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		cfg.respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed", nil)
		return
	}
	cfg.respondWithJSON(w, http.StatusOK, cfg.stateResponse())
}

// handlerBackground resolves a background descriptor for an arbitrary
// condition and night flag. Forecast day cards use this with night=false,
// since they are not tied to a live clock.
func (cfg *appConfig) handlerBackground(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		cfg.respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed", nil)
		return
	}

	condition := r.URL.Query().Get("condition")
	night, _ := strconv.ParseBool(r.URL.Query().Get("night"))
	cfg.respondWithJSON(w, http.StatusOK, cfg.resolver.Resolve(condition, night))
}

// handlerForecastDay returns the forecast entries for one calendar date at a
// location, for rendering a single day card in detail.
func (cfg *appConfig) handlerForecastDay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		cfg.respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed", nil)
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		cfg.respondWithError(w, http.StatusBadRequest, "q parameter is required", nil)
		return
	}
	date, err := time.ParseInLocation("2006-01-02", r.URL.Query().Get("date"), time.Local)
	if err != nil {
		cfg.respondWithError(w, http.StatusBadRequest, "date must be YYYY-MM-DD", err)
		return
	}

	entries, err := cfg.weatherAPI.FetchForecastForDate(r.Context(), query, date, r.URL.Query().Get("country"))
	if err != nil {
		cfg.respondWithError(w, http.StatusBadGateway, "Error getting forecast data", err)
		return
	}

	entriesJSON := make([]ForecastEntryJSON, len(entries))
	for i, entry := range entries {
		entriesJSON[i] = forecastEntryToJSON(entry)
	}
	cfg.respondWithJSON(w, http.StatusOK, entriesJSON)
}

// handlerConfig provides the dashboard with runtime configuration details.
func (cfg *appConfig) handlerConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		cfg.respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed", nil)
		return
	}

	cfg.respondWithJSON(w, http.StatusOK, ConfigResponse{
		DevMode:         cfg.devMode,
		RefreshInterval: cfg.refreshInterval.String(),
		ProbedAssets:    cfg.index.Len(),
	})
}

// stateResponse shapes the store's state into the dashboard's wire format:
// formatted timestamps, a derived night flag, and the forecast grouped into
// day buckets with per-day high/low temperatures.
func (cfg *appConfig) stateResponse() StateResponse {
	st := cfg.store.State()

	response := StateResponse{
		Location:   st.Location,
		FirstLoad:  st.FirstLoad,
		Background: st.Background,
	}

	if st.Weather != nil {
		w := st.Weather
		response.Weather = &CurrentWeatherJSON{
			Location:    st.Location,
			Timestamp:   w.Timestamp.Format("2006-01-02 15:04"),
			Temperature: w.Temperature,
			FeelsLike:   w.FeelsLike,
			TempMin:     w.TempMin,
			TempMax:     w.TempMax,
			Humidity:    w.Humidity,
			Pressure:    w.Pressure,
			WindSpeed:   w.Wind.Speed,
			WindDeg:     w.Wind.Deg,
			WindGust:    w.Wind.Gust,
			CloudCover:  w.CloudCover,
			Visibility:  w.Visibility,
			Sunrise:     w.Sunrise.Format("15:04"),
			Sunset:      w.Sunset.Format("15:04"),
			Condition:   w.Condition,
			Description: w.Description,
			Icon:        w.Icon,
			Units:       w.Units,
			Night:       isNight(*w),
		}
	}

	if st.Forecast != nil {
		for _, bucket := range dayBuckets(st.Forecast.Entries, samplesPerDay) {
			high, low := highLow(bucket)
			day := ForecastDayJSON{
				Date:    bucket[0].Timestamp.Format("2006-01-02"),
				High:    high,
				Low:     low,
				Entries: make([]ForecastEntryJSON, len(bucket)),
			}
			for i, entry := range bucket {
				day.Entries[i] = forecastEntryToJSON(entry)
			}
			response.Forecast = append(response.Forecast, day)
		}
	}

	return response
}

func forecastEntryToJSON(entry ForecastEntry) ForecastEntryJSON {
	return ForecastEntryJSON{
		Timestamp:    entry.Timestamp.Format("2006-01-02 15:04"),
		Temperature:  entry.Temperature,
		Humidity:     entry.Humidity,
		WindSpeed:    entry.WindSpeed,
		Condition:    entry.Condition,
		Description:  entry.Description,
		Icon:         entry.Icon,
		PrecipChance: entry.PrecipChance,
	}
}
