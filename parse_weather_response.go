package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// This file parses the upstream provider's JSON payloads into the domain
// types. The response structs mirror only the fields the dashboard consumes.

type owmConditionJSON struct {
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type owmMainJSON struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	TempMin   float64 `json:"temp_min"`
	TempMax   float64 `json:"temp_max"`
	Pressure  int32   `json:"pressure"`
	Humidity  int32   `json:"humidity"`
}

type owmWindJSON struct {
	Speed float64 `json:"speed"`
	Deg   int32   `json:"deg"`
	Gust  float64 `json:"gust"`
}

type owmVolumeJSON struct {
	OneHour    float64 `json:"1h"`
	ThreeHours float64 `json:"3h"`
}

type owmCurrentResponse struct {
	Weather    []owmConditionJSON `json:"weather"`
	Main       owmMainJSON        `json:"main"`
	Visibility int32              `json:"visibility"`
	Wind       owmWindJSON        `json:"wind"`
	Clouds     struct {
		All int32 `json:"all"`
	} `json:"clouds"`
	Rain owmVolumeJSON `json:"rain"`
	Snow owmVolumeJSON `json:"snow"`
	Dt   int64         `json:"dt"`
	Sys  struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
	Name string `json:"name"`
}

type owmForecastResponse struct {
	List []struct {
		Dt      int64              `json:"dt"`
		Main    owmMainJSON        `json:"main"`
		Weather []owmConditionJSON `json:"weather"`
		Wind    owmWindJSON        `json:"wind"`
		Pop     float64            `json:"pop"`
	} `json:"list"`
	City struct {
		Name    string `json:"name"`
		Country string `json:"country"`
	} `json:"city"`
}

func parseCurrentWeather(body []byte, units string) (WeatherSnapshot, error) {
	var response owmCurrentResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return WeatherSnapshot{}, err
	}
	if len(response.Weather) == 0 {
		return WeatherSnapshot{}, fmt.Errorf("response carries no weather condition")
	}

	snapshot := WeatherSnapshot{
		CityName:    response.Name,
		CountryCode: response.Sys.Country,
		Timestamp:   time.Unix(response.Dt, 0).UTC(),
		Temperature: response.Main.Temp,
		FeelsLike:   response.Main.FeelsLike,
		TempMin:     response.Main.TempMin,
		TempMax:     response.Main.TempMax,
		Humidity:    response.Main.Humidity,
		Pressure:    response.Main.Pressure,
		Wind: Wind{
			Speed: response.Wind.Speed,
			Deg:   response.Wind.Deg,
			Gust:  response.Wind.Gust,
		},
		CloudCover:  response.Clouds.All,
		Visibility:  response.Visibility,
		Sunrise:     time.Unix(response.Sys.Sunrise, 0).UTC(),
		Sunset:      time.Unix(response.Sys.Sunset, 0).UTC(),
		Condition:   response.Weather[0].Main,
		Description: response.Weather[0].Description,
		Icon:        response.Weather[0].Icon,
		Rain: Precipitation{
			OneHour:    response.Rain.OneHour,
			ThreeHours: response.Rain.ThreeHours,
		},
		Snow: Precipitation{
			OneHour:    response.Snow.OneHour,
			ThreeHours: response.Snow.ThreeHours,
		},
		Units: units,
	}

	return snapshot, nil
}

func parseForecast(body []byte, units string) (ForecastSeries, error) {
	var response owmForecastResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return ForecastSeries{}, err
	}

	series := ForecastSeries{
		CityName:    response.City.Name,
		CountryCode: response.City.Country,
		Units:       units,
		Entries:     make([]ForecastEntry, 0, len(response.List)),
	}

	for _, item := range response.List {
		entry := ForecastEntry{
			Timestamp:    time.Unix(item.Dt, 0).UTC(),
			Temperature:  item.Main.Temp,
			FeelsLike:    item.Main.FeelsLike,
			TempMin:      item.Main.TempMin,
			TempMax:      item.Main.TempMax,
			Humidity:     item.Main.Humidity,
			WindSpeed:    item.Wind.Speed,
			PrecipChance: item.Pop,
		}
		if len(item.Weather) > 0 {
			entry.Condition = item.Weather[0].Main
			entry.Description = item.Weather[0].Description
			entry.Icon = item.Weather[0].Icon
		}
		series.Entries = append(series.Entries, entry)
	}

	// Upstream delivers samples in order, but the chronological invariant is
	// load-bearing for day bucketing, so enforce it rather than trust it.
	sort.Slice(series.Entries, func(i, j int) bool {
		return series.Entries[i].Timestamp.Before(series.Entries[j].Timestamp)
	})

	return series, nil
}
