package main

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// This file classifies raw location input into the three query shapes the
// upstream weather API understands: a free-text place name, a "lat,lon"
// coordinate pair, or a "zipcode,country" pair. Callers never declare the
// shape; the client pattern-matches the input itself.

// PlaceSuggestion is a resolved autocomplete/geocode result. It carries
// display metadata alongside coordinates so the dashboard can show
// "Springfield, Missouri, US" while the fetch itself goes by coordinate pair.
type PlaceSuggestion struct {
	Name    string  `json:"name"`
	State   string  `json:"state,omitempty"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

var (
	zipPattern   = regexp.MustCompile(`^(\d{5})(?:,\s*([a-zA-Z]{2}))?$`)
	coordPattern = regexp.MustCompile(`^(-?\d+(?:\.\d+)?),\s*(-?\d+(?:\.\d+)?)$`)
)

// setLocationParams inspects the raw query and sets the matching upstream
// query parameter: "zip" for a 5-digit postal code (bound to a country,
// defaulting to US), "lat"/"lon" for a coordinate pair, or "q" for anything
// else. This is the single place where query-shape dispatch happens.
func setLocationParams(params url.Values, query string) {
	query = strings.TrimSpace(query)

	if m := zipPattern.FindStringSubmatch(query); m != nil {
		country := "us"
		if m[2] != "" {
			country = strings.ToLower(m[2])
		}
		params.Set("zip", m[1]+","+country)
		return
	}

	if m := coordPattern.FindStringSubmatch(query); m != nil {
		if _, latErr := strconv.ParseFloat(m[1], 64); latErr == nil {
			if _, lonErr := strconv.ParseFloat(m[2], 64); lonErr == nil {
				params.Set("lat", m[1])
				params.Set("lon", m[2])
				return
			}
		}
	}

	params.Set("q", query)
}

// isZipQuery reports whether the raw search term is a bare 5-digit postal
// code. The store uses this to bind such queries to the US before dispatch.
func isZipQuery(query string) bool {
	m := zipPattern.FindStringSubmatch(strings.TrimSpace(query))
	return m != nil && m[2] == ""
}

// europeanCountries holds the ISO 3166-1 alpha-2 codes of the Europe region.
// Locations in these countries get metric units; everywhere else gets imperial.
var europeanCountries = map[string]bool{
	"AD": true, "AL": true, "AT": true, "BA": true, "BE": true, "BG": true,
	"BY": true, "CH": true, "CY": true, "CZ": true, "DE": true, "DK": true,
	"EE": true, "ES": true, "FI": true, "FO": true, "FR": true, "GB": true,
	"GI": true, "GR": true, "HR": true, "HU": true, "IE": true, "IS": true,
	"IT": true, "LI": true, "LT": true, "LU": true, "LV": true, "MC": true,
	"MD": true, "ME": true, "MK": true, "MT": true, "NL": true, "NO": true,
	"PL": true, "PT": true, "RO": true, "RS": true, "RU": true, "SE": true,
	"SI": true, "SK": true, "SM": true, "UA": true, "VA": true, "XK": true,
}

// unitsForCountry derives the unit system from a country hint. The table is
// fixed and not caller-overridable; an empty or unknown hint means imperial.
func unitsForCountry(countryCode string) string {
	if europeanCountries[strings.ToUpper(strings.TrimSpace(countryCode))] {
		return UnitsMetric
	}
	return UnitsImperial
}
