package main

import (
	"strings"
	"sync"
)

// This file implements background-media selection: a shared index of which
// asset files exist on the server, and a pure resolver mapping a weather
// condition token plus a night flag to the background asset to render.

type MediaType string

const (
	MediaVideo MediaType = "video"
	MediaGIF   MediaType = "gif"
	MediaImage MediaType = "image"
)

// BackgroundMedia describes the background asset the dashboard should render.
type BackgroundMedia struct {
	Type MediaType `json:"type"`
	Src  string    `json:"src"`
	Ext  string    `json:"ext"`
}

const mediaPathPrefix = "/images/"

// defaultBackground is the fixed fallback used when no condition is known.
var defaultBackground = BackgroundMedia{Type: MediaImage, Src: mediaPathPrefix + "blue-ribbon.jpg", Ext: "jpg"}

// mediaExtensions is the preference order for a resolved asset family:
// video first, then animated loop, then the two static image formats.
var mediaExtensions = []string{"mp4", "gif", "jpg", "png"}

func mediaTypeForExt(ext string) MediaType {
	switch ext {
	case "mp4":
		return MediaVideo
	case "gif":
		return MediaGIF
	default:
		return MediaImage
	}
}

// MediaIndex records which "basename.ext" asset files exist on the asset
// server. It is written by the prober and read by the resolver. Entries that
// were never probed, or whose probe has not resolved yet, read as absent;
// the resolver's static-image fallback makes that safe.
type MediaIndex struct {
	mu      sync.RWMutex
	entries map[string]bool
}

func NewMediaIndex() *MediaIndex {
	return &MediaIndex{entries: make(map[string]bool)}
}

func (ix *MediaIndex) Set(name string, exists bool) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.entries[name] = exists
}

func (ix *MediaIndex) Exists(name string) bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.entries[name]
}

// Len counts recorded entries, present or absent.
func (ix *MediaIndex) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.entries)
}

// MediaResolver maps (condition token, night flag) to a BackgroundMedia.
// The zero dependency on anything but the index keeps it unit-testable.
type MediaResolver struct {
	index *MediaIndex
}

func NewMediaResolver(index *MediaIndex) *MediaResolver {
	return &MediaResolver{index: index}
}

// mediaRule pairs a predicate with the asset family it selects. Rules are
// evaluated in order and the first match wins; later rules are intentionally
// more general fallbacks, so the order is part of the contract.
type mediaRule struct {
	applies func(condition string, night bool) bool
	family  func(condition string, night bool) string
}

func nightVariant(base string) func(string, bool) string {
	return func(_ string, night bool) string {
		if night {
			return "night-" + base
		}
		return base
	}
}

var mediaRules = []mediaRule{
	{
		applies: func(c string, _ bool) bool { return strings.Contains(c, "overcast") },
		family:  nightVariant("overcast"),
	},
	{
		applies: func(c string, _ bool) bool { return c == "scattered clouds" || c == "broken clouds" },
		family:  nightVariant("broken-clouds"),
	},
	{
		applies: func(c string, _ bool) bool { return strings.Contains(c, "thunderstorm") },
		family:  func(string, bool) string { return "thunderstorm" },
	},
	{
		applies: func(c string, night bool) bool { return night && strings.Contains(c, "cloud") },
		family:  func(string, bool) string { return "night-cloudy" },
	},
	{
		applies: func(c string, night bool) bool { return night && c == "clear" },
		family:  func(string, bool) string { return "night-clear" },
	},
	{
		applies: func(c string, night bool) bool { return night && (c == "mist" || c == "drizzle") },
		family:  func(string, bool) string { return "night-mist" },
	},
	{
		applies: func(c string, night bool) bool { return night && (c == "fog" || c == "haze") },
		family:  func(string, bool) string { return "night-fog" },
	},
	{
		applies: func(_ string, night bool) bool { return night },
		family:  func(string, bool) string { return "night" },
	},
	{
		applies: func(c string, _ bool) bool { return c == "mist" },
		family:  func(string, bool) string { return "mist" },
	},
	{
		applies: func(c string, _ bool) bool { return c == "fog" || c == "haze" },
		family:  func(string, bool) string { return "fog" },
	},
	{
		applies: func(string, bool) bool { return true },
		family:  func(c string, _ bool) string { return c },
	},
}

// Resolve picks the background asset for a condition token and night flag.
// An empty condition short-circuits to the fixed default image.
func (r *MediaResolver) Resolve(condition string, night bool) BackgroundMedia {
	condition = conditionToken(condition)
	if condition == "" {
		return defaultBackground
	}

	for _, rule := range mediaRules {
		if rule.applies(condition, night) {
			return r.resolveFamily(rule.family(condition, night))
		}
	}
	return defaultBackground
}

// resolveFamily walks the extension preference list and returns the first
// variant the index marks present. When nothing is marked present it falls
// back to the family's static jpg unconditionally; the rendered element's own
// load-error handler is the last line of defense for a missing file.
func (r *MediaResolver) resolveFamily(name string) BackgroundMedia {
	for _, ext := range mediaExtensions {
		if r.index.Exists(name + "." + ext) {
			return BackgroundMedia{
				Type: mediaTypeForExt(ext),
				Src:  mediaPathPrefix + name + "." + ext,
				Ext:  ext,
			}
		}
	}
	return BackgroundMedia{Type: MediaImage, Src: mediaPathPrefix + name + ".jpg", Ext: "jpg"}
}
