package main

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

// This file implements the media existence prober. At application startup it
// issues lightweight HEAD requests for every condition/extension combination
// in the catalog and records which files the asset server actually has. The
// resolver consults those results; anything still unprobed reads as absent,
// which degrades to the static-image fallback rather than blocking anything.

// mediaCatalog is the fixed set of asset basenames worth probing: every
// condition token the resolver can emit plus its day/night variants.
var mediaCatalog = []string{
	"clear", "clouds", "cloudy", "cloud", "snow", "rain", "drizzle",
	"thunderstorm", "overcast", "broken-clouds", "mist", "fog", "haze",
	"night-clear", "night-clouds", "night-cloudy", "night-cloud", "night-snow",
	"night-rain", "night-drizzle", "night-thunderstorm", "night-overcast",
	"night-broken-clouds", "night-mist", "night-fog", "night",
}

// MediaProber populates a MediaIndex by probing the asset server once per
// process lifetime. Run is fire-and-forget; Done lets tests (and anything
// else that cares) await settlement instead of racing timers.
type MediaProber struct {
	index      *MediaIndex
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
	once       sync.Once
	done       chan struct{}
}

func NewMediaProber(index *MediaIndex, baseURL string, httpClient *http.Client, limiter *rate.Limiter, logger *slog.Logger) *MediaProber {
	return &MediaProber{
		index:      index,
		baseURL:    baseURL,
		httpClient: httpClient,
		limiter:    limiter,
		logger:     logger,
		done:       make(chan struct{}),
	}
}

// Run starts probing in the background and returns immediately. Calling it
// again after the first invocation is a no-op: the catalog is probed exactly
// once per session.
func (p *MediaProber) Run(ctx context.Context) {
	p.once.Do(func() {
		go p.probeAll(ctx)
	})
}

// Done is closed once every probe in the catalog has resolved.
func (p *MediaProber) Done() <-chan struct{} {
	return p.done
}

func (p *MediaProber) probeAll(ctx context.Context) {
	defer close(p.done)

	var wg sync.WaitGroup
	for _, name := range mediaCatalog {
		for _, ext := range mediaExtensions {
			asset := name + "." + ext
			wg.Add(1)
			go func() {
				defer wg.Done()
				p.probe(ctx, asset)
			}()
		}
	}
	wg.Wait()

	p.logger.Info("media probe finished", "probed", p.index.Len())
}

// probe records whether a single asset exists. Any failure, local or remote,
// just marks the asset absent; probing never surfaces errors.
func (p *MediaProber) probe(ctx context.Context, asset string) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			p.index.Set(asset, false)
			return
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.baseURL+mediaPathPrefix+asset, nil)
	if err != nil {
		p.index.Set(asset, false)
		return
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		mediaProbesTotal.WithLabelValues("error").Inc()
		p.index.Set(asset, false)
		return
	}
	resp.Body.Close()

	exists := resp.StatusCode >= 200 && resp.StatusCode < 300
	if exists {
		mediaProbesTotal.WithLabelValues("present").Inc()
	} else {
		mediaProbesTotal.WithLabelValues("absent").Inc()
	}
	p.index.Set(asset, exists)
}
