package main

import (
	"context"
	"log/slog"
	"time"
)

// Refresher re-runs the last committed search on a fixed interval so the
// current-conditions panel stays live without user interaction. Before the
// first successful search a tick is a no-op.
type Refresher struct {
	store      *Store
	logger     *slog.Logger
	ticker     *time.Ticker
	stop       chan struct{}
	refreshJob func()
}

func NewRefresher(store *Store, interval time.Duration, logger *slog.Logger) *Refresher {
	r := &Refresher{
		store:  store,
		logger: logger,
		ticker: time.NewTicker(interval),
		stop:   make(chan struct{}),
	}
	r.refreshJob = r.runRefresh
	return r
}

func (r *Refresher) Start() {
	go func() {
		for {
			select {
			case <-r.ticker.C:
				r.refreshJob()
			case <-r.stop:
				r.ticker.Stop()
				return
			}
		}
	}()
}

func (r *Refresher) Stop() {
	close(r.stop)
}

func (r *Refresher) runRefresh() {
	if err := r.store.Refresh(context.Background()); err != nil {
		r.logger.Warn("scheduled refresh failed", "error", err)
		return
	}
	r.logger.Debug("scheduled refresh completed")
}
