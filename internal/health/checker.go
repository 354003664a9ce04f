package health

import (
	"context"
	"log/slog"
	"time"

	"github.com/fairooz-nawal/Job-Application-Tracker/internal/metrics"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Checker probes the store on an interval and publishes the result to the
// health server and the store_up gauge.
type Checker struct {
	store    Pinger
	server   *Server
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger
}

func NewChecker(store Pinger, server *Server, interval time.Duration, logger *slog.Logger) *Checker {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &Checker{
		store:    store,
		server:   server,
		interval: interval,
		timeout:  2 * time.Second,
		logger:   logger.With("component", "health-checker"),
	}
}

// Check runs one probe and reports whether the store answered.
func (c *Checker) Check(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	err := c.store.Ping(ctx)
	serving := err == nil
	if err != nil {
		c.logger.Warn("store ping failed", "error", err)
		metrics.StoreUp.Set(0)
	} else {
		metrics.StoreUp.Set(1)
	}
	c.server.SetServing(serving)
	return serving
}

// Run probes immediately and then on every tick until ctx is done.
func (c *Checker) Run(ctx context.Context) {
	c.Check(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Check(ctx)
		}
	}
}
