// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/jeranaias/mealplan-tui/internal/api"
	"github.com/jeranaias/mealplan-tui/internal/config"
)

// =============================================================================
// LOCATION RESOLVER
// =============================================================================

const (
	// locationTimeout bounds the position lookup plus the report request.
	locationTimeout = 10 * time.Second

	// positionCacheTTL is how long a resolved position stays fresh.
	positionCacheTTL = 5 * time.Minute
)

// ErrNoPosition indicates no position source is available.
var ErrNoPosition = errors.New("no position available")

// Position is a resolved latitude/longitude pair.
type Position struct {
	Lat float64
	Lng float64
}

// Resolver produces the current position. A terminal has no positioning
// hardware, so the position comes from configuration (which the MEALPLAN_GEO
// environment hint can override); resolved values are cached for five
// minutes, matching the maximum-age a browser client would use.
type Resolver struct {
	mu        sync.Mutex
	cfg       *config.Config
	cached    *Position
	fetchedAt time.Time
}

// NewResolver creates a Resolver over the loaded configuration.
func NewResolver(cfg *config.Config) *Resolver {
	return &Resolver{cfg: cfg}
}

// Current returns the position, from cache when fresh.
func (r *Resolver) Current(ctx context.Context) (Position, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cached != nil && time.Since(r.fetchedAt) < positionCacheTTL {
		return *r.cached, nil
	}

	if err := ctx.Err(); err != nil {
		return Position{}, err
	}

	loc := r.cfg.Location
	if !loc.Enabled || (loc.Lat == 0 && loc.Lng == 0) {
		return Position{}, ErrNoPosition
	}

	pos := Position{Lat: loc.Lat, Lng: loc.Lng}
	r.cached = &pos
	r.fetchedAt = time.Now()
	return pos, nil
}

// =============================================================================
// ONE-SHOT REPORT
// =============================================================================

// ReportLocation resolves the position and posts it for the given thread,
// once, at startup. Every failure path is logged and swallowed: the report
// is never retried and never surfaced to the user.
func ReportLocation(resolver *Resolver, client *api.Client, threadID string) {
	ctx, cancel := context.WithTimeout(context.Background(), locationTimeout)
	defer cancel()

	pos, err := resolver.Current(ctx)
	if err != nil {
		log.Printf("session: location unavailable: %v", err)
		return
	}

	report := api.LocationReport{
		ThreadID: threadID,
		Lat:      pos.Lat,
		Lng:      pos.Lng,
		RadiusM:  resolver.cfg.Location.RadiusM,
	}
	if err := client.ReportLocation(ctx, report); err != nil {
		log.Printf("session: location report failed: %v", err)
	}
}
