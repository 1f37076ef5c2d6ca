// Package geo resolves the caller's public network identity and an
// approximate location derived from it. Both lookups are best-effort:
// on any failure the snapshot keeps its previous values and only a
// diagnostic is logged.
package geo

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-resty/resty/v2"

	"calcli/pkg/models"
)

// Defaults used until (or unless) resolution succeeds.
const (
	DefaultTimezone = "UTC"
	DefaultLocation = "unknown"
)

// Snapshot is the resolved identity and location for this session.
type Snapshot struct {
	IPAddress string
	Timezone  string
	Location  string
}

// Resolver queries the identity and geolocation services and owns the
// session snapshot. Safe for concurrent use; location resolution is
// expected to run in the background while the identity lookup gates the
// first event fetch.
type Resolver struct {
	HTTP        *resty.Client
	identityURL string
	geoURL      string
	logger      *slog.Logger

	mu   sync.RWMutex
	snap Snapshot
}

func NewResolver(identityURL, geoURL string, logger *slog.Logger) *Resolver {
	return &Resolver{
		HTTP:        resty.New().SetHeader("Accept", "application/json"),
		identityURL: identityURL,
		geoURL:      geoURL,
		logger:      logger,
		snap: Snapshot{
			Timezone: DefaultTimezone,
			Location: DefaultLocation,
		},
	}
}

// Snapshot returns a copy of the current identity/location values.
func (r *Resolver) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snap
}

// ResolveIdentity looks up the caller's public address. Failures are
// logged and the snapshot keeps its empty address; no retry.
func (r *Resolver) ResolveIdentity(ctx context.Context) {
	var out models.IdentityResponse

	resp, err := r.HTTP.R().
		SetContext(ctx).
		SetResult(&out).
		Get(r.identityURL)

	if err != nil {
		r.logger.Error("identity lookup failed", "error", err)
		return
	}
	if resp.IsError() || out.Query == "" {
		r.logger.Error("identity lookup returned no address", "status", resp.StatusCode())
		return
	}

	r.mu.Lock()
	r.snap.IPAddress = out.Query
	r.mu.Unlock()
}

// ResolveLocation looks up timezone and location, optionally scoped to
// a specific address. Only a response with status "success" updates the
// snapshot; anything else leaves the prior values in place.
func (r *Resolver) ResolveLocation(ctx context.Context, addr string) {
	url := r.geoURL
	if addr != "" {
		url += "/" + addr
	}

	var out models.GeoResponse

	resp, err := r.HTTP.R().
		SetContext(ctx).
		SetResult(&out).
		Get(url)

	if err != nil {
		r.logger.Error("location lookup failed", "error", err)
		return
	}
	if resp.IsError() || out.Status != "success" {
		r.logger.Error("location lookup unsuccessful", "status", out.Status)
		return
	}

	r.mu.Lock()
	r.snap.Timezone = out.Timezone
	r.snap.Location = fmt.Sprintf("%s, %s, %s", out.City, out.RegionName, out.Country)
	r.mu.Unlock()
}
