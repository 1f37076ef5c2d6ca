package geo

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(identityURL, geoURL string) *Resolver {
	return NewResolver(identityURL, geoURL, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestNewResolver_Defaults(t *testing.T) {
	snap := newTestResolver("", "").Snapshot()
	assert.Empty(t, snap.IPAddress)
	assert.Equal(t, "UTC", snap.Timezone)
	assert.Equal(t, "unknown", snap.Location)
}

// --- ResolveIdentity ---

func TestResolveIdentity_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"query":"203.0.113.5"}`)
	}))
	defer server.Close()

	r := newTestResolver(server.URL, "")
	r.ResolveIdentity(context.Background())

	assert.Equal(t, "203.0.113.5", r.Snapshot().IPAddress)
}

func TestResolveIdentity_FailureKeepsEmptyAddress(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	r := newTestResolver(server.URL, "")
	r.ResolveIdentity(context.Background())

	assert.Empty(t, r.Snapshot().IPAddress)
}

func TestResolveIdentity_TransportFailureKeepsEmptyAddress(t *testing.T) {
	r := newTestResolver("http://127.0.0.1:1", "")
	r.ResolveIdentity(context.Background())

	assert.Empty(t, r.Snapshot().IPAddress)
}

// --- ResolveLocation ---

func TestResolveLocation_SuccessComposesLocation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":"success","timezone":"Europe/Berlin","city":"Berlin","regionName":"Berlin","country":"Germany"}`)
	}))
	defer server.Close()

	r := newTestResolver("", server.URL)
	r.ResolveLocation(context.Background(), "")

	snap := r.Snapshot()
	assert.Equal(t, "Europe/Berlin", snap.Timezone)
	assert.Equal(t, "Berlin, Berlin, Germany", snap.Location)
}

func TestResolveLocation_ScopedByAddress(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":"success","timezone":"America/New_York","city":"New York","regionName":"New York","country":"United States"}`)
	}))
	defer server.Close()

	r := newTestResolver("", server.URL+"/json")
	r.ResolveLocation(context.Background(), "203.0.113.5")

	require.Equal(t, "/json/203.0.113.5", gotPath)
	assert.Equal(t, "America/New_York", r.Snapshot().Timezone)
}

func TestResolveLocation_NonSuccessStatusKeepsPriorValues(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":"fail","timezone":"Europe/Paris","city":"Paris"}`)
	}))
	defer server.Close()

	r := newTestResolver("", server.URL)
	r.ResolveLocation(context.Background(), "")

	snap := r.Snapshot()
	assert.Equal(t, "UTC", snap.Timezone)
	assert.Equal(t, "unknown", snap.Location)
}

func TestResolveLocation_TransportFailureKeepsPriorValues(t *testing.T) {
	r := newTestResolver("", "http://127.0.0.1:1")
	r.ResolveLocation(context.Background(), "")

	snap := r.Snapshot()
	assert.Equal(t, "UTC", snap.Timezone)
	assert.Equal(t, "unknown", snap.Location)
}
