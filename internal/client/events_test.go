package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calcli/pkg/models"
)

func newTestClient(url string) *StoreClient {
	return New(ClientConfig{BaseURL: url})
}

// --- ListEvents ---

func TestListEvents_SendsIdentityHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/events", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "203.0.113.5", r.Header.Get(IdentityHeader))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[{"id":1,"title":"Standup","start":"2024-01-01T09:00:00Z","end":"2024-01-01T09:30:00Z"}]`)
	}))
	defer server.Close()

	events, err := newTestClient(server.URL).ListEvents(context.Background(), "203.0.113.5")
	require.NoError(t, err)

	require.Len(t, events, 1)
	assert.Equal(t, int64(1), events[0].ID)
	assert.Equal(t, "Standup", events[0].Title)
	assert.Equal(t, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), events[0].Start)
	assert.Equal(t, 30*time.Minute, events[0].Duration())
}

func TestListEvents_EmptyIdentityOmitsHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, present := r.Header[http.CanonicalHeaderKey(IdentityHeader)]
		assert.False(t, present)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[]`)
	}))
	defer server.Close()

	events, err := newTestClient(server.URL).ListEvents(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestListEvents_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).ListEvents(context.Background(), "203.0.113.5")
	assert.Error(t, err)
}

// --- CreateEvent ---

func TestCreateEvent_Accepted(t *testing.T) {
	slot := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/events", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body models.Event
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Review", body.Title)
		assert.Equal(t, "Berlin, Berlin, Germany", body.Location)

		body.ID = 42
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		require.NoError(t, json.NewEncoder(w).Encode(body))
	}))
	defer server.Close()

	created, err := newTestClient(server.URL).CreateEvent(context.Background(), models.Event{
		Title:    "Review",
		Start:    slot,
		End:      slot.Add(time.Hour),
		Location: "Berlin, Berlin, Germany",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), created.ID)
	assert.Equal(t, slot, created.Start)
}

func TestCreateEvent_NonAcceptedStatusIsFailure(t *testing.T) {
	// 201 Created is a success for most APIs but not for this contract.
	for _, status := range []int{http.StatusOK, http.StatusCreated, http.StatusBadRequest} {
		t.Run(fmt.Sprint(status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(status)
			}))
			defer server.Close()

			_, err := newTestClient(server.URL).CreateEvent(context.Background(), models.Event{Title: "Review"})
			require.Error(t, err)
			assert.Contains(t, err.Error(), fmt.Sprintf("status %d", status))
		})
	}
}

// --- UpdateEvent ---

func TestUpdateEvent_Accepted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/events/7", r.URL.Path)

		var body models.Event
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Sprint review", body.Title)

		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	err := newTestClient(server.URL).UpdateEvent(context.Background(), models.Event{ID: 7, Title: "Sprint review"})
	assert.NoError(t, err)
}

func TestUpdateEvent_NonAcceptedStatusIsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	err := newTestClient(server.URL).UpdateEvent(context.Background(), models.Event{ID: 7})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 200")
}

// --- DeleteEvent ---

func TestDeleteEvent_OK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/events/7", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	assert.NoError(t, newTestClient(server.URL).DeleteEvent(context.Background(), 7))
}

func TestDeleteEvent_NonOKStatusIsFailure(t *testing.T) {
	for _, status := range []int{http.StatusAccepted, http.StatusNotFound} {
		t.Run(fmt.Sprint(status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(status)
			}))
			defer server.Close()

			err := newTestClient(server.URL).DeleteEvent(context.Background(), 7)
			require.Error(t, err)
			assert.Contains(t, err.Error(), fmt.Sprintf("status %d", status))
		})
	}
}
