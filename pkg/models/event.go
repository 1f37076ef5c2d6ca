package models

import "time"

// Event is a schedulable record held by the remote event store.
// ID is assigned by the store; a zero ID means the event has not been
// persisted yet. Start and End are RFC 3339 timestamps on the wire and
// must satisfy End > Start.
type Event struct {
	ID    int64     `json:"id,omitempty"`
	Title string    `json:"title"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	// Provenance metadata attached at creation time from the resolved
	// identity snapshot. Never re-derived on edit or move.
	IPAddress string `json:"ipAddress,omitempty"`
	Location  string `json:"location,omitempty"`
	Timezone  string `json:"timezone,omitempty"`
}

// Duration returns the event's time span.
func (e Event) Duration() time.Duration {
	return e.End.Sub(e.Start)
}
