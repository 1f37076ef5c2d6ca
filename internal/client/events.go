package client

import (
	"context"
	"fmt"
	"net/http"

	"calcli/pkg/models"
)

// ListEvents fetches every event scoped to the given identity address.
// The address travels in the X-Client-IP header; an empty address sends
// no header and the store falls back to its own scoping.
func (c *StoreClient) ListEvents(ctx context.Context, identity string) ([]models.Event, error) {
	var events []models.Event

	req := c.HTTP.R().
		SetContext(ctx).
		SetResult(&events)

	if identity != "" {
		req.SetHeader(IdentityHeader, identity)
	}

	resp, err := req.Get("/events")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to list events: %s", resp.String())
	}

	return events, nil
}

// CreateEvent submits a candidate event. The store signals acceptance
// with 202 Accepted and returns the created record carrying the assigned
// identifier; any other status is a failure.
func (c *StoreClient) CreateEvent(ctx context.Context, ev models.Event) (models.Event, error) {
	var created models.Event

	resp, err := c.HTTP.R().
		SetContext(ctx).
		SetBody(ev).
		SetResult(&created).
		Post("/events")

	if err != nil {
		return models.Event{}, err
	}
	if resp.StatusCode() != http.StatusAccepted {
		return models.Event{}, fmt.Errorf("create rejected with status %d: %s", resp.StatusCode(), resp.String())
	}

	return created, nil
}

// UpdateEvent replaces the stored record addressed by ev.ID with the
// full updated record. Only 202 Accepted counts as success.
func (c *StoreClient) UpdateEvent(ctx context.Context, ev models.Event) error {
	resp, err := c.HTTP.R().
		SetContext(ctx).
		SetBody(ev).
		Put(fmt.Sprintf("/events/%d", ev.ID))

	if err != nil {
		return err
	}
	if resp.StatusCode() != http.StatusAccepted {
		return fmt.Errorf("update of event %d rejected with status %d: %s", ev.ID, resp.StatusCode(), resp.String())
	}

	return nil
}

// DeleteEvent removes the stored record by identifier. Only 200 OK
// counts as success.
func (c *StoreClient) DeleteEvent(ctx context.Context, id int64) error {
	resp, err := c.HTTP.R().
		SetContext(ctx).
		Delete(fmt.Sprintf("/events/%d", id))

	if err != nil {
		return err
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("delete of event %d rejected with status %d: %s", id, resp.StatusCode(), resp.String())
	}

	return nil
}
