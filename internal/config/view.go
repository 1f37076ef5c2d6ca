package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// viewKey is the persisted entry holding the last-selected calendar
// display mode. It survives across sessions independently of the event
// collection.
const viewKey = "calendar_view"

// DefaultView is used when no preference has been persisted yet.
const DefaultView = "month"

var validViews = map[string]bool{
	"month":  true,
	"week":   true,
	"day":    true,
	"agenda": true,
}

// ViewStore is a key-value persistence surface for the display mode,
// kept small so the core stays testable without a real config file.
type ViewStore interface {
	Get(key string) string
	Set(key, value string) error
}

// ViperStore persists through the process-wide viper configuration.
type ViperStore struct {
	get  func(string) string
	set  func(string, interface{})
	save func() error
}

func NewViperStore() *ViperStore {
	return &ViperStore{
		get:  viper.GetString,
		set:  viper.Set,
		save: save,
	}
}

func (s *ViperStore) Get(key string) string { return s.get(key) }

func (s *ViperStore) Set(key, value string) error {
	s.set(key, value)
	return s.save()
}

// ViewPreference reads the persisted display mode, falling back to the
// default when absent or unrecognized.
func ViewPreference(store ViewStore) string {
	v := store.Get(viewKey)
	if !validViews[v] {
		return DefaultView
	}
	return v
}

// SaveViewPreference validates and persists the display mode.
func SaveViewPreference(store ViewStore, view string) error {
	if !validViews[view] {
		return fmt.Errorf("unknown view %q (expected month, week, day, or agenda)", view)
	}
	return store.Set(viewKey, view)
}
