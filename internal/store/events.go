package store

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/tartampluch/go-monthcal/internal/config"
)

// ErrIndexOutOfRange is returned when an update or removal targets a missing event.
var ErrIndexOutOfRange = errors.New(config.ErrIndexRange)

// Events maps a DateKey to the ordered event texts of that day.
// An empty list and a missing key both mean "no events".
type Events map[string][]string

// DateKey returns the canonical YYYY-MM-DD key of t's calendar day.
func DateKey(t time.Time) string {
	return t.Format(config.DateKeyLayout)
}

// Get returns the events of key (nil when there are none).
func (m Events) Get(key string) []string {
	return m[key]
}

// Has reports whether key has at least one event.
func (m Events) Has(key string) bool {
	return len(m[key]) > 0
}

// Count returns the total number of events across all days.
func (m Events) Count() int {
	n := 0
	for _, list := range m {
		n += len(list)
	}
	return n
}

// Clone returns a deep copy, so callers never share list backing arrays.
func (m Events) Clone() Events {
	out := make(Events, len(m))
	for k, list := range m {
		out[k] = slices.Clone(list)
	}
	return out
}

// Equal compares two mappings, treating empty lists as absent keys.
func (m Events) Equal(other Events) bool {
	for k, list := range m {
		if !slices.Equal(list, other[k]) {
			return false
		}
	}
	for k, list := range other {
		if len(list) > 0 && len(m[k]) == 0 {
			return false
		}
	}
	return true
}

// -----------------------------------------------------------------------------
// Pure Mutations
// -----------------------------------------------------------------------------

// Add returns a new mapping with text appended to key's list.
// Empty text leaves the mapping unchanged. Duplicates are kept.
func Add(m Events, key, text string) Events {
	if text == "" {
		return m
	}
	out := m.Clone()
	out[key] = append(out[key], text)
	return out
}

// Update returns a new mapping where element index of key's list is text.
// Empty or whitespace-only text is a no-op.
func Update(m Events, key string, index int, text string) (Events, error) {
	if strings.TrimSpace(text) == "" {
		return m, nil
	}
	if !inRange(m, key, index) {
		return m, ErrIndexOutOfRange
	}
	out := m.Clone()
	out[key][index] = text
	return out, nil
}

// Remove returns a new mapping without element index of key's list.
// Removing the last element leaves the key mapped to an empty list.
func Remove(m Events, key string, index int) (Events, error) {
	if !inRange(m, key, index) {
		return m, ErrIndexOutOfRange
	}
	out := m.Clone()
	out[key] = slices.Delete(out[key], index, index+1)
	return out, nil
}

func inRange(m Events, key string, index int) bool {
	list, ok := m[key]
	return ok && index >= 0 && index < len(list)
}
