package store

import (
	"errors"
	"fmt"
	"log/slog"

	jsoniter "github.com/json-iterator/go"
	"github.com/tartampluch/go-monthcal/internal/config"
)

// codec sorts map keys so that identical mappings always serialize identically.
var codec = jsoniter.ConfigCompatibleWithStandardLibrary

// StorageReadError reports a missing or unparsable blob. Load still returns a
// usable empty mapping alongside it.
type StorageReadError struct {
	Key string
	Err error
}

func (e *StorageReadError) Error() string {
	return fmt.Sprintf("%s (%s): %v", config.ErrStorageRead, e.Key, e.Err)
}

func (e *StorageReadError) Unwrap() error { return e.Err }

// StorageWriteError reports a failed write-back. The in-memory mapping stays
// authoritative until the next successful save.
type StorageWriteError struct {
	Key string
	Err error
}

func (e *StorageWriteError) Error() string {
	return fmt.Sprintf("%s (%s): %v", config.ErrStorageWrite, e.Key, e.Err)
}

func (e *StorageWriteError) Unwrap() error { return e.Err }

// EventStore synchronizes the events mapping with a single blob.
type EventStore struct {
	Blob BlobStore
	Key  string
}

// NewEventStore binds the store to the standard events key.
func NewEventStore(blob BlobStore) *EventStore {
	return &EventStore{Blob: blob, Key: config.EventsBlobKey}
}

// Load reads and parses the blob. It always returns a non-nil mapping;
// on failure the mapping is empty and the error is a *StorageReadError.
func (s *EventStore) Load() (Events, error) {
	raw, err := s.Blob.Get(s.Key)
	if err != nil {
		return Events{}, &StorageReadError{Key: s.Key, Err: err}
	}

	var events Events
	if err := codec.UnmarshalFromString(raw, &events); err != nil {
		return Events{}, &StorageReadError{Key: s.Key, Err: fmt.Errorf("%s: %w", config.ErrBlobDecode, err)}
	}
	if events == nil {
		// A stored "null" is equivalent to no events.
		events = Events{}
	}

	slog.Debug(config.MsgEventsLoaded,
		config.LogKeyComponent, config.CompStore,
		config.LogKeyDays, len(events),
		config.LogKeyCount, events.Count())
	return events, nil
}

// Save serializes the whole mapping and writes it back.
func (s *EventStore) Save(events Events) error {
	if events == nil {
		events = Events{}
	}
	raw, err := codec.MarshalToString(events)
	if err != nil {
		return &StorageWriteError{Key: s.Key, Err: fmt.Errorf("%s: %w", config.ErrBlobEncode, err)}
	}
	if err := s.Blob.Set(s.Key, raw); err != nil {
		return &StorageWriteError{Key: s.Key, Err: err}
	}

	slog.Debug(config.MsgEventsSaved,
		config.LogKeyComponent, config.CompStore,
		config.LogKeySizeBytes, len(raw))
	return nil
}

// IsNotFound reports whether err stems from an absent blob (first run).
func IsNotFound(err error) bool {
	return errors.Is(err, ErrBlobNotFound)
}
