package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"fyne.io/fyne/v2"
	"github.com/tartampluch/go-monthcal/internal/config"
)

// ErrBlobNotFound is returned by BlobStore.Get when nothing is stored under the key.
var ErrBlobNotFound = errors.New(config.ErrBlobNotFound)

// BlobStore is the durable key-value store holding serialized event mappings.
// Only EventStore writes to it, always with the full mapping.
type BlobStore interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// -----------------------------------------------------------------------------
// Preferences (desktop local storage)
// -----------------------------------------------------------------------------

// PreferencesBlob stores blobs in the Fyne application preferences.
type PreferencesBlob struct {
	Prefs fyne.Preferences
}

// NewPreferencesBlob wraps the application preferences.
func NewPreferencesBlob(prefs fyne.Preferences) *PreferencesBlob {
	return &PreferencesBlob{Prefs: prefs}
}

// Get returns ErrBlobNotFound for unset (empty) values.
func (b *PreferencesBlob) Get(key string) (string, error) {
	v := b.Prefs.String(key)
	if v == "" {
		return "", ErrBlobNotFound
	}
	return v, nil
}

// Set never fails; Fyne persists preferences asynchronously.
func (b *PreferencesBlob) Set(key, value string) error {
	b.Prefs.SetString(key, value)
	return nil
}

// -----------------------------------------------------------------------------
// File
// -----------------------------------------------------------------------------

// FileBlob stores each key as <Dir>/<key>.json.
// Writes go to a temp file first and are renamed into place.
type FileBlob struct {
	Dir string
}

// NewFileBlob creates the directory if needed.
func NewFileBlob(dir string) (*FileBlob, error) {
	if err := os.MkdirAll(dir, config.DirPermUserRWX); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}
	return &FileBlob{Dir: dir}, nil
}

func (b *FileBlob) path(key string) string {
	return filepath.Join(b.Dir, key+config.BlobFileExt)
}

// Get reads the whole file for key.
func (b *FileBlob) Get(key string) (string, error) {
	data, err := os.ReadFile(b.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrBlobNotFound
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Set replaces the file for key.
func (b *FileBlob) Set(key, value string) error {
	target := b.path(key)
	tmp := target + config.TmpSuffix
	if err := os.WriteFile(tmp, []byte(value), config.FilePermUserRW); err != nil {
		return err
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp) // Best effort cleanup
		return err
	}
	return nil
}

// -----------------------------------------------------------------------------
// Memory
// -----------------------------------------------------------------------------

// MemoryBlob is an in-memory BlobStore. GetErr and SetErr, when set, are returned
// instead of touching the data, which lets tests simulate a failing medium.
type MemoryBlob struct {
	mu     sync.Mutex
	data   map[string]string
	writes int

	GetErr error
	SetErr error
}

// NewMemoryBlob returns an empty store.
func NewMemoryBlob() *MemoryBlob {
	return &MemoryBlob{data: make(map[string]string)}
}

func (b *MemoryBlob) Get(key string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.GetErr != nil {
		return "", b.GetErr
	}
	v, ok := b.data[key]
	if !ok {
		return "", ErrBlobNotFound
	}
	return v, nil
}

func (b *MemoryBlob) Set(key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.writes++
	if b.SetErr != nil {
		return b.SetErr
	}
	b.data[key] = value
	return nil
}

// Writes counts Set calls, failed ones included.
func (b *MemoryBlob) Writes() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.writes
}

// Raw returns the stored value without going through GetErr.
func (b *MemoryBlob) Raw(key string) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.data[key]
	return v, ok
}

// Put seeds a value without counting a write.
func (b *MemoryBlob) Put(key, value string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[key] = value
}
