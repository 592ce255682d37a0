// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache persists extraction results keyed by document fingerprint
// and extraction-method version. A memory layer sits in front of the disk
// entries, and a per-fingerprint single-flight lock guarantees at most one
// extraction in flight per document.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/pdiddy/triplemine/pkg/types"
)

const (
	entryExt         = ".json"
	defaultMemoryTTL = 30 * time.Minute
	memCleanupPeriod = 10 * time.Minute
)

// Entry is one persisted extraction result. Entries are superseded by a
// fresh Put, never mutated in place.
type Entry struct {
	// Fingerprint is the content hash of the document the entry belongs to.
	Fingerprint string `json:"fingerprint"`

	// Version is the extraction-method version the entry was produced with.
	Version string `json:"version"`

	// Assertions is the full extraction result, in engine output order.
	Assertions []types.Assertion `json:"assertions,omitempty"`

	// Failure records why a document failed, for failure entries. A
	// non-empty Failure means Assertions is empty and the document should
	// be excluded from unprocessed scans.
	Failure string `json:"failure,omitempty"`

	// CreatedAt is the UTC write time.
	CreatedAt time.Time `json:"created_at"`
}

// Manager owns the cache directory and the single-flight locks.
type Manager struct {
	dir string
	mem *gocache.Cache

	mu       sync.Mutex
	inflight map[string]chan struct{}

	logw io.Writer
}

// NewManager opens (creating if needed) the cache directory. Corrupt
// entries found later are logged to logw and treated as misses.
func NewManager(cfg types.CacheConfig, logw io.Writer) (*Manager, error) {
	if err := os.MkdirAll(cfg.CacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory %s: %w", cfg.CacheDir, err)
	}
	ttl := cfg.MemoryTTL
	if ttl <= 0 {
		ttl = defaultMemoryTTL
	}
	if logw == nil {
		logw = io.Discard
	}
	return &Manager{
		dir:      cfg.CacheDir,
		mem:      gocache.New(ttl, memCleanupPeriod),
		inflight: make(map[string]chan struct{}),
		logw:     logw,
	}, nil
}

// Get returns the cached assertions for (fingerprint, version), or ok=false
// on a miss. A version or fingerprint mismatch is a miss, not corruption; a
// failure entry is also reported as a miss here (see Failure).
func (m *Manager) Get(fingerprint, version string) ([]types.Assertion, bool) {
	entry, ok := m.lookup(fingerprint, version)
	if !ok || entry.Failure != "" {
		return nil, false
	}
	return entry.Assertions, true
}

// Failure returns the recorded failure reason for (fingerprint, version),
// if the document previously failed under the current version.
func (m *Manager) Failure(fingerprint, version string) (string, bool) {
	entry, ok := m.lookup(fingerprint, version)
	if !ok || entry.Failure == "" {
		return "", false
	}
	return entry.Failure, true
}

func (m *Manager) lookup(fingerprint, version string) (Entry, bool) {
	if v, found := m.mem.Get(fingerprint); found {
		entry := v.(Entry)
		if entry.Version == version && entry.Fingerprint == fingerprint {
			return entry, true
		}
		return Entry{}, false
	}

	data, err := os.ReadFile(m.path(fingerprint))
	if err != nil {
		return Entry{}, false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		corrupt := &types.CacheCorruptionError{Fingerprint: fingerprint, Err: err}
		fmt.Fprintf(m.logw, "warning: %v (treating as miss)\n", corrupt)
		return Entry{}, false
	}
	if entry.Fingerprint != fingerprint {
		corrupt := &types.CacheCorruptionError{
			Fingerprint: fingerprint,
			Err:         fmt.Errorf("entry claims fingerprint %s", entry.Fingerprint),
		}
		fmt.Fprintf(m.logw, "warning: %v (treating as miss)\n", corrupt)
		return Entry{}, false
	}
	if entry.Version != version {
		return Entry{}, false
	}

	m.mem.SetDefault(fingerprint, entry)
	return entry, true
}

// Put atomically persists the extraction result for (fingerprint, version).
// The entry becomes visible to Get only after the full write completes: the
// file is written to a temp name and renamed into place.
func (m *Manager) Put(fingerprint, version string, assertions []types.Assertion) error {
	return m.write(Entry{
		Fingerprint: fingerprint,
		Version:     version,
		Assertions:  assertions,
		CreatedAt:   time.Now().UTC(),
	})
}

// PutFailure records a document failure so later scans can skip the file
// without re-reading it.
func (m *Manager) PutFailure(fingerprint, version, reason string) error {
	return m.write(Entry{
		Fingerprint: fingerprint,
		Version:     version,
		Failure:     reason,
		CreatedAt:   time.Now().UTC(),
	})
}

func (m *Manager) write(entry Entry) error {
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling cache entry: %w", err)
	}

	path := m.path(entry.Fingerprint)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("committing cache entry: %w", err)
	}

	m.mem.SetDefault(entry.Fingerprint, entry)
	return nil
}

// Acquire takes the single-flight lock for a fingerprint, blocking until
// the current holder releases it or ctx is cancelled. At most one
// extraction may be in flight per fingerprint.
func (m *Manager) Acquire(ctx context.Context, fingerprint string) error {
	for {
		m.mu.Lock()
		ch, busy := m.inflight[fingerprint]
		if !busy {
			m.inflight[fingerprint] = make(chan struct{})
			m.mu.Unlock()
			return nil
		}
		m.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ch:
		}
	}
}

// TryAcquire takes the lock without blocking. It reports false when another
// extraction for the same fingerprint is already in flight.
func (m *Manager) TryAcquire(fingerprint string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, busy := m.inflight[fingerprint]; busy {
		return false
	}
	m.inflight[fingerprint] = make(chan struct{})
	return true
}

// Release frees the single-flight lock and wakes any waiters.
func (m *Manager) Release(fingerprint string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ch, ok := m.inflight[fingerprint]; ok {
		close(ch)
		delete(m.inflight, fingerprint)
	}
}

// Clear removes the entry for fingerprint, or every entry when fingerprint
// is empty. It returns the number of entries removed.
func (m *Manager) Clear(fingerprint string) (int, error) {
	if fingerprint != "" {
		m.mem.Delete(fingerprint)
		if err := os.Remove(m.path(fingerprint)); err != nil {
			if os.IsNotExist(err) {
				return 0, nil
			}
			return 0, fmt.Errorf("removing cache entry: %w", err)
		}
		return 1, nil
	}

	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return 0, fmt.Errorf("reading cache directory: %w", err)
	}
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), entryExt) {
			continue
		}
		if err := os.Remove(filepath.Join(m.dir, entry.Name())); err != nil {
			return removed, fmt.Errorf("removing %s: %w", entry.Name(), err)
		}
		removed++
	}
	m.mem.Flush()
	return removed, nil
}

// Len counts the persisted entries on disk.
func (m *Manager) Len() (int, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return 0, fmt.Errorf("reading cache directory: %w", err)
	}
	n := 0
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), entryExt) {
			n++
		}
	}
	return n, nil
}

func (m *Manager) path(fingerprint string) string {
	return filepath.Join(m.dir, fingerprint+entryExt)
}
