// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/triplemine/pkg/types"
)

const (
	fpA = "aaaa1111"
	fpB = "bbbb2222"
	v1  = "triplemine/v1"
	v2  = "triplemine/v2"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(types.CacheConfig{CacheDir: t.TempDir()}, nil)
	require.NoError(t, err)
	return m
}

func sampleAssertions() []types.Assertion {
	return []types.Assertion{
		{Subject: "caffeine", Predicate: "inhibits", Object: "adenosine receptor A2A",
			Evidence: "Caffeine inhibits adenosine receptor A2A.", Confidence: 0.9},
		{Subject: "caffeine", Predicate: "increases", Object: "alertness",
			Evidence: "Caffeine increases alertness.", Confidence: 0.8},
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	m := newTestManager(t)
	want := sampleAssertions()

	require.NoError(t, m.Put(fpA, v1, want))

	got, ok := m.Get(fpA, v1)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestGetMissingFingerprint(t *testing.T) {
	m := newTestManager(t)
	_, ok := m.Get("nope", v1)
	assert.False(t, ok)
}

func TestVersionMismatchIsMiss(t *testing.T) {
	m := newTestManager(t)
	require.NoError(t, m.Put(fpA, v1, sampleAssertions()))

	_, ok := m.Get(fpA, v2)
	assert.False(t, ok, "a version bump invalidates old entries")

	// The entry is still there under its own version.
	_, ok = m.Get(fpA, v1)
	assert.True(t, ok)
}

func TestDiskEntriesSurviveRestart(t *testing.T) {
	dir := t.TempDir()
	m1, err := NewManager(types.CacheConfig{CacheDir: dir}, nil)
	require.NoError(t, err)
	require.NoError(t, m1.Put(fpA, v1, sampleAssertions()))

	// A fresh manager over the same directory sees the disk entry.
	m2, err := NewManager(types.CacheConfig{CacheDir: dir}, nil)
	require.NoError(t, err)
	got, ok := m2.Get(fpA, v1)
	require.True(t, ok)
	assert.Equal(t, sampleAssertions(), got)
}

func TestCorruptEntryIsMissAndLogged(t *testing.T) {
	dir := t.TempDir()
	var log strings.Builder
	m, err := NewManager(types.CacheConfig{CacheDir: dir}, &log)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, fpA+".json"), []byte("{truncated"), 0o644))

	_, ok := m.Get(fpA, v1)
	assert.False(t, ok)
	assert.Contains(t, log.String(), "treating as miss")
}

func TestFingerprintMismatchIsMissAndLogged(t *testing.T) {
	dir := t.TempDir()
	var log strings.Builder
	m, err := NewManager(types.CacheConfig{CacheDir: dir}, &log)
	require.NoError(t, err)

	// Valid JSON whose recorded fingerprint disagrees with its filename.
	require.NoError(t, m.Put(fpB, v1, sampleAssertions()))
	data, err := os.ReadFile(filepath.Join(dir, fpB+".json"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, fpA+".json"), data, 0o644))

	_, ok := m.Get(fpA, v1)
	assert.False(t, ok)
	assert.Contains(t, log.String(), "treating as miss")
}

func TestFailureEntries(t *testing.T) {
	m := newTestManager(t)
	require.NoError(t, m.PutFailure(fpA, v1, "pdftotext produced empty output"))

	// A failure entry is a miss for Get but visible via Failure.
	_, ok := m.Get(fpA, v1)
	assert.False(t, ok)

	reason, failed := m.Failure(fpA, v1)
	require.True(t, failed)
	assert.Equal(t, "pdftotext produced empty output", reason)

	// Under a new version the failure no longer applies.
	_, failed = m.Failure(fpA, v2)
	assert.False(t, failed)
}

func TestPutOverwritesPreviousEntry(t *testing.T) {
	m := newTestManager(t)
	require.NoError(t, m.PutFailure(fpA, v1, "transient failure"))

	want := sampleAssertions()
	require.NoError(t, m.Put(fpA, v1, want))

	got, ok := m.Get(fpA, v1)
	require.True(t, ok)
	assert.Equal(t, want, got)

	_, failed := m.Failure(fpA, v1)
	assert.False(t, failed)
}

func TestNoPartialWritesLeftBehind(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(types.CacheConfig{CacheDir: dir}, nil)
	require.NoError(t, err)
	require.NoError(t, m.Put(fpA, v1, sampleAssertions()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), "temp file left behind: %s", e.Name())
	}
}

func TestAcquireRelease(t *testing.T) {
	m := newTestManager(t)

	require.NoError(t, m.Acquire(context.Background(), fpA))
	assert.False(t, m.TryAcquire(fpA), "second acquire must not succeed while held")
	assert.True(t, m.TryAcquire(fpB), "other fingerprints are independent")

	m.Release(fpA)
	assert.True(t, m.TryAcquire(fpA))
}

func TestAcquireBlocksUntilRelease(t *testing.T) {
	m := newTestManager(t)
	require.NoError(t, m.Acquire(context.Background(), fpA))

	acquired := make(chan struct{})
	go func() {
		if err := m.Acquire(context.Background(), fpA); err == nil {
			close(acquired)
		}
	}()

	select {
	case <-acquired:
		t.Fatal("acquire succeeded while lock was held")
	case <-time.After(20 * time.Millisecond):
	}

	m.Release(fpA)
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("acquire did not wake after release")
	}
}

func TestAcquireCancelled(t *testing.T) {
	m := newTestManager(t)
	require.NoError(t, m.Acquire(context.Background(), fpA))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := m.Acquire(ctx, fpA)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSingleFlightUnderContention(t *testing.T) {
	m := newTestManager(t)

	var mu sync.Mutex
	holders := 0
	maxHolders := 0

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, m.Acquire(context.Background(), fpA))
			mu.Lock()
			holders++
			if holders > maxHolders {
				maxHolders = holders
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			holders--
			mu.Unlock()
			m.Release(fpA)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxHolders, "at most one holder per fingerprint")
}

func TestClearSingleEntry(t *testing.T) {
	m := newTestManager(t)
	require.NoError(t, m.Put(fpA, v1, sampleAssertions()))
	require.NoError(t, m.Put(fpB, v1, sampleAssertions()))

	removed, err := m.Clear(fpA)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, ok := m.Get(fpA, v1)
	assert.False(t, ok)
	_, ok = m.Get(fpB, v1)
	assert.True(t, ok)
}

func TestClearAll(t *testing.T) {
	m := newTestManager(t)
	require.NoError(t, m.Put(fpA, v1, sampleAssertions()))
	require.NoError(t, m.Put(fpB, v1, sampleAssertions()))

	removed, err := m.Clear("")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	n, err := m.Len()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestClearMissingEntry(t *testing.T) {
	m := newTestManager(t)
	removed, err := m.Clear("absent")
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestLen(t *testing.T) {
	m := newTestManager(t)
	n, err := m.Len()
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, m.Put(fpA, v1, sampleAssertions()))
	require.NoError(t, m.PutFailure(fpB, v1, "broken"))

	n, err = m.Len()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
