// Copyright 2026 The Sideseat Authors
// SPDX-License-Identifier: Apache-2.0

package query

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sideseat/seatview/lib/clock"
)

// ReportFunc receives every fetch or mutation failure that was not
// opted out with [SkipReport]. message is a short description of the
// failed operation; err is the underlying error. Implementations must
// be safe for concurrent calls.
type ReportFunc func(message string, err error)

// Options configures a Cache. The zero value is usable: real clock,
// debug-log reporter, 30s stale time, 5m eviction.
type Options struct {
	// Clock drives freshness checks and eviction sweeps. Defaults to
	// clock.Real().
	Clock clock.Clock

	// Report receives failures. Defaults to a debug-level log line on
	// Logger. Replaceable later via [Cache.SetReporter].
	Report ReportFunc

	// StaleTime is how long a successful result counts as fresh.
	// Defaults to 30 seconds.
	StaleTime time.Duration

	// EvictAfter is how long an unused entry stays in memory.
	// Defaults to 5 minutes.
	EvictAfter time.Duration

	// SweepInterval is how often the eviction sweep runs. Defaults to
	// one minute.
	SweepInterval time.Duration

	// Logger receives diagnostic output. Defaults to slog.Default().
	Logger *slog.Logger
}

// Cache is the shared request cache. Create one per process with
// [New] and pass it everywhere; the zero value is not usable.
type Cache struct {
	clock         clock.Clock
	staleTime     time.Duration
	evictAfter    time.Duration
	sweepInterval time.Duration
	logger        *slog.Logger
	report        atomic.Pointer[ReportFunc]

	mu      sync.Mutex
	entries map[Key]*entry

	done      chan struct{}
	closeOnce sync.Once
}

// entry is one cached request result. All fields are guarded by
// Cache.mu except call internals, which synchronize on call.done.
type entry struct {
	value      any
	hasValue   bool
	fetchedAt  time.Time
	lastAccess time.Time

	// pending is the in-flight fetch for this key, nil when idle. At
	// most one exists at a time; concurrent callers attach to it.
	pending *call
}

// call is one in-flight fetch. value and err are written once, before
// done is closed.
type call struct {
	done  chan struct{}
	value any
	err   error
}

// New creates a Cache and starts its eviction sweep. Call [Cache.Close]
// when done.
func New(options Options) *Cache {
	if options.Clock == nil {
		options.Clock = clock.Real()
	}
	if options.StaleTime <= 0 {
		options.StaleTime = 30 * time.Second
	}
	if options.EvictAfter <= 0 {
		options.EvictAfter = 5 * time.Minute
	}
	if options.SweepInterval <= 0 {
		options.SweepInterval = time.Minute
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	cache := &Cache{
		clock:         options.Clock,
		staleTime:     options.StaleTime,
		evictAfter:    options.EvictAfter,
		sweepInterval: options.SweepInterval,
		logger:        options.Logger,
		entries:       make(map[Key]*entry),
		done:          make(chan struct{}),
	}

	reporter := options.Report
	if reporter == nil {
		logger := options.Logger
		reporter = func(message string, err error) {
			logger.Debug("query failure", "op", message, "error", err)
		}
	}
	cache.report.Store(&reporter)

	go cache.sweepLoop()
	return cache
}

// SetReporter replaces the failure reporter. Safe to call at any time
// from any goroutine; in-flight fetches that fail afterwards use the
// new reporter. Used to wire failures into the UI once it exists.
func (c *Cache) SetReporter(report ReportFunc) {
	if report == nil {
		report = func(string, error) {}
	}
	c.report.Store(&report)
}

// Close stops the eviction sweep. Idempotent. In-flight fetches finish
// and their results are still delivered to waiting callers.
func (c *Cache) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// Invalidate drops the given entries. The next request for a dropped
// key fetches from the server. In-flight fetches for dropped keys
// still complete and repopulate; invalidate after mutations, not
// during them.
func (c *Cache) Invalidate(keys ...Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.entries, key)
	}
}

// InvalidateResource drops every entry for a resource, all operations
// and parameter combinations. The usual call after a mutation: rename
// a project, then InvalidateResource("projects").
func (c *Cache) InvalidateResource(resource string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if key.Resource == resource {
			delete(c.entries, key)
		}
	}
}

// Now returns the cache's notion of the current time. Callers that
// derive request parameters from time (the stats window) read it here
// so tests with a fake clock stay consistent.
func (c *Cache) Now() time.Time {
	return c.clock.Now()
}

// Len reports the number of cached entries. For tests and the debug
// status line.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// fetch is the untyped core. It applies the freshness, deduplication,
// retry, and reporting policy for one keyed request. The typed
// wrappers in facade.go are thin shims over it.
func (c *Cache) fetch(ctx context.Context, key Key, fn func(context.Context) (any, error), skipReport bool) (any, error) {
	c.mu.Lock()
	now := c.clock.Now()
	e := c.entries[key]
	if e == nil {
		e = &entry{}
		c.entries[key] = e
	}
	e.lastAccess = now

	// Fresh hit: serve from memory.
	if e.hasValue && now.Sub(e.fetchedAt) <= c.staleTime {
		value := e.value
		c.mu.Unlock()
		return value, nil
	}

	// Stale hit: serve the cached value immediately and refresh in
	// the background (unless a refresh is already running). The
	// refresh deliberately detaches from the caller's context: its
	// result benefits every future reader of this key.
	if e.hasValue {
		value := e.value
		if e.pending == nil {
			c.startFetchLocked(context.WithoutCancel(ctx), key, e, fn, skipReport)
		}
		c.mu.Unlock()
		return value, nil
	}

	// Miss: attach to the in-flight fetch if one exists, start one
	// otherwise. Either way, wait.
	pending := e.pending
	if pending == nil {
		pending = c.startFetchLocked(context.WithoutCancel(ctx), key, e, fn, skipReport)
	}
	c.mu.Unlock()

	select {
	case <-pending.done:
		return pending.value, pending.err
	case <-ctx.Done():
		// The fetch keeps running for other subscribers; only this
		// caller's delivery is abandoned.
		return nil, ctx.Err()
	}
}

// startFetchLocked launches the fetch goroutine for e and records it
// as pending. Caller holds c.mu.
func (c *Cache) startFetchLocked(ctx context.Context, key Key, e *entry, fn func(context.Context) (any, error), skipReport bool) *call {
	pending := &call{done: make(chan struct{})}
	e.pending = pending

	go func() {
		value, err := fetchWithRetry(ctx, fn)

		c.mu.Lock()
		if err == nil {
			if e.hasValue {
				value = share(e.value, value)
			}
			e.value = value
			e.hasValue = true
			e.fetchedAt = c.clock.Now()
		}
		e.pending = nil
		c.mu.Unlock()

		pending.value = value
		pending.err = err
		close(pending.done)

		if err != nil && !skipReport {
			(*c.report.Load())(key.String(), err)
		}
	}()
	return pending
}

// fetchWithRetry runs fn, retrying exactly once on failure. The first
// error is discarded; the second is the one that surfaces.
func fetchWithRetry(ctx context.Context, fn func(context.Context) (any, error)) (any, error) {
	value, err := fn(ctx)
	if err == nil || ctx.Err() != nil {
		return value, err
	}
	return fn(ctx)
}

// sweepLoop evicts entries that have not been accessed for EvictAfter.
// Runs until Close.
func (c *Cache) sweepLoop() {
	ticker := c.clock.NewTicker(c.sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.sweep()
		case <-c.done:
			return
		}
	}
}

// sweep drops idle entries. Entries with an in-flight fetch are kept
// regardless of age; the fetch owner still holds a pointer to them.
func (c *Cache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.clock.Now()
	for key, e := range c.entries {
		if e.pending == nil && now.Sub(e.lastAccess) > c.evictAfter {
			delete(c.entries, key)
		}
	}
}
