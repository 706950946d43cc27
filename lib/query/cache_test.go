// Copyright 2026 The Sideseat Authors
// SPDX-License-Identifier: Apache-2.0

package query

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sideseat/seatview/lib/api"
	"github.com/sideseat/seatview/lib/clock"
	"github.com/sideseat/seatview/lib/testutil"
)

// fakeLister counts calls and serves canned pages or errors.
type fakeLister struct {
	mu      sync.Mutex
	calls   int
	page    *api.Page[api.Project]
	errs    []error // consumed in order; nil entries mean success
	started chan struct{}
	release chan struct{} // when non-nil, List blocks until closed
}

func (f *fakeLister) List(ctx context.Context, params api.ListParams) (*api.Page[api.Project], error) {
	f.mu.Lock()
	f.calls++
	var err error
	if len(f.errs) > 0 {
		err = f.errs[0]
		f.errs = f.errs[1:]
	}
	started := f.started
	release := f.release
	f.mu.Unlock()

	if started != nil {
		select {
		case started <- struct{}{}:
		default:
		}
	}
	if release != nil {
		<-release
	}
	if err != nil {
		return nil, err
	}
	return f.page, nil
}

func (f *fakeLister) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeGetter counts calls.
type fakeGetter struct {
	calls atomic.Int64
}

func (f *fakeGetter) Get(ctx context.Context, id string) (*api.Project, error) {
	f.calls.Add(1)
	return &api.Project{ID: id, Name: "p"}, nil
}

// newReportChannel returns a reporter that forwards every report into
// the returned channel.
func newReportChannel() (ReportFunc, chan error) {
	reports := make(chan error, 16)
	return func(message string, err error) {
		reports <- fmt.Errorf("%s: %w", message, err)
	}, reports
}

func testPage() *api.Page[api.Project] {
	return &api.Page[api.Project]{
		Data: []api.Project{{ID: "proj-1", OrganizationID: "org-1", Name: "checkout"}},
		Meta: api.PageMeta{Page: 1, Limit: 100, TotalItems: 1, TotalPages: 1},
	}
}

func TestListCachesWithinStaleTime(t *testing.T) {
	t.Parallel()

	fake := clock.Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	cache := New(Options{Clock: fake})
	defer cache.Close()

	lister := &fakeLister{page: testPage()}
	ctx := context.Background()

	first, err := List(ctx, cache, "projects", lister, api.ListParams{})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}

	// Same effective params, still fresh: no second fetch, same value.
	fake.Advance(10 * time.Second)
	second, err := List(ctx, cache, "projects", lister, api.ListParams{Page: 1, Limit: 100})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if lister.callCount() != 1 {
		t.Errorf("fetch count = %d, want 1", lister.callCount())
	}
	if first != second {
		t.Error("fresh hit returned a different value")
	}
}

func TestStaleServesImmediatelyAndRefreshes(t *testing.T) {
	t.Parallel()

	fake := clock.Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	cache := New(Options{Clock: fake})
	defer cache.Close()

	lister := &fakeLister{page: testPage(), started: make(chan struct{}, 4)}
	ctx := context.Background()

	if _, err := List(ctx, cache, "projects", lister, api.ListParams{}); err != nil {
		t.Fatalf("List() error: %v", err)
	}
	testutil.RequireReceive(t, lister.started, time.Second, "initial fetch")

	// Cross the 30-second freshness boundary. The stale read returns
	// the cached page without waiting, and a background refresh runs.
	fake.Advance(31 * time.Second)
	page, err := List(ctx, cache, "projects", lister, api.ListParams{})
	if err != nil {
		t.Fatalf("stale List() error: %v", err)
	}
	if page == nil || len(page.Data) != 1 {
		t.Fatalf("stale List() returned %+v", page)
	}
	testutil.RequireReceive(t, lister.started, time.Second, "background refresh")
}

func TestConcurrentCallersShareOneFetch(t *testing.T) {
	t.Parallel()

	cache := New(Options{})
	defer cache.Close()

	lister := &fakeLister{
		page:    testPage(),
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	ctx := context.Background()

	const callers = 8
	results := make(chan *api.Page[api.Project], callers)
	for i := 0; i < callers; i++ {
		go func() {
			page, err := List(ctx, cache, "projects", lister, api.ListParams{})
			if err != nil {
				t.Errorf("List() error: %v", err)
			}
			results <- page
		}()
	}

	// Let every caller attach before the single fetch completes.
	testutil.RequireReceive(t, lister.started, time.Second, "fetch start")
	time.Sleep(50 * time.Millisecond)
	close(lister.release)

	first := testutil.RequireReceive(t, results, time.Second, "first caller")
	for i := 1; i < callers; i++ {
		page := testutil.RequireReceive(t, results, time.Second, "caller %d", i)
		if page != first {
			t.Error("callers received different values for one fetch")
		}
	}
	if lister.callCount() != 1 {
		t.Errorf("fetch count = %d, want 1", lister.callCount())
	}
}

func TestRetrySucceedsSilently(t *testing.T) {
	t.Parallel()

	report, reports := newReportChannel()
	cache := New(Options{Report: report})
	defer cache.Close()

	lister := &fakeLister{
		page: testPage(),
		errs: []error{errors.New("transient"), nil},
	}

	page, err := List(context.Background(), cache, "projects", lister, api.ListParams{})
	if err != nil {
		t.Fatalf("List() error after retry: %v", err)
	}
	if page == nil {
		t.Fatal("List() returned nil page")
	}
	if lister.callCount() != 2 {
		t.Errorf("fetch count = %d, want 2 (one retry)", lister.callCount())
	}
	testutil.RequireNoReceive(t, reports, 100*time.Millisecond, "reporter invoked despite eventual success")
}

func TestPersistentFailureReportsOnce(t *testing.T) {
	t.Parallel()

	report, reports := newReportChannel()
	cache := New(Options{Report: report})
	defer cache.Close()

	boom := errors.New("boom")
	lister := &fakeLister{errs: []error{boom, boom}}

	_, err := List(context.Background(), cache, "projects", lister, api.ListParams{})
	if !errors.Is(err, boom) {
		t.Fatalf("List() error = %v, want boom", err)
	}
	if lister.callCount() != 2 {
		t.Errorf("fetch count = %d, want 2", lister.callCount())
	}

	testutil.RequireReceive(t, reports, time.Second, "failure report")
	testutil.RequireNoReceive(t, reports, 100*time.Millisecond, "more than one report for one failed fetch")
}

func TestSkipReportSuppressesReporter(t *testing.T) {
	t.Parallel()

	report, reports := newReportChannel()
	cache := New(Options{Report: report})
	defer cache.Close()

	boom := errors.New("boom")
	lister := &fakeLister{errs: []error{boom, boom}}

	_, err := List(context.Background(), cache, "projects", lister, api.ListParams{}, SkipReport())
	if !errors.Is(err, boom) {
		t.Fatalf("List() error = %v, want boom", err)
	}
	testutil.RequireNoReceive(t, reports, 100*time.Millisecond, "reporter invoked despite SkipReport")
}

func TestMutateReporting(t *testing.T) {
	t.Parallel()

	report, reports := newReportChannel()
	cache := New(Options{Report: report})
	defer cache.Close()
	ctx := context.Background()

	boom := errors.New("boom")

	t.Run("failure reports exactly once", func(t *testing.T) {
		err := cache.Mutate(ctx, "rename project", func(context.Context) error { return boom })
		if !errors.Is(err, boom) {
			t.Fatalf("Mutate() error = %v", err)
		}
		testutil.RequireReceive(t, reports, time.Second, "mutation failure report")
		testutil.RequireNoReceive(t, reports, 100*time.Millisecond, "duplicate mutation report")
	})

	t.Run("opted-out failure is silent", func(t *testing.T) {
		err := cache.Mutate(ctx, "rename project", func(context.Context) error { return boom }, SkipReport())
		if !errors.Is(err, boom) {
			t.Fatalf("Mutate() error = %v", err)
		}
		testutil.RequireNoReceive(t, reports, 100*time.Millisecond, "reporter invoked despite SkipReport")
	})

	t.Run("success is silent", func(t *testing.T) {
		if err := cache.Mutate(ctx, "rename project", func(context.Context) error { return nil }); err != nil {
			t.Fatalf("Mutate() error = %v", err)
		}
		testutil.RequireNoReceive(t, reports, 100*time.Millisecond, "reporter invoked on success")
	})
}

func TestDetailEmptyIDIsGuarded(t *testing.T) {
	t.Parallel()

	cache := New(Options{})
	defer cache.Close()

	getter := &fakeGetter{}
	project, err := Detail[api.Project](context.Background(), cache, "projects", getter, "")
	if err != nil {
		t.Fatalf("Detail() error: %v", err)
	}
	if project != nil {
		t.Errorf("Detail(\"\") = %+v, want nil", project)
	}
	if getter.calls.Load() != 0 {
		t.Errorf("fetch count = %d, want 0 (enablement guard)", getter.calls.Load())
	}
}

func TestDetailFetchesAndCaches(t *testing.T) {
	t.Parallel()

	cache := New(Options{})
	defer cache.Close()

	getter := &fakeGetter{}
	ctx := context.Background()

	first, err := Detail[api.Project](ctx, cache, "projects", getter, "proj-1")
	if err != nil {
		t.Fatalf("Detail() error: %v", err)
	}
	second, err := Detail[api.Project](ctx, cache, "projects", getter, "proj-1")
	if err != nil {
		t.Fatalf("Detail() error: %v", err)
	}
	if getter.calls.Load() != 1 {
		t.Errorf("fetch count = %d, want 1", getter.calls.Load())
	}
	if first != second {
		t.Error("cached detail returned a different pointer")
	}
}

func TestInvalidateResource(t *testing.T) {
	t.Parallel()

	cache := New(Options{})
	defer cache.Close()

	lister := &fakeLister{page: testPage()}
	getter := &fakeGetter{}
	ctx := context.Background()

	if _, err := List(ctx, cache, "projects", lister, api.ListParams{}); err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if _, err := Detail[api.Project](ctx, cache, "projects", getter, "proj-1"); err != nil {
		t.Fatalf("Detail() error: %v", err)
	}
	if _, err := Detail[api.Project](ctx, cache, "organizations", getter, "org-1"); err != nil {
		t.Fatalf("Detail() error: %v", err)
	}

	cache.InvalidateResource("projects")
	if cache.Len() != 1 {
		t.Errorf("Len() = %d after invalidation, want 1 (organizations survives)", cache.Len())
	}

	// Next project read refetches.
	if _, err := List(ctx, cache, "projects", lister, api.ListParams{}); err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if lister.callCount() != 2 {
		t.Errorf("fetch count = %d, want 2 after invalidation", lister.callCount())
	}
}

func TestEvictionAfterDisuse(t *testing.T) {
	t.Parallel()

	fake := clock.Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	cache := New(Options{Clock: fake})
	defer cache.Close()

	lister := &fakeLister{page: testPage()}
	if _, err := List(context.Background(), cache, "projects", lister, api.ListParams{}); err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if cache.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", cache.Len())
	}

	// Cross the five-minute disuse deadline; the sweep runs off a
	// ticker goroutine, so poll briefly for the eviction to land.
	fake.Advance(6 * time.Minute)
	deadline := time.Now().Add(2 * time.Second)
	for cache.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("entry not evicted after disuse; Len() = %d", cache.Len())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestCanceledWaiterDoesNotAbortFetch(t *testing.T) {
	t.Parallel()

	cache := New(Options{})
	defer cache.Close()

	lister := &fakeLister{
		page:    testPage(),
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}

	ctx, cancel := context.WithCancel(context.Background())
	errs := make(chan error, 1)
	go func() {
		_, err := List(ctx, cache, "projects", lister, api.ListParams{})
		errs <- err
	}()

	testutil.RequireReceive(t, lister.started, time.Second, "fetch start")
	cancel()
	if err := testutil.RequireReceive(t, errs, time.Second, "canceled caller"); !errors.Is(err, context.Canceled) {
		t.Errorf("canceled caller error = %v, want context.Canceled", err)
	}

	// The fetch itself survives the canceled subscriber and
	// populates the cache for the next caller.
	close(lister.release)
	page, err := List(context.Background(), cache, "projects", lister, api.ListParams{})
	if err != nil {
		t.Fatalf("List() after cancel error: %v", err)
	}
	if page == nil {
		t.Fatal("List() after cancel returned nil")
	}
	if got := lister.callCount(); got != 1 {
		t.Errorf("fetch count = %d, want 1 (second caller hit cache)", got)
	}
}
