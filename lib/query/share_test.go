// Copyright 2026 The Sideseat Authors
// SPDX-License-Identifier: Apache-2.0

package query

import (
	"testing"
	"time"

	"github.com/sideseat/seatview/lib/api"
)

func TestShareIdenticalValueKeepsIdentity(t *testing.T) {
	t.Parallel()

	created := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	old := &api.Page[api.Project]{
		Data: []api.Project{{ID: "p1", Name: "checkout", CreatedAt: created}},
		Meta: api.PageMeta{Page: 1, Limit: 100, TotalItems: 1, TotalPages: 1},
	}
	refetched := &api.Page[api.Project]{
		Data: []api.Project{{ID: "p1", Name: "checkout", CreatedAt: created}},
		Meta: api.PageMeta{Page: 1, Limit: 100, TotalItems: 1, TotalPages: 1},
	}

	shared := share(old, refetched)
	if shared != any(old) {
		t.Error("identical refetch did not preserve the cached pointer")
	}
}

func TestShareChangedValueReusesUnchangedSubtrees(t *testing.T) {
	t.Parallel()

	old := &api.Page[api.Project]{
		Data: []api.Project{{ID: "p1", Name: "checkout"}, {ID: "p2", Name: "billing"}},
		Meta: api.PageMeta{Page: 1, Limit: 100, TotalItems: 2, TotalPages: 1},
	}
	refetched := &api.Page[api.Project]{
		Data: []api.Project{{ID: "p1", Name: "checkout"}, {ID: "p2", Name: "billing"}},
		Meta: api.PageMeta{Page: 1, Limit: 100, TotalItems: 3, TotalPages: 1},
	}

	shared := share(old, refetched).(*api.Page[api.Project])
	if shared == old {
		t.Fatal("changed refetch returned the old pointer")
	}
	if shared.Meta.TotalItems != 3 {
		t.Errorf("TotalItems = %d, want the refetched 3", shared.Meta.TotalItems)
	}
	// The Data slice did not change; its backing array identity must
	// be the old one.
	if len(shared.Data) == 0 || &shared.Data[0] != &old.Data[0] {
		t.Error("unchanged Data slice was not reused")
	}
}

func TestShareNestedSliceReuse(t *testing.T) {
	t.Parallel()

	started := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	oldDetail := &api.SessionDetail{
		SessionSummary: api.SessionSummary{SessionID: "s1", TraceCount: 1},
		Traces: []api.TraceInSession{
			{TraceID: "t1", StartTime: started, Tags: []string{"agent", "prod"}},
		},
	}
	refetched := &api.SessionDetail{
		SessionSummary: api.SessionSummary{SessionID: "s1", TraceCount: 2},
		Traces: []api.TraceInSession{
			{TraceID: "t1", StartTime: started, Tags: []string{"agent", "prod"}},
			{TraceID: "t2", StartTime: started.Add(time.Minute), Tags: []string{"agent"}},
		},
	}

	shared := share(oldDetail, refetched).(*api.SessionDetail)
	if shared.TraceCount != 2 || len(shared.Traces) != 2 {
		t.Fatalf("shared = %+v", shared)
	}
	// The unchanged first trace reuses the old Tags slice.
	if &shared.Traces[0].Tags[0] != &oldDetail.Traces[0].Tags[0] {
		t.Error("unchanged nested Tags slice was not reused")
	}
}

func TestShareHandlesNilAndTypeMismatch(t *testing.T) {
	t.Parallel()

	page := testPage()
	if got := share(nil, page); got != any(page) {
		t.Error("nil old did not pass the new value through")
	}
	if got := share(page, nil); got != nil {
		t.Error("nil new did not pass through")
	}

	other := &api.Organization{ID: "org-1"}
	if got := share(page, other); got != any(other) {
		t.Error("type mismatch did not pass the new value through")
	}
}
