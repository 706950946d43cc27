// Copyright 2026 The Sideseat Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

func TestListOrganizations(t *testing.T) {
	t.Parallel()

	created := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test-key" {
			t.Errorf("Authorization = %q, want Bearer sk-test-key", got)
		}
		if r.URL.Path != "/api/v1/organizations" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("page"); got != "2" {
			t.Errorf("page = %q, want 2", got)
		}
		json.NewEncoder(w).Encode(Page[Organization]{
			Data: []Organization{
				{ID: "org-1", Name: "Acme", Slug: "acme", CreatedAt: created, UpdatedAt: created},
			},
			Meta: PageMeta{Page: 2, Limit: 100, TotalItems: 101, TotalPages: 2},
		})
	}))
	defer server.Close()

	client, err := New(server.URL, "sk-test-key")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	page, err := client.Organizations().List(context.Background(), ListParams{Page: 2, Limit: 100})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(page.Data) != 1 || page.Data[0].Slug != "acme" {
		t.Errorf("unexpected page data: %+v", page.Data)
	}
	if page.Meta.TotalPages != 2 {
		t.Errorf("TotalPages = %d, want 2", page.Meta.TotalPages)
	}
}

func TestErrorDecoding(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{
			"error":   "not_found",
			"code":    "PROJECT_NOT_FOUND",
			"message": "Project does not exist",
		})
	}))
	defer server.Close()

	client, err := New(server.URL, "sk-test-key")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	_, err = client.Projects().Get(context.Background(), "missing")
	if err == nil {
		t.Fatal("Get() succeeded, want not-found error")
	}
	if !IsNotFound(err) {
		t.Errorf("IsNotFound(%v) = false", err)
	}

	apiError, ok := err.(*Error)
	if !ok {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if apiError.Code != "PROJECT_NOT_FOUND" {
		t.Errorf("Code = %q", apiError.Code)
	}
	if apiError.Type != "not_found" {
		t.Errorf("Type = %q", apiError.Type)
	}
}

func TestErrorFallbackForNonJSONBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer server.Close()

	client, err := New(server.URL, "sk-test-key")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	_, err = client.Organizations().Get(context.Background(), "org-1")
	apiError, ok := err.(*Error)
	if !ok {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if apiError.Status != http.StatusBadGateway {
		t.Errorf("Status = %d", apiError.Status)
	}
	if apiError.Message != "bad gateway" {
		t.Errorf("Message = %q", apiError.Message)
	}
}

func TestCompressedResponses(t *testing.T) {
	t.Parallel()

	project := Project{ID: "proj-1", OrganizationID: "org-1", Name: "checkout"}
	payload, err := json.Marshal(project)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/projects/gz":
			w.Header().Set("Content-Encoding", "gzip")
			writer := gzip.NewWriter(w)
			writer.Write(payload)
			writer.Close()
		case "/api/v1/projects/zst":
			w.Header().Set("Content-Encoding", "zstd")
			writer, encErr := zstd.NewWriter(w)
			if encErr != nil {
				t.Errorf("zstd.NewWriter: %v", encErr)
				return
			}
			writer.Write(payload)
			writer.Close()
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client, err := New(server.URL, "sk-test-key")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	for _, id := range []string{"gz", "zst"} {
		t.Run(id, func(t *testing.T) {
			got, err := client.Projects().Get(context.Background(), id)
			if err != nil {
				t.Fatalf("Get() error: %v", err)
			}
			if got.Name != "checkout" {
				t.Errorf("Name = %q, want checkout", got.Name)
			}
		})
	}
}

func TestStatsRangeQuery(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/project/proj-1/otel/stats" {
			t.Errorf("path = %q", r.URL.Path)
		}
		query := r.URL.Query()
		if query.Get("from_timestamp") == "" || query.Get("to_timestamp") == "" {
			t.Error("missing from_timestamp/to_timestamp")
		}
		json.NewEncoder(w).Encode(ProjectStats{
			Counts: StatsCounts{Traces: 12, Sessions: 3},
		})
	}))
	defer server.Close()

	client, err := New(server.URL, "sk-test-key")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	now := time.Now()
	stats, err := client.Stats("proj-1").Range(context.Background(), now.Add(-time.Hour), now)
	if err != nil {
		t.Fatalf("Range() error: %v", err)
	}
	if stats.Counts.Traces != 12 {
		t.Errorf("Traces = %d, want 12", stats.Counts.Traces)
	}
}

func TestListParamsValues(t *testing.T) {
	t.Parallel()

	params := ListParams{
		Page:  1,
		Limit: 100,
		Filter: map[string]string{
			"user_id":     "u-1",
			"environment": "production",
		},
	}
	values := params.Values()
	if got := values.Get("page"); got != "1" {
		t.Errorf("page = %q", got)
	}
	if got := values.Get("environment"); got != "production" {
		t.Errorf("environment = %q", got)
	}

	// Zero page/limit are omitted entirely.
	empty := ListParams{}.Values()
	if _, present := empty["page"]; present {
		t.Error("zero page was encoded")
	}
	if _, present := empty["limit"]; present {
		t.Error("zero limit was encoded")
	}
}
