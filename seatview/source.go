// Copyright 2026 The Sideseat Authors
// SPDX-License-Identifier: Apache-2.0

package seatview

import (
	"context"

	"github.com/sideseat/seatview/lib/api"
	"github.com/sideseat/seatview/lib/query"
	"github.com/sideseat/seatview/lib/timerange"
)

// Source is the data backend the console reads from. CacheSource is
// the production implementation; tests substitute an in-memory fake.
// All methods are safe for concurrent use: bubbletea runs commands on
// their own goroutines.
type Source interface {
	// Organizations lists the orgs visible to the API key.
	Organizations(ctx context.Context, params api.ListParams) (*api.Page[api.Organization], error)

	// Projects lists the projects visible to the API key.
	Projects(ctx context.Context, params api.ListParams) (*api.Page[api.Project], error)

	// Sessions lists the telemetry sessions of one project.
	Sessions(ctx context.Context, projectID string, params api.ListParams) (*api.Page[api.SessionSummary], error)

	// SessionDetail loads one session with its traces.
	SessionDetail(ctx context.Context, projectID, sessionID string) (*api.SessionDetail, error)

	// Stats loads the project stats rollup for a time range.
	Stats(ctx context.Context, projectID string, rng timerange.Range) (*api.ProjectStats, error)

	// Refresh drops cached entries for a resource so the next read
	// refetches. The resource names match the cache key resources.
	Refresh(resource string)
}

// Cache key resources. Session and stats resources are scoped per
// project so invalidation of one project leaves the others cached.
const (
	resourceOrganizations = "organizations"
	resourceProjects      = "projects"
)

func sessionsResource(projectID string) string {
	return "projects/" + projectID + "/sessions"
}

func statsResource(projectID string) string {
	return "projects/" + projectID + "/stats"
}

// CacheSource reads through a query.Cache in front of the Sideseat
// HTTP client. Every screen gets stale-while-revalidate freshness and
// request dedup without holding any cache logic itself.
type CacheSource struct {
	cache  *query.Cache
	client *api.Client
}

// NewCacheSource creates a CacheSource. The caller owns both the
// cache and the client lifecycles.
func NewCacheSource(cache *query.Cache, client *api.Client) *CacheSource {
	return &CacheSource{cache: cache, client: client}
}

// Organizations implements Source.
func (source *CacheSource) Organizations(ctx context.Context, params api.ListParams) (*api.Page[api.Organization], error) {
	return query.List(ctx, source.cache, resourceOrganizations, source.client.Organizations(), params)
}

// Projects implements Source.
func (source *CacheSource) Projects(ctx context.Context, params api.ListParams) (*api.Page[api.Project], error) {
	return query.List(ctx, source.cache, resourceProjects, source.client.Projects(), params)
}

// Sessions implements Source.
func (source *CacheSource) Sessions(ctx context.Context, projectID string, params api.ListParams) (*api.Page[api.SessionSummary], error) {
	return query.List(ctx, source.cache, sessionsResource(projectID), source.client.Sessions(projectID), params)
}

// SessionDetail implements Source.
func (source *CacheSource) SessionDetail(ctx context.Context, projectID, sessionID string) (*api.SessionDetail, error) {
	return query.Detail(ctx, source.cache, sessionsResource(projectID), source.client.Sessions(projectID), sessionID)
}

// Stats implements Source. The range label is the cache key param:
// two reads of "1h" within the stale window share one request even
// though their absolute from/to pairs would differ.
func (source *CacheSource) Stats(ctx context.Context, projectID string, rng timerange.Range) (*api.ProjectStats, error) {
	key := query.Key{
		Resource: statsResource(projectID),
		Op:       "range",
		Params:   rng.Label(),
	}
	return query.Fetch(ctx, source.cache, key, func(ctx context.Context) (*api.ProjectStats, error) {
		from, to := rng.Window(source.cache.Now())
		return source.client.Stats(projectID).Range(ctx, from, to)
	})
}

// Refresh implements Source.
func (source *CacheSource) Refresh(resource string) {
	source.cache.InvalidateResource(resource)
}
