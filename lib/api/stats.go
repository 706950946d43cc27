// Copyright 2026 The Sideseat Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"net/url"
	"time"
)

// Stats returns the stats resource scoped to one project.
func (c *Client) Stats(projectID string) *StatsService {
	return &StatsService{client: c, projectID: projectID}
}

// StatsService accesses a project's telemetry rollups.
type StatsService struct {
	client    *Client
	projectID string
}

// Range returns the project's stats for the [from, to) window. The
// server rejects windows longer than 90 days and windows where from is
// not strictly before to; those arrive here as *Error values.
func (s *StatsService) Range(ctx context.Context, from, to time.Time) (*ProjectStats, error) {
	query := url.Values{}
	query.Set("from_timestamp", from.UTC().Format(time.RFC3339))
	query.Set("to_timestamp", to.UTC().Format(time.RFC3339))

	var stats ProjectStats
	path := "/api/v1/project/" + s.projectID + "/otel/stats"
	if err := s.client.get(ctx, path, query, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
