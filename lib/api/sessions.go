// Copyright 2026 The Sideseat Authors
// SPDX-License-Identifier: Apache-2.0

package api

import "context"

// Sessions returns the session resource scoped to one project.
// Session routes live under the project in the URL space:
// /api/v1/project/{project_id}/otel/sessions.
func (c *Client) Sessions(projectID string) *SessionsService {
	return &SessionsService{client: c, projectID: projectID}
}

// SessionsService accesses a project's telemetry sessions.
type SessionsService struct {
	client    *Client
	projectID string
}

// List returns the project's sessions, newest first. Resource-specific
// filters (user_id, environment, from_timestamp, to_timestamp,
// order_by) travel in params.Filter.
func (s *SessionsService) List(ctx context.Context, params ListParams) (*Page[SessionSummary], error) {
	var page Page[SessionSummary]
	path := "/api/v1/project/" + s.projectID + "/otel/sessions"
	if err := s.client.get(ctx, path, params.Values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Get returns one session with its traces.
func (s *SessionsService) Get(ctx context.Context, sessionID string) (*SessionDetail, error) {
	var detail SessionDetail
	path := "/api/v1/project/" + s.projectID + "/otel/sessions/" + sessionID
	if err := s.client.get(ctx, path, nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}
