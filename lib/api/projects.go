// Copyright 2026 The Sideseat Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"net/http"
)

// Projects returns the projects resource.
func (c *Client) Projects() *ProjectsService {
	return &ProjectsService{client: c}
}

// ProjectsService accesses /api/v1/projects.
type ProjectsService struct {
	client *Client
}

// List returns the projects the authenticated key can see, across all
// of its organizations.
func (s *ProjectsService) List(ctx context.Context, params ListParams) (*Page[Project], error) {
	var page Page[Project]
	if err := s.client.get(ctx, "/api/v1/projects", params.Values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Get returns one project by ID.
func (s *ProjectsService) Get(ctx context.Context, id string) (*Project, error) {
	var project Project
	if err := s.client.get(ctx, "/api/v1/projects/"+id, nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// CreateProjectRequest is the body for Create.
type CreateProjectRequest struct {
	// Name is the display name, 1-100 characters.
	Name string `json:"name"`

	// OrganizationID is the owning organization. Required.
	OrganizationID string `json:"organization_id"`
}

// Create creates a project and returns the stored record.
func (s *ProjectsService) Create(ctx context.Context, request CreateProjectRequest) (*Project, error) {
	var project Project
	if err := s.client.send(ctx, http.MethodPost, "/api/v1/projects", nil, request, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// Rename changes a project's display name.
func (s *ProjectsService) Rename(ctx context.Context, id, name string) (*Project, error) {
	var project Project
	body := struct {
		Name string `json:"name"`
	}{Name: name}
	if err := s.client.send(ctx, http.MethodPut, "/api/v1/projects/"+id, nil, body, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// Delete removes a project and all of its telemetry.
func (s *ProjectsService) Delete(ctx context.Context, id string) error {
	return s.client.send(ctx, http.MethodDelete, "/api/v1/projects/"+id, nil, nil, nil)
}
