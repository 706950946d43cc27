// Copyright 2026 The Sideseat Authors
// SPDX-License-Identifier: Apache-2.0

package api

import "context"

// Organizations returns the organizations resource.
func (c *Client) Organizations() *OrganizationsService {
	return &OrganizationsService{client: c}
}

// OrganizationsService accesses /api/v1/organizations.
type OrganizationsService struct {
	client *Client
}

// List returns the organizations the authenticated key can see.
func (s *OrganizationsService) List(ctx context.Context, params ListParams) (*Page[Organization], error) {
	var page Page[Organization]
	if err := s.client.get(ctx, "/api/v1/organizations", params.Values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Get returns one organization by ID.
func (s *OrganizationsService) Get(ctx context.Context, id string) (*Organization, error) {
	var organization Organization
	if err := s.client.get(ctx, "/api/v1/organizations/"+id, nil, &organization); err != nil {
		return nil, err
	}
	return &organization, nil
}
