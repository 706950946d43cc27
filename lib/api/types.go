// Copyright 2026 The Sideseat Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"net/url"
	"sort"
	"strconv"
	"time"
)

// ListParams are the query parameters for list endpoints. Page and
// Limit of zero mean "unset"; the query cache facade fills in the
// server defaults before the request is issued, so by the time a
// ListParams reaches the wire both are concrete.
type ListParams struct {
	// Page is the 1-based page number.
	Page int

	// Limit is the page size.
	Limit int

	// Filter holds resource-specific query parameters (user_id,
	// environment, from_timestamp, ...). Keys are encoded in sorted
	// order so the same logical filter always produces the same
	// query string.
	Filter map[string]string
}

// Values encodes the parameters as a URL query. Zero Page/Limit are
// omitted (the server applies its own defaults in that case).
func (p ListParams) Values() url.Values {
	values := url.Values{}
	if p.Page > 0 {
		values.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		values.Set("limit", strconv.Itoa(p.Limit))
	}
	keys := make([]string, 0, len(p.Filter))
	for key := range p.Filter {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		values.Set(key, p.Filter[key])
	}
	return values
}

// PageMeta is the pagination metadata block on list responses.
type PageMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalItems int64 `json:"total_items"`
	TotalPages int64 `json:"total_pages"`
}

// Page is the paginated response envelope for list endpoints.
type Page[T any] struct {
	Data []T      `json:"data"`
	Meta PageMeta `json:"meta"`
}

// Organization is an org the authenticated key belongs to.
type Organization struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Project is a telemetry project inside an organization.
type Project struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	Name           string    `json:"name"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// SessionSummary is one telemetry session in a project's session list.
type SessionSummary struct {
	SessionID        string     `json:"session_id"`
	UserID           string     `json:"user_id,omitempty"`
	Environment      string     `json:"environment,omitempty"`
	StartTime        time.Time  `json:"start_time"`
	EndTime          *time.Time `json:"end_time,omitempty"`
	TraceCount       int64      `json:"trace_count"`
	SpanCount        int64      `json:"span_count"`
	ObservationCount int64      `json:"observation_count"`
	InputTokens      int64      `json:"input_tokens"`
	OutputTokens     int64      `json:"output_tokens"`
	TotalTokens      int64      `json:"total_tokens"`
	ReasoningTokens  int64      `json:"reasoning_tokens"`
	TotalCost        float64    `json:"total_cost"`
}

// TraceInSession is one trace inside a session detail.
type TraceInSession struct {
	TraceID     string     `json:"trace_id"`
	TraceName   string     `json:"trace_name,omitempty"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	DurationMS  *int64     `json:"duration_ms,omitempty"`
	TotalTokens int64      `json:"total_tokens"`
	TotalCost   float64    `json:"total_cost"`
	Tags        []string   `json:"tags"`
}

// SessionDetail is a session summary plus its traces.
type SessionDetail struct {
	SessionSummary
	Traces []TraceInSession `json:"traces"`
}

// ProjectStats is the stats rollup for a project over a time window.
type ProjectStats struct {
	Period              StatsPeriod      `json:"period"`
	Counts              StatsCounts      `json:"counts"`
	Costs               StatsCosts       `json:"costs"`
	Tokens              StatsTokens      `json:"tokens"`
	RecentActivityCount int64            `json:"recent_activity_count"`
	AvgTraceDurationMS  *float64         `json:"avg_trace_duration_ms,omitempty"`
	TrendData           []TrendBucket    `json:"trend_data"`
	ByModel             []ModelBreakdown `json:"by_model"`
}

// StatsPeriod echoes the requested time window.
type StatsPeriod struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// StatsCounts are the entity counts inside the window.
type StatsCounts struct {
	Traces         int64 `json:"traces"`
	TracesPrevious int64 `json:"traces_previous"`
	Sessions       int64 `json:"sessions"`
	Spans          int64 `json:"spans"`
	UniqueUsers    int64 `json:"unique_users"`
}

// StatsCosts are USD cost totals inside the window.
type StatsCosts struct {
	Input      float64 `json:"input"`
	Output     float64 `json:"output"`
	CacheRead  float64 `json:"cache_read"`
	CacheWrite float64 `json:"cache_write"`
	Reasoning  float64 `json:"reasoning"`
	Total      float64 `json:"total"`
}

// StatsTokens are token totals inside the window.
type StatsTokens struct {
	Input      int64 `json:"input"`
	Output     int64 `json:"output"`
	CacheRead  int64 `json:"cache_read"`
	CacheWrite int64 `json:"cache_write"`
	Reasoning  int64 `json:"reasoning"`
	Total      int64 `json:"total"`
}

// TrendBucket is one time bucket in the activity trend.
type TrendBucket struct {
	BucketStart time.Time `json:"bucket_start"`
	TraceCount  int64     `json:"trace_count"`
	TotalTokens int64     `json:"total_tokens"`
	TotalCost   float64   `json:"total_cost"`
}

// ModelBreakdown is per-model share of traffic in the window.
type ModelBreakdown struct {
	Model      string  `json:"model,omitempty"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}
