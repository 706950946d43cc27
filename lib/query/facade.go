// Copyright 2026 The Sideseat Authors
// SPDX-License-Identifier: Apache-2.0

package query

import (
	"context"

	"github.com/sideseat/seatview/lib/api"
)

// Lister is the list half of a remote resource client. All api list
// services satisfy it.
type Lister[T any] interface {
	List(ctx context.Context, params api.ListParams) (*api.Page[T], error)
}

// Getter is the single-record half of a remote resource client.
type Getter[T any] interface {
	Get(ctx context.Context, id string) (*T, error)
}

// CallOption adjusts one facade call.
type CallOption func(*callOptions)

type callOptions struct {
	skipReport bool
}

// SkipReport marks the call as handling its own failures: the cache
// will not route errors from it to the reporter. The caller owns the
// returned error entirely; if it drops it, the failure is silent.
func SkipReport() CallOption {
	return func(o *callOptions) { o.skipReport = true }
}

func applyOptions(options []CallOption) callOptions {
	var applied callOptions
	for _, option := range options {
		option(&applied)
	}
	return applied
}

// List fetches one page of a resource through the cache. Pagination
// defaults are applied before keying, so callers that omit page/limit
// share entries with callers that pass the defaults explicitly.
func List[T any](ctx context.Context, c *Cache, resource string, lister Lister[T], params api.ListParams, options ...CallOption) (*api.Page[T], error) {
	applied := applyOptions(options)
	effective := EffectiveParams(params)
	key := ListKey(resource, effective)

	value, err := c.fetch(ctx, key, func(ctx context.Context) (any, error) {
		return lister.List(ctx, effective)
	}, applied.skipReport)
	if err != nil {
		return nil, err
	}
	return value.(*api.Page[T]), nil
}

// Detail fetches one record through the cache. An empty id is an
// enablement guard, not an error: no fetch is issued and the result is
// (nil, nil). Callers render the "nothing selected" state for a nil
// record.
func Detail[T any](ctx context.Context, c *Cache, resource string, getter Getter[T], id string, options ...CallOption) (*T, error) {
	if id == "" {
		return nil, nil
	}
	applied := applyOptions(options)
	key := DetailKey(resource, id)

	value, err := c.fetch(ctx, key, func(ctx context.Context) (any, error) {
		return getter.Get(ctx, id)
	}, applied.skipReport)
	if err != nil {
		return nil, err
	}
	return value.(*T), nil
}

// Fetch caches an arbitrary keyed request. Used for reads that are
// neither plain lists nor plain details, like project stats over a
// time window (the window belongs in the key).
func Fetch[T any](ctx context.Context, c *Cache, key Key, fn func(context.Context) (*T, error), options ...CallOption) (*T, error) {
	applied := applyOptions(options)

	value, err := c.fetch(ctx, key, func(ctx context.Context) (any, error) {
		return fn(ctx)
	}, applied.skipReport)
	if err != nil {
		return nil, err
	}
	return value.(*T), nil
}

// Mutate runs a write against the server. Mutations are never cached
// and never retried; their failures go to the reporter under the same
// opt-out rule as fetches. name labels the operation in reports
// ("rename project"). Invalidate the affected resource afterwards.
func (c *Cache) Mutate(ctx context.Context, name string, fn func(context.Context) error, options ...CallOption) error {
	applied := applyOptions(options)
	err := fn(ctx)
	if err != nil && !applied.skipReport {
		(*c.report.Load())(name, err)
	}
	return err
}
