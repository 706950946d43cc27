// Copyright 2026 The Sideseat Authors
// SPDX-License-Identifier: Apache-2.0

// Package query is the caching read layer between the UI and the api
// client. One shared [Cache] serves all remote-resource reads with
// consistent behavior:
//
//   - structured cache keys, with pagination defaults applied before
//     keying so equivalent requests share one entry
//   - at most one fetch in flight per key; concurrent callers attach
//     to the pending fetch and all receive its result
//   - results are fresh for 30 seconds; stale entries are returned
//     immediately while one background refresh runs
//   - exactly one retry per failed fetch before the error surfaces
//   - entries unused for five minutes are evicted by a clock-driven
//     sweep
//   - every failure is routed to a single injected reporter unless
//     the call opted out with [SkipReport]
//   - a refresh that returns data equal to the cached value preserves
//     the cached pointers and slices, so views comparing by identity
//     do not spuriously recompute
//
// The facade depends only on the List/Get shapes of the api services
// ([Lister], [Getter]); anything keyed can be cached via [Fetch].
package query
