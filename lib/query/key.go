// Copyright 2026 The Sideseat Authors
// SPDX-License-Identifier: Apache-2.0

package query

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/zeebo/blake3"

	"github.com/sideseat/seatview/lib/api"
)

// Default pagination applied before keying and fetching. Explicit
// caller values always win over these.
const (
	// DefaultPage is the first page.
	DefaultPage = 1

	// DefaultLimit is the page size used when the caller does not ask
	// for one.
	DefaultLimit = 100
)

// Key identifies one cached request. Keys are comparable: two requests
// for the same resource with the same effective parameters produce
// ==-equal keys and therefore share one cache entry.
type Key struct {
	// Resource names the resource type ("organizations", "projects",
	// "sessions/proj-1", ...).
	Resource string

	// Op is the operation scope: "list", "detail", or a custom scope
	// for Fetch keys ("stats", ...).
	Op string

	// Params discriminates between requests within the scope: the
	// digest of the effective list parameters, a record ID, or a
	// caller-chosen token.
	Params string
}

// String renders the key for log output.
func (k Key) String() string {
	if k.Params == "" {
		return k.Resource + "/" + k.Op
	}
	return k.Resource + "/" + k.Op + "/" + k.Params
}

// ListKey builds the key for a list request. The parameters are
// normalized first, so ListKey(r, api.ListParams{}) and
// ListKey(r, api.ListParams{Page: 1, Limit: 100}) are equal.
func ListKey(resource string, params api.ListParams) Key {
	return Key{Resource: resource, Op: "list", Params: paramsDigest(EffectiveParams(params))}
}

// DetailKey builds the key for a single-record request.
func DetailKey(resource, id string) Key {
	return Key{Resource: resource, Op: "detail", Params: id}
}

// EffectiveParams merges params over the pagination defaults. This is
// the value that participates in the cache key and goes on the wire,
// never the caller's raw input.
func EffectiveParams(params api.ListParams) api.ListParams {
	if params.Page <= 0 {
		params.Page = DefaultPage
	}
	if params.Limit <= 0 {
		params.Limit = DefaultLimit
	}
	return params
}

// paramsDigest computes a deterministic digest of normalized list
// parameters. Canonical JSON (struct field order fixed, map keys
// sorted by encoding/json) hashed with BLAKE3, so structurally equal
// parameters always digest identically regardless of how the caller
// built the Filter map.
func paramsDigest(params api.ListParams) string {
	canonical, err := json.Marshal(struct {
		Page   int               `json:"page"`
		Limit  int               `json:"limit"`
		Filter map[string]string `json:"filter,omitempty"`
	}{params.Page, params.Limit, params.Filter})
	if err != nil {
		// ListParams contains only ints, strings, and a string map;
		// Marshal cannot fail on it.
		panic(fmt.Sprintf("query: marshal list params: %v", err))
	}
	digest := blake3.Sum256(canonical)
	return hex.EncodeToString(digest[:16])
}
