// Copyright 2026 The Sideseat Authors
// SPDX-License-Identifier: Apache-2.0

// Package api is the typed HTTP client for the Sideseat server. It
// owns the wire shapes (resources, pagination envelope, error body)
// and the transport concerns (bearer auth, compressed responses); it
// performs no caching. The query package layers caching, deduplication,
// and failure reporting on top of the List/Get methods here.
//
// All network semantics belong to the server: this client sends what
// it is told and decodes what comes back.
package api
