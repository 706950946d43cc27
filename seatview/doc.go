// Copyright 2026 The Sideseat Authors
// SPDX-License-Identifier: Apache-2.0

// Package seatview implements the terminal console for browsing
// Sideseat telemetry. Built on bubbletea (Elm architecture), it
// renders a navigation sidebar next to a content pane that shows
// organizations, projects, sessions, and per-project stats, all
// loaded through the query cache in [lib/query].
//
// The [Source] interface decouples the UI from the data backend:
// [CacheSource] routes every read through a query.Cache in front of
// the Sideseat HTTP client, so screens get stale-while-revalidate
// freshness and request dedup for free. Tests substitute an in-memory
// Source.
//
// Data flow:
//
//	[Sideseat server]
//	        | (lib/api client)
//	  [query.Cache]
//	        | (Source interface)
//	    [Model] <- bubbletea event loop
//	        |
//	  [terminal output]
package seatview
