// Copyright 2026 The Sideseat Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for seatview packages.
//
// The helpers wrap channel operations with timeout safety valves so
// individual tests never hand-roll time.After selects. The
// asynchronous paths under test are the query cache's background
// refreshes and its failure reporter, both of which deliver on
// channels in tests.
package testutil
