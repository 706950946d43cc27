// Copyright 2026 The Sideseat Authors
// SPDX-License-Identifier: Apache-2.0

// Package timerange defines the closed set of time windows the console
// offers for telemetry views. The server's stats endpoint takes an
// explicit from/to pair; a Range is the client-side shorthand that
// expands to that pair against the current time.
package timerange

import (
	"fmt"
	"time"
)

// Range identifies one supported time window. The zero value is
// Last5m so an uninitialized selector still points at a real range;
// there is deliberately no "none" member.
type Range int

const (
	// Last5m covers the trailing five minutes.
	Last5m Range = iota
	// Last30m covers the trailing thirty minutes.
	Last30m
	// Last1h covers the trailing hour.
	Last1h
	// Last6h covers the trailing six hours.
	Last6h
	// Last24h covers the trailing day.
	Last24h
	// Last7d covers the trailing week.
	Last7d
)

// Ranges returns all supported ranges in display order.
func Ranges() []Range {
	return []Range{Last5m, Last30m, Last1h, Last6h, Last24h, Last7d}
}

// Label returns the short display label shown on the selector control.
func (r Range) Label() string {
	switch r {
	case Last5m:
		return "5m"
	case Last30m:
		return "30m"
	case Last1h:
		return "1h"
	case Last6h:
		return "6h"
	case Last24h:
		return "24h"
	case Last7d:
		return "7d"
	default:
		return fmt.Sprintf("unknown(%d)", int(r))
	}
}

// Duration returns the window length.
func (r Range) Duration() time.Duration {
	switch r {
	case Last5m:
		return 5 * time.Minute
	case Last30m:
		return 30 * time.Minute
	case Last1h:
		return time.Hour
	case Last6h:
		return 6 * time.Hour
	case Last24h:
		return 24 * time.Hour
	case Last7d:
		return 7 * 24 * time.Hour
	default:
		return 0
	}
}

// Window expands the range to the concrete (from, to) pair the stats
// endpoint expects, ending at now.
func (r Range) Window(now time.Time) (from, to time.Time) {
	return now.Add(-r.Duration()), now
}

// Parse maps a label back to its Range. Used for the --range flag and
// the config file.
func Parse(label string) (Range, error) {
	for _, r := range Ranges() {
		if r.Label() == label {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown time range %q (valid: 5m, 30m, 1h, 6h, 24h, 7d)", label)
}
