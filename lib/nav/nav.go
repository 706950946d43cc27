// Copyright 2026 The Sideseat Authors
// SPDX-License-Identifier: Apache-2.0

// Package nav computes which top-level navigation entry is active for
// the console's current route, and resolves destinations that depend
// on the selected project.
//
// Entries are static configuration defined once at startup. Active
// state is never stored: Resolve is a pure function of (entries,
// path, contextID) and is recomputed on every route or context change.
package nav

import "strings"

// MatchRule selects how an entry's Target is compared against the
// current path.
type MatchRule int

const (
	// MatchExact activates the entry only when the path equals Target
	// exactly. Used for the root entry so sibling routes do not
	// falsely activate it.
	MatchExact MatchRule = iota

	// MatchPrefix activates the entry when the path starts with
	// Target.
	MatchPrefix
)

// Destination is where an entry navigates to. Exactly two variants
// exist: Static for fixed paths and Dynamic for paths that depend on
// a context identifier (the selected project).
type Destination interface {
	isDestination()
}

// Static is a fixed destination path.
type Static string

func (Static) isDestination() {}

// Dynamic computes a destination from the current context identifier.
// The function must return a valid path when the identifier is empty
// (typically the base path without its query parameter).
type Dynamic func(contextID string) string

func (Dynamic) isDestination() {}

// Entry is one navigation item. Defined once at process start and
// immutable thereafter.
type Entry struct {
	// Label is the display name.
	Label string

	// Icon is the glyph rendered before the label.
	Icon string

	// Dest is where the entry navigates to.
	Dest Destination

	// Rule selects exact or prefix matching against Target.
	Rule MatchRule

	// Target is the path (MatchExact) or path prefix (MatchPrefix)
	// that activates the entry.
	Target string
}

// Resolved is the per-render output for one entry.
type Resolved struct {
	Entry Entry

	// Active reports whether this entry matches the current path. At
	// most one Resolved in a Resolve result is active: when multiple
	// entries match (overlapping prefixes), the first in entry order
	// wins.
	Active bool

	// Destination is the concrete path to navigate to, with Dynamic
	// destinations already resolved against the context identifier.
	Destination string
}

// Resolve computes the active entry and concrete destinations for the
// given path and context identifier. The result preserves entry order.
func Resolve(entries []Entry, path, contextID string) []Resolved {
	resolved := make([]Resolved, len(entries))
	activeFound := false
	for i, entry := range entries {
		active := false
		if !activeFound && matches(entry, path) {
			active = true
			activeFound = true
		}
		resolved[i] = Resolved{
			Entry:       entry,
			Active:      active,
			Destination: resolveDestination(entry.Dest, contextID),
		}
	}
	return resolved
}

// matches reports whether the entry's rule matches the path.
func matches(entry Entry, path string) bool {
	switch entry.Rule {
	case MatchExact:
		return path == entry.Target
	case MatchPrefix:
		return strings.HasPrefix(path, entry.Target)
	default:
		return false
	}
}

// resolveDestination collapses a Destination to its concrete path.
func resolveDestination(dest Destination, contextID string) string {
	switch d := dest.(type) {
	case Static:
		return string(d)
	case Dynamic:
		return d(contextID)
	default:
		return ""
	}
}
