// Copyright 2026 The Sideseat Authors
// SPDX-License-Identifier: Apache-2.0

package query

import "reflect"

// share merges a refetched value with the previously cached one,
// preserving reference identity for sub-trees that did not change. A
// refetch that returns identical data yields the exact cached value;
// a partial change reuses the unchanged pointers and slices, so
// downstream code that compares by identity (memoized view models)
// sees stable references.
//
// Only pointer, slice, map, and interface values carry identity in
// Go; struct fields of those kinds are rewritten in place on the new
// value. Unexported fields are left alone; the api types this cache
// stores have none.
func share(oldValue, newValue any) any {
	if oldValue == nil || newValue == nil {
		return newValue
	}
	old := reflect.ValueOf(oldValue)
	updated := reflect.ValueOf(newValue)
	if old.Type() != updated.Type() {
		return newValue
	}
	return shareValue(old, updated).Interface()
}

// shareValue returns old when old and updated are deep-equal, and
// otherwise returns updated with equal sub-values swapped back in.
func shareValue(old, updated reflect.Value) reflect.Value {
	switch updated.Kind() {
	case reflect.Pointer:
		if old.IsNil() || updated.IsNil() {
			return updated
		}
		if reflect.DeepEqual(old.Interface(), updated.Interface()) {
			return old
		}
		shareInto(old.Elem(), updated.Elem())
		return updated

	case reflect.Slice, reflect.Map, reflect.Interface:
		if reflect.DeepEqual(old.Interface(), updated.Interface()) {
			return old
		}
		if updated.Kind() == reflect.Slice && old.Kind() == reflect.Slice {
			shareElements(old, updated)
		}
		return updated

	default:
		return updated
	}
}

// shareInto rewrites identity-carrying fields of the addressable
// struct updated, reusing old's fields where deep-equal.
func shareInto(old, updated reflect.Value) {
	if updated.Kind() != reflect.Struct || old.Kind() != reflect.Struct {
		return
	}
	for i := 0; i < updated.NumField(); i++ {
		newField := updated.Field(i)
		oldField := old.Field(i)
		if !newField.CanSet() {
			continue
		}
		switch newField.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
			newField.Set(shareValue(oldField, newField))
		case reflect.Struct:
			shareInto(oldField, newField)
		}
	}
}

// shareElements walks the overlapping prefix of two slices, reusing
// old elements (or their sub-values) where they match.
func shareElements(old, updated reflect.Value) {
	length := updated.Len()
	if old.Len() < length {
		length = old.Len()
	}
	for i := 0; i < length; i++ {
		element := updated.Index(i)
		switch element.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
			element.Set(shareValue(old.Index(i), element))
		case reflect.Struct:
			shareInto(old.Index(i), element)
		}
	}
}
