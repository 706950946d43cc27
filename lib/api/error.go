// Copyright 2026 The Sideseat Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a decoded API error response. The server answers failures
// with a JSON body of the form
//
//	{"error": "not_found", "code": "PROJECT_NOT_FOUND", "message": "..."}
//
// Type is the broad category ("bad_request", "not_found", ...), Code
// the machine-readable detail, Message the human-readable text.
type Error struct {
	// Status is the HTTP status code.
	Status int `json:"-"`

	// Type is the error category from the body's "error" field.
	Type string `json:"error"`

	// Code is the machine-readable error code.
	Code string `json:"code"`

	// Message is the human-readable description.
	Message string `json:"message"`
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%s): %s", e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// IsNotFound reports whether err is an API error with status 404.
func IsNotFound(err error) bool {
	var apiError *Error
	return errors.As(err, &apiError) && apiError.Status == http.StatusNotFound
}

// IsUnauthorized reports whether err is an API error with status 401.
// Callers use this to trigger a re-prompt for the API key rather than
// retrying.
func IsUnauthorized(err error) bool {
	var apiError *Error
	return errors.As(err, &apiError) && apiError.Status == http.StatusUnauthorized
}
