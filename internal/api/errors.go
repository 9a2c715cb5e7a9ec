// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/cadence/internal/playlist"
	"github.com/tomtom215/cadence/internal/validation"
)

// Error codes returned in the APIError envelope.
const (
	CodeValidation         = validation.ErrorCode
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeNoTracks           = "NO_TRACKS_AVAILABLE"
	CodeTimeout            = "TIMEOUT"
	CodeCanceled           = "REQUEST_CANCELED"
	CodeInternal           = "INTERNAL_ERROR"
	CodeRateLimited        = "RATE_LIMITED"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// statusForError maps a generation error to an HTTP status, error code and
// client-safe message.
func statusForError(err error) (int, string, string) {
	var empty *playlist.EmptyCatalogError
	switch {
	case errors.As(err, &empty):
		return http.StatusServiceUnavailable, CodeNoTracks, "No tracks are available to build a playlist"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, CodeTimeout, "Playlist generation timed out"
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout, CodeCanceled, "Request was canceled"
	default:
		return http.StatusInternalServerError, CodeInternal, "Playlist generation failed"
	}
}
