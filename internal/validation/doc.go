// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

// Package validation validates API request structs with
// go-playground/validator v10.
//
// A single validator instance is shared by all handlers. Beyond the built-in
// rules it registers:
//   - sessionid: letters, digits, '-' and '_' only (empty passes, pair with required)
//   - notblank: rejects strings that are only whitespace
//
// Failures convert to the VALIDATION_ERROR envelope with ToAPIError:
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
package validation
