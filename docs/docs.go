// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

// Package docs registers the OpenAPI document served under /swagger.
// It is generated by swag init from the handler annotations; regenerate
// after changing them:
//
//	swag init -g cmd/server/docs.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "GitHub Repository",
            "url": "https://github.com/tomtom215/cadence/issues"
        },
        "license": {
            "name": "AGPL-3.0-or-later",
            "url": "https://www.gnu.org/licenses/agpl-3.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health/live": {
            "get": {
                "description": "Returns 200 OK if the process is alive, regardless of external dependencies.",
                "produces": ["application/json"],
                "tags": ["Core"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "Service is alive", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/health/ready": {
            "get": {
                "description": "Returns 200 OK when the catalog is reachable, with the current track count. Returns 503 otherwise.",
                "produces": ["application/json"],
                "tags": ["Core"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "Service is ready", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "503": {"description": "Service is not ready", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/playlists/generate": {
            "post": {
                "description": "Classifies the prompt, retrieves candidate tracks from the catalog, selects an ordered subset and names the result.\nWhen the text-generation service is unavailable the request still succeeds with degraded=true.\nProgress events for session_id are pushed over /ws while the request runs.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Playlists"],
                "summary": "Generate a playlist from a prompt",
                "parameters": [
                    {
                        "description": "Prompt and options",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/models.GeneratePlaylistRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Playlist generated",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/models.APIResponse"},
                                {"type": "object", "properties": {"data": {"$ref": "#/definitions/models.PlaylistResponse"}}}
                            ]
                        }
                    },
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "429": {"description": "Rate limited", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "503": {"description": "Catalog has no tracks", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "504": {"description": "Generation timed out", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/ws": {
            "get": {
                "description": "Upgrades to a WebSocket that receives {\"type\":\"progress\",\"data\":{...}} messages for session_id.\nSend {\"type\":\"ping\"} to receive a pong.",
                "tags": ["Realtime"],
                "summary": "Subscribe to generation progress",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Session id used in the generate request",
                        "name": "session_id",
                        "in": "query",
                        "required": true
                    }
                ],
                "responses": {
                    "101": {"description": "Switching protocols"},
                    "400": {"description": "Missing or invalid session_id", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "503": {"description": "WebSocket service unavailable", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "details": {"type": "object", "additionalProperties": true},
                "message": {"type": "string"}
            }
        },
        "models.APIResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {"$ref": "#/definitions/models.APIError"},
                "metadata": {"$ref": "#/definitions/models.Metadata"},
                "status": {"type": "string"}
            }
        },
        "models.CandidateTrack": {
            "type": "object",
            "properties": {
                "artists": {"type": "array", "items": {"type": "string"}},
                "danceability": {"type": "number"},
                "duration_seconds": {"type": "integer"},
                "energy": {"type": "number"},
                "explicit": {"type": "boolean"},
                "genres": {"type": "array", "items": {"type": "string"}},
                "id": {"type": "string"},
                "popularity": {"type": "integer"},
                "preview_url": {"type": "string"},
                "title": {"type": "string"},
                "valence": {"type": "number"}
            }
        },
        "models.GeneratePlaylistRequest": {
            "type": "object",
            "required": ["prompt"],
            "properties": {
                "prompt": {"type": "string", "maxLength": 1000, "minLength": 1},
                "session_id": {"type": "string", "maxLength": 128},
                "target_size": {"type": "integer", "maximum": 100, "minimum": 0}
            }
        },
        "models.HealthStatus": {
            "type": "object",
            "properties": {
                "database": {"type": "string"},
                "llm": {"type": "string"},
                "status": {"type": "string"},
                "track_count": {"type": "integer"},
                "uptime": {"type": "string"},
                "version": {"type": "string"}
            }
        },
        "models.Metadata": {
            "type": "object",
            "properties": {
                "query_time_ms": {"type": "integer"},
                "timestamp": {"type": "string"}
            }
        },
        "models.PlaylistResponse": {
            "type": "object",
            "properties": {
                "degraded": {"type": "boolean"},
                "description": {"type": "string"},
                "duration_seconds": {"type": "integer"},
                "requested": {"type": "integer"},
                "strategy": {"type": "string"},
                "title": {"type": "string"},
                "track_count": {"type": "integer"},
                "tracks": {"type": "array", "items": {"$ref": "#/definitions/models.CandidateTrack"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:3857",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "Cadence API",
	Description:      "Turns natural-language prompts into playlists drawn from a music catalog.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
