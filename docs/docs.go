// Package docs registers the Swagger 2.0 document served at /docs.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}}}
            }
        },
        "/health/db": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Database health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object"}}
                }
            }
        },
        "/health/cache": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Cache health check",
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}}}
            }
        },
        "/api/v1/matches": {
            "get": {
                "produces": ["application/json"],
                "tags": ["matches"],
                "summary": "List matches",
                "description": "Returns matches newest first. Each row's status is recomputed and persisted if stale.",
                "parameters": [
                    {"type": "integer", "description": "Max rows (1-100, default 50)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/respond.EventsResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["matches"],
                "summary": "Create match",
                "description": "Validates the payload, derives status from the window and the current time, and persists the match.",
                "parameters": [
                    {"description": "Match", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateMatchRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/respond.DataResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}}
                }
            }
        },
        "/api/v1/matches/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["matches"],
                "summary": "Get match",
                "parameters": [
                    {"type": "integer", "description": "Match ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/respond.DataResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}}
                }
            }
        },
        "/api/v1/matches/{id}/score": {
            "patch": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["matches"],
                "summary": "Update match score",
                "parameters": [
                    {"type": "integer", "description": "Match ID", "name": "id", "in": "path", "required": true},
                    {"description": "Scores", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/match.ScoreUpdate"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/respond.DataResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}}
                }
            }
        },
        "/api/v1/matches/{id}/commentary": {
            "get": {
                "produces": ["application/json"],
                "tags": ["commentary"],
                "summary": "List commentary",
                "description": "Returns entries ordered by sequence ascending.",
                "parameters": [
                    {"type": "integer", "description": "Match ID", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "description": "Max rows (1-100, default 100)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/respond.DataResponse"}},
                    "304": {"description": "Not modified"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["commentary"],
                "summary": "Create commentary",
                "description": "Persists the entry, then publishes commentary.created on match-{id}. A failed broadcast does not fail the request.",
                "parameters": [
                    {"type": "integer", "description": "Match ID", "name": "id", "in": "path", "required": true},
                    {"description": "Entry", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateCommentaryRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/respond.DataResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}}
                }
            }
        },
        "/ws": {
            "get": {
                "tags": ["feed"],
                "summary": "WebSocket live feed",
                "description": "Upgrade to a WebSocket. Send {\"type\":\"subscribe\",\"matchId\":N} to follow a match.",
                "parameters": [
                    {"type": "integer", "description": "Pre-subscribe to a match", "name": "matchId", "in": "query"}
                ],
                "responses": {"101": {"description": "Switching Protocols"}}
            }
        }
    },
    "definitions": {
        "CreateMatchRequest": {
            "type": "object",
            "required": ["sport", "homeTeam", "awayTeam", "startTime", "endTime"],
            "properties": {
                "sport": {"type": "string", "maxLength": 100},
                "homeTeam": {"type": "string", "maxLength": 255},
                "awayTeam": {"type": "string", "maxLength": 255},
                "startTime": {"type": "string", "format": "date-time"},
                "endTime": {"type": "string", "format": "date-time"},
                "homeScore": {"type": "integer", "minimum": 0},
                "awayScore": {"type": "integer", "minimum": 0}
            }
        },
        "CreateCommentaryRequest": {
            "type": "object",
            "required": ["sequence", "eventType", "message"],
            "properties": {
                "minute": {"type": "integer", "minimum": 0},
                "sequence": {"type": "integer"},
                "period": {"type": "string", "maxLength": 50},
                "eventType": {"type": "string", "maxLength": 100},
                "actor": {"type": "string", "maxLength": 255},
                "team": {"type": "string", "maxLength": 255},
                "message": {"type": "string", "minLength": 1, "maxLength": 1000},
                "metadata": {"type": "object"},
                "tags": {"type": "array", "items": {"type": "string"}}
            }
        },
        "match.ScoreUpdate": {
            "type": "object",
            "required": ["homeScore", "awayScore"],
            "properties": {
                "homeScore": {"type": "integer", "minimum": 0},
                "awayScore": {"type": "integer", "minimum": 0}
            }
        },
        "respond.DataResponse": {
            "type": "object",
            "properties": {"data": {}}
        },
        "respond.EventsResponse": {
            "type": "object",
            "properties": {"events": {"type": "array", "items": {"type": "object"}}}
        },
        "respond.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "details": {"type": "array", "items": {"$ref": "#/definitions/validate.Issue"}}
            }
        },
        "validate.Issue": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "path": {"type": "array", "items": {"type": "string"}},
                "message": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Scoracle Live API",
	Description:      "Match tracking and live commentary feed.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
