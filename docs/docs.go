// Package docs registers the OpenAPI description served under /swagger.
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
        "/tournaments": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tournaments"],
                "summary": "List tournaments, most recently updated first",
                "parameters": [
                    {"type": "integer", "name": "limit", "in": "query"},
                    {"type": "integer", "name": "offset", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tournaments"],
                "summary": "Create a tournament",
                "parameters": [
                    {"name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateTournamentInput"}}
                ],
                "responses": {
                    "201": {"description": "Created tournament snapshot"},
                    "400": {"description": "Malformed body"},
                    "422": {"description": "Validation failed"}
                }
            }
        },
        "/tournaments/{tournamentID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tournaments"],
                "summary": "Get a tournament snapshot",
                "parameters": [{"type": "string", "name": "tournamentID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            }
        },
        "/tournaments/{tournamentID}/schedule": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["tournaments"],
                "summary": "Generate round-robin matches",
                "parameters": [
                    {"type": "string", "name": "tournamentID", "in": "path", "required": true},
                    {"type": "string", "name": "group_id", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}, "409": {"description": "Already scheduled"}}
            }
        },
        "/tournaments/{tournamentID}/matches/{matchID}/result": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["matches"],
                "summary": "Record or correct a match result",
                "parameters": [
                    {"type": "string", "name": "tournamentID", "in": "path", "required": true},
                    {"type": "string", "name": "matchID", "in": "path", "required": true},
                    {"name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ResultInput"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Tournament or match not found"},
                    "409": {"description": "Winner already advanced and played"},
                    "422": {"description": "Invalid or tied score"}
                }
            }
        },
        "/tournaments/{tournamentID}/standings": {
            "get": {
                "produces": ["application/json"],
                "tags": ["standings"],
                "summary": "Group standings in position order",
                "parameters": [{"type": "string", "name": "tournamentID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            }
        },
        "/tournaments/{tournamentID}/standings/recompute": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["standings"],
                "summary": "Rebuild every table from stored matches",
                "parameters": [{"type": "string", "name": "tournamentID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            }
        },
        "/tournaments/{tournamentID}/bracket": {
            "get": {
                "produces": ["application/json"],
                "tags": ["bracket"],
                "summary": "Elimination bracket grouped by round",
                "parameters": [{"type": "string", "name": "tournamentID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Tournament missing or bracket not built"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["bracket"],
                "summary": "Close the group stage and seed the elimination bracket",
                "parameters": [{"type": "string", "name": "tournamentID", "in": "path", "required": true}],
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Bracket already built"},
                    "422": {"description": "Standings incomplete or too few qualifiers"}
                }
            }
        },
        "/tournaments/{tournamentID}/board": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tournaments"],
                "summary": "Live board: tables, bracket and champion",
                "parameters": [{"type": "string", "name": "tournamentID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            }
        }
    },
    "definitions": {
        "TeamInput": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "participant_ids": {"type": "array", "items": {"type": "string"}},
                "seed": {"type": "integer"}
            }
        },
        "CreateTournamentInput": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "teams": {"type": "array", "items": {"$ref": "#/definitions/TeamInput"}},
                "groups": {"type": "array", "items": {"type": "array", "items": {"type": "string"}}},
                "settings": {"$ref": "#/definitions/Settings"}
            }
        },
        "Settings": {
            "type": "object",
            "properties": {
                "points_per_win": {"type": "integer"},
                "advance_per_group": {"type": "integer"},
                "group_capacity": {"type": "integer"},
                "scoring_mode": {"type": "string", "enum": ["sets", "games"]},
                "cross_group_seeding": {"type": "boolean"}
            }
        },
        "SetScore": {
            "type": "object",
            "properties": {"team1": {"type": "integer"}, "team2": {"type": "integer"}}
        },
        "ResultInput": {
            "type": "object",
            "properties": {
                "score1": {"type": "integer"},
                "score2": {"type": "integer"},
                "sets": {"type": "array", "items": {"$ref": "#/definitions/SetScore"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Tournament Brackets API",
	Description:      "Group round-robin, standings and seeded single-elimination brackets.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
