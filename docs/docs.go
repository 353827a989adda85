// Package docs serves the OpenAPI description of the fare service. Regenerate with
// `swag init -g docs/swagger_fare.go -o docs` after changing handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {"name": "Fair Fares maintainers"},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {"get": {"tags": ["Health"], "summary": "Health Check", "produces": ["application/json"],
            "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}},
        "/auth/signup": {"post": {"tags": ["Auth"], "summary": "Register a student", "consumes": ["application/json"], "produces": ["application/json"],
            "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.SignupRequest"}}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Profile"}}, "400": {"description": "Bad Request"}, "422": {"description": "Unprocessable Entity"}}}},
        "/auth/login": {"post": {"tags": ["Auth"], "summary": "Authenticate with SRCODE and password", "consumes": ["application/json"], "produces": ["application/json"],
            "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.LoginRequest"}}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.LoginResponse"}}, "429": {"description": "Too Many Requests"}}}},
        "/auth/me": {"get": {"security": [{"BearerAuth": []}], "tags": ["Auth"], "summary": "Profile of the authenticated student", "produces": ["application/json"],
            "parameters": [{"type": "string", "name": "srcode", "in": "query", "required": true}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Profile"}}, "401": {"description": "Unauthorized"}, "404": {"description": "Not Found"}}}},
        "/fare/calculate": {"post": {"security": [{"BearerAuth": []}], "tags": ["Fare"], "summary": "Price a route", "consumes": ["application/json"], "produces": ["application/json"],
            "parameters": [{"type": "string", "name": "srcode", "in": "query", "required": true}, {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/models.CalculateRequest"}}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.FareResult"}}, "400": {"description": "Bad Request"}}}},
        "/fare/save": {"post": {"security": [{"BearerAuth": []}], "tags": ["Fare"], "summary": "Save a calculated fare", "consumes": ["application/json"], "produces": ["application/json"],
            "parameters": [{"type": "string", "name": "srcode", "in": "query", "required": true}, {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/models.SaveRequest"}}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SaveResponse"}}, "422": {"description": "Unprocessable Entity"}}}},
        "/fare/user-history": {"get": {"security": [{"BearerAuth": []}], "tags": ["Fare"], "summary": "Saved fares, most recent first", "produces": ["application/json"],
            "parameters": [{"type": "string", "name": "srcode", "in": "query", "required": true}],
            "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.FareRecord"}}}}}},
        "/fare/delete/{id}": {"delete": {"security": [{"BearerAuth": []}], "tags": ["Fare"], "summary": "Delete one of the caller's fare records", "produces": ["application/json"],
            "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}, {"type": "string", "name": "srcode", "in": "query", "required": true}],
            "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/fare/weekly-average": {"get": {"security": [{"BearerAuth": []}], "tags": ["Fare"], "summary": "Average total fare over the trailing seven days", "produces": ["application/json"],
            "parameters": [{"type": "string", "name": "srcode", "in": "query", "required": true}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.WeeklyAverage"}}}}},
        "/ws/dashboard/{srcode}": {"get": {"security": [{"BearerAuth": []}], "tags": ["Dashboard"], "summary": "Live dashboard updates",
            "parameters": [{"type": "string", "name": "srcode", "in": "path", "required": true}],
            "responses": {"101": {"description": "Switching Protocols"}, "401": {"description": "Unauthorized"}}}}
    },
    "definitions": {
        "dto.SignupRequest": {"type": "object", "properties": {"srcode": {"type": "string"}, "name": {"type": "string"}, "college": {"type": "string"}, "password": {"type": "string"}}},
        "dto.LoginRequest": {"type": "object", "properties": {"srcode": {"type": "string"}, "password": {"type": "string"}}},
        "models.Profile": {"type": "object", "properties": {"srcode": {"type": "string"}, "name": {"type": "string"}, "college": {"type": "string"}}},
        "models.LoginResponse": {"type": "object", "properties": {"success": {"type": "boolean"}, "user": {"$ref": "#/definitions/models.Profile"}, "message": {"type": "string"}, "token": {"type": "string"}}},
        "models.CalculateRequest": {"type": "object", "properties": {"district": {"type": "integer"}, "start_location": {"type": "string"}, "destination": {"type": "string"}, "include_trike": {"type": "boolean"}}},
        "models.FareSegment": {"type": "object", "properties": {"description": {"type": "string"}, "vehicle": {"type": "string"}, "fare": {"type": "number"}}},
        "models.FareResult": {"type": "object", "properties": {"segments": {"type": "array", "items": {"$ref": "#/definitions/models.FareSegment"}}, "trike_fare": {"type": "number"}, "total_fare": {"type": "number"}}},
        "models.SaveRequest": {"type": "object", "properties": {"district": {"type": "integer"}, "start_location": {"type": "string"}, "destination": {"type": "string"}, "include_trike": {"type": "boolean"}, "total_fare": {"type": "number"}, "trike_fare": {"type": "number"}, "fare_details": {"type": "string"}}},
        "models.SaveResponse": {"type": "object", "properties": {"message": {"type": "string"}, "id": {"type": "integer"}}},
        "models.FareRecord": {"type": "object", "properties": {"id": {"type": "integer"}, "district": {"type": "integer"}, "start_location": {"type": "string"}, "destination": {"type": "string"}, "include_trike": {"type": "boolean"}, "total_fare": {"type": "number"}, "trike_fare": {"type": "number"}, "created_at": {"type": "string"}}},
        "models.WeeklyAverage": {"type": "object", "properties": {"weekly_average": {"type": "number"}, "week_start": {"type": "string"}, "week_end": {"type": "string"}}}
    },
    "securityDefinitions": {"BearerAuth": {"description": "Type \"Bearer\" followed by a space and the token returned by /auth/login.", "type": "apiKey", "name": "Authorization", "in": "header"}}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8000",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Fair Fares API",
	Description:      "Fare guide pricing, saved fare history and weekly averages for BSU commuters.",
	InfoInstanceName: "fare",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
