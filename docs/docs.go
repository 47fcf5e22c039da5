// Package docs registers the OpenAPI description served on /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/auth/sign-in": {
            "post": {"tags": ["auth"], "summary": "Sign in", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}
        },
        "/auth/sign-up": {
            "post": {"tags": ["auth"], "summary": "Sign up", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/health": {
            "get": {"tags": ["system"], "summary": "Liveness", "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/zones": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["zones"], "summary": "List zones", "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/zones/{id}/status": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["zones"], "summary": "Zone status", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/api/v1/zones/{id}/next-event": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["zones"], "summary": "Next event and target", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/api/v1/zones/{id}/upcoming": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["zones"], "summary": "Upcoming events", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}, {"type": "string", "name": "horizon", "in": "query"}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}
        },
        "/api/v1/zones/{id}/schedule": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["schedules"], "summary": "Weekly schedule", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/api/v1/schedules/grouped": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["schedules"], "summary": "Grouped schedules", "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/overrides/adjust": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["overrides"], "summary": "Adjust target", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}
        },
        "/api/v1/settings": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["settings"], "summary": "Get settings", "responses": {"200": {"description": "OK"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["settings"], "summary": "Update eco temperature", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/api/v1/logs/": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["logs"], "summary": "List temperature logs", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/api/v1/logs/export": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["logs"], "summary": "Export temperature logs as xlsx", "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"], "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/dashboard": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["zones"], "summary": "All zone statuses", "responses": {"200": {"description": "OK"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Zone Heating API",
	Description:      "Multi-zone heating control: schedules, manual overrides and live status.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
