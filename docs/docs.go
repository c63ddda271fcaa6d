// Package docs registers the OpenAPI description served at /swagger/*.
// Regenerate with: swag init -g cmd/server/main.go -o docs
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
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/api/register": {"post": {"tags": ["auth"], "summary": "Register a new user",
            "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.registerRequest"}}],
            "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.authResponse"}},
                "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorResponse"}}}}},
        "/api/login": {"post": {"tags": ["auth"], "summary": "Login",
            "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.loginRequest"}}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.authResponse"}},
                "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}}}},
        "/api/profile": {"get": {"tags": ["auth"], "summary": "Current user", "security": [{"BearerAuth": []}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.User"}}}}},
        "/api/messages": {
            "post": {"tags": ["messages"], "summary": "Send a message to the counterparty", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.sendMessageRequest"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"},
                    "422": {"description": "Unprocessable Entity"}, "503": {"description": "Service Unavailable"}}},
            "get": {"tags": ["messages"], "summary": "Message history", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "query", "name": "limit", "type": "integer"}],
                "responses": {"200": {"description": "OK"}}}},
        "/api/activities": {"post": {"tags": ["activities"], "summary": "Log an activity", "security": [{"BearerAuth": []}],
            "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.logActivityRequest"}}],
            "responses": {"201": {"description": "Created"}}}},
        "/api/users": {"get": {"tags": ["users"], "summary": "List users", "security": [{"BearerAuth": []}],
            "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}},
        "/ws": {"get": {"tags": ["realtime"], "summary": "Open the push channel",
            "parameters": [{"in": "query", "name": "token", "type": "string", "required": true}],
            "responses": {"101": {"description": "Switching Protocols"}, "401": {"description": "Unauthorized"}}}},
        "/health": {"get": {"tags": ["health"], "summary": "Liveness probe", "responses": {"200": {"description": "OK"}}}},
        "/health/ready": {"get": {"tags": ["health"], "summary": "Readiness probe",
            "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}}
    },
    "definitions": {
        "domain.User": {"type": "object", "properties": {
            "id": {"type": "string"}, "email": {"type": "string"}, "name": {"type": "string"},
            "role": {"type": "string"}, "created_at": {"type": "string"}}},
        "handler.errorResponse": {"type": "object", "properties": {"error": {"type": "string"}}},
        "handler.registerRequest": {"type": "object", "required": ["email", "password"], "properties": {
            "email": {"type": "string"}, "password": {"type": "string"}, "name": {"type": "string"}, "role": {"type": "string"}}},
        "handler.loginRequest": {"type": "object", "required": ["email", "password"], "properties": {
            "email": {"type": "string"}, "password": {"type": "string"}}},
        "handler.authResponse": {"type": "object", "properties": {
            "message": {"type": "string"}, "token": {"type": "string"}, "user": {"$ref": "#/definitions/domain.User"}}},
        "handler.sendMessageRequest": {"type": "object", "properties": {
            "content": {"type": "string"}, "type": {"type": "string"}}},
        "handler.logActivityRequest": {"type": "object", "properties": {
            "activity_type": {"type": "string"}, "details": {"type": "string"}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "SweetConnect Messaging API",
	Description:      "Two-party messaging with live push delivery and mail notifications.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
