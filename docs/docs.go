// Package docs registers the OpenAPI description served at /swagger. It
// follows the layout swag init produces; regenerate with
// swag init -g cmd/main.go after changing handler annotations.
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
            "get": {"tags": ["health"], "summary": "Health check", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}
        },
        "/oauth/token": {
            "post": {
                "tags": ["OAuth2"],
                "summary": "Token endpoint",
                "consumes": ["application/x-www-form-urlencoded"],
                "parameters": [
                    {"type": "string", "name": "grant_type", "in": "formData", "required": true},
                    {"type": "string", "name": "client_id", "in": "formData", "required": true},
                    {"type": "string", "name": "client_secret", "in": "formData", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/api/register": {
            "post": {
                "tags": ["auth"],
                "summary": "Register a customer or chef",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"type": "string", "name": "email", "in": "formData", "required": true},
                    {"type": "string", "name": "password", "in": "formData", "required": true},
                    {"type": "integer", "name": "user_type", "in": "formData", "required": true},
                    {"type": "file", "name": "photo", "in": "formData"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Envelope"}}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}
            }
        },
        "/api/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Log in",
                "consumes": ["application/x-www-form-urlencoded"],
                "parameters": [
                    {"type": "string", "name": "email", "in": "formData", "required": true},
                    {"type": "string", "name": "password", "in": "formData", "required": true}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Envelope"}}, "401": {"description": "Unauthorized"}, "429": {"description": "Too Many Requests"}}
            }
        },
        "/api/verify_phone": {
            "post": {"tags": ["auth"], "summary": "Send or check a phone verification code", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/api/get_appliances": {"get": {"tags": ["catalog"], "summary": "List appliances", "responses": {"200": {"description": "OK"}}}},
        "/api/get_allergens": {"get": {"tags": ["catalog"], "summary": "List allergens", "responses": {"200": {"description": "OK"}}}},
        "/api/get_zipcodes": {"get": {"tags": ["catalog"], "summary": "List served ZIP codes", "responses": {"200": {"description": "OK"}}}},
        "/api/get_categories": {"get": {"tags": ["catalog"], "summary": "List categories", "responses": {"200": {"description": "OK"}}}},
        "/api/create_category": {"post": {"security": [{"BearerAuth": []}], "tags": ["catalog"], "summary": "Propose a category", "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}}},
        "/api/delete_category/{id}": {"delete": {"security": [{"BearerAuth": []}], "tags": ["catalog"], "summary": "Withdraw a proposed category", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}}},
        "/api/get_users": {"get": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "List users", "responses": {"200": {"description": "OK"}}}},
        "/api/get_chef_profile/{id}": {"get": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Get a chef's profile", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/api/get_chef_menus/{id}": {"get": {"security": [{"BearerAuth": []}], "tags": ["menus"], "summary": "List a chef's menu items", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/api/create_menu": {"post": {"security": [{"BearerAuth": []}], "tags": ["menus"], "summary": "Create a menu item", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/api/update_menu/{id}": {"post": {"security": [{"BearerAuth": []}], "tags": ["menus"], "summary": "Update a menu item", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}}},
        "/api/delete_menu/{id}": {"delete": {"security": [{"BearerAuth": []}], "tags": ["menus"], "summary": "Delete a menu item", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}}},
        "/api/AnalyzeMenuMetadataAPI": {"post": {"security": [{"BearerAuth": []}], "tags": ["assistant"], "summary": "Suggest category, allergen and appliance ids", "responses": {"200": {"description": "OK"}, "502": {"description": "Bad Gateway"}, "503": {"description": "Service Unavailable"}}}},
        "/api/GenerateMenuDescriptionAPI": {"post": {"security": [{"BearerAuth": []}], "tags": ["assistant"], "summary": "Suggest a description for a title", "responses": {"200": {"description": "OK"}, "502": {"description": "Bad Gateway"}, "503": {"description": "Service Unavailable"}}}},
        "/api/EnhanceMenuDescriptionAPI": {"post": {"security": [{"BearerAuth": []}], "tags": ["assistant"], "summary": "Rewrite a description", "responses": {"200": {"description": "OK"}, "502": {"description": "Bad Gateway"}, "503": {"description": "Service Unavailable"}}}},
        "/api/get_payment_method": {"get": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Get the caller's saved card", "responses": {"200": {"description": "OK"}, "502": {"description": "Bad Gateway"}}}},
        "/api/update_fcm_token": {"post": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Store the device push token", "responses": {"200": {"description": "OK"}}}},
        "/api/admin/clients": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["clients"], "summary": "List the caller's API clients", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["clients"], "summary": "Create an API client", "responses": {"200": {"description": "OK"}}}
        },
        "/api/admin/clients/{id}": {"delete": {"security": [{"BearerAuth": []}], "tags": ["clients"], "summary": "Delete an API client", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}}
    },
    "definitions": {
        "models.Envelope": {
            "type": "object",
            "properties": {
                "success": {"type": "integer"},
                "message": {"type": "string"},
                "error": {"type": "string"},
                "data": {}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {"type": "apiKey", "name": "apikey", "in": "header"},
        "BearerAuth": {"description": "Type \"Bearer\" followed by a space and JWT token.", "type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Taist API",
	Description:      "Marketplace API for home chefs and their customers",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
