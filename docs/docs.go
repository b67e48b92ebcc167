// Package docs registers the OpenAPI description served at /swagger. It
// follows the handler annotations; refresh it with
// swag init -g cmd/fitpass/main.go --parseInternal -o docs
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
        "/auth/v1/signup": {
            "post": {
                "description": "Register with email and password. data.full_name seeds the profile.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Create an account",
                "parameters": [
                    {"type": "string", "description": "Anon key", "name": "apikey", "in": "header", "required": true},
                    {"description": "Credentials", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.CredentialsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.SessionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.AuthErrorBody"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/utils.AuthErrorBody"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/utils.ErrorBody"}}
                }
            }
        },
        "/auth/v1/token": {
            "post": {
                "description": "Password grant takes CredentialsRequest, refresh_token grant takes RefreshTokenRequest and rotates the refresh token.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Issue a session",
                "parameters": [
                    {"type": "string", "description": "Anon key", "name": "apikey", "in": "header", "required": true},
                    {"type": "string", "description": "password or refresh_token", "name": "grant_type", "in": "query", "required": true},
                    {"description": "Credentials or refresh token", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.CredentialsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.SessionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.AuthErrorBody"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/utils.ErrorBody"}}
                }
            }
        },
        "/auth/v1/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Auth"],
                "summary": "Revoke the session",
                "parameters": [
                    {"type": "string", "description": "Anon key", "name": "apikey", "in": "header", "required": true},
                    {"type": "string", "description": "local (default) or global", "name": "scope", "in": "query"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/utils.AuthErrorBody"}}
                }
            }
        },
        "/auth/v1/user": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Current user",
                "parameters": [
                    {"type": "string", "description": "Anon key", "name": "apikey", "in": "header", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.UserResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/utils.AuthErrorBody"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["System"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.HealthResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handlers.HealthResponse"}}
                }
            }
        },
        "/rest/v1/rpc/{fn}": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "validate_checkin, update_competition_rankings, get_or_create_referral_code, create_family_invite, accept_family_invite and advance_user_onboarding. Arguments are p_ prefixed.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["RPC"],
                "summary": "Call a remote procedure",
                "parameters": [
                    {"type": "string", "description": "Anon key", "name": "apikey", "in": "header", "required": true},
                    {"type": "string", "description": "Procedure name", "name": "fn", "in": "path", "required": true},
                    {"description": "Procedure arguments", "name": "request", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorBody"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/utils.ErrorBody"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorBody"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/utils.ErrorBody"}}
                }
            }
        },
        "/rest/v1/{table}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "PostgREST filters (col=op.value), order, limit, offset and select with embeds. Owner-scoped tables only return the caller's rows.",
                "produces": ["application/json"],
                "tags": ["REST"],
                "summary": "Read rows",
                "parameters": [
                    {"type": "string", "description": "Anon key", "name": "apikey", "in": "header", "required": true},
                    {"type": "string", "description": "academies, checkins, competitions, competition_participants, profiles or reviews", "name": "table", "in": "path", "required": true},
                    {"type": "string", "description": "Columns and embeds, e.g. *,academies(name)", "name": "select", "in": "query"},
                    {"type": "string", "description": "col.asc or col.desc", "name": "order", "in": "query"},
                    {"type": "integer", "description": "Page size", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "Rows to skip", "name": "offset", "in": "query"},
                    {"type": "string", "description": "application/vnd.pgrst.object+json for a single object", "name": "Accept", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"type": "object"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorBody"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/utils.ErrorBody"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorBody"}},
                    "406": {"description": "Not Acceptable", "schema": {"$ref": "#/definitions/utils.ErrorBody"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["REST"],
                "summary": "Insert a row",
                "parameters": [
                    {"type": "string", "description": "Anon key", "name": "apikey", "in": "header", "required": true},
                    {"type": "string", "description": "checkins, competition_participants, reviews, academies or competitions", "name": "table", "in": "path", "required": true},
                    {"type": "string", "description": "return=representation", "name": "Prefer", "in": "header"},
                    {"description": "Row", "name": "request", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"type": "array", "items": {"type": "object"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorBody"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/utils.ErrorBody"}},
                    "405": {"description": "Method Not Allowed", "schema": {"$ref": "#/definitions/utils.ErrorBody"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/utils.ErrorBody"}}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["REST"],
                "summary": "Update a row",
                "parameters": [
                    {"type": "string", "description": "Anon key", "name": "apikey", "in": "header", "required": true},
                    {"type": "string", "description": "profiles or academies", "name": "table", "in": "path", "required": true},
                    {"type": "string", "description": "eq.<id>", "name": "id", "in": "query", "required": true},
                    {"description": "Changed columns", "name": "request", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"type": "object"}}},
                    "204": {"description": "No Content"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorBody"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/utils.ErrorBody"}}
                }
            }
        },
        "/storage/v1/object/public/{bucket}/{path}": {
            "get": {
                "produces": ["application/octet-stream"],
                "tags": ["Storage"],
                "summary": "Download an object",
                "parameters": [
                    {"type": "string", "description": "Bucket", "name": "bucket", "in": "path", "required": true},
                    {"type": "string", "description": "Object path", "name": "path", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorBody"}}
                }
            }
        },
        "/storage/v1/object/{bucket}/{path}": {
            "get": {
                "produces": ["application/octet-stream"],
                "tags": ["Storage"],
                "summary": "Download an object",
                "parameters": [
                    {"type": "string", "description": "Bucket", "name": "bucket", "in": "path", "required": true},
                    {"type": "string", "description": "Object path", "name": "path", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorBody"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/octet-stream"],
                "produces": ["application/json"],
                "tags": ["Storage"],
                "summary": "Upload an object",
                "parameters": [
                    {"type": "string", "description": "Anon key", "name": "apikey", "in": "header", "required": true},
                    {"type": "string", "description": "Bucket", "name": "bucket", "in": "path", "required": true},
                    {"type": "string", "description": "Object path, first segment is the owner's user id", "name": "path", "in": "path", "required": true},
                    {"type": "boolean", "description": "Replace an existing object", "name": "x-upsert", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.UploadResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/utils.ErrorBody"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/utils.ErrorBody"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"$ref": "#/definitions/utils.ErrorBody"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Storage"],
                "summary": "Delete an object",
                "parameters": [
                    {"type": "string", "description": "Anon key", "name": "apikey", "in": "header", "required": true},
                    {"type": "string", "description": "Bucket", "name": "bucket", "in": "path", "required": true},
                    {"type": "string", "description": "Object path", "name": "path", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/utils.ErrorBody"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorBody"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.CredentialsRequest": {
            "type": "object",
            "properties": {
                "data": {"type": "object", "additionalProperties": {}},
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "handlers.HealthResponse": {
            "type": "object",
            "properties": {
                "checks": {"type": "object", "additionalProperties": {"type": "string"}},
                "status": {"type": "string"},
                "time": {"type": "string"},
                "version": {"type": "string"}
            }
        },
        "handlers.SessionResponse": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"},
                "expires_at": {"type": "integer"},
                "expires_in": {"type": "integer"},
                "refresh_token": {"type": "string"},
                "token_type": {"type": "string"},
                "user": {"$ref": "#/definitions/handlers.UserResponse"}
            }
        },
        "handlers.UploadResponse": {
            "type": "object",
            "properties": {
                "Key": {"type": "string"}
            }
        },
        "handlers.UserResponse": {
            "type": "object",
            "properties": {
                "app_metadata": {"type": "object", "additionalProperties": {}},
                "aud": {"type": "string"},
                "created_at": {"type": "string"},
                "email": {"type": "string"},
                "id": {"type": "string"},
                "last_sign_in_at": {"type": "string"},
                "role": {"type": "string"},
                "updated_at": {"type": "string"},
                "user_metadata": {"type": "object", "additionalProperties": {}}
            }
        },
        "utils.AuthErrorBody": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "error_code": {"type": "string"},
                "msg": {"type": "string"}
            }
        },
        "utils.ErrorBody": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "details": {"type": "string"},
                "hint": {"type": "string"},
                "message": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Bearer access token from /auth/v1/token",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "FitPass API",
	Description:      "Auth, REST, RPC and storage endpoints of the FitPass backend.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
