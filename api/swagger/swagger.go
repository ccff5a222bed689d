package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Biblioteca Virtual API",
        "description": "Multi-role library management backend",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Login and token issuance"},
        {"name": "Users", "description": "Admin-only account management"},
        {"name": "Books", "description": "Book catalog and uploads"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Token issued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid credentials"},
                    "422": {"description": "Missing fields"}
                }
            }
        },
        "/users": {
            "get": {
                "tags": ["Users"],
                "summary": "List users",
                "security": [{"TokenAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "No token"},
                    "403": {"description": "Admin role required"}
                }
            },
            "post": {
                "tags": ["Users"],
                "summary": "Create a Profesor or Estudiante account",
                "security": [{"TokenAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateUserRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Duplicate username or Admin role requested"},
                    "422": {"description": "Validation failure"}
                }
            }
        },
        "/users/{id}": {
            "delete": {
                "tags": ["Users"],
                "summary": "Delete user",
                "security": [{"TokenAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Deleted"},
                    "404": {"description": "User not found"}
                }
            }
        },
        "/books": {
            "get": {
                "tags": ["Books"],
                "summary": "List all books",
                "security": [{"TokenAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Books"],
                "summary": "Upload a new book",
                "security": [{"TokenAuth": []}],
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "titulo", "in": "formData", "required": true, "type": "string"},
                    {"name": "area", "in": "formData", "required": true, "type": "string"},
                    {"name": "file", "in": "formData", "required": true, "type": "file"},
                    {"name": "image", "in": "formData", "required": false, "type": "file"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Upload rejected"},
                    "422": {"description": "Missing titulo/area"}
                }
            }
        },
        "/books/{id}": {
            "get": {
                "tags": ["Books"],
                "summary": "Get a book",
                "security": [{"TokenAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Book not found"}
                }
            },
            "put": {
                "tags": ["Books"],
                "summary": "Update a book's title, area or cover image",
                "security": [{"TokenAuth": []}],
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "titulo", "in": "formData", "required": false, "type": "string"},
                    {"name": "area", "in": "formData", "required": false, "type": "string"},
                    {"name": "image", "in": "formData", "required": false, "type": "file"}
                ],
                "responses": {
                    "200": {"description": "Updated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Book not found"}
                }
            },
            "delete": {
                "tags": ["Books"],
                "summary": "Delete a book and its stored files",
                "security": [{"TokenAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "Deleted"},
                    "404": {"description": "Book not found"}
                }
            }
        },
        "/books/{id}/download": {
            "get": {
                "tags": ["Books"],
                "summary": "Signed download link, or file stream with ?token=",
                "security": [{"TokenAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "token", "in": "query", "required": false, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Link or binary stream"},
                    "400": {"description": "Invalid token"},
                    "404": {"description": "Book not found"}
                }
            }
        },
        "/books/export": {
            "get": {
                "tags": ["Books"],
                "summary": "Export the catalog listing as PDF or CSV",
                "security": [{"TokenAuth": []}],
                "parameters": [
                    {"name": "format", "in": "query", "required": false, "type": "string", "enum": ["pdf", "csv"]}
                ],
                "responses": {
                    "200": {"description": "Binary export"},
                    "400": {"description": "Unknown format"}
                }
            }
        }
    },
    "securityDefinitions": {
        "TokenAuth": {
            "type": "apiKey",
            "name": "x-auth-token",
            "in": "header"
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "CreateUserRequest": {
            "type": "object",
            "required": ["username", "password", "role"],
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string", "minLength": 6},
                "role": {"type": "string", "enum": ["Profesor", "Estudiante"]}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
