// Package swagger registers the OpenAPI description of the library API with swag.
// Keep it in sync with the handler annotations when routes change.
package swagger

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
        "/api/v1/admin/books/{id}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["admin"],
                "summary": "Soft delete a book without active borrows",
                "parameters": [
                    {"type": "string", "description": "book id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/echo.HTTPError"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/echo.HTTPError"}}
                }
            }
        },
        "/api/v1/admin/borrow-records/{id}/status": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "tags": ["admin"],
                "summary": "Override a borrow record status",
                "parameters": [
                    {"type": "string", "description": "borrow record id", "name": "id", "in": "path", "required": true},
                    {"description": "target status", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.UpdateStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.BorrowView"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/echo.HTTPError"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/echo.HTTPError"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/echo.HTTPError"}}
                }
            }
        },
        "/api/v1/admin/users/{id}/role": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "tags": ["admin"],
                "summary": "Change another user's role",
                "parameters": [
                    {"type": "string", "description": "user id", "name": "id", "in": "path", "required": true},
                    {"description": "new role", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.RoleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.User"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/echo.HTTPError"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/echo.HTTPError"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/echo.HTTPError"}}
                }
            }
        },
        "/api/v1/books": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["books"],
                "summary": "List books",
                "parameters": [
                    {"type": "string", "description": "text filter on title, author, genre", "name": "query", "in": "query"},
                    {"type": "string", "description": "newest, oldest, highestRated, available", "name": "sort", "in": "query"},
                    {"type": "integer", "description": "page", "name": "page", "in": "query"},
                    {"type": "integer", "description": "page size", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.ListBooks"}}
                }
            }
        },
        "/api/v1/books/{id}/borrow": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["borrows"],
                "summary": "Borrow a book",
                "parameters": [
                    {"type": "string", "description": "book id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.BorrowRecord"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/echo.HTTPError"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/echo.HTTPError"}}
                }
            }
        },
        "/api/v1/borrows/{id}/return": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["borrows"],
                "summary": "Return a borrowed book",
                "parameters": [
                    {"type": "string", "description": "borrow record id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.ReturnResult"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/echo.HTTPError"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/echo.HTTPError"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/echo.HTTPError"}}
                }
            }
        },
        "/api/v1/users": {
            "post": {
                "tags": ["users"],
                "summary": "Register a library account",
                "parameters": [
                    {"description": "account", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.UserCreateRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.registerResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/echo.HTTPError"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/echo.HTTPError"}}
                }
            }
        }
    },
    "definitions": {
        "echo.HTTPError": {
            "type": "object",
            "properties": {"message": {}}
        },
        "handler.registerResponse": {
            "type": "object",
            "properties": {
                "accessToken": {"type": "string"},
                "user": {"$ref": "#/definitions/model.User"}
            }
        },
        "model.Book": {
            "type": "object",
            "properties": {
                "author": {"type": "string"},
                "availableCopies": {"type": "integer"},
                "coverColor": {"type": "string"},
                "coverUrl": {"type": "string"},
                "createdAt": {"type": "string"},
                "description": {"type": "string"},
                "genre": {"type": "string"},
                "id": {"type": "string"},
                "rating": {"type": "integer"},
                "summary": {"type": "string"},
                "title": {"type": "string"},
                "totalCopies": {"type": "integer"},
                "videoUrl": {"type": "string"}
            }
        },
        "model.BorrowRecord": {
            "type": "object",
            "properties": {
                "bookId": {"type": "string"},
                "borrowDate": {"type": "string"},
                "createdAt": {"type": "string"},
                "dueDate": {"type": "string"},
                "id": {"type": "string"},
                "returnDate": {"type": "string"},
                "status": {"type": "string", "enum": ["BORROWED", "RETURNED"]},
                "userId": {"type": "string"}
            }
        },
        "model.BorrowView": {
            "type": "object",
            "properties": {
                "bookAuthor": {"type": "string"},
                "bookCoverUrl": {"type": "string"},
                "bookId": {"type": "string"},
                "bookTitle": {"type": "string"},
                "borrowDate": {"type": "string"},
                "displayStatus": {"type": "string", "enum": ["borrowed", "returned", "overdue"]},
                "dueDate": {"type": "string"},
                "id": {"type": "string"},
                "returnDate": {"type": "string"},
                "status": {"type": "string"},
                "userEmail": {"type": "string"},
                "userFullName": {"type": "string"},
                "userId": {"type": "string"}
            }
        },
        "model.ListBooks": {
            "type": "object",
            "properties": {
                "hasNextPage": {"type": "boolean"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/model.Book"}},
                "page": {"type": "integer"},
                "pageSize": {"type": "integer"},
                "totalItems": {"type": "integer"},
                "totalPages": {"type": "integer"}
            }
        },
        "model.ReturnResult": {
            "type": "object",
            "properties": {
                "daysLate": {"type": "integer"},
                "record": {"$ref": "#/definitions/model.BorrowRecord"},
                "wasLate": {"type": "boolean"}
            }
        },
        "model.RoleRequest": {
            "type": "object",
            "required": ["role"],
            "properties": {"role": {"type": "string", "enum": ["USER", "ADMIN"]}}
        },
        "model.UpdateStatusRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {"status": {"type": "string", "enum": ["BORROWED", "RETURNED"]}}
        },
        "model.User": {
            "type": "object",
            "properties": {
                "createdAt": {"type": "string"},
                "email": {"type": "string"},
                "fullName": {"type": "string"},
                "id": {"type": "string"},
                "lastActivityDate": {"type": "string"},
                "role": {"type": "string", "enum": ["USER", "ADMIN"]},
                "status": {"type": "string", "enum": ["PENDING", "APPROVED", "REJECTED"]},
                "universityCard": {"type": "string"},
                "universityId": {"type": "integer"}
            }
        },
        "model.UserCreateRequest": {
            "type": "object",
            "required": ["email", "fullName", "universityCard", "universityId"],
            "properties": {
                "email": {"type": "string"},
                "fullName": {"type": "string", "maxLength": 255},
                "universityCard": {"type": "string"},
                "universityId": {"type": "integer"}
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
	Host:             "localhost:8060",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "BookWise library API",
	Description:      "University library: catalog, borrowing and account administration.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
