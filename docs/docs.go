// Package docs holds the OpenAPI document served at /swagger.
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
                "tags": ["system"],
                "summary": "Service health",
                "operationId": "getHealth",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.HealthResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.HealthResponse"}}
                }
            }
        },
        "/logs": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["logs"],
                "summary": "List activity log entries",
                "operationId": "listLogs",
                "parameters": [
                    {"$ref": "#/parameters/page"},
                    {"$ref": "#/parameters/limit"},
                    {"type": "string", "enum": ["date", "item", "quantity", "staff", "category"], "description": "Sort key", "name": "orderBy", "in": "query"},
                    {"$ref": "#/parameters/order"},
                    {"$ref": "#/parameters/logSearch"},
                    {"$ref": "#/parameters/category"},
                    {"type": "string", "format": "date", "description": "First day, inclusive (YYYY-MM-DD)", "name": "startDate", "in": "query"},
                    {"type": "string", "format": "date", "description": "Last day, inclusive (YYYY-MM-DD)", "name": "endDate", "in": "query"},
                    {"$ref": "#/parameters/internal"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.LogPageResponse"}},
                    "400": {"$ref": "#/responses/BadRequest"},
                    "401": {"$ref": "#/responses/Unauthorized"}
                }
            }
        },
        "/logs/export": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv"],
                "tags": ["logs"],
                "summary": "Export activity log entries as CSV",
                "operationId": "exportLogs",
                "parameters": [
                    {"type": "string", "enum": ["date", "item", "quantity", "staff", "category"], "description": "Sort key", "name": "orderBy", "in": "query"},
                    {"$ref": "#/parameters/order"},
                    {"$ref": "#/parameters/logSearch"},
                    {"$ref": "#/parameters/category"},
                    {"type": "string", "format": "date", "name": "startDate", "in": "query"},
                    {"type": "string", "format": "date", "name": "endDate", "in": "query"},
                    {"$ref": "#/parameters/internal"}
                ],
                "responses": {
                    "200": {"description": "CSV file", "schema": {"type": "file"}},
                    "400": {"$ref": "#/responses/BadRequest"},
                    "429": {"$ref": "#/responses/TooManyRequests"}
                }
            }
        },
        "/logs/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["logs"],
                "summary": "Get an activity log entry",
                "operationId": "getLog",
                "parameters": [{"$ref": "#/parameters/id"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.LogResponse"}},
                    "404": {"$ref": "#/responses/NotFound"}
                }
            }
        },
        "/items": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["items"],
                "summary": "List inventory items",
                "operationId": "listItems",
                "parameters": [
                    {"$ref": "#/parameters/page"},
                    {"$ref": "#/parameters/limit"},
                    {"type": "string", "enum": ["item", "quantity", "category", "assignee"], "description": "Sort key", "name": "orderBy", "in": "query"},
                    {"$ref": "#/parameters/order"},
                    {"$ref": "#/parameters/itemSearch"},
                    {"$ref": "#/parameters/category"},
                    {"$ref": "#/parameters/internal"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ItemPageResponse"}},
                    "400": {"$ref": "#/responses/BadRequest"},
                    "401": {"$ref": "#/responses/Unauthorized"}
                }
            }
        },
        "/items/export": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv"],
                "tags": ["items"],
                "summary": "Export inventory items as CSV",
                "operationId": "exportItems",
                "parameters": [
                    {"type": "string", "enum": ["item", "quantity", "category", "assignee"], "description": "Sort key", "name": "orderBy", "in": "query"},
                    {"$ref": "#/parameters/order"},
                    {"$ref": "#/parameters/itemSearch"},
                    {"$ref": "#/parameters/category"},
                    {"$ref": "#/parameters/internal"}
                ],
                "responses": {
                    "200": {"description": "CSV file", "schema": {"type": "file"}},
                    "400": {"$ref": "#/responses/BadRequest"},
                    "429": {"$ref": "#/responses/TooManyRequests"}
                }
            }
        },
        "/items/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["items"],
                "summary": "Get an inventory item",
                "operationId": "getItem",
                "parameters": [{"$ref": "#/parameters/id"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ItemResponse"}},
                    "404": {"$ref": "#/responses/NotFound"}
                }
            }
        }
    },
    "parameters": {
        "id": {"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true},
        "page": {"type": "integer", "minimum": 0, "description": "Zero-based page index", "name": "page", "in": "query"},
        "limit": {"type": "integer", "minimum": 1, "maximum": 1000, "description": "Page size", "name": "limit", "in": "query"},
        "order": {"type": "string", "enum": ["asc", "desc"], "name": "order", "in": "query"},
        "logSearch": {"type": "string", "description": "Case-insensitive substring of the item definition, category, assignee, staff name or staff email", "name": "search", "in": "query"},
        "itemSearch": {"type": "string", "description": "Case-insensitive substring of the item definition, category or assignee name", "name": "search", "in": "query"},
        "category": {"type": "string", "description": "Exact category name", "name": "category", "in": "query"},
        "internal": {"type": "boolean", "description": "Only internal items", "name": "internal", "in": "query"}
    },
    "responses": {
        "BadRequest": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
        "Unauthorized": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
        "NotFound": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
        "TooManyRequests": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
    },
    "definitions": {
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": false},
                "code": {"type": "string", "example": "BAD_REQUEST"},
                "message": {"type": "string"},
                "details": {"type": "array", "items": {"$ref": "#/definitions/dto.ValidationDetail"}}
            }
        },
        "dto.ValidationDetail": {
            "type": "object",
            "properties": {
                "field": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "dto.LogPageResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": true},
                "payload": {
                    "type": "object",
                    "properties": {
                        "data": {"type": "array", "items": {"$ref": "#/definitions/inventory.LogEntryView"}},
                        "total": {"type": "integer"}
                    }
                }
            }
        },
        "dto.LogResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": true},
                "payload": {"$ref": "#/definitions/inventory.LogEntryView"}
            }
        },
        "dto.ItemPageResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": true},
                "payload": {
                    "type": "object",
                    "properties": {
                        "data": {"type": "array", "items": {"$ref": "#/definitions/inventory.ItemView"}},
                        "total": {"type": "integer"}
                    }
                }
            }
        },
        "dto.ItemResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": true},
                "payload": {"$ref": "#/definitions/inventory.ItemView"}
            }
        },
        "inventory.User": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "format": "uuid"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "avatar": {"type": "string"}
            }
        },
        "inventory.Category": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "format": "uuid"},
                "name": {"type": "string"}
            }
        },
        "inventory.Attribute": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "format": "uuid"},
                "name": {"type": "string"},
                "color": {"type": "string"},
                "domain": {"type": "object"}
            }
        },
        "inventory.DefinitionView": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "format": "uuid"},
                "name": {"type": "string"},
                "category": {"$ref": "#/definitions/inventory.Category"},
                "internal": {"type": "boolean"},
                "lowStockThreshold": {"type": "integer"},
                "criticalStockThreshold": {"type": "integer"}
            }
        },
        "inventory.ItemView": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "format": "uuid"},
                "itemDefinition": {"$ref": "#/definitions/inventory.DefinitionView"},
                "quantity": {"type": "integer"},
                "attributes": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "attribute": {"$ref": "#/definitions/inventory.Attribute"},
                            "value": {"type": "string"}
                        }
                    }
                },
                "assignee": {"$ref": "#/definitions/inventory.User"}
            }
        },
        "inventory.LogEntryView": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "format": "uuid"},
                "quantityDelta": {"type": "integer"},
                "timestamp": {"type": "string", "format": "date-time"},
                "staff": {"$ref": "#/definitions/inventory.User"},
                "item": {"$ref": "#/definitions/inventory.ItemView"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Bearer token authentication. Format: \"Bearer {token}\"",
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
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Stockroom API",
	Description:      "Read API for the warehouse inventory and its activity log.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
