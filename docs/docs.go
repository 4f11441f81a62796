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
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        },
        "UserHeader": {
            "type": "apiKey",
            "name": "X-User-ID",
            "in": "header"
        }
    },
    "security": [
        {
            "BearerAuth": []
        },
        {
            "UserHeader": []
        }
    ],
    "paths": {
        "/users": {
            "get": {
                "tags": ["users"],
                "summary": "List users",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.APIResponse"}}
                }
            },
            "post": {
                "tags": ["users"],
                "summary": "Create a user",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/user.CreateUserRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.APIResponse"}}
                }
            }
        },
        "/users/lookup": {
            "get": {
                "tags": ["users"],
                "summary": "Find a user by email",
                "parameters": [
                    {"type": "string", "name": "email", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.APIResponse"}}
                }
            }
        },
        "/users/{id}": {
            "get": {
                "tags": ["users"],
                "summary": "Get user by ID",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.APIResponse"}}
                }
            }
        },
        "/users/{id}/friends": {
            "get": {
                "tags": ["friends"],
                "summary": "List the users a user has added as friends",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.APIResponse"}}
                }
            }
        },
        "/users/{id}/groups": {
            "get": {
                "tags": ["groups"],
                "summary": "List a user's groups",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.APIResponse"}}
                }
            }
        },
        "/users/{id}/expenses": {
            "get": {
                "tags": ["expenses"],
                "summary": "List expenses a user created",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.APIResponse"}}
                }
            }
        },
        "/users/{id}/shares": {
            "get": {
                "tags": ["expenses"],
                "summary": "List expenses a user has a share in",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.APIResponse"}}
                }
            }
        },
        "/users/{id}/balance": {
            "get": {
                "tags": ["balances"],
                "summary": "Get a user's net balance",
                "description": "Positive net means the user owes money",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/balance.SummaryResponse"}}
                }
            }
        },
        "/users/{id}/balance/counterparties": {
            "get": {
                "tags": ["balances"],
                "summary": "Break a user's balance down by counterparty",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.APIResponse"}}
                }
            }
        },
        "/users/{id}/balance/groups": {
            "get": {
                "tags": ["balances"],
                "summary": "Break a user's shares down by group",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.APIResponse"}}
                }
            }
        },
        "/friends": {
            "post": {
                "tags": ["friends"],
                "summary": "Add a friend",
                "description": "The actor lists friend_id as a friend. Friendships are directed.",
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/friend.AddFriendRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.APIResponse"}}
                }
            }
        },
        "/groups": {
            "post": {
                "tags": ["groups"],
                "summary": "Create a new group",
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/group.CreateGroupRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.APIResponse"}}
                }
            }
        },
        "/groups/{id}": {
            "get": {
                "tags": ["groups"],
                "summary": "Get a group with its members",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.APIResponse"}}
                }
            }
        },
        "/groups/{id}/members": {
            "get": {
                "tags": ["groups"],
                "summary": "List group members",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.APIResponse"}}
                }
            },
            "post": {
                "tags": ["groups"],
                "summary": "Add a member to a group",
                "description": "The actor must be the group's creator or an existing member",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/group.AddMemberRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.APIResponse"}}
                }
            }
        },
        "/groups/{id}/expenses": {
            "get": {
                "tags": ["expenses"],
                "summary": "List a group's expenses",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.APIResponse"}}
                }
            }
        },
        "/expenses": {
            "post": {
                "tags": ["expenses"],
                "summary": "Create an expense",
                "description": "Split an amount evenly between the actor and either named friends or every member of a group",
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/expense.CreateExpenseRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.APIResponse"}}
                }
            }
        },
        "/expenses/{id}": {
            "get": {
                "tags": ["expenses"],
                "summary": "Get an expense with its splits",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.APIResponse"}}
                }
            }
        },
        "/notifications": {
            "get": {
                "tags": ["notifications"],
                "summary": "List the actor's notifications",
                "parameters": [
                    {"type": "boolean", "name": "unread_only", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.APIResponse"}}
                }
            }
        },
        "/notifications/unread-count": {
            "get": {
                "tags": ["notifications"],
                "summary": "Count the actor's unread notifications",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.APIResponse"}}
                }
            }
        },
        "/notifications/{id}/read": {
            "post": {
                "tags": ["notifications"],
                "summary": "Mark a notification as read",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.APIResponse"}}
                }
            }
        },
        "/notifications/read-all": {
            "post": {
                "tags": ["notifications"],
                "summary": "Mark all the actor's notifications as read",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "response.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "response.APIResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {},
                "error": {"$ref": "#/definitions/response.APIError"},
                "meta": {
                    "type": "object",
                    "properties": {
                        "total": {"type": "integer"}
                    }
                }
            }
        },
        "user.CreateUserRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"}
            }
        },
        "friend.AddFriendRequest": {
            "type": "object",
            "properties": {
                "friend_id": {"type": "integer"}
            }
        },
        "group.CreateGroupRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"}
            }
        },
        "group.AddMemberRequest": {
            "type": "object",
            "properties": {
                "user_id": {"type": "integer"}
            }
        },
        "expense.CreateExpenseRequest": {
            "type": "object",
            "properties": {
                "description": {"type": "string"},
                "amount": {"type": "string", "example": "30.00"},
                "group_id": {"type": "integer"},
                "participants": {"type": "array", "items": {"type": "integer"}},
                "split_type": {"type": "string", "example": "EVEN"}
            }
        },
        "balance.SummaryResponse": {
            "type": "object",
            "properties": {
                "user_id": {"type": "integer"},
                "owed_by_user": {"type": "string", "example": "15.00"},
                "owed_to_user": {"type": "string", "example": "0.00"},
                "net": {"type": "string", "example": "15.00"},
                "message": {"type": "string", "example": "You owe 15.00"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Splitledger API",
	Description:      "Expense splitting between friends and groups, with per-user balances.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
