// Package docs registers the OpenAPI document served at /swagger. Regenerate
// with `swag init -g cmd/server/main.go` after changing handler annotations.
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
        "/auth/register": {
            "post": {
                "tags": ["auth"],
                "summary": "Register a new user",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/models.RegisterRequest"}}],
                "responses": {
                    "201": {"description": "User created successfully", "schema": {"$ref": "#/definitions/models.UserProfile"}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "409": {"description": "Email already exists", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "User login",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/models.LoginRequest"}}],
                "responses": {
                    "200": {"description": "Login successful", "schema": {"$ref": "#/definitions/models.LoginResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/users": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"],
                "summary": "People you may know",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.UserSummary"}}}}
            }
        },
        "/users/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"],
                "summary": "Get user profile",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.UserProfile"}}}
            }
        },
        "/users/profile": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "tags": ["users"],
                "summary": "Update user profile",
                "parameters": [
                    {"type": "string", "name": "name", "in": "formData", "required": true},
                    {"type": "string", "name": "description", "in": "formData"},
                    {"type": "string", "name": "location", "in": "formData"},
                    {"type": "file", "name": "picture", "in": "formData"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.UserProfile"}}}
            }
        },
        "/friend-requests": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["friends"],
                "summary": "Send a friend request",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/models.SendFriendRequestRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.FriendRequestResponse"}},
                    "409": {"description": "Request pending or already friends", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/friend-requests/{id}/accept": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["friends"],
                "summary": "Accept a friend request",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.OKResponse"}},
                    "403": {"description": "Caller is not the recipient", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "409": {"description": "Already accepted", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/friend-requests/reject": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["friends"],
                "summary": "Reject a pending friend request addressed to the caller",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/models.RejectFriendRequestRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.OKResponse"}}}
            }
        },
        "/friends": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["friends"],
                "summary": "List friends",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.UserSummary"}}}}
            }
        },
        "/friends/online": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["friends"],
                "summary": "List friends with a live session",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.UserSummary"}}}}
            }
        },
        "/notifications": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["notifications"],
                "summary": "Notification feed",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.NotificationView"}}}}
            }
        },
        "/notifications/read": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["notifications"],
                "summary": "Mark every notification as read",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.OKResponse"}}}
            }
        },
        "/notifications/unread-count": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["notifications"],
                "summary": "Count unread notifications",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.UnreadCountResponse"}}}
            }
        },
        "/messages": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["messages"],
                "summary": "Send a direct message",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/models.SendMessageRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/models.SendMessageResponse"}}}
            }
        },
        "/messages/partners": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["messages"],
                "summary": "Chat partners",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.ChatPartner"}}}}
            }
        },
        "/messages/{userId}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["messages"],
                "summary": "Conversation with another user",
                "operationId": "getConversation",
                "parameters": [{"type": "integer", "name": "userId", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.MessageView"}}}}
            }
        },
        "/messages/{userId}/read": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["messages"],
                "summary": "Mark messages from a user as read",
                "parameters": [{"type": "integer", "name": "userId", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.OKResponse"}}}
            }
        },
        "/media": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "tags": ["media"],
                "summary": "Upload a media file",
                "parameters": [{"type": "file", "name": "file", "in": "formData", "required": true}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/models.MediaUploadResponse"}}}
            }
        },
        "/media/{id}": {
            "get": {
                "produces": ["application/octet-stream"],
                "tags": ["media"],
                "summary": "Download a media file",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "file"}}, "404": {"description": "Media not found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}}
            }
        },
        "/ws": {
            "get": {
                "tags": ["websocket"],
                "summary": "WebSocket connection",
                "parameters": [{"type": "string", "name": "token", "in": "query", "required": true}],
                "responses": {"101": {"description": "Switching Protocols - WebSocket connection established"}}
            }
        }
    },
    "definitions": {
        "models.ErrorResponse": {"type": "object", "properties": {"code": {"type": "integer"}, "error": {"type": "string"}, "message": {"type": "string"}, "details": {"type": "string"}}},
        "models.OKResponse": {"type": "object", "properties": {"ok": {"type": "boolean"}, "updated": {"type": "integer"}}},
        "models.RegisterRequest": {"type": "object", "required": ["email", "name", "password"], "properties": {"name": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string"}}},
        "models.LoginRequest": {"type": "object", "required": ["email", "password"], "properties": {"email": {"type": "string"}, "password": {"type": "string"}}},
        "models.LoginResponse": {"type": "object", "properties": {"token": {"type": "string"}, "user": {"$ref": "#/definitions/models.UserProfile"}}},
        "models.UserSummary": {"type": "object", "properties": {"id": {"type": "integer"}, "name": {"type": "string"}, "picture": {"type": "string"}}},
        "models.UserProfile": {"type": "object", "properties": {"id": {"type": "integer"}, "name": {"type": "string"}, "email": {"type": "string"}, "description": {"type": "string"}, "location": {"type": "string"}, "picture": {"type": "string"}, "is_super_user": {"type": "boolean"}, "created_at": {"type": "string"}}},
        "models.SendFriendRequestRequest": {"type": "object", "required": ["recipient_id"], "properties": {"recipient_id": {"type": "integer"}}},
        "models.RejectFriendRequestRequest": {"type": "object", "required": ["requester_id"], "properties": {"requester_id": {"type": "integer"}}},
        "models.FriendRequestResponse": {"type": "object", "properties": {"request_id": {"type": "integer"}}},
        "models.NotificationView": {"type": "object", "properties": {"id": {"type": "integer"}, "type": {"type": "string"}, "message": {"type": "string"}, "friend_request_id": {"type": "integer"}, "is_read": {"type": "boolean"}, "created_at": {"type": "string"}, "originator": {"$ref": "#/definitions/models.UserSummary"}}},
        "models.UnreadCountResponse": {"type": "object", "properties": {"count": {"type": "integer"}}},
        "models.SendMessageRequest": {"type": "object", "required": ["receiver_id"], "properties": {"receiver_id": {"type": "integer"}, "message": {"type": "string"}, "media_url": {"type": "string"}, "media_type": {"type": "string", "enum": ["image", "video", "other"]}}},
        "models.SendMessageResponse": {"type": "object", "properties": {"message_id": {"type": "integer"}}},
        "models.MessageView": {"type": "object", "properties": {"id": {"type": "integer"}, "sender_id": {"type": "integer"}, "receiver_id": {"type": "integer"}, "message": {"type": "string"}, "media_type": {"type": "string"}, "media_url": {"type": "string"}, "timestamp": {"type": "string"}, "is_read": {"type": "boolean"}, "sender_name": {"type": "string"}, "sender_picture": {"type": "string"}}},
        "models.ChatPartner": {"type": "object", "properties": {"id": {"type": "integer"}, "name": {"type": "string"}, "picture": {"type": "string"}, "unread_count": {"type": "integer"}}},
        "models.MediaUploadResponse": {"type": "object", "properties": {"url": {"type": "string"}, "media_type": {"type": "string"}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"description": "Type \"Bearer\" followed by a space and JWT token.", "type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "Social Service API",
	Description:      "Friend requests, notifications, direct messages and realtime pushes",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
