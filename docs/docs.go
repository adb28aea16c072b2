// Package docs swagger 文档，与 controller 中的注解保持一致
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
        "/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["账户"],
                "summary": "用户登录",
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/controller.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "success, user, token", "schema": {"type": "object"}},
                    "400": {"description": "参数缺失或凭证错误", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        },
        "/logout": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["账户"],
                "summary": "登出",
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/controller.LogoutRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}},
                    "400": {"description": "缺少 userId", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        },
        "/usuarios": {
            "get": {
                "produces": ["application/json"],
                "tags": ["账户"],
                "summary": "账户列表",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.User"}}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["账户"],
                "summary": "创建账户",
                "description": "公开注册一律为普通用户，只有携带管理员 token 时 role 才生效",
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/controller.CreateUserRequest"}}
                ],
                "responses": {
                    "201": {"description": "success, message, usuario", "schema": {"type": "object"}},
                    "400": {"description": "参数缺失或邮箱已注册", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        },
        "/chatbot": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["聊天"],
                "summary": "单轮对话",
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/controller.ChatRequest"}}
                ],
                "responses": {
                    "200": {"description": "success, response", "schema": {"type": "object"}},
                    "400": {"description": "缺少 prompt", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        },
        "/history/{userId}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["聊天"],
                "summary": "对话历史",
                "parameters": [
                    {"type": "string", "name": "userId", "in": "path", "required": true},
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "success, conversations", "schema": {"type": "object"}}
                }
            }
        },
        "/practice/start": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["练习"],
                "summary": "开始练习",
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/controller.StartPracticeRequest"}}
                ],
                "responses": {
                    "201": {"description": "success, sessionId, initialResponse", "schema": {"type": "object"}},
                    "400": {"description": "缺少参数", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        },
        "/practice/message": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["练习"],
                "summary": "发送练习消息",
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/controller.PracticeMessageRequest"}}
                ],
                "responses": {
                    "200": {"description": "success, userMessage, botResponse, messages", "schema": {"type": "object"}},
                    "400": {"description": "缺少参数或会话已结束", "schema": {"$ref": "#/definitions/util.Response"}},
                    "404": {"description": "会话不存在", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        },
        "/practice/end": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["练习"],
                "summary": "结束练习",
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/controller.EndPracticeRequest"}}
                ],
                "responses": {
                    "200": {"description": "success, message, summary", "schema": {"type": "object"}},
                    "404": {"description": "会话不存在", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        },
        "/practice/summary/{sessionId}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["练习"],
                "summary": "练习摘要",
                "parameters": [
                    {"type": "string", "name": "sessionId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "success, summary", "schema": {"type": "object"}},
                    "404": {"description": "会话不存在", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        },
        "/practice/{userId}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["练习"],
                "summary": "用户的练习列表",
                "parameters": [
                    {"type": "string", "name": "userId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"type": "object"}}}
                }
            }
        },
        "/practice/{id}": {
            "delete": {
                "produces": ["application/json"],
                "tags": ["练习"],
                "summary": "删除练习",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}},
                    "404": {"description": "会话不存在", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        },
        "/dashboard": {
            "get": {
                "produces": ["application/json"],
                "tags": ["仪表盘"],
                "summary": "仪表盘总览",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.DataResponse"}}}
            }
        },
        "/dashboard/active-users": {
            "get": {
                "produces": ["application/json"],
                "tags": ["仪表盘"],
                "summary": "活跃用户数",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.DataResponse"}}}
            }
        },
        "/dashboard/top-languages": {
            "get": {
                "produces": ["application/json"],
                "tags": ["仪表盘"],
                "summary": "热门语言",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.DataResponse"}}}
            }
        },
        "/dashboard/practices-per-day": {
            "get": {
                "produces": ["application/json"],
                "tags": ["仪表盘"],
                "summary": "每日练习数",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.DataResponse"}}}
            }
        },
        "/dashboard/average-duration": {
            "get": {
                "produces": ["application/json"],
                "tags": ["仪表盘"],
                "summary": "平均练习时长",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.DataResponse"}}}
            }
        }
    },
    "definitions": {
        "controller.LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string", "example": "ana@example.com"},
                "password": {"type": "string", "example": "secret123"}
            }
        },
        "controller.CreateUserRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string", "example": "Ana"},
                "email": {"type": "string", "example": "ana@example.com"},
                "password": {"type": "string", "example": "secret123"},
                "role": {"type": "string", "enum": ["user", "admin"], "example": "user"}
            }
        },
        "controller.LogoutRequest": {
            "type": "object",
            "properties": {
                "userId": {"type": "string"}
            }
        },
        "controller.ChatRequest": {
            "type": "object",
            "properties": {
                "prompt": {"type": "string"},
                "userId": {"type": "string"}
            }
        },
        "controller.StartPracticeRequest": {
            "type": "object",
            "properties": {
                "userId": {"type": "string"},
                "language": {"type": "string", "example": "fr"},
                "level": {"type": "string", "example": "B1"},
                "greeting": {"type": "boolean", "example": false}
            }
        },
        "controller.PracticeMessageRequest": {
            "type": "object",
            "properties": {
                "sessionId": {"type": "string"},
                "role": {"type": "string", "enum": ["user", "assistant"]},
                "content": {"type": "string"},
                "autoReply": {"type": "boolean"}
            }
        },
        "controller.EndPracticeRequest": {
            "type": "object",
            "properties": {
                "sessionId": {"type": "string"}
            }
        },
        "model.User": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string"},
                "lastLogin": {"type": "string"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "util.Response": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"}
            }
        },
        "util.DataResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:5000",
	BasePath:         "/api/chat",
	Schemes:          []string{},
	Title:            "LingoChat 后端 API",
	Description:      "语言练习聊天机器人的后端服务。",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
