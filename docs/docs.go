// Package docs swagger 文档注册
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
        "/api/health": {"get": {"tags": ["系统"], "summary": "健康检查", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}}},
        "/api/auth/register": {"post": {"tags": ["认证"], "summary": "注册", "consumes": ["application/json"], "produces": ["application/json"], "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/service.RegisterInput"}}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Response"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}}}}},
        "/api/auth/login": {"post": {"tags": ["认证"], "summary": "登录", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.Response"}}}}},
        "/api/auth/me": {"get": {"security": [{"BearerAuth": []}], "tags": ["认证"], "summary": "当前用户资料", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}}},
        "/api/auth/logout": {"post": {"security": [{"BearerAuth": []}], "tags": ["认证"], "summary": "注销", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}}},
        "/api/users/profile": {"put": {"security": [{"BearerAuth": []}], "tags": ["用户"], "summary": "更新资料", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}}},
        "/api/users/{username}": {"get": {"tags": ["用户"], "summary": "用户资料", "parameters": [{"type": "string", "name": "username", "in": "path", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}}}},
        "/api/users/{username}/tweets": {"get": {"tags": ["用户"], "summary": "用户推文", "parameters": [{"type": "string", "name": "username", "in": "path", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}}},
        "/api/users/{username}/follow": {"post": {"security": [{"BearerAuth": []}], "tags": ["关系链"], "summary": "关注用户", "parameters": [{"type": "string", "name": "username", "in": "path", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}}},
        "/api/users/{username}/unfollow": {"delete": {"security": [{"BearerAuth": []}], "tags": ["关系链"], "summary": "取消关注", "parameters": [{"type": "string", "name": "username", "in": "path", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}}},
        "/api/users/{username}/followers": {"get": {"tags": ["关系链"], "summary": "查询粉丝列表", "parameters": [{"type": "string", "name": "username", "in": "path", "required": true}, {"type": "integer", "default": 1, "name": "page", "in": "query"}, {"type": "integer", "default": 20, "name": "page_size", "in": "query"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}}},
        "/api/users/{username}/following": {"get": {"tags": ["关系链"], "summary": "查询关注列表", "parameters": [{"type": "string", "name": "username", "in": "path", "required": true}, {"type": "integer", "default": 1, "name": "page", "in": "query"}, {"type": "integer", "default": 20, "name": "page_size", "in": "query"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}}},
        "/api/tweets": {"post": {"security": [{"BearerAuth": []}], "tags": ["推文"], "summary": "发推", "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Response"}}}}},
        "/api/tweets/timeline": {"get": {"security": [{"BearerAuth": []}], "tags": ["推文"], "summary": "时间线", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}}},
        "/api/tweets/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["推文"], "summary": "推文详情", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["推文"], "summary": "删除推文", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}}
        },
        "/api/tweets/{id}/like": {"post": {"security": [{"BearerAuth": []}], "tags": ["点赞"], "summary": "点赞", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}}},
        "/api/tweets/{id}/unlike": {"delete": {"security": [{"BearerAuth": []}], "tags": ["点赞"], "summary": "取消点赞", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}}}
    },
    "definitions": {
        "response.Response": {"type": "object", "properties": {"success": {"type": "boolean"}, "data": {}, "message": {"type": "string"}}},
        "service.RegisterInput": {"type": "object", "properties": {"username": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string"}, "display_name": {"type": "string"}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "chirp API",
	Description:      "Social graph service: follows, tweets, likes and fan-out-on-read timelines.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
