// Package docs 注册 /swagger 使用的 OpenAPI 文档，修改 handler 的 swag 注释时需同步更新。
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
        "/api/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["System"],
                "summary": "健康检查",
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}}
            }
        },
        "/api/vcard": {
            "get": {
                "produces": ["application/json"],
                "tags": ["VCard"],
                "summary": "列出全部 vCard",
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}}
            }
        },
        "/api/vcard/generate": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["VCard"],
                "summary": "生成 vCard 和二维码",
                "parameters": [
                    {"description": "联系人信息", "name": "contact", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.ContactRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.GenerateResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/api/vcard/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["VCard"],
                "summary": "获取 vCard",
                "parameters": [{"type": "string", "description": "vCard ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.ContactResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["VCard"],
                "summary": "更新 vCard（整体替换）",
                "parameters": [
                    {"type": "string", "description": "vCard ID", "name": "id", "in": "path", "required": true},
                    {"description": "联系人信息", "name": "contact", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.ContactRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["VCard"],
                "summary": "删除 vCard 及其扫描记录",
                "parameters": [{"type": "string", "description": "vCard ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/api/vcard/{id}/download": {
            "get": {
                "produces": ["text/vcard"],
                "tags": ["VCard"],
                "summary": "下载 vCard 文件",
                "parameters": [{"type": "string", "description": "vCard ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "vCard 文本", "schema": {"type": "string"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/api/qr/generate": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["image/png", "image/svg+xml", "application/pdf", "application/postscript"],
                "tags": ["QR"],
                "summary": "为任意文本生成二维码",
                "parameters": [
                    {"description": "二维码参数", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.CustomQRRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/api/qr/{id}/scan": {
            "get": {
                "produces": ["text/vcard"],
                "tags": ["QR"],
                "summary": "扫码落地：记录扫描并返回 vCard 文件",
                "parameters": [{"type": "string", "description": "vCard ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "vCard 文本", "schema": {"type": "string"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/api/qr/{id}/{format}": {
            "get": {
                "produces": ["image/png", "image/svg+xml", "application/pdf", "application/postscript"],
                "tags": ["QR"],
                "summary": "下载指定格式的联系人二维码",
                "parameters": [
                    {"type": "string", "description": "vCard ID", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "png | svg | eps | pdf", "name": "format", "in": "path", "required": true},
                    {"type": "integer", "default": 10, "maximum": 100, "description": "尺寸，像素宽度为 size*30，最大 100", "name": "size", "in": "query"},
                    {"type": "integer", "default": 4, "minimum": 0, "maximum": 40, "description": "留白模块数，0..40，0 为无留白", "name": "border", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/api/qr/{id}/{format}/data": {
            "get": {
                "produces": ["application/json"],
                "tags": ["QR"],
                "summary": "以 data URL 形式获取联系人二维码（仅 png/svg）",
                "parameters": [
                    {"type": "string", "description": "vCard ID", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "png | svg", "name": "format", "in": "path", "required": true},
                    {"type": "integer", "default": 10, "maximum": 100, "description": "尺寸，像素宽度为 size*30，最大 100", "name": "size", "in": "query"},
                    {"type": "integer", "default": 4, "minimum": 0, "maximum": 40, "description": "留白模块数，0..40", "name": "border", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/api/analytics": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Analytics"],
                "summary": "全局扫描统计",
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}}
            }
        },
        "/api/analytics/track": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Analytics"],
                "summary": "记录不属于任何联系人的事件",
                "parameters": [
                    {"description": "事件属性", "name": "event", "in": "body", "schema": {"$ref": "#/definitions/handler.GlobalTrackRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}}
            }
        },
        "/api/analytics/track/{vcardId}": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Analytics"],
                "summary": "记录联系人的扫描/下载事件",
                "parameters": [
                    {"type": "string", "description": "vCard ID", "name": "vcardId", "in": "path", "required": true},
                    {"description": "事件属性", "name": "event", "in": "body", "schema": {"$ref": "#/definitions/handler.TrackRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}}
            }
        },
        "/api/analytics/export/{vcardId}": {
            "get": {
                "produces": ["text/csv"],
                "tags": ["Analytics"],
                "summary": "导出联系人的全部事件为 CSV",
                "parameters": [{"type": "string", "description": "vCard ID", "name": "vcardId", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/api/analytics/{vcardId}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Analytics"],
                "summary": "单个联系人的扫描统计",
                "parameters": [{"type": "string", "description": "vCard ID", "name": "vcardId", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handler.ContactRequest": {
            "type": "object",
            "properties": {
                "company": {"type": "string", "example": "Acme Corp"},
                "email": {"type": "string", "example": "john@example.com"},
                "name": {"type": "string", "example": "John Doe"},
                "phone": {"type": "string", "example": "+1 (555) 123-4567"},
                "title": {"type": "string", "example": "Engineer"},
                "website": {"type": "string", "example": "example.com"}
            }
        },
        "handler.ContactResponse": {
            "type": "object",
            "properties": {
                "qrFiles": {"type": "object", "additionalProperties": {"type": "string"}},
                "success": {"type": "boolean"},
                "vcard": {"type": "object", "additionalProperties": true},
                "vcardContent": {"type": "string"},
                "vcardFilename": {"type": "string"}
            }
        },
        "handler.CustomQRRequest": {
            "type": "object",
            "properties": {
                "border": {"type": "integer", "minimum": 0, "maximum": 40, "example": 4},
                "data": {"type": "string", "example": "https://example.com"},
                "errorCorrectionLevel": {"type": "string", "example": "M"},
                "format": {"type": "string", "example": "png"},
                "size": {"type": "integer", "maximum": 100, "example": 10}
            }
        },
        "handler.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "vCard not found"},
                "field": {"type": "string", "example": "name"},
                "message": {"type": "string", "example": "Something went wrong"}
            }
        },
        "handler.GenerateResponse": {
            "type": "object",
            "properties": {
                "contact": {"type": "object", "additionalProperties": true},
                "qrFiles": {"type": "object", "additionalProperties": {"type": "string"}},
                "success": {"type": "boolean"},
                "vcardContent": {"type": "string"},
                "vcardFilename": {"type": "string"},
                "vcardId": {"type": "string"}
            }
        },
        "handler.GlobalTrackRequest": {
            "type": "object",
            "properties": {
                "action": {"type": "string", "example": "custom_qr_downloaded"},
                "timestamp": {"type": "string", "example": "2026-01-02T15:04:05Z"}
            }
        },
        "handler.Location": {
            "type": "object",
            "properties": {
                "city": {"type": "string", "example": "New York"},
                "country": {"type": "string", "example": "US"},
                "latitude": {"type": "number", "example": 40.7128},
                "longitude": {"type": "number", "example": -74.006}
            }
        },
        "handler.TrackRequest": {
            "type": "object",
            "properties": {
                "action": {"type": "string", "example": "scan"},
                "location": {"$ref": "#/definitions/handler.Location"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "QR Contact API",
	Description:      "vCard 与二维码生成、扫描统计服务",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
