// Package docs is generated by swaggo/swag; regenerate with `go generate ./cmd/server`.
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
        "/healthz": {
            "get": {"tags": ["health"], "summary": "Health check", "responses": {"200": {"description": "OK"}}}
        },
        "/readyz": {
            "get": {"tags": ["health"], "summary": "Readiness check", "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}
        },
        "/portfolio": {
            "get": {
                "produces": ["application/json"],
                "tags": ["portfolio"],
                "summary": "List holdings",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Position"}}}}
            }
        },
        "/portfolio/stock": {
            "post": {
                "description": "Merges the purchase into the existing position, averaging the cost basis.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["portfolio"],
                "summary": "Buy shares",
                "parameters": [{"description": "purchase", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.addStockRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Position"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.apiResponse"}}
                }
            }
        },
        "/portfolio/stock/{id}": {
            "put": {
                "description": "Overwrites the share count; 0 removes the position.",
                "produces": ["application/json"],
                "tags": ["portfolio"],
                "summary": "Set quantity",
                "parameters": [
                    {"type": "integer", "description": "position id", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "description": "new quantity", "name": "quantity", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Position"}},
                    "204": {"description": "No Content"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.apiResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.apiResponse"}}
                }
            },
            "delete": {
                "tags": ["portfolio"],
                "summary": "Remove a position",
                "parameters": [{"type": "integer", "description": "position id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.apiResponse"}}
                }
            }
        },
        "/portfolio/stock/{id}/sell": {
            "put": {
                "tags": ["portfolio"],
                "summary": "Sell shares",
                "parameters": [
                    {"type": "integer", "description": "position id", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "description": "shares to sell", "name": "quantity", "in": "query", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.apiResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.apiResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.apiResponse"}}
                }
            }
        },
        "/portfolio/stock/search": {
            "get": {
                "produces": ["application/json"],
                "tags": ["portfolio"],
                "summary": "Find a position by symbol",
                "parameters": [{"type": "string", "description": "ticker", "name": "symbol", "in": "query", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Position"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.apiResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.apiResponse"}}
                }
            }
        },
        "/portfolio/daily-summary": {
            "get": {
                "description": "Values the portfolio, stores today's snapshot and compares it with the previous one.",
                "produces": ["application/json"],
                "tags": ["portfolio"],
                "summary": "Generate today's summary",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ledger.Summary"}}}
            }
        },
        "/portfolio/snapshots": {
            "get": {
                "produces": ["application/json"],
                "tags": ["portfolio"],
                "summary": "Snapshot history",
                "parameters": [
                    {"type": "integer", "default": 30, "description": "page size", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "offset", "name": "offset", "in": "query"},
                    {"type": "string", "description": "YYYY-MM-DD", "name": "since", "in": "query"},
                    {"type": "string", "description": "YYYY-MM-DD", "name": "until", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.apiResponse"}}}
            }
        },
        "/portfolio/positions": {
            "get": {
                "produces": ["application/json"],
                "tags": ["portfolio"],
                "summary": "Page through holdings",
                "parameters": [
                    {"type": "integer", "default": 100, "description": "page size", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "offset", "name": "offset", "in": "query"},
                    {"type": "string", "description": "id|symbol|quantity|buy_price|created_at|updated_at", "name": "order_by", "in": "query"},
                    {"type": "boolean", "description": "ascending", "name": "asc", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.apiResponse"}}}
            }
        },
        "/portfolio/stock/gainers": {
            "get": {"produces": ["application/json"], "tags": ["market"], "summary": "Top gainers", "responses": {"200": {"description": "OK"}, "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.gatewayFailure"}}, "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.gatewayFailure"}}}}
        },
        "/portfolio/stock/losers": {
            "get": {"produces": ["application/json"], "tags": ["market"], "summary": "Top losers", "responses": {"200": {"description": "OK"}, "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.gatewayFailure"}}, "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.gatewayFailure"}}}}
        },
        "/portfolio/stock/active": {
            "get": {"produces": ["application/json"], "tags": ["market"], "summary": "Most active", "responses": {"200": {"description": "OK"}, "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.gatewayFailure"}}, "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.gatewayFailure"}}}}
        },
        "/portfolio/stock/ipos": {
            "get": {
                "produces": ["application/json"],
                "tags": ["ipo"],
                "summary": "IPO listings",
                "parameters": [
                    {"type": "string", "description": "upcoming|open|closed|listed", "name": "status", "in": "query"},
                    {"type": "string", "description": "EQ|SME", "name": "type", "in": "query"},
                    {"type": "integer", "default": 1, "description": "page", "name": "page", "in": "query"},
                    {"type": "integer", "default": 1, "description": "page size", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.gatewayFailure"}}, "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.gatewayFailure"}}}
            }
        },
        "/portfolio/stock/ipos/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["ipo"],
                "summary": "IPO detail",
                "parameters": [{"type": "string", "description": "IPO id or slug", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.gatewayFailure"}}}
            }
        },
        "/api/ai/chat": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["ai"],
                "summary": "Chat with the advisor",
                "parameters": [{"description": "message and optional context", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.chatRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/service.ChatResponse"}}}
            }
        },
        "/api/ai/analyze-portfolio": {
            "get": {"produces": ["application/json"], "tags": ["ai"], "summary": "Analyze the current portfolio", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/service.ChatResponse"}}}}
        },
        "/api/ai/analyze-stock": {
            "get": {
                "produces": ["application/json"],
                "tags": ["ai"],
                "summary": "Analyze one stock",
                "parameters": [{"type": "string", "description": "ticker", "name": "symbol", "in": "query", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/service.ChatResponse"}}}
            }
        },
        "/api/ai/advice": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["ai"],
                "summary": "Investment advice",
                "parameters": [{"description": "question", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.chatRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/service.ChatResponse"}}}
            }
        },
        "/api/ai/health": {
            "get": {"produces": ["application/json"], "tags": ["ai"], "summary": "AI connectivity check", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/service.ChatResponse"}}}}
        },
        "/api/settings/switches": {
            "get": {"produces": ["application/json"], "tags": ["settings"], "summary": "List feature switches", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.apiResponse"}}}}
        },
        "/api/settings/switches/{name}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["settings"],
                "summary": "Get a feature switch",
                "parameters": [{"type": "string", "description": "switch name, e.g. ai_chat", "name": "name", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.apiResponse"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.apiResponse"}}}
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["settings"],
                "summary": "Turn a feature switch on or off",
                "parameters": [
                    {"type": "string", "description": "switch name", "name": "name", "in": "path", "required": true},
                    {"description": "state", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.putSwitchRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.apiResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.apiResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.apiResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handler.addStockRequest": {
            "type": "object",
            "properties": {
                "buyPrice": {"type": "number"},
                "companyName": {"type": "string"},
                "quantity": {"type": "integer"},
                "symbol": {"type": "string"}
            }
        },
        "handler.apiResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "data": {},
                "message": {"type": "string"},
                "meta": {"type": "object", "additionalProperties": true}
            }
        },
        "handler.chatRequest": {
            "type": "object",
            "properties": {
                "context": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "handler.gatewayFailure": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "success": {"type": "boolean"}
            }
        },
        "handler.putSwitchRequest": {
            "type": "object",
            "properties": {
                "enabled": {"type": "boolean"}
            }
        },
        "ledger.Summary": {
            "type": "object",
            "properties": {
                "date": {"type": "string"},
                "message": {"type": "string"},
                "profitOrLoss": {"type": "number"},
                "totalValue": {"type": "number"}
            }
        },
        "models.Position": {
            "type": "object",
            "properties": {
                "buyPrice": {"type": "number"},
                "companyName": {"type": "string"},
                "createdAt": {"type": "string"},
                "id": {"type": "integer"},
                "quantity": {"type": "integer"},
                "symbol": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "service.ChatResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "response": {"type": "string"},
                "success": {"type": "boolean"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Galaxy Portfolio API",
	Description:      "Holdings ledger, daily summaries, market movers, IPO listings and the AI advisor.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
