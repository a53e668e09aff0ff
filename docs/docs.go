// Package docs registers the OpenAPI document served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {"name": "Nashik Connect", "email": "support@nashikconnect.com"},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/auth/signup": {"post": {"tags": ["Auth"], "summary": "create an account", "responses": {"201": {"description": "token and user"}, "409": {"description": "email taken"}}}},
        "/auth/login": {"post": {"tags": ["Auth"], "summary": "sign in", "responses": {"200": {"description": "token and user"}, "401": {"description": "invalid credentials"}}}},
        "/auth/password/reset": {"post": {"tags": ["Auth"], "summary": "mail a password reset code", "responses": {"200": {"description": "accepted"}}}},
        "/auth/password/confirm": {"post": {"tags": ["Auth"], "summary": "set a new password", "responses": {"200": {"description": "updated"}}}},
        "/auth/me": {"get": {"tags": ["Auth"], "summary": "current account", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "user"}}}},
        "/visitor/heritage": {"get": {"tags": ["Visitor"], "summary": "heritage sites", "responses": {"200": {"description": "sites"}}}},
        "/visitor/food": {"get": {"tags": ["Visitor"], "summary": "food spots", "responses": {"200": {"description": "spots"}}}},
        "/visitor/parking": {"get": {"tags": ["Visitor"], "summary": "parking lots with status", "responses": {"200": {"description": "lots"}}}},
        "/market/stores": {"get": {"tags": ["Market"], "summary": "active stores", "responses": {"200": {"description": "page of stores"}}}},
        "/market/stores/{id}": {"get": {"tags": ["Market"], "summary": "store with active products", "responses": {"200": {"description": "store"}, "404": {"description": "not found"}}}},
        "/market/products": {"get": {"tags": ["Market"], "summary": "active products", "responses": {"200": {"description": "products"}}}},
        "/guides": {
            "get": {"tags": ["Guides"], "summary": "available student guides", "responses": {"200": {"description": "guides"}}},
            "post": {"tags": ["Guides"], "summary": "enroll as a guide", "responses": {"201": {"description": "guide"}, "400": {"description": "invalid form"}}}
        },
        "/guides/{id}/book": {"post": {"tags": ["Guides"], "summary": "quote a booking", "responses": {"200": {"description": "booking"}}}},
        "/checkout/quote": {"post": {"tags": ["Checkout"], "summary": "price a cart", "responses": {"200": {"description": "order"}}}},
        "/checkout": {"post": {"tags": ["Checkout"], "summary": "place a simulated order", "responses": {"201": {"description": "order"}}}},
        "/i18n/translate": {"post": {"tags": ["I18n"], "summary": "translate strings", "responses": {"200": {"description": "translations"}}}},
        "/i18n/detect": {"post": {"tags": ["I18n"], "summary": "detect a language", "responses": {"200": {"description": "language"}}}},
        "/i18n/languages": {"get": {"tags": ["I18n"], "summary": "supported languages", "responses": {"200": {"description": "languages"}}}},
        "/i18n/preference": {
            "get": {"tags": ["I18n"], "summary": "saved display language", "responses": {"200": {"description": "lang"}}},
            "put": {"tags": ["I18n"], "summary": "save the display language", "responses": {"200": {"description": "lang"}}}
        },
        "/i18n/cache": {"delete": {"tags": ["I18n"], "summary": "clear the translation cache", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "cleared"}}}},
        "/invoices": {"post": {"tags": ["Invoices"], "summary": "download a GST invoice", "produces": ["application/pdf"], "responses": {"200": {"description": "pdf"}}}},
        "/invoices/preview": {"post": {"tags": ["Invoices"], "summary": "invoice amounts", "responses": {"200": {"description": "preview"}}}},
        "/uploads/{bucket}": {"post": {"tags": ["Uploads"], "summary": "upload an image", "consumes": ["multipart/form-data"], "responses": {"201": {"description": "url or data uri"}}}},
        "/merchant/store": {
            "get": {"tags": ["Merchant"], "summary": "own store", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "store"}}},
            "put": {"tags": ["Merchant"], "summary": "create or update own store", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "updated"}, "201": {"description": "created"}}}
        },
        "/merchant/products": {
            "get": {"tags": ["Merchant"], "summary": "own products", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "page of products"}}},
            "post": {"tags": ["Merchant"], "summary": "add a product", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "product"}}}
        },
        "/merchant/products/{id}": {
            "get": {"tags": ["Merchant"], "summary": "own product", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "product"}}},
            "put": {"tags": ["Merchant"], "summary": "update a product", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "product"}}}
        },
        "/merchant/products/export.csv": {"get": {"tags": ["Merchant"], "summary": "export products as CSV", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "csv"}}}},
        "/merchant/products/export.xlsx": {"get": {"tags": ["Merchant"], "summary": "export products as XLSX", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "xlsx"}}}},
        "/merchant/products/import": {"post": {"tags": ["Merchant"], "summary": "import products from CSV", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "imported"}}}},
        "/merchant/dashboard": {"get": {"tags": ["Merchant"], "summary": "catalog summary", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "dashboard"}}}},
        "/voice/sessions": {"post": {"tags": ["Voice"], "summary": "start a voice dialog", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "session"}}}},
        "/voice/sessions/{id}": {
            "get": {"tags": ["Voice"], "summary": "poll a voice dialog", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "session"}}},
            "delete": {"tags": ["Voice"], "summary": "discard a voice dialog", "security": [{"BearerAuth": []}], "responses": {"204": {"description": "closed"}}}
        },
        "/voice/sessions/{id}/results": {"post": {"tags": ["Voice"], "summary": "push recognition results", "security": [{"BearerAuth": []}], "responses": {"202": {"description": "session"}}}},
        "/voice/sessions/{id}/end": {"post": {"tags": ["Voice"], "summary": "recognizer ended", "security": [{"BearerAuth": []}], "responses": {"202": {"description": "session"}}}},
        "/voice/sessions/{id}/error": {"post": {"tags": ["Voice"], "summary": "recognizer failed", "security": [{"BearerAuth": []}], "responses": {"202": {"description": "session"}}}},
        "/voice/sessions/{id}/stop": {"post": {"tags": ["Voice"], "summary": "stop listening", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "session"}}}},
        "/voice/sessions/{id}/confirm": {"post": {"tags": ["Voice"], "summary": "save the product", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "product"}}}},
        "/voice/sessions/{id}/reject": {"post": {"tags": ["Voice"], "summary": "discard and listen again", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "session"}}}},
        "/system/metrics": {"get": {"tags": ["System"], "summary": "metric series", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "series"}}}},
        "/system/settings": {
            "get": {"tags": ["System"], "summary": "runtime settings", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "settings"}}},
            "put": {"tags": ["System"], "summary": "update runtime settings", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "settings"}}}
        },
        "/system/oprlogs": {"get": {"tags": ["System"], "summary": "operation log", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "page of entries"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Nashik Connect Vyapaar API",
	Description:      "Multilingual Kumbh marketplace for pilgrims and local merchants.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
