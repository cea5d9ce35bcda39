// Package docs registers the OpenAPI document served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/usuarios": {
            "post": {"summary": "Register a user", "tags": ["usuarios"], "responses": {"201": {"description": "Created"}, "400": {"description": "Validation error"}, "409": {"description": "Email already registered"}}},
            "get": {"summary": "List users", "tags": ["usuarios"], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}
        },
        "/usuarios/{id}": {
            "delete": {"summary": "Delete a user", "tags": ["usuarios"], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not found"}}}
        },
        "/login": {
            "post": {"summary": "Issue a bearer token", "tags": ["usuarios"], "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid email or password"}}}
        },
        "/produtos": {
            "get": {"summary": "List products", "tags": ["produtos"], "responses": {"200": {"description": "OK"}}},
            "post": {"summary": "Create a product", "tags": ["produtos"], "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "400": {"description": "Validation error"}, "403": {"description": "Forbidden"}}}
        },
        "/produtos/busca": {
            "get": {"summary": "Search products", "tags": ["produtos"], "parameters": [{"name": "q", "in": "query", "type": "string"}, {"name": "page", "in": "query", "type": "integer"}, {"name": "size", "in": "query", "type": "integer"}], "responses": {"200": {"description": "OK"}}}
        },
        "/produtos/{id}": {
            "get": {"summary": "Get a product", "tags": ["produtos"], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}},
            "put": {"summary": "Update a product", "tags": ["produtos"], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "404": {"description": "Not found"}}},
            "delete": {"summary": "Delete a product", "tags": ["produtos"], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}
        },
        "/adicionarItem": {
            "post": {"summary": "Add an item to the caller's cart", "tags": ["carrinho"], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Merged into existing cart"}, "201": {"description": "Cart created"}, "404": {"description": "Product not found"}}}
        },
        "/carrinho": {
            "get": {"summary": "Get the caller's cart", "tags": ["carrinho"], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}},
            "delete": {"summary": "Delete the caller's cart", "tags": ["carrinho"], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}
        },
        "/carrinho/total": {
            "get": {"summary": "Cart total", "tags": ["carrinho"], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}
        },
        "/carrinho/{productId}/quantidade": {
            "put": {"summary": "Set an item quantity", "tags": ["carrinho"], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "404": {"description": "Not found"}}}
        },
        "/carrinho/item": {
            "delete": {"summary": "Remove an item", "tags": ["carrinho"], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}
        },
        "/admin/carrinhos": {
            "get": {"summary": "List every cart with its owner", "tags": ["admin"], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}
        },
        "/create-payment-intent": {
            "post": {"summary": "Create a payment intent", "tags": ["pagamentos"], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "500": {"description": "Processor error"}}}
        },
        "/criar-pagamento-cartao": {
            "post": {"summary": "Create a card-only payment intent for the cart total", "tags": ["pagamentos"], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "400": {"description": "Cart is empty"}}}
        },
        "/pagamentos": {
            "get": {"summary": "List the caller's payment intents", "tags": ["pagamentos"], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/config": {
            "get": {"summary": "Stripe publishable key", "tags": ["pagamentos"], "responses": {"200": {"description": "OK"}, "500": {"description": "Not configured"}}}
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Loja API",
	Description:      "Users, catalog, carts and payments.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
