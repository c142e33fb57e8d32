// Package docs serves the OpenAPI document for the governance engine API.
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
    "paths": {
        "/api/governance/v1/members/{member_id}/status": {
            "get": {
                "summary": "Derive a member's membership status",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "member_id", "in": "path", "required": true},
                    {"type": "string", "name": "as_of", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/api/governance/v1/eligibility/voting": {
            "get": {
                "summary": "Check voting eligibility for a target",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "member_id", "in": "query", "required": true},
                    {"type": "string", "name": "target_kind", "in": "query", "required": true},
                    {"type": "string", "name": "target_id", "in": "query", "required": true}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/governance/v1/ballots/resolution": {
            "post": {
                "summary": "Cast a resolution ballot",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {"201": {"description": "Created"}, "409": {"description": "Already voted"}}
            }
        },
        "/api/governance/v1/tallies/resolution/{item_id}": {
            "get": {
                "summary": "Tally one agenda item",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "item_id", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/finance/v1/approvals/{transaction_id}": {
            "get": {
                "summary": "Report co-signature completion for a transaction",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "transaction_id", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Amicale Governance Engine API",
	Description:      "Membership lifecycle, eligibility, ballots, expense co-signature, and bylaws compliance checks.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
