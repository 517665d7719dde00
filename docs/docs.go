// Package docs registers the swagger document served at /swagger/index.html.
// Regenerate with: swag init
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
        "/simulations": {
            "post": {
                "description": "Upload a holdings CSV and optional assumptions; returns the per-holding detail table, the portfolio summary and the income chart series",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["simulations"],
                "summary": "Project a dividend portfolio",
                "parameters": [
                    {"type": "file", "description": "CSV with Symbol, Starting Shares, Share Price, Dividend, Payout Frequency", "name": "holdings", "in": "formData", "required": true},
                    {"type": "string", "description": "SimulationParameters JSON; omitted fields use the defaults", "name": "params", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SimulationResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/simulations/json": {
            "post": {
                "description": "JSON alternative to the CSV upload. Holdings are numbered from 1 in error responses; params fields that are omitted use the defaults",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["simulations"],
                "summary": "Project already typed holdings",
                "parameters": [
                    {"description": "Holdings and assumptions", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.SimulationRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SimulationResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/simulations/summary.csv": {
            "post": {
                "description": "Same input as POST /simulations; responds with the year-by-year summary as Portfolio_Summary.csv",
                "consumes": ["multipart/form-data"],
                "produces": ["text/csv"],
                "tags": ["simulations"],
                "summary": "Download the portfolio summary",
                "parameters": [
                    {"type": "file", "description": "Holdings CSV", "name": "holdings", "in": "formData", "required": true},
                    {"type": "string", "description": "SimulationParameters JSON", "name": "params", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/simulations/details.csv": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["text/csv"],
                "tags": ["simulations"],
                "summary": "Download the per-holding detail table",
                "parameters": [
                    {"type": "file", "description": "Holdings CSV", "name": "holdings", "in": "formData", "required": true},
                    {"type": "string", "description": "SimulationParameters JSON", "name": "params", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "field": {"type": "string"},
                "message": {"type": "string"},
                "row": {"type": "integer"},
                "symbol": {"type": "string"}
            }
        },
        "models.HoldingInput": {
            "type": "object",
            "properties": {
                "dividend_per_share": {"type": "number"},
                "payout_frequency": {"type": "integer", "enum": [12, 4]},
                "share_price": {"type": "number"},
                "starting_shares": {"type": "number"},
                "symbol": {"type": "string"}
            }
        },
        "models.IncomeSeries": {
            "type": "object",
            "properties": {
                "annual_income": {"type": "array", "items": {"$ref": "#/definitions/models.SeriesPoint"}},
                "real_income": {"type": "array", "items": {"$ref": "#/definitions/models.SeriesPoint"}}
            }
        },
        "models.PortfolioYearSummary": {
            "type": "object",
            "properties": {
                "total_annual_income": {"type": "number"},
                "total_portfolio_value": {"type": "number"},
                "total_real_income": {"type": "number"},
                "year": {"type": "integer"}
            }
        },
        "models.SeriesPoint": {
            "type": "object",
            "properties": {
                "value": {"type": "number"},
                "year": {"type": "integer"}
            }
        },
        "models.SimulationParameters": {
            "type": "object",
            "properties": {
                "dividend_growth_rate": {"type": "number"},
                "inflation_rate": {"type": "number"},
                "price_growth_rate": {"type": "number"},
                "reinvestment_fraction": {"type": "number"},
                "years_to_simulate": {"type": "integer"}
            }
        },
        "models.SimulationRequest": {
            "type": "object",
            "properties": {
                "holdings": {"type": "array", "items": {"$ref": "#/definitions/models.HoldingInput"}},
                "params": {"$ref": "#/definitions/models.SimulationParameters"}
            }
        },
        "models.SimulationResult": {
            "type": "object",
            "properties": {
                "details": {"type": "array", "items": {"$ref": "#/definitions/models.YearSnapshot"}},
                "holdings": {"type": "array", "items": {"$ref": "#/definitions/models.HoldingInput"}},
                "income": {"$ref": "#/definitions/models.IncomeSeries"},
                "parameters": {"$ref": "#/definitions/models.SimulationParameters"},
                "summary": {"type": "array", "items": {"$ref": "#/definitions/models.PortfolioYearSummary"}},
                "warnings": {"type": "array", "items": {"$ref": "#/definitions/models.Warning"}}
            }
        },
        "models.Warning": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "models.YearSnapshot": {
            "type": "object",
            "properties": {
                "annual_income": {"type": "number"},
                "dividend_per_share": {"type": "number"},
                "portfolio_value": {"type": "number"},
                "real_income": {"type": "number"},
                "share_price": {"type": "number"},
                "shares": {"type": "number"},
                "symbol": {"type": "string"},
                "year": {"type": "integer"}
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
	Title:            "Dividend Portfolio Projector API",
	Description:      "Projects dividend income and portfolio value year by year from uploaded holdings.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
