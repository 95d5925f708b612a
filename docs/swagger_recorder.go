package docs

import "github.com/swaggo/swag"

// @title           Fare Recorder API
// @version         1.0
// @description     Stores fare.predicted events and serves the prediction history with daily aggregates.

// @host      localhost:3001
// @BasePath  /

const recorderTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/predictions": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Predictions"],
                "summary": "List predictions",
                "parameters": [
                    {"type": "integer", "default": 1, "name": "page", "in": "query"},
                    {"type": "integer", "default": 20, "maximum": 100, "name": "page_size", "in": "query"},
                    {"type": "string", "default": "-predicted_at", "name": "sort", "in": "query",
                     "enum": ["predicted_at", "-predicted_at", "fare", "-fare", "trip_distance_mile", "-trip_distance_mile"]}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "422": {"description": "Unprocessable Entity"}
                }
            }
        },
        "/predictions/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Predictions"],
                "summary": "Get prediction",
                "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/predictions/stats": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Predictions"],
                "summary": "Daily prediction stats",
                "parameters": [{"type": "integer", "default": 7, "minimum": 1, "maximum": 366, "name": "days", "in": "query"}],
                "responses": {
                    "200": {"description": "OK"},
                    "422": {"description": "Unprocessable Entity"}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health Check",
                "responses": {
                    "200": {"description": "OK"},
                    "503": {"description": "Degraded"}
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// RecorderSwaggerInfo holds exported Swagger Info so clients can modify it
var RecorderSwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:3001",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Fare Recorder API",
	Description:      "Stores fare.predicted events and serves the prediction history with daily aggregates.",
	InfoInstanceName: "recorder",
	SwaggerTemplate:  recorderTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(RecorderSwaggerInfo.InstanceName(), RecorderSwaggerInfo)
}
