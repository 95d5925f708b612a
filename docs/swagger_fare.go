package docs

import "github.com/swaggo/swag"

// @title           Fare API
// @version         1.0
// @description     Derives trip features (haversine distance, pickup hour, night flag) and scores them with the loaded fare model.

// @host      localhost:3000
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

const fareTemplate = `{
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
        "/fares/predict": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Fares"],
                "summary": "Predict a fare",
                "parameters": [{
                    "description": "Trip",
                    "name": "request",
                    "in": "body",
                    "required": true,
                    "schema": {"$ref": "#/definitions/dto.PredictFareRequest"}
                }],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.PredictFareResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "503": {"description": "Model unavailable", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/fares/schema": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Fares"],
                "summary": "Model schema",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SchemaResponse"}}
                }
            }
        },
        "/ws/fares": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Fares"],
                "summary": "Fare quote stream",
                "description": "WebSocket session. Send trip JSON messages, receive one fare_quote or error message per trip.",
                "responses": {"101": {"description": "Switching Protocols"}}
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
    },
    "definitions": {
        "errorResponse": {
            "type": "object",
            "properties": {"error": {}}
        },
        "dto.PredictFareRequest": {
            "type": "object",
            "required": ["pickup_latitude", "pickup_longitude", "dropoff_latitude", "dropoff_longitude", "passenger_count", "pickup_datetime", "dropoff_datetime"],
            "properties": {
                "pickup_latitude": {"type": "number", "example": 40.7128},
                "pickup_longitude": {"type": "number", "example": -74.006},
                "dropoff_latitude": {"type": "number", "example": 40.7831},
                "dropoff_longitude": {"type": "number", "example": -73.9712},
                "passenger_count": {"type": "integer", "minimum": 1, "maximum": 6, "example": 1},
                "pickup_datetime": {"type": "string", "example": "2023-10-27 15:30:00"},
                "dropoff_datetime": {"type": "string", "example": "2023-10-27 15:50:00"}
            }
        },
        "models.FeatureVector": {
            "type": "object",
            "properties": {
                "trip_distance_mile": {"type": "number"},
                "pickup_hour": {"type": "integer"},
                "passenger_count": {"type": "integer"},
                "is_night": {"type": "boolean"}
            }
        },
        "models.FareQuote": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "format": "uuid"},
                "fare": {"type": "number"},
                "features": {"$ref": "#/definitions/models.FeatureVector"},
                "trip_duration_seconds": {"type": "number"},
                "pickup_geohash": {"type": "string"},
                "dropoff_geohash": {"type": "string"},
                "pickup_address": {"type": "string"},
                "dropoff_address": {"type": "string"},
                "model_version": {"type": "string"},
                "cached": {"type": "boolean"},
                "created_at": {"type": "string", "format": "date-time"}
            }
        },
        "dto.PredictFareResponse": {
            "type": "object",
            "properties": {"quote": {"$ref": "#/definitions/models.FareQuote"}}
        },
        "models.ModelInfo": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "version": {"type": "string"},
                "feature_names": {"type": "array", "items": {"type": "string"}}
            }
        },
        "dto.SchemaResponse": {
            "type": "object",
            "properties": {"model": {"$ref": "#/definitions/models.ModelInfo"}}
        }
    }
}`

// FareSwaggerInfo holds exported Swagger Info so clients can modify it
var FareSwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:3000",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Fare API",
	Description:      "Derives trip features (haversine distance, pickup hour, night flag) and scores them with the loaded fare model.",
	InfoInstanceName: "fare",
	SwaggerTemplate:  fareTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(FareSwaggerInfo.InstanceName(), FareSwaggerInfo)
}
