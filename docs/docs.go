package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "schemes": {{ marshal .Schemes }},
    "paths": {
        "/health": {
            "get": {
                "tags": ["Health"],
                "summary": "Health Check",
                "description": "Check if server is running",
                "responses": {
                    "200": {
                        "description": "Server is healthy"
                    }
                }
            }
        },
        "/health/detailed": {
            "get": {
                "tags": ["Health"],
                "summary": "Detailed Health Check",
                "description": "Check the pokemon store and the database when one is configured",
                "responses": {
                    "200": {
                        "description": "All checks passed"
                    },
                    "503": {
                        "description": "A check failed"
                    }
                }
            }
        },
        "/pokemons": {
            "get": {
                "tags": ["Pokemons"],
                "summary": "List pokemons",
                "description": "Filter by name substring and type, then paginate. Any other non-empty query key is rejected.",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "search", "in": "query", "description": "Case-insensitive name substring"},
                    {"type": "string", "name": "type", "in": "query", "description": "Pokemon type"},
                    {"type": "integer", "default": 1, "name": "page", "in": "query", "description": "Page number"},
                    {"type": "integer", "default": 10, "name": "limit", "in": "query", "description": "Page size"}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"type": "array", "items": {"$ref": "#/definitions/entities.Pokemon"}}
                    },
                    "400": {
                        "description": "Unsupported filter or invalid pagination",
                        "schema": {"type": "string"}
                    }
                }
            },
            "post": {
                "tags": ["Pokemons"],
                "summary": "Create a new pokemon",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {
                        "description": "Pokemon data",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/ports.CreatePokemonRequest"}
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {"$ref": "#/definitions/entities.Pokemon"}
                    },
                    "400": {
                        "description": "Missing data, too many types, invalid type or duplicate",
                        "schema": {"type": "string"}
                    }
                }
            }
        },
        "/pokemons/{id}": {
            "get": {
                "tags": ["Pokemons"],
                "summary": "Get pokemon by ID",
                "description": "Get a pokemon together with the previous and next pokemon by id",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "description": "Pokemon ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/ports.PokemonDetail"}
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {"type": "string"}
                    }
                }
            },
            "put": {
                "tags": ["Pokemons"],
                "summary": "Update a pokemon",
                "description": "Replace name, types and url of an existing pokemon",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "description": "Pokemon ID", "name": "id", "in": "path", "required": true},
                    {
                        "description": "Pokemon data",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/ports.UpdatePokemonRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/entities.Pokemon"}
                    },
                    "400": {
                        "description": "Missing data, too many types or invalid type",
                        "schema": {"type": "string"}
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {"type": "string"}
                    }
                }
            },
            "delete": {
                "tags": ["Pokemons"],
                "summary": "Delete a pokemon",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "description": "Pokemon ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/entities.Pokemon"}
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {"type": "string"}
                    }
                }
            }
        }
    },
    "definitions": {
        "entities.Pokemon": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "types": {"type": "array", "items": {"type": "string"}},
                "url": {"type": "string"},
                "category": {"type": "string"},
                "abilities": {"type": "array", "items": {"type": "string"}},
                "height": {"type": "string", "example": "5.23 m"},
                "weight": {"type": "string", "example": "31.4 kg"}
            }
        },
        "ports.PokemonDetail": {
            "type": "object",
            "properties": {
                "pokemon": {"$ref": "#/definitions/entities.Pokemon"},
                "previousPokemon": {"$ref": "#/definitions/entities.Pokemon"},
                "nextPokemon": {"$ref": "#/definitions/entities.Pokemon"}
            }
        },
        "ports.CreatePokemonRequest": {
            "type": "object",
            "required": ["id", "name", "types", "url"],
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "types": {"type": "array", "maxItems": 2, "items": {"type": "string"}},
                "url": {"type": "string"}
            }
        },
        "ports.UpdatePokemonRequest": {
            "type": "object",
            "required": ["name", "types", "url"],
            "properties": {
                "name": {"type": "string"},
                "types": {"type": "array", "maxItems": 2, "items": {"type": "string"}},
                "url": {"type": "string"}
            }
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:3001",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Pokedex API",
	Description:      "CRUD API over the pokemon collection",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
