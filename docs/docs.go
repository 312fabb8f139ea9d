// Package docs registers the host API's OpenAPI description with swag so
// gin-swagger can serve it at /swagger/doc.json.
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
    "securityDefinitions": {
        "HostToken": {"type": "apiKey", "name": "Authorization", "in": "header", "description": "Token <host api key>"},
        "AdminKey": {"type": "apiKey", "name": "Authorization", "in": "header", "description": "Bearer <API_KEY>"}
    },
    "paths": {
        "/health": {
            "get": {
                "tags": ["system"],
                "summary": "Health check",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "status: healthy"},
                    "503": {"description": "status: unhealthy"}
                }
            }
        },
        "/host/": {
            "get": {
                "tags": ["hosts"],
                "summary": "List hosts",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.HostListResponse"}}
                }
            },
            "post": {
                "tags": ["hosts"],
                "summary": "Register a host",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/models.RegisterHostRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Host"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/host/{name}/": {
            "get": {
                "security": [{"HostToken": []}],
                "tags": ["hosts"],
                "summary": "Get a host",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "in": "path", "name": "name", "required": true},
                    {"type": "string", "in": "query", "name": "with_containers"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Host"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            },
            "patch": {
                "security": [{"HostToken": []}],
                "tags": ["hosts"],
                "summary": "Update a host",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "in": "path", "name": "name", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/models.UpdateHostRequest"}}
                ],
                "responses": {
                    "200": {"description": "status: updated"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"HostToken": []}],
                "tags": ["hosts"],
                "summary": "Delete a host",
                "parameters": [
                    {"type": "string", "in": "path", "name": "name", "required": true}
                ],
                "responses": {
                    "200": {"description": "status: deleted"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/host/{name}/container/{container}/": {
            "patch": {
                "security": [{"HostToken": []}],
                "tags": ["containers"],
                "summary": "Report a container",
                "consumes": ["application/json"],
                "parameters": [
                    {"type": "string", "in": "path", "name": "name", "required": true},
                    {"type": "string", "in": "path", "name": "container", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/models.UpdateContainerRequest"}}
                ],
                "responses": {
                    "200": {"description": "status: updated"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/host/{name}/enlist/": {
            "patch": {
                "security": [{"AdminKey": []}],
                "tags": ["hosts"],
                "summary": "Enlist or withdraw a host",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "in": "path", "name": "name", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/models.EnlistHostRequest"}}
                ],
                "responses": {
                    "200": {"description": "status: updated"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/container/": {
            "post": {
                "security": [{"AdminKey": []}],
                "tags": ["containers"],
                "summary": "Request a container",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/models.CreateContainerRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.CreateContainerResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "503": {"description": "No enlisted hosts", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "api.ErrorResponse": {
            "type": "object",
            "properties": {"code": {"type": "string"}, "message": {"type": "string"}}
        },
        "models.Container": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "template": {"type": "string"},
                "release": {"type": "string"},
                "init_script": {"type": "string"},
                "date_requested": {"type": "integer"},
                "date_created": {"type": "integer"},
                "max_memory": {"type": "integer"},
                "re_create": {"type": "boolean"},
                "keep_running": {"type": "boolean"}
            }
        },
        "models.ContainerProps": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string"},
                "max_memory": {"type": "integer"},
                "date_created": {"type": "integer"}
            }
        },
        "models.Host": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "distro_id": {"type": "string"},
                "distro_release": {"type": "string"},
                "distro_codename": {"type": "string"},
                "mem_total": {"type": "integer"},
                "cpu_total": {"type": "integer"},
                "cpu_type": {"type": "string"},
                "enlisted": {"type": "boolean"},
                "containers": {"type": "array", "items": {"$ref": "#/definitions/models.Container"}}
            }
        },
        "models.EnlistHostRequest": {
            "type": "object",
            "required": ["enlisted"],
            "properties": {"enlisted": {"type": "boolean"}}
        },
        "models.HostListResponse": {
            "type": "object",
            "properties": {"hosts": {"type": "array", "items": {"type": "string"}}}
        },
        "models.RegisterHostRequest": {
            "type": "object",
            "required": ["name", "api_key"],
            "properties": {
                "name": {"type": "string"},
                "distro_id": {"type": "string"},
                "distro_release": {"type": "string"},
                "distro_codename": {"type": "string"},
                "mem_total": {"type": "integer"},
                "cpu_total": {"type": "integer"},
                "cpu_type": {"type": "string"},
                "api_key": {"type": "string"},
                "containers": {"type": "array", "items": {"$ref": "#/definitions/models.ContainerProps"}}
            }
        },
        "models.UpdateHostRequest": {
            "type": "object",
            "properties": {
                "distro_id": {"type": "string"},
                "distro_release": {"type": "string"},
                "distro_codename": {"type": "string"},
                "mem_total": {"type": "integer"},
                "cpu_total": {"type": "integer"},
                "cpu_type": {"type": "string"},
                "containers": {"type": "array", "items": {"$ref": "#/definitions/models.ContainerProps"}}
            }
        },
        "models.UpdateContainerRequest": {
            "type": "object",
            "properties": {
                "max_memory": {"type": "integer"},
                "date_created": {"type": "integer"}
            }
        },
        "models.CreateContainerRequest": {
            "type": "object",
            "required": ["name", "template", "release"],
            "properties": {
                "name": {"type": "string"},
                "template": {"type": "string", "enum": ["ubuntu-cloud", "debian"]},
                "release": {"type": "string"},
                "max_memory": {"type": "integer"},
                "init_script": {"type": "string"}
            }
        },
        "models.CreateContainerResponse": {
            "type": "object",
            "properties": {
                "host": {"type": "string"},
                "container": {"$ref": "#/definitions/models.Container"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "cya API",
	Description:      "Container inventory for a fleet of hosts. Hosts register, report their containers and fetch the state they should converge to.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
