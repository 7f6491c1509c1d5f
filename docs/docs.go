// Package docs registers the swagger document served under /swagger.
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
		"/health": {
			"get": {
				"tags": [
					"Health"
				],
				"summary": "Health Check",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/auth/login": {
			"post": {
				"tags": [
					"Auth"
				],
				"summary": "Login",
				"produces": [
					"application/json"
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"in": "body",
						"name": "request",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.LoginRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/companies": {
			"get": {
				"tags": [
					"Companies"
				],
				"summary": "List Companies",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			},
			"post": {
				"tags": [
					"Companies"
				],
				"summary": "Create Company",
				"produces": [
					"application/json"
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"in": "body",
						"name": "request",
						"required": true,
						"schema": {
							"$ref": "#/definitions/services.CompanyInput"
						}
					}
				],
				"responses": {
					"201": {
						"description": "Created"
					},
					"401": {
						"description": "Caller not identified"
					},
					"422": {
						"description": "Validation failed"
					},
					"503": {
						"description": "Workbook busy, retry"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/engineers": {
			"get": {
				"tags": [
					"Engineers"
				],
				"summary": "List Engineers",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"in": "query",
						"name": "active",
						"type": "boolean",
						"description": "Only active engineers"
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			},
			"post": {
				"tags": [
					"Engineers"
				],
				"summary": "Create Engineer",
				"produces": [
					"application/json"
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"in": "body",
						"name": "request",
						"required": true,
						"schema": {
							"$ref": "#/definitions/services.EngineerInput"
						}
					}
				],
				"responses": {
					"201": {
						"description": "Created"
					},
					"401": {
						"description": "Caller not identified"
					},
					"422": {
						"description": "Validation failed"
					},
					"503": {
						"description": "Workbook busy, retry"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/sites": {
			"get": {
				"tags": [
					"Sites"
				],
				"summary": "List Sites",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			},
			"post": {
				"tags": [
					"Sites"
				],
				"summary": "Create Site",
				"produces": [
					"application/json"
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"in": "body",
						"name": "request",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.CreateSiteRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "Created"
					},
					"401": {
						"description": "Caller not identified"
					},
					"422": {
						"description": "Validation failed"
					},
					"503": {
						"description": "Workbook busy, retry"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/assignments": {
			"get": {
				"tags": [
					"Assignments"
				],
				"summary": "List Assignments",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			},
			"post": {
				"tags": [
					"Assignments"
				],
				"summary": "Assign Engineer",
				"produces": [
					"application/json"
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"in": "body",
						"name": "request",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.AssignEngineerRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "Created"
					},
					"401": {
						"description": "Caller not identified"
					},
					"422": {
						"description": "Validation failed"
					},
					"503": {
						"description": "Workbook busy, retry"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/allocations": {
			"get": {
				"tags": [
					"Allocations"
				],
				"summary": "List Fund Allocations",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			},
			"post": {
				"tags": [
					"Allocations"
				],
				"summary": "Allocate Funds",
				"produces": [
					"application/json"
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"in": "body",
						"name": "request",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.AllocateRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "Created"
					},
					"401": {
						"description": "Caller not identified"
					},
					"422": {
						"description": "Validation failed"
					},
					"503": {
						"description": "Workbook busy, retry"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/expenses": {
			"get": {
				"tags": [
					"Expenses"
				],
				"summary": "List Expenses",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			},
			"post": {
				"tags": [
					"Expenses"
				],
				"summary": "Record Expense",
				"produces": [
					"application/json"
				],
				"consumes": [
					"application/json",
					"multipart/form-data"
				],
				"parameters": [
					{
						"in": "body",
						"name": "request",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.CreateExpenseRequest"
						}
					},
					{
						"in": "formData",
						"name": "receipt",
						"type": "file",
						"description": "Receipt"
					}
				],
				"responses": {
					"201": {
						"description": "Created"
					},
					"401": {
						"description": "Caller not identified"
					},
					"422": {
						"description": "Validation failed"
					},
					"503": {
						"description": "Workbook busy, retry"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/expenses/pending": {
			"get": {
				"tags": [
					"Expenses"
				],
				"summary": "Pending Expenses",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/expenses/{expense_id}/receipt": {
			"get": {
				"tags": [
					"Expenses"
				],
				"summary": "Download Expense Receipt",
				"produces": [
					"application/octet-stream"
				],
				"parameters": [
					{
						"in": "path",
						"name": "expense_id",
						"required": true,
						"type": "string",
						"description": "Expense ID"
					},
					{
						"in": "query",
						"name": "thumbnail",
						"type": "boolean",
						"description": "Image preview instead of the original"
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"404": {
						"description": "Not Found"
					}
				}
			}
		},
		"/expenses/{expense_id}/approve": {
			"post": {
				"tags": [
					"Expenses"
				],
				"summary": "Approve Expense",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"in": "path",
						"name": "expense_id",
						"required": true,
						"type": "string",
						"description": "Expense ID"
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"404": {
						"description": "Not Found"
					},
					"409": {
						"description": "Not pending"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/expenses/{expense_id}/reject": {
			"post": {
				"tags": [
					"Expenses"
				],
				"summary": "Reject Expense",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"in": "path",
						"name": "expense_id",
						"required": true,
						"type": "string",
						"description": "Expense ID"
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"404": {
						"description": "Not Found"
					},
					"409": {
						"description": "Not pending"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/dashboard/sites": {
			"get": {
				"tags": [
					"Dashboard"
				],
				"summary": "Site Summary",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/dashboard/engineers": {
			"get": {
				"tags": [
					"Dashboard"
				],
				"summary": "Engineer Summary",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/export/{table}": {
			"get": {
				"tags": [
					"Export"
				],
				"summary": "Export Table",
				"produces": [
					"text/csv"
				],
				"parameters": [
					{
						"in": "path",
						"name": "table",
						"required": true,
						"type": "string",
						"description": "Table name",
						"enum": [
							"companies",
							"engineers",
							"sites",
							"assignments",
							"fund_allocations",
							"expenses",
							"audit_log"
						]
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"404": {
						"description": "Unknown table"
					}
				}
			}
		},
		"/export/workbook": {
			"get": {
				"tags": [
					"Export"
				],
				"summary": "Export Workbook",
				"produces": [
					"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/export/dashboard": {
			"get": {
				"tags": [
					"Export"
				],
				"summary": "Export Dashboard",
				"produces": [
					"application/pdf"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/audits": {
			"get": {
				"tags": [
					"Audits"
				],
				"summary": "List Audit Log",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"in": "query",
						"name": "page",
						"type": "integer",
						"default": 1
					},
					{
						"in": "query",
						"name": "per_page",
						"type": "integer",
						"default": 50
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		}
	},
	"definitions": {
		"handlers.LoginRequest": {
			"type": "object",
			"properties": {
				"name": {
					"type": "string"
				},
				"email": {
					"type": "string"
				}
			},
			"required": [
				"name"
			]
		},
		"services.CompanyInput": {
			"type": "object",
			"properties": {
				"company_name": {
					"type": "string"
				},
				"address": {
					"type": "string"
				},
				"phone": {
					"type": "string"
				}
			}
		},
		"services.EngineerInput": {
			"type": "object",
			"properties": {
				"name": {
					"type": "string"
				},
				"role": {
					"type": "string"
				},
				"phone": {
					"type": "string"
				},
				"email": {
					"type": "string"
				}
			}
		},
		"handlers.CreateSiteRequest": {
			"type": "object",
			"properties": {
				"site_name": {
					"type": "string"
				},
				"location": {
					"type": "string"
				},
				"start_date": {
					"type": "string"
				}
			}
		},
		"handlers.AssignEngineerRequest": {
			"type": "object",
			"properties": {
				"engineer_id": {
					"type": "string"
				},
				"site_id": {
					"type": "string"
				},
				"assigned_by": {
					"type": "string"
				},
				"assigned_on": {
					"type": "string"
				}
			}
		},
		"handlers.AllocateRequest": {
			"type": "object",
			"properties": {
				"engineer_id": {
					"type": "string"
				},
				"site_id": {
					"type": "string"
				},
				"amount": {
					"type": "string"
				},
				"date": {
					"type": "string"
				},
				"notes": {
					"type": "string"
				}
			}
		},
		"handlers.CreateExpenseRequest": {
			"type": "object",
			"properties": {
				"site_id": {
					"type": "string"
				},
				"engineer_id": {
					"type": "string"
				},
				"expense_type": {
					"type": "string"
				},
				"amount": {
					"type": "string"
				},
				"date": {
					"type": "string"
				},
				"payment_mode": {
					"type": "string"
				},
				"notes": {
					"type": "string"
				}
			}
		}
	},
	"securityDefinitions": {
		"BearerAuth": {
			"type": "apiKey",
			"name": "Authorization",
			"in": "header"
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http"},
	Title:            "SiteTrack API",
	Description:      "Construction site tracker: engineers, sites, fund allocations, expenses and approvals kept in one shared workbook.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
