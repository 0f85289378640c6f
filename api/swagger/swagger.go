package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "TerpSched Schedule API",
        "description": "Generates every conflict-free course schedule for a term, ranked by instructor quality",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Schedules", "description": "Schedule generation and export"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/api/v1/schedule": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Generate all valid schedules for the requested courses",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateScheduleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "No feasible schedule", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Section retrieval failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/schedule/export": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Export one schedule as an iCalendar feed",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExportScheduleRequest"}}
                ],
                "produces": ["text/calendar"],
                "responses": {
                    "200": {"description": "iCalendar document"},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "Meeting": {
            "type": "object",
            "properties": {
                "days": {"type": "array", "items": {"type": "string", "enum": ["M", "Tu", "W", "Th", "F"]}},
                "startMinutes": {"type": "integer"},
                "endMinutes": {"type": "integer"},
                "location": {"type": "string"},
                "kind": {"type": "string"}
            }
        },
        "Section": {
            "type": "object",
            "properties": {
                "courseId": {"type": "string"},
                "sectionId": {"type": "string"},
                "instructors": {"type": "array", "items": {"type": "string"}},
                "meetings": {"type": "array", "items": {"$ref": "#/definitions/Meeting"}},
                "totalSeats": {"type": "integer"},
                "openSeats": {"type": "integer"},
                "waitlistCount": {"type": "integer"},
                "qualityWeight": {"type": "number"}
            }
        },
        "Schedule": {
            "type": "object",
            "properties": {
                "sections": {"type": "object", "additionalProperties": {"$ref": "#/definitions/Section"}},
                "qualityWeight": {"type": "number"}
            }
        },
        "TimeWindow": {
            "type": "object",
            "properties": {
                "day": {"type": "string", "enum": ["M", "Tu", "W", "Th", "F"]},
                "startMinutes": {"type": "integer"},
                "endMinutes": {"type": "integer"}
            }
        },
        "Restrictions": {
            "type": "object",
            "properties": {
                "minOpenSeats": {"type": "integer"},
                "prohibitedInstructors": {"type": "array", "items": {"type": "string"}},
                "prohibitedTimes": {"type": "array", "items": {"$ref": "#/definitions/TimeWindow"}},
                "requiredCourses": {"type": "array", "items": {"type": "string"}}
            }
        },
        "CreateScheduleRequest": {
            "type": "object",
            "properties": {
                "courses": {"type": "array", "items": {"type": "string"}},
                "semester": {"type": "string"},
                "restrictions": {"$ref": "#/definitions/Restrictions"}
            },
            "required": ["courses"]
        },
        "ExportScheduleRequest": {
            "type": "object",
            "properties": {
                "startDate": {"type": "string", "format": "date"},
                "weeks": {"type": "integer"},
                "schedule": {"$ref": "#/definitions/Schedule"}
            },
            "required": ["startDate", "schedule"]
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "details": {"type": "object"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
