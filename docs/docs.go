// Package docs contiene la especificación Swagger que sirve /swagger/*.
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
        "/appointments/{appointmentID}": {
            "get": {
                "description": "Devuelve la cita con su estado actual.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "appointments"
                ],
                "summary": "Obtener cita",
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID de la cita",
                        "name": "appointmentID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/appointments.AppointmentResponse"
                        }
                    },
                    "404": {
                        "description": "appointment not found",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "502": {
                        "description": "upstream error",
                        "schema": {
                            "type": "string"
                        }
                    }
                }
            }
        },
        "/appointments/{appointmentID}/transition": {
            "get": {
                "description": "Devuelve la sesión de transición de la cita (idle si no hay ninguna).",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "transitions"
                ],
                "summary": "Estado del cambio de estado en curso",
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID de la cita",
                        "name": "appointmentID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/transitions.transitionResponse"
                        }
                    }
                }
            },
            "post": {
                "description": "Abre la confirmación para el nuevo estado. Mismo estado: no-op. Pedidos duplicados dentro del cooldown o con un commit en curso se ignoran (ignored=true).",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "transitions"
                ],
                "summary": "Pedir cambio de estado",
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID de la cita",
                        "name": "appointmentID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Estado pedido",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/transitions.transitionRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/transitions.transitionResponse"
                        }
                    },
                    "400": {
                        "description": "invalid json / invalid status",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "404": {
                        "description": "appointment not found",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "502": {
                        "description": "upstream error",
                        "schema": {
                            "type": "string"
                        }
                    }
                }
            }
        },
        "/appointments/{appointmentID}/transition/cancel": {
            "post": {
                "description": "Cierra la confirmación o el editor sin tocar nada. Un commit en curso no se cancela.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "transitions"
                ],
                "summary": "Cancelar cambio de estado",
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID de la cita",
                        "name": "appointmentID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/transitions.transitionResponse"
                        }
                    }
                }
            }
        },
        "/appointments/{appointmentID}/transition/confirm": {
            "post": {
                "description": "Acepta la confirmación. direct_update y delete_medical_history persisten en el acto; create/edit abren el editor de historia clínica.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "transitions"
                ],
                "summary": "Confirmar cambio de estado",
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID de la cita",
                        "name": "appointmentID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/transitions.transitionResponse"
                        }
                    },
                    "404": {
                        "description": "registro eliminado entre búsqueda y update",
                        "schema": {
                            "$ref": "#/definitions/transitions.failureResponse"
                        }
                    },
                    "502": {
                        "description": "error del backend",
                        "schema": {
                            "$ref": "#/definitions/transitions.failureResponse"
                        }
                    }
                }
            }
        },
        "/appointments/{appointmentID}/transition/medical-history": {
            "post": {
                "description": "Guarda la historia clínica (create o update) y recién después persiste el nuevo estado. Con error de validación el editor queda abierto.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "transitions"
                ],
                "summary": "Enviar historia clínica",
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID de la cita",
                        "name": "appointmentID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Formulario; campos ausentes toman el valor pre-cargado",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/transitions.medicalHistoryRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/transitions.transitionResponse"
                        }
                    },
                    "400": {
                        "description": "validación",
                        "schema": {
                            "$ref": "#/definitions/transitions.failureResponse"
                        }
                    },
                    "404": {
                        "description": "registro eliminado",
                        "schema": {
                            "$ref": "#/definitions/transitions.failureResponse"
                        }
                    },
                    "502": {
                        "description": "error del backend",
                        "schema": {
                            "$ref": "#/definitions/transitions.failureResponse"
                        }
                    }
                }
            }
        },
        "/medical-history/follow-up": {
            "get": {
                "description": "Combina fecha (YYYY-MM-DD) y hora opcional (HH:MM, por defecto 09:00) en hora local del servidor.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "medical-history"
                ],
                "summary": "Calcular fecha de seguimiento",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Fecha de seguimiento YYYY-MM-DD",
                        "name": "date",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "Hora HH:MM",
                        "name": "time",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/medicalhistory.followUpResponse"
                        }
                    },
                    "400": {
                        "description": "date must be YYYY-MM-DD",
                        "schema": {
                            "type": "string"
                        }
                    }
                }
            }
        },
        "/pets/{petID}/medical-history": {
            "get": {
                "description": "Lista los registros de historia clínica de la mascota, del más reciente al más antiguo.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "medical-history"
                ],
                "summary": "Listar historia clínica de una mascota",
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID de la mascota",
                        "name": "petID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "integer",
                        "description": "Página (desde 1)",
                        "name": "page",
                        "in": "query"
                    },
                    {
                        "type": "integer",
                        "description": "Tamaño de página (1-100). Por defecto 100",
                        "name": "limit",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/medicalhistory.RecordResponse"
                            }
                        }
                    },
                    "400": {
                        "description": "pet id required",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "502": {
                        "description": "medical history lookup failed",
                        "schema": {
                            "type": "string"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "appointments.AppointmentResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "pet_id": {
                    "type": "string"
                },
                "doctor_id": {
                    "type": "string"
                },
                "service_id": {
                    "type": "string"
                },
                "status": {
                    "type": "string",
                    "enum": [
                        "pending",
                        "confirmed",
                        "completed",
                        "cancelled"
                    ]
                },
                "status_label": {
                    "type": "string"
                },
                "appointment_date": {
                    "type": "string"
                }
            }
        },
        "medicalhistory.RecordResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "pet_id": {
                    "type": "string"
                },
                "doctor_id": {
                    "type": "string"
                },
                "appointment_id": {
                    "type": "string"
                },
                "record_date": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "treatment": {
                    "type": "string"
                },
                "notes": {
                    "type": "string"
                },
                "next_appointment_date": {
                    "type": "string"
                },
                "next_service_id": {
                    "type": "string"
                },
                "reminder_note": {
                    "type": "string"
                },
                "created_at": {
                    "type": "string"
                },
                "updated_at": {
                    "type": "string"
                }
            }
        },
        "medicalhistory.followUpResponse": {
            "type": "object",
            "properties": {
                "next_appointment_date": {
                    "type": "string"
                }
            }
        },
        "transitions.formResponse": {
            "type": "object",
            "properties": {
                "pet_id": {
                    "type": "string"
                },
                "doctor_id": {
                    "type": "string"
                },
                "appointment_id": {
                    "type": "string"
                },
                "record_date": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "treatment": {
                    "type": "string"
                },
                "notes": {
                    "type": "string"
                },
                "next_appointment_date": {
                    "type": "string"
                },
                "next_appointment_time": {
                    "type": "string"
                },
                "next_service_id": {
                    "type": "string"
                },
                "reminder_note": {
                    "type": "string"
                }
            }
        },
        "transitions.medicalHistoryRequest": {
            "type": "object",
            "properties": {
                "pet_id": {
                    "type": "string"
                },
                "doctor_id": {
                    "type": "string"
                },
                "record_date": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "treatment": {
                    "type": "string"
                },
                "notes": {
                    "type": "string"
                },
                "next_appointment_date": {
                    "type": "string"
                },
                "next_appointment_time": {
                    "type": "string"
                },
                "next_service_id": {
                    "type": "string"
                },
                "reminder_note": {
                    "type": "string"
                }
            }
        },
        "transitions.prefillResponse": {
            "type": "object",
            "properties": {
                "appointment": {
                    "$ref": "#/definitions/appointments.AppointmentResponse"
                },
                "defaults": {
                    "$ref": "#/definitions/transitions.formResponse"
                },
                "existing_record": {
                    "$ref": "#/definitions/medicalhistory.RecordResponse"
                },
                "is_edit": {
                    "type": "boolean"
                },
                "problem": {
                    "type": "string"
                }
            }
        },
        "transitions.transitionRequest": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string",
                    "enum": [
                        "pending",
                        "confirmed",
                        "completed",
                        "cancelled"
                    ]
                }
            }
        },
        "transitions.transitionResponse": {
            "type": "object",
            "properties": {
                "appointment_id": {
                    "type": "string"
                },
                "state": {
                    "type": "string",
                    "enum": [
                        "idle",
                        "awaiting_confirmation",
                        "awaiting_medical_history_input",
                        "committing"
                    ]
                },
                "workflow": {
                    "type": "string",
                    "enum": [
                        "direct_update",
                        "create_medical_history",
                        "edit_medical_history",
                        "delete_medical_history"
                    ]
                },
                "title": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "current_status": {
                    "type": "string"
                },
                "requested_status": {
                    "type": "string"
                },
                "prefill": {
                    "$ref": "#/definitions/transitions.prefillResponse"
                },
                "ignored": {
                    "type": "boolean"
                },
                "committed": {
                    "type": "boolean"
                }
            }
        },
        "transitions.failureResponse": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "string"
                },
                "transition": {
                    "$ref": "#/definitions/transitions.transitionResponse"
                }
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
	Title:            "Vet Clinic Console API",
	Description:      "Cambios de estado de citas con su historia clínica.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
