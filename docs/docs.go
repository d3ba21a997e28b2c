// Package docs registra la especificación OpenAPI servida en /docs.
// Regenerar las rutas con swag init cuando cambien las anotaciones de los handlers.
package docs

import (
	_ "embed"

	"github.com/swaggo/swag"
)

//go:embed swagger.tmpl.json
var docTemplate string

// SwaggerInfo metadatos expuestos en la UI.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "VeroScale API",
	Description:      "Registro de pesajes de material, aprobación, incidencias y puente IoT.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
