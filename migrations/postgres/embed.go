// Package migrations embebe los archivos SQL del esquema postgres.
package migrations

import "embed"

// FS contiene las migraciones NNNN_nombre.sql en orden de versión.
//
//go:embed *.sql
var FS embed.FS

// Dir es el directorio dentro de FS donde viven las migraciones.
const Dir = "."
