// Package migrations embeds SQL migration files.
package migrations

import "embed"

// SchemaFS contiene las migraciones del esquema de la plataforma.
//
//go:embed schema/*.sql
var SchemaFS embed.FS

// SchemaDir es el directorio dentro de SchemaFS donde viven las migraciones.
const SchemaDir = "schema"
