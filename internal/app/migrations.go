package app

import "embed"

// Migrations содержит SQL миграции goose, встроенные в бинарник
//
//go:embed migrations/*.sql
var Migrations embed.FS
