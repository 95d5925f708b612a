package postgres

import "embed"

// Migrations holds the schema for the prediction history tables.
//
//go:embed migrations/*.sql
var Migrations embed.FS

const MigrationsDir = "migrations"
