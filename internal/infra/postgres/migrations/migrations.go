package migrations

import "github.com/uptrace/bun/migrate"

// Migrations holds the schema changes in registration order.
var Migrations = migrate.NewMigrations()
