// Package seeder loads demo hosts, volunteers and opportunities from YAML
// fixtures into a migrated database.
package seeder

import (
	"context"

	"volunteer-hub/internal/database"
)

// Seeder writes one kind of fixture. Requires lists the columns Run writes so
// the runner can reject an unmigrated schema before anything is inserted.
type Seeder interface {
	Name() string
	Requires() []Requirement
	Run(ctx context.Context, db database.DB) error
}

// Requirement names the columns a seeder needs on one table.
type Requirement struct {
	Table   string
	Columns []string
}
