package seeder

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"volunteer-hub/internal/database"
)

var ErrSchemaMismatch = errors.New("schema mismatch")

// SchemaError lists every required column absent from the public schema, as
// table.column.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: missing %s; run migrate up first", ErrSchemaMismatch, strings.Join(e.Missing, ", "))
}

func (e *SchemaError) Unwrap() error { return ErrSchemaMismatch }

// CheckSchema reads the public schema once and reports all missing columns
// across reqs together.
func CheckSchema(ctx context.Context, db database.DB, reqs ...Requirement) error {
	if db == nil {
		return fmt.Errorf("nil db")
	}
	tables := make([]string, 0, len(reqs))
	for _, r := range reqs {
		if r.Table == "" {
			return fmt.Errorf("requirement with empty table")
		}
		tables = append(tables, r.Table)
	}
	if len(tables) == 0 {
		return nil
	}

	rows, err := db.Query(
		ctx,
		`SELECT table_name, column_name FROM information_schema.columns
		 WHERE table_schema = 'public' AND table_name = ANY($1)`,
		tables,
	)
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}
	defer rows.Close()

	existing := map[string]struct{}{}
	for rows.Next() {
		var table, column string
		if err := rows.Scan(&table, &column); err != nil {
			return err
		}
		existing[table+"."+column] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	var missing []string
	for _, r := range reqs {
		for _, col := range r.Columns {
			key := r.Table + "." + col
			if _, ok := existing[key]; !ok {
				missing = append(missing, key)
			}
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return &SchemaError{Missing: missing}
	}
	return nil
}
