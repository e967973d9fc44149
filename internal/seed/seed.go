// Package seed installs the standard object catalog and optional demo data.
package seed

import (
	"context"
	"database/sql"
	"fmt"
)

// Seed inserts the standard catalog into the database. It is idempotent;
// existing rows are left untouched. Call order matters: objects first, then
// fields, picklist values, layouts and record types.
func Seed(ctx context.Context, db *sql.DB) error {
	if err := StandardObjects(ctx, db); err != nil {
		return fmt.Errorf("seed standard objects: %w", err)
	}
	if err := StandardFields(ctx, db); err != nil {
		return fmt.Errorf("seed standard fields: %w", err)
	}
	if err := StandardLayouts(ctx, db); err != nil {
		return fmt.Errorf("seed standard layouts: %w", err)
	}
	return nil
}
