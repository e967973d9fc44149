package database_test

import (
	"context"
	"testing"

	"github.com/nestcare/crm/internal/database"
	"github.com/nestcare/crm/internal/testhelpers"
)

func TestMigrationsCreateAllTables(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	ctx := context.Background()

	if err := database.Migrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	tables := []string{
		"schema_migrations",
		"object_definitions",
		"field_definitions",
		"picklist_values",
		"page_layouts",
		"record_types",
		"users",
		"leads",
		"contacts",
		"accounts",
		"opportunities",
		"activities",
		"contact_account_relationships",
	}

	for _, table := range tables {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %q not found: %v", table, err)
		}
	}
}

func TestMigrationsCascadeDeleteMetadata(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	ctx := context.Background()

	if err := database.Migrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	// Insert an object with a field, a picklist value, a layout and a record
	// type, then delete the object and verify every child row is gone.
	mustExec := func(query string, args ...any) {
		t.Helper()
		if _, err := db.ExecContext(ctx, query, args...); err != nil {
			t.Fatalf("exec %q: %v", query, err)
		}
	}

	mustExec(`INSERT INTO object_definitions (id, api_name, label, plural_label, is_custom, tenant_id, created_at, updated_at)
		VALUES ('obj-1', 'pets__c', 'Pet', 'Pets', TRUE, 't-1', '2026-01-01', '2026-01-01')`)
	mustExec(`INSERT INTO field_definitions (id, object_id, api_name, label, field_type, created_at, updated_at)
		VALUES ('fld-1', 'obj-1', 'species__c', 'Species', 'picklist', '2026-01-01', '2026-01-01')`)
	mustExec(`INSERT INTO picklist_values (id, field_id, value, label) VALUES ('plv-1', 'fld-1', 'dog', 'Dog')`)
	mustExec(`INSERT INTO page_layouts (id, object_id, name, is_default, created_at, updated_at)
		VALUES ('lay-1', 'obj-1', 'Default', TRUE, '2026-01-01', '2026-01-01')`)
	mustExec(`INSERT INTO record_types (id, object_id, name, label, page_layout_id, created_at, updated_at)
		VALUES ('rt-1', 'obj-1', 'default', 'Default', 'lay-1', '2026-01-01', '2026-01-01')`)

	mustExec(`DELETE FROM object_definitions WHERE id = 'obj-1'`)

	for _, table := range []string{"field_definitions", "picklist_values", "page_layouts", "record_types"} {
		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if count != 0 {
			t.Errorf("%s has %d rows after cascade delete, want 0", table, count)
		}
	}
}
