package seed

import (
	"context"
	"database/sql"
	"fmt"
)

const seedTimestamp = "2026-01-01T00:00:00.000Z"

type objectDef struct {
	id          string
	apiName     string
	label       string
	pluralLabel string
	description string
}

// The fixed standard entities. Standard definitions carry a NULL tenant_id so
// every tenant sees them.
var standardObjects = []objectDef{
	{id: "obj-lead", apiName: "lead", label: "Lead", pluralLabel: "Leads",
		description: "An unqualified prospect"},
	{id: "obj-contact", apiName: "contact", label: "Contact", pluralLabel: "Contacts",
		description: "A qualified person"},
	{id: "obj-account", apiName: "account", label: "Account", pluralLabel: "Accounts",
		description: "A household or organization"},
	{id: "obj-opportunity", apiName: "opportunity", label: "Opportunity", pluralLabel: "Opportunities",
		description: "A potential sale"},
	{id: "obj-activity", apiName: "activity", label: "Activity", pluralLabel: "Activities",
		description: "A task or interaction"},
}

// StandardObjects inserts the standard object definitions if none exist yet.
func StandardObjects(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM object_definitions WHERE is_standard = TRUE`).Scan(&count); err != nil {
		return fmt.Errorf("count standard objects: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, od := range standardObjects {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO object_definitions (id, api_name, label, plural_label, description,
			 is_standard, is_custom, is_active, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, TRUE, FALSE, TRUE, ?, ?)`,
			od.id, od.apiName, od.label, od.pluralLabel, od.description, seedTimestamp, seedTimestamp,
		); err != nil {
			return fmt.Errorf("insert standard object %s: %w", od.apiName, err)
		}
	}

	return nil
}

type fieldDef struct {
	id        string
	objectID  string
	apiName   string
	label     string
	fieldType string
	order     int
	required  bool
	picklist  []string
}

var standardFields = []fieldDef{
	{id: "fld-lead-first-name", objectID: "obj-lead", apiName: "first_name", label: "First Name", fieldType: "text", order: 1, required: true},
	{id: "fld-lead-last-name", objectID: "obj-lead", apiName: "last_name", label: "Last Name", fieldType: "text", order: 2, required: true},
	{id: "fld-lead-email", objectID: "obj-lead", apiName: "email", label: "Email", fieldType: "email", order: 3},
	{id: "fld-lead-phone", objectID: "obj-lead", apiName: "phone", label: "Phone", fieldType: "phone", order: 4},
	{id: "fld-lead-status", objectID: "obj-lead", apiName: "lead_status", label: "Status", fieldType: "picklist", order: 5,
		picklist: []string{"new", "contacted", "qualified", "converted", "lost"}},
	{id: "fld-lead-source", objectID: "obj-lead", apiName: "lead_source", label: "Source", fieldType: "picklist", order: 6,
		picklist: []string{"web", "referral", "event", "social", "other"}},
	{id: "fld-lead-service-interest", objectID: "obj-lead", apiName: "service_interest", label: "Service Interest", fieldType: "text", order: 7},
	{id: "fld-lead-estimated-value", objectID: "obj-lead", apiName: "estimated_value", label: "Estimated Value", fieldType: "currency", order: 8},
	{id: "fld-lead-due-date", objectID: "obj-lead", apiName: "expected_due_date", label: "Expected Due Date", fieldType: "date", order: 9},

	{id: "fld-contact-first-name", objectID: "obj-contact", apiName: "first_name", label: "First Name", fieldType: "text", order: 1, required: true},
	{id: "fld-contact-last-name", objectID: "obj-contact", apiName: "last_name", label: "Last Name", fieldType: "text", order: 2, required: true},
	{id: "fld-contact-email", objectID: "obj-contact", apiName: "email", label: "Email", fieldType: "email", order: 3},
	{id: "fld-contact-phone", objectID: "obj-contact", apiName: "phone", label: "Phone", fieldType: "phone", order: 4},
	{id: "fld-contact-account", objectID: "obj-contact", apiName: "account_id", label: "Account", fieldType: "lookup", order: 5},
	{id: "fld-contact-due-date", objectID: "obj-contact", apiName: "expected_due_date", label: "Expected Due Date", fieldType: "date", order: 6},

	{id: "fld-account-name", objectID: "obj-account", apiName: "name", label: "Name", fieldType: "text", order: 1, required: true},
	{id: "fld-account-type", objectID: "obj-account", apiName: "account_type", label: "Type", fieldType: "picklist", order: 2,
		picklist: []string{"household", "organization"}},
	{id: "fld-account-status", objectID: "obj-account", apiName: "account_status", label: "Status", fieldType: "picklist", order: 3,
		picklist: []string{"prospect", "active", "inactive"}},

	{id: "fld-opp-name", objectID: "obj-opportunity", apiName: "name", label: "Name", fieldType: "text", order: 1, required: true},
	{id: "fld-opp-stage", objectID: "obj-opportunity", apiName: "stage", label: "Stage", fieldType: "picklist", order: 2,
		picklist: []string{"qualification", "needs_analysis", "proposal", "negotiation", "closed_won", "closed_lost"}},
	{id: "fld-opp-amount", objectID: "obj-opportunity", apiName: "amount", label: "Amount", fieldType: "currency", order: 3},
	{id: "fld-opp-service-type", objectID: "obj-opportunity", apiName: "service_type", label: "Service Type", fieldType: "text", order: 4},

	{id: "fld-activity-subject", objectID: "obj-activity", apiName: "subject", label: "Subject", fieldType: "text", order: 1, required: true},
	{id: "fld-activity-type", objectID: "obj-activity", apiName: "activity_type", label: "Type", fieldType: "picklist", order: 2,
		picklist: []string{"call", "email", "meeting", "task", "note"}},
	{id: "fld-activity-status", objectID: "obj-activity", apiName: "activity_status", label: "Status", fieldType: "picklist", order: 3,
		picklist: []string{"open", "completed", "cancelled"}},
}

// StandardFields inserts the standard field definitions and their picklist
// values if none exist yet.
func StandardFields(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM field_definitions`).Scan(&count); err != nil {
		return fmt.Errorf("count fields: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, fd := range standardFields {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO field_definitions (id, object_id, api_name, label, field_type,
			 display_order, is_required, is_active, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, TRUE, ?, ?)`,
			fd.id, fd.objectID, fd.apiName, fd.label, fd.fieldType,
			fd.order, fd.required, seedTimestamp, seedTimestamp,
		); err != nil {
			return fmt.Errorf("insert field %s.%s: %w", fd.objectID, fd.apiName, err)
		}

		for i, value := range fd.picklist {
			if _, err := db.ExecContext(ctx,
				`INSERT INTO picklist_values (id, field_id, value, label, display_order, is_active)
				 VALUES (?, ?, ?, ?, ?, TRUE)`,
				fmt.Sprintf("%s-pv-%d", fd.id, i+1), fd.id, value, value, i+1,
			); err != nil {
				return fmt.Errorf("insert picklist value %s.%s: %w", fd.apiName, value, err)
			}
		}
	}

	return nil
}

// StandardLayouts inserts one default layout per standard object plus the
// opportunity record types, if none exist yet.
func StandardLayouts(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM page_layouts`).Scan(&count); err != nil {
		return fmt.Errorf("count layouts: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, od := range standardObjects {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO page_layouts (id, object_id, name, is_default, sections, created_at, updated_at)
			 VALUES (?, ?, ?, TRUE, '[]', ?, ?)`,
			od.id+"-layout", od.id, od.label+" Layout", seedTimestamp, seedTimestamp,
		); err != nil {
			return fmt.Errorf("insert layout for %s: %w", od.apiName, err)
		}
	}

	recordTypes := []struct{ id, name, label string }{
		{id: "rt-opp-birth", name: "birth_services", label: "Birth Services"},
		{id: "rt-opp-postpartum", name: "postpartum_services", label: "Postpartum Services"},
	}
	for _, rt := range recordTypes {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO record_types (id, object_id, name, label, page_layout_id, is_active, created_at, updated_at)
			 VALUES (?, 'obj-opportunity', ?, ?, 'obj-opportunity-layout', TRUE, ?, ?)`,
			rt.id, rt.name, rt.label, seedTimestamp, seedTimestamp,
		); err != nil {
			return fmt.Errorf("insert record type %s: %w", rt.name, err)
		}
	}

	return nil
}
