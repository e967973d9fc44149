package database

// migrations is an ordered list of SQL migration groups. Each entry is a slice
// of SQL statements that are executed together in a single transaction. The
// version number is the 1-based index into this slice.
var migrations = [][]string{
	// Migration 1: metadata catalog tables
	{
		`CREATE TABLE object_definitions (
			id TEXT PRIMARY KEY,
			api_name TEXT NOT NULL,
			label TEXT NOT NULL,
			plural_label TEXT NOT NULL,
			description TEXT DEFAULT '',
			is_standard BOOLEAN NOT NULL DEFAULT FALSE,
			is_custom BOOLEAN NOT NULL DEFAULT FALSE,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			tenant_id TEXT,
			created_by TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			UNIQUE(api_name, tenant_id)
		)`,
		`CREATE INDEX idx_object_definitions_tenant ON object_definitions(tenant_id, is_active)`,

		`CREATE TABLE field_definitions (
			id TEXT PRIMARY KEY,
			object_id TEXT NOT NULL,
			api_name TEXT NOT NULL,
			label TEXT NOT NULL,
			field_type TEXT NOT NULL,
			display_order INTEGER NOT NULL DEFAULT 0,
			is_required BOOLEAN NOT NULL DEFAULT FALSE,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			UNIQUE(object_id, api_name),
			FOREIGN KEY (object_id) REFERENCES object_definitions(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX idx_field_definitions_object ON field_definitions(object_id, is_active, display_order)`,

		`CREATE TABLE picklist_values (
			id TEXT PRIMARY KEY,
			field_id TEXT NOT NULL,
			value TEXT NOT NULL,
			label TEXT NOT NULL,
			display_order INTEGER NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			UNIQUE(field_id, value),
			FOREIGN KEY (field_id) REFERENCES field_definitions(id) ON DELETE CASCADE
		)`,

		`CREATE TABLE page_layouts (
			id TEXT PRIMARY KEY,
			object_id TEXT NOT NULL,
			name TEXT NOT NULL,
			is_default BOOLEAN NOT NULL DEFAULT FALSE,
			sections TEXT DEFAULT '[]',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			FOREIGN KEY (object_id) REFERENCES object_definitions(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX idx_page_layouts_object ON page_layouts(object_id, is_default)`,

		`CREATE TABLE record_types (
			id TEXT PRIMARY KEY,
			object_id TEXT NOT NULL,
			name TEXT NOT NULL,
			label TEXT NOT NULL,
			page_layout_id TEXT,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			UNIQUE(object_id, name),
			FOREIGN KEY (object_id) REFERENCES object_definitions(id) ON DELETE CASCADE,
			FOREIGN KEY (page_layout_id) REFERENCES page_layouts(id) ON DELETE SET NULL
		)`,

		`CREATE TABLE users (
			id TEXT PRIMARY KEY,
			tenant_id TEXT NOT NULL,
			email TEXT UNIQUE NOT NULL,
			first_name TEXT,
			last_name TEXT,
			role TEXT NOT NULL DEFAULT 'member',
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
	},

	// Migration 2: standard record tables
	{
		`CREATE TABLE leads (
			id TEXT PRIMARY KEY,
			tenant_id TEXT NOT NULL,
			first_name TEXT DEFAULT '',
			last_name TEXT DEFAULT '',
			email TEXT DEFAULT '',
			phone TEXT DEFAULT '',
			lead_status TEXT NOT NULL DEFAULT 'new',
			lead_source TEXT DEFAULT '',
			service_interest TEXT DEFAULT '',
			estimated_value REAL,
			expected_due_date TEXT,
			referral_source TEXT DEFAULT '',
			utm_source TEXT DEFAULT '',
			utm_medium TEXT DEFAULT '',
			utm_campaign TEXT DEFAULT '',
			custom_fields TEXT DEFAULT '{}',
			is_converted BOOLEAN NOT NULL DEFAULT FALSE,
			converted_at TEXT,
			converted_contact_id TEXT,
			converted_account_id TEXT,
			converted_opportunity_id TEXT,
			converted_by TEXT,
			owner_id TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX idx_leads_tenant ON leads(tenant_id, is_converted)`,

		`CREATE TABLE contacts (
			id TEXT PRIMARY KEY,
			tenant_id TEXT NOT NULL,
			first_name TEXT DEFAULT '',
			last_name TEXT DEFAULT '',
			email TEXT DEFAULT '',
			phone TEXT DEFAULT '',
			account_id TEXT,
			lead_source TEXT DEFAULT '',
			expected_due_date TEXT,
			referral_source TEXT DEFAULT '',
			utm_source TEXT DEFAULT '',
			utm_medium TEXT DEFAULT '',
			utm_campaign TEXT DEFAULT '',
			custom_fields TEXT DEFAULT '{}',
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			owner_id TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX idx_contacts_account ON contacts(account_id)`,

		`CREATE TABLE accounts (
			id TEXT PRIMARY KEY,
			tenant_id TEXT NOT NULL,
			name TEXT NOT NULL,
			account_type TEXT NOT NULL DEFAULT 'household',
			account_status TEXT NOT NULL DEFAULT 'prospect',
			primary_contact_id TEXT,
			owner_id TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX idx_accounts_name ON accounts(tenant_id, name)`,

		`CREATE TABLE opportunities (
			id TEXT PRIMARY KEY,
			tenant_id TEXT NOT NULL,
			name TEXT NOT NULL,
			stage TEXT NOT NULL DEFAULT 'qualification',
			stage_probability INTEGER NOT NULL DEFAULT 10,
			amount REAL,
			service_type TEXT DEFAULT '',
			account_id TEXT,
			primary_contact_id TEXT,
			owner_id TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,

		`CREATE TABLE activities (
			id TEXT PRIMARY KEY,
			tenant_id TEXT NOT NULL,
			subject TEXT NOT NULL,
			activity_type TEXT NOT NULL DEFAULT 'task',
			activity_status TEXT NOT NULL DEFAULT 'open',
			who_type TEXT NOT NULL,
			who_id TEXT NOT NULL,
			owner_id TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX idx_activities_who ON activities(who_type, who_id)`,

		`CREATE TABLE contact_account_relationships (
			id TEXT PRIMARY KEY,
			contact_id TEXT NOT NULL,
			account_id TEXT NOT NULL,
			relationship_type TEXT NOT NULL DEFAULT 'primary',
			is_primary BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TEXT NOT NULL,
			UNIQUE(contact_id, account_id),
			FOREIGN KEY (contact_id) REFERENCES contacts(id),
			FOREIGN KEY (account_id) REFERENCES accounts(id)
		)`,
	},
}
