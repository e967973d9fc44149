package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/nestcare/crm/internal/domain"
)

// ObjectStore defines operations over object definitions: the catalog of
// standard and tenant-defined custom entities.
type ObjectStore interface {
	GetAll(ctx context.Context, tenantID string) ([]domain.ObjectDefinition, error)
	GetByID(ctx context.Context, id string) (*domain.ObjectDefinition, error)
	GetByAPIName(ctx context.Context, tenantID, apiName string) (*domain.ObjectDefinition, error)
	GetStandard(ctx context.Context) ([]domain.ObjectDefinition, error)
	GetCustom(ctx context.Context, tenantID string) ([]domain.ObjectDefinition, error)
	Create(ctx context.Context, input ObjectInput) (*domain.ObjectDefinition, error)
	Update(ctx context.Context, id string, patch ObjectPatch) (*domain.ObjectDefinition, error)
	Deactivate(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// ObjectInput holds the caller-supplied fields for a new custom object.
type ObjectInput struct {
	APIName     string `json:"apiName"`
	Label       string `json:"label"`
	PluralLabel string `json:"pluralLabel"`
	Description string `json:"description"`
	TenantID    string `json:"-"`
	CreatedBy   string `json:"-"`
}

// ObjectPatch holds updatable object fields. Empty strings keep the current
// value.
type ObjectPatch struct {
	Label       string `json:"label"`
	PluralLabel string `json:"pluralLabel"`
	Description string `json:"description"`
}

// customAPIName is the naming rule for custom objects and fields: must start
// with a letter, contain only letters, digits and underscores, and end in __c.
var customAPIName = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*__c$`)

// NormalizeCustomAPIName appends the __c suffix when absent and validates the
// result against the custom naming rule.
func NormalizeCustomAPIName(name string) (string, error) {
	if !strings.HasSuffix(name, "__c") {
		name += "__c"
	}
	if !customAPIName.MatchString(name) {
		return "", &ValidationError{Message: fmt.Sprintf(
			"api name %q is invalid: must start with a letter and contain only letters, digits and underscores", name)}
	}
	return name, nil
}

// SQLiteObjectStore implements ObjectStore using SQLite.
type SQLiteObjectStore struct {
	db *sql.DB
}

// NewSQLiteObjectStore creates a new SQLiteObjectStore.
func NewSQLiteObjectStore(db *sql.DB) *SQLiteObjectStore {
	return &SQLiteObjectStore{db: db}
}

const objectCols = `id, api_name, label, plural_label, description,
	is_standard, is_custom, is_active, tenant_id, created_by, created_at, updated_at`

func scanObject(row interface{ Scan(dest ...any) error }) (*domain.ObjectDefinition, error) {
	var o domain.ObjectDefinition
	var tenantID, createdBy sql.NullString
	err := row.Scan(
		&o.ID, &o.APIName, &o.Label, &o.PluralLabel, &o.Description,
		&o.IsStandard, &o.IsCustom, &o.IsActive, &tenantID, &createdBy,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.TenantID = tenantID.String
	o.CreatedBy = createdBy.String
	return &o, nil
}

func (s *SQLiteObjectStore) queryObjects(ctx context.Context, query string, args ...any) ([]domain.ObjectDefinition, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query object definitions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var defs []domain.ObjectDefinition
	for rows.Next() {
		o, err := scanObject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan object definition: %w", err)
		}
		defs = append(defs, *o)
	}
	if defs == nil {
		defs = []domain.ObjectDefinition{}
	}
	return defs, rows.Err()
}

// GetAll returns every definition visible to the tenant: all standard objects
// plus the tenant's custom objects. Standard objects sort before custom, then
// alphabetically by label. This ordering is a user-facing contract.
func (s *SQLiteObjectStore) GetAll(ctx context.Context, tenantID string) ([]domain.ObjectDefinition, error) {
	return s.queryObjects(ctx,
		`SELECT `+objectCols+` FROM object_definitions
		 WHERE tenant_id IS NULL OR tenant_id = ?
		 ORDER BY is_standard DESC, label COLLATE NOCASE`, tenantID)
}

// GetByID returns a single definition by id.
func (s *SQLiteObjectStore) GetByID(ctx context.Context, id string) (*domain.ObjectDefinition, error) {
	o, err := scanObject(s.db.QueryRowContext(ctx,
		`SELECT `+objectCols+` FROM object_definitions WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("object definition %q: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get object definition: %w", err)
	}
	return o, nil
}

// GetByAPIName resolves a definition by api name within the tenant's view.
func (s *SQLiteObjectStore) GetByAPIName(ctx context.Context, tenantID, apiName string) (*domain.ObjectDefinition, error) {
	o, err := scanObject(s.db.QueryRowContext(ctx,
		`SELECT `+objectCols+` FROM object_definitions
		 WHERE api_name = ? AND (tenant_id IS NULL OR tenant_id = ?)`, apiName, tenantID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("object definition %q: %w", apiName, ErrNotFound)
		}
		return nil, fmt.Errorf("get object definition by api name: %w", err)
	}
	return o, nil
}

// GetStandard returns the fixed standard definitions.
func (s *SQLiteObjectStore) GetStandard(ctx context.Context) ([]domain.ObjectDefinition, error) {
	return s.queryObjects(ctx,
		`SELECT `+objectCols+` FROM object_definitions
		 WHERE is_standard = TRUE
		 ORDER BY label COLLATE NOCASE`)
}

// GetCustom returns the tenant's custom definitions.
func (s *SQLiteObjectStore) GetCustom(ctx context.Context, tenantID string) ([]domain.ObjectDefinition, error) {
	return s.queryObjects(ctx,
		`SELECT `+objectCols+` FROM object_definitions
		 WHERE is_custom = TRUE AND tenant_id = ?
		 ORDER BY label COLLATE NOCASE`, tenantID)
}

// Create inserts a new custom object definition. The api name gets the __c
// suffix appended when missing and is validated against the naming rule;
// nothing is written on a validation failure.
func (s *SQLiteObjectStore) Create(ctx context.Context, input ObjectInput) (*domain.ObjectDefinition, error) {
	if input.Label == "" || input.PluralLabel == "" {
		return nil, &ValidationError{Message: "label and pluralLabel are required"}
	}

	apiName, err := NormalizeCustomAPIName(input.APIName)
	if err != nil {
		return nil, err
	}

	id := newID()
	ts := now()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO object_definitions (id, api_name, label, plural_label, description,
		 is_standard, is_custom, is_active, tenant_id, created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, FALSE, TRUE, TRUE, ?, ?, ?, ?)`,
		id, apiName, input.Label, input.PluralLabel, input.Description,
		input.TenantID, input.CreatedBy, ts, ts,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("object definition %q already exists: %w", apiName, ErrConflict)
		}
		return nil, fmt.Errorf("create object definition: %w", err)
	}

	return s.GetByID(ctx, id)
}

// loadStandardFlag returns the is_standard flag for the definition, or
// ErrNotFound.
func (s *SQLiteObjectStore) loadStandardFlag(ctx context.Context, id string) (bool, error) {
	var isStandard bool
	err := s.db.QueryRowContext(ctx,
		`SELECT is_standard FROM object_definitions WHERE id = ?`, id).Scan(&isStandard)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, fmt.Errorf("object definition %q: %w", id, ErrNotFound)
		}
		return false, fmt.Errorf("load object definition: %w", err)
	}
	return isStandard, nil
}

// Update modifies a custom object definition. Standard definitions are
// immutable.
func (s *SQLiteObjectStore) Update(ctx context.Context, id string, patch ObjectPatch) (*domain.ObjectDefinition, error) {
	isStandard, err := s.loadStandardFlag(ctx, id)
	if err != nil {
		return nil, err
	}
	if isStandard {
		return nil, fmt.Errorf("object definition %q: %w", id, ErrImmutable)
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE object_definitions SET
			label = COALESCE(NULLIF(?, ''), label),
			plural_label = COALESCE(NULLIF(?, ''), plural_label),
			description = COALESCE(NULLIF(?, ''), description),
			updated_at = ?
		 WHERE id = ?`,
		patch.Label, patch.PluralLabel, patch.Description, now(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update object definition: %w", err)
	}

	return s.GetByID(ctx, id)
}

// Deactivate marks a custom object definition inactive. Standard definitions
// are immutable.
func (s *SQLiteObjectStore) Deactivate(ctx context.Context, id string) error {
	isStandard, err := s.loadStandardFlag(ctx, id)
	if err != nil {
		return err
	}
	if isStandard {
		return fmt.Errorf("object definition %q: %w", id, ErrImmutable)
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE object_definitions SET is_active = FALSE, updated_at = ? WHERE id = ?`,
		now(), id,
	)
	if err != nil {
		return fmt.Errorf("deactivate object definition: %w", err)
	}
	return nil
}

// Delete removes a custom object definition. Field definitions, picklist
// values, layouts and record types are removed by the storage-layer cascade.
// Standard definitions are immutable.
func (s *SQLiteObjectStore) Delete(ctx context.Context, id string) error {
	isStandard, err := s.loadStandardFlag(ctx, id)
	if err != nil {
		return err
	}
	if isStandard {
		return fmt.Errorf("object definition %q: %w", id, ErrImmutable)
	}

	_, err = s.db.ExecContext(ctx, `DELETE FROM object_definitions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete object definition: %w", err)
	}
	return nil
}
