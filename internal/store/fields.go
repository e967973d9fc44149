package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nestcare/crm/internal/domain"
)

// FieldStore defines operations over field definitions and their picklist
// value sets.
type FieldStore interface {
	ListForObject(ctx context.Context, objectID string) ([]domain.FieldDefinition, error)
	GetByID(ctx context.Context, id string) (*domain.FieldDefinition, error)
	Create(ctx context.Context, input FieldInput) (*domain.FieldDefinition, error)
	Update(ctx context.Context, id string, patch FieldPatch) (*domain.FieldDefinition, error)
	Deactivate(ctx context.Context, id string) error
	AddPicklistValue(ctx context.Context, fieldID string, input PicklistValueInput) (*domain.PicklistValue, error)
	ListPicklistValues(ctx context.Context, fieldID string) ([]domain.PicklistValue, error)
}

// FieldInput holds the caller-supplied fields for a new field definition.
type FieldInput struct {
	ObjectID     string           `json:"objectId"`
	APIName      string           `json:"apiName"`
	Label        string           `json:"label"`
	FieldType    domain.FieldType `json:"fieldType"`
	DisplayOrder int              `json:"displayOrder"`
	IsRequired   bool             `json:"isRequired"`
}

// FieldPatch holds updatable field attributes. Nil pointers keep the current
// value.
type FieldPatch struct {
	Label        string `json:"label"`
	DisplayOrder *int   `json:"displayOrder"`
	IsRequired   *bool  `json:"isRequired"`
}

// PicklistValueInput holds the caller-supplied fields for a picklist option.
type PicklistValueInput struct {
	Value        string `json:"value"`
	Label        string `json:"label"`
	DisplayOrder int    `json:"displayOrder"`
}

// SQLiteFieldStore implements FieldStore using SQLite.
type SQLiteFieldStore struct {
	db *sql.DB
}

// NewSQLiteFieldStore creates a new SQLiteFieldStore.
func NewSQLiteFieldStore(db *sql.DB) *SQLiteFieldStore {
	return &SQLiteFieldStore{db: db}
}

const fieldCols = `id, object_id, api_name, label, field_type, display_order,
	is_required, is_active, created_at, updated_at`

func scanField(row interface{ Scan(dest ...any) error }) (*domain.FieldDefinition, error) {
	var f domain.FieldDefinition
	err := row.Scan(
		&f.ID, &f.ObjectID, &f.APIName, &f.Label, &f.FieldType,
		&f.DisplayOrder, &f.IsRequired, &f.IsActive, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// ListForObject returns the object's active fields ordered by display order,
// each carrying its picklist value set.
func (s *SQLiteFieldStore) ListForObject(ctx context.Context, objectID string) ([]domain.FieldDefinition, error) {
	return listActiveFields(ctx, s.db, objectID)
}

// listActiveFields loads active fields with their picklist values attached.
// The picklist sets are fetched with one join across the whole object, not a
// round trip per field.
func listActiveFields(ctx context.Context, q dbtx, objectID string) ([]domain.FieldDefinition, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+fieldCols+` FROM field_definitions
		 WHERE object_id = ? AND is_active = TRUE
		 ORDER BY display_order, api_name`, objectID)
	if err != nil {
		return nil, fmt.Errorf("list fields: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var fields []domain.FieldDefinition
	index := map[string]int{}
	for rows.Next() {
		f, err := scanField(rows)
		if err != nil {
			return nil, fmt.Errorf("scan field: %w", err)
		}
		index[f.ID] = len(fields)
		fields = append(fields, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	if fields == nil {
		return []domain.FieldDefinition{}, nil
	}

	pvRows, err := q.QueryContext(ctx,
		`SELECT pv.id, pv.field_id, pv.value, pv.label, pv.display_order, pv.is_active
		 FROM picklist_values pv
		 JOIN field_definitions fd ON fd.id = pv.field_id
		 WHERE fd.object_id = ? AND fd.is_active = TRUE AND pv.is_active = TRUE
		 ORDER BY pv.field_id, pv.display_order`, objectID)
	if err != nil {
		return nil, fmt.Errorf("list picklist values: %w", err)
	}
	defer func() { _ = pvRows.Close() }()

	for pvRows.Next() {
		var v domain.PicklistValue
		if err := pvRows.Scan(&v.ID, &v.FieldID, &v.Value, &v.Label, &v.DisplayOrder, &v.IsActive); err != nil {
			return nil, fmt.Errorf("scan picklist value: %w", err)
		}
		if i, ok := index[v.FieldID]; ok {
			fields[i].PicklistValues = append(fields[i].PicklistValues, v)
		}
	}
	return fields, pvRows.Err()
}

// GetByID returns a single field definition.
func (s *SQLiteFieldStore) GetByID(ctx context.Context, id string) (*domain.FieldDefinition, error) {
	f, err := scanField(s.db.QueryRowContext(ctx,
		`SELECT `+fieldCols+` FROM field_definitions WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("field definition %q: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get field definition: %w", err)
	}
	f.PicklistValues, err = s.ListPicklistValues(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(f.PicklistValues) == 0 {
		f.PicklistValues = nil
	}
	return f, nil
}

// Create inserts a new field definition. The type tag must be one of the
// supported field types and the api name follows the custom naming rule.
func (s *SQLiteFieldStore) Create(ctx context.Context, input FieldInput) (*domain.FieldDefinition, error) {
	if input.Label == "" {
		return nil, &ValidationError{Message: "label is required"}
	}
	if !input.FieldType.Valid() {
		return nil, &ValidationError{Message: fmt.Sprintf("unknown field type %q", input.FieldType)}
	}

	apiName, err := NormalizeCustomAPIName(input.APIName)
	if err != nil {
		return nil, err
	}

	// Parent must exist; fields on inactive objects are pointless.
	var isActive bool
	err = s.db.QueryRowContext(ctx,
		`SELECT is_active FROM object_definitions WHERE id = ?`, input.ObjectID).Scan(&isActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("object definition %q: %w", input.ObjectID, ErrNotFound)
		}
		return nil, fmt.Errorf("load parent object: %w", err)
	}
	if !isActive {
		return nil, &ValidationError{Message: "cannot add fields to an inactive object"}
	}

	id := newID()
	ts := now()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO field_definitions (id, object_id, api_name, label, field_type,
		 display_order, is_required, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, TRUE, ?, ?)`,
		id, input.ObjectID, apiName, input.Label, input.FieldType,
		input.DisplayOrder, input.IsRequired, ts, ts,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("field %q already exists on object: %w", apiName, ErrConflict)
		}
		return nil, fmt.Errorf("create field definition: %w", err)
	}

	return s.GetByID(ctx, id)
}

// Update modifies a field definition's label, ordering or requiredness.
func (s *SQLiteFieldStore) Update(ctx context.Context, id string, patch FieldPatch) (*domain.FieldDefinition, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	label := current.Label
	if patch.Label != "" {
		label = patch.Label
	}
	displayOrder := current.DisplayOrder
	if patch.DisplayOrder != nil {
		displayOrder = *patch.DisplayOrder
	}
	isRequired := current.IsRequired
	if patch.IsRequired != nil {
		isRequired = *patch.IsRequired
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE field_definitions SET label = ?, display_order = ?, is_required = ?, updated_at = ?
		 WHERE id = ?`,
		label, displayOrder, isRequired, now(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update field definition: %w", err)
	}

	return s.GetByID(ctx, id)
}

// Deactivate hides a field from the metadata resolver without deleting its
// historical values.
func (s *SQLiteFieldStore) Deactivate(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE field_definitions SET is_active = FALSE, updated_at = ? WHERE id = ?`,
		now(), id,
	)
	if err != nil {
		return fmt.Errorf("deactivate field definition: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("field definition %q: %w", id, ErrNotFound)
	}
	return nil
}

// AddPicklistValue appends an option to a picklist field.
func (s *SQLiteFieldStore) AddPicklistValue(ctx context.Context, fieldID string, input PicklistValueInput) (*domain.PicklistValue, error) {
	if input.Value == "" {
		return nil, &ValidationError{Message: "value is required"}
	}

	var fieldType domain.FieldType
	err := s.db.QueryRowContext(ctx,
		`SELECT field_type FROM field_definitions WHERE id = ?`, fieldID).Scan(&fieldType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("field definition %q: %w", fieldID, ErrNotFound)
		}
		return nil, fmt.Errorf("load field definition: %w", err)
	}
	if fieldType != domain.FieldTypePicklist && fieldType != domain.FieldTypeMultiPicklist {
		return nil, &ValidationError{Message: fmt.Sprintf("field type %q does not take picklist values", fieldType)}
	}

	label := input.Label
	if label == "" {
		label = input.Value
	}

	id := newID()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO picklist_values (id, field_id, value, label, display_order, is_active)
		 VALUES (?, ?, ?, ?, ?, TRUE)`,
		id, fieldID, input.Value, label, input.DisplayOrder,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("picklist value %q already exists: %w", input.Value, ErrConflict)
		}
		return nil, fmt.Errorf("add picklist value: %w", err)
	}

	return &domain.PicklistValue{
		ID: id, FieldID: fieldID, Value: input.Value, Label: label,
		DisplayOrder: input.DisplayOrder, IsActive: true,
	}, nil
}

// ListPicklistValues returns the field's active options in display order.
func (s *SQLiteFieldStore) ListPicklistValues(ctx context.Context, fieldID string) ([]domain.PicklistValue, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, field_id, value, label, display_order, is_active
		 FROM picklist_values
		 WHERE field_id = ? AND is_active = TRUE
		 ORDER BY display_order, value`, fieldID)
	if err != nil {
		return nil, fmt.Errorf("list picklist values: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var values []domain.PicklistValue
	for rows.Next() {
		var v domain.PicklistValue
		if err := rows.Scan(&v.ID, &v.FieldID, &v.Value, &v.Label, &v.DisplayOrder, &v.IsActive); err != nil {
			return nil, fmt.Errorf("scan picklist value: %w", err)
		}
		values = append(values, v)
	}
	if values == nil {
		values = []domain.PicklistValue{}
	}
	return values, rows.Err()
}
