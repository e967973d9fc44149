package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nestcare/crm/internal/domain"
)

// LayoutStore defines operations over page layouts and record types.
type LayoutStore interface {
	CreateLayout(ctx context.Context, input LayoutInput) (*domain.PageLayout, error)
	GetLayout(ctx context.Context, id string) (*domain.PageLayout, error)
	ListLayouts(ctx context.Context, objectID string) ([]domain.PageLayout, error)
	CreateRecordType(ctx context.Context, input RecordTypeInput) (*domain.RecordType, error)
	GetRecordType(ctx context.Context, id string) (*domain.RecordType, error)
	ListRecordTypes(ctx context.Context, objectID string) ([]domain.RecordType, error)
}

// LayoutInput holds the caller-supplied fields for a new page layout.
type LayoutInput struct {
	ObjectID  string `json:"objectId"`
	Name      string `json:"name"`
	IsDefault bool   `json:"isDefault"`
	Sections  string `json:"sections"`
}

// RecordTypeInput holds the caller-supplied fields for a new record type.
type RecordTypeInput struct {
	ObjectID     string `json:"objectId"`
	Name         string `json:"name"`
	Label        string `json:"label"`
	PageLayoutID string `json:"pageLayoutId"`
}

// SQLiteLayoutStore implements LayoutStore using SQLite.
type SQLiteLayoutStore struct {
	db *sql.DB
}

// NewSQLiteLayoutStore creates a new SQLiteLayoutStore.
func NewSQLiteLayoutStore(db *sql.DB) *SQLiteLayoutStore {
	return &SQLiteLayoutStore{db: db}
}

const layoutCols = `id, object_id, name, is_default, sections, created_at, updated_at`

func scanLayout(row interface{ Scan(dest ...any) error }) (*domain.PageLayout, error) {
	var l domain.PageLayout
	err := row.Scan(&l.ID, &l.ObjectID, &l.Name, &l.IsDefault, &l.Sections, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// CreateLayout inserts a new page layout. When the layout is marked default,
// the previous default for the object is demoted in the same transaction so
// at most one default exists per object.
func (s *SQLiteLayoutStore) CreateLayout(ctx context.Context, input LayoutInput) (*domain.PageLayout, error) {
	if input.Name == "" {
		return nil, &ValidationError{Message: "name is required"}
	}

	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM object_definitions WHERE id = ?`, input.ObjectID).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("object definition %q: %w", input.ObjectID, ErrNotFound)
		}
		return nil, fmt.Errorf("load parent object: %w", err)
	}

	sections := input.Sections
	if sections == "" {
		sections = "[]"
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create layout: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if input.IsDefault {
		if _, err := tx.ExecContext(ctx,
			`UPDATE page_layouts SET is_default = FALSE, updated_at = ? WHERE object_id = ? AND is_default = TRUE`,
			now(), input.ObjectID,
		); err != nil {
			return nil, fmt.Errorf("demote previous default layout: %w", err)
		}
	}

	id := newID()
	ts := now()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO page_layouts (id, object_id, name, is_default, sections, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, input.ObjectID, input.Name, input.IsDefault, sections, ts, ts,
	); err != nil {
		return nil, fmt.Errorf("create layout: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create layout: %w", err)
	}

	return s.GetLayout(ctx, id)
}

// GetLayout returns a single layout by id.
func (s *SQLiteLayoutStore) GetLayout(ctx context.Context, id string) (*domain.PageLayout, error) {
	l, err := scanLayout(s.db.QueryRowContext(ctx,
		`SELECT `+layoutCols+` FROM page_layouts WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("page layout %q: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get layout: %w", err)
	}
	return l, nil
}

// ListLayouts returns all layouts for an object, default first.
func (s *SQLiteLayoutStore) ListLayouts(ctx context.Context, objectID string) ([]domain.PageLayout, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+layoutCols+` FROM page_layouts
		 WHERE object_id = ?
		 ORDER BY is_default DESC, name`, objectID)
	if err != nil {
		return nil, fmt.Errorf("list layouts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var layouts []domain.PageLayout
	for rows.Next() {
		l, err := scanLayout(rows)
		if err != nil {
			return nil, fmt.Errorf("scan layout: %w", err)
		}
		layouts = append(layouts, *l)
	}
	if layouts == nil {
		layouts = []domain.PageLayout{}
	}
	return layouts, rows.Err()
}

const recordTypeCols = `id, object_id, name, label, page_layout_id, is_active, created_at, updated_at`

func scanRecordType(row interface{ Scan(dest ...any) error }) (*domain.RecordType, error) {
	var rt domain.RecordType
	var layoutID sql.NullString
	err := row.Scan(&rt.ID, &rt.ObjectID, &rt.Name, &rt.Label, &layoutID, &rt.IsActive, &rt.CreatedAt, &rt.UpdatedAt)
	if err != nil {
		return nil, err
	}
	rt.PageLayoutID = layoutID.String
	return &rt, nil
}

// CreateRecordType inserts a new record type, optionally pointing at a
// layout.
func (s *SQLiteLayoutStore) CreateRecordType(ctx context.Context, input RecordTypeInput) (*domain.RecordType, error) {
	if input.Name == "" || input.Label == "" {
		return nil, &ValidationError{Message: "name and label are required"}
	}

	if input.PageLayoutID != "" {
		if _, err := s.GetLayout(ctx, input.PageLayoutID); err != nil {
			return nil, err
		}
	}

	var layoutID any
	if input.PageLayoutID != "" {
		layoutID = input.PageLayoutID
	}

	id := newID()
	ts := now()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO record_types (id, object_id, name, label, page_layout_id, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, TRUE, ?, ?)`,
		id, input.ObjectID, input.Name, input.Label, layoutID, ts, ts,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("record type %q already exists on object: %w", input.Name, ErrConflict)
		}
		return nil, fmt.Errorf("create record type: %w", err)
	}

	return s.GetRecordType(ctx, id)
}

// GetRecordType returns a single record type by id.
func (s *SQLiteLayoutStore) GetRecordType(ctx context.Context, id string) (*domain.RecordType, error) {
	rt, err := scanRecordType(s.db.QueryRowContext(ctx,
		`SELECT `+recordTypeCols+` FROM record_types WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("record type %q: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get record type: %w", err)
	}
	return rt, nil
}

// ListRecordTypes returns the object's active record types ordered by name.
func (s *SQLiteLayoutStore) ListRecordTypes(ctx context.Context, objectID string) ([]domain.RecordType, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recordTypeCols+` FROM record_types
		 WHERE object_id = ? AND is_active = TRUE
		 ORDER BY name`, objectID)
	if err != nil {
		return nil, fmt.Errorf("list record types: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var types []domain.RecordType
	for rows.Next() {
		rt, err := scanRecordType(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record type: %w", err)
		}
		types = append(types, *rt)
	}
	if types == nil {
		types = []domain.RecordType{}
	}
	return types, rows.Err()
}
