package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nestcare/crm/internal/domain"
)

// MetadataStore assembles the render-ready metadata bundle for an object.
// This indirection is what lets a tenant add fields and objects and re-route
// layouts without code changes: the generic bundle, not per-object code,
// drives every form and list.
type MetadataStore interface {
	GetObjectMetadata(ctx context.Context, tenantID, apiName, recordTypeID string) (*domain.ObjectMetadata, error)
}

// SQLiteMetadataStore implements MetadataStore using SQLite.
type SQLiteMetadataStore struct {
	db      *sql.DB
	objects *SQLiteObjectStore
	layouts *SQLiteLayoutStore
}

// NewSQLiteMetadataStore creates a new SQLiteMetadataStore.
func NewSQLiteMetadataStore(db *sql.DB) *SQLiteMetadataStore {
	return &SQLiteMetadataStore{
		db:      db,
		objects: NewSQLiteObjectStore(db),
		layouts: NewSQLiteLayoutStore(db),
	}
}

// GetObjectMetadata resolves the bundle for apiName within the tenant's view:
// the active object definition, its active fields with picklist sets, the
// applicable layout and the selectable record types.
//
// Layout resolution order: when recordTypeID is given and that record type
// points at a layout, the record type's layout wins; otherwise the object's
// default layout is used.
func (s *SQLiteMetadataStore) GetObjectMetadata(ctx context.Context, tenantID, apiName, recordTypeID string) (*domain.ObjectMetadata, error) {
	object, err := s.objects.GetByAPIName(ctx, tenantID, apiName)
	if err != nil {
		return nil, err
	}
	if !object.IsActive {
		return nil, fmt.Errorf("object definition %q is inactive: %w", apiName, ErrNotFound)
	}

	fields, err := listActiveFields(ctx, s.db, object.ID)
	if err != nil {
		return nil, err
	}

	layout, err := s.resolveLayout(ctx, object.ID, recordTypeID)
	if err != nil {
		return nil, err
	}

	recordTypes, err := s.layouts.ListRecordTypes(ctx, object.ID)
	if err != nil {
		return nil, err
	}

	return &domain.ObjectMetadata{
		Object:      object,
		Fields:      fields,
		Layout:      layout,
		RecordTypes: recordTypes,
	}, nil
}

func (s *SQLiteMetadataStore) resolveLayout(ctx context.Context, objectID, recordTypeID string) (*domain.PageLayout, error) {
	if recordTypeID != "" {
		rt, err := s.layouts.GetRecordType(ctx, recordTypeID)
		if err != nil {
			return nil, err
		}
		if rt.ObjectID != objectID {
			return nil, fmt.Errorf("record type %q does not belong to object: %w", recordTypeID, ErrNotFound)
		}
		if rt.PageLayoutID != "" {
			return s.layouts.GetLayout(ctx, rt.PageLayoutID)
		}
		// Record type without a layout falls back to the object default.
	}

	layout, err := scanLayout(s.db.QueryRowContext(ctx,
		`SELECT `+layoutCols+` FROM page_layouts WHERE object_id = ? AND is_default = TRUE`, objectID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // objects without layouts render with bare fields
		}
		return nil, fmt.Errorf("resolve default layout: %w", err)
	}
	return layout, nil
}
