package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/nestcare/crm/internal/domain"
)

// UserStore defines operations over acting users.
type UserStore interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ListByTenant(ctx context.Context, tenantID string) ([]domain.User, error)
}

// SQLiteUserStore implements UserStore using SQLite.
type SQLiteUserStore struct {
	db *sql.DB
}

// NewSQLiteUserStore creates a new SQLiteUserStore.
func NewSQLiteUserStore(db *sql.DB) *SQLiteUserStore {
	return &SQLiteUserStore{db: db}
}

const userCols = `id, tenant_id, email, COALESCE(first_name, ''), COALESCE(last_name, ''),
	role, is_active, created_at, updated_at`

func scanUser(row interface{ Scan(dest ...any) error }) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.TenantID, &u.Email, &u.FirstName, &u.LastName,
		&u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user. Email is normalized to lower case.
func (s *SQLiteUserStore) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user.Email == "" {
		return nil, &ValidationError{Message: "email is required"}
	}
	if user.TenantID == "" {
		return nil, &ValidationError{Message: "tenantId is required"}
	}

	if user.ID == "" {
		user.ID = newID()
	}
	if user.Role == "" {
		user.Role = "member"
	}
	email := strings.ToLower(strings.TrimSpace(user.Email))
	ts := now()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, tenant_id, email, first_name, last_name, role, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, TRUE, ?, ?)`,
		user.ID, user.TenantID, email, user.FirstName, user.LastName, user.Role, ts, ts,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("user %q already exists: %w", email, ErrConflict)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.GetByID(ctx, user.ID)
}

// GetByID returns a single user by id.
func (s *SQLiteUserStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userCols+` FROM users WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %q: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// GetByEmail returns a single user by email.
func (s *SQLiteUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userCols+` FROM users WHERE email = ?`, strings.ToLower(strings.TrimSpace(email))))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %q: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// ListByTenant returns the tenant's active users ordered by email.
func (s *SQLiteUserStore) ListByTenant(ctx context.Context, tenantID string) ([]domain.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userCols+` FROM users
		 WHERE tenant_id = ? AND is_active = TRUE
		 ORDER BY email`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, rows.Err()
}
