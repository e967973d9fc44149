package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nestcare/crm/internal/domain"
)

// AccountSearchStore is the lookup behind the "link to existing account" path
// of lead conversion.
type AccountSearchStore interface {
	SearchAccounts(ctx context.Context, tenantID, term string, limit int) ([]domain.AccountMatch, error)
}

// SQLiteAccountSearchStore implements AccountSearchStore using SQLite.
type SQLiteAccountSearchStore struct {
	db *sql.DB
}

// NewSQLiteAccountSearchStore creates a new SQLiteAccountSearchStore.
func NewSQLiteAccountSearchStore(db *sql.DB) *SQLiteAccountSearchStore {
	return &SQLiteAccountSearchStore{db: db}
}

const defaultSearchLimit = 20

// SearchAccounts matches account names case-insensitively against term within
// the tenant, joining in the primary contact's name for display. An empty term
// lists the first page of accounts alphabetically.
func (s *SQLiteAccountSearchStore) SearchAccounts(ctx context.Context, tenantID, term string, limit int) ([]domain.AccountMatch, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT a.id, a.name, a.account_type, a.account_status,
		        COALESCE(TRIM(c.first_name || ' ' || c.last_name), '')
		 FROM accounts a
		 LEFT JOIN contacts c ON c.id = a.primary_contact_id
		 WHERE a.tenant_id = ? AND a.name LIKE '%' || ? || '%'
		 ORDER BY a.name COLLATE NOCASE
		 LIMIT ?`, tenantID, term, limit)
	if err != nil {
		return nil, fmt.Errorf("search accounts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var matches []domain.AccountMatch
	for rows.Next() {
		var m domain.AccountMatch
		if err := rows.Scan(&m.ID, &m.Name, &m.AccountType, &m.AccountStatus, &m.PrimaryContactName); err != nil {
			return nil, fmt.Errorf("scan account match: %w", err)
		}
		matches = append(matches, m)
	}
	if matches == nil {
		matches = []domain.AccountMatch{}
	}
	return matches, rows.Err()
}
