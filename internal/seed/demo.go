package seed

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nestcare/crm/internal/domain"
	"github.com/nestcare/crm/internal/store"
)

var demoUsers = []domain.User{
	{ID: "user-demo-admin", TenantID: "tenant-demo", Email: "admin@nestcare.test", FirstName: "Demo", LastName: "Admin", Role: "admin"},
	{ID: "user-demo-doula", TenantID: "tenant-demo", Email: "doula@nestcare.test", FirstName: "Demo", LastName: "Doula", Role: "member"},
}

// Demo creates a demo tenant with users and a sample lead if no users exist
// yet. Intended for local development only.
func Demo(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	s := store.New(db)
	for _, u := range demoUsers {
		user := u
		if _, err := s.Users.Create(ctx, &user); err != nil {
			return fmt.Errorf("create demo user %s: %w", u.Email, err)
		}
	}

	value := 2500.0
	if _, err := s.Records.CreateLead(ctx, &domain.Lead{
		ID:              "lead-demo-1",
		TenantID:        "tenant-demo",
		FirstName:       "Jane",
		LastName:        "Doe",
		Email:           "jane.doe@example.com",
		LeadSource:      "web",
		ServiceInterest: "birth doula",
		EstimatedValue:  &value,
		OwnerID:         "user-demo-doula",
	}); err != nil {
		return fmt.Errorf("create demo lead: %w", err)
	}

	return nil
}
