package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/nestcare/crm/internal/domain"
)

// RecordStore defines persistence for the standard record entities the
// conversion pipeline reads and the record API exposes.
type RecordStore interface {
	CreateLead(ctx context.Context, lead *domain.Lead) (*domain.Lead, error)
	GetLead(ctx context.Context, tenantID, id string) (*domain.Lead, error)
	ListLeads(ctx context.Context, tenantID string, includeConverted bool) ([]domain.Lead, error)
	GetContact(ctx context.Context, tenantID, id string) (*domain.Contact, error)
	GetAccount(ctx context.Context, tenantID, id string) (*domain.Account, error)
	GetOpportunity(ctx context.Context, tenantID, id string) (*domain.Opportunity, error)
	CreateActivity(ctx context.Context, activity *domain.Activity) (*domain.Activity, error)
	ListActivitiesFor(ctx context.Context, whoType, whoID string) ([]domain.Activity, error)
}

// SQLiteRecordStore implements RecordStore using SQLite.
type SQLiteRecordStore struct {
	db *sql.DB
}

// NewSQLiteRecordStore creates a new SQLiteRecordStore.
func NewSQLiteRecordStore(db *sql.DB) *SQLiteRecordStore {
	return &SQLiteRecordStore{db: db}
}

const leadCols = `id, tenant_id, first_name, last_name, email, phone, lead_status,
	lead_source, service_interest, estimated_value, expected_due_date,
	referral_source, utm_source, utm_medium, utm_campaign, custom_fields,
	is_converted, converted_at, converted_contact_id, converted_account_id,
	converted_opportunity_id, converted_by, owner_id, created_at, updated_at`

func scanLead(row interface{ Scan(dest ...any) error }) (*domain.Lead, error) {
	var l domain.Lead
	var estValue sql.NullFloat64
	var dueDate, convertedAt, contactID, accountID, oppID, convertedBy, ownerID sql.NullString
	err := row.Scan(
		&l.ID, &l.TenantID, &l.FirstName, &l.LastName, &l.Email, &l.Phone,
		&l.LeadStatus, &l.LeadSource, &l.ServiceInterest, &estValue, &dueDate,
		&l.ReferralSource, &l.UTMSource, &l.UTMMedium, &l.UTMCampaign, &l.CustomFields,
		&l.IsConverted, &convertedAt, &contactID, &accountID, &oppID, &convertedBy,
		&ownerID, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if estValue.Valid {
		l.EstimatedValue = &estValue.Float64
	}
	l.ExpectedDueDate = dueDate.String
	l.ConvertedAt = convertedAt.String
	l.ConvertedContactID = contactID.String
	l.ConvertedAccountID = accountID.String
	l.ConvertedOpportunityID = oppID.String
	l.ConvertedBy = convertedBy.String
	l.OwnerID = ownerID.String
	return &l, nil
}

// CreateLead inserts a new lead.
func (s *SQLiteRecordStore) CreateLead(ctx context.Context, lead *domain.Lead) (*domain.Lead, error) {
	if lead.FirstName == "" && lead.LastName == "" {
		return nil, &ValidationError{Message: "lead needs a first or last name"}
	}

	if lead.ID == "" {
		lead.ID = newID()
	}
	if lead.LeadStatus == "" {
		lead.LeadStatus = "new"
	}
	if lead.CustomFields == "" {
		lead.CustomFields = "{}"
	}
	if err := validateCustomFields(ctx, s.db, lead.TenantID, "lead", lead.CustomFields); err != nil {
		return nil, err
	}
	ts := now()

	var estValue any
	if lead.EstimatedValue != nil {
		estValue = *lead.EstimatedValue
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO leads (id, tenant_id, first_name, last_name, email, phone,
		 lead_status, lead_source, service_interest, estimated_value, expected_due_date,
		 referral_source, utm_source, utm_medium, utm_campaign, custom_fields,
		 is_converted, owner_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULLIF(?, ''), ?, ?, ?, ?, ?, FALSE, NULLIF(?, ''), ?, ?)`,
		lead.ID, lead.TenantID, lead.FirstName, lead.LastName, lead.Email, lead.Phone,
		lead.LeadStatus, lead.LeadSource, lead.ServiceInterest, estValue, lead.ExpectedDueDate,
		lead.ReferralSource, lead.UTMSource, lead.UTMMedium, lead.UTMCampaign, lead.CustomFields,
		lead.OwnerID, ts, ts,
	)
	if err != nil {
		return nil, fmt.Errorf("insert lead: %w", err)
	}

	return s.GetLead(ctx, lead.TenantID, lead.ID)
}

// validateCustomFields checks each custom field entry against the field
// definitions of the named object. Entries without an active definition pass
// through untouched so intake forms can carry ad hoc keys.
func validateCustomFields(ctx context.Context, q dbtx, tenantID, objectAPIName, customFields string) error {
	if customFields == "" || customFields == "{}" {
		return nil
	}

	var values map[string]any
	if err := json.Unmarshal([]byte(customFields), &values); err != nil {
		return &ValidationError{Message: "customFields must be a JSON object"}
	}
	if len(values) == 0 {
		return nil
	}

	rows, err := q.QueryContext(ctx,
		`SELECT fd.api_name, fd.field_type
		 FROM field_definitions fd
		 JOIN object_definitions od ON od.id = fd.object_id
		 WHERE od.api_name = ? AND (od.tenant_id IS NULL OR od.tenant_id = ?)
		   AND fd.is_active = TRUE`,
		objectAPIName, tenantID)
	if err != nil {
		return fmt.Errorf("load field definitions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	fieldTypes := map[string]domain.FieldType{}
	for rows.Next() {
		var apiName, fieldType string
		if err := rows.Scan(&apiName, &fieldType); err != nil {
			return fmt.Errorf("scan field definition: %w", err)
		}
		fieldTypes[apiName] = domain.FieldType(fieldType)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load field definitions: %w", err)
	}

	for key, value := range values {
		fieldType, ok := fieldTypes[key]
		if !ok {
			continue
		}
		raw, err := scalarString(value)
		if err != nil {
			return &ValidationError{Message: fmt.Sprintf("customFields.%s: %v", key, err)}
		}
		if err := fieldType.ValidateValue(raw); err != nil {
			return &ValidationError{Message: fmt.Sprintf("customFields.%s: %v", key, err)}
		}
	}
	return nil
}

func scalarString(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		return "", errors.New("value must be a scalar")
	}
}

// GetLead returns a lead by id within the tenant.
func (s *SQLiteRecordStore) GetLead(ctx context.Context, tenantID, id string) (*domain.Lead, error) {
	return getLead(ctx, s.db, tenantID, id)
}

func getLead(ctx context.Context, q dbtx, tenantID, id string) (*domain.Lead, error) {
	l, err := scanLead(q.QueryRowContext(ctx,
		`SELECT `+leadCols+` FROM leads WHERE id = ? AND tenant_id = ?`, id, tenantID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("lead %q: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get lead: %w", err)
	}
	return l, nil
}

// ListLeads returns the tenant's leads, optionally including converted ones.
func (s *SQLiteRecordStore) ListLeads(ctx context.Context, tenantID string, includeConverted bool) ([]domain.Lead, error) {
	query := `SELECT ` + leadCols + ` FROM leads WHERE tenant_id = ?`
	if !includeConverted {
		query += ` AND is_converted = FALSE`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var leads []domain.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, *l)
	}
	if leads == nil {
		leads = []domain.Lead{}
	}
	return leads, rows.Err()
}

const contactCols = `id, tenant_id, first_name, last_name, email, phone, account_id,
	lead_source, expected_due_date, referral_source, utm_source, utm_medium,
	utm_campaign, custom_fields, is_active, owner_id, created_at, updated_at`

func scanContact(row interface{ Scan(dest ...any) error }) (*domain.Contact, error) {
	var c domain.Contact
	var accountID, dueDate, ownerID sql.NullString
	err := row.Scan(
		&c.ID, &c.TenantID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &accountID,
		&c.LeadSource, &dueDate, &c.ReferralSource, &c.UTMSource, &c.UTMMedium,
		&c.UTMCampaign, &c.CustomFields, &c.IsActive, &ownerID, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.AccountID = accountID.String
	c.ExpectedDueDate = dueDate.String
	c.OwnerID = ownerID.String
	return &c, nil
}

// GetContact returns a contact by id within the tenant.
func (s *SQLiteRecordStore) GetContact(ctx context.Context, tenantID, id string) (*domain.Contact, error) {
	c, err := scanContact(s.db.QueryRowContext(ctx,
		`SELECT `+contactCols+` FROM contacts WHERE id = ? AND tenant_id = ?`, id, tenantID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("contact %q: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get contact: %w", err)
	}
	return c, nil
}

const accountCols = `id, tenant_id, name, account_type, account_status,
	primary_contact_id, owner_id, created_at, updated_at`

func scanAccount(row interface{ Scan(dest ...any) error }) (*domain.Account, error) {
	var a domain.Account
	var primaryContactID, ownerID sql.NullString
	err := row.Scan(
		&a.ID, &a.TenantID, &a.Name, &a.AccountType, &a.AccountStatus,
		&primaryContactID, &ownerID, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.PrimaryContactID = primaryContactID.String
	a.OwnerID = ownerID.String
	return &a, nil
}

// GetAccount returns an account by id within the tenant.
func (s *SQLiteRecordStore) GetAccount(ctx context.Context, tenantID, id string) (*domain.Account, error) {
	return getAccount(ctx, s.db, tenantID, id)
}

func getAccount(ctx context.Context, q dbtx, tenantID, id string) (*domain.Account, error) {
	a, err := scanAccount(q.QueryRowContext(ctx,
		`SELECT `+accountCols+` FROM accounts WHERE id = ? AND tenant_id = ?`, id, tenantID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("account %q: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

const opportunityCols = `id, tenant_id, name, stage, stage_probability, amount,
	service_type, account_id, primary_contact_id, owner_id, created_at, updated_at`

func scanOpportunity(row interface{ Scan(dest ...any) error }) (*domain.Opportunity, error) {
	var o domain.Opportunity
	var amount sql.NullFloat64
	var accountID, primaryContactID, ownerID sql.NullString
	err := row.Scan(
		&o.ID, &o.TenantID, &o.Name, &o.Stage, &o.StageProbability, &amount,
		&o.ServiceType, &accountID, &primaryContactID, &ownerID, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if amount.Valid {
		o.Amount = &amount.Float64
	}
	o.AccountID = accountID.String
	o.PrimaryContactID = primaryContactID.String
	o.OwnerID = ownerID.String
	return &o, nil
}

// GetOpportunity returns an opportunity by id within the tenant.
func (s *SQLiteRecordStore) GetOpportunity(ctx context.Context, tenantID, id string) (*domain.Opportunity, error) {
	o, err := scanOpportunity(s.db.QueryRowContext(ctx,
		`SELECT `+opportunityCols+` FROM opportunities WHERE id = ? AND tenant_id = ?`, id, tenantID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("opportunity %q: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get opportunity: %w", err)
	}
	return o, nil
}

// CreateActivity inserts a new activity row.
func (s *SQLiteRecordStore) CreateActivity(ctx context.Context, activity *domain.Activity) (*domain.Activity, error) {
	if activity.Subject == "" {
		return nil, &ValidationError{Message: "subject is required"}
	}
	if activity.WhoType == "" || activity.WhoID == "" {
		return nil, &ValidationError{Message: "whoType and whoId are required"}
	}

	if activity.ID == "" {
		activity.ID = newID()
	}
	if activity.ActivityType == "" {
		activity.ActivityType = "task"
	}
	if activity.ActivityStatus == "" {
		activity.ActivityStatus = "open"
	}
	ts := now()
	activity.CreatedAt = ts
	activity.UpdatedAt = ts

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO activities (id, tenant_id, subject, activity_type, activity_status,
		 who_type, who_id, owner_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, NULLIF(?, ''), ?, ?)`,
		activity.ID, activity.TenantID, activity.Subject, activity.ActivityType,
		activity.ActivityStatus, activity.WhoType, activity.WhoID, activity.OwnerID, ts, ts,
	)
	if err != nil {
		return nil, fmt.Errorf("insert activity: %w", err)
	}
	return activity, nil
}

// ListActivitiesFor returns activities attached to a lead or contact.
func (s *SQLiteRecordStore) ListActivitiesFor(ctx context.Context, whoType, whoID string) ([]domain.Activity, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, tenant_id, subject, activity_type, activity_status, who_type, who_id,
		        COALESCE(owner_id, ''), created_at, updated_at
		 FROM activities WHERE who_type = ? AND who_id = ?
		 ORDER BY created_at`, whoType, whoID)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var activities []domain.Activity
	for rows.Next() {
		var a domain.Activity
		if err := rows.Scan(&a.ID, &a.TenantID, &a.Subject, &a.ActivityType, &a.ActivityStatus,
			&a.WhoType, &a.WhoID, &a.OwnerID, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		activities = append(activities, a)
	}
	if activities == nil {
		activities = []domain.Activity{}
	}
	return activities, rows.Err()
}

// The functions below take a dbtx so the conversion pipeline can run them
// inside its transaction.

// GetAccountTx loads an account through the given handle or transaction.
func GetAccountTx(ctx context.Context, q dbtx, tenantID, id string) (*domain.Account, error) {
	return getAccount(ctx, q, tenantID, id)
}

// InsertAccount writes an account row, stamping id and timestamps.
func InsertAccount(ctx context.Context, q dbtx, a *domain.Account) error {
	if a.ID == "" {
		a.ID = newID()
	}
	ts := now()
	a.CreatedAt = ts
	a.UpdatedAt = ts
	_, err := q.ExecContext(ctx,
		`INSERT INTO accounts (id, tenant_id, name, account_type, account_status,
		 primary_contact_id, owner_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, NULLIF(?, ''), NULLIF(?, ''), ?, ?)`,
		a.ID, a.TenantID, a.Name, a.AccountType, a.AccountStatus,
		a.PrimaryContactID, a.OwnerID, ts, ts,
	)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// InsertContact writes a contact row, stamping id and timestamps.
func InsertContact(ctx context.Context, q dbtx, c *domain.Contact) error {
	if c.ID == "" {
		c.ID = newID()
	}
	if c.CustomFields == "" {
		c.CustomFields = "{}"
	}
	ts := now()
	c.CreatedAt = ts
	c.UpdatedAt = ts
	_, err := q.ExecContext(ctx,
		`INSERT INTO contacts (id, tenant_id, first_name, last_name, email, phone,
		 account_id, lead_source, expected_due_date, referral_source, utm_source,
		 utm_medium, utm_campaign, custom_fields, is_active, owner_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, NULLIF(?, ''), ?, NULLIF(?, ''), ?, ?, ?, ?, ?, ?, NULLIF(?, ''), ?, ?)`,
		c.ID, c.TenantID, c.FirstName, c.LastName, c.Email, c.Phone,
		c.AccountID, c.LeadSource, c.ExpectedDueDate, c.ReferralSource, c.UTMSource,
		c.UTMMedium, c.UTMCampaign, c.CustomFields, c.IsActive, c.OwnerID, ts, ts,
	)
	if err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

// InsertOpportunity writes an opportunity row, stamping id and timestamps.
func InsertOpportunity(ctx context.Context, q dbtx, o *domain.Opportunity) error {
	if o.ID == "" {
		o.ID = newID()
	}
	ts := now()
	o.CreatedAt = ts
	o.UpdatedAt = ts
	var amount any
	if o.Amount != nil {
		amount = *o.Amount
	}
	_, err := q.ExecContext(ctx,
		`INSERT INTO opportunities (id, tenant_id, name, stage, stage_probability,
		 amount, service_type, account_id, primary_contact_id, owner_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, NULLIF(?, ''), NULLIF(?, ''), NULLIF(?, ''), ?, ?)`,
		o.ID, o.TenantID, o.Name, o.Stage, o.StageProbability,
		amount, o.ServiceType, o.AccountID, o.PrimaryContactID, o.OwnerID, ts, ts,
	)
	if err != nil {
		return fmt.Errorf("insert opportunity: %w", err)
	}
	return nil
}

// InsertRelationship writes a contact to account relationship row.
func InsertRelationship(ctx context.Context, q dbtx, r *domain.ContactAccountRelationship) error {
	if r.ID == "" {
		r.ID = newID()
	}
	r.CreatedAt = now()
	_, err := q.ExecContext(ctx,
		`INSERT INTO contact_account_relationships (id, contact_id, account_id,
		 relationship_type, is_primary, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.ContactID, r.AccountID, r.RelationshipType, r.IsPrimary, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert relationship: %w", err)
	}
	return nil
}

// SetAccountPrimaryContact points the account at its primary contact.
func SetAccountPrimaryContact(ctx context.Context, q dbtx, accountID, contactID string) error {
	_, err := q.ExecContext(ctx,
		`UPDATE accounts SET primary_contact_id = ?, updated_at = ? WHERE id = ?`,
		contactID, now(), accountID,
	)
	if err != nil {
		return fmt.Errorf("set primary contact: %w", err)
	}
	return nil
}

// TransferActivities repoints every activity attached to the lead at the
// contact in one set-based update. Returns the number of rows moved.
func TransferActivities(ctx context.Context, q dbtx, leadID, contactID string) (int64, error) {
	res, err := q.ExecContext(ctx,
		`UPDATE activities SET who_type = 'Contact', who_id = ?, updated_at = ?
		 WHERE who_type = 'Lead' AND who_id = ?`,
		contactID, now(), leadID,
	)
	if err != nil {
		return 0, fmt.Errorf("transfer activities: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

// MarkLeadConverted stamps the terminal conversion state. The WHERE clause is
// a compare-and-swap on is_converted so two concurrent conversions of the
// same lead cannot both succeed; false means the lead was already converted.
func MarkLeadConverted(ctx context.Context, q dbtx, leadID, contactID, accountID, opportunityID, convertedBy string) (bool, error) {
	var oppID any
	if opportunityID != "" {
		oppID = opportunityID
	}
	ts := now()
	res, err := q.ExecContext(ctx,
		`UPDATE leads SET
			is_converted = TRUE,
			converted_at = ?,
			converted_contact_id = ?,
			converted_account_id = ?,
			converted_opportunity_id = ?,
			converted_by = ?,
			lead_status = 'converted',
			updated_at = ?
		 WHERE id = ? AND is_converted = FALSE`,
		ts, contactID, accountID, oppID, convertedBy, ts, leadID,
	)
	if err != nil {
		return false, fmt.Errorf("mark lead converted: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n == 1, nil
}
