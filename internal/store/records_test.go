package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nestcare/crm/internal/domain"
	"github.com/nestcare/crm/internal/store"
	"github.com/nestcare/crm/internal/testhelpers"
)

func TestCreateAndGetLead(t *testing.T) {
	s := store.New(testhelpers.NewMigratedDB(t))
	ctx := context.Background()

	value := 2500.0
	lead, err := s.Records.CreateLead(ctx, &domain.Lead{
		TenantID:        "t-1",
		FirstName:       "Jane",
		LastName:        "Doe",
		Email:           "jane@example.com",
		ServiceInterest: "birth doula",
		EstimatedValue:  &value,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, lead.ID)
	assert.Equal(t, "new", lead.LeadStatus)
	assert.False(t, lead.IsConverted)
	require.NotNil(t, lead.EstimatedValue)
	assert.Equal(t, 2500.0, *lead.EstimatedValue)

	got, err := s.Records.GetLead(ctx, "t-1", lead.ID)
	require.NoError(t, err)
	assert.Equal(t, lead.ID, got.ID)

	// Leads are invisible outside their tenant.
	_, err = s.Records.GetLead(ctx, "t-2", lead.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateLeadRequiresAName(t *testing.T) {
	s := store.New(testhelpers.NewMigratedDB(t))

	_, err := s.Records.CreateLead(context.Background(), &domain.Lead{TenantID: "t-1"})
	var verr *store.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestCreateLeadValidatesCustomFieldsAgainstCatalog(t *testing.T) {
	s := store.New(testhelpers.NewMigratedDB(t))
	ctx := context.Background()

	ts := "2026-01-01T00:00:00.000Z"
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO object_definitions (id, api_name, label, plural_label, is_standard, is_custom, is_active, created_at, updated_at)
		 VALUES ('obj-lead', 'lead', 'Lead', 'Leads', TRUE, FALSE, TRUE, ?, ?)`, ts, ts)
	require.NoError(t, err)
	_, err = s.DB.ExecContext(ctx,
		`INSERT INTO field_definitions (id, object_id, api_name, label, field_type, created_at, updated_at)
		 VALUES ('fld-budget', 'obj-lead', 'budget__c', 'Budget', 'currency', ?, ?)`, ts, ts)
	require.NoError(t, err)

	_, err = s.Records.CreateLead(ctx, &domain.Lead{
		TenantID: "t-1", FirstName: "Jane", LastName: "Doe",
		CustomFields: `{"budget__c": "not a number"}`,
	})
	var verr *store.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Message, "budget__c")

	// A well typed value and an undefined key both go through.
	lead, err := s.Records.CreateLead(ctx, &domain.Lead{
		TenantID: "t-1", FirstName: "Jane", LastName: "Doe",
		CustomFields: `{"budget__c": 2500, "nickname": "JD"}`,
	})
	require.NoError(t, err)
	assert.Contains(t, lead.CustomFields, "budget__c")

	_, err = s.Records.CreateLead(ctx, &domain.Lead{
		TenantID: "t-1", FirstName: "Jane", LastName: "Doe",
		CustomFields: `not json`,
	})
	require.ErrorAs(t, err, &verr)
}

func TestListLeadsFiltersConverted(t *testing.T) {
	s := store.New(testhelpers.NewMigratedDB(t))
	ctx := context.Background()

	open, err := s.Records.CreateLead(ctx, &domain.Lead{TenantID: "t-1", FirstName: "Open", LastName: "Lead"})
	require.NoError(t, err)
	converted, err := s.Records.CreateLead(ctx, &domain.Lead{TenantID: "t-1", FirstName: "Done", LastName: "Lead"})
	require.NoError(t, err)

	ok, err := store.MarkLeadConverted(ctx, s.DB, converted.ID, "c-1", "a-1", "", "u-1")
	require.NoError(t, err)
	require.True(t, ok)

	leads, err := s.Records.ListLeads(ctx, "t-1", false)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, open.ID, leads[0].ID)

	leads, err = s.Records.ListLeads(ctx, "t-1", true)
	require.NoError(t, err)
	assert.Len(t, leads, 2)
}

func TestMarkLeadConvertedIsCompareAndSwap(t *testing.T) {
	s := store.New(testhelpers.NewMigratedDB(t))
	ctx := context.Background()

	lead, err := s.Records.CreateLead(ctx, &domain.Lead{TenantID: "t-1", FirstName: "Jane", LastName: "Doe"})
	require.NoError(t, err)

	ok, err := store.MarkLeadConverted(ctx, s.DB, lead.ID, "c-1", "a-1", "o-1", "u-1")
	require.NoError(t, err)
	assert.True(t, ok)

	// Second attempt finds is_converted already set and matches no rows.
	ok, err = store.MarkLeadConverted(ctx, s.DB, lead.ID, "c-2", "a-2", "o-2", "u-2")
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := s.Records.GetLead(ctx, "t-1", lead.ID)
	require.NoError(t, err)
	assert.True(t, got.IsConverted)
	assert.Equal(t, "c-1", got.ConvertedContactID)
	assert.Equal(t, "a-1", got.ConvertedAccountID)
	assert.Equal(t, "o-1", got.ConvertedOpportunityID)
	assert.Equal(t, "u-1", got.ConvertedBy)
	assert.Equal(t, "converted", got.LeadStatus)
	assert.NotEmpty(t, got.ConvertedAt)
}

func TestTransferActivitiesMovesEveryLeadActivity(t *testing.T) {
	s := store.New(testhelpers.NewMigratedDB(t))
	ctx := context.Background()

	lead, err := s.Records.CreateLead(ctx, &domain.Lead{TenantID: "t-1", FirstName: "Jane", LastName: "Doe"})
	require.NoError(t, err)

	for _, subject := range []string{"Intro call", "Sent brochure", "Follow up"} {
		_, err = s.Records.CreateActivity(ctx, &domain.Activity{
			TenantID: "t-1", Subject: subject, WhoType: "Lead", WhoID: lead.ID,
		})
		require.NoError(t, err)
	}

	moved, err := store.TransferActivities(ctx, s.DB, lead.ID, "c-1")
	require.NoError(t, err)
	assert.EqualValues(t, 3, moved)

	remaining, err := s.Records.ListActivitiesFor(ctx, "Lead", lead.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	transferred, err := s.Records.ListActivitiesFor(ctx, "Contact", "c-1")
	require.NoError(t, err)
	assert.Len(t, transferred, 3)
}

func TestInsertHelpersRoundTrip(t *testing.T) {
	s := store.New(testhelpers.NewMigratedDB(t))
	ctx := context.Background()

	account := &domain.Account{TenantID: "t-1", Name: "The Doe Family", AccountType: "household", AccountStatus: "prospect"}
	require.NoError(t, store.InsertAccount(ctx, s.DB, account))

	contact := &domain.Contact{TenantID: "t-1", FirstName: "Jane", LastName: "Doe", AccountID: account.ID, IsActive: true}
	require.NoError(t, store.InsertContact(ctx, s.DB, contact))

	amount := 2500.0
	opp := &domain.Opportunity{
		TenantID: "t-1", Name: "Jane Doe - Doula Services", Stage: "qualification",
		StageProbability: 10, Amount: &amount, AccountID: account.ID, PrimaryContactID: contact.ID,
	}
	require.NoError(t, store.InsertOpportunity(ctx, s.DB, opp))

	require.NoError(t, store.InsertRelationship(ctx, s.DB, &domain.ContactAccountRelationship{
		ContactID: contact.ID, AccountID: account.ID, RelationshipType: "primary", IsPrimary: true,
	}))
	require.NoError(t, store.SetAccountPrimaryContact(ctx, s.DB, account.ID, contact.ID))

	gotAccount, err := s.Records.GetAccount(ctx, "t-1", account.ID)
	require.NoError(t, err)
	assert.Equal(t, contact.ID, gotAccount.PrimaryContactID)

	gotContact, err := s.Records.GetContact(ctx, "t-1", contact.ID)
	require.NoError(t, err)
	assert.Equal(t, account.ID, gotContact.AccountID)

	gotOpp, err := s.Records.GetOpportunity(ctx, "t-1", opp.ID)
	require.NoError(t, err)
	require.NotNil(t, gotOpp.Amount)
	assert.Equal(t, 2500.0, *gotOpp.Amount)
	assert.Equal(t, 10, gotOpp.StageProbability)
}

func TestSearchAccountsMatchesCaseInsensitive(t *testing.T) {
	s := store.New(testhelpers.NewMigratedDB(t))
	ctx := context.Background()

	for _, name := range []string{"The Doe Family", "The Smith Family", "Acme Midwifery"} {
		require.NoError(t, store.InsertAccount(ctx, s.DB, &domain.Account{
			TenantID: "t-1", Name: name, AccountType: "household", AccountStatus: "active",
		}))
	}
	require.NoError(t, store.InsertAccount(ctx, s.DB, &domain.Account{
		TenantID: "t-2", Name: "The Doe Collective", AccountType: "organization", AccountStatus: "active",
	}))

	matches, err := s.Accounts.SearchAccounts(ctx, "t-1", "doe", 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "The Doe Family", matches[0].Name)

	matches, err = s.Accounts.SearchAccounts(ctx, "t-1", "family", 10)
	require.NoError(t, err)
	assert.Len(t, matches, 2)

	// Empty term lists alphabetically.
	matches, err = s.Accounts.SearchAccounts(ctx, "t-1", "", 10)
	require.NoError(t, err)
	require.Len(t, matches, 3)
	assert.Equal(t, "Acme Midwifery", matches[0].Name)
}

func TestSearchAccountsIncludesPrimaryContactName(t *testing.T) {
	s := store.New(testhelpers.NewMigratedDB(t))
	ctx := context.Background()

	account := &domain.Account{TenantID: "t-1", Name: "The Doe Family", AccountType: "household", AccountStatus: "active"}
	require.NoError(t, store.InsertAccount(ctx, s.DB, account))
	contact := &domain.Contact{TenantID: "t-1", FirstName: "Jane", LastName: "Doe", AccountID: account.ID, IsActive: true}
	require.NoError(t, store.InsertContact(ctx, s.DB, contact))
	require.NoError(t, store.SetAccountPrimaryContact(ctx, s.DB, account.ID, contact.ID))

	matches, err := s.Accounts.SearchAccounts(ctx, "t-1", "doe", 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Jane Doe", matches[0].PrimaryContactName)
}
