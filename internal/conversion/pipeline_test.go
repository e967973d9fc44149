package conversion_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nestcare/crm/internal/auth"
	"github.com/nestcare/crm/internal/conversion"
	"github.com/nestcare/crm/internal/domain"
	"github.com/nestcare/crm/internal/store"
	"github.com/nestcare/crm/internal/testhelpers"
)

func newPipeline(t *testing.T) (*conversion.Pipeline, *store.Store) {
	t.Helper()
	s := store.New(testhelpers.NewMigratedDB(t))
	p := conversion.NewPipeline(s, auth.ActorPolicy{}, slog.Default())
	return p, s
}

func actorCtx(userID, tenantID string) context.Context {
	return auth.WithActor(context.Background(), auth.Actor{UserID: userID, TenantID: tenantID})
}

func seedLead(t *testing.T, s *store.Store, lead *domain.Lead) *domain.Lead {
	t.Helper()
	created, err := s.Records.CreateLead(context.Background(), lead)
	require.NoError(t, err)
	return created
}

func TestConvertCreatesContactAccountAndOpportunity(t *testing.T) {
	p, s := newPipeline(t)
	ctx := actorCtx("u-1", "t-1")

	value := 2500.0
	lead := seedLead(t, s, &domain.Lead{
		TenantID: "t-1", FirstName: "Jane", LastName: "Doe",
		Email: "jane@example.com", ServiceInterest: "birth doula",
		EstimatedValue: &value, UTMSource: "google",
	})

	result, err := p.Convert(ctx, domain.ConvertLeadOptions{
		LeadID:            lead.ID,
		AccountOption:     domain.AccountOptionCreate,
		CreateOpportunity: true,
	})
	require.NoError(t, err)
	require.True(t, result.Success)
	require.NotEmpty(t, result.ContactID)
	require.NotEmpty(t, result.AccountID)
	require.NotEmpty(t, result.OpportunityID)
	assert.Empty(t, result.Warning)

	contact, err := s.Records.GetContact(ctx, "t-1", result.ContactID)
	require.NoError(t, err)
	assert.Equal(t, "Jane", contact.FirstName)
	assert.Equal(t, result.AccountID, contact.AccountID)
	assert.Equal(t, "google", contact.UTMSource)
	assert.Equal(t, "u-1", contact.OwnerID)

	account, err := s.Records.GetAccount(ctx, "t-1", result.AccountID)
	require.NoError(t, err)
	assert.Equal(t, "The Doe Family", account.Name)
	assert.Equal(t, "household", account.AccountType)
	assert.Equal(t, result.ContactID, account.PrimaryContactID)

	opp, err := s.Records.GetOpportunity(ctx, "t-1", result.OpportunityID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe - birth doula", opp.Name)
	assert.Equal(t, "qualification", opp.Stage)
	assert.Equal(t, 10, opp.StageProbability)
	require.NotNil(t, opp.Amount)
	assert.Equal(t, 2500.0, *opp.Amount)
	assert.Equal(t, result.AccountID, opp.AccountID)
	assert.Equal(t, result.ContactID, opp.PrimaryContactID)

	converted, err := s.Records.GetLead(ctx, "t-1", lead.ID)
	require.NoError(t, err)
	assert.True(t, converted.IsConverted)
	assert.Equal(t, result.ContactID, converted.ConvertedContactID)
	assert.Equal(t, result.AccountID, converted.ConvertedAccountID)
	assert.Equal(t, result.OpportunityID, converted.ConvertedOpportunityID)
	assert.Equal(t, "u-1", converted.ConvertedBy)
	assert.Equal(t, "converted", converted.LeadStatus)

	var relType string
	var relPrimary bool
	require.NoError(t, s.DB.QueryRow(
		`SELECT relationship_type, is_primary FROM contact_account_relationships WHERE contact_id = ? AND account_id = ?`,
		result.ContactID, result.AccountID).Scan(&relType, &relPrimary))
	assert.Equal(t, "primary", relType)
	assert.True(t, relPrimary)
}

func TestConvertWithoutOpportunity(t *testing.T) {
	p, s := newPipeline(t)
	ctx := actorCtx("u-1", "t-1")

	lead := seedLead(t, s, &domain.Lead{TenantID: "t-1", FirstName: "Jane", LastName: "Doe"})

	result, err := p.Convert(ctx, domain.ConvertLeadOptions{
		LeadID:        lead.ID,
		AccountOption: domain.AccountOptionCreate,
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Empty(t, result.OpportunityID)

	var oppCount int
	require.NoError(t, s.DB.QueryRow(`SELECT COUNT(*) FROM opportunities`).Scan(&oppCount))
	assert.Equal(t, 0, oppCount)
}

func TestConvertLinksExistingAccount(t *testing.T) {
	p, s := newPipeline(t)
	ctx := actorCtx("u-1", "t-1")

	account := &domain.Account{TenantID: "t-1", Name: "The Doe Family", AccountType: "household", AccountStatus: "active"}
	require.NoError(t, store.InsertAccount(ctx, s.DB, account))

	lead := seedLead(t, s, &domain.Lead{TenantID: "t-1", FirstName: "John", LastName: "Doe"})

	result, err := p.Convert(ctx, domain.ConvertLeadOptions{
		LeadID:            lead.ID,
		AccountOption:     domain.AccountOptionExisting,
		ExistingAccountID: account.ID,
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, account.ID, result.AccountID)

	// An existing account with no primary contact adopts the new one.
	got, err := s.Records.GetAccount(ctx, "t-1", account.ID)
	require.NoError(t, err)
	assert.Equal(t, result.ContactID, got.PrimaryContactID)

	var accountCount int
	require.NoError(t, s.DB.QueryRow(`SELECT COUNT(*) FROM accounts`).Scan(&accountCount))
	assert.Equal(t, 1, accountCount, "no new account should be created")
}

func TestConvertKeepsExistingPrimaryContact(t *testing.T) {
	p, s := newPipeline(t)
	ctx := actorCtx("u-1", "t-1")

	account := &domain.Account{TenantID: "t-1", Name: "The Doe Family", AccountType: "household", AccountStatus: "active"}
	require.NoError(t, store.InsertAccount(ctx, s.DB, account))
	existing := &domain.Contact{TenantID: "t-1", FirstName: "Jane", LastName: "Doe", AccountID: account.ID, IsActive: true}
	require.NoError(t, store.InsertContact(ctx, s.DB, existing))
	require.NoError(t, store.SetAccountPrimaryContact(ctx, s.DB, account.ID, existing.ID))

	lead := seedLead(t, s, &domain.Lead{TenantID: "t-1", FirstName: "John", LastName: "Doe"})

	result, err := p.Convert(ctx, domain.ConvertLeadOptions{
		LeadID:            lead.ID,
		AccountOption:     domain.AccountOptionExisting,
		ExistingAccountID: account.ID,
	})
	require.NoError(t, err)
	require.True(t, result.Success)

	got, err := s.Records.GetAccount(ctx, "t-1", account.ID)
	require.NoError(t, err)
	assert.Equal(t, existing.ID, got.PrimaryContactID, "existing primary contact must not be replaced")
}

func TestConvertMissingExistingAccountWritesNothing(t *testing.T) {
	p, s := newPipeline(t)
	ctx := actorCtx("u-1", "t-1")

	lead := seedLead(t, s, &domain.Lead{TenantID: "t-1", FirstName: "Jane", LastName: "Doe"})

	result, err := p.Convert(ctx, domain.ConvertLeadOptions{
		LeadID:            lead.ID,
		AccountOption:     domain.AccountOptionExisting,
		ExistingAccountID: "nope",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.False(t, result.Success)
	assert.Equal(t, "Selected account not found", result.Error)

	for _, table := range []string{"contacts", "accounts", "contact_account_relationships"} {
		var count int
		require.NoError(t, s.DB.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&count))
		assert.Equal(t, 0, count, "%s must stay empty after a failed conversion", table)
	}

	got, err := s.Records.GetLead(ctx, "t-1", lead.ID)
	require.NoError(t, err)
	assert.False(t, got.IsConverted)
}

func TestConvertTwiceFails(t *testing.T) {
	p, s := newPipeline(t)
	ctx := actorCtx("u-1", "t-1")

	lead := seedLead(t, s, &domain.Lead{TenantID: "t-1", FirstName: "Jane", LastName: "Doe"})

	opts := domain.ConvertLeadOptions{LeadID: lead.ID, AccountOption: domain.AccountOptionCreate}
	result, err := p.Convert(ctx, opts)
	require.NoError(t, err)
	require.True(t, result.Success)

	result, err = p.Convert(ctx, opts)
	require.Error(t, err)
	assert.ErrorIs(t, err, conversion.ErrAlreadyConverted)
	assert.False(t, result.Success)

	// The failed second attempt must not leave extra rows behind.
	var contactCount int
	require.NoError(t, s.DB.QueryRow(`SELECT COUNT(*) FROM contacts`).Scan(&contactCount))
	assert.Equal(t, 1, contactCount)
}

func TestConvertTransfersActivities(t *testing.T) {
	p, s := newPipeline(t)
	ctx := actorCtx("u-1", "t-1")

	lead := seedLead(t, s, &domain.Lead{TenantID: "t-1", FirstName: "Jane", LastName: "Doe"})
	for _, subject := range []string{"Intro call", "Sent brochure"} {
		_, err := s.Records.CreateActivity(ctx, &domain.Activity{
			TenantID: "t-1", Subject: subject, WhoType: "Lead", WhoID: lead.ID,
		})
		require.NoError(t, err)
	}

	result, err := p.Convert(ctx, domain.ConvertLeadOptions{LeadID: lead.ID, AccountOption: domain.AccountOptionCreate})
	require.NoError(t, err)

	remaining, err := s.Records.ListActivitiesFor(ctx, "Lead", lead.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	transferred, err := s.Records.ListActivitiesFor(ctx, "Contact", result.ContactID)
	require.NoError(t, err)
	assert.Len(t, transferred, 2)
}

func TestConvertAppliesOverrides(t *testing.T) {
	p, s := newPipeline(t)
	ctx := actorCtx("u-1", "t-1")

	lead := seedLead(t, s, &domain.Lead{TenantID: "t-1", FirstName: "Jane", LastName: "Doe"})

	amount := 4000.0
	result, err := p.Convert(ctx, domain.ConvertLeadOptions{
		LeadID:            lead.ID,
		AccountOption:     domain.AccountOptionCreate,
		CreateOpportunity: true,
		AccountOverrides:  domain.AccountOverrides{Name: "Doe Household"},
		ContactOverrides:  domain.ContactOverrides{Email: "jane.doe@example.com"},
		OpportunityOverrides: domain.OpportunityOverrides{
			Name: "Doe Birth Package", Amount: &amount,
		},
	})
	require.NoError(t, err)
	require.True(t, result.Success)

	account, err := s.Records.GetAccount(ctx, "t-1", result.AccountID)
	require.NoError(t, err)
	assert.Equal(t, "Doe Household", account.Name)

	contact, err := s.Records.GetContact(ctx, "t-1", result.ContactID)
	require.NoError(t, err)
	assert.Equal(t, "jane.doe@example.com", contact.Email)

	opp, err := s.Records.GetOpportunity(ctx, "t-1", result.OpportunityID)
	require.NoError(t, err)
	assert.Equal(t, "Doe Birth Package", opp.Name)
	require.NotNil(t, opp.Amount)
	assert.Equal(t, 4000.0, *opp.Amount)
}

func TestConvertTenantIsolation(t *testing.T) {
	p, s := newPipeline(t)

	lead := seedLead(t, s, &domain.Lead{TenantID: "t-1", FirstName: "Jane", LastName: "Doe"})

	result, err := p.Convert(actorCtx("u-2", "t-2"), domain.ConvertLeadOptions{
		LeadID: lead.ID, AccountOption: domain.AccountOptionCreate,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.False(t, result.Success)
}

func TestConvertRequiresActor(t *testing.T) {
	p, _ := newPipeline(t)

	result, err := p.Convert(context.Background(), domain.ConvertLeadOptions{
		LeadID: "l-1", AccountOption: domain.AccountOptionCreate,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, auth.ErrUnauthorized)
	assert.False(t, result.Success)
}

func TestConvertRejectsUnknownAccountOption(t *testing.T) {
	p, s := newPipeline(t)
	ctx := actorCtx("u-1", "t-1")

	lead := seedLead(t, s, &domain.Lead{TenantID: "t-1", FirstName: "Jane", LastName: "Doe"})

	result, err := p.Convert(ctx, domain.ConvertLeadOptions{LeadID: lead.ID, AccountOption: "merge"})
	require.Error(t, err)
	var verr *store.ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.False(t, result.Success)
}

func TestValidate(t *testing.T) {
	p, s := newPipeline(t)
	ctx := actorCtx("u-1", "t-1")

	lead := seedLead(t, s, &domain.Lead{TenantID: "t-1", FirstName: "Jane", LastName: "Doe"})

	v, err := p.Validate(ctx, lead.ID)
	require.NoError(t, err)
	assert.True(t, v.CanConvert)

	v, err = p.Validate(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, v.CanConvert)
	assert.Equal(t, "Lead not found", v.Reason)

	_, err = p.Convert(ctx, domain.ConvertLeadOptions{LeadID: lead.ID, AccountOption: domain.AccountOptionCreate})
	require.NoError(t, err)

	v, err = p.Validate(ctx, lead.ID)
	require.NoError(t, err)
	assert.False(t, v.CanConvert)
	assert.Equal(t, "Lead has already been converted", v.Reason)
}

func TestPreviewWritesNothing(t *testing.T) {
	p, s := newPipeline(t)
	ctx := actorCtx("u-1", "t-1")

	value := 2500.0
	lead := seedLead(t, s, &domain.Lead{
		TenantID: "t-1", FirstName: "Jane", LastName: "Doe",
		ServiceInterest: "birth doula", EstimatedValue: &value,
	})

	preview, err := p.Preview(ctx, domain.ConvertLeadOptions{
		LeadID:            lead.ID,
		AccountOption:     domain.AccountOptionCreate,
		CreateOpportunity: true,
	})
	require.NoError(t, err)
	require.NotNil(t, preview.Account)
	assert.Equal(t, "The Doe Family", preview.Account.Name)
	require.NotNil(t, preview.Contact)
	assert.Equal(t, "Jane", preview.Contact.FirstName)
	require.NotNil(t, preview.Opportunity)
	assert.Equal(t, "Jane Doe - birth doula", preview.Opportunity.Name)

	for _, table := range []string{"contacts", "accounts", "opportunities"} {
		var count int
		require.NoError(t, s.DB.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&count))
		assert.Equal(t, 0, count)
	}
}

func TestSearchAccountsScopedToActorTenant(t *testing.T) {
	p, s := newPipeline(t)
	ctx := actorCtx("u-1", "t-1")

	require.NoError(t, store.InsertAccount(ctx, s.DB, &domain.Account{
		TenantID: "t-1", Name: "The Doe Family", AccountType: "household", AccountStatus: "active",
	}))
	require.NoError(t, store.InsertAccount(ctx, s.DB, &domain.Account{
		TenantID: "t-2", Name: "The Doe Collective", AccountType: "organization", AccountStatus: "active",
	}))

	matches, err := p.SearchAccounts(ctx, "doe", 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "The Doe Family", matches[0].Name)
}
