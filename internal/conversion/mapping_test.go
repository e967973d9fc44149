package conversion_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nestcare/crm/internal/conversion"
	"github.com/nestcare/crm/internal/domain"
)

func TestMapLeadToAccountDefaults(t *testing.T) {
	lead := &domain.Lead{TenantID: "t-1", FirstName: "Jane", LastName: "Doe", OwnerID: "u-1"}

	account := conversion.MapLeadToAccount(lead, domain.AccountOverrides{})

	assert.Equal(t, "The Doe Family", account.Name)
	assert.Equal(t, "household", account.AccountType)
	assert.Equal(t, "prospect", account.AccountStatus)
	assert.Equal(t, "t-1", account.TenantID)
	assert.Equal(t, "u-1", account.OwnerID)
}

func TestMapLeadToAccountWithoutLastName(t *testing.T) {
	lead := &domain.Lead{TenantID: "t-1", FirstName: "Jane"}

	account := conversion.MapLeadToAccount(lead, domain.AccountOverrides{})

	assert.Equal(t, "Jane", account.Name)
}

func TestMapLeadToAccountOverridesWin(t *testing.T) {
	lead := &domain.Lead{TenantID: "t-1", FirstName: "Jane", LastName: "Doe"}

	account := conversion.MapLeadToAccount(lead, domain.AccountOverrides{
		Name: "Doe Household", AccountType: "organization", AccountStatus: "active",
	})

	assert.Equal(t, "Doe Household", account.Name)
	assert.Equal(t, "organization", account.AccountType)
	assert.Equal(t, "active", account.AccountStatus)
}

func TestMapLeadToContactCarriesAttribution(t *testing.T) {
	lead := &domain.Lead{
		TenantID: "t-1", FirstName: "Jane", LastName: "Doe",
		Email: "jane@example.com", Phone: "555-0100",
		LeadSource: "web", ExpectedDueDate: "2026-12-01",
		ReferralSource: "Dr. Smith", UTMSource: "google", UTMMedium: "cpc", UTMCampaign: "spring",
		CustomFields: `{"preferred_hospital":"General"}`,
	}

	contact := conversion.MapLeadToContact(lead, domain.ContactOverrides{})

	assert.Equal(t, "Jane", contact.FirstName)
	assert.Equal(t, "jane@example.com", contact.Email)
	assert.Equal(t, "web", contact.LeadSource)
	assert.Equal(t, "2026-12-01", contact.ExpectedDueDate)
	assert.Equal(t, "google", contact.UTMSource)
	assert.Equal(t, "cpc", contact.UTMMedium)
	assert.Equal(t, "spring", contact.UTMCampaign)
	assert.Equal(t, `{"preferred_hospital":"General"}`, contact.CustomFields)
	assert.True(t, contact.IsActive)
}

func TestMapLeadToContactOverrides(t *testing.T) {
	lead := &domain.Lead{TenantID: "t-1", FirstName: "Jane", LastName: "Doe", Email: "old@example.com"}

	contact := conversion.MapLeadToContact(lead, domain.ContactOverrides{Email: "new@example.com"})

	assert.Equal(t, "new@example.com", contact.Email)
	assert.Equal(t, "Jane", contact.FirstName)
}

func TestMapLeadToOpportunityDefaults(t *testing.T) {
	value := 2500.0
	lead := &domain.Lead{
		TenantID: "t-1", FirstName: "Jane", LastName: "Doe",
		ServiceInterest: "birth doula", EstimatedValue: &value,
	}

	opp := conversion.MapLeadToOpportunity(lead, domain.OpportunityOverrides{})

	assert.Equal(t, "Jane Doe - birth doula", opp.Name)
	assert.Equal(t, "qualification", opp.Stage)
	assert.Equal(t, 10, opp.StageProbability)
	require.NotNil(t, opp.Amount)
	assert.Equal(t, 2500.0, *opp.Amount)
	assert.Equal(t, "birth doula", opp.ServiceType)
}

func TestMapLeadToOpportunityFallbackServiceType(t *testing.T) {
	lead := &domain.Lead{TenantID: "t-1", FirstName: "Jane", LastName: "Doe"}

	opp := conversion.MapLeadToOpportunity(lead, domain.OpportunityOverrides{})

	assert.Equal(t, "Jane Doe - Doula Services", opp.Name)
	assert.Equal(t, "Doula Services", opp.ServiceType)
	assert.Nil(t, opp.Amount)
}

func TestMapLeadToOpportunityOverrides(t *testing.T) {
	lead := &domain.Lead{TenantID: "t-1", FirstName: "Jane", LastName: "Doe"}

	probability := 50
	amount := 0.0
	opp := conversion.MapLeadToOpportunity(lead, domain.OpportunityOverrides{
		Stage: "proposal", StageProbability: &probability, Amount: &amount,
	})

	assert.Equal(t, "proposal", opp.Stage)
	assert.Equal(t, 50, opp.StageProbability)
	require.NotNil(t, opp.Amount)
	assert.Equal(t, 0.0, *opp.Amount, "explicit zero amount is kept")
}
