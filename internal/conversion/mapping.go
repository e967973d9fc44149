// Package conversion implements the lead conversion pipeline: mapping a lead
// into a contact, account and optional opportunity, and running the writes in
// one transaction.
package conversion

import (
	"fmt"
	"strings"

	"github.com/nestcare/crm/internal/domain"
)

const defaultServiceType = "Doula Services"

// MapLeadToAccount computes the account a conversion would create from the
// lead, then applies overrides. The default name is "The {lastName} Family";
// leads without a last name fall back to the trimmed full name.
func MapLeadToAccount(lead *domain.Lead, overrides domain.AccountOverrides) *domain.Account {
	name := strings.TrimSpace(lead.FirstName + " " + lead.LastName)
	if lead.LastName != "" {
		name = fmt.Sprintf("The %s Family", lead.LastName)
	}

	account := &domain.Account{
		TenantID:      lead.TenantID,
		Name:          name,
		AccountType:   "household",
		AccountStatus: "prospect",
		OwnerID:       lead.OwnerID,
	}

	if overrides.Name != "" {
		account.Name = overrides.Name
	}
	if overrides.AccountType != "" {
		account.AccountType = overrides.AccountType
	}
	if overrides.AccountStatus != "" {
		account.AccountStatus = overrides.AccountStatus
	}
	return account
}

// MapLeadToContact computes the contact a conversion would create. Marketing
// attribution carries over so reporting survives the conversion.
func MapLeadToContact(lead *domain.Lead, overrides domain.ContactOverrides) *domain.Contact {
	contact := &domain.Contact{
		TenantID:        lead.TenantID,
		FirstName:       lead.FirstName,
		LastName:        lead.LastName,
		Email:           lead.Email,
		Phone:           lead.Phone,
		LeadSource:      lead.LeadSource,
		ExpectedDueDate: lead.ExpectedDueDate,
		ReferralSource:  lead.ReferralSource,
		UTMSource:       lead.UTMSource,
		UTMMedium:       lead.UTMMedium,
		UTMCampaign:     lead.UTMCampaign,
		CustomFields:    lead.CustomFields,
		IsActive:        true,
		OwnerID:         lead.OwnerID,
	}

	if overrides.FirstName != "" {
		contact.FirstName = overrides.FirstName
	}
	if overrides.LastName != "" {
		contact.LastName = overrides.LastName
	}
	if overrides.Email != "" {
		contact.Email = overrides.Email
	}
	if overrides.Phone != "" {
		contact.Phone = overrides.Phone
	}
	return contact
}

// MapLeadToOpportunity computes the opportunity a conversion would create:
// qualification stage at 10% with the lead's estimated value as the amount.
func MapLeadToOpportunity(lead *domain.Lead, overrides domain.OpportunityOverrides) *domain.Opportunity {
	serviceType := lead.ServiceInterest
	if serviceType == "" {
		serviceType = defaultServiceType
	}
	name := strings.TrimSpace(lead.FirstName+" "+lead.LastName) + " - " + serviceType

	opp := &domain.Opportunity{
		TenantID:         lead.TenantID,
		Name:             name,
		Stage:            "qualification",
		StageProbability: 10,
		Amount:           lead.EstimatedValue,
		ServiceType:      serviceType,
		OwnerID:          lead.OwnerID,
	}

	if overrides.Name != "" {
		opp.Name = overrides.Name
	}
	if overrides.Stage != "" {
		opp.Stage = overrides.Stage
	}
	if overrides.StageProbability != nil {
		opp.StageProbability = *overrides.StageProbability
	}
	if overrides.Amount != nil {
		opp.Amount = overrides.Amount
	}
	if overrides.ServiceType != "" {
		opp.ServiceType = overrides.ServiceType
	}
	return opp
}
