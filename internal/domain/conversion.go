package domain

// Account resolution modes for lead conversion.
const (
	AccountOptionCreate   = "create"
	AccountOptionExisting = "existing"
)

// ConvertLeadOptions controls a single conversion run. Overrides are applied
// on top of the mapped defaults computed from the lead.
type ConvertLeadOptions struct {
	LeadID               string               `json:"leadId"`
	AccountOption        string               `json:"accountOption"`
	ExistingAccountID    string               `json:"existingAccountId,omitempty"`
	CreateOpportunity    bool                 `json:"createOpportunity"`
	AccountOverrides     AccountOverrides     `json:"accountOverrides,omitempty"`
	ContactOverrides     ContactOverrides     `json:"contactOverrides,omitempty"`
	OpportunityOverrides OpportunityOverrides `json:"opportunityOverrides,omitempty"`
}

// AccountOverrides are caller-supplied account values that win over the
// mapped defaults. Empty fields keep the default.
type AccountOverrides struct {
	Name          string `json:"name,omitempty"`
	AccountType   string `json:"accountType,omitempty"`
	AccountStatus string `json:"accountStatus,omitempty"`
}

// ContactOverrides are caller-supplied contact values.
type ContactOverrides struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// OpportunityOverrides are caller-supplied opportunity values. Amount uses a
// pointer so an explicit zero can be told apart from "keep the default".
type OpportunityOverrides struct {
	Name             string   `json:"name,omitempty"`
	Stage            string   `json:"stage,omitempty"`
	StageProbability *int     `json:"stageProbability,omitempty"`
	Amount           *float64 `json:"amount,omitempty"`
	ServiceType      string   `json:"serviceType,omitempty"`
}

// ConversionResult is the discriminated outcome of a conversion run. Warning
// carries a tolerated partial failure (opportunity creation) that did not
// abort the conversion.
type ConversionResult struct {
	Success       bool   `json:"success"`
	ContactID     string `json:"contactId,omitempty"`
	AccountID     string `json:"accountId,omitempty"`
	OpportunityID string `json:"opportunityId,omitempty"`
	Error         string `json:"error,omitempty"`
	Warning       string `json:"warning,omitempty"`
}

// ConversionValidation reports whether a lead is eligible for conversion.
type ConversionValidation struct {
	CanConvert bool   `json:"canConvert"`
	Reason     string `json:"reason,omitempty"`
}

// ConversionPreview shows the mapped records a conversion would create,
// computed without writing anything.
type ConversionPreview struct {
	Account     *Account     `json:"account"`
	Contact     *Contact     `json:"contact"`
	Opportunity *Opportunity `json:"opportunity"`
}

// AccountMatch is a search hit from the account lookup used by the
// "link to existing account" path.
type AccountMatch struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	AccountType        string `json:"accountType"`
	AccountStatus      string `json:"accountStatus"`
	PrimaryContactName string `json:"primaryContactName,omitempty"`
}
