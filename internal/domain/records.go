package domain

// Lead is an unqualified prospect. Conversion state is terminal: once
// IsConverted is set the lead can never be converted again.
type Lead struct {
	ID                     string   `json:"id"`
	TenantID               string   `json:"tenantId"`
	FirstName              string   `json:"firstName"`
	LastName               string   `json:"lastName"`
	Email                  string   `json:"email,omitempty"`
	Phone                  string   `json:"phone,omitempty"`
	LeadStatus             string   `json:"leadStatus"`
	LeadSource             string   `json:"leadSource,omitempty"`
	ServiceInterest        string   `json:"serviceInterest,omitempty"`
	EstimatedValue         *float64 `json:"estimatedValue,omitempty"`
	ExpectedDueDate        string   `json:"expectedDueDate,omitempty"`
	ReferralSource         string   `json:"referralSource,omitempty"`
	UTMSource              string   `json:"utmSource,omitempty"`
	UTMMedium              string   `json:"utmMedium,omitempty"`
	UTMCampaign            string   `json:"utmCampaign,omitempty"`
	CustomFields           string   `json:"customFields,omitempty"`
	IsConverted            bool     `json:"isConverted"`
	ConvertedAt            string   `json:"convertedAt,omitempty"`
	ConvertedContactID     string   `json:"convertedContactId,omitempty"`
	ConvertedAccountID     string   `json:"convertedAccountId,omitempty"`
	ConvertedOpportunityID string   `json:"convertedOpportunityId,omitempty"`
	ConvertedBy            string   `json:"convertedBy,omitempty"`
	OwnerID                string   `json:"ownerId,omitempty"`
	CreatedAt              string   `json:"createdAt"`
	UpdatedAt              string   `json:"updatedAt"`
}

// Contact is a qualified person, usually produced by lead conversion.
type Contact struct {
	ID              string `json:"id"`
	TenantID        string `json:"tenantId"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email,omitempty"`
	Phone           string `json:"phone,omitempty"`
	AccountID       string `json:"accountId,omitempty"`
	LeadSource      string `json:"leadSource,omitempty"`
	ExpectedDueDate string `json:"expectedDueDate,omitempty"`
	ReferralSource  string `json:"referralSource,omitempty"`
	UTMSource       string `json:"utmSource,omitempty"`
	UTMMedium       string `json:"utmMedium,omitempty"`
	UTMCampaign     string `json:"utmCampaign,omitempty"`
	CustomFields    string `json:"customFields,omitempty"`
	IsActive        bool   `json:"isActive"`
	OwnerID         string `json:"ownerId,omitempty"`
	CreatedAt       string `json:"createdAt"`
	UpdatedAt       string `json:"updatedAt"`
}

// Account groups contacts into a household or organization.
type Account struct {
	ID               string `json:"id"`
	TenantID         string `json:"tenantId"`
	Name             string `json:"name"`
	AccountType      string `json:"accountType"`
	AccountStatus    string `json:"accountStatus"`
	PrimaryContactID string `json:"primaryContactId,omitempty"`
	OwnerID          string `json:"ownerId,omitempty"`
	CreatedAt        string `json:"createdAt"`
	UpdatedAt        string `json:"updatedAt"`
}

// Opportunity is a potential sale attached to an account and contact.
type Opportunity struct {
	ID               string   `json:"id"`
	TenantID         string   `json:"tenantId"`
	Name             string   `json:"name"`
	Stage            string   `json:"stage"`
	StageProbability int      `json:"stageProbability"`
	Amount           *float64 `json:"amount,omitempty"`
	ServiceType      string   `json:"serviceType,omitempty"`
	AccountID        string   `json:"accountId,omitempty"`
	PrimaryContactID string   `json:"primaryContactId,omitempty"`
	OwnerID          string   `json:"ownerId,omitempty"`
	CreatedAt        string   `json:"createdAt"`
	UpdatedAt        string   `json:"updatedAt"`
}

// Activity is a task or interaction pointing at a lead or contact via the
// polymorphic WhoType/WhoID pair.
type Activity struct {
	ID             string `json:"id"`
	TenantID       string `json:"tenantId"`
	Subject        string `json:"subject"`
	ActivityType   string `json:"activityType"`
	ActivityStatus string `json:"activityStatus"`
	WhoType        string `json:"whoType"`
	WhoID          string `json:"whoId"`
	OwnerID        string `json:"ownerId,omitempty"`
	CreatedAt      string `json:"createdAt"`
	UpdatedAt      string `json:"updatedAt"`
}

// ContactAccountRelationship links a contact to an account. Conversion always
// creates the primary relationship.
type ContactAccountRelationship struct {
	ID               string `json:"id"`
	ContactID        string `json:"contactId"`
	AccountID        string `json:"accountId"`
	RelationshipType string `json:"relationshipType"`
	IsPrimary        bool   `json:"isPrimary"`
	CreatedAt        string `json:"createdAt"`
}

// User is an acting user within a tenant. Records created during conversion
// are owned by the acting user.
type User struct {
	ID        string `json:"id"`
	TenantID  string `json:"tenantId"`
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Role      string `json:"role"`
	IsActive  bool   `json:"isActive"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}
