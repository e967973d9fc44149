package domain

// ObjectDefinition describes a CRM entity, either one of the fixed standard
// objects (Lead, Contact, Account, Opportunity, Activity) or a tenant-defined
// custom object suffixed __c.
type ObjectDefinition struct {
	ID          string `json:"id"`
	APIName     string `json:"apiName"`
	Label       string `json:"label"`
	PluralLabel string `json:"pluralLabel"`
	Description string `json:"description,omitempty"`
	IsStandard  bool   `json:"isStandard"`
	IsCustom    bool   `json:"isCustom"`
	IsActive    bool   `json:"isActive"`
	TenantID    string `json:"tenantId,omitempty"`
	CreatedBy   string `json:"createdBy,omitempty"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// FieldDefinition describes a single field on an ObjectDefinition. Picklist
// fields carry their value set when loaded through the metadata resolver.
type FieldDefinition struct {
	ID             string          `json:"id"`
	ObjectID       string          `json:"objectId"`
	APIName        string          `json:"apiName"`
	Label          string          `json:"label"`
	FieldType      FieldType       `json:"fieldType"`
	DisplayOrder   int             `json:"displayOrder"`
	IsRequired     bool            `json:"isRequired"`
	IsActive       bool            `json:"isActive"`
	PicklistValues []PicklistValue `json:"picklistValues,omitempty"`
	CreatedAt      string          `json:"createdAt"`
	UpdatedAt      string          `json:"updatedAt"`
}

// PicklistValue is one ordered enumerated option of a picklist field.
type PicklistValue struct {
	ID           string `json:"id"`
	FieldID      string `json:"fieldId"`
	Value        string `json:"value"`
	Label        string `json:"label"`
	DisplayOrder int    `json:"displayOrder"`
	IsActive     bool   `json:"isActive"`
}

// PageLayout describes how an object's fields are arranged for rendering.
// At most one layout per object is the default.
type PageLayout struct {
	ID        string `json:"id"`
	ObjectID  string `json:"objectId"`
	Name      string `json:"name"`
	IsDefault bool   `json:"isDefault"`
	Sections  string `json:"sections"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// RecordType is a named variant of an object that can select its own layout.
type RecordType struct {
	ID           string `json:"id"`
	ObjectID     string `json:"objectId"`
	Name         string `json:"name"`
	Label        string `json:"label"`
	PageLayoutID string `json:"pageLayoutId,omitempty"`
	IsActive     bool   `json:"isActive"`
	CreatedAt    string `json:"createdAt"`
	UpdatedAt    string `json:"updatedAt"`
}

// ObjectMetadata is the render-ready bundle the metadata resolver assembles
// for a single object: definition, ordered active fields with value sets, the
// applicable layout and the selectable record types.
type ObjectMetadata struct {
	Object      *ObjectDefinition `json:"object"`
	Fields      []FieldDefinition `json:"fields"`
	Layout      *PageLayout       `json:"layout,omitempty"`
	RecordTypes []RecordType      `json:"recordTypes"`
}
