package conversion

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nestcare/crm/internal/auth"
	"github.com/nestcare/crm/internal/domain"
	"github.com/nestcare/crm/internal/store"
)

// ErrAlreadyConverted is returned when the target lead has already been
// converted. Conversion state is terminal.
var ErrAlreadyConverted = errors.New("lead already converted")

// Pipeline runs lead conversions. Every conversion executes inside one
// database transaction so a failure at any required step leaves the lead
// untouched; only opportunity creation is tolerated as a partial failure.
type Pipeline struct {
	db     *sql.DB
	store  *store.Store
	authz  auth.Authorizer
	logger *slog.Logger
}

// NewPipeline creates a conversion pipeline over the store's database.
func NewPipeline(s *store.Store, authz auth.Authorizer, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{db: s.DB, store: s, authz: authz, logger: logger}
}

// Convert turns a lead into a contact, an account (created or linked) and
// optionally an opportunity. The returned result always carries the outcome;
// the error is non-nil whenever result.Success is false.
func (p *Pipeline) Convert(ctx context.Context, opts domain.ConvertLeadOptions) (*domain.ConversionResult, error) {
	fail := func(msg string, err error) (*domain.ConversionResult, error) {
		return &domain.ConversionResult{Success: false, Error: msg}, err
	}

	actor, err := p.authz.Require(ctx)
	if err != nil {
		return fail("Unauthorized", err)
	}

	lead, err := p.store.Records.GetLead(ctx, actor.TenantID, opts.LeadID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fail("Lead not found", err)
		}
		return fail("Failed to load lead", err)
	}
	if lead.IsConverted {
		return fail("Lead has already been converted", fmt.Errorf("lead %q: %w", lead.ID, ErrAlreadyConverted))
	}

	switch opts.AccountOption {
	case domain.AccountOptionCreate:
	case domain.AccountOptionExisting:
		if opts.ExistingAccountID == "" {
			return fail("existingAccountId is required when linking to an existing account",
				&store.ValidationError{Message: "existingAccountId is required"})
		}
	default:
		return fail(fmt.Sprintf("unknown account option %q", opts.AccountOption),
			&store.ValidationError{Message: "accountOption must be create or existing"})
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fail("Failed to start conversion", fmt.Errorf("begin conversion: %w", err))
	}
	defer func() { _ = tx.Rollback() }()

	var account *domain.Account
	accountCreated := false
	if opts.AccountOption == domain.AccountOptionExisting {
		account, err = store.GetAccountTx(ctx, tx, actor.TenantID, opts.ExistingAccountID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fail("Selected account not found", err)
			}
			return fail("Failed to load account", err)
		}
	} else {
		account = MapLeadToAccount(lead, opts.AccountOverrides)
		if account.OwnerID == "" {
			account.OwnerID = actor.UserID
		}
		if err := store.InsertAccount(ctx, tx, account); err != nil {
			return fail("Failed to create account", err)
		}
		accountCreated = true
	}

	contact := MapLeadToContact(lead, opts.ContactOverrides)
	contact.AccountID = account.ID
	if contact.OwnerID == "" {
		contact.OwnerID = actor.UserID
	}
	if err := store.InsertContact(ctx, tx, contact); err != nil {
		return fail("Failed to create contact", err)
	}

	if err := store.InsertRelationship(ctx, tx, &domain.ContactAccountRelationship{
		ContactID:        contact.ID,
		AccountID:        account.ID,
		RelationshipType: "primary",
		IsPrimary:        true,
	}); err != nil {
		return fail("Failed to link contact to account", err)
	}

	// A freshly created account always gets the contact as primary. An
	// existing account keeps its primary contact unless it has none.
	if accountCreated || account.PrimaryContactID == "" {
		if err := store.SetAccountPrimaryContact(ctx, tx, account.ID, contact.ID); err != nil {
			return fail("Failed to set primary contact", err)
		}
	}

	result := &domain.ConversionResult{
		Success:   true,
		ContactID: contact.ID,
		AccountID: account.ID,
	}

	if opts.CreateOpportunity {
		opp := MapLeadToOpportunity(lead, opts.OpportunityOverrides)
		opp.AccountID = account.ID
		opp.PrimaryContactID = contact.ID
		if opp.OwnerID == "" {
			opp.OwnerID = actor.UserID
		}
		if err := store.InsertOpportunity(ctx, tx, opp); err != nil {
			// Tolerated partial failure: the conversion itself proceeds.
			p.logger.Warn("opportunity creation failed during conversion",
				"leadId", lead.ID, "error", err)
			result.Warning = "Opportunity could not be created"
		} else {
			result.OpportunityID = opp.ID
		}
	}

	if _, err := store.TransferActivities(ctx, tx, lead.ID, contact.ID); err != nil {
		return fail("Failed to transfer activities", err)
	}

	ok, err := store.MarkLeadConverted(ctx, tx, lead.ID, contact.ID, account.ID, result.OpportunityID, actor.UserID)
	if err != nil {
		return fail("Failed to mark lead converted", err)
	}
	if !ok {
		return fail("Lead has already been converted", fmt.Errorf("lead %q: %w", lead.ID, ErrAlreadyConverted))
	}

	if err := tx.Commit(); err != nil {
		return fail("Failed to commit conversion", fmt.Errorf("commit conversion: %w", err))
	}

	p.logger.Info("lead converted",
		"leadId", lead.ID,
		"contactId", result.ContactID,
		"accountId", result.AccountID,
		"opportunityId", result.OpportunityID,
		"convertedBy", actor.UserID)

	return result, nil
}

// Validate reports whether the lead is eligible for conversion without
// writing anything.
func (p *Pipeline) Validate(ctx context.Context, leadID string) (*domain.ConversionValidation, error) {
	actor, err := p.authz.Require(ctx)
	if err != nil {
		return nil, err
	}

	lead, err := p.store.Records.GetLead(ctx, actor.TenantID, leadID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return &domain.ConversionValidation{CanConvert: false, Reason: "Lead not found"}, nil
		}
		return nil, err
	}
	if lead.IsConverted {
		return &domain.ConversionValidation{CanConvert: false, Reason: "Lead has already been converted"}, nil
	}
	if lead.FirstName == "" && lead.LastName == "" {
		return &domain.ConversionValidation{CanConvert: false, Reason: "Lead has no name"}, nil
	}
	return &domain.ConversionValidation{CanConvert: true}, nil
}

// Preview returns the records a conversion would create, computed from the
// mapping rules and overrides without touching the database.
func (p *Pipeline) Preview(ctx context.Context, opts domain.ConvertLeadOptions) (*domain.ConversionPreview, error) {
	actor, err := p.authz.Require(ctx)
	if err != nil {
		return nil, err
	}

	lead, err := p.store.Records.GetLead(ctx, actor.TenantID, opts.LeadID)
	if err != nil {
		return nil, err
	}

	preview := &domain.ConversionPreview{
		Contact: MapLeadToContact(lead, opts.ContactOverrides),
	}
	if opts.AccountOption != domain.AccountOptionExisting {
		preview.Account = MapLeadToAccount(lead, opts.AccountOverrides)
	}
	if opts.CreateOpportunity {
		preview.Opportunity = MapLeadToOpportunity(lead, opts.OpportunityOverrides)
	}
	return preview, nil
}

// SearchAccounts looks up candidate accounts for the "link to existing
// account" path, scoped to the actor's tenant.
func (p *Pipeline) SearchAccounts(ctx context.Context, term string, limit int) ([]domain.AccountMatch, error) {
	actor, err := p.authz.Require(ctx)
	if err != nil {
		return nil, err
	}
	return p.store.Accounts.SearchAccounts(ctx, actor.TenantID, term, limit)
}
