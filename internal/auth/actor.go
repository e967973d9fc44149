// Package auth resolves the authenticated actor behind a request and holds
// the single authorization policy consulted by every mutating operation.
package auth

import (
	"context"
	"errors"
)

// ErrUnauthorized is returned when no authenticated actor is present.
var ErrUnauthorized = errors.New("no authenticated actor")

// Actor identifies the authenticated user performing an operation.
type Actor struct {
	UserID   string
	TenantID string
}

type contextKey int

const actorKey contextKey = iota

// WithActor stores the actor in the context.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey, a)
}

// ActorFrom extracts the actor from the context, if any.
func ActorFrom(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorKey).(Actor)
	return a, ok
}

// Authorizer is the policy gate for mutating operations. Handlers call
// Require once at the top instead of scattering inline identity checks.
type Authorizer interface {
	Require(ctx context.Context) (Actor, error)
}

// ActorPolicy authorizes any request that carries an authenticated actor
// with a user and tenant id.
type ActorPolicy struct{}

// Require returns the actor from the context or ErrUnauthorized.
func (ActorPolicy) Require(ctx context.Context) (Actor, error) {
	a, ok := ActorFrom(ctx)
	if !ok || a.UserID == "" || a.TenantID == "" {
		return Actor{}, ErrUnauthorized
	}
	return a, nil
}
