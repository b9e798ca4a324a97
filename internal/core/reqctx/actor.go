// Package reqctx provides request-scoped values extraction.
package reqctx

import (
	"context"
)

// ActorContext identifies who is performing the request and what
// the upstream system allows them to do. The engine does not manage
// accounts or roles; it trusts these values as given.
type ActorContext struct {
	Name               string
	CompanyID          string
	CanConfirm         bool
	CanCancel          bool
	CanDeleteCompleted bool
}

type actorContextKey struct{}

// WithActor adds ActorContext to context.
func WithActor(ctx context.Context, actor *ActorContext) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// GetActor returns ActorContext from context.
func GetActor(ctx context.Context) *ActorContext {
	if v, ok := ctx.Value(actorContextKey{}).(*ActorContext); ok {
		return v
	}
	return nil
}

// GetActorName returns the acting user's name from context or empty string.
func GetActorName(ctx context.Context) string {
	if a := GetActor(ctx); a != nil {
		return a.Name
	}
	return ""
}

// GetCompanyID returns company ID from context or empty string.
func GetCompanyID(ctx context.Context) string {
	if a := GetActor(ctx); a != nil {
		return a.CompanyID
	}
	return ""
}
