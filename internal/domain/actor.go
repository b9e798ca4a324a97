// Package domain provides shared types for the business layer.
package domain

import (
	"context"

	"pickstock/internal/core/reqctx"
)

// Actor is the acting user as the engine sees it: a display name and
// per-operation permission flags supplied by the caller. The engine
// consults the flags and records the name; it never authenticates.
type Actor struct {
	Name               string
	CanConfirm         bool
	CanCancel          bool
	CanDeleteCompleted bool
}

// ActorFromContext builds an Actor from request context values.
// Absent values yield a zero Actor with no permissions.
func ActorFromContext(ctx context.Context) Actor {
	a := reqctx.GetActor(ctx)
	if a == nil {
		return Actor{}
	}
	return Actor{
		Name:               a.Name,
		CanConfirm:         a.CanConfirm,
		CanCancel:          a.CanCancel,
		CanDeleteCompleted: a.CanDeleteCompleted,
	}
}
