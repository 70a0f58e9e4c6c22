package model

import (
	"context"

	"github.com/google/uuid"
)

// Principal is the authenticated identity attached to a request context.
type Principal struct {
	Identity   string
	AccountKey uuid.UUID
}

// ContextManager attaches and retrieves the authenticated principal on a
// request-scoped context.
type ContextManager interface {
	SetPrincipal(ctx context.Context, principal Principal) context.Context
	GetPrincipal(ctx context.Context) (Principal, bool)
}
