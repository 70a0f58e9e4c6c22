// Package context attaches the authenticated principal to request contexts.
package context

import (
	"context"

	"github.com/mayank-anckr/express-kit/internal/model"
)

type contextKey int

const principalKey contextKey = iota

// Manager stores and retrieves the authenticated principal on request
// contexts.
type Manager struct{}

// NewManager creates a new context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetPrincipal returns a child context carrying the principal.
func (m *Manager) SetPrincipal(ctx context.Context, principal model.Principal) context.Context {
	return context.WithValue(ctx, principalKey, principal)
}

// GetPrincipal retrieves the principal from the context. The boolean reports
// whether one was set.
func (m *Manager) GetPrincipal(ctx context.Context) (model.Principal, bool) {
	principal, ok := ctx.Value(principalKey).(model.Principal)
	return principal, ok
}
