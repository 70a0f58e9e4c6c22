package context

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mayank-anckr/express-kit/internal/model"
)

func TestManager_SetAndGetPrincipal(t *testing.T) {
	m := NewManager()
	principal := model.Principal{Identity: "a@b.co", AccountKey: uuid.New()}

	ctx := m.SetPrincipal(context.Background(), principal)

	got, ok := m.GetPrincipal(ctx)
	require.True(t, ok)
	assert.Equal(t, principal, got)
}

func TestManager_GetPrincipal_Missing(t *testing.T) {
	m := NewManager()

	_, ok := m.GetPrincipal(context.Background())
	assert.False(t, ok)
}
