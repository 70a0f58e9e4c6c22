package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCredentialRepository(t *testing.T) {
	db := &Connection{}
	repo := NewCredentialRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestNewProfileRepository(t *testing.T) {
	db := &Connection{}
	repo := NewProfileRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestNewSubscriptionRepository(t *testing.T) {
	db := &Connection{}
	repo := NewSubscriptionRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}
