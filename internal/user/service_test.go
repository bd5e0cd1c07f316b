package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate_OnlyUnseenEmails(t *testing.T) {
	svc := NewService(NewMemoryStore())
	ctx := context.Background()

	created, isNew, err := svc.Create(ctx, User{Email: "jane@example.com", Name: "Jane"})
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.NotEmpty(t, created.ID)

	// same email again, case and whitespace ignored
	again, isNew, err := svc.Create(ctx, User{Email: "  Jane@Example.com ", Name: "Other Jane"})
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, created.ID, again.ID)
	assert.Equal(t, "Jane", again.Name)
}

func TestUpsert_CreatesThenUpdates(t *testing.T) {
	svc := NewService(NewMemoryStore())
	ctx := context.Background()

	u, err := svc.Upsert(ctx, "new@example.com", User{Name: "New", Role: "member"})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", u.Email)

	u2, err := svc.Upsert(ctx, "new@example.com", User{Name: "Renamed", Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, u2.ID)
	assert.Equal(t, "Renamed", u2.Name)
	assert.Equal(t, "admin", u2.Role)
}

func TestGetAndDelete(t *testing.T) {
	svc := NewService(NewMemoryStore())
	ctx := context.Background()

	created, _, err := svc.Create(ctx, User{Email: "gone@example.com"})
	require.NoError(t, err)

	got, err := svc.Get(ctx, "gone@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = svc.Get(ctx, "missing@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), ErrNotFound)
}
