package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alcyxob/peer-review/internal/domain"
	"alcyxob/peer-review/internal/repository/memory"
)

func TestRegisterAndLogin(t *testing.T) {
	store := memory.NewStore(memory.Open())
	auth := NewAuthService(store.Users)
	ctx := context.Background()

	user, err := auth.Register(ctx, " Ann ", " Ann@School.edu ", "s3cret", domain.RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, "Ann", user.Name)
	assert.Equal(t, "ann@school.edu", user.Email)
	assert.Empty(t, user.PasswordHash)
	assert.False(t, user.ID.IsZero())

	stored, err := store.Users.GetByEmail(ctx, "ann@school.edu")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", stored.PasswordHash)

	got, err := auth.Login(ctx, "ANN@school.edu", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, domain.RoleStudent, got.Role)
	assert.Empty(t, got.PasswordHash)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	auth := NewAuthService(memory.NewStore(memory.Open()).Users)
	ctx := context.Background()

	_, err := auth.Register(ctx, "Ann", "ann@school.edu", "one", domain.RoleStudent)
	require.NoError(t, err)
	_, err = auth.Register(ctx, "Other Ann", "ANN@school.edu", "two", domain.RoleTeacher)
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestLoginFailures(t *testing.T) {
	auth := NewAuthService(memory.NewStore(memory.Open()).Users)
	ctx := context.Background()
	_, err := auth.Register(ctx, "Lee", "lee@school.edu", "right", domain.RoleTeacher)
	require.NoError(t, err)

	_, err = auth.Login(ctx, "lee@school.edu", "wrong")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
	_, err = auth.Login(ctx, "nobody@school.edu", "right")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
	_, err = auth.Login(ctx, "", "")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	auth := NewAuthService(memory.NewStore(memory.Open()).Users)
	_, err := auth.Register(context.Background(), "Max", "max@school.edu", "pw", domain.Role("admin"))
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
