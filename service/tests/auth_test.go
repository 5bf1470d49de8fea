package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dkoval/notewave/models"
	"github.com/dkoval/notewave/store"
)

func TestJWTRoundtrip(t *testing.T) {
	svc, _ := setupService(t)

	token, err := svc.CreateJWT("u1", "github", "12345")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	id, provider, providerId, err := svc.VerifyJWT(token)
	assert.NoError(t, err)
	assert.Equal(t, "u1", id)
	assert.Equal(t, "github", provider)
	assert.Equal(t, "12345", providerId)
}

func TestVerifyJWT_Garbage(t *testing.T) {
	svc, _ := setupService(t)

	_, _, _, err := svc.VerifyJWT("not-a-token")

	assert.Error(t, err)
}

func TestResolveOwner(t *testing.T) {
	svc, mocks := setupService(t)
	ctx := context.Background()

	token, err := svc.CreateJWT("u1", "github", "12345")
	assert.NoError(t, err)

	user := models.User{Id: "u1", Username: "jane", Provider: "github", ProviderId: "12345"}
	mocks.store.On("GetUser", mock.Anything, "github", "12345").Return(user, nil)

	resolved, err := svc.ResolveOwner(ctx, token)

	assert.NoError(t, err)
	assert.Equal(t, "u1", resolved.Id)
	mocks.store.AssertExpectations(t)
}

func TestResolveOwner_UnknownUser(t *testing.T) {
	svc, mocks := setupService(t)
	ctx := context.Background()

	token, err := svc.CreateJWT("u1", "github", "12345")
	assert.NoError(t, err)

	mocks.store.On("GetUser", mock.Anything, "github", "12345").
		Return(models.User{}, store.ErrItemNotFound)

	_, err = svc.ResolveOwner(ctx, token)

	assert.ErrorIs(t, err, store.ErrItemNotFound)
}

func TestResolveOwner_EmptyToken(t *testing.T) {
	svc, mocks := setupService(t)
	ctx := context.Background()

	_, err := svc.ResolveOwner(ctx, "")

	assert.Error(t, err)
	mocks.store.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything, mock.Anything)
}
