package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/picquest/rewards-backend/internal/validation"
)

func TestFindOrCreateIsAnchoredOnEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	created, err := svc.FindOrCreate(context.Background(), "ada@example.com", "Ada", "https://img/a.png")
	require.NoError(t, err)
	require.False(t, created.ID.IsZero())
	require.Equal(t, "ada@example.com", created.Email)

	// Second contact resolves to the same record, whatever the name says now.
	again, err := svc.FindOrCreate(context.Background(), "ada@example.com", "Ada L.", "")
	require.NoError(t, err)
	require.Equal(t, created.ID, again.ID)
	require.Equal(t, "Ada", again.Name)

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

func TestFindOrCreateRequiresEmail(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())

	_, err := svc.FindOrCreate(context.Background(), "", "Ada", "")
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
}

func TestGetByEmailUnknownUser(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())

	_, err := svc.GetByEmail(context.Background(), "nobody@example.com")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateExpertise(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)
	user, err := svc.FindOrCreate(context.Background(), "ada@example.com", "Ada", "")
	require.NoError(t, err)

	updated, err := svc.UpdateExpertise(context.Background(), user.ID, "botany", "amateur field botanist")
	require.NoError(t, err)
	require.Equal(t, "botany", updated.Profile.Expertise)
	require.Equal(t, "amateur field botanist", updated.Profile.Bio)

	var verr *validation.Error
	_, err = svc.UpdateExpertise(context.Background(), user.ID, "", "bio without expertise")
	require.ErrorAs(t, err, &verr)

	_, err = svc.UpdateExpertise(context.Background(), user.ID, strings.Repeat("x", 201), "")
	require.ErrorAs(t, err, &verr)

	_, err = svc.UpdateExpertise(context.Background(), primitive.NewObjectID(), "botany", "")
	require.ErrorIs(t, err, ErrNotFound)
}
