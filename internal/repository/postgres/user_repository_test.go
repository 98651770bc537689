package postgres

import (
	"context"
	"testing"
	"upline/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_ReferralLookups(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	sponsor := domain.User{
		FirstName: "Noor", LastName: "Ali", Email: "noor@example.com",
		Password: "hashed", Role: domain.RolePaidUser, ReferralCode: "code-noor",
	}
	require.NoError(t, repo.Create(ctx, &sponsor))

	direct := domain.User{
		FirstName: "Omar", LastName: "Khan", Email: "omar@example.com",
		Password: "hashed", Role: domain.RolePaymentPending, ReferralCode: "code-omar",
		ReferredByID: &sponsor.ID,
	}
	require.NoError(t, repo.Create(ctx, &direct))

	second := domain.User{
		FirstName: "Lina", LastName: "Saad", Email: "lina@example.com",
		Password: "hashed", Role: domain.RoleSetupPending, ReferralCode: "code-lina",
		ReferredByID: &direct.ID,
	}
	require.NoError(t, repo.Create(ctx, &second))

	found, err := repo.FindByReferralCode(ctx, "code-noor")
	require.NoError(t, err)
	assert.Equal(t, sponsor.ID, found.ID)

	_, err = repo.FindByReferralCode(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	level1, err := repo.FindByReferrer(ctx, sponsor.ID)
	require.NoError(t, err)
	require.Len(t, level1, 1)
	assert.Equal(t, direct.ID, level1[0].ID)

	level2, err := repo.FindByReferrers(ctx, []uint{direct.ID})
	require.NoError(t, err)
	require.Len(t, level2, 1)
	assert.Equal(t, second.ID, level2[0].ID)

	empty, err := repo.FindByReferrers(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestUserRepository_UpdateProfile(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, domain.RoleSetupPending)

	user.DateOfBirth = "1994-03-12"
	user.Gender = "female"
	user.Address = "12 Marina Walk"
	user.City = "Dubai"
	user.State = "Dubai"
	user.ZipCode = "00000"
	user.EmiratesID = "784-1994-1234567-1"
	user.PhoneNumber = "+971501234567"
	user.Occupation = "Engineer"
	user.ReferralSource = "Friend"
	user.JoinReason = "Extra income"
	user.Role = domain.RolePaymentPending

	require.NoError(t, repo.UpdateProfile(ctx, &user))

	stored, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RolePaymentPending, stored.Role)
	assert.Equal(t, "Dubai", stored.City)
	assert.Equal(t, "+971501234567", stored.PhoneNumber)
}

func TestUserRepository_UpdateProfile_MissingUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	err := repo.UpdateProfile(context.Background(), &domain.User{ID: 404, City: "Dubai"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepository_UpdateEmailVerification(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, domain.RoleSetupPending)
	require.NoError(t, db.Model(&user).Update("is_verified", false).Error)

	require.NoError(t, repo.UpdateEmailVerification(ctx, user.ID, true))

	stored, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsVerified)

	assert.ErrorIs(t, repo.UpdateEmailVerification(ctx, 404, true), domain.ErrNotFound)
}
