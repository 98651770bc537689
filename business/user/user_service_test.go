package user

import (
	"context"
	"testing"
	"upline/domain"
	"upline/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	byEmail map[string]domain.User
	byCode  map[string]domain.User
	byID    map[uint]domain.User

	created        *domain.User
	updatedProfile *domain.User
	verifiedID     uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail: map[string]domain.User{},
		byCode:  map[string]domain.User{},
		byID:    map[uint]domain.User{},
	}
}

func (f *fakeUserRepo) add(u domain.User) {
	f.byEmail[u.Email] = u
	f.byCode[u.ReferralCode] = u
	f.byID[u.ID] = u
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	user.ID = uint(len(f.byID) + 1)
	f.created = user
	f.add(*user)
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uint) (domain.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (domain.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) FindByReferralCode(_ context.Context, code string) (domain.User, error) {
	u, ok := f.byCode[code]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) UpdateProfile(_ context.Context, user *domain.User) error {
	f.updatedProfile = user
	f.add(*user)
	return nil
}

func (f *fakeUserRepo) UpdateEmailVerification(_ context.Context, id uint, isVerified bool) error {
	f.verifiedID = id
	u := f.byID[id]
	u.IsVerified = isVerified
	f.add(u)
	return nil
}

type fakeNotifier struct {
	sentTo      string
	sentSubject string
}

func (f *fakeNotifier) SendEmail(_, toEmail, subject, _ string) error {
	f.sentTo = toEmail
	f.sentSubject = subject
	return nil
}

// 32 bytes, AES-256
const testVerificationKey = "0123456789abcdef0123456789abcdef"

func newService(repo *fakeUserRepo, notifier *fakeNotifier) *userService {
	return NewUserService(repo, validator.New(), notifier, testVerificationKey, "https://upline.example.com")
}

func TestRegister(t *testing.T) {
	repo := newFakeUserRepo()
	notifier := &fakeNotifier{}
	svc := newService(repo, notifier)

	user, err := svc.Register(context.Background(), &domain.User{
		FirstName: "Amira",
		LastName:  "Hassan",
		Email:     "amira@example.com",
		Password:  "secret123",
	}, "")
	require.NoError(t, err)

	assert.Equal(t, domain.RoleSetupPending, user.Role)
	assert.NotEmpty(t, user.ReferralCode)
	assert.Nil(t, user.ReferredByID)
	assert.Empty(t, user.Password)

	require.NotNil(t, repo.created)
	assert.NotEqual(t, "secret123", repo.created.Password, "password must be stored hashed")
	assert.True(t, utils.CheckPassword("secret123", repo.created.Password))

	assert.Equal(t, "amira@example.com", notifier.sentTo)
	assert.Equal(t, SubjectRegisterAccount, notifier.sentSubject)
}

func TestRegister_WithReferralCode(t *testing.T) {
	repo := newFakeUserRepo()
	sponsor := domain.User{ID: 9, Email: "noor@example.com", ReferralCode: "code-noor"}
	repo.add(sponsor)

	svc := newService(repo, &fakeNotifier{})

	user, err := svc.Register(context.Background(), &domain.User{
		FirstName: "Omar", LastName: "Khan",
		Email: "omar@example.com", Password: "secret123",
	}, "code-noor")
	require.NoError(t, err)

	require.NotNil(t, user.ReferredByID)
	assert.Equal(t, sponsor.ID, *user.ReferredByID)
}

func TestRegister_Failures(t *testing.T) {
	repo := newFakeUserRepo()
	repo.add(domain.User{ID: 1, Email: "taken@example.com", ReferralCode: "code-taken"})
	svc := newService(repo, &fakeNotifier{})
	ctx := context.Background()

	_, err := svc.Register(ctx, &domain.User{Email: "not-an-email", Password: "secret123"}, "")
	assert.ErrorIs(t, err, domain.ErrBadRequest)

	_, err = svc.Register(ctx, &domain.User{Email: "ok@example.com", Password: "short"}, "")
	assert.ErrorIs(t, err, domain.ErrBadRequest)

	_, err = svc.Register(ctx, &domain.User{Email: "taken@example.com", Password: "secret123"}, "")
	assert.ErrorIs(t, err, domain.ErrBadRequest)

	_, err = svc.Register(ctx, &domain.User{Email: "new@example.com", Password: "secret123"}, "no-such-code")
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestLogin(t *testing.T) {
	utils.InitJWT("user_test_secret")

	hash, err := utils.HashPassword("secret123")
	require.NoError(t, err)

	repo := newFakeUserRepo()
	repo.add(domain.User{
		ID: 3, Email: "amira@example.com", Password: hash,
		IsVerified: true, Role: domain.RolePaymentPending, ReferralCode: "code-amira",
	})
	svc := newService(repo, &fakeNotifier{})

	token, user, err := svc.Login(context.Background(), "amira@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, domain.RolePaymentPending, user.Role)
	assert.Empty(t, user.Password)

	claims, err := utils.ParseJWT(token)
	require.NoError(t, err)
	assert.Equal(t, uint(3), claims.UserID)
	assert.Equal(t, domain.RolePaymentPending, claims.Role)
}

func TestLogin_Failures(t *testing.T) {
	utils.InitJWT("user_test_secret")

	hash, err := utils.HashPassword("secret123")
	require.NoError(t, err)

	repo := newFakeUserRepo()
	repo.add(domain.User{
		ID: 3, Email: "amira@example.com", Password: hash,
		IsVerified: true, Role: domain.RoleSetupPending, ReferralCode: "code-amira",
	})
	repo.add(domain.User{
		ID: 4, Email: "unverified@example.com", Password: hash,
		IsVerified: false, Role: domain.RoleSetupPending, ReferralCode: "code-u",
	})
	svc := newService(repo, &fakeNotifier{})
	ctx := context.Background()

	_, _, err = svc.Login(ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, _, err = svc.Login(ctx, "amira@example.com", "wrongpass")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, _, err = svc.Login(ctx, "unverified@example.com", "secret123")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestCompleteSetup_PromotesRole(t *testing.T) {
	utils.InitJWT("user_test_secret")

	repo := newFakeUserRepo()
	repo.add(domain.User{
		ID: 7, Email: "amira@example.com", Role: domain.RoleSetupPending,
		ReferralCode: "code-amira",
	})
	svc := newService(repo, &fakeNotifier{})

	token, user, err := svc.CompleteSetup(context.Background(), 7, &domain.User{
		DateOfBirth: "1994-03-12", Gender: "female", Address: "12 Marina Walk",
		City: "Dubai", State: "Dubai", ZipCode: "00000",
		EmiratesID: "784-1994-1234567-1", PhoneNumber: "+971501234567",
		Occupation: "Engineer", ReferralSource: "Friend", JoinReason: "Extra income",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.RolePaymentPending, user.Role)
	assert.Equal(t, "Dubai", user.City)
	require.NotNil(t, repo.updatedProfile)
	assert.Equal(t, domain.RolePaymentPending, repo.updatedProfile.Role)

	claims, err := utils.ParseJWT(token)
	require.NoError(t, err)
	assert.Equal(t, domain.RolePaymentPending, claims.Role)
}

func TestCompleteSetup_DoesNotDowngrade(t *testing.T) {
	utils.InitJWT("user_test_secret")

	repo := newFakeUserRepo()
	repo.add(domain.User{
		ID: 8, Email: "paid@example.com", Role: domain.RolePaidUser,
		ReferralCode: "code-paid",
	})
	svc := newService(repo, &fakeNotifier{})

	_, user, err := svc.CompleteSetup(context.Background(), 8, &domain.User{City: "Dubai"})
	require.NoError(t, err)
	assert.Equal(t, domain.RolePaidUser, user.Role)
}

func TestVerifyEmail_RoundTrip(t *testing.T) {
	repo := newFakeUserRepo()
	notifier := &fakeNotifier{}
	svc := newService(repo, notifier)
	ctx := context.Background()

	created, err := svc.Register(ctx, &domain.User{
		FirstName: "Amira", LastName: "Hassan",
		Email: "amira@example.com", Password: "secret123",
	}, "")
	require.NoError(t, err)

	// the user clicks through with an invalid code first
	assert.Error(t, svc.VerifyEmail(ctx, "bm90LWEtY29kZQ=="))

	verified, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, verified.IsVerified)
}
