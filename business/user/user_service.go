package user

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"upline/domain"
	"upline/pkg/logger"
	"upline/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pobyzaarif/goshortcute"
)

// UserRepository contract interface
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindByReferralCode(ctx context.Context, code string) (domain.User, error)
	UpdateProfile(ctx context.Context, user *domain.User) error
	UpdateEmailVerification(ctx context.Context, id uint, isVerified bool) error
}

// NotificationRepository contract interface
type NotificationRepository interface {
	SendEmail(toName, toEmail, subject, message string) error
}

const (
	verificationCodeTTL      = 30
	SubjectRegisterAccount   = "Confirm Your Email"
	EmailBodyRegisterAccount = `Hi %v, welcome aboard! Confirm your email address by opening the link below.</br></br>%v</br>Note: the link is only valid for %v minutes.`
)

type userService struct {
	userRepo                UserRepository
	validate                *validator.Validate
	notifRepo               NotificationRepository
	appEmailVerificationKey string
	appDeploymentUrl        string
}

func NewUserService(
	userRepo UserRepository,
	validate *validator.Validate,
	notifRepo NotificationRepository,
	appEmailVerificationKey string,
	appDeploymentUrl string,
) *userService {
	return &userService{
		userRepo:                userRepo,
		validate:                validate,
		notifRepo:               notifRepo,
		appEmailVerificationKey: appEmailVerificationKey,
		appDeploymentUrl:        appDeploymentUrl,
	}
}

// Register creates a SETUP_PENDING account, links the inviter when a referral
// code is supplied and sends the email-confirmation link.
func (s *userService) Register(ctx context.Context, user *domain.User, referralCode string) (domain.User, error) {
	if err := s.validate.Var(user.Email, "required,email"); err != nil {
		logger.Error("Invalid email format", err)
		return domain.User{}, fmt.Errorf("invalid email format: %w", domain.ErrBadRequest)
	}

	if err := s.validate.Var(user.Password, "required,min=6"); err != nil {
		logger.Error("Invalid user password", err)
		return domain.User{}, fmt.Errorf("password must be at least 6 characters: %w", domain.ErrBadRequest)
	}

	existingUser, err := s.userRepo.FindByEmail(ctx, user.Email)
	if err == nil && existingUser.ID > 0 {
		logger.Error("Email already exists")
		return domain.User{}, fmt.Errorf("email already exists: %w", domain.ErrBadRequest)
	}

	var referredByID *uint
	if referralCode != "" {
		referrer, err := s.userRepo.FindByReferralCode(ctx, referralCode)
		if err != nil {
			logger.Error("Unknown referral code", err)
			return domain.User{}, fmt.Errorf("unknown referral code: %w", domain.ErrBadRequest)
		}
		referredByID = &referrer.ID
	}

	passwordHash, err := utils.HashPassword(user.Password)
	if err != nil {
		logger.Error("Failed to hash password", err)
		return domain.User{}, domain.ErrInternal
	}

	newUser := domain.User{
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Email:        user.Email,
		Password:     passwordHash,
		IsVerified:   false,
		Role:         domain.RoleSetupPending,
		ReferralCode: uuid.NewString(),
		ReferredByID: referredByID,
	}

	if err := s.userRepo.Create(ctx, &newUser); err != nil {
		logger.Error("Failed to create new user", err)
		return domain.User{}, err
	}

	expAt := time.Now().Add(time.Minute * verificationCodeTTL).Unix()

	verificationCode := fmt.Sprintf("%v|%v", newUser.Email, expAt)
	verificationCodeEncrypt, err := goshortcute.AESCBCEncrypt([]byte(verificationCode), []byte(s.appEmailVerificationKey))
	if err != nil {
		logger.Error("Failed to encrypt verification code", err)
		return domain.User{}, domain.ErrInternal
	}
	strEncode := goshortcute.StringtoBase64Encode(verificationCodeEncrypt)
	confirmationLink := s.appDeploymentUrl + "/api/v1/users/email-verification/" + strEncode

	fullName := newUser.FirstName + " " + newUser.LastName
	err = s.notifRepo.SendEmail(fullName, newUser.Email, SubjectRegisterAccount,
		fmt.Sprintf(EmailBodyRegisterAccount, newUser.FirstName, confirmationLink, verificationCodeTTL))
	if err != nil {
		logger.Warn("Failed to send verification email", err)
	}

	newUser.Password = ""
	return newUser, nil
}

// Login checks the credentials and issues a session credential carrying the
// user's current role.
func (s *userService) Login(ctx context.Context, email, password string) (string, domain.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		logger.Error("Invalid user credentials", err)
		return "", domain.User{}, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}

	if ok := utils.CheckPassword(password, user.Password); !ok {
		logger.Error("User password incorrect")
		return "", domain.User{}, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}

	if !user.IsVerified {
		logger.Error("Email address has not been verified")
		return "", domain.User{}, fmt.Errorf("email address has not been verified: %w", domain.ErrUnauthorized)
	}

	token, err := utils.GenerateJWT(user.ID, user.Email, user.Role, utils.DefaultTokenTTL)
	if err != nil {
		logger.Error("Failed to generate token", err)
		return "", domain.User{}, domain.ErrInternal
	}

	user.Password = ""
	return token, user, nil
}

func (s *userService) VerifyEmail(ctx context.Context, verificationCodeEncrypt string) error {
	strDecode := goshortcute.StringtoBase64Decode(verificationCodeEncrypt)
	verificationCodeDecrypt, err := goshortcute.AESCBCDecrypt([]byte(strDecode), []byte(s.appEmailVerificationKey))
	if err != nil {
		logger.Error("Verifying email error", err)
		return errors.New("invalid or expired url")
	}

	verificationCode := strings.Split(verificationCodeDecrypt, "|")
	if len(verificationCode) != 2 {
		logger.Error("Verifying email error", "code", verificationCodeDecrypt)
		return errors.New("invalid or expired url")
	}

	email := verificationCode[0]
	expAtStr := verificationCode[1]

	ts, err := strconv.ParseInt(expAtStr, 10, 64)
	if err != nil {
		logger.Error("Verifying email error", "code", verificationCodeDecrypt)
		return errors.New("invalid or expired url")
	}
	if time.Now().After(time.Unix(ts, 0)) {
		return errors.New("invalid or expired url")
	}

	getUser, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		logger.Error("Verifying email error", err)
		return errors.New("invalid or expired url")
	}

	if getUser.IsVerified {
		logger.Warn("Email verified already", "email", email)
		return errors.New("invalid or expired url")
	}

	if err := s.userRepo.UpdateEmailVerification(ctx, getUser.ID, true); err != nil {
		logger.Error("Verify email err", err)
		return err
	}

	return nil
}

// CompleteSetup stores the profile fields from the account-setup form and, for
// a SETUP_PENDING account, moves the role forward to PAYMENT_PENDING. The
// fresh credential it returns carries the updated role.
func (s *userService) CompleteSetup(ctx context.Context, id uint, profile *domain.User) (string, domain.User, error) {
	existingUser, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("User not found for setup", err)
		return "", domain.User{}, err
	}

	existingUser.DateOfBirth = profile.DateOfBirth
	existingUser.Gender = profile.Gender
	existingUser.Address = profile.Address
	existingUser.City = profile.City
	existingUser.State = profile.State
	existingUser.ZipCode = profile.ZipCode
	existingUser.EmiratesID = profile.EmiratesID
	existingUser.PhoneNumber = profile.PhoneNumber
	existingUser.Occupation = profile.Occupation
	existingUser.ReferralSource = profile.ReferralSource
	existingUser.JoinReason = profile.JoinReason

	// the lifecycle only ever moves forward
	if existingUser.Role == domain.RoleSetupPending {
		existingUser.Role = domain.RolePaymentPending
	}

	if err := s.userRepo.UpdateProfile(ctx, &existingUser); err != nil {
		logger.Error("Failed to update profile", err)
		return "", domain.User{}, err
	}

	token, err := utils.GenerateJWT(existingUser.ID, existingUser.Email, existingUser.Role, utils.DefaultTokenTTL)
	if err != nil {
		logger.Error("Failed to generate token", err)
		return "", domain.User{}, domain.ErrInternal
	}

	existingUser.Password = ""
	return token, existingUser, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("Failed to get user by ID", err)
		return domain.User{}, err
	}

	user.Password = ""
	return user, nil
}
