package rest

import (
	"context"
	"net/http"
	"time"
	"upline/domain"
	"upline/pkg/logger"
	"upline/pkg/session"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type UserService interface {
	Register(ctx context.Context, user *domain.User, referralCode string) (domain.User, error)
	Login(ctx context.Context, email, password string) (string, domain.User, error)
	VerifyEmail(ctx context.Context, verificationCodeEncrypt string) error
	CompleteSetup(ctx context.Context, id uint, profile *domain.User) (string, domain.User, error)
	GetUserByID(ctx context.Context, id uint) (domain.User, error)
}

type UserHandler struct {
	userService UserService
	cookies     *session.CookieStore
	validator   *validator.Validate
	timeout     time.Duration
}

func NewUserHandler(userService UserService, cookies *session.CookieStore) *UserHandler {
	return &UserHandler{
		userService: userService,
		cookies:     cookies,
		validator:   validator.New(),
		timeout:     10 * time.Second,
	}
}

type UserRegisterRequest struct {
	FirstName    string `json:"firstName" validate:"required"`
	LastName     string `json:"lastName" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=6"`
	ReferralCode string `json:"referralCode"`
}

type UserLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AccountSetupRequest struct {
	DateOfBirth     string `json:"dateOfBirth" validate:"required"`
	Gender          string `json:"gender" validate:"required"`
	Address         string `json:"address" validate:"required"`
	City            string `json:"city" validate:"required"`
	State           string `json:"state" validate:"required"`
	ZipCode         string `json:"zipCode" validate:"required"`
	EmiratesID      string `json:"emiratesId" validate:"required"`
	PhoneNumber     string `json:"phoneNumber" validate:"required"`
	Occupation      string `json:"occupation" validate:"required"`
	ReferralSource  string `json:"referralSource" validate:"required"`
	JoinReason      string `json:"joinReason" validate:"required"`
	Acknowledgement bool   `json:"acknowledgement" validate:"required,eq=true"`
}

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

func (h *UserHandler) Register(c echo.Context) error {
	var reqUser UserRegisterRequest

	if err := c.Bind(&reqUser); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&reqUser); err != nil {
		logger.Error("Failed to validate user register", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	user, err := h.userService.Register(ctx, &domain.User{
		FirstName: reqUser.FirstName,
		LastName:  reqUser.LastName,
		Email:     reqUser.Email,
		Password:  reqUser.Password,
	}, reqUser.ReferralCode)
	if err != nil {
		logger.Error("Failed to register user", err)
		return err
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Registration successful. Please check your email to verify your account.",
		"user":    user,
	})
}

func (h *UserHandler) Login(c echo.Context) error {
	var reqUser UserLoginRequest

	if err := c.Bind(&reqUser); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&reqUser); err != nil {
		logger.Error("Failed to validate user login", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	token, user, err := h.userService.Login(ctx, reqUser.Email, reqUser.Password)
	if err != nil {
		logger.Error("Failed to login with user", err)
		return err
	}

	h.cookies.Set(c, token)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"role":    user.Role,
		"user":    user,
	})
}

// Logout clears the session cookie. Credentials are not tracked server-side,
// so overwriting the cookie is the whole operation.
func (h *UserHandler) Logout(c echo.Context) error {
	h.cookies.Clear(c)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Logout successful",
	})
}

func (h *UserHandler) VerifyEmail(c echo.Context) error {
	encCode := c.Param("code")

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.userService.VerifyEmail(ctx, encCode); err != nil {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, "Successfully verified email")
}

// CompleteSetup stores the account-setup form and moves the lifecycle
// forward; the replaced cookie carries the new role.
func (h *UserHandler) CompleteSetup(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var req AccountSetupRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate account setup", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	token, user, err := h.userService.CompleteSetup(ctx, userID, &domain.User{
		DateOfBirth:    req.DateOfBirth,
		Gender:         req.Gender,
		Address:        req.Address,
		City:           req.City,
		State:          req.State,
		ZipCode:        req.ZipCode,
		EmiratesID:     req.EmiratesID,
		PhoneNumber:    req.PhoneNumber,
		Occupation:     req.Occupation,
		ReferralSource: req.ReferralSource,
		JoinReason:     req.JoinReason,
	})
	if err != nil {
		logger.Error("Failed to complete setup", err)
		return err
	}

	h.cookies.Set(c, token)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Account setup completed",
		"user":    user,
	})
}

// Me returns the caller's profile, used to prefill the setup form.
func (h *UserHandler) Me(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	user, err := h.userService.GetUserByID(ctx, userID)
	if err != nil {
		logger.Error("Failed to get user", err)
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "User retrieved successfully",
		"user":    user,
	})
}
