package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"upline/domain"
	"upline/internal/middleware"
	"upline/pkg/session"
	"upline/pkg/utils"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMembershipService struct {
	token string
	user  domain.User
	err   error
}

func (f *fakeMembershipService) ApprovePayment(_ context.Context, userID uint, transactionID string, amount float64, currency string) (string, domain.User, error) {
	if f.err != nil {
		return "", domain.User{}, f.err
	}
	return f.token, f.user, nil
}

func (f *fakeMembershipService) ListTransactions(_ context.Context, _ uint) ([]domain.Transaction, error) {
	return nil, f.err
}

func newPaymentEcho(svc MembershipService) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler

	cookies := session.NewCookieStore("test", time.Hour)
	handler := NewMembershipHandler(svc, cookies)

	grp := e.Group("/api/v1/membership", middleware.AuthMiddleware())
	grp.POST("/payment/approve", handler.ApprovePayment, middleware.RequireRole(domain.RolePaymentPending))
	return e
}

// approveRequest posts body with a cookie carrying role; role "" sends no
// cookie at all.
func approveRequest(t *testing.T, e *echo.Echo, body, role string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/membership/payment/approve", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	if role != "" {
		utils.InitJWT("rest_test_secret")
		token, err := utils.GenerateJWT(5, "member@example.com", role, time.Minute)
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

const validBody = `{"transactionId":"TXN123","amount":49.99,"currency":"USD"}`

func TestApprovePayment_NoCookie(t *testing.T) {
	e := newPaymentEcho(&fakeMembershipService{})

	rec := approveRequest(t, e, validBody, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestApprovePayment_WrongRole(t *testing.T) {
	svc := &fakeMembershipService{}
	e := newPaymentEcho(svc)

	for _, role := range []string{domain.RoleSetupPending, domain.RolePaidUser} {
		rec := approveRequest(t, e, validBody, role)
		assert.Equal(t, http.StatusForbidden, rec.Code, "role %s", role)
	}
}

func TestApprovePayment_MissingFields(t *testing.T) {
	e := newPaymentEcho(&fakeMembershipService{})

	cases := []string{
		`{}`,
		`{"transactionId":"TXN123"}`,
		`{"transactionId":"TXN123","amount":49.99}`,
		`{"amount":49.99,"currency":"USD"}`,
	}
	for _, body := range cases {
		rec := approveRequest(t, e, body, domain.RolePaymentPending)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %s", body)
	}
}

func TestApprovePayment_UnknownUser(t *testing.T) {
	e := newPaymentEcho(&fakeMembershipService{err: domain.ErrNotFound})

	rec := approveRequest(t, e, validBody, domain.RolePaymentPending)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestApprovePayment_InternalFailure(t *testing.T) {
	e := newPaymentEcho(&fakeMembershipService{err: domain.ErrInternal})

	rec := approveRequest(t, e, validBody, domain.RolePaymentPending)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "storage", "internal detail must not leak")
}

func TestApprovePayment_Success(t *testing.T) {
	utils.InitJWT("rest_test_secret")
	newToken, err := utils.GenerateJWT(5, "member@example.com", domain.RolePaidUser, time.Hour)
	require.NoError(t, err)

	e := newPaymentEcho(&fakeMembershipService{
		token: newToken,
		user:  domain.User{ID: 5, Role: domain.RolePaidUser},
	})

	rec := approveRequest(t, e, validBody, domain.RolePaymentPending)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)

	// the session cookie is replaced with the promoted credential
	cookies := rec.Result().Cookies()
	var found bool
	for _, c := range cookies {
		if c.Name == session.CookieName {
			found = true
			claims := utils.DecodeUnverified(c.Value)
			require.NotNil(t, claims)
			assert.Equal(t, domain.RolePaidUser, claims.Role)
		}
	}
	assert.True(t, found, "expected a replacement auth_token cookie")
}
