package rest

import (
	"context"
	"net/http"
	"time"
	"upline/domain"
	"upline/pkg/logger"
	"upline/pkg/metrics"
	"upline/pkg/session"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	MembershipHandler struct {
		membershipService MembershipService
		cookies           *session.CookieStore
		validate          *validator.Validate
		timeout           time.Duration
	}

	MembershipService interface {
		ApprovePayment(ctx context.Context, userID uint, transactionID string, amount float64, currency string) (string, domain.User, error)
		ListTransactions(ctx context.Context, userID uint) ([]domain.Transaction, error)
	}

	ApprovePaymentRequest struct {
		TransactionID string   `json:"transactionId" validate:"required"`
		Amount        *float64 `json:"amount" validate:"required"`
		Currency      string   `json:"currency" validate:"required"`
	}
)

func NewMembershipHandler(membershipService MembershipService, cookies *session.CookieStore) *MembershipHandler {
	return &MembershipHandler{
		membershipService: membershipService,
		cookies:           cookies,
		validate:          validator.New(),
		timeout:           10 * time.Second,
	}
}

// ApprovePayment records the processor transaction, promotes the account and
// replaces the session cookie with a credential carrying the new role.
func (h *MembershipHandler) ApprovePayment(c echo.Context) error {
	start := time.Now()
	defer func() {
		metrics.PaymentApprovalDuration.Observe(time.Since(start).Seconds())
	}()

	userID, ok := c.Get("user_id").(uint)
	if !ok {
		metrics.PaymentApprovalTotal.WithLabelValues("unauthorized").Inc()
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var req ApprovePaymentRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		metrics.PaymentApprovalTotal.WithLabelValues("bad_request").Inc()
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "Missing transaction details"})
	}

	if err := h.validate.Struct(&req); err != nil {
		logger.Error("Failed to validate payment approval", err)
		metrics.PaymentApprovalTotal.WithLabelValues("bad_request").Inc()
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "Missing transaction details"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	token, _, err := h.membershipService.ApprovePayment(ctx, userID, req.TransactionID, *req.Amount, req.Currency)
	if err != nil {
		logger.Error("Failed to approve payment", err)
		metrics.PaymentApprovalTotal.WithLabelValues("error").Inc()
		return err
	}

	h.cookies.Set(c, token)
	metrics.PaymentApprovalTotal.WithLabelValues("success").Inc()

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Payment recorded, user verified",
	})
}

func (h *MembershipHandler) ListTransactions(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	transactions, err := h.membershipService.ListTransactions(ctx, userID)
	if err != nil {
		logger.Error("Failed to list transactions", err)
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(transactions))
}
