package rest

import (
	"context"
	"net/http"
	"time"
	"upline/domain"
	"upline/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type (
	ReferralHandler struct {
		referralService ReferralService
		timeout         time.Duration
	}

	ReferralService interface {
		DirectMembers(ctx context.Context, userID uint) ([]domain.DownlineMember, error)
		Downline(ctx context.Context, userID uint) ([]domain.DownlineMember, error)
		Stats(ctx context.Context, userID uint) (domain.ReferralStats, error)
	}
)

func NewReferralHandler(referralService ReferralService) *ReferralHandler {
	return &ReferralHandler{
		referralService: referralService,
		timeout:         10 * time.Second,
	}
}

func (h *ReferralHandler) DirectMembers(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	members, err := h.referralService.DirectMembers(ctx, userID)
	if err != nil {
		logger.Error("Failed to get direct members", err)
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(members))
}

func (h *ReferralHandler) Downline(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	members, err := h.referralService.Downline(ctx, userID)
	if err != nil {
		logger.Error("Failed to get downline", err)
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(members))
}

func (h *ReferralHandler) Stats(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	stats, err := h.referralService.Stats(ctx, userID)
	if err != nil {
		logger.Error("Failed to get referral stats", err)
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(stats))
}
