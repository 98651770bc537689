package router

import (
	"upline/domain"
	"upline/internal/middleware"
	"upline/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupUserRoutes(api *echo.Group, handler *rest.UserHandler) {
	users := api.Group("/users")

	users.POST("/register", handler.Register)
	users.POST("/login", handler.Login)
	users.POST("/logout", handler.Logout)
	users.GET("/email-verification/:code", handler.VerifyEmail)

	authRequired := middleware.AuthMiddleware()
	users.GET("/me", handler.Me, authRequired)
	// setup is a one-way lifecycle step; accounts past it must not re-submit
	users.POST("/setup", handler.CompleteSetup, authRequired, middleware.RequireRole(domain.RoleSetupPending))
}

func SetupMembershipRoutes(api *echo.Group, handler *rest.MembershipHandler) {
	membership := api.Group("/membership", middleware.AuthMiddleware())

	membership.POST("/payment/approve", handler.ApprovePayment, middleware.RequireRole(domain.RolePaymentPending))
	membership.GET("/transactions", handler.ListTransactions)
}

func SetupReferralRoutes(api *echo.Group, handler *rest.ReferralHandler) {
	referrals := api.Group("/referrals", middleware.AuthMiddleware())

	referrals.GET("/direct", handler.DirectMembers)
	referrals.GET("/downline", handler.Downline)
	referrals.GET("/stats", handler.Stats)
}

// SetupPageRoutes registers the server-rendered shells behind the role-gated
// route guard.
func SetupPageRoutes(e *echo.Echo, handler *rest.PageHandler) {
	e.GET("/", handler.Landing)

	pages := e.Group("", middleware.RouteGuard())
	pages.GET("/auth/login", handler.LoginPage)
	pages.GET("/auth/register", handler.RegisterPage)
	pages.GET("/auth/setup", handler.SetupPage)
	pages.GET("/auth/payment", handler.PaymentPage)
	pages.GET("/dashboard", handler.DashboardPage)
	pages.GET("/downline", handler.DownlinePage)
	pages.GET("/direct-members", handler.DirectMembersPage)
}
