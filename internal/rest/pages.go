package rest

import (
	"embed"
	"html/template"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templatesFS embed.FS

// PageRenderer plugs the embedded page shells into echo. The pages carry no
// behavior of their own; the route guard decides who sees what.
type PageRenderer struct {
	templates *template.Template
}

func NewPageRenderer() (*PageRenderer, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	return &PageRenderer{templates: tmpl}, nil
}

func (r *PageRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

type PageHandler struct {
	appName        string
	paypalClientID string
	feeAmount      float64
	feeCurrency    string
}

func NewPageHandler(appName, paypalClientID string, feeAmount float64, feeCurrency string) *PageHandler {
	return &PageHandler{
		appName:        appName,
		paypalClientID: paypalClientID,
		feeAmount:      feeAmount,
		feeCurrency:    feeCurrency,
	}
}

type pageData struct {
	AppName        string
	PayPalClientID string
	FeeAmount      float64
	FeeCurrency    string
}

func (h *PageHandler) data() pageData {
	return pageData{
		AppName:        h.appName,
		PayPalClientID: h.paypalClientID,
		FeeAmount:      h.feeAmount,
		FeeCurrency:    h.feeCurrency,
	}
}

func (h *PageHandler) Landing(c echo.Context) error {
	return c.Render(http.StatusOK, "landing.html", h.data())
}

func (h *PageHandler) LoginPage(c echo.Context) error {
	return c.Render(http.StatusOK, "login.html", h.data())
}

func (h *PageHandler) RegisterPage(c echo.Context) error {
	return c.Render(http.StatusOK, "register.html", h.data())
}

func (h *PageHandler) SetupPage(c echo.Context) error {
	return c.Render(http.StatusOK, "setup.html", h.data())
}

func (h *PageHandler) PaymentPage(c echo.Context) error {
	return c.Render(http.StatusOK, "payment.html", h.data())
}

func (h *PageHandler) DashboardPage(c echo.Context) error {
	return c.Render(http.StatusOK, "dashboard.html", h.data())
}

func (h *PageHandler) DownlinePage(c echo.Context) error {
	return c.Render(http.StatusOK, "downline.html", h.data())
}

func (h *PageHandler) DirectMembersPage(c echo.Context) error {
	return c.Render(http.StatusOK, "direct_members.html", h.data())
}
