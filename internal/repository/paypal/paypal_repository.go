package paypal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
	"upline/domain"
)

type PayPalConfig struct {
	ClientID     string
	ClientSecret string
	BaseUrl      string
}

// PayPalRepository talks to the PayPal REST API to confirm that an order the
// client claims to have paid actually completed.
type PayPalRepository struct {
	paypalConfig PayPalConfig
	client       *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewPayPalRepository returns nil when no credentials are configured; callers
// treat a nil repository as "skip the processor check".
func NewPayPalRepository(cfg PayPalConfig) *PayPalRepository {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil
	}

	return &PayPalRepository{
		paypalConfig: cfg,
		client:       &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *PayPalRepository) GetOrder(ctx context.Context, orderID string) (domain.PayPalOrder, error) {
	token, err := r.getAccessToken(ctx)
	if err != nil {
		return domain.PayPalOrder{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.paypalConfig.BaseUrl+"/v2/checkout/orders/"+url.PathEscape(orderID), nil)
	if err != nil {
		return domain.PayPalOrder{}, err
	}
	req.Header.Add("Authorization", "Bearer "+token)

	res, err := r.client.Do(req)
	if err != nil {
		return domain.PayPalOrder{}, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return domain.PayPalOrder{}, err
	}

	if res.StatusCode == http.StatusNotFound {
		return domain.PayPalOrder{}, fmt.Errorf("paypal order %s: %w", orderID, domain.ErrNotFound)
	}

	if res.StatusCode != http.StatusOK {
		return domain.PayPalOrder{}, fmt.Errorf("paypal order lookup returned %v", res.StatusCode)
	}

	var order domain.PayPalOrder
	if err := json.Unmarshal(body, &order); err != nil {
		return domain.PayPalOrder{}, err
	}

	return order, nil
}

func (r *PayPalRepository) getAccessToken(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.accessToken != "" && time.Now().Before(r.tokenExpiry) {
		return r.accessToken, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.paypalConfig.BaseUrl+"/v1/oauth2/token",
		strings.NewReader("grant_type=client_credentials"))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(r.paypalConfig.ClientID, r.paypalConfig.ClientSecret)
	req.Header.Add("Content-Type", "application/x-www-form-urlencoded")

	res, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("paypal token request returned %v", res.StatusCode)
	}

	var tokenRes domain.PayPalTokenResponse
	if err := json.NewDecoder(res.Body).Decode(&tokenRes); err != nil {
		return "", err
	}

	r.accessToken = tokenRes.AccessToken
	// renew a minute early to avoid issuing requests with a token about to die
	r.tokenExpiry = time.Now().Add(time.Duration(tokenRes.ExpiresIn)*time.Second - time.Minute)

	return r.accessToken, nil
}
