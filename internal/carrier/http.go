package carrier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Session-expiry codes are fixed across every carrier operation. LGN2003
// means the credential was displaced by a newer login, LGN2004 that it
// expired on its own.
const (
	CodeNewLoginFound  = "LGN2003"
	CodeSessionExpired = "LGN2004"
)

// IsSessionExpiry reports whether a response code invalidates the stored
// session token, regardless of which operation produced it.
func IsSessionExpiry(code string) bool {
	return code == CodeNewLoginFound || code == CodeSessionExpired
}

// HTTPClient talks to the carrier self-care API over HTTPS.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewHTTPClient creates a carrier client for the given API base URL.
func NewHTTPClient(baseURL string, timeout time.Duration, logger *zap.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// apiEnvelope is the wire shape of every carrier response.
type apiEnvelope struct {
	ResponseHeader struct {
		ResponseDescCode string `json:"responseDescCode"`
		ResponseDesc     string `json:"responseDesc"`
	} `json:"responseHeader"`
	Content map[string]any `json:"content"`
}

func (c *HTTPClient) post(ctx context.Context, token, path string, body map[string]any) (Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return Response{}, fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return Response{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("carrier request failed: %w", err)
	}
	defer resp.Body.Close()

	var env apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return Response{}, fmt.Errorf("failed to decode carrier response: %w", err)
	}

	return Response{
		ResponseCode: env.ResponseHeader.ResponseDescCode,
		Description:  env.ResponseHeader.ResponseDesc,
		StatusCode:   resp.StatusCode,
		Payload:      env.Content,
	}, nil
}

// SendOTP requests a one-time password for msisdn.
func (c *HTTPClient) SendOTP(ctx context.Context, msisdn string) (Response, error) {
	return c.post(ctx, "", "/otp/generate", map[string]any{"msisdn": msisdn})
}

// ExchangeOTP trades an OTP for a session token.
func (c *HTTPClient) ExchangeOTP(ctx context.Context, msisdn, code string) (Response, string, error) {
	resp, err := c.post(ctx, "", "/otp/validate", map[string]any{"msisdn": msisdn, "otp": code})
	if err != nil {
		return Response{}, "", err
	}
	token, _ := resp.Payload["accessToken"].(string)
	return resp, token, nil
}

// Account binds the authenticated API surface to a session token.
func (c *HTTPClient) Account(token string, onRefresh func(token string)) AccountAPI {
	return &accountAPI{client: c, token: token, onRefresh: onRefresh}
}

type accountAPI struct {
	client    *HTTPClient
	token     string
	onRefresh func(token string)
}

// call performs one authenticated operation with a single refresh-and-retry
// on session expiry. The second expiry response is surfaced as-is.
func (a *accountAPI) call(ctx context.Context, path string, body map[string]any) (Response, error) {
	resp, err := a.client.post(ctx, a.token, path, body)
	if err != nil {
		return Response{}, err
	}
	if !IsSessionExpiry(resp.ResponseCode) {
		return resp, nil
	}

	refreshed, err := a.client.post(ctx, a.token, "/token/refresh", nil)
	if err != nil {
		return Response{}, err
	}
	token, ok := refreshed.Payload["accessToken"].(string)
	if !ok || token == "" {
		// Refresh rejected: report the original expiry so the caller
		// invalidates the stored session.
		return resp, nil
	}

	a.token = token
	if a.onRefresh != nil {
		a.onRefresh(token)
	}
	a.client.logger.Info("carrier token refreshed")

	return a.client.post(ctx, a.token, path, body)
}

func (a *accountAPI) ViewBalance(ctx context.Context) (Response, error) {
	return a.call(ctx, "/balance/query", nil)
}

func (a *accountAPI) ViewProfile(ctx context.Context) (Response, error) {
	return a.call(ctx, "/subscriber/profile", nil)
}

func (a *accountAPI) SelfRecharge(ctx context.Context, pin string) (Response, error) {
	return a.call(ctx, "/recharge/pin", map[string]any{"pin": pin})
}

func (a *accountAPI) Recharge(ctx context.Context, msisdn, pin string) (Response, error) {
	return a.call(ctx, "/recharge/pin", map[string]any{"pin": pin, "msisdn": msisdn})
}

func (a *accountAPI) OnlineRecharge(ctx context.Context, amount, msisdn string) (Response, error) {
	body := map[string]any{"amount": amount}
	if msisdn != "" {
		body["msisdn"] = msisdn
	}
	return a.call(ctx, "/recharge/online", body)
}

func (a *accountAPI) SendSMS(ctx context.Context, destination, text string, free bool) (Response, error) {
	path := "/sms/send"
	if free {
		path = "/sms/send-free"
	}
	return a.call(ctx, path, map[string]any{"destination": destination, "text": text})
}

func (a *accountAPI) Plans(ctx context.Context, planType, categoryID string) (Response, error) {
	return a.call(ctx, "/products/"+planType, map[string]any{"categoryId": categoryID})
}

func (a *accountAPI) SubscribedProducts(ctx context.Context) (Response, error) {
	return a.call(ctx, "/products/subscribed", nil)
}

func (a *accountAPI) Subscribe(ctx context.Context, code string) (Response, error) {
	return a.call(ctx, "/products/subscribe", map[string]any{"subscriptionCode": code})
}

func (a *accountAPI) Unsubscribe(ctx context.Context, code string) (Response, error) {
	return a.call(ctx, "/products/unsubscribe", map[string]any{"subscriptionCode": code})
}

func (a *accountAPI) TakeLoan(ctx context.Context) (Response, error) {
	return a.call(ctx, "/loan/take", nil)
}
