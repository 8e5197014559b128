package carrier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.uber.org/zap"
)

func TestIsSessionExpiry(t *testing.T) {
	assert.True(t, IsSessionExpiry("LGN2003"))
	assert.True(t, IsSessionExpiry("LGN2004"))
	assert.False(t, IsSessionExpiry("OTP1000"))
	assert.False(t, IsSessionExpiry(""))
}

func envelope(code, desc string, content map[string]any) map[string]any {
	return map[string]any{
		"responseHeader": map[string]any{
			"responseDescCode": code,
			"responseDesc":     desc,
		},
		"content": content,
	}
}

func newCarrierServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *HTTPClient) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, NewHTTPClient(srv.URL, 5*time.Second, zap.NewNop())
}

func TestHTTPClient_SendOTP(t *testing.T) {
	_, client := newCarrierServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/otp/generate", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "9814012345", body["msisdn"])

		json.NewEncoder(w).Encode(envelope("OTP1000", "OTP sent", nil))
	})

	resp, err := client.SendOTP(context.Background(), "9814012345")

	require.NoError(t, err)
	assert.Equal(t, "OTP1000", resp.ResponseCode)
	assert.Equal(t, "OTP sent", resp.Description)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHTTPClient_ExchangeOTP_ReturnsToken(t *testing.T) {
	_, client := newCarrierServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/otp/validate", r.URL.Path)
		json.NewEncoder(w).Encode(envelope("OTP1000", "ok", map[string]any{
			"accessToken": "issued-token",
		}))
	})

	resp, token, err := client.ExchangeOTP(context.Background(), "9814012345", "1234")

	require.NoError(t, err)
	assert.Equal(t, "OTP1000", resp.ResponseCode)
	assert.Equal(t, "issued-token", token)
}

// On expiry the account API refreshes once, persists the new token through
// the callback and retries the original call.
func TestAccountAPI_RefreshAndRetry(t *testing.T) {
	var calls []string
	_, client := newCarrierServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.URL.Path+" "+r.Header.Get("Authorization"))

		switch {
		case r.URL.Path == "/token/refresh":
			json.NewEncoder(w).Encode(envelope("LGN1000", "refreshed", map[string]any{
				"accessToken": "fresh",
			}))
		case r.Header.Get("Authorization") == "Bearer stale":
			json.NewEncoder(w).Encode(envelope("LGN2004", "expired", nil))
		default:
			json.NewEncoder(w).Encode(envelope("BAL1000", "ok", map[string]any{
				"queryBalanceResponse": map[string]any{},
			}))
		}
	})

	var persisted string
	api := client.Account("stale", func(token string) { persisted = token })

	resp, err := api.ViewBalance(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "BAL1000", resp.ResponseCode)
	assert.Equal(t, "fresh", persisted)
	assert.Equal(t, []string{
		"/balance/query Bearer stale",
		"/token/refresh Bearer stale",
		"/balance/query Bearer fresh",
	}, calls)
}

// A rejected refresh surfaces the original expiry response so the caller
// can invalidate the stored session.
func TestAccountAPI_RefreshRejected(t *testing.T) {
	_, client := newCarrierServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/token/refresh" {
			json.NewEncoder(w).Encode(envelope("LGN2003", "new login found", nil))
			return
		}
		json.NewEncoder(w).Encode(envelope("LGN2004", "expired", nil))
	})

	refreshed := false
	api := client.Account("stale", func(string) { refreshed = true })

	resp, err := api.ViewBalance(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "LGN2004", resp.ResponseCode)
	assert.False(t, refreshed)
}

func TestAccountAPI_NoRefreshOnSuccess(t *testing.T) {
	requests := 0
	_, client := newCarrierServer(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		json.NewEncoder(w).Encode(envelope("CL1003", "granted", nil))
	})

	api := client.Account("valid", nil)
	resp, err := api.TakeLoan(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "CL1003", resp.ResponseCode)
	assert.Equal(t, 1, requests)
}
