package carrier

import "context"

// Response is the normalized envelope every carrier API call resolves to.
// ResponseCode is the carrier's own result code (e.g. "OTP1000"); Description
// is its human readable text. Both are carried verbatim so unrecognized
// results can be surfaced for diagnosis.
type Response struct {
	ResponseCode string
	Description  string
	StatusCode   int
	Payload      map[string]any
}

// Client performs the unauthenticated carrier operations and opens
// account-scoped sessions for the authenticated ones.
type Client interface {
	// SendOTP requests a one-time password for the given number.
	SendOTP(ctx context.Context, msisdn string) (Response, error)
	// ExchangeOTP trades an OTP for a session token. The token is returned
	// only when the exchange succeeded.
	ExchangeOTP(ctx context.Context, msisdn, code string) (Response, string, error)
	// Account returns an API bound to a session token. onRefresh is invoked
	// with the replacement token whenever the client transparently refreshes
	// an expired one; callers persist it so the next call starts fresh.
	Account(token string, onRefresh func(token string)) AccountAPI
}

// AccountAPI is the authenticated surface of the carrier. Each call performs
// one network operation. On token expiry the implementation refreshes and
// retries once before surfacing the final response; the caller only ever
// sees the classified result.
type AccountAPI interface {
	ViewBalance(ctx context.Context) (Response, error)
	ViewProfile(ctx context.Context) (Response, error)
	SelfRecharge(ctx context.Context, pin string) (Response, error)
	Recharge(ctx context.Context, msisdn, pin string) (Response, error)
	OnlineRecharge(ctx context.Context, amount, msisdn string) (Response, error)
	SendSMS(ctx context.Context, destination, text string, free bool) (Response, error)
	Plans(ctx context.Context, planType, categoryID string) (Response, error)
	SubscribedProducts(ctx context.Context) (Response, error)
	Subscribe(ctx context.Context, code string) (Response, error)
	Unsubscribe(ctx context.Context, code string) (Response, error)
	TakeLoan(ctx context.Context) (Response, error)
}
