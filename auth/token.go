package auth

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/hitakshiA/Havklo-sdk-sub000/krakenerr"
)

const (
	baseURL      = "https://api.kraken.com"
	tokenPath    = "/0/private/GetWebSocketsToken"
	requestTimeout = 30 * time.Second
)

// WsToken is a private-channel authentication token and its lifetime.
type WsToken struct {
	Token   string
	Expires time.Duration
}

type tokenResponse struct {
	Error  []string `json:"error"`
	Result *struct {
		Token   string `json:"token"`
		Expires uint64 `json:"expires"`
	} `json:"result"`
}

// TokenProvider exchanges signed REST credentials for a WebSocket
// authentication token, required for subscribing to private channels
// (spec §4.13).
//
// Grounded on original_source/crates/kraken-auth/src/token.rs.
type TokenProvider struct {
	credentials *Credentials
	client      *resty.Client
}

// New constructs a TokenProvider over the given credentials.
func New(credentials *Credentials) *TokenProvider {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(requestTimeout).
		SetHeader("User-Agent", "havklo-sdk/0.1.0")
	return &TokenProvider{credentials: credentials, client: client}
}

// NewFromEnv builds a TokenProvider from the <prefix>_API_KEY and
// <prefix>_PRIVATE_KEY environment variables.
func NewFromEnv(prefix string) (*TokenProvider, error) {
	creds, err := FromEnv(prefix)
	if err != nil {
		return nil, err
	}
	return New(creds), nil
}

// GetWSToken requests a fresh WebSocket authentication token, valid for
// roughly 15 minutes.
func (p *TokenProvider) GetWSToken(ctx context.Context) (WsToken, error) {
	signer := NewRequestSigner(p.credentials, tokenPath)
	postData := url.Values{"nonce": {signer.Nonce()}}.Encode()
	signature := signer.Sign(postData)

	var result tokenResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetHeader("API-Key", signer.APIKey()).
		SetHeader("API-Sign", signature).
		SetHeader("Content-Type", "application/x-www-form-urlencoded").
		SetBody(postData).
		SetResult(&result).
		Post(tokenPath)
	if err != nil {
		return WsToken{}, krakenerr.Wrap(krakenerr.KindAuth, "token request failed", err, krakenerr.RateLimitBackoff())
	}
	if resp.IsError() {
		return WsToken{}, krakenerr.New(krakenerr.KindAuth, fmt.Sprintf("token request returned status %d", resp.StatusCode()), krakenerr.Manual())
	}
	if len(result.Error) > 0 {
		return WsToken{}, krakenerr.New(krakenerr.KindAuth, strings.Join(result.Error, ", "), krakenerr.Manual())
	}
	if result.Result == nil {
		return WsToken{}, krakenerr.New(krakenerr.KindProtocol, "token response carried no result", krakenerr.RecoveryStrategy{Kind: krakenerr.StrategySkip})
	}

	return WsToken{
		Token:   result.Result.Token,
		Expires: time.Duration(result.Result.Expires) * time.Second,
	}, nil
}
