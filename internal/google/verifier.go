// Package google verifies Google ID tokens through the tokeninfo endpoint.
// The payload is untrusted until the audience claim has been checked.
package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"backend/internal/apperr"
)

// TokenPayload is the subset of the tokeninfo response this service reads.
type TokenPayload struct {
	Email            string `json:"email"`
	Sub              string `json:"sub"`
	Name             string `json:"name"`
	Picture          string `json:"picture"`
	Aud              string `json:"aud"`
	Azp              string `json:"azp"`
	ErrorDescription string `json:"error_description"`
}

// Verifier validates an ID token and returns an audience-checked payload.
type Verifier interface {
	Verify(ctx context.Context, idToken string) (*TokenPayload, error)
}

type tokenInfoVerifier struct {
	client   *http.Client
	endpoint string
	clientID string
}

// NewVerifier builds a Verifier against the public tokeninfo endpoint.
func NewVerifier(clientID string) Verifier {
	return &tokenInfoVerifier{
		client:   &http.Client{Timeout: 10 * time.Second},
		endpoint: "https://oauth2.googleapis.com/tokeninfo",
		clientID: clientID,
	}
}

func (v *tokenInfoVerifier) Verify(ctx context.Context, idToken string) (*TokenPayload, error) {
	reqURL := fmt.Sprintf("%s?id_token=%s", v.endpoint, url.QueryEscape(idToken))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindExternal, "google verification failed", err)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindExternal, "google verification failed", err)
	}
	defer resp.Body.Close()

	var payload TokenPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, apperr.Wrap(apperr.KindExternal, "google verification failed", err)
	}

	if payload.ErrorDescription != "" {
		return nil, apperr.Auth("invalid google token")
	}

	// Some clients present the id in azp instead of aud; accept either.
	if payload.Aud != v.clientID && payload.Azp != v.clientID {
		return nil, apperr.Auth("invalid google audience")
	}

	if payload.Email == "" {
		return nil, apperr.Validation("google email not available")
	}

	return &payload, nil
}
