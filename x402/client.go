package x402

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
)

// Buyer-side helpers for consuming x402-gated APIs.

// DecodeChallengeHeader decodes a PAYMENT-REQUIRED header value into the
// challenge it carries.
func DecodeChallengeHeader(header string) (*PaymentChallenge, error) {
	decoded, err := base64.StdEncoding.DecodeString(header)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}

	var challenge PaymentChallenge
	if err := json.Unmarshal(decoded, &challenge); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	return &challenge, nil
}

// ReadChallenge extracts the payment challenge from a 402 response.
func ReadChallenge(resp *http.Response) (*PaymentChallenge, error) {
	if resp.StatusCode != http.StatusPaymentRequired {
		return nil, fmt.Errorf("expected status 402, got %d", resp.StatusCode)
	}

	header := resp.Header.Get(HeaderPaymentRequired)
	if header == "" {
		return nil, fmt.Errorf("response is missing the %s header", HeaderPaymentRequired)
	}

	challenge, err := DecodeChallengeHeader(header)
	if err != nil {
		return nil, fmt.Errorf("failed to parse payment challenge: %w", err)
	}

	return challenge, nil
}
