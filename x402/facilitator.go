package x402

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultVerifyTimeout bounds a single facilitator verification call.
// A facilitator that does not answer within this window resolves to
// OutcomeUnavailable and the gate fails closed.
const DefaultVerifyTimeout = 10 * time.Second

// FacilitatorClient delegates payment verification to an external x402
// facilitator service. It implements SchemeHandler, so it can be registered
// directly for any scheme+network pair the facilitator supports.
type FacilitatorClient struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// FacilitatorVerifyRequest is the wire request for POST {base}/verify.
type FacilitatorVerifyRequest struct {
	PaymentHeader       string             `json:"paymentHeader"`
	PaymentRequirements PaymentRequirement `json:"paymentRequirements"`
}

// FacilitatorVerifyResponse is the facilitator's verdict.
type FacilitatorVerifyResponse struct {
	IsValid       bool   `json:"isValid"`
	InvalidReason string `json:"invalidReason,omitempty"`
}

// NewFacilitatorClient creates a facilitator client with the default
// verification timeout.
func NewFacilitatorClient(baseURL string) *FacilitatorClient {
	return NewFacilitatorClientWithTimeout(baseURL, DefaultVerifyTimeout)
}

// NewFacilitatorClientWithTimeout creates a facilitator client with a
// caller-chosen verification timeout.
func NewFacilitatorClientWithTimeout(baseURL string, timeout time.Duration) *FacilitatorClient {
	return &FacilitatorClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Verify asks the facilitator whether the evidence satisfies the
// requirement. Transport failures, non-200 statuses, and timeouts all map
// to OutcomeUnavailable; only an explicit facilitator verdict produces
// Accepted or Rejected. The call inherits the request context, so a client
// disconnect abandons the verification.
func (c *FacilitatorClient) Verify(ctx context.Context, evidence string, requirement PaymentRequirement) VerificationResult {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(&FacilitatorVerifyRequest{
		PaymentHeader:       evidence,
		PaymentRequirements: requirement,
	})
	if err != nil {
		return Unavailable(fmt.Sprintf("failed to marshal verify request: %v", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/verify", bytes.NewReader(body))
	if err != nil {
		return Unavailable(fmt.Sprintf("failed to create verify request: %v", err))
	}

	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Unavailable(fmt.Sprintf("failed to call facilitator verify endpoint: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return Unavailable(fmt.Sprintf("facilitator verify returned status %d: %s", resp.StatusCode, string(bodyBytes)))
	}

	var verifyResp FacilitatorVerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&verifyResp); err != nil {
		return Unavailable(fmt.Sprintf("failed to decode verify response: %v", err))
	}

	if !verifyResp.IsValid {
		reason := verifyResp.InvalidReason
		if reason == "" {
			reason = "payment rejected by facilitator"
		}
		return Rejected(reason)
	}

	return Accepted()
}
