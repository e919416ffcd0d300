package x402

import "fmt"

// Header names used by the x402 V2 protocol.
const (
	// HeaderPayment carries the client's payment evidence. The value is
	// opaque to this package; only the configured scheme handler (or the
	// facilitator behind it) interprets it.
	HeaderPayment = "X-PAYMENT"

	// HeaderPaymentRequired carries the base64-encoded JSON challenge on
	// 402 responses.
	HeaderPaymentRequired = "PAYMENT-REQUIRED"

	// HeaderPaymentVerified is set on responses whose payment evidence
	// verified successfully.
	HeaderPaymentVerified = "X-Payment-Verified"
)

// ProtocolVersion is the x402 protocol revision spoken by this package.
const ProtocolVersion = 2

// PaymentRequirement describes one acceptable way to pay for a resource.
// Uses CAIP-2 network identifiers (e.g., "eip155:8453").
type PaymentRequirement struct {
	Scheme  string `json:"scheme"`
	Network string `json:"network"` // CAIP-2: "eip155:8453"
	PayTo   string `json:"payTo"`   // recipient address
	Asset   string `json:"asset"`   // token contract address, or "native"
	Amount  string `json:"amount"`  // atomic units, decimal string
}

// Validate checks if the requirement is complete.
func (p *PaymentRequirement) Validate() error {
	if p.Scheme == "" {
		return fmt.Errorf("scheme is required")
	}

	if p.Network == "" {
		return fmt.Errorf("network is required")
	}

	if p.PayTo == "" {
		return fmt.Errorf("payTo is required")
	}

	if p.Asset == "" {
		return fmt.Errorf("asset is required")
	}

	if p.Amount == "" {
		return fmt.Errorf("amount is required")
	}

	return nil
}

// PaymentChallenge is the 402 challenge encoded into the PAYMENT-REQUIRED
// header: every requirement the route accepts, so a client can pick the
// cheapest scheme/network/asset combination in one round trip.
type PaymentChallenge struct {
	X402Version int                  `json:"x402Version"`
	Accepts     []PaymentRequirement `json:"accepts"`
}

// PaymentRequiredBody is the human-readable JSON body sent alongside the
// challenge header on 402 responses.
type PaymentRequiredBody struct {
	Message string `json:"message"`
	Price   string `json:"price"`
}

// Outcome is the tri-state result of consulting a verification backend.
type Outcome int

const (
	// OutcomeAccepted means the evidence satisfied the requirement.
	OutcomeAccepted Outcome = iota

	// OutcomeRejected means the backend definitively refused the evidence.
	OutcomeRejected

	// OutcomeUnavailable means the backend could not be consulted
	// (unreachable, erroring, or timed out). Treated the same as a
	// rejection by the gate: an infrastructure outage never waves a
	// request through.
	OutcomeUnavailable
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeRejected:
		return "rejected"
	case OutcomeUnavailable:
		return "unavailable"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// VerificationResult contains the result of payment verification.
type VerificationResult struct {
	Outcome Outcome
	Reason  string
}

// Accepted returns a successful verification result.
func Accepted() VerificationResult {
	return VerificationResult{Outcome: OutcomeAccepted}
}

// Rejected returns a definitive refusal with the given reason.
func Rejected(reason string) VerificationResult {
	return VerificationResult{Outcome: OutcomeRejected, Reason: reason}
}

// Unavailable marks a verification that could not be completed.
func Unavailable(reason string) VerificationResult {
	return VerificationResult{Outcome: OutcomeUnavailable, Reason: reason}
}

// PaymentContext contains payment information that can be extracted in
// handlers after the gate accepted a request.
type PaymentContext struct {
	Verified    bool
	Requirement PaymentRequirement
}

type contextKey string

const (
	// PaymentContextKey is the key used to store payment context in request context.
	PaymentContextKey contextKey = "x402-payment"
)
