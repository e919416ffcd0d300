// Package x402 implements the seller side of the x402 V2 payment protocol:
// a price catalog, a scheme-handler registry, a facilitator client, and the
// HTTP middleware that gates priced routes behind a 402 challenge.
package x402

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
)

// GateConfig configures the payment gate middleware.
type GateConfig struct {
	// Catalog maps routes to their charge policies. Routes absent from
	// the catalog pass through untouched.
	Catalog *Catalog

	// Schemes resolves (scheme, network) pairs to verification handlers.
	Schemes *SchemeRegistry

	// Price renders the human-readable price for the 402 body. Optional;
	// when nil the body carries an empty price string.
	Price func(PaymentRequirement) string
}

// PaymentGate creates HTTP middleware that enforces the charge policies in
// the catalog. Per request it resolves the policy by exact method+path,
// short-circuits with a 402 challenge when no evidence header is present
// (no verification I/O on the unauthenticated probe), and otherwise tries
// the evidence against each requirement in policy order. The first
// accepted requirement passes the request through unchanged; anything
// else, including an unreachable facilitator, is a fully-formed 402. The
// gate itself never fails a request with any other status.
func PaymentGate(cfg GateConfig) func(http.Handler) http.Handler {
	if cfg.Catalog == nil || cfg.Schemes == nil {
		panic("x402: payment gate requires a catalog and a scheme registry")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			policy, priced := cfg.Catalog.Lookup(r.Method, r.URL.Path)
			if !priced {
				next.ServeHTTP(w, r)
				return
			}

			evidence := r.Header.Get(HeaderPayment)
			if evidence == "" {
				sendPaymentRequired(w, policy, cfg.Price)
				return
			}

			requirement, ok := verifyAgainstPolicy(r.Context(), cfg.Schemes, evidence, policy)
			if !ok {
				sendPaymentRequired(w, policy, cfg.Price)
				return
			}

			w.Header().Set(HeaderPaymentVerified, "true")

			ctx := context.WithValue(r.Context(), PaymentContextKey, &PaymentContext{
				Verified:    true,
				Requirement: requirement,
			})

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// verifyAgainstPolicy tries the evidence against each requirement in
// order. Requirements are alternatives: the first accepted one wins.
// Requirements whose scheme+network has no registered handler count as
// rejections.
func verifyAgainstPolicy(ctx context.Context, schemes *SchemeRegistry, evidence string, policy ChargePolicy) (PaymentRequirement, bool) {
	for _, requirement := range policy {
		handler, ok := schemes.Lookup(requirement.Scheme, requirement.Network)
		if !ok {
			continue
		}

		result := handler.Verify(ctx, evidence, requirement)
		if result.Outcome == OutcomeAccepted {
			return requirement, true
		}
	}

	return PaymentRequirement{}, false
}

// sendPaymentRequired writes the 402 response: the full challenge
// (every alternative in the policy) base64-encoded into the
// PAYMENT-REQUIRED header, plus a human-readable JSON body.
func sendPaymentRequired(w http.ResponseWriter, policy ChargePolicy, price func(PaymentRequirement) string) {
	challenge := PaymentChallenge{
		X402Version: ProtocolVersion,
		Accepts:     policy,
	}

	if challengeJSON, err := json.Marshal(challenge); err == nil {
		w.Header().Set(HeaderPaymentRequired, base64.StdEncoding.EncodeToString(challengeJSON))
	}

	body := PaymentRequiredBody{
		Message: "Payment required",
	}
	if price != nil && len(policy) > 0 {
		body.Price = price(policy[0])
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusPaymentRequired)
	json.NewEncoder(w).Encode(body)
}

// GetPaymentFromContext extracts payment information from the request context.
func GetPaymentFromContext(ctx context.Context) (*PaymentContext, bool) {
	payment, ok := ctx.Value(PaymentContextKey).(*PaymentContext)
	return payment, ok
}

// RequirePayment extracts payment from context and returns an error if the
// request was not gated through a verified payment.
func RequirePayment(ctx context.Context) (*PaymentContext, error) {
	payment, ok := GetPaymentFromContext(ctx)
	if !ok {
		return nil, fmt.Errorf("payment context not found")
	}
	if !payment.Verified {
		return nil, fmt.Errorf("payment not verified")
	}
	return payment, nil
}
