package x402

import (
	"context"
	"sync"
)

// SchemeHandler verifies payment evidence against one requirement. The
// evidence string is whatever the client put in the X-PAYMENT header;
// handlers own its interpretation. Verification must be side-effect-free
// and idempotent: settlement state lives with the facilitator, never here.
type SchemeHandler interface {
	Verify(ctx context.Context, evidence string, requirement PaymentRequirement) VerificationResult
}

// SchemeKey identifies a handler by scheme and network pair.
type SchemeKey struct {
	Scheme  string
	Network string // CAIP-2
}

// SchemeRegistry maps (scheme, network) pairs to their handlers. New
// payment schemes are added by registering new handlers; nothing in the
// gate is scheme-aware beyond this lookup.
type SchemeRegistry struct {
	mu       sync.RWMutex
	handlers map[SchemeKey]SchemeHandler
}

// NewSchemeRegistry creates an empty registry.
func NewSchemeRegistry() *SchemeRegistry {
	return &SchemeRegistry{
		handlers: make(map[SchemeKey]SchemeHandler),
	}
}

// Register registers a handler for a scheme on a network. Later
// registrations for the same pair replace earlier ones.
func (r *SchemeRegistry) Register(scheme, network string, handler SchemeHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[SchemeKey{Scheme: scheme, Network: network}] = handler
}

// Lookup retrieves the handler for a scheme+network pair.
func (r *SchemeRegistry) Lookup(scheme, network string) (SchemeHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handler, ok := r.handlers[SchemeKey{Scheme: scheme, Network: network}]
	return handler, ok
}

// Kinds returns all registered scheme+network pairs.
func (r *SchemeRegistry) Kinds() []SchemeKey {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]SchemeKey, 0, len(r.handlers))
	for k := range r.handlers {
		kinds = append(kinds, k)
	}
	return kinds
}

// AcceptAllHandler accepts any non-empty evidence without consulting a
// backend. This is the degenerate offline configuration: the gate still
// challenges requests that carry no evidence at all, but any token text
// passes. Useful for local development and deployments that settle
// payments out of band.
type AcceptAllHandler struct{}

func (AcceptAllHandler) Verify(ctx context.Context, evidence string, requirement PaymentRequirement) VerificationResult {
	if evidence == "" {
		return Rejected("empty payment evidence")
	}
	return Accepted()
}

// StaticHandler accepts evidence from a fixed token set.
// Useful for testing and simple use cases.
type StaticHandler struct {
	tokens map[string]struct{}
}

// NewStaticHandler creates a handler that accepts exactly the given tokens.
func NewStaticHandler(validTokens []string) *StaticHandler {
	tokens := make(map[string]struct{}, len(validTokens))
	for _, t := range validTokens {
		tokens[t] = struct{}{}
	}
	return &StaticHandler{tokens: tokens}
}

func (h *StaticHandler) Verify(ctx context.Context, evidence string, requirement PaymentRequirement) VerificationResult {
	if _, ok := h.tokens[evidence]; ok {
		return Accepted()
	}
	return Rejected("unknown payment token")
}
