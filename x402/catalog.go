package x402

import (
	"fmt"
	"sort"
)

// Route identifies one priced operation by exact method and path.
type Route struct {
	Method string
	Path   string
}

func (r Route) String() string {
	return r.Method + " " + r.Path
}

// ChargePolicy is the ordered set of payment alternatives for one route.
// A client satisfying any one requirement passes.
type ChargePolicy []PaymentRequirement

// Validate checks that the policy has at least one complete requirement.
func (p ChargePolicy) Validate() error {
	if len(p) == 0 {
		return fmt.Errorf("at least one payment requirement is required")
	}

	for i := range p {
		if err := p[i].Validate(); err != nil {
			return fmt.Errorf("invalid payment requirement at index %d: %w", i, err)
		}
	}

	return nil
}

// Catalog is the static mapping from routes to charge policies. It is built
// once at startup and read-only afterwards, so every protected route is
// auditable by inspecting the catalog alone. Lookup is by exact method and
// path; a miss means the route is unguarded.
type Catalog struct {
	policies map[Route]ChargePolicy
}

// NewCatalog creates an empty price catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		policies: make(map[Route]ChargePolicy),
	}
}

// Register binds a charge policy to a route. Registering the same route
// twice is a construction-time error.
func (c *Catalog) Register(method, path string, policy ChargePolicy) error {
	if err := policy.Validate(); err != nil {
		return NewPaymentError(ErrCodeInvalidConfig, fmt.Sprintf("invalid policy for %s %s", method, path), err)
	}

	route := Route{Method: method, Path: path}
	if _, ok := c.policies[route]; ok {
		return NewPaymentError(ErrCodeInvalidConfig, fmt.Sprintf("route %s registered twice", route), nil)
	}

	dup := make(ChargePolicy, len(policy))
	copy(dup, policy)
	c.policies[route] = dup

	return nil
}

// Lookup returns the charge policy for an exact method+path match. The
// second return value is false when the route is not priced.
func (c *Catalog) Lookup(method, path string) (ChargePolicy, bool) {
	policy, ok := c.policies[Route{Method: method, Path: path}]
	return policy, ok
}

// Routes lists every priced route in deterministic order.
func (c *Catalog) Routes() []Route {
	routes := make([]Route, 0, len(c.policies))
	for route := range c.policies {
		routes = append(routes, route)
	}

	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path != routes[j].Path {
			return routes[i].Path < routes[j].Path
		}
		return routes[i].Method < routes[j].Method
	})

	return routes
}
