// Package imageurl turns stored product image references into URLs a client
// can fetch.
package imageurl

import "strings"

// DefaultPlaceholder is shown for products without an image.
const DefaultPlaceholder = "/images/products/default-product.jpg"

const apiPrefix = "/api/"

// Resolver resolves image references against the API origin.
type Resolver struct {
	origin      string
	placeholder string
}

// NewResolver derives the API origin from apiBaseURL by dropping a trailing
// "/api". An empty placeholder means DefaultPlaceholder.
func NewResolver(apiBaseURL, placeholder string) *Resolver {
	origin := strings.TrimRight(apiBaseURL, "/")
	origin = strings.TrimSuffix(origin, "/api")
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}
	return &Resolver{origin: origin, placeholder: placeholder}
}

// Resolve returns the absolute URL for references under /api/, the
// placeholder for empty references and anything else unchanged.
func (r *Resolver) Resolve(ref string) string {
	switch {
	case ref == "":
		return r.placeholder
	case strings.HasPrefix(ref, apiPrefix):
		return r.origin + ref
	default:
		return ref
	}
}
