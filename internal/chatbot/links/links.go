// Package links resolves named storefront destinations to navigable URLs.
// Reply templates never hardcode paths; the composer asks this resolver and
// substitutes a safe placeholder when a name is unknown.
package links

import (
	"fmt"
	"strings"

	apperrors "fashionstore-chatbot/internal/common/errors"
)

// Resolver maps a destination name plus optional path arguments to a URL.
type Resolver interface {
	Resolve(name string, args ...string) (string, error)
}

// routes maps destination names to path templates; %s slots take args in order.
var routes = map[string]string{
	"home":           "/",
	"product_list":   "/products/",
	"productdetail":  "/productdetail/%s/",
	"signup":         "/signup/",
	"signin":         "/signin/",
	"faqs":           "/faqs/",
	"help":           "/help/",
	"support":        "/support/",
	"contactus":      "/contactus/",
	"returns_policy": "/returns/",
	"track_order":    "/track-order/",
	"promotions":     "/promotions/",
	"size_guide":     "/size-guide/",
	"shipping_info":  "/shipping-info/",
	"about_us":       "/about/",
}

// TableResolver resolves against the fixed storefront route table, optionally
// prefixed with a base URL.
type TableResolver struct {
	baseURL string
}

// NewTableResolver creates a resolver. baseURL may be empty for relative URLs.
func NewTableResolver(baseURL string) *TableResolver {
	return &TableResolver{baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (r *TableResolver) Resolve(name string, args ...string) (string, error) {
	tmpl, ok := routes[name]
	if !ok {
		return "", apperrors.NewLinkResolutionFailedError(name)
	}

	slots := strings.Count(tmpl, "%s")
	if slots != len(args) {
		return "", apperrors.NewLinkResolutionFailedError(
			fmt.Sprintf("%s: want %d args, got %d", name, slots, len(args)))
	}

	path := tmpl
	for _, a := range args {
		path = strings.Replace(path, "%s", a, 1)
	}
	return r.baseURL + path, nil
}
