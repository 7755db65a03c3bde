// Package link resolves menu link URLs and decides which links are active
// for the current request.
package link

import (
	"net/url"
	"path"
	"slices"
	"strings"

	"github.com/matzehuels/treemenu/pkg/menu"
)

// Resolver turns raw link URLs into concrete ones and reports active links.
type Resolver interface {
	// URL resolves a raw link URL.
	URL(raw string) string

	// IsActive reports whether n points at the current page. When guessing
	// is true a link that points at any page of the breadcrumb trail is
	// active as well.
	IsActive(n *menu.Node, guessing bool) bool
}

// PathResolver resolves links against a base path and compares them with
// the current request path and breadcrumb trail.
//
// The zero value resolves links unchanged and marks nothing active.
type PathResolver struct {
	// Base is prepended to site-relative links ("/blog" with Base "/site"
	// resolves to "/site/blog").
	Base string

	// Current is the path of the page being served.
	Current string

	// Breadcrumb lists the paths leading to the current page.
	Breadcrumb []string
}

// URL resolves raw against the base path. External links (with a scheme or
// scheme-relative), fragments and special schemes such as mailto: pass
// through unchanged. An empty raw URL resolves to "#".
func (r PathResolver) URL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "#"
	}
	if IsExternal(raw) || strings.HasPrefix(raw, "#") {
		return raw
	}

	base := strings.TrimSuffix(r.Base, "/")
	if strings.HasPrefix(raw, "/") {
		return base + raw
	}
	return base + "/" + raw
}

// IsActive implements [Resolver].
func (r PathResolver) IsActive(n *menu.Node, guessing bool) bool {
	if n == nil || r.Current == "" || n.URL == "" {
		return false
	}
	resolved := r.URL(n.URL)
	if IsExternal(resolved) || strings.HasPrefix(resolved, "#") {
		return false
	}

	target := Normalize(resolved)
	if target == Normalize(r.Current) {
		return true
	}
	if !guessing {
		return false
	}
	return slices.ContainsFunc(r.Breadcrumb, func(crumb string) bool {
		return crumb != "" && Normalize(crumb) == target
	})
}

// IsExternal reports whether raw carries a scheme or is scheme-relative.
func IsExternal(raw string) bool {
	if strings.HasPrefix(raw, "//") {
		return true
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme != ""
}

// Normalize reduces a URL to a comparable path: the query string and
// fragment are dropped, dot segments are cleaned and a trailing slash is
// removed (except for the root path).
func Normalize(raw string) string {
	p := raw
	if u, err := url.Parse(raw); err == nil {
		p = u.Path
	}
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

// Static is a resolver that leaves URLs unchanged and reports a fixed set
// of active node IDs. It is handy for previews and tests.
type Static map[int64]bool

// URL implements [Resolver].
func (s Static) URL(raw string) string {
	return raw
}

// IsActive implements [Resolver].
func (s Static) IsActive(n *menu.Node, _ bool) bool {
	return n != nil && s[n.ID]
}
