// Package nav holds the site's named routes and builds the navigation menus.
package nav

import (
	"fmt"
	"strings"
)

type Route struct {
	Name    string
	Pattern string
	Label   string
}

var Routes = []Route{
	{Name: "home", Pattern: "/", Label: "Home"},
	{Name: "projects", Pattern: "/projects", Label: "Projects"},
	{Name: "project", Pattern: "/projects/:slug"},
	{Name: "blog", Pattern: "/blog", Label: "Blogs"},
	{Name: "post", Pattern: "/blog/:slug"},
	{Name: "contact", Pattern: "/contact", Label: "Contact"},
	{Name: "education", Pattern: "/education", Label: "Education"},
	{Name: "admin", Pattern: "/admin"},
}

var menu = []string{"home", "projects", "blog", "contact", "education"}

// Scroll is what the browser does after following a link.
type Scroll int

const (
	// ScrollTop jumps to the top of a newly loaded page.
	ScrollTop Scroll = iota
	// ScrollSmoothTop glides to the top when the link targets the current page.
	ScrollSmoothTop
	// ScrollAnchor brings the #fragment element into view.
	ScrollAnchor
)

func (s Scroll) String() string {
	switch s {
	case ScrollSmoothTop:
		return "smooth-top"
	case ScrollAnchor:
		return "anchor"
	default:
		return "top"
	}
}

type Link struct {
	Label  string
	Href   string
	Active bool
	Scroll Scroll
}

func lookup(name string) (Route, bool) {
	for _, r := range Routes {
		if r.Name == name {
			return r, true
		}
	}
	return Route{}, false
}

// Path fills the route's :params in order.
func Path(name string, params ...string) (string, error) {
	r, ok := lookup(name)
	if !ok {
		return "", fmt.Errorf("unknown route %q", name)
	}
	parts := strings.Split(r.Pattern, "/")
	i := 0
	for n, p := range parts {
		if !strings.HasPrefix(p, ":") {
			continue
		}
		if i >= len(params) || params[i] == "" {
			return "", fmt.Errorf("route %q: missing %s", name, p)
		}
		parts[n] = params[i]
		i++
	}
	if i != len(params) {
		return "", fmt.Errorf("route %q: too many params", name)
	}
	return strings.Join(parts, "/"), nil
}

// MustPath is Path for static routes; it panics on misuse.
func MustPath(name string, params ...string) string {
	p, err := Path(name, params...)
	if err != nil {
		panic(err)
	}
	return p
}

// Href is the template form of Path. A route that cannot be built, such as a
// record saved without a slug, links to "#" instead of aborting the page.
func Href(name string, params ...string) string {
	p, err := Path(name, params...)
	if err != nil {
		return "#"
	}
	return p
}

// Match finds the route for path and extracts its params.
func Match(path string) (string, map[string]string, bool) {
	path = clean(path)
	got := strings.Split(path, "/")
	for _, r := range Routes {
		want := strings.Split(r.Pattern, "/")
		if len(want) != len(got) {
			continue
		}
		params := map[string]string{}
		ok := true
		for i := range want {
			switch {
			case strings.HasPrefix(want[i], ":"):
				if got[i] == "" {
					ok = false
				}
				params[want[i][1:]] = got[i]
			case want[i] != got[i]:
				ok = false
			}
			if !ok {
				break
			}
		}
		if ok {
			return r.Name, params, true
		}
	}
	return "", nil, false
}

// Resolve decides the scroll behavior for following target from current.
func Resolve(current, target string) Scroll {
	path, fragment, _ := strings.Cut(target, "#")
	if fragment != "" {
		return ScrollAnchor
	}
	if path == "" || clean(path) == clean(current) {
		return ScrollSmoothTop
	}
	return ScrollTop
}

// Menu builds the header links for a request to current.
func Menu(current string) []Link {
	out := make([]Link, 0, len(menu))
	for _, name := range menu {
		r, _ := lookup(name)
		out = append(out, link(current, r.Label, r.Pattern))
	}
	return out
}

// Footer builds the footer links, which point at sections of the home page.
func Footer(current string) []Link {
	return []Link{
		link(current, "Home", "/"),
		link(current, "Projects", "/projects"),
		link(current, "Blog", "/blog"),
		link(current, "About", "/#about"),
		link(current, "Contact", "/contact"),
	}
}

func link(current, label, href string) Link {
	path, _, _ := strings.Cut(href, "#")
	return Link{
		Label:  label,
		Href:   href,
		Active: isActive(current, path),
		Scroll: Resolve(current, href),
	}
}

// isActive keeps a section highlighted on its detail pages.
func isActive(current, path string) bool {
	current = clean(current)
	if path == "/" {
		return current == "/"
	}
	return current == path || strings.HasPrefix(current, path+"/")
}

func clean(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return "/"
	}
	if len(p) > 1 {
		p = strings.TrimSuffix(p, "/")
	}
	return p
}
