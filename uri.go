package restclient

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/yosida95/uritemplate/v3"
)

// URIBuilder assembles a URI from path segments and query parameters.
type URIBuilder interface {
	Path(segments ...string) URIBuilder
	Query(name string, values ...string) URIBuilder
	Build() (*url.URL, error)
}

// URIBuilderFactory resolves URI templates against a base URL.
type URIBuilderFactory interface {
	// Expand resolves a template with positional variables, matched to the
	// template's variable names in order of first appearance.
	Expand(template string, vars ...any) (*url.URL, error)
	// ExpandNamed resolves a template with named variables.
	ExpandNamed(template string, vars map[string]any) (*url.URL, error)
	// Builder returns a fresh URIBuilder rooted at the factory's base URL.
	Builder() URIBuilder
}

// DefaultURIBuilderFactory resolves RFC 6570 templates relative to a base
// URL. Templates that are already absolute URLs are used as-is; an empty
// template resolves to the base URL itself.
type DefaultURIBuilderFactory struct {
	baseURL string
}

// NewURIBuilderFactory creates a factory with the given base URL, which may
// be empty.
func NewURIBuilderFactory(baseURL string) *DefaultURIBuilderFactory {
	return &DefaultURIBuilderFactory{baseURL: baseURL}
}

var templateVarPattern = regexp.MustCompile(`\{([+#./;?&]?)([^{}]+)\}`)

// templateVarNames returns the template's variable names in order of first
// appearance, which defines the binding order for positional expansion.
func templateVarNames(template string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, match := range templateVarPattern.FindAllStringSubmatch(template, -1) {
		for _, spec := range strings.Split(match[2], ",") {
			name := strings.TrimSuffix(spec, "*")
			if idx := strings.IndexByte(name, ':'); idx != -1 {
				name = name[:idx]
			}
			if name != "" && !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

// Expand implements URIBuilderFactory.
func (f *DefaultURIBuilderFactory) Expand(template string, vars ...any) (*url.URL, error) {
	names := templateVarNames(template)
	if len(vars) < len(names) {
		return nil, fmt.Errorf("restclient: template %q needs %d variables, got %d",
			template, len(names), len(vars))
	}
	named := make(map[string]any, len(names))
	for i, name := range names {
		named[name] = vars[i]
	}
	return f.ExpandNamed(template, named)
}

// ExpandNamed implements URIBuilderFactory.
func (f *DefaultURIBuilderFactory) ExpandNamed(template string, vars map[string]any) (*url.URL, error) {
	if template == "" {
		return f.resolve("")
	}
	tmpl, err := uritemplate.New(template)
	if err != nil {
		return nil, fmt.Errorf("restclient: parse template %q: %w", template, err)
	}
	values := uritemplate.Values{}
	for name, v := range vars {
		values.Set(name, uritemplate.String(fmt.Sprint(v)))
	}
	expanded, err := tmpl.Expand(values)
	if err != nil {
		return nil, fmt.Errorf("restclient: expand template %q: %w", template, err)
	}
	return f.resolve(expanded)
}

// Builder implements URIBuilderFactory.
func (f *DefaultURIBuilderFactory) Builder() URIBuilder {
	return &defaultURIBuilder{base: f.baseURL, query: url.Values{}}
}

// resolve joins an expanded path onto the base URL. Absolute URLs bypass
// the base entirely.
func (f *DefaultURIBuilderFactory) resolve(expanded string) (*url.URL, error) {
	switch {
	case strings.HasPrefix(expanded, "http://") || strings.HasPrefix(expanded, "https://"):
		return url.Parse(expanded)
	case f.baseURL == "":
		return url.Parse(expanded)
	case expanded == "":
		return url.Parse(f.baseURL)
	default:
		joined := strings.TrimRight(f.baseURL, "/") + "/" + strings.TrimLeft(expanded, "/")
		return url.Parse(joined)
	}
}

type defaultURIBuilder struct {
	base     string
	segments []string
	query    url.Values
}

func (b *defaultURIBuilder) Path(segments ...string) URIBuilder {
	b.segments = append(b.segments, segments...)
	return b
}

func (b *defaultURIBuilder) Query(name string, values ...string) URIBuilder {
	for _, v := range values {
		b.query.Add(name, v)
	}
	return b
}

func (b *defaultURIBuilder) Build() (*url.URL, error) {
	path := b.base
	for _, segment := range b.segments {
		path = strings.TrimRight(path, "/") + "/" + strings.TrimLeft(segment, "/")
	}
	u, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("restclient: build uri: %w", err)
	}
	if len(b.query) > 0 {
		q := u.Query()
		for name, values := range b.query {
			for _, v := range values {
				q.Add(name, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u, nil
}
