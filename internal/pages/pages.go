// Package pages holds per-page relay settings: which validation endpoint a
// page submits to and how the reply is written back into the page.
package pages

import (
	"errors"
	"fmt"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"

	"formrelay/internal/validation"
)

// Binding writes Label followed by the text of response field Field into the
// page element with id Element.
type Binding struct {
	Element string `yaml:"element" json:"element"`
	Label   string `yaml:"label" json:"label"`
	Field   string `yaml:"field" json:"field"`
}

// Page is one form page and the endpoint its submissions are relayed to.
type Page struct {
	Name     string    `yaml:"name" json:"name"`
	Endpoint string    `yaml:"endpoint" json:"endpoint"`
	Username string    `yaml:"username" json:"-"`
	Password string    `yaml:"password" json:"-"`
	Bindings []Binding `yaml:"bindings" json:"bindings"`
	Reveal   []string  `yaml:"reveal" json:"reveal,omitempty"`
}

// Target returns the validation target for p.
func (p Page) Target() validation.Target {
	return validation.Target{URL: p.Endpoint, Username: p.Username, Password: p.Password}
}

// Endpoints observed for the two bundled pages.
const (
	DefaultCurrencyEndpoint = "http://currencyvalidation-currency-rules.apps.cluster-anz-f723.anz-f723.openshiftworkshop.com/camel/currency/validate"
	DefaultFormEndpoint     = "http://dm-demo-default.apps.cluster-anz-f723.anz-f723.openshiftworkshop.com/form"
)

// Defaults returns the currency and demo form pages. Empty arguments keep the
// default endpoints.
func Defaults(currencyEndpoint, formEndpoint string) []Page {
	if currencyEndpoint == "" {
		currencyEndpoint = DefaultCurrencyEndpoint
	}
	if formEndpoint == "" {
		formEndpoint = DefaultFormEndpoint
	}
	return []Page{
		{
			Name:     "currency",
			Endpoint: currencyEndpoint,
			Bindings: []Binding{
				{Element: "_message", Label: "Currency code is valid: ", Field: "valid"},
			},
			Reveal: []string{"hide-me"},
		},
		{
			Name:     "form",
			Endpoint: formEndpoint,
			Bindings: []Binding{
				{Element: "_firstNameValid", Label: "First Name Valid: ", Field: "validFirstName"},
				{Element: "_lastNameValid", Label: "Last Name Valid: ", Field: "validLastName"},
				{Element: "_abnStatus", Label: "ABN Status: ", Field: "abnStatus"},
				{Element: "_message", Label: "Message: ", Field: "message"},
			},
			Reveal: []string{"hide-me"},
		},
	}
}

// Registry is a validated, ordered set of pages.
type Registry struct {
	order []string
	pages map[string]Page
}

// NewRegistry validates pages and indexes them by name.
func NewRegistry(pages ...Page) (*Registry, error) {
	r := &Registry{pages: make(map[string]Page, len(pages))}
	var errs []error
	for i, p := range pages {
		if err := validate(p); err != nil {
			errs = append(errs, fmt.Errorf("page %d: %w", i, err))
			continue
		}
		if _, dup := r.pages[p.Name]; dup {
			errs = append(errs, fmt.Errorf("page %d: duplicate name %q", i, p.Name))
			continue
		}
		r.order = append(r.order, p.Name)
		r.pages[p.Name] = p
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("pages: %w", errors.Join(errs...))
	}
	if len(r.order) == 0 {
		return nil, fmt.Errorf("pages: no pages configured")
	}
	return r, nil
}

// Lookup returns the page called name.
func (r *Registry) Lookup(name string) (Page, bool) {
	p, ok := r.pages[name]
	return p, ok
}

// List returns every page in configuration order.
func (r *Registry) List() []Page {
	out := make([]Page, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.pages[name])
	}
	return out
}

func validate(p Page) error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	u, err := url.Parse(p.Endpoint)
	if err != nil {
		return fmt.Errorf("%s: invalid endpoint: %w", p.Name, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s: endpoint must be an absolute http(s) URL", p.Name)
	}
	for j, b := range p.Bindings {
		if b.Element == "" || b.Field == "" {
			return fmt.Errorf("%s: binding %d needs element and field", p.Name, j)
		}
	}
	return nil
}

type file struct {
	Pages []Page `yaml:"pages"`
}

// Load reads a YAML pages file and returns its registry.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pages: %w", err)
	}
	return Parse(data)
}

// Parse builds a registry from YAML data of the form:
//
//	pages:
//	  - name: currency
//	    endpoint: https://rules.example.com/currency/validate
//	    bindings:
//	      - element: _message
//	        label: "Currency code is valid: "
//	        field: valid
//	    reveal: [hide-me]
func Parse(data []byte) (*Registry, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("pages: parse: %w", err)
	}
	return NewRegistry(f.Pages...)
}
