package abn

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"formrelay/internal/validation"
)

// Rule session names understood by the decision server.
const (
	sessionLookup = "statelessSession"
	serviceGlobal = "com.redhat.demo.abnclient.Client"
	entityClass   = "com.myspace.datavalidation.Entity"
	resultsOut    = "error-results"
	errorsQuery   = "get_validation_error"
)

// Entity is the fact inserted into a rules session.
type Entity struct {
	Name     string `json:"name,omitempty"`
	LastName string `json:"lastName,omitempty"`
	Abn      string `json:"abn,omitempty"`
}

// RuleServers holds the decision server endpoint for each checked field and
// the basic auth credentials shared by all of them.
type RuleServers struct {
	FirstName string
	LastName  string
	ABN       string
	Username  string
	Password  string
}

// Rules runs applicant checks on a decision server.
type Rules struct {
	poster  Poster
	servers RuleServers
}

// NewRules returns a Rules client for servers.
func NewRules(poster Poster, servers RuleServers) *Rules {
	return &Rules{poster: poster, servers: servers}
}

// Check runs the rule batch for e on endpoint and returns the violation
// causes it reports. No causes means the rules passed.
func (r *Rules) Check(ctx context.Context, endpoint string, e Entity) ([]string, error) {
	target := validation.Target{URL: endpoint, Username: r.servers.Username, Password: r.servers.Password}
	body, err := r.poster.Post(ctx, target, batch(e))
	if err != nil {
		return nil, fmt.Errorf("abn: rules %s: %w", endpoint, err)
	}

	var reply any
	if err := json.Unmarshal(body, &reply); err != nil {
		return nil, fmt.Errorf("abn: decode rules response: %w", err)
	}
	return causes(reply, nil), nil
}

// batch builds the command list: set the service global, insert the entity,
// fire the rules and query the validation errors.
func batch(e Entity) map[string]any {
	return map[string]any{
		"lookup": sessionLookup,
		"commands": []map[string]any{
			{"set-global": map[string]any{
				"identifier": "service",
				"object":     map[string]any{serviceGlobal: struct{}{}},
			}},
			{"insert": map[string]any{
				"object": map[string]any{entityClass: e},
			}},
			{"fire-all-rules": ""},
			{"query": map[string]any{
				"out-identifier": resultsOut,
				"name":           errorsQuery,
			}},
		},
	}
}

// causes collects the scalar values stored under "cause" keys anywhere in v,
// without duplicates.
func causes(v any, out []string) []string {
	switch t := v.(type) {
	case map[string]any:
		for _, key := range slices.Sorted(maps.Keys(t)) {
			switch child := t[key].(type) {
			case map[string]any, []any:
				out = causes(child, out)
			case nil:
			default:
				if key != "cause" {
					continue
				}
				if msg := fmt.Sprint(child); !slices.Contains(out, msg) {
					out = append(out, msg)
				}
			}
		}
	case []any:
		for _, item := range t {
			out = causes(item, out)
		}
	}
	return out
}
