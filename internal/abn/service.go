package abn

import (
	"context"
	"errors"
	"slices"
	"strings"

	"go.uber.org/zap"

	"formrelay/internal/formjson"
	"formrelay/internal/logger"
)

// ErrMissingABN is returned when a lookup has no ABN to look up.
var ErrMissingABN = errors.New("abn: no ABN given")

// Applicant is the data entered on the demo form.
type Applicant struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	ABN       string `json:"abn"`
}

// ApplicantFromForm reads the applicant fields of a serialized form. Repeated
// fields use their first value.
func ApplicantFromForm(f formjson.SerializedForm) Applicant {
	field := func(name string) string {
		v, _ := f.Get(name)
		return strings.TrimSpace(v.String())
	}
	return Applicant{
		FirstName: field("firstName"),
		LastName:  field("lastName"),
		ABN:       field("abn"),
	}
}

// Result is what the demo form displays. All fields are always present.
type Result struct {
	ValidFirstName bool   `json:"validFirstName"`
	ValidLastName  bool   `json:"validLastName"`
	AbnStatus      bool   `json:"abnStatus"`
	Message        string `json:"message"`
}

// Service answers the validation requests of the demo form.
type Service struct {
	lookup *Lookup
	rules  *Rules
}

// NewService returns a Service using lookup for register queries and rules
// for rule checks.
func NewService(lookup *Lookup, rules *Rules) *Service {
	return &Service{lookup: lookup, rules: rules}
}

// Lookup returns the register entry for abn.
func (s *Service) Lookup(ctx context.Context, abn string) (Details, error) {
	abn = strings.TrimSpace(abn)
	if abn == "" {
		return Details{}, ErrMissingABN
	}
	return s.lookup.Details(ctx, abn)
}

// FormTest checks a without the rules engine: names are valid when present
// and the ABN is valid when the register lists it as active. The message is
// the register's message, or the entity name when there is none.
func (s *Service) FormTest(ctx context.Context, a Applicant) Result {
	res := Result{
		ValidFirstName: a.FirstName != "",
		ValidLastName:  a.LastName != "",
	}
	if a.ABN == "" {
		return res
	}

	d, err := s.lookup.Details(ctx, a.ABN)
	if err != nil {
		logger.Error("abn lookup failed", err, zap.String("abn", a.ABN))
		res.Message = "ABN lookup failed"
		return res
	}
	res.AbnStatus = d.Active()
	res.Message = d.Message
	if res.Message == "" {
		res.Message = d.EntityName
	}
	return res
}

// CheckRules runs each entered field through its rule server. A field is
// valid when its server reports no violation; fields left empty or without a
// configured server stay invalid. The message lists the violation causes.
func (s *Service) CheckRules(ctx context.Context, a Applicant) (Result, error) {
	entity := Entity{Name: a.FirstName, LastName: a.LastName, Abn: a.ABN}
	servers := s.rules.servers

	var (
		res    Result
		failed []string
	)
	checks := []struct {
		field    string
		value    string
		endpoint string
		valid    *bool
	}{
		{"abn", a.ABN, servers.ABN, &res.AbnStatus},
		{"firstName", a.FirstName, servers.FirstName, &res.ValidFirstName},
		{"lastName", a.LastName, servers.LastName, &res.ValidLastName},
	}
	for _, c := range checks {
		if c.value == "" {
			continue
		}
		if c.endpoint == "" {
			logger.Warn("no rule server configured", zap.String("field", c.field))
			continue
		}
		found, err := s.rules.Check(ctx, c.endpoint, entity)
		if err != nil {
			return Result{}, err
		}
		*c.valid = len(found) == 0
		for _, cause := range found {
			if !slices.Contains(failed, cause) {
				failed = append(failed, cause)
			}
		}
	}
	res.Message = strings.Join(failed, "; ")
	return res, nil
}
