package abn_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"formrelay/internal/abn"
	"formrelay/internal/formjson"
	"formrelay/internal/validation"
)

type ruleCall struct {
	path       string
	user, pass string
	entity     abn.Entity
}

// newDecisionServer starts a stand-in rules engine. Each path answers with
// the causes listed for it; other paths report no violation.
func newDecisionServer(t *testing.T, causes map[string][]string) (*httptest.Server, chan ruleCall) {
	t.Helper()

	calls := make(chan ruleCall, 8)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		var req struct {
			Lookup   string `json:"lookup"`
			Commands []struct {
				Insert struct {
					Object map[string]abn.Entity `json:"object"`
				} `json:"insert"`
			} `json:"commands"`
		}
		if err := json.Unmarshal(data, &req); err != nil || len(req.Commands) != 4 {
			t.Errorf("rules request: %s", data)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		user, pass, _ := r.BasicAuth()
		calls <- ruleCall{
			path:   r.URL.Path,
			user:   user,
			pass:   pass,
			entity: req.Commands[1].Insert.Object["com.myspace.datavalidation.Entity"],
		}

		values := []any{}
		for _, c := range causes[r.URL.Path] {
			values = append(values, map[string]any{"com.myspace.datavalidation.ValidationError": map[string]any{"cause": c}})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"type": "SUCCESS",
			"result": map[string]any{"execution-results": map[string]any{
				"results": []any{map[string]any{"key": "error-results", "value": values}},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, calls
}

func newService(t *testing.T, registerURL string, servers abn.RuleServers) *abn.Service {
	t.Helper()

	client := validation.NewClient(time.Second)
	return abn.NewService(
		abn.NewLookup(client, registerURL, "guid", "callback"),
		abn.NewRules(client, servers),
	)
}

func TestApplicantFromForm(t *testing.T) {
	t.Parallel()

	form := formjson.Serialize([]formjson.FieldEntry{
		{Name: "firstName", Value: " Ada "},
		{Name: "abn", Value: "51824753556"},
		{Name: "abn", Value: "ignored"},
	})
	want := abn.Applicant{FirstName: "Ada", ABN: "51824753556"}
	if diff := cmp.Diff(want, abn.ApplicantFromForm(form)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestService_FormTest(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		status    int
		body      string
		applicant abn.Applicant
		want      abn.Result
	}{
		"active abn": {
			status:    http.StatusOK,
			body:      `callback({"AbnStatus":"Active","EntityName":"ACME PTY LTD"})`,
			applicant: abn.Applicant{FirstName: "Ada", LastName: "Lovelace", ABN: "51824753556"},
			want:      abn.Result{ValidFirstName: true, ValidLastName: true, AbnStatus: true, Message: "ACME PTY LTD"},
		},
		"cancelled abn": {
			status:    http.StatusOK,
			body:      `callback({"AbnStatus":"Cancelled","EntityName":"OLD PTY LTD"})`,
			applicant: abn.Applicant{FirstName: "Ada", ABN: "51824753556"},
			want:      abn.Result{ValidFirstName: true, Message: "OLD PTY LTD"},
		},
		"register message wins": {
			status:    http.StatusOK,
			body:      `callback({"AbnStatus":"","Message":"Search text is not a valid ABN or ACN"})`,
			applicant: abn.Applicant{ABN: "123"},
			want:      abn.Result{Message: "Search text is not a valid ABN or ACN"},
		},
		"register down": {
			status:    http.StatusBadGateway,
			applicant: abn.Applicant{LastName: "Lovelace", ABN: "51824753556"},
			want:      abn.Result{ValidLastName: true, Message: "ABN lookup failed"},
		},
	}
	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			srv, _ := newRegister(t, tt.status, tt.body)
			svc := newService(t, srv.URL, abn.RuleServers{})

			got := svc.FormTest(context.Background(), tt.applicant)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestService_FormTest_NoABNSkipsRegister(t *testing.T) {
	t.Parallel()

	srv, seen := newRegister(t, http.StatusOK, `callback({})`)
	svc := newService(t, srv.URL, abn.RuleServers{})

	got := svc.FormTest(context.Background(), abn.Applicant{FirstName: "Ada"})
	if diff := cmp.Diff(abn.Result{ValidFirstName: true}, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if len(seen) != 0 {
		t.Error("register called without an ABN")
	}
}

func TestService_Lookup_MissingABN(t *testing.T) {
	t.Parallel()

	svc := newService(t, "http://127.0.0.1:1", abn.RuleServers{})
	if _, err := svc.Lookup(context.Background(), "  "); !errors.Is(err, abn.ErrMissingABN) {
		t.Fatalf("want ErrMissingABN, got %v", err)
	}
}

func TestService_CheckRules(t *testing.T) {
	t.Parallel()

	srv, calls := newDecisionServer(t, map[string][]string{
		"/lastname": {"Last name must not contain digits"},
		"/abn":      {"ABN is not active", "Last name must not contain digits"},
	})
	svc := newService(t, "http://127.0.0.1:1", abn.RuleServers{
		FirstName: srv.URL + "/name",
		LastName:  srv.URL + "/lastname",
		ABN:       srv.URL + "/abn",
		Username:  "dm",
		Password:  "changeme",
	})

	applicant := abn.Applicant{FirstName: "Ada", LastName: "L0velace", ABN: "51824753556"}
	got, err := svc.CheckRules(context.Background(), applicant)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := abn.Result{
		ValidFirstName: true,
		Message:        "ABN is not active; Last name must not contain digits",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	entity := abn.Entity{Name: "Ada", LastName: "L0velace", Abn: "51824753556"}
	var paths []string
	for i := 0; i < 3; i++ {
		c := <-calls
		paths = append(paths, c.path)
		if c.user != "dm" || c.pass != "changeme" {
			t.Errorf("%s basic auth: got %q/%q", c.path, c.user, c.pass)
		}
		if diff := cmp.Diff(entity, c.entity); diff != "" {
			t.Errorf("%s entity (-want +got):\n%s", c.path, diff)
		}
	}
	if diff := cmp.Diff([]string{"/abn", "/name", "/lastname"}, paths); diff != "" {
		t.Errorf("call order (-want +got):\n%s", diff)
	}
}

func TestService_CheckRules_SkipsEmptyAndUnconfigured(t *testing.T) {
	t.Parallel()

	srv, calls := newDecisionServer(t, nil)
	svc := newService(t, "http://127.0.0.1:1", abn.RuleServers{FirstName: srv.URL + "/name"})

	got, err := svc.CheckRules(context.Background(), abn.Applicant{FirstName: "Ada", LastName: "Lovelace"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(abn.Result{ValidFirstName: true}, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if len(calls) != 1 {
		t.Errorf("want 1 rules call, got %d", len(calls))
	}
}

func TestService_CheckRules_ServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	svc := newService(t, "http://127.0.0.1:1", abn.RuleServers{ABN: srv.URL})
	if _, err := svc.CheckRules(context.Background(), abn.Applicant{ABN: "51824753556"}); err == nil {
		t.Fatal("expected error")
	}
}
