package abn

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestUnwrapJSONP(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		body string
		want string
	}{
		"wrapped":             {body: `callback({"a":1})`, want: `{"a":1}`},
		"trailing semicolon":  {body: "callback({\"a\":1});\n", want: `{"a":1}`},
		"not wrapped":         {body: ` {"a":1} `, want: `{"a":1}`},
		"other callback kept": {body: `other({"a":1})`, want: `other({"a":1})`},
	}
	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if diff := cmp.Diff(tt.want, string(unwrapJSONP([]byte(tt.body), "callback"))); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestCauses(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		reply any
		want  []string
	}{
		"no violations": {
			reply: map[string]any{"type": "SUCCESS", "result": map[string]any{"execution-results": map[string]any{"results": []any{}}}},
		},
		"nested causes": {
			reply: map[string]any{
				"result": map[string]any{
					"execution-results": map[string]any{
						"results": []any{
							map[string]any{"value": []any{
								map[string]any{"com.myspace.datavalidation.ValidationError": map[string]any{"cause": "Name too short"}},
								map[string]any{"com.myspace.datavalidation.ValidationError": map[string]any{"cause": "ABN is not active"}},
								map[string]any{"com.myspace.datavalidation.ValidationError": map[string]any{"cause": "Name too short"}},
							}},
						},
					},
				},
			},
			want: []string{"Name too short", "ABN is not active"},
		},
		"null cause ignored": {
			reply: map[string]any{"cause": nil},
		},
		"top level array": {
			reply: []any{[]any{map[string]any{"cause": 42.0}}},
			want:  []string{"42"},
		},
	}
	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if diff := cmp.Diff(tt.want, causes(tt.reply, nil)); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestBatch(t *testing.T) {
	t.Parallel()

	got := batch(Entity{Name: "Ada", Abn: "51824753556"})
	commands := got["commands"].([]map[string]any)
	if len(commands) != 4 || got["lookup"] != "statelessSession" {
		t.Fatalf("batch: got %v", got)
	}
	insert := commands[1]["insert"].(map[string]any)["object"].(map[string]any)
	if diff := cmp.Diff(Entity{Name: "Ada", Abn: "51824753556"}, insert["com.myspace.datavalidation.Entity"]); diff != "" {
		t.Errorf("entity (-want +got):\n%s", diff)
	}
}
