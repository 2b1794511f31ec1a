package store_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"formrelay/internal/formjson"
	"formrelay/internal/store"
)

func TestCanTransition(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		from, to string
		want     bool
	}{
		"pending to completed":  {from: store.StatusPending, to: store.StatusCompleted, want: true},
		"pending to failed":     {from: store.StatusPending, to: store.StatusFailed, want: true},
		"pending to pending":    {from: store.StatusPending, to: store.StatusPending},
		"completed to failed":   {from: store.StatusCompleted, to: store.StatusFailed},
		"failed to completed":   {from: store.StatusFailed, to: store.StatusCompleted},
		"unknown source status": {from: "archived", to: store.StatusCompleted},
	}
	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if got := store.CanTransition(tt.from, tt.to); got != tt.want {
				t.Errorf("CanTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestFilter_Normalize(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input store.Filter
		want  store.Filter
	}{
		"defaults": {
			input: store.Filter{},
			want:  store.Filter{Sort: "created_at", Direction: "DESC", PageNum: 1, Limit: 10},
		},
		"limit above maximum": {
			input: store.Filter{PageNum: 3, Limit: 500},
			want:  store.Filter{Sort: "created_at", Direction: "DESC", PageNum: 3, Limit: 10},
		},
		"lower case direction": {
			input: store.Filter{Sort: "status", Direction: "asc", PageNum: 2, Limit: 25},
			want:  store.Filter{Sort: "status", Direction: "ASC", PageNum: 2, Limit: 25},
		},
		"unknown sort column": {
			input: store.Filter{Sort: "payload; DROP TABLE submissions", Direction: "sideways"},
			want:  store.Filter{Sort: "created_at", Direction: "DESC", PageNum: 1, Limit: 10},
		},
		"filters kept": {
			input: store.Filter{Page: "currency", Status: store.StatusFailed},
			want:  store.Filter{Page: "currency", Status: store.StatusFailed, Sort: "created_at", Direction: "DESC", PageNum: 1, Limit: 10},
		},
	}
	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if diff := cmp.Diff(tt.want, tt.input.Normalize()); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestSubmission_JSON(t *testing.T) {
	t.Parallel()

	sub := store.Submission{
		ID:     "2b1e6f5e-7a0c-4b3a-9d7e-1f0c2a3b4c5d",
		Page:   "currency",
		Status: store.StatusCompleted,
		Payload: formjson.Serialize([]formjson.FieldEntry{
			{Name: "code", Value: "AUD"},
		}),
		Response: json.RawMessage(`{"valid":true}`),
	}
	data, err := json.Marshal(sub)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"code": "AUD"}, got["payload"]); diff != "" {
		t.Errorf("payload (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any{"valid": true}, got["response"]); diff != "" {
		t.Errorf("response (-want +got):\n%s", diff)
	}
	if _, ok := got["error"]; ok {
		t.Error("error should be omitted when nil")
	}
}
