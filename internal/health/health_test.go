package health

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestDescribeHealthyDatabase(t *testing.T) {
	doc := Describe(context.Background(), pingerFunc(func(context.Context) error { return nil }))

	if doc.Status != StatusUp {
		t.Fatalf("expected service status UP, got %s", doc.Status)
	}
	if doc.Components.DB.Status != StatusUp {
		t.Fatalf("expected db status UP, got %s", doc.Components.DB.Status)
	}
	if doc.Components.DB.Details.ValidationQuery != "IsValid()" {
		t.Fatalf("expected IsValid(), got %s", doc.Components.DB.Details.ValidationQuery)
	}
	if doc.Ping.Status != StatusUp {
		t.Fatalf("expected ping UP, got %s", doc.Ping.Status)
	}
}

func TestDescribeUnreachableDatabase(t *testing.T) {
	doc := Describe(context.Background(), pingerFunc(func(context.Context) error {
		return errors.New("connection refused")
	}))

	if doc.Status != StatusUp {
		t.Fatalf("expected service status UP, got %s", doc.Status)
	}
	if doc.Components.DB.Status != StatusDown {
		t.Fatalf("expected db status DOWN, got %s", doc.Components.DB.Status)
	}
	if doc.Components.DB.Details.ValidationQuery != "!IsValid()" {
		t.Fatalf("expected !IsValid(), got %s", doc.Components.DB.Details.ValidationQuery)
	}
}

func TestDescribeNilPinger(t *testing.T) {
	doc := Describe(context.Background(), nil)

	if doc.Components.DB.Status != StatusDown {
		t.Fatalf("expected db status DOWN, got %s", doc.Components.DB.Status)
	}
}

func TestDocumentShape(t *testing.T) {
	raw, err := json.Marshal(Describe(context.Background(), pingerFunc(func(context.Context) error { return nil })))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	for _, key := range []string{"status", "components", "ping"} {
		if _, ok := decoded[key]; !ok {
			t.Fatalf("expected top-level key %q in %s", key, raw)
		}
	}

	components, ok := decoded["components"].(map[string]any)
	if !ok {
		t.Fatalf("expected components object, got %T", decoded["components"])
	}
	db, ok := components["db"].(map[string]any)
	if !ok {
		t.Fatalf("expected db object, got %T", components["db"])
	}
	details, ok := db["details"].(map[string]any)
	if !ok {
		t.Fatalf("expected details object, got %T", db["details"])
	}
	if details["database"] != "PostgreSQL" {
		t.Fatalf("expected database PostgreSQL, got %v", details["database"])
	}
	if _, ok := details["validationQuery"]; !ok {
		t.Fatal("expected validationQuery key")
	}
}
