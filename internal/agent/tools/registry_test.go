package tools

import (
	"context"
	"errors"
	"testing"

	apperrors "github.com/aivanahq/aivana-backend/pkg/errors"
)

type stubTool struct {
	name    string
	execute func(ctx context.Context, args map[string]any) (any, error)
}

func (s *stubTool) Name() string        { return s.name }
func (s *stubTool) Description() string { return "stub" }
func (s *stubTool) Parameters() Schema {
	return Schema{
		Type: "object",
		Properties: map[string]Property{
			"sessionId": {Type: "string"},
		},
		Required: []string{"sessionId"},
	}
}

func (s *stubTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	if s.execute != nil {
		return s.execute(ctx, args)
	}
	return map[string]any{"ok": true}, nil
}

func TestRegistryPreservesOrder(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Register(
		&stubTool{name: "alpha"},
		&stubTool{name: "bravo"},
		&stubTool{name: "charlie"},
	)

	names := r.Names()
	if len(names) != 3 {
		t.Fatalf("expected 3 names, got %d", len(names))
	}
	for i, want := range []string{"alpha", "bravo", "charlie"} {
		if names[i] != want {
			t.Fatalf("position %d: want %s, got %s", i, want, names[i])
		}
	}
}

func TestRegistryReplaceKeepsPosition(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Register(&stubTool{name: "alpha"}, &stubTool{name: "bravo"})

	replacement := &stubTool{name: "alpha", execute: func(context.Context, map[string]any) (any, error) {
		return "replaced", nil
	}}
	r.Register(replacement)

	names := r.Names()
	if names[0] != "alpha" || len(names) != 2 {
		t.Fatalf("replacement changed order: %v", names)
	}
	tool, ok := r.Get("alpha")
	if !ok {
		t.Fatal("tool missing after replacement")
	}
	out, err := tool.Execute(context.Background(), nil)
	if err != nil || out != "replaced" {
		t.Fatalf("old tool still registered: %v %v", out, err)
	}
}

func TestRegistryGetUnknown(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	if _, ok := r.Get("ghost"); ok {
		t.Fatal("expected a miss for an unregistered name")
	}
}

func TestManifestMatchesRegistrationOrder(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Register(&stubTool{name: "alpha"}, &stubTool{name: "bravo"})

	manifest := r.Manifest()
	if len(manifest) != 2 {
		t.Fatalf("expected 2 manifest entries, got %d", len(manifest))
	}
	for i, want := range []string{"alpha", "bravo"} {
		if manifest[i].OfFunction == nil {
			t.Fatalf("manifest entry %d is not a function tool", i)
		}
		fn := manifest[i].OfFunction.Function
		if fn.Name != want {
			t.Fatalf("manifest entry %d: want %s, got %s", i, want, fn.Name)
		}
		if fn.Parameters["type"] != "object" {
			t.Fatalf("manifest entry %d missing schema: %+v", i, fn.Parameters)
		}
	}
}

func TestSafeExecuteTypedError(t *testing.T) {
	t.Parallel()

	tool := &stubTool{name: "boom", execute: func(context.Context, map[string]any) (any, error) {
		return nil, apperrors.New(apperrors.CodeNotFound, "no product found matching your description")
	}}

	payload := SafeExecute(context.Background(), tool, nil)
	m, ok := payload.(map[string]any)
	if !ok {
		t.Fatalf("expected error payload, got %T", payload)
	}
	if m["error"] != "no product found matching your description" {
		t.Fatalf("typed message should surface verbatim: %v", m)
	}
}

func TestSafeExecutePlainError(t *testing.T) {
	t.Parallel()

	tool := &stubTool{name: "boom", execute: func(context.Context, map[string]any) (any, error) {
		return nil, errors.New("wires crossed")
	}}

	payload := SafeExecute(context.Background(), tool, nil)
	m := payload.(map[string]any)
	if m["error"] != "wires crossed" {
		t.Fatalf("unexpected payload: %v", m)
	}
}

func TestSafeExecuteRecoversPanic(t *testing.T) {
	t.Parallel()

	tool := &stubTool{name: "boom", execute: func(context.Context, map[string]any) (any, error) {
		panic("nil deref")
	}}

	payload := SafeExecute(context.Background(), tool, nil)
	m, ok := payload.(map[string]any)
	if !ok {
		t.Fatalf("expected error payload, got %T", payload)
	}
	if m["error"] == nil {
		t.Fatalf("panic should become an error payload: %v", m)
	}
}

func TestIntArgCoercions(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		args    map[string]any
		want    int
		wantErr bool
	}{
		{name: "missing uses fallback", args: map[string]any{}, want: 7},
		{name: "json number", args: map[string]any{"quantity": float64(3)}, want: 3},
		{name: "integer string", args: map[string]any{"quantity": "4"}, want: 4},
		{name: "garbage string", args: map[string]any{"quantity": "many"}, wantErr: true},
		{name: "wrong type", args: map[string]any{"quantity": true}, wantErr: true},
	}
	for _, tc := range cases {
		got, err := intArg(tc.args, "quantity", 7)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("%s: expected error", tc.name)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s: want %d, got %d", tc.name, tc.want, got)
		}
	}
}

func TestUUIDArgRejectsGarbage(t *testing.T) {
	t.Parallel()

	if _, err := uuidArg(map[string]any{"productId": "not-a-uuid"}, "productId"); err == nil {
		t.Fatal("expected parse error")
	}
	if _, err := uuidArg(map[string]any{}, "productId"); err == nil {
		t.Fatal("expected missing error")
	}
}
