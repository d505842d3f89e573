package intent

import "testing"

func TestCELRouter_Route(t *testing.T) {
	r, err := NewCELRouter(`message.contains("recommend") || message.contains("for me")`)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		message  string
		wantKind Kind
	}{
		{"Recommend a gift", KindRecommend},
		{"something nice for me", KindRecommend},
		{"find wireless headphones", KindSearch},
	}
	for _, tt := range tests {
		got := r.Route(tt.message)
		if got.Kind != tt.wantKind {
			t.Fatalf("Route(%q).Kind = %s, want %s", tt.message, got.Kind, tt.wantKind)
		}
		if got.Kind == KindSearch && got.Query == "" {
			t.Fatalf("Route(%q) search intent with empty query", tt.message)
		}
	}
}

func TestNewCELRouter_CompileError(t *testing.T) {
	if _, err := NewCELRouter(`message.contains(`); err == nil {
		t.Fatal("NewCELRouter must reject invalid expressions")
	}
}

func TestCELRouter_NonBoolResultFallsBackToSearch(t *testing.T) {
	r, err := NewCELRouter(`message`)
	if err != nil {
		t.Fatal(err)
	}
	got := r.Route("find shoes")
	if got.Kind != KindSearch || got.Query != "shoes" {
		t.Fatalf("Route() = %+v, want search with query %q", got, "shoes")
	}
}
