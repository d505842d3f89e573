package intent

import "testing"

func TestRuleRouter_Route(t *testing.T) {
	tests := []struct {
		message   string
		wantKind  Kind
		wantQuery string
	}{
		{"recommend something", KindRecommend, ""},
		{"any suggestions?", KindRecommend, ""},
		{"what should i buy", KindRecommend, ""},
		{"Show me wireless headphones", KindSearch, "wireless headphones"},
		{"find me running shoes", KindSearch, "running shoes"},
		{"search for coffee maker", KindSearch, "coffee maker"},
		{"i need a yoga mat", KindSearch, "a yoga mat"},
		{"wireless headphones", KindSearch, "wireless headphones"},
		{"  LOOKING FOR laptop  ", KindSearch, "laptop"},
	}
	r := &RuleRouter{}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			got := r.Route(tt.message)
			if got.Kind != tt.wantKind {
				t.Fatalf("Route(%q).Kind = %s, want %s", tt.message, got.Kind, tt.wantKind)
			}
			if got.Query != tt.wantQuery {
				t.Fatalf("Route(%q).Query = %q, want %q", tt.message, got.Query, tt.wantQuery)
			}
		})
	}
}

func TestNormalizeQuery_StripsOnePrefix(t *testing.T) {
	// only the first matching prefix is stripped
	if got := NormalizeQuery("find find me"); got != "find me" {
		t.Fatalf("NormalizeQuery = %q, want %q", got, "find me")
	}
}
