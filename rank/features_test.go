package rank

import (
	"context"
	"testing"

	"github.com/rushteam/searchkit/core"
	"github.com/rushteam/searchkit/index"
)

func rankFixture(t *testing.T) *index.Index {
	t.Helper()
	idx, err := index.Build([]*core.Product{
		{ID: "P001", Category: "electronics", Price: 89.99, Popularity: 100},
		{ID: "P002", Category: "sports", Price: 350.00, Popularity: 50},
	})
	if err != nil {
		t.Fatal(err)
	}
	return idx
}

func TestFeatureBuilder_Build(t *testing.T) {
	b := NewFeatureBuilder(rankFixture(t))
	sctx := &core.SearchContext{
		Query: "cheap wireless headphones",
		Profile: &core.UserProfile{
			CategoryPref: map[string]float64{"electronics": 0.8, "sports": 0.2},
		},
	}
	c := core.NewCandidate("P001")
	c.Lexical = 2.5
	c.Dense = 0.7
	c.Hybrid = 0.9

	b.Build(context.Background(), sctx, []*core.Candidate{c})

	want := map[string]float64{
		FeatBM25:         2.5,
		FeatCosine:       0.7,
		FeatHybrid:       0.9,
		FeatPopularity:   1.0, // 100 / max(100)
		FeatCategoryPref: 0.8,
		FeatQueryLength:  3,
		FeatPriceMatch:   1, // "cheap" and price < 100
	}
	for k, v := range want {
		if c.Features[k] != v {
			t.Fatalf("feature %s = %v, want %v", k, c.Features[k], v)
		}
	}
}

func TestFeatureBuilder_ContextParams(t *testing.T) {
	b := NewFeatureBuilder(rankFixture(t))
	sctx := &core.SearchContext{
		Query:  "headphones",
		Params: map[string]any{"hour_of_day": 14, "channel": "app"},
	}
	c := core.NewCandidate("P001")
	b.Build(context.Background(), sctx, []*core.Candidate{c})

	if c.Features["ctx:hour_of_day"] != 14 {
		t.Fatalf("ctx:hour_of_day = %v, want 14", c.Features["ctx:hour_of_day"])
	}
	// non-numeric params are skipped
	if _, ok := c.Features["ctx:channel"]; ok {
		t.Fatal("non-numeric param must not become a feature")
	}
}

func TestFeatureBuilder_NoProfile(t *testing.T) {
	b := NewFeatureBuilder(rankFixture(t))
	sctx := &core.SearchContext{Query: "headphones"}
	c := core.NewCandidate("P001")

	b.Build(context.Background(), sctx, []*core.Candidate{c})
	if c.Features[FeatCategoryPref] != 0 {
		t.Fatalf("category pref without profile = %v, want 0", c.Features[FeatCategoryPref])
	}
}

func TestPriceMatchIndicator(t *testing.T) {
	tests := []struct {
		query string
		price float64
		want  float64
	}{
		{"cheap headphones", 50, 1},
		{"cheap headphones", 150, 0},
		{"budget speaker", 99.99, 1},
		{"premium laptop", 350, 1},
		{"premium laptop", 250, 0},
		{"expensive watch", 300, 1},
		{"headphones", 50, 0},
	}
	for _, tt := range tests {
		if got := PriceMatchIndicator(tt.query, tt.price); got != tt.want {
			t.Fatalf("PriceMatchIndicator(%q, %v) = %v, want %v", tt.query, tt.price, got, tt.want)
		}
	}
}
