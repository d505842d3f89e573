package index

import (
	"errors"
	"testing"

	"github.com/rushteam/searchkit/core"
)

func TestBuild_Validation(t *testing.T) {
	tests := []struct {
		name     string
		products []*core.Product
		wantErr  bool
	}{
		{
			name: "valid catalog",
			products: []*core.Product{
				{ID: "P001", Title: "a", Embedding: []float64{1, 0}},
				{ID: "P002", Title: "b", Embedding: []float64{0, 1}},
			},
		},
		{
			name: "valid catalog without embeddings",
			products: []*core.Product{
				{ID: "P001", Title: "a"},
				{ID: "P002", Title: "b"},
			},
		},
		{
			name:     "empty product id",
			products: []*core.Product{{ID: "", Title: "a"}},
			wantErr:  true,
		},
		{
			name: "duplicate product id",
			products: []*core.Product{
				{ID: "P001", Title: "a"},
				{ID: "P001", Title: "b"},
			},
			wantErr: true,
		},
		{
			name: "embedding dimension mismatch",
			products: []*core.Product{
				{ID: "P001", Embedding: []float64{1, 0}},
				{ID: "P002", Embedding: []float64{1, 0, 0}},
			},
			wantErr: true,
		},
		{
			name: "partially missing embedding",
			products: []*core.Product{
				{ID: "P001", Embedding: []float64{1, 0}},
				{ID: "P002"},
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.products)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Build() error = %v, wantErr = %v", err, tt.wantErr)
			}
			if err != nil {
				var buildErr *core.IndexBuildError
				if !errors.As(err, &buildErr) {
					t.Fatalf("Build() error type = %T, want *core.IndexBuildError", err)
				}
			}
		})
	}
}

func TestIndex_GetAndAll(t *testing.T) {
	idx, err := Build([]*core.Product{
		{ID: "P003", Title: "c"},
		{ID: "P001", Title: "a"},
		{ID: "P002", Title: "b"},
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := idx.Get("P002"); err != nil {
		t.Fatalf("Get(P002) error = %v", err)
	}
	if _, err := idx.Get("missing"); !core.IsNotFound(err) {
		t.Fatalf("Get(missing) error = %v, want NOT_FOUND", err)
	}

	// All must be ordered by product id regardless of input order
	all := idx.All()
	want := []string{"P001", "P002", "P003"}
	for i, p := range all {
		if p.ID != want[i] {
			t.Fatalf("All()[%d] = %s, want %s", i, p.ID, want[i])
		}
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("Wireless  Headphones\tPro")
	want := []string{"wireless", "headphones", "pro"}
	if len(got) != len(want) {
		t.Fatalf("Tokenize() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Tokenize()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}
