package filter

import (
	"context"
	"testing"

	"github.com/rushteam/searchkit/core"
	"github.com/rushteam/searchkit/store"
)

func candidates(ids ...string) []*core.Candidate {
	out := make([]*core.Candidate, 0, len(ids))
	for _, id := range ids {
		out = append(out, core.NewCandidate(id))
	}
	return out
}

func TestFilterNode_Blacklist(t *testing.T) {
	node := &FilterNode{Filters: []Filter{NewBlacklist([]string{"P002"})}}
	got, err := node.Process(context.Background(), &core.SearchContext{}, candidates("P001", "P002", "P003"))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("filtered to %d candidates, want 2", len(got))
	}
	for _, c := range got {
		if c.ProductID == "P002" {
			t.Fatal("blacklisted P002 must be removed")
		}
	}
}

func TestFilterNode_NoFilters(t *testing.T) {
	node := &FilterNode{}
	in := candidates("P001")
	got, err := node.Process(context.Background(), &core.SearchContext{}, in)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1", len(got))
	}
}

func TestBlacklist_StoreBacked(t *testing.T) {
	ms := store.NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()
	if err := ms.HSet(ctx, "blacklist:products", "P001", []byte("1")); err != nil {
		t.Fatal(err)
	}

	f := &Blacklist{Store: ms, Key: "blacklist:products"}
	drop, err := f.ShouldFilter(ctx, &core.SearchContext{}, core.NewCandidate("P001"))
	if err != nil || !drop {
		t.Fatalf("ShouldFilter(P001) = %v, %v, want true", drop, err)
	}
	drop, err = f.ShouldFilter(ctx, &core.SearchContext{}, core.NewCandidate("P002"))
	if err != nil || drop {
		t.Fatalf("ShouldFilter(P002) = %v, %v, want false", drop, err)
	}
}
