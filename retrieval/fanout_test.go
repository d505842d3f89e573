package retrieval

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rushteam/searchkit/core"
	"github.com/rushteam/searchkit/pkg/utils"
)

// stubSource is an in-test retrieval source.
type stubSource struct {
	name       string
	candidates []*core.Candidate
	err        error
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Retrieve(_ context.Context, _ *core.SearchContext) ([]*core.Candidate, error) {
	return s.candidates, s.err
}

func lexCandidate(id string, score float64) *core.Candidate {
	c := core.NewCandidate(id)
	c.Lexical = score
	c.PutLabel("retrieval_source", utils.Label{Value: "lexical", Source: "retrieval"})
	return c
}

func denseCandidate(id string, score float64) *core.Candidate {
	c := core.NewCandidate(id)
	c.Dense = score
	c.PutLabel("retrieval_source", utils.Label{Value: "dense", Source: "retrieval"})
	return c
}

func TestFanout_MergesByProduct(t *testing.T) {
	fanout := &Fanout{Sources: []Source{
		&stubSource{name: "lex", candidates: []*core.Candidate{
			lexCandidate("P002", 3.0),
			lexCandidate("P001", 5.0),
		}},
		&stubSource{name: "dense", candidates: []*core.Candidate{
			denseCandidate("P001", 0.9),
			denseCandidate("P003", 0.7),
		}},
	}}

	sctx := &core.SearchContext{Query: "q"}
	got, err := fanout.Process(context.Background(), sctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("merged %d candidates, want 3", len(got))
	}
	if _, ok := sctx.GetLabel("partial_retrieval"); ok {
		t.Fatal("healthy sources must not mark the result partial")
	}
	// output ordered by product id
	want := []string{"P001", "P002", "P003"}
	for i, id := range want {
		if got[i].ProductID != id {
			t.Fatalf("order = %v, want %v", rankOf(got), want)
		}
	}
	// P001 appears in both sources: both signals kept
	if got[0].Lexical != 5.0 || got[0].Dense != 0.9 {
		t.Fatalf("P001 signals = (%v, %v), want (5.0, 0.9)", got[0].Lexical, got[0].Dense)
	}
	// merged label accumulates both sources (merge order depends on completion order)
	if lbl, ok := got[0].Labels["retrieval_source"]; !ok ||
		!strings.Contains(lbl.Value, "lexical") || !strings.Contains(lbl.Value, "dense") {
		t.Fatalf("P001 retrieval_source label = %v, want both sources", lbl)
	}
}

func TestFanout_DropsFailedSource(t *testing.T) {
	fanout := &Fanout{Sources: []Source{
		&stubSource{name: "bad", err: errors.New("backend down")},
		&stubSource{name: "lex", candidates: []*core.Candidate{lexCandidate("P001", 1.0)}},
	}}

	sctx := &core.SearchContext{Query: "q"}
	got, err := fanout.Process(context.Background(), sctx, nil)
	if err != nil {
		t.Fatalf("partial failure must not fail the request, got %v", err)
	}
	if len(got) != 1 || got[0].ProductID != "P001" {
		t.Fatalf("got %v, want only P001 from the healthy source", rankOf(got))
	}
	// the drop is signaled on the request, not silent
	lbl, ok := sctx.GetLabel("partial_retrieval")
	if !ok || lbl.Value != "bad" {
		t.Fatalf("partial_retrieval label = %v, want bad", lbl)
	}
}

func TestFanout_SignalsEveryDroppedSource(t *testing.T) {
	fanout := &Fanout{Sources: []Source{
		&stubSource{name: "vec", err: errors.New("timeout")},
		&stubSource{name: "lex", err: errors.New("backend down")},
	}}

	sctx := &core.SearchContext{Query: "q"}
	got, err := fanout.Process(context.Background(), sctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("got %d candidates, want 0", len(got))
	}
	// dropped source names accumulate in deterministic order
	lbl, ok := sctx.GetLabel("partial_retrieval")
	if !ok || lbl.Value != "lex|vec" {
		t.Fatalf("partial_retrieval label = %v, want lex|vec", lbl)
	}
}

func TestFanout_NoSources(t *testing.T) {
	fanout := &Fanout{}
	got, err := fanout.Process(context.Background(), &core.SearchContext{Query: "q"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("got %d candidates, want 0", len(got))
	}
}
