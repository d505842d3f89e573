package pipeline

import (
	"context"
	"testing"

	"github.com/rushteam/searchkit/core"
)

// appendNode 追加一个固定候选，用于验证执行顺序。
type appendNode struct {
	id string
}

func (n *appendNode) Name() string { return "test.append." + n.id }
func (n *appendNode) Kind() Kind   { return KindPostProcess }

func (n *appendNode) Process(
	_ context.Context,
	_ *core.SearchContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	return append(candidates, core.NewCandidate(n.id)), nil
}

func TestPipeline_RunInOrder(t *testing.T) {
	p := &Pipeline{Nodes: []Node{
		&appendNode{id: "P001"},
		&appendNode{id: "P002"},
	}}
	got, err := p.Run(context.Background(), &core.SearchContext{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ProductID != "P001" || got[1].ProductID != "P002" {
		t.Fatalf("nodes did not run in order: %+v", got)
	}
}

func TestPipeline_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &Pipeline{Nodes: []Node{&appendNode{id: "P001"}}}
	if _, err := p.Run(ctx, &core.SearchContext{}, nil); err == nil {
		t.Fatal("Run() with canceled context must fail")
	}
}
