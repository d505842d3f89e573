package filter

import (
	"context"

	"github.com/rushteam/searchkit/core"
	"github.com/rushteam/searchkit/pipeline"
	"github.com/rushteam/searchkit/pkg/utils"
)

// FilterNode 是过滤 Node，可以组合多个过滤器进行过滤。
// 如果任何一个过滤器返回 true，该候选就会被剔除。
// 单个过滤器出错时跳过该过滤器，不中断请求（降级优于失败）。
type FilterNode struct {
	Filters []Filter
}

func (n *FilterNode) Name() string {
	return "filter.node"
}

func (n *FilterNode) Kind() pipeline.Kind {
	return pipeline.KindPostProcess
}

func (n *FilterNode) Process(
	ctx context.Context,
	sctx *core.SearchContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	if len(n.Filters) == 0 || len(candidates) == 0 {
		return candidates, nil
	}

	out := make([]*core.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c == nil {
			continue
		}

		drop := false
		reason := ""
		for _, f := range n.Filters {
			ok, err := f.ShouldFilter(ctx, sctx, c)
			if err != nil {
				continue
			}
			if ok {
				drop = true
				reason = f.Name()
				break
			}
		}

		if drop {
			c.PutLabel("filtered", utils.Label{Value: "true", Source: reason})
			continue
		}
		out = append(out, c)
	}
	return out, nil
}
