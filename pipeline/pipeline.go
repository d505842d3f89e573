package pipeline

import (
	"context"

	"github.com/rushteam/searchkit/core"
)

// Pipeline 是 searchkit 的核心抽象：把一次搜索请求拆成可组合的 Node 链。
// 每次请求单向流过一遍（检索 → 融合 → 排序 → 个性化），无跨请求状态。
type Pipeline struct {
	Nodes []Node
}

// Run 依次执行各 Node。每个 Node 之间检查 ctx 取消，
// 客户端断开时停止后续阶段，但不影响其他在途请求与共享状态。
func (p *Pipeline) Run(
	ctx context.Context,
	sctx *core.SearchContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	cur := candidates
	for _, node := range p.Nodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next, err := node.Process(ctx, sctx, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
