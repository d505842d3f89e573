package retrieval

import (
	"context"
	"fmt"
	"sort"

	"github.com/rushteam/searchkit/core"
	"github.com/rushteam/searchkit/pipeline"
	"github.com/rushteam/searchkit/pkg/utils"
)

// HybridNode 是融合节点：把词法与稠密分数归一化后按 alpha 线性加权。
//
//	hybrid = alpha*minmax(lexical) + (1-alpha)*minmax(dense)
//
// 约束：
//   - 原始 BM25 与原始余弦相似度量纲不同，融合前必须先在当前候选集上归一化
//   - 只出现在单一检索源的商品，另一信号归一化后按 0 计，不剔除
//   - alpha=1 时排序等价于纯词法；alpha=0 时等价于纯稠密
//   - 输出严格全序：分数并列按 ProductID 升序
type HybridNode struct{}

func (n *HybridNode) Name() string        { return "fusion.hybrid" }
func (n *HybridNode) Kind() pipeline.Kind { return pipeline.KindFusion }

func (n *HybridNode) Process(
	_ context.Context,
	sctx *core.SearchContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	if len(candidates) == 0 {
		return candidates, nil
	}
	alpha := sctx.Alpha
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}

	lexical := make(map[string]float64, len(candidates))
	dense := make(map[string]float64, len(candidates))
	for _, c := range candidates {
		lexical[c.ProductID] = c.Lexical
		dense[c.ProductID] = c.Dense
	}
	lexNorm := utils.MinMaxNormalize(lexical)
	denseNorm := utils.MinMaxNormalize(dense)

	for _, c := range candidates {
		c.Hybrid = utils.Finite(alpha*lexNorm[c.ProductID] + (1-alpha)*denseNorm[c.ProductID])
		c.Score = c.Hybrid
		c.PutLabel("fusion_alpha", utils.Label{Value: fmt.Sprintf("%.2f", alpha), Source: "fusion"})
	}

	SortByScore(candidates)
	return candidates, nil
}

// SortByScore 按最终分数降序排序，分数并列时按 ProductID 升序（确定性 tie-break）。
func SortByScore(candidates []*core.Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].ProductID < candidates[j].ProductID
	})
}
