package rank

import (
	"context"

	"github.com/rushteam/searchkit/core"
	"github.com/rushteam/searchkit/model"
	"github.com/rushteam/searchkit/pipeline"
	"github.com/rushteam/searchkit/pkg/utils"
	"github.com/rushteam/searchkit/retrieval"
)

// RankerNode 是一个使用 RankModel 的排序 Node（不限定模型类型，GBDT 是默认实现）。
// - 为每个候选构建特征向量并调用模型重打分
// - 写入 labels：rank_model
// - 更新 candidate.Score 并按分数降序排序（并列按 ProductID 升序）
//
// 模型未加载时返回 core.ErrRankerUnavailable；调用方应回退到 hybrid
// 分数并在响应里标记降级，而不是让整个请求失败。
type RankerNode struct {
	Model    model.RankModel
	Features *FeatureBuilder
}

func (n *RankerNode) Name() string        { return "rank.model" }
func (n *RankerNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *RankerNode) Process(
	ctx context.Context,
	sctx *core.SearchContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	if n.Model == nil {
		return nil, core.ErrRankerUnavailable
	}
	if len(candidates) == 0 {
		return candidates, nil
	}

	n.Features.Build(ctx, sctx, candidates)

	for _, c := range candidates {
		if c == nil {
			continue
		}
		score, err := n.Model.Predict(c.Features)
		if err != nil {
			return nil, err
		}
		c.Ranker = utils.Finite(score)
		c.Score = c.Ranker
		c.PutLabel("rank_model", utils.Label{Value: n.Model.Name(), Source: "rank"})
	}

	retrieval.SortByScore(candidates)
	return candidates, nil
}
