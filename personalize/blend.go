package personalize

import (
	"context"

	"github.com/rushteam/searchkit/core"
	"github.com/rushteam/searchkit/index"
	"github.com/rushteam/searchkit/pipeline"
	"github.com/rushteam/searchkit/pkg/utils"
	"github.com/rushteam/searchkit/retrieval"
)

// BlendNode 是个性化混合节点：
//
//	affinity = cosine(profile.Embedding, product.Embedding)
//	final    = (1-weight)*minmax(base) + weight*minmax(affinity)
//
// 约束：
//   - 画像为 nil（新用户）时原样透传，不得把"零画像"伪造成亲和度参与混合
//     （那会无依据地抬高/压低新用户看到的排序）；personalized 标记由 engine 维护
//   - weight=0 时排序必须与未个性化一致（minmax(base) 保序）
//   - 亲和度与 base 分数量纲不同，混合前都在当前候选集上归一化
type BlendNode struct {
	Index *index.Index
}

func (n *BlendNode) Name() string        { return "personalize.blend" }
func (n *BlendNode) Kind() pipeline.Kind { return pipeline.KindPersonalize }

func (n *BlendNode) Process(
	_ context.Context,
	sctx *core.SearchContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	profile := sctx.Profile
	if profile == nil || len(profile.Embedding) == 0 || len(candidates) == 0 {
		return candidates, nil
	}

	weight := sctx.PersonalizationWeight
	if weight > 1 {
		weight = 1
	}
	// weight=0 与未个性化的结果必须逐分一致，直接透传
	if weight <= 0 {
		return candidates, nil
	}

	base := make(map[string]float64, len(candidates))
	affinity := make(map[string]float64, len(candidates))
	for _, c := range candidates {
		base[c.ProductID] = c.Score
		if p, err := n.Index.Get(c.ProductID); err == nil {
			affinity[c.ProductID] = utils.Finite(utils.Cosine(profile.Embedding, p.Embedding))
		}
	}
	baseNorm := utils.MinMaxNormalize(base)
	affNorm := utils.MinMaxNormalize(affinity)

	for _, c := range candidates {
		c.Personalization = affinity[c.ProductID]
		c.Score = utils.Finite((1-weight)*baseNorm[c.ProductID] + weight*affNorm[c.ProductID])
		c.PutLabel("personalized", utils.Label{Value: "true", Source: "personalize"})
	}

	retrieval.SortByScore(candidates)
	return candidates, nil
}
