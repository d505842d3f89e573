package core

import "github.com/rushteam/searchkit/pkg/utils"

// SearchContext 承载一次请求的查询/用户/参数信息，贯穿整个 Pipeline 透传。
//
// Profile 是请求开始时取的画像快照：个性化阶段只读该快照，
// 请求中途的画像重算不会影响本次请求（要么旧画像、要么新画像，不会半新半旧）。
type SearchContext struct {
	Query  string
	UserID string

	// Profile 画像快照，nil 表示无画像（新用户），个性化阶段直接透传
	Profile *UserProfile

	// QueryEmbedding 由外部 Embedder 生成，nil 表示无稠密信号
	QueryEmbedding []float64

	// Alpha 词法/稠密融合权重 ∈ [0,1]
	Alpha float64

	// PersonalizationWeight 个性化混合权重 ∈ [0,1]
	PersonalizationWeight float64

	// Labels 请求级标签：策略降级、explain 等信号回传
	Labels map[string]utils.Label

	// Params 请求级上下文参数
	Params map[string]any
}

// PutLabel 写入请求级 Label。
func (sctx *SearchContext) PutLabel(key string, lbl utils.Label) {
	if sctx.Labels == nil {
		sctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := sctx.Labels[key]; ok {
		sctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	sctx.Labels[key] = lbl
}

// GetLabel 获取请求级 Label。
func (sctx *SearchContext) GetLabel(key string) (utils.Label, bool) {
	if sctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := sctx.Labels[key]
	return lbl, ok
}
