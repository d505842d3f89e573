// Package rank 提供排序阶段：特征工程 + learned ranker 重打分。
package rank

import (
	"context"
	"strings"

	"github.com/rushteam/searchkit/core"
	"github.com/rushteam/searchkit/feature"
	"github.com/rushteam/searchkit/index"
	"github.com/rushteam/searchkit/pkg/conv"
)

// 排序模型的特征名。离线训练与在线推理共用同一组名字，
// 模型文件按特征名取值，顺序无关。
const (
	FeatBM25         = "bm25_score"
	FeatCosine       = "cosine_similarity"
	FeatHybrid       = "hybrid_score"
	FeatPopularity   = "product_popularity"
	FeatCategoryPref = "user_category_preference"
	FeatQueryLength  = "query_length"
	FeatPriceMatch   = "price_match_indicator"
)

// FeatureBuilder 为每个候选构建排序特征向量。
//
// 核心特征（7 个）由请求内信号现算；Provider 非空时补充离线用户/商品侧
// 特征，Provider 取数失败只丢弃补充特征，不影响核心特征。
type FeatureBuilder struct {
	Index *index.Index

	// Provider 可选的离线特征来源（Store / Feast）
	Provider feature.Provider

	maxPopularity float64
}

// NewFeatureBuilder 创建特征构建器，popularity 归一化基准在此预计算。
func NewFeatureBuilder(idx *index.Index) *FeatureBuilder {
	b := &FeatureBuilder{Index: idx}
	for _, p := range idx.All() {
		if p.Popularity > b.maxPopularity {
			b.maxPopularity = p.Popularity
		}
	}
	return b
}

// Build 为整批候选填充 Features。
// 用户画像取 sctx.Profile 快照；无画像时类目偏好特征为 0。
func (b *FeatureBuilder) Build(ctx context.Context, sctx *core.SearchContext, candidates []*core.Candidate) {
	queryLen := float64(len(strings.Fields(sctx.Query)))

	// 请求级上下文参数里可转数值的部分也进特征（时段、渠道等）
	ctxFeats := conv.MapToFloat64(sctx.Params)

	var userFeats map[string]float64
	if b.Provider != nil && sctx.UserID != "" {
		if feats, err := b.Provider.UserFeatures(ctx, sctx.UserID); err == nil {
			userFeats = feats
		}
	}

	for _, c := range candidates {
		p, err := b.Index.Get(c.ProductID)
		if err != nil {
			continue
		}
		if c.Features == nil {
			c.Features = make(map[string]float64)
		}
		c.Features[FeatBM25] = c.Lexical
		c.Features[FeatCosine] = c.Dense
		c.Features[FeatHybrid] = c.Hybrid
		c.Features[FeatPopularity] = b.normPopularity(p.Popularity)
		c.Features[FeatCategoryPref] = sctx.Profile.PrefWeight(p.Category)
		c.Features[FeatQueryLength] = queryLen
		c.Features[FeatPriceMatch] = PriceMatchIndicator(sctx.Query, p.Price)

		for k, v := range ctxFeats {
			c.Features["ctx:"+k] = v
		}
		for k, v := range userFeats {
			c.Features["user:"+k] = v
		}
		if b.Provider != nil {
			if feats, err := b.Provider.ProductFeatures(ctx, c.ProductID); err == nil {
				for k, v := range feats {
					c.Features["product:"+k] = v
				}
			}
		}
	}
}

func (b *FeatureBuilder) normPopularity(pop float64) float64 {
	if b.maxPopularity <= 0 {
		return 0
	}
	return pop / b.maxPopularity
}

// PriceMatchIndicator 是启发式的价格匹配特征（可调占位规则）：
//   - 查询含 "cheap"/"budget"：price < 100 记 1
//   - 查询含 "premium"/"expensive"：price >= 300 记 1
//   - 其余情况记 0
//
// 价格带阈值没有硬性契约，换规则只需保证离线训练同步更新。
func PriceMatchIndicator(query string, price float64) float64 {
	q := strings.ToLower(query)
	if strings.Contains(q, "cheap") || strings.Contains(q, "budget") {
		if price < 100 {
			return 1
		}
		return 0
	}
	if strings.Contains(q, "premium") || strings.Contains(q, "expensive") {
		if price >= 300 {
			return 1
		}
		return 0
	}
	return 0
}
