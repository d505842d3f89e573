package core

import "github.com/rushteam/searchkit/pkg/utils"

// Candidate 是一次搜索请求内的统一承载结构：各阶段分数、特征、标签。
// 请求结束即丢弃，不跨请求复用。
//
// 分数字段按流水线阶段填充：
//   Lexical / Dense  ← 检索阶段
//   Hybrid           ← 融合阶段
//   Ranker           ← 排序阶段（可选）
//   Personalization  ← 个性化阶段（可选）
//   Score            ← 最终排序依据
type Candidate struct {
	ProductID string
	Score     float64

	Lexical         float64
	Dense           float64
	Hybrid          float64
	Ranker          float64
	Personalization float64

	Features map[string]float64
	Labels   map[string]utils.Label
}

func NewCandidate(productID string) *Candidate {
	return &Candidate{
		ProductID: productID,
		Features:  make(map[string]float64),
		Labels:    make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (c *Candidate) PutLabel(key string, lbl utils.Label) {
	if c.Labels == nil {
		c.Labels = make(map[string]utils.Label)
	}
	if old, ok := c.Labels[key]; ok {
		c.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	c.Labels[key] = lbl
}
