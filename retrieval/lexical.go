package retrieval

import (
	"context"
	"math"

	"github.com/rushteam/searchkit/core"
	"github.com/rushteam/searchkit/index"
	"github.com/rushteam/searchkit/pkg/utils"
)

// BM25 参数默认值（Okapi 常用取值）。
const (
	defaultK1 = 1.5
	defaultB  = 0.75
)

// LexicalRetriever 是基于 BM25（Okapi）的词法检索源。
//
// 打分对象是商品的 title + description token：
//   - 与查询无共同词项的商品得分为 0（不做平滑，不让无关商品浮上来）
//   - 空查询对所有商品统一打 0 分（"无词法信号"，不是错误）
//
// 文档频率与平均长度在构造时预计算，服务期间只读。
type LexicalRetriever struct {
	Index *index.Index

	K1 float64
	B  float64

	df     map[string]int // term -> document frequency
	avgLen float64
}

// NewLexicalRetriever 基于索引预计算 BM25 统计量。
func NewLexicalRetriever(idx *index.Index) *LexicalRetriever {
	r := &LexicalRetriever{
		Index: idx,
		K1:    defaultK1,
		B:     defaultB,
		df:    make(map[string]int),
	}
	total := 0
	for _, p := range idx.All() {
		tokens := idx.Tokens(p.ID)
		total += len(tokens)
		seen := make(map[string]struct{}, len(tokens))
		for _, t := range tokens {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			r.df[t]++
		}
	}
	if n := idx.Size(); n > 0 {
		r.avgLen = float64(total) / float64(n)
	}
	return r
}

func (r *LexicalRetriever) Name() string { return "retrieval.lexical" }

// Score 返回查询对全部商品的 BM25 分数表。
// 空/空白查询返回全 0。
func (r *LexicalRetriever) Score(query string) map[string]float64 {
	scores := make(map[string]float64, r.Index.Size())
	terms := index.Tokenize(query)
	for _, p := range r.Index.All() {
		scores[p.ID] = 0
	}
	if len(terms) == 0 {
		return scores
	}

	n := float64(r.Index.Size())
	for _, p := range r.Index.All() {
		tokens := r.Index.Tokens(p.ID)
		if len(tokens) == 0 {
			continue
		}
		tf := make(map[string]int, len(tokens))
		for _, t := range tokens {
			tf[t]++
		}
		docLen := float64(len(tokens))
		var score float64
		for _, term := range terms {
			freq := float64(tf[term])
			if freq == 0 {
				continue
			}
			df := float64(r.df[term])
			// +1 变体保证 idf 非负，避免高频词把分数拉成负数
			idf := math.Log((n-df+0.5)/(df+0.5) + 1)
			denom := freq + r.K1*(1-r.B+r.B*docLen/r.avgLen)
			score += idf * freq * (r.K1 + 1) / denom
		}
		scores[p.ID] = score
	}
	return scores
}

// Retrieve 实现 Source 接口：只产出与查询有词项交集（分数 > 0）的候选。
func (r *LexicalRetriever) Retrieve(
	_ context.Context,
	sctx *core.SearchContext,
) ([]*core.Candidate, error) {
	scores := r.Score(sctx.Query)
	out := make([]*core.Candidate, 0, len(scores))
	for _, p := range r.Index.All() {
		s := scores[p.ID]
		if s <= 0 {
			continue
		}
		c := core.NewCandidate(p.ID)
		c.Lexical = s
		c.Score = s
		c.PutLabel("retrieval_source", utils.Label{Value: "lexical", Source: "retrieval"})
		out = append(out, c)
	}
	return out, nil
}
