package retrieval

import (
	"context"
	"sort"

	"github.com/rushteam/searchkit/core"
	"github.com/rushteam/searchkit/index"
	"github.com/rushteam/searchkit/pkg/utils"
)

// ScoredID 是 (商品 ID, 相似度) 对。
type ScoredID struct {
	ProductID  string
	Similarity float64
}

// DenseRetriever 是基于 embedding 余弦相似度的稠密检索源。
//
// 目录是有界内存集合，直接做精确近邻（暴力扫描）而不是近似索引；
// 相似度可以为负，不设固定阈值。
// 查询向量由外部 Embedder 生成并放在 SearchContext.QueryEmbedding 上。
type DenseRetriever struct {
	Index *index.Index

	// TopK 每次检索返回的近邻数；<=0 时默认 50
	TopK int
}

func NewDenseRetriever(idx *index.Index) *DenseRetriever {
	return &DenseRetriever{Index: idx, TopK: 50}
}

func (r *DenseRetriever) Name() string { return "retrieval.dense" }

// Search 返回与查询向量最相似的至多 k 个商品，按相似度降序，
// 并列时按 ProductID 升序保证确定性。
func (r *DenseRetriever) Search(ctx context.Context, queryEmbedding []float64, k int) ([]ScoredID, error) {
	if len(queryEmbedding) == 0 || r.Index.Dim() == 0 {
		return nil, nil
	}
	if k <= 0 {
		k = r.TopK
	}

	all := r.Index.All()
	scored := make([]ScoredID, 0, len(all))
	for i, p := range all {
		// 暴力扫描较长，周期性检查取消
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		scored = append(scored, ScoredID{
			ProductID:  p.ID,
			Similarity: utils.Finite(utils.Cosine(queryEmbedding, p.Embedding)),
		})
	}
	sortScored(scored)
	if len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}

// Similar 返回与指定商品内容最相似的至多 k 个其他商品（不含其自身）。
// 商品不存在时返回 core.ErrProductNotFound。
func (r *DenseRetriever) Similar(ctx context.Context, productID string, k int) ([]ScoredID, error) {
	p, err := r.Index.Get(productID)
	if err != nil {
		return nil, err
	}
	scored, err := r.Search(ctx, p.Embedding, r.Index.Size())
	if err != nil {
		return nil, err
	}
	out := make([]ScoredID, 0, k)
	for _, s := range scored {
		if s.ProductID == productID {
			continue
		}
		out = append(out, s)
		if len(out) >= k {
			break
		}
	}
	return out, nil
}

// Retrieve 实现 Source 接口。
func (r *DenseRetriever) Retrieve(
	ctx context.Context,
	sctx *core.SearchContext,
) ([]*core.Candidate, error) {
	scored, err := r.Search(ctx, sctx.QueryEmbedding, r.TopK)
	if err != nil {
		return nil, err
	}
	out := make([]*core.Candidate, 0, len(scored))
	for _, s := range scored {
		c := core.NewCandidate(s.ProductID)
		c.Dense = s.Similarity
		c.Score = s.Similarity
		c.PutLabel("retrieval_source", utils.Label{Value: "dense", Source: "retrieval"})
		out = append(out, c)
	}
	return out, nil
}

func sortScored(scored []ScoredID) {
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Similarity != scored[j].Similarity {
			return scored[i].Similarity > scored[j].Similarity
		}
		return scored[i].ProductID < scored[j].ProductID
	})
}
