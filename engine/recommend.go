package engine

import (
	"context"
	"time"

	"github.com/rushteam/searchkit/core"
	"github.com/rushteam/searchkit/intent"
	"github.com/rushteam/searchkit/segment"
)

// ProductRecommendation 是一条推荐/相似商品结果。
type ProductRecommendation struct {
	Rank      int
	ProductID string
	Title     string
	Category  string
	Price     float64
	Score     float64

	// Reason 推荐理由：item_cooccurrence / popularity_fallback / similar_content
	Reason string
}

// ReasonSimilarContent 是 Similar 结果的固定理由。
const ReasonSimilarContent = "similar_content"

// Recommend 为用户返回无查询推荐。
// 有历史用户走共现聚合；冷启动用户降级为热门榜（reason 可区分）。
func (e *Engine) Recommend(ctx context.Context, userID string, topK int) []ProductRecommendation {
	if topK <= 0 {
		topK = 10
	}
	recs := e.cooccur.Recommend(ctx, userID, topK)
	out := make([]ProductRecommendation, 0, len(recs))
	for i, rec := range recs {
		r := ProductRecommendation{
			Rank:      i + 1,
			ProductID: rec.ProductID,
			Score:     rec.Score,
			Reason:    rec.Reason,
		}
		if p, err := e.index.Get(rec.ProductID); err == nil {
			r.Title = p.Title
			r.Category = p.Category
			r.Price = p.Price
		}
		out = append(out, r)
	}
	e.log.Debug().
		Str("user", userID).
		Int("results", len(out)).
		Msg("recommend")
	return out
}

// Similar 返回与指定商品内容最相似的商品（不含其自身）。
// 商品不存在时返回 core.ErrProductNotFound。
func (e *Engine) Similar(ctx context.Context, productID string, topK int) ([]ProductRecommendation, error) {
	if topK <= 0 {
		topK = 10
	}
	scored, err := e.dense.Similar(ctx, productID, topK)
	if err != nil {
		return nil, err
	}
	out := make([]ProductRecommendation, 0, len(scored))
	for i, s := range scored {
		r := ProductRecommendation{
			Rank:      i + 1,
			ProductID: s.ProductID,
			Score:     s.Similarity,
			Reason:    ReasonSimilarContent,
		}
		if p, err := e.index.Get(s.ProductID); err == nil {
			r.Title = p.Title
			r.Category = p.Category
			r.Price = p.Price
		}
		out = append(out, r)
	}
	return out, nil
}

// ConversationResponse 是会话入口的响应：按意图分发到搜索或推荐。
type ConversationResponse struct {
	Message string
	Intent  intent.Kind
	Router  string

	// Search 意图为 search 时非 nil
	Search *SearchResponse
	// Recommendations 意图为 recommend 时非 nil
	Recommendations []ProductRecommendation

	Latency time.Duration
}

// Conversation 处理自由文本入口：路由意图后分发。
//
//	"recommend something for me" → 推荐
//	"find wireless headphones"   → 搜索（查询取规整后的文本）
func (e *Engine) Conversation(ctx context.Context, message, userID string, topK int) (*ConversationResponse, error) {
	start := time.Now()
	it := e.router.Route(message)
	resp := &ConversationResponse{
		Message: message,
		Intent:  it.Kind,
		Router:  e.router.Name(),
	}

	switch it.Kind {
	case intent.KindRecommend:
		resp.Recommendations = e.Recommend(ctx, userID, topK)
	default:
		if it.Query == "" {
			return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeInvalidInput,
				"engine: empty query after intent routing")
		}
		req := NewSearchRequest(it.Query)
		req.UserID = userID
		req.TopK = topK
		sr, err := e.Search(ctx, req)
		if err != nil {
			return nil, err
		}
		resp.Search = sr
	}
	resp.Latency = time.Since(start)
	return resp, nil
}

// Segment 返回用户分群（零事件用户固定 low + "none"）。
func (e *Engine) Segment(userID string) segment.Segment {
	return e.segments.Segment(userID)
}

// Segments 返回全部分群标签及用户数。
func (e *Engine) Segments() map[string]int {
	return e.segments.Segments()
}

// UserProfile 返回用户画像快照；无画像返回 core.ErrProfileNotFound。
func (e *Engine) UserProfile(userID string) (*core.UserProfile, error) {
	p := e.profiles.Profile(userID)
	if p == nil {
		return nil, core.ErrProfileNotFound
	}
	return p, nil
}

// RecentItems 返回用户参与共现统计的交互物品。
func (e *Engine) RecentItems(userID string) []string {
	return e.cooccur.UserItems(userID)
}
