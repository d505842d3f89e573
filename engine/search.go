package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rushteam/searchkit/core"
	"github.com/rushteam/searchkit/filter"
	"github.com/rushteam/searchkit/personalize"
	"github.com/rushteam/searchkit/pipeline"
	"github.com/rushteam/searchkit/pkg/utils"
	"github.com/rushteam/searchkit/rank"
	"github.com/rushteam/searchkit/rerank"
	"github.com/rushteam/searchkit/retrieval"
)

// SearchRequest 是一次搜索请求。
// Alpha / PersonalizationWeight 传负数表示使用配置默认值（0 是合法取值，
// 不能当默认值哨兵用）。
type SearchRequest struct {
	Query  string
	UserID string

	// TopK 返回条数；<=0 时默认 10
	TopK int

	// Strategy 空串等价于 auto
	Strategy Strategy

	// Alpha 词法/稠密融合权重 ∈ [0,1]；负数 → 配置默认
	Alpha float64

	// PersonalizationWeight 个性化混合权重 ∈ [0,1]；负数 → 配置默认
	PersonalizationWeight float64

	// Params 请求级上下文参数（渠道、时段等），数值型条目进入排序特征
	Params map[string]any
}

// NewSearchRequest 创建使用默认参数的请求。
func NewSearchRequest(query string) SearchRequest {
	return SearchRequest{
		Query:                 query,
		TopK:                  10,
		Strategy:              StrategyAuto,
		Alpha:                 -1,
		PersonalizationWeight: -1,
	}
}

// SearchResult 是响应中的一条结果。
type SearchResult struct {
	Rank      int
	ProductID string
	Title     string
	Category  string
	Price     float64
	Score     float64

	// Explanation 各阶段分数摘要（面向调试/运营，不参与排序）
	Explanation string

	// Labels 该候选途经各阶段累积的标签
	Labels map[string]string
}

// SearchResponse 是一次搜索的完整响应。
type SearchResponse struct {
	Query  string
	UserID string

	// Strategy 请求的策略（auto 已解析为具体策略）
	Strategy Strategy
	// StrategyUsed 实际生效的策略；发生降级时与 Strategy 不同
	StrategyUsed Strategy

	// Personalized 个性化混合是否真正生效
	Personalized bool

	Latency time.Duration
	Results []SearchResult

	// Labels 请求级标签（降级原因等）
	Labels map[string]string
}

// Search 执行一次搜索。
//
// 空查询返回 INVALID_INPUT：检索层本身把空查询当零信号处理，
// 但引擎是对外入口，直接拒绝比返回一页零分结果更诚实。
//
// 阶段失败降级而不失败整个请求，降级必须在响应 Labels 上可见：
//   - 排序模型不可用 → 回退 hybrid，打 strategy_degraded 标签
//   - 无查询向量（无 Embedder 或全 OOV）→ dense 策略回退 bm25，
//     融合类策略退化为纯词法并打 no_query_embedding 标签
//   - 检索源超时/出错 → 部分候选集，打 partial_retrieval 标签
//   - 无画像 → 跳过个性化，Personalized=false
func (e *Engine) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	start := time.Now()

	if strings.TrimSpace(req.Query) == "" {
		return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeInvalidInput,
			"engine: empty query")
	}
	strategy, err := ParseStrategy(string(req.Strategy))
	if err != nil {
		return nil, err
	}
	topK := req.TopK
	if topK <= 0 {
		topK = 10
	}
	alpha := req.Alpha
	if alpha < 0 {
		alpha = e.cfg.Alpha
	}
	if alpha > 1 {
		alpha = 1
	}
	weight := req.PersonalizationWeight
	if weight < 0 {
		weight = e.cfg.PersonalizationWeight
	}
	if weight > 1 {
		weight = 1
	}

	sctx := &core.SearchContext{
		Query:                 req.Query,
		UserID:                req.UserID,
		Profile:               e.profiles.Profile(req.UserID),
		Alpha:                 alpha,
		PersonalizationWeight: weight,
		Params:                req.Params,
	}
	if e.embedder != nil {
		emb, err := e.embedder.Embed(ctx, req.Query)
		if err != nil {
			e.log.Warn().Err(err).Str("query", req.Query).Msg("query embedding failed")
		} else {
			sctx.QueryEmbedding = emb
		}
	}

	if strategy == StrategyAuto {
		strategy = e.resolveAuto(sctx)
	}
	candidates, used, err := e.runStrategy(ctx, sctx, strategy)
	if err != nil {
		return nil, err
	}
	candidates, err = e.postProcess(ctx, sctx, candidates, topK)
	if err != nil {
		return nil, err
	}

	resp := &SearchResponse{
		Query:        req.Query,
		UserID:       req.UserID,
		Strategy:     strategy,
		StrategyUsed: used,
		Personalized: used == StrategyPersonalized,
		Latency:      time.Since(start),
		Results:      e.buildResults(candidates),
		Labels:       labelValues(sctx.Labels),
	}
	e.log.Info().
		Str("query", req.Query).
		Str("user", req.UserID).
		Str("strategy", string(strategy)).
		Str("strategy_used", string(used)).
		Int("results", len(resp.Results)).
		Dur("latency", resp.Latency).
		Msg("search")
	return resp, nil
}

// resolveAuto 按可用信号选择信息量最大的策略：
// 有画像且权重>0 → personalized；有排序模型 → ranker；否则 hybrid。
// 画像存在即足以选 personalized，不要求排序模型同时加载；
// personalized 流程里模型是可选增强，已加载时仍会先过模型再混合。
func (e *Engine) resolveAuto(sctx *core.SearchContext) Strategy {
	if sctx.Profile != nil && len(sctx.Profile.Embedding) > 0 && sctx.PersonalizationWeight > 0 {
		return StrategyPersonalized
	}
	if e.ranker != nil {
		return StrategyRanker
	}
	return StrategyHybrid
}

// runStrategy 执行检索与打分阶段，返回候选与实际生效的策略。
func (e *Engine) runStrategy(
	ctx context.Context,
	sctx *core.SearchContext,
	strategy Strategy,
) ([]*core.Candidate, Strategy, error) {
	// dense 策略没有查询向量时退化为 bm25
	if strategy == StrategyDense && len(sctx.QueryEmbedding) == 0 {
		sctx.PutLabel("strategy_degraded",
			utils.Label{Value: "dense_unavailable", Source: "engine"})
		strategy = StrategyBM25
	}
	// 融合类策略（hybrid/ranker/personalized）没有查询向量时
	// 实际只剩词法信号，退化同样要在标签上可见
	if strategy != StrategyBM25 && strategy != StrategyDense && len(sctx.QueryEmbedding) == 0 {
		sctx.PutLabel("strategy_degraded",
			utils.Label{Value: "no_query_embedding", Source: "engine"})
	}

	var sources []retrieval.Source
	switch strategy {
	case StrategyBM25:
		sources = []retrieval.Source{e.lexical}
	case StrategyDense:
		sources = []retrieval.Source{e.dense}
	default:
		sources = []retrieval.Source{e.lexical, e.dense}
	}
	fanout := &retrieval.Fanout{Sources: sources, Timeout: e.cfg.Retrieval.Timeout.Std()}
	candidates, err := fanout.Process(ctx, sctx, nil)
	if err != nil {
		return nil, strategy, err
	}

	switch strategy {
	case StrategyBM25:
		for _, c := range candidates {
			c.Score = c.Lexical
		}
		retrieval.SortByScore(candidates)
		return candidates, StrategyBM25, nil

	case StrategyDense:
		for _, c := range candidates {
			c.Score = c.Dense
		}
		retrieval.SortByScore(candidates)
		return candidates, StrategyDense, nil
	}

	hybrid := &retrieval.HybridNode{}
	candidates, err = hybrid.Process(ctx, sctx, candidates)
	if err != nil {
		return nil, strategy, err
	}
	used := StrategyHybrid

	// personalized 策略里排序模型是可选增强，未加载时不算降级
	if strategy == StrategyRanker || (strategy == StrategyPersonalized && e.ranker != nil) {
		ranked, err := e.runRanker(ctx, sctx, candidates)
		if err != nil {
			return nil, strategy, err
		}
		if ranked != nil {
			candidates = ranked
			used = StrategyRanker
		}
	}

	if strategy == StrategyPersonalized {
		blend := &personalize.BlendNode{Index: e.index}
		candidates, err = blend.Process(ctx, sctx, candidates)
		if err != nil {
			return nil, strategy, err
		}
		if sctx.Profile != nil && len(sctx.Profile.Embedding) > 0 && sctx.PersonalizationWeight > 0 {
			used = StrategyPersonalized
		} else {
			sctx.PutLabel("strategy_degraded",
				utils.Label{Value: "no_profile", Source: "engine"})
		}
	}
	return candidates, used, nil
}

// runRanker 执行排序模型阶段。模型不可用返回 (nil, nil)，由调用方保留
// hybrid 分数并打降级标签；模型推理出错同样降级（坏模型不配拖垮请求）。
func (e *Engine) runRanker(
	ctx context.Context,
	sctx *core.SearchContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	node := &rank.RankerNode{Model: e.ranker, Features: e.features}
	ranked, err := node.Process(ctx, sctx, candidates)
	if err != nil {
		if !core.IsUnavailable(err) {
			e.log.Warn().Err(err).Msg("ranker predict failed, fall back to hybrid")
		}
		sctx.PutLabel("strategy_degraded",
			utils.Label{Value: "ranker_unavailable", Source: "engine"})
		// 恢复 hybrid 分数（模型可能已部分改写 Score）
		for _, c := range candidates {
			c.Score = c.Hybrid
		}
		retrieval.SortByScore(candidates)
		return nil, nil
	}
	return ranked, nil
}

// postProcess 执行过滤与 Top-N 截断。
func (e *Engine) postProcess(
	ctx context.Context,
	sctx *core.SearchContext,
	candidates []*core.Candidate,
	topK int,
) ([]*core.Candidate, error) {
	var nodes []pipeline.Node
	if len(e.filters) > 0 {
		nodes = append(nodes, &filter.FilterNode{Filters: e.filters})
	}
	nodes = append(nodes, &rerank.TopNNode{N: topK})
	p := &pipeline.Pipeline{Nodes: nodes}
	return p.Run(ctx, sctx, candidates)
}

func (e *Engine) buildResults(candidates []*core.Candidate) []SearchResult {
	results := make([]SearchResult, 0, len(candidates))
	for i, c := range candidates {
		r := SearchResult{
			Rank:        i + 1,
			ProductID:   c.ProductID,
			Score:       c.Score,
			Explanation: explain(c),
			Labels:      labelValues(c.Labels),
		}
		if p, err := e.index.Get(c.ProductID); err == nil {
			r.Title = p.Title
			r.Category = p.Category
			r.Price = p.Price
		}
		results = append(results, r)
	}
	return results
}

// explain 把途经阶段的分数拼成摘要（只列非零信号）。
func explain(c *core.Candidate) string {
	parts := make([]string, 0, 5)
	if c.Lexical != 0 {
		parts = append(parts, fmt.Sprintf("bm25=%.4f", c.Lexical))
	}
	if c.Dense != 0 {
		parts = append(parts, fmt.Sprintf("cosine=%.4f", c.Dense))
	}
	if c.Hybrid != 0 {
		parts = append(parts, fmt.Sprintf("hybrid=%.4f", c.Hybrid))
	}
	if c.Ranker != 0 {
		parts = append(parts, fmt.Sprintf("ranker=%.4f", c.Ranker))
	}
	if c.Personalization != 0 {
		parts = append(parts, fmt.Sprintf("affinity=%.4f", c.Personalization))
	}
	return strings.Join(parts, " ")
}

func labelValues(labels map[string]utils.Label) map[string]string {
	if len(labels) == 0 {
		return nil
	}
	out := make(map[string]string, len(labels))
	for k, lbl := range labels {
		out[k] = lbl.Value
	}
	return out
}
