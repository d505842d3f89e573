// Package recommend 提供基于物品共现的 item-to-item 推荐（无查询的发现场景）。
package recommend

import (
	"context"
	"sort"
	"sync/atomic"

	"github.com/rushteam/searchkit/core"
	"github.com/rushteam/searchkit/index"
)

// 单用户参与共现的历史条数上限，防止重度用户主导全局统计。
const maxRecentItems = 20

// 事件驱动热门榜在 Store 里的有序集合 key。
const hotItemsKey = "items:hot"

// Recommendation 是一条推荐结果。
type Recommendation struct {
	ProductID string
	Score     float64
	Reason    string // item_cooccurrence / popularity_fallback
}

// 推荐理由常量。
const (
	ReasonCoOccurrence       = "item_cooccurrence"
	ReasonPopularityFallback = "popularity_fallback"
)

// CoOccurrence 是物品共现模型。
//
// 构建：同一用户交互过的物品两两计一次共现（对称计数）。
// 并发模型与 ProfileStore 一致：请求路径之外全量重建、原子替换快照，
// 服务期间只读。
type CoOccurrence struct {
	index *index.Index
	model atomic.Pointer[coModel]

	// Store 可选：配置后 SyncHot 把事件权重聚合成热门榜写入有序集合，
	// 冷启动兜底优先读该榜（比目录的静态 popularity 更跟手）
	Store core.KeyValueStore

	// HotKey 热门榜 key，空串用默认 items:hot
	HotKey string
}

// coModel 是一次重建产出的不可变快照。
type coModel struct {
	counts    map[string]map[string]float64 // product -> co-product -> strength
	userItems map[string][]string           // user -> 有序去重的交互物品
}

func NewCoOccurrence(idx *index.Index) *CoOccurrence {
	c := &CoOccurrence{index: idx}
	c.model.Store(&coModel{
		counts:    make(map[string]map[string]float64),
		userItems: make(map[string][]string),
	})
	return c
}

// Rebuild 从交互事件全量重建共现矩阵并原子替换快照。
// 事件应按时间升序传入；每个用户取最近 maxRecentItems 个去重物品。
func (c *CoOccurrence) Rebuild(events []core.InteractionEvent) {
	perUser := make(map[string][]string)
	for _, ev := range events {
		// 只取有明确意向的事件；浏览噪声太大，不参与共现
		if ev.Type != core.EventClick && ev.Type != core.EventCart && ev.Type != core.EventPurchase {
			continue
		}
		if _, err := c.index.Get(ev.ProductID); err != nil {
			continue
		}
		perUser[ev.UserID] = append(perUser[ev.UserID], ev.ProductID)
	}

	next := &coModel{
		counts:    make(map[string]map[string]float64),
		userItems: make(map[string][]string, len(perUser)),
	}
	for userID, items := range perUser {
		deduped := dedupOrdered(items)
		if len(deduped) > maxRecentItems {
			deduped = deduped[len(deduped)-maxRecentItems:]
		}
		next.userItems[userID] = deduped

		for i := 0; i < len(deduped); i++ {
			for j := i + 1; j < len(deduped); j++ {
				a, b := deduped[i], deduped[j]
				addCount(next.counts, a, b)
				addCount(next.counts, b, a)
			}
		}
	}
	c.model.Store(next)
}

// UserItems 返回用户参与共现统计的交互物品（快照）。
func (c *CoOccurrence) UserItems(userID string) []string {
	return c.model.Load().userItems[userID]
}

// Recommend 为用户聚合其交互物品的共现强度，排除已交互物品，
// 返回至多 topK 条，按聚合强度降序；并列按 popularity 降序、ProductID 升序。
//
// 无历史用户（冷启动）返回热门商品兜底（popularity_fallback）——
// 这是明确选择：发现场景给空列表体验太差，热门榜是确定性的保底信号。
func (c *CoOccurrence) Recommend(ctx context.Context, userID string, topK int) []Recommendation {
	if topK <= 0 {
		return nil
	}
	m := c.model.Load()
	userItems := m.userItems[userID]
	if len(userItems) == 0 {
		return c.popularityFallback(ctx, topK)
	}

	seen := make(map[string]struct{}, len(userItems))
	for _, id := range userItems {
		seen[id] = struct{}{}
	}
	scores := make(map[string]float64)
	for _, id := range userItems {
		for co, cnt := range m.counts[id] {
			if _, ok := seen[co]; ok {
				continue
			}
			scores[co] += cnt
		}
	}
	if len(scores) == 0 {
		return c.popularityFallback(ctx, topK)
	}

	var maxScore float64
	for _, s := range scores {
		if s > maxScore {
			maxScore = s
		}
	}
	out := make([]Recommendation, 0, len(scores))
	for id, s := range scores {
		if maxScore > 0 {
			s = s / maxScore
		}
		out = append(out, Recommendation{ProductID: id, Score: s, Reason: ReasonCoOccurrence})
	}
	c.sortRecs(out)
	if len(out) > topK {
		out = out[:topK]
	}
	return out
}

// SyncHot 把事件按隐式权重聚合成商品热度，写入 Store 的热门榜。
// 全量重算全量覆盖，与快照重建同节奏调用。未配置 Store 时为空操作。
func (c *CoOccurrence) SyncHot(ctx context.Context, events []core.InteractionEvent) error {
	if c.Store == nil {
		return nil
	}
	scores := make(map[string]float64)
	for _, ev := range events {
		if !ev.Type.Valid() {
			continue
		}
		if _, err := c.index.Get(ev.ProductID); err != nil {
			continue
		}
		scores[ev.ProductID] += ev.Type.Weight()
	}
	for id, score := range scores {
		if err := c.Store.ZAdd(ctx, c.hotKey(), score, id); err != nil {
			return err
		}
	}
	return nil
}

func (c *CoOccurrence) hotKey() string {
	if c.HotKey != "" {
		return c.HotKey
	}
	return hotItemsKey
}

func (c *CoOccurrence) popularityFallback(ctx context.Context, topK int) []Recommendation {
	if recs := c.hotFromStore(ctx, topK); len(recs) > 0 {
		return recs
	}
	all := c.index.All()
	var maxPop float64
	for _, p := range all {
		if p.Popularity > maxPop {
			maxPop = p.Popularity
		}
	}
	out := make([]Recommendation, 0, len(all))
	for _, p := range all {
		score := p.Popularity
		if maxPop > 0 {
			score = score / maxPop
		}
		out = append(out, Recommendation{ProductID: p.ID, Score: score, Reason: ReasonPopularityFallback})
	}
	c.sortRecs(out)
	if len(out) > topK {
		out = out[:topK]
	}
	return out
}

// hotFromStore 读取事件驱动的热门榜，按最大分归一化。
// Store 未配置、读失败或榜为空时返回 nil，由目录 popularity 接手。
func (c *CoOccurrence) hotFromStore(ctx context.Context, topK int) []Recommendation {
	if c.Store == nil {
		return nil
	}
	members, err := c.Store.ZRange(ctx, c.hotKey(), 0, int64(topK-1))
	if err != nil || len(members) == 0 {
		return nil
	}

	scores := make([]float64, len(members))
	var maxScore float64
	for i, id := range members {
		if s, err := c.Store.ZScore(ctx, c.hotKey(), id); err == nil {
			scores[i] = s
		}
		if scores[i] > maxScore {
			maxScore = scores[i]
		}
	}
	out := make([]Recommendation, 0, len(members))
	for i, id := range members {
		score := scores[i]
		if maxScore > 0 {
			score = score / maxScore
		}
		out = append(out, Recommendation{ProductID: id, Score: score, Reason: ReasonPopularityFallback})
	}
	return out
}

func (c *CoOccurrence) sortRecs(recs []Recommendation) {
	pop := func(id string) float64 {
		if p, err := c.index.Get(id); err == nil {
			return p.Popularity
		}
		return 0
	}
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		pi, pj := pop(recs[i].ProductID), pop(recs[j].ProductID)
		if pi != pj {
			return pi > pj
		}
		return recs[i].ProductID < recs[j].ProductID
	})
}

func dedupOrdered(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, id := range items {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func addCount(counts map[string]map[string]float64, a, b string) {
	if counts[a] == nil {
		counts[a] = make(map[string]float64)
	}
	counts[a][b]++
}
