// Package segment 从交互历史派生用户分群：参与度档位 + 偏好类目。
package segment

import (
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/rushteam/searchkit/core"
	"github.com/rushteam/searchkit/index"
)

// Tier 是参与度档位，由全体有事件用户的 event_count 三分位数决定。
type Tier string

const (
	TierLow  Tier = "low"
	TierMid  Tier = "mid"
	TierHigh Tier = "high"
)

// NoneCategory 是零事件用户的类目哨兵值。
const NoneCategory = "none"

// Segment 是一个用户的分群结果。
type Segment struct {
	UserID            string
	Tier              Tier
	PreferredCategory string
	EventCount        int
}

// Label 按 "{tier}_({category})" 组合分群标签，同一输入恒等。
func (s Segment) Label() string {
	return fmt.Sprintf("%s_(%s)", s.Tier, s.PreferredCategory)
}

// Segmenter 维护全体用户的分群快照。
// 与画像/共现一致：请求路径之外全量重算、原子替换，服务期间只读。
type Segmenter struct {
	index *index.Index
	snap  atomic.Pointer[segSnapshot]
}

type segSnapshot struct {
	users  map[string]Segment
	counts map[string]int // label -> user count
}

func NewSegmenter(idx *index.Index) *Segmenter {
	s := &Segmenter{index: idx}
	s.snap.Store(&segSnapshot{
		users:  make(map[string]Segment),
		counts: make(map[string]int),
	})
	return s
}

// Segment 返回用户分群。
// 零事件/未知用户固定返回最低档位 + "none" 类目，不报错。
func (s *Segmenter) Segment(userID string) Segment {
	if seg, ok := s.snap.Load().users[userID]; ok {
		return seg
	}
	return Segment{
		UserID:            userID,
		Tier:              TierLow,
		PreferredCategory: NoneCategory,
	}
}

// Segments 返回全部分群标签及其用户数。
func (s *Segmenter) Segments() map[string]int {
	snap := s.snap.Load()
	out := make(map[string]int, len(snap.counts))
	for label, n := range snap.counts {
		out[label] = n
	}
	return out
}

// Rebuild 从交互事件全量重算分群并原子替换快照。
//
// 规则：
//   - 只统计有意向事件（click/cart/purchase），与共现模型口径一致
//   - 档位边界 = 有事件用户 event_count 的 1/3、2/3 分位数
//   - 偏好类目 = 事件权重累积最高的类目（并列取字典序最小，保证确定性）
func (s *Segmenter) Rebuild(events []core.InteractionEvent) {
	type acc struct {
		count   int
		catPref map[string]float64
	}
	users := make(map[string]*acc)
	for _, ev := range events {
		if ev.Type != core.EventClick && ev.Type != core.EventCart && ev.Type != core.EventPurchase {
			continue
		}
		p, err := s.index.Get(ev.ProductID)
		if err != nil {
			continue
		}
		a, ok := users[ev.UserID]
		if !ok {
			a = &acc{catPref: make(map[string]float64)}
			users[ev.UserID] = a
		}
		a.count++
		a.catPref[p.Category] += ev.Type.Weight()
	}

	counts := make([]int, 0, len(users))
	for _, a := range users {
		counts = append(counts, a.count)
	}
	t1, t2 := tercileBounds(counts)

	next := &segSnapshot{
		users:  make(map[string]Segment, len(users)),
		counts: make(map[string]int),
	}
	for userID, a := range users {
		seg := Segment{
			UserID:            userID,
			Tier:              tierOf(a.count, t1, t2),
			PreferredCategory: argmaxCategory(a.catPref),
			EventCount:        a.count,
		}
		next.users[userID] = seg
		next.counts[seg.Label()]++
	}
	s.snap.Store(next)
}

func tercileBounds(counts []int) (float64, float64) {
	sort.Ints(counts)
	if len(counts) < 3 {
		// 用户太少时退化为单一边界：全部归 low/high
		if len(counts) == 0 {
			return 0, 1
		}
		return 0, float64(counts[len(counts)-1])
	}
	return quantile(counts, 1.0/3), quantile(counts, 2.0/3)
}

// quantile 线性插值分位数（与 pandas 默认口径一致），输入需升序。
func quantile(sorted []int, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(pos)
	if lo >= len(sorted)-1 {
		return float64(sorted[len(sorted)-1])
	}
	frac := pos - float64(lo)
	return float64(sorted[lo]) + frac*float64(sorted[lo+1]-sorted[lo])
}

func tierOf(count int, t1, t2 float64) Tier {
	c := float64(count)
	switch {
	case c <= t1:
		return TierLow
	case c <= t2:
		return TierMid
	default:
		return TierHigh
	}
}

func argmaxCategory(catPref map[string]float64) string {
	if len(catPref) == 0 {
		return NoneCategory
	}
	best := ""
	bestW := -1.0
	for cat, w := range catPref {
		if w > bestW || (w == bestW && cat < best) {
			best = cat
			bestW = w
		}
	}
	return best
}
