// Package personalize 提供用户画像的批量重算与个性化分数混合。
package personalize

import (
	"sync/atomic"
	"time"

	"github.com/rushteam/searchkit/core"
	"github.com/rushteam/searchkit/index"
	"github.com/rushteam/searchkit/pkg/utils"
)

// ProfileStore 维护全体用户画像的快照。
//
// 并发模型：
//   - Rebuild 在请求路径之外批量重算，算完用 atomic.Pointer 整体替换
//   - 读取方拿到的永远是某个完整快照：要么旧画像、要么新画像，不会半新半旧
//   - 重算不持有阻塞读请求的锁
//
// 确定性：相同事件序列重算结果恒等（加权求和可交换，无随机性）。
type ProfileStore struct {
	index    *index.Index
	profiles atomic.Pointer[map[string]*core.UserProfile]
}

func NewProfileStore(idx *index.Index) *ProfileStore {
	s := &ProfileStore{index: idx}
	empty := make(map[string]*core.UserProfile)
	s.profiles.Store(&empty)
	return s
}

// Profile 返回用户画像快照；无画像返回 nil（合法的"无个性化"状态）。
func (s *ProfileStore) Profile(userID string) *core.UserProfile {
	return (*s.profiles.Load())[userID]
}

// Size 返回当前快照中的画像数量。
func (s *ProfileStore) Size() int {
	return len(*s.profiles.Load())
}

// Rebuild 从交互事件全量重算画像并原子替换快照。
//
// 计算规则：
//   - embedding = Σ weight(event) * product.Embedding / Σ weight，再 L2 归一化
//   - CategoryPref = 各类目权重和，归一化为分布
//   - 引用未知商品的事件被跳过（目录重建后日志里可能残留旧 ID）
func (s *ProfileStore) Rebuild(events []core.InteractionEvent) {
	type acc struct {
		vec       []float64
		total     float64
		catWeight map[string]float64
		count     int
	}
	dim := s.index.Dim()
	users := make(map[string]*acc)

	for _, ev := range events {
		w := ev.Type.Weight()
		if w == 0 || ev.UserID == "" {
			continue
		}
		p, err := s.index.Get(ev.ProductID)
		if err != nil {
			continue
		}
		a, ok := users[ev.UserID]
		if !ok {
			a = &acc{catWeight: make(map[string]float64)}
			if dim > 0 {
				a.vec = make([]float64, dim)
			}
			users[ev.UserID] = a
		}
		if dim > 0 && len(p.Embedding) == dim {
			for i, x := range p.Embedding {
				a.vec[i] += w * x
			}
		}
		a.catWeight[p.Category] += w
		a.total += w
		a.count++
	}

	now := time.Now()
	next := make(map[string]*core.UserProfile, len(users))
	for userID, a := range users {
		profile := &core.UserProfile{
			UserID:       userID,
			CategoryPref: make(map[string]float64, len(a.catWeight)),
			EventCount:   a.count,
			UpdateTime:   now,
		}
		if a.total > 0 {
			for cat, w := range a.catWeight {
				profile.CategoryPref[cat] = w / a.total
			}
			if len(a.vec) > 0 {
				avg := make([]float64, len(a.vec))
				for i, x := range a.vec {
					avg[i] = x / a.total
				}
				profile.Embedding = utils.L2Normalize(avg)
			}
		}
		next[userID] = profile
	}
	s.profiles.Store(&next)
}
