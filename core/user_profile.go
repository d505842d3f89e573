package core

import "time"

// UserProfile 是从交互历史批量重算得到的用户摘要。
//
// 设计要点：
//   - Embedding: 交互商品 embedding 的加权平均（权重 = 事件权重），L2 归一化
//   - CategoryPref: 各类目权重和归一化后的分布
//   - 整体重算、整体替换（copy-on-write），不做增量修补
//   - 相同交互历史重算结果恒等（求和可交换，无随机性）
//
// 画像不存在是合法状态（新用户），调用方按"无个性化信号"处理。
type UserProfile struct {
	UserID       string
	Embedding    []float64
	CategoryPref map[string]float64
	EventCount   int
	UpdateTime   time.Time
}

// PrefWeight 返回用户对某类目的偏好权重，无画像数据时为 0。
func (p *UserProfile) PrefWeight(category string) float64 {
	if p == nil || p.CategoryPref == nil {
		return 0
	}
	return p.CategoryPref[category]
}

// PreferredCategory 返回偏好权重最高的类目；并列时取字典序最小，保证确定性。
// 无任何偏好时返回空串。
func (p *UserProfile) PreferredCategory() string {
	if p == nil || len(p.CategoryPref) == 0 {
		return ""
	}
	best := ""
	bestW := -1.0
	for cat, w := range p.CategoryPref {
		if w > bestW || (w == bestW && cat < best) {
			best = cat
			bestW = w
		}
	}
	return best
}
