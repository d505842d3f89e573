package filter

import (
	"context"

	"github.com/rushteam/searchkit/core"
)

// Blacklist 是商品黑名单过滤器：命中列表的商品被剔除（下架、违规等）。
// 优先从 Store 的 Hash 读取（可在线更新），Store 为空时使用内存 IDs。
type Blacklist struct {
	Store core.KeyValueStore
	Key   string // Hash key，例如 "blacklist:products"
	IDs   []string

	ids map[string]struct{}
}

// NewBlacklist 创建内存黑名单过滤器。
func NewBlacklist(ids []string) *Blacklist {
	b := &Blacklist{IDs: ids, ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		b.ids[id] = struct{}{}
	}
	return b
}

func (f *Blacklist) Name() string { return "filter.blacklist" }

func (f *Blacklist) ShouldFilter(ctx context.Context, _ *core.SearchContext, c *core.Candidate) (bool, error) {
	if f.Store != nil && f.Key != "" {
		if _, err := f.Store.HGet(ctx, f.Key, c.ProductID); err == nil {
			return true, nil
		} else if !core.IsStoreNotFound(err) {
			return false, err
		}
	}
	if f.ids == nil && len(f.IDs) > 0 {
		f.ids = make(map[string]struct{}, len(f.IDs))
		for _, id := range f.IDs {
			f.ids[id] = struct{}{}
		}
	}
	_, ok := f.ids[c.ProductID]
	return ok, nil
}
