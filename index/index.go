// Package index 提供商品目录索引：离线构建、启动时加载、服务期间只读。
package index

import (
	"sort"
	"strings"

	"github.com/rushteam/searchkit/core"
)

// Index 是不可变的商品目录索引。
//
// 设计要点：
//   - Build 成功后只读，并发读取无需加锁
//   - 目录重建走 reload-and-replace（整个换掉 Index 实例），不做原地修补
//   - 预切好词法检索用的 token 序列，避免每次请求重复分词
type Index struct {
	products map[string]*core.Product
	ordered  []*core.Product // 按 ProductID 升序，保证 All() 遍历确定性
	tokens   map[string][]string
	dim      int
}

// Build 从商品列表构建索引。
// 任一 embedding 维度不一致或 ProductID 重复时返回 *core.IndexBuildError（启动期致命）。
func Build(products []*core.Product) (*Index, error) {
	idx := &Index{
		products: make(map[string]*core.Product, len(products)),
		ordered:  make([]*core.Product, 0, len(products)),
		tokens:   make(map[string][]string, len(products)),
	}

	for _, p := range products {
		if p == nil || p.ID == "" {
			return nil, &core.IndexBuildError{Reason: "empty product id"}
		}
		if _, ok := idx.products[p.ID]; ok {
			return nil, &core.IndexBuildError{ProductID: p.ID, Reason: "duplicate product id"}
		}
		if len(p.Embedding) > 0 {
			if idx.dim == 0 {
				idx.dim = len(p.Embedding)
			} else if len(p.Embedding) != idx.dim {
				return nil, &core.IndexBuildError{ProductID: p.ID, Reason: "embedding dimension mismatch"}
			}
		}
		idx.products[p.ID] = p
		idx.ordered = append(idx.ordered, p)
		idx.tokens[p.ID] = Tokenize(p.Text())
	}

	// 有任一商品带 embedding 时，要求全部商品都带
	if idx.dim > 0 {
		for _, p := range idx.ordered {
			if len(p.Embedding) == 0 {
				return nil, &core.IndexBuildError{ProductID: p.ID, Reason: "missing embedding"}
			}
		}
	}

	sort.Slice(idx.ordered, func(i, j int) bool {
		return idx.ordered[i].ID < idx.ordered[j].ID
	})
	return idx, nil
}

// Get 按 ID 取商品；不存在时返回 core.ErrProductNotFound。
func (idx *Index) Get(productID string) (*core.Product, error) {
	p, ok := idx.products[productID]
	if !ok {
		return nil, core.ErrProductNotFound
	}
	return p, nil
}

// All 返回全部商品（按 ProductID 升序）。调用方不得修改返回的切片与商品。
func (idx *Index) All() []*core.Product {
	return idx.ordered
}

// Tokens 返回商品 title+description 的预切词结果。
func (idx *Index) Tokens(productID string) []string {
	return idx.tokens[productID]
}

// Dim 返回 embedding 维度；目录无 embedding 时为 0。
func (idx *Index) Dim() int {
	return idx.dim
}

// Size 返回商品数量。
func (idx *Index) Size() int {
	return len(idx.ordered)
}

// Tokenize 是目录与查询共用的分词：小写 + 空白切分。
// 与离线构建 embedding 时的文本预处理保持一致。
func Tokenize(text string) []string {
	return strings.Fields(strings.ToLower(text))
}
