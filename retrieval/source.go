// Package retrieval 提供候选检索：词法（BM25）、稠密（向量近邻）、并发 fan-out 与混合融合。
package retrieval

import (
	"context"

	"github.com/rushteam/searchkit/core"
)

// Source 表示一个可复用的检索源（词法/稠密/...）。
// 可以把它理解为"可并发 fan-out 的策略单元"：各源读取同一只读索引的
// 独立信号，彼此无顺序依赖，结果由 Fanout 确定性合并。
type Source interface {
	Name() string
	Retrieve(ctx context.Context, sctx *core.SearchContext) ([]*core.Candidate, error)
}
