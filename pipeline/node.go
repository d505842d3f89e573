package pipeline

import (
	"context"

	"github.com/rushteam/searchkit/core"
)

// Kind 用于标记 Node 类型，方便观测/治理/编排（例如按阶段打点）。
type Kind string

const (
	KindRetrieval   Kind = "retrieval"   // 检索阶段：生成候选集（词法 + 稠密）
	KindFusion      Kind = "fusion"      // 融合阶段：多路信号归一化后线性加权
	KindRank        Kind = "rank"        // 排序阶段：learned ranker 重打分
	KindPersonalize Kind = "personalize" // 个性化阶段：与用户画像亲和度混合
	KindPostProcess Kind = "postprocess" // 后处理阶段：截断、结果修饰
)

// Node 是 Pipeline 的最小可扩展单元。
// 统一采用"输入 candidates -> 输出 candidates"的形态，
// 方便检索生成、融合改写、排序重排、截断等操作。
//
// 可选阶段（rank / personalize）缺信号时应透传输入而不是报错，
// 让降级决策集中在 engine 层。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		sctx *core.SearchContext,
		candidates []*core.Candidate,
	) ([]*core.Candidate, error)
}
