package engine

import (
	"fmt"

	"github.com/rushteam/searchkit/core"
)

// Strategy 是检索/排序策略。
type Strategy string

const (
	// StrategyBM25 纯词法（BM25）
	StrategyBM25 Strategy = "bm25"
	// StrategyDense 纯稠密（embedding 余弦相似度）
	StrategyDense Strategy = "dense"
	// StrategyHybrid 词法+稠密融合
	StrategyHybrid Strategy = "hybrid"
	// StrategyRanker 融合后叠加排序模型重打分
	StrategyRanker Strategy = "ranker"
	// StrategyPersonalized 融合（含可用的排序模型）后叠加个性化混合
	StrategyPersonalized Strategy = "personalized"
	// StrategyAuto 按画像/模型可用性自动选择最优策略
	StrategyAuto Strategy = "auto"
)

// ParseStrategy 解析策略名；空串视为 auto，未知策略返回 INVALID_INPUT。
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case "":
		return StrategyAuto, nil
	case StrategyBM25, StrategyDense, StrategyHybrid,
		StrategyRanker, StrategyPersonalized, StrategyAuto:
		return Strategy(s), nil
	default:
		return "", core.NewDomainError(core.ModuleEngine, core.ErrorCodeInvalidInput,
			fmt.Sprintf("engine: unknown strategy %q", s))
	}
}
