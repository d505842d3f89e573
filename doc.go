// Package searchkit 是一个个性化商品搜索与推荐工具包（Search Kit）。
//
// 设计要点：
// - Pipeline-first: 检索与排序逻辑通过 Node 串联（Retrieve → Fuse → Rank → Personalize）
// - Labels-first: labels 全链路透传，支持 explain / 降级信号 / 策略驱动
// - 优雅降级: 任一打分信号（ranker / embedding / 用户画像）缺失时回退到下一可用信号
package searchkit

import "github.com/rushteam/searchkit/pipeline"

// 轻量 facade：便于用户直接 import "searchkit" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRetrieval   = pipeline.KindRetrieval
	KindFusion      = pipeline.KindFusion
	KindRank        = pipeline.KindRank
	KindPersonalize = pipeline.KindPersonalize
	KindPostProcess = pipeline.KindPostProcess
)
