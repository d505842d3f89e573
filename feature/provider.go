// Package feature 提供排序特征的补充来源：Store 特征、Feast 在线特征。
package feature

import "context"

// Provider 是特征提供者的领域接口。
//
// 排序阶段的核心特征（bm25/cosine/hybrid/popularity/...）由请求内信号
// 现算；Provider 补充的是离线产出的用户/商品侧特征（CTR 统计、转化率等）。
// Provider 不可用时排序阶段照常进行，只是少一部分特征（优雅降级）。
type Provider interface {
	Name() string

	// UserFeatures 获取用户侧特征
	UserFeatures(ctx context.Context, userID string) (map[string]float64, error)

	// ProductFeatures 获取商品侧特征
	ProductFeatures(ctx context.Context, productID string) (map[string]float64, error)

	// Close 释放资源
	Close() error
}
