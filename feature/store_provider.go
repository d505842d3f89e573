package feature

import (
	"context"
	"encoding/json"

	"github.com/rushteam/searchkit/core"
)

// StoreProvider 是基于 Store 的特征提供者实现，采用适配器模式：
// 将 core.Store 适配为 Provider 接口。特征以 JSON blob 存储，
// key 形如 "user:features:<id>" / "product:features:<id>"。
type StoreProvider struct {
	store  core.Store
	prefix KeyPrefix
}

// KeyPrefix 定义特征存储的 key 前缀。
type KeyPrefix struct {
	User    string // 用户特征前缀，默认 "user:features:"
	Product string // 商品特征前缀，默认 "product:features:"
}

// NewStoreProvider 创建基于 Store 的特征提供者。
func NewStoreProvider(store core.Store, prefix KeyPrefix) *StoreProvider {
	if prefix.User == "" {
		prefix.User = "user:features:"
	}
	if prefix.Product == "" {
		prefix.Product = "product:features:"
	}
	return &StoreProvider{store: store, prefix: prefix}
}

var _ Provider = (*StoreProvider)(nil)

func (p *StoreProvider) Name() string { return "store:" + p.store.Name() }

func (p *StoreProvider) UserFeatures(ctx context.Context, userID string) (map[string]float64, error) {
	return p.get(ctx, p.prefix.User+userID)
}

func (p *StoreProvider) ProductFeatures(ctx context.Context, productID string) (map[string]float64, error) {
	return p.get(ctx, p.prefix.Product+productID)
}

func (p *StoreProvider) get(ctx context.Context, key string) (map[string]float64, error) {
	data, err := p.store.Get(ctx, key)
	if err != nil {
		if core.IsStoreNotFound(err) {
			// 特征缺失不是错误，返回空集
			return map[string]float64{}, nil
		}
		return nil, err
	}
	var features map[string]float64
	if err := json.Unmarshal(data, &features); err != nil {
		return nil, err
	}
	return features, nil
}

func (p *StoreProvider) Close() error { return nil }

// PutUserFeatures 写入用户侧特征（离线作业使用）。
func (p *StoreProvider) PutUserFeatures(ctx context.Context, userID string, features map[string]float64) error {
	return p.put(ctx, p.prefix.User+userID, features)
}

// PutProductFeatures 写入商品侧特征（离线作业使用）。
func (p *StoreProvider) PutProductFeatures(ctx context.Context, productID string, features map[string]float64) error {
	return p.put(ctx, p.prefix.Product+productID, features)
}

func (p *StoreProvider) put(ctx context.Context, key string, features map[string]float64) error {
	data, err := json.Marshal(features)
	if err != nil {
		return err
	}
	return p.store.Set(ctx, key, data)
}
