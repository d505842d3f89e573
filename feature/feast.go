package feature

import (
	"context"
	"fmt"
	"strconv"

	feastsdk "github.com/feast-dev/feast/sdk/go"
	feasttypes "github.com/feast-dev/feast/sdk/go/protos/feast/types"
)

// FeastProvider 是基于官方 Feast Go SDK 的特征提供者。
//
// Feast 是开源 Feature Store：离线作业把用户/商品统计特征物化到在线存储，
// 本实现通过 gRPC 从 Feature Server 拉取在线特征，供排序阶段补充特征。
//
// 领域层只看到 Provider 接口；Feast 不可达时由调用方降级（少一部分特征），
// 不中断请求。
type FeastProvider struct {
	client  *feastsdk.GrpcClient
	project string

	// UserEntity / ProductEntity 实体键名，例如 "user_id" / "product_id"
	UserEntity    string
	ProductEntity string

	// UserFeatureRefs / ProductFeatureRefs 特征引用列表，
	// 例如 ["user_stats:ctr_7d", "user_stats:orders_30d"]
	UserFeatureRefs    []string
	ProductFeatureRefs []string
}

// NewFeastProvider 创建 Feast gRPC 特征提供者。
func NewFeastProvider(host string, port int, project string) (*FeastProvider, error) {
	if port == 0 {
		port = 6565 // Feature Server 默认 gRPC 端口
	}
	client, err := feastsdk.NewGrpcClient(host, port)
	if err != nil {
		return nil, fmt.Errorf("feast grpc client: %w", err)
	}
	return &FeastProvider{
		client:        client,
		project:       project,
		UserEntity:    "user_id",
		ProductEntity: "product_id",
	}, nil
}

var _ Provider = (*FeastProvider)(nil)

func (p *FeastProvider) Name() string { return "feast" }

func (p *FeastProvider) UserFeatures(ctx context.Context, userID string) (map[string]float64, error) {
	return p.getOnline(ctx, p.UserFeatureRefs, p.UserEntity, userID)
}

func (p *FeastProvider) ProductFeatures(ctx context.Context, productID string) (map[string]float64, error) {
	return p.getOnline(ctx, p.ProductFeatureRefs, p.ProductEntity, productID)
}

func (p *FeastProvider) getOnline(ctx context.Context, refs []string, entity, id string) (map[string]float64, error) {
	if len(refs) == 0 {
		return map[string]float64{}, nil
	}

	req := &feastsdk.OnlineFeaturesRequest{
		Features: refs,
		Entities: []feastsdk.Row{{entity: feastsdk.StrVal(id)}},
		Project:  p.project,
	}
	resp, err := p.client.GetOnlineFeatures(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("feast get online features: %w", err)
	}

	rows := resp.Rows()
	if len(rows) == 0 {
		return map[string]float64{}, nil
	}
	features := make(map[string]float64, len(refs))
	for _, ref := range refs {
		if v, ok := rows[0][ref]; ok {
			if f, ok := asFloat64(v); ok {
				features[ref] = f
			}
		}
	}
	return features, nil
}

// asFloat64 把 SDK 返回的 protobuf Value 尽力转成 float64；非数值特征被跳过。
func asFloat64(v *feasttypes.Value) (float64, bool) {
	if v == nil {
		return 0, false
	}
	switch val := v.GetVal().(type) {
	case *feasttypes.Value_DoubleVal:
		return val.DoubleVal, true
	case *feasttypes.Value_FloatVal:
		return float64(val.FloatVal), true
	case *feasttypes.Value_Int64Val:
		return float64(val.Int64Val), true
	case *feasttypes.Value_Int32Val:
		return float64(val.Int32Val), true
	case *feasttypes.Value_BoolVal:
		if val.BoolVal {
			return 1, true
		}
		return 0, true
	case *feasttypes.Value_StringVal:
		if f, err := strconv.ParseFloat(val.StringVal, 64); err == nil {
			return f, true
		}
		return 0, false
	default:
		return 0, false
	}
}

func (p *FeastProvider) Close() error {
	// SDK 未暴露显式 Close，连接由 gRPC 库管理
	p.client = nil
	return nil
}
