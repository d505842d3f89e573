package core

import "context"

// Embedder 是文本向量化能力的抽象：embed(text) -> vector。
//
// embedding 模型本身是外部协作方（句向量服务、词向量表等），
// 本工具包只依赖该接口：
//   - model.Word2VecEmbedder 提供基于词向量表的本地实现
//   - 生产可接远程 embedding 服务
//
// 返回的向量维度必须与目录索引的 embedding 维度一致。
type Embedder interface {
	Name() string

	// Embed 将文本编码为定长向量。
	// 空文本返回 nil 向量（调用方按"无稠密信号"处理），不报错。
	Embed(ctx context.Context, text string) ([]float64, error)

	// Dimension 返回向量维度。
	Dimension() int
}
