package model

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/rushteam/searchkit/core"
	"github.com/rushteam/searchkit/pkg/utils"
)

// Word2VecEmbedder 是基于词向量表的本地 Embedder 实现。
//
// 核心思想：
//   - 离线训练的词向量表（word -> vector）随目录一起加载
//   - 查询文本分词后取词向量均值，再 L2 归一化，得到查询向量
//   - OOV（表外词）按零向量计，不影响其余词的均值
//
// 它是 core.Embedder 的默认实现；生产可换成远程句向量服务，
// 只要维度与目录 embedding 一致即可。
type Word2VecEmbedder struct {
	WordVectors map[string][]float64
	Dim         int
}

var _ core.Embedder = (*Word2VecEmbedder)(nil)

// NewWord2VecEmbedder 创建词向量 Embedder，维度从首个向量推断。
func NewWord2VecEmbedder(wordVectors map[string][]float64) *Word2VecEmbedder {
	dim := 0
	for _, vec := range wordVectors {
		dim = len(vec)
		break
	}
	return &Word2VecEmbedder{WordVectors: wordVectors, Dim: dim}
}

// LoadWord2VecEmbedder 从 JSON 文件（word -> []float64）加载词向量表。
func LoadWord2VecEmbedder(path string) (*Word2VecEmbedder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var vectors map[string][]float64
	if err := json.Unmarshal(data, &vectors); err != nil {
		return nil, err
	}
	return NewWord2VecEmbedder(vectors), nil
}

func (m *Word2VecEmbedder) Name() string   { return "word2vec" }
func (m *Word2VecEmbedder) Dimension() int { return m.Dim }

// Embed 取文本中各词向量的均值并 L2 归一化。
// 空文本或全 OOV 返回 nil（无稠密信号），不报错。
func (m *Word2VecEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 || m.Dim == 0 {
		return nil, nil
	}

	sum := make([]float64, m.Dim)
	hit := 0
	for _, w := range words {
		vec, ok := m.WordVectors[w]
		if !ok || len(vec) != m.Dim {
			continue
		}
		for i, x := range vec {
			sum[i] += x
		}
		hit++
	}
	if hit == 0 {
		return nil, nil
	}
	for i := range sum {
		sum[i] /= float64(hit)
	}
	return utils.L2Normalize(sum), nil
}
