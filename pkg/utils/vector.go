package utils

import "math"

// Cosine 计算两个向量的余弦相似度。
// 维度不一致或任一向量为零向量时返回 0。
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// L2Normalize 返回单位化后的新向量；零向量原样返回副本。
func L2Normalize(v []float64) []float64 {
	out := make([]float64, len(v))
	var norm float64
	for _, x := range v {
		norm += x * x
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		copy(out, v)
		return out
	}
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}

// MinMaxNormalize 将分数表做 min-max 归一化到 [0,1]。
// 退化情形（全部相等）返回全 0，避免把无区分度的信号放大成满分。
// BM25 与余弦相似度不是同一量纲，线性融合前必须先归一化。
func MinMaxNormalize(scores map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(scores))
	if len(scores) == 0 {
		return out
	}
	lo := math.Inf(1)
	hi := math.Inf(-1)
	for _, s := range scores {
		if s < lo {
			lo = s
		}
		if s > hi {
			hi = s
		}
	}
	if hi <= lo {
		for id := range scores {
			out[id] = 0
		}
		return out
	}
	for id, s := range scores {
		out[id] = (s - lo) / (hi - lo)
	}
	return out
}

// Finite 将 NaN/Inf 归零，保证输出分数始终是有限实数。
func Finite(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}
