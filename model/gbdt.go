package model

import (
	"encoding/json"
	"fmt"
	"os"
)

// GBDTModel 实现了梯度提升决策树 (Gradient Boosted Decision Trees) 排序模型。
// 对应离线训练的 pairwise/listwise ranker（LambdaMART 一类）：
// 离线导出为 JSON 树结构，在线只做推理。
//
// 预测原理：
// 1. 每棵回归树对特征向量独立打分（根节点走到叶子）
// 2. 最终分数 = 各树输出之和（乘以学习率已折算进叶子值）
//
// 输出是实数相关性分数，越高越相关，不保证跨模型版本的绝对量纲。
type GBDTModel struct {
	Trees []Tree `json:"trees"`
}

// Tree 是一棵回归树，节点按数组下标寻址。
type Tree struct {
	Nodes []TreeNode `json:"nodes"`
}

// TreeNode 是树节点：Leaf=true 时 Value 为叶子输出；
// 否则按 features[Feature] <= Threshold 走 Left，反之走 Right。
type TreeNode struct {
	Feature   string  `json:"feature,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
	Left      int     `json:"left,omitempty"`
	Right     int     `json:"right,omitempty"`
	Leaf      bool    `json:"leaf,omitempty"`
	Value     float64 `json:"value,omitempty"`
}

// LoadGBDTModel 从 JSON 文件加载模型。
// 文件缺失/损坏时返回错误，由调用方决定是否降级到 hybrid 排序。
func LoadGBDTModel(path string) (*GBDTModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m GBDTModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if len(m.Trees) == 0 {
		return nil, fmt.Errorf("gbdt model %s: no trees", path)
	}
	return &m, nil
}

func (m *GBDTModel) Name() string { return "gbdt" }

func (m *GBDTModel) Predict(features map[string]float64) (float64, error) {
	var score float64
	for ti := range m.Trees {
		v, err := m.Trees[ti].eval(features)
		if err != nil {
			return 0, fmt.Errorf("tree %d: %w", ti, err)
		}
		score += v
	}
	return score, nil
}

func (t *Tree) eval(features map[string]float64) (float64, error) {
	if len(t.Nodes) == 0 {
		return 0, fmt.Errorf("empty tree")
	}
	i := 0
	// 深度上界 = 节点数，防御构造出环的坏模型文件
	for steps := 0; steps <= len(t.Nodes); steps++ {
		n := t.Nodes[i]
		if n.Leaf {
			return n.Value, nil
		}
		next := n.Right
		if features[n.Feature] <= n.Threshold {
			next = n.Left
		}
		if next < 0 || next >= len(t.Nodes) {
			return 0, fmt.Errorf("node %d: child %d out of range", i, next)
		}
		i = next
	}
	return 0, fmt.Errorf("cycle detected")
}
