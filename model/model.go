package model

// RankModel 是排序阶段的最小抽象：输入特征，输出一个可比较的分数。
// 分数越高越相关；不同模型版本之间不保证绝对量纲，只保证同一次请求内可比。
// 具体实现可以是本地模型（LR/GBDT）或远程推理服务。
type RankModel interface {
	Name() string
	Predict(features map[string]float64) (float64, error)
}
