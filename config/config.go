// Package config 提供 engine 的 YAML 配置加载。
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration 是支持 "200ms" / "5s" 字符串写法的时长
// （yaml.v3 不原生解析 time.Duration 的字符串形式）。
type Duration time.Duration

// Std 转换为 time.Duration。
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Tag == "!!str" {
		parsed, err := time.ParseDuration(value.Value)
		if err != nil {
			return fmt.Errorf("config: parse duration %q: %w", value.Value, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var n int64
	if err := value.Decode(&n); err != nil {
		return err
	}
	*d = Duration(n)
	return nil
}

// Config 是 engine 的启动配置。
// 字段缺省时使用 Default() 的默认值；目录/模型文件的格式由离线构建流程约定。
type Config struct {
	// Alpha 词法/稠密融合默认权重 ∈ [0,1]
	Alpha float64 `yaml:"alpha"`

	// PersonalizationWeight 个性化混合默认权重 ∈ [0,1]
	PersonalizationWeight float64 `yaml:"personalization_weight"`

	Retrieval RetrievalConfig `yaml:"retrieval"`
	Ranker    RankerConfig    `yaml:"ranker"`
	Embedder  EmbedderConfig  `yaml:"embedder"`
	Redis     RedisConfig     `yaml:"redis"`
	Feast     FeastConfig     `yaml:"feast"`
	Events    EventsConfig    `yaml:"events"`
}

// RetrievalConfig 检索阶段配置。
type RetrievalConfig struct {
	// DenseTopK 稠密检索返回的近邻数
	DenseTopK int `yaml:"dense_top_k"`

	// Timeout 单个检索源的时间预算；超时降级为部分候选集
	Timeout Duration `yaml:"timeout"`
}

// RankerConfig 排序模型配置。Kind 为空或 "none" 时不加载模型，
// ranker 策略会降级到 hybrid。
type RankerConfig struct {
	Kind string `yaml:"kind"` // gbdt / lr / none
	Path string `yaml:"path"`
}

// EmbedderConfig 词向量 Embedder 配置。Path 为空时无稠密信号。
type EmbedderConfig struct {
	Path string `yaml:"path"`
}

// RedisConfig Redis 后端配置。Addr 为空时使用内存 Store。
type RedisConfig struct {
	Addr string `yaml:"addr"`
	DB   int    `yaml:"db"`
}

// FeastConfig Feast 在线特征配置。Host 为空时不启用。
type FeastConfig struct {
	Host               string   `yaml:"host"`
	Port               int      `yaml:"port"`
	Project            string   `yaml:"project"`
	UserFeatureRefs    []string `yaml:"user_feature_refs"`
	ProductFeatureRefs []string `yaml:"product_feature_refs"`
}

// EventsConfig 事件摄入配置。
type EventsConfig struct {
	// Buffer 摄入通道缓冲大小；写满时丢弃事件而不是阻塞搜索请求
	Buffer int `yaml:"buffer"`

	// RebuildInterval 画像/共现/分群的批量重算周期
	RebuildInterval Duration `yaml:"rebuild_interval"`
}

// Default 返回默认配置。
func Default() Config {
	return Config{
		Alpha:                 0.5,
		PersonalizationWeight: 0.3,
		Retrieval: RetrievalConfig{
			DenseTopK: 50,
			Timeout:   Duration(200 * time.Millisecond),
		},
		Ranker: RankerConfig{Kind: "none"},
		Feast:  FeastConfig{Port: 6565},
		Events: EventsConfig{
			Buffer:          1024,
			RebuildInterval: Duration(5 * time.Second),
		},
	}
}

// Load 读取 YAML 配置文件，未设置的字段保留默认值。
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Alpha < 0 || cfg.Alpha > 1 {
		return cfg, fmt.Errorf("config: alpha %v out of [0,1]", cfg.Alpha)
	}
	if cfg.PersonalizationWeight < 0 || cfg.PersonalizationWeight > 1 {
		return cfg, fmt.Errorf("config: personalization_weight %v out of [0,1]", cfg.PersonalizationWeight)
	}
	return cfg, nil
}
