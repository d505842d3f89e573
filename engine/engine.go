// Package engine 把检索、融合、排序、个性化、推荐、分群组装成完整的搜索引擎。
//
// 生命周期：
//
//	eng, _ := engine.New(products, cfg, engine.WithEmbedder(emb))
//	_ = eng.Start(ctx) // 回放事件日志 + 启动后台重算
//	defer eng.Close()
//	resp, _ := eng.Search(ctx, req)
//
// 并发模型：请求路径只读（索引、各快照），事件摄入走内存缓冲，
// 画像/共现/分群在后台批量重算并原子替换快照。
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rushteam/searchkit/config"
	"github.com/rushteam/searchkit/core"
	"github.com/rushteam/searchkit/feature"
	"github.com/rushteam/searchkit/filter"
	"github.com/rushteam/searchkit/index"
	"github.com/rushteam/searchkit/intent"
	"github.com/rushteam/searchkit/model"
	"github.com/rushteam/searchkit/personalize"
	"github.com/rushteam/searchkit/rank"
	"github.com/rushteam/searchkit/recommend"
	"github.com/rushteam/searchkit/retrieval"
	"github.com/rushteam/searchkit/segment"
	"github.com/rushteam/searchkit/store"
)

// Engine 是搜索引擎实例：持有只读索引、各检索源与可原子替换的模型快照。
type Engine struct {
	cfg config.Config
	log zerolog.Logger

	index    *index.Index
	lexical  *retrieval.LexicalRetriever
	dense    *retrieval.DenseRetriever
	embedder core.Embedder
	ranker   model.RankModel
	features *rank.FeatureBuilder

	profiles *personalize.ProfileStore
	cooccur  *recommend.CoOccurrence
	segments *segment.Segmenter
	router   intent.Router
	filters  []filter.Filter

	store    core.KeyValueStore
	ownStore bool

	// 事件缓冲：RecordEvent 只做 append，持久化与重算在后台批处理
	mu        sync.Mutex
	events    []core.InteractionEvent
	persisted int

	done    chan struct{}
	wg      sync.WaitGroup
	started bool
	closed  bool
}

// Option 配置 Engine 的可选组件。
type Option func(*Engine)

// WithLogger 设置日志器；默认 zerolog.Nop()。
func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithEmbedder 设置查询向量 Embedder，覆盖配置文件里的词向量表。
func WithEmbedder(emb core.Embedder) Option {
	return func(e *Engine) { e.embedder = emb }
}

// WithRankModel 设置排序模型，覆盖配置文件里的模型路径。
func WithRankModel(m model.RankModel) Option {
	return func(e *Engine) { e.ranker = m }
}

// WithRouter 设置会话意图路由器；默认规则路由。
func WithRouter(r intent.Router) Option {
	return func(e *Engine) { e.router = r }
}

// WithStore 设置 KV 存储（事件日志等），覆盖配置文件里的 Redis 设置。
// 调用方负责该 Store 的 Close。
func WithStore(kv core.KeyValueStore) Option {
	return func(e *Engine) { e.store = kv }
}

// WithFeatureProvider 设置排序阶段的补充特征来源（Store / Feast）。
func WithFeatureProvider(p feature.Provider) Option {
	return func(e *Engine) { e.features.Provider = p }
}

// WithFilters 设置结果过滤器（黑名单等），在截断前生效。
func WithFilters(filters ...filter.Filter) Option {
	return func(e *Engine) { e.filters = filters }
}

// New 从商品目录与配置构建引擎。
// 目录非法（重复 ID、embedding 维度不一致）时返回 *core.IndexBuildError。
func New(products []*core.Product, cfg config.Config, opts ...Option) (*Engine, error) {
	idx, err := index.Build(products)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:      cfg,
		log:      zerolog.Nop(),
		index:    idx,
		lexical:  retrieval.NewLexicalRetriever(idx),
		dense:    retrieval.NewDenseRetriever(idx),
		features: rank.NewFeatureBuilder(idx),
		profiles: personalize.NewProfileStore(idx),
		cooccur:  recommend.NewCoOccurrence(idx),
		segments: segment.NewSegmenter(idx),
		router:   &intent.RuleRouter{},
		done:     make(chan struct{}),
	}
	if cfg.Retrieval.DenseTopK > 0 {
		e.dense.TopK = cfg.Retrieval.DenseTopK
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.embedder == nil && cfg.Embedder.Path != "" {
		emb, err := model.LoadWord2VecEmbedder(cfg.Embedder.Path)
		if err != nil {
			return nil, err
		}
		e.embedder = emb
	}
	if e.ranker == nil {
		m, err := loadRanker(cfg.Ranker)
		if err != nil {
			return nil, err
		}
		e.ranker = m
	}
	if e.features.Provider == nil && cfg.Feast.Host != "" {
		fp, err := feature.NewFeastProvider(cfg.Feast.Host, cfg.Feast.Port, cfg.Feast.Project)
		if err != nil {
			return nil, err
		}
		fp.UserFeatureRefs = cfg.Feast.UserFeatureRefs
		fp.ProductFeatureRefs = cfg.Feast.ProductFeatureRefs
		e.features.Provider = fp
	}
	if e.store == nil {
		if cfg.Redis.Addr != "" {
			rs, err := store.NewRedisStore(cfg.Redis.Addr, cfg.Redis.DB)
			if err != nil {
				return nil, err
			}
			e.store = rs
		} else {
			e.store = store.NewMemoryStore()
		}
		e.ownStore = true
	}
	// 冷启动兜底读事件驱动热门榜（SyncHot 在快照重算时写入）
	e.cooccur.Store = e.store

	e.log.Info().
		Int("products", idx.Size()).
		Int("embedding_dim", idx.Dim()).
		Bool("ranker", e.ranker != nil).
		Bool("embedder", e.embedder != nil).
		Str("store", e.store.Name()).
		Msg("engine built")
	return e, nil
}

func loadRanker(cfg config.RankerConfig) (model.RankModel, error) {
	switch cfg.Kind {
	case "", "none":
		return nil, nil
	case "gbdt":
		return model.LoadGBDTModel(cfg.Path)
	case "lr":
		return model.LoadLRModel(cfg.Path)
	default:
		return nil, core.NewDomainError(core.ModuleRank, core.ErrorCodeNotSupported,
			"rank: unknown ranker kind "+cfg.Kind)
	}
}

// Start 回放持久化的事件日志、重算全部快照，并启动后台重算循环。
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	if e.started {
		e.mu.Unlock()
		return nil
	}
	e.started = true
	e.mu.Unlock()

	if err := e.replayEvents(ctx); err != nil {
		return err
	}
	e.RebuildNow()

	interval := e.cfg.Events.RebuildInterval.Std()
	if interval <= 0 {
		interval = 5 * time.Second
	}
	e.wg.Add(1)
	go e.rebuildLoop(interval)
	return nil
}

// Close 停止后台循环、刷出未持久化事件，并释放引擎创建的资源。
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	started := e.started
	e.mu.Unlock()

	if started {
		close(e.done)
		e.wg.Wait()
	}
	e.flushEvents(context.Background())

	if e.features.Provider != nil {
		_ = e.features.Provider.Close()
	}
	if e.ownStore {
		return e.store.Close()
	}
	return nil
}

// RebuildNow 同步重算画像、共现、分群快照。
// 请求路径不受影响：重算期间读到旧快照，算完原子切换。
func (e *Engine) RebuildNow() {
	e.mu.Lock()
	events := make([]core.InteractionEvent, len(e.events))
	copy(events, e.events)
	e.mu.Unlock()

	start := time.Now()
	e.profiles.Rebuild(events)
	e.cooccur.Rebuild(events)
	e.segments.Rebuild(events)
	if err := e.cooccur.SyncHot(context.Background(), events); err != nil {
		e.log.Warn().Err(err).Msg("hot items sync failed")
	}
	e.log.Debug().
		Int("events", len(events)).
		Int("profiles", e.profiles.Size()).
		Dur("took", time.Since(start)).
		Msg("snapshots rebuilt")
}

func (e *Engine) rebuildLoop(interval time.Duration) {
	defer e.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastSeen := -1
	for {
		select {
		case <-e.done:
			return
		case <-ticker.C:
			e.mu.Lock()
			n := len(e.events)
			e.mu.Unlock()
			if n == lastSeen {
				continue
			}
			lastSeen = n
			e.flushEvents(context.Background())
			e.RebuildNow()
		}
	}
}

// Readiness 是引擎各组件的可用性快照。
type Readiness struct {
	Products int
	Embedder bool
	Ranker   bool
	Profiles int
	Events   int
}

// Ready 返回各组件可用性；降级组件在这里可见（embedder/ranker 缺失不致命）。
func (e *Engine) Ready() Readiness {
	e.mu.Lock()
	events := len(e.events)
	e.mu.Unlock()
	return Readiness{
		Products: e.index.Size(),
		Embedder: e.embedder != nil,
		Ranker:   e.ranker != nil,
		Profiles: e.profiles.Size(),
		Events:   events,
	}
}

// Index 返回只读商品索引。
func (e *Engine) Index() *index.Index { return e.index }
