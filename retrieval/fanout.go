package retrieval

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/searchkit/core"
	"github.com/rushteam/searchkit/pipeline"
	"github.com/rushteam/searchkit/pkg/utils"
)

// Fanout 是一个 Retrieval Node：并发执行多个检索源，并按商品 ID 合并结果。
//
// 词法与稠密检索读取的是同一只读索引的独立信号，可安全并行；
// 单个源超时或出错时丢弃该源的结果（部分候选集优于挂死整个请求），
// 被丢弃的源记入请求级 partial_retrieval 标签，合并输出不依赖各源完成顺序。
type Fanout struct {
	Sources []Source
	Timeout time.Duration // 每个检索源的时间预算（0 表示不限制）
}

func (n *Fanout) Name() string        { return "retrieval.fanout" }
func (n *Fanout) Kind() pipeline.Kind { return pipeline.KindRetrieval }

func (n *Fanout) Process(
	ctx context.Context,
	sctx *core.SearchContext,
	_ []*core.Candidate,
) ([]*core.Candidate, error) {
	if len(n.Sources) == 0 {
		return nil, nil
	}

	eg, ectx := errgroup.WithContext(ctx)

	var (
		mu      sync.Mutex
		all     []*core.Candidate
		dropped []string
	)

	for _, src := range n.Sources {
		s := src
		eg.Go(func() error {
			retrieveCtx := ectx
			if n.Timeout > 0 {
				var cancel context.CancelFunc
				retrieveCtx, cancel = context.WithTimeout(ectx, n.Timeout)
				defer cancel()
			}

			candidates, err := s.Retrieve(retrieveCtx, sctx)
			if err != nil {
				// 超时或单源错误时降级为部分候选集，不中断其他检索源
				mu.Lock()
				dropped = append(dropped, s.Name())
				mu.Unlock()
				return nil
			}

			mu.Lock()
			all = append(all, candidates...)
			mu.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	// 候选集不完整必须在请求标签上可见，调用方不应把部分结果当完整结果
	sort.Strings(dropped)
	for _, name := range dropped {
		sctx.PutLabel("partial_retrieval", utils.Label{Value: name, Source: n.Name()})
	}
	return mergeByProduct(all), nil
}

// mergeByProduct 按商品 ID 合并：同一商品在多个源出现时合并各信号字段，
// 输出按 ProductID 升序，保证后续阶段输入确定。
func mergeByProduct(all []*core.Candidate) []*core.Candidate {
	seen := make(map[string]*core.Candidate, len(all))
	for _, c := range all {
		if c == nil {
			continue
		}
		old, ok := seen[c.ProductID]
		if !ok {
			seen[c.ProductID] = c
			continue
		}
		if c.Lexical != 0 {
			old.Lexical = c.Lexical
		}
		if c.Dense != 0 {
			old.Dense = c.Dense
		}
		for k, v := range c.Labels {
			old.PutLabel(k, v)
		}
	}
	out := make([]*core.Candidate, 0, len(seen))
	for _, c := range seen {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ProductID < out[j].ProductID
	})
	return out
}
