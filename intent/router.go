// Package intent 提供会话入口的意图路由：自由文本 → search / recommend 分发。
package intent

import "strings"

// Kind 是意图类型。
type Kind string

const (
	KindSearch    Kind = "search"
	KindRecommend Kind = "recommend"
)

// Intent 是路由结果：意图 + 规整后的查询文本。
type Intent struct {
	Kind  Kind
	Query string // recommend 意图下为空
}

// Router 是意图分类能力的抽象。
// 当前默认实现是规则匹配（RuleRouter）；定义成接口是因为这里最可能
// 被替换成真正的分类模型，调用方不应感知实现差异。
type Router interface {
	Name() string
	Route(message string) Intent
}

// RuleRouter 是默认的规则路由器：
// 命中推荐意图短语 → recommend；其余一律按搜索处理，
// 并剥掉常见的请求前缀得到规整查询。确定性、零依赖。
type RuleRouter struct{}

var _ Router = (*RuleRouter)(nil)

// 推荐意图短语。整句只要包含其一即按 recommend 分发。
var recommendPhrases = []string{
	"recommend",
	"suggest",
	"suggestion",
	"for me",
	"what should i buy",
	"anything new",
}

// 搜索短语里的请求性前缀，剥掉后剩余部分才是真正的查询。
var queryPrefixes = []string{
	"search for",
	"search",
	"show me",
	"find me",
	"find",
	"looking for",
	"i want",
	"i need",
}

func (r *RuleRouter) Name() string { return "intent.rule" }

func (r *RuleRouter) Route(message string) Intent {
	normalized := strings.ToLower(strings.TrimSpace(message))
	for _, phrase := range recommendPhrases {
		if strings.Contains(normalized, phrase) {
			return Intent{Kind: KindRecommend}
		}
	}
	return Intent{Kind: KindSearch, Query: NormalizeQuery(message)}
}

// NormalizeQuery 把会话消息规整为查询文本：小写、去首尾空白、剥请求前缀。
func NormalizeQuery(message string) string {
	query := strings.ToLower(strings.TrimSpace(message))
	for _, prefix := range queryPrefixes {
		if strings.HasPrefix(query, prefix+" ") {
			query = strings.TrimSpace(strings.TrimPrefix(query, prefix+" "))
			break
		}
	}
	return query
}
