package intent

import (
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"
)

// CELRouter 是基于 CEL (Common Expression Language) 表达式的意图路由器。
// 规则以表达式形式下发，无需改代码即可调整意图判定——
// 介于硬编码规则与学习型分类器之间的中间形态。
//
// 表达式变量：
//   - message: 规整后（小写、去首尾空白）的用户输入
//
// 表达式返回 true 判为 recommend，false 判为 search。
// 示例：
//   - `message.contains("recommend") || message.contains("suggest")`
//   - `message.contains("for me") && !message.contains("search")`
type CELRouter struct {
	prg cel.Program

	// Fallback 表达式求值失败时兜底的路由器；nil 时默认 RuleRouter
	Fallback Router
}

var _ Router = (*CELRouter)(nil)

// NewCELRouter 编译表达式并创建路由器。表达式编译一次，Route 可并发调用。
func NewCELRouter(expr string) (*CELRouter, error) {
	env, err := cel.NewEnv(
		cel.Variable("message", cel.StringType),
	)
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile %q: %w", expr, issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program %q: %w", expr, err)
	}
	return &CELRouter{prg: prg, Fallback: &RuleRouter{}}, nil
}

func (r *CELRouter) Name() string { return "intent.cel" }

func (r *CELRouter) Route(message string) Intent {
	out, _, err := r.prg.Eval(map[string]any{
		"message": strings.ToLower(strings.TrimSpace(message)),
	})
	if err != nil {
		if r.Fallback != nil {
			return r.Fallback.Route(message)
		}
		return Intent{Kind: KindSearch, Query: NormalizeQuery(message)}
	}
	if isRecommend, ok := out.Value().(bool); ok && isRecommend {
		return Intent{Kind: KindRecommend}
	}
	return Intent{Kind: KindSearch, Query: NormalizeQuery(message)}
}
