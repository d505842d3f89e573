package core

import "fmt"

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
//
// 传播策略：某一打分阶段失败时降级到下一可用阶段，而不是让整个请求失败；
// 只有目录索引缺失/损坏才是进程级致命错误。
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "UNAVAILABLE"）
	Message string // 错误消息
	Module  string // 模块名称（如 "index", "rank", "store"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError 创建新的领域错误。
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{Module: module, Code: code, Message: message}
}

// GetDomainError 获取 DomainError，如果不是则返回 nil。
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// 错误代码常量
const (
	ErrorCodeNotFound      = "NOT_FOUND"      // 资源不存在
	ErrorCodeNotSupported  = "NOT_SUPPORTED"  // 操作不支持
	ErrorCodeUnavailable   = "UNAVAILABLE"    // 服务/模型不可用
	ErrorCodeInvalidInput  = "INVALID_INPUT"  // 输入无效
	ErrorCodeInternalError = "INTERNAL_ERROR" // 内部错误
)

// 模块名称常量
const (
	ModuleIndex       = "index"
	ModuleRank        = "rank"
	ModuleStore       = "store"
	ModuleFeature     = "feature"
	ModulePersonalize = "personalize"
	ModuleEngine      = "engine"
)

var (
	// ErrProductNotFound 商品不存在（similar / 事件上报引用未知商品时返回给调用方，非致命）
	ErrProductNotFound = NewDomainError(ModuleIndex, ErrorCodeNotFound, "index: product not found")

	// ErrRankerUnavailable 排序模型未加载（可恢复：调用方回退到 hybrid 分数）
	ErrRankerUnavailable = NewDomainError(ModuleRank, ErrorCodeUnavailable, "rank: model not loaded")

	// ErrProfileNotFound 用户画像不存在（合法的"无个性化"状态，不是错误）
	ErrProfileNotFound = NewDomainError(ModulePersonalize, ErrorCodeNotFound, "personalize: profile not found")

	// ErrStoreNotFound 表示 key 不存在
	ErrStoreNotFound = NewDomainError(ModuleStore, ErrorCodeNotFound, "store: key not found")

	// ErrStoreNotSupported 表示操作不支持
	ErrStoreNotSupported = NewDomainError(ModuleStore, ErrorCodeNotSupported, "store: operation not supported")
)

// IndexBuildError 是索引构建失败（启动期致命）：维度不一致、重复商品 ID 等。
type IndexBuildError struct {
	ProductID string
	Reason    string
}

func (e *IndexBuildError) Error() string {
	if e.ProductID == "" {
		return fmt.Sprintf("index build: %s", e.Reason)
	}
	return fmt.Sprintf("index build: product %s: %s", e.ProductID, e.Reason)
}

// IsNotFound 检查错误是否为 NOT_FOUND。
func IsNotFound(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}

// IsUnavailable 检查错误是否为 UNAVAILABLE（可降级）。
func IsUnavailable(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeUnavailable
	}
	return false
}

// IsStoreNotFound 检查错误是否为 store key 不存在。
func IsStoreNotFound(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Module == ModuleStore && domainErr.Code == ErrorCodeNotFound
	}
	return false
}
