package core

import "time"

// Product 是商品目录中的不可变条目：索引构建完成后只读。
// Embedding 由离线流程预计算，维度必须与目录内其他商品一致。
type Product struct {
	ID          string
	Title       string
	Description string
	Category    string
	Price       float64
	Popularity  float64
	Embedding   []float64
}

// Text 返回用于词法检索的文本（title + description）。
func (p *Product) Text() string {
	if p.Description == "" {
		return p.Title
	}
	return p.Title + " " + p.Description
}

// EventType 是交互事件类型，权重单调递增：view < click < cart < purchase。
type EventType string

const (
	EventView     EventType = "view"
	EventClick    EventType = "click"
	EventCart     EventType = "cart"
	EventPurchase EventType = "purchase"
)

// EventWeight 返回事件的隐式权重。
// 未知事件类型返回 0（忽略，不报错）。
func (e EventType) Weight() float64 {
	switch e {
	case EventPurchase:
		return 10
	case EventCart:
		return 5
	case EventClick:
		return 3
	case EventView:
		return 1
	default:
		return 0
	}
}

// Valid 检查事件类型是否为已知类型。
func (e EventType) Valid() bool {
	return e.Weight() > 0
}

// InteractionEvent 是用户-商品交互事件，append-only，写入后不再修改。
type InteractionEvent struct {
	UserID    string
	ProductID string
	Type      EventType
	Timestamp time.Time
}
