package engine

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rushteam/searchkit/core"
)

// 事件日志的 List key（append-only，重启时回放）。
const eventLogKey = "events:log"

// storedEvent 是事件日志的持久化形式。
type storedEvent struct {
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"ts"`
}

// RecordEvent 上报一次用户-商品交互。
//
// 请求路径上只做校验和内存 append（不产生存储 I/O），
// 持久化与快照重算由后台循环批量完成，对上报方不可见。
//
// 错误：
//   - 未知事件类型 → INVALID_INPUT
//   - 引用未知商品 → core.ErrProductNotFound（非致命，调用方决定是否重试）
func (e *Engine) RecordEvent(_ context.Context, ev core.InteractionEvent) error {
	if ev.UserID == "" || ev.ProductID == "" {
		return core.NewDomainError(core.ModuleEngine, core.ErrorCodeInvalidInput,
			"engine: event requires user_id and product_id")
	}
	if !ev.Type.Valid() {
		return core.NewDomainError(core.ModuleEngine, core.ErrorCodeInvalidInput,
			"engine: unknown event type "+string(ev.Type))
	}
	if _, err := e.index.Get(ev.ProductID); err != nil {
		return err
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}

	e.mu.Lock()
	// 未持久化事件超过缓冲上限时丢弃新事件，不让存储背压阻塞上报方
	if buf := e.cfg.Events.Buffer; buf > 0 && len(e.events)-e.persisted >= buf {
		e.mu.Unlock()
		e.log.Warn().Str("user", ev.UserID).Msg("event buffer full, event dropped")
		return nil
	}
	e.events = append(e.events, ev)
	e.mu.Unlock()
	return nil
}

// EventCount 返回内存中的事件总数（含已持久化）。
func (e *Engine) EventCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.events)
}

// flushEvents 把尚未持久化的事件追加到事件日志。
// 写失败只记日志不丢内存数据，下个周期重试。
func (e *Engine) flushEvents(ctx context.Context) {
	e.mu.Lock()
	pending := e.events[e.persisted:]
	if len(pending) == 0 {
		e.mu.Unlock()
		return
	}
	batch := make([]core.InteractionEvent, len(pending))
	copy(batch, pending)
	e.mu.Unlock()

	values := make([][]byte, 0, len(batch))
	for _, ev := range batch {
		data, err := json.Marshal(storedEvent{
			UserID:    ev.UserID,
			ProductID: ev.ProductID,
			Type:      string(ev.Type),
			Timestamp: ev.Timestamp,
		})
		if err != nil {
			continue
		}
		values = append(values, data)
	}
	if len(values) == 0 {
		return
	}
	if err := e.store.RPush(ctx, eventLogKey, values...); err != nil {
		e.log.Warn().Err(err).Int("events", len(values)).Msg("event log flush failed")
		return
	}

	e.mu.Lock()
	e.persisted += len(batch)
	e.mu.Unlock()
}

// replayEvents 启动时从事件日志恢复内存缓冲。
func (e *Engine) replayEvents(ctx context.Context) error {
	values, err := e.store.LRange(ctx, eventLogKey, 0, -1)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil
		}
		return err
	}

	events := make([]core.InteractionEvent, 0, len(values))
	for _, data := range values {
		var se storedEvent
		if err := json.Unmarshal(data, &se); err != nil {
			// 坏记录跳过，不让一条脏数据挡住启动
			e.log.Warn().Err(err).Msg("skip malformed event log entry")
			continue
		}
		events = append(events, core.InteractionEvent{
			UserID:    se.UserID,
			ProductID: se.ProductID,
			Type:      core.EventType(se.Type),
			Timestamp: se.Timestamp,
		})
	}

	e.mu.Lock()
	e.events = events
	e.persisted = len(events)
	e.mu.Unlock()

	e.log.Info().Int("events", len(events)).Msg("event log replayed")
	return nil
}
