package alert

import "context"

// Mirror 告警状态的外部镜像（尽力而为的后端落库）
// 设计说明:
// 1. local-first策略：本地Store先行变更，镜像只是给其他端
//    （门店平板、总部报表）共享告警状态
// 2. 镜像返回错误时由应用层回滚本地变更并向调用方报告瞬时失败；
//    镜像未配置（nil）时纯本地运行，功能完整
type Mirror interface {
	// PersistViewed 落库"已查看"状态
	PersistViewed(ctx context.Context, alertID uint) error

	// PersistResolved 落库"已处理"状态
	PersistResolved(ctx context.Context, alertID uint) error
}

// EventPublisher 告警事件发布（消息队列，尽力而为）
// 发布失败只记录日志，绝不让本地变更失败
type EventPublisher interface {
	// PublishCreated 新告警产生
	PublishCreated(ctx context.Context, a StockAlert) error

	// PublishResolved 告警被处理（手动manual / 库存恢复auto）
	PublishResolved(ctx context.Context, alertID uint, auto bool) error
}
