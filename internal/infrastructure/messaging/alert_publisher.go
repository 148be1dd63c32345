// Package messaging 把领域事件接到RabbitMQ
package messaging

import (
	"context"
	"log"
	"time"

	"github.com/lubrimax/lubestock/internal/domain/alert"
	"github.com/lubrimax/lubestock/pkg/mq"
)

// 路由键约定
// 下游消费方:企业微信机器人推送、总部补货看板
const (
	routingAlertCreated      = "alert.created"
	routingAlertResolved     = "alert.resolved"
	routingAlertAutoResolved = "alert.auto_resolved"
)

// AlertPublisher alert.EventPublisher的RabbitMQ实现
// 设计说明:发布是尽力而为——MQ抖动只丢通知不丢告警,
// 失败在这里记日志并返回error,调用方自行决定是否忽略
type AlertPublisher struct {
	publisher *mq.Publisher
}

// NewAlertPublisher 创建发布器
func NewAlertPublisher(publisher *mq.Publisher) *AlertPublisher {
	return &AlertPublisher{publisher: publisher}
}

// alertCreatedEvent 新告警事件载荷
type alertCreatedEvent struct {
	AlertID     uint   `json:"alert_id"`
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	Urgency     string `json:"urgency"`
	Stock       int    `json:"stock"`
	MinStock    int    `json:"min_stock"`
	OccurredAt  string `json:"occurred_at"`
}

// alertResolvedEvent 告警解除事件载荷
type alertResolvedEvent struct {
	AlertID    uint   `json:"alert_id"`
	Mode       string `json:"mode"` // manual | auto
	OccurredAt string `json:"occurred_at"`
}

// PublishCreated 发布新告警事件
func (p *AlertPublisher) PublishCreated(ctx context.Context, a alert.StockAlert) error {
	event := alertCreatedEvent{
		AlertID:     a.ID,
		ProductID:   a.ProductID,
		ProductName: a.ProductName,
		Urgency:     string(a.Urgency),
		Stock:       a.CurrentStock,
		MinStock:    a.MinStock,
		OccurredAt:  time.Now().Format(time.RFC3339),
	}
	if err := p.publisher.Publish(ctx, routingAlertCreated, event); err != nil {
		log.Printf("[messaging] 发布新告警事件失败 alert_id=%d: %v", a.ID, err)
		return err
	}
	return nil
}

// PublishResolved 发布告警解除事件
func (p *AlertPublisher) PublishResolved(ctx context.Context, alertID uint, auto bool) error {
	routingKey := routingAlertResolved
	mode := "manual"
	if auto {
		routingKey = routingAlertAutoResolved
		mode = "auto"
	}
	event := alertResolvedEvent{
		AlertID:    alertID,
		Mode:       mode,
		OccurredAt: time.Now().Format(time.RFC3339),
	}
	if err := p.publisher.Publish(ctx, routingKey, event); err != nil {
		log.Printf("[messaging] 发布告警解除事件失败 alert_id=%d: %v", alertID, err)
		return err
	}
	return nil
}
