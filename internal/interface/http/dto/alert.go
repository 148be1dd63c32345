package dto

import (
	"fmt"
	"time"

	"github.com/lubrimax/lubestock/internal/domain/alert"
)

// timeLayout HTTP响应统一时间格式
const timeLayout = "2006-01-02 15:04:05"

// AlertItem HTTP告警列表项
type AlertItem struct {
	ID              uint    `json:"id" example:"42"`
	ProductID       uint    `json:"product_id" example:"42"`
	ProductName     string  `json:"product_name" example:"美孚速霸2000 5W-30 4L"`
	Category        string  `json:"category" example:"机油"`
	Supplier        string  `json:"supplier" example:"埃克森美孚"`
	CurrentStock    int     `json:"current_stock" example:"2"`
	MinStock        int     `json:"min_stock" example:"10"`
	UnitPrice       int64   `json:"unit_price" example:"32900"`      // 单价(分)
	UnitPriceYuan   string  `json:"unit_price_yuan" example:"329.00"` // 单价(元)
	Urgency         string  `json:"urgency" example:"high"`
	Trend           string  `json:"trend" example:"worsening"`
	Status          string  `json:"status" example:"new"`
	DeficitRatio    float64 `json:"deficit_ratio" example:"0.8"`
	FirstSeenAt     string  `json:"first_seen_at" example:"2026-08-30 09:00:00"`
	LastEvaluatedAt string  `json:"last_evaluated_at" example:"2026-08-31 08:30:00"`
}

// ListAlertsResponse HTTP告警列表响应
// 列表已按严重度排序（紧急度降序→缺口比例降序→库存升序→商品ID升序）
type ListAlertsResponse struct {
	List  []AlertItem `json:"list"`
	Total int         `json:"total" example:"5"`
}

// BadgeResponse HTTP角标响应
type BadgeResponse struct {
	Count  int  `json:"count" example:"5"`
	Unseen bool `json:"unseen" example:"true"`
}

// RefreshResponse HTTP刷新响应
type RefreshResponse struct {
	Created      int           `json:"created" example:"2"`
	Updated      int           `json:"updated" example:"3"`
	AutoResolved int           `json:"auto_resolved" example:"1"`
	VisibleCount int           `json:"visible_count" example:"5"`
	DurationMS   int64         `json:"duration_ms" example:"120"`
	Stale        bool          `json:"stale" example:"false"` // true表示本轮刷新失败，数据为上一轮快照
	Warnings     []WarningItem `json:"warnings,omitempty"`
}

// WarningItem 阈值配置问题提示
type WarningItem struct {
	ProductID   uint   `json:"product_id" example:"7"`
	ProductName string `json:"product_name" example:"壳牌喜力HX8"`
	Reason      string `json:"reason" example:"最低库存阈值未配置"`
}

// NewAlertItem 领域告警→HTTP列表项
func NewAlertItem(a alert.StockAlert) AlertItem {
	return AlertItem{
		ID:              a.ID,
		ProductID:       a.ProductID,
		ProductName:     a.ProductName,
		Category:        a.Category,
		Supplier:        a.Supplier,
		CurrentStock:    a.CurrentStock,
		MinStock:        a.MinStock,
		UnitPrice:       a.UnitPrice,
		UnitPriceYuan:   FormatPriceYuan(a.UnitPrice),
		Urgency:         string(a.Urgency),
		Trend:           string(a.Trend),
		Status:          string(a.Status),
		DeficitRatio:    a.DeficitRatio(),
		FirstSeenAt:     a.FirstSeenAt.Format(timeLayout),
		LastEvaluatedAt: a.LastEvaluatedAt.Format(timeLayout),
	}
}

// NewAlertList 领域告警切片→HTTP列表响应
func NewAlertList(alerts []alert.StockAlert) ListAlertsResponse {
	list := make([]AlertItem, len(alerts))
	for i, a := range alerts {
		list[i] = NewAlertItem(a)
	}
	return ListAlertsResponse{List: list, Total: len(list)}
}

// NewWarningItems 评估警告→HTTP提示
func NewWarningItems(warnings []alert.Warning) []WarningItem {
	if len(warnings) == 0 {
		return nil
	}
	items := make([]WarningItem, len(warnings))
	for i, w := range warnings {
		items[i] = WarningItem{
			ProductID:   w.ProductID,
			ProductName: w.Name,
			Reason:      w.Reason,
		}
	}
	return items
}

// FormatPriceYuan 格式化价格(分→元)
// 例如:32900分 → "329.00"
func FormatPriceYuan(priceFen int64) string {
	yuan := float64(priceFen) / 100.0
	return fmt.Sprintf("%.2f", yuan)
}

// FormatTime 统一时间格式化
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timeLayout)
}
