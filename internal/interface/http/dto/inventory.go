package dto

import (
	"github.com/lubrimax/lubestock/internal/domain/product"
)

// AdjustStockRequest HTTP库存调整请求
// validator tag说明:
// - required: 必填字段
// - ne=0: 变动数量不能为0(无意义的调整)
// - oneof: 变动原因必须是约定枚举之一
type AdjustStockRequest struct {
	Delta  int    `json:"delta" binding:"required,ne=0" example:"-2"`
	Reason string `json:"reason" binding:"required,oneof=purchase sale adjustment return" example:"sale"`
}

// AdjustStockResponse HTTP库存调整响应
type AdjustStockResponse struct {
	ProductID    uint   `json:"product_id" example:"42"`
	Name         string `json:"name" example:"美孚速霸2000 5W-30 4L"`
	CurrentStock int    `json:"current_stock" example:"8"`
	MinStock     int    `json:"min_stock" example:"10"`
	BelowMin     bool   `json:"below_min" example:"true"` // true提示前端立即刷新告警面板
}

// MovementItem HTTP库存变动流水项
type MovementItem struct {
	ID         uint   `json:"id" example:"1001"`
	ProductID  uint   `json:"product_id" example:"42"`
	Delta      int    `json:"delta" example:"-2"`
	After      int    `json:"after" example:"8"`
	Reason     string `json:"reason" example:"sale"`
	OperatorID uint   `json:"operator_id" example:"3"`
	CreatedAt  string `json:"created_at" example:"2026-08-31 10:15:00"`
}

// ListMovementsResponse HTTP流水列表响应
type ListMovementsResponse struct {
	List  []MovementItem `json:"list"`
	Total int            `json:"total" example:"20"`
}

// NewMovementList 领域流水→HTTP响应
func NewMovementList(movements []*product.StockMovement) ListMovementsResponse {
	list := make([]MovementItem, len(movements))
	for i, mv := range movements {
		list[i] = MovementItem{
			ID:         mv.ID,
			ProductID:  mv.ProductID,
			Delta:      mv.Delta,
			After:      mv.After,
			Reason:     mv.Reason,
			OperatorID: mv.OperatorID,
			CreatedAt:  FormatTime(mv.CreatedAt),
		}
	}
	return ListMovementsResponse{List: list, Total: len(list)}
}
