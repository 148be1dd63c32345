package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appinventory "github.com/lubrimax/lubestock/internal/application/inventory"
	"github.com/lubrimax/lubestock/internal/interface/http/dto"
	"github.com/lubrimax/lubestock/internal/interface/http/middleware"
	"github.com/lubrimax/lubestock/pkg/response"
)

// InventoryHandler 库存调整HTTP处理器
type InventoryHandler struct {
	adjustStockUseCase *appinventory.AdjustStockUseCase
}

// NewInventoryHandler 创建库存处理器
func NewInventoryHandler(adjustStockUseCase *appinventory.AdjustStockUseCase) *InventoryHandler {
	return &InventoryHandler{adjustStockUseCase: adjustStockUseCase}
}

// AdjustStock 调整库存
// @Summary      调整库存
// @Description  入库/出库/盘点调整,库存变更与流水记录在同一事务落库
// @Tags         库存
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "商品ID"
// @Param        request body dto.AdjustStockRequest true "调整内容"
// @Success      200 {object} response.Response{data=dto.AdjustStockResponse}
// @Failure      400 {object} response.Response "库存不足或参数错误"
// @Failure      403 {object} response.Response "没有操作权限"
// @Failure      404 {object} response.Response "商品不存在"
// @Router       /api/v1/products/{id}/stock [post]
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	productID, err := parseIDParam(c)
	if err != nil {
		response.ErrorWithCode(c, 40000, "商品ID格式错误")
		return
	}

	var req dto.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40000, "参数错误: "+err.Error())
		return
	}

	operatorID := middleware.MustGetUserID(c)

	result, err := h.adjustStockUseCase.Execute(c.Request.Context(), appinventory.AdjustStockRequest{
		ProductID:  productID,
		Delta:      req.Delta,
		Reason:     req.Reason,
		OperatorID: operatorID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.AdjustStockResponse{
		ProductID:    result.ProductID,
		Name:         result.Name,
		CurrentStock: result.CurrentStock,
		MinStock:     result.MinStock,
		BelowMin:     result.BelowMin,
	})
}

// ListMovements 查询库存变动流水
// @Summary      库存流水
// @Description  某商品的库存变动历史(审计/对账用),按时间倒序
// @Tags         库存
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "商品ID"
// @Param        limit query int false "返回条数(默认50)"
// @Success      200 {object} response.Response{data=dto.ListMovementsResponse}
// @Failure      404 {object} response.Response "商品不存在"
// @Router       /api/v1/products/{id}/movements [get]
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	productID, err := parseIDParam(c)
	if err != nil {
		response.ErrorWithCode(c, 40000, "商品ID格式错误")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	movements, err := h.adjustStockUseCase.Movements(c.Request.Context(), productID, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewMovementList(movements))
}
