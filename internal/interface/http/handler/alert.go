package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appalert "github.com/lubrimax/lubestock/internal/application/alert"
	"github.com/lubrimax/lubestock/internal/interface/http/dto"
	apperrors "github.com/lubrimax/lubestock/pkg/errors"
	"github.com/lubrimax/lubestock/pkg/response"
)

// AlertHandler 库存告警HTTP处理器
type AlertHandler struct {
	refreshUseCase      *appalert.RefreshUseCase
	listUseCase         *appalert.ListAlertsUseCase
	markViewedUseCase   *appalert.MarkViewedUseCase
	markResolvedUseCase *appalert.MarkResolvedUseCase
}

// NewAlertHandler 创建告警处理器
func NewAlertHandler(
	refreshUseCase *appalert.RefreshUseCase,
	listUseCase *appalert.ListAlertsUseCase,
	markViewedUseCase *appalert.MarkViewedUseCase,
	markResolvedUseCase *appalert.MarkResolvedUseCase,
) *AlertHandler {
	return &AlertHandler{
		refreshUseCase:      refreshUseCase,
		listUseCase:         listUseCase,
		markViewedUseCase:   markViewedUseCase,
		markResolvedUseCase: markResolvedUseCase,
	}
}

// Refresh 触发一轮告警刷新
// @Summary      刷新库存告警
// @Description  拉取最新库存事实并与本地告警集合对账;数据源失败时返回上一轮快照(stale=true)
// @Tags         告警
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=dto.RefreshResponse}
// @Failure      401 {object} response.Response "未登录"
// @Router       /api/v1/alerts/refresh [post]
func (h *AlertHandler) Refresh(c *gin.Context) {
	result, err := h.refreshUseCase.Execute(c.Request.Context())
	if err != nil {
		// 关键决策:刷新失败绝不清空告警面板。
		// 返回降级响应:错误码+上一轮仍然有效的计数
		if apperrors.IsRecoverable(err) {
			badge := h.listUseCase.Badge()
			response.StaleWithError(c, err, dto.RefreshResponse{
				VisibleCount: badge.Count,
				Stale:        true,
			})
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, dto.RefreshResponse{
		Created:      result.Created,
		Updated:      result.Updated,
		AutoResolved: result.AutoResolved,
		VisibleCount: result.VisibleCount,
		DurationMS:   result.DurationMS,
		Warnings:     dto.NewWarningItems(result.Warnings),
	})
}

// ListAlerts 查询可见告警
// @Summary      告警列表
// @Description  返回按严重度排序的可见告警,同时清除"有未读"红点
// @Tags         告警
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=dto.ListAlertsResponse}
// @Failure      401 {object} response.Response "未登录"
// @Router       /api/v1/alerts [get]
func (h *AlertHandler) ListAlerts(c *gin.Context) {
	alerts := h.listUseCase.List(c.Request.Context())
	response.Success(c, dto.NewAlertList(alerts))
}

// GetAlert 查询单条告警
// @Summary      告警详情
// @Tags         告警
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "告警ID"
// @Success      200 {object} response.Response{data=dto.AlertItem}
// @Failure      404 {object} response.Response "告警不存在"
// @Router       /api/v1/alerts/{id} [get]
func (h *AlertHandler) GetAlert(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.ErrorWithCode(c, 40000, "告警ID格式错误")
		return
	}

	a, err := h.listUseCase.Get(id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewAlertItem(a))
}

// Badge 查询角标
// @Summary      告警角标
// @Description  供通知面板轮询:可见告警数+是否有未读,不清除红点
// @Tags         告警
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=dto.BadgeResponse}
// @Router       /api/v1/alerts/badge [get]
func (h *AlertHandler) Badge(c *gin.Context) {
	badge := h.listUseCase.Badge()
	response.Success(c, dto.BadgeResponse{
		Count:  badge.Count,
		Unseen: badge.Unseen,
	})
}

// ClearBadge 清除未读红点
// @Summary      清除未读标志
// @Description  打开告警面板时调用:仅清除红点,不改变任何告警状态
// @Tags         告警
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=dto.BadgeResponse}
// @Router       /api/v1/alerts/badge/clear [post]
func (h *AlertHandler) ClearBadge(c *gin.Context) {
	badge := h.listUseCase.ClearUnseen(c.Request.Context())
	response.Success(c, dto.BadgeResponse{
		Count:  badge.Count,
		Unseen: badge.Unseen,
	})
}

// MarkViewed 标记告警已查看
// @Summary      标记已查看
// @Description  本地先行生效,尽力镜像到后端;镜像拒绝时回滚并返回瞬时失败
// @Tags         告警
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "告警ID"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response "告警不存在"
// @Router       /api/v1/alerts/{id}/viewed [post]
func (h *AlertHandler) MarkViewed(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.ErrorWithCode(c, 40000, "告警ID格式错误")
		return
	}

	if err := h.markViewedUseCase.Execute(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// MarkResolved 标记告警已处理
// @Summary      标记已处理
// @Description  已处理的告警从列表消失但不会在下一轮刷新中复活;库存恢复后重新武装
// @Tags         告警
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "告警ID"
// @Success      200 {object} response.Response
// @Failure      403 {object} response.Response "没有操作权限"
// @Failure      404 {object} response.Response "告警不存在"
// @Router       /api/v1/alerts/{id}/resolved [post]
func (h *AlertHandler) MarkResolved(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.ErrorWithCode(c, 40000, "告警ID格式错误")
		return
	}

	if err := h.markResolvedUseCase.Execute(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// parseIDParam 解析路径中的:id参数
func parseIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
