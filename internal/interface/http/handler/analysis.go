package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appanalysis "github.com/lubrimax/lubestock/internal/application/analysis"
	"github.com/lubrimax/lubestock/internal/interface/http/dto"
	"github.com/lubrimax/lubestock/pkg/response"
)

// AnalysisHandler 库存分析HTTP处理器
// 呆滞检测与分类都是即算即弃:每次请求基于当前事实重新计算,
// 不落库、不缓存,保证"看到的永远是现在"
type AnalysisHandler struct {
	obsoleteUseCase       *appanalysis.ObsoleteProductsUseCase
	classificationUseCase *appanalysis.ClassificationUseCase
}

// NewAnalysisHandler 创建分析处理器
func NewAnalysisHandler(
	obsoleteUseCase *appanalysis.ObsoleteProductsUseCase,
	classificationUseCase *appanalysis.ClassificationUseCase,
) *AnalysisHandler {
	return &AnalysisHandler{
		obsoleteUseCase:       obsoleteUseCase,
		classificationUseCase: classificationUseCase,
	}
}

// ObsoleteProducts 呆滞商品检测
// @Summary      呆滞商品榜单
// @Description  按闲置天数降序的呆滞商品榜单;汇总指标基于完整呆滞集合,与top_n无关
// @Tags         分析
// @Produce      json
// @Security     BearerAuth
// @Param        top_n query int false "榜单条数(默认10)"
// @Success      200 {object} response.Response{data=dto.ObsoleteReportResponse}
// @Failure      401 {object} response.Response "未登录"
// @Router       /api/v1/analysis/obsolete [get]
func (h *AnalysisHandler) ObsoleteProducts(c *gin.Context) {
	topN, _ := strconv.Atoi(c.DefaultQuery("top_n", "0"))

	report, err := h.obsoleteUseCase.Execute(c.Request.Context(), topN)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewObsoleteReport(report.ThresholdDays, report.Entries, report.Metrics))
}

// Classification 周转率/毛利率分层
// @Summary      商品分层
// @Description  按滚动窗口内销量与毛利率各切三档;相同输入保证产出相同分层
// @Tags         分析
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=dto.ClassificationResponse}
// @Failure      401 {object} response.Response "未登录"
// @Router       /api/v1/analysis/classification [get]
func (h *AnalysisHandler) Classification(c *gin.Context) {
	report, err := h.classificationUseCase.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewClassificationReport(report.WindowDays, report.Result))
}
