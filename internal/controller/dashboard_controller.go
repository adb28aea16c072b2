package controller

import (
	"lingochat_backend/internal/service"
	"lingochat_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	DashboardService *service.DashboardService
}

func NewDashboardController(dashboardService *service.DashboardService) *DashboardController {
	return &DashboardController{DashboardService: dashboardService}
}

// @Summary 仪表盘总览
// @Description 用户数、对话数、练习数、按语言分布与最近 5 次练习
// @Tags 仪表盘
// @Produce json
// @Success 200 {object} util.DataResponse{data=model.DashboardOverview}
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /dashboard [get]
func (c *DashboardController) GetOverview(ctx *gin.Context) {
	overview, err := c.DashboardService.Overview(ctx.Request.Context())
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.SuccessData(ctx, overview)
}

// @Summary 活跃用户数
// @Description 最近 7 天至少开始过一次练习的用户数
// @Tags 仪表盘
// @Produce json
// @Success 200 {object} util.DataResponse{data=object}
// @Router /dashboard/active-users [get]
func (c *DashboardController) GetActiveUsers(ctx *gin.Context) {
	total, err := c.DashboardService.ActiveUsers(ctx.Request.Context())
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.SuccessData(ctx, gin.H{"activeUsers": total})
}

// @Summary 热门语言
// @Tags 仪表盘
// @Produce json
// @Success 200 {object} util.DataResponse{data=[]model.LanguageCount}
// @Router /dashboard/top-languages [get]
func (c *DashboardController) GetTopLanguages(ctx *gin.Context) {
	rows, err := c.DashboardService.TopLanguages(ctx.Request.Context())
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.SuccessData(ctx, rows)
}

// @Summary 每日练习数
// @Description 最近 7 天，按日期升序
// @Tags 仪表盘
// @Produce json
// @Success 200 {object} util.DataResponse{data=[]model.DailyCount}
// @Router /dashboard/practices-per-day [get]
func (c *DashboardController) GetPracticesPerDay(ctx *gin.Context) {
	days, err := c.DashboardService.PracticesPerDay(ctx.Request.Context())
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.SuccessData(ctx, days)
}

// @Summary 平均练习时长
// @Description 已结束练习的平均分钟数
// @Tags 仪表盘
// @Produce json
// @Success 200 {object} util.DataResponse{data=object}
// @Router /dashboard/average-duration [get]
func (c *DashboardController) GetAverageDuration(ctx *gin.Context) {
	avg, err := c.DashboardService.AverageDuration(ctx.Request.Context())
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.SuccessData(ctx, gin.H{"averageMinutes": avg})
}
