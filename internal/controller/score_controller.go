package controller

import (
	"physbank_backend/internal/service"
	"physbank_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ScoreController struct {
	Service *service.ScoreService
}

func NewScoreController(svc *service.ScoreService) *ScoreController {
	return &ScoreController{Service: svc}
}

type RecomputeRequest struct {
	UserID uint `json:"userId" binding:"required"`
}

// @Summary 重算单个用户总分
// @Tags 积分
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body RecomputeRequest true "用户"
// @Success 200 {object} util.Response
// @Router /api/admin/scores/recompute [post]
func (c *ScoreController) RecomputeOne(ctx *gin.Context) {
	var req RecomputeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.Service.RecomputeUserScore(req.UserID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.SuccessMessage(ctx, "score recomputed", gin.H{"updatedUser": user})
}

// @Summary 重算全部用户总分
// @Tags 积分
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/admin/scores/recompute-all [post]
func (c *ScoreController) RecomputeAll(ctx *gin.Context) {
	updated, err := c.Service.RecomputeAllScores()
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.SuccessMessage(ctx, "all scores recomputed", gin.H{"updated": updated})
}

type ExamineRewardRequest struct {
	Score float64 `json:"score"`
}

// @Summary 批量调整审题奖励分
// @Tags 积分
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body ExamineRewardRequest true "新奖励分"
// @Success 200 {object} util.Response
// @Router /api/admin/scores/examine-reward [post]
func (c *ScoreController) SetExamineReward(ctx *gin.Context) {
	var req ExamineRewardRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	updated, err := c.Service.SetExamineReward(req.Score)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.SuccessMessage(ctx, "examine reward updated", gin.H{"updated": updated})
}

// @Summary 追加积分事件（调账/处罚）
// @Tags 积分
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.CreateEventRequest true "事件内容"
// @Success 201 {object} util.Response
// @Router /api/admin/scores/events [post]
func (c *ScoreController) CreateEvent(ctx *gin.Context) {
	var req service.CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	event, err := c.Service.CreateEvent(req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{"newScoreEvent": event})
}

// @Summary 清空积分台账
// @Tags 积分
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/admin/scores/events [delete]
func (c *ScoreController) ClearEvents(ctx *gin.Context) {
	if err := c.Service.ClearEvents(); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.SuccessMessage(ctx, "score events cleared", nil)
}

// @Summary 我的积分事件
// @Tags 积分
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/scores/events [get]
func (c *ScoreController) ListMyEvents(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	events, err := c.Service.ListUserEvents(claims.UserID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, events)
}

// @Summary 积分排行榜
// @Tags 积分
// @Produce json
// @Security ApiKeyAuth
// @Param limit query int false "条数，默认20"
// @Success 200 {object} util.Response
// @Router /api/scores/leaderboard [get]
func (c *ScoreController) Leaderboard(ctx *gin.Context) {
	limit := 20
	if v := ctx.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	users, err := c.Service.Leaderboard(ctx.Request.Context(), limit)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, users)
}
