package controller

import (
	"physbank_backend/internal/model"
	"physbank_backend/internal/service"
	"physbank_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ReviewController struct {
	Service *service.ReviewService
}

func NewReviewController(svc *service.ReviewService) *ReviewController {
	return &ReviewController{Service: svc}
}

// @Summary 打开/获取本人选票
// @Tags 审核
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "题目ID"
// @Success 200 {object} util.Response{data=service.BallotView}
// @Router /api/review/problems/{id}/ballot [get]
func (c *ReviewController) GetBallot(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	problemID := util.MustParseUint(ctx.Param("id"))
	if problemID == 0 {
		util.BadRequest(ctx, "invalid problem id")
		return
	}

	view, err := c.Service.GetOrCreateBallot(claims, problemID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

// @Summary 提交本人审题意见
// @Tags 审核
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "题目ID"
// @Param body body service.SubmitBallotRequest true "意见内容"
// @Success 200 {object} util.Response
// @Router /api/review/problems/{id}/ballot [patch]
func (c *ReviewController) SubmitBallot(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	problemID := util.MustParseUint(ctx.Param("id"))
	if problemID == 0 {
		util.BadRequest(ctx, "invalid problem id")
		return
	}

	var req service.SubmitBallotRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.Service.SubmitBallot(claims, problemID, req); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.SuccessMessage(ctx, "opinion submitted", gin.H{"problemId": problemID})
}

// @Summary 对账：按最新选票覆盖权威字段
// @Tags 审核
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/admin/review/sync [post]
func (c *ReviewController) SyncOpinions(ctx *gin.Context) {
	updated, err := c.Service.SyncExaminationOpinions()
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.SuccessMessage(ctx, "opinions synced", gin.H{"updated": updated})
}

// @Summary 翻译归档且待审的题目批量通过
// @Tags 审核
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/admin/review/promote-translated [post]
func (c *ReviewController) PromoteTranslated(ctx *gin.Context) {
	count, err := c.Service.PromoteTranslatedToApproved()
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.SuccessMessage(ctx, "problems promoted", gin.H{"updatedCount": count})
}

type TranslatedStatusRequest struct {
	TranslatedStatus model.TranslatedStatus `json:"translatedStatus" binding:"required"`
}

// @Summary 切换翻译轴状态
// @Tags 翻译
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "题目ID"
// @Param body body TranslatedStatusRequest true "目标状态"
// @Success 200 {object} util.Response
// @Router /api/translate/problems/{id}/status [patch]
func (c *ReviewController) SetTranslatedStatus(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	problemID := util.MustParseUint(ctx.Param("id"))
	if problemID == 0 {
		util.BadRequest(ctx, "invalid problem id")
		return
	}

	var req TranslatedStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.Service.SetTranslatedStatus(claims, problemID, req.TranslatedStatus); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"problemId": problemID, "translatedStatus": req.TranslatedStatus})
}
