package controller

import (
	"physbank_backend/internal/model"
	"physbank_backend/internal/service"
	"physbank_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AssignmentController struct {
	Service *service.AssignmentService
}

func NewAssignmentController(svc *service.AssignmentService) *AssignmentController {
	return &AssignmentController{Service: svc}
}

// AssignRequest 六个分类各自一段位置选择串，如 "1-3,5"；留空表示该分类不选
type AssignRequest struct {
	UserID         uint   `json:"userId" binding:"required"`
	Mechanics      string `json:"mechanics"`
	Electricity    string `json:"electricity"`
	Thermodynamics string `json:"thermodynamics"`
	Optics         string `json:"optics"`
	Modern         string `json:"modern"`
	Advanced       string `json:"advanced"`
}

func (r *AssignRequest) specs() map[model.ProblemTag]string {
	return map[model.ProblemTag]string{
		model.TagMechanics:      r.Mechanics,
		model.TagElectricity:    r.Electricity,
		model.TagThermodynamics: r.Thermodynamics,
		model.TagOptics:         r.Optics,
		model.TagModern:         r.Modern,
		model.TagAdvanced:       r.Advanced,
	}
}

func (c *AssignmentController) assign(ctx *gin.Context, axis service.AssignmentAxis) {
	var req AssignRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.Service.AssignProblems(axis, req.UserID, req.specs()); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.SuccessMessage(ctx, "assignments replaced", gin.H{"userId": req.UserID})
}

// @Summary 分配审题任务（全量替换）
// @Tags 分配
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body AssignRequest true "分配选择"
// @Success 200 {object} util.Response
// @Router /api/admin/assignments/examine [post]
func (c *AssignmentController) AssignExamine(ctx *gin.Context) {
	c.assign(ctx, service.AxisExamine)
}

// @Summary 分配翻译任务（全量替换）
// @Tags 分配
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body AssignRequest true "分配选择"
// @Success 200 {object} util.Response
// @Router /api/admin/assignments/translate [post]
func (c *AssignmentController) AssignTranslate(ctx *gin.Context) {
	c.assign(ctx, service.AxisTranslate)
}

// @Summary 各分类待定题目数
// @Tags 分配
// @Produce json
// @Security ApiKeyAuth
// @Param axis query string false "examine 或 translate，默认 examine"
// @Success 200 {object} util.Response
// @Router /api/admin/assignments/pending-counts [get]
func (c *AssignmentController) PendingCounts(ctx *gin.Context) {
	axis := service.AxisExamine
	if ctx.Query("axis") == string(service.AxisTranslate) {
		axis = service.AxisTranslate
	}

	counts, err := c.Service.CountPendingByTag(ctx.Request.Context(), axis)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, counts)
}

// @Summary 我的指派列表
// @Tags 分配
// @Produce json
// @Security ApiKeyAuth
// @Param axis query string false "examine 或 translate，默认 examine"
// @Success 200 {object} util.Response
// @Router /api/assignments/mine [get]
func (c *AssignmentController) ListMine(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	axis := service.AxisExamine
	if ctx.Query("axis") == string(service.AxisTranslate) {
		axis = service.AxisTranslate
	}

	problems, err := c.Service.ListAssigned(axis, claims.UserID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, problems)
}
