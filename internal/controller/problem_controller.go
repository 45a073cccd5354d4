package controller

import (
	"physbank_backend/internal/model"
	"physbank_backend/internal/service"
	"physbank_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProblemController struct {
	Service *service.ProblemService
	Storage *service.StorageService
}

func NewProblemController(svc *service.ProblemService, storage *service.StorageService) *ProblemController {
	return &ProblemController{Service: svc, Storage: storage}
}

// @Summary 投题
// @Tags 题目
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.ProblemRequest true "题目内容"
// @Success 201 {object} util.Response
// @Router /api/problems [post]
func (c *ProblemController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.ProblemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	problem, err := c.Service.Create(claims.UserID, req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Created(ctx, problem)
}

// @Summary 题目详情
// @Tags 题目
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "题目ID"
// @Success 200 {object} util.Response
// @Router /api/problems/{id} [get]
func (c *ProblemController) Get(ctx *gin.Context) {
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

	problem, err := c.Service.Get(claims, problemID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, problem)
}

// @Summary 我的投题列表
// @Tags 题目
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/problems/mine [get]
func (c *ProblemController) ListMine(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	problems, err := c.Service.ListMine(claims.UserID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, problems)
}

// @Summary 题目列表（可按分类/状态过滤）
// @Tags 题目
// @Produce json
// @Security ApiKeyAuth
// @Param tag query string false "分类"
// @Param status query string false "审核状态"
// @Success 200 {object} util.Response
// @Router /api/admin/problems [get]
func (c *ProblemController) ListAll(ctx *gin.Context) {
	problems, err := c.Service.ListAll(
		model.ProblemTag(ctx.Query("tag")),
		model.ProblemStatus(ctx.Query("status")),
	)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, problems)
}

// @Summary 编辑题目（审核状态重置为待审）
// @Tags 题目
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "题目ID"
// @Param body body service.ProblemRequest true "题目内容"
// @Success 200 {object} util.Response
// @Router /api/problems/{id} [put]
func (c *ProblemController) Update(ctx *gin.Context) {
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

	var req service.ProblemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	problem, err := c.Service.Edit(claims, problemID, req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, problem)
}

// @Summary 删除题目
// @Tags 题目
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "题目ID"
// @Success 200 {object} util.Response
// @Router /api/problems/{id} [delete]
func (c *ProblemController) Delete(ctx *gin.Context) {
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

	if err := c.Service.Delete(claims, problemID); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.SuccessMessage(ctx, "problem deleted", nil)
}

type TranslationRequest struct {
	Translation string `json:"translation" binding:"required"`
}

// @Summary 更新译文
// @Tags 翻译
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "题目ID"
// @Param body body TranslationRequest true "译文"
// @Success 200 {object} util.Response
// @Router /api/translate/problems/{id} [put]
func (c *ProblemController) SetTranslation(ctx *gin.Context) {
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

	var req TranslationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.Service.SetTranslation(claims, problemID, req.Translation); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"problemId": problemID})
}

// @Summary 上传题图
// @Tags 题目
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "题目ID"
// @Param file formData file true "图片文件"
// @Success 200 {object} util.Response
// @Router /api/problems/{id}/figure [post]
func (c *ProblemController) UploadFigure(ctx *gin.Context) {
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

	// 只有能读到题的人才能传题图
	if _, err := c.Service.Get(claims, problemID); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	header, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "missing file")
		return
	}

	file, err := header.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	url, err := c.Storage.UploadFigure(
		ctx.Request.Context(),
		header.Filename,
		file,
		header.Size,
		header.Header.Get("Content-Type"),
	)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.Service.SetFigureURL(problemID, url); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"figureUrl": url})
}

// @Summary 题目的 AI 表现记录
// @Tags AI表现
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "题目ID"
// @Success 200 {object} util.Response
// @Router /api/problems/{id}/ai-performances [get]
func (c *ProblemController) ListAIPerformances(ctx *gin.Context) {
	problemID := util.MustParseUint(ctx.Param("id"))
	if problemID == 0 {
		util.BadRequest(ctx, "invalid problem id")
		return
	}

	perfs, err := c.Service.ListAIPerformances(problemID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, perfs)
}

// @Summary 管理员追加 AI 评测记录
// @Tags AI表现
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "题目ID"
// @Param body body service.AIPerformanceRequest true "评测内容"
// @Success 201 {object} util.Response
// @Router /api/admin/problems/{id}/ai-performances [post]
func (c *ProblemController) AddEvaluation(ctx *gin.Context) {
	problemID := util.MustParseUint(ctx.Param("id"))
	if problemID == 0 {
		util.BadRequest(ctx, "invalid problem id")
		return
	}

	var req service.AIPerformanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	perf, err := c.Service.AddEvaluation(problemID, req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Created(ctx, perf)
}
