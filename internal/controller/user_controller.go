package controller

import (
	"physbank_backend/internal/model"
	"physbank_backend/internal/service"
	"physbank_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	Service *service.UserService
}

func NewUserController(svc *service.UserService) *UserController {
	return &UserController{Service: svc}
}

// @Summary 用户列表
// @Tags 用户管理
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/admin/users [get]
func (c *UserController) List(ctx *gin.Context) {
	users, err := c.Service.List()
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, users)
}

type RoleRequest struct {
	Role model.UserRole `json:"role" binding:"required"`
}

// @Summary 修改用户角色
// @Tags 用户管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "用户ID"
// @Param body body RoleRequest true "目标角色"
// @Success 200 {object} util.Response
// @Router /api/admin/users/{id}/role [patch]
func (c *UserController) ChangeRole(ctx *gin.Context) {
	userID := util.MustParseUint(ctx.Param("id"))
	if userID == 0 {
		util.BadRequest(ctx, "invalid user id")
		return
	}

	var req RoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.Service.ChangeRole(userID, req.Role)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, user)
}

type UsernameRequest struct {
	Username string `json:"username" binding:"required"`
}

// @Summary 修改用户名
// @Tags 用户管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "用户ID"
// @Param body body UsernameRequest true "新用户名"
// @Success 200 {object} util.Response
// @Router /api/users/{id}/username [patch]
func (c *UserController) UpdateUsername(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	userID := util.MustParseUint(ctx.Param("id"))
	if userID == 0 {
		util.BadRequest(ctx, "invalid user id")
		return
	}

	var req UsernameRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.Service.UpdateUsername(claims, userID, req.Username)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, user)
}
