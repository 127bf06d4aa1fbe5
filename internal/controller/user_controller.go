package controller

import (
	"strconv"
	"tg_quiz_backend/internal/service"
	"tg_quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	Service *service.AuthService
}

func NewUserController(svc *service.AuthService) *UserController {
	return &UserController{Service: svc}
}

// @Summary 获取用户
// @Tags 用户
// @Produce json
// @Param id path int true "用户ID"
// @Success 200 {object} util.Response
// @Router /users/{id} [get]
func (c *UserController) GetUser(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || id < 1 {
		util.BadRequest(ctx, "invalid user id")
		return
	}

	user, err := c.Service.GetUser(uint(id))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, user)
}
