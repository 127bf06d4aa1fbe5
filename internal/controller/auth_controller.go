package controller

import (
	"strings"
	"tg_quiz_backend/internal/service"
	"tg_quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Service *service.AuthService
}

func NewAuthController(svc *service.AuthService) *AuthController {
	return &AuthController{Service: svc}
}

type TelegramAuthRequest struct {
	InitData string `json:"initData" binding:"required"`
}

// @Summary Telegram 授权
// @Description 校验 Mini App 签名启动数据，首次调用创建用户
// @Tags 授权
// @Accept json
// @Produce json
// @Param body body TelegramAuthRequest true "initData 原始字符串"
// @Success 200 {object} util.Response
// @Router /auth/telegram [post]
func (c *AuthController) TelegramAuth(ctx *gin.Context) {
	var req TelegramAuthRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "initData is required")
		return
	}

	user, err := c.Service.EnsureTelegramUser(req.InitData)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, user)
}

type AdminLoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// @Summary 管理端登录
// @Tags 授权
// @Accept json
// @Produce json
// @Param body body AdminLoginRequest true "管理密码"
// @Success 200 {object} util.Response
// @Router /admin/login [post]
func (c *AuthController) AdminLogin(ctx *gin.Context) {
	var req AdminLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "password is required")
		return
	}

	token, expiresIn, err := c.Service.LoginAdmin(req.Password)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"token":     token,
		"expiresIn": expiresIn,
	})
}

// @Summary 校验管理端令牌
// @Tags 授权
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /admin/verify [get]
func (c *AuthController) AdminVerify(ctx *gin.Context) {
	token := strings.TrimPrefix(ctx.GetHeader("Authorization"), "Bearer ")
	if err := c.Service.VerifyAdmin(token); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"ok": true})
}
