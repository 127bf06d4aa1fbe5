package middleware

import (
	"strings"
	"tg_quiz_backend/internal/config"
	"tg_quiz_backend/internal/util"
	"tg_quiz_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminAuthMiddleware 管理端路由的 JWT 校验
func AdminAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseAdminJWT(tokenString, cfg.AdminJWT.Secret)
		if err != nil {
			logger.Log.Debug("admin JWT rejected", zap.Error(err))
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("admin", claims)
		c.Next()
	}
}

type UserActivityRepo interface {
	UpdateLastSeen(userID uint) error
}

// ActivityMiddleware 请求携带 userId 时异步刷新 last_seen，不阻塞主流程
func ActivityMiddleware(repo UserActivityRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := util.MustParseUint(c.Query("userId")); id > 0 {
			go repo.UpdateLastSeen(id)
		}
		c.Next()
	}
}
