package service

import (
	"tg_quiz_backend/internal/config"
	"tg_quiz_backend/internal/model"
	"tg_quiz_backend/internal/util"

	"golang.org/x/crypto/bcrypt"
)

// IdentityStore 按外部 Telegram id 持久化/查找用户
type IdentityStore interface {
	Upsert(telegramID int64, username, firstName string) (*model.User, error)
	FindByID(id uint) (*model.User, error)
	FindByTelegramID(telegramID int64) (*model.User, error)
}

type AuthService struct {
	Users IdentityStore
	Cfg   *config.Config
}

func NewAuthService(users IdentityStore, cfg *config.Config) *AuthService {
	return &AuthService{Users: users, Cfg: cfg}
}

// EnsureTelegramUser 校验启动数据并保证用户存在。
// 校验本身是纯函数；只有签名通过后才会触碰存储。
func (s *AuthService) EnsureTelegramUser(initDataRaw string) (*model.User, error) {
	payload, err := VerifyInitData(initDataRaw, s.Cfg.Telegram.BotToken, s.Cfg.Telegram.AuthMaxAge)
	if err != nil {
		return nil, err
	}

	username := payload.User.Username
	if username == "" {
		username = payload.User.FirstName
	}

	return s.Users.Upsert(payload.User.ID, username, payload.User.FirstName)
}

// LoginAdmin 管理端登录：比对配置中的 bcrypt 哈希并签发 JWT
func (s *AuthService) LoginAdmin(password string) (string, int64, error) {
	if s.Cfg.AdminJWT.PasswordHash == "" {
		return "", 0, util.Validation("admin password is not configured")
	}
	if s.Cfg.AdminJWT.Secret == "" {
		return "", 0, util.Validation("admin JWT secret is not configured")
	}
	if password == "" {
		return "", 0, util.Validation("password is required")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.Cfg.AdminJWT.PasswordHash), []byte(password)); err != nil {
		return "", 0, util.UnauthorizedError("invalid password")
	}

	token, err := util.GenerateAdminJWT(s.Cfg.AdminJWT.Secret, s.Cfg.AdminJWT.ExpireTime)
	if err != nil {
		return "", 0, err
	}
	return token, int64(s.Cfg.AdminJWT.ExpireTime.Seconds()), nil
}

// VerifyAdmin 校验管理端令牌
func (s *AuthService) VerifyAdmin(token string) error {
	if token == "" {
		return util.UnauthorizedError("token is missing")
	}
	if _, err := util.ParseAdminJWT(token, s.Cfg.AdminJWT.Secret); err != nil {
		return util.UnauthorizedError("invalid token")
	}
	return nil
}

// GetUser 按内部 id 查找用户
func (s *AuthService) GetUser(id uint) (*model.User, error) {
	user, err := s.Users.FindByID(id)
	if err != nil {
		return nil, util.NotFoundError("user")
	}
	return user, nil
}
