package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"tg_quiz_backend/internal/util"
	"time"
)

// TelegramUser Mini App 启动数据中 user 字段的结构
type TelegramUser struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	LanguageCode string `json:"language_code"`
	IsPremium    bool   `json:"is_premium"`
	PhotoURL     string `json:"photo_url"`
}

// TelegramAuthPayload 校验通过后提取出的身份信息
type TelegramAuthPayload struct {
	User     TelegramUser
	AuthDate time.Time
}

// telegramSecretMessage Telegram 规定的派生密钥常量：
// secret_key = HMAC_SHA256(key="WebAppData", msg=bot_token)
const telegramSecretMessage = "WebAppData"

// buildDataCheckString 除 hash 外的所有键值对，键名字典序排序，按 key=value 换行拼接。
// 排序和拼接方式必须与 Telegram 服务端完全一致，否则签名校验必然失败。
func buildDataCheckString(values url.Values) string {
	pairs := make([][2]string, 0, len(values))
	for key, vals := range values {
		if key == "hash" {
			continue
		}
		for _, v := range vals {
			pairs = append(pairs, [2]string{key, v})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i][0] < pairs[j][0]
	})

	lines := make([]string, 0, len(pairs))
	for _, p := range pairs {
		lines = append(lines, p[0]+"="+p[1])
	}
	return strings.Join(lines, "\n")
}

// VerifyInitData 校验 Mini App 的签名启动数据并提取身份。
// 纯函数，无副作用：用户的落库由调用方（AuthService）负责。
func VerifyInitData(initDataRaw, botToken string, maxAge time.Duration) (*TelegramAuthPayload, error) {
	if strings.TrimSpace(initDataRaw) == "" {
		return nil, util.Validation("initData is required")
	}
	if botToken == "" {
		return nil, util.Validation("telegram bot token is not configured")
	}

	values, err := url.ParseQuery(initDataRaw)
	if err != nil {
		return nil, util.Validation("malformed initData")
	}

	providedHash := values.Get("hash")
	if providedHash == "" {
		return nil, util.UnauthorizedError("initData signature is missing")
	}

	dataCheckString := buildDataCheckString(values)

	mac := hmac.New(sha256.New, []byte(telegramSecretMessage))
	mac.Write([]byte(botToken))
	secretKey := mac.Sum(nil)

	mac = hmac.New(sha256.New, secretKey)
	mac.Write([]byte(dataCheckString))
	expected := mac.Sum(nil)

	provided, err := hex.DecodeString(providedHash)
	if err != nil || len(provided) != len(expected) || !hmac.Equal(provided, expected) {
		return nil, util.UnauthorizedError("invalid initData signature")
	}

	userRaw := values.Get("user")
	if userRaw == "" {
		return nil, util.Validation("initData has no user")
	}

	var user TelegramUser
	if err := json.Unmarshal([]byte(userRaw), &user); err != nil {
		return nil, util.Validation("malformed user in initData")
	}
	if user.ID == 0 {
		return nil, util.Validation("initData user has no id")
	}

	authDateUnix, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
	if err != nil {
		return nil, util.Validation("malformed auth_date in initData")
	}
	authDate := time.Unix(authDateUnix, 0)

	if maxAge > 0 && time.Since(authDate) > maxAge {
		return nil, util.UnauthorizedError("initData is expired")
	}

	return &TelegramAuthPayload{User: user, AuthDate: authDate}, nil
}
