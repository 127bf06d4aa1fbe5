package model

import "time"

// User 通过已验证的 Telegram 启动数据创建的用户
// swagger:model User
type User struct {
	BaseModel
	TelegramID int64     `gorm:"uniqueIndex;not null" json:"telegramId"`
	Username   string    `gorm:"size:100" json:"username"`
	FirstName  string    `gorm:"size:100" json:"firstName"`
	LastSeen   time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}
