package model

import "time"

// RevealPolicy 答案展示策略：每题后立即展示或测验结束后统一展示
type RevealPolicy string

const (
	RevealAfterEach RevealPolicy = "after_each"
	RevealAtEnd     RevealPolicy = "at_end"
)

func (p RevealPolicy) Valid() bool {
	return p == RevealAfterEach || p == RevealAtEnd
}

// QuizSession 一次测验：固定的有序题目列表绑定到一个用户。
// FinishedAt 为空表示未完成；只在最后一题被作答时设置一次。
// swagger:model QuizSession
type QuizSession struct {
	BaseModel
	UserID       uint              `gorm:"index;not null" json:"userId"`
	Difficulty   string            `gorm:"size:20;not null" json:"difficulty"`
	RevealPolicy RevealPolicy      `gorm:"size:20;default:'at_end'" json:"revealPolicy"`
	StartedAt    time.Time         `json:"startedAt"`
	FinishedAt   *time.Time        `json:"finishedAt"`
	Questions    []SessionQuestion `gorm:"foreignKey:SessionID" json:"-"`
}

func (QuizSession) TableName() string {
	return "quiz_sessions"
}

// QuestionIDs 按 OrderIndex 返回出题顺序，创建后不变
func (s *QuizSession) QuestionIDs() []uint {
	ids := make([]uint, 0, len(s.Questions))
	for _, sq := range s.Questions {
		ids = append(ids, sq.QuestionID)
	}
	return ids
}

// SessionQuestion 会话与题目的有序关联
type SessionQuestion struct {
	BaseModel
	SessionID  uint `gorm:"index;not null" json:"sessionId"`
	QuestionID uint `gorm:"not null" json:"questionId"`
	OrderIndex int  `gorm:"not null" json:"orderIndex"`
}

func (SessionQuestion) TableName() string {
	return "session_questions"
}

// SessionAnswer 已记录的回答，(session_id, question_id) 唯一，重复提交覆盖
type SessionAnswer struct {
	BaseModel
	SessionID      uint      `gorm:"uniqueIndex:idx_session_question;not null" json:"sessionId"`
	QuestionID     uint      `gorm:"uniqueIndex:idx_session_question;not null" json:"questionId"`
	AnswerOptionID uint      `gorm:"not null" json:"answerOptionId"`
	AnsweredAt     time.Time `json:"answeredAt"`
}

func (SessionAnswer) TableName() string {
	return "session_answers"
}
