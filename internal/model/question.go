package model

// Question 题库中的单选题，导入后不再修改
// swagger:model Question
type Question struct {
	BaseModel
	Difficulty string         `gorm:"size:20;index;not null" json:"difficulty"` // easy, medium, hard
	Text       string         `gorm:"type:text;not null" json:"text"`
	Options    []AnswerOption `gorm:"foreignKey:QuestionID" json:"options,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

// AnswerOption 备选答案，每道题恰好一个 IsCorrect=true（导入时校验）
type AnswerOption struct {
	BaseModel
	QuestionID uint   `gorm:"index;not null" json:"questionId"`
	Text       string `gorm:"type:text;not null" json:"text"`
	IsCorrect  bool   `gorm:"default:false" json:"isCorrect"`
}

func (AnswerOption) TableName() string {
	return "answer_options"
}
