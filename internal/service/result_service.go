package service

import (
	"errors"
	"tg_quiz_backend/internal/model"
	"tg_quiz_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

// ResultService 从已记录的回答推导会话报告
type ResultService struct {
	Sessions  SessionStore
	Questions QuestionBank
}

func NewResultService(sessions SessionStore, questions QuestionBank) *ResultService {
	return &ResultService{Sessions: sessions, Questions: questions}
}

// ResultDetail 单题明细。这里有意暴露正确性：
// 会话已经消费过该题，与出题接口的防作弊脱敏不冲突。
type ResultDetail struct {
	QuestionID        uint   `json:"questionId"`
	QuestionText      string `json:"questionText"`
	ChosenAnswerID    uint   `json:"chosenAnswerId"`
	ChosenAnswerText  string `json:"chosenAnswerText"`
	CorrectAnswerID   uint   `json:"correctAnswerId"`
	CorrectAnswerText string `json:"correctAnswerText"`
	IsCorrect         bool   `json:"isCorrect"`
}

// SessionResults 会话级汇总；未完成的会话返回部分进度而不是报错
type SessionResults struct {
	SessionID      uint           `json:"sessionId"`
	TotalQuestions int            `json:"totalQuestions"`
	CorrectAnswers int            `json:"correctAnswers"`
	Percentage     int            `json:"percentage"`
	FinishedAt     *time.Time     `json:"finishedAt"`
	Details        []ResultDetail `json:"details"`
}

// percentage 四舍五入到整数百分比；totalQuestions 为 0 时定义为 0，避免除零
func percentage(correct, total int) int {
	if total == 0 {
		return 0
	}
	return int(float64(correct)/float64(total)*100 + 0.5)
}

// GetResults 按会话内的出题顺序汇总，只为已作答的题目生成明细行
func (s *ResultService) GetResults(sessionID uint) (*SessionResults, error) {
	session, err := s.Sessions.FindByID(sessionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.NotFoundError("session")
	}
	if err != nil {
		return nil, err
	}

	answers, err := s.Sessions.ListAnswers(sessionID)
	if err != nil {
		return nil, err
	}
	answerByQuestion := make(map[uint]model.SessionAnswer, len(answers))
	for _, a := range answers {
		answerByQuestion[a.QuestionID] = a
	}

	questionIDs := session.QuestionIDs()
	details := make([]ResultDetail, 0, len(answers))
	correctCount := 0

	for _, qid := range questionIDs {
		answer, ok := answerByQuestion[qid]
		if !ok {
			continue
		}

		question, err := s.Questions.FindByID(qid)
		if err != nil {
			return nil, err
		}

		detail := ResultDetail{
			QuestionID:   question.ID,
			QuestionText: question.Text,
		}
		for _, opt := range question.Options {
			if opt.ID == answer.AnswerOptionID {
				detail.ChosenAnswerID = opt.ID
				detail.ChosenAnswerText = opt.Text
				detail.IsCorrect = opt.IsCorrect
			}
			if opt.IsCorrect {
				detail.CorrectAnswerID = opt.ID
				detail.CorrectAnswerText = opt.Text
			}
		}
		if detail.IsCorrect {
			correctCount++
		}
		details = append(details, detail)
	}

	return &SessionResults{
		SessionID:      session.ID,
		TotalQuestions: len(questionIDs),
		CorrectAnswers: correctCount,
		Percentage:     percentage(correctCount, len(questionIDs)),
		FinishedAt:     session.FinishedAt,
		Details:        details,
	}, nil
}
