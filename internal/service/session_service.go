package service

import (
	"errors"
	"strconv"
	"tg_quiz_backend/internal/model"
	"tg_quiz_backend/internal/util"
	"tg_quiz_backend/pkg/monitoring"
	"time"

	"gorm.io/gorm"
)

const (
	MinQuestionsPerSession = 5
	MaxQuestionsPerSession = 20
)

// SessionStore 会话的持久化边界
type SessionStore interface {
	Create(session *model.QuizSession, questionIDs []uint) error
	FindByID(id uint) (*model.QuizSession, error)
	FindLastOpen(userID uint) (*model.QuizSession, error)
	UpsertAnswer(answer *model.SessionAnswer) error
	CountAnswers(sessionID uint) (int64, error)
	MarkFinished(sessionID uint, at time.Time) error
	ListAnswers(sessionID uint) ([]model.SessionAnswer, error)
}

// QuestionBank 题库读取边界
type QuestionBank interface {
	Sample(difficulty string, count int) ([]uint, error)
	FindByID(id uint) (*model.Question, error)
}

// SessionService 测验会话状态机：创建、出题、答题、完成。
// 无进程内会话缓存：每个操作读存储、校验、写回。
type SessionService struct {
	Sessions  SessionStore
	Questions QuestionBank
}

func NewSessionService(sessions SessionStore, questions QuestionBank) *SessionService {
	return &SessionService{Sessions: sessions, Questions: questions}
}

// SessionDTO 会话的 API 视图；QuestionIDs 即出题顺序
type SessionDTO struct {
	ID             uint               `json:"id"`
	UserID         uint               `json:"userId"`
	Difficulty     string             `json:"difficulty"`
	TotalQuestions int                `json:"totalQuestions"`
	RevealPolicy   model.RevealPolicy `json:"revealPolicy"`
	QuestionIDs    []uint             `json:"questionIds"`
	StartedAt      time.Time          `json:"startedAt"`
	FinishedAt     *time.Time         `json:"finishedAt"`
}

func toSessionDTO(s *model.QuizSession) *SessionDTO {
	ids := s.QuestionIDs()
	return &SessionDTO{
		ID:             s.ID,
		UserID:         s.UserID,
		Difficulty:     s.Difficulty,
		TotalQuestions: len(ids),
		RevealPolicy:   s.RevealPolicy,
		QuestionIDs:    ids,
		StartedAt:      s.StartedAt,
		FinishedAt:     s.FinishedAt,
	}
}

// RedactedOption 不含 isCorrect 的选项视图
type RedactedOption struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

// RedactedQuestion 发给客户端的题目视图。客户端不可信，
// 正确性标志绝不下发，防止通过抓包提前拿到答案。
type RedactedQuestion struct {
	ID      uint             `json:"id"`
	Text    string           `json:"text"`
	Answers []RedactedOption `json:"answers"`
}

// SessionQuestionView 按索引取题的结果
type SessionQuestionView struct {
	Question RedactedQuestion `json:"question"`
	Index    int              `json:"index"`
	IsLast   bool             `json:"isLast"`
}

// SubmitAnswerResult 无论会话是否已完成都返回正确选项，
// 由客户端按 revealPolicy 决定何时展示
type SubmitAnswerResult struct {
	IsCorrect       bool `json:"isCorrect"`
	CorrectAnswerID uint `json:"correctAnswerId"`
}

// CreateSession 抽题并创建会话。题库不足时先行失败，不会留下空会话。
func (s *SessionService) CreateSession(userID uint, difficulty string, totalQuestions int, revealPolicy model.RevealPolicy) (*SessionDTO, error) {
	if difficulty == "" {
		return nil, util.Validation("difficulty is required")
	}
	if totalQuestions < MinQuestionsPerSession || totalQuestions > MaxQuestionsPerSession {
		return nil, util.Validation("totalQuestions must be between %d and %d", MinQuestionsPerSession, MaxQuestionsPerSession)
	}
	if !revealPolicy.Valid() {
		return nil, util.Validation("invalid reveal policy %q", string(revealPolicy))
	}

	questionIDs, err := s.Questions.Sample(difficulty, totalQuestions)
	if err != nil {
		return nil, err
	}
	if len(questionIDs) < totalQuestions {
		return nil, util.Validation("not enough questions for difficulty %q (have %d, need %d)", difficulty, len(questionIDs), totalQuestions)
	}

	session := &model.QuizSession{
		UserID:       userID,
		Difficulty:   difficulty,
		RevealPolicy: revealPolicy,
		StartedAt:    time.Now(),
	}
	if err := s.Sessions.Create(session, questionIDs); err != nil {
		return nil, err
	}

	monitoring.SessionsCreated.WithLabelValues(difficulty).Inc()
	return toSessionDTO(session), nil
}

// GetLastActiveSession 用于恢复被中断的测验；没有未完成的会话时返回 NotFound
func (s *SessionService) GetLastActiveSession(userID uint) (*SessionDTO, error) {
	session, err := s.Sessions.FindLastOpen(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.NotFoundError("session")
	}
	if err != nil {
		return nil, err
	}
	return toSessionDTO(session), nil
}

// GetQuestionByIndex 按会话内索引取题。索引越界和会话不存在都视为 NotFound：
// 这是客户端引用过期，不是输入格式错误。
func (s *SessionService) GetQuestionByIndex(sessionID uint, index int) (*SessionQuestionView, error) {
	session, err := s.Sessions.FindByID(sessionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.NotFoundError("session")
	}
	if err != nil {
		return nil, err
	}

	questionIDs := session.QuestionIDs()
	if index < 0 || index >= len(questionIDs) {
		return nil, util.NotFoundError("question")
	}

	question, err := s.Questions.FindByID(questionIDs[index])
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.NotFoundError("question")
	}
	if err != nil {
		return nil, err
	}

	answers := make([]RedactedOption, 0, len(question.Options))
	for _, opt := range question.Options {
		answers = append(answers, RedactedOption{ID: opt.ID, Text: opt.Text})
	}

	return &SessionQuestionView{
		Question: RedactedQuestion{ID: question.ID, Text: question.Text, Answers: answers},
		Index:    index,
		IsLast:   index == len(questionIDs)-1,
	}, nil
}

// SubmitAnswer 记录一次回答并返回正确性。
// 校验全部通过后才写入，因此校验失败不会留下任何答案记录。
// 重复提交同一题覆盖旧答案（幂等，支持超时重试）。
func (s *SessionService) SubmitAnswer(sessionID, questionID, answerOptionID uint) (*SubmitAnswerResult, error) {
	session, err := s.Sessions.FindByID(sessionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.NotFoundError("session")
	}
	if err != nil {
		return nil, err
	}

	questionIDs := session.QuestionIDs()
	inSession := false
	for _, qid := range questionIDs {
		if qid == questionID {
			inSession = true
			break
		}
	}
	if !inSession {
		return nil, util.Validation("question %d does not belong to session %d", questionID, sessionID)
	}

	question, err := s.Questions.FindByID(questionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.NotFoundError("question")
	}
	if err != nil {
		return nil, err
	}

	var chosen, correct *model.AnswerOption
	for i := range question.Options {
		opt := &question.Options[i]
		if opt.ID == answerOptionID {
			chosen = opt
		}
		if opt.IsCorrect {
			correct = opt
		}
	}
	if chosen == nil {
		return nil, util.Validation("answer option %d does not belong to question %d", answerOptionID, questionID)
	}
	if correct == nil {
		// 导入时保证每题恰好一个正确选项；走到这里说明题库损坏
		return nil, errors.New("question " + strconv.Itoa(int(questionID)) + " has no correct option")
	}

	if err := s.Sessions.UpsertAnswer(&model.SessionAnswer{
		SessionID:      sessionID,
		QuestionID:     questionID,
		AnswerOptionID: answerOptionID,
		AnsweredAt:     time.Now(),
	}); err != nil {
		return nil, err
	}

	// 完成判定基于写入后的实时计数，重复提交不会多计
	answered, err := s.Sessions.CountAnswers(sessionID)
	if err != nil {
		return nil, err
	}
	if answered == int64(len(questionIDs)) && session.FinishedAt == nil {
		if err := s.Sessions.MarkFinished(sessionID, time.Now()); err != nil {
			return nil, err
		}
		monitoring.SessionsCompleted.Inc()
	}

	monitoring.AnswersSubmitted.WithLabelValues(strconv.FormatBool(chosen.IsCorrect)).Inc()
	return &SubmitAnswerResult{
		IsCorrect:       chosen.IsCorrect,
		CorrectAnswerID: correct.ID,
	}, nil
}
