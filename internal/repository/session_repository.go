package repository

import (
	"tg_quiz_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SessionRepository struct {
	DB *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

// Create 在事务内创建会话及其有序题目关联；questionIDs 的顺序即出题顺序
func (r *SessionRepository) Create(session *model.QuizSession, questionIDs []uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(session).Error; err != nil {
			return err
		}

		sqs := make([]model.SessionQuestion, 0, len(questionIDs))
		for i, qid := range questionIDs {
			sqs = append(sqs, model.SessionQuestion{
				SessionID:  session.ID,
				QuestionID: qid,
				OrderIndex: i,
			})
		}
		if err := tx.Create(&sqs).Error; err != nil {
			return err
		}

		session.Questions = sqs
		return nil
	})
}

func (r *SessionRepository) FindByID(id uint) (*model.QuizSession, error) {
	var s model.QuizSession
	err := r.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("session_questions.order_index asc")
	}).First(&s, id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// FindLastOpen 返回该用户最近一个未完成的会话；没有则返回 gorm.ErrRecordNotFound
func (r *SessionRepository) FindLastOpen(userID uint) (*model.QuizSession, error) {
	var s model.QuizSession
	err := r.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("session_questions.order_index asc")
	}).Where("user_id = ? AND finished_at IS NULL", userID).
		Order("started_at desc, id desc").
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// UpsertAnswer 以 (session_id, question_id) 为自然键的幂等写入：重复提交覆盖而不是报错
func (r *SessionRepository) UpsertAnswer(answer *model.SessionAnswer) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "session_id"}, {Name: "question_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"answer_option_id",
			"answered_at",
			"updated_at",
		}),
	}).Create(answer).Error
}

// CountAnswers 写入后的实时计数，完成判定不使用缓存的计数器
func (r *SessionRepository) CountAnswers(sessionID uint) (int64, error) {
	var total int64
	err := r.DB.Model(&model.SessionAnswer{}).Where("session_id = ?", sessionID).Count(&total).Error
	return total, err
}

// MarkFinished 只在 finished_at 仍为空时设置，先到者生效，后续调用为无操作
func (r *SessionRepository) MarkFinished(sessionID uint, at time.Time) error {
	return r.DB.Model(&model.QuizSession{}).
		Where("id = ? AND finished_at IS NULL", sessionID).
		Update("finished_at", at).Error
}

func (r *SessionRepository) ListAnswers(sessionID uint) ([]model.SessionAnswer, error) {
	var answers []model.SessionAnswer
	err := r.DB.Where("session_id = ?", sessionID).Find(&answers).Error
	return answers, err
}
