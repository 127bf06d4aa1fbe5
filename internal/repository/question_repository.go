package repository

import (
	"tg_quiz_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

// Sample 按难度均匀随机抽取不重复的题目 id，抽取顺序即出题顺序
func (r *QuestionRepository) Sample(difficulty string, count int) ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.Question{}).
		Where("difficulty = ?", difficulty).
		Order("RAND()").
		Limit(count).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *QuestionRepository) CountByDifficulty(difficulty string) (int64, error) {
	var total int64
	err := r.DB.Model(&model.Question{}).Where("difficulty = ?", difficulty).Count(&total).Error
	return total, err
}

func (r *QuestionRepository) FindByID(id uint) (*model.Question, error) {
	var q model.Question
	err := r.DB.Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("answer_options.id asc")
	}).First(&q, id).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// CreateWithOptions 在事务内创建题目及其选项
func (r *QuestionRepository) CreateWithOptions(q *model.Question) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(q).Error
	})
}

func (r *QuestionRepository) List(difficulty string, page, limit int) ([]model.Question, int64, error) {
	var qs []model.Question
	var total int64
	query := r.DB.Model(&model.Question{})
	if difficulty != "" {
		query = query.Where("difficulty = ?", difficulty)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("answer_options.id asc")
	}).Order("id asc").Offset(offset).Limit(limit).Find(&qs).Error
	return qs, total, err
}

func (r *QuestionRepository) ListAll() ([]model.Question, error) {
	var qs []model.Question
	err := r.DB.Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("answer_options.id asc")
	}).Order("id asc").Find(&qs).Error
	return qs, err
}
