package service

import (
	"bytes"
	"context"
	"encoding/json"
	"tg_quiz_backend/internal/model"
	"tg_quiz_backend/internal/repository"
	"tg_quiz_backend/internal/util"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const difficultySummaryKey = "questions:difficulty_summary"

type QuestionService struct {
	Repo    *repository.QuestionRepository
	Redis   *redis.Client
	Storage *StorageService
}

func NewQuestionService(repo *repository.QuestionRepository, rdb *redis.Client, storage *StorageService) *QuestionService {
	return &QuestionService{Repo: repo, Redis: rdb, Storage: storage}
}

// ImportQuestionPayload 管理端导入格式：correct 为正确答案在 answers 中的下标
type ImportQuestionPayload struct {
	Difficulty string `json:"difficulty" binding:"required"`
	Questions  []struct {
		Question string   `json:"question" binding:"required"`
		Answers  []string `json:"answers" binding:"required"`
		Correct  int      `json:"correct"`
	} `json:"questions" binding:"required"`
}

// ImportStats 导入结果统计
type ImportStats struct {
	BatchID          string `json:"batchId"`
	CreatedQuestions int    `json:"createdQuestions"`
	CreatedAnswers   int    `json:"createdAnswers"`
}

// ImportQuestions 逐题校验并入库。"每题恰好一个正确选项"在这里用
// correct 下标的构造方式保证，运行时不再复查。
func (s *QuestionService) ImportQuestions(ctx context.Context, payloads []ImportQuestionPayload) (*ImportStats, error) {
	stats := &ImportStats{BatchID: uuid.New().String()}

	for _, payload := range payloads {
		if payload.Difficulty == "" {
			return nil, util.Validation("difficulty is required")
		}
		for _, item := range payload.Questions {
			if len(item.Answers) < 2 {
				return nil, util.Validation("question %q needs at least 2 answers", item.Question)
			}
			if item.Correct < 0 || item.Correct >= len(item.Answers) {
				return nil, util.Validation("question %q has correct index %d out of range", item.Question, item.Correct)
			}

			question := &model.Question{
				Difficulty: payload.Difficulty,
				Text:       item.Question,
			}
			for i, answer := range item.Answers {
				question.Options = append(question.Options, model.AnswerOption{
					Text:      answer,
					IsCorrect: i == item.Correct,
				})
			}

			if err := s.Repo.CreateWithOptions(question); err != nil {
				return nil, err
			}
			stats.CreatedQuestions++
			stats.CreatedAnswers += len(item.Answers)
		}
	}

	// 题库变化后丢弃缓存的难度汇总
	if s.Redis != nil {
		s.Redis.Del(ctx, difficultySummaryKey)
	}

	return stats, nil
}

// ListQuestions 管理端分页列表，包含 isCorrect（仅管理端可见）
func (s *QuestionService) ListQuestions(difficulty string, page, limit int) ([]model.Question, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.Repo.List(difficulty, page, limit)
}

// DifficultySummary 各难度的题目数量，小程序的设置界面用它决定可选项
type DifficultySummary struct {
	Difficulty string `json:"difficulty"`
	Count      int64  `json:"count"`
}

// GetDifficultySummary 带 Redis 缓存的难度汇总；缓存未命中时回源数据库
func (s *QuestionService) GetDifficultySummary(ctx context.Context) ([]DifficultySummary, error) {
	if s.Redis != nil {
		val, err := s.Redis.Get(ctx, difficultySummaryKey).Result()
		if err == nil {
			var cached []DifficultySummary
			if json.Unmarshal([]byte(val), &cached) == nil {
				return cached, nil
			}
		}
	}

	summary := make([]DifficultySummary, 0, 3)
	for _, difficulty := range []string{"easy", "medium", "hard"} {
		count, err := s.Repo.CountByDifficulty(difficulty)
		if err != nil {
			return nil, err
		}
		summary = append(summary, DifficultySummary{Difficulty: difficulty, Count: count})
	}

	if s.Redis != nil {
		if encoded, err := json.Marshal(summary); err == nil {
			s.Redis.Set(ctx, difficultySummaryKey, encoded, 5*time.Minute)
		}
	}

	return summary, nil
}

// ExportQuestions 把整个题库序列化成 JSON 快照并上传到配置的对象存储
func (s *QuestionService) ExportQuestions(ctx context.Context) (string, error) {
	questions, err := s.Repo.ListAll()
	if err != nil {
		return "", err
	}

	encoded, err := json.MarshalIndent(questions, "", "  ")
	if err != nil {
		return "", err
	}

	filename := "exports/questions-" + time.Now().Format("20060102150405") + "-" + uuid.New().String() + ".json"
	return s.Storage.Upload(ctx, filename, bytes.NewReader(encoded), int64(len(encoded)), "application/json")
}
