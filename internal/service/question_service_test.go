package service

import (
	"context"
	"testing"

	"tg_quiz_backend/internal/util"
)

func TestImportQuestionsValidation(t *testing.T) {
	svc := &QuestionService{}
	ctx := context.Background()

	cases := []struct {
		name    string
		payload ImportQuestionPayload
	}{
		{
			name:    "missing difficulty",
			payload: importPayload("", "2+2?", []string{"3", "4"}, 1),
		},
		{
			name:    "single answer",
			payload: importPayload("easy", "2+2?", []string{"4"}, 0),
		},
		{
			name:    "correct index negative",
			payload: importPayload("easy", "2+2?", []string{"3", "4"}, -1),
		},
		{
			name:    "correct index out of range",
			payload: importPayload("easy", "2+2?", []string{"3", "4"}, 2),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.ImportQuestions(ctx, []ImportQuestionPayload{tc.payload})
			appErr, ok := util.AsAppError(err)
			if !ok || appErr.Kind != util.KindValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func importPayload(difficulty, question string, answers []string, correct int) ImportQuestionPayload {
	p := ImportQuestionPayload{Difficulty: difficulty}
	p.Questions = append(p.Questions, struct {
		Question string   `json:"question" binding:"required"`
		Answers  []string `json:"answers" binding:"required"`
		Correct  int      `json:"correct"`
	}{Question: question, Answers: answers, Correct: correct})
	return p
}
