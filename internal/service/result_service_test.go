package service

import (
	"testing"

	"tg_quiz_backend/internal/model"
	"tg_quiz_backend/internal/util"
)

func newTestResultService(bankSize int) (*SessionService, *ResultService) {
	store := newFakeSessionStore()
	bank := newTestBank(bankSize)
	return NewSessionService(store, bank), NewResultService(store, bank)
}

func TestGetResultsCompletedSession(t *testing.T) {
	sessions, results := newTestResultService(10)
	dto, _ := sessions.CreateSession(1, "easy", 5, model.RevealAtEnd)

	// 3 对 2 错
	for i, qid := range dto.QuestionIDs {
		optionID := correctOptionID(qid)
		if i >= 3 {
			optionID = wrongOptionID(qid)
		}
		if _, err := sessions.SubmitAnswer(dto.ID, qid, optionID); err != nil {
			t.Fatalf("submit failed: %v", err)
		}
	}

	res, err := results.GetResults(dto.ID)
	if err != nil {
		t.Fatalf("get results failed: %v", err)
	}
	if res.TotalQuestions != 5 || res.CorrectAnswers != 3 {
		t.Fatalf("expected 3/5 correct, got %d/%d", res.CorrectAnswers, res.TotalQuestions)
	}
	if res.Percentage != 60 {
		t.Fatalf("expected 60%%, got %d", res.Percentage)
	}
	if res.FinishedAt == nil {
		t.Fatal("completed session must have finishedAt")
	}
	if len(res.Details) != 5 {
		t.Fatalf("expected 5 detail rows, got %d", len(res.Details))
	}

	first := res.Details[0]
	if first.QuestionID != dto.QuestionIDs[0] {
		t.Fatalf("details must follow session order, got question %d first", first.QuestionID)
	}
	if !first.IsCorrect || first.ChosenAnswerID != first.CorrectAnswerID {
		t.Fatalf("unexpected first detail: %+v", first)
	}
	wrong := res.Details[4]
	if wrong.IsCorrect || wrong.ChosenAnswerID == wrong.CorrectAnswerID {
		t.Fatalf("unexpected last detail: %+v", wrong)
	}
}

func TestGetResultsPartialSession(t *testing.T) {
	sessions, results := newTestResultService(10)
	dto, _ := sessions.CreateSession(1, "easy", 5, model.RevealAtEnd)

	// 只回答前两题
	for _, qid := range dto.QuestionIDs[:2] {
		if _, err := sessions.SubmitAnswer(dto.ID, qid, correctOptionID(qid)); err != nil {
			t.Fatalf("submit failed: %v", err)
		}
	}

	res, err := results.GetResults(dto.ID)
	if err != nil {
		t.Fatalf("get results failed: %v", err)
	}
	if res.FinishedAt != nil {
		t.Fatal("partial session must stay open")
	}
	if len(res.Details) != 2 {
		t.Fatalf("expected details only for answered questions, got %d", len(res.Details))
	}
	if res.TotalQuestions != 5 || res.CorrectAnswers != 2 {
		t.Fatalf("expected 2/5 correct, got %d/%d", res.CorrectAnswers, res.TotalQuestions)
	}
	// 百分比始终以会话总题数为分母
	if res.Percentage != 40 {
		t.Fatalf("expected 40%%, got %d", res.Percentage)
	}
}

func TestGetResultsUnknownSession(t *testing.T) {
	_, results := newTestResultService(10)

	_, err := results.GetResults(999)
	appErr, ok := util.AsAppError(err)
	if !ok || appErr.Kind != util.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPercentageRounding(t *testing.T) {
	cases := []struct {
		correct, total, want int
	}{
		{0, 0, 0},
		{0, 5, 0},
		{5, 5, 100},
		{1, 3, 33},
		{2, 3, 67},
		{1, 6, 17},
		{1, 8, 13}, // 12.5 向上取整
	}
	for _, tc := range cases {
		if got := percentage(tc.correct, tc.total); got != tc.want {
			t.Errorf("percentage(%d, %d) = %d, want %d", tc.correct, tc.total, got, tc.want)
		}
	}
}
