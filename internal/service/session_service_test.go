package service

import (
	"strconv"
	"testing"
	"time"

	"tg_quiz_backend/internal/model"
	"tg_quiz_backend/internal/util"

	"gorm.io/gorm"
)

type fakeSessionStore struct {
	sessions      map[uint]*model.QuizSession
	answers       map[uint]map[uint]model.SessionAnswer
	nextID        uint
	finishedCalls int
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		sessions: make(map[uint]*model.QuizSession),
		answers:  make(map[uint]map[uint]model.SessionAnswer),
	}
}

func (f *fakeSessionStore) Create(session *model.QuizSession, questionIDs []uint) error {
	f.nextID++
	session.ID = f.nextID
	for i, qid := range questionIDs {
		session.Questions = append(session.Questions, model.SessionQuestion{
			SessionID:  session.ID,
			QuestionID: qid,
			OrderIndex: i,
		})
	}
	f.sessions[session.ID] = session
	return nil
}

func (f *fakeSessionStore) FindByID(id uint) (*model.QuizSession, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (f *fakeSessionStore) FindLastOpen(userID uint) (*model.QuizSession, error) {
	var last *model.QuizSession
	for _, s := range f.sessions {
		if s.UserID != userID || s.FinishedAt != nil {
			continue
		}
		if last == nil || s.ID > last.ID {
			last = s
		}
	}
	if last == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return last, nil
}

func (f *fakeSessionStore) UpsertAnswer(answer *model.SessionAnswer) error {
	if f.answers[answer.SessionID] == nil {
		f.answers[answer.SessionID] = make(map[uint]model.SessionAnswer)
	}
	f.answers[answer.SessionID][answer.QuestionID] = *answer
	return nil
}

func (f *fakeSessionStore) CountAnswers(sessionID uint) (int64, error) {
	return int64(len(f.answers[sessionID])), nil
}

func (f *fakeSessionStore) MarkFinished(sessionID uint, at time.Time) error {
	s, ok := f.sessions[sessionID]
	if !ok || s.FinishedAt != nil {
		return nil
	}
	s.FinishedAt = &at
	f.finishedCalls++
	return nil
}

func (f *fakeSessionStore) ListAnswers(sessionID uint) ([]model.SessionAnswer, error) {
	out := make([]model.SessionAnswer, 0, len(f.answers[sessionID]))
	for _, a := range f.answers[sessionID] {
		out = append(out, a)
	}
	return out, nil
}

type fakeQuestionBank struct {
	questions map[uint]*model.Question
	pool      map[string][]uint
}

func (f *fakeQuestionBank) Sample(difficulty string, count int) ([]uint, error) {
	ids := f.pool[difficulty]
	if len(ids) > count {
		ids = ids[:count]
	}
	return ids, nil
}

func (f *fakeQuestionBank) FindByID(id uint) (*model.Question, error) {
	q, ok := f.questions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return q, nil
}

// newTestBank 构造 n 道 easy 题，每题三个选项，第二个为正确答案。
// 题目 ID 从 1 开始，题目 i 的选项 ID 为 i*10+1..i*10+3。
func newTestBank(n int) *fakeQuestionBank {
	bank := &fakeQuestionBank{
		questions: make(map[uint]*model.Question),
		pool:      map[string][]uint{"easy": {}},
	}
	for i := 1; i <= n; i++ {
		qid := uint(i)
		q := &model.Question{
			Difficulty: "easy",
			Text:       "question " + strconv.Itoa(i),
		}
		q.ID = qid
		for j := 1; j <= 3; j++ {
			opt := model.AnswerOption{
				QuestionID: qid,
				Text:       "option",
				IsCorrect:  j == 2,
			}
			opt.ID = qid*10 + uint(j)
			q.Options = append(q.Options, opt)
		}
		bank.questions[qid] = q
		bank.pool["easy"] = append(bank.pool["easy"], qid)
	}
	return bank
}

func correctOptionID(questionID uint) uint { return questionID*10 + 2 }
func wrongOptionID(questionID uint) uint   { return questionID*10 + 1 }

func newTestSessionService(bankSize int) (*SessionService, *fakeSessionStore) {
	store := newFakeSessionStore()
	return NewSessionService(store, newTestBank(bankSize)), store
}

func TestCreateSession(t *testing.T) {
	svc, _ := newTestSessionService(10)

	dto, err := svc.CreateSession(1, "easy", 5, model.RevealAtEnd)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if dto.TotalQuestions != 5 || len(dto.QuestionIDs) != 5 {
		t.Fatalf("expected 5 questions, got %+v", dto)
	}
	if dto.FinishedAt != nil {
		t.Fatalf("new session must be open, got finishedAt=%v", dto.FinishedAt)
	}
	if dto.RevealPolicy != model.RevealAtEnd {
		t.Fatalf("unexpected reveal policy %q", dto.RevealPolicy)
	}
}

func TestCreateSessionValidation(t *testing.T) {
	svc, _ := newTestSessionService(10)

	cases := []struct {
		name       string
		difficulty string
		total      int
		policy     model.RevealPolicy
	}{
		{"empty difficulty", "", 5, model.RevealAtEnd},
		{"below minimum", "easy", 4, model.RevealAtEnd},
		{"above maximum", "easy", 21, model.RevealAtEnd},
		{"bad policy", "easy", 5, model.RevealPolicy("sometimes")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateSession(1, tc.difficulty, tc.total, tc.policy)
			appErr, ok := util.AsAppError(err)
			if !ok || appErr.Kind != util.KindValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateSessionPoolTooSmall(t *testing.T) {
	svc, _ := newTestSessionService(3)

	_, err := svc.CreateSession(1, "easy", 5, model.RevealAtEnd)
	appErr, ok := util.AsAppError(err)
	if !ok || appErr.Kind != util.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetLastActiveSession(t *testing.T) {
	svc, _ := newTestSessionService(10)

	if _, err := svc.GetLastActiveSession(1); err == nil {
		t.Fatal("expected error with no sessions")
	}

	first, _ := svc.CreateSession(1, "easy", 5, model.RevealAtEnd)
	second, _ := svc.CreateSession(1, "easy", 5, model.RevealAtEnd)

	got, err := svc.GetLastActiveSession(1)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.ID != second.ID {
		t.Fatalf("expected newest session %d, got %d", second.ID, got.ID)
	}
	_ = first
}

func TestGetLastActiveSessionSkipsFinished(t *testing.T) {
	svc, store := newTestSessionService(10)

	dto, _ := svc.CreateSession(1, "easy", 5, model.RevealAtEnd)
	for _, qid := range dto.QuestionIDs {
		if _, err := svc.SubmitAnswer(dto.ID, qid, correctOptionID(qid)); err != nil {
			t.Fatalf("submit failed: %v", err)
		}
	}
	if store.sessions[dto.ID].FinishedAt == nil {
		t.Fatal("session should be finished")
	}

	_, err := svc.GetLastActiveSession(1)
	appErr, ok := util.AsAppError(err)
	if !ok || appErr.Kind != util.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetQuestionByIndexRedactsAnswers(t *testing.T) {
	svc, _ := newTestSessionService(10)
	dto, _ := svc.CreateSession(1, "easy", 5, model.RevealAtEnd)

	view, err := svc.GetQuestionByIndex(dto.ID, 0)
	if err != nil {
		t.Fatalf("get question failed: %v", err)
	}
	if view.Index != 0 || view.IsLast {
		t.Fatalf("unexpected position: %+v", view)
	}
	if len(view.Question.Answers) != 3 {
		t.Fatalf("expected 3 answers, got %d", len(view.Question.Answers))
	}

	last, err := svc.GetQuestionByIndex(dto.ID, 4)
	if err != nil {
		t.Fatalf("get last question failed: %v", err)
	}
	if !last.IsLast {
		t.Fatal("index 4 of 5 must be last")
	}
}

func TestGetQuestionByIndexOutOfRange(t *testing.T) {
	svc, _ := newTestSessionService(10)
	dto, _ := svc.CreateSession(1, "easy", 5, model.RevealAtEnd)

	for _, idx := range []int{-1, 5, 100} {
		_, err := svc.GetQuestionByIndex(dto.ID, idx)
		appErr, ok := util.AsAppError(err)
		if !ok || appErr.Kind != util.KindNotFound {
			t.Fatalf("index %d: expected not found, got %v", idx, err)
		}
	}
}

func TestGetQuestionUnknownSession(t *testing.T) {
	svc, _ := newTestSessionService(10)

	_, err := svc.GetQuestionByIndex(999, 0)
	appErr, ok := util.AsAppError(err)
	if !ok || appErr.Kind != util.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSubmitAnswerReportsCorrectness(t *testing.T) {
	svc, _ := newTestSessionService(10)
	dto, _ := svc.CreateSession(1, "easy", 5, model.RevealAtEnd)
	qid := dto.QuestionIDs[0]

	res, err := svc.SubmitAnswer(dto.ID, qid, wrongOptionID(qid))
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if res.IsCorrect {
		t.Fatal("wrong option reported as correct")
	}
	if res.CorrectAnswerID != correctOptionID(qid) {
		t.Fatalf("expected correct answer %d, got %d", correctOptionID(qid), res.CorrectAnswerID)
	}

	res, err = svc.SubmitAnswer(dto.ID, qid, correctOptionID(qid))
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if !res.IsCorrect {
		t.Fatal("correct option reported as wrong")
	}
}

func TestSubmitAnswerResubmissionOverwrites(t *testing.T) {
	svc, store := newTestSessionService(10)
	dto, _ := svc.CreateSession(1, "easy", 5, model.RevealAtEnd)
	qid := dto.QuestionIDs[0]

	if _, err := svc.SubmitAnswer(dto.ID, qid, wrongOptionID(qid)); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if _, err := svc.SubmitAnswer(dto.ID, qid, correctOptionID(qid)); err != nil {
		t.Fatalf("resubmit failed: %v", err)
	}

	answers, _ := store.ListAnswers(dto.ID)
	if len(answers) != 1 {
		t.Fatalf("expected single answer record, got %d", len(answers))
	}
	if answers[0].AnswerOptionID != correctOptionID(qid) {
		t.Fatalf("expected latest answer %d, got %d", correctOptionID(qid), answers[0].AnswerOptionID)
	}
}

func TestSubmitAnswerRejectsForeignQuestion(t *testing.T) {
	svc, store := newTestSessionService(10)
	dto, _ := svc.CreateSession(1, "easy", 5, model.RevealAtEnd)

	// 题目 6 存在于题库但不在本会话中
	_, err := svc.SubmitAnswer(dto.ID, 6, correctOptionID(6))
	appErr, ok := util.AsAppError(err)
	if !ok || appErr.Kind != util.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	answers, _ := store.ListAnswers(dto.ID)
	if len(answers) != 0 {
		t.Fatalf("rejected submission must not be recorded, got %d answers", len(answers))
	}
}

func TestSubmitAnswerRejectsForeignOption(t *testing.T) {
	svc, store := newTestSessionService(10)
	dto, _ := svc.CreateSession(1, "easy", 5, model.RevealAtEnd)
	qid := dto.QuestionIDs[0]
	other := dto.QuestionIDs[1]

	_, err := svc.SubmitAnswer(dto.ID, qid, correctOptionID(other))
	appErr, ok := util.AsAppError(err)
	if !ok || appErr.Kind != util.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	answers, _ := store.ListAnswers(dto.ID)
	if len(answers) != 0 {
		t.Fatalf("rejected submission must not be recorded, got %d answers", len(answers))
	}
}

func TestSubmitAnswerCompletesSessionOnce(t *testing.T) {
	svc, store := newTestSessionService(10)
	dto, _ := svc.CreateSession(1, "easy", 5, model.RevealAtEnd)

	for i, qid := range dto.QuestionIDs {
		if _, err := svc.SubmitAnswer(dto.ID, qid, correctOptionID(qid)); err != nil {
			t.Fatalf("submit %d failed: %v", i, err)
		}
		finished := store.sessions[dto.ID].FinishedAt != nil
		wantFinished := i == len(dto.QuestionIDs)-1
		if finished != wantFinished {
			t.Fatalf("after answer %d: finished=%v, want %v", i, finished, wantFinished)
		}
	}

	// 完成后重复提交仍然幂等，不会二次完成
	qid := dto.QuestionIDs[0]
	if _, err := svc.SubmitAnswer(dto.ID, qid, wrongOptionID(qid)); err != nil {
		t.Fatalf("resubmit after completion failed: %v", err)
	}
	if store.finishedCalls != 1 {
		t.Fatalf("expected exactly one completion, got %d", store.finishedCalls)
	}
}

func TestSubmitAnswerUnknownSession(t *testing.T) {
	svc, _ := newTestSessionService(10)

	_, err := svc.SubmitAnswer(999, 1, correctOptionID(1))
	appErr, ok := util.AsAppError(err)
	if !ok || appErr.Kind != util.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
