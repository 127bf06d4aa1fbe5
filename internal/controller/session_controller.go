package controller

import (
	"strconv"
	"tg_quiz_backend/internal/model"
	"tg_quiz_backend/internal/service"
	"tg_quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SessionController struct {
	Sessions *service.SessionService
	Results  *service.ResultService
}

func NewSessionController(sessions *service.SessionService, results *service.ResultService) *SessionController {
	return &SessionController{Sessions: sessions, Results: results}
}

type CreateSessionRequest struct {
	UserID         uint   `json:"userId" binding:"required"`
	Difficulty     string `json:"difficulty" binding:"required"`
	TotalQuestions int    `json:"totalQuestions" binding:"required"`
	RevealPolicy   string `json:"revealPolicy"`
}

// @Summary 创建测验会话
// @Description 按难度随机抽题，题库不足时返回 400
// @Tags 会话
// @Accept json
// @Produce json
// @Param body body CreateSessionRequest true "会话参数"
// @Success 201 {object} util.Response
// @Router /sessions [post]
func (c *SessionController) CreateSession(ctx *gin.Context) {
	var req CreateSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	policy := model.RevealPolicy(req.RevealPolicy)
	if req.RevealPolicy == "" {
		policy = model.RevealAtEnd
	}

	session, err := c.Sessions.CreateSession(req.UserID, req.Difficulty, req.TotalQuestions, policy)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Created(ctx, session)
}

// @Summary 获取最近的未完成会话
// @Description 用于恢复被中断的测验；没有则返回 404
// @Tags 会话
// @Produce json
// @Param userId query int true "用户ID"
// @Success 200 {object} util.Response
// @Router /sessions/last [get]
func (c *SessionController) GetLastActiveSession(ctx *gin.Context) {
	userID, err := strconv.Atoi(ctx.Query("userId"))
	if err != nil || userID < 1 {
		util.BadRequest(ctx, "invalid userId")
		return
	}

	session, err := c.Sessions.GetLastActiveSession(uint(userID))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, session)
}

// @Summary 按索引获取题目
// @Description 返回的选项不含正确性标志
// @Tags 会话
// @Produce json
// @Param id path int true "会话ID"
// @Param index path int true "题目索引（从0开始）"
// @Success 200 {object} util.Response
// @Router /sessions/{id}/questions/{index} [get]
func (c *SessionController) GetQuestion(ctx *gin.Context) {
	sessionID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || sessionID < 1 {
		util.BadRequest(ctx, "invalid session id")
		return
	}
	index, err := strconv.Atoi(ctx.Param("index"))
	if err != nil || index < 0 {
		util.BadRequest(ctx, "invalid question index")
		return
	}

	view, err := c.Sessions.GetQuestionByIndex(uint(sessionID), index)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

type SubmitAnswerRequest struct {
	QuestionID uint `json:"questionId" binding:"required"`
	AnswerID   uint `json:"answerId" binding:"required"`
}

// @Summary 提交答案
// @Description 幂等：同一题重复提交覆盖旧答案
// @Tags 会话
// @Accept json
// @Produce json
// @Param id path int true "会话ID"
// @Param body body SubmitAnswerRequest true "答案"
// @Success 200 {object} util.Response
// @Router /sessions/{id}/answers [post]
func (c *SessionController) SubmitAnswer(ctx *gin.Context) {
	sessionID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || sessionID < 1 {
		util.BadRequest(ctx, "invalid session id")
		return
	}

	var req SubmitAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Sessions.SubmitAnswer(uint(sessionID), req.QuestionID, req.AnswerID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// @Summary 获取会话结果
// @Description 未完成的会话返回部分进度
// @Tags 会话
// @Produce json
// @Param id path int true "会话ID"
// @Success 200 {object} util.Response
// @Router /sessions/{id}/results [get]
func (c *SessionController) GetResults(ctx *gin.Context) {
	sessionID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || sessionID < 1 {
		util.BadRequest(ctx, "invalid session id")
		return
	}

	results, err := c.Results.GetResults(uint(sessionID))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, results)
}
