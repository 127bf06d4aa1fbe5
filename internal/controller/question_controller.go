package controller

import (
	"strconv"
	"tg_quiz_backend/internal/service"
	"tg_quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	Service *service.QuestionService
}

func NewQuestionController(svc *service.QuestionService) *QuestionController {
	return &QuestionController{Service: svc}
}

// @Summary 导入题库
// @Description 管理端批量导入，correct 为正确答案下标
// @Tags 题库
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body []service.ImportQuestionPayload true "题目列表"
// @Success 201 {object} util.Response
// @Router /admin/questions/import [post]
func (c *QuestionController) ImportQuestions(ctx *gin.Context) {
	var payloads []service.ImportQuestionPayload
	if err := ctx.ShouldBindJSON(&payloads); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if len(payloads) == 0 {
		util.BadRequest(ctx, "empty import payload")
		return
	}

	stats, err := c.Service.ImportQuestions(ctx.Request.Context(), payloads)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Created(ctx, stats)
}

// @Summary 题目列表
// @Description 管理端专用，含正确性标志
// @Tags 题库
// @Produce json
// @Security ApiKeyAuth
// @Param difficulty query string false "难度"
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response
// @Router /admin/questions [get]
func (c *QuestionController) ListQuestions(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	difficulty := ctx.Query("difficulty")

	questions, total, err := c.Service.ListQuestions(difficulty, page, limit)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  questions,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// @Summary 导出题库快照
// @Tags 题库
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /admin/questions/export [post]
func (c *QuestionController) ExportQuestions(ctx *gin.Context) {
	url, err := c.Service.ExportQuestions(ctx.Request.Context())
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"url": url})
}

// @Summary 各难度题目数量
// @Description 小程序设置界面用于决定可选难度
// @Tags 题库
// @Produce json
// @Success 200 {object} util.Response
// @Router /questions/summary [get]
func (c *QuestionController) DifficultySummary(ctx *gin.Context) {
	summary, err := c.Service.GetDifficultySummary(ctx.Request.Context())
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, summary)
}
