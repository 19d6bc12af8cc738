package controller

import (
	"encoding/json"
	"strconv"

	"lms_backend/internal/model"
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestionBankController struct {
	BankService *service.QuestionBankService
}

func NewQuestionBankController(bankService *service.QuestionBankService) *QuestionBankController {
	return &QuestionBankController{BankService: bankService}
}

type BankRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// CreateBank godoc
// @Summary 创建题库
// @Tags 题库管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body BankRequest true "题库信息"
// @Success 201 {object} util.Response{data=model.QuestionBank}
// @Router /api/banks [post]
func (c *QuestionBankController) CreateBank(ctx *gin.Context) {
	var req BankRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	bank := &model.QuestionBank{
		Name:        req.Name,
		Description: req.Description,
		CreatorID:   claims.UserID,
	}
	if err := c.BankService.CreateBank(bank); err != nil {
		util.MapError(ctx, err)
		return
	}
	util.Created(ctx, bank)
}

// ListBanks godoc
// @Summary 查询题库列表
// @Tags 题库管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   creatorId query int false "创建者ID"
// @Success 200 {object} util.Response{data=[]model.QuestionBank}
// @Router /api/banks [get]
func (c *QuestionBankController) ListBanks(ctx *gin.Context) {
	var creatorID uint
	if v, err := strconv.ParseUint(ctx.Query("creatorId"), 10, 32); err == nil {
		creatorID = uint(v)
	}
	banks, err := c.BankService.ListBanks(creatorID)
	if err != nil {
		util.MapError(ctx, err)
		return
	}
	util.Success(ctx, banks)
}

// GetBank godoc
// @Summary 查询题库
// @Tags 题库管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "题库ID"
// @Success 200 {object} util.Response{data=model.QuestionBank}
// @Router /api/banks/{id} [get]
func (c *QuestionBankController) GetBank(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	bank, err := c.BankService.GetBank(id)
	if err != nil {
		util.MapError(ctx, err)
		return
	}
	util.Success(ctx, bank)
}

// DeleteBank godoc
// @Summary 删除题库
// @Tags 题库管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "题库ID"
// @Success 200 {object} util.Response
// @Router /api/banks/{id} [delete]
func (c *QuestionBankController) DeleteBank(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := c.BankService.DeleteBank(id); err != nil {
		util.MapError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

type QuestionRequest struct {
	QuestionType     string            `json:"questionType" binding:"required"`
	Text             string            `json:"text" binding:"required"`
	Options          []string          `json:"options"`
	CorrectAnswer    string            `json:"correctAnswer"`
	AlternateAnswers []string          `json:"alternateAnswers"`
	CorrectPairs     map[string]string `json:"correctPairs"`
	Points           float64           `json:"points"`
	Difficulty       int               `json:"difficulty"`
	Tags             string            `json:"tags"`
	Active           *bool             `json:"active"`
}

func (r *QuestionRequest) toModel(bankID uint) *model.Question {
	q := &model.Question{
		BankID:        bankID,
		QuestionType:  model.QuestionType(r.QuestionType),
		Text:          r.Text,
		CorrectAnswer: r.CorrectAnswer,
		Points:        r.Points,
		Difficulty:    r.Difficulty,
		Tags:          r.Tags,
		Active:        true,
	}
	if q.Points == 0 {
		q.Points = 1
	}
	if q.Difficulty == 0 {
		q.Difficulty = 1
	}
	if r.Active != nil {
		q.Active = *r.Active
	}
	if len(r.Options) > 0 {
		q.Options, _ = json.Marshal(r.Options)
	}
	if len(r.AlternateAnswers) > 0 {
		q.AlternateAnswers, _ = json.Marshal(r.AlternateAnswers)
	}
	if len(r.CorrectPairs) > 0 {
		q.CorrectPairs, _ = json.Marshal(r.CorrectPairs)
	}
	return q
}

// AddQuestion godoc
// @Summary 向题库添加题目
// @Tags 题库管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "题库ID"
// @Param   body body QuestionRequest true "题目内容"
// @Success 201 {object} util.Response{data=model.Question}
// @Failure 400 {object} util.Response "题目内容不合法"
// @Router /api/banks/{id}/questions [post]
func (c *QuestionBankController) AddQuestion(ctx *gin.Context) {
	bankID, ok := pathID(ctx)
	if !ok {
		return
	}
	var req QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q := req.toModel(bankID)
	if err := c.BankService.AddQuestion(q); err != nil {
		util.MapError(ctx, err)
		return
	}
	util.Created(ctx, q)
}

// ListQuestions godoc
// @Summary 查询题库中的题目
// @Tags 题库管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "题库ID"
// @Success 200 {object} util.Response{data=[]model.Question}
// @Router /api/banks/{id}/questions [get]
func (c *QuestionBankController) ListQuestions(ctx *gin.Context) {
	bankID, ok := pathID(ctx)
	if !ok {
		return
	}
	qs, err := c.BankService.ListQuestions(bankID)
	if err != nil {
		util.MapError(ctx, err)
		return
	}
	util.Success(ctx, qs)
}

// UpdateQuestion godoc
// @Summary 更新题目
// @Description 已冻结在历史记录中的快照不受影响
// @Tags 题库管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "题库ID"
// @Param   qid path int true "题目ID"
// @Param   body body QuestionRequest true "题目内容"
// @Success 200 {object} util.Response{data=model.Question}
// @Router /api/banks/{id}/questions/{qid} [put]
func (c *QuestionBankController) UpdateQuestion(ctx *gin.Context) {
	bankID, ok := pathID(ctx)
	if !ok {
		return
	}
	qid, err := strconv.ParseUint(ctx.Param("qid"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid question id")
		return
	}
	var req QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	existing, err := c.BankService.GetQuestion(uint(qid))
	if err != nil {
		util.MapError(ctx, err)
		return
	}
	q := req.toModel(bankID)
	q.ID = existing.ID
	q.CreatedAt = existing.CreatedAt

	if err := c.BankService.UpdateQuestion(q); err != nil {
		util.MapError(ctx, err)
		return
	}
	util.Success(ctx, q)
}

// DeleteQuestion godoc
// @Summary 删除题目
// @Tags 题库管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "题库ID"
// @Param   qid path int true "题目ID"
// @Success 200 {object} util.Response
// @Router /api/banks/{id}/questions/{qid} [delete]
func (c *QuestionBankController) DeleteQuestion(ctx *gin.Context) {
	qid, err := strconv.ParseUint(ctx.Param("qid"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid question id")
		return
	}
	if err := c.BankService.DeleteQuestion(uint(qid)); err != nil {
		util.MapError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
