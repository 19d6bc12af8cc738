package controller

import (
	"encoding/json"
	"strconv"

	"lms_backend/internal/model"
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AssessmentController struct {
	AssessmentService *service.AssessmentService
}

func NewAssessmentController(assessmentService *service.AssessmentService) *AssessmentController {
	return &AssessmentController{AssessmentService: assessmentService}
}

type AssessmentRequest struct {
	CourseID         uint     `json:"courseId"`
	Title            string   `json:"title" binding:"required"`
	Description      string   `json:"description"`
	MaxAttempts      *int     `json:"maxAttempts"`
	TimeLimitSeconds int      `json:"timeLimitSeconds"`
	PassingScore     *float64 `json:"passingScore"`
	FeedbackSetting  string   `json:"feedbackSetting"`
	SelectionMode    string   `json:"selectionMode"`
	QuestionCount    int      `json:"questionCount" binding:"required"`
	BankIDs          []uint   `json:"bankIds" binding:"required"`
	TagFilter        string   `json:"tagFilter"`
	MinDifficulty    int      `json:"minDifficulty"`
	MaxDifficulty    int      `json:"maxDifficulty"`
}

func (r *AssessmentRequest) apply(a *model.Assessment) {
	a.CourseID = r.CourseID
	a.Title = r.Title
	a.Description = r.Description
	a.MaxAttempts = r.MaxAttempts
	a.TimeLimitSeconds = r.TimeLimitSeconds
	if r.PassingScore != nil {
		a.PassingScore = *r.PassingScore
	}
	if r.FeedbackSetting != "" {
		a.FeedbackSetting = model.FeedbackSetting(r.FeedbackSetting)
	}
	if r.SelectionMode != "" {
		a.SelectionMode = model.SelectionMode(r.SelectionMode)
	}
	a.QuestionCount = r.QuestionCount
	ids, _ := json.Marshal(r.BankIDs)
	a.BankIDs = ids
	a.TagFilter = r.TagFilter
	a.MinDifficulty = r.MinDifficulty
	a.MaxDifficulty = r.MaxDifficulty
}

// Create godoc
// @Summary 创建测验
// @Tags 测验管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body AssessmentRequest true "测验配置"
// @Success 201 {object} util.Response{data=model.Assessment}
// @Failure 400 {object} util.Response
// @Router /api/assessments [post]
func (c *AssessmentController) Create(ctx *gin.Context) {
	var req AssessmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	a := &model.Assessment{
		PassingScore:    60,
		FeedbackSetting: model.FeedbackAfterSubmit,
		SelectionMode:   model.SelectSequential,
	}
	req.apply(a)

	if err := c.AssessmentService.Create(a); err != nil {
		util.MapError(ctx, err)
		return
	}
	util.Created(ctx, a)
}

// Get godoc
// @Summary 查询测验
// @Tags 测验管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "测验ID"
// @Success 200 {object} util.Response{data=model.Assessment}
// @Router /api/assessments/{id} [get]
func (c *AssessmentController) Get(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	a, err := c.AssessmentService.Get(id)
	if err != nil {
		util.MapError(ctx, err)
		return
	}
	util.Success(ctx, a)
}

// ListByCourse godoc
// @Summary 按课程查询测验
// @Tags 测验管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   courseId query int true "课程ID"
// @Success 200 {object} util.Response{data=[]model.Assessment}
// @Router /api/assessments [get]
func (c *AssessmentController) ListByCourse(ctx *gin.Context) {
	courseID, err := strconv.ParseUint(ctx.Query("courseId"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "courseId is required")
		return
	}
	as, err := c.AssessmentService.ListByCourse(uint(courseID))
	if err != nil {
		util.MapError(ctx, err)
		return
	}
	util.Success(ctx, as)
}

// Update godoc
// @Summary 更新测验配置
// @Description 进行中的记录不受影响，新配置只作用于之后开始的记录
// @Tags 测验管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "测验ID"
// @Param   body body AssessmentRequest true "测验配置"
// @Success 200 {object} util.Response{data=model.Assessment}
// @Router /api/assessments/{id} [put]
func (c *AssessmentController) Update(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var req AssessmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	a, err := c.AssessmentService.Get(id)
	if err != nil {
		util.MapError(ctx, err)
		return
	}
	req.apply(a)

	if err := c.AssessmentService.Update(a); err != nil {
		util.MapError(ctx, err)
		return
	}
	util.Success(ctx, a)
}

// Delete godoc
// @Summary 删除测验
// @Tags 测验管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "测验ID"
// @Success 200 {object} util.Response
// @Router /api/assessments/{id} [delete]
func (c *AssessmentController) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := c.AssessmentService.Delete(id); err != nil {
		util.MapError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// Publish godoc
// @Summary 发布测验
// @Description 发布前校验题库能否满足抽题配置
// @Tags 测验管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "测验ID"
// @Success 200 {object} util.Response{data=model.Assessment}
// @Failure 422 {object} util.Response "题目数量不足"
// @Router /api/assessments/{id}/publish [post]
func (c *AssessmentController) Publish(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	a, err := c.AssessmentService.Publish(id)
	if err != nil {
		util.MapError(ctx, err)
		return
	}
	util.Success(ctx, a)
}
