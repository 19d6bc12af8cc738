package controller

import (
	"strconv"

	"lms_backend/internal/model"
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AttemptController struct {
	AttemptService *service.AttemptService
}

func NewAttemptController(attemptService *service.AttemptService) *AttemptController {
	return &AttemptController{AttemptService: attemptService}
}

type StartAttemptRequest struct {
	SubjectID   uint   `json:"subjectId" binding:"required"`
	SubjectKind string `json:"subjectKind" binding:"required,oneof=assessment content"`
}

// Start godoc
// @Summary 开始新的测验或课件学习
// @Description 同一学习对象同时只允许一个进行中的记录
// @Tags 学习记录
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body StartAttemptRequest true "学习对象"
// @Success 201 {object} util.Response{data=model.Attempt}
// @Failure 403 {object} util.Response "次数已用完"
// @Failure 409 {object} util.Response "存在进行中的记录"
// @Router /api/attempts [post]
func (c *AttemptController) Start(ctx *gin.Context) {
	var req StartAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	attempt, err := c.AttemptService.Start(req.SubjectID, model.SubjectKind(req.SubjectKind), claims.UserID)
	if err != nil {
		util.MapError(ctx, err)
		return
	}
	util.Created(ctx, attempt)
}

// List godoc
// @Summary 查询学习记录
// @Description 学生只能查询自己的记录，教师可按学生过滤
// @Tags 学习记录
// @Produce  json
// @Security ApiKeyAuth
// @Param   subjectId query int false "学习对象ID"
// @Param   subjectKind query string false "assessment | content"
// @Param   learnerId query int false "学生ID（仅教师）"
// @Param   status query string false "状态过滤"
// @Success 200 {object} util.Response{data=[]model.Attempt}
// @Router /api/attempts [get]
func (c *AttemptController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	f := model.AttemptFilter{
		SubjectKind: model.SubjectKind(ctx.Query("subjectKind")),
		Status:      model.AttemptStatus(ctx.Query("status")),
	}
	if v, err := strconv.ParseUint(ctx.Query("subjectId"), 10, 32); err == nil {
		f.SubjectID = uint(v)
	}
	if claims.Role == model.Student {
		f.LearnerID = claims.UserID
	} else if v, err := strconv.ParseUint(ctx.Query("learnerId"), 10, 32); err == nil {
		f.LearnerID = uint(v)
	}

	attempts, err := c.AttemptService.ListAttempts(f)
	if err != nil {
		util.MapError(ctx, err)
		return
	}
	util.Success(ctx, attempts)
}

type SaveProgressRequest struct {
	Responses []service.ResponseUpdate `json:"responses" binding:"required"`
}

// SaveProgress godoc
// @Summary 保存作答进度
// @Description 合并作答内容，未知题目ID被忽略
// @Tags 学习记录
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "记录ID"
// @Param   body body SaveProgressRequest true "作答内容"
// @Success 200 {object} util.Response{data=model.Attempt}
// @Failure 403 {object} util.Response "已超时"
// @Failure 409 {object} util.Response "状态不允许"
// @Router /api/attempts/{id}/progress [put]
func (c *AttemptController) SaveProgress(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var req SaveProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	attempt, err := c.AttemptService.SaveProgress(id, claims.UserID, req.Responses)
	if err != nil {
		util.MapError(ctx, err)
		return
	}
	util.Success(ctx, attempt)
}

// Submit godoc
// @Summary 提交测验
// @Description 自动评分客观题，主观题转入人工评分
// @Tags 学习记录
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "记录ID"
// @Success 200 {object} util.Response{data=model.Attempt}
// @Failure 403 {object} util.Response "已超时"
// @Failure 409 {object} util.Response "状态不允许"
// @Router /api/attempts/{id}/submit [post]
func (c *AttemptController) Submit(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	claims := util.GetUserFromContext(ctx)
	attempt, err := c.AttemptService.Submit(id, claims.UserID)
	if err != nil {
		util.MapError(ctx, err)
		return
	}
	util.Success(ctx, attempt)
}

// Abandon godoc
// @Summary 放弃当前记录
// @Tags 学习记录
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "记录ID"
// @Success 200 {object} util.Response{data=model.Attempt}
// @Router /api/attempts/{id}/abandon [post]
func (c *AttemptController) Abandon(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	claims := util.GetUserFromContext(ctx)
	attempt, err := c.AttemptService.Abandon(id, claims.UserID)
	if err != nil {
		util.MapError(ctx, err)
		return
	}
	util.Success(ctx, attempt)
}

// Suspend godoc
// @Summary 挂起课件学习
// @Description 保存书签和断点数据，稍后可恢复
// @Tags 学习记录
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "记录ID"
// @Param   body body service.SuspendRequest true "断点数据"
// @Success 200 {object} util.Response{data=model.Attempt}
// @Router /api/attempts/{id}/suspend [post]
func (c *AttemptController) Suspend(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var req service.SuspendRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	attempt, err := c.AttemptService.Suspend(id, claims.UserID, req)
	if err != nil {
		util.MapError(ctx, err)
		return
	}
	util.Success(ctx, attempt)
}

// Resume godoc
// @Summary 恢复挂起的课件学习
// @Tags 学习记录
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "记录ID"
// @Success 200 {object} util.Response{data=model.Attempt}
// @Router /api/attempts/{id}/resume [post]
func (c *AttemptController) Resume(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	claims := util.GetUserFromContext(ctx)
	attempt, err := c.AttemptService.Resume(id, claims.UserID)
	if err != nil {
		util.MapError(ctx, err)
		return
	}
	util.Success(ctx, attempt)
}

// Results godoc
// @Summary 查看成绩与反馈
// @Description 正确答案按反馈策略决定是否返回
// @Tags 学习记录
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "记录ID"
// @Success 200 {object} util.Response{data=service.AttemptResult}
// @Router /api/attempts/{id}/results [get]
func (c *AttemptController) Results(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	claims := util.GetUserFromContext(ctx)
	result, err := c.AttemptService.GetResults(id, claims.UserID)
	if err != nil {
		util.MapError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

type GradeQuestionRequest struct {
	QuestionIndex int     `json:"questionIndex"`
	Score         float64 `json:"score"`
	Feedback      string  `json:"feedback"`
}

// GradeQuestion godoc
// @Summary 人工评分
// @Description 教师为主观题打分，全部打分后成绩自动汇总
// @Tags 学习记录
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "记录ID"
// @Param   body body GradeQuestionRequest true "评分内容"
// @Success 200 {object} util.Response{data=model.Attempt}
// @Failure 400 {object} util.Response "分数越界"
// @Failure 409 {object} util.Response "状态不允许"
// @Router /api/attempts/{id}/grade [post]
func (c *AttemptController) GradeQuestion(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var req GradeQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	attempt, err := c.AttemptService.GradeQuestion(id, req.QuestionIndex, req.Score, req.Feedback, claims.UserID)
	if err != nil {
		util.MapError(ctx, err)
		return
	}
	util.Success(ctx, attempt)
}

// GetCmi godoc
// @Summary 读取CMI数据
// @Description 返回课件运行时的数据模型键值
// @Tags 学习记录
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "记录ID"
// @Success 200 {object} util.Response{data=object}
// @Router /api/attempts/{id}/cmi [get]
func (c *AttemptController) GetCmi(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	claims := util.GetUserFromContext(ctx)
	data, err := c.AttemptService.GetCmiData(id, claims.UserID)
	if err != nil {
		util.MapError(ctx, err)
		return
	}
	util.Success(ctx, data)
}

type UpdateCmiRequest struct {
	Values map[string]string `json:"values" binding:"required"`
}

// UpdateCmi godoc
// @Summary 写入CMI数据
// @Description 批量写入课件数据模型，只读键和未知键被整体拒绝
// @Tags 学习记录
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "记录ID"
// @Param   body body UpdateCmiRequest true "键值对"
// @Success 200 {object} util.Response{data=model.Attempt}
// @Failure 400 {object} util.Response "非法键或取值"
// @Router /api/attempts/{id}/cmi [put]
func (c *AttemptController) UpdateCmi(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var req UpdateCmiRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	attempt, err := c.AttemptService.UpdateCmiData(id, claims.UserID, req.Values)
	if err != nil {
		util.MapError(ctx, err)
		return
	}
	util.Success(ctx, attempt)
}

func pathID(ctx *gin.Context) (uint, bool) {
	v, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return 0, false
	}
	return uint(v), true
}
