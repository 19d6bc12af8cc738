package controller

import (
	"strconv"

	"lms_backend/internal/model"
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ContentController struct {
	ContentService *service.ContentService
}

func NewContentController(contentService *service.ContentService) *ContentController {
	return &ContentController{ContentService: contentService}
}

type ContentItemRequest struct {
	CourseID         uint     `json:"courseId"`
	Title            string   `json:"title" binding:"required"`
	Description      string   `json:"description"`
	ScormVersion     string   `json:"scormVersion"`
	MasteryScore     *float64 `json:"masteryScore"`
	MaxAttempts      *int     `json:"maxAttempts"`
	TimeLimitSeconds int      `json:"timeLimitSeconds"`
	SuspendDataLimit int      `json:"suspendDataLimit"`
}

func (r *ContentItemRequest) apply(item *model.ContentItem) {
	item.CourseID = r.CourseID
	item.Title = r.Title
	item.Description = r.Description
	if r.ScormVersion != "" {
		item.ScormVersion = r.ScormVersion
	}
	if r.MasteryScore != nil {
		item.MasteryScore = *r.MasteryScore
	}
	item.MaxAttempts = r.MaxAttempts
	item.TimeLimitSeconds = r.TimeLimitSeconds
	item.SuspendDataLimit = r.SuspendDataLimit
}

// Create godoc
// @Summary 创建课件
// @Tags 课件管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body ContentItemRequest true "课件信息"
// @Success 201 {object} util.Response{data=model.ContentItem}
// @Router /api/content [post]
func (c *ContentController) Create(ctx *gin.Context) {
	var req ContentItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	item := &model.ContentItem{ScormVersion: model.ScormV12}
	req.apply(item)

	if err := c.ContentService.Create(item); err != nil {
		util.MapError(ctx, err)
		return
	}
	util.Created(ctx, item)
}

// Get godoc
// @Summary 查询课件
// @Tags 课件管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课件ID"
// @Success 200 {object} util.Response{data=model.ContentItem}
// @Router /api/content/{id} [get]
func (c *ContentController) Get(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	item, err := c.ContentService.Get(id)
	if err != nil {
		util.MapError(ctx, err)
		return
	}
	util.Success(ctx, item)
}

// ListByCourse godoc
// @Summary 按课程查询课件
// @Tags 课件管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   courseId query int true "课程ID"
// @Success 200 {object} util.Response{data=[]model.ContentItem}
// @Router /api/content [get]
func (c *ContentController) ListByCourse(ctx *gin.Context) {
	courseID, err := strconv.ParseUint(ctx.Query("courseId"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "courseId is required")
		return
	}
	items, err := c.ContentService.ListByCourse(uint(courseID))
	if err != nil {
		util.MapError(ctx, err)
		return
	}
	util.Success(ctx, items)
}

// Update godoc
// @Summary 更新课件配置
// @Tags 课件管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课件ID"
// @Param   body body ContentItemRequest true "课件信息"
// @Success 200 {object} util.Response{data=model.ContentItem}
// @Router /api/content/{id} [put]
func (c *ContentController) Update(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var req ContentItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	item, err := c.ContentService.Get(id)
	if err != nil {
		util.MapError(ctx, err)
		return
	}
	req.apply(item)

	if err := c.ContentService.Update(item); err != nil {
		util.MapError(ctx, err)
		return
	}
	util.Success(ctx, item)
}

// Delete godoc
// @Summary 删除课件
// @Tags 课件管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课件ID"
// @Success 200 {object} util.Response
// @Router /api/content/{id} [delete]
func (c *ContentController) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := c.ContentService.Delete(id); err != nil {
		util.MapError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// Publish godoc
// @Summary 发布课件
// @Tags 课件管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课件ID"
// @Success 200 {object} util.Response{data=model.ContentItem}
// @Failure 409 {object} util.Response "尚未上传课件包"
// @Router /api/content/{id}/publish [post]
func (c *ContentController) Publish(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	item, err := c.ContentService.Publish(id)
	if err != nil {
		util.MapError(ctx, err)
		return
	}
	util.Success(ctx, item)
}

// UploadPackage godoc
// @Summary 上传课件包
// @Description 接收zip格式的课件包并保存到对象存储
// @Tags 课件管理
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课件ID"
// @Param   file formData file true "课件包"
// @Success 200 {object} util.Response{data=model.ContentItem}
// @Failure 400 {object} util.Response "文件格式不正确"
// @Router /api/content/{id}/package [post]
func (c *ContentController) UploadPackage(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	item, err := c.ContentService.UploadPackage(ctx.Request.Context(), id, file)
	if err != nil {
		util.MapError(ctx, err)
		return
	}
	util.Success(ctx, item)
}
