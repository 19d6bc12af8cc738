package controller

import (
	"strconv"

	"lms_backend/internal/model"
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService *service.CourseService
}

func NewCourseController(courseService *service.CourseService) *CourseController {
	return &CourseController{CourseService: courseService}
}

type CourseRequest struct {
	Code        string `json:"code" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	IsPublished bool   `json:"isPublished"`
}

// Create godoc
// @Summary 创建课程
// @Tags 课程管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body CourseRequest true "课程信息"
// @Success 201 {object} util.Response{data=model.Course}
// @Router /api/courses [post]
func (c *CourseController) Create(ctx *gin.Context) {
	var req CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	course := &model.Course{
		Code:        req.Code,
		Title:       req.Title,
		Description: req.Description,
		TeacherID:   claims.UserID,
		IsPublished: req.IsPublished,
	}
	if err := c.CourseService.Create(course); err != nil {
		util.MapError(ctx, err)
		return
	}
	util.Created(ctx, course)
}

// List godoc
// @Summary 课程列表
// @Tags 课程管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   page query int false "页码"
// @Param   pageSize query int false "每页数量"
// @Success 200 {object} util.PageResponse{data=[]model.Course}
// @Router /api/courses [get]
func (c *CourseController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("pageSize", "20"))

	courses, total, err := c.CourseService.List(page, pageSize)
	if err != nil {
		util.MapError(ctx, err)
		return
	}
	util.SuccessPage(ctx, courses, total, page, pageSize)
}

// Get godoc
// @Summary 查询课程
// @Tags 课程管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=model.Course}
// @Router /api/courses/{id} [get]
func (c *CourseController) Get(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	course, err := c.CourseService.Get(id)
	if err != nil {
		util.MapError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// Update godoc
// @Summary 更新课程
// @Tags 课程管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课程ID"
// @Param   body body CourseRequest true "课程信息"
// @Success 200 {object} util.Response{data=model.Course}
// @Router /api/courses/{id} [put]
func (c *CourseController) Update(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var req CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.Get(id)
	if err != nil {
		util.MapError(ctx, err)
		return
	}
	course.Code = req.Code
	course.Title = req.Title
	course.Description = req.Description
	course.IsPublished = req.IsPublished

	if err := c.CourseService.Update(course); err != nil {
		util.MapError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// Delete godoc
// @Summary 删除课程
// @Tags 课程管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response
// @Router /api/courses/{id} [delete]
func (c *CourseController) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := c.CourseService.Delete(id); err != nil {
		util.MapError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// Enroll godoc
// @Summary 选课
// @Tags 课程管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课程ID"
// @Success 201 {object} util.Response
// @Failure 409 {object} util.Response "已选过该课程"
// @Router /api/courses/{id}/enroll [post]
func (c *CourseController) Enroll(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	claims := util.GetUserFromContext(ctx)
	if err := c.CourseService.Enroll(id, claims.UserID); err != nil {
		util.MapError(ctx, err)
		return
	}
	util.Created(ctx, nil)
}

// Enrollments godoc
// @Summary 查询选课名单
// @Tags 课程管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=[]model.Enrollment}
// @Router /api/courses/{id}/enrollments [get]
func (c *CourseController) Enrollments(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	es, err := c.CourseService.Enrollments(id)
	if err != nil {
		util.MapError(ctx, err)
		return
	}
	util.Success(ctx, es)
}
