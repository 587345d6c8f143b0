package controller

import (
	"errors"
	"net/http"

	"lexstudy_backend/internal/util"
	"lexstudy_backend/internal/viewer"

	"github.com/gin-gonic/gin"
)

// ViewerController 课程详情查看器接口，每个挂载的视图保存在内存中
type ViewerController struct {
	Viewer *viewer.Controller
	Views  *viewer.Registry
}

func NewViewerController(v *viewer.Controller, views *viewer.Registry) *ViewerController {
	return &ViewerController{Viewer: v, Views: views}
}

type MountRequest struct {
	LessonID string `json:"lessonId" binding:"required"`
}

type SelectRequest struct {
	Index *int `json:"index" binding:"required"`
}

type ToggleRequest struct {
	SubsectionID string `json:"subsectionId" binding:"required"`
}

type AnswerRequest struct {
	QuestionIndex *int `json:"questionIndex" binding:"required"`
	OptionIndex   *int `json:"optionIndex" binding:"required"`
}

type AnswerResponse struct {
	Accepted bool            `json:"accepted"`
	View     viewer.Snapshot `json:"view"`
}

// @Summary 打开课程详情视图
// @Description 并发加载课程、小节与进度，返回视图快照
// @Tags 查看器
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body MountRequest true "课程ID"
// @Success 201 {object} util.Response
// @Router /api/views [post]
func (c *ViewerController) Mount(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req MountRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	v := c.Viewer.Mount(user.UserID, req.LessonID)
	c.Views.Add(v)
	c.Viewer.Load(ctx.Request.Context(), v)
	util.Created(ctx, v.Snapshot())
}

// @Summary 获取视图快照
// @Tags 查看器
// @Produce json
// @Security BearerAuth
// @Param viewId path string true "视图ID"
// @Success 200 {object} util.Response
// @Router /api/views/{viewId} [get]
func (c *ViewerController) Get(ctx *gin.Context) {
	v, ok := c.view(ctx)
	if !ok {
		return
	}
	util.Success(ctx, v.Snapshot())
}

// @Summary 切换到指定小节
// @Tags 查看器
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param viewId path string true "视图ID"
// @Param request body SelectRequest true "小节下标"
// @Success 200 {object} util.Response
// @Router /api/views/{viewId}/select [post]
func (c *ViewerController) Select(ctx *gin.Context) {
	v, ok := c.view(ctx)
	if !ok {
		return
	}
	var req SelectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	snap, err := v.Select(*req.Index)
	c.respond(ctx, snap, err)
}

// @Summary 下一小节
// @Tags 查看器
// @Produce json
// @Security BearerAuth
// @Param viewId path string true "视图ID"
// @Success 200 {object} util.Response
// @Router /api/views/{viewId}/next [post]
func (c *ViewerController) Next(ctx *gin.Context) {
	v, ok := c.view(ctx)
	if !ok {
		return
	}
	snap, err := v.Next()
	c.respond(ctx, snap, err)
}

// @Summary 上一小节
// @Tags 查看器
// @Produce json
// @Security BearerAuth
// @Param viewId path string true "视图ID"
// @Success 200 {object} util.Response
// @Router /api/views/{viewId}/previous [post]
func (c *ViewerController) Previous(ctx *gin.Context) {
	v, ok := c.view(ctx)
	if !ok {
		return
	}
	snap, err := v.Previous()
	c.respond(ctx, snap, err)
}

// @Summary 切换小节完成状态
// @Description 立即返回更新后的快照，保存在后台完成；保存失败会回滚并在下一次快照中提示
// @Tags 查看器
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param viewId path string true "视图ID"
// @Param request body ToggleRequest true "小节ID"
// @Success 200 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/views/{viewId}/toggle [post]
func (c *ViewerController) Toggle(ctx *gin.Context) {
	v, ok := c.view(ctx)
	if !ok {
		return
	}
	var req ToggleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	snap, _, err := v.Toggle(ctx.Request.Context(), req.SubsectionID)
	c.respond(ctx, snap, err)
}

// @Summary 回答练习题
// @Description 选择即提交，已作答的题目不可更改
// @Tags 查看器
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param viewId path string true "视图ID"
// @Param request body AnswerRequest true "题目与选项下标"
// @Success 200 {object} util.Response
// @Router /api/views/{viewId}/answer [post]
func (c *ViewerController) Answer(ctx *gin.Context) {
	v, ok := c.view(ctx)
	if !ok {
		return
	}
	var req AnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	snap, accepted, err := v.Answer(*req.QuestionIndex, *req.OptionIndex)
	if err != nil {
		writeViewerError(ctx, err)
		return
	}
	util.Success(ctx, AnswerResponse{Accepted: accepted, View: snap})
}

// @Summary 重新加载
// @Description 课程加载失败后重试
// @Tags 查看器
// @Produce json
// @Security BearerAuth
// @Param viewId path string true "视图ID"
// @Success 200 {object} util.Response
// @Router /api/views/{viewId}/retry [post]
func (c *ViewerController) Retry(ctx *gin.Context) {
	v, ok := c.view(ctx)
	if !ok {
		return
	}
	if err := c.Viewer.Retry(ctx.Request.Context(), v); err != nil {
		writeViewerError(ctx, err)
		return
	}
	util.Success(ctx, v.Snapshot())
}

// @Summary 关闭视图
// @Tags 查看器
// @Produce json
// @Security BearerAuth
// @Param viewId path string true "视图ID"
// @Success 200 {object} util.Response
// @Router /api/views/{viewId} [delete]
func (c *ViewerController) Unmount(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	if err := c.Views.Remove(ctx.Param("viewId"), user.UserID); err != nil {
		writeViewerError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"viewId": ctx.Param("viewId"), "closed": true})
}

func (c *ViewerController) view(ctx *gin.Context) (*viewer.View, bool) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return nil, false
	}
	v, err := c.Views.Get(ctx.Param("viewId"), user.UserID)
	if err != nil {
		writeViewerError(ctx, err)
		return nil, false
	}
	return v, true
}

func (c *ViewerController) respond(ctx *gin.Context, snap viewer.Snapshot, err error) {
	if err != nil {
		writeViewerError(ctx, err)
		return
	}
	util.Success(ctx, snap)
}

func writeViewerError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, viewer.ErrViewNotFound), errors.Is(err, viewer.ErrViewClosed):
		util.Error(ctx, http.StatusNotFound, "View not found")
	case errors.Is(err, viewer.ErrToggleInFlight):
		util.Conflict(ctx, "A progress update is already in progress")
	case errors.Is(err, viewer.ErrNotReady), errors.Is(err, viewer.ErrNothingToRetry):
		util.Conflict(ctx, err.Error())
	case errors.Is(err, viewer.ErrInvalidAnswer), errors.Is(err, viewer.ErrUnknownSubsection):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
