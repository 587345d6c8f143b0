package controller

import (
	"errors"
	"net/http"

	"lexstudy_backend/internal/service"
	"lexstudy_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

type CompleteRequest struct {
	LessonID     string `json:"lessonId" binding:"required"`
	SubsectionID string `json:"subsectionId" binding:"required"`
}

// @Summary 学习进度总览
// @Tags 进度
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/progress/overview [get]
func (c *ProgressController) GetOverview(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	overview, err := c.ProgressService.Overview(ctx.Request.Context(), user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, overview)
}

// @Summary 获取课程进度
// @Tags 进度
// @Produce json
// @Security BearerAuth
// @Param lessonId path string true "课程ID"
// @Success 200 {object} util.Response
// @Router /api/progress/lesson/{lessonId} [get]
func (c *ProgressController) GetLessonProgress(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	records, err := c.ProgressService.ForLesson(ctx.Request.Context(), user.UserID, ctx.Param("lessonId"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, records)
}

// @Summary 标记小节完成
// @Tags 进度
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CompleteRequest true "课程与小节"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/progress/complete [post]
func (c *ProgressController) MarkComplete(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CompleteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	err := c.ProgressService.MarkComplete(ctx.Request.Context(), user.UserID, req.LessonID, req.SubsectionID)
	if errors.Is(err, util.ErrSubsectionNotFound) {
		util.Error(ctx, http.StatusNotFound, "Subsection not found")
		return
	}
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"subsectionId": req.SubsectionID, "completed": true})
}

// @Summary 取消小节完成
// @Tags 进度
// @Produce json
// @Security BearerAuth
// @Param subsectionId path string true "小节ID"
// @Success 200 {object} util.Response
// @Router /api/progress/incomplete/{subsectionId} [delete]
func (c *ProgressController) MarkIncomplete(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	subsectionID := ctx.Param("subsectionId")
	if err := c.ProgressService.MarkIncomplete(ctx.Request.Context(), user.UserID, subsectionID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"subsectionId": subsectionID, "completed": false})
}
