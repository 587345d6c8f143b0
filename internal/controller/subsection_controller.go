package controller

import (
	"errors"
	"net/http"

	"lexstudy_backend/internal/service"
	"lexstudy_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SubsectionController struct {
	SubsectionService *service.SubsectionService
}

func NewSubsectionController(subsectionService *service.SubsectionService) *SubsectionController {
	return &SubsectionController{SubsectionService: subsectionService}
}

// @Summary 获取课程小节
// @Description 按顺序返回课程的全部小节，附带当前用户的完成标记
// @Tags 小节
// @Produce json
// @Security BearerAuth
// @Param lessonId path string true "课程ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/subsections/lesson/{lessonId} [get]
func (c *SubsectionController) ListByLesson(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	subs, err := c.SubsectionService.ByLesson(ctx.Request.Context(), user.UserID, ctx.Param("lessonId"))
	if errors.Is(err, util.ErrLessonNotFound) {
		util.Error(ctx, http.StatusNotFound, "Lesson not found")
		return
	}
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, subs)
}

// @Summary 获取小节详情
// @Tags 小节
// @Produce json
// @Security BearerAuth
// @Param id path string true "小节ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/subsections/{id} [get]
func (c *SubsectionController) GetSubsection(ctx *gin.Context) {
	sub, err := c.SubsectionService.Get(ctx.Request.Context(), ctx.Param("id"))
	if errors.Is(err, util.ErrSubsectionNotFound) {
		util.Error(ctx, http.StatusNotFound, "Subsection not found")
		return
	}
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, sub)
}
