package controller

import (
	"embed"
	"html/template"
	"net/http"

	"lexstudy_backend/internal/util"
	"lexstudy_backend/internal/viewer"
	"lexstudy_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pageTemplates = template.Must(template.New("").ParseFS(templatesFS, "templates/*.html"))

// ViewerPageController 服务端渲染的课程详情页
type ViewerPageController struct {
	Views   *viewer.Registry
	BackURL string
}

func NewViewerPageController(views *viewer.Registry, backURL string) *ViewerPageController {
	if backURL == "" {
		backURL = "/"
	}
	return &ViewerPageController{Views: views, BackURL: backURL}
}

type viewPage struct {
	View    viewer.Snapshot
	Token   string
	BackURL string
}

// @Summary 课程详情页
// @Tags 查看器
// @Produce html
// @Param viewId path string true "视图ID"
// @Param token query string true "访问令牌"
// @Router /views/{viewId} [get]
func (c *ViewerPageController) Show(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	v, err := c.Views.Get(ctx.Param("viewId"), user.UserID)
	if err != nil {
		ctx.String(http.StatusNotFound, "View not found")
		return
	}

	page := viewPage{
		View:    v.Snapshot(),
		Token:   ctx.Query("token"),
		BackURL: c.BackURL,
	}
	ctx.Header("Content-Type", "text/html; charset=utf-8")
	ctx.Status(http.StatusOK)
	if err := pageTemplates.ExecuteTemplate(ctx.Writer, "lesson_view.html", page); err != nil {
		logger.Log.Error("render lesson page failed", zap.String("viewId", v.ID), zap.Error(err))
	}
}
