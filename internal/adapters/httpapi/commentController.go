package httpapi

import (
	"yatube/internal/adapters/httpapi/middleware"
	"yatube/internal/config"
	"yatube/internal/core/apperror"
	"yatube/internal/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CommentController struct {
	cc      CommentUseCase
	metrics *metrics.Metrics
	errs    *ErrorController
}

func NewCommentController(cc CommentUseCase, m *metrics.Metrics, errs *ErrorController) *CommentController {
	return &CommentController{cc: cc, metrics: m, errs: errs}
}

// AddComment always returns to the post; a blank comment is dropped.
func (ctl *CommentController) AddComment(c *gin.Context) {
	var req struct {
		Text string `form:"text"`
	}
	if err := c.ShouldBind(&req); err != nil {
		ctl.errs.Fail(c, err)
		return
	}

	postID := c.Param("post_id")
	_, err := ctl.cc.AddComment(c.Request.Context(), middleware.CurrentActor(c).ID, postID, req.Text)
	if err != nil {
		if ve, ok := apperror.AsValidation(err); ok {
			config.Logger.Info("Comment rejected", zap.String("postID", postID), zap.String("reason", ve.Error()))
			redirect(c, postURL(postID))
			return
		}
		ctl.errs.Fail(c, err)
		return
	}
	ctl.metrics.CommentsAdded.Inc()

	redirect(c, postURL(postID))
}
