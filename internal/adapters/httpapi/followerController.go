package httpapi

import (
	"errors"
	"net/http"
	"yatube/internal/adapters/httpapi/middleware"
	"yatube/internal/core/apperror"
	"yatube/internal/core/pagination"
	"yatube/internal/metrics"

	"github.com/gin-gonic/gin"
)

type FollowerController struct {
	fc      FollowerUseCase
	metrics *metrics.Metrics
	errs    *ErrorController
}

func NewFollowerController(fc FollowerUseCase, m *metrics.Metrics, errs *ErrorController) *FollowerController {
	return &FollowerController{fc: fc, metrics: m, errs: errs}
}

func (ctl *FollowerController) Follow(c *gin.Context) {
	username := c.Param("username")

	err := ctl.fc.Follow(c.Request.Context(), middleware.CurrentActor(c).ID, username)
	switch {
	case err == nil:
		ctl.metrics.FollowRequests.Inc()
	case errors.Is(err, apperror.ErrSelfFollow):
	default:
		ctl.errs.Fail(c, err)
		return
	}
	redirect(c, profileURL(username))
}

func (ctl *FollowerController) Unfollow(c *gin.Context) {
	username := c.Param("username")

	if err := ctl.fc.Unfollow(c.Request.Context(), middleware.CurrentActor(c).ID, username); err != nil {
		ctl.errs.Fail(c, err)
		return
	}
	ctl.metrics.UnfollowRequests.Inc()

	redirect(c, profileURL(username))
}

// FollowIndex is the personal feed of followed authors.
func (ctl *FollowerController) FollowIndex(c *gin.Context) {
	page, err := ctl.fc.ListFollowedFeed(c.Request.Context(), middleware.CurrentActor(c).ID, pagination.Parse(c.Query("page")))
	if err != nil {
		ctl.errs.Fail(c, err)
		return
	}
	render(c, http.StatusOK, "follow.html", "Following", gin.H{"Page": page})
}
