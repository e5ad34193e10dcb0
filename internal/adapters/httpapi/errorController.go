package httpapi

import (
	"errors"
	"net/http"
	"yatube/internal/config"
	"yatube/internal/core/apperror"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ErrorController struct{}

func NewErrorController() *ErrorController { return &ErrorController{} }

func (ctl *ErrorController) NotFound(c *gin.Context) {
	render(c, http.StatusNotFound, "404.html", "Page not found", gin.H{"Status": http.StatusNotFound})
}

func (ctl *ErrorController) InternalError(c *gin.Context) {
	render(c, http.StatusInternalServerError, "404.html", "Server error", gin.H{"Status": http.StatusInternalServerError})
}

func (ctl *ErrorController) CSRFFailure(c *gin.Context) {
	render(c, http.StatusForbidden, "403csrf.html", "Forbidden", nil)
}

// Recover renders the 500 page for a panicking handler.
func (ctl *ErrorController) Recover(c *gin.Context, recovered any) {
	config.Logger.Error("Panic while handling request",
		zap.String("path", c.Request.URL.Path),
		zap.Any("panic", recovered))
	ctl.InternalError(c)
	c.Abort()
}

// Fail renders the page matching err: 404 for missing resources, 500 otherwise.
func (ctl *ErrorController) Fail(c *gin.Context, err error) {
	if errors.Is(err, apperror.ErrNotFound) {
		ctl.NotFound(c)
		return
	}
	config.Logger.Error("Request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	_ = c.Error(err)
	ctl.InternalError(c)
}
