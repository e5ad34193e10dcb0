package httpapi

import (
	"errors"
	"net/http"
	"time"
	"yatube/internal/adapters/httpapi/middleware"
	"yatube/internal/core/apperror"
	userPort "yatube/internal/ports/user"

	"github.com/gin-gonic/gin"
)

type signupForm struct {
	Username  string `form:"username"`
	Password  string `form:"password"`
	FirstName string `form:"first_name"`
	LastName  string `form:"last_name"`
	Email     string `form:"email"`
}

type UserController struct {
	uc     UserUseCase
	secure bool
}

func NewUserController(uc UserUseCase, secure bool) *UserController {
	return &UserController{uc: uc, secure: secure}
}

func (ctl *UserController) LoginForm(c *gin.Context) {
	render(c, http.StatusOK, "login.html", "Log in", gin.H{
		"Error":    "",
		"Username": "",
		"Next":     middleware.SafeNext(c.Query("next")),
	})
}

func (ctl *UserController) Login(c *gin.Context) {
	var req struct {
		Username string `form:"username"`
		Password string `form:"password"`
		Next     string `form:"next"`
	}
	if err := c.ShouldBind(&req); err != nil {
		c.String(http.StatusBadRequest, "invalid input")
		return
	}

	res, err := ctl.uc.LoginUser(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if !errors.Is(err, apperror.ErrInvalidCredentials) {
			_ = c.Error(err)
		}
		render(c, http.StatusOK, "login.html", "Log in", gin.H{
			"Error":    "Please enter a correct username and password.",
			"Username": req.Username,
			"Next":     middleware.SafeNext(req.Next),
		})
		return
	}

	ctl.setSession(c, res)
	redirect(c, middleware.SafeNext(req.Next))
}

func (ctl *UserController) SignupForm(c *gin.Context) {
	render(c, http.StatusOK, "signup.html", "Sign up", gin.H{
		"Form":   signupForm{},
		"Errors": map[string]string{},
	})
}

// Signup registers the account and logs it in straight away.
func (ctl *UserController) Signup(c *gin.Context) {
	var form signupForm
	if err := c.ShouldBind(&form); err != nil {
		c.String(http.StatusBadRequest, "invalid input")
		return
	}

	ctx := c.Request.Context()
	_, err := ctl.uc.RegisterUser(ctx, userPort.RegisterInput{
		Username:  form.Username,
		Password:  form.Password,
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Email:     form.Email,
	})
	if err != nil {
		ve, ok := apperror.AsValidation(err)
		if !ok {
			_ = c.Error(err)
			ve = &apperror.ValidationError{Field: "username", Message: "Could not create the account."}
		}
		form.Password = ""
		render(c, http.StatusOK, "signup.html", "Sign up", gin.H{
			"Form":   form,
			"Errors": map[string]string{ve.Field: ve.Message},
		})
		return
	}

	res, err := ctl.uc.LoginUser(ctx, form.Username, form.Password)
	if err != nil {
		redirect(c, middleware.LoginURL)
		return
	}
	ctl.setSession(c, res)
	redirect(c, "/")
}

func (ctl *UserController) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", ctl.secure, true)
	redirect(c, "/")
}

func (ctl *UserController) setSession(c *gin.Context, res *userPort.LoginResponse) {
	maxAge := int(time.Until(time.Unix(res.ExpiresAt, 0)).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, res.Token, maxAge, "/", "", ctl.secure, true)
}
