package httpapi

import (
	"context"
	"fmt"
	"yatube/internal/adapters/httpapi/middleware"
	"yatube/internal/config"
	"yatube/internal/metrics"
	commentPort "yatube/internal/ports/comment"
	groupPort "yatube/internal/ports/group"
	postPort "yatube/internal/ports/post"
	userPort "yatube/internal/ports/user"

	"github.com/gin-gonic/gin"
)

// UserUseCase is what the auth pages need from the identity collaborator.
type UserUseCase interface {
	middleware.SessionResolver
	RegisterUser(ctx context.Context, in userPort.RegisterInput) (*userPort.UserDTO, error)
	LoginUser(ctx context.Context, username, password string) (*userPort.LoginResponse, error)
}

type PostUseCase interface {
	ListIndex(ctx context.Context, page int) (*postPort.PageDTO, error)
	ListGroup(ctx context.Context, slug string, page int) (*postPort.GroupPageDTO, error)
	ListProfile(ctx context.Context, username, viewerID string, page int) (*postPort.ProfileDTO, error)
	GetPostDetail(ctx context.Context, postID string) (*postPort.PostDetailDTO, error)
	GetPostForEdit(ctx context.Context, actorID, postID string) (*postPort.PostDTO, error)
	CreatePost(ctx context.Context, authorID string, in postPort.PostInput) (*postPort.PostDTO, error)
	EditPost(ctx context.Context, actorID, postID string, in postPort.PostInput) (*postPort.PostDTO, error)
}

type CommentUseCase interface {
	AddComment(ctx context.Context, actorID, postID, text string) (*commentPort.CommentDTO, error)
}

type FollowerUseCase interface {
	Follow(ctx context.Context, actorID, username string) error
	Unfollow(ctx context.Context, actorID, username string) error
	ListFollowedFeed(ctx context.Context, actorID string, page int) (*postPort.PageDTO, error)
}

type GroupUseCase interface {
	ListGroups(ctx context.Context) ([]*groupPort.GroupDTO, error)
}

// PageCacheUseCase caches rendered fragments.
type PageCacheUseCase interface {
	Fetch(ctx context.Context, key string, render func() ([]byte, error)) ([]byte, bool, error)
}

// Dependencies are the use cases injected into the router.
type Dependencies struct {
	Users     UserUseCase
	Posts     PostUseCase
	Comments  CommentUseCase
	Followers FollowerUseCase
	Groups    GroupUseCase
	PageCache PageCacheUseCase
	Metrics   *metrics.Metrics
	MediaRoot string
	// SecureCookies marks session and CSRF cookies Secure (HTTPS only).
	SecureCookies bool
}

// SetupRoutes only wires routes; every use case comes from the caller.
func SetupRoutes(deps Dependencies) (*gin.Engine, error) {
	tmpl, err := LoadTemplates()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}

	ec := NewErrorController()
	uc := NewUserController(deps.Users, deps.SecureCookies)
	pc := NewPostController(deps.Posts, deps.Groups, deps.PageCache, tmpl, deps.Metrics, ec)
	cc := NewCommentController(deps.Comments, deps.Metrics, ec)
	fc := NewFollowerController(deps.Followers, deps.Metrics, ec)

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(
		middleware.RequestLogger(config.Logger),
		gin.CustomRecovery(ec.Recover),
		middleware.Metrics(deps.Metrics),
		middleware.Authenticate(deps.Users),
		middleware.CSRF(deps.SecureCookies, ec.CSRFFailure),
	)
	r.NoRoute(ec.NotFound)

	if deps.MediaRoot != "" {
		r.Static("/media", deps.MediaRoot)
	}
	r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	// Auth pages.
	auth := r.Group("/auth")
	auth.GET("/signup/", uc.SignupForm)
	auth.POST("/signup/", uc.Signup)
	auth.GET("/login/", uc.LoginForm)
	auth.POST("/login/", uc.Login)
	auth.GET("/logout/", uc.Logout)

	// Public pages.
	r.GET("/", pc.Index)
	r.GET("/group/:slug/", pc.GroupPosts)
	r.GET("/profile/:username/", pc.Profile)
	r.GET("/posts/:post_id/", pc.PostDetail)

	// Pages that need a logged-in user.
	private := r.Group("/", middleware.LoginRequired())
	private.GET("/create/", pc.CreateForm)
	private.POST("/create/", pc.Create)
	private.GET("/posts/:post_id/edit/", pc.EditForm)
	private.POST("/posts/:post_id/edit/", pc.Edit)
	private.POST("/posts/:post_id/comment/", cc.AddComment)
	private.GET("/profile/:username/follow/", fc.Follow)
	private.GET("/profile/:username/unfollow/", fc.Unfollow)
	private.GET("/follow/", fc.FollowIndex)

	return r, nil
}
