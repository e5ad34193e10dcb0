package httpapi

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"mime/multipart"
	"net/http"
	"net/url"
	"yatube/internal/adapters/httpapi/middleware"
	"yatube/internal/core/apperror"
	"yatube/internal/core/pagination"
	"yatube/internal/metrics"
	postPort "yatube/internal/ports/post"

	"github.com/gin-gonic/gin"
)

// postForm is the create/edit form as posted by the browser.
type postForm struct {
	Text    string `form:"text"`
	GroupID string `form:"group"`
}

// postFormView is what create_post.html shows back to the user.
type postFormView struct {
	Text    string
	GroupID string
	Image   string
}

type PostController struct {
	pc      PostUseCase
	gc      GroupUseCase
	cache   PageCacheUseCase
	tmpl    *template.Template
	metrics *metrics.Metrics
	errs    *ErrorController
}

func NewPostController(pc PostUseCase, gc GroupUseCase, cache PageCacheUseCase, tmpl *template.Template, m *metrics.Metrics, errs *ErrorController) *PostController {
	return &PostController{pc: pc, gc: gc, cache: cache, tmpl: tmpl, metrics: m, errs: errs}
}

// Index renders the newest posts. The list fragment is served from the page
// cache, so it may lag behind writes until the entry expires.
func (ctl *PostController) Index(c *gin.Context) {
	ctx := c.Request.Context()
	page := pagination.Parse(c.Query("page"))

	fragment, hit, err := ctl.cache.Fetch(ctx, fmt.Sprintf("index:%d", page), func() ([]byte, error) {
		posts, err := ctl.pc.ListIndex(ctx, page)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := ctl.tmpl.ExecuteTemplate(&buf, "posts_list", gin.H{"Page": posts}); err != nil {
			return nil, fmt.Errorf("render index fragment: %w", err)
		}
		return buf.Bytes(), nil
	})
	if err != nil {
		ctl.errs.Fail(c, err)
		return
	}
	ctl.metrics.CacheLookup(hit)

	render(c, http.StatusOK, "index.html", "Latest updates", gin.H{
		"Fragment": template.HTML(fragment),
	})
}

func (ctl *PostController) GroupPosts(c *gin.Context) {
	res, err := ctl.pc.ListGroup(c.Request.Context(), c.Param("slug"), pagination.Parse(c.Query("page")))
	if err != nil {
		ctl.errs.Fail(c, err)
		return
	}
	render(c, http.StatusOK, "group_list.html", res.Group.Title, gin.H{
		"Group": res.Group,
		"Page":  res.Page,
	})
}

func (ctl *PostController) Profile(c *gin.Context) {
	viewerID := ""
	if actor := middleware.CurrentActor(c); actor != nil {
		viewerID = actor.ID
	}

	profile, err := ctl.pc.ListProfile(c.Request.Context(), c.Param("username"), viewerID, pagination.Parse(c.Query("page")))
	if err != nil {
		ctl.errs.Fail(c, err)
		return
	}
	render(c, http.StatusOK, "profile.html", "Profile of "+profile.Author.FullName, gin.H{
		"Profile": profile,
		"Page":    profile.Page,
	})
}

func (ctl *PostController) PostDetail(c *gin.Context) {
	detail, err := ctl.pc.GetPostDetail(c.Request.Context(), c.Param("post_id"))
	if err != nil {
		ctl.errs.Fail(c, err)
		return
	}
	render(c, http.StatusOK, "post_detail.html", "Post "+detail.Post.Title, gin.H{
		"Detail": detail,
	})
}

func (ctl *PostController) CreateForm(c *gin.Context) {
	ctl.renderForm(c, "", postFormView{}, nil)
}

func (ctl *PostController) Create(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	in, view, closeImage, err := ctl.readForm(c)
	if err != nil {
		ctl.errs.Fail(c, err)
		return
	}
	defer closeImage()

	if _, err := ctl.pc.CreatePost(c.Request.Context(), actor.ID, in); err != nil {
		if ve, ok := apperror.AsValidation(err); ok {
			ctl.renderForm(c, "", view, ve)
			return
		}
		ctl.errs.Fail(c, err)
		return
	}
	ctl.metrics.PostsCreated.Inc()

	redirect(c, profileURL(actor.Username))
}

// EditForm shows the edit form to the author; anyone else is sent to the post.
func (ctl *PostController) EditForm(c *gin.Context) {
	postID := c.Param("post_id")
	p, err := ctl.pc.GetPostForEdit(c.Request.Context(), middleware.CurrentActor(c).ID, postID)
	if errors.Is(err, apperror.ErrForbidden) {
		redirect(c, postURL(postID))
		return
	}
	if err != nil {
		ctl.errs.Fail(c, err)
		return
	}

	view := postFormView{Text: p.Text, Image: p.Image}
	if p.Group != nil {
		view.GroupID = p.Group.ID
	}
	ctl.renderForm(c, postID, view, nil)
}

// Edit saves the author's changes. A non-author is redirected to the unchanged post.
func (ctl *PostController) Edit(c *gin.Context) {
	postID := c.Param("post_id")

	in, view, closeImage, err := ctl.readForm(c)
	if err != nil {
		ctl.errs.Fail(c, err)
		return
	}
	defer closeImage()

	_, err = ctl.pc.EditPost(c.Request.Context(), middleware.CurrentActor(c).ID, postID, in)
	switch {
	case err == nil:
		ctl.metrics.PostsEdited.Inc()
	case errors.Is(err, apperror.ErrForbidden):
	default:
		if ve, ok := apperror.AsValidation(err); ok {
			ctl.renderForm(c, postID, view, ve)
			return
		}
		ctl.errs.Fail(c, err)
		return
	}
	redirect(c, postURL(postID))
}

// readForm binds the text and group fields and opens the optional image.
// The returned close func must always be called.
func (ctl *PostController) readForm(c *gin.Context) (postPort.PostInput, postFormView, func(), error) {
	noop := func() {}

	var form postForm
	if err := c.ShouldBind(&form); err != nil {
		return postPort.PostInput{}, postFormView{}, noop, fmt.Errorf("bind post form: %w", err)
	}
	in := postPort.PostInput{Text: form.Text, GroupID: form.GroupID}
	view := postFormView{Text: form.Text, GroupID: form.GroupID}

	header, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return in, view, noop, nil
	}
	if err != nil {
		return postPort.PostInput{}, postFormView{}, noop, fmt.Errorf("read image: %w", err)
	}
	if header.Size == 0 {
		return in, view, noop, nil
	}

	var file multipart.File
	if file, err = header.Open(); err != nil {
		return postPort.PostInput{}, postFormView{}, noop, fmt.Errorf("open image: %w", err)
	}
	in.Image = &postPort.ImageUpload{Filename: header.Filename, Content: file}
	return in, view, func() { file.Close() }, nil
}

func (ctl *PostController) renderForm(c *gin.Context, postID string, view postFormView, ve *apperror.ValidationError) {
	groups, err := ctl.gc.ListGroups(c.Request.Context())
	if err != nil {
		ctl.errs.Fail(c, err)
		return
	}

	errs := map[string]string{}
	if ve != nil {
		errs[ve.Field] = ve.Message
	}
	title := "New post"
	if postID != "" {
		title = "Edit post"
	}
	render(c, http.StatusOK, "create_post.html", title, gin.H{
		"IsEdit": postID != "",
		"PostID": postID,
		"Form":   view,
		"Groups": groups,
		"Errors": errs,
	})
}

func profileURL(username string) string {
	return "/profile/" + url.PathEscape(username) + "/"
}

func postURL(postID string) string {
	return "/posts/" + url.PathEscape(postID) + "/"
}
