package httpapi

import (
	"embed"
	"html/template"
	"net/http"
	"time"
	"yatube/internal/adapters/httpapi/middleware"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"date": func(t time.Time) string {
		return t.Format("2 January 2006")
	},
	"media": func(path string) string {
		return "/media/" + path
	},
}

// LoadTemplates parses every page template. Each file is addressed by its base
// name, e.g. "index.html".
func LoadTemplates() (*template.Template, error) {
	return template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
}

// viewData merges data with what every page needs: title, actor, CSRF token, path.
func viewData(c *gin.Context, title string, data gin.H) gin.H {
	out := gin.H{
		"Title":     title,
		"Actor":     middleware.CurrentActor(c),
		"CSRFToken": middleware.CSRFToken(c),
		"Path":      c.Request.URL.Path,
	}
	for k, v := range data {
		out[k] = v
	}
	return out
}

func render(c *gin.Context, status int, name, title string, data gin.H) {
	c.HTML(status, name, viewData(c, title, data))
}

func redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}
