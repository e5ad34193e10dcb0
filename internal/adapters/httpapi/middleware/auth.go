package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	userPort "yatube/internal/ports/user"

	"github.com/gin-gonic/gin"
)

const (
	// TokenCookie carries the signed session token.
	TokenCookie = "token"
	// LoginURL is where anonymous users are sent by LoginRequired.
	LoginURL = "/auth/login/"

	actorKey = "actor"
)

// SessionResolver turns a session token into the user it belongs to.
type SessionResolver interface {
	CurrentUser(ctx context.Context, token string) (*userPort.UserDTO, error)
}

// Authenticate loads the current actor from the token cookie. Requests without a
// valid token continue as anonymous.
func Authenticate(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(TokenCookie)
		if err == nil && token != "" {
			if actor, err := resolver.CurrentUser(c.Request.Context(), token); err == nil {
				c.Set(actorKey, actor)
			}
		}
		c.Next()
	}
}

// CurrentActor returns the logged-in user, or nil for anonymous requests.
func CurrentActor(c *gin.Context) *userPort.UserDTO {
	v, ok := c.Get(actorKey)
	if !ok {
		return nil
	}
	actor, _ := v.(*userPort.UserDTO)
	return actor
}

// LoginRequired redirects anonymous requests to the login page, keeping the
// original path in ?next=.
func LoginRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentActor(c) != nil {
			c.Next()
			return
		}
		c.Redirect(http.StatusFound, LoginRedirect(c.Request.URL.RequestURI()))
		c.Abort()
	}
}

// LoginRedirect builds the login URL for a return target. Slashes stay readable.
func LoginRedirect(next string) string {
	return LoginURL + "?next=" + strings.ReplaceAll(url.QueryEscape(next), "%2F", "/")
}

// SafeNext accepts only local absolute paths as a post-login target.
func SafeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
