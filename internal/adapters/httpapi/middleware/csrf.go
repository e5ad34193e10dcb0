package middleware

import (
	"crypto/subtle"
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/securecookie"
)

const (
	CSRFCookie = "csrftoken"
	CSRFField  = "csrfmiddlewaretoken"
	CSRFHeader = "X-CSRFToken"

	csrfKey    = "csrfToken"
	csrfKeyLen = 32
	csrfMaxAge = 60 * 60 * 24 * 364
)

// CSRF enforces a double-submit token on unsafe methods: the csrftoken cookie
// must be echoed in the form field or header. onFailure renders the rejection.
func CSRF(secure bool, onFailure gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(CSRFCookie)
		hadCookie := err == nil && cookie != ""

		token := cookie
		if !hadCookie {
			token = newCSRFToken()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(CSRFCookie, token, csrfMaxAge, "/", "", secure, false)
		}
		c.Set(csrfKey, token)

		if safeMethod(c.Request.Method) {
			c.Next()
			return
		}

		sent := c.PostForm(CSRFField)
		if sent == "" {
			sent = c.GetHeader(CSRFHeader)
		}
		if !hadCookie || sent == "" || subtle.ConstantTimeCompare([]byte(sent), []byte(cookie)) != 1 {
			onFailure(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

// CSRFToken is the token forms must embed.
func CSRFToken(c *gin.Context) string {
	return c.GetString(csrfKey)
}

func newCSRFToken() string {
	return base64.RawURLEncoding.EncodeToString(securecookie.GenerateRandomKey(csrfKeyLen))
}

func safeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}
