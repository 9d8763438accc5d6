package helpers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// WriteCookie attaches a cookie built elsewhere (e.g. by the session store) to the
// response. gin's SetCookie cannot carry every attribute of an *http.Cookie, so the
// header is written directly.
func WriteCookie(c *gin.Context, ck *http.Cookie) {
	if ck == nil {
		return
	}
	http.SetCookie(c.Writer, ck)
}
