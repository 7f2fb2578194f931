package middleware

import (
	"context"
	"net/http"

	"github.com/dmrramaral/sushi-app/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const StorefrontKey = "storefront"

// StorefrontSource hands out the object graph of a session id.
type StorefrontSource interface {
	Get(ctx context.Context, sid string) *services.Storefront
}

type SessionOptions struct {
	CookieName string
	Secure     bool
	MaxAge     int
}

// Session binds every request to a browser session, issuing a new opaque id
// when the cookie is missing or malformed.
func Session(source StorefrontSource, opts SessionOptions) gin.HandlerFunc {
	if opts.CookieName == "" {
		opts.CookieName = "sid"
	}
	return func(c *gin.Context) {
		sid, err := c.Cookie(opts.CookieName)
		if err == nil {
			_, err = uuid.Parse(sid)
		}
		if err != nil {
			sid = uuid.NewString()
		}
		// re-set on every request to slide its expiry
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(opts.CookieName, sid, opts.MaxAge, "/", "", opts.Secure, true)

		c.Set(StorefrontKey, source.Get(c.Request.Context(), sid))
		c.Next()
	}
}

// GetStorefront returns the session's storefront set by Session.
func GetStorefront(c *gin.Context) *services.Storefront {
	v, ok := c.Get(StorefrontKey)
	if !ok {
		return nil
	}
	sf, _ := v.(*services.Storefront)
	return sf
}
