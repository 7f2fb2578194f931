package controllers

import (
	"io"
	"net/http"
	"strings"

	"github.com/dmrramaral/sushi-app/clients"
	apperrors "github.com/dmrramaral/sushi-app/errors"
	"github.com/gin-gonic/gin"
)

const maxProxyBody = 10 << 20

// forwardedHeaders are the only request headers passed to the backend.
var forwardedHeaders = []string{"Content-Type", "Accept", "Accept-Language"}

// AdminController forwards back-office calls to the backend with the
// session's token.
type AdminController struct{}

func NewAdminController() *AdminController {
	return &AdminController{}
}

func (a *AdminController) Proxy(c *gin.Context) {
	path := "/" + strings.TrimPrefix(c.Param("path"), "/")
	if path == "/" {
		fail(c, apperrors.ErrNotFound)
		return
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxProxyBody))
	if err != nil {
		fail(c, apperrors.ErrBadRequest.Wrap(err))
		return
	}
	headers := http.Header{}
	for _, h := range forwardedHeaders {
		if v := c.GetHeader(h); v != "" {
			headers.Set(h, v)
		}
	}

	resp, err := storefront(c).Gateway.Do(c.Request.Context(), c.Request.Method, path, c.Request.URL.Query(), headers, clients.BodyFromBytes(body))
	if err != nil {
		fail(c, err)
		return
	}
	if err := clients.CopyResponse(c.Writer, resp); err != nil {
		_ = c.Error(err)
	}
}
