package controllers

import (
	stderrors "errors"
	"net/http"

	"github.com/dmrramaral/sushi-app/clients"
	apperrors "github.com/dmrramaral/sushi-app/errors"
	"github.com/dmrramaral/sushi-app/middleware"
	"github.com/dmrramaral/sushi-app/services"
	"github.com/gin-gonic/gin"
)

func ok(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

// fail attaches err, mapped to an app error, for ErrorMiddleware to render.
func fail(c *gin.Context, err error) {
	_ = c.Error(toAppError(err))
	c.Abort()
}

func toAppError(err error) *apperrors.Error {
	var appErr *apperrors.Error
	if stderrors.As(err, &appErr) {
		return appErr
	}

	switch {
	case stderrors.Is(err, clients.ErrNotAuthenticated):
		return apperrors.New(http.StatusUnauthorized, clients.Message(err), err)
	case stderrors.Is(err, services.ErrInvalidQuantity),
		stderrors.Is(err, services.ErrMissingProductID),
		stderrors.Is(err, services.ErrMissingOrderID):
		return apperrors.New(http.StatusBadRequest, err.Error(), err)
	}

	var upErr *clients.UpstreamError
	if stderrors.As(err, &upErr) {
		if upErr.Status >= 500 {
			return apperrors.New(http.StatusBadGateway, upErr.Message, err)
		}
		return apperrors.New(upErr.Status, upErr.Message, err)
	}
	return apperrors.ErrUpstream.Wrap(err)
}

func storefront(c *gin.Context) *services.Storefront {
	sf := middleware.GetStorefront(c)
	if sf == nil {
		panic("controllers: route registered without session middleware")
	}
	return sf
}
