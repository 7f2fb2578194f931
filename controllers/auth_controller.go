package controllers

import (
	"net/http"

	apperrors "github.com/dmrramaral/sushi-app/errors"
	"github.com/dmrramaral/sushi-app/models"
	"github.com/gin-gonic/gin"
)

type AuthController struct{}

func NewAuthController() *AuthController {
	return &AuthController{}
}

func (a *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperrors.ErrBadRequest.Wrap(err))
		return
	}

	sf := storefront(c)
	result := sf.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if !result.Success {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": result.Error})
		return
	}
	ok(c, http.StatusOK, sf.Auth.State())
}

func (a *AuthController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperrors.ErrBadRequest.Wrap(err))
		return
	}

	result := storefront(c).Auth.Register(c.Request.Context(), req)
	if !result.Success {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": result.Error})
		return
	}
	ok(c, http.StatusCreated, result.Data)
}

// Me returns the session state, logged in or not.
func (a *AuthController) Me(c *gin.Context) {
	sf := storefront(c)
	ok(c, http.StatusOK, gin.H{
		"session":        sf.Auth.State(),
		"isAdmin":        sf.Auth.IsAdmin(),
		"canAccessAdmin": sf.Auth.CanAccessAdmin(),
	})
}

func (a *AuthController) Logout(c *gin.Context) {
	sf := storefront(c)
	sf.Auth.Logout(c.Request.Context())
	ok(c, http.StatusOK, sf.Auth.State())
}
