package controllers

import (
	"net/http"

	"github.com/dmrramaral/sushi-app/services"
	"github.com/gin-gonic/gin"
)

// CatalogController serves public product data through the shared catalog.
type CatalogController struct {
	catalog *services.CatalogService
}

func NewCatalogController(catalog *services.CatalogService) *CatalogController {
	return &CatalogController{catalog: catalog}
}

func (cc *CatalogController) Home(c *gin.Context) {
	page, err := cc.catalog.Home(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, page)
}

func (cc *CatalogController) Products(c *gin.Context) {
	body, err := cc.catalog.Products(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, body)
}

func (cc *CatalogController) Search(c *gin.Context) {
	body, err := cc.catalog.Search(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, body)
}

func (cc *CatalogController) ProductByID(c *gin.Context) {
	p, err := cc.catalog.ProductByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, p)
}

func (cc *CatalogController) Categories(c *gin.Context) {
	body, err := cc.catalog.Categories(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, body)
}
