package controllers

import (
	"context"
	"net/http"
	"time"

	apperrors "github.com/dmrramaral/sushi-app/errors"
	"github.com/dmrramaral/sushi-app/logger"
	"github.com/dmrramaral/sushi-app/metrics"
	"github.com/dmrramaral/sushi-app/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CartController struct {
	metrics *metrics.Client
	log     *zap.Logger
}

func NewCartController(m *metrics.Client, log *zap.Logger) *CartController {
	if log == nil {
		log = zap.NewNop()
	}
	return &CartController{metrics: m, log: log}
}

func (cc *CartController) Get(c *gin.Context) {
	ok(c, http.StatusOK, storefront(c).Cart.State().View())
}

func (cc *CartController) Refresh(c *gin.Context) {
	sf := storefront(c)
	if err := sf.Cart.Refresh(c.Request.Context()); err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, sf.Cart.State().View())
}

func (cc *CartController) AddItem(c *gin.Context) {
	var req models.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperrors.ErrBadRequest.Wrap(err))
		return
	}
	if req.Quantity < 0 {
		fail(c, apperrors.ErrInvalidQuantity)
		return
	}

	sf := storefront(c)
	if err := sf.Cart.AddItem(c.Request.Context(), req.ProductID, req.Quantity); err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, sf.Cart.State().View())
}

// UpdateItem sets a line's quantity; zero removes it.
func (cc *CartController) UpdateItem(c *gin.Context) {
	var req models.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperrors.ErrBadRequest.Wrap(err))
		return
	}
	if *req.Quantity < 0 {
		fail(c, apperrors.ErrInvalidQuantity)
		return
	}

	sf := storefront(c)
	if err := sf.Cart.UpdateQuantity(c.Request.Context(), c.Param("product_id"), *req.Quantity); err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, sf.Cart.State().View())
}

func (cc *CartController) RemoveItem(c *gin.Context) {
	sf := storefront(c)
	if err := sf.Cart.RemoveItem(c.Request.Context(), c.Param("product_id")); err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, sf.Cart.State().View())
}

// Confirm places an order from the cart. The body is optional.
func (cc *CartController) Confirm(c *gin.Context) {
	var req models.CreateOrderRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, apperrors.ErrBadRequest.Wrap(err))
			return
		}
	}

	result := storefront(c).Cart.ConfirmOrder(c.Request.Context(), req)
	cc.record(c, result.Success)
	if !result.Success {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "error": result.Error})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "order": result.Order})
}

func (cc *CartController) record(c *gin.Context, placed bool) {
	if !cc.metrics.IsEnabled() {
		return
	}
	name := metrics.OrdersPlaced
	if !placed {
		name = metrics.OrdersFailed
	}
	log := logger.For(c.Request.Context(), cc.log)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := cc.metrics.Count(ctx, name, map[string]string{"Service": "sushi-bff"}); err != nil {
			log.Debug("order metric publish failed", zap.Error(err))
		}
	}()
}
