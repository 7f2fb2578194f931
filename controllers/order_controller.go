package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type OrderController struct{}

func NewOrderController() *OrderController {
	return &OrderController{}
}

func (o *OrderController) List(c *gin.Context) {
	orders, err := storefront(c).Orders.MyOrders(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, orders)
}

func (o *OrderController) Get(c *gin.Context) {
	order, err := storefront(c).Orders.MyOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, order)
}
