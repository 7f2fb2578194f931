package services

import (
	"context"
	"testing"

	"github.com/dmrramaral/sushi-app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestOrderService(t *testing.T) {
	ctx := context.Background()
	gw := new(MockOrderGateway)
	gw.On("MyOrders", mock.Anything).Return([]models.Order{{ID: "o1"}, {ID: "o2"}}, nil).Once()
	gw.On("MyOrder", mock.Anything, "o2").Return(&models.Order{ID: "o2", Status: "delivered"}, nil).Once()
	svc := NewOrderService(gw, nil)

	orders, err := svc.MyOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	order, err := svc.MyOrder(ctx, "o2")
	require.NoError(t, err)
	assert.Equal(t, "delivered", order.Status)

	_, err = svc.MyOrder(ctx, "")
	assert.ErrorIs(t, err, ErrMissingOrderID)
	gw.AssertExpectations(t)
}
