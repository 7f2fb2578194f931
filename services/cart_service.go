package services

import (
	"context"
	"sync"
	"time"

	"github.com/dmrramaral/sushi-app/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultProductFetchLimit = 8

// CartService mirrors the server-side cart of one session. Every write goes
// to the backend first and is followed by a full re-read; local items are
// never patched.
type CartService struct {
	gateway    CartGateway
	products   ProductLookup
	auth       AuthStatus
	orders     OrderPlacer
	log        *zap.Logger
	now        func() time.Time
	fetchLimit int

	mu    sync.Mutex
	state models.CartState
	// issued counts refreshes started; applied is the newest ticket whose
	// result reached state. Older completions are discarded.
	issued  uint64
	applied uint64
}

func NewCartService(gateway CartGateway, products ProductLookup, auth AuthStatus, orders OrderPlacer, log *zap.Logger) *CartService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CartService{
		gateway:    gateway,
		products:   products,
		auth:       auth,
		orders:     orders,
		log:        log,
		now:        time.Now,
		fetchLimit: defaultProductFetchLimit,
		state:      emptyCartState(),
	}
}

// State returns a copy of the cart state.
func (s *CartService) State() models.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.Items = append([]models.CartLineItem(nil), s.state.Items...)
	if st.Items == nil {
		st.Items = []models.CartLineItem{}
	}
	return st
}

func (s *CartService) dispatch(a cartAction) {
	s.mu.Lock()
	s.state = reduceCart(s.state, a)
	s.mu.Unlock()
}

func (s *CartService) beginRefresh() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	s.state = reduceCart(s.state, cartAction{kind: cartLoading})
	return s.issued
}

// finishRefresh applies a for ticket unless a newer refresh already landed
// or the cart was cleared since the ticket was issued.
func (s *CartService) finishRefresh(ticket uint64, a cartAction) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ticket <= s.applied {
		return false
	}
	s.applied = ticket
	s.state = reduceCart(s.state, a)
	if ticket < s.issued {
		s.state.Loading = true
	}
	return true
}

// Refresh re-reads the cart. Without an authenticated session it only
// resets the cart to empty.
func (s *CartService) Refresh(ctx context.Context) error {
	if !s.auth.IsAuthenticated() {
		s.Clear()
		return nil
	}

	ticket := s.beginRefresh()

	payload, err := s.gateway.GetCart(ctx)
	if err != nil {
		s.finishRefresh(ticket, cartAction{kind: cartFail, err: userMessage(err, "Failed to load cart")})
		return err
	}
	items, err := normalizeCart(payload)
	if err != nil {
		s.finishRefresh(ticket, cartAction{kind: cartFail, err: userMessage(err, "Failed to load cart")})
		return err
	}
	s.fillProducts(ctx, items)

	if !s.finishRefresh(ticket, cartAction{kind: cartSetItems, items: items, at: s.now()}) {
		s.log.Debug("discarding superseded cart refresh", zap.Uint64("ticket", ticket))
	}
	return nil
}

// fillProducts looks up snapshots missing from the payload. A failed lookup
// leaves that line's product nil.
func (s *CartService) fillProducts(ctx context.Context, items []models.CartLineItem) {
	if s.products == nil {
		return
	}
	var g errgroup.Group
	g.SetLimit(s.fetchLimit)
	for i := range items {
		if items[i].Product != nil {
			continue
		}
		i := i
		g.Go(func() error {
			p, err := s.products.ProductByID(ctx, items[i].ProductID)
			if err != nil {
				s.log.Debug("product snapshot unavailable",
					zap.String("product_id", items[i].ProductID),
					zap.Error(err),
				)
				return nil
			}
			items[i].Product = p
			return nil
		})
	}
	_ = g.Wait()
}

// AddItem adds quantity units of productID; zero means one.
func (s *CartService) AddItem(ctx context.Context, productID string, quantity int) error {
	if productID == "" {
		return ErrMissingProductID
	}
	if quantity < 0 {
		return ErrInvalidQuantity
	}
	if quantity == 0 {
		quantity = 1
	}

	s.dispatch(cartAction{kind: cartLoading})
	if _, err := s.gateway.AddToCart(ctx, productID, quantity); err != nil {
		s.dispatch(cartAction{kind: cartFail, err: userMessage(err, "Failed to add item")})
		return err
	}
	return s.Refresh(ctx)
}

// UpdateQuantity sets the quantity of productID. Zero removes the line.
func (s *CartService) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	if productID == "" {
		return ErrMissingProductID
	}
	if quantity < 0 {
		return ErrInvalidQuantity
	}
	if quantity == 0 {
		return s.RemoveItem(ctx, productID)
	}

	s.dispatch(cartAction{kind: cartLoading})
	result, err := s.gateway.UpdateQuantity(ctx, productID, quantity)
	if err != nil {
		s.dispatch(cartAction{kind: cartFail, err: userMessage(err, "Failed to update quantity")})
		return err
	}
	return s.afterMutation(ctx, result)
}

func (s *CartService) RemoveItem(ctx context.Context, productID string) error {
	if productID == "" {
		return ErrMissingProductID
	}

	s.dispatch(cartAction{kind: cartLoading})
	result, err := s.gateway.RemoveFromCart(ctx, productID)
	if err != nil {
		s.dispatch(cartAction{kind: cartFail, err: userMessage(err, "Failed to remove item")})
		return err
	}
	return s.afterMutation(ctx, result)
}

// afterMutation treats a deleted cart as an empty one without re-reading it.
func (s *CartService) afterMutation(ctx context.Context, result models.CartMutation) error {
	if result.Kind == models.CartDeleted {
		s.empty()
		return nil
	}
	return s.Refresh(ctx)
}

// ConfirmOrder turns the server-side cart into an order. On success the
// cart is emptied; on failure the cart state is left as it was.
func (s *CartService) ConfirmOrder(ctx context.Context, req models.CreateOrderRequest) models.OrderResult {
	order, err := s.orders.CreateFromCart(ctx, req)
	if err != nil {
		return models.OrderResult{Success: false, Error: userMessage(err, "Failed to confirm order")}
	}
	s.empty()
	s.log.Info("order placed from cart", zap.String("order_id", order.ID))
	return models.OrderResult{Success: true, Order: order}
}

// Clear drops all items and invalidates refreshes still in flight.
func (s *CartService) Clear() {
	s.mu.Lock()
	s.applied = s.issued
	s.state = reduceCart(s.state, cartAction{kind: cartClear})
	s.mu.Unlock()
}

func (s *CartService) empty() {
	s.mu.Lock()
	s.applied = s.issued
	s.state = reduceCart(s.state, cartAction{kind: cartSetItems, at: s.now()})
	s.mu.Unlock()
}

// OnAuthChange loads the cart after login and clears it after logout.
func (s *CartService) OnAuthChange(ctx context.Context, authenticated bool) {
	if !authenticated {
		s.Clear()
		return
	}
	if err := s.Refresh(ctx); err != nil {
		s.log.Warn("cart refresh after login failed", zap.Error(err))
	}
}
