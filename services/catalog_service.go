package services

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	"github.com/dmrramaral/sushi-app/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	homePageSize     = "8"
	cacheFillTimeout = 2 * time.Second
)

// HomePage is the landing payload: the first product page and all categories.
type HomePage struct {
	Products   json.RawMessage `json:"products"`
	Categories json.RawMessage `json:"categories"`
}

// CatalogService serves product data shared by every session. Product
// lookups go through the cache when one is configured and are coalesced per id.
type CatalogService struct {
	gateway ProductGateway
	cache   ProductCache
	log     *zap.Logger
	group   singleflight.Group
}

// NewCatalogService accepts a nil cache.
func NewCatalogService(gateway ProductGateway, cache ProductCache, log *zap.Logger) *CatalogService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CatalogService{gateway: gateway, cache: cache, log: log}
}

func (s *CatalogService) ProductByID(ctx context.Context, id string) (*models.ProductSummary, error) {
	if id == "" {
		return nil, ErrMissingProductID
	}
	if s.cache != nil {
		p, err := s.cache.GetProduct(ctx, id)
		if err != nil {
			s.log.Warn("product cache read failed", zap.String("product_id", id), zap.Error(err))
		} else if p != nil {
			return p, nil
		}
	}

	v, err, shared := s.group.Do(id, func() (interface{}, error) {
		return s.gateway.ProductByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	p := v.(*models.ProductSummary)
	if !shared && s.cache != nil {
		go s.fill(p)
	}
	out := *p
	return &out, nil
}

func (s *CatalogService) fill(p *models.ProductSummary) {
	ctx, cancel := context.WithTimeout(context.Background(), cacheFillTimeout)
	defer cancel()
	if err := s.cache.SetProduct(ctx, p); err != nil {
		s.log.Warn("product cache write failed", zap.String("product_id", p.ID), zap.Error(err))
	}
}

func (s *CatalogService) Products(ctx context.Context, query url.Values) (json.RawMessage, error) {
	return s.gateway.Products(ctx, query)
}

func (s *CatalogService) Search(ctx context.Context, query url.Values) (json.RawMessage, error) {
	return s.gateway.SearchProducts(ctx, query)
}

func (s *CatalogService) Categories(ctx context.Context) (json.RawMessage, error) {
	return s.gateway.Categories(ctx)
}

// Home fetches the first product page and the categories concurrently.
func (s *CatalogService) Home(ctx context.Context) (*HomePage, error) {
	var page HomePage
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		body, err := s.gateway.Products(gctx, url.Values{"page": {"1"}, "limit": {homePageSize}})
		if err != nil {
			return err
		}
		page.Products = body
		return nil
	})
	g.Go(func() error {
		body, err := s.gateway.Categories(gctx)
		if err != nil {
			return err
		}
		page.Categories = body
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &page, nil
}
