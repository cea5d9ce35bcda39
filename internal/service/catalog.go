package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Skotchmaster/loja/internal/models"
	"github.com/Skotchmaster/loja/internal/transport"
	"github.com/Skotchmaster/loja/internal/util"
	"github.com/Skotchmaster/loja/pkg/logging"
)

const (
	productListKey   = "catalog:products"
	productKeyPrefix = "catalog:product:"

	DefaultCacheTTL = 5 * time.Minute
)

type CatalogService struct {
	Products ProductRepo
	// Index and Cache are optional.
	Index    ProductIndex
	Cache    Cache
	CacheTTL time.Duration
	Events   EventPublisher
	Now      func() time.Time
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	var cached []models.Product
	if s.cacheGet(ctx, productListKey, &cached) {
		return cached, nil
	}

	items, err := s.Products.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, productListKey, items)
	return items, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var cached models.Product
	if s.cacheGet(ctx, productKeyPrefix+id, &cached) {
		return &cached, nil
	}

	p, err := s.Products.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, productKeyPrefix+id, p)
	return p, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p := req.Product()
	now := nowUTC(s.Now)
	p.CreatedAt, p.UpdatedAt = now, now
	if err := s.Products.CreateProduct(ctx, p); err != nil {
		return nil, err
	}

	s.afterWrite(ctx, p, "product_created")
	return p, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id string, req transport.UpdateProductRequest) (*models.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p, err := s.Products.UpdateProduct(ctx, id, req.Patch())
	if err != nil {
		return nil, err
	}

	s.afterWrite(ctx, p, "product_updated")
	return p, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.Products.DeleteProduct(ctx, id); err != nil {
		return err
	}

	l := logging.FromContext(ctx)
	s.invalidate(ctx, id)
	if s.Index != nil {
		if err := s.Index.DeleteProduct(ctx, id); err != nil {
			l.Warn("search_index_delete_failed", "product_id", id, "error", err)
		}
	}
	publish(ctx, s.Events, TopicProductEvents, id, ProductEvent{Type: "product_deleted", ProductID: id, At: nowUTC(s.Now)})
	return nil
}

// Search uses the search index when one is configured and the store otherwise.
func (s *CatalogService) Search(ctx context.Context, query string, page, size int) (*transport.SearchResponse, error) {
	if page < 1 {
		page = 1
	}
	offset, limit := util.Calculate(page, size)

	var (
		total int64
		items []models.Product
		err   error
	)
	if s.Index != nil {
		total, items, err = s.Index.Search(ctx, query, offset, limit)
	} else {
		total, items, err = s.Products.SearchProducts(ctx, query, offset, limit)
	}
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Product{}
	}

	return &transport.SearchResponse{
		Data: items,
		Meta: transport.SearchMeta{
			Page:       page,
			Size:       limit,
			Total:      total,
			TotalPages: util.TotalPages(total, limit),
			HasPrev:    page > 1,
			HasNext:    int64(offset+limit) < total,
		},
	}, nil
}

func (s *CatalogService) afterWrite(ctx context.Context, p *models.Product, eventType string) {
	s.invalidate(ctx, p.ID)
	if s.Index != nil {
		if err := s.Index.IndexProduct(ctx, p); err != nil {
			logging.FromContext(ctx).Warn("search_index_failed", "product_id", p.ID, "error", err)
		}
	}
	publish(ctx, s.Events, TopicProductEvents, p.ID, ProductEvent{
		Type: eventType, ProductID: p.ID, Name: p.Name, Price: p.Price, At: nowUTC(s.Now),
	})
}

func (s *CatalogService) invalidate(ctx context.Context, id string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Delete(ctx, productListKey, productKeyPrefix+id); err != nil {
		logging.FromContext(ctx).Warn("cache_invalidate_failed", "product_id", id, "error", err)
	}
}

func (s *CatalogService) cacheGet(ctx context.Context, key string, dst any) bool {
	if s.Cache == nil {
		return false
	}
	raw, err := s.Cache.Get(ctx, key)
	if err != nil || raw == "" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		logging.FromContext(ctx).Warn("cache_decode_failed", "key", key, "error", err)
		return false
	}
	return true
}

func (s *CatalogService) cacheSet(ctx context.Context, key string, v any) {
	if s.Cache == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	ttl := s.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if err := s.Cache.Set(ctx, key, string(raw), ttl); err != nil {
		logging.FromContext(ctx).Warn("cache_set_failed", "key", key, "error", err)
	}
}
