package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Skotchmaster/electronics_store/internal/cache"
	"github.com/Skotchmaster/electronics_store/internal/events"
	"github.com/Skotchmaster/electronics_store/internal/models"
	"github.com/Skotchmaster/electronics_store/internal/repo"
	"github.com/Skotchmaster/electronics_store/internal/search"
	"github.com/Skotchmaster/electronics_store/internal/storage"
	"github.com/Skotchmaster/electronics_store/internal/transport"
	"github.com/Skotchmaster/electronics_store/internal/util"
	"github.com/Skotchmaster/electronics_store/pkg/logging"
)

// ProductIndex is the full-text index kept next to the products table.
type ProductIndex interface {
	Put(ctx context.Context, doc search.ProductDoc) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, query string, from, size int) ([]string, int64, error)
}

type ProductService struct {
	Repo     *repo.GormRepo
	Images   *storage.ImageStore
	Events   events.Publisher
	Cache    cache.Cache
	CacheTTL time.Duration
	Index    ProductIndex
}

func (s *ProductService) Create(ctx context.Context, req transport.ProductRequest) (*models.Product, error) {
	return s.create(ctx, req, nil)
}

// CreateInCategory creates a product attached to an existing category.
func (s *ProductService) CreateInCategory(ctx context.Context, categoryID string, req transport.ProductRequest) (*models.Product, error) {
	if _, err := s.Repo.GetCategory(ctx, categoryID); err != nil {
		return nil, notFoundOr(err, "category not found with id %s", categoryID)
	}
	return s.create(ctx, req, &categoryID)
}

func (s *ProductService) create(ctx context.Context, req transport.ProductRequest, categoryID *string) (*models.Product, error) {
	p := &models.Product{
		Title:           strings.TrimSpace(req.Title),
		Description:     req.Description,
		Price:           req.Price,
		DiscountedPrice: req.DiscountedPrice,
		Quantity:        req.Quantity,
		Live:            req.Live,
		Stock:           req.Stock,
		ImageName:       req.ImageName,
		CategoryID:      categoryID,
	}
	if err := s.Repo.CreateProduct(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.index(ctx, p)
	publish(ctx, s.Events, events.TopicProducts, events.NewEvent("product_created", p.ID, map[string]any{"title": p.Title, "price": p.Price}))
	return s.Get(ctx, p.ID)
}

func (s *ProductService) Update(ctx context.Context, id string, req transport.ProductRequest) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "product not found with id %s", id)
	}

	p.Title = strings.TrimSpace(req.Title)
	p.Description = req.Description
	p.Price = req.Price
	p.DiscountedPrice = req.DiscountedPrice
	p.Quantity = req.Quantity
	p.Live = req.Live
	p.Stock = req.Stock
	if req.ImageName != "" {
		p.ImageName = req.ImageName
	}

	return p, s.save(ctx, p, "product_updated")
}

// AssignCategory moves a product into a category.
func (s *ProductService) AssignCategory(ctx context.Context, categoryID, productID string) (*models.Product, error) {
	c, err := s.Repo.GetCategory(ctx, categoryID)
	if err != nil {
		return nil, notFoundOr(err, "category not found with id %s", categoryID)
	}
	p, err := s.Repo.GetProduct(ctx, productID)
	if err != nil {
		return nil, notFoundOr(err, "product not found with id %s", productID)
	}

	p.CategoryID = &c.ID
	p.Category = c
	return p, s.save(ctx, p, "product_updated")
}

func (s *ProductService) save(ctx context.Context, p *models.Product, eventType string) error {
	if err := s.Repo.SaveProduct(ctx, p); err != nil {
		return fmt.Errorf("save product: %w", err)
	}
	s.invalidate(ctx, p.ID)
	s.index(ctx, p)
	publish(ctx, s.Events, events.TopicProducts, events.NewEvent(eventType, p.ID, nil))
	return nil
}

// Delete removes the product, its cart lines and, best effort, its image.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return notFoundOr(err, "product not found with id %s", id)
	}

	err = s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		return tx.DeleteProduct(ctx, id)
	})
	if err != nil {
		return notFoundOr(err, "product not found with id %s", id)
	}

	removeImage(ctx, s.Images, storage.KindProduct, p.ImageName)
	s.invalidate(ctx, id)
	if s.Index != nil {
		if err := s.Index.Delete(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("product_unindex_failed", "product_id", id, "error", err)
		}
	}
	publish(ctx, s.Events, events.TopicProducts, events.NewEvent("product_deleted", id, nil))
	return nil
}

// Get reads through the cache when one is configured.
func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	l := logging.FromContext(ctx)
	key := cache.ProductKey(id)

	if s.Cache != nil {
		var cached models.Product
		ok, err := s.Cache.Get(ctx, key, &cached)
		if err != nil {
			l.Warn("product_cache_get_failed", "product_id", id, "error", err)
		} else if ok {
			return &cached, nil
		}
	}

	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "product not found with id %s", id)
	}

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, key, p, s.CacheTTL); err != nil {
			l.Warn("product_cache_set_failed", "product_id", id, "error", err)
		}
	}
	return p, nil
}

func (s *ProductService) List(ctx context.Context, p util.PageRequest) ([]models.Product, int64, error) {
	return s.Repo.ListProducts(ctx, p)
}

func (s *ProductService) ListLive(ctx context.Context, p util.PageRequest) ([]models.Product, int64, error) {
	return s.Repo.ListLiveProducts(ctx, p)
}

func (s *ProductService) ListByCategory(ctx context.Context, categoryID string, p util.PageRequest) ([]models.Product, int64, error) {
	if _, err := s.Repo.GetCategory(ctx, categoryID); err != nil {
		return nil, 0, notFoundOr(err, "category not found with id %s", categoryID)
	}
	return s.Repo.ListProductsByCategory(ctx, categoryID, p)
}

// Search uses the full-text index when present and falls back to a title match.
func (s *ProductService) Search(ctx context.Context, keyword string, p util.PageRequest) ([]models.Product, int64, error) {
	if s.Index != nil {
		ids, total, err := s.Index.Search(ctx, keyword, p.Offset(), p.Size)
		if err == nil {
			items, err := s.Repo.GetProductsByIDs(ctx, ids)
			if err != nil {
				return nil, 0, fmt.Errorf("load search hits: %w", err)
			}
			return items, total, nil
		}
		logging.FromContext(ctx).Warn("product_search_index_failed", "error", err)
	}
	return s.Repo.SearchProducts(ctx, keyword, p)
}

func (s *ProductService) UploadImage(ctx context.Context, id, filename string, r io.Reader) (string, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return "", notFoundOr(err, "product not found with id %s", id)
	}

	name, err := saveImage(s.Images, storage.KindProduct, filename, r)
	if err != nil {
		return "", err
	}

	old := p.ImageName
	p.ImageName = name
	if err := s.Repo.SaveProduct(ctx, p); err != nil {
		removeImage(ctx, s.Images, storage.KindProduct, name)
		return "", fmt.Errorf("save product image: %w", err)
	}
	s.invalidate(ctx, id)
	removeImage(ctx, s.Images, storage.KindProduct, old)
	return name, nil
}

func (s *ProductService) OpenImage(ctx context.Context, id string) (*os.File, string, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, "", notFoundOr(err, "product not found with id %s", id)
	}
	return openImage(s.Images, storage.KindProduct, p.ImageName)
}

// Refresh drops the cached copies of the given products and re-indexes them
// from the database. Used when a change outside the product row alters them.
func (s *ProductService) Refresh(ctx context.Context, ids ...string) {
	for _, id := range ids {
		s.invalidate(ctx, id)
		if s.Index == nil {
			continue
		}
		p, err := s.Repo.GetProduct(ctx, id)
		if err != nil {
			logging.FromContext(ctx).Warn("product_refresh_failed", "product_id", id, "error", err)
			continue
		}
		s.index(ctx, p)
	}
}

func (s *ProductService) invalidate(ctx context.Context, id string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Delete(ctx, cache.ProductKey(id)); err != nil {
		logging.FromContext(ctx).Warn("product_cache_delete_failed", "product_id", id, "error", err)
	}
}

func (s *ProductService) index(ctx context.Context, p *models.Product) {
	if s.Index == nil {
		return
	}
	doc := search.ProductDoc{ID: p.ID, Title: p.Title, Description: p.Description, Live: p.Live}
	if p.CategoryID != nil {
		doc.CategoryID = *p.CategoryID
	}
	if err := s.Index.Put(ctx, doc); err != nil {
		logging.FromContext(ctx).Warn("product_index_failed", "product_id", p.ID, "error", err)
	}
}
