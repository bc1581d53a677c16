package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Skotchmaster/electronics_store/internal/events"
	"github.com/Skotchmaster/electronics_store/internal/models"
	"github.com/Skotchmaster/electronics_store/internal/repo"
	"github.com/Skotchmaster/electronics_store/internal/storage"
	"github.com/Skotchmaster/electronics_store/internal/transport"
	"github.com/Skotchmaster/electronics_store/internal/util"
)

type CategoryService struct {
	Repo   *repo.GormRepo
	Images *storage.ImageStore
	Events events.Publisher
	// Products, when set, has its cached and indexed copies refreshed
	// whenever a category change alters what a product embeds.
	Products *ProductService
}

func (s *CategoryService) Create(ctx context.Context, req transport.CategoryRequest) (*models.Category, error) {
	c := &models.Category{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		CoverImage:  req.CoverImage,
	}
	if err := s.Repo.CreateCategory(ctx, c); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	publish(ctx, s.Events, events.TopicProducts, events.NewEvent("category_created", c.ID, map[string]string{"title": c.Title}))
	return c, nil
}

func (s *CategoryService) Update(ctx context.Context, id string, req transport.CategoryRequest) (*models.Category, error) {
	c, err := s.Repo.GetCategory(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "category not found with id %s", id)
	}
	c.Title = strings.TrimSpace(req.Title)
	c.Description = req.Description
	if req.CoverImage != "" {
		c.CoverImage = req.CoverImage
	}
	if err := s.Repo.SaveCategory(ctx, c); err != nil {
		return nil, fmt.Errorf("save category: %w", err)
	}

	ids, err := s.Repo.ProductIDsByCategory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list category products: %w", err)
	}
	s.refreshProducts(ctx, ids)
	return c, nil
}

// Delete detaches the category's products, deletes it and drops its cover image.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	c, err := s.Repo.GetCategory(ctx, id)
	if err != nil {
		return notFoundOr(err, "category not found with id %s", id)
	}

	var detached []string
	err = s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		ids, err := tx.ProductIDsByCategory(ctx, id)
		if err != nil {
			return err
		}
		detached = ids
		return tx.DeleteCategory(ctx, id)
	})
	if err != nil {
		return notFoundOr(err, "category not found with id %s", id)
	}

	s.refreshProducts(ctx, detached)
	removeImage(ctx, s.Images, storage.KindCategory, c.CoverImage)
	publish(ctx, s.Events, events.TopicProducts, events.NewEvent("category_deleted", id, nil))
	return nil
}

func (s *CategoryService) refreshProducts(ctx context.Context, ids []string) {
	if s.Products == nil || len(ids) == 0 {
		return
	}
	s.Products.Refresh(ctx, ids...)
}

func (s *CategoryService) Get(ctx context.Context, id string) (*models.Category, error) {
	c, err := s.Repo.GetCategory(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "category not found with id %s", id)
	}
	return c, nil
}

func (s *CategoryService) List(ctx context.Context, p util.PageRequest) ([]models.Category, int64, error) {
	return s.Repo.ListCategories(ctx, p)
}

func (s *CategoryService) Search(ctx context.Context, keyword string, p util.PageRequest) ([]models.Category, int64, error) {
	return s.Repo.SearchCategories(ctx, keyword, p)
}

func (s *CategoryService) UploadImage(ctx context.Context, id, filename string, r io.Reader) (string, error) {
	c, err := s.Repo.GetCategory(ctx, id)
	if err != nil {
		return "", notFoundOr(err, "category not found with id %s", id)
	}

	name, err := saveImage(s.Images, storage.KindCategory, filename, r)
	if err != nil {
		return "", err
	}

	old := c.CoverImage
	c.CoverImage = name
	if err := s.Repo.SaveCategory(ctx, c); err != nil {
		removeImage(ctx, s.Images, storage.KindCategory, name)
		return "", fmt.Errorf("save category image: %w", err)
	}
	removeImage(ctx, s.Images, storage.KindCategory, old)
	return name, nil
}

func (s *CategoryService) OpenImage(ctx context.Context, id string) (*os.File, string, error) {
	c, err := s.Repo.GetCategory(ctx, id)
	if err != nil {
		return nil, "", notFoundOr(err, "category not found with id %s", id)
	}
	return openImage(s.Images, storage.KindCategory, c.CoverImage)
}
