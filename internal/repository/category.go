package repository

import (
	"context"

	"reviewhub/internal/models"

	"gorm.io/gorm"
)

// CategoryRepository defines the interface for category data operations.
// Categories are addressed by slug, not numeric id.
type CategoryRepository interface {
	List(ctx context.Context, search string, limit, offset int) ([]models.Category, int64, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	DeleteBySlug(ctx context.Context, slug string) ([]uint, error)
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) List(ctx context.Context, search string, limit, offset int) ([]models.Category, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Category{})
	if search != "" {
		pattern := "%" + search + "%"
		q = q.Where("name LIKE ? OR slug LIKE ?", pattern, pattern)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var categories []models.Category
	if err := q.Order("id").Limit(limit).Offset(offset).Find(&categories).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return categories, count, nil
}

func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &category, nil
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// DeleteBySlug removes the category and nulls the reference on any title
// that used it. Titles are referenced, not owned, so they survive. The
// ids of the detached titles are returned so callers can drop cached
// copies that still carry the category.
func (r *categoryRepository) DeleteBySlug(ctx context.Context, slug string) ([]uint, error) {
	var detached []uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.Where("slug = ?", slug).First(&category).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Title{}).
			Where("category_id = ?", category.ID).
			Pluck("id", &detached).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Title{}).
			Where("category_id = ?", category.ID).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&category).Error
	})
	if err == gorm.ErrRecordNotFound {
		return nil, models.NewNotFoundError("Category", slug)
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return detached, nil
}
