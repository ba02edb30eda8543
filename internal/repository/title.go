package repository

import (
	"context"

	"reviewhub/internal/models"

	"gorm.io/gorm"
)

// TitleFilter narrows a title listing. Zero-valued fields are ignored;
// present fields combine conjunctively.
type TitleFilter struct {
	CategorySlug string
	GenreSlug    string
	Name         string
	Year         *int
}

// TitleRepository defines the interface for title data operations
type TitleRepository interface {
	List(ctx context.Context, filter TitleFilter, limit, offset int) ([]models.Title, int64, error)
	GetByID(ctx context.Context, id uint) (*models.Title, error)
	Create(ctx context.Context, title *models.Title) error
	Update(ctx context.Context, title *models.Title) error
	Delete(ctx context.Context, id uint) error
}

type titleRepository struct {
	db *gorm.DB
}

// NewTitleRepository creates a new title repository
func NewTitleRepository(db *gorm.DB) TitleRepository {
	return &titleRepository{db: db}
}

func (r *titleRepository) applyFilter(q *gorm.DB, filter TitleFilter) *gorm.DB {
	if filter.CategorySlug != "" {
		q = q.Joins("JOIN categories ON categories.id = titles.category_id").
			Where("categories.slug = ?", filter.CategorySlug)
	}
	if filter.GenreSlug != "" {
		q = q.Joins("JOIN title_genres ON title_genres.title_id = titles.id").
			Joins("JOIN genres ON genres.id = title_genres.genre_id").
			Where("genres.slug = ?", filter.GenreSlug)
	}
	if filter.Name != "" {
		q = q.Where("titles.name LIKE ?", "%"+filter.Name+"%")
	}
	if filter.Year != nil {
		q = q.Where("titles.year = ?", *filter.Year)
	}
	return q
}

func (r *titleRepository) List(ctx context.Context, filter TitleFilter, limit, offset int) ([]models.Title, int64, error) {
	base := r.applyFilter(r.db.WithContext(ctx).Model(&models.Title{}), filter)

	var count int64
	if err := base.Distinct("titles.id").Count(&count).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var titles []models.Title
	q := r.applyFilter(r.db.WithContext(ctx).Model(&models.Title{}), filter)
	err := q.Distinct().
		Preload("Category").
		Preload("Genres").
		Order("titles.id").
		Limit(limit).
		Offset(offset).
		Find(&titles).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	if err := r.annotateRatings(ctx, titles); err != nil {
		return nil, 0, err
	}
	return titles, count, nil
}

func (r *titleRepository) GetByID(ctx context.Context, id uint) (*models.Title, error) {
	var title models.Title
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Genres").
		First(&title, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, models.NewNotFoundError("Title", id)
		}
		return nil, models.NewInternalError(err)
	}

	titles := []models.Title{title}
	if err := r.annotateRatings(ctx, titles); err != nil {
		return nil, err
	}
	return &titles[0], nil
}

func (r *titleRepository) Create(ctx context.Context, title *models.Title) error {
	if err := r.db.WithContext(ctx).Create(title).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Update persists scalar fields and replaces the genre set with whatever
// is on the struct.
func (r *titleRepository) Update(ctx context.Context, title *models.Title) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Genres", "Category").Save(title).Error; err != nil {
			return err
		}
		return tx.Model(title).Association("Genres").Replace(title.Genres)
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Delete removes the title, its reviews, and their comments. The cascade
// is explicit so it holds on engines that do not enforce FK constraints.
func (r *titleRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("review_id IN (?)",
			tx.Model(&models.Review{}).Select("id").Where("title_id = ?", id),
		).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("title_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM title_genres WHERE title_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Title{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// annotateRatings fills the computed Rating field with the mean review
// score per title, leaving it nil for titles without reviews.
func (r *titleRepository) annotateRatings(ctx context.Context, titles []models.Title) error {
	if len(titles) == 0 {
		return nil
	}

	ids := make([]uint, len(titles))
	for i := range titles {
		ids[i] = titles[i].ID
	}

	type row struct {
		TitleID uint
		Rating  float64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("title_id, AVG(score) AS rating").
		Where("title_id IN ?", ids).
		Group("title_id").
		Scan(&rows).Error
	if err != nil {
		return models.NewInternalError(err)
	}

	byID := make(map[uint]float64, len(rows))
	for _, rr := range rows {
		byID[rr.TitleID] = rr.Rating
	}
	for i := range titles {
		if rating, ok := byID[titles[i].ID]; ok {
			v := rating
			titles[i].Rating = &v
		}
	}
	return nil
}
