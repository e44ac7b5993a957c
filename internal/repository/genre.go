package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/model"
	"gorm.io/gorm"
)

type GenreRepository interface {
	Create(ctx context.Context, genre *model.Genre) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Genre, error)
	List(ctx context.Context) ([]model.Genre, error)
	Update(ctx context.Context, genre *model.Genre) error
	Delete(ctx context.Context, id uuid.UUID) error
}

var genreUnique = uniqueRule{
	index:   "idx_genres_name",
	columns: "genres.name",
	field:   "name",
	message: "genre with this name already exists",
}

type GormGenreRepository struct {
	db *gorm.DB
}

func NewGormGenreRepository(db *gorm.DB) *GormGenreRepository {
	return &GormGenreRepository{db: db}
}

func (r *GormGenreRepository) Create(ctx context.Context, genre *model.Genre) error {
	return classify(r.db.WithContext(ctx).Create(genre).Error, genreUnique)
}

func (r *GormGenreRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Genre, error) {
	var genre model.Genre
	if err := r.db.WithContext(ctx).First(&genre, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &genre, nil
}

func (r *GormGenreRepository) List(ctx context.Context) ([]model.Genre, error) {
	var genres []model.Genre
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&genres).Error; err != nil {
		return nil, err
	}
	return genres, nil
}

func (r *GormGenreRepository) Update(ctx context.Context, genre *model.Genre) error {
	result := r.db.WithContext(ctx).
		Model(&model.Genre{}).
		Where("id = ?", genre.ID).
		Updates(map[string]any{
			"name":        genre.Name,
			"description": genre.Description,
		})
	if result.Error != nil {
		return classify(result.Error, genreUnique)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete detaches the genre from its books before removing it.
func (r *GormGenreRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Book{}).Where("genre_id = ?", id).Update("genre_id", nil).Error; err != nil {
			return err
		}
		return deleteByID(tx, &model.Genre{}, id)
	})
}
