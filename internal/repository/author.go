package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/model"
	"gorm.io/gorm"
)

type AuthorListParams struct {
	Search string
}

type AuthorRepository interface {
	Create(ctx context.Context, author *model.Author) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Author, error)
	List(ctx context.Context, params AuthorListParams) ([]model.Author, error)
	Update(ctx context.Context, author *model.Author) error
	Delete(ctx context.Context, id uuid.UUID) error
}

var authorUnique = uniqueRule{
	index:   "idx_authors_name",
	columns: "authors.name",
	field:   "name",
	message: "author with this name already exists",
}

type GormAuthorRepository struct {
	db *gorm.DB
}

func NewGormAuthorRepository(db *gorm.DB) *GormAuthorRepository {
	return &GormAuthorRepository{db: db}
}

func (r *GormAuthorRepository) Create(ctx context.Context, author *model.Author) error {
	return classify(r.db.WithContext(ctx).Omit("Books").Create(author).Error, authorUnique)
}

func (r *GormAuthorRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Author, error) {
	var author model.Author
	if err := r.db.WithContext(ctx).First(&author, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &author, nil
}

func (r *GormAuthorRepository) List(ctx context.Context, params AuthorListParams) ([]model.Author, error) {
	q := r.db.WithContext(ctx).Model(&model.Author{})

	if params.Search != "" {
		q = q.Where(containsClause(r.db, "name"), containsPattern(params.Search))
	}

	var authors []model.Author
	if err := q.Order("name ASC").Find(&authors).Error; err != nil {
		return nil, err
	}
	return authors, nil
}

func (r *GormAuthorRepository) Update(ctx context.Context, author *model.Author) error {
	result := r.db.WithContext(ctx).
		Model(&model.Author{}).
		Where("id = ?", author.ID).
		Updates(map[string]any{
			"name":        author.Name,
			"birth_date":  author.BirthDate,
			"nationality": author.Nationality,
		})
	if result.Error != nil {
		return classify(result.Error, authorUnique)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormAuthorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		author := model.Author{ID: id}
		if err := tx.Model(&author).Association("Books").Clear(); err != nil {
			return err
		}
		return deleteByID(tx, &model.Author{}, id)
	})
}
