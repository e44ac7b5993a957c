package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/model"
	"gorm.io/gorm"
)

type PublisherRepository interface {
	Create(ctx context.Context, publisher *model.Publisher) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Publisher, error)
	List(ctx context.Context) ([]model.Publisher, error)
	Update(ctx context.Context, publisher *model.Publisher) error
	Delete(ctx context.Context, id uuid.UUID) error
}

var publisherUnique = uniqueRule{
	index:   "idx_publishers_name",
	columns: "publishers.name",
	field:   "name",
	message: "publisher with this name already exists",
}

type GormPublisherRepository struct {
	db *gorm.DB
}

func NewGormPublisherRepository(db *gorm.DB) *GormPublisherRepository {
	return &GormPublisherRepository{db: db}
}

func (r *GormPublisherRepository) Create(ctx context.Context, publisher *model.Publisher) error {
	return classify(r.db.WithContext(ctx).Create(publisher).Error, publisherUnique)
}

func (r *GormPublisherRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Publisher, error) {
	var publisher model.Publisher
	if err := r.db.WithContext(ctx).First(&publisher, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &publisher, nil
}

func (r *GormPublisherRepository) List(ctx context.Context) ([]model.Publisher, error) {
	var publishers []model.Publisher
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&publishers).Error; err != nil {
		return nil, err
	}
	return publishers, nil
}

func (r *GormPublisherRepository) Update(ctx context.Context, publisher *model.Publisher) error {
	result := r.db.WithContext(ctx).
		Model(&model.Publisher{}).
		Where("id = ?", publisher.ID).
		Updates(map[string]any{
			"name":    publisher.Name,
			"address": publisher.Address,
			"website": publisher.Website,
		})
	if result.Error != nil {
		return classify(result.Error, publisherUnique)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormPublisherRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Book{}).Where("publisher_id = ?", id).Update("publisher_id", nil).Error; err != nil {
			return err
		}
		return deleteByID(tx, &model.Publisher{}, id)
	})
}
