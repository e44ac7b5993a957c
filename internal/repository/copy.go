package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/copystatus"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/model"
	"gorm.io/gorm"
)

// CopyListParams filters are optional and combined with AND.
type CopyListParams struct {
	BookID       *uuid.UUID
	Status       *copystatus.Status
	MinCondition *int
}

type CopyRepository interface {
	Create(ctx context.Context, bc *model.BookCopy) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.BookCopy, error)
	List(ctx context.Context, params CopyListParams) ([]model.BookCopy, error)
	// Update writes the copy only while its stored status is still expected.
	Update(ctx context.Context, bc *model.BookCopy, expected copystatus.Status) error
	Delete(ctx context.Context, id uuid.UUID) error
}

var copyUnique = uniqueRule{
	index:   "idx_book_copies_book_copy",
	columns: "book_copies.book_id, book_copies.copy_id",
	field:   "copy_id",
	message: "This copy ID already exists for the selected book",
}

type GormCopyRepository struct {
	db *gorm.DB
}

func NewGormCopyRepository(db *gorm.DB) *GormCopyRepository {
	return &GormCopyRepository{db: db}
}

func (r *GormCopyRepository) Create(ctx context.Context, bc *model.BookCopy) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &model.Book{}, bc.BookID, "book"); err != nil {
			return err
		}
		return classify(tx.Omit("Loans").Create(bc).Error, copyUnique)
	})
}

func (r *GormCopyRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.BookCopy, error) {
	var bc model.BookCopy
	if err := r.db.WithContext(ctx).First(&bc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &bc, nil
}

func (r *GormCopyRepository) List(ctx context.Context, params CopyListParams) ([]model.BookCopy, error) {
	q := r.db.WithContext(ctx).Model(&model.BookCopy{})

	if params.BookID != nil {
		q = q.Where("book_id = ?", *params.BookID)
	}
	if params.Status != nil {
		q = q.Where("status = ?", *params.Status)
	}
	if params.MinCondition != nil {
		q = q.Where("condition_rating >= ?", *params.MinCondition)
	}

	var copies []model.BookCopy
	if err := q.Order("copy_id ASC").Find(&copies).Error; err != nil {
		return nil, err
	}
	return copies, nil
}

func (r *GormCopyRepository) Update(ctx context.Context, bc *model.BookCopy, expected copystatus.Status) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &model.Book{}, bc.BookID, "book"); err != nil {
			return err
		}

		result := tx.Model(&model.BookCopy{}).
			Where("id = ? AND status = ?", bc.ID, expected).
			Updates(map[string]any{
				"book_id":          bc.BookID,
				"copy_id":          bc.CopyID,
				"acquisition_date": bc.AcquisitionDate,
				"status":           bc.Status,
				"condition_rating": bc.ConditionRating,
			})
		if result.Error != nil {
			return classify(result.Error, copyUnique)
		}
		if result.RowsAffected == 0 {
			if err := mustExist(tx, &model.BookCopy{}, bc.ID, "id"); err != nil {
				var refErr *ReferenceError
				if errors.As(err, &refErr) {
					return gorm.ErrRecordNotFound
				}
				return err
			}
			return ErrStatusChanged
		}
		return nil
	})
}

// Delete refuses copies that appear in any loan, returned or not.
func (r *GormCopyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var loans int64
		if err := tx.Model(&model.Loan{}).Where("book_copy_id = ?", id).Count(&loans).Error; err != nil {
			return err
		}
		if loans > 0 {
			return ErrProtected
		}
		return deleteByID(tx, &model.BookCopy{}, id)
	})
}

// moveCopy is the only way loans change a copy's status: one conditional
// write that succeeds only while the copy is still in from.
func moveCopy(tx *gorm.DB, id uuid.UUID, from, to copystatus.Status) (bool, error) {
	if err := copystatus.Transition(from, to); err != nil {
		return false, err
	}

	result := tx.Model(&model.BookCopy{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
