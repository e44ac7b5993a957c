package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/copystatus"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LoanListParams struct {
	MemberID *uuid.UUID
}

type LoanRepository interface {
	Create(ctx context.Context, loan *model.Loan) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Loan, error)
	List(ctx context.Context, params LoanListParams) ([]model.Loan, error)
	Update(ctx context.Context, loan *model.Loan) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type GormLoanRepository struct {
	db *gorm.DB
}

func NewGormLoanRepository(db *gorm.DB) *GormLoanRepository {
	return &GormLoanRepository{db: db}
}

// Create checks out the copy to the member. For an active loan the copy goes
// available -> on_loan and the member's active count goes up, each as a
// single conditional write, so two concurrent requests cannot both win.
func (r *GormLoanRepository) Create(ctx context.Context, loan *model.Loan) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkLoanRefs(tx, loan); err != nil {
			return err
		}

		if loan.Active() {
			if err := acquire(tx, loan.BookCopyID, loan.MemberID); err != nil {
				return err
			}
		} else if err := checkEligible(tx, loan.BookCopyID, loan.MemberID); err != nil {
			return err
		}

		return classify(tx.Create(loan).Error)
	})
}

func (r *GormLoanRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Loan, error) {
	var loan model.Loan
	if err := r.db.WithContext(ctx).First(&loan, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &loan, nil
}

func (r *GormLoanRepository) List(ctx context.Context, params LoanListParams) ([]model.Loan, error) {
	q := r.db.WithContext(ctx).Model(&model.Loan{})
	if params.MemberID != nil {
		q = q.Where("member_id = ?", *params.MemberID)
	}

	var loans []model.Loan
	if err := q.Order("loan_date DESC").Order("created_at DESC").Find(&loans).Error; err != nil {
		return nil, err
	}
	return loans, nil
}

// Update applies loan over the stored record. Returning a loan releases its
// copy and frees a slot for the member; reopening or moving a loan to another
// copy or member takes them again with the same guarded writes.
func (r *GormLoanRepository) Update(ctx context.Context, loan *model.Loan) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current model.Loan
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&current, "id = ?", loan.ID).Error; err != nil {
			return err
		}

		if err := checkLoanRefs(tx, loan); err != nil {
			return err
		}

		sameHolding := current.BookCopyID == loan.BookCopyID && current.MemberID == loan.MemberID
		if current.Active() && !(loan.Active() && sameHolding) {
			if err := release(tx, current.BookCopyID, current.MemberID); err != nil {
				return err
			}
		}
		if loan.Active() && !(current.Active() && sameHolding) {
			if err := acquire(tx, loan.BookCopyID, loan.MemberID); err != nil {
				return err
			}
		}

		return classify(tx.Model(&model.Loan{}).
			Where("id = ?", loan.ID).
			Updates(map[string]any{
				"book_copy_id": loan.BookCopyID,
				"member_id":    loan.MemberID,
				"loan_date":    loan.LoanDate,
				"due_date":     loan.DueDate,
				"return_date":  loan.ReturnDate,
				"fine_amount":  loan.FineAmount,
			}).Error)
	})
}

// Delete removes a loan; an active one gives its copy and slot back first.
func (r *GormLoanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current model.Loan
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&current, "id = ?", id).Error; err != nil {
			return err
		}

		if current.Active() {
			if err := release(tx, current.BookCopyID, current.MemberID); err != nil {
				return err
			}
		}
		return deleteByID(tx, &model.Loan{}, id)
	})
}

func checkLoanRefs(tx *gorm.DB, loan *model.Loan) error {
	if err := mustExist(tx, &model.BookCopy{}, loan.BookCopyID, "book_copy"); err != nil {
		return err
	}
	return mustExist(tx, &model.Member{}, loan.MemberID, "member")
}

func acquire(tx *gorm.DB, copyID, memberID uuid.UUID) error {
	moved, err := moveCopy(tx, copyID, copystatus.Available, copystatus.OnLoan)
	if err != nil {
		return err
	}
	if !moved {
		return ErrCopyUnavailable
	}

	result := tx.Model(&model.Member{}).
		Where("id = ? AND active_loans < ?", memberID, model.MaxActiveLoans).
		UpdateColumn("active_loans", gorm.Expr("active_loans + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrLoanLimit
	}
	return nil
}

// release is tolerant of a copy that is no longer on loan; the member's
// count never drops below zero.
func release(tx *gorm.DB, copyID, memberID uuid.UUID) error {
	if _, err := moveCopy(tx, copyID, copystatus.OnLoan, copystatus.Available); err != nil {
		return err
	}

	return tx.Model(&model.Member{}).
		Where("id = ? AND active_loans > 0", memberID).
		UpdateColumn("active_loans", gorm.Expr("active_loans - 1")).Error
}

// checkEligible applies the checkout rules to a loan recorded as already
// returned, without taking the copy or a slot.
func checkEligible(tx *gorm.DB, copyID, memberID uuid.UUID) error {
	var bc model.BookCopy
	if err := tx.Select("status").First(&bc, "id = ?", copyID).Error; err != nil {
		return err
	}
	if bc.Status != copystatus.Available {
		return ErrCopyUnavailable
	}

	var m model.Member
	if err := tx.Select("active_loans").First(&m, "id = ?", memberID).Error; err != nil {
		return err
	}
	if m.ActiveLoans >= model.MaxActiveLoans {
		return ErrLoanLimit
	}
	return nil
}
