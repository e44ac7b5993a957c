package handler

import (
	"github.com/google/uuid"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/model"
)

type CreateLoanRequest struct {
	BookCopy   uuid.UUID   `json:"book_copy" binding:"required"`
	Member     uuid.UUID   `json:"member" binding:"required"`
	LoanDate   *model.Date `json:"loan_date" swaggertype:"string" example:"2025-11-01"`
	DueDate    model.Date  `json:"due_date" binding:"required" swaggertype:"string" example:"2025-11-15"`
	ReturnDate *model.Date `json:"return_date" swaggertype:"string" example:"2025-11-10"`
	FineAmount *float64    `json:"fine_amount" binding:"omitempty,min=0,max=9999.99,two_decimals" example:"0"`
}

type UpdateLoanRequest struct {
	BookCopy   *uuid.UUID   `json:"book_copy"`
	Member     *uuid.UUID   `json:"member"`
	LoanDate   *model.Date  `json:"loan_date" swaggertype:"string" example:"2025-11-01"`
	DueDate    *model.Date  `json:"due_date" swaggertype:"string" example:"2025-11-15"`
	ReturnDate NullableDate `json:"return_date" swaggertype:"string" example:"2025-11-10"`
	FineAmount *float64     `json:"fine_amount" binding:"omitempty,min=0,max=9999.99,two_decimals" example:"1.50"`
}

type Loan struct {
	ID         uuid.UUID   `json:"id"`
	BookCopy   uuid.UUID   `json:"book_copy"`
	Member     uuid.UUID   `json:"member"`
	LoanDate   model.Date  `json:"loan_date" swaggertype:"string" example:"2025-11-01"`
	DueDate    model.Date  `json:"due_date" swaggertype:"string" example:"2025-11-15"`
	ReturnDate *model.Date `json:"return_date" swaggertype:"string" example:"2025-11-10"`
	FineAmount float64     `json:"fine_amount"`
	CreatedAt  model.Date  `json:"created_at" swaggertype:"string" example:"2025-11-24"`
	UpdatedAt  model.Date  `json:"updated_at" swaggertype:"string" example:"2025-11-24"`
}

type LoanResponse struct {
	Data Loan `json:"data"`
}

type ListLoansResponse struct {
	Data []Loan `json:"data"`
}

func toLoan(l model.Loan) Loan {
	return Loan{
		ID:         l.ID,
		BookCopy:   l.BookCopyID,
		Member:     l.MemberID,
		LoanDate:   model.NewDate(l.LoanDate),
		DueDate:    model.NewDate(l.DueDate),
		ReturnDate: model.DatePtr(l.ReturnDate),
		FineAmount: l.FineAmount,
		CreatedAt:  model.Date{Time: l.CreatedAt},
		UpdatedAt:  model.Date{Time: l.UpdatedAt},
	}
}

func (req CreateLoanRequest) apply(l *model.Loan) {
	l.BookCopyID = req.BookCopy
	l.MemberID = req.Member
	l.LoanDate = model.Today()
	if req.LoanDate != nil && !req.LoanDate.IsZero() {
		l.LoanDate = req.LoanDate.Time
	}
	l.DueDate = req.DueDate.Time
	l.ReturnDate = dateValue(req.ReturnDate)
	l.FineAmount = 0
	if req.FineAmount != nil {
		l.FineAmount = *req.FineAmount
	}
}

func (req UpdateLoanRequest) apply(l *model.Loan) {
	if req.BookCopy != nil {
		l.BookCopyID = *req.BookCopy
	}
	if req.Member != nil {
		l.MemberID = *req.Member
	}
	if req.LoanDate != nil && !req.LoanDate.IsZero() {
		l.LoanDate = req.LoanDate.Time
	}
	if req.DueDate != nil && !req.DueDate.IsZero() {
		l.DueDate = req.DueDate.Time
	}
	if req.ReturnDate.Set {
		l.ReturnDate = dateValue(req.ReturnDate.Date)
	}
	if req.FineAmount != nil {
		l.FineAmount = *req.FineAmount
	}
}
