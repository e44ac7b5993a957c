package handler

import (
	"github.com/google/uuid"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/copystatus"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/model"
)

type CreateCopyRequest struct {
	Book            uuid.UUID         `json:"book" binding:"required"`
	CopyID          string            `json:"copy_id" binding:"required,max=20" example:"C1"`
	AcquisitionDate *model.Date       `json:"acquisition_date" binding:"omitempty,not_future" swaggertype:"string" example:"2024-03-01"`
	Status          copystatus.Status `json:"status" binding:"omitempty,oneof=available on_loan maintenance lost" swaggertype:"string" example:"available"`
	ConditionRating *int              `json:"condition_rating" binding:"omitempty,min=1,max=5" example:"5"`
}

type UpdateCopyRequest struct {
	Book            *uuid.UUID         `json:"book"`
	CopyID          *string            `json:"copy_id" binding:"omitempty,min=1,max=20" example:"C1"`
	AcquisitionDate *model.Date        `json:"acquisition_date" binding:"omitempty,not_future" swaggertype:"string" example:"2024-03-01"`
	Status          *copystatus.Status `json:"status" binding:"omitempty,oneof=available on_loan maintenance lost" swaggertype:"string" example:"maintenance"`
	ConditionRating *int               `json:"condition_rating" binding:"omitempty,min=1,max=5" example:"4"`
}

type Copy struct {
	ID              uuid.UUID         `json:"id"`
	Book            uuid.UUID         `json:"book"`
	CopyID          string            `json:"copy_id"`
	AcquisitionDate model.Date        `json:"acquisition_date" swaggertype:"string" example:"2024-03-01"`
	Status          copystatus.Status `json:"status" swaggertype:"string" example:"available"`
	ConditionRating int               `json:"condition_rating"`
	CreatedAt       model.Date        `json:"created_at" swaggertype:"string" example:"2025-11-24"`
	UpdatedAt       model.Date        `json:"updated_at" swaggertype:"string" example:"2025-11-24"`
}

type CopyResponse struct {
	Data Copy `json:"data"`
}

type ListCopiesResponse struct {
	Data []Copy `json:"data"`
}

func toCopy(bc model.BookCopy) Copy {
	return Copy{
		ID:              bc.ID,
		Book:            bc.BookID,
		CopyID:          bc.CopyID,
		AcquisitionDate: model.NewDate(bc.AcquisitionDate),
		Status:          bc.Status,
		ConditionRating: bc.ConditionRating,
		CreatedAt:       model.Date{Time: bc.CreatedAt},
		UpdatedAt:       model.Date{Time: bc.UpdatedAt},
	}
}

// apply writes every field; omitted optional ones get their defaults so a
// replaced copy looks like a freshly created one.
func (req CreateCopyRequest) apply(bc *model.BookCopy) {
	bc.BookID = req.Book
	bc.CopyID = req.CopyID
	bc.AcquisitionDate = model.Today()
	if req.AcquisitionDate != nil && !req.AcquisitionDate.IsZero() {
		bc.AcquisitionDate = req.AcquisitionDate.Time
	}
	bc.Status = copystatus.Available
	if req.Status != "" {
		bc.Status = req.Status
	}
	bc.ConditionRating = model.DefaultConditionRating
	if req.ConditionRating != nil {
		bc.ConditionRating = *req.ConditionRating
	}
}

func (req UpdateCopyRequest) apply(bc *model.BookCopy) {
	if req.Book != nil {
		bc.BookID = *req.Book
	}
	if req.CopyID != nil {
		bc.CopyID = *req.CopyID
	}
	if req.AcquisitionDate != nil && !req.AcquisitionDate.IsZero() {
		bc.AcquisitionDate = req.AcquisitionDate.Time
	}
	if req.Status != nil {
		bc.Status = *req.Status
	}
	if req.ConditionRating != nil {
		bc.ConditionRating = *req.ConditionRating
	}
}
