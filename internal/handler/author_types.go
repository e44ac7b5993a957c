package handler

import (
	"github.com/google/uuid"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/model"
)

type CreateAuthorRequest struct {
	Name        string      `json:"name" binding:"required,min=2,max=200"`
	BirthDate   *model.Date `json:"birth_date" binding:"omitempty,not_future" swaggertype:"string" example:"1920-01-02"`
	Nationality string      `json:"nationality" binding:"omitempty,max=100"`
}

type UpdateAuthorRequest struct {
	Name        *string     `json:"name" binding:"omitempty,min=2,max=200"`
	BirthDate   *model.Date `json:"birth_date" binding:"omitempty,not_future" swaggertype:"string" example:"1920-01-02"`
	Nationality *string     `json:"nationality" binding:"omitempty,max=100"`
}

type Author struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	BirthDate   *model.Date `json:"birth_date" swaggertype:"string" example:"1920-01-02"`
	Nationality string      `json:"nationality"`
	CreatedAt   model.Date  `json:"created_at" swaggertype:"string" example:"2025-11-24"`
	UpdatedAt   model.Date  `json:"updated_at" swaggertype:"string" example:"2025-11-24"`
}

type AuthorResponse struct {
	Data Author `json:"data"`
}

type ListAuthorsResponse struct {
	Data []Author `json:"data"`
}

func toAuthor(a model.Author) Author {
	return Author{
		ID:          a.ID,
		Name:        a.Name,
		BirthDate:   model.DatePtr(a.BirthDate),
		Nationality: a.Nationality,
		CreatedAt:   model.Date{Time: a.CreatedAt},
		UpdatedAt:   model.Date{Time: a.UpdatedAt},
	}
}

func (req CreateAuthorRequest) apply(a *model.Author) {
	a.Name = req.Name
	a.BirthDate = dateValue(req.BirthDate)
	a.Nationality = req.Nationality
}

func (req UpdateAuthorRequest) apply(a *model.Author) {
	if req.Name != nil {
		a.Name = *req.Name
	}
	if req.BirthDate != nil {
		a.BirthDate = dateValue(req.BirthDate)
	}
	if req.Nationality != nil {
		a.Nationality = *req.Nationality
	}
}
