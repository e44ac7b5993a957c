package handler

import (
	"github.com/google/uuid"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/model"
)

type CreateGenreRequest struct {
	Name        string `json:"name" binding:"required,max=100,genre_name"`
	Description string `json:"description"`
}

type UpdateGenreRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=100,genre_name"`
	Description *string `json:"description"`
}

type Genre struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	CreatedAt   model.Date `json:"created_at" swaggertype:"string" example:"2025-11-24"`
	UpdatedAt   model.Date `json:"updated_at" swaggertype:"string" example:"2025-11-24"`
}

type GenreResponse struct {
	Data Genre `json:"data"`
}

type ListGenresResponse struct {
	Data []Genre `json:"data"`
}

func toGenre(g model.Genre) Genre {
	return Genre{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		CreatedAt:   model.Date{Time: g.CreatedAt},
		UpdatedAt:   model.Date{Time: g.UpdatedAt},
	}
}

func (req CreateGenreRequest) apply(g *model.Genre) {
	g.Name = req.Name
	g.Description = req.Description
}

func (req UpdateGenreRequest) apply(g *model.Genre) {
	if req.Name != nil {
		g.Name = *req.Name
	}
	if req.Description != nil {
		g.Description = *req.Description
	}
}
