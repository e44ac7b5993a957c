package handler

import (
	"github.com/google/uuid"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/model"
)

type CreatePublisherRequest struct {
	Name    string `json:"name" binding:"required,max=200"`
	Address string `json:"address"`
	Website string `json:"website" binding:"omitempty,max=200,http_url" example:"https://example.com"`
}

type UpdatePublisherRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=1,max=200"`
	Address *string `json:"address"`
	Website *string `json:"website" binding:"omitempty,max=200,http_url" example:"https://example.com"`
}

type Publisher struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Address   string     `json:"address"`
	Website   string     `json:"website"`
	CreatedAt model.Date `json:"created_at" swaggertype:"string" example:"2025-11-24"`
	UpdatedAt model.Date `json:"updated_at" swaggertype:"string" example:"2025-11-24"`
}

type PublisherResponse struct {
	Data Publisher `json:"data"`
}

type ListPublishersResponse struct {
	Data []Publisher `json:"data"`
}

func toPublisher(p model.Publisher) Publisher {
	return Publisher{
		ID:        p.ID,
		Name:      p.Name,
		Address:   p.Address,
		Website:   p.Website,
		CreatedAt: model.Date{Time: p.CreatedAt},
		UpdatedAt: model.Date{Time: p.UpdatedAt},
	}
}

func (req CreatePublisherRequest) apply(p *model.Publisher) {
	p.Name = req.Name
	p.Address = req.Address
	p.Website = req.Website
}

func (req UpdatePublisherRequest) apply(p *model.Publisher) {
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Address != nil {
		p.Address = *req.Address
	}
	if req.Website != nil {
		p.Website = *req.Website
	}
}
