package handler

import (
	"github.com/google/uuid"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/model"
)

type CreateBookRequest struct {
	Title           string      `json:"title" binding:"required,max=200"`
	Authors         []uuid.UUID `json:"authors" binding:"required,min=1"`
	Genre           *uuid.UUID  `json:"genre"`
	Publisher       *uuid.UUID  `json:"publisher"`
	PublicationDate model.Date  `json:"publication_date" binding:"required,not_future" swaggertype:"string" example:"1951-06-01"`
	ISBN            string      `json:"isbn" binding:"required,isbn_digits" example:"9780553293357"`
	Pages           int         `json:"pages" binding:"min=1"`
	Language        string      `json:"language" binding:"omitempty,max=50" example:"English"`
}

type UpdateBookRequest struct {
	Title           *string      `json:"title" binding:"omitempty,min=1,max=200"`
	Authors         *[]uuid.UUID `json:"authors" binding:"omitempty,min=1"`
	Genre           NullableID   `json:"genre" swaggertype:"string"`
	Publisher       NullableID   `json:"publisher" swaggertype:"string"`
	PublicationDate *model.Date  `json:"publication_date" binding:"omitempty,not_future" swaggertype:"string" example:"1951-06-01"`
	ISBN            *string      `json:"isbn" binding:"omitempty,isbn_digits" example:"9780553293357"`
	Pages           *int         `json:"pages" binding:"omitempty,min=1"`
	Language        *string      `json:"language" binding:"omitempty,min=1,max=50" example:"English"`
}

type Book struct {
	ID              uuid.UUID   `json:"id"`
	Title           string      `json:"title"`
	Authors         []uuid.UUID `json:"authors"`
	Genre           *uuid.UUID  `json:"genre"`
	Publisher       *uuid.UUID  `json:"publisher"`
	PublicationDate model.Date  `json:"publication_date" swaggertype:"string" example:"1951-06-01"`
	ISBN            string      `json:"isbn"`
	Pages           int         `json:"pages"`
	Language        string      `json:"language"`
	CreatedAt       model.Date  `json:"created_at" swaggertype:"string" example:"2025-11-24"`
	UpdatedAt       model.Date  `json:"updated_at" swaggertype:"string" example:"2025-11-24"`
}

type BookResponse struct {
	Data Book `json:"data"`
}

type ListBooksResponse struct {
	Data []Book `json:"data"`
}

func toBook(b model.Book) Book {
	return Book{
		ID:              b.ID,
		Title:           b.Title,
		Authors:         b.AuthorIDs(),
		Genre:           b.GenreID,
		Publisher:       b.PublisherID,
		PublicationDate: model.NewDate(b.PublicationDate),
		ISBN:            b.ISBN,
		Pages:           b.Pages,
		Language:        b.Language,
		CreatedAt:       model.Date{Time: b.CreatedAt},
		UpdatedAt:       model.Date{Time: b.UpdatedAt},
	}
}

// authorRefs turns ids into the placeholder authors the repository resolves.
func authorRefs(ids []uuid.UUID) []model.Author {
	authors := make([]model.Author, 0, len(ids))
	for _, id := range ids {
		authors = append(authors, model.Author{ID: id})
	}
	return authors
}

func (req CreateBookRequest) apply(b *model.Book) {
	b.Title = req.Title
	b.Authors = authorRefs(req.Authors)
	b.GenreID = req.Genre
	b.PublisherID = req.Publisher
	b.PublicationDate = req.PublicationDate.Time
	b.ISBN = req.ISBN
	b.Pages = req.Pages
	b.Language = req.Language
	if b.Language == "" {
		b.Language = model.DefaultLanguage
	}
}

func (req UpdateBookRequest) apply(b *model.Book) {
	if req.Title != nil {
		b.Title = *req.Title
	}
	if req.Authors != nil {
		b.Authors = authorRefs(*req.Authors)
	}
	if req.Genre.Set {
		b.GenreID = req.Genre.ID
	}
	if req.Publisher.Set {
		b.PublisherID = req.Publisher.ID
	}
	if req.PublicationDate != nil {
		b.PublicationDate = req.PublicationDate.Time
	}
	if req.ISBN != nil {
		b.ISBN = *req.ISBN
	}
	if req.Pages != nil {
		b.Pages = *req.Pages
	}
	if req.Language != nil {
		b.Language = *req.Language
	}
}
