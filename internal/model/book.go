package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DefaultLanguage = "English"

type Book struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Title           string     `gorm:"size:200;not null;index"`
	Authors         []Author   `gorm:"many2many:book_authors;constraint:OnDelete:CASCADE"`
	GenreID         *uuid.UUID `gorm:"type:uuid;index"`
	PublisherID     *uuid.UUID `gorm:"type:uuid;index"`
	PublicationDate time.Time  `gorm:"type:date;not null"`
	ISBN            string     `gorm:"column:isbn;size:13;not null;uniqueIndex:idx_books_isbn"`
	Pages           int        `gorm:"not null"`
	Language        string     `gorm:"size:50;not null"`
	Copies          []BookCopy `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (b *Book) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.Language == "" {
		b.Language = DefaultLanguage
	}
	return
}

func (b Book) AuthorIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(b.Authors))
	for _, a := range b.Authors {
		ids = append(ids, a.ID)
	}
	return ids
}
