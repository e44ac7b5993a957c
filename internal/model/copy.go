package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/copystatus"
	"gorm.io/gorm"
)

const DefaultConditionRating = 5

// BookCopy is one physical item of a Book. CopyID is unique within its book only.
type BookCopy struct {
	ID              uuid.UUID         `gorm:"type:uuid;primaryKey"`
	BookID          uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_book_copies_book_copy,priority:1"`
	CopyID          string            `gorm:"size:20;not null;uniqueIndex:idx_book_copies_book_copy,priority:2"`
	AcquisitionDate time.Time         `gorm:"type:date;not null"`
	Status          copystatus.Status `gorm:"size:20;not null;index"`
	ConditionRating int               `gorm:"not null"`
	Loans           []Loan            `gorm:"constraint:OnDelete:RESTRICT"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (BookCopy) TableName() string { return "book_copies" }

func (bc *BookCopy) BeforeCreate(tx *gorm.DB) (err error) {
	if bc.ID == uuid.Nil {
		bc.ID = uuid.New()
	}
	if bc.Status == "" {
		bc.Status = copystatus.Available
	}
	if bc.ConditionRating == 0 {
		bc.ConditionRating = DefaultConditionRating
	}
	if bc.AcquisitionDate.IsZero() {
		bc.AcquisitionDate = Today()
	}
	return
}
