package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxActiveLoans caps the loans a member may hold without a return date.
const MaxActiveLoans = 5

type Loan struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	BookCopyID uuid.UUID  `gorm:"type:uuid;not null;index"`
	MemberID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	LoanDate   time.Time  `gorm:"type:date;not null"`
	DueDate    time.Time  `gorm:"type:date;not null"`
	ReturnDate *time.Time `gorm:"type:date;index"`
	FineAmount float64    `gorm:"type:numeric(6,2);not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (l *Loan) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.LoanDate.IsZero() {
		l.LoanDate = Today()
	}
	return
}

// Active reports whether the loan is still out.
func (l Loan) Active() bool {
	return l.ReturnDate == nil
}
