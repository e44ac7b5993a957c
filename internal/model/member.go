package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MembershipStandard = "standard"
	MembershipPremium  = "premium"
	MembershipStudent  = "student"
)

// Member is a library patron and also the authenticated principal.
// ActiveLoans mirrors the number of loans without a return date and is only
// changed by the loan repository.
type Member struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username       string    `gorm:"size:150;not null;uniqueIndex:idx_members_username"`
	Email          string    `gorm:"size:254;not null;uniqueIndex:idx_members_email"`
	PasswordHash   string    `gorm:"size:100;not null"`
	FirstName      string    `gorm:"size:150"`
	LastName       string    `gorm:"size:150"`
	MembershipType string    `gorm:"size:20;not null"`
	JoinDate       time.Time `gorm:"type:date;not null"`
	Phone          string    `gorm:"size:15"`
	IsStaff        bool      `gorm:"not null"`
	ActiveLoans    int       `gorm:"not null"`
	Loans          []Loan    `gorm:"constraint:OnDelete:RESTRICT"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (m *Member) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.MembershipType == "" {
		m.MembershipType = MembershipStandard
	}
	if m.JoinDate.IsZero() {
		m.JoinDate = Today()
	}
	return
}
