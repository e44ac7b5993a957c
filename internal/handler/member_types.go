package handler

import (
	"github.com/google/uuid"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/model"
)

type CreateMemberRequest struct {
	Username       string      `json:"username" binding:"required,max=150" example:"reader"`
	Email          string      `json:"email" binding:"required,email,max=254" example:"reader@example.com"`
	Password       string      `json:"password" binding:"required,min=8,max=128"`
	FirstName      string      `json:"first_name" binding:"omitempty,max=150"`
	LastName       string      `json:"last_name" binding:"omitempty,max=150"`
	MembershipType string      `json:"membership_type" binding:"omitempty,oneof=standard premium student" example:"standard"`
	JoinDate       *model.Date `json:"join_date" binding:"omitempty,not_future" swaggertype:"string" example:"2024-01-15"`
	Phone          string      `json:"phone" binding:"omitempty,max=15" example:"+15550100"`
	IsStaff        *bool       `json:"is_staff"`
}

type UpdateMemberRequest struct {
	Username       *string     `json:"username" binding:"omitempty,min=1,max=150" example:"reader"`
	Email          *string     `json:"email" binding:"omitempty,email,max=254" example:"reader@example.com"`
	Password       *string     `json:"password" binding:"omitempty,min=8,max=128"`
	FirstName      *string     `json:"first_name" binding:"omitempty,max=150"`
	LastName       *string     `json:"last_name" binding:"omitempty,max=150"`
	MembershipType *string     `json:"membership_type" binding:"omitempty,oneof=standard premium student" example:"premium"`
	JoinDate       *model.Date `json:"join_date" binding:"omitempty,not_future" swaggertype:"string" example:"2024-01-15"`
	Phone          *string     `json:"phone" binding:"omitempty,max=15" example:"+15550100"`
	IsStaff        *bool       `json:"is_staff"`
}

// Member never carries the password, hashed or not.
type Member struct {
	ID             uuid.UUID  `json:"id"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	MembershipType string     `json:"membership_type"`
	JoinDate       model.Date `json:"join_date" swaggertype:"string" example:"2024-01-15"`
	Phone          string     `json:"phone"`
	IsStaff        bool       `json:"is_staff"`
	ActiveLoans    int        `json:"active_loans"`
	CreatedAt      model.Date `json:"created_at" swaggertype:"string" example:"2025-11-24"`
	UpdatedAt      model.Date `json:"updated_at" swaggertype:"string" example:"2025-11-24"`
}

type MemberResponse struct {
	Data Member `json:"data"`
}

type ListMembersResponse struct {
	Data []Member `json:"data"`
}

func toMember(m model.Member) Member {
	return Member{
		ID:             m.ID,
		Username:       m.Username,
		Email:          m.Email,
		FirstName:      m.FirstName,
		LastName:       m.LastName,
		MembershipType: m.MembershipType,
		JoinDate:       model.NewDate(m.JoinDate),
		Phone:          m.Phone,
		IsStaff:        m.IsStaff,
		ActiveLoans:    m.ActiveLoans,
		CreatedAt:      model.Date{Time: m.CreatedAt},
		UpdatedAt:      model.Date{Time: m.UpdatedAt},
	}
}

func (req CreateMemberRequest) apply(m *model.Member) {
	m.Username = req.Username
	m.Email = req.Email
	m.FirstName = req.FirstName
	m.LastName = req.LastName
	m.MembershipType = model.MembershipStandard
	if req.MembershipType != "" {
		m.MembershipType = req.MembershipType
	}
	m.JoinDate = model.Today()
	if req.JoinDate != nil && !req.JoinDate.IsZero() {
		m.JoinDate = req.JoinDate.Time
	}
	m.Phone = req.Phone
	if req.IsStaff != nil {
		m.IsStaff = *req.IsStaff
	}
}

func (req CreateMemberRequest) newPassword() *string { return &req.Password }

func (req CreateMemberRequest) staff() *bool { return req.IsStaff }

func (req UpdateMemberRequest) apply(m *model.Member) {
	if req.Username != nil {
		m.Username = *req.Username
	}
	if req.Email != nil {
		m.Email = *req.Email
	}
	if req.FirstName != nil {
		m.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		m.LastName = *req.LastName
	}
	if req.MembershipType != nil {
		m.MembershipType = *req.MembershipType
	}
	if req.JoinDate != nil && !req.JoinDate.IsZero() {
		m.JoinDate = req.JoinDate.Time
	}
	if req.Phone != nil {
		m.Phone = *req.Phone
	}
	if req.IsStaff != nil {
		m.IsStaff = *req.IsStaff
	}
}

func (req UpdateMemberRequest) newPassword() *string { return req.Password }

func (req UpdateMemberRequest) staff() *bool { return req.IsStaff }
