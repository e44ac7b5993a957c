package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/model"
	"gorm.io/gorm"
)

type MemberListParams struct {
	// OnlyID restricts the listing to a single member.
	OnlyID *uuid.UUID
}

type MemberRepository interface {
	Create(ctx context.Context, member *model.Member) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Member, error)
	FindByLogin(ctx context.Context, login string) (*model.Member, error)
	List(ctx context.Context, params MemberListParams) ([]model.Member, error)
	Update(ctx context.Context, member *model.Member) error
	Delete(ctx context.Context, id uuid.UUID) error
}

var memberUnique = []uniqueRule{
	{
		index:   "idx_members_email",
		columns: "members.email",
		field:   "email",
		message: "This email is already registered",
	},
	{
		index:   "idx_members_username",
		columns: "members.username",
		field:   "username",
		message: "A member with that username already exists",
	},
}

type GormMemberRepository struct {
	db *gorm.DB
}

func NewGormMemberRepository(db *gorm.DB) *GormMemberRepository {
	return &GormMemberRepository{db: db}
}

func (r *GormMemberRepository) Create(ctx context.Context, member *model.Member) error {
	member.Email = normalizeEmail(member.Email)
	return classify(r.db.WithContext(ctx).Omit("Loans").Create(member).Error, memberUnique...)
}

func (r *GormMemberRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Member, error) {
	var member model.Member
	if err := r.db.WithContext(ctx).First(&member, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// FindByLogin accepts a username or an email address.
func (r *GormMemberRepository) FindByLogin(ctx context.Context, login string) (*model.Member, error) {
	var member model.Member
	if err := r.db.WithContext(ctx).
		Where("username = ? OR email = ?", login, normalizeEmail(login)).
		First(&member).Error; err != nil {

		return nil, err
	}
	return &member, nil
}

func (r *GormMemberRepository) List(ctx context.Context, params MemberListParams) ([]model.Member, error) {
	q := r.db.WithContext(ctx).Model(&model.Member{})
	if params.OnlyID != nil {
		q = q.Where("id = ?", *params.OnlyID)
	}

	var members []model.Member
	if err := q.Order("username ASC").Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// Update leaves active_loans alone; only the loan repository moves it.
func (r *GormMemberRepository) Update(ctx context.Context, member *model.Member) error {
	member.Email = normalizeEmail(member.Email)

	result := r.db.WithContext(ctx).
		Model(&model.Member{}).
		Where("id = ?", member.ID).
		Updates(map[string]any{
			"username":        member.Username,
			"email":           member.Email,
			"password_hash":   member.PasswordHash,
			"first_name":      member.FirstName,
			"last_name":       member.LastName,
			"membership_type": member.MembershipType,
			"join_date":       member.JoinDate,
			"phone":           member.Phone,
			"is_staff":        member.IsStaff,
		})
	if result.Error != nil {
		return classify(result.Error, memberUnique...)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormMemberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var loans int64
		if err := tx.Model(&model.Loan{}).Where("member_id = ?", id).Count(&loans).Error; err != nil {
			return err
		}
		if loans > 0 {
			return ErrProtected
		}
		return deleteByID(tx, &model.Member{}, id)
	})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
