package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/auth"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/model"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/policy"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/repository"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/validation"
)

type MemberHandler struct {
	repo     repository.MemberRepository
	sessions auth.SessionStore
}

// NewMemberHandler builds a MemberHandler. sessions may be nil when cookie
// sessions are disabled.
func NewMemberHandler(repo repository.MemberRepository, sessions auth.SessionStore) *MemberHandler {
	return &MemberHandler{repo: repo, sessions: sessions}
}

func (h *MemberHandler) RegisterRoutes(r *gin.RouterGroup) {
	members := r.Group("/members")
	{
		handle(members, http.MethodGet, "", h.ListMembers)
		handle(members, http.MethodPost, "", h.CreateMember)
		handle(members, http.MethodGet, "/me", h.GetMe)
		handle(members, http.MethodGet, "/:id", h.GetMemberByID)
		handle(members, http.MethodPut, "/:id", h.ReplaceMember)
		handle(members, http.MethodPatch, "/:id", h.UpdateMember)
		handle(members, http.MethodDelete, "/:id", h.DeleteMember)
	}
}

type memberPatch interface {
	apply(m *model.Member)
	newPassword() *string
	staff() *bool
}

// CreateMember godoc
// @Summary      Create a member
// @Description  Register a member. The password is stored hashed and never returned. Staff only.
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        payload  body      CreateMemberRequest        true  "Member to create"
// @Success      201      {object}  MemberResponse
// @Failure      400      {object}  validation.ErrorResponse   "Validation error"
// @Failure      401      {object}  validation.ErrorResponse   "Not authenticated"
// @Failure      403      {object}  validation.ErrorResponse   "Staff only"
// @Failure      409      {object}  validation.ErrorResponse   "Email or username taken"
// @Security     BearerAuth
// @Router       /members/ [post]
func (h *MemberHandler) CreateMember(c *gin.Context) {
	if !authorize(c, policy.Create, policy.Collection(policy.Member), "member") {
		return
	}

	var req CreateMemberRequest
	if !validation.BindAndValidateJSON(c, &req) {
		return
	}

	var member model.Member
	req.apply(&member)

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeStoreError(c, err, "member", "MEMBER_CREATE_FAILED")
		return
	}
	member.PasswordHash = hash

	if err := h.repo.Create(c.Request.Context(), &member); err != nil {
		writeStoreError(c, err, "member", "MEMBER_CREATE_FAILED")
		return
	}

	c.JSON(http.StatusCreated, MemberResponse{Data: toMember(member)})
}

// ListMembers godoc
// @Summary      List members
// @Description  Staff see every member; other callers see only themselves.
// @Tags         members
// @Produce      json
// @Success      200  {object}  ListMembersResponse
// @Failure      401  {object}  validation.ErrorResponse   "Not authenticated"
// @Security     BearerAuth
// @Router       /members/ [get]
func (h *MemberHandler) ListMembers(c *gin.Context) {
	if !authorize(c, policy.List, policy.Collection(policy.Member), "member") {
		return
	}

	var params repository.MemberListParams
	if id, scoped := policy.ScopeFor(policy.Member, auth.CallerFrom(c)); scoped {
		params.OnlyID = &id
	}

	members, err := h.repo.List(c.Request.Context(), params)
	if err != nil {
		writeStoreError(c, err, "member", "MEMBER_LIST_FAILED")
		return
	}

	res := make([]Member, 0, len(members))
	for _, m := range members {
		res = append(res, toMember(m))
	}

	c.JSON(http.StatusOK, ListMembersResponse{Data: res})
}

// GetMe godoc
// @Summary      Get the calling member
// @Description  Return the member record of the authenticated caller.
// @Tags         members
// @Produce      json
// @Success      200  {object}  MemberResponse
// @Failure      401  {object}  validation.ErrorResponse   "Not authenticated"
// @Security     BearerAuth
// @Router       /members/me/ [get]
func (h *MemberHandler) GetMe(c *gin.Context) {
	if !authorize(c, policy.Me, policy.Collection(policy.Member), "member") {
		return
	}

	caller := auth.CallerFrom(c)
	member, err := h.repo.FindByID(c.Request.Context(), caller.ID)
	if err != nil {
		writeStoreError(c, err, "member", "MEMBER_FETCH_FAILED")
		return
	}

	c.JSON(http.StatusOK, MemberResponse{Data: toMember(*member)})
}

// GetMemberByID godoc
// @Summary      Get member by ID
// @Description  Non-staff callers can only read their own record.
// @Tags         members
// @Produce      json
// @Param        id   path      string                    true  "Member ID (UUID)"
// @Success      200  {object}  MemberResponse
// @Failure      400  {object}  validation.ErrorResponse  "Invalid ID"
// @Failure      404  {object}  validation.ErrorResponse  "Member not found"
// @Security     BearerAuth
// @Router       /members/{id}/ [get]
func (h *MemberHandler) GetMemberByID(c *gin.Context) {
	id, ok := parseIDParam(c, "member")
	if !ok {
		return
	}

	if !authorize(c, policy.Retrieve, policy.Owned(policy.Member, id), "member") {
		return
	}

	member, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		writeStoreError(c, err, "member", "MEMBER_FETCH_FAILED")
		return
	}

	c.JSON(http.StatusOK, MemberResponse{Data: toMember(*member)})
}

// ReplaceMember godoc
// @Summary      Replace a member
// @Description  Overwrite a member record. Non-staff callers can only replace their own and cannot change is_staff.
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        id       path      string               true  "Member ID (UUID)"
// @Param        payload  body      CreateMemberRequest  true  "Member"
// @Success      200      {object}  MemberResponse
// @Failure      400      {object}  validation.ErrorResponse  "Invalid ID or validation error"
// @Failure      403      {object}  validation.ErrorResponse  "is_staff change by non-staff"
// @Failure      404      {object}  validation.ErrorResponse  "Member not found"
// @Failure      409      {object}  validation.ErrorResponse  "Email or username taken"
// @Security     BearerAuth
// @Router       /members/{id}/ [put]
func (h *MemberHandler) ReplaceMember(c *gin.Context) {
	h.update(c, &CreateMemberRequest{})
}

// UpdateMember godoc
// @Summary      Update a member
// @Description  Partially update a member. Non-staff callers can only update their own record and cannot change is_staff.
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        id       path      string               true  "Member ID (UUID)"
// @Param        payload  body      UpdateMemberRequest  true  "Member fields to update"
// @Success      200      {object}  MemberResponse
// @Failure      400      {object}  validation.ErrorResponse  "Invalid ID or validation error"
// @Failure      403      {object}  validation.ErrorResponse  "is_staff change by non-staff"
// @Failure      404      {object}  validation.ErrorResponse  "Member not found"
// @Failure      409      {object}  validation.ErrorResponse  "Email or username taken"
// @Security     BearerAuth
// @Router       /members/{id}/ [patch]
func (h *MemberHandler) UpdateMember(c *gin.Context) {
	h.update(c, &UpdateMemberRequest{})
}

func (h *MemberHandler) update(c *gin.Context, req memberPatch) {
	id, ok := parseIDParam(c, "member")
	if !ok {
		return
	}

	if !authorize(c, policy.Update, policy.Owned(policy.Member, id), "member") {
		return
	}

	if !validation.BindAndValidateJSON(c, req) {
		return
	}

	ctx := c.Request.Context()

	member, err := h.repo.FindByID(ctx, id)
	if err != nil {
		writeStoreError(c, err, "member", "MEMBER_FETCH_FAILED")
		return
	}

	caller := auth.CallerFrom(c)
	if flag := req.staff(); flag != nil && *flag != member.IsStaff && !caller.Staff {
		writeError(c, http.StatusForbidden,
			"PERMISSION_DENIED",
			"only staff can change is_staff",
		)
		return
	}

	req.apply(member)

	if pw := req.newPassword(); pw != nil {
		hash, err := auth.HashPassword(*pw)
		if err != nil {
			writeStoreError(c, err, "member", "MEMBER_UPDATE_FAILED")
			return
		}
		member.PasswordHash = hash
	}

	if err := h.repo.Update(ctx, member); err != nil {
		writeStoreError(c, err, "member", "MEMBER_UPDATE_FAILED")
		return
	}

	updated, err := h.repo.FindByID(ctx, id)
	if err != nil {
		writeStoreError(c, err, "member", "MEMBER_FETCH_FAILED")
		return
	}

	c.JSON(http.StatusOK, MemberResponse{Data: toMember(*updated)})
}

// DeleteMember godoc
// @Summary      Delete a member
// @Description  Delete a member without loan history and end their sessions.
// @Tags         members
// @Produce      json
// @Param        id   path      string                    true  "Member ID (UUID)"
// @Success      204  "No Content"
// @Failure      400  {object}  validation.ErrorResponse  "Invalid ID"
// @Failure      404  {object}  validation.ErrorResponse  "Member not found"
// @Failure      409  {object}  validation.ErrorResponse  "Member has loans"
// @Security     BearerAuth
// @Router       /members/{id}/ [delete]
func (h *MemberHandler) DeleteMember(c *gin.Context) {
	id, ok := parseIDParam(c, "member")
	if !ok {
		return
	}

	if !authorize(c, policy.Delete, policy.Owned(policy.Member, id), "member") {
		return
	}

	ctx := c.Request.Context()

	if err := h.repo.Delete(ctx, id); err != nil {
		writeStoreError(c, err, "member", "MEMBER_DELETE_FAILED")
		return
	}

	if h.sessions != nil {
		if err := h.sessions.RevokeAllForMember(ctx, id); err != nil {
			log.Printf("revoke sessions for member %s: %v", id, err)
		}
	}

	c.Status(http.StatusNoContent)
}
