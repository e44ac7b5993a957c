package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/auth"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/model"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/policy"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/repository"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/validation"
)

type LoanHandler struct {
	repo repository.LoanRepository
}

func NewLoanHandler(repo repository.LoanRepository) *LoanHandler {
	return &LoanHandler{repo: repo}
}

func (h *LoanHandler) RegisterRoutes(r *gin.RouterGroup) {
	loans := r.Group("/loans")
	{
		handle(loans, http.MethodGet, "", h.ListLoans)
		handle(loans, http.MethodPost, "", h.CreateLoan)
		handle(loans, http.MethodGet, "/:id", h.GetLoanByID)
		handle(loans, http.MethodPut, "/:id", h.ReplaceLoan)
		handle(loans, http.MethodPatch, "/:id", h.UpdateLoan)
		handle(loans, http.MethodDelete, "/:id", h.DeleteLoan)
	}
}

type loanPatch interface {
	apply(l *model.Loan)
}

// CreateLoan godoc
// @Summary      Create a loan
// @Description  Lend a copy to a member. The copy must be available and the member must hold fewer than 5 active loans. Staff only.
// @Tags         loans
// @Accept       json
// @Produce      json
// @Param        payload  body      CreateLoanRequest          true  "Loan to create"
// @Success      201      {object}  LoanResponse
// @Failure      400      {object}  validation.ErrorResponse   "Validation error"
// @Failure      401      {object}  validation.ErrorResponse   "Not authenticated"
// @Failure      403      {object}  validation.ErrorResponse   "Staff only"
// @Failure      409      {object}  validation.ErrorResponse   "Copy unavailable or loan limit reached"
// @Security     BearerAuth
// @Router       /loans/ [post]
func (h *LoanHandler) CreateLoan(c *gin.Context) {
	if !authorize(c, policy.Create, policy.Collection(policy.Loan), "loan") {
		return
	}

	var req CreateLoanRequest
	if !validation.BindAndValidateJSON(c, &req) {
		return
	}

	var loan model.Loan
	req.apply(&loan)

	if errs := validation.LoanDates(loan); len(errs) > 0 {
		validation.AbortWithFieldErrors(c, errs)
		return
	}

	if err := h.repo.Create(c.Request.Context(), &loan); err != nil {
		writeStoreError(c, err, "loan", "LOAN_CREATE_FAILED")
		return
	}

	c.JSON(http.StatusCreated, LoanResponse{Data: toLoan(loan)})
}

// ListLoans godoc
// @Summary      List loans
// @Description  Staff see every loan; other callers see only their own.
// @Tags         loans
// @Produce      json
// @Success      200  {object}  ListLoansResponse
// @Failure      401  {object}  validation.ErrorResponse   "Not authenticated"
// @Security     BearerAuth
// @Router       /loans/ [get]
func (h *LoanHandler) ListLoans(c *gin.Context) {
	if !authorize(c, policy.List, policy.Collection(policy.Loan), "loan") {
		return
	}

	var params repository.LoanListParams
	if id, scoped := policy.ScopeFor(policy.Loan, auth.CallerFrom(c)); scoped {
		params.MemberID = &id
	}

	loans, err := h.repo.List(c.Request.Context(), params)
	if err != nil {
		writeStoreError(c, err, "loan", "LOAN_LIST_FAILED")
		return
	}

	res := make([]Loan, 0, len(loans))
	for _, l := range loans {
		res = append(res, toLoan(l))
	}

	c.JSON(http.StatusOK, ListLoansResponse{Data: res})
}

// GetLoanByID godoc
// @Summary      Get loan by ID
// @Description  Non-staff callers can only read their own loans.
// @Tags         loans
// @Produce      json
// @Param        id   path      string                    true  "Loan ID (UUID)"
// @Success      200  {object}  LoanResponse
// @Failure      400  {object}  validation.ErrorResponse  "Invalid ID"
// @Failure      404  {object}  validation.ErrorResponse  "Loan not found"
// @Security     BearerAuth
// @Router       /loans/{id}/ [get]
func (h *LoanHandler) GetLoanByID(c *gin.Context) {
	if !authorize(c, policy.Retrieve, policy.Collection(policy.Loan), "loan") {
		return
	}

	id, ok := parseIDParam(c, "loan")
	if !ok {
		return
	}

	loan, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		writeStoreError(c, err, "loan", "LOAN_FETCH_FAILED")
		return
	}

	if !authorize(c, policy.Retrieve, policy.Owned(policy.Loan, loan.MemberID), "loan") {
		return
	}

	c.JSON(http.StatusOK, LoanResponse{Data: toLoan(*loan)})
}

// ReplaceLoan godoc
// @Summary      Replace a loan
// @Description  Overwrite a loan. Setting return_date returns the copy. Staff only.
// @Tags         loans
// @Accept       json
// @Produce      json
// @Param        id       path      string             true  "Loan ID (UUID)"
// @Param        payload  body      CreateLoanRequest  true  "Loan"
// @Success      200      {object}  LoanResponse
// @Failure      400      {object}  validation.ErrorResponse  "Invalid ID or validation error"
// @Failure      404      {object}  validation.ErrorResponse  "Loan not found"
// @Failure      409      {object}  validation.ErrorResponse  "Copy unavailable or loan limit reached"
// @Security     BearerAuth
// @Router       /loans/{id}/ [put]
func (h *LoanHandler) ReplaceLoan(c *gin.Context) {
	h.update(c, &CreateLoanRequest{})
}

// UpdateLoan godoc
// @Summary      Update a loan
// @Description  Partially update a loan. Setting return_date returns the copy; clearing it lends the copy out again. Staff only.
// @Tags         loans
// @Accept       json
// @Produce      json
// @Param        id       path      string             true  "Loan ID (UUID)"
// @Param        payload  body      UpdateLoanRequest  true  "Loan fields to update"
// @Success      200      {object}  LoanResponse
// @Failure      400      {object}  validation.ErrorResponse  "Invalid ID or validation error"
// @Failure      404      {object}  validation.ErrorResponse  "Loan not found"
// @Failure      409      {object}  validation.ErrorResponse  "Copy unavailable or loan limit reached"
// @Security     BearerAuth
// @Router       /loans/{id}/ [patch]
func (h *LoanHandler) UpdateLoan(c *gin.Context) {
	h.update(c, &UpdateLoanRequest{})
}

func (h *LoanHandler) update(c *gin.Context, req loanPatch) {
	if !authorize(c, policy.Update, policy.Collection(policy.Loan), "loan") {
		return
	}

	id, ok := parseIDParam(c, "loan")
	if !ok {
		return
	}

	if !validation.BindAndValidateJSON(c, req) {
		return
	}

	ctx := c.Request.Context()

	loan, err := h.repo.FindByID(ctx, id)
	if err != nil {
		writeStoreError(c, err, "loan", "LOAN_FETCH_FAILED")
		return
	}

	req.apply(loan)

	if errs := validation.LoanDates(*loan); len(errs) > 0 {
		validation.AbortWithFieldErrors(c, errs)
		return
	}

	if err := h.repo.Update(ctx, loan); err != nil {
		writeStoreError(c, err, "loan", "LOAN_UPDATE_FAILED")
		return
	}

	updated, err := h.repo.FindByID(ctx, id)
	if err != nil {
		writeStoreError(c, err, "loan", "LOAN_FETCH_FAILED")
		return
	}

	c.JSON(http.StatusOK, LoanResponse{Data: toLoan(*updated)})
}

// DeleteLoan godoc
// @Summary      Delete a loan
// @Description  Delete a loan. An active loan gives its copy back first. Staff only.
// @Tags         loans
// @Produce      json
// @Param        id   path      string                    true  "Loan ID (UUID)"
// @Success      204  "No Content"
// @Failure      400  {object}  validation.ErrorResponse  "Invalid ID"
// @Failure      404  {object}  validation.ErrorResponse  "Loan not found"
// @Security     BearerAuth
// @Router       /loans/{id}/ [delete]
func (h *LoanHandler) DeleteLoan(c *gin.Context) {
	if !authorize(c, policy.Delete, policy.Collection(policy.Loan), "loan") {
		return
	}

	id, ok := parseIDParam(c, "loan")
	if !ok {
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		writeStoreError(c, err, "loan", "LOAN_DELETE_FAILED")
		return
	}

	c.Status(http.StatusNoContent)
}
