package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/copystatus"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/model"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/policy"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/repository"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/validation"
)

type CopyHandler struct {
	repo repository.CopyRepository
}

func NewCopyHandler(repo repository.CopyRepository) *CopyHandler {
	return &CopyHandler{repo: repo}
}

func (h *CopyHandler) RegisterRoutes(r *gin.RouterGroup) {
	copies := r.Group("/copies")
	{
		handle(copies, http.MethodGet, "", h.ListCopies)
		handle(copies, http.MethodPost, "", h.CreateCopy)
		handle(copies, http.MethodGet, "/:id", h.GetCopyByID)
		handle(copies, http.MethodPut, "/:id", h.ReplaceCopy)
		handle(copies, http.MethodPatch, "/:id", h.UpdateCopy)
		handle(copies, http.MethodDelete, "/:id", h.DeleteCopy)
	}
}

type copyPatch interface {
	apply(bc *model.BookCopy)
}

// CreateCopy godoc
// @Summary      Create a book copy
// @Description  Register a physical copy of a book. copy_id must be unique within the book. A copy cannot start out on loan. Staff only.
// @Tags         copies
// @Accept       json
// @Produce      json
// @Param        payload  body      CreateCopyRequest          true  "Copy to create"
// @Success      201      {object}  CopyResponse
// @Failure      400      {object}  validation.ErrorResponse   "Validation error"
// @Failure      401      {object}  validation.ErrorResponse   "Not authenticated"
// @Failure      403      {object}  validation.ErrorResponse   "Staff only"
// @Failure      409      {object}  validation.ErrorResponse   "copy_id already used for this book"
// @Failure      500      {object}  validation.ErrorResponse   "Internal server error"
// @Security     BearerAuth
// @Router       /copies/ [post]
func (h *CopyHandler) CreateCopy(c *gin.Context) {
	if !authorize(c, policy.Create, policy.Collection(policy.Copy), "copy") {
		return
	}

	var req CreateCopyRequest
	if !validation.BindAndValidateJSON(c, &req) {
		return
	}

	if req.Status != "" && !copystatus.Initial(req.Status) {
		validation.AbortWithFieldErrors(c, []validation.FieldError{{
			Field:   "status",
			Rule:    "initial",
			Message: "A new copy cannot be on loan",
		}})
		return
	}

	var bc model.BookCopy
	req.apply(&bc)

	if err := h.repo.Create(c.Request.Context(), &bc); err != nil {
		writeStoreError(c, err, "copy", "COPY_CREATE_FAILED")
		return
	}

	c.JSON(http.StatusCreated, CopyResponse{Data: toCopy(bc)})
}

// ListCopies godoc
// @Summary      List book copies
// @Description  List copies ordered by copy_id. Filters are optional and combined. Staff only.
// @Tags         copies
// @Produce      json
// @Param        book           query     string  false  "Book ID (UUID)"
// @Param        status         query     string  false  "Copy status" Enums(available,on_loan,maintenance,lost)
// @Param        min_condition  query     int     false  "Minimum condition rating" minimum(1) maximum(5)
// @Success      200            {object}  ListCopiesResponse
// @Failure      400            {object}  validation.ErrorResponse   "Invalid filter"
// @Failure      401            {object}  validation.ErrorResponse   "Not authenticated"
// @Failure      403            {object}  validation.ErrorResponse   "Staff only"
// @Security     BearerAuth
// @Router       /copies/ [get]
func (h *CopyHandler) ListCopies(c *gin.Context) {
	if !authorize(c, policy.List, policy.Collection(policy.Copy), "copy") {
		return
	}

	bookID, ok := parseUUIDQuery(c, "book")
	if !ok {
		return
	}

	minCondition, ok := parseIntQuery(c, "min_condition")
	if !ok {
		return
	}

	params := repository.CopyListParams{
		BookID:       bookID,
		MinCondition: minCondition,
	}

	if s := c.Query("status"); s != "" {
		status := copystatus.Status(s)
		if !status.Valid() {
			writeError(c, http.StatusBadRequest,
				"INVALID_STATUS",
				"status must be one of: available, on_loan, maintenance, lost",
			)
			return
		}
		params.Status = &status
	}

	copies, err := h.repo.List(c.Request.Context(), params)
	if err != nil {
		writeStoreError(c, err, "copy", "COPY_LIST_FAILED")
		return
	}

	res := make([]Copy, 0, len(copies))
	for _, bc := range copies {
		res = append(res, toCopy(bc))
	}

	c.JSON(http.StatusOK, ListCopiesResponse{Data: res})
}

// GetCopyByID godoc
// @Summary      Get book copy by ID
// @Tags         copies
// @Produce      json
// @Param        id   path      string                    true  "Copy ID (UUID)"
// @Success      200  {object}  CopyResponse
// @Failure      400  {object}  validation.ErrorResponse  "Invalid ID"
// @Failure      404  {object}  validation.ErrorResponse  "Copy not found"
// @Security     BearerAuth
// @Router       /copies/{id}/ [get]
func (h *CopyHandler) GetCopyByID(c *gin.Context) {
	if !authorize(c, policy.Retrieve, policy.Collection(policy.Copy), "copy") {
		return
	}

	id, ok := parseIDParam(c, "copy")
	if !ok {
		return
	}

	bc, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		writeStoreError(c, err, "copy", "COPY_FETCH_FAILED")
		return
	}

	c.JSON(http.StatusOK, CopyResponse{Data: toCopy(*bc)})
}

// ReplaceCopy godoc
// @Summary      Replace a book copy
// @Description  Overwrite a copy. Omitted optional fields keep their values. Staff only.
// @Tags         copies
// @Accept       json
// @Produce      json
// @Param        id       path      string             true  "Copy ID (UUID)"
// @Param        payload  body      CreateCopyRequest  true  "Copy"
// @Success      200      {object}  CopyResponse
// @Failure      400      {object}  validation.ErrorResponse  "Invalid ID, validation error or status transition"
// @Failure      404      {object}  validation.ErrorResponse  "Copy not found"
// @Failure      409      {object}  validation.ErrorResponse  "copy_id taken or status changed concurrently"
// @Security     BearerAuth
// @Router       /copies/{id}/ [put]
func (h *CopyHandler) ReplaceCopy(c *gin.Context) {
	h.update(c, &CreateCopyRequest{})
}

// UpdateCopy godoc
// @Summary      Update a book copy
// @Description  Partially update a copy. Status changes follow the copy lifecycle and on_loan is only set by loans. Staff only.
// @Tags         copies
// @Accept       json
// @Produce      json
// @Param        id       path      string             true  "Copy ID (UUID)"
// @Param        payload  body      UpdateCopyRequest  true  "Copy fields to update"
// @Success      200      {object}  CopyResponse
// @Failure      400      {object}  validation.ErrorResponse  "Invalid ID, validation error or status transition"
// @Failure      404      {object}  validation.ErrorResponse  "Copy not found"
// @Failure      409      {object}  validation.ErrorResponse  "copy_id taken or status changed concurrently"
// @Security     BearerAuth
// @Router       /copies/{id}/ [patch]
func (h *CopyHandler) UpdateCopy(c *gin.Context) {
	h.update(c, &UpdateCopyRequest{})
}

func (h *CopyHandler) update(c *gin.Context, req copyPatch) {
	if !authorize(c, policy.Update, policy.Collection(policy.Copy), "copy") {
		return
	}

	id, ok := parseIDParam(c, "copy")
	if !ok {
		return
	}

	if !validation.BindAndValidateJSON(c, req) {
		return
	}

	ctx := c.Request.Context()

	bc, err := h.repo.FindByID(ctx, id)
	if err != nil {
		writeStoreError(c, err, "copy", "COPY_FETCH_FAILED")
		return
	}

	current := bc.Status
	req.apply(bc)

	if err := copystatus.ManualTransition(current, bc.Status); err != nil {
		writeStoreError(c, err, "copy", "COPY_UPDATE_FAILED")
		return
	}

	if err := h.repo.Update(ctx, bc, current); err != nil {
		writeStoreError(c, err, "copy", "COPY_UPDATE_FAILED")
		return
	}

	updated, err := h.repo.FindByID(ctx, id)
	if err != nil {
		writeStoreError(c, err, "copy", "COPY_FETCH_FAILED")
		return
	}

	c.JSON(http.StatusOK, CopyResponse{Data: toCopy(*updated)})
}

// DeleteCopy godoc
// @Summary      Delete a book copy
// @Description  Delete a copy that has never been loaned. Staff only.
// @Tags         copies
// @Produce      json
// @Param        id   path      string                    true  "Copy ID (UUID)"
// @Success      204  "No Content"
// @Failure      400  {object}  validation.ErrorResponse  "Invalid ID"
// @Failure      404  {object}  validation.ErrorResponse  "Copy not found"
// @Failure      409  {object}  validation.ErrorResponse  "Copy has loan history"
// @Security     BearerAuth
// @Router       /copies/{id}/ [delete]
func (h *CopyHandler) DeleteCopy(c *gin.Context) {
	if !authorize(c, policy.Delete, policy.Collection(policy.Copy), "copy") {
		return
	}

	id, ok := parseIDParam(c, "copy")
	if !ok {
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		writeStoreError(c, err, "copy", "COPY_DELETE_FAILED")
		return
	}

	c.Status(http.StatusNoContent)
}
