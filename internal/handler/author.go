package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/model"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/policy"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/repository"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/validation"
)

type AuthorHandler struct {
	repo repository.AuthorRepository
}

func NewAuthorHandler(repo repository.AuthorRepository) *AuthorHandler {
	return &AuthorHandler{repo: repo}
}

func (h *AuthorHandler) RegisterRoutes(r *gin.RouterGroup) {
	authors := r.Group("/authors")
	{
		handle(authors, http.MethodGet, "", h.ListAuthors)
		handle(authors, http.MethodPost, "", h.CreateAuthor)
		handle(authors, http.MethodGet, "/:id", h.GetAuthorByID)
		handle(authors, http.MethodPut, "/:id", h.ReplaceAuthor)
		handle(authors, http.MethodPatch, "/:id", h.UpdateAuthor)
		handle(authors, http.MethodDelete, "/:id", h.DeleteAuthor)
	}
}

type authorPatch interface {
	apply(a *model.Author)
}

// CreateAuthor godoc
// @Summary      Create an author
// @Description  Create a new author. Staff only.
// @Tags         authors
// @Accept       json
// @Produce      json
// @Param        payload  body      CreateAuthorRequest        true  "Author to create"
// @Success      201      {object}  AuthorResponse
// @Failure      400      {object}  validation.ErrorResponse   "Validation error"
// @Failure      401      {object}  validation.ErrorResponse   "Not authenticated"
// @Failure      403      {object}  validation.ErrorResponse   "Staff only"
// @Failure      409      {object}  validation.ErrorResponse   "Name already taken"
// @Failure      500      {object}  validation.ErrorResponse   "Internal server error"
// @Security     BearerAuth
// @Router       /authors/ [post]
func (h *AuthorHandler) CreateAuthor(c *gin.Context) {
	if !authorize(c, policy.Create, policy.Collection(policy.Author), "author") {
		return
	}

	var req CreateAuthorRequest
	if !validation.BindAndValidateJSON(c, &req) {
		return
	}

	var author model.Author
	req.apply(&author)

	if err := h.repo.Create(c.Request.Context(), &author); err != nil {
		writeStoreError(c, err, "author", "AUTHOR_CREATE_FAILED")
		return
	}

	c.JSON(http.StatusCreated, AuthorResponse{Data: toAuthor(author)})
}

// ListAuthors godoc
// @Summary      List authors
// @Description  List authors ordered by name, optionally filtered by a name search
// @Tags         authors
// @Produce      json
// @Param        search  query     string  false  "Case-insensitive substring of the name"
// @Success      200     {object}  ListAuthorsResponse
// @Failure      401     {object}  validation.ErrorResponse   "Not authenticated"
// @Failure      500     {object}  validation.ErrorResponse   "Internal server error"
// @Security     BearerAuth
// @Router       /authors/ [get]
func (h *AuthorHandler) ListAuthors(c *gin.Context) {
	if !authorize(c, policy.List, policy.Collection(policy.Author), "author") {
		return
	}

	authors, err := h.repo.List(c.Request.Context(), repository.AuthorListParams{
		Search: c.Query("search"),
	})
	if err != nil {
		writeStoreError(c, err, "author", "AUTHOR_LIST_FAILED")
		return
	}

	res := make([]Author, 0, len(authors))
	for _, a := range authors {
		res = append(res, toAuthor(a))
	}

	c.JSON(http.StatusOK, ListAuthorsResponse{Data: res})
}

// GetAuthorByID godoc
// @Summary      Get author by ID
// @Tags         authors
// @Produce      json
// @Param        id   path      string                    true  "Author ID (UUID)"
// @Success      200  {object}  AuthorResponse
// @Failure      400  {object}  validation.ErrorResponse  "Invalid ID"
// @Failure      404  {object}  validation.ErrorResponse  "Author not found"
// @Security     BearerAuth
// @Router       /authors/{id}/ [get]
func (h *AuthorHandler) GetAuthorByID(c *gin.Context) {
	if !authorize(c, policy.Retrieve, policy.Collection(policy.Author), "author") {
		return
	}

	id, ok := parseIDParam(c, "author")
	if !ok {
		return
	}

	author, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		writeStoreError(c, err, "author", "AUTHOR_FETCH_FAILED")
		return
	}

	c.JSON(http.StatusOK, AuthorResponse{Data: toAuthor(*author)})
}

// ReplaceAuthor godoc
// @Summary      Replace an author
// @Description  Overwrite every field of an author. Staff only.
// @Tags         authors
// @Accept       json
// @Produce      json
// @Param        id       path      string               true  "Author ID (UUID)"
// @Param        payload  body      CreateAuthorRequest  true  "Author"
// @Success      200      {object}  AuthorResponse
// @Failure      400      {object}  validation.ErrorResponse  "Invalid ID or validation error"
// @Failure      404      {object}  validation.ErrorResponse  "Author not found"
// @Failure      409      {object}  validation.ErrorResponse  "Name already taken"
// @Security     BearerAuth
// @Router       /authors/{id}/ [put]
func (h *AuthorHandler) ReplaceAuthor(c *gin.Context) {
	h.update(c, &CreateAuthorRequest{})
}

// UpdateAuthor godoc
// @Summary      Update an author
// @Description  Partially update an author. Staff only.
// @Tags         authors
// @Accept       json
// @Produce      json
// @Param        id       path      string               true  "Author ID (UUID)"
// @Param        payload  body      UpdateAuthorRequest  true  "Author fields to update"
// @Success      200      {object}  AuthorResponse
// @Failure      400      {object}  validation.ErrorResponse  "Invalid ID or validation error"
// @Failure      404      {object}  validation.ErrorResponse  "Author not found"
// @Failure      409      {object}  validation.ErrorResponse  "Name already taken"
// @Security     BearerAuth
// @Router       /authors/{id}/ [patch]
func (h *AuthorHandler) UpdateAuthor(c *gin.Context) {
	h.update(c, &UpdateAuthorRequest{})
}

func (h *AuthorHandler) update(c *gin.Context, req authorPatch) {
	if !authorize(c, policy.Update, policy.Collection(policy.Author), "author") {
		return
	}

	id, ok := parseIDParam(c, "author")
	if !ok {
		return
	}

	if !validation.BindAndValidateJSON(c, req) {
		return
	}

	ctx := c.Request.Context()

	author, err := h.repo.FindByID(ctx, id)
	if err != nil {
		writeStoreError(c, err, "author", "AUTHOR_FETCH_FAILED")
		return
	}

	req.apply(author)

	if err := h.repo.Update(ctx, author); err != nil {
		writeStoreError(c, err, "author", "AUTHOR_UPDATE_FAILED")
		return
	}

	updated, err := h.repo.FindByID(ctx, id)
	if err != nil {
		writeStoreError(c, err, "author", "AUTHOR_FETCH_FAILED")
		return
	}

	c.JSON(http.StatusOK, AuthorResponse{Data: toAuthor(*updated)})
}

// DeleteAuthor godoc
// @Summary      Delete an author
// @Description  Delete an author and unlink it from its books. Staff only.
// @Tags         authors
// @Produce      json
// @Param        id   path      string                    true  "Author ID (UUID)"
// @Success      204  "No Content"
// @Failure      400  {object}  validation.ErrorResponse  "Invalid ID"
// @Failure      404  {object}  validation.ErrorResponse  "Author not found"
// @Security     BearerAuth
// @Router       /authors/{id}/ [delete]
func (h *AuthorHandler) DeleteAuthor(c *gin.Context) {
	if !authorize(c, policy.Delete, policy.Collection(policy.Author), "author") {
		return
	}

	id, ok := parseIDParam(c, "author")
	if !ok {
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		writeStoreError(c, err, "author", "AUTHOR_DELETE_FAILED")
		return
	}

	c.Status(http.StatusNoContent)
}
