package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/model"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/policy"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/repository"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/validation"
)

type BookHandler struct {
	repo repository.BookRepository
}

func NewBookHandler(repo repository.BookRepository) *BookHandler {
	return &BookHandler{repo: repo}
}

func (h *BookHandler) RegisterRoutes(r *gin.RouterGroup) {
	books := r.Group("/books")
	{
		handle(books, http.MethodGet, "", h.ListBooks)
		handle(books, http.MethodPost, "", h.CreateBook)
		handle(books, http.MethodGet, "/:id", h.GetBookByID)
		handle(books, http.MethodPut, "/:id", h.ReplaceBook)
		handle(books, http.MethodPatch, "/:id", h.UpdateBook)
		handle(books, http.MethodDelete, "/:id", h.DeleteBook)
	}
}

type bookPatch interface {
	apply(b *model.Book)
}

// CreateBook godoc
// @Summary      Create a book
// @Description  Create a new book linked to one or more authors. Staff only.
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        payload  body      CreateBookRequest        true  "Book to create"
// @Success      201      {object}  BookResponse
// @Failure      400      {object}  validation.ErrorResponse   "Validation error"
// @Failure      401      {object}  validation.ErrorResponse   "Not authenticated"
// @Failure      403      {object}  validation.ErrorResponse   "Staff only"
// @Failure      409      {object}  validation.ErrorResponse   "ISBN already exists"
// @Failure      500      {object}  validation.ErrorResponse   "Internal server error"
// @Security     BearerAuth
// @Router       /books/ [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	if !authorize(c, policy.Create, policy.Collection(policy.Book), "book") {
		return
	}

	var req CreateBookRequest
	if !validation.BindAndValidateJSON(c, &req) {
		return
	}

	var book model.Book
	req.apply(&book)

	if err := h.repo.Create(c.Request.Context(), &book); err != nil {
		writeStoreError(c, err, "book", "BOOK_CREATE_FAILED")
		return
	}

	c.JSON(http.StatusCreated, BookResponse{Data: toBook(book)})
}

// ListBooks godoc
// @Summary      List books
// @Description  List books ordered by title. search matches title, isbn or an author name
// @Tags         books
// @Produce      json
// @Param        search  query     string  false  "Case-insensitive substring of title, isbn or author name"
// @Success      200     {object}  ListBooksResponse
// @Failure      401     {object}  validation.ErrorResponse   "Not authenticated"
// @Failure      500     {object}  validation.ErrorResponse   "Internal server error"
// @Security     BearerAuth
// @Router       /books/ [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	if !authorize(c, policy.List, policy.Collection(policy.Book), "book") {
		return
	}

	books, err := h.repo.List(c.Request.Context(), repository.BookListParams{
		Search: c.Query("search"),
	})
	if err != nil {
		writeStoreError(c, err, "book", "BOOK_LIST_FAILED")
		return
	}

	res := make([]Book, 0, len(books))
	for _, b := range books {
		res = append(res, toBook(b))
	}

	c.JSON(http.StatusOK, ListBooksResponse{Data: res})
}

// GetBookByID godoc
// @Summary      Get book by ID
// @Tags         books
// @Produce      json
// @Param        id   path      string                    true  "Book ID (UUID)"
// @Success      200  {object}  BookResponse
// @Failure      400  {object}  validation.ErrorResponse  "Invalid ID"
// @Failure      404  {object}  validation.ErrorResponse  "Book not found"
// @Security     BearerAuth
// @Router       /books/{id}/ [get]
func (h *BookHandler) GetBookByID(c *gin.Context) {
	if !authorize(c, policy.Retrieve, policy.Collection(policy.Book), "book") {
		return
	}

	id, ok := parseIDParam(c, "book")
	if !ok {
		return
	}

	book, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		writeStoreError(c, err, "book", "BOOK_FETCH_FAILED")
		return
	}

	c.JSON(http.StatusOK, BookResponse{Data: toBook(*book)})
}

// ReplaceBook godoc
// @Summary      Replace a book
// @Description  Overwrite every field of a book. Staff only.
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        id       path      string               true  "Book ID (UUID)"
// @Param        payload  body      CreateBookRequest  true  "Book"
// @Success      200      {object}  BookResponse
// @Failure      400      {object}  validation.ErrorResponse  "Invalid ID or validation error"
// @Failure      404      {object}  validation.ErrorResponse  "Book not found"
// @Failure      409      {object}  validation.ErrorResponse  "ISBN already exists"
// @Security     BearerAuth
// @Router       /books/{id}/ [put]
func (h *BookHandler) ReplaceBook(c *gin.Context) {
	h.update(c, &CreateBookRequest{})
}

// UpdateBook godoc
// @Summary      Update a book
// @Description  Partially update a book. Staff only.
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        id       path      string               true  "Book ID (UUID)"
// @Param        payload  body      UpdateBookRequest  true  "Book fields to update"
// @Success      200      {object}  BookResponse
// @Failure      400      {object}  validation.ErrorResponse  "Invalid ID or validation error"
// @Failure      404      {object}  validation.ErrorResponse  "Book not found"
// @Failure      409      {object}  validation.ErrorResponse  "ISBN already exists"
// @Security     BearerAuth
// @Router       /books/{id}/ [patch]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	h.update(c, &UpdateBookRequest{})
}

func (h *BookHandler) update(c *gin.Context, req bookPatch) {
	if !authorize(c, policy.Update, policy.Collection(policy.Book), "book") {
		return
	}

	id, ok := parseIDParam(c, "book")
	if !ok {
		return
	}

	if !validation.BindAndValidateJSON(c, req) {
		return
	}

	ctx := c.Request.Context()

	book, err := h.repo.FindByID(ctx, id)
	if err != nil {
		writeStoreError(c, err, "book", "BOOK_FETCH_FAILED")
		return
	}

	req.apply(book)

	if err := h.repo.Update(ctx, book); err != nil {
		writeStoreError(c, err, "book", "BOOK_UPDATE_FAILED")
		return
	}

	updated, err := h.repo.FindByID(ctx, id)
	if err != nil {
		writeStoreError(c, err, "book", "BOOK_FETCH_FAILED")
		return
	}

	c.JSON(http.StatusOK, BookResponse{Data: toBook(*updated)})
}

// DeleteBook godoc
// @Summary      Delete a book
// @Description  Delete a book with its copies. Books whose copies were ever loaned are protected. Staff only.
// @Tags         books
// @Produce      json
// @Param        id   path      string                    true  "Book ID (UUID)"
// @Success      204  "No Content"
// @Failure      400  {object}  validation.ErrorResponse  "Invalid ID"
// @Failure      404  {object}  validation.ErrorResponse  "Book not found"
// @Failure      409  {object}  validation.ErrorResponse  "Book has loan history"
// @Security     BearerAuth
// @Router       /books/{id}/ [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	if !authorize(c, policy.Delete, policy.Collection(policy.Book), "book") {
		return
	}

	id, ok := parseIDParam(c, "book")
	if !ok {
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		writeStoreError(c, err, "book", "BOOK_DELETE_FAILED")
		return
	}

	c.Status(http.StatusNoContent)
}
