package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/model"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/policy"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/repository"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/validation"
)

type GenreHandler struct {
	repo repository.GenreRepository
}

func NewGenreHandler(repo repository.GenreRepository) *GenreHandler {
	return &GenreHandler{repo: repo}
}

func (h *GenreHandler) RegisterRoutes(r *gin.RouterGroup) {
	genres := r.Group("/genres")
	{
		handle(genres, http.MethodGet, "", h.ListGenres)
		handle(genres, http.MethodPost, "", h.CreateGenre)
		handle(genres, http.MethodGet, "/:id", h.GetGenreByID)
		handle(genres, http.MethodPut, "/:id", h.ReplaceGenre)
		handle(genres, http.MethodPatch, "/:id", h.UpdateGenre)
		handle(genres, http.MethodDelete, "/:id", h.DeleteGenre)
	}
}

type genrePatch interface {
	apply(g *model.Genre)
}

// CreateGenre godoc
// @Summary      Create a genre
// @Description  Create a new genre. Staff only.
// @Tags         genres
// @Accept       json
// @Produce      json
// @Param        payload  body      CreateGenreRequest        true  "Genre to create"
// @Success      201      {object}  GenreResponse
// @Failure      400      {object}  validation.ErrorResponse   "Validation error"
// @Failure      401      {object}  validation.ErrorResponse   "Not authenticated"
// @Failure      403      {object}  validation.ErrorResponse   "Staff only"
// @Failure      409      {object}  validation.ErrorResponse   "Name already taken"
// @Failure      500      {object}  validation.ErrorResponse   "Internal server error"
// @Security     BearerAuth
// @Router       /genres/ [post]
func (h *GenreHandler) CreateGenre(c *gin.Context) {
	if !authorize(c, policy.Create, policy.Collection(policy.Genre), "genre") {
		return
	}

	var req CreateGenreRequest
	if !validation.BindAndValidateJSON(c, &req) {
		return
	}

	var genre model.Genre
	req.apply(&genre)

	if err := h.repo.Create(c.Request.Context(), &genre); err != nil {
		writeStoreError(c, err, "genre", "GENRE_CREATE_FAILED")
		return
	}

	c.JSON(http.StatusCreated, GenreResponse{Data: toGenre(genre)})
}

// ListGenres godoc
// @Summary      List genres
// @Description  List genres ordered by name
// @Tags         genres
// @Produce      json
// @Success      200     {object}  ListGenresResponse
// @Failure      401     {object}  validation.ErrorResponse   "Not authenticated"
// @Failure      500     {object}  validation.ErrorResponse   "Internal server error"
// @Security     BearerAuth
// @Router       /genres/ [get]
func (h *GenreHandler) ListGenres(c *gin.Context) {
	if !authorize(c, policy.List, policy.Collection(policy.Genre), "genre") {
		return
	}

	genres, err := h.repo.List(c.Request.Context())
	if err != nil {
		writeStoreError(c, err, "genre", "GENRE_LIST_FAILED")
		return
	}

	res := make([]Genre, 0, len(genres))
	for _, g := range genres {
		res = append(res, toGenre(g))
	}

	c.JSON(http.StatusOK, ListGenresResponse{Data: res})
}

// GetGenreByID godoc
// @Summary      Get genre by ID
// @Tags         genres
// @Produce      json
// @Param        id   path      string                    true  "Genre ID (UUID)"
// @Success      200  {object}  GenreResponse
// @Failure      400  {object}  validation.ErrorResponse  "Invalid ID"
// @Failure      404  {object}  validation.ErrorResponse  "Genre not found"
// @Security     BearerAuth
// @Router       /genres/{id}/ [get]
func (h *GenreHandler) GetGenreByID(c *gin.Context) {
	if !authorize(c, policy.Retrieve, policy.Collection(policy.Genre), "genre") {
		return
	}

	id, ok := parseIDParam(c, "genre")
	if !ok {
		return
	}

	genre, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		writeStoreError(c, err, "genre", "GENRE_FETCH_FAILED")
		return
	}

	c.JSON(http.StatusOK, GenreResponse{Data: toGenre(*genre)})
}

// ReplaceGenre godoc
// @Summary      Replace a genre
// @Description  Overwrite every field of a genre. Staff only.
// @Tags         genres
// @Accept       json
// @Produce      json
// @Param        id       path      string               true  "Genre ID (UUID)"
// @Param        payload  body      CreateGenreRequest  true  "Genre"
// @Success      200      {object}  GenreResponse
// @Failure      400      {object}  validation.ErrorResponse  "Invalid ID or validation error"
// @Failure      404      {object}  validation.ErrorResponse  "Genre not found"
// @Failure      409      {object}  validation.ErrorResponse  "Name already taken"
// @Security     BearerAuth
// @Router       /genres/{id}/ [put]
func (h *GenreHandler) ReplaceGenre(c *gin.Context) {
	h.update(c, &CreateGenreRequest{})
}

// UpdateGenre godoc
// @Summary      Update a genre
// @Description  Partially update a genre. Staff only.
// @Tags         genres
// @Accept       json
// @Produce      json
// @Param        id       path      string               true  "Genre ID (UUID)"
// @Param        payload  body      UpdateGenreRequest  true  "Genre fields to update"
// @Success      200      {object}  GenreResponse
// @Failure      400      {object}  validation.ErrorResponse  "Invalid ID or validation error"
// @Failure      404      {object}  validation.ErrorResponse  "Genre not found"
// @Failure      409      {object}  validation.ErrorResponse  "Name already taken"
// @Security     BearerAuth
// @Router       /genres/{id}/ [patch]
func (h *GenreHandler) UpdateGenre(c *gin.Context) {
	h.update(c, &UpdateGenreRequest{})
}

func (h *GenreHandler) update(c *gin.Context, req genrePatch) {
	if !authorize(c, policy.Update, policy.Collection(policy.Genre), "genre") {
		return
	}

	id, ok := parseIDParam(c, "genre")
	if !ok {
		return
	}

	if !validation.BindAndValidateJSON(c, req) {
		return
	}

	ctx := c.Request.Context()

	genre, err := h.repo.FindByID(ctx, id)
	if err != nil {
		writeStoreError(c, err, "genre", "GENRE_FETCH_FAILED")
		return
	}

	req.apply(genre)

	if err := h.repo.Update(ctx, genre); err != nil {
		writeStoreError(c, err, "genre", "GENRE_UPDATE_FAILED")
		return
	}

	updated, err := h.repo.FindByID(ctx, id)
	if err != nil {
		writeStoreError(c, err, "genre", "GENRE_FETCH_FAILED")
		return
	}

	c.JSON(http.StatusOK, GenreResponse{Data: toGenre(*updated)})
}

// DeleteGenre godoc
// @Summary      Delete a genre
// @Description  Delete a genre. Its books keep existing without one. Staff only.
// @Tags         genres
// @Produce      json
// @Param        id   path      string                    true  "Genre ID (UUID)"
// @Success      204  "No Content"
// @Failure      400  {object}  validation.ErrorResponse  "Invalid ID"
// @Failure      404  {object}  validation.ErrorResponse  "Genre not found"
// @Security     BearerAuth
// @Router       /genres/{id}/ [delete]
func (h *GenreHandler) DeleteGenre(c *gin.Context) {
	if !authorize(c, policy.Delete, policy.Collection(policy.Genre), "genre") {
		return
	}

	id, ok := parseIDParam(c, "genre")
	if !ok {
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		writeStoreError(c, err, "genre", "GENRE_DELETE_FAILED")
		return
	}

	c.Status(http.StatusNoContent)
}
