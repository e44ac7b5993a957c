package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/model"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/policy"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/repository"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/validation"
)

type PublisherHandler struct {
	repo repository.PublisherRepository
}

func NewPublisherHandler(repo repository.PublisherRepository) *PublisherHandler {
	return &PublisherHandler{repo: repo}
}

func (h *PublisherHandler) RegisterRoutes(r *gin.RouterGroup) {
	publishers := r.Group("/publishers")
	{
		handle(publishers, http.MethodGet, "", h.ListPublishers)
		handle(publishers, http.MethodPost, "", h.CreatePublisher)
		handle(publishers, http.MethodGet, "/:id", h.GetPublisherByID)
		handle(publishers, http.MethodPut, "/:id", h.ReplacePublisher)
		handle(publishers, http.MethodPatch, "/:id", h.UpdatePublisher)
		handle(publishers, http.MethodDelete, "/:id", h.DeletePublisher)
	}
}

type publisherPatch interface {
	apply(p *model.Publisher)
}

// CreatePublisher godoc
// @Summary      Create a publisher
// @Description  Create a new publisher. Staff only.
// @Tags         publishers
// @Accept       json
// @Produce      json
// @Param        payload  body      CreatePublisherRequest        true  "Publisher to create"
// @Success      201      {object}  PublisherResponse
// @Failure      400      {object}  validation.ErrorResponse   "Validation error"
// @Failure      401      {object}  validation.ErrorResponse   "Not authenticated"
// @Failure      403      {object}  validation.ErrorResponse   "Staff only"
// @Failure      409      {object}  validation.ErrorResponse   "Name already taken"
// @Failure      500      {object}  validation.ErrorResponse   "Internal server error"
// @Security     BearerAuth
// @Router       /publishers/ [post]
func (h *PublisherHandler) CreatePublisher(c *gin.Context) {
	if !authorize(c, policy.Create, policy.Collection(policy.Publisher), "publisher") {
		return
	}

	var req CreatePublisherRequest
	if !validation.BindAndValidateJSON(c, &req) {
		return
	}

	var publisher model.Publisher
	req.apply(&publisher)

	if err := h.repo.Create(c.Request.Context(), &publisher); err != nil {
		writeStoreError(c, err, "publisher", "PUBLISHER_CREATE_FAILED")
		return
	}

	c.JSON(http.StatusCreated, PublisherResponse{Data: toPublisher(publisher)})
}

// ListPublishers godoc
// @Summary      List publishers
// @Description  List publishers ordered by name
// @Tags         publishers
// @Produce      json
// @Success      200     {object}  ListPublishersResponse
// @Failure      401     {object}  validation.ErrorResponse   "Not authenticated"
// @Failure      500     {object}  validation.ErrorResponse   "Internal server error"
// @Security     BearerAuth
// @Router       /publishers/ [get]
func (h *PublisherHandler) ListPublishers(c *gin.Context) {
	if !authorize(c, policy.List, policy.Collection(policy.Publisher), "publisher") {
		return
	}

	publishers, err := h.repo.List(c.Request.Context())
	if err != nil {
		writeStoreError(c, err, "publisher", "PUBLISHER_LIST_FAILED")
		return
	}

	res := make([]Publisher, 0, len(publishers))
	for _, p := range publishers {
		res = append(res, toPublisher(p))
	}

	c.JSON(http.StatusOK, ListPublishersResponse{Data: res})
}

// GetPublisherByID godoc
// @Summary      Get publisher by ID
// @Tags         publishers
// @Produce      json
// @Param        id   path      string                    true  "Publisher ID (UUID)"
// @Success      200  {object}  PublisherResponse
// @Failure      400  {object}  validation.ErrorResponse  "Invalid ID"
// @Failure      404  {object}  validation.ErrorResponse  "Publisher not found"
// @Security     BearerAuth
// @Router       /publishers/{id}/ [get]
func (h *PublisherHandler) GetPublisherByID(c *gin.Context) {
	if !authorize(c, policy.Retrieve, policy.Collection(policy.Publisher), "publisher") {
		return
	}

	id, ok := parseIDParam(c, "publisher")
	if !ok {
		return
	}

	publisher, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		writeStoreError(c, err, "publisher", "PUBLISHER_FETCH_FAILED")
		return
	}

	c.JSON(http.StatusOK, PublisherResponse{Data: toPublisher(*publisher)})
}

// ReplacePublisher godoc
// @Summary      Replace a publisher
// @Description  Overwrite every field of a publisher. Staff only.
// @Tags         publishers
// @Accept       json
// @Produce      json
// @Param        id       path      string               true  "Publisher ID (UUID)"
// @Param        payload  body      CreatePublisherRequest  true  "Publisher"
// @Success      200      {object}  PublisherResponse
// @Failure      400      {object}  validation.ErrorResponse  "Invalid ID or validation error"
// @Failure      404      {object}  validation.ErrorResponse  "Publisher not found"
// @Failure      409      {object}  validation.ErrorResponse  "Name already taken"
// @Security     BearerAuth
// @Router       /publishers/{id}/ [put]
func (h *PublisherHandler) ReplacePublisher(c *gin.Context) {
	h.update(c, &CreatePublisherRequest{})
}

// UpdatePublisher godoc
// @Summary      Update a publisher
// @Description  Partially update a publisher. Staff only.
// @Tags         publishers
// @Accept       json
// @Produce      json
// @Param        id       path      string               true  "Publisher ID (UUID)"
// @Param        payload  body      UpdatePublisherRequest  true  "Publisher fields to update"
// @Success      200      {object}  PublisherResponse
// @Failure      400      {object}  validation.ErrorResponse  "Invalid ID or validation error"
// @Failure      404      {object}  validation.ErrorResponse  "Publisher not found"
// @Failure      409      {object}  validation.ErrorResponse  "Name already taken"
// @Security     BearerAuth
// @Router       /publishers/{id}/ [patch]
func (h *PublisherHandler) UpdatePublisher(c *gin.Context) {
	h.update(c, &UpdatePublisherRequest{})
}

func (h *PublisherHandler) update(c *gin.Context, req publisherPatch) {
	if !authorize(c, policy.Update, policy.Collection(policy.Publisher), "publisher") {
		return
	}

	id, ok := parseIDParam(c, "publisher")
	if !ok {
		return
	}

	if !validation.BindAndValidateJSON(c, req) {
		return
	}

	ctx := c.Request.Context()

	publisher, err := h.repo.FindByID(ctx, id)
	if err != nil {
		writeStoreError(c, err, "publisher", "PUBLISHER_FETCH_FAILED")
		return
	}

	req.apply(publisher)

	if err := h.repo.Update(ctx, publisher); err != nil {
		writeStoreError(c, err, "publisher", "PUBLISHER_UPDATE_FAILED")
		return
	}

	updated, err := h.repo.FindByID(ctx, id)
	if err != nil {
		writeStoreError(c, err, "publisher", "PUBLISHER_FETCH_FAILED")
		return
	}

	c.JSON(http.StatusOK, PublisherResponse{Data: toPublisher(*updated)})
}

// DeletePublisher godoc
// @Summary      Delete a publisher
// @Description  Delete a publisher. Its books keep existing without one. Staff only.
// @Tags         publishers
// @Produce      json
// @Param        id   path      string                    true  "Publisher ID (UUID)"
// @Success      204  "No Content"
// @Failure      400  {object}  validation.ErrorResponse  "Invalid ID"
// @Failure      404  {object}  validation.ErrorResponse  "Publisher not found"
// @Security     BearerAuth
// @Router       /publishers/{id}/ [delete]
func (h *PublisherHandler) DeletePublisher(c *gin.Context) {
	if !authorize(c, policy.Delete, policy.Collection(policy.Publisher), "publisher") {
		return
	}

	id, ok := parseIDParam(c, "publisher")
	if !ok {
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		writeStoreError(c, err, "publisher", "PUBLISHER_DELETE_FAILED")
		return
	}

	c.Status(http.StatusNoContent)
}
