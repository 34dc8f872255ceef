package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shelfmark/shelfmark/internal/services"
	"github.com/shelfmark/shelfmark/internal/utils"
	"gorm.io/gorm"
)

// CollectionHandler handles collection routes
type CollectionHandler struct {
	DB *gorm.DB
}

// CreateCollection handles POST /api/collections
// @Summary Create a collection
// @Description Create a collection for the requesting owner; the name is rewritten if already taken
// @Tags Collections
// @Accept json
// @Produce json
// @Param body body object true "Collection name and optional description"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /collections [post]
func (h *CollectionHandler) CreateCollection(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "authorization.user")
	}

	var body struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "validation")
	}

	collection, err := services.CreateCollection(h.DB, userID, body.Name, body.Description)
	if err != nil {
		return serviceErrorResponse(c, err, "createCollection")
	}

	return utils.SuccessResponse(c, collection, fiber.StatusCreated)
}

// ListCollections handles GET /api/collections
// @Summary List collections
// @Description List the owner's collections ordered by relevance score, then most recent activity
// @Tags Collections
// @Produce json
// @Success 200 {array} services.CollectionSummary
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /collections [get]
func (h *CollectionHandler) ListCollections(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "authorization.user")
	}

	summaries, err := services.ListCollections(h.DB, userID)
	if err != nil {
		return serviceErrorResponse(c, err, "listCollections")
	}

	return utils.SuccessResponse(c, summaries, fiber.StatusOK)
}

// GetCollection handles GET /api/collections/:id
// @Summary Get a collection
// @Description Get one collection with its items ordered by creation time
// @Tags Collections
// @Produce json
// @Param id path int true "Collection ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /collections/{id} [get]
func (h *CollectionHandler) GetCollection(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "authorization.user")
	}

	collectionID, err := parseCollectionID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "validation")
	}

	collection, err := services.GetCollection(h.DB, userID, collectionID)
	if err != nil {
		return serviceErrorResponse(c, err, "getCollection")
	}

	return utils.SuccessResponse(c, collection, fiber.StatusOK)
}

// UpdateCollection handles PUT /api/collections/:id
// @Summary Update a collection
// @Description Rename a collection and/or replace its description
// @Tags Collections
// @Accept json
// @Produce json
// @Param id path int true "Collection ID"
// @Param body body object true "Fields to update"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /collections/{id} [put]
func (h *CollectionHandler) UpdateCollection(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "authorization.user")
	}

	collectionID, err := parseCollectionID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "validation")
	}

	var body struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "validation")
	}
	if body.Name == nil && body.Description == nil {
		return utils.ErrorResponse(c, "Nothing to update", fiber.StatusBadRequest, "validation")
	}

	collection, err := services.UpdateCollection(h.DB, userID, collectionID, body.Name, body.Description)
	if err != nil {
		return serviceErrorResponse(c, err, "updateCollection")
	}

	return utils.SuccessResponse(c, collection, fiber.StatusOK)
}

// DeleteCollection handles DELETE /api/collections/:id
// @Summary Delete a collection
// @Description Delete a collection and all of its items
// @Tags Collections
// @Produce json
// @Param id path int true "Collection ID"
// @Success 200 {object} utils.ConfirmationResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /collections/{id} [delete]
func (h *CollectionHandler) DeleteCollection(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "authorization.user")
	}

	collectionID, err := parseCollectionID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "validation")
	}

	if err := services.DeleteCollection(h.DB, userID, collectionID); err != nil {
		return serviceErrorResponse(c, err, "deleteCollection")
	}

	return utils.ConfirmationResponse(c)
}
