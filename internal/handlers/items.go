package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shelfmark/shelfmark/internal/models"
	"github.com/shelfmark/shelfmark/internal/services"
	"github.com/shelfmark/shelfmark/internal/types"
	"github.com/shelfmark/shelfmark/internal/utils"
	"gorm.io/gorm"
)

// ItemHandler handles item routes
type ItemHandler struct {
	DB *gorm.DB
}

// AddItem handles POST /api/collections/:id/items
// @Summary Add an item
// @Description Add a reference to a collection, subject to the per-collection capacity
// @Tags Items
// @Accept json
// @Produce json
// @Param id path int true "Collection ID"
// @Param body body object true "Item reference id, optional note and metadata"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /collections/{id}/items [post]
func (h *ItemHandler) AddItem(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "authorization.user")
	}

	collectionID, err := parseCollectionID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "validation")
	}

	var body struct {
		RefID    string      `json:"refId"`
		Note     string      `json:"note"`
		Metadata models.JSON `json:"metadata"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "validation")
	}

	item, err := services.AddItem(h.DB, userID, collectionID, body.RefID, body.Note, body.Metadata)
	if err != nil {
		return serviceErrorResponse(c, err, "addItem")
	}

	return utils.SuccessResponse(c, item, fiber.StatusCreated)
}

// RemoveItem handles DELETE /api/collections/:id/items/:refId
// @Summary Remove an item
// @Description Remove a reference from a collection
// @Tags Items
// @Produce json
// @Param id path int true "Collection ID"
// @Param refId path string true "Item reference ID"
// @Success 200 {object} utils.ConfirmationResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /collections/{id}/items/{refId} [delete]
func (h *ItemHandler) RemoveItem(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "authorization.user")
	}

	collectionID, err := parseCollectionID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "validation")
	}

	refID := c.Params("refId")

	if err := services.RemoveItem(h.DB, userID, collectionID, refID); err != nil {
		return serviceErrorResponse(c, err, "removeItem")
	}

	return utils.ConfirmationResponse(c)
}

// MoveItem handles POST /api/items/move
// @Summary Move an item between collections
// @Description Atomically transfer one item from a source collection to a target collection
// @Tags Items
// @Accept json
// @Produce json
// @Param body body object true "Reference id, source and target collection ids"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /items/move [post]
func (h *ItemHandler) MoveItem(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "authorization.user")
	}

	var body struct {
		RefID              string           `json:"refId"`
		SourceCollectionID types.FlexUint64 `json:"sourceCollectionId"`
		TargetCollectionID types.FlexUint64 `json:"targetCollectionId"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "validation")
	}

	moved, err := services.MoveItem(h.DB, userID, body.RefID,
		body.SourceCollectionID.Uint64(), body.TargetCollectionID.Uint64())
	if err != nil {
		return serviceErrorResponse(c, err, "moveItem")
	}

	return utils.SuccessResponse(c, moved, fiber.StatusOK)
}
