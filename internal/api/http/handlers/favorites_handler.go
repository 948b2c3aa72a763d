package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/pollution-service/internal/auth"
	"github.com/spec-kit/pollution-service/internal/clientstate"
	apperrors "github.com/spec-kit/pollution-service/pkg/util/errorutil"
)

// clientIDHeader names the device whose favorites blob is addressed.
// Mirrors the per-browser storage the state originally lived in.
const clientIDHeader = "X-Client-ID"

// StoreProvider resolves the favorites store for a client id.
type StoreProvider func(clientID string) *clientstate.Store

// FavoritesHandler manages the partitioned favorites state. Requests
// without credentials operate on the guest partition; authenticated
// requests on the partition derived from the identity.
type FavoritesHandler struct {
	stores StoreProvider
}

// NewFavoritesHandler constructs handler.
func NewFavoritesHandler(stores StoreProvider) *FavoritesHandler {
	return &FavoritesHandler{stores: stores}
}

func (h *FavoritesHandler) storeAndKey(c *fiber.Ctx) (*clientstate.Store, string, error) {
	clientID := c.Get(clientIDHeader)
	if clientID == "" {
		return nil, "", apperrors.NewValidationError("X-Client-ID header required", nil)
	}
	identity, _ := auth.IdentityFromContext(c)
	return h.stores(clientID), clientstate.PartitionKey(identity), nil
}

// List GET /api/favorites.
func (h *FavoritesHandler) List(c *fiber.Ctx) error {
	store, key, err := h.storeAndKey(c)
	if err != nil {
		return err
	}
	refs, err := store.Read(c.Context(), key)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": refs})
}

// Add POST /api/favorites.
func (h *FavoritesHandler) Add(c *fiber.Ctx) error {
	store, key, err := h.storeAndKey(c)
	if err != nil {
		return err
	}
	var ref clientstate.Ref
	if err := c.BodyParser(&ref); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if ref.ReportID <= 0 {
		return apperrors.NewValidationError("report_id required", nil)
	}
	if err := store.Add(c.Context(), key, ref); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ref})
}

// Remove DELETE /api/favorites/:id.
func (h *FavoritesHandler) Remove(c *fiber.Ctx) error {
	store, key, err := h.storeAndKey(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := store.Remove(c.Context(), key, id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"removed": true}})
}

// Clear DELETE /api/favorites. Wipes only the active partition.
func (h *FavoritesHandler) Clear(c *fiber.Ctx) error {
	store, key, err := h.storeAndKey(c)
	if err != nil {
		return err
	}
	if err := store.Clear(c.Context(), key); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"cleared": true}})
}
