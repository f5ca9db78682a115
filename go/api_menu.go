package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"

	menuhttpmapper "github.com/Apurer/go-gin-storefront/internal/domains/menu/adapters/http/mapper"
	menutypes "github.com/Apurer/go-gin-storefront/internal/domains/menu/application/types"
	menuports "github.com/Apurer/go-gin-storefront/internal/domains/menu/ports"
)

// MenuAPI wires HTTP transport with the menu service.
type MenuAPI struct {
	service menuports.Service
}

// NewMenuAPI creates a MenuAPI backed by the provided service.
func NewMenuAPI(service menuports.Service) MenuAPI {
	return MenuAPI{service: service}
}

// Get /api/menu
// Lists menu items, optionally filtered by category and a comma separated id list
func (api *MenuAPI) ListMenu(c *gin.Context) {
	var ids []uuid.UUID
	if err := runtime.BindQueryParameter("form", false, false, "ids", c.Request.URL.Query(), &ids); err != nil {
		respondBadRequest(c, err)
		return
	}
	items, err := api.service.ListItems(c.Request.Context(), menutypes.ListItemsInput{
		Category: c.Query("category"),
		IDs:      ids,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, menuhttpmapper.FromDomainList(items))
}

// Get /api/menu/:itemId
// Finds a menu item by id
func (api *MenuAPI) GetMenuItem(c *gin.Context) {
	id, ok := bindUUIDParam(c, "itemId")
	if !ok {
		return
	}
	item, err := api.service.GetItem(c.Request.Context(), menutypes.ItemIdentifier{ID: id})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, menuhttpmapper.FromDomain(item))
}

// Post /api/menu
// Adds a menu item (admin)
func (api *MenuAPI) CreateMenuItem(c *gin.Context) {
	var payload menuhttpmapper.CreateMenuItem
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	item, err := api.service.CreateItem(c.Request.Context(), callerFrom(c), menuhttpmapper.ToCreateInput(payload))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, menuhttpmapper.FromDomain(item))
}

// Put /api/menu/:itemId
// Updates the fields present in the payload (admin)
func (api *MenuAPI) UpdateMenuItem(c *gin.Context) {
	id, ok := bindUUIDParam(c, "itemId")
	if !ok {
		return
	}
	var payload menuhttpmapper.UpdateMenuItem
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	item, err := api.service.UpdateItem(c.Request.Context(), callerFrom(c), menuhttpmapper.ToUpdateInput(id, payload))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, menuhttpmapper.FromDomain(item))
}

// Delete /api/menu/:itemId
// Removes a menu item (admin)
func (api *MenuAPI) DeleteMenuItem(c *gin.Context) {
	id, ok := bindUUIDParam(c, "itemId")
	if !ok {
		return
	}
	if err := api.service.DeleteItem(c.Request.Context(), callerFrom(c), menutypes.ItemIdentifier{ID: id}); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Post /api/menu/:itemId/reviews
// Reviews an item as the authenticated caller
func (api *MenuAPI) SubmitReview(c *gin.Context) {
	id, ok := bindUUIDParam(c, "itemId")
	if !ok {
		return
	}
	var payload menuhttpmapper.SubmitReview
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	item, err := api.service.SubmitReview(c.Request.Context(), callerFrom(c), menutypes.SubmitReviewInput{
		ItemID:  id,
		Rating:  payload.Rating,
		Comment: payload.Comment,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, menuhttpmapper.FromDomain(item))
}
