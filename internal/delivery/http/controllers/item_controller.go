package controllers

import (
	"log/slog"
	"net/http"

	"acadswap/internal/delivery/http/helpers"
	"acadswap/internal/domain"
)

// ItemListSuccessResponse is the success envelope for GET /items/user/me.
type ItemListSuccessResponse struct {
	Success bool           `json:"success"`
	Data    []*domain.Item `json:"data"`
}

type ItemController struct {
	Logger  *slog.Logger
	Service domain.ItemService
}

func NewItemController(logger *slog.Logger, svc domain.ItemService) *ItemController {
	return &ItemController{Logger: logger, Service: svc}
}

// MyItems godoc
// @Summary List my items
// @Description Every item the caller has listed, in any status. Pass status=active to keep only items usable for a new meetup.
// @Tags items
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status (active)"
// @Success 200 {object} controllers.ItemListSuccessResponse
// @Failure 401 {object} helpers.APIResponse "code: unauthenticated"
// @Router /items/user/me [get]
func (c *ItemController) MyItems(w http.ResponseWriter, r *http.Request) {
	userID, ok := actor(w, r)
	if !ok {
		return
	}
	items, err := c.Service.ListMine(r.Context(), userID)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	if r.URL.Query().Get("status") == string(domain.ItemStatusActive) {
		items = domain.ActiveItems(items)
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, items)
}
