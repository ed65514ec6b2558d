package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/AtsunoriNagaya/swim-traing-app/internal/domain"
	"github.com/AtsunoriNagaya/swim-traing-app/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MenuHandler holds the menu and search service dependencies.
type MenuHandler struct {
	menuService   service.MenuService
	searchService service.SearchService
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler(menuService service.MenuService, searchService service.SearchService) *MenuHandler {
	return &MenuHandler{
		menuService:   menuService,
		searchService: searchService,
	}
}

// --- DTOs for API ---

// SaveMenuRequest wraps a generated menu document for persistence. The id
// is optional; the server assigns one when absent.
type SaveMenuRequest struct {
	ID   string              `json:"id"`
	Menu domain.MenuDocument `json:"menu" binding:"required"`
}

// SaveMenuResponse reports where the menu was stored.
type SaveMenuResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// --- Handler Methods ---

// SaveMenu stores a generated menu and indexes it.
func (h *MenuHandler) SaveMenu(c *gin.Context) {
	var req SaveMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}

	url, err := h.menuService.Save(c.Request.Context(), id, &req.Menu)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to save menu.")
		return
	}

	c.JSON(http.StatusCreated, SaveMenuResponse{ID: id, URL: url})
}

// GetMenu returns the full menu document for an id.
func (h *MenuHandler) GetMenu(c *gin.Context) {
	doc, err := h.menuService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrMenuNotFound) {
			abortWithError(c, http.StatusNotFound, "Menu not found.")
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch menu.")
		return
	}
	c.JSON(http.StatusOK, doc)
}

// ListHistory returns every saved menu's summary, newest first.
func (h *MenuHandler) ListHistory(c *gin.Context) {
	c.JSON(http.StatusOK, h.menuService.ListHistory(c.Request.Context()))
}

// SearchMenus scores saved menus against a query and target duration.
func (h *MenuHandler) SearchMenus(c *gin.Context) {
	duration, err := strconv.Atoi(c.Query("duration"))
	if err != nil || duration <= 0 {
		abortWithError(c, http.StatusBadRequest, "Query parameter 'duration' must be a positive integer.")
		return
	}

	results := h.searchService.Search(c.Request.Context(), c.Query("q"), duration)
	c.JSON(http.StatusOK, results)
}
