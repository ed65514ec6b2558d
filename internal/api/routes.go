package api

import (
	"net/http"

	"github.com/AtsunoriNagaya/swim-traing-app/internal/service"

	"github.com/gin-gonic/gin"
)

// SetupRoutes registers the API surface on the given engine.
func SetupRoutes(
	router *gin.Engine,
	menuService service.MenuService,
	searchService service.SearchService,
) {
	menuHandler := NewMenuHandler(menuService, searchService)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		menuGroup := apiV1.Group("/menus")
		{
			menuGroup.POST("", menuHandler.SaveMenu)
			menuGroup.GET("", menuHandler.ListHistory)
			menuGroup.GET("/:id", menuHandler.GetMenu)
		}

		// Kept off /menus so the :id wildcard cannot swallow it.
		apiV1.GET("/search", menuHandler.SearchMenus)
	}
}
