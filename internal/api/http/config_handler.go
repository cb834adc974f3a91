package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"obstruction/internal/config"
)

// GetConfigHandler returns the game settings clients need to draw a grid
// @Summary Get game configuration
// @Tags Config
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /config [get]
func GetConfigHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"boardSize": cfg.BoardSize,
			"seeded":    cfg.AISeed != 0,
		})
	}
}
