package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/benhaham/findscooter/pkg/response"
)

// Health reports process and database liveness.
func Health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "ok"
		dbStatus := "ok"

		if db == nil {
			dbStatus = "unavailable"
			status = "degraded"
		} else if sqlDB, err := db.DB(); err != nil || sqlDB.Ping() != nil {
			dbStatus = "unavailable"
			status = "degraded"
		}

		response.Success(c, http.StatusOK, gin.H{
			"status":   status,
			"database": dbStatus,
		})
	}
}
