package middleware

import (
	"net/http"

	"collabcanvas-app/database"
	"collabcanvas-app/internal/domain/projects"

	"github.com/gin-gonic/gin"
)

// RequireProjectOwner guards routes carrying a :projectId parameter.
// Moderation and lifecycle operations run only for the project owner.
func RequireProjectOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")
		if userID == 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		var project projects.Project
		if err := database.DB.First(&project, "id = ?", c.Param("projectId")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			c.Abort()
			return
		}

		if project.OwnerID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only the project owner can do this"})
			c.Abort()
			return
		}

		c.Next()
	}
}
