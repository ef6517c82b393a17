package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ministore_back_end/internal/cache"
	"ministore_back_end/internal/models"
)

// RequireAdmin vérifie que l'utilisateur a le rôle ADMIN. Le rôle est
// relu en base (via cache) : un token émis avant un changement de rôle
// ne doit pas ouvrir l'espace admin.
func RequireAdmin(c *gin.Context) {
	user, err := cache.GetUserFromCache(c.GetString("user_id"))
	if err != nil || user.Role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Accès réservé aux administrateurs"})
		c.Abort()
		return
	}
	c.Next()
}
