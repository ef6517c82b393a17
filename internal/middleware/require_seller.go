package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ministore_back_end/internal/cache"
	"ministore_back_end/internal/models"
)

// RequireSeller vérifie que l'utilisateur a le rôle SELLER, relu en
// base : une révocation admin prend effet avant l'expiration du token.
func RequireSeller(c *gin.Context) {
	user, err := cache.GetUserFromCache(c.GetString("user_id"))
	if err != nil || user.Role != models.RoleSeller {
		c.JSON(http.StatusForbidden, gin.H{"error": "Accès réservé aux vendeurs"})
		c.Abort()
		return
	}
	c.Next()
}
