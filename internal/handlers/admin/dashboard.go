package admin

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"ministore_back_end/internal/database"
	"ministore_back_end/internal/models"
)

//
// 📊 GET /api/admin/dashboard
// Compteurs globaux + liste des comptes triée par priorité de
// traitement : demandes d'annulation, candidatures, vendeurs, le reste.
//
func Dashboard(c *gin.Context) {
	ctx := c.Request.Context()

	var totals struct {
		Users    int `json:"users"`
		Sellers  int `json:"sellers"`
		Products int `json:"products"`
		Orders   int `json:"orders"`
		Pending  int `json:"pending_applications"`
	}

	err := database.Postgres.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM users WHERE role = $1),
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM orders),
			(SELECT COUNT(*) FROM users WHERE seller_status = $2)`,
		models.RoleSeller, models.SellerStatusPending).
		Scan(&totals.Users, &totals.Sellers, &totals.Products, &totals.Orders, &totals.Pending)
	if err != nil {
		log.Println("❌ Erreur compteurs dashboard:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	rows, err := database.Postgres.QueryContext(ctx, `
		SELECT id, email, name, role, seller_status, created_at
		FROM users
		ORDER BY CASE seller_status
			WHEN $1 THEN 0
			WHEN $2 THEN 1
			ELSE CASE WHEN role = $3 THEN 2 ELSE 3 END
		END, created_at DESC`,
		models.SellerStatusCancellationRequested, models.SellerStatusPending, models.RoleSeller)
	if err != nil {
		log.Println("❌ Erreur liste utilisateurs:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.SellerStatus, &u.CreatedAt); err != nil {
			log.Println("❌ Erreur scan utilisateur:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
			return
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		log.Println("❌ Erreur liste utilisateurs:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totals": totals,
		"users":  users,
	})
}
