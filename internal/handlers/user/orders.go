package user

import (
	"database/sql"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"ministore_back_end/internal/database"
	"ministore_back_end/internal/models"
)

//
// 📦 GET /api/orders
// Historique de l'utilisateur connecté, du plus récent au plus ancien.
//
func GetMyOrders(c *gin.Context) {
	userID := c.GetString("user_id")
	ctx := c.Request.Context()

	rows, err := database.Postgres.QueryContext(ctx, `
		SELECT id, user_id, first_name, last_name, email, address, postal_code, city, paid, created_at, updated_at
		FROM orders WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		log.Println("❌ Erreur lecture commandes:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}
	defer rows.Close()

	orders := []gin.H{}
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.FirstName, &o.LastName, &o.Email,
			&o.Address, &o.PostalCode, &o.City, &o.Paid, &o.CreatedAt, &o.UpdatedAt); err != nil {
			log.Println("❌ Erreur scan commande:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
			return
		}

		full, err := loadOrder(ctx, o.ID)
		if err != nil {
			log.Println("❌ Erreur lecture lignes commande:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
			return
		}

		// Le total est toujours recalculé depuis les lignes
		orders = append(orders, gin.H{
			"order": full,
			"total": full.TotalCost(),
		})
	}
	if err := rows.Err(); err != nil {
		log.Println("❌ Erreur lecture commandes:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

//
// 🔎 GET /api/orders/:id
// Détail d'une commande, réservé à son propriétaire.
//
func GetOrderByID(c *gin.Context) {
	userID := c.GetString("user_id")
	orderID := c.Param("id")

	order, err := loadOrder(c.Request.Context(), orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
			return
		}
		log.Println("❌ Erreur lecture commande:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	if order.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
		"total": order.TotalCost(),
	})
}
