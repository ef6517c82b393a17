package user

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"ministore_back_end/internal/database"
	"ministore_back_end/internal/models"
	"ministore_back_end/internal/utils"
)

//
// 🔔 GET /api/notifications
// Boîte de réception, du plus récent au plus ancien. Consulter la
// liste marque toutes les notifications comme lues.
//
func GetNotifications(c *gin.Context) {
	userID := c.GetString("user_id")
	ctx := c.Request.Context()

	rows, err := database.Postgres.QueryContext(ctx, `
		SELECT id, recipient_id, message, order_id, is_read, created_at
		FROM notifications
		WHERE recipient_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		log.Println("❌ Erreur lecture notifications:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}
	defer rows.Close()

	notifications := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.Message, &n.OrderID, &n.IsRead, &n.CreatedAt); err != nil {
			log.Println("❌ Erreur scan notification:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
			return
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		log.Println("❌ Erreur lecture notifications:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	// Tout est lu une fois affiché
	if _, err := database.Postgres.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE recipient_id = $1 AND is_read = FALSE`, userID); err != nil {
		log.Println("⚠️ Marquage lu non appliqué:", err)
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

//
// 🔢 GET /api/notifications/unread-count
// Badge du header, lu à chaque page.
//
func GetUnreadCount(c *gin.Context) {
	userID := c.GetString("user_id")

	count, err := utils.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		log.Println("❌ Erreur comptage notifications:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread_count": count})
}
