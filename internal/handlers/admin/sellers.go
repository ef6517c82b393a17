package admin

import (
	"database/sql"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"ministore_back_end/internal/cache"
	"ministore_back_end/internal/database"
	"ministore_back_end/internal/sellers"
	"ministore_back_end/internal/utils"
)

//
// ✅ POST /api/admin/sellers/:id/approve
//
func ApproveSeller(c *gin.Context) {
	applySellerDecision(c, sellers.ActionApprove, utils.ActionSellerApprove)
}

//
// ❌ POST /api/admin/sellers/:id/deny
//
func DenySeller(c *gin.Context) {
	applySellerDecision(c, sellers.ActionDeny, utils.ActionSellerDeny)
}

//
// 🤝 POST /api/admin/sellers/:id/approve-cancellation
//
func ApproveCancellation(c *gin.Context) {
	applySellerDecision(c, sellers.ActionApproveCancellation, utils.ActionSellerCancellationAccept)
}

//
// 🚫 POST /api/admin/sellers/:id/revoke
// Révocation directe, sans demande préalable du vendeur.
//
func RevokeSeller(c *gin.Context) {
	applySellerDecision(c, sellers.ActionRevoke, utils.ActionSellerRevoke)
}

// applySellerDecision applique une décision admin sur le compte visé :
// transition rôle/statut, exactement une notification à l'intéressé,
// trace d'audit, invalidation du cache.
func applySellerDecision(c *gin.Context, action sellers.Action, auditAction string) {
	targetID := c.Param("id")
	ctx := c.Request.Context()

	var role, status, name, email string
	err := database.Postgres.QueryRowContext(ctx,
		`SELECT role, seller_status, name, email FROM users WHERE id = $1`, targetID).
		Scan(&role, &status, &name, &email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
			return
		}
		log.Println("❌ Erreur lecture utilisateur:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	username := name
	if username == "" {
		username = email
	}

	t, err := sellers.Apply(action, role, status, username)
	if err != nil {
		if errors.Is(err, sellers.ErrInvalidTransition) {
			c.JSON(http.StatusConflict, gin.H{"error": "Action impossible dans l'état actuel de ce compte"})
			return
		}
		log.Println("❌ Erreur transition vendeur:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	if _, err := database.Postgres.ExecContext(ctx,
		`UPDATE users SET role = $2, seller_status = $3 WHERE id = $1`,
		targetID, t.Role, t.Status); err != nil {
		log.Println("❌ Erreur mise à jour statut vendeur:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}
	cache.InvalidateUser(targetID)

	if err := utils.NotifyUser(ctx, targetID, t.UserMessage, nil); err != nil {
		log.Println("⚠️ Notification utilisateur non créée:", err)
	}

	utils.LogAction(c, auditAction, utils.ResourceUser, targetID)

	log.Printf("✅ Décision vendeur appliquée (%s) sur %s", action, targetID)
	c.JSON(http.StatusOK, gin.H{
		"message":       "Décision appliquée",
		"role":          t.Role,
		"seller_status": t.Status,
	})
}
