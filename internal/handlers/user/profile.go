package user

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
// 👤 GET /api/profile
//
func Me(c *gin.Context) {
	userID := c.GetString("user_id")

	user, err := cache.GetUserFromCache(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		return
	}

	c.JSON(http.StatusOK, user)
}

//
// ✏️ PUT /api/profile
// Met à jour les infos de livraison et l'email (unicité par provider).
//
func UpdateProfile(c *gin.Context) {
	userID := c.GetString("user_id")

	var input struct {
		Name        string `json:"name"`
		Email       string `json:"email"`
		FirstName   string `json:"first_name"`
		LastName    string `json:"last_name"`
		PhoneNumber string `json:"phone_number"`
		Address     string `json:"address"`
		PostalCode  string `json:"postal_code"`
		City        string `json:"city"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	ctx := c.Request.Context()

	if input.Email != "" {
		var taken string
		err := database.Postgres.QueryRowContext(ctx, `
			SELECT id FROM users
			WHERE email = $1 AND provider = (SELECT provider FROM users WHERE id = $2) AND id <> $2`,
			input.Email, userID).Scan(&taken)
		if err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Cet email est déjà utilisé"})
			return
		}
		if !errors.Is(err, sql.ErrNoRows) {
			log.Println("❌ Erreur vérification email:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
			return
		}
	}

	_, err := database.Postgres.ExecContext(ctx, `
		UPDATE users SET
			name         = COALESCE(NULLIF($2, ''), name),
			email        = COALESCE(NULLIF($3, ''), email),
			first_name   = $4,
			last_name    = $5,
			phone_number = $6,
			address      = $7,
			postal_code  = $8,
			city         = $9
		WHERE id = $1`,
		userID, input.Name, input.Email, input.FirstName, input.LastName,
		input.PhoneNumber, input.Address, input.PostalCode, input.City)
	if err != nil {
		log.Println("❌ Erreur mise à jour profil:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour profil"})
		return
	}

	cache.InvalidateUser(userID)
	c.JSON(http.StatusOK, gin.H{"message": "Profil mis à jour avec succès"})
}

//
// 🔑 PUT /api/profile/password
//
func ChangePassword(c *gin.Context) {
	userID := c.GetString("user_id")

	var input struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le nouveau mot de passe doit contenir au moins 6 caractères"})
		return
	}

	ctx := c.Request.Context()

	var hash string
	err := database.Postgres.QueryRowContext(ctx,
		`SELECT password_hash FROM users WHERE id = $1 AND provider = 'local'`, userID).Scan(&hash)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Changement de mot de passe indisponible pour ce compte"})
		return
	}

	ok, err := utils.VerifyPassword(input.CurrentPassword, hash)
	if err != nil || !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Mot de passe actuel incorrect"})
		return
	}

	newHash, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		log.Println("❌ Erreur hash mot de passe:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	if _, err := database.Postgres.ExecContext(ctx,
		`UPDATE users SET password_hash = $2 WHERE id = $1`, userID, newHash); err != nil {
		log.Println("❌ Erreur mise à jour mot de passe:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Mot de passe mis à jour avec succès"})
}

//
// 🏪 POST /api/profile/become-seller
// Dépose une candidature vendeur. Les admins sont notifiés.
//
func BecomeSeller(c *gin.Context) {
	applySellerAction(c, sellers.ActionRequest)
}

//
// 🚪 POST /api/profile/cancel-seller
// Demande l'arrêt de vente. Les admins sont notifiés.
//
func CancelSeller(c *gin.Context) {
	applySellerAction(c, sellers.ActionRequestCancellation)
}

func applySellerAction(c *gin.Context, action sellers.Action) {
	userID := c.GetString("user_id")
	ctx := c.Request.Context()

	user, err := cache.GetUserFromCache(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		return
	}

	username := user.Name
	if username == "" {
		username = user.Email
	}

	t, err := sellers.Apply(action, user.Role, user.SellerStatus, username)
	if err != nil {
		if errors.Is(err, sellers.ErrInvalidTransition) {
			c.JSON(http.StatusConflict, gin.H{"error": "Action impossible dans l'état actuel de votre compte"})
			return
		}
		log.Println("❌ Erreur transition vendeur:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	if _, err := database.Postgres.ExecContext(ctx,
		`UPDATE users SET role = $2, seller_status = $3 WHERE id = $1`,
		userID, t.Role, t.Status); err != nil {
		log.Println("❌ Erreur mise à jour statut vendeur:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}
	cache.InvalidateUser(userID)

	if err := utils.NotifyUser(ctx, userID, t.UserMessage, nil); err != nil {
		log.Println("⚠️ Notification utilisateur non créée:", err)
	}
	if t.NotifyAdmins {
		if err := utils.NotifyAdmins(ctx, t.AdminMessage); err != nil {
			log.Println("⚠️ Notification admins non créée:", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       t.UserMessage,
		"role":          t.Role,
		"seller_status": t.Status,
	})
}
