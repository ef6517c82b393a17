package user

import (
	"database/sql"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ministore_back_end/internal/database"
	"ministore_back_end/internal/models"
	"ministore_back_end/internal/utils"
)

// ================== AUTH LOCALE ==================

func Register(c *gin.Context) {
	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email ou mot de passe invalide (6 caractères minimum)"})
		return
	}

	ctx := c.Request.Context()

	// email déjà pris pour un compte local ?
	var existing string
	err := database.Postgres.QueryRowContext(ctx,
		`SELECT id FROM users WHERE email = $1 AND provider = 'local'`, input.Email).Scan(&existing)
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Un compte avec cet email existe déjà"})
		return
	}
	if !errors.Is(err, sql.ErrNoRows) {
		log.Println("❌ Erreur vérification email:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		log.Println("❌ Erreur hash mot de passe:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	user := models.User{
		ID:           uuid.NewString(),
		Email:        input.Email,
		Name:         input.Name,
		Provider:     "local",
		Role:         models.RoleCustomer,
		SellerStatus: models.SellerStatusNone,
	}

	_, err = database.Postgres.ExecContext(ctx, `
		INSERT INTO users (id, email, name, password_hash, provider, role, seller_status)
		VALUES ($1, $2, $3, $4, 'local', $5, $6)`,
		user.ID, user.Email, user.Name, hash, user.Role, user.SellerStatus)
	if err != nil {
		log.Println("❌ Erreur création utilisateur:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création utilisateur"})
		return
	}

	token, err := utils.GenerateJWT(user)
	if err != nil {
		log.Println("❌ Erreur génération JWT:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	log.Println("✅ Nouvel utilisateur inscrit:", user.Email)
	c.JSON(http.StatusCreated, gin.H{
		"token":   token,
		"user_id": user.ID,
		"email":   user.Email,
		"name":    user.Name,
		"role":    user.Role,
	})
}

func Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	var user models.User
	var hash string
	err := database.Postgres.QueryRowContext(c.Request.Context(), `
		SELECT id, email, name, password_hash, role, seller_status
		FROM users WHERE email = $1 AND provider = 'local'`, input.Email).
		Scan(&user.ID, &user.Email, &user.Name, &hash, &user.Role, &user.SellerStatus)

	// Même message que le mot de passe soit faux ou le compte absent
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
		return
	}
	ok, err := utils.VerifyPassword(input.Password, hash)
	if err != nil || !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
		return
	}

	token, err := utils.GenerateJWT(user)
	if err != nil {
		log.Println("❌ Erreur génération JWT:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":         token,
		"user_id":       user.ID,
		"email":         user.Email,
		"name":          user.Name,
		"role":          user.Role,
		"seller_status": user.SellerStatus,
	})
}
