package user

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/facebook"
	"github.com/markbates/goth/providers/google"

	"ministore_back_end/internal/database"
	"ministore_back_end/internal/models"
	"ministore_back_end/internal/utils"
)

// ================== AUTH SOCIALE ==================

func BeginAuth(c *gin.Context) {
	provider := c.Param("provider")
	if provider == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "aucun provider spécifié"})
		return
	}

	redirectURL := c.Query("redirect_url")
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	callbackURL := baseURL + "/api/auth/" + provider + "/callback"

	switch provider {
	case "google":
		goth.UseProviders(google.New(
			os.Getenv("GOOGLE_CLIENT_ID"),
			os.Getenv("GOOGLE_CLIENT_SECRET"),
			callbackURL,
		))
	case "facebook":
		goth.UseProviders(facebook.New(
			os.Getenv("FACEBOOK_CLIENT_ID"),
			os.Getenv("FACEBOOK_CLIENT_SECRET"),
			callbackURL,
		))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Provider non supporté"})
		return
	}

	state := generateRandomState()
	if redirectURL != "" {
		_ = database.RedisClient.Set(context.Background(), "oauth_redirect:"+state, redirectURL, 10*time.Minute).Err()
	}

	q := c.Request.URL.Query()
	q.Set("provider", provider)
	q.Set("state", state)
	c.Request.URL.RawQuery = q.Encode()
	gothic.BeginAuthHandler(c.Writer, c.Request)
}

func generateRandomState() string {
	b := make([]byte, 32)
	rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}

func CallbackAuth(c *gin.Context) {
	provider := c.Param("provider")
	state := c.Query("state")

	q := c.Request.URL.Query()
	q.Set("provider", provider)
	c.Request.URL.RawQuery = q.Encode()

	gothUser, err := gothic.CompleteUserAuth(c.Writer, c.Request)
	if err != nil {
		log.Println("❌ Erreur callback OAuth:", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Authentification OAuth échouée"})
		return
	}

	user, err := findOrCreateOAuthUser(c.Request.Context(), provider, gothUser.Email, gothUser.Name)
	if err != nil {
		log.Println("❌ Erreur utilisateur OAuth:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	token, err := utils.GenerateJWT(user)
	if err != nil {
		log.Println("❌ Erreur génération JWT:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	ctx := context.Background()
	redirectURI, _ := database.RedisClient.Get(ctx, "oauth_redirect:"+state).Result()
	_ = database.RedisClient.Del(ctx, "oauth_redirect:"+state).Err()

	if redirectURI == "" {
		redirectURI = os.Getenv("FRONTEND_URL")
		if redirectURI == "" {
			redirectURI = "http://localhost:5173"
		}
	}

	sep := "?"
	if strings.Contains(redirectURI, "?") {
		sep = "&"
	}
	c.Redirect(http.StatusTemporaryRedirect, redirectURI+sep+"token="+url.QueryEscape(token))
}

// findOrCreateOAuthUser retrouve l'utilisateur par email+provider, sinon
// par email (fusion de compte local), sinon crée un client.
func findOrCreateOAuthUser(ctx context.Context, provider, email, name string) (models.User, error) {
	var user models.User

	err := database.Postgres.QueryRowContext(ctx, `
		SELECT id, email, name, role, seller_status
		FROM users WHERE email = $1 AND provider = $2`, email, provider).
		Scan(&user.ID, &user.Email, &user.Name, &user.Role, &user.SellerStatus)
	if err == nil {
		log.Println("✅ Utilisateur OAuth existant:", email)
		return user, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return user, err
	}

	// Compte local existant avec le même email : on rattache le provider
	err = database.Postgres.QueryRowContext(ctx, `
		UPDATE users SET provider = $2, name = CASE WHEN name = '' THEN $3 ELSE name END
		WHERE email = $1 AND provider = 'local'
		RETURNING id, email, name, role, seller_status`, email, provider, name).
		Scan(&user.ID, &user.Email, &user.Name, &user.Role, &user.SellerStatus)
	if err == nil {
		log.Printf("🔄 Compte existant fusionné avec provider %s : %s", provider, email)
		return user, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return user, err
	}

	user = models.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		Provider:     provider,
		Role:         models.RoleCustomer,
		SellerStatus: models.SellerStatusNone,
	}
	_, err = database.Postgres.ExecContext(ctx, `
		INSERT INTO users (id, email, name, provider, role, seller_status)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.Email, user.Name, user.Provider, user.Role, user.SellerStatus)
	if err != nil {
		return user, err
	}
	log.Printf("🆕 Utilisateur OAuth créé (%s) : %s", provider, email)
	return user, nil
}
