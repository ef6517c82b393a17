package cache

import (
	"context"
	"encoding/json"
	"time"

	"ministore_back_end/internal/database"
	"ministore_back_end/internal/models"
)

const (
	UserCacheTTL    = 5 * time.Minute
	ProductCacheTTL = 10 * time.Minute
)

// GetUserFromCache récupère un utilisateur depuis Redis ou PostgreSQL
func GetUserFromCache(userID string) (*models.User, error) {
	ctx := context.Background()
	key := "user:" + userID

	// 1. Essayer le cache Redis
	data, err := database.Redis.Get(ctx, key).Result()
	if err == nil {
		var user models.User
		if json.Unmarshal([]byte(data), &user) == nil {
			return &user, nil
		}
	}

	// 2. Récupérer de PostgreSQL
	var user models.User
	err = database.Postgres.QueryRowContext(ctx, `
		SELECT id, email, name, role, seller_status, provider, first_name, last_name, phone_number, address, postal_code, city, created_at
		FROM users WHERE id = $1`, userID).Scan(
		&user.ID, &user.Email, &user.Name, &user.Role, &user.SellerStatus, &user.Provider,
		&user.FirstName, &user.LastName, &user.PhoneNumber,
		&user.Address, &user.PostalCode, &user.City, &user.CreatedAt)
	if err != nil {
		return nil, err
	}

	// 3. Mettre en cache
	jsonData, _ := json.Marshal(user)
	database.Redis.Set(ctx, key, jsonData, UserCacheTTL)

	return &user, nil
}

// InvalidateUser purge l'entrée cache après un changement de rôle ou
// de profil, pour que les gardes relisent l'état courant.
func InvalidateUser(userID string) {
	database.Redis.Del(context.Background(), "user:"+userID)
}

// GetProductFromCache récupère un produit depuis Redis ou PostgreSQL
func GetProductFromCache(productID string) (*models.Product, error) {
	ctx := context.Background()
	key := "product:" + productID

	data, err := database.Redis.Get(ctx, key).Result()
	if err == nil {
		var product models.Product
		if json.Unmarshal([]byte(data), &product) == nil {
			return &product, nil
		}
	}

	var p models.Product
	err = database.StmtProductByID.QueryRowContext(ctx, productID).Scan(
		&p.ID, &p.CategoryID, &p.SellerID, &p.Name, &p.Slug, &p.Description,
		&p.ImageURL, &p.Price, &p.Stock, &p.Available, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	jsonData, _ := json.Marshal(p)
	database.Redis.Set(ctx, key, jsonData, ProductCacheTTL)

	return &p, nil
}

// InvalidateProduct purge un produit du cache (mise à jour vendeur,
// vente qui décrémente le stock).
func InvalidateProduct(productID string) {
	database.Redis.Del(context.Background(), "product:"+productID)
}
