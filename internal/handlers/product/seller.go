package product

import (
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ministore_back_end/internal/cache"
	"ministore_back_end/internal/database"
	"ministore_back_end/internal/models"
	"ministore_back_end/internal/services"
)

//
// 🟢 POST /api/seller/products
//
func CreateProduct(c *gin.Context) {
	sellerID := c.GetString("user_id")

	var req struct {
		CategoryID  string  `json:"category_id" binding:"required"`
		Name        string  `json:"name" binding:"required"`
		Slug        string  `json:"slug"`
		Description string  `json:"description"`
		Price       float64 `json:"price" binding:"required,gt=0"`
		Stock       int     `json:"stock" binding:"gte=0"`
		Available   *bool   `json:"available"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides", "details": err.Error()})
		return
	}

	if req.Slug == "" {
		req.Slug = Slugify(req.Name)
	}
	available := true
	if req.Available != nil {
		available = *req.Available
	}

	now := time.Now()
	p := models.Product{
		ID:          uuid.NewString(),
		CategoryID:  req.CategoryID,
		SellerID:    sellerID,
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Available:   available,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := database.Postgres.ExecContext(c.Request.Context(), `
		INSERT INTO products (id, category_id, seller_id, name, slug, description, price, stock, available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)`,
		p.ID, p.CategoryID, p.SellerID, p.Name, p.Slug, p.Description,
		p.Price, p.Stock, p.Available, now)
	if err != nil {
		log.Println("❌ Erreur création produit:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la création du produit"})
		return
	}

	services.IndexProduct(p)

	log.Printf("✅ Produit créé: %s par %s", p.Name, sellerID)
	c.JSON(http.StatusCreated, gin.H{
		"message": "Produit créé avec succès",
		"product": p,
	})
}

//
// ✏️ PUT /api/seller/products/:id
//
func UpdateProduct(c *gin.Context) {
	sellerID := c.GetString("user_id")
	productID := c.Param("id")

	// Le vendeur ne modifie que ses propres produits
	existing, err := ownedProduct(c, productID, sellerID)
	if err != nil {
		return
	}

	var req struct {
		CategoryID  *string  `json:"category_id"`
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
		Stock       *int     `json:"stock"`
		Available   *bool    `json:"available"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	if req.CategoryID != nil {
		existing.CategoryID = *req.CategoryID
	}
	if req.Name != nil {
		existing.Name = *req.Name
	}
	if req.Description != nil {
		existing.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Prix invalide"})
			return
		}
		existing.Price = *req.Price
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Stock invalide"})
			return
		}
		existing.Stock = *req.Stock
	}
	if req.Available != nil {
		existing.Available = *req.Available
	}
	existing.UpdatedAt = time.Now()

	_, err = database.Postgres.ExecContext(c.Request.Context(), `
		UPDATE products SET category_id = $1, name = $2, description = $3, price = $4, stock = $5, available = $6, updated_at = $7
		WHERE id = $8 AND seller_id = $9`,
		existing.CategoryID, existing.Name, existing.Description, existing.Price,
		existing.Stock, existing.Available, existing.UpdatedAt, productID, sellerID)
	if err != nil {
		log.Println("❌ Erreur mise à jour produit:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la mise à jour"})
		return
	}

	cache.InvalidateProduct(productID)
	services.IndexProduct(existing)

	c.JSON(http.StatusOK, gin.H{
		"message": "Produit mis à jour",
		"product": existing,
	})
}

//
// ❌ DELETE /api/seller/products/:id
//
func DeleteProduct(c *gin.Context) {
	sellerID := c.GetString("user_id")
	productID := c.Param("id")

	res, err := database.Postgres.ExecContext(c.Request.Context(),
		`DELETE FROM products WHERE id = $1 AND seller_id = $2`, productID, sellerID)
	if err != nil {
		log.Println("❌ Erreur suppression produit:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la suppression"})
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	cache.InvalidateProduct(productID)
	services.RemoveProductFromIndex(productID)

	c.JSON(http.StatusOK, gin.H{"message": "Produit supprimé"})
}

// SellerDashboard liste les produits du vendeur, les commandes qui les
// contiennent et quelques statistiques (CA limité à ses propres lignes).
// GET /api/seller/dashboard
func SellerDashboard(c *gin.Context) {
	sellerID := c.GetString("user_id")
	ctx := c.Request.Context()

	rows, err := database.Postgres.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE seller_id = $1 ORDER BY created_at DESC`, sellerID)
	if err != nil {
		log.Println("❌ Erreur produits vendeur:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
			return
		}
		products = append(products, p)
	}

	orderRows, err := database.Postgres.QueryContext(ctx, `
		SELECT DISTINCT o.id, o.first_name, o.last_name, o.email, o.address, o.postal_code, o.city, o.paid, o.created_at
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.id
		JOIN products p ON p.id = oi.product_id
		WHERE p.seller_id = $1
		ORDER BY o.created_at DESC`, sellerID)
	if err != nil {
		log.Println("❌ Erreur commandes vendeur:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}
	defer orderRows.Close()

	orders := []models.Order{}
	for orderRows.Next() {
		var o models.Order
		if err := orderRows.Scan(&o.ID, &o.FirstName, &o.LastName, &o.Email,
			&o.Address, &o.PostalCode, &o.City, &o.Paid, &o.CreatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
			return
		}
		orders = append(orders, o)
	}

	// CA : somme des lignes du vendeur uniquement
	var revenue float64
	err = database.Postgres.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(oi.price * oi.quantity), 0)
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE p.seller_id = $1`, sellerID).Scan(&revenue)
	if err != nil {
		log.Println("❌ Erreur CA vendeur:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"orders":   orders,
		"stats": gin.H{
			"products": len(products),
			"orders":   len(orders),
			"revenue":  revenue,
		},
	})
}

// ownedProduct charge un produit et vérifie qu'il appartient au
// vendeur. Écrit la réponse d'erreur et retourne err non nil sinon.
func ownedProduct(c *gin.Context, productID, sellerID string) (models.Product, error) {
	p, err := scanProduct(database.StmtProductByID.QueryRowContext(c.Request.Context(), productID))
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return p, err
	}
	if err != nil {
		log.Println("❌ Erreur lecture produit:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return p, err
	}
	if p.SellerID != sellerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Ce produit ne vous appartient pas"})
		return p, sql.ErrNoRows
	}
	return p, nil
}
