package user

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"

	"ministore_back_end/internal/cache"
	"ministore_back_end/internal/cart"
	"ministore_back_end/internal/database"
	"ministore_back_end/internal/models"
)

// priceCart relit les prix courants en base et construit les lignes
// affichables. Les ids périmés (produit disparu) sont ignorés.
func priceCart(ctx context.Context, c cart.Cart) ([]models.CartLine, float64, error) {
	lines := []models.CartLine{}
	total := 0.0

	ids := c.ProductIDs()
	if len(ids) == 0 {
		return lines, 0, nil
	}

	rows, err := database.Postgres.QueryContext(ctx, `
		SELECT id, category_id, seller_id, name, slug, description, COALESCE(image_url, ''), price, stock, available, created_at, updated_at
		FROM products WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.CategoryID, &p.SellerID, &p.Name, &p.Slug, &p.Description,
			&p.ImageURL, &p.Price, &p.Stock, &p.Available, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, err
		}
		qty, ok := c.Quantity(p.ID)
		if !ok {
			continue
		}
		itemTotal := p.Price * float64(qty)
		total += itemTotal
		lines = append(lines, models.CartLine{
			Product:   p,
			Quantity:  qty,
			Price:     p.Price,
			ItemTotal: itemTotal,
		})
	}
	return lines, total, rows.Err()
}

//
// 🛒 GET /api/cart
//
func GetCart(c *gin.Context) {
	userID := c.GetString("user_id")
	ctx := c.Request.Context()

	userCart, err := Carts.Load(ctx, userID)
	if err != nil {
		log.Println("❌ Erreur lecture panier:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture panier"})
		return
	}

	lines, total, err := priceCart(ctx, userCart)
	if err != nil {
		log.Println("❌ Erreur valorisation panier:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":      lines,
		"total":      total,
		"cart_count": userCart.Count(),
	})
}

//
// 🟢 POST /api/cart/add
//
func AddToCart(c *gin.Context) {
	userID := c.GetString("user_id")

	var input struct {
		ProductID string `json:"product_id" binding:"required"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	// Le produit doit exister et être disponible
	product, err := cache.GetProductFromCache(input.ProductID)
	if err != nil || !product.Available {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	ctx := c.Request.Context()
	userCart, err := Carts.Load(ctx, userID)
	if err != nil {
		log.Println("❌ Erreur lecture panier:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture panier"})
		return
	}

	userCart.Add(input.ProductID, input.Quantity)

	if err := Carts.Save(ctx, userID, userCart); err != nil {
		log.Println("❌ Erreur sauvegarde panier:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur sauvegarde panier"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"cart_count": userCart.Count(),
	})
}

//
// 🔁 POST /api/cart/update/:productId
//
func UpdateCartItem(c *gin.Context) {
	userID := c.GetString("user_id")
	productID := c.Param("productId")

	var input struct {
		Quantity string `json:"quantity"`
		Action   string `json:"action"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false})
		return
	}

	ctx := c.Request.Context()
	userCart, err := Carts.Load(ctx, userID)
	if err != nil {
		log.Println("❌ Erreur lecture panier:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false})
		return
	}

	if _, ok := userCart.Quantity(productID); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false})
		return
	}

	switch {
	case input.Quantity != "":
		// Quantité non exploitable : on conserve l'ancienne valeur
		if qty, err := strconv.Atoi(input.Quantity); err == nil {
			userCart.SetQuantity(productID, qty)
		}
	case input.Action == "increase":
		userCart.Adjust(productID, 1)
	case input.Action == "decrease":
		userCart.Adjust(productID, -1)
	}

	if err := Carts.Save(ctx, userID, userCart); err != nil {
		log.Println("❌ Erreur sauvegarde panier:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false})
		return
	}

	// Recalcul de la ligne et des totaux avec les prix courants
	lines, cartTotal, err := priceCart(ctx, userCart)
	if err != nil {
		log.Println("❌ Erreur valorisation panier:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false})
		return
	}

	quantity, _ := userCart.Quantity(productID)
	itemTotal := 0.0
	for _, line := range lines {
		if line.Product.ID == productID {
			itemTotal = line.ItemTotal
			break
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"quantity":   quantity,
		"item_total": itemTotal,
		"cart_total": cartTotal,
		"cart_count": userCart.Count(),
	})
}

//
// ❌ DELETE /api/cart/:productId
//
func RemoveFromCart(c *gin.Context) {
	userID := c.GetString("user_id")
	productID := c.Param("productId")

	ctx := c.Request.Context()
	userCart, err := Carts.Load(ctx, userID)
	if err != nil {
		log.Println("❌ Erreur lecture panier:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture panier"})
		return
	}

	userCart.Remove(productID)

	if err := Carts.Save(ctx, userID, userCart); err != nil {
		log.Println("❌ Erreur sauvegarde panier:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur sauvegarde panier"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"cart_count": userCart.Count(),
	})
}
