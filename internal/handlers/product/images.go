package product

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ministore_back_end/internal/cache"
	"ministore_back_end/internal/database"
	"ministore_back_end/internal/services"
)

//
// 🖼️ POST /api/seller/products/:id/image
//
func UploadProductImage(c *gin.Context) {
	sellerID := c.GetString("user_id")
	productID := c.Param("id")

	p, err := ownedProduct(c, productID, sellerID)
	if err != nil {
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fichier image manquant"})
		return
	}

	url, err := services.UploadProductImage(file)
	if err != nil {
		log.Println("❌ Erreur upload MinIO:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de l'upload de l'image"})
		return
	}

	p.ImageURL = url
	p.UpdatedAt = time.Now()

	_, err = database.Postgres.ExecContext(c.Request.Context(),
		`UPDATE products SET image_url = $1, updated_at = $2 WHERE id = $3`,
		url, p.UpdatedAt, productID)
	if err != nil {
		log.Println("❌ Erreur enregistrement image:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	cache.InvalidateProduct(productID)
	services.IndexProduct(p)

	c.JSON(http.StatusOK, gin.H{
		"message":   "Image enregistrée",
		"image_url": url,
	})
}
