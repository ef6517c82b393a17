package product

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ministore_back_end/internal/database"
	"ministore_back_end/internal/models"
)

// ListCategories retourne toutes les catégories, triées par nom.
// GET /api/categories
func ListCategories(c *gin.Context) {
	rows, err := database.Postgres.QueryContext(c.Request.Context(),
		`SELECT id, name, slug FROM categories ORDER BY name`)
	if err != nil {
		log.Println("❌ Erreur liste catégories:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var cat models.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Slug); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
			return
		}
		categories = append(categories, cat)
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// CreateCategory crée une catégorie (admin).
// POST /api/admin/categories
func CreateCategory(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
		Slug string `json:"slug"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	if req.Slug == "" {
		req.Slug = Slugify(req.Name)
	}

	cat := models.Category{ID: uuid.NewString(), Name: req.Name, Slug: req.Slug}

	_, err := database.Postgres.ExecContext(c.Request.Context(),
		`INSERT INTO categories (id, name, slug) VALUES ($1, $2, $3)`,
		cat.ID, cat.Name, cat.Slug)
	if err != nil {
		log.Println("❌ Erreur création catégorie:", err)
		c.JSON(http.StatusConflict, gin.H{"error": "Ce slug de catégorie existe déjà"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Catégorie créée avec succès",
		"category": cat,
	})
}
