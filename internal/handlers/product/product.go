package product

import (
	"database/sql"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"

	"ministore_back_end/internal/database"
	"ministore_back_end/internal/models"
	"ministore_back_end/internal/services"
)

const productColumns = `id, category_id, seller_id, name, slug, description, COALESCE(image_url, ''), price, stock, available, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.CategoryID, &p.SellerID, &p.Name, &p.Slug, &p.Description,
		&p.ImageURL, &p.Price, &p.Stock, &p.Available, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// ListProducts liste le catalogue disponible, filtrable par catégorie
// (slug) et recherche plein texte, paginé.
// GET /api/products?category=&q=&page=&limit=
func ListProducts(c *gin.Context) {
	categorySlug := c.Query("category")
	query := c.Query("q")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "12"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 12
	}
	offset := (page - 1) * limit

	sqlQuery := `SELECT ` + productColumns + ` FROM products WHERE available = TRUE`
	args := []any{}

	if categorySlug != "" {
		args = append(args, categorySlug)
		sqlQuery += ` AND category_id = (SELECT id FROM categories WHERE slug = $` + strconv.Itoa(len(args)) + `)`
	}

	if query != "" {
		// Recherche Elastic d'abord, retombée SQL ILIKE si indisponible
		ids, err := services.SearchProductIDs(query)
		if err == nil {
			if len(ids) == 0 {
				c.JSON(http.StatusOK, gin.H{"products": []models.Product{}, "page": page, "limit": limit})
				return
			}
			args = append(args, pq.Array(ids))
			sqlQuery += ` AND id = ANY($` + strconv.Itoa(len(args)) + `)`
		} else {
			args = append(args, "%"+query+"%")
			sqlQuery += ` AND name ILIKE $` + strconv.Itoa(len(args))
		}
	}

	args = append(args, limit)
	sqlQuery += ` ORDER BY name LIMIT $` + strconv.Itoa(len(args))
	args = append(args, offset)
	sqlQuery += ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := database.Postgres.QueryContext(c.Request.Context(), sqlQuery, args...)
	if err != nil {
		log.Println("❌ Erreur requête catalogue:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			log.Println("❌ Erreur scan produit:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
			return
		}
		products = append(products, p)
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"page":     page,
		"limit":    limit,
	})
}

// GetProductBySlug retourne la fiche d'un produit disponible.
// GET /api/products/:slug
func GetProductBySlug(c *gin.Context) {
	slug := c.Param("slug")

	p, err := scanProduct(database.StmtProductBySlug.QueryRowContext(c.Request.Context(), slug))
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}
	if err != nil {
		log.Println("❌ Erreur fiche produit:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	c.JSON(http.StatusOK, p)
}
