package invoice

import (
	"database/sql"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"ministore_back_end/internal/database"
	"ministore_back_end/internal/models"
	"ministore_back_end/internal/utils"
)

//
// 🧾 GET /api/orders/:id/invoice
// Régénère la facture PDF d'une commande et la renvoie en téléchargement.
//
func DownloadInvoice(c *gin.Context) {
	userID := c.GetString("user_id")
	orderID := c.Param("id")

	order, err := loadOrderWithItems(c, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
			return
		}
		log.Println("❌ Erreur lecture commande:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	if order.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	pdf, err := renderInvoice(order)
	if err != nil {
		log.Println("❌ Erreur génération facture:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Facture indisponible pour le moment"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="facture_ministore_`+order.ID+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

//
// 📤 POST /api/orders/:id/invoice/resend
// Renvoie l'email de confirmation avec la facture en pièce jointe.
//
func ResendInvoice(c *gin.Context) {
	userID := c.GetString("user_id")
	orderID := c.Param("id")

	order, err := loadOrderWithItems(c, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
			return
		}
		log.Println("❌ Erreur lecture commande:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	if order.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	pdf, err := renderInvoice(order)
	if err != nil {
		log.Println("⚠️ Facture PDF non générée:", err)
		pdf = nil
	}

	html := utils.GenerateOrderConfirmationHTML(order)
	if err := utils.SendConfirmationEmail(order.Email, "Votre facture MiniStore", html, pdf); err != nil {
		log.Println("❌ Email de facture non envoyé:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Email non envoyé"})
		return
	}

	log.Println("📤 Facture renvoyée pour la commande", order.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Facture envoyée par email"})
}

func renderInvoice(order models.Order) ([]byte, error) {
	qr, err := utils.GenerateCODPaymentQR(order.ID, order.TotalCost())
	if err != nil {
		return nil, err
	}
	return utils.RenderInvoicePDF(utils.GenerateInvoiceHTML(order, qr))
}

func loadOrderWithItems(c *gin.Context, orderID string) (models.Order, error) {
	ctx := c.Request.Context()

	var order models.Order
	err := database.Postgres.QueryRowContext(ctx, `
		SELECT id, user_id, first_name, last_name, email, address, postal_code, city, paid, created_at, updated_at
		FROM orders WHERE id = $1`, orderID).
		Scan(&order.ID, &order.UserID, &order.FirstName, &order.LastName, &order.Email,
			&order.Address, &order.PostalCode, &order.City, &order.Paid, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return order, err
	}

	rows, err := database.Postgres.QueryContext(ctx, `
		SELECT oi.id, oi.order_id, COALESCE(oi.product_id::text, ''), COALESCE(p.name, 'Produit supprimé'), oi.price, oi.quantity
		FROM order_items oi
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1`, orderID)
	if err != nil {
		return order, err
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName, &item.Price, &item.Quantity); err != nil {
			return order, err
		}
		order.Items = append(order.Items, item)
	}
	return order, rows.Err()
}
