package user

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"ministore_back_end/internal/checkout"
	"ministore_back_end/internal/database"
	"ministore_back_end/internal/models"
	"ministore_back_end/internal/utils"
)

//
// 🧾 POST /api/checkout/select
// Mémorise les lignes cochées sur la page panier. Une sélection vide
// renvoie vers le panier au lieu de déclencher un checkout.
//
func ProceedToCheckout(c *gin.Context) {
	userID := c.GetString("user_id")

	var input struct {
		ProductIDs []string `json:"product_ids"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	ctx := c.Request.Context()
	userCart, err := Carts.Load(ctx, userID)
	if err != nil {
		log.Println("❌ Erreur lecture panier:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	if len(userCart.Select(input.ProductIDs)) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"success":  false,
			"redirect": "/cart",
			"message":  "Aucun article sélectionné",
		})
		return
	}

	if err := Carts.SaveSelection(ctx, userID, input.ProductIDs); err != nil {
		log.Println("❌ Erreur sauvegarde sélection:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"redirect": "/checkout",
	})
}

// emptySelectionResponse renvoie vers le panier, en distinguant le
// panier vide de la sélection qui ne correspond plus à rien.
func emptySelectionResponse(c *gin.Context, userID string) {
	message := "Votre panier est vide"
	if userCart, err := Carts.Load(c.Request.Context(), userID); err == nil && userCart.Count() > 0 {
		message = "Aucun article sélectionné pour le checkout"
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  false,
		"redirect": "/cart",
		"message":  message,
	})
}

//
// 📋 GET /api/checkout
// Lignes participant au checkout + formulaire prérempli depuis le profil.
//
func CheckoutPreview(c *gin.Context) {
	userID := c.GetString("user_id")
	ctx := c.Request.Context()

	items, total, err := Checkout.WorkingSet(ctx, userID)
	if err != nil {
		if errors.Is(err, checkout.ErrEmptySelection) {
			emptySelectionResponse(c, userID)
			return
		}
		log.Println("❌ Erreur préparation checkout:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	// Préremplissage depuis le profil, champs vides si non renseignés
	var form checkout.ShippingForm
	err = database.Postgres.QueryRowContext(ctx, `
		SELECT COALESCE(first_name, ''), COALESCE(last_name, ''), email,
		       COALESCE(address, ''), COALESCE(postal_code, ''), COALESCE(city, '')
		FROM users WHERE id = $1`, userID).
		Scan(&form.FirstName, &form.LastName, &form.Email, &form.Address, &form.PostalCode, &form.City)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		log.Println("⚠️ Profil non lisible pour le préremplissage:", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"total": total,
		"form":  form,
	})
}

//
// ✅ POST /api/checkout
// Matérialise la commande puis envoie facture + email en arrière-plan.
//
func PlaceOrder(c *gin.Context) {
	userID := c.GetString("user_id")

	var form checkout.ShippingForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Formulaire de livraison incomplet"})
		return
	}

	orderID, err := Checkout.PlaceOrder(c.Request.Context(), userID, form)
	if err != nil {
		if errors.Is(err, checkout.ErrEmptySelection) {
			emptySelectionResponse(c, userID)
			return
		}
		log.Println("❌ Erreur création commande:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Une erreur est survenue lors de la commande"})
		return
	}

	// Facture et email hors requête : la commande est déjà commitée
	go sendOrderConfirmation(orderID)

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"order_id": orderID,
		"redirect": "/orders/" + orderID,
	})
}

// sendOrderConfirmation recharge la commande puis envoie l'email de
// confirmation avec la facture PDF en pièce jointe. Tout échec est
// loggé, jamais remonté au client.
func sendOrderConfirmation(orderID string) {
	ctx := context.Background()

	order, err := loadOrder(ctx, orderID)
	if err != nil {
		log.Println("⚠️ Commande introuvable pour l'email de confirmation:", err)
		return
	}

	var pdf []byte
	qr, err := utils.GenerateCODPaymentQR(order.ID, order.TotalCost())
	if err != nil {
		log.Println("⚠️ QR de paiement non généré:", err)
	} else {
		pdf, err = utils.RenderInvoicePDF(utils.GenerateInvoiceHTML(order, qr))
		if err != nil {
			log.Println("⚠️ Facture PDF non générée:", err)
			pdf = nil
		}
	}

	html := utils.GenerateOrderConfirmationHTML(order)
	if err := utils.SendConfirmationEmail(order.Email, "Confirmation de votre commande MiniStore", html, pdf); err != nil {
		log.Println("⚠️ Email de confirmation non envoyé:", err)
		return
	}
	log.Println("📤 Email de confirmation envoyé pour la commande", order.ID)
}

// loadOrder charge une commande et ses lignes (nom produit inclus).
func loadOrder(ctx context.Context, orderID string) (models.Order, error) {
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
