package checkout

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"ministore_back_end/internal/cache"
	"ministore_back_end/internal/models"
	"ministore_back_end/internal/services"
)

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

func (r *PostgresRepository) ProductsByIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, category_id, seller_id, name, slug, description, COALESCE(image_url, ''), price, stock, available, created_at, updated_at
		FROM products WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("requête produits: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.CategoryID, &p.SellerID, &p.Name, &p.Slug, &p.Description,
			&p.ImageURL, &p.Price, &p.Stock, &p.Available, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan produit: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// CreateOrder exécute toutes les écritures du checkout dans une seule
// transaction : commande, lignes (prix relu FOR UPDATE au moment du
// commit), décrément de stock, notification acheteur et notifications
// de vente aux vendeurs concernés. Tout échec annule l'ensemble.
func (r *PostgresRepository) CreateOrder(ctx context.Context, userID string, form ShippingForm, items []WorkingSetItem) (string, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("ouverture transaction: %w", err)
	}
	defer tx.Rollback()

	orderID := uuid.NewString()
	now := time.Now()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, user_id, first_name, last_name, email, address, postal_code, city, paid, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE, $9, $9)`,
		orderID, userID, form.FirstName, form.LastName, form.Email,
		form.Address, form.PostalCode, form.City, now)
	if err != nil {
		return "", fmt.Errorf("insertion commande: %w", err)
	}

	for _, item := range items {
		// Prix figé depuis la ligne produit courante, pas depuis un
		// prix affiché plus tôt.
		var price float64
		var stock int
		err = tx.QueryRowContext(ctx,
			`SELECT price, stock FROM products WHERE id = $1 FOR UPDATE`,
			item.Product.ID).Scan(&price, &stock)
		if err == sql.ErrNoRows {
			return "", fmt.Errorf("produit introuvable: %s", item.Product.ID)
		}
		if err != nil {
			return "", fmt.Errorf("lecture produit %s: %w", item.Product.ID, err)
		}
		if stock < item.Quantity {
			return "", fmt.Errorf("stock insuffisant pour %s (%d disponibles, %d demandés)",
				item.Product.Name, stock, item.Quantity)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (id, order_id, product_id, price, quantity)
			VALUES ($1, $2, $3, $4, $5)`,
			uuid.NewString(), orderID, item.Product.ID, price, item.Quantity)
		if err != nil {
			return "", fmt.Errorf("insertion ligne commande: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE products SET stock = stock - $1, updated_at = $2 WHERE id = $3`,
			item.Quantity, now, item.Product.ID)
		if err != nil {
			return "", fmt.Errorf("mise à jour stock: %w", err)
		}

		// Le vendeur est prévenu de chaque ligne vendue, sauf s'il
		// achète son propre produit.
		if sellerID := item.Product.SellerID; sellerID != "" && sellerID != userID {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO notifications (id, recipient_id, message, order_id, is_read, created_at)
				VALUES ($1, $2, $3, $4, FALSE, $5)`,
				uuid.NewString(), sellerID,
				fmt.Sprintf("Vous avez fait une vente ! %dx %s vient d'être acheté.",
					item.Quantity, item.Product.Name),
				orderID, now)
			if err != nil {
				return "", fmt.Errorf("notification vendeur: %w", err)
			}
		}
	}

	// Notification écrite dans la même transaction que la commande.
	_, err = tx.ExecContext(ctx, `
		INSERT INTO notifications (id, recipient_id, message, order_id, is_read, created_at)
		VALUES ($1, $2, $3, $4, FALSE, $5)`,
		uuid.NewString(), userID,
		"Votre commande a bien été enregistrée (paiement à la livraison).",
		orderID, now)
	if err != nil {
		return "", fmt.Errorf("insertion notification: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit checkout: %w", err)
	}

	// Le stock a bougé : purge du cache et réindexation Elastic des
	// produits commandés.
	for _, item := range items {
		cache.InvalidateProduct(item.Product.ID)
		p := item.Product
		p.Stock -= item.Quantity
		services.IndexProduct(p)
	}
	return orderID, nil
}
