package utils

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"ministore_back_end/internal/database"
	"ministore_back_end/internal/models"
)

// NotifyUser crée une notification pour un utilisateur donné,
// éventuellement liée à une commande. Appel explicite sur chaque site
// de mutation — aucune notification implicite.
func NotifyUser(ctx context.Context, recipientID, message string, orderID *string) error {
	_, err := database.Postgres.ExecContext(ctx, `
		INSERT INTO notifications (id, recipient_id, message, order_id, is_read, created_at)
		VALUES ($1, $2, $3, $4, FALSE, $5)`,
		uuid.NewString(), recipientID, message, orderID, time.Now())
	if err != nil {
		return fmt.Errorf("création notification: %w", err)
	}
	return nil
}

// NotifyAdmins envoie la même notification à chaque compte admin.
// Utilisé pour les demandes vendeur (candidature, annulation).
func NotifyAdmins(ctx context.Context, message string) error {
	rows, err := database.Postgres.QueryContext(ctx,
		`SELECT id FROM users WHERE role = $1`, models.RoleAdmin)
	if err != nil {
		return fmt.Errorf("liste des admins: %w", err)
	}
	defer rows.Close()

	var adminIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("scan admin: %w", err)
		}
		adminIDs = append(adminIDs, id)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, id := range adminIDs {
		if err := NotifyUser(ctx, id, message, nil); err != nil {
			log.Printf("❌ Notification admin %s: %v", id, err)
		}
	}
	return nil
}

// UnreadCount retourne le badge de notifications non lues.
func UnreadCount(ctx context.Context, userID string) (int, error) {
	var count int
	err := database.StmtUnreadCount.QueryRowContext(ctx, userID).Scan(&count)
	return count, err
}
