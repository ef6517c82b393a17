package utils

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ministore_back_end/internal/database"
)

// Actions auditées (espace admin)
const (
	ActionSellerApprove            = "seller.approve"
	ActionSellerDeny               = "seller.deny"
	ActionSellerCancellationAccept = "seller.cancellation_accept"
	ActionSellerRevoke             = "seller.revoke"

	ResourceUser = "user"
)

// LogAction trace une action admin dans audit_logs. Best effort :
// un échec d'audit ne fait jamais échouer l'action elle-même.
func LogAction(c *gin.Context, action, resource, resourceID string) {
	actorID := c.GetString("user_id")

	_, err := database.Postgres.ExecContext(context.Background(), `
		INSERT INTO audit_logs (id, actor_id, action, resource, resource_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.NewString(), actorID, action, resource, resourceID, time.Now())
	if err != nil {
		log.Printf("⚠️ Audit non enregistré (%s %s/%s): %v", action, resource, resourceID, err)
	}
}
