package admin

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"ministore_back_end/internal/database"
)

type auditLogView struct {
	ID         string    `json:"id"`
	ActorID    string    `json:"actor_id"`
	Action     string    `json:"action"`
	Resource   string    `json:"resource"`
	ResourceID string    `json:"resource_id"`
	CreatedAt  time.Time `json:"created_at"`
}

//
// 🧾 GET /api/admin/audit
// Logs d'audit avec filtres optionnels (actor_id, action, resource).
//
func GetAuditLogs(c *gin.Context) {
	actorID := c.Query("actor_id")
	action := c.Query("action")
	resource := c.Query("resource")

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if limit < 1 || limit > 500 {
		limit = 100
	}

	// Requête construite dynamiquement selon les filtres présents
	query := `SELECT id, COALESCE(actor_id::text, ''), action, resource, resource_id, created_at
			  FROM audit_logs`
	conditions := []string{}
	args := []interface{}{}

	if actorID != "" {
		args = append(args, actorID)
		conditions = append(conditions, "actor_id = $"+strconv.Itoa(len(args)))
	}
	if action != "" {
		args = append(args, action)
		conditions = append(conditions, "action = $"+strconv.Itoa(len(args)))
	}
	if resource != "" {
		args = append(args, resource)
		conditions = append(conditions, "resource = $"+strconv.Itoa(len(args)))
	}

	if len(conditions) > 0 {
		query += " WHERE " + conditions[0]
		for i := 1; i < len(conditions); i++ {
			query += " AND " + conditions[i]
		}
	}

	args = append(args, limit)
	query += " ORDER BY created_at DESC LIMIT $" + strconv.Itoa(len(args))

	rows, err := database.Postgres.QueryContext(c.Request.Context(), query, args...)
	if err != nil {
		log.Println("❌ Erreur lecture logs audit:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}
	defer rows.Close()

	logs := []auditLogView{}
	for rows.Next() {
		var l auditLogView
		if err := rows.Scan(&l.ID, &l.ActorID, &l.Action, &l.Resource, &l.ResourceID, &l.CreatedAt); err != nil {
			log.Println("❌ Erreur scan log audit:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
			return
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		log.Println("❌ Erreur lecture logs audit:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs":  logs,
		"total": len(logs),
	})
}
