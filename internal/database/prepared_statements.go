package database

import (
	"database/sql"
	"log"
)

// Statements préparés pour les chemins chauds (fiche produit, badge
// de notifications). Initialisés une fois au démarrage.
var (
	StmtProductByID   *sql.Stmt
	StmtProductBySlug *sql.Stmt
	StmtUnreadCount   *sql.Stmt
)

const productColumns = `id, category_id, seller_id, name, slug, description, COALESCE(image_url, ''), price, stock, available, created_at, updated_at`

func InitPreparedStatements() {
	var err error

	StmtProductByID, err = Postgres.Prepare(
		`SELECT ` + productColumns + ` FROM products WHERE id = $1`)
	if err != nil {
		log.Fatal("❌ Préparation requête produit par id:", err)
	}

	StmtProductBySlug, err = Postgres.Prepare(
		`SELECT ` + productColumns + ` FROM products WHERE slug = $1 AND available = TRUE`)
	if err != nil {
		log.Fatal("❌ Préparation requête produit par slug:", err)
	}

	StmtUnreadCount, err = Postgres.Prepare(
		`SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND is_read = FALSE`)
	if err != nil {
		log.Fatal("❌ Préparation requête notifications non lues:", err)
	}

	log.Println("✅ Prepared statements initialisés")
}
