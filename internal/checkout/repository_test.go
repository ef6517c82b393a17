package checkout

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ministore_back_end/internal/database"
	"ministore_back_end/internal/models"
)

func TestMain(m *testing.M) {
	// Client Redis jamais connecté : les purges cache post-commit
	// échouent vite et sont ignorées, comme en production dégradée.
	database.Redis = redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	os.Exit(m.Run())
}

func newMockDB(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

// Chaque ligne vendue notifie son vendeur dans la même transaction que
// la commande — sauf quand l'acheteur achète son propre produit.
func TestCreateOrderNotifiesSellersInTransaction(t *testing.T) {
	repo, mock := newMockDB(t)

	items := []WorkingSetItem{
		{Product: models.Product{ID: "P1", Name: "Stylo", SellerID: "vendeur-1", Price: 10}, Quantity: 2},
		{Product: models.Product{ID: "P2", Name: "Cahier", SellerID: "acheteur-1", Price: 5}, Quantity: 1},
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").WillReturnResult(sqlmock.NewResult(0, 1))

	// P1 : vendeur tiers → ligne, stock, notification de vente
	mock.ExpectQuery("SELECT price, stock FROM products").
		WillReturnRows(sqlmock.NewRows([]string{"price", "stock"}).AddRow(10.0, 5))
	mock.ExpectExec("INSERT INTO order_items").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE products SET stock").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO notifications").
		WithArgs(sqlmock.AnyArg(), "vendeur-1", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// P2 : l'acheteur est le vendeur → pas de notification de vente
	mock.ExpectQuery("SELECT price, stock FROM products").
		WillReturnRows(sqlmock.NewRows([]string{"price", "stock"}).AddRow(5.0, 3))
	mock.ExpectExec("INSERT INTO order_items").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE products SET stock").WillReturnResult(sqlmock.NewResult(0, 1))

	// Notification acheteur, puis commit
	mock.ExpectExec("INSERT INTO notifications").
		WithArgs(sqlmock.AnyArg(), "acheteur-1", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	orderID, err := repo.CreateOrder(context.Background(), "acheteur-1", validForm(), items)
	require.NoError(t, err)
	assert.NotEmpty(t, orderID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Le stock relu FOR UPDATE bloque la vente sous zéro et annule toute
// la transaction.
func TestCreateOrderInsufficientStockRollsBack(t *testing.T) {
	repo, mock := newMockDB(t)

	items := []WorkingSetItem{
		{Product: models.Product{ID: "P1", Name: "Stylo", SellerID: "vendeur-1", Price: 10}, Quantity: 4},
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT price, stock FROM products").
		WillReturnRows(sqlmock.NewRows([]string{"price", "stock"}).AddRow(10.0, 3))
	mock.ExpectRollback()

	_, err := repo.CreateOrder(context.Background(), "u1", validForm(), items)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stock insuffisant")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderVanishedProductRollsBack(t *testing.T) {
	repo, mock := newMockDB(t)

	items := []WorkingSetItem{
		{Product: models.Product{ID: "fantome", Name: "Fantôme", Price: 10}, Quantity: 1},
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT price, stock FROM products").WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.CreateOrder(context.Background(), "u1", validForm(), items)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "produit introuvable")
	assert.NoError(t, mock.ExpectationsWereMet())
}
