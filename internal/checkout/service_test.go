package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ministore_back_end/internal/cart"
	"ministore_back_end/internal/models"
)

// memStore implémente cart.Store en mémoire pour les tests.
type memStore struct {
	carts      map[string]cart.Cart
	selections map[string][]string
	saveErr    error
}

func newMemStore() *memStore {
	return &memStore{
		carts:      map[string]cart.Cart{},
		selections: map[string][]string{},
	}
}

func (m *memStore) Load(_ context.Context, userID string) (cart.Cart, error) {
	c, ok := m.carts[userID]
	if !ok {
		return cart.New(), nil
	}
	copied := cart.New()
	for id := range c {
		copied[id] = c[id]
	}
	return copied, nil
}

func (m *memStore) Save(_ context.Context, userID string, c cart.Cart) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.carts[userID] = c
	return nil
}

func (m *memStore) SaveSelection(_ context.Context, userID string, ids []string) error {
	m.selections[userID] = ids
	return nil
}

func (m *memStore) LoadSelection(_ context.Context, userID string) ([]string, error) {
	return m.selections[userID], nil
}

func (m *memStore) ClearSelection(_ context.Context, userID string) error {
	delete(m.selections, userID)
	return nil
}

// mockRepo simule le dépôt Postgres : catalogue en mémoire, commandes
// capturées avec prix figés au moment de l'appel.
type mockRepo struct {
	products  map[string]models.Product
	orders    map[string][]models.OrderItem
	createErr error
}

func newMockRepo(products ...models.Product) *mockRepo {
	r := &mockRepo{
		products: map[string]models.Product{},
		orders:   map[string][]models.OrderItem{},
	}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *mockRepo) ProductsByIDs(_ context.Context, ids []string) ([]models.Product, error) {
	var out []models.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *mockRepo) CreateOrder(_ context.Context, _ string, _ ShippingForm, items []WorkingSetItem) (string, error) {
	if r.createErr != nil {
		return "", r.createErr
	}
	orderID := "order-1"
	var lines []models.OrderItem
	for _, item := range items {
		lines = append(lines, models.OrderItem{
			OrderID:   orderID,
			ProductID: item.Product.ID,
			Price:     r.products[item.Product.ID].Price,
			Quantity:  item.Quantity,
		})
	}
	r.orders[orderID] = lines
	return orderID, nil
}

func validForm() ShippingForm {
	return ShippingForm{
		FirstName:  "Jean",
		LastName:   "Dupont",
		Email:      "jean@example.com",
		Address:    "1 rue de la Paix",
		PostalCode: "75002",
		City:       "Paris",
	}
}

func seedCart(store *memStore, userID string, entries map[string]int) {
	c := cart.New()
	for id, qty := range entries {
		c.Add(id, qty)
	}
	store.carts[userID] = c
}

// Exemple de la vue panier : {P1:2, P2:1}, P1=10€, P2=5€, sélection P1
// seul → commande à 20€, panier résiduel {P2:1}.
func TestPlaceOrderPartialSelection(t *testing.T) {
	store := newMemStore()
	repo := newMockRepo(
		models.Product{ID: "P1", Name: "Stylo", Price: 10, Stock: 10},
		models.Product{ID: "P2", Name: "Cahier", Price: 5, Stock: 10},
	)
	svc := NewService(repo, store)
	ctx := context.Background()

	seedCart(store, "u1", map[string]int{"P1": 2, "P2": 1})
	require.NoError(t, store.SaveSelection(ctx, "u1", []string{"P1"}))

	orderID, err := svc.PlaceOrder(ctx, "u1", validForm())
	require.NoError(t, err)

	order := models.Order{Items: repo.orders[orderID]}
	assert.Equal(t, 20.0, order.TotalCost())

	remaining, _ := store.Load(ctx, "u1")
	_, hasP1 := remaining.Quantity("P1")
	assert.False(t, hasP1, "P1 doit être retiré du panier")
	qty, hasP2 := remaining.Quantity("P2")
	require.True(t, hasP2, "P2 ne doit pas être touché")
	assert.Equal(t, 1, qty)

	sel, _ := store.LoadSelection(ctx, "u1")
	assert.Nil(t, sel, "la sélection doit être purgée")
}

func TestPlaceOrderWholeCartByDefault(t *testing.T) {
	store := newMemStore()
	repo := newMockRepo(
		models.Product{ID: "P1", Price: 10, Stock: 5},
		models.Product{ID: "P2", Price: 5, Stock: 5},
	)
	svc := NewService(repo, store)
	ctx := context.Background()

	seedCart(store, "u1", map[string]int{"P1": 2, "P2": 1})

	orderID, err := svc.PlaceOrder(ctx, "u1", validForm())
	require.NoError(t, err)

	order := models.Order{Items: repo.orders[orderID]}
	assert.Equal(t, 25.0, order.TotalCost())

	remaining, _ := store.Load(ctx, "u1")
	assert.Equal(t, 0, remaining.Count())
}

// Le total de commande est un instantané : changer le prix catalogue
// après coup ne change pas les lignes déjà écrites.
func TestOrderTotalIsSnapshot(t *testing.T) {
	store := newMemStore()
	repo := newMockRepo(models.Product{ID: "P1", Price: 10, Stock: 5})
	svc := NewService(repo, store)
	ctx := context.Background()

	seedCart(store, "u1", map[string]int{"P1": 2})

	orderID, err := svc.PlaceOrder(ctx, "u1", validForm())
	require.NoError(t, err)

	p := repo.products["P1"]
	p.Price = 99
	repo.products["P1"] = p

	order := models.Order{Items: repo.orders[orderID]}
	assert.Equal(t, 20.0, order.TotalCost())
}

func TestEmptyCartIsSoftOutcome(t *testing.T) {
	store := newMemStore()
	svc := NewService(newMockRepo(), store)

	_, _, err := svc.WorkingSet(context.Background(), "u1")
	assert.ErrorIs(t, err, ErrEmptySelection)
}

func TestSelectionOfVanishedProductsIsEmpty(t *testing.T) {
	store := newMemStore()
	repo := newMockRepo() // catalogue vide : produits disparus
	svc := NewService(repo, store)
	ctx := context.Background()

	seedCart(store, "u1", map[string]int{"fantome": 1})

	_, _, err := svc.WorkingSet(ctx, "u1")
	assert.ErrorIs(t, err, ErrEmptySelection)
}

// Une fois la commande commitée, un échec Redis sur la réconciliation
// du panier ne doit pas remonter en erreur : l'utilisateur resoumettrait
// le même panier et créerait une commande en double.
func TestPostCommitCartCleanupFailureStillSucceeds(t *testing.T) {
	store := newMemStore()
	repo := newMockRepo(models.Product{ID: "P1", Price: 10, Stock: 5})
	svc := NewService(repo, store)
	ctx := context.Background()

	seedCart(store, "u1", map[string]int{"P1": 2})
	store.saveErr = errors.New("redis: connexion refusée")

	orderID, err := svc.PlaceOrder(ctx, "u1", validForm())
	require.NoError(t, err, "la commande commitée fait foi")
	assert.NotEmpty(t, orderID)
	assert.Len(t, repo.orders, 1, "exactement une commande créée")
}

// Un échec de la transaction laisse panier, sélection et commandes
// exactement en l'état.
func TestFailedCheckoutLeavesStateUntouched(t *testing.T) {
	store := newMemStore()
	repo := newMockRepo(models.Product{ID: "P1", Price: 10, Stock: 5})
	repo.createErr = errors.New("stock insuffisant")
	svc := NewService(repo, store)
	ctx := context.Background()

	seedCart(store, "u1", map[string]int{"P1": 2})
	require.NoError(t, store.SaveSelection(ctx, "u1", []string{"P1"}))

	_, err := svc.PlaceOrder(ctx, "u1", validForm())
	require.Error(t, err)

	assert.Empty(t, repo.orders, "aucune commande partielle")
	remaining, _ := store.Load(ctx, "u1")
	qty, ok := remaining.Quantity("P1")
	require.True(t, ok)
	assert.Equal(t, 2, qty)
	sel, _ := store.LoadSelection(ctx, "u1")
	assert.Equal(t, []string{"P1"}, sel, "la sélection reste en attente")
}
