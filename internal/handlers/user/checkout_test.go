package user

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ministore_back_end/internal/cart"
	"ministore_back_end/internal/checkout"
	"ministore_back_end/internal/models"
)

type fakeStore struct {
	carts      map[string]cart.Cart
	selections map[string][]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{carts: map[string]cart.Cart{}, selections: map[string][]string{}}
}

func (s *fakeStore) Load(_ context.Context, userID string) (cart.Cart, error) {
	c, ok := s.carts[userID]
	if !ok {
		return cart.New(), nil
	}
	copied := cart.New()
	for id := range c {
		copied[id] = c[id]
	}
	return copied, nil
}

func (s *fakeStore) Save(_ context.Context, userID string, c cart.Cart) error {
	s.carts[userID] = c
	return nil
}

func (s *fakeStore) SaveSelection(_ context.Context, userID string, ids []string) error {
	s.selections[userID] = ids
	return nil
}

func (s *fakeStore) LoadSelection(_ context.Context, userID string) ([]string, error) {
	return s.selections[userID], nil
}

func (s *fakeStore) ClearSelection(_ context.Context, userID string) error {
	delete(s.selections, userID)
	return nil
}

// emptyCatalog : aucun produit, jamais sollicité sur les chemins testés.
type emptyCatalog struct{}

func (emptyCatalog) ProductsByIDs(context.Context, []string) ([]models.Product, error) {
	return nil, nil
}

func (emptyCatalog) CreateOrder(context.Context, string, checkout.ShippingForm, []checkout.WorkingSetItem) (string, error) {
	return "", nil
}

func placeOrderRouter(store *fakeStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	Init(store, checkout.NewService(emptyCatalog{}, store))

	r := gin.New()
	r.POST("/api/checkout", func(c *gin.Context) {
		c.Set("user_id", "u1")
		PlaceOrder(c)
	})
	return r
}

func postCheckout(t *testing.T, r *gin.Engine) map[string]any {
	body, err := json.Marshal(gin.H{
		"first_name":  "Jean",
		"last_name":   "Dupont",
		"email":       "jean@example.com",
		"address":     "1 rue de la Paix",
		"postal_code": "75002",
		"city":        "Paris",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/checkout", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// Panier non vide mais sélection qui ne correspond plus à rien : le
// message ne doit pas prétendre que le panier est vide.
func TestPlaceOrderStaleSelectionMessage(t *testing.T) {
	store := newFakeStore()
	c := cart.New()
	c.Add("P1", 1)
	store.carts["u1"] = c
	store.selections["u1"] = []string{"P2"}

	resp := postCheckout(t, placeOrderRouter(store))

	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "/cart", resp["redirect"])
	assert.Equal(t, "Aucun article sélectionné pour le checkout", resp["message"])
}

func TestPlaceOrderEmptyCartMessage(t *testing.T) {
	resp := postCheckout(t, placeOrderRouter(newFakeStore()))

	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "/cart", resp["redirect"])
	assert.Equal(t, "Votre panier est vide", resp["message"])
}
