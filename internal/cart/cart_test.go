package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddMergesQuantities(t *testing.T) {
	c := New()
	c.Add("p1", 2)
	c.Add("p1", 3)
	c.Add("p2", 1)

	qty, ok := c.Quantity("p1")
	require.True(t, ok)
	assert.Equal(t, 5, qty)
	assert.Equal(t, 6, c.Count())
}

func TestAddInvalidQuantityDefaultsToOne(t *testing.T) {
	c := New()
	c.Add("p1", 0)
	c.Add("p2", -4)

	qty, _ := c.Quantity("p1")
	assert.Equal(t, 1, qty)
	qty, _ = c.Quantity("p2")
	assert.Equal(t, 1, qty)
}

func TestSetQuantityClampsToOne(t *testing.T) {
	c := New()
	c.Add("p1", 5)

	require.True(t, c.SetQuantity("p1", 0))
	qty, _ := c.Quantity("p1")
	assert.Equal(t, 1, qty)

	require.True(t, c.SetQuantity("p1", 7))
	qty, _ = c.Quantity("p1")
	assert.Equal(t, 7, qty)
}

func TestSetQuantityUnknownProduct(t *testing.T) {
	c := New()
	assert.False(t, c.SetQuantity("absent", 3))
	assert.Equal(t, 0, c.Count())
}

func TestAdjustNeverBelowOne(t *testing.T) {
	c := New()
	c.Add("p1", 1)

	require.True(t, c.Adjust("p1", -1))
	qty, _ := c.Quantity("p1")
	assert.Equal(t, 1, qty)

	require.True(t, c.Adjust("p1", 1))
	qty, _ = c.Quantity("p1")
	assert.Equal(t, 2, qty)
}

func TestRemove(t *testing.T) {
	c := New()
	c.Add("p1", 2)
	c.Add("p2", 1)
	c.Remove("p1")

	_, ok := c.Quantity("p1")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Count())
}

// Propriété : pour toute séquence add/update/remove, Count vaut la
// somme des quantités et aucune quantité ne descend sous 1.
func TestCountMatchesSumAfterMixedOperations(t *testing.T) {
	c := New()
	c.Add("a", 3)
	c.Add("b", 0)
	c.SetQuantity("a", -2)
	c.Adjust("b", -5)
	c.Add("c", 2)
	c.Remove("c")
	c.Add("d", 1)
	c.Adjust("d", 1)

	sum := 0
	for _, id := range c.ProductIDs() {
		qty, ok := c.Quantity(id)
		require.True(t, ok)
		require.GreaterOrEqual(t, qty, 1)
		sum += qty
	}
	assert.Equal(t, sum, c.Count())
	assert.Equal(t, 4, c.Count()) // a=1, b=1, d=2
}

func TestSelectDefaultsToWholeCart(t *testing.T) {
	c := New()
	c.Add("p1", 2)
	c.Add("p2", 1)

	ids := c.Select(nil)
	assert.ElementsMatch(t, []string{"p1", "p2"}, ids)
}

func TestSelectFiltersUnknownIDs(t *testing.T) {
	c := New()
	c.Add("p1", 2)
	c.Add("p2", 1)

	ids := c.Select([]string{"p2", "fantome"})
	assert.Equal(t, []string{"p2"}, ids)
}

func TestSelectAllUnknownIsEmpty(t *testing.T) {
	c := New()
	c.Add("p1", 2)

	assert.Empty(t, c.Select([]string{"x", "y"}))
}
