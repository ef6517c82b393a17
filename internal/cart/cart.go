package cart

// Cart est le panier de session : product id → entrée.
// Même forme que le JSON stocké dans Redis.
type Cart map[string]Entry

type Entry struct {
	Quantity int `json:"quantity"`
}

func New() Cart {
	return Cart{}
}

// Add fusionne qty dans l'entrée existante ou la crée.
// Une quantité non exploitable (< 1) vaut 1.
func (c Cart) Add(productID string, qty int) {
	if qty < 1 {
		qty = 1
	}
	entry := c[productID]
	entry.Quantity += qty
	c[productID] = entry
}

// SetQuantity fixe la quantité d'une entrée existante, plancher à 1.
// Retourne false si le produit n'est pas dans le panier.
func (c Cart) SetQuantity(productID string, qty int) bool {
	entry, ok := c[productID]
	if !ok {
		return false
	}
	if qty < 1 {
		qty = 1
	}
	entry.Quantity = qty
	c[productID] = entry
	return true
}

// Adjust décale la quantité de delta (+1/-1), plancher à 1.
func (c Cart) Adjust(productID string, delta int) bool {
	entry, ok := c[productID]
	if !ok {
		return false
	}
	entry.Quantity += delta
	if entry.Quantity < 1 {
		entry.Quantity = 1
	}
	c[productID] = entry
	return true
}

func (c Cart) Remove(productID string) {
	delete(c, productID)
}

func (c Cart) Quantity(productID string) (int, bool) {
	entry, ok := c[productID]
	return entry.Quantity, ok
}

// Count est le nombre total d'articles (somme des quantités),
// renvoyé comme cart_count dans toutes les réponses panier.
func (c Cart) Count() int {
	total := 0
	for _, entry := range c {
		total += entry.Quantity
	}
	return total
}

// ProductIDs liste les ids présents dans le panier.
func (c Cart) ProductIDs() []string {
	ids := make([]string, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	return ids
}

// Select restreint une sélection aux ids réellement présents dans le
// panier. Une sélection vide vaut panier entier.
func (c Cart) Select(selected []string) []string {
	if len(selected) == 0 {
		return c.ProductIDs()
	}
	valid := make([]string, 0, len(selected))
	for _, id := range selected {
		if _, ok := c[id]; ok {
			valid = append(valid, id)
		}
	}
	return valid
}
