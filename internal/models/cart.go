package models

// CartLine est une ligne de panier enrichie avec le prix courant du
// produit, telle que renvoyée par la vue panier et le checkout.
type CartLine struct {
	Product   Product `json:"product"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	ItemTotal float64 `json:"item_total"`
}
