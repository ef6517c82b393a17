package models

import "time"

// Order fige l'adresse de livraison au moment de la commande.
// Seul le flag Paid peut évoluer ensuite.
type Order struct {
	ID         string      `json:"id"`
	UserID     string      `json:"user_id"`
	FirstName  string      `json:"first_name"`
	LastName   string      `json:"last_name"`
	Email      string      `json:"email"`
	Address    string      `json:"address"`
	PostalCode string      `json:"postal_code"`
	City       string      `json:"city"`
	Paid       bool        `json:"paid"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
	Items      []OrderItem `json:"items,omitempty"`
}

type OrderItem struct {
	ID          string  `json:"id"`
	OrderID     string  `json:"order_id"`
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name,omitempty"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}

// Cost retourne le coût de la ligne (prix figé × quantité).
func (i OrderItem) Cost() float64 {
	return i.Price * float64(i.Quantity)
}

// TotalCost recalcule le total depuis les lignes. Le total n'est
// jamais persisté séparément.
func (o Order) TotalCost() float64 {
	total := 0.0
	for _, item := range o.Items {
		total += item.Cost()
	}
	return total
}
