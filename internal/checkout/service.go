package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"

	"ministore_back_end/internal/cart"
	"ministore_back_end/internal/models"
)

// ErrEmptySelection : aucune ligne du panier ne participe au checkout.
// C'est une issue normale (retour panier), pas une erreur serveur.
var ErrEmptySelection = errors.New("aucun article sélectionné pour le checkout")

// ShippingForm est le formulaire de livraison validé, figé dans la
// commande à la création.
type ShippingForm struct {
	FirstName  string `json:"first_name" binding:"required"`
	LastName   string `json:"last_name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Address    string `json:"address" binding:"required"`
	PostalCode string `json:"postal_code" binding:"required"`
	City       string `json:"city" binding:"required"`
}

// WorkingSetItem est une ligne candidate au checkout, prix relu en
// base au moment de la construction (jamais mis en cache côté panier).
type WorkingSetItem struct {
	Product   models.Product `json:"product"`
	Quantity  int            `json:"quantity"`
	LineTotal float64        `json:"item_total"`
}

// Repository isole les écritures SQL du checkout. CreateOrder doit
// être atomique : commande + lignes + stock + notification dans une
// seule transaction.
type Repository interface {
	ProductsByIDs(ctx context.Context, ids []string) ([]models.Product, error)
	CreateOrder(ctx context.Context, userID string, form ShippingForm, items []WorkingSetItem) (string, error)
}

type Service struct {
	Repo  Repository
	Carts cart.Store
}

func NewService(repo Repository, carts cart.Store) *Service {
	return &Service{Repo: repo, Carts: carts}
}

// WorkingSet résout les lignes participant au checkout : intersection
// du panier et de la sélection en attente (sélection vide = panier
// entier), prix courants relus en base.
func (s *Service) WorkingSet(ctx context.Context, userID string) ([]WorkingSetItem, float64, error) {
	c, err := s.Carts.Load(ctx, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("lecture panier: %w", err)
	}

	selected, err := s.Carts.LoadSelection(ctx, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("lecture sélection: %w", err)
	}

	validIDs := c.Select(selected)
	if len(validIDs) == 0 {
		return nil, 0, ErrEmptySelection
	}

	products, err := s.Repo.ProductsByIDs(ctx, validIDs)
	if err != nil {
		return nil, 0, fmt.Errorf("lecture produits: %w", err)
	}

	var items []WorkingSetItem
	total := 0.0
	for _, p := range products {
		qty, ok := c.Quantity(p.ID)
		if !ok {
			continue
		}
		lineTotal := p.Price * float64(qty)
		total += lineTotal
		items = append(items, WorkingSetItem{Product: p, Quantity: qty, LineTotal: lineTotal})
	}

	if len(items) == 0 {
		return nil, 0, ErrEmptySelection
	}
	return items, total, nil
}

// PlaceOrder matérialise la commande. La transaction SQL couvre la
// commande, ses lignes, le stock et les notifications ; le panier et la
// sélection ne sont réécrits qu'après commit, et uniquement pour les
// produits effectivement commandés. Une fois la transaction commitée,
// la commande fait foi : un échec Redis sur la réconciliation du panier
// est seulement loggé, jamais remonté — renvoyer une erreur ici
// pousserait l'utilisateur à resoumettre et à commander deux fois.
func (s *Service) PlaceOrder(ctx context.Context, userID string, form ShippingForm) (string, error) {
	items, _, err := s.WorkingSet(ctx, userID)
	if err != nil {
		return "", err
	}

	orderID, err := s.Repo.CreateOrder(ctx, userID, form, items)
	if err != nil {
		return "", err
	}

	// Après commit : retirer exactement les ids commandés, laisser le
	// reste du panier intact, purger la sélection.
	c, err := s.Carts.Load(ctx, userID)
	if err != nil {
		log.Printf("⚠️ Relecture panier après la commande %s impossible: %v", orderID, err)
		return orderID, nil
	}
	for _, item := range items {
		c.Remove(item.Product.ID)
	}
	if err := s.Carts.Save(ctx, userID, c); err != nil {
		log.Printf("⚠️ Réconciliation panier après la commande %s impossible: %v", orderID, err)
	}
	if err := s.Carts.ClearSelection(ctx, userID); err != nil {
		log.Printf("⚠️ Purge sélection après la commande %s impossible: %v", orderID, err)
	}

	return orderID, nil
}
