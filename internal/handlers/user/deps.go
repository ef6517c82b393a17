package user

import (
	"ministore_back_end/internal/cart"
	"ministore_back_end/internal/checkout"
)

// Dépendances injectées au démarrage (cmd/server).
var (
	Carts    cart.Store
	Checkout *checkout.Service
)

func Init(carts cart.Store, svc *checkout.Service) {
	Carts = carts
	Checkout = svc
}
