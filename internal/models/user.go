package models

import "time"

// Rôles possibles d'un compte
const (
	RoleCustomer = "CUSTOMER"
	RoleSeller   = "SELLER"
	RoleAdmin    = "ADMIN"
)

// Statuts du workflow vendeur (indépendant du rôle)
const (
	SellerStatusNone                  = "NONE"
	SellerStatusPending               = "PENDING"
	SellerStatusApproved              = "APPROVED"
	SellerStatusCancellationRequested = "CANCELLATION_REQUESTED"
)

type User struct {
	ID           string    `json:"user_id"`
	Email        string    `json:"email"`
	Name         string    `json:"name,omitempty"`
	PasswordHash string    `json:"-"`
	Provider     string    `json:"provider,omitempty"`
	Role         string    `json:"role"`
	SellerStatus string    `json:"seller_status"`
	FirstName    string    `json:"first_name,omitempty"`
	LastName     string    `json:"last_name,omitempty"`
	PhoneNumber  string    `json:"phone_number,omitempty"`
	Address      string    `json:"address,omitempty"`
	PostalCode   string    `json:"postal_code,omitempty"`
	City         string    `json:"city,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
