package sellers

import (
	"errors"
	"fmt"

	"ministore_back_end/internal/models"
)

// Action du workflow vendeur. Request et RequestCancellation sont à
// l'initiative de l'utilisateur, le reste est réservé à l'admin.
type Action string

const (
	ActionRequest             Action = "request"
	ActionApprove             Action = "approve"
	ActionDeny                Action = "deny"
	ActionRequestCancellation Action = "request_cancellation"
	ActionApproveCancellation Action = "approve_cancellation"
	ActionRevoke              Action = "revoke"
)

var ErrInvalidTransition = errors.New("transition vendeur non autorisée")

// Transition est l'effet d'une action : nouveau rôle, nouveau statut,
// message pour l'utilisateur concerné, et notification éventuelle des
// admins quand il s'agit d'une demande.
type Transition struct {
	Role         string
	Status       string
	UserMessage  string
	NotifyAdmins bool
	AdminMessage string
}

// Apply calcule la transition pour l'état courant (rôle + statut).
// Toute combinaison non prévue est rejetée sans effet de bord.
func Apply(action Action, role, status, username string) (Transition, error) {
	switch action {
	case ActionRequest:
		if status != models.SellerStatusNone {
			return Transition{}, fmt.Errorf("%w: demande avec statut %s", ErrInvalidTransition, status)
		}
		return Transition{
			Role:         role,
			Status:       models.SellerStatusPending,
			UserMessage:  "Candidature vendeur envoyée ! Veuillez attendre la validation.",
			NotifyAdmins: true,
			AdminMessage: fmt.Sprintf("Nouvelle candidature vendeur : %s souhaite nous rejoindre.", username),
		}, nil

	case ActionApprove:
		if status != models.SellerStatusPending {
			return Transition{}, fmt.Errorf("%w: approbation avec statut %s", ErrInvalidTransition, status)
		}
		return Transition{
			Role:        models.RoleSeller,
			Status:      models.SellerStatusApproved,
			UserMessage: "Félicitations ! Votre candidature vendeur a été APPROUVÉE. Votre espace boutique est ouvert.",
		}, nil

	case ActionDeny:
		if status != models.SellerStatusPending {
			return Transition{}, fmt.Errorf("%w: refus avec statut %s", ErrInvalidTransition, status)
		}
		return Transition{
			Role:        models.RoleCustomer,
			Status:      models.SellerStatusNone,
			UserMessage: "Votre candidature vendeur n'a pas été retenue cette fois-ci. Vous pourrez repostuler plus tard.",
		}, nil

	case ActionRequestCancellation:
		if role != models.RoleSeller {
			return Transition{}, fmt.Errorf("%w: annulation demandée par un rôle %s", ErrInvalidTransition, role)
		}
		return Transition{
			Role:         role,
			Status:       models.SellerStatusCancellationRequested,
			UserMessage:  "Demande d'arrêt de vente transmise à l'admin. Veuillez attendre la validation.",
			NotifyAdmins: true,
			AdminMessage: fmt.Sprintf("Demande d'annulation : le vendeur %s souhaite arrêter de vendre.", username),
		}, nil

	case ActionApproveCancellation:
		if role != models.RoleSeller || status != models.SellerStatusCancellationRequested {
			return Transition{}, fmt.Errorf("%w: annulation approuvée pour %s/%s", ErrInvalidTransition, role, status)
		}
		return Transition{
			Role:        models.RoleCustomer,
			Status:      models.SellerStatusNone,
			UserMessage: "Votre demande d'arrêt de vente a été acceptée. Votre compte est redevenu un compte client.",
		}, nil

	case ActionRevoke:
		if role != models.RoleSeller {
			return Transition{}, fmt.Errorf("%w: révocation d'un rôle %s", ErrInvalidTransition, role)
		}
		return Transition{
			Role:        models.RoleCustomer,
			Status:      models.SellerStatusNone,
			UserMessage: "Vos privilèges vendeur ont été révoqués par l'admin.",
		}, nil
	}

	return Transition{}, fmt.Errorf("%w: action inconnue %q", ErrInvalidTransition, action)
}
