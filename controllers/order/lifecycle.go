package orderControllers

import (
	"context"
	"errors"

	"github.com/Zuluuu02/Farm-to-Plate-FINAL/models"
	"github.com/Zuluuu02/Farm-to-Plate-FINAL/store"
)

var (
	// ErrInvalidTransition rejects a (from, to, actor) triple that is not
	// in the transition table. No write occurs.
	ErrInvalidTransition = errors.New("orders: invalid status transition")
	// ErrNotParticipant rejects actors that are neither the order's buyer
	// nor its seller.
	ErrNotParticipant = errors.New("orders: actor is not a participant of this order")
)

type actorRole uint8

const (
	roleBuyer actorRole = 1 << iota
	roleSeller
)

// transitions is the authoritative lifecycle table:
//
//	Pending    -> Processing  (seller accepts)
//	Pending    -> Cancelled   (seller, or buyer while not yet accepted)
//	Processing -> Completed   (seller fulfilled)
//	Processing -> Cancelled   (seller cannot fulfil)
//
// Completed and Cancelled are terminal.
var transitions = map[models.OrderStatus]map[models.OrderStatus]actorRole{
	models.OrderStatusPending: {
		models.OrderStatusProcessing: roleSeller,
		models.OrderStatusCancelled:  roleSeller | roleBuyer,
	},
	models.OrderStatusProcessing: {
		models.OrderStatusCompleted: roleSeller,
		models.OrderStatusCancelled: roleSeller,
	},
}

func roleOf(order models.Order, actorID string) (actorRole, bool) {
	switch actorID {
	case order.UserID:
		return roleBuyer, true
	case order.StoreID:
		return roleSeller, true
	}
	return 0, false
}

func transitionAllowed(from, to models.OrderStatus, role actorRole) bool {
	return transitions[from][to]&role != 0
}

// AllowedTargets is the read-side contract: the statuses the given actor
// may move the order to from its current status. The UI must not offer
// anything beyond this set.
func AllowedTargets(order models.Order, actorID string) []models.OrderStatus {
	role, ok := roleOf(order, actorID)
	if !ok {
		return nil
	}
	var targets []models.OrderStatus
	for _, to := range []models.OrderStatus{models.OrderStatusProcessing, models.OrderStatusCompleted, models.OrderStatusCancelled} {
		if transitionAllowed(order.Status, to, role) {
			targets = append(targets, to)
		}
	}
	return targets
}

// Transition moves an order to target on behalf of actorID.
//
// The table check runs against the status freshly read inside the
// transaction, so two racing transitions (say Pending->Processing and
// Pending->Cancelled) serialize: one commits, the other re-reads the new
// terminal state and is rejected.
func Transition(ctx context.Context, s store.Store, orderID string, target models.OrderStatus, actorID string) error {
	return s.RunTransaction(ctx, func(tx store.Tx) error {
		var order models.Order
		if err := tx.Get(models.OrdersCollection, orderID, &order); err != nil {
			return err
		}

		role, ok := roleOf(order, actorID)
		if !ok {
			return ErrNotParticipant
		}
		if !transitionAllowed(order.Status, target, role) {
			return ErrInvalidTransition
		}

		order.Status = target
		tx.Set(models.OrdersCollection, orderID, order)
		return nil
	})
}
